package migration

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSchemaOrder(t *testing.T) {
	steps := NewRunner().steps
	require.NotEmpty(t, steps)

	assert.Contains(t, steps[0].sql, "CREATE TABLE IF NOT EXISTS comparison_reports")
	assert.False(t, steps[0].optional, "table creation must not be optional")

	for _, s := range steps {
		assert.Contains(t, s.sql, "IF NOT EXISTS", "%s must be idempotent", s.name)
	}
}

func TestSchemaColumnsMatchRepository(t *testing.T) {
	table := NewRunner().steps[0].sql
	for _, col := range []string{"id UUID PRIMARY KEY", "fingerprint", "label_a", "label_b", "payload JSONB", "created_at"} {
		assert.True(t, strings.Contains(table, col), "missing column %s", col)
	}
}

func TestVersion(t *testing.T) {
	assert.Equal(t, "1.0.0", NewRunner().Version())
}
