package excel

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"waitstat/domain/core"
	domain "waitstat/domain/stats"
	apperrors "waitstat/internal/errors"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func writeWorkbook(t *testing.T, rows [][]interface{}) string {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, cell, &row))
	}
	path := filepath.Join(t.TempDir(), "waits.xlsx")
	require.NoError(t, f.SaveAs(path))
	return path
}

func TestReadGroupsCSV(t *testing.T) {
	path := writeFile(t, "waits.csv", "app,espera_min\nA,4.5\nB,6\n\nA,3\nC,9\nB, 7.25\n")

	groups, err := NewDataReader(path).ReadGroups(context.Background(), "A", "B")
	require.NoError(t, err)

	assert.Equal(t, domain.Sample{4.5, 3}, groups.A)
	assert.Equal(t, domain.Sample{6, 7.25}, groups.B)
	assert.Equal(t, 1, groups.Ignored)
	assert.Equal(t, core.GroupLabel("A"), groups.LabelA)
}

func TestReadGroupsHeaderNamesIgnored(t *testing.T) {
	path := writeFile(t, "waits.csv", "provider,minutes\nA,1\nB,2\n")

	groups, err := NewDataReader(path).ReadGroups(context.Background(), "A", "B")
	require.NoError(t, err)
	assert.Equal(t, domain.Sample{1}, groups.A)
	assert.Equal(t, domain.Sample{2}, groups.B)
}

func TestReadGroupsXLSX(t *testing.T) {
	path := writeWorkbook(t, [][]interface{}{
		{"app", "espera_min"},
		{"A", 5.5},
		{"B", 8},
		{"A", 2},
	})

	groups, err := NewDataReader(path).ReadGroups(context.Background(), "A", "B")
	require.NoError(t, err)
	assert.Equal(t, domain.Sample{5.5, 2}, groups.A)
	assert.Equal(t, domain.Sample{8}, groups.B)
}

func TestReadGroupsRejectsBadValues(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantMsg string
	}{
		{"non numeric", "app,espera_min\nA,1\nB,soon\n", "row 3"},
		{"not finite", "app,espera_min\nA,NaN\n", "row 2"},
		{"infinite", "app,espera_min\nA,1\nA,2\nB,+Inf\n", "row 4"},
		{"missing value", "app,espera_min\nA\n", "row 2"},
		{"header only", "app,espera_min\n", "header row"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, "waits.csv", tt.content)
			_, err := NewDataReader(path).ReadGroups(context.Background(), "A", "B")
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantMsg)
			assert.Equal(t, apperrors.CodeInvalidInput, apperrors.GetCode(err))
		})
	}
}

func TestReadGroupsMissingFile(t *testing.T) {
	_, err := NewDataReader(filepath.Join(t.TempDir(), "absent.csv")).ReadGroups(context.Background(), "A", "B")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "CSV file not found")
}

func TestReadGroupsCancelled(t *testing.T) {
	path := writeFile(t, "waits.csv", "app,espera_min\nA,1\n")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewDataReader(path).ReadGroups(ctx, "A", "B")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestFileTypeDetection(t *testing.T) {
	assert.Equal(t, "csv", NewDataReader("data/waits.CSV").fileType)
	assert.Equal(t, "xlsx", NewDataReader("data/waits.xlsx").fileType)
	assert.Equal(t, "xlsx", NewDataReader("data/waits").fileType)
}
