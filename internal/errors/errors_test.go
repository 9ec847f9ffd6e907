package errors

import (
	stderrors "errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"waitstat/domain/core"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		err  error
		code string
	}{
		{core.NewInsufficientDataError("t-test", 1, 2), CodeInsufficientData},
		{core.NewConfidenceLevelError(1.2), CodeInvalidConfidence},
		{core.NewProportionError("negative"), CodeInvalidProportion},
		{core.NewDivisionByZeroError("pooled sd"), CodeDivisionByZero},
		// matches both sentinels; proportion wins
		{core.NewInvalidCountError(5, 4), CodeInvalidProportion},
		{core.NewNotFoundError("report", "x"), CodeNotFound},
		{NotFound("report", "x"), CodeNotFound},
		{stderrors.New("boom"), CodeInternalError},
		{ValidationError("bad body"), CodeValidationError},
	}

	for _, tc := range tests {
		assert.Equal(t, tc.code, Classify(tc.err), "%v", tc.err)
	}
}

func TestWrapKeepsDomainClassification(t *testing.T) {
	err := Wrap(core.NewDivisionByZeroError("variance"), "variance ratio")
	assert.Equal(t, CodeDivisionByZero, GetCode(err))
	assert.True(t, stderrors.Is(err, core.ErrDivisionByZero))
	assert.Contains(t, err.Error(), "variance ratio: division by zero")

	assert.Nil(t, Wrap(nil, "nothing"))
	assert.Equal(t, "UNKNOWN", GetCode(stderrors.New("plain")))
}

func TestWithCode(t *testing.T) {
	err := WithCode(CodeInvalidInput, stderrors.New("missing group"))
	assert.Equal(t, CodeInvalidInput, GetCode(err))

	recoded := WithCode(CodeNotFound, ValidationError("x"))
	assert.Equal(t, CodeNotFound, GetCode(recoded))
}

func TestNotFoundKeepsDomainSentinel(t *testing.T) {
	err := NotFound("report", "42")
	assert.Equal(t, CodeNotFound, GetCode(err))
	assert.True(t, stderrors.Is(err, core.ErrNotFound))
	assert.Equal(t, "report lookup: resource not found: report with id 42", err.Error())
	assert.Equal(t, http.StatusNotFound, HTTPStatus(Classify(err)))
}

func TestHTTPStatus(t *testing.T) {
	assert.Equal(t, http.StatusUnprocessableEntity, HTTPStatus(CodeInsufficientData))
	assert.Equal(t, http.StatusUnprocessableEntity, HTTPStatus(CodeDivisionByZero))
	assert.Equal(t, http.StatusBadRequest, HTTPStatus(CodeValidationError))
	assert.Equal(t, http.StatusNotFound, HTTPStatus(CodeNotFound))
	assert.Equal(t, http.StatusInternalServerError, HTTPStatus(CodeDatabaseError))
}
