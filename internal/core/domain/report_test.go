package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/kvistberg/work_order_app/internal/apperrors"
	"github.com/kvistberg/work_order_app/internal/core/domain"
)

func TestNormalizeReportNumber(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "bare number gets prefix", input: "1234", want: "WO1234"},
		{name: "prefixed number unchanged", input: "WO1234", want: "WO1234"},
		{name: "whitespace trimmed before prefixing", input: "  1234 ", want: "WO1234"},
		{name: "prefixed with whitespace", input: " WO1234 ", want: "WO1234"},
		{name: "normalization is idempotent", input: domain.NormalizeReportNumber("99"), want: "WO99"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, domain.NormalizeReportNumber(tt.input))
		})
	}
}

func TestValidateReportStatus(t *testing.T) {
	assert.NoError(t, domain.ValidateReportStatus(domain.ReportStatusActive))
	assert.NoError(t, domain.ValidateReportStatus(domain.ReportStatusRejected))
	assert.NoError(t, domain.ValidateReportStatus(domain.ReportStatusCompleted))

	assert.ErrorIs(t, domain.ValidateReportStatus("Archived"), apperrors.ErrValidation)
	assert.ErrorIs(t, domain.ValidateReportStatus(""), apperrors.ErrValidation)
	assert.ErrorIs(t, domain.ValidateReportStatus("active"), apperrors.ErrValidation)
}
