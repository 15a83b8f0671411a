package contracts

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVerdictDisplay(t *testing.T) {
	tests := []struct {
		verdict Verdict
		want    string
	}{
		{VerdictStrongFit, "Strong Fit"},
		{VerdictModerateFit, "Fit"},
		{VerdictWeakFit, "Borderline"},
		{VerdictPoorFit, "Not a Fit"},
		{VerdictInsufficientData, "Insufficient Data"},
		{Verdict("garbage"), "Insufficient Data"},
		{Verdict(""), "Insufficient Data"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.verdict.Display(), "verdict %q", tt.verdict)
	}
}

func TestVerdictValid(t *testing.T) {
	for _, v := range []Verdict{
		VerdictStrongFit, VerdictModerateFit, VerdictWeakFit,
		VerdictPoorFit, VerdictInsufficientData,
	} {
		assert.True(t, v.Valid(), "verdict %q", v)
	}

	assert.False(t, Verdict("Strong Fit").Valid(), "display strings are not wire verdicts")
	assert.False(t, Verdict("").Valid())
	assert.False(t, Verdict("maybe_fit").Valid())
}
