package service

import (
	"math"
	"testing"

	reportdomain "github.com/adlenslabs/adlens/internal/report/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalculateEPC(t *testing.T) {
	epc := CalculateEPC(float64Ptr(100), int64Ptr(50))
	require.True(t, epc.Defined)
	assert.Equal(t, 2.0, epc.Value)
}

func TestCalculateEPCRounding(t *testing.T) {
	epc := CalculateEPC(float64Ptr(10), int64Ptr(3))
	require.True(t, epc.Defined)
	assert.Equal(t, 3.3333, epc.Value)
}

func TestCalculateEPCZeroClicksUndefined(t *testing.T) {
	epc := CalculateEPC(float64Ptr(100), int64Ptr(0))
	assert.False(t, epc.Defined)
}

func TestCalculateEPCMissingInputsUndefined(t *testing.T) {
	assert.False(t, CalculateEPC(nil, int64Ptr(10)).Defined)
	assert.False(t, CalculateEPC(float64Ptr(100), nil).Defined)
}

func TestCalculateEPCZeroCommissionIsDefinedZero(t *testing.T) {
	// Zero earnings over real clicks is a fact, not missing data.
	epc := CalculateEPC(float64Ptr(0), int64Ptr(25))
	require.True(t, epc.Defined)
	assert.Equal(t, 0.0, epc.Value)
}

func TestCalculateEPCNonFiniteUndefined(t *testing.T) {
	assert.False(t, CalculateEPC(float64Ptr(math.Inf(1)), int64Ptr(1)).Defined)
	assert.False(t, CalculateEPC(float64Ptr(math.NaN()), int64Ptr(1)).Defined)
}

func TestCalculateROI(t *testing.T) {
	roi := CalculateROI(reportdomain.DefinedRatio(2.0), float64Ptr(1.0))
	require.True(t, roi.Defined)
	assert.Equal(t, 100.0, roi.Value)
}

func TestCalculateROIRounding(t *testing.T) {
	roi := CalculateROI(reportdomain.DefinedRatio(1.0), float64Ptr(3.0))
	require.True(t, roi.Defined)
	assert.Equal(t, -66.67, roi.Value)
}

func TestCalculateROIZeroCPCUndefined(t *testing.T) {
	assert.False(t, CalculateROI(reportdomain.DefinedRatio(2.0), float64Ptr(0)).Defined)
	assert.False(t, CalculateROI(reportdomain.DefinedRatio(2.0), nil).Defined)
}

func TestCalculateROIUndefinedEPCPropagates(t *testing.T) {
	// commission=100, clicks=0 -> EPC undefined -> ROI undefined for any cpc.
	epc := CalculateEPC(float64Ptr(100), int64Ptr(0))
	roi := CalculateROI(epc, float64Ptr(1.5))
	assert.False(t, roi.Defined)
}

func TestValidateRawInputsRejectsNegatives(t *testing.T) {
	err := ValidateRawInputs(float64Ptr(-1), nil, nil)
	require.Error(t, err)
	assert.True(t, reportdomain.IsValidation(err))

	err = ValidateRawInputs(nil, int64Ptr(-5), nil)
	require.Error(t, err)

	err = ValidateRawInputs(nil, nil, float64Ptr(-0.5))
	require.Error(t, err)

	assert.NoError(t, ValidateRawInputs(float64Ptr(0), int64Ptr(0), float64Ptr(0)))
}
