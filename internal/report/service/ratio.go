package service

import (
	"math"

	reportdomain "github.com/adlenslabs/adlens/internal/report/domain"
)

// CalculateEPC returns commission/clicks rounded to 4 decimal places.
// Undefined when clicks is zero or either input is missing, and on any
// non-finite result. Zero commission over positive clicks is a defined 0.0,
// which is a different statement than "no data".
func CalculateEPC(commission *float64, clicks *int64) reportdomain.Ratio {
	if commission == nil || clicks == nil || *clicks == 0 {
		return reportdomain.UndefinedRatio()
	}
	epc := *commission / float64(*clicks)
	if math.IsNaN(epc) || math.IsInf(epc, 0) {
		return reportdomain.UndefinedRatio()
	}
	return reportdomain.DefinedRatio(round(epc, 4))
}

// CalculateROI returns (EPC - CPC) / CPC * 100 rounded to 2 decimal places.
// Undefined whenever EPC is undefined, CPC is zero or missing, or the result
// is non-finite.
func CalculateROI(epc reportdomain.Ratio, cpc *float64) reportdomain.Ratio {
	if !epc.Defined || cpc == nil || *cpc == 0 {
		return reportdomain.UndefinedRatio()
	}
	roi := (epc.Value - *cpc) / *cpc * 100
	if math.IsNaN(roi) || math.IsInf(roi, 0) {
		return reportdomain.UndefinedRatio()
	}
	return reportdomain.DefinedRatio(round(roi, 2))
}

// ValidateRawInputs is the pre-check guarding both calculators: negative raw
// figures are a caller error, not a sign-flipped ratio.
func ValidateRawInputs(commission *float64, clicks *int64, cpc *float64) error {
	if commission != nil && *commission < 0 {
		return reportdomain.NewValidationError("commission", "must not be negative")
	}
	if clicks != nil && *clicks < 0 {
		return reportdomain.NewValidationError("clicks", "must not be negative")
	}
	if cpc != nil && *cpc < 0 {
		return reportdomain.NewValidationError("cpc", "must not be negative")
	}
	return nil
}

func round(v float64, places int) float64 {
	factor := math.Pow(10, float64(places))
	return math.Round(v*factor) / factor
}

func float64Ptr(v float64) *float64 { return &v }

func int64Ptr(v int64) *int64 { return &v }
