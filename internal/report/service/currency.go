package service

// CurrencyCNY is the only currency with a defined conversion; everything else
// passes through as already-USD.
const CurrencyCNY = "CNY"

// NormalizeAmount converts amount to USD. CNY divides by the configured fixed
// rate; the rate is a parameter, not ambient state, so the function stays
// pure and a rate change applies retroactively on the next read.
func NormalizeAmount(amount float64, currency string, cnyRate float64) float64 {
	if currency != CurrencyCNY {
		return amount
	}
	if cnyRate <= 0 {
		return amount
	}
	return amount / cnyRate
}
