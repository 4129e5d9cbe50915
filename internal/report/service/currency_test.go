package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeAmountCNY(t *testing.T) {
	assert.Equal(t, 100.0, NormalizeAmount(720.0, "CNY", 7.2))
}

func TestNormalizeAmountUSDPassthrough(t *testing.T) {
	assert.Equal(t, 720.0, NormalizeAmount(720.0, "USD", 7.2))
}

func TestNormalizeAmountUnknownCurrencyPassthrough(t *testing.T) {
	assert.Equal(t, 50.0, NormalizeAmount(50.0, "EUR", 7.2))
}

func TestNormalizeAmountIsPure(t *testing.T) {
	for _, rate := range []float64{6.5, 7.0, 7.2} {
		for _, amount := range []float64{0, 1, 99.99, 10000} {
			assert.Equal(t, amount/rate, NormalizeAmount(amount, "CNY", rate))
			assert.Equal(t, amount, NormalizeAmount(amount, "USD", rate))
		}
	}
}
