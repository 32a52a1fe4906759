package handlers

import (
	"errors"
	"strconv"

	"jobfinder/internal/money"

	"github.com/shopspring/decimal"
)

var errInvalidAmount = errors.New("invalid amount")

// parseAmountMinor accepts a positive rupee amount with at most two decimal
// places and returns paise.
func parseAmountMinor(raw string) (int64, error) {
	parsed, err := decimal.NewFromString(raw)
	if err != nil || parsed.LessThanOrEqual(decimal.Zero) {
		return 0, errInvalidAmount
	}
	minor, err := money.ParseMinor(raw)
	if err != nil {
		return 0, errInvalidAmount
	}
	return minor, nil
}

func parseInt(raw string, fallback int) int {
	value, err := strconv.Atoi(raw)
	if err != nil || value <= 0 {
		return fallback
	}
	return value
}
