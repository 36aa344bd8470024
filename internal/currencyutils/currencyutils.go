// Package currencyutils parses invoice amounts into decimal values.
package currencyutils

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// ErrEmptyAmount is returned for blank amount cells.
var ErrEmptyAmount = errors.New("empty amount")

var symbolReplacer = strings.NewReplacer(
	"CHF", "", "USD", "", "EUR", "", "GBP", "",
	"$", "", "€", "", "£", "", "¥", "",
	" ", "", "\u00a0", "", "'", "", "_", "",
)

// ParseAmount parses an invoice amount such as "120.00", "$1,250.50",
// "CHF 1'250.50", "1.250,50" or "(45.00)". Parentheses mean a negative
// amount.
func ParseAmount(amountStr string) (decimal.Decimal, error) {
	standardized, negative := StandardizeAmount(amountStr)
	if standardized == "" {
		return decimal.Zero, ErrEmptyAmount
	}

	amount, err := decimal.NewFromString(standardized)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to parse amount '%s': %w", amountStr, err)
	}
	if negative {
		amount = amount.Neg()
	}
	return amount, nil
}

// StandardizeAmount strips currency markers and thousands separators so the
// result can be read by decimal.NewFromString. It reports separately whether
// the amount was written in accounting parentheses.
//
// With both separators present the last one is the decimal mark. A lone
// comma followed by exactly two digits is a decimal mark; any other comma
// separates thousands.
func StandardizeAmount(amountStr string) (string, bool) {
	s := strings.TrimSpace(amountStr)
	negative := len(s) > 1 && strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")")
	if negative {
		s = s[1 : len(s)-1]
	}
	s = symbolReplacer.Replace(s)

	lastComma := strings.LastIndex(s, ",")
	lastDot := strings.LastIndex(s, ".")
	switch {
	case lastComma >= 0 && lastDot >= 0:
		if lastDot < lastComma {
			s = strings.ReplaceAll(s, ".", "")
			s = strings.Replace(s, ",", ".", 1)
		} else {
			s = strings.ReplaceAll(s, ",", "")
		}
	case lastComma >= 0:
		if strings.Count(s, ",") == 1 && len(s)-lastComma-1 == 2 {
			s = strings.Replace(s, ",", ".", 1)
		} else {
			s = strings.ReplaceAll(s, ",", "")
		}
	}
	return s, negative
}
