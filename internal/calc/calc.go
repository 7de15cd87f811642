// Package calc holds the pure financial calculators: EMI, fixed-deposit
// maturity and date arithmetic. All money math is decimal; results are
// rounded to two places only at the edges.
package calc

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

var (
	one     = decimal.NewFromInt(1)
	hundred = decimal.NewFromInt(100)
	twelve  = decimal.NewFromInt(12)
)

// EMI returns the equated monthly installment for a loan of principal at
// annualRate percent over months, rounded to two places.
//
//	EMI = P * r * (1+r)^n / ((1+r)^n - 1), r = annualRate/12/100
//
// A zero rate degenerates to principal/months.
func EMI(principal, annualRate decimal.Decimal, months int) decimal.Decimal {
	n := decimal.NewFromInt(int64(months))
	monthlyRate := annualRate.Div(twelve).Div(hundred)
	if monthlyRate.IsZero() {
		return principal.Div(n).Round(2)
	}
	factor := one.Add(monthlyRate).Pow(n)
	emi := principal.Mul(monthlyRate).Mul(factor).Div(factor.Sub(one))
	return emi.Round(2)
}

// FDMaturityAmount returns principal plus simple interest at annualRate
// percent for a tenure of months, rounded to two places. Interest is not
// compounded: it is added once for the full tenure.
func FDMaturityAmount(principal, annualRate decimal.Decimal, months int) decimal.Decimal {
	years := decimal.NewFromInt(int64(months)).Div(twelve)
	interest := principal.Mul(annualRate).Mul(years).Div(hundred)
	return principal.Add(interest).Round(2)
}

// MaturityDate returns start advanced by the tenure in calendar months.
func MaturityDate(start time.Time, months int) time.Time {
	return start.AddDate(0, months, 0)
}

// FormatINR renders an amount as Indian rupees with lakh/crore digit
// grouping, e.g. 1234567.8 -> "₹12,34,567.80".
func FormatINR(amount decimal.Decimal) string {
	s := amount.Abs().StringFixed(2)
	intPart, fracPart, _ := strings.Cut(s, ".")

	var b strings.Builder
	if amount.IsNegative() {
		b.WriteString("-")
	}
	b.WriteString("₹")
	b.WriteString(groupIndian(intPart))
	b.WriteString(".")
	b.WriteString(fracPart)
	return b.String()
}

// groupIndian inserts commas after the last three digits and then every two.
func groupIndian(digits string) string {
	if len(digits) <= 3 {
		return digits
	}
	head := digits[:len(digits)-3]
	tail := digits[len(digits)-3:]

	var groups []string
	for len(head) > 2 {
		groups = append([]string{head[len(head)-2:]}, groups...)
		head = head[:len(head)-2]
	}
	if head != "" {
		groups = append([]string{head}, groups...)
	}
	return strings.Join(groups, ",") + "," + tail
}
