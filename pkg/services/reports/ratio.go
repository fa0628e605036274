package reports

import "github.com/shopspring/decimal"

var hundred = decimal.NewFromInt(100)

// ratio returns num/den, or an invalid NullDecimal when den is zero.
func ratio(num, den decimal.Decimal) decimal.NullDecimal {
	if den.IsZero() {
		return decimal.NullDecimal{}
	}
	return decimal.NewNullDecimal(num.Div(den))
}

func percent(num, den decimal.Decimal) decimal.NullDecimal {
	r := ratio(num, den)
	if !r.Valid {
		return r
	}
	return decimal.NewNullDecimal(r.Decimal.Mul(hundred))
}

func average(sum decimal.Decimal, count int64) decimal.NullDecimal {
	return ratio(sum, decimal.NewFromInt(count))
}
