// Package money fixes the decimal policy for every monetary and token
// amount in the system. Quantities are shopspring decimals stored as
// numeric(18,6); floats never enter the ledger.
package money

import "github.com/shopspring/decimal"

// Scale is the number of fractional places carried by all balances,
// prices and token counts.
const Scale = 6

var Zero = decimal.Zero

// Quantize truncates d to the ledger scale.
func Quantize(d decimal.Decimal) decimal.Decimal {
	return d.Truncate(Scale)
}

// Share computes the pro-rata slice of pool owned by tokens out of
// totalTokens, truncated at the ledger scale. Truncation guarantees the
// sum of all shares never exceeds the pool.
func Share(tokens, totalTokens, pool decimal.Decimal) decimal.Decimal {
	return tokens.Mul(pool).Div(totalTokens).Truncate(Scale)
}

// Residual returns whatever part of pool the truncated shares left
// unallocated. It is always >= 0 and smaller than one unit per holder.
func Residual(pool decimal.Decimal, shares []decimal.Decimal) decimal.Decimal {
	sum := decimal.Zero
	for _, s := range shares {
		sum = sum.Add(s)
	}
	return pool.Sub(sum)
}
