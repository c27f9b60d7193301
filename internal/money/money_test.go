package money

import (
	"testing"

	"github.com/shopspring/decimal"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestQuantizeTruncates(t *testing.T) {
	got := Quantize(d("10.1234567891"))
	if !got.Equal(d("10.123456")) {
		t.Fatalf("got %s, want 10.123456", got)
	}
}

func TestShareExact(t *testing.T) {
	// 100 of 1000 tokens over a 1000 pool = 100
	got := Share(d("100"), d("1000"), d("1000"))
	if !got.Equal(d("100")) {
		t.Fatalf("got %s, want 100", got)
	}
}

func TestShareTruncatesAtScale(t *testing.T) {
	// 1 of 3 tokens over a 100 pool = 33.333333...
	got := Share(d("1"), d("3"), d("100"))
	if !got.Equal(d("33.333333")) {
		t.Fatalf("got %s, want 33.333333", got)
	}
}

func TestResidualNeverNegative(t *testing.T) {
	pool := d("100")
	shares := []decimal.Decimal{
		Share(d("1"), d("3"), pool),
		Share(d("1"), d("3"), pool),
		Share(d("1"), d("3"), pool),
	}
	res := Residual(pool, shares)
	if res.IsNegative() {
		t.Fatalf("residual is negative: %s", res)
	}
	if !res.Equal(d("0.000001")) {
		t.Fatalf("residual = %s, want 0.000001", res)
	}
}

func TestResidualZeroWhenExact(t *testing.T) {
	pool := d("1000")
	shares := []decimal.Decimal{
		Share(d("100"), d("1000"), pool),
		Share(d("100"), d("1000"), pool),
	}
	if res := Residual(pool.Sub(d("800")), shares); !res.Equal(d("0")) {
		t.Fatalf("residual = %s, want 0", res)
	}
}
