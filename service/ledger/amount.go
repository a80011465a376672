package ledger

import (
	"math/big"
	"strings"

	"github.com/cockroachdb/errors"
)

// CurrencyDecimals is the native currency precision of the target network.
const CurrencyDecimals = 18

// ParseAmount converts a human decimal amount (e.g. "0.01") into wei.
// Amounts travel as integers everywhere past this boundary so no
// floating-point precision is ever lost.
func ParseAmount(s string, decimals int) (*big.Int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, errors.New("amount is empty")
	}
	if strings.HasPrefix(s, "-") {
		return nil, errors.Newf("amount %q is negative", s)
	}

	whole, frac, _ := strings.Cut(s, ".")
	if whole == "" {
		whole = "0"
	}
	if len(frac) > decimals {
		return nil, errors.Newf("amount %q has more than %d decimal places", s, decimals)
	}
	frac += strings.Repeat("0", decimals-len(frac))

	out, ok := new(big.Int).SetString(whole+frac, 10)
	if !ok {
		return nil, errors.Newf("amount %q is not a decimal number", s)
	}
	return out, nil
}

// FormatAmount renders wei as a human decimal string, trimming trailing
// zeros ("10000000000000000" → "0.01").
func FormatAmount(wei *big.Int, decimals int) string {
	if wei == nil {
		return "0"
	}

	scale := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(decimals)), nil)
	whole, frac := new(big.Int).QuoRem(new(big.Int).Abs(wei), scale, new(big.Int))

	sign := ""
	if wei.Sign() < 0 {
		sign = "-"
	}

	if frac.Sign() == 0 {
		return sign + whole.String()
	}

	fracStr := frac.String()
	fracStr = strings.Repeat("0", decimals-len(fracStr)) + fracStr
	fracStr = strings.TrimRight(fracStr, "0")
	return sign + whole.String() + "." + fracStr
}
