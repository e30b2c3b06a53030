// Package amount parses heterogeneous statement amount tokens into signed decimals.
//
// Statement exports disagree on how to mark negative amounts: parentheses,
// a leading minus, or an embedded DR marker all appear in the wild, sometimes
// alongside currency labels and thousands separators. Parse normalizes all of
// them to a single signed value.
package amount

import (
	"strings"

	"github.com/shopspring/decimal"
)

// currency labels stripped before numeric parsing. Longer labels first so
// "KSh" is removed before the bare "K" in "KES" could be mangled.
var currencyLabels = []string{"KSH", "KES", "Ksh", "KSh", "ksh", "kes"}

// Parse converts an amount token such as "(1,234.50)", "1,200.00 CR",
// "KSh 500.00 DR" or "-350.00" into a signed decimal.
//
// Negativity is detected from enclosing parentheses, a minus sign, or an
// embedded DR marker. A CR marker forces positive only when no negative
// marker is present: any negative marker wins, even in tokens like
// "(1,200.00) CR".
//
// Parse never fails. Any token whose residue is not numeric yields zero, and
// callers must treat zero as "no valid amount" and drop the row.
func Parse(token string) decimal.Decimal {
	s := strings.TrimSpace(token)
	if s == "" {
		return decimal.Zero
	}

	upper := strings.ToUpper(s)
	negative := (strings.Contains(s, "(") && strings.Contains(s, ")")) ||
		strings.Contains(s, "-") ||
		strings.Contains(upper, "DR")

	s = stripMarkers(s)
	s = strings.ReplaceAll(s, "-", "")

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}

	if negative {
		return d.Abs().Neg()
	}
	return d.Abs()
}

// HasExplicitSign reports whether the raw token carries any sign marker
// (CR, DR, parentheses or minus). Tokens without one are candidates for
// sign inference from the transaction type.
func HasExplicitSign(token string) bool {
	upper := strings.ToUpper(token)
	return strings.Contains(upper, "CR") ||
		strings.Contains(upper, "DR") ||
		strings.ContainsAny(token, "()-")
}

func stripMarkers(s string) string {
	for _, label := range currencyLabels {
		s = strings.ReplaceAll(s, label, "")
	}
	upper := strings.ToUpper(s)
	// Remove CR/DR markers by position so the original casing of digits is kept.
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		if (upper[i] == 'C' || upper[i] == 'D') && i+1 < len(s) && upper[i+1] == 'R' {
			i++
			continue
		}
		b.WriteByte(s[i])
	}
	s = b.String()
	s = strings.ReplaceAll(s, ",", "")
	s = strings.ReplaceAll(s, "(", "")
	s = strings.ReplaceAll(s, ")", "")
	return strings.TrimSpace(s)
}
