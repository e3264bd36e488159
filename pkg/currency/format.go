package currency

import (
	"fmt"
	"strconv"
)

var symbols = map[string]string{
	"RUB": "₽", "USD": "$", "EUR": "€", "GBP": "£", "CNY": "¥",
}

func symbol(code string) string {
	if s, ok := symbols[code]; ok {
		return s
	}
	return code
}

// Format renders a conversion result for chat.
func Format(c Conversion) string {
	return fmt.Sprintf("💱 Conversion:\n%s %s = %s %s\nRate: 1 %s = %s %s (CBR)",
		formatAmount(c.Amount), symbol(c.From),
		formatAmount(c.Result), symbol(c.To),
		c.From, strconv.FormatFloat(c.Rate, 'f', -1, 64), c.To,
	)
}

// formatAmount groups thousands with a thin space and keeps at most two decimals.
func formatAmount(v float64) string {
	s := strconv.FormatFloat(roundTo(v, 2), 'f', -1, 64)

	intPart, frac := s, ""
	for i := 0; i < len(s); i++ {
		if s[i] == '.' {
			intPart, frac = s[:i], s[i:]
			break
		}
	}

	sign := ""
	if len(intPart) > 0 && intPart[0] == '-' {
		sign, intPart = "-", intPart[1:]
	}

	var out []byte
	for i, d := range []byte(intPart) {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			out = append(out, ' ')
		}
		out = append(out, d)
	}
	return sign + string(out) + frac
}
