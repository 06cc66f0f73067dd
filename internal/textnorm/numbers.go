package textnorm

import "strings"

var cardinalUnits = []string{
	"nolla", "yksi", "kaksi", "kolme", "neljä",
	"viisi", "kuusi", "seitsemän", "kahdeksan", "yhdeksän",
}

// expandCardinal spells a non-negative number as a Finnish cardinal compound
// word, one token per scale group ("2345" -> "kaksituhatta
// kolmesataaneljäkymmentäviisi"). Numbers at or above a billion fall back to
// digit-by-digit spelling, matching how the stenographers read them out.
func expandCardinal(n int64) string {
	if n < 0 {
		return ""
	}
	if n == 0 {
		return cardinalUnits[0]
	}
	if n >= 1_000_000_000 {
		return expandDigits(n)
	}

	var groups []string
	if millions := n / 1_000_000; millions > 0 {
		if millions == 1 {
			groups = append(groups, "miljoona")
		} else {
			groups = append(groups, expandUnderThousand(millions)+" miljoonaa")
		}
		n %= 1_000_000
	}
	if thousands := n / 1000; thousands > 0 {
		if thousands == 1 {
			groups = append(groups, "tuhat")
		} else {
			groups = append(groups, expandUnderThousand(thousands)+"tuhatta")
		}
		n %= 1000
	}
	if n > 0 {
		groups = append(groups, expandUnderThousand(n))
	}
	return strings.Join(groups, " ")
}

func expandUnderThousand(n int64) string {
	var b strings.Builder
	if hundreds := n / 100; hundreds > 0 {
		if hundreds == 1 {
			b.WriteString("sata")
		} else {
			b.WriteString(cardinalUnits[hundreds])
			b.WriteString("sataa")
		}
		n %= 100
	}
	b.WriteString(expandUnderHundred(n))
	return b.String()
}

func expandUnderHundred(n int64) string {
	switch {
	case n == 0:
		return ""
	case n < 10:
		return cardinalUnits[n]
	case n == 10:
		return "kymmenen"
	case n < 20:
		return cardinalUnits[n-10] + "toista"
	default:
		tail := ""
		if units := n % 10; units > 0 {
			tail = cardinalUnits[units]
		}
		return cardinalUnits[n/10] + "kymmentä" + tail
	}
}

func expandDigits(n int64) string {
	digits := []rune{}
	for _, r := range formatInt(n) {
		digits = append(digits, r)
	}
	words := make([]string, 0, len(digits))
	for _, r := range digits {
		words = append(words, cardinalUnits[r-'0'])
	}
	return strings.Join(words, " ")
}

func formatInt(n int64) string {
	if n == 0 {
		return "0"
	}
	var b [20]byte
	i := len(b)
	for n > 0 {
		i--
		b[i] = byte('0' + n%10)
		n /= 10
	}
	return string(b[i:])
}
