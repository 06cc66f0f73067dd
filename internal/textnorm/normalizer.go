package textnorm

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// UnacceptedCharsError reports characters the rule set could not reduce to
// the canonical alphabet. The affected turn is flagged and skipped; the
// session continues.
type UnacceptedCharsError struct {
	Chars string
}

func (e *UnacceptedCharsError) Error() string {
	return fmt.Sprintf("text contains unaccepted characters %q after normalization", e.Chars)
}

// Roman numerals appear in bill and committee references; they are mapped to
// digits before expansion. Only forms up to ten occur in practice.
var romanNumbers = map[string]string{
	"I": "1", "II": "2", "III": "3", "IV": "4", "V": "5",
	"VI": "6", "VII": "7", "VIII": "8", "IX": "9", "X": "10",
}

// Spoken-out abbreviations common in plenary speech.
var abbreviations = map[string]string{
	"esim.": "esimerkiksi",
	"mm.":   "muun muassa",
	"ym.":   "ynnä muuta",
	"n.":    "noin",
	"ns.":   "niin sanottu",
	"nro":   "numero",
}

var (
	romanPattern        = regexp.MustCompile(`\b(?:VIII|VII|VI|IX|IV|V|X|III|II|I)\b`)
	sectionCountPattern = regexp.MustCompile(`(\d+)\s*§`)
	decimalPattern      = regexp.MustCompile(`(\d+),(\d+)`)
	numberGroupPattern  = regexp.MustCompile(`(\d) (\d{3})\b`)
	digitPattern        = regexp.MustCompile(`\d+`)
	percentPattern      = regexp.MustCompile(`%`)
	punctPattern        = regexp.MustCompile(`[-–—­/]`)
	strippedPattern     = regexp.MustCompile(`[.,:;!?"'()\[\]«»„“”’#&*+=@€$_|\\<>]`)
	spacePattern        = regexp.MustCompile(`\s+`)
	acceptedPattern     = regexp.MustCompile(`^[a-zåäöéü ]*$`)
	rejectedPattern     = regexp.MustCompile(`[^a-zåäöéü ]`)
)

// foreignLetters folds letters borrowed in names and quotations into the
// corpus alphabet.
var foreignLetters = strings.NewReplacer(
	"á", "a", "à", "a", "â", "a", "ã", "a",
	"è", "e", "ê", "e", "ë", "e",
	"í", "i", "î", "i", "ï", "i",
	"ó", "o", "ò", "o", "ô", "o", "õ", "o",
	"ú", "u", "û", "u",
	"ý", "y",
	"ñ", "n", "ç", "c", "š", "s", "ž", "z",
	"æ", "ä", "ø", "ö", "ß", "ss",
)

// Normalizer applies the canonical text rules. The zero value is not usable;
// construct with New.
type Normalizer struct{}

// New returns the canonical normalizer.
func New() *Normalizer {
	return &Normalizer{}
}

// Apply converts raw transcript text into canonical corpus form. It is
// idempotent: canonical text maps to itself. Characters that survive every
// rule but fall outside the canonical alphabet produce an
// UnacceptedCharsError.
func (n *Normalizer) Apply(text string) (string, error) {
	out := strings.TrimSpace(text)
	if out == "" {
		return "", nil
	}

	out = romanPattern.ReplaceAllStringFunc(out, func(m string) string {
		return romanNumbers[m]
	})

	for abbr, expansion := range abbreviations {
		out = replaceToken(out, abbr, expansion)
	}

	out = sectionCountPattern.ReplaceAllString(out, "$1 pykälää")
	out = strings.ReplaceAll(out, "§", "pykälä")
	out = percentPattern.ReplaceAllString(out, " prosenttia")

	// "10 000" style group spacing collapses before digit expansion.
	for numberGroupPattern.MatchString(out) {
		out = numberGroupPattern.ReplaceAllString(out, "$1$2")
	}
	out = decimalPattern.ReplaceAllStringFunc(out, expandDecimal)
	out = digitPattern.ReplaceAllStringFunc(out, expandDigitRun)

	out = strings.ToLower(out)
	out = foreignLetters.Replace(out)
	out = punctPattern.ReplaceAllString(out, " ")
	out = strippedPattern.ReplaceAllString(out, "")
	out = strings.TrimSpace(spacePattern.ReplaceAllString(out, " "))

	if !acceptedPattern.MatchString(out) {
		bad := rejectedPattern.FindAllString(out, -1)
		return "", &UnacceptedCharsError{Chars: strings.Join(dedupeStrings(bad), "")}
	}
	return out, nil
}

func expandDecimal(match string) string {
	parts := decimalPattern.FindStringSubmatch(match)
	whole, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil {
		// The surviving digits fail the accepted-alphabet check and the
		// turn is flagged, same as any other unexpandable run.
		return match
	}
	return expandCardinal(whole) + " pilkku " + expandDigitRun(parts[2])
}

func expandDigitRun(digits string) string {
	// Leading zeros mean the digits are read out one by one.
	if len(digits) > 1 && digits[0] == '0' {
		words := make([]string, 0, len(digits))
		for _, r := range digits {
			words = append(words, cardinalUnits[r-'0'])
		}
		return strings.Join(words, " ")
	}
	value, err := strconv.ParseInt(digits, 10, 64)
	if err != nil {
		return digits
	}
	return expandCardinal(value)
}

func replaceToken(text, token, replacement string) string {
	// Case-insensitive: abbreviations run before lowercasing, and a
	// capitalized form left behind here would expand on a second pass.
	pattern := regexp.MustCompile(`(?i)(^|\s)` + regexp.QuoteMeta(token) + `($|\s)`)
	for pattern.MatchString(text) {
		text = pattern.ReplaceAllString(text, "${1}"+replacement+"${2}")
	}
	return text
}

func dedupeStrings(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, value := range values {
		if _, ok := seen[value]; ok {
			continue
		}
		seen[value] = struct{}{}
		out = append(out, value)
	}
	return out
}
