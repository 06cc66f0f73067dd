package speaker

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Honorific and role prefixes the stenographers print before names. They are
// not part of any table entry and must not defeat matching.
var titlePrefixes = []string{
	"edustaja",
	"ministeri",
	"pääministeri",
	"puhemies",
	"ensimmäinen varapuhemies",
	"toinen varapuhemies",
	"varapuhemies",
	"oikeusministeri",
	"valtiovarainministeri",
	"ulkoministeri",
}

var diacriticStripper = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// normalizeName lowercases, strips honorific prefixes, removes diacritics and
// collapses whitespace. Diacritic stripping folds ä/ö into a/o, which is too
// aggressive for exact identity but fine for a fallback lookup key.
func normalizeName(name string) string {
	lowered := strings.ToLower(strings.TrimSpace(name))
	for _, prefix := range titlePrefixes {
		if strings.HasPrefix(lowered, prefix+" ") {
			lowered = strings.TrimSpace(strings.TrimPrefix(lowered, prefix))
			break
		}
	}
	stripped, _, err := transform.String(diacriticStripper, lowered)
	if err != nil {
		stripped = lowered
	}
	return strings.Join(strings.Fields(stripped), " ")
}

// Resolve maps a printed first/last name pair to a canonical speaker id.
// An empty name resolves to None. A name the table cannot account for, or
// one matching several distinct ids, resolves to Unresolved; the resolver
// never guesses between homonyms.
func (t *Table) Resolve(firstname, lastname string) ID {
	firstname = strings.TrimSpace(firstname)
	lastname = strings.TrimSpace(lastname)
	if firstname == "" && lastname == "" {
		return None
	}

	if id, ok := unique(t.byExact[strings.ToLower(firstname+" "+lastname)]); ok {
		return id
	}
	if id, ok := unique(t.byNormalized[normalizeName(firstname+" "+lastname)]); ok {
		return id
	}
	if id, ok := t.resolveAbbreviated(firstname, lastname); ok {
		return id
	}
	return Unresolved
}

// ResolveName resolves a single printed name string, splitting on the last
// space so "Maija-Liisa Meikäläinen" keeps its compound first name.
func (t *Table) ResolveName(name string) ID {
	name = strings.TrimSpace(name)
	if name == "" {
		return None
	}
	if idx := strings.LastIndex(name, " "); idx > 0 {
		return t.Resolve(name[:idx], name[idx+1:])
	}
	return t.Resolve("", name)
}

// resolveAbbreviated matches "M. Meikäläinen" style names: a unique lastname
// bucket entry whose first name starts with the printed initial.
func (t *Table) resolveAbbreviated(firstname, lastname string) (ID, bool) {
	initial := strings.TrimSuffix(strings.ToLower(strings.TrimSpace(firstname)), ".")
	if initial == "" || len([]rune(initial)) > 2 {
		return Unresolved, false
	}
	candidates := t.byLastname[normalizeName(lastname)]
	var matches []ID
	for _, candidate := range candidates {
		if strings.HasPrefix(normalizeName(candidate.firstname), normalizeName(initial)) {
			matches = appendUnique(matches, candidate.id)
		}
	}
	return unique(matches)
}

func unique(ids []ID) (ID, bool) {
	if len(ids) == 1 {
		return ids[0], true
	}
	return Unresolved, false
}
