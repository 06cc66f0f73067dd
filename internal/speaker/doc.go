// Package speaker resolves printed speaker names against the read-only
// member-of-parliament lookup table.
//
// The table is consumed, never built: it maps name variants to a canonical
// speaker id. Resolution tries exact matching first, then a normalized form
// that ignores case, diacritics and honorific prefixes, then abbreviated
// first names. Anything still ambiguous or unknown resolves to the
// Unresolved sentinel so affected utterances stay visible for manual review
// instead of colliding with a real id.
package speaker
