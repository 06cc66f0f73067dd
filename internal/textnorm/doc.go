// Package textnorm converts raw transcript text into the corpus's canonical
// orthographic form: lowercase, punctuation-free, with digits, section signs
// and common abbreviations expanded to words.
//
// Normalization is deterministic and idempotent; canonical text passes
// through unchanged. The package also accumulates per-session vocabularies
// of distinct normalized words for the corpus-wide word list.
package textnorm
