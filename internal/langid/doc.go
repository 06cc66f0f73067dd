// Package langid defines the language classification contract the pipeline
// consumes and the label conventions used throughout the corpus.
//
// The real classifier is an external model; this package treats it as a pure
// function from text to a label with confidence. A lexical stoplist-based
// classifier is provided both as the default fallback and as the engine of
// the secondary filter pass. Labels follow the transcript convention:
// "fi", "sv", the mixed form "fi+sv", with a ".p" suffix marking predicted
// rather than transcript-declared labels.
package langid
