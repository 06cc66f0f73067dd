// Package corpus holds the corpus record model and the assembler that merges
// per-session outputs into the global manifest tables. The manifest is four
// files in Kaldi layout (segments, text, utt2spk, wav.scp) plus a merged
// vocabulary. Merging is a deterministic sort-unique over utterance ids:
// exact duplicates collapse, records sharing an id with different fields are
// conflicts and both sides are excluded from the output.
package corpus
