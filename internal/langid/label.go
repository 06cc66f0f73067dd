package langid

import "strings"

// PredictedSuffix marks a label produced by a classifier instead of the
// transcript itself.
const PredictedSuffix = ".p"

// Predicted appends the predicted-label marker.
func Predicted(label string) string {
	if label == "" || strings.HasSuffix(label, PredictedSuffix) {
		return label
	}
	return label + PredictedSuffix
}

// IsPredicted reports whether a label carries the predicted marker.
func IsPredicted(label string) bool {
	return strings.HasSuffix(label, PredictedSuffix)
}

// Base strips the predicted marker.
func Base(label string) string {
	return strings.TrimSuffix(strings.TrimSpace(label), PredictedSuffix)
}

// Mixed builds the combined label for statements containing both languages.
func Mixed(majority, minority string) string {
	return majority + "+" + minority
}

// Contains reports whether a label includes the given language code,
// treating mixed labels and the predicted marker transparently.
func Contains(label, code string) bool {
	if code == "" {
		return false
	}
	for _, part := range strings.Split(Base(label), "+") {
		if part == code {
			return true
		}
	}
	return false
}
