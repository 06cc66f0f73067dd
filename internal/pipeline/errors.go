package pipeline

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrRecoverable tags a per-turn or per-segment problem that was logged
	// and skipped without aborting the session.
	ErrRecoverable = errors.New("recoverable error")
	// ErrConflict tags records excluded at merge time because they share an
	// utterance id with different content.
	ErrConflict = errors.New("merge conflict")
	// ErrFatal tags a session-fatal problem, typically a missing input
	// file. The session aborts; other sessions proceed.
	ErrFatal = errors.New("session-fatal error")
	// ErrValidation tags refused operations, like assembling while
	// sessions are still mid-run.
	ErrValidation = errors.New("validation error")
	// ErrConfiguration tags unusable configuration discovered at startup.
	ErrConfiguration = errors.New("configuration error")
)

// Stage names used in wrapped errors and log context.
const (
	StageParse     = "parse"
	StageResolve   = "resolve"
	StageNormalize = "normalize"
	StageReconcile = "reconcile"
	StageLabel     = "label"
	StageOutput    = "output"
	StageAssemble  = "assemble"
	StageFilter    = "filter"
)

// Wrap builds an error message that includes stage context while tagging it
// with the provided marker for later classification. The marker should be
// one of the exported sentinel errors above.
func Wrap(marker error, stage, operation, message string, err error) error {
	detail := buildDetail(stage, operation, message)
	if marker == nil {
		marker = ErrRecoverable
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

func buildDetail(stage, operation, message string) string {
	parts := make([]string, 0, 3)
	if stage = strings.TrimSpace(stage); stage != "" {
		parts = append(parts, stage)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "pipeline failure"
	}
	return strings.Join(parts, ": ")
}
