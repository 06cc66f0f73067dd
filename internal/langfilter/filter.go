package langfilter

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"plenum/internal/corpus"
	"plenum/internal/langid"
	"plenum/internal/logging"
	"plenum/internal/textnorm"
)

// Report summarizes one filter pass.
type Report struct {
	Examined int
	Removed  int
	// RemovedIDs lists the utterance ids taken out, in table order.
	RemovedIDs []string
}

// Filter removes minority-language records from an assembled manifest.
type Filter struct {
	lexical   *langid.Lexical
	threshold float64
	minTokens int
	logger    *slog.Logger
}

// New builds a filter. threshold is the stopword density at or above which
// a record is removed; records with fewer than minTokens tokens are never
// removed because density over a few words is noise.
func New(lexical *langid.Lexical, threshold float64, minTokens int, logger *slog.Logger) *Filter {
	if logger == nil {
		logger = logging.NewNop()
	}
	if minTokens < 1 {
		minTokens = 1
	}
	return &Filter{lexical: lexical, threshold: threshold, minTokens: minTokens, logger: logger}
}

// Apply filters the manifest under dir in place. Survivors are rewritten
// through the assembler so the tables and the vocabulary stay consistent
// with each other; a failed pass leaves the manifest untouched. The
// accumulated vocabulary passes through unchanged apart from the stoplist
// subtraction: it covers every normalized transcript word, not just the
// words of kept segments, so it is never rebuilt from record texts.
func (f *Filter) Apply(dir string, audio corpus.AudioPather) (Report, error) {
	records, err := corpus.ReadTables(dir)
	if err != nil {
		return Report{}, fmt.Errorf("load manifest: %w", err)
	}

	report := Report{Examined: len(records)}
	a := corpus.NewAssembler()
	vocabPath := filepath.Join(dir, corpus.VocabularyFile)
	if _, statErr := os.Stat(vocabPath); statErr == nil {
		vocab, readErr := textnorm.ReadVocabulary(vocabPath)
		if readErr != nil {
			return Report{}, fmt.Errorf("load vocabulary: %w", readErr)
		}
		a.MergeVocabulary(vocab)
	}
	a.Vocabulary().Subtract(f.lexical.Stopwords())

	for _, rec := range records {
		density, tokens := f.lexical.Density(rec.Text)
		if tokens >= f.minTokens && density >= f.threshold {
			report.Removed++
			report.RemovedIDs = append(report.RemovedIDs, rec.UttID)
			f.logger.Info("removed minority-language record",
				logging.String(logging.FieldUttID, rec.UttID),
				logging.Float64("density", density),
				logging.Int("tokens", tokens))
			continue
		}
		a.Add(rec)
	}

	if report.Removed == 0 {
		return report, nil
	}
	if err := corpus.WriteTables(dir, a, audio); err != nil {
		return Report{}, fmt.Errorf("rewrite manifest: %w", err)
	}
	return report, nil
}
