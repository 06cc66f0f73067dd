package pipeline

import (
	"context"
	"os"
	"path/filepath"

	"plenum/internal/align"
	"plenum/internal/corpus"
	"plenum/internal/label"
	"plenum/internal/langfilter"
	"plenum/internal/langid"
	"plenum/internal/logging"
	"plenum/internal/textnorm"
)

// AssembleOptions controls an assembly pass.
type AssembleOptions struct {
	// Partial allows assembly while sessions are still processing; the
	// mid-run sessions are simply left out of this merge.
	Partial bool
}

// Assemble merges every labeled session's outputs, plus the existing merged
// manifest, into the global corpus tables. Conflicting records are excluded
// from the output and reported. Re-running assembly over the same inputs
// produces the same manifest.
func (r *Runner) Assemble(ctx context.Context, opts AssembleOptions) (*AssembleReport, error) {
	busy, err := r.store.HasProcessing(ctx)
	if err != nil {
		return nil, Wrap(ErrFatal, StageAssemble, "check join barrier", "", err)
	}
	if busy && !opts.Partial {
		return nil, Wrap(ErrValidation, StageAssemble, "", "sessions still processing; finish the run or pass --partial", nil)
	}

	a := corpus.NewAssembler()

	existing, err := corpus.ReadTables(r.cfg.Paths.CorpusDir)
	if err != nil {
		return nil, Wrap(ErrFatal, StageAssemble, "load existing manifest", "", err)
	}
	a.AddAll(existing)
	vocabPath := filepath.Join(r.cfg.Paths.CorpusDir, corpus.VocabularyFile)
	if _, statErr := os.Stat(vocabPath); statErr == nil {
		vocab, readErr := textnorm.ReadVocabulary(vocabPath)
		if readErr != nil {
			return nil, Wrap(ErrFatal, StageAssemble, "load existing vocabulary", "", readErr)
		}
		a.MergeVocabulary(vocab)
	}

	ids, err := r.store.Labeled(ctx)
	if err != nil {
		return nil, Wrap(ErrFatal, StageAssemble, "list labeled sessions", "", err)
	}
	for _, id := range ids {
		records, err := label.ReadSessionRecords(r.cfg.Paths.WorkDir, id)
		if err != nil {
			return nil, Wrap(ErrFatal, StageAssemble, "load session outputs", id.String(), err)
		}
		a.AddAll(records)
		vocab, err := textnorm.ReadVocabulary(filepath.Join(r.cfg.Paths.WorkDir, id.FileStem()+label.VocabularySuffix))
		if err != nil {
			return nil, Wrap(ErrFatal, StageAssemble, "load session vocabulary", id.String(), err)
		}
		a.MergeVocabulary(vocab)
	}

	if r.cfg.Language.StoplistPath != "" {
		stopwords, err := langid.LoadStoplist(r.cfg.Language.StoplistPath)
		if err != nil {
			return nil, Wrap(ErrConfiguration, StageAssemble, "load stoplist", "", err)
		}
		a.Vocabulary().Subtract(stopwords)
	}

	for _, conflict := range a.Conflicts() {
		r.logger.Error("conflicting records excluded",
			logging.String(logging.FieldStage, StageAssemble),
			logging.String(logging.FieldUttID, conflict.UttID),
			logging.Error(Wrap(ErrConflict, StageAssemble, "", "same id with different fields", nil)))
	}

	if err := corpus.WriteTables(r.cfg.Paths.CorpusDir, a, r.audioTemplate()); err != nil {
		return nil, Wrap(ErrFatal, StageAssemble, "write manifest", "", err)
	}
	if err := r.store.MarkAssembled(ctx); err != nil {
		return nil, Wrap(ErrFatal, StageAssemble, "mark sessions assembled", "", err)
	}

	report := &AssembleReport{
		Sessions:   len(ids),
		Records:    a.Len(),
		Duplicates: a.Duplicates(),
		Conflicts:  a.Conflicts(),
		Vocabulary: a.Vocabulary().Len(),
	}
	r.logger.Info("assembly finished",
		logging.Int("sessions", report.Sessions),
		logging.Int("records", report.Records),
		logging.Int("duplicates", report.Duplicates),
		logging.Int("conflicts", len(report.Conflicts)),
		logging.Int("vocabulary", report.Vocabulary))
	return report, nil
}

// Filter runs the secondary language pass over the assembled manifest.
func (r *Runner) Filter(ctx context.Context) (langfilter.Report, error) {
	if err := ctx.Err(); err != nil {
		return langfilter.Report{}, err
	}
	lexical, ok := r.classifier.(*langid.Lexical)
	if !ok || r.cfg.Language.StoplistPath == "" {
		return langfilter.Report{}, Wrap(ErrConfiguration, StageFilter, "", "secondary filter needs a stoplist", nil)
	}
	filter := langfilter.New(lexical, r.cfg.Language.MinorityDensity, r.cfg.Language.MinTokens, r.logger)
	report, err := filter.Apply(r.cfg.Paths.CorpusDir, r.audioTemplate())
	if err != nil {
		return langfilter.Report{}, Wrap(ErrFatal, StageFilter, "apply filter", "", err)
	}
	r.logger.Info("secondary language filter finished",
		logging.Int("examined", report.Examined),
		logging.Int("removed", report.Removed))
	return report, nil
}

func (r *Runner) audioTemplate() corpus.AudioTemplate {
	return corpus.NewAudioTemplate(r.cfg.Audio.PathTemplate, r.cfg.TermForYear)
}

// PendingRetries reports how many boundaries the last run queued.
func (r *Runner) PendingRetries() (int, error) {
	list, err := align.ReadRetryList(filepath.Join(r.cfg.Paths.WorkDir, RetryListName))
	if err != nil {
		return 0, err
	}
	return list.Len(), nil
}
