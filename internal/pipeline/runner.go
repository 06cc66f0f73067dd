package pipeline

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"plenum/internal/align"
	"plenum/internal/config"
	"plenum/internal/label"
	"plenum/internal/langid"
	"plenum/internal/logging"
	"plenum/internal/queue"
	"plenum/internal/session"
	"plenum/internal/speaker"
	"plenum/internal/textnorm"
	"plenum/internal/transcript"
)

// RetryListName is the retry list file under the work directory.
const RetryListName = "retry.list"

// Runner drives the per-session stages. One Runner serves one invocation;
// the run id correlates its log lines and store updates.
type Runner struct {
	cfg        *config.Config
	store      *queue.Store
	logger     *slog.Logger
	table      *speaker.Table
	classifier langid.Classifier
	normalizer *textnorm.Normalizer
	reconciler *align.Reconciler
	labeler    *label.Labeler
	runID      string
}

// ProcessOptions controls a processing run.
type ProcessOptions struct {
	// Retry restricts reconciliation to the boundaries queued in the retry
	// list of a previous run.
	Retry bool
}

// NewRunner loads the shared inputs and builds a runner. A missing speaker
// table or stoplist is a configuration error.
func NewRunner(cfg *config.Config, store *queue.Store, logger *slog.Logger) (*Runner, error) {
	if logger == nil {
		logger = logging.NewNop()
	}
	table, err := speaker.LoadTable(cfg.Paths.SpeakerTable)
	if err != nil {
		return nil, Wrap(ErrConfiguration, "", "load speaker table", "", err)
	}
	var stopwords []string
	if cfg.Language.StoplistPath != "" {
		stopwords, err = langid.LoadStoplist(cfg.Language.StoplistPath)
		if err != nil {
			return nil, Wrap(ErrConfiguration, "", "load stoplist", "", err)
		}
	}
	lexical := langid.NewLexical(cfg.Language.Majority, cfg.Language.Minority, stopwords, cfg.Language.MinTokens)
	runID := uuid.NewString()
	logger = logger.With(logging.String(logging.FieldRunID, runID))
	return &Runner{
		cfg:        cfg,
		store:      store,
		logger:     logger,
		table:      table,
		classifier: lexical,
		normalizer: textnorm.New(),
		reconciler: align.NewReconciler(cfg.Reconcile, logger),
		labeler:    label.New(cfg.Label, cfg.Language, logger),
		runID:      runID,
	}, nil
}

// RunID returns the run correlation id.
func (r *Runner) RunID() string {
	return r.runID
}

// Process runs every session through parse, resolve, normalize, reconcile
// and label under a bounded worker pool. Session failures are isolated and
// reported; only context cancellation aborts the run. The queued boundaries
// of all sessions are written to the retry list afterwards.
func (r *Runner) Process(ctx context.Context, ids []session.ID, opts ProcessOptions) (*RunReport, error) {
	retryList := align.NewRetryList()
	if opts.Retry {
		loaded, err := align.ReadRetryList(filepath.Join(r.cfg.Paths.WorkDir, RetryListName))
		if err != nil {
			return nil, Wrap(ErrConfiguration, "", "read retry list", "", err)
		}
		retryList = loaded
	}

	report := &RunReport{RunID: r.runID}
	nextRetry := align.NewRetryList()
	var mu sync.Mutex

	workers := r.cfg.Pipeline.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for _, id := range ids {
		id := id
		g.Go(func() error {
			result, queued := r.processSession(gctx, id, retryList, opts.Retry)
			mu.Lock()
			report.Sessions = append(report.Sessions, result)
			for _, entry := range queued {
				nextRetry.Add(entry)
			}
			mu.Unlock()
			if result.Failed() {
				// Session isolation: record the failure, keep the pool going.
				return gctx.Err()
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return report, err
	}

	if err := nextRetry.WriteFile(filepath.Join(r.cfg.Paths.WorkDir, RetryListName)); err != nil {
		return report, Wrap(ErrFatal, StageOutput, "write retry list", "", err)
	}
	report.Sort()

	total, failed := report.Totals()
	r.logger.Info("processing run finished",
		logging.Int("sessions", len(ids)),
		logging.Int("failed_sessions", failed),
		logging.Int("kept", total.Kept),
		logging.Int("dropped", total.Dropped),
		logging.Int("queued", total.Queued),
		logging.Int("unresolved", total.Unresolved),
		logging.Float64("kept_seconds", total.KeptDuration.Seconds()),
		logging.Float64("dropped_seconds", total.DroppedDuration.Seconds()))
	return report, nil
}

func (r *Runner) processSession(ctx context.Context, id session.ID, retry *align.RetryList, retryOnly bool) (SessionReport, []align.RetryEntry) {
	result := SessionReport{Session: id}
	logger := r.logger.With(logging.String(logging.FieldSession, id.String()))

	if err := r.store.Begin(ctx, id, r.runID); err != nil {
		result.Err = err
		return result, nil
	}

	fail := func(err error) (SessionReport, []align.RetryEntry) {
		result.Err = err
		logger.Error("session aborted", logging.Error(err))
		if storeErr := r.store.MarkFailed(ctx, id, err.Error()); storeErr != nil {
			logger.Error("record session failure", logging.Error(storeErr))
		}
		return result, nil
	}

	doc, err := transcript.ParseFile(filepath.Join(r.cfg.Paths.TranscriptDir, id.FileStem()+".json"), logger)
	if err != nil {
		return fail(Wrap(ErrFatal, StageParse, "load transcript", id.String(), err))
	}
	result.SkippedStatements = doc.Skipped

	ref, vocab := r.buildReference(doc, logger, &result)

	candidates, err := align.ReadSession(r.cfg.Paths.DecoderDir, id)
	if err != nil {
		return fail(Wrap(ErrFatal, StageReconcile, "load decoder output", id.String(), err))
	}
	if retryOnly {
		kept := candidates[:0]
		for _, cand := range candidates {
			if retry.Contains(cand) {
				kept = append(kept, cand)
			}
		}
		candidates = kept
	}

	decisions := r.labeler.Label(ref, r.reconciler.Reconcile(ref, candidates))
	if err := label.WriteSessionOutputs(r.cfg.Paths.WorkDir, id, decisions); err != nil {
		return fail(Wrap(ErrFatal, StageOutput, "write session outputs", id.String(), err))
	}
	if err := vocab.WriteFile(filepath.Join(r.cfg.Paths.WorkDir, id.FileStem()+label.VocabularySuffix)); err != nil {
		return fail(Wrap(ErrFatal, StageOutput, "write vocabulary", id.String(), err))
	}

	var queued []align.RetryEntry
	for _, d := range decisions {
		if d.Outcome == label.OutcomeQueued {
			queued = append(queued, align.RetryEntry{
				Session: id,
				Start:   d.Candidate.Start,
				End:     d.Candidate.End,
			})
		}
	}

	result.Summary = label.Summarize(decisions)
	if err := r.store.MarkLabeled(ctx, id, result.Summary); err != nil {
		return fail(err)
	}
	logger.Info("session labeled",
		logging.Int("kept", result.Summary.Kept),
		logging.Int("dropped", result.Summary.Dropped),
		logging.Int("queued", result.Summary.Queued),
		logging.Int("unresolved", result.Summary.Unresolved),
		logging.Int("failed_statements", result.FailedStatements))
	return result, queued
}

// buildReference turns the parsed transcript into the reconciliation
// reference: speakers resolved, languages labeled, text normalized, words
// collected into the session vocabulary. Turn-level problems are flagged
// and skipped.
func (r *Runner) buildReference(doc *transcript.Document, logger *slog.Logger, result *SessionReport) (*align.Reference, *textnorm.Vocabulary) {
	ref := align.NewReference()
	vocab := textnorm.NewVocabulary()
	for _, turn := range doc.Turns {
		result.Statements++

		spk := speaker.ID(turn.MPID)
		if spk == speaker.None && turn.HasSpeaker() {
			spk = r.table.Resolve(turn.Firstname, turn.Lastname)
			if spk == speaker.Unresolved {
				result.FailedStatements++
				logger.Warn("unresolved speaker name",
					logging.String(logging.FieldStage, StageResolve),
					logging.String("speaker", turn.SpeakerName()))
			}
		}

		lang := turn.Language
		if !turn.LanguageDeclared() {
			pred, err := r.classifier.Classify(turn.Text)
			if err != nil {
				logger.Warn("language classification failed",
					logging.String(logging.FieldStage, StageResolve),
					logging.Error(err))
				pred.Label = r.cfg.Language.Majority
			}
			lang = langid.Predicted(pred.Label)
		}

		text, err := r.normalizer.Apply(turn.Text)
		if err != nil {
			result.FailedStatements++
			logger.Warn("turn text not normalizable",
				logging.String(logging.FieldStage, StageNormalize),
				logging.Int("turn", turn.Index),
				logging.Error(err))
			continue
		}
		if text == "" {
			continue
		}
		vocab.AddText(text)
		ref.AddTurn(align.TurnInfo{Index: turn.Index, Speaker: spk, Language: lang}, text)
	}
	return ref, vocab
}

// DiscoverSessions lists every session with a transcript under the
// transcript directory, sorted by year and number.
func (r *Runner) DiscoverSessions() ([]session.ID, error) {
	entries, err := os.ReadDir(r.cfg.Paths.TranscriptDir)
	if err != nil {
		return nil, Wrap(ErrConfiguration, "", "read transcript directory", "", err)
	}
	var ids []session.ID
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".json" {
			continue
		}
		stem := entry.Name()[:len(entry.Name())-len(".json")]
		id, err := session.Parse(stem)
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i].Before(ids[j]) })
	return ids, nil
}
