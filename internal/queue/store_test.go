package queue_test

import (
	"context"
	"testing"

	"plenum/internal/label"
	"plenum/internal/queue"
	"plenum/internal/session"
	"plenum/internal/testsupport"
)

func testSession(t *testing.T, value string) session.ID {
	t.Helper()
	id, err := session.Parse(value)
	if err != nil {
		t.Fatalf("parse session %q: %v", value, err)
	}
	return id
}

func TestStoreSessionLifecycle(t *testing.T) {
	store := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	ctx := context.Background()
	id := testSession(t, "015-2015")

	if err := store.Begin(ctx, id, "run-1"); err != nil {
		t.Fatalf("Begin: %v", err)
	}
	state, err := store.Get(ctx, id)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if state == nil || state.Status != queue.StatusProcessing || state.RunID != "run-1" {
		t.Fatalf("state = %+v", state)
	}
	if !state.IsProcessing() {
		t.Fatal("expected processing state")
	}

	summary := label.Summary{Kept: 12, Dropped: 3, Queued: 2, Unresolved: 1, KeptDuration: 12000, DroppedDuration: 400}
	if err := store.MarkLabeled(ctx, id, summary); err != nil {
		t.Fatalf("MarkLabeled: %v", err)
	}
	state, err = store.Get(ctx, id)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if state.Status != queue.StatusLabeled {
		t.Fatalf("status = %s", state.Status)
	}
	if state.Kept != 12 || state.Dropped != 3 || state.Queued != 2 || state.Unresolved != 1 {
		t.Fatalf("counts = %+v", state)
	}
	if state.KeptSeconds != 120 {
		t.Fatalf("kept seconds = %v", state.KeptSeconds)
	}

	if err := store.MarkAssembled(ctx); err != nil {
		t.Fatalf("MarkAssembled: %v", err)
	}
	state, err = store.Get(ctx, id)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if state.Status != queue.StatusAssembled {
		t.Fatalf("status = %s", state.Status)
	}
}

func TestStoreBeginResetsFailedSession(t *testing.T) {
	store := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	ctx := context.Background()
	id := testSession(t, "020-2016")

	testsupport.BeginSession(t, store, id, "run-1")
	if err := store.MarkFailed(ctx, id, "missing transcript"); err != nil {
		t.Fatalf("MarkFailed: %v", err)
	}
	state, err := store.Get(ctx, id)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if state.Status != queue.StatusFailed || state.ErrorMessage != "missing transcript" {
		t.Fatalf("state = %+v", state)
	}

	testsupport.BeginSession(t, store, id, "run-2")
	state, err = store.Get(ctx, id)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if state.Status != queue.StatusProcessing || state.ErrorMessage != "" || state.RunID != "run-2" {
		t.Fatalf("state after restart = %+v", state)
	}
}

func TestStoreJoinBarrierAndSummary(t *testing.T) {
	store := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	ctx := context.Background()

	first := testSession(t, "001-2016")
	second := testSession(t, "002-2016")
	testsupport.BeginSession(t, store, first, "run-1")
	testsupport.BeginSession(t, store, second, "run-1")

	busy, err := store.HasProcessing(ctx)
	if err != nil {
		t.Fatalf("HasProcessing: %v", err)
	}
	if !busy {
		t.Fatal("expected processing sessions")
	}

	if err := store.MarkLabeled(ctx, first, label.Summary{Kept: 1}); err != nil {
		t.Fatalf("MarkLabeled: %v", err)
	}
	if err := store.MarkFailed(ctx, second, "decoder output missing"); err != nil {
		t.Fatalf("MarkFailed: %v", err)
	}

	busy, err = store.HasProcessing(ctx)
	if err != nil {
		t.Fatalf("HasProcessing: %v", err)
	}
	if busy {
		t.Fatal("join barrier still blocked")
	}

	labeled, err := store.Labeled(ctx)
	if err != nil {
		t.Fatalf("Labeled: %v", err)
	}
	if len(labeled) != 1 || labeled[0] != first {
		t.Fatalf("labeled = %v", labeled)
	}

	summary, err := store.Summarize(ctx)
	if err != nil {
		t.Fatalf("Summarize: %v", err)
	}
	if summary.Total != 2 || summary.Labeled != 1 || summary.Failed != 1 {
		t.Fatalf("summary = %+v", summary)
	}

	states, err := store.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(states) != 2 || states[0].Session != "001-2016" {
		t.Fatalf("states = %+v", states)
	}
}

func TestStoreGetUnknownSessionIsNil(t *testing.T) {
	store := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	state, err := store.Get(context.Background(), testSession(t, "099-2016"))
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if state != nil {
		t.Fatalf("state = %+v, want nil", state)
	}
}
