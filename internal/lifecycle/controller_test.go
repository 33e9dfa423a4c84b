package lifecycle

import (
	"errors"
	"testing"

	"greenroom/internal/logging"
	"greenroom/internal/services"
	"greenroom/internal/session"
	"greenroom/internal/testsupport"
)

func newController(t *testing.T) (*Controller, *session.Store) {
	t.Helper()
	cfg := testsupport.NewConfig(t)
	store := testsupport.NewStore(t, cfg)
	return NewController(store, logging.NewNop()), store
}

func TestStartCreatesSession(t *testing.T) {
	ctrl, store := newController(t)

	sess, err := ctrl.Start("Alice Smith")
	if err != nil {
		t.Fatal(err)
	}
	if sess.UserName != "alicesmith" {
		t.Fatalf("unexpected sanitized name: %q", sess.UserName)
	}
	if sess.Finished || sess.SessionEnd != nil {
		t.Fatalf("new session must be open: %+v", sess)
	}
	if len(sess.Logs) != 1 || sess.Logs[0].Event != session.EventStart {
		t.Fatalf("expected single start event, got %+v", sess.Logs)
	}

	// The record must already be durable when Start returns.
	if _, err := store.Load(sess.Folder); err != nil {
		t.Fatalf("session not persisted: %v", err)
	}
}

func TestStartRejectsBlankName(t *testing.T) {
	ctrl, _ := newController(t)

	if _, err := ctrl.Start("   "); !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestFinishMarksSession(t *testing.T) {
	ctrl, store := newController(t)

	sess, err := ctrl.Start("alice")
	if err != nil {
		t.Fatal(err)
	}

	finished, err := ctrl.Finish(sess.Folder, 3)
	if err != nil {
		t.Fatal(err)
	}
	if !finished.Finished || finished.SessionEnd == nil {
		t.Fatalf("session not marked finished: %+v", finished)
	}
	if finished.QuestionsCount != 3 {
		t.Fatalf("declared count not recorded: %d", finished.QuestionsCount)
	}
	last := finished.Logs[len(finished.Logs)-1]
	if last.Event != session.EventFinish {
		t.Fatalf("expected finish event last, got %+v", last)
	}

	persisted, err := store.Load(sess.Folder)
	if err != nil {
		t.Fatal(err)
	}
	if !persisted.Finished {
		t.Fatal("finish not persisted")
	}
}

func TestFinishRepeatPreservesFirstEndTimestamp(t *testing.T) {
	ctrl, _ := newController(t)

	sess, err := ctrl.Start("alice")
	if err != nil {
		t.Fatal(err)
	}

	first, err := ctrl.Finish(sess.Folder, 2)
	if err != nil {
		t.Fatal(err)
	}
	second, err := ctrl.Finish(sess.Folder, 4)
	if err != nil {
		t.Fatal(err)
	}

	if *second.SessionEnd != *first.SessionEnd {
		t.Fatalf("repeat finish moved sessionEnd: %q -> %q", *first.SessionEnd, *second.SessionEnd)
	}
	if second.QuestionsCount != 4 {
		t.Fatalf("repeat finish must update declared count, got %d", second.QuestionsCount)
	}

	finishEvents := 0
	for _, ev := range second.Logs {
		if ev.Event == session.EventFinish {
			finishEvents++
		}
	}
	if finishEvents != 2 {
		t.Fatalf("expected two finish events, got %d", finishEvents)
	}
}

func TestFinishUnknownSession(t *testing.T) {
	ctrl, _ := newController(t)

	if _, err := ctrl.Finish("29_08_2026_10_30_ghost", 1); !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("expected not-found error, got %v", err)
	}
}
