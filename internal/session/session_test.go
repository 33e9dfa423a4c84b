package session

import "testing"

func TestSetUploadReplacesExistingIndex(t *testing.T) {
	sess := &Session{}
	sess.SetUpload(QuestionRecord{Q: 1, File: "Q1.webm", Transcript: "first"})
	sess.SetUpload(QuestionRecord{Q: 2, File: "Q2.webm"})
	sess.SetUpload(QuestionRecord{Q: 1, File: "Q1.mp4", Transcript: "second"})

	if len(sess.Uploaded) != 2 {
		t.Fatalf("expected 2 records, got %d", len(sess.Uploaded))
	}
	rec, ok := sess.Upload(1)
	if !ok {
		t.Fatal("expected record for question 1")
	}
	if rec.File != "Q1.mp4" || rec.Transcript != "second" {
		t.Fatalf("expected replacement to win, got %+v", rec)
	}
}

func TestUploadMissingIndex(t *testing.T) {
	sess := &Session{}
	if _, ok := sess.Upload(3); ok {
		t.Fatal("expected no record for question 3")
	}
}

func TestAppendEventGrowsLog(t *testing.T) {
	sess := &Session{}
	sess.AppendEvent("t0", EventStart, 0)
	sess.AppendEvent("t1", EventUpload, 2)
	sess.AppendEvent("t2", EventFinish, 0)

	if len(sess.Logs) != 3 {
		t.Fatalf("expected 3 events, got %d", len(sess.Logs))
	}
	if sess.Logs[1].Event != EventUpload || sess.Logs[1].Q != 2 {
		t.Fatalf("unexpected upload event: %+v", sess.Logs[1])
	}
}
