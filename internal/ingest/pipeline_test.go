package ingest

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"
	"testing"

	"greenroom/internal/config"
	"greenroom/internal/logging"
	"greenroom/internal/services"
	"greenroom/internal/session"
	"greenroom/internal/stt"
	"greenroom/internal/testsupport"
	"greenroom/internal/transcript"
)

type fixture struct {
	cfg      *config.Config
	store    *session.Store
	pipeline *Pipeline
	sess     *session.Session
}

func newFixture(t *testing.T, engine stt.TranscriptionEngine, opts ...testsupport.ConfigOption) *fixture {
	t.Helper()

	cfg := testsupport.NewConfig(t, opts...)
	store := testsupport.NewStore(t, cfg)
	transcripts := transcript.NewManager(store.Dir)

	if engine == nil {
		engine = stt.EngineFunc(func(ctx context.Context, audioPath string) (string, error) {
			return "hello world", nil
		})
	}

	pipeline := New(cfg, store, transcripts, testsupport.StubExtractor(), engine, logging.NewNop())

	sess, err := store.Create("alice")
	if err != nil {
		t.Fatal(err)
	}
	return &fixture{cfg: cfg, store: store, pipeline: pipeline, sess: sess}
}

func uploadRequest(f *fixture, q int) Request {
	return Request{
		SessionID:     f.sess.Folder,
		QuestionIndex: q,
		Payload:       []byte("webm-bytes"),
		DeclaredMIME:  "video/webm",
		FileName:      fmt.Sprintf("Q%d.webm", q),
	}
}

func TestProcessCommitsUpload(t *testing.T) {
	f := newFixture(t, nil)

	result, err := f.pipeline.Process(context.Background(), uploadRequest(f, 1))
	if err != nil {
		t.Fatal(err)
	}
	if result.SavedFileName != "Q1.webm" {
		t.Fatalf("unexpected saved name: %q", result.SavedFileName)
	}
	if result.Transcript != "hello world" {
		t.Fatalf("unexpected transcript: %q", result.Transcript)
	}

	if _, err := os.Stat(f.store.MediaPath(f.sess.Folder, "Q1.webm")); err != nil {
		t.Fatalf("raw media missing: %v", err)
	}
	// The temporary audio artifact must be cleaned up.
	if _, err := os.Stat(f.store.MediaPath(f.sess.Folder, "Q1.stt.wav")); !os.IsNotExist(err) {
		t.Fatal("temporary audio artifact left behind")
	}

	sess, err := f.store.Load(f.sess.Folder)
	if err != nil {
		t.Fatal(err)
	}
	rec, ok := sess.Upload(1)
	if !ok {
		t.Fatal("missing question record")
	}
	if rec.File != "Q1.webm" || rec.Checksum == "" || rec.Transcript != "hello world" {
		t.Fatalf("unexpected record: %+v", rec)
	}
	if len(sess.Logs) != 2 || sess.Logs[1].Event != session.EventUpload {
		t.Fatalf("expected upload event appended, got %+v", sess.Logs)
	}
}

func TestProcessReuploadReplacesRecordAndSection(t *testing.T) {
	calls := 0
	engine := stt.EngineFunc(func(ctx context.Context, audioPath string) (string, error) {
		calls++
		return fmt.Sprintf("take %d", calls), nil
	})
	f := newFixture(t, engine)

	if _, err := f.pipeline.Process(context.Background(), uploadRequest(f, 1)); err != nil {
		t.Fatal(err)
	}
	if _, err := f.pipeline.Process(context.Background(), uploadRequest(f, 1)); err != nil {
		t.Fatal(err)
	}

	sess, err := f.store.Load(f.sess.Folder)
	if err != nil {
		t.Fatal(err)
	}
	if len(sess.Uploaded) != 1 {
		t.Fatalf("expected exactly one record, got %d", len(sess.Uploaded))
	}
	rec, _ := sess.Upload(1)
	if rec.Transcript != "take 2" {
		t.Fatalf("expected second upload to win, got %q", rec.Transcript)
	}

	raw, err := os.ReadFile(f.store.MediaPath(f.sess.Folder, transcript.FileName))
	if err != nil {
		t.Fatal(err)
	}
	if strings.Count(string(raw), "=== Question 1 ===") != 1 {
		t.Fatalf("duplicate transcript section:\n%s", raw)
	}
	if !strings.Contains(string(raw), "take 2") {
		t.Fatalf("transcript document missing latest text:\n%s", raw)
	}
}

func TestProcessReuploadDifferentContainerRemovesOldFile(t *testing.T) {
	f := newFixture(t, nil)

	if _, err := f.pipeline.Process(context.Background(), uploadRequest(f, 1)); err != nil {
		t.Fatal(err)
	}
	req := uploadRequest(f, 1)
	req.FileName = "retake.mp4"
	req.DeclaredMIME = "video/mp4"
	if _, err := f.pipeline.Process(context.Background(), req); err != nil {
		t.Fatal(err)
	}

	if _, err := os.Stat(f.store.MediaPath(f.sess.Folder, "Q1.webm")); !os.IsNotExist(err) {
		t.Fatal("stale media file for replaced container left behind")
	}
	if _, err := os.Stat(f.store.MediaPath(f.sess.Folder, "Q1.mp4")); err != nil {
		t.Fatalf("new media file missing: %v", err)
	}
}

func TestProcessConcurrentDistinctIndexes(t *testing.T) {
	f := newFixture(t, nil)

	var wg sync.WaitGroup
	for q := 1; q <= 2; q++ {
		wg.Add(1)
		go func(q int) {
			defer wg.Done()
			if _, err := f.pipeline.Process(context.Background(), uploadRequest(f, q)); err != nil {
				t.Error(err)
			}
		}(q)
	}
	wg.Wait()

	sess, err := f.store.Load(f.sess.Folder)
	if err != nil {
		t.Fatal(err)
	}
	for q := 1; q <= 2; q++ {
		if _, ok := sess.Upload(q); !ok {
			t.Fatalf("record for question %d missing after concurrent uploads", q)
		}
	}
}

func TestProcessRejectsIndexOutOfRange(t *testing.T) {
	f := newFixture(t, nil, testsupport.WithMaxQuestions(5))

	for _, q := range []int{0, -1, 6} {
		req := uploadRequest(f, q)
		if _, err := f.pipeline.Process(context.Background(), req); !errors.Is(err, services.ErrValidation) {
			t.Fatalf("expected validation error for index %d, got %v", q, err)
		}
	}
}

func TestProcessRejectsUnknownSession(t *testing.T) {
	f := newFixture(t, nil)
	req := uploadRequest(f, 1)
	req.SessionID = "29_08_2026_10_30_ghost"

	if _, err := f.pipeline.Process(context.Background(), req); !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("expected not-found error, got %v", err)
	}
}

func TestProcessRejectsFinishedSession(t *testing.T) {
	f := newFixture(t, nil)
	f.sess.Finished = true
	if err := f.store.Save(f.sess); err != nil {
		t.Fatal(err)
	}

	if _, err := f.pipeline.Process(context.Background(), uploadRequest(f, 1)); !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestProcessRejectsUnknownMediaType(t *testing.T) {
	f := newFixture(t, nil)
	req := uploadRequest(f, 1)
	req.DeclaredMIME = "text/plain"
	req.FileName = "notes.txt"

	if _, err := f.pipeline.Process(context.Background(), req); !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	// Rejection happens before any file is written.
	if _, err := os.Stat(f.store.MediaPath(f.sess.Folder, "Q1.txt")); !os.IsNotExist(err) {
		t.Fatal("rejected upload left a file behind")
	}
}

func TestProcessExtensionFallbackAcceptsUnknownMIME(t *testing.T) {
	f := newFixture(t, nil)
	req := uploadRequest(f, 1)
	req.DeclaredMIME = "video/quicktime"
	req.FileName = "answer.mp4"

	if _, err := f.pipeline.Process(context.Background(), req); err != nil {
		t.Fatalf("expected extension fallback to accept upload: %v", err)
	}
}

func TestProcessWavUploadKeepsRawMedia(t *testing.T) {
	f := newFixture(t, nil)
	req := uploadRequest(f, 1)
	req.FileName = "answer.wav"
	req.DeclaredMIME = "application/octet-stream"

	result, err := f.pipeline.Process(context.Background(), req)
	if err != nil {
		t.Fatal(err)
	}
	if result.SavedFileName != "Q1.wav" {
		t.Fatalf("unexpected saved name: %q", result.SavedFileName)
	}
	// The audio cleanup must not touch the committed file even though both
	// are WAVs.
	if _, err := os.Stat(f.store.MediaPath(f.sess.Folder, "Q1.wav")); err != nil {
		t.Fatalf("committed media removed by audio cleanup: %v", err)
	}

	sess, err := f.store.Load(f.sess.Folder)
	if err != nil {
		t.Fatal(err)
	}
	rec, ok := sess.Upload(1)
	if !ok || rec.File != "Q1.wav" {
		t.Fatalf("unexpected record: %+v", rec)
	}
}

func TestProcessRejectsOversizedPayload(t *testing.T) {
	f := newFixture(t, nil, testsupport.WithMaxMB(1))
	req := uploadRequest(f, 1)
	req.Payload = make([]byte, 2<<20)

	if _, err := f.pipeline.Process(context.Background(), req); !errors.Is(err, services.ErrPayloadTooLarge) {
		t.Fatalf("expected payload-too-large error, got %v", err)
	}
	if _, err := os.Stat(f.store.MediaPath(f.sess.Folder, "Q1.webm")); !os.IsNotExist(err) {
		t.Fatal("oversized upload left a file behind")
	}
}

func TestProcessTranscriptionFailureCommitsSentinel(t *testing.T) {
	engine := stt.EngineFunc(func(ctx context.Context, audioPath string) (string, error) {
		return "", errors.New("model exploded")
	})
	f := newFixture(t, engine)

	result, err := f.pipeline.Process(context.Background(), uploadRequest(f, 1))
	if err != nil {
		t.Fatalf("transcription failure must not fail the upload: %v", err)
	}
	if !strings.HasPrefix(result.Transcript, SentinelPrefix) {
		t.Fatalf("expected sentinel transcript, got %q", result.Transcript)
	}
	if !strings.Contains(result.Transcript, "model exploded") {
		t.Fatalf("sentinel missing failure reason: %q", result.Transcript)
	}

	sess, err := f.store.Load(f.sess.Folder)
	if err != nil {
		t.Fatal(err)
	}
	rec, ok := sess.Upload(1)
	if !ok || !strings.HasPrefix(rec.Transcript, SentinelPrefix) {
		t.Fatalf("expected committed sentinel record, got %+v", rec)
	}
	if _, err := os.Stat(f.store.MediaPath(f.sess.Folder, "Q1.webm")); err != nil {
		t.Fatalf("raw media must survive STT failure: %v", err)
	}
}

func TestProcessExtractionFailureCommitsSentinel(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.NewStore(t, cfg)
	transcripts := transcript.NewManager(store.Dir)
	engine := stt.EngineFunc(func(ctx context.Context, audioPath string) (string, error) {
		t.Error("engine must not run when extraction fails")
		return "", nil
	})
	pipeline := New(cfg, store, transcripts, testsupport.FailingExtractor(errors.New("corrupt container")), engine, logging.NewNop())

	sess, err := store.Create("alice")
	if err != nil {
		t.Fatal(err)
	}

	result, err := pipeline.Process(context.Background(), Request{
		SessionID:     sess.Folder,
		QuestionIndex: 1,
		Payload:       []byte("junk"),
		DeclaredMIME:  "video/webm",
		FileName:      "Q1.webm",
	})
	if err != nil {
		t.Fatalf("extraction failure must not fail the upload: %v", err)
	}
	if !strings.Contains(result.Transcript, "corrupt container") {
		t.Fatalf("sentinel missing extraction reason: %q", result.Transcript)
	}
}

func TestProcessTruncatesPreview(t *testing.T) {
	long := strings.Repeat("a", 500)
	engine := stt.EngineFunc(func(ctx context.Context, audioPath string) (string, error) {
		return long, nil
	})
	f := newFixture(t, engine)

	result, err := f.pipeline.Process(context.Background(), uploadRequest(f, 1))
	if err != nil {
		t.Fatal(err)
	}
	// Full text in the response and transcript document.
	if result.Transcript != long {
		t.Fatal("response transcript truncated")
	}

	sess, err := f.store.Load(f.sess.Folder)
	if err != nil {
		t.Fatal(err)
	}
	rec, _ := sess.Upload(1)
	if len(rec.Transcript) != f.cfg.Interview.TranscriptPreviewChars {
		t.Fatalf("expected %d-char preview, got %d", f.cfg.Interview.TranscriptPreviewChars, len(rec.Transcript))
	}
}
