package ingest

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"strings"

	"greenroom/internal/config"
	"greenroom/internal/fileutil"
	"greenroom/internal/logging"
	"greenroom/internal/media"
	"greenroom/internal/services"
	"greenroom/internal/session"
	"greenroom/internal/stt"
	"greenroom/internal/transcript"
)

// SentinelPrefix marks a transcript that records an STT failure instead of
// real text.
const SentinelPrefix = "[STT ERROR]"

// fallbackExtension is used when the upload carries no usable file name.
const fallbackExtension = ".webm"

// Request is one per-question upload, already parsed by the transport layer.
type Request struct {
	SessionID     string
	QuestionIndex int
	Payload       []byte
	DeclaredMIME  string
	FileName      string
}

// Result acknowledges a committed upload.
type Result struct {
	SavedFileName string
	Transcript    string
}

// Pipeline coordinates validation, media persistence, transcription, and the
// final session commit for answer uploads.
type Pipeline struct {
	cfg         *config.Config
	store       *session.Store
	transcripts *transcript.Manager
	extractor   media.Extractor
	engine      stt.TranscriptionEngine
	logger      *slog.Logger
}

// New wires a Pipeline from its collaborators.
func New(cfg *config.Config, store *session.Store, transcripts *transcript.Manager, extractor media.Extractor, engine stt.TranscriptionEngine, logger *slog.Logger) *Pipeline {
	return &Pipeline{
		cfg:         cfg,
		store:       store,
		transcripts: transcripts,
		extractor:   extractor,
		engine:      engine,
		logger:      logging.NewComponentLogger(logger, "ingest"),
	}
}

// Process runs one upload through the pipeline. On success the session
// record, media file, and transcript document all reflect this request.
func (p *Pipeline) Process(ctx context.Context, req Request) (Result, error) {
	if err := p.validate(req); err != nil {
		return Result{}, err
	}

	savedName, checksum, sizeMB, err := p.persistMedia(req)
	if err != nil {
		return Result{}, err
	}

	transcriptText := p.deriveTranscript(ctx, req, savedName)

	if err := p.commit(req, savedName, checksum, sizeMB, transcriptText); err != nil {
		return Result{}, err
	}

	p.logger.Info("upload committed",
		logging.String(logging.FieldSession, req.SessionID),
		logging.Int(logging.FieldQuestion, req.QuestionIndex),
		logging.String("file", savedName),
		logging.Float64("size_mb", sizeMB),
		logging.Bool("stt_failed", strings.HasPrefix(transcriptText, SentinelPrefix)))

	return Result{SavedFileName: savedName, Transcript: transcriptText}, nil
}

// validate applies every check that must pass before any persistent
// mutation.
func (p *Pipeline) validate(req Request) error {
	if req.QuestionIndex < 1 || req.QuestionIndex > p.cfg.Interview.MaxQuestions {
		return services.Wrap(services.ErrValidation, "ingest", "validate",
			fmt.Sprintf("question index must be between 1 and %d", p.cfg.Interview.MaxQuestions), nil)
	}

	sess, err := p.store.Load(req.SessionID)
	if err != nil {
		return err
	}
	if sess.Finished {
		return services.Wrap(services.ErrValidation, "ingest", "validate", "session is finished", nil)
	}

	if !p.cfg.MIMEAllowed(req.DeclaredMIME) && !p.cfg.ExtensionRecognized(filepath.Ext(req.FileName)) {
		return services.Wrap(services.ErrValidation, "ingest", "validate",
			fmt.Sprintf("media type %q not accepted", req.DeclaredMIME), nil)
	}

	if int64(len(req.Payload)) > p.cfg.MaxUploadBytes() {
		return services.Wrap(services.ErrPayloadTooLarge, "ingest", "validate",
			fmt.Sprintf("payload exceeds %d MB", p.cfg.Upload.MaxMB), nil)
	}
	return nil
}

// persistMedia writes the raw payload to its deterministic per-question path
// before transcription is attempted, so an STT failure never loses the
// uploaded video.
func (p *Pipeline) persistMedia(req Request) (name, checksum string, sizeMB float64, err error) {
	ext := strings.ToLower(filepath.Ext(req.FileName))
	if ext == "" {
		ext = fallbackExtension
	}
	name = fmt.Sprintf("Q%d%s", req.QuestionIndex, ext)

	if err := os.WriteFile(p.store.MediaPath(req.SessionID, name), req.Payload, 0o644); err != nil {
		return "", "", 0, services.Wrap(services.ErrStorage, "ingest", "persist media", name, err)
	}

	sizeMB = math.Round(float64(len(req.Payload))/(1<<20)*100) / 100
	return name, fileutil.Checksum(req.Payload), sizeMB, nil
}

// deriveTranscript extracts audio and transcribes it, downgrading any
// failure (including timeout) to a sentinel transcript value.
func (p *Pipeline) deriveTranscript(ctx context.Context, req Request, savedName string) string {
	// Saved media names carry exactly one extension, so the two-dot suffix
	// can never collide with a committed file (an uploaded .wav lands at
	// Q<N>.wav, not here).
	audioPath := p.store.MediaPath(req.SessionID, fmt.Sprintf("Q%d.stt.wav", req.QuestionIndex))
	// The temporary audio artifact never outlives the request.
	defer os.Remove(audioPath)

	videoPath := p.store.MediaPath(req.SessionID, savedName)
	if err := p.extractor.ExtractAudio(ctx, videoPath, audioPath); err != nil {
		p.logger.Warn("audio extraction failed",
			logging.String(logging.FieldSession, req.SessionID),
			logging.Int(logging.FieldQuestion, req.QuestionIndex),
			logging.Error(err))
		return sentinel(err)
	}

	sttCtx, cancel := context.WithTimeout(ctx, p.cfg.TranscriptionTimeout())
	defer cancel()

	text, err := p.engine.Transcribe(sttCtx, audioPath)
	if err != nil {
		p.logger.Warn("transcription failed",
			logging.String(logging.FieldSession, req.SessionID),
			logging.Int(logging.FieldQuestion, req.QuestionIndex),
			logging.Error(err))
		return sentinel(err)
	}
	return text
}

// commit replaces the question's record and transcript section and persists
// the session, all under the per-session lock. The record is reloaded inside
// the lock so concurrent commits never act on stale state.
func (p *Pipeline) commit(req Request, savedName, checksum string, sizeMB float64, transcriptText string) error {
	return p.store.WithLock(req.SessionID, func() error {
		sess, err := p.store.Load(req.SessionID)
		if err != nil {
			return err
		}
		if sess.Finished {
			return services.Wrap(services.ErrValidation, "ingest", "commit", "session finished during processing", nil)
		}

		// A re-upload with a different container leaves the old file behind;
		// drop it so the directory only holds the committed artifact.
		if prev, ok := sess.Upload(req.QuestionIndex); ok && prev.File != savedName {
			_ = os.Remove(p.store.MediaPath(req.SessionID, prev.File))
		}

		sess.SetUpload(session.QuestionRecord{
			Q:          req.QuestionIndex,
			File:       savedName,
			SizeMB:     sizeMB,
			Checksum:   checksum,
			Mime:       req.DeclaredMIME,
			UploadedAt: p.store.NowLocal(),
			Transcript: preview(transcriptText, p.cfg.Interview.TranscriptPreviewChars),
		})

		if err := p.transcripts.UpsertSection(req.SessionID, req.QuestionIndex, transcriptText); err != nil {
			return err
		}

		sess.AppendEvent(p.store.NowLocal(), session.EventUpload, req.QuestionIndex)
		return p.store.Save(sess)
	})
}

func sentinel(err error) string {
	return fmt.Sprintf("%s\n%v", SentinelPrefix, err)
}

// preview returns a rune-safe prefix of the full transcript for the
// metadata record.
func preview(text string, limit int) string {
	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}
	return string(runes[:limit])
}
