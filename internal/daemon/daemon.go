package daemon

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"greenroom/internal/api"
	"greenroom/internal/config"
	"greenroom/internal/deps"
	"greenroom/internal/ingest"
	"greenroom/internal/lifecycle"
	"greenroom/internal/logging"
	"greenroom/internal/media"
	"greenroom/internal/questions"
	"greenroom/internal/session"
	"greenroom/internal/stt"
	"greenroom/internal/transcript"
)

// Daemon owns the long-running service: the session store, the upload
// pipeline, and the HTTP API that fronts them.
type Daemon struct {
	cfg    *config.Config
	logger *slog.Logger

	store     *session.Store
	pipeline  *ingest.Pipeline
	lifecycle *lifecycle.Controller
	sessions  *api.SessionService
	questions *questions.Set
	apiServer *apiServer
}

// Option overrides a daemon collaborator, used by tests to stand in for the
// external media tools.
type Option func(*options)

type options struct {
	extractor media.Extractor
	engine    stt.TranscriptionEngine
}

// WithExtractor replaces the audio extractor.
func WithExtractor(extractor media.Extractor) Option {
	return func(o *options) { o.extractor = extractor }
}

// WithEngine replaces the transcription engine.
func WithEngine(engine stt.TranscriptionEngine) Option {
	return func(o *options) { o.engine = engine }
}

// New wires a Daemon from configuration. The transcription engine is
// constructed lazily on first use so startup stays fast on machines where
// model loading is slow.
func New(cfg *config.Config, logger *slog.Logger, opts ...Option) (*Daemon, error) {
	if cfg == nil {
		return nil, fmt.Errorf("daemon requires configuration")
	}
	if logger == nil {
		logger = logging.NewNop()
	}

	store, err := session.NewStore(cfg.Paths.StorageRoot, cfg.Interview.Timezone, logger)
	if err != nil {
		return nil, fmt.Errorf("open session store: %w", err)
	}

	set := questions.Default()
	if path := strings.TrimSpace(cfg.Interview.QuestionsFile); path != "" {
		set, err = questions.Load(path)
		if err != nil {
			return nil, fmt.Errorf("load questions: %w", err)
		}
	}

	var o options
	for _, opt := range opts {
		opt(&o)
	}
	if o.engine == nil {
		o.engine = stt.NewShared(func() (stt.TranscriptionEngine, error) {
			return stt.NewWhisperCLI(stt.WhisperConfig{
				Binary:   cfg.STT.WhisperBinary,
				Model:    cfg.STT.WhisperModel,
				Language: cfg.STT.Language,
			}), nil
		})
	}
	if o.extractor == nil {
		o.extractor = media.NewFFmpeg(cfg.STT.FFmpegBinary)
	}

	transcripts := transcript.NewManager(store.Dir)

	d := &Daemon{
		cfg:       cfg,
		logger:    logging.NewComponentLogger(logger, "daemon"),
		store:     store,
		pipeline:  ingest.New(cfg, store, transcripts, o.extractor, o.engine, logger),
		lifecycle: lifecycle.NewController(store, logger),
		sessions:  api.NewSessionService(store),
		questions: set,
	}

	srv, err := newAPIServer(cfg, d, logger)
	if err != nil {
		return nil, err
	}
	d.apiServer = srv
	return d, nil
}

// Start brings up the HTTP API and reports missing external binaries. The
// daemon keeps serving with missing binaries because uploads still persist;
// only transcription degrades to sentinel values.
func (d *Daemon) Start(ctx context.Context) error {
	statuses := deps.CheckBinaries(deps.Requirements(d.cfg))
	if missing := deps.MissingRequired(statuses); len(missing) > 0 {
		d.logger.Warn("external binaries missing, transcripts will degrade",
			logging.Any("missing", missing))
	}
	return d.apiServer.start(ctx)
}

// Stop shuts the HTTP API down.
func (d *Daemon) Stop() {
	d.apiServer.stop()
}

// Addr returns the bound API address, empty before Start.
func (d *Daemon) Addr() string {
	return d.apiServer.addr()
}

// Handler exposes the API routes without binding a listener, used by tests.
func (d *Daemon) Handler() http.Handler {
	return d.apiServer.server.Handler
}

// Status assembles the service health and inventory view.
func (d *Daemon) Status() (api.StatusResponse, error) {
	sessions, err := d.store.List()
	if err != nil {
		return api.StatusResponse{}, err
	}
	finished := 0
	for _, sess := range sessions {
		if sess.Finished {
			finished++
		}
	}
	return api.StatusResponse{
		StorageRoot:      d.store.Root(),
		Sessions:         len(sessions),
		FinishedSessions: finished,
		Dependencies:     api.FromDependencyStatuses(deps.CheckBinaries(deps.Requirements(d.cfg))),
	}, nil
}
