package daemon

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"log/slog"

	"greenroom/internal/api"
	"greenroom/internal/config"
	"greenroom/internal/ingest"
	"greenroom/internal/logging"
	"greenroom/internal/services"
)

type apiServer struct {
	bind   string
	logger *slog.Logger
	daemon *Daemon

	listener net.Listener
	server   *http.Server
}

func newAPIServer(cfg *config.Config, d *Daemon, logger *slog.Logger) (*apiServer, error) {
	bind := strings.TrimSpace(cfg.Paths.APIBind)
	if bind == "" {
		return nil, fmt.Errorf("api bind address is required")
	}

	srv := &apiServer{
		bind:   bind,
		logger: logging.NewComponentLogger(logger, "api-server"),
		daemon: d,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/api/verify-token", srv.handleVerifyToken)
	mux.HandleFunc("/api/session/start", srv.handleStartSession)
	mux.HandleFunc("/api/upload-one", srv.handleUploadOne)
	mux.HandleFunc("/api/session/finish", srv.handleFinishSession)
	mux.HandleFunc("/api/questions", srv.handleQuestions)
	mux.HandleFunc("/api/sessions", srv.handleSessions)
	mux.HandleFunc("/api/sessions/", srv.handleSessionItem)
	mux.HandleFunc("/api/status", srv.handleStatus)

	srv.server = &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       5 * time.Minute,
		WriteTimeout:      10 * time.Minute,
		IdleTimeout:       60 * time.Second,
	}
	return srv, nil
}

func (s *apiServer) start(ctx context.Context) error {
	listener, err := net.Listen("tcp", s.bind)
	if err != nil {
		return fmt.Errorf("api listen: %w", err)
	}
	s.listener = listener

	go func() {
		if err := s.server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("api server error", logging.Error(err))
		}
	}()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.server.Shutdown(shutdownCtx)
	}()

	s.logger.Info("api server listening", logging.String("address", listener.Addr().String()))
	return nil
}

func (s *apiServer) stop() {
	if s.server != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.server.Shutdown(shutdownCtx)
	}
	if s.listener != nil {
		_ = s.listener.Close()
		s.listener = nil
	}
}

func (s *apiServer) addr() string {
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

func (s *apiServer) handleVerifyToken(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.writeMethodNotAllowed(w)
		return
	}
	var req api.VerifyTokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeValidationError(w, "invalid json body")
		return
	}
	if !authorize(s.daemon.cfg.Auth.Tokens, r, req.Token) {
		s.writeUnauthorized(w)
		return
	}
	s.writeJSON(w, http.StatusOK, api.OKResponse{OK: true})
}

func (s *apiServer) handleStartSession(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.writeMethodNotAllowed(w)
		return
	}
	var req api.StartSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeValidationError(w, "invalid json body")
		return
	}
	if !authorize(s.daemon.cfg.Auth.Tokens, r, req.Token) {
		s.writeUnauthorized(w)
		return
	}

	sess, err := s.daemon.lifecycle.Start(req.UserName)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, api.StartSessionResponse{OK: true, Folder: sess.Folder})
}

func (s *apiServer) handleUploadOne(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.writeMethodNotAllowed(w)
		return
	}

	// The transport cap bounds how much of an abusive body is ever read; the
	// headroom lets the token field still be parsed when it follows an
	// oversized video part.
	maxBytes := s.daemon.cfg.MaxUploadBytes()
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes+(8<<20))

	form, err := parseUploadForm(r, maxBytes)
	if err != nil {
		s.writeValidationError(w, "invalid multipart body")
		return
	}

	// Authorization is decided before the size verdict: an unauthorized
	// caller learns nothing about the upload limits.
	if !authorize(s.daemon.cfg.Auth.Tokens, r, form.token) {
		s.writeUnauthorized(w)
		return
	}
	if form.tooLarge {
		s.writeError(w, services.Wrap(services.ErrPayloadTooLarge, "api-server", "upload",
			fmt.Sprintf("payload exceeds %d MB", s.daemon.cfg.Upload.MaxMB), nil))
		return
	}

	questionIndex, err := strconv.Atoi(form.questionIndex)
	if err != nil {
		s.writeValidationError(w, "questionIndex must be a number")
		return
	}
	if !form.hasVideo {
		s.writeValidationError(w, "video file is required")
		return
	}

	result, err := s.daemon.pipeline.Process(r.Context(), ingest.Request{
		SessionID:     form.folder,
		QuestionIndex: questionIndex,
		Payload:       form.payload,
		DeclaredMIME:  form.mimeType,
		FileName:      form.fileName,
	})
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, api.UploadResponse{
		OK:         true,
		SavedAs:    result.SavedFileName,
		Transcript: result.Transcript,
	})
}

type uploadForm struct {
	token         string
	folder        string
	questionIndex string
	fileName      string
	mimeType      string
	payload       []byte
	hasVideo      bool
	tooLarge      bool
}

// parseUploadForm streams the multipart parts, buffering the video up to
// maxBytes. Oversize is recorded rather than failed so the caller can settle
// authorization first; a tripped transport cap is treated the same way.
func parseUploadForm(r *http.Request, maxBytes int64) (*uploadForm, error) {
	reader, err := r.MultipartReader()
	if err != nil {
		return nil, err
	}

	form := &uploadForm{}
	for {
		part, err := reader.NextPart()
		if errors.Is(err, io.EOF) {
			return form, nil
		}
		if err != nil {
			if isMaxBytes(err) {
				form.tooLarge = true
				return form, nil
			}
			return nil, err
		}

		switch part.FormName() {
		case "token":
			form.token, err = readFieldValue(part)
		case "folder":
			form.folder, err = readFieldValue(part)
		case "questionIndex":
			form.questionIndex, err = readFieldValue(part)
		case "video":
			form.hasVideo = true
			form.fileName = part.FileName()
			form.mimeType = part.Header.Get("Content-Type")
			var payload []byte
			payload, err = io.ReadAll(io.LimitReader(part, maxBytes+1))
			if int64(len(payload)) > maxBytes {
				form.tooLarge = true
			} else {
				form.payload = payload
			}
		}
		if err != nil {
			if isMaxBytes(err) {
				form.tooLarge = true
				return form, nil
			}
			return nil, err
		}
	}
}

func readFieldValue(part io.Reader) (string, error) {
	data, err := io.ReadAll(io.LimitReader(part, 4<<10))
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}

func isMaxBytes(err error) bool {
	var maxBytesErr *http.MaxBytesError
	return errors.As(err, &maxBytesErr)
}

func (s *apiServer) handleFinishSession(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.writeMethodNotAllowed(w)
		return
	}
	var req api.FinishSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeValidationError(w, "invalid json body")
		return
	}
	if !authorize(s.daemon.cfg.Auth.Tokens, r, req.Token) {
		s.writeUnauthorized(w)
		return
	}

	if _, err := s.daemon.lifecycle.Finish(req.Folder, req.QuestionsCount); err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, api.OKResponse{OK: true})
}

func (s *apiServer) handleQuestions(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeMethodNotAllowed(w)
		return
	}
	s.writeJSON(w, http.StatusOK, api.QuestionsResponse{Questions: s.daemon.questions.Questions})
}

func (s *apiServer) handleSessions(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeMethodNotAllowed(w)
		return
	}
	summaries, err := s.daemon.sessions.List()
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, api.SessionListResponse{Sessions: summaries})
}

func (s *apiServer) handleSessionItem(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeMethodNotAllowed(w)
		return
	}
	id := strings.TrimPrefix(r.URL.Path, "/api/sessions/")
	if id == "" || strings.Contains(id, "/") {
		s.writeError(w, services.Wrap(services.ErrNotFound, "api-server", "describe", "session not found", nil))
		return
	}
	detail, err := s.daemon.sessions.Describe(id)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, detail)
}

func (s *apiServer) handleStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeMethodNotAllowed(w)
		return
	}
	status, err := s.daemon.Status()
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, status)
}

func (s *apiServer) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.logger.Error("failed to encode response", logging.Error(err))
	}
}

// writeError maps a service error onto the HTTP surface using the shared
// category taxonomy.
func (s *apiServer) writeError(w http.ResponseWriter, err error) {
	s.writeJSON(w, services.HTTPStatus(err), api.ErrorResponse{Error: api.ErrorBody{
		Category: services.Category(err),
		Message:  err.Error(),
	}})
}

func (s *apiServer) writeValidationError(w http.ResponseWriter, message string) {
	s.writeError(w, services.Wrap(services.ErrValidation, "api-server", "decode", message, nil))
}

func (s *apiServer) writeUnauthorized(w http.ResponseWriter) {
	s.writeError(w, services.Wrap(services.ErrUnauthorized, "api-server", "authorize", "token rejected", nil))
}

func (s *apiServer) writeMethodNotAllowed(w http.ResponseWriter) {
	s.writeJSON(w, http.StatusMethodNotAllowed, api.ErrorResponse{Error: api.ErrorBody{
		Category: "invalid_input",
		Message:  "method not allowed",
	}})
}
