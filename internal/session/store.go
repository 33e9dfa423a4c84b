package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"

	"greenroom/internal/fileutil"
	"greenroom/internal/logging"
	"greenroom/internal/services"
	"greenroom/internal/textutil"
)

const (
	metaFileName = "meta.json"
	lockFileName = ".lock"

	// folderTimeFormat produces the human-readable local-time prefix of a
	// session identifier, truncated to the minute.
	folderTimeFormat = "02_01_2006_15_04"
)

// Store reads and writes session records under a single storage root.
// Mutating callers must hold the per-session lock (WithLock) around their
// load-mutate-save sequence.
type Store struct {
	root     string
	timezone string
	location *time.Location
	logger   *slog.Logger

	now func() time.Time

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewStore opens a session store rooted at root, stamping timestamps in the
// given timezone.
func NewStore(root, timezone string, logger *slog.Logger) (*Store, error) {
	location, err := time.LoadLocation(timezone)
	if err != nil {
		return nil, fmt.Errorf("load timezone %q: %w", timezone, err)
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create storage root: %w", err)
	}
	return &Store{
		root:     root,
		timezone: timezone,
		location: location,
		logger:   logging.NewComponentLogger(logger, "session-store"),
		now:      time.Now,
		locks:    make(map[string]*sync.Mutex),
	}, nil
}

// WithClock overrides the store's time source (used in tests).
func (s *Store) WithClock(now func() time.Time) {
	s.now = now
}

// Root returns the storage root directory.
func (s *Store) Root() string {
	return s.root
}

// NowLocal returns the current time formatted in the store's timezone.
func (s *Store) NowLocal() string {
	return s.now().In(s.location).Format(time.RFC3339)
}

// Dir returns the directory holding a session's artifacts.
func (s *Store) Dir(id string) string {
	return filepath.Join(s.root, id)
}

// MediaPath returns the path of a stored artifact inside a session directory.
func (s *Store) MediaPath(id, fileName string) string {
	return filepath.Join(s.Dir(id), fileName)
}

// Create derives a fresh session identifier from the current local time and
// the sanitized user label, creates the session directory, and writes the
// initial record synchronously before returning. When the derived name is
// already taken (two sessions for one label within the same minute) a short
// unique suffix is appended so neither record is silently overwritten.
func (s *Store) Create(userLabel string) (*Session, error) {
	label := textutil.SanitizeLabel(userLabel)
	base := fmt.Sprintf("%s_%s", s.now().In(s.location).Format(folderTimeFormat), label)

	// Mkdir doubles as the collision check: of two simultaneous creates for
	// the same label only one can win the unsuffixed name.
	id := base
	err := os.Mkdir(s.Dir(id), 0o755)
	if errors.Is(err, fs.ErrExist) {
		id = fmt.Sprintf("%s-%s", base, uuid.NewString()[:8])
		err = os.Mkdir(s.Dir(id), 0o755)
	}
	if err != nil {
		return nil, services.Wrap(services.ErrStorage, "session-store", "create", "create session directory", err)
	}

	startedAt := s.NowLocal()
	sess := &Session{
		Version:      MetaVersion,
		UserName:     label,
		Folder:       id,
		TimeZone:     s.timezone,
		SessionStart: startedAt,
		Uploaded:     []QuestionRecord{},
		Logs:         []Event{{At: startedAt, Event: EventStart}},
	}

	if err := s.Save(sess); err != nil {
		return nil, err
	}

	s.logger.Info("session created",
		logging.String(logging.FieldSession, id),
		logging.String("user", label))
	return sess, nil
}

// Load reads the record for a session identifier.
func (s *Store) Load(id string) (*Session, error) {
	if err := validateID(id); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(filepath.Join(s.Dir(id), metaFileName))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, services.Wrap(services.ErrNotFound, "session-store", "load", fmt.Sprintf("session %q", id), nil)
		}
		return nil, services.Wrap(services.ErrStorage, "session-store", "load", "read meta.json", err)
	}

	var sess Session
	if err := json.Unmarshal(data, &sess); err != nil {
		return nil, services.Wrap(services.ErrStorage, "session-store", "load", "decode meta.json", err)
	}
	return &sess, nil
}

// Save fully replaces the persisted record for a session. The write is
// atomic: a concurrent Load observes either the previous record or the new
// one, never a partial file.
func (s *Store) Save(sess *Session) error {
	if sess == nil {
		return services.Wrap(services.ErrStorage, "session-store", "save", "nil session", nil)
	}
	if err := validateID(sess.Folder); err != nil {
		return err
	}

	data, err := json.MarshalIndent(sess, "", "  ")
	if err != nil {
		return services.Wrap(services.ErrStorage, "session-store", "save", "encode meta.json", err)
	}
	data = append(data, '\n')

	path := filepath.Join(s.Dir(sess.Folder), metaFileName)
	if err := fileutil.WriteFileAtomic(path, data, 0o644); err != nil {
		return services.Wrap(services.ErrStorage, "session-store", "save", "write meta.json", err)
	}
	return nil
}

// List returns every session under the storage root, newest first.
func (s *Store) List() ([]*Session, error) {
	entries, err := os.ReadDir(s.root)
	if err != nil {
		return nil, services.Wrap(services.ErrStorage, "session-store", "list", "read storage root", err)
	}

	sessions := make([]*Session, 0, len(entries))
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		sess, err := s.Load(entry.Name())
		if err != nil {
			// Directories without a readable record are skipped, not fatal.
			s.logger.Warn("skipping unreadable session directory",
				logging.String(logging.FieldSession, entry.Name()),
				logging.Error(err))
			continue
		}
		sessions = append(sessions, sess)
	}

	sort.Slice(sessions, func(i, j int) bool {
		return sessions[i].SessionStart > sessions[j].SessionStart
	})
	return sessions, nil
}

// WithLock runs fn while holding the session's mutual-exclusion scope: an
// in-process mutex keyed by identifier plus a file lock inside the session
// directory for cross-process exclusion. Locks for different sessions never
// contend.
func (s *Store) WithLock(id string, fn func() error) error {
	if err := validateID(id); err != nil {
		return err
	}

	mu := s.sessionMutex(id)
	mu.Lock()
	defer mu.Unlock()

	fileLock := flock.New(filepath.Join(s.Dir(id), lockFileName))
	if err := fileLock.Lock(); err != nil {
		return services.Wrap(services.ErrStorage, "session-store", "lock", fmt.Sprintf("session %q", id), err)
	}
	defer fileLock.Unlock() //nolint:errcheck

	return fn()
}

func (s *Store) sessionMutex(id string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	mu, ok := s.locks[id]
	if !ok {
		mu = &sync.Mutex{}
		s.locks[id] = mu
	}
	return mu
}

// validateID rejects identifiers that would escape the storage root.
func validateID(id string) error {
	if strings.TrimSpace(id) == "" {
		return services.Wrap(services.ErrValidation, "session-store", "validate", "empty session identifier", nil)
	}
	if id != filepath.Base(id) || id == "." || id == ".." {
		return services.Wrap(services.ErrValidation, "session-store", "validate", fmt.Sprintf("invalid session identifier %q", id), nil)
	}
	return nil
}
