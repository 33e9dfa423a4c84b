package transcript

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"greenroom/internal/fileutil"
	"greenroom/internal/services"
)

// FileName is the transcript document's name inside a session directory.
const FileName = "transcript.txt"

// Manager reads and rewrites transcript documents inside session
// directories.
type Manager struct {
	sessionDir func(id string) string
}

// NewManager constructs a Manager resolving session directories through the
// provided function (typically session.Store.Dir).
func NewManager(sessionDir func(id string) string) *Manager {
	return &Manager{sessionDir: sessionDir}
}

// Path returns the transcript document path for a session.
func (m *Manager) Path(sessionID string) string {
	return filepath.Join(m.sessionDir(sessionID), FileName)
}

// Read returns the raw transcript document, or an empty string when none
// exists yet.
func (m *Manager) Read(sessionID string) (string, error) {
	data, err := os.ReadFile(m.Path(sessionID))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", nil
		}
		return "", services.Wrap(services.ErrStorage, "transcript", "read", "read document", err)
	}
	return string(data), nil
}

// UpsertSection replaces the section for a question index and writes the
// whole document back atomically. Repeated calls with the same index replace
// rather than duplicate.
func (m *Manager) UpsertSection(sessionID string, questionIndex int, text string) error {
	raw, err := m.Read(sessionID)
	if err != nil {
		return err
	}

	doc := Parse(raw)
	doc.Upsert(questionIndex, text)

	if err := fileutil.WriteFileAtomic(m.Path(sessionID), []byte(doc.Render()), 0o644); err != nil {
		return services.Wrap(services.ErrStorage, "transcript", "upsert", "write document", err)
	}
	return nil
}
