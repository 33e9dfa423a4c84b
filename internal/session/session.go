package session

// Event names appended to the session log.
const (
	EventStart  = "session/start"
	EventUpload = "upload-one"
	EventFinish = "session/finish"
)

// MetaVersion is the current meta.json schema version.
const MetaVersion = 1

// Session is the durable record of one interview attempt, persisted as
// meta.json in the session directory. The Folder field doubles as the
// session identifier and the directory name.
type Session struct {
	Version        int              `json:"version"`
	UserName       string           `json:"userName"`
	Folder         string           `json:"folder"`
	TimeZone       string           `json:"timeZone"`
	SessionStart   string           `json:"sessionStart"`
	SessionEnd     *string          `json:"sessionEnd"`
	Finished       bool             `json:"finished"`
	QuestionsCount int              `json:"questionsCount"`
	Uploaded       []QuestionRecord `json:"uploaded"`
	Logs           []Event          `json:"logs"`
}

// QuestionRecord is the committed metadata for one question's uploaded
// answer. The transcript field holds a bounded preview; the full text lives
// in the session's transcript document.
type QuestionRecord struct {
	Q          int     `json:"q"`
	File       string  `json:"file"`
	SizeMB     float64 `json:"sizeMB"`
	Checksum   string  `json:"checksum"`
	Mime       string  `json:"mime"`
	UploadedAt string  `json:"uploadedAt"`
	Transcript string  `json:"transcript"`
}

// Event is one entry of the append-only session log.
type Event struct {
	At    string `json:"at"`
	Event string `json:"event"`
	Q     int    `json:"q,omitempty"`
}

// Upload returns the record for a question index, if present.
func (s *Session) Upload(questionIndex int) (QuestionRecord, bool) {
	for _, rec := range s.Uploaded {
		if rec.Q == questionIndex {
			return rec, true
		}
	}
	return QuestionRecord{}, false
}

// SetUpload replaces any existing record for the same question index, or
// appends when none exists. A session never holds two records for one index.
func (s *Session) SetUpload(rec QuestionRecord) {
	for i := range s.Uploaded {
		if s.Uploaded[i].Q == rec.Q {
			s.Uploaded[i] = rec
			return
		}
	}
	s.Uploaded = append(s.Uploaded, rec)
}

// AppendEvent adds one entry to the session log. The log is append-only;
// nothing in this package ever rewrites or drops existing entries.
func (s *Session) AppendEvent(at, name string, questionIndex int) {
	s.Logs = append(s.Logs, Event{At: at, Event: name, Q: questionIndex})
}
