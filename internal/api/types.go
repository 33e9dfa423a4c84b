package api

// VerifyTokenRequest checks a token before the client starts recording.
type VerifyTokenRequest struct {
	Token string `json:"token"`
}

// OKResponse acknowledges a request with no further payload.
type OKResponse struct {
	OK bool `json:"ok"`
}

// StartSessionRequest opens a new interview session.
type StartSessionRequest struct {
	Token    string `json:"token"`
	UserName string `json:"userName"`
}

// StartSessionResponse returns the identifier of the created session.
type StartSessionResponse struct {
	OK     bool   `json:"ok"`
	Folder string `json:"folder"`
}

// UploadResponse acknowledges a committed per-question upload.
type UploadResponse struct {
	OK         bool   `json:"ok"`
	SavedAs    string `json:"savedAs"`
	Transcript string `json:"transcript"`
}

// FinishSessionRequest closes a session.
type FinishSessionRequest struct {
	Token          string `json:"token"`
	Folder         string `json:"folder"`
	QuestionsCount int    `json:"questionsCount"`
}

// ErrorResponse is the envelope for every non-2xx reply.
type ErrorResponse struct {
	Error ErrorBody `json:"error"`
}

// ErrorBody carries the failure category and a human-readable message.
type ErrorBody struct {
	Category string `json:"category"`
	Message  string `json:"message"`
}

// QuestionsResponse lists the configured interview prompts in order.
type QuestionsResponse struct {
	Questions []string `json:"questions"`
}

// UploadedAnswer is the committed metadata of one answered question.
type UploadedAnswer struct {
	Q          int     `json:"q"`
	File       string  `json:"file"`
	SizeMB     float64 `json:"sizeMB"`
	Checksum   string  `json:"checksum"`
	Mime       string  `json:"mime"`
	UploadedAt string  `json:"uploadedAt"`
	Transcript string  `json:"transcript"`
}

// SessionEvent is one entry of a session's append-only log.
type SessionEvent struct {
	At    string `json:"at"`
	Event string `json:"event"`
	Q     int    `json:"q,omitempty"`
}

// SessionSummary is the listing view of one session.
type SessionSummary struct {
	Folder       string `json:"folder"`
	UserName     string `json:"userName"`
	SessionStart string `json:"sessionStart"`
	Finished     bool   `json:"finished"`
	Uploads      int    `json:"uploads"`
}

// SessionDetail is the full view of one session.
type SessionDetail struct {
	Folder         string           `json:"folder"`
	UserName       string           `json:"userName"`
	TimeZone       string           `json:"timeZone"`
	SessionStart   string           `json:"sessionStart"`
	SessionEnd     *string          `json:"sessionEnd"`
	Finished       bool             `json:"finished"`
	QuestionsCount int              `json:"questionsCount"`
	Uploaded       []UploadedAnswer `json:"uploaded"`
	Logs           []SessionEvent   `json:"logs"`
}

// SessionListResponse wraps the session listing.
type SessionListResponse struct {
	Sessions []SessionSummary `json:"sessions"`
}

// DependencyStatus reports one external binary's availability.
type DependencyStatus struct {
	Name        string `json:"name"`
	Command     string `json:"command"`
	Description string `json:"description"`
	Optional    bool   `json:"optional"`
	Available   bool   `json:"available"`
	Detail      string `json:"detail,omitempty"`
}

// StatusResponse is the service health and inventory view.
type StatusResponse struct {
	StorageRoot      string             `json:"storageRoot"`
	Sessions         int                `json:"sessions"`
	FinishedSessions int                `json:"finishedSessions"`
	Dependencies     []DependencyStatus `json:"dependencies"`
}
