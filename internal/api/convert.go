package api

import (
	"greenroom/internal/deps"
	"greenroom/internal/session"
)

// FromSessionSummary projects a session record into its listing view.
func FromSessionSummary(sess *session.Session) SessionSummary {
	return SessionSummary{
		Folder:       sess.Folder,
		UserName:     sess.UserName,
		SessionStart: sess.SessionStart,
		Finished:     sess.Finished,
		Uploads:      len(sess.Uploaded),
	}
}

// FromSessionDetail projects a session record into its full view.
func FromSessionDetail(sess *session.Session) SessionDetail {
	answers := make([]UploadedAnswer, 0, len(sess.Uploaded))
	for _, rec := range sess.Uploaded {
		answers = append(answers, UploadedAnswer{
			Q:          rec.Q,
			File:       rec.File,
			SizeMB:     rec.SizeMB,
			Checksum:   rec.Checksum,
			Mime:       rec.Mime,
			UploadedAt: rec.UploadedAt,
			Transcript: rec.Transcript,
		})
	}
	events := make([]SessionEvent, 0, len(sess.Logs))
	for _, ev := range sess.Logs {
		events = append(events, SessionEvent{At: ev.At, Event: ev.Event, Q: ev.Q})
	}
	return SessionDetail{
		Folder:         sess.Folder,
		UserName:       sess.UserName,
		TimeZone:       sess.TimeZone,
		SessionStart:   sess.SessionStart,
		SessionEnd:     sess.SessionEnd,
		Finished:       sess.Finished,
		QuestionsCount: sess.QuestionsCount,
		Uploaded:       answers,
		Logs:           events,
	}
}

// FromDependencyStatuses projects binary checks into their API view.
func FromDependencyStatuses(statuses []deps.Status) []DependencyStatus {
	out := make([]DependencyStatus, 0, len(statuses))
	for _, st := range statuses {
		out = append(out, DependencyStatus{
			Name:        st.Name,
			Command:     st.Command,
			Description: st.Description,
			Optional:    st.Optional,
			Available:   st.Available,
			Detail:      st.Detail,
		})
	}
	return out
}
