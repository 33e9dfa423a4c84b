package lifecycle

import (
	"log/slog"
	"strings"

	"greenroom/internal/logging"
	"greenroom/internal/services"
	"greenroom/internal/session"
)

// Controller owns the session lifecycle transitions: starting a new session
// and marking an existing one finished.
type Controller struct {
	store  *session.Store
	logger *slog.Logger
}

// NewController wires a Controller over the session store.
func NewController(store *session.Store, logger *slog.Logger) *Controller {
	return &Controller{
		store:  store,
		logger: logging.NewComponentLogger(logger, "lifecycle"),
	}
}

// Start creates a fresh session for the given display name and returns its
// persisted record. The name is required; sanitization happens in the store.
func (c *Controller) Start(userName string) (*session.Session, error) {
	if strings.TrimSpace(userName) == "" {
		return nil, services.Wrap(services.ErrValidation, "lifecycle", "start", "user name is required", nil)
	}
	return c.store.Create(userName)
}

// Finish marks a session finished. The client-declared question count is
// recorded verbatim; a mismatch against the committed uploads is logged but
// never rejected, because the uploads themselves are the source of truth.
//
// Finish is idempotent for the end timestamp: repeating the call updates the
// declared count and appends another finish event, but the first recorded
// sessionEnd is preserved.
func (c *Controller) Finish(id string, questionsCount int) (*session.Session, error) {
	var finished *session.Session
	err := c.store.WithLock(id, func() error {
		sess, err := c.store.Load(id)
		if err != nil {
			return err
		}

		if questionsCount != len(sess.Uploaded) {
			c.logger.Warn("declared question count does not match committed uploads",
				logging.String(logging.FieldSession, id),
				logging.Int("declared", questionsCount),
				logging.Int("uploaded", len(sess.Uploaded)))
		}

		now := c.store.NowLocal()
		sess.Finished = true
		sess.QuestionsCount = questionsCount
		if sess.SessionEnd == nil {
			sess.SessionEnd = &now
		}
		sess.AppendEvent(now, session.EventFinish, 0)

		if err := c.store.Save(sess); err != nil {
			return err
		}
		finished = sess
		return nil
	})
	if err != nil {
		return nil, err
	}

	c.logger.Info("session finished",
		logging.String(logging.FieldSession, id),
		logging.Int("questions", questionsCount))
	return finished, nil
}
