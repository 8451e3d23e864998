package session

import (
	"time"

	"github.com/sirupsen/logrus"
)

// Store persists the session between runs.
type Store interface {
	LoadSession() (Context, error)
	SaveSession(Context) error
	ClearSession() error
}

// Manager is the single process-wide owner of the current session.
type Manager struct {
	store  Store
	now    func() time.Time
	logger logrus.FieldLogger
}

func NewManager(store Store, logger logrus.FieldLogger) *Manager {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Manager{store: store, now: time.Now, logger: logger}
}

// Current returns the stored session. An expired token is dropped and reported
// as no session at all.
func (m *Manager) Current() (Context, error) {
	sess, err := m.store.LoadSession()
	if err != nil {
		return Context{}, err
	}
	if sess.Expired(m.now()) {
		m.logger.WithField("user_id", sess.UserId).Info("stored session expired")
		if err := m.store.ClearSession(); err != nil {
			return Context{}, err
		}
		return Context{}, nil
	}
	return sess, nil
}

// Require is Current, failing with ErrNotLoggedIn when nobody is logged in.
func (m *Manager) Require() (Context, error) {
	sess, err := m.Current()
	if err != nil {
		return Context{}, err
	}
	if sess.Token == "" && sess.UserId == 0 {
		return Context{}, ErrNotLoggedIn
	}
	return sess, nil
}

func (m *Manager) Start(sess Context) error {
	return m.store.SaveSession(sess)
}

func (m *Manager) End() error {
	return m.store.ClearSession()
}
