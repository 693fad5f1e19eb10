package views

import (
	"context"
	"sync"
)

// LoginSession is the session surface the login page drives
type LoginSession interface {
	Login(ctx context.Context, username, password string) error
}

// Login is the sign-in page. A failed attempt leaves its message for display.
type Login struct {
	mu      sync.RWMutex
	session LoginSession
	message string
	submit  Submit
}

// NewLogin creates a login page for session
func NewLogin(session LoginSession) *Login {
	return &Login{session: session}
}

// Submit attempts to sign in. On failure the error is returned and its text kept
// as Message; on success the message is cleared.
func (l *Login) Submit(ctx context.Context, username, password string) error {
	if err := required("username", username, "password", password); err != nil {
		l.setMessage(err.Error())
		return err
	}
	if !l.submit.Begin() {
		return ErrBusy
	}
	defer l.submit.End()

	if err := l.session.Login(ctx, username, password); err != nil {
		l.setMessage(err.Error())
		return err
	}
	l.setMessage("")
	return nil
}

// Message is the error text of the last failed attempt
func (l *Login) Message() string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.message
}

// Submitting reports whether a sign-in is in flight
func (l *Login) Submitting() bool {
	return l.submit.Busy()
}

func (l *Login) setMessage(msg string) {
	l.mu.Lock()
	l.message = msg
	l.mu.Unlock()
}
