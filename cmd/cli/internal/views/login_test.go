package views

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSession struct {
	err   error
	calls int
}

func (f *fakeSession) Login(context.Context, string, string) error {
	f.calls++
	return f.err
}

func TestLoginSubmit(t *testing.T) {
	s := &fakeSession{err: errors.New("Invalid username or password")}
	l := NewLogin(s)

	require.Error(t, l.Submit(context.Background(), "admin", "bad"))
	assert.Equal(t, "Invalid username or password", l.Message())

	s.err = nil
	require.NoError(t, l.Submit(context.Background(), "admin", "good"))
	assert.Empty(t, l.Message())
	assert.Equal(t, 2, s.calls)
}

func TestLoginRequiresBothFields(t *testing.T) {
	s := &fakeSession{}
	l := NewLogin(s)
	assert.EqualError(t, l.Submit(context.Background(), "", ""), "username and password are required")
	assert.Equal(t, 0, s.calls)
}
