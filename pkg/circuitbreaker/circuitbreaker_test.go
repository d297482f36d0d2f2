package circuitbreaker

import (
	"errors"
	"testing"
	"time"

	"github.com/sony/gobreaker/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

var errBackend = errors.New("backend down")

func TestBreaker_OpensAfterConsecutiveFailures(t *testing.T) {
	cb := New[string](Config{Name: "test", MaxFailures: 2, OpenTimeout: time.Minute}, zaptest.NewLogger(t))

	for i := 0; i < 2; i++ {
		_, err := cb.Execute(func() (string, error) { return "", errBackend })
		assert.ErrorIs(t, err, errBackend)
	}
	assert.Equal(t, gobreaker.StateOpen, cb.State())

	called := false
	_, err := cb.Execute(func() (string, error) {
		called = true
		return "ok", nil
	})
	assert.True(t, IsOpen(err))
	assert.False(t, called, "open breaker must not call through")
}

func TestBreaker_HalfOpenRecovers(t *testing.T) {
	cb := New[int](Config{Name: "test", MaxFailures: 1, OpenTimeout: 20 * time.Millisecond, HalfOpenRequests: 1}, zaptest.NewLogger(t))

	_, err := cb.Execute(func() (int, error) { return 0, errBackend })
	require.ErrorIs(t, err, errBackend)
	require.Equal(t, gobreaker.StateOpen, cb.State())

	require.Eventually(t, func() bool {
		return cb.State() == gobreaker.StateHalfOpen
	}, time.Second, 5*time.Millisecond)

	v, err := cb.Execute(func() (int, error) { return 42, nil })
	require.NoError(t, err)
	assert.Equal(t, 42, v)
	assert.Equal(t, gobreaker.StateClosed, cb.State())
}

func TestBreaker_IsSuccessfulIgnoresClientErrors(t *testing.T) {
	errRejected := errors.New("rejected")
	cb := New[int](Config{
		Name:         "test",
		MaxFailures:  1,
		OpenTimeout:  time.Minute,
		IsSuccessful: func(err error) bool { return err == nil || errors.Is(err, errRejected) },
	}, zaptest.NewLogger(t))

	for i := 0; i < 3; i++ {
		_, err := cb.Execute(func() (int, error) { return 0, errRejected })
		assert.ErrorIs(t, err, errRejected)
	}
	assert.Equal(t, gobreaker.StateClosed, cb.State())
}

func TestIsOpen(t *testing.T) {
	assert.True(t, IsOpen(gobreaker.ErrOpenState))
	assert.True(t, IsOpen(gobreaker.ErrTooManyRequests))
	assert.False(t, IsOpen(errBackend))
	assert.False(t, IsOpen(nil))
}
