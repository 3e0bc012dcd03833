package main

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type fakeController struct {
	err      error
	deadline bool
}

func (f *fakeController) Shutdown(ctx context.Context) error {
	_, f.deadline = ctx.Deadline()
	return f.err
}

type fakeCloser struct{ err error }

func (f fakeCloser) Close() error { return f.err }

func TestShutdownController_LogsError(t *testing.T) {
	core, logs := observer.New(zapcore.ErrorLevel)
	c := &fakeController{err: errors.New("save chunk (1,2): disk full")}

	shutdownController(c, zap.New(core).Sugar())

	assert.True(t, c.deadline)
	entries := logs.All()
	require.Len(t, entries, 1)
	assert.Contains(t, entries[0].Message, "disk full")
}

func TestShutdownController_Clean(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	shutdownController(&fakeController{}, zap.New(core).Sugar())
	assert.Zero(t, logs.Len())
}

func TestCloseStorage_LogsError(t *testing.T) {
	core, logs := observer.New(zapcore.ErrorLevel)
	closeStorage(fakeCloser{err: errors.New("busy")}, zap.New(core).Sugar())
	require.Equal(t, 1, logs.Len())
	assert.Contains(t, logs.All()[0].Message, "busy")
}
