package testutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCaptureLogger(t *testing.T) {
	logger, logs := CaptureLogger(t)
	logger.Debug("parse cache lookup failed", "file", "q.sql")
	logger.Info("lint finished", "violations", 2)

	assert.True(t, logs.Contains("parse cache lookup failed"))
	assert.True(t, logs.Contains("file=q.sql"))
	assert.True(t, logs.Contains("violations=2"))
	assert.False(t, logs.Contains("unparsable"))
}

func TestNewTestLogger(t *testing.T) {
	assert.NotPanics(t, func() {
		NewTestLogger(t).Debug("statement compiled", "dialect", "sqlite")
	})
}
