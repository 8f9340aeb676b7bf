package logging

import (
	"path/filepath"
	"testing"

	"github.com/getsentry/sentry-go"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetLevel(t *testing.T) {
	assert.Equal(t, logrus.DebugLevel, GetLevel("DEBUG"))
	assert.Equal(t, logrus.WarnLevel, GetLevel("warning"))
	assert.Equal(t, logrus.ErrorLevel, GetLevel("error"))
	assert.Equal(t, logrus.InfoLevel, GetLevel(""))
	assert.Equal(t, logrus.InfoLevel, GetLevel("loud"))
}

func TestSetup_FileOutput(t *testing.T) {
	name := filepath.Join(t.TempDir(), "server")
	closer := Setup(LoggerSetupParams{LogFileName: name, LogLevel: "debug", LogFormatJSON: true})
	t.Cleanup(func() {
		Setup(LoggerSetupParams{LogLevel: "info"})
	})

	logrus.Info("hello")
	require.NoError(t, closer.Close())

	assert.FileExists(t, name+".log")
	assert.Equal(t, logrus.DebugLevel, logrus.GetLevel())
}

func TestSentryLevel(t *testing.T) {
	assert.Equal(t, sentry.LevelFatal, sentryLevel(logrus.PanicLevel))
	assert.Equal(t, sentry.LevelError, sentryLevel(logrus.ErrorLevel))
	assert.Equal(t, sentry.LevelDebug, sentryLevel(logrus.TraceLevel))

	h := NewSentryHook([]logrus.Level{logrus.ErrorLevel})
	assert.Equal(t, []logrus.Level{logrus.ErrorLevel}, h.Levels())
	// no client bound: firing must be harmless
	assert.NoError(t, h.Fire(logrus.NewEntry(logrus.New()).WithField("user", "u1")))
}
