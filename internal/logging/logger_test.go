package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	for in, want := range map[string]LogLevel{"trace": TRACE, "DEBUG": DEBUG, "": INFO, "warning": WARN, "error": ERROR} {
		got, err := ParseLevel(in)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	_, err := ParseLevel("loud")
	assert.Error(t, err)
}

func TestWriterLoggerFiltersLevels(t *testing.T) {
	var buf bytes.Buffer
	l := NewWriterLogger("mine", &buf, INFO)

	l.Debug("скрыто")
	l.Info("пещера %d", 1)
	l.Error("ошибка")

	out := buf.String()
	assert.NotContains(t, out, "скрыто")
	assert.Contains(t, out, "[INFO] [mine] пещера 1")
	assert.Contains(t, out, "[ERROR] [mine] ошибка")
}

func TestFileLogger(t *testing.T) {
	dir := t.TempDir()
	Configure(Options{Dir: dir, ConsoleLevel: ERROR + 1, FileLevel: DEBUG})
	defer Configure(Options{ConsoleLevel: WARN, FileLevel: DEBUG})

	l, err := NewLogger("storage")
	require.NoError(t, err)
	l.Trace("не пишется")
	l.Debug("пишется")
	require.NoError(t, l.Close())
	require.NoError(t, l.Close(), "повторное закрытие безопасно")

	files, err := filepath.Glob(filepath.Join(dir, "storage_*.log"))
	require.NoError(t, err)
	require.Len(t, files, 1)

	data, err := os.ReadFile(files[0])
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(data), "пишется"))
	assert.False(t, strings.Contains(string(data), "не пишется"))
}

func TestGlobalLoggerNoopBeforeInit(t *testing.T) {
	CloseDefaultLogger()
	assert.NotPanics(t, func() {
		Info("до инициализации")
		Error("до инициализации")
	})
}

func TestManagerReusesLoggers(t *testing.T) {
	m := GetLoggerManager()
	a := m.Logger("api-test")
	b := GetComponentLogger("api-test")
	assert.Same(t, a, b)
	assert.Equal(t, "api-test", a.Component())
	assert.Contains(t, m.Components(), "api-test")

	require.NoError(t, m.CloseAll())
	assert.NotContains(t, m.Components(), "api-test", "после CloseAll логгеры создаются заново")
}
