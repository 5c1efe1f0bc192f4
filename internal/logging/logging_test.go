package logging

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLevelRouting(t *testing.T) {
	var out, errOut bytes.Buffer
	logger := slog.New(NewHandler(&out, &errOut))

	logger.Info("stock counted", "product", 1)
	logger.Warn("below minimum")
	logger.Error("query failed")
	logger.Debug("hidden")

	assert.Contains(t, out.String(), "stock counted")
	assert.Contains(t, out.String(), "below minimum")
	assert.NotContains(t, out.String(), "query failed")
	assert.Contains(t, errOut.String(), "query failed")
	assert.NotContains(t, out.String()+errOut.String(), "hidden")
}

func TestWithAttrsKeepsRouting(t *testing.T) {
	var out, errOut bytes.Buffer
	logger := slog.New(NewHandler(&out, &errOut)).With("request_id", "abc").WithGroup("req")

	logger.Error("boom", "status", 500)

	assert.Empty(t, out.String())
	assert.Contains(t, errOut.String(), "request_id=abc")
	assert.Contains(t, errOut.String(), "req.status=500")
}

func TestSetupWritesLogFile(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	path := filepath.Join(t.TempDir(), "estoque.log")
	cleanup, err := Setup("estoque", path)
	require.NoError(t, err)

	slog.Info("server started", "addr", ":8080")
	cleanup()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	line := string(data)
	assert.True(t, strings.Contains(line, "server started"), "log file: %q", line)
	assert.Contains(t, line, "service=estoque")
}

func TestSetupBadPath(t *testing.T) {
	_, err := Setup("estoque", filepath.Join(t.TempDir(), "missing", "dir", "x.log"))
	assert.Error(t, err)
}
