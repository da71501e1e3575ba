package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	ferrors "git.ormside.net/rke/blogbuilder/internal/foundation/errors"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_DefaultsApplied(t *testing.T) {
	cfg, err := Load(writeConfig(t, "site:\n  title: Blog\n"))
	require.NoError(t, err)

	require.Equal(t, "./content", cfg.Content.Dir)
	require.Equal(t, "./public", cfg.Output.Dir)
	require.True(t, cfg.Output.Clean)
	require.Equal(t, "info", cfg.Logging.Level)
	require.Equal(t, "text", cfg.Logging.Format)
	require.Equal(t, 8080, cfg.Preview.Port)
	require.Equal(t, 400*time.Millisecond, cfg.Preview.QuietWindow.Std())
	require.Equal(t, "blog.builds", cfg.Events.Subject)
	require.False(t, cfg.Build.IncludeDrafts)
}

func TestLoad_EnvExpansion(t *testing.T) {
	t.Setenv("BB_TEST_TITLE", "Expanded")
	cfg, err := Load(writeConfig(t, "site:\n  title: ${BB_TEST_TITLE}\n"))
	require.NoError(t, err)
	require.Equal(t, "Expanded", cfg.Site.Title)
}

func TestLoad_Durations(t *testing.T) {
	cfg, err := Load(writeConfig(t, "preview:\n  quiet_window: 250ms\n  max_delay: 3s\n  rebuild_interval: 15m\n"))
	require.NoError(t, err)
	require.Equal(t, 250*time.Millisecond, cfg.Preview.QuietWindow.Std())
	require.Equal(t, 3*time.Second, cfg.Preview.MaxDelay.Std())
	require.Equal(t, 15*time.Minute, cfg.Preview.RebuildInterval.Std())
}

func TestLoad_InvalidDuration_Fails(t *testing.T) {
	_, err := Load(writeConfig(t, "preview:\n  quiet_window: soonish\n"))
	require.Error(t, err)
	require.True(t, ferrors.HasCategory(err, ferrors.CategoryConfig))
}

func TestLoad_MissingFile_Fails(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
	require.True(t, ferrors.HasCategory(err, ferrors.CategoryConfig))
}

func TestValidate_EventsNeedURL(t *testing.T) {
	_, err := Load(writeConfig(t, "events:\n  enabled: true\n"))
	require.Error(t, err)
	require.True(t, ferrors.HasCategory(err, ferrors.CategoryConfig))
}

func TestValidate_GitNeedsURL(t *testing.T) {
	_, err := Load(writeConfig(t, "content:\n  git:\n    branch: main\n"))
	require.Error(t, err)
}

func TestValidate_QuietWindowBelowMaxDelay(t *testing.T) {
	_, err := Load(writeConfig(t, "preview:\n  quiet_window: 5s\n  max_delay: 1s\n"))
	require.Error(t, err)
}

func TestInit_WritesStarterAndRefusesOverwrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	require.NoError(t, Init(path, false))
	_, err := Load(path)
	require.NoError(t, err)

	require.Error(t, Init(path, false))
	require.NoError(t, Init(path, true))
}

func TestNormalizeLogLevelAndFormat(t *testing.T) {
	require.Equal(t, LogLevelInfo, NormalizeLogLevel(""))
	require.Equal(t, LogLevelWarn, NormalizeLogLevel("WARNING"))
	require.Equal(t, LogLevelDebug, NormalizeLogLevel(" debug "))
	require.Equal(t, LogFormatText, NormalizeLogFormat(""))
	require.Equal(t, LogFormatJSON, NormalizeLogFormat("JSON"))
}
