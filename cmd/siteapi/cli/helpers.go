package cli

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/viper"

	"github.com/webodise/siteapi/internal/config"
	"github.com/webodise/siteapi/internal/store"
)

// dataDir holds the --data-dir persistent flag value (set on root command).
var dataDir string

// resolveDataDir returns the data directory from the --data-dir flag, the
// SITEAPI_DATA_DIR env var, the config file's storage.data_dir, or ~/.siteapi
// as fallback. Every command resolves through here so that serve, admin,
// status and stop all operate on the same database and PID file.
func resolveDataDir() string {
	if dataDir != "" {
		return dataDir
	}
	if envDir := os.Getenv("SITEAPI_DATA_DIR"); envDir != "" {
		return envDir
	}
	if path := viper.ConfigFileUsed(); path != "" {
		if cfg, err := config.LoadYAMLConfig(path); err == nil && cfg.Storage.DataDir != "" {
			return cfg.Storage.DataDir
		}
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".siteapi")
}

// openStore opens the SQLite data store under the resolved data directory.
func openStore() (*store.Store, error) {
	return store.New(resolveDataDir())
}

// resolveUploadDir turns the configured upload directory into an absolute
// path, anchoring relative paths under the data directory.
func resolveUploadDir(configured string) string {
	if configured == "" {
		configured = "uploads"
	}
	if filepath.IsAbs(configured) {
		return configured
	}
	return filepath.Join(resolveDataDir(), configured)
}

// --- PID file management ---

func pidFilePath() string {
	return filepath.Join(resolveDataDir(), "siteapi.pid")
}

func writePID(pid int) error {
	dir := resolveDataDir()
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	return os.WriteFile(pidFilePath(), []byte(strconv.Itoa(pid)), 0644)
}

func readPID() (int, error) {
	data, err := os.ReadFile(pidFilePath())
	if err != nil {
		return 0, err
	}
	return strconv.Atoi(strings.TrimSpace(string(data)))
}

func removePID() {
	os.Remove(pidFilePath())
}

func logFilePath() string {
	return filepath.Join(resolveDataDir(), "siteapi.log")
}

// versionString returns a display version string.
func versionString() string {
	if appVersion == "" || appVersion == "dev" {
		return "dev"
	}
	if strings.HasPrefix(appVersion, "v") {
		return appVersion
	}
	return "v" + appVersion
}
