package commands

import (
	"os"
	"path/filepath"
)

// claudeDir resolves the Claude Code home: CLAUDE_CONFIG_DIR wins,
// then ~/.claude, then ~/.config/claude.
func claudeDir() string {
	if dir := os.Getenv("CLAUDE_CONFIG_DIR"); dir != "" {
		return dir
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "."
	}

	claudePath := filepath.Join(homeDir, ".claude")
	if _, err := os.Stat(claudePath); err == nil {
		return claudePath
	}

	configPath := filepath.Join(homeDir, ".config", "claude")
	if _, err := os.Stat(configPath); err == nil {
		return configPath
	}

	return claudePath
}

func defaultProjectsDir() string {
	return filepath.Join(claudeDir(), "projects")
}

func defaultDashboardDir() string {
	return filepath.Join(claudeDir(), "dashboard")
}

// defaultConfigPath prefers config.yaml when present, falling back to
// the historical config.json (both parse through the same loader).
func defaultConfigPath(dashboardDir string) string {
	yamlPath := filepath.Join(dashboardDir, "config.yaml")
	if _, err := os.Stat(yamlPath); err == nil {
		return yamlPath
	}
	return filepath.Join(dashboardDir, "config.json")
}

func defaultLedgerPath(dashboardDir string) string {
	return filepath.Join(dashboardDir, "usage.json")
}
