package utils

import (
	"fmt"
	"os"
	"path/filepath"
)

const configTemplate = `# Optional. Pixeldrain API key, found at https://pixeldrain.com/user/api_keys
# Required for upload, stats and reupload. The PIXELDRAIN_API_KEY environment
# variable takes precedence over this value.
api_key = ""

# Optional download directory, default "/tmp"
download_directory = "/tmp"

# Optional log level, default "info"
loglevel = "info"
`

// GenerateConfig writes a commented configuration template to configPath,
// backing up an existing file first.
func GenerateConfig(configPath string) error {
	fmt.Printf("Generating config %s\n", configPath)

	// Check if config file already exists and back it up
	if _, err := os.Stat(configPath); err == nil {
		backupPath := configPath + ".bak"
		fmt.Printf("Backing up config %s\n", configPath)
		if err := os.Rename(configPath, backupPath); err != nil {
			return fmt.Errorf("failed to backup config: %w", err)
		}
	}

	// Create parent directory if it doesn't exist
	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	fmt.Printf("Writing %s\n", configPath)
	if err := os.WriteFile(configPath, []byte(configTemplate), 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}
