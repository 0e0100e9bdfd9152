package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Config holds CLI configuration
type Config struct {
	ServerURL string
	Token     string
	TokenFile string
	Output    string
	Verbose   bool
}

// DefaultConfig returns config populated from environment variables
func DefaultConfig() *Config {
	cfg := &Config{
		ServerURL: "http://localhost:8080",
		Output:    "text",
	}

	if v := os.Getenv("VBELLUM_SERVER"); v != "" {
		cfg.ServerURL = v
	}
	if v := os.Getenv("VBELLUM_TOKEN"); v != "" {
		cfg.Token = v
	}
	if v := os.Getenv("VBELLUM_TOKEN_FILE"); v != "" {
		cfg.TokenFile = v
	} else {
		if home, err := os.UserHomeDir(); err == nil {
			cfg.TokenFile = filepath.Join(home, ".vbellum", "token")
		}
	}

	return cfg
}

// LoadToken reads the token from the token file when one was not supplied
// directly via flag or environment.
func (c *Config) LoadToken() error {
	if c.Token != "" || c.TokenFile == "" {
		return nil
	}

	data, err := os.ReadFile(c.TokenFile)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("reading token file: %w", err)
	}

	c.Token = strings.TrimSpace(string(data))
	return nil
}

// SaveToken writes the token to the token file, creating the directory if
// needed.
func (c *Config) SaveToken(token string) error {
	if c.TokenFile == "" {
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(c.TokenFile), 0o700); err != nil {
		return fmt.Errorf("creating token directory: %w", err)
	}

	if err := os.WriteFile(c.TokenFile, []byte(token), 0o600); err != nil {
		return fmt.Errorf("writing token file: %w", err)
	}

	return nil
}

// ClearToken removes the token file.
func (c *Config) ClearToken() error {
	if c.TokenFile == "" {
		return nil
	}

	if err := os.Remove(c.TokenFile); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("removing token file: %w", err)
	}

	return nil
}
