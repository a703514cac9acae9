package profile

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
)

// Profile is the configuration to start the main server.
type Profile struct {
	// Mode can be "prod" or "dev" or "demo"
	Mode string
	// Addr is the binding address for server
	Addr string
	// Port is the binding port for server
	Port int
	// Data is the data directory
	Data string
	// DSN points to where aparatus stores its own data
	DSN string
	// Driver is the database driver (sqlite or postgres)
	Driver string
	// Version is the current version of server
	Version string
	// Secret signs access tokens
	Secret string

	// AI configuration
	AIAPIKey  string // APARATUS_AI_API_KEY
	AIBaseURL string // APARATUS_AI_BASE_URL (default: https://api.openai.com/v1)
	AIModel   string // APARATUS_AI_MODEL (default: gpt-4o-mini)
}

func (p *Profile) IsDev() bool {
	return p.Mode != "prod"
}

// IsAIEnabled returns true when an LLM provider is configured.
func (p *Profile) IsAIEnabled() bool {
	return p.AIAPIKey != ""
}

// Validate normalizes the profile and fills driver-dependent defaults.
func (p *Profile) Validate() error {
	if p.Mode != "demo" && p.Mode != "dev" && p.Mode != "prod" {
		p.Mode = "demo"
	}

	if p.Driver == "" {
		p.Driver = "sqlite"
	}
	if p.Driver != "sqlite" && p.Driver != "postgres" {
		return errors.Errorf("unsupported database driver: %s", p.Driver)
	}
	if p.Driver == "postgres" && p.DSN == "" {
		return errors.New("DSN is required for postgres driver")
	}

	dataDir, err := checkDataDir(p.Data)
	if err != nil {
		return errors.Wrap(err, "failed to check data directory")
	}
	p.Data = dataDir

	if p.Driver == "sqlite" && p.DSN == "" {
		dbFile := fmt.Sprintf("aparatus_%s.db", p.Mode)
		p.DSN = filepath.Join(dataDir, dbFile)
	}

	return nil
}

func checkDataDir(dataDir string) (string, error) {
	if dataDir == "" {
		dataDir = "."
	}

	// Convert to absolute path if a relative path is supplied.
	if !filepath.IsAbs(dataDir) {
		absDir, err := filepath.Abs(dataDir)
		if err != nil {
			return "", err
		}
		dataDir = absDir
	}

	dataDir = strings.TrimRight(dataDir, "\\/")
	if _, err := os.Stat(dataDir); err != nil {
		return "", errors.Wrapf(err, "unable to access data folder %s", dataDir)
	}

	return dataDir, nil
}
