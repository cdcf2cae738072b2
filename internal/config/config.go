// Package config persists the provider/model/credential selection in a
// flat key-value env file under the user's chalbe directory.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	ConfigDirName   = ".chalbe"
	EnvFileName     = ".env"
	CatalogFileName = "models.yaml"
	HistoryFileName = "history.db"
)

// Keys stored in the env file.
const (
	keyProvider = "PROVIDER"
	keyModel    = "MODEL"
	keyAPIKey   = "API_KEY"
)

// Settings is the configured provider selection. The APIKey is an opaque
// secret and must never be logged.
type Settings struct {
	Provider string
	Model    string
	APIKey   string
}

// Complete reports whether all three values are present.
func (s *Settings) Complete() bool {
	return s != nil && s.Provider != "" && s.Model != "" && s.APIKey != ""
}

// Dir returns the path to the chalbe directory.
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ConfigDirName), nil
}

// EnvPath returns the path to the env file.
func EnvPath() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, EnvFileName), nil
}

// CatalogPath returns the path to the optional model catalog file.
func CatalogPath() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, CatalogFileName), nil
}

// HistoryPath returns the path to the history database.
func HistoryPath() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, HistoryFileName), nil
}

// Init creates the chalbe directory. Called once by the entry point.
func Init() error {
	dir, err := Dir()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	return nil
}

// Load reads the settings from disk. A missing env file returns (nil, nil)
// rather than an error.
func Load() (*Settings, error) {
	path, err := EnvPath()
	if err != nil {
		return nil, err
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, nil
	}

	env, err := godotenv.Read(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read env file: %w", err)
	}

	return &Settings{
		Provider: env[keyProvider],
		Model:    env[keyModel],
		APIKey:   env[keyAPIKey],
	}, nil
}

// Save writes the settings to disk, creating the directory if needed.
func Save(s *Settings) error {
	if err := Init(); err != nil {
		return err
	}

	path, err := EnvPath()
	if err != nil {
		return err
	}

	env := map[string]string{
		keyProvider: s.Provider,
		keyModel:    s.Model,
		keyAPIKey:   s.APIKey,
	}
	if err := godotenv.Write(env, path); err != nil {
		return fmt.Errorf("failed to write env file: %w", err)
	}
	return nil
}

// LoadCatalog reads the optional model catalog override file, a yaml map
// of provider name to additional model identifiers. A missing file is not
// an error.
func LoadCatalog() (map[string][]string, error) {
	path, err := CatalogPath()
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return map[string][]string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read model catalog: %w", err)
	}

	catalog := map[string][]string{}
	if err := yaml.Unmarshal(data, &catalog); err != nil {
		return nil, fmt.Errorf("failed to parse model catalog: %w", err)
	}
	return catalog, nil
}
