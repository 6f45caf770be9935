// Package store loads and saves the template library configuration.
package store

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"momo-etl/internal/logging"
	"momo-etl/internal/template"
)

// templatesConfig is the YAML file layout: a top-level "templates" key
// holding the ordered definition list.
type templatesConfig struct {
	Templates []template.Definition `yaml:"templates"`
}

// TemplateStore resolves and loads the template definitions file. A missing
// file falls back to the built-in definitions; a present but malformed file
// is an error, because a half-loaded library would mis-parse the whole run.
type TemplateStore struct {
	TemplatesFile string
	logger        logging.Logger
}

// NewTemplateStore creates a store for the given file. An empty filename
// resolves to "templates.yaml" in the standard locations.
func NewTemplateStore(templatesFile string, logger logging.Logger) *TemplateStore {
	return &TemplateStore{TemplatesFile: templatesFile, logger: logger}
}

// FindConfigFile looks for the file in standard locations: the path itself,
// ./config/, and ~/.config/momo-etl/.
func (s *TemplateStore) FindConfigFile(filename string) (string, error) {
	if filepath.IsAbs(filename) {
		if _, err := os.Stat(filename); err == nil {
			return filename, nil
		}
		return "", os.ErrNotExist
	}

	locations := []string{
		filename,
		filepath.Join("config", filename),
	}
	for _, location := range locations {
		if _, err := os.Stat(location); err == nil {
			return location, nil
		}
	}

	homeDir, err := os.UserHomeDir()
	if err == nil {
		configPath := filepath.Join(homeDir, ".config", "momo-etl", filename)
		if _, err := os.Stat(configPath); err == nil {
			return configPath, nil
		}
	}

	return "", os.ErrNotExist
}

// LoadDefinitions returns the ordered template definitions for a run.
func (s *TemplateStore) LoadDefinitions() ([]template.Definition, error) {
	filename := s.TemplatesFile
	if filename == "" {
		filename = "templates.yaml"
	}

	filePath, err := s.FindConfigFile(filename)
	if err != nil {
		if os.IsNotExist(err) {
			s.logger.Debug("templates file not found, using built-in definitions",
				logging.F(logging.FieldInputFile, filename))
			return template.DefaultDefinitions(), nil
		}
		return nil, fmt.Errorf("error resolving templates file: %w", err)
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("error reading templates file: %w", err)
	}

	var cfg templatesConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("error parsing templates file %s: %w", filePath, err)
	}
	if len(cfg.Templates) == 0 {
		// Fallback: a bare top-level list without the "templates" key.
		var defs []template.Definition
		if err := yaml.Unmarshal(data, &defs); err != nil || len(defs) == 0 {
			return nil, fmt.Errorf("templates file %s declares no templates", filePath)
		}
		cfg.Templates = defs
	}

	s.logger.Info("template definitions loaded",
		logging.F(logging.FieldInputFile, filePath),
		logging.F(logging.FieldCount, len(cfg.Templates)))
	return cfg.Templates, nil
}

// LoadLibrary loads and compiles the library in one step.
func (s *TemplateStore) LoadLibrary() (*template.Library, error) {
	defs, err := s.LoadDefinitions()
	if err != nil {
		return nil, err
	}
	return template.NewLibrary(defs)
}

// SaveDefinitions writes definitions to the configured file, creating
// parent directories as needed. Used to seed a customizable copy of the
// built-in library.
func (s *TemplateStore) SaveDefinitions(defs []template.Definition, path string) error {
	if path == "" {
		path = s.TemplatesFile
	}
	if path == "" {
		path = "templates.yaml"
	}

	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		return fmt.Errorf("error creating directory: %w", err)
	}

	data, err := yaml.Marshal(templatesConfig{Templates: defs})
	if err != nil {
		return fmt.Errorf("error marshaling templates: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("error writing templates file: %w", err)
	}

	s.logger.Info("template definitions saved",
		logging.F(logging.FieldOutputFile, path),
		logging.F(logging.FieldCount, len(defs)))
	return nil
}
