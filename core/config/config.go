package config

import (
	_ "embed"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"sigs.k8s.io/yaml"
)

//go:embed default/config.yaml
var defaultConfigData []byte

// ConfigurationName is the on-disk name of the configuration file.
const ConfigurationName = "config.yaml"

// Configuration holds the user-tunable settings of a shell session.
type Configuration struct {
	configDir string

	Prompt      string `json:"prompt" validate:"required"`
	Greeting    string `json:"greeting"`
	Farewell    string `json:"farewell" validate:"required"`
	ColorPrompt bool   `json:"color_prompt"`
	HistoryFile string `json:"history_file"`
}

// Validate the configuration for basic semantic errors.
func (c *Configuration) Validate() error {
	validate := validator.New()
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		return name
	})

	return validate.Struct(c)
}

// HistoryFilePath resolves the history file relative to the directory the
// configuration was loaded from. Empty means history is not persisted.
func (c *Configuration) HistoryFilePath() string {
	if c.HistoryFile == "" || filepath.IsAbs(c.HistoryFile) || c.configDir == "" {
		return c.HistoryFile
	}
	return filepath.Join(c.configDir, c.HistoryFile)
}

// Default returns the embedded default configuration. It panics on
// failure because that can only mean a bad build.
func Default() *Configuration {
	var out Configuration
	if err := yaml.UnmarshalStrict(defaultConfigData, &out); err != nil {
		panic(err)
	}
	return &out
}
