package config

import (
	"log"

	"github.com/spf13/afero"
)

// Initialize writes the default configuration into dir unless one already
// exists there.
func Initialize(dir string, logger *log.Logger) error {
	fs := afero.NewBasePathFs(afero.NewOsFs(), dir)

	exists, err := afero.Exists(fs, ConfigurationName)
	if err != nil {
		return err
	}
	if exists {
		logger.Printf("%s already exists, skipping", ConfigurationName)
		return nil
	}

	logger.Printf("Creating %s", ConfigurationName)
	return afero.WriteFile(fs, ConfigurationName, defaultConfigData, 0600)
}
