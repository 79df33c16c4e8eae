package cmd

import (
	"errors"
	"io/fs"

	"github.com/spf13/cobra"

	"github.com/sshell/sshell/core/config"
)

var cfgPath string

// loadConfig loads the configuration, falling back to the embedded
// defaults when none has been initialized on disk.
func loadConfig() (*config.Configuration, error) {
	configuration, err := config.Load(cfgPath)

	if errors.Is(err, fs.ErrNotExist) {
		return config.Default(), nil
	}

	return configuration, err
}

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "sshell",
	Short: "Simple shell",
	Long:  `A line-oriented command interpreter that runs pipelines of external programs.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	cobra.CheckErr(rootCmd.Execute())
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", ".", "config path")
}
