package cmd

import (
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/sshell/sshell/core"
)

// runCmd starts an interactive shell session on the process's own
// standard streams.
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Start an interactive shell session.",
	Args:  cobra.ExactArgs(0),
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true

		configuration, err := loadConfig()
		if err != nil {
			return err
		}

		isTerminal := term.IsTerminal(int(os.Stdin.Fd()))

		shell, err := core.NewShell(configuration, os.Stdin, os.Stdout, os.Stderr, isTerminal)
		if err != nil {
			return err
		}
		defer shell.Close()

		return shell.Run()
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
}
