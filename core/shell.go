package core

import (
	"errors"
	"fmt"
	"io"
	"log"
	"strings"

	"github.com/abiosoft/readline"
	"github.com/fatih/color"
	"github.com/spf13/afero"

	"github.com/sshell/sshell/core/config"
	"github.com/sshell/sshell/core/pipeline"
	"github.com/sshell/sshell/core/shell"
)

// Shell is one interactive session: it reads command lines, dispatches
// builtins, and hands everything else to the pipeline engine.
type Shell struct {
	Config   *config.Configuration
	Readline *readline.Instance
	Fs       afero.Fs

	stdout     io.Writer
	stderr     io.Writer
	isTerminal bool
	quit       bool
}

// NewShell builds a session on the given streams. isTerminal selects the
// interactive behavior; when false every line read is echoed back so a
// scripted run reproduces its transcript.
func NewShell(cfg *config.Configuration, stdin io.Reader, stdout, stderr io.Writer, isTerminal bool) (*Shell, error) {
	rlCfg := &readline.Config{
		Stdin:       readline.NewCancelableStdin(stdin),
		Stdout:      stdout,
		Stderr:      stderr,
		HistoryFile: cfg.HistoryFilePath(),

		FuncIsTerminal: func() bool {
			return isTerminal
		},
	}

	if err := rlCfg.Init(); err != nil {
		return nil, err
	}

	rl, err := readline.NewEx(rlCfg)
	if err != nil {
		return nil, err
	}

	return &Shell{
		Config:     cfg,
		Readline:   rl,
		Fs:         afero.NewOsFs(),
		stdout:     stdout,
		stderr:     stderr,
		isTerminal: isTerminal,
	}, nil
}

// Prompt renders the configured prompt.
func (s *Shell) Prompt() string {
	prompt := s.Config.Prompt
	if s.Config.ColorPrompt {
		prompt = color.New(color.FgGreen, color.Bold).Sprint(prompt)
	}
	return prompt
}

// Run is the interactive loop. It returns nil when input ends or the exit
// builtin fires, and an error only for failures fatal to the session.
func (s *Shell) Run() error {
	if s.Config.Greeting != "" {
		fmt.Fprintln(s.stdout, s.Config.Greeting)
	}

	for !s.quit {
		s.Readline.SetPrompt(s.Prompt())
		line, err := s.Readline.Readline()

		switch {
		case err == io.EOF:
			return nil // Input closed, quit.

		case err == readline.ErrInterrupt:
			continue

		case err != nil:
			log.Printf("Error readline: %v", err)
			continue
		}

		if len(line) > shell.LineMax-1 {
			line = line[:shell.LineMax-1]
		}

		// Scripted sessions replay their input in the transcript.
		if !s.isTerminal {
			fmt.Fprintln(s.stdout, line)
		}

		if err := s.eval(line); err != nil {
			return err
		}
	}
	return nil
}

// eval runs a single command line to completion. Parse and wiring errors
// are reported and swallowed; only fatal orchestration errors propagate.
func (s *Shell) eval(line string) error {
	tokens := shell.Tokenize(line)
	if len(tokens) == 0 {
		return nil // blank line
	}

	plan, err := shell.ParseTokens(tokens)
	if err != nil {
		fmt.Fprintf(s.stderr, "Error: %v\n", err)
		return nil
	}

	// Builtins are recognized only as a single unpiped, unredirected
	// command; anything else goes through the pipeline engine as-is.
	if len(plan.Stages) == 1 && plan.RedirectPath == "" {
		if builtin, ok := AllBuiltins[plan.Stages[0].Argv[0]]; ok {
			status := builtin.Main(s, plan.Stages[0].Argv)
			s.reportCompleted(line, []int{status})
			return nil
		}
	}

	wired, err := pipeline.Wire(plan)
	if err != nil {
		if errors.Is(err, pipeline.ErrCannotOpenOutput) {
			fmt.Fprintf(s.stderr, "Error: %v\n", pipeline.ErrCannotOpenOutput)
			return nil
		}
		return err
	}

	statuses, err := wired.Run()
	if err != nil {
		return err
	}

	s.reportCompleted(line, statuses)
	return nil
}

// reportCompleted emits the end-of-command diagnostic: the literal line
// followed by one bracketed exit status per stage, in pipeline order.
func (s *Shell) reportCompleted(line string, statuses []int) {
	var b strings.Builder
	for _, status := range statuses {
		fmt.Fprintf(&b, "[%d]", status)
	}
	fmt.Fprintf(s.stderr, "+ completed '%s' %s\n", line, b.String())
}

// Close releases the session's line reader.
func (s *Shell) Close() error {
	return s.Readline.Close()
}
