package core

import (
	"fmt"
	"os"
	"strings"

	"github.com/pborman/getopt/v2"
	"github.com/spf13/afero"
)

// AllBuiltins holds all registered shell builtins, keyed by command name.
// Builtins run inside the shell process and never enter the pipeline
// engine.
var AllBuiltins = make(map[string]Builtin)

type Builtin interface {
	Main(s *Shell, args []string) int
}

type BuiltinFunc func(s *Shell, args []string) int

func (f BuiltinFunc) Main(s *Shell, args []string) int {
	return f(s, args)
}

var _ Builtin = (BuiltinFunc)(nil)

// Exit ends the session.
func Exit(s *Shell, args []string) int {
	fmt.Fprintln(s.stderr, s.Config.Farewell)
	s.quit = true
	return 0
}

// Pwd prints the working directory.
func Pwd(s *Shell, args []string) int {
	wd, err := os.Getwd()
	if err != nil {
		return 1
	}
	fmt.Fprintln(s.stdout, wd)
	return 0
}

// Cd changes the working directory.
func Cd(s *Shell, args []string) int {
	if len(args) < 2 || os.Chdir(args[1]) != nil {
		fmt.Fprintln(s.stderr, "Error: cannot cd into directory")
		return 1
	}
	return 0
}

// Sls lists the contents of the working directory with sizes, skipping
// hidden entries unless -a is given.
func Sls(s *Shell, args []string) int {
	opts := getopt.New()
	all := opts.Bool('a', "include entries whose names begin with a dot")
	helpOpt := opts.BoolLong("help", 'h', "show help and exit")

	if err := opts.Getopt(args, nil); err != nil || *helpOpt {
		w := s.stderr
		if err != nil {
			fmt.Fprintln(w, err)
		}
		fmt.Fprintln(w, "usage: sls [-a]")
		fmt.Fprintln(w, "List the contents of the current directory with sizes.")
		if err != nil {
			return 1
		}
		return 0
	}

	entries, err := afero.ReadDir(s.Fs, ".")
	if err != nil {
		fmt.Fprintln(s.stderr, "Error: cannot open directory")
		return 1
	}

	for _, entry := range entries {
		if !*all && strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		fmt.Fprintf(s.stdout, "%s (%d bytes)\n", entry.Name(), entry.Size())
	}
	return 0
}

func init() {
	AllBuiltins["exit"] = BuiltinFunc(Exit)
	AllBuiltins["pwd"] = BuiltinFunc(Pwd)
	AllBuiltins["cd"] = BuiltinFunc(Cd)
	AllBuiltins["sls"] = BuiltinFunc(Sls)
}
