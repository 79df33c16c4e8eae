package shell

import "errors"

const (
	// LineMax bounds a raw command line, terminator included.
	LineMax = 512
	// ArgMax bounds the argument count of a single stage.
	ArgMax = 16
	// ProcMax bounds the stage count of a pipeline.
	ProcMax = 8
)

// Parse errors. Each is local to one command line; the session continues.
var (
	ErrMissingCommand    = errors.New("missing command")
	ErrTooManyArgs       = errors.New("too many process arguments")
	ErrTooManyProcs      = errors.New("too many processes")
	ErrMissingOutputFile = errors.New("no output file")
	ErrMisplacedRedirect = errors.New("mislocated output redirection")
)

// Stage is one command of a pipeline: its argv plus whether its stderr
// joins the pipe to the next stage (the |& operator).
type Stage struct {
	Argv       []string
	PipeStderr bool
}

// Pipeline is the validated skeleton of a command line: 1..ProcMax stages
// and an optional output redirection on the last one. No descriptors are
// attached at this point; see the pipeline package.
type Pipeline struct {
	Stages         []Stage
	RedirectPath   string
	RedirectStderr bool
}

// Parse tokenizes and parses a raw command line.
func Parse(line string) (*Pipeline, error) {
	return ParseTokens(Tokenize(line))
}

// ParseTokens consumes tokens greedily, left to right, one stage at a
// time. A pipe operator starts the next stage; a redirect operator must be
// followed by exactly one argument (the file path) and then end of input.
func ParseTokens(tokens []Token) (*Pipeline, error) {
	p := &Pipeline{}
	i := 0

	for {
		if len(p.Stages) == ProcMax {
			return nil, ErrTooManyProcs
		}

		var argv []string
		for i < len(tokens) && tokens[i].Kind == TokenArgument {
			if len(argv) == ArgMax {
				return nil, ErrTooManyArgs
			}
			argv = append(argv, tokens[i].Text)
			i++
		}
		if len(argv) == 0 {
			return nil, ErrMissingCommand
		}
		p.Stages = append(p.Stages, Stage{Argv: argv})

		if i == len(tokens) {
			return p, nil
		}

		switch tokens[i].Kind {
		case TokenPipe, TokenPipeErr:
			p.Stages[len(p.Stages)-1].PipeStderr = tokens[i].Kind == TokenPipeErr
			i++

		case TokenRedirect, TokenRedirectErr:
			p.RedirectStderr = tokens[i].Kind == TokenRedirectErr
			i++
			if i == len(tokens) || tokens[i].Kind != TokenArgument {
				return nil, ErrMissingOutputFile
			}
			p.RedirectPath = tokens[i].Text
			i++
			if i != len(tokens) {
				return nil, ErrMisplacedRedirect
			}
			return p, nil
		}
	}
}
