// Package pipeline wires file descriptors across the stages of a parsed
// pipeline and runs the stages as concurrent OS processes.
//
// Correctness here is entirely a matter of descriptor ownership: each pipe
// end belongs to exactly one stage, and every copy a process holds of an
// end it does not own must be closed before the stages run, otherwise a
// downstream reader never sees EOF and the pipeline hangs.
package pipeline

import (
	"errors"
	"fmt"
	"os"

	"github.com/sshell/sshell/core/shell"
)

// ErrCannotOpenOutput reports a redirection target that could not be
// opened. Unlike pipe-creation failures it is local to one command line.
var ErrCannotOpenOutput = errors.New("cannot open output file")

// State tracks a pipeline instance through its lifecycle.
type State int

const (
	Built State = iota
	Spawning
	Running
	Collecting
	Done
)

// Proc is one stage ready to spawn: its argv and the descriptor triple the
// child's standard streams will be duplicated from. Non-standard entries
// are owned by this stage and are closed exactly once on every path.
type Proc struct {
	Argv []string
	In   *os.File
	Out  *os.File
	Err  *os.File
}

// closeNonStd releases the descriptors this stage owns. Out and Err alias
// the same file when stderr was folded into a pipe or redirect, so the
// pair is closed only once.
func (p *Proc) closeNonStd() {
	if p.In != os.Stdin {
		p.In.Close()
	}
	if p.Out != os.Stdout {
		p.Out.Close()
	}
	if p.Err != os.Stderr && p.Err != p.Out {
		p.Err.Close()
	}
}

// Pipeline is a fully wired pipeline instance. It is built once per
// command line, run once, and discarded.
type Pipeline struct {
	procs []*Proc
	state State
}

// State reports the lifecycle state of the pipeline.
func (p *Pipeline) State() State {
	return p.state
}

// release closes every descriptor owned by stages from index i on. Used on
// the error paths where the pipeline will never run.
func (p *Pipeline) releaseFrom(i int) {
	for ; i < len(p.procs); i++ {
		p.procs[i].closeNonStd()
	}
}

// Wire assigns the descriptor triple of every stage: stdin for the first
// stage, one fresh pipe per adjacent pair, and the redirection target (if
// any) for the last. The same descriptor is never shared between two
// different pipes.
//
// A redirection target that cannot be opened yields ErrCannotOpenOutput;
// any other failure (pipe creation) is fatal to the session because the
// partially wired state cannot be unwound safely.
func Wire(plan *shell.Pipeline) (*Pipeline, error) {
	p := &Pipeline{}
	for _, s := range plan.Stages {
		p.procs = append(p.procs, &Proc{
			Argv: s.Argv,
			In:   os.Stdin,
			Out:  os.Stdout,
			Err:  os.Stderr,
		})
	}

	for i := 0; i < len(plan.Stages)-1; i++ {
		r, w, err := os.Pipe()
		if err != nil {
			p.releaseFrom(0)
			return nil, fmt.Errorf("cannot create pipe: %w", err)
		}
		p.procs[i].Out = w
		if plan.Stages[i].PipeStderr {
			p.procs[i].Err = w
		}
		p.procs[i+1].In = r
	}

	if plan.RedirectPath != "" {
		f, err := os.OpenFile(plan.RedirectPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
		if err != nil {
			p.releaseFrom(0)
			return nil, ErrCannotOpenOutput
		}
		last := p.procs[len(p.procs)-1]
		last.Out = f
		if plan.RedirectStderr {
			last.Err = f
		}
	}

	return p, nil
}
