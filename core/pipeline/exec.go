package pipeline

import (
	"errors"
	"fmt"
	"io/fs"
	"os/exec"
)

// Run spawns one process per stage and returns each stage's exit status
// indexed by pipeline position, not by termination order.
//
// The descriptor discipline mirrors the two sides of the spawn:
//
//   - Parent side: immediately after each stage is started, the parent
//     closes its own copies of that stage's non-standard descriptors.
//     Descriptors belonging to stages not yet spawned stay open until
//     their turn.
//   - Child side: exec.Cmd duplicates the assigned triple onto the
//     child's standard streams, and every other descriptor in this
//     process is close-on-exec, so a child can never hold open a pipe
//     end belonging to a sibling.
//
// A stage whose program cannot be found or is not executable reports
// "command not found" on its wired stderr and records status 1; its
// siblings are unaffected. Any other spawn failure is fatal to the
// session and is returned as an error.
func (p *Pipeline) Run() ([]int, error) {
	p.state = Spawning

	cmds := make([]*exec.Cmd, len(p.procs))
	statuses := make([]int, len(p.procs))

	for i, proc := range p.procs {
		cmd := exec.Command(proc.Argv[0], proc.Argv[1:]...)
		cmd.Stdin = proc.In
		cmd.Stdout = proc.Out
		cmd.Stderr = proc.Err

		err := cmd.Start()
		switch {
		case err == nil:
			cmds[i] = cmd
		case isNotFound(err):
			fmt.Fprintln(proc.Err, "Error: command not found")
			statuses[i] = 1
		default:
			proc.closeNonStd()
			p.releaseFrom(i + 1)
			return nil, fmt.Errorf("cannot spawn %s: %w", proc.Argv[0], err)
		}
		proc.closeNonStd()
	}
	p.state = Running

	// Reaping order is unconstrained; waiting in position order keeps the
	// status list aligned with pipeline positions.
	p.state = Collecting
	for i, cmd := range cmds {
		if cmd == nil {
			continue
		}
		if err := cmd.Wait(); err != nil {
			var exitErr *exec.ExitError
			if !errors.As(err, &exitErr) {
				return nil, fmt.Errorf("cannot wait for %s: %w", cmd.Path, err)
			}
		}
		statuses[i] = cmd.ProcessState.ExitCode()
	}
	p.state = Done

	return statuses, nil
}

// isNotFound reports whether a spawn error means the target program could
// not be located or invoked, the one spawn failure that stays local to a
// single stage.
func isNotFound(err error) bool {
	return errors.Is(err, exec.ErrNotFound) ||
		errors.Is(err, fs.ErrNotExist) ||
		errors.Is(err, fs.ErrPermission)
}
