package executor

import (
	"errors"
	"os"

	"github.com/hashicorp/go-multierror"
	"github.com/mitchellh/go-ps"
)

// terminateTree kills the process and every descendant of it.
// Descendants are collected before anything is killed so re-parented children are
// not missed. Wrapper commands such as `dotnet wix` spawn the real tool as a child.
func terminateTree(process *os.Process) error {
	var result *multierror.Error

	descendants, err := descendantsOf(process.Pid)
	if err != nil {
		result = multierror.Append(result, err)
	}

	for _, child := range descendants {
		if err = kill(child); err != nil {
			result = multierror.Append(result, err)
		}
	}

	if err = process.Kill(); err != nil && !errors.Is(err, os.ErrProcessDone) {
		result = multierror.Append(result, err)
	}

	return result.ErrorOrNil()
}

// descendantsOf returns the pids of all processes below root in the process tree.
func descendantsOf(root int) ([]int, error) {
	processList, err := ps.Processes()
	if err != nil {
		return nil, err
	}

	children := make(map[int][]int, len(processList))
	for _, process := range processList {
		children[process.PPid()] = append(children[process.PPid()], process.Pid())
	}

	var (
		descendants []int
		queue       = []int{root}
	)

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		for _, child := range children[current] {
			if child == root || child == os.Getpid() {
				continue
			}

			descendants = append(descendants, child)
			queue = append(queue, child)
		}
	}

	return descendants, nil
}

// kill terminates one process, treating an already finished process as success.
func kill(pid int) error {
	process, err := os.FindProcess(pid)
	if err != nil {
		return nil //nolint:nilerr // Nothing to kill.
	}

	if err = process.Kill(); err != nil && !errors.Is(err, os.ErrProcessDone) {
		return err
	}

	return nil
}
