package capture

import "errors"

var (
	// ErrSpawn indicates the executable could not be found or the OS
	// refused to create the process or pseudoterminal.
	ErrSpawn = errors.New("spawning child process failed")

	// ErrWrite indicates an injection or mid-session write failed,
	// e.g. a broken pipe. Output captured before the failure is kept.
	ErrWrite = errors.New("writing to child process failed")

	// ErrKill indicates even the forceful kill signal failed.
	ErrKill = errors.New("killing child process failed")
)
