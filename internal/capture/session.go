package capture

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"sync"
	"syscall"
	"time"

	"github.com/creack/pty"
)

// readBufSize matches the kernel's usual PTY buffer granularity; chunks
// arrive at whatever size the OS delivers, with no further batching.
const readBufSize = 32 * 1024

// ExitStatus is the single exit event of a session. Code is nil when
// the child was ended by a signal.
type ExitStatus struct {
	Code *int
	Err  error
}

// sessionConfig carries the operational tuning values for one session.
type sessionConfig struct {
	cols    uint16
	rows    uint16
	workDir string
}

// session owns one child process for the lifetime of one capture. In a
// PTY mode the child is attached to a pseudoterminal; in pipe mode it
// gets plain pipes with stdout and stderr merged.
type session struct {
	mode Mode
	cmd  *exec.Cmd

	input  io.WriteCloser // PTY master or stdin pipe
	output io.ReadCloser  // PTY master or merged stdout/stderr pipe

	// ptyBacked means input and output are the same PTY master, which
	// gets closed exactly once.
	ptyBacked  bool
	outputOnce sync.Once

	data   chan []byte
	exited chan ExitStatus

	mu          sync.Mutex
	finished    bool
	killed      bool
	killErr     error
	inputClosed bool
	escalation  *time.Timer
}

// openSession spawns command in the given mode. It fails with an
// ErrSpawn-wrapped error if the executable cannot be found or the OS
// refuses to create the process or pseudoterminal.
func openSession(command string, args []string, mode Mode, cfg sessionConfig) (*session, error) {
	cmd := exec.Command(command, args...)
	cmd.Env = os.Environ()
	if cfg.workDir != "" {
		cmd.Dir = cfg.workDir
	}

	s := &session{
		mode:   mode,
		cmd:    cmd,
		data:   make(chan []byte),
		exited: make(chan ExitStatus, 1),
	}

	switch mode {
	case ModePtyDirect, ModePtyStaged:
		ws := &pty.Winsize{Rows: cfg.rows, Cols: cfg.cols}
		ptmx, err := pty.StartWithSize(cmd, ws)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrSpawn, err)
		}
		s.input = ptmx
		s.output = ptmx
		s.ptyBacked = true
	case ModePipeDirect:
		// The child leads its own process group so Kill reaches any
		// processes it spawns, not just the direct child. A PTY child
		// already gets this from its new session.
		cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
		stdin, err := cmd.StdinPipe()
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrSpawn, err)
		}
		pr, pw, err := os.Pipe()
		if err != nil {
			stdin.Close()
			return nil, fmt.Errorf("%w: %v", ErrSpawn, err)
		}
		cmd.Stdout = pw
		cmd.Stderr = pw
		if err := cmd.Start(); err != nil {
			stdin.Close()
			pr.Close()
			pw.Close()
			return nil, fmt.Errorf("%w: %v", ErrSpawn, err)
		}
		// Parent must drop its copy of the write end or the read side
		// never sees EOF.
		pw.Close()
		s.input = stdin
		s.output = pr
	default:
		return nil, fmt.Errorf("%w: unknown mode %q", ErrSpawn, mode)
	}

	go s.readLoop()
	go s.wait()
	return s, nil
}

// readLoop pumps child output onto the data channel in arrival order.
// The channel is closed when the child's output side ends; a PTY master
// reports EIO rather than EOF when the slave side goes away, which is
// the same condition.
func (s *session) readLoop() {
	defer close(s.data)
	buf := make([]byte, readBufSize)
	for {
		n, err := s.output.Read(buf)
		if n > 0 {
			chunk := make([]byte, n)
			copy(chunk, buf[:n])
			s.data <- chunk
		}
		if err != nil {
			return
		}
	}
}

// wait reaps the child and publishes the single exit event.
func (s *session) wait() {
	err := s.cmd.Wait()

	s.mu.Lock()
	s.finished = true
	if s.escalation != nil {
		s.escalation.Stop()
	}
	killed := s.killed
	killErr := s.killErr
	s.mu.Unlock()

	// A killed child may leave grandchildren holding the output handle
	// open; force EOF so the capture resolves now instead of whenever
	// they exit on their own.
	if killed {
		s.closeOutput()
	}

	status := ExitStatus{}
	if err == nil {
		code := 0
		status.Code = &code
	} else if exitErr, ok := err.(*exec.ExitError); ok {
		if ws, ok := exitErr.Sys().(syscall.WaitStatus); ok && ws.Signaled() {
			// Signal death: no exit code.
		} else {
			code := exitErr.ExitCode()
			status.Code = &code
		}
	} else {
		status.Err = err
	}
	if killErr != nil {
		status.Err = killErr
	}
	s.exited <- status
}

// Data delivers output chunks in the order the OS produced them. The
// channel closes when the child's output ends.
func (s *session) Data() <-chan []byte { return s.data }

// Exited delivers exactly one exit event.
func (s *session) Exited() <-chan ExitStatus { return s.exited }

// Write pushes bytes into the child's input channel. Writes after the
// child has exited are no-ops, not errors.
func (s *session) Write(data string) error {
	s.mu.Lock()
	done := s.finished || s.inputClosed
	s.mu.Unlock()
	if done {
		return nil
	}
	if _, err := io.WriteString(s.input, data); err != nil {
		return fmt.Errorf("%w: %v", ErrWrite, err)
	}
	return nil
}

// CloseInput closes the child's stdin so read-to-EOF programs can
// terminate naturally. Only meaningful in pipe mode; on a PTY this is
// a no-op because closing the master would tear down the terminal.
func (s *session) CloseInput() error {
	if s.mode != ModePipeDirect {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.inputClosed {
		return nil
	}
	s.inputClosed = true
	return s.input.Close()
}

// Kill terminates the child. Idempotent and non-blocking: it sends
// SIGTERM and arms an escalation timer that follows with SIGKILL if
// the child is still alive after the grace interval. The exit event is
// what resolves the capture, not this call.
func (s *session) Kill(grace time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.killed || s.finished || s.cmd.Process == nil {
		return
	}
	s.killed = true
	_ = s.signal(syscall.SIGTERM)
	s.escalation = time.AfterFunc(grace, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if s.finished {
			return
		}
		if err := s.signal(syscall.SIGKILL); err != nil && !benignSignalErr(err) {
			s.killErr = fmt.Errorf("%w: %v", ErrKill, err)
		}
	})
}

// signal delivers sig to the child's whole process group, falling back
// to the direct child when the group is already gone.
func (s *session) signal(sig syscall.Signal) error {
	if err := syscall.Kill(-s.cmd.Process.Pid, sig); err == nil {
		return nil
	}
	return s.cmd.Process.Signal(sig)
}

// benignSignalErr reports whether a signal failure just means the
// process finished first.
func benignSignalErr(err error) bool {
	return errors.Is(err, os.ErrProcessDone) || errors.Is(err, syscall.ESRCH)
}

// cleanup releases the session's file handles once the exit event has
// been consumed.
func (s *session) cleanup() {
	s.mu.Lock()
	closed := s.inputClosed
	s.inputClosed = true
	s.mu.Unlock()
	if !closed && !s.ptyBacked {
		_ = s.input.Close()
	}
	s.closeOutput()
}

// closeOutput closes the read side at most once. In a PTY mode this is
// the master, so it also retires the input handle.
func (s *session) closeOutput() {
	s.outputOnce.Do(func() { _ = s.output.Close() })
}
