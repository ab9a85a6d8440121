// Package capture drives an arbitrary, possibly interactive, external
// process and records everything it prints, byte for byte, without
// corrupting its terminal semantics. Programs that need raw-mode
// keyboard access get a real pseudoterminal; everything else gets
// plain pipes. Output lands in an ordered, timestamped chunk log with
// a hard size ceiling.
package capture

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sync"
	"time"
)

// Config carries the operational tuning values for the capture engine.
// The zero value is not usable; start from DefaultConfig.
type Config struct {
	// PtyCols and PtyRows set the pseudoterminal geometry.
	PtyCols uint16
	PtyRows uint16
	// KillGrace is how long Kill waits after SIGTERM before escalating
	// to SIGKILL.
	KillGrace time.Duration
	// TerminalPrograms always get a PTY regardless of the caller's own
	// terminal state.
	TerminalPrograms []string
	// IsTTY reports whether the engine itself is attached to a
	// terminal. Wired by the caller; nil means never.
	IsTTY func() bool
}

// DefaultConfig returns conservative defaults: 80x24 geometry and a 3s
// kill escalation window.
func DefaultConfig() Config {
	return Config{
		PtyCols:          80,
		PtyRows:          24,
		KillGrace:        3 * time.Second,
		TerminalPrograms: DefaultTerminalPrograms(),
	}
}

// Controller is the engine's public surface. One Controller serves any
// number of independent capture sessions; sessions share nothing but
// the filesystem, and distinct output paths are assumed non-overlapping.
type Controller struct {
	cfg      Config
	selector *Selector
}

// NewController builds a Controller from config.
func NewController(cfg Config) *Controller {
	return &Controller{
		cfg:      cfg,
		selector: NewSelector(cfg.TerminalPrograms),
	}
}

// Handle is the cancellable form of a running capture. Kill never
// blocks and never errors; the pending result still arrives with
// whatever had accumulated. Cancellation is not an error path.
type Handle struct {
	resultCh chan *Result
	sess     *session
	grace    time.Duration

	once   sync.Once
	result *Result
}

// Kill forwards to the session's kill. Safe to call multiple times,
// from any point of the session's life, including after completion.
func (h *Handle) Kill() {
	if h.sess != nil {
		h.sess.Kill(h.grace)
	}
}

// Wait blocks until the capture's single result is available. Safe to
// call repeatedly; later calls return the same result.
func (h *Handle) Wait() *Result {
	h.once.Do(func() {
		h.result = <-h.resultCh
	})
	return h.result
}

// Capture runs one request to completion. Context cancellation kills
// the child but still yields the partial result. The returned error is
// non-nil only for invalid requests; operational failures land in
// Result.Error.
func (c *Controller) Capture(ctx context.Context, req Request) (*Result, error) {
	handle, err := c.Start(req)
	if err != nil {
		return nil, err
	}
	done := make(chan *Result, 1)
	go func() { done <- handle.Wait() }()
	select {
	case res := <-done:
		return res, nil
	case <-ctx.Done():
		handle.Kill()
		return <-done, nil
	}
}

// Start begins a capture and returns a cancellable handle. Exactly one
// Result is produced per request, and the chunk log at OutputPath is
// valid JSON by the time the result is delivered — an empty array when
// the process never produced output or failed to spawn.
func (c *Controller) Start(req Request) (*Handle, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	isTTY := false
	if c.cfg.IsTTY != nil {
		isTTY = c.cfg.IsTTY()
	}
	mode := c.selector.Select(req.Command, isTTY)

	handle := &Handle{
		resultCh: make(chan *Result, 1),
		grace:    c.cfg.KillGrace,
	}

	sess, err := openSession(req.Command, req.Args, mode, sessionConfig{
		cols:    c.cfg.PtyCols,
		rows:    c.cfg.PtyRows,
		workDir: req.WorkDir,
	})
	if err != nil {
		res := &Result{OutputFile: req.OutputPath, Error: err.Error()}
		if perr := writeChunkLog(req.OutputPath, nil); perr != nil {
			res.Error = res.Error + "; " + perr.Error()
		}
		handle.resultCh <- res
		return handle, nil
	}
	handle.sess = sess

	go c.run(req, mode, sess, handle)
	return handle, nil
}

// run drives one session from injection to finalization. The prompt is
// injected synchronously before any data event is consumed, so the
// input chunk is ordered ahead of any output it causally triggers.
func (c *Controller) run(req Request, mode Mode, sess *session, handle *Handle) {
	rec := NewRecorder(req.MaxOutputBytes)
	injector := injectorFor(mode)

	written, injErr := injector.Inject(sess, req.Prompt)
	if written != "" {
		rec.RecordInput(written)
	}
	if injErr != nil {
		// A failed write is not retried; capture whatever the child
		// still produces and surface the failure in the result.
		sess.Kill(c.cfg.KillGrace)
	}

	for data := range sess.Data() {
		rec.RecordOutput(string(data))
	}
	status := <-sess.Exited()
	sess.cleanup()
	if cerr := injector.Cleanup(); cerr != nil && injErr == nil {
		injErr = cerr
	}

	res := &Result{
		ExitCode:   status.Code,
		Truncated:  rec.Truncated(),
		OutputSize: rec.Size(),
		OutputFile: req.OutputPath,
	}
	switch {
	case injErr != nil:
		res.Error = injErr.Error()
	case status.Err != nil:
		res.Error = status.Err.Error()
	}
	if perr := writeChunkLog(req.OutputPath, rec.Chunks()); perr != nil {
		if res.Error != "" {
			res.Error = res.Error + "; " + perr.Error()
		} else {
			res.Error = perr.Error()
		}
	}
	handle.resultCh <- res
}

func validateRequest(req Request) error {
	if req.Command == "" {
		return fmt.Errorf("capture request: command is required")
	}
	if req.OutputPath == "" {
		return fmt.Errorf("capture request: output path is required")
	}
	if req.MaxOutputBytes <= 0 {
		return fmt.Errorf("capture request: max output bytes must be positive, got %d", req.MaxOutputBytes)
	}
	return nil
}

// writeChunkLog persists the full ordered chunk array as one JSON
// document. Written once at finalization, never incrementally, so no
// two writes to the same path race within a session.
func writeChunkLog(path string, chunks []Chunk) error {
	if chunks == nil {
		chunks = []Chunk{}
	}
	data, err := json.MarshalIndent(chunks, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding chunk log: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing chunk log: %w", err)
	}
	return nil
}
