package service

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/promptcap/promptcap/internal/capture"
	"github.com/promptcap/promptcap/internal/domain"
	"github.com/promptcap/promptcap/internal/repository"
)

// Capturer is the slice of the capture engine the run service needs.
// Satisfied by *capture.Controller.
type Capturer interface {
	Capture(ctx context.Context, req capture.Request) (*capture.Result, error)
}

// RunServiceImpl renders nothing itself: it receives the final prompt
// text, drives the capture engine, and records the outcome in history.
type RunServiceImpl struct {
	capturer       Capturer
	runs           repository.RunRepo
	outputDir      string
	maxOutputBytes int64
}

// NewRunService wires the run service. outputDir is where chunk logs
// land when the caller does not pick a path; maxOutputBytes is the
// configured default cap.
func NewRunService(capturer Capturer, runs repository.RunRepo, outputDir string, maxOutputBytes int64) *RunServiceImpl {
	return &RunServiceImpl{
		capturer:       capturer,
		runs:           runs,
		outputDir:      outputDir,
		maxOutputBytes: maxOutputBytes,
	}
}

func (s *RunServiceImpl) Execute(ctx context.Context, req RunRequest) (*RunOutcome, error) {
	if req.Command == "" {
		return nil, fmt.Errorf("run request: command is required")
	}

	if !req.Capture {
		return s.executePassthrough(ctx, req)
	}

	id := uuid.New().String()
	outputPath := req.OutputPath
	if outputPath == "" {
		if err := os.MkdirAll(s.outputDir, 0755); err != nil {
			return nil, fmt.Errorf("creating output directory: %w", err)
		}
		outputPath = filepath.Join(s.outputDir, id+".json")
	}
	maxBytes := req.MaxOutputBytes
	if maxBytes <= 0 {
		maxBytes = s.maxOutputBytes
	}

	if req.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, req.Timeout)
		defer cancel()
	}

	started := time.Now().UTC()
	result, err := s.capturer.Capture(ctx, capture.Request{
		Command:        req.Command,
		Args:           req.Args,
		Prompt:         req.Prompt,
		OutputPath:     outputPath,
		MaxOutputBytes: maxBytes,
		WorkDir:        req.WorkDir,
	})
	if err != nil {
		return nil, fmt.Errorf("capturing %s: %w", req.Command, err)
	}
	duration := time.Since(started)

	record := &domain.RunRecord{
		ID:             id,
		PromptName:     req.PromptName,
		Command:        req.Command,
		Args:           req.Args,
		RenderedPrompt: req.Prompt,
		OutputFile:     result.OutputFile,
		ExitCode:       result.ExitCode,
		Truncated:      result.Truncated,
		OutputBytes:    result.OutputSize,
		Error:          result.Error,
		StartedAt:      started,
		DurationMS:     duration.Milliseconds(),
		CreatedAt:      time.Now().UTC(),
	}
	// A timed-out run still gets recorded; the capture context is
	// already expired at this point.
	if err := s.runs.Create(context.WithoutCancel(ctx), record); err != nil {
		// The capture itself succeeded; surface the history failure
		// without losing the result.
		return &RunOutcome{Record: record, Result: result}, fmt.Errorf("recording run: %w", err)
	}

	return &RunOutcome{Record: record, Result: result}, nil
}

// executePassthrough runs the command attached to this process's stdio
// with no chunk log. The run is still recorded in history so pruning
// and search see it, but with no output artifact.
func (s *RunServiceImpl) executePassthrough(ctx context.Context, req RunRequest) (*RunOutcome, error) {
	if req.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, req.Timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, req.Command, req.Args...)
	cmd.Dir = req.WorkDir
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if req.Prompt != "" {
		cmd.Stdin = strings.NewReader(req.Prompt + "\n")
	} else {
		cmd.Stdin = os.Stdin
	}

	started := time.Now().UTC()
	runErr := cmd.Run()
	duration := time.Since(started)

	record := &domain.RunRecord{
		ID:             uuid.New().String(),
		PromptName:     req.PromptName,
		Command:        req.Command,
		Args:           req.Args,
		RenderedPrompt: req.Prompt,
		StartedAt:      started,
		DurationMS:     duration.Milliseconds(),
		CreatedAt:      time.Now().UTC(),
	}

	var exitErr *exec.ExitError
	switch {
	case runErr == nil:
		code := 0
		record.ExitCode = &code
	case errors.As(runErr, &exitErr):
		if code := exitErr.ExitCode(); code >= 0 {
			record.ExitCode = &code
		}
	default:
		record.Error = runErr.Error()
	}

	if err := s.runs.Create(context.WithoutCancel(ctx), record); err != nil {
		return &RunOutcome{Record: record}, fmt.Errorf("recording run: %w", err)
	}

	return &RunOutcome{Record: record}, nil
}
