// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package render

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"time"
)

// DefaultBinary is the soffice executable looked up on PATH.
const DefaultBinary = "soffice"

// commander abstracts process execution for testing.
type commander interface {
	LookPath(file string) (string, error)
	Run(ctx context.Context, name string, args []string, stderr io.Writer) error
}

type osCommander struct{}

func (osCommander) LookPath(file string) (string, error) {
	return exec.LookPath(file)
}

func (osCommander) Run(ctx context.Context, name string, args []string, stderr io.Writer) error {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stderr = stderr
	return cmd.Run()
}

// Local runs soffice from the host.
type Local struct {
	binary  string
	timeout time.Duration
	cmd     commander
}

// NewLocal locates binary on PATH. timeout bounds each export; zero means
// no limit.
func NewLocal(binary string, timeout time.Duration) (*Local, error) {
	return newLocal(binary, timeout, osCommander{})
}

func newLocal(binary string, timeout time.Duration, cmd commander) (*Local, error) {
	if binary == "" {
		binary = DefaultBinary
	}
	path, err := cmd.LookPath(binary)
	if err != nil {
		return nil, fmt.Errorf("%w: locating %s: %w", ErrEngineUnavailable, binary, err)
	}
	return &Local{binary: path, timeout: timeout, cmd: cmd}, nil
}

func (l *Local) Name() string { return l.binary }

// Open creates a private user profile so concurrent soffice instances on
// the host do not collide with this one. Close removes it.
func (l *Local) Open(ctx context.Context) (Session, error) {
	profile, err := os.MkdirTemp("", "docmerge-profile-*")
	if err != nil {
		return nil, fmt.Errorf("creating engine profile: %w", err)
	}
	return &localSession{engine: l, profile: profile}, nil
}

type localSession struct {
	engine  *Local
	profile string
}

func (s *localSession) Export(ctx context.Context, src, outPath string, filter Filter) error {
	return export(ctx, s.engine.timeout, src, outPath, func(ctx context.Context, scratch string, stderr *bytes.Buffer) error {
		args := sofficeArgs(fileURL(s.profile), filter, scratch, src)
		return s.engine.cmd.Run(ctx, s.engine.binary, args, stderr)
	})
}

func (s *localSession) Close() error {
	return os.RemoveAll(s.profile)
}
