// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package render

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/pdiddy/docmerge/internal/container"
)

const (
	// DefaultImage is the container image expected to provide soffice.
	DefaultImage = "libreoffice:latest"

	containerIn      = "/in"
	containerOut     = "/out"
	containerProfile = "/tmp/docmerge-profile"
)

// Container runs soffice inside a docker or podman container. The source
// directory is mounted read-only; the container only writes to a scratch
// directory next to the output.
type Container struct {
	runtime container.Runtime
	image   string
	timeout time.Duration
	user    string
}

// NewContainer verifies that image exists in rt before returning.
func NewContainer(rt container.Runtime, image string, timeout time.Duration) (*Container, error) {
	if image == "" {
		image = DefaultImage
	}
	if err := rt.ImageExists(image); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrEngineUnavailable, rt.Name(), err)
	}
	return &Container{runtime: rt, image: image, timeout: timeout, user: hostUser()}, nil
}

func (c *Container) Name() string { return c.runtime.Name() + ":" + c.image }

// Open returns a session; the profile lives inside the container and is
// discarded with it.
func (c *Container) Open(ctx context.Context) (Session, error) {
	return &containerSession{engine: c}, nil
}

type containerSession struct {
	engine *Container
}

func (s *containerSession) Export(ctx context.Context, src, outPath string, filter Filter) error {
	srcDir, err := filepath.Abs(filepath.Dir(src))
	if err != nil {
		return fmt.Errorf("resolving %s: %w", src, err)
	}
	c := s.engine
	return export(ctx, c.timeout, src, outPath, func(ctx context.Context, scratch string, stderr *bytes.Buffer) error {
		outDir, err := filepath.Abs(scratch)
		if err != nil {
			return err
		}
		args := append([]string{"soffice"},
			sofficeArgs(fileURL(containerProfile), filter, containerOut, containerIn+"/"+filepath.Base(src))...)
		return c.runtime.Run(ctx, container.RunSpec{
			Image: c.image,
			Args:  args,
			User:  c.user,
			Mounts: []container.Mount{
				{Source: srcDir, Target: containerIn, ReadOnly: true},
				{Source: outDir, Target: containerOut},
			},
			Stderr: stderr,
		})
	})
}

func (s *containerSession) Close() error { return nil }

// hostUser returns "uid:gid" so files written by the container belong to
// the invoking user. Empty on platforms without numeric ids.
func hostUser() string {
	uid, gid := os.Getuid(), os.Getgid()
	if uid < 0 || gid < 0 {
		return ""
	}
	return fmt.Sprintf("%d:%d", uid, gid)
}
