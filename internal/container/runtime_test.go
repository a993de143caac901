// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package container

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockExecutor records calls and returns configured responses.
type mockExecutor struct {
	availableBins map[string]bool // binary -> whether LookPath succeeds
	runnableCmds  map[string]bool // "bin arg1 arg2" -> whether RunSilent succeeds
	runPipedFunc  func(name string, args []string, stdin io.Reader, stdout io.Writer) error
}

func (m *mockExecutor) LookPath(file string) (string, error) {
	if m.availableBins[file] {
		return "/usr/bin/" + file, nil
	}
	return "", errors.New("not found: " + file)
}

func (m *mockExecutor) RunSilent(name string, args ...string) error {
	key := name + " " + strings.Join(args, " ")
	if m.runnableCmds[key] {
		return nil
	}
	return errors.New("command failed: " + key)
}

func (m *mockExecutor) RunPiped(_ context.Context, name string, args []string, stdin io.Reader, stdout, _ io.Writer) error {
	if m.runPipedFunc != nil {
		return m.runPipedFunc(name, args, stdin, stdout)
	}
	return nil
}

func TestDetectRuntime(t *testing.T) {
	tests := []struct {
		name     string
		exec     *mockExecutor
		wantName string
		wantErr  bool
	}{
		{
			name: "docker available",
			exec: &mockExecutor{
				availableBins: map[string]bool{"docker": true},
				runnableCmds:  map[string]bool{"docker info": true},
			},
			wantName: "docker",
		},
		{
			name: "podman fallback when docker missing",
			exec: &mockExecutor{
				availableBins: map[string]bool{"podman": true},
				runnableCmds:  map[string]bool{"podman info": true},
			},
			wantName: "podman",
		},
		{
			name:    "neither available",
			exec:    &mockExecutor{},
			wantErr: true,
		},
		{
			name: "docker on PATH but info fails, podman works",
			exec: &mockExecutor{
				availableBins: map[string]bool{"docker": true, "podman": true},
				runnableCmds:  map[string]bool{"podman info": true},
			},
			wantName: "podman",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rt, err := detectRuntime(tt.exec)
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), "no container runtime available")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantName, rt.Name())
		})
	}
}

func TestImageExists(t *testing.T) {
	const image = "libreoffice:latest"
	tests := []struct {
		name    string
		mkRT    func(*mockExecutor) Runtime
		cmds    map[string]bool
		wantErr bool
	}{
		{
			name: "docker image exists",
			mkRT: func(e *mockExecutor) Runtime { return newDockerRuntime(e) },
			cmds: map[string]bool{"docker image inspect " + image: true},
		},
		{
			name:    "docker image not found",
			mkRT:    func(e *mockExecutor) Runtime { return newDockerRuntime(e) },
			wantErr: true,
		},
		{
			name: "podman image exists",
			mkRT: func(e *mockExecutor) Runtime { return newPodmanRuntime(e) },
			cmds: map[string]bool{"podman image exists " + image: true},
		},
		{
			name:    "podman image not found",
			mkRT:    func(e *mockExecutor) Runtime { return newPodmanRuntime(e) },
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rt := tt.mkRT(&mockExecutor{runnableCmds: tt.cmds})
			err := rt.ImageExists(image)
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), image)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestRunArgs(t *testing.T) {
	tests := []struct {
		name string
		spec RunSpec
		want []string
	}{
		{
			name: "image only",
			spec: RunSpec{Image: "libreoffice:latest"},
			want: []string{"run", "--rm", "libreoffice:latest"},
		},
		{
			name: "mounts user and command",
			spec: RunSpec{
				Image: "libreoffice:latest",
				Args:  []string{"soffice", "--headless"},
				User:  "1000:1000",
				Mounts: []Mount{
					{Source: "/home/me/in", Target: "/in", ReadOnly: true},
					{Source: "/home/me/out", Target: "/out"},
				},
			},
			want: []string{
				"run", "--rm", "--user", "1000:1000",
				"-v", "/home/me/in:/in:ro",
				"-v", "/home/me/out:/out",
				"libreoffice:latest", "soffice", "--headless",
			},
		},
		{
			name: "stdin adds interactive flag",
			spec: RunSpec{Image: "img", Stdin: strings.NewReader("x")},
			want: []string{"run", "--rm", "-i", "img"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, runArgs(tt.spec))
		})
	}
}

func TestRun(t *testing.T) {
	t.Run("passes binary and arguments", func(t *testing.T) {
		var gotName string
		var gotArgs []string
		exec := &mockExecutor{runPipedFunc: func(name string, args []string, _ io.Reader, _ io.Writer) error {
			gotName, gotArgs = name, args
			return nil
		}}
		rt := newPodmanRuntime(exec)
		err := rt.Run(context.Background(), RunSpec{Image: "img", Args: []string{"soffice"}})
		require.NoError(t, err)
		assert.Equal(t, "podman", gotName)
		assert.Equal(t, []string{"run", "--rm", "img", "soffice"}, gotArgs)
	})

	t.Run("failure returns wrapped error", func(t *testing.T) {
		cause := errors.New("container exited with code 1")
		exec := &mockExecutor{runPipedFunc: func(string, []string, io.Reader, io.Writer) error {
			return cause
		}}
		err := newDockerRuntime(exec).Run(context.Background(), RunSpec{Image: "img"})
		require.Error(t, err)
		assert.ErrorIs(t, err, cause)
		assert.Contains(t, err.Error(), "docker container img")
	})
}

func TestRuntimeName(t *testing.T) {
	exec := &mockExecutor{}
	assert.Equal(t, "docker", newDockerRuntime(exec).Name())
	assert.Equal(t, "podman", newPodmanRuntime(exec).Name())
}
