//go:build mage

// Package main contains Mage build targets for docmerge developer tooling.
package main

import (
	"bufio"
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

const (
	binDir  = "bin"
	binName = "docmerge"
	cmdPkg  = "./cmd/docmerge"
)

// sampleDirs are the folders Init creates for a local trial run.
var sampleDirs = []string{"input", "output", "state"}

const sampleEnv = `INPUT_FOLDER=./input
OUTPUT_FOLDER=./output
DOCMERGE_HISTORY_DB=./state/history.db
`

// Init creates input/, output/ and state/ and writes a .env pointing at
// them unless one already exists.
func Init() error {
	for _, dir := range sampleDirs {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating %s: %w", dir, err)
		}
		fmt.Println("  ", dir)
	}
	if _, err := os.Stat(".env"); err == nil {
		fmt.Println(".env exists, left unchanged.")
		return nil
	}
	if err := os.WriteFile(".env", []byte(sampleEnv), 0o644); err != nil {
		return fmt.Errorf("writing .env: %w", err)
	}
	fmt.Println("Wrote .env.")
	return nil
}

// Build compiles the CLI binary into bin/, stamping the version from
// DOCMERGE_VERSION when set.
func Build() error {
	if err := os.MkdirAll(binDir, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", binDir, err)
	}
	out := filepath.Join(binDir, binName)
	args := []string{"build", "-o", out}
	if v := os.Getenv("DOCMERGE_VERSION"); v != "" {
		args = append(args, "-ldflags", "-X main.version="+v)
	}
	args = append(args, cmdPkg)
	if err := sh.RunV(mg.GoCmd(), args...); err != nil {
		return fmt.Errorf("go build: %w", err)
	}
	fmt.Printf("Built %s\n", out)
	return nil
}

// Test runs the unit tests.
func Test() error {
	return sh.RunV(mg.GoCmd(), "test", "./...")
}

// Merge builds the binary and runs it against the configured folders.
func Merge() error {
	mg.Deps(Build)
	return sh.RunV(filepath.Join(binDir, binName), "merge")
}

// Clean removes build output.
func Clean() error {
	return sh.Rm(binDir)
}

// Stats prints non-blank Go line counts for production and test code.
func Stats() error {
	prod, test, err := countGoLines(".")
	if err != nil {
		return err
	}
	fmt.Printf("Lines of code (Go, production): %d\n", prod)
	fmt.Printf("Lines of code (Go, tests):      %d\n", test)
	return nil
}

func countGoLines(root string) (prod, test int, err error) {
	err = filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != root && strings.HasPrefix(d.Name(), "_") {
				return filepath.SkipDir
			}
			return nil
		}
		if filepath.Ext(path) != ".go" {
			return nil
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("reading %s: %w", path, err)
		}
		n := 0
		sc := bufio.NewScanner(bytes.NewReader(data))
		for sc.Scan() {
			if strings.TrimSpace(sc.Text()) != "" {
				n++
			}
		}
		if strings.HasSuffix(path, "_test.go") {
			test += n
		} else {
			prod += n
		}
		return sc.Err()
	})
	return prod, test, err
}
