//go:build mage

package main

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

const (
	modulePath = "github.com/dkoosis/cleansarif"
	binPath    = "./bin/cleansarif"
)

// Default target - build the binary
var Default = Build

// Build builds the cleansarif binary with version information stamped in.
func Build() error {
	printH2Header("Build")
	if err := os.MkdirAll("bin", 0o750); err != nil {
		return err
	}

	pkg := modulePath + "/internal/version"
	ldflags := fmt.Sprintf("-s -w -X '%s.Version=%s' -X '%s.CommitHash=%s' -X '%s.BuildDate=%s'",
		pkg, gitVersion(), pkg, gitCommit(), pkg, time.Now().UTC().Format(time.RFC3339))

	if err := sh.RunV("go", "build", "-ldflags", ldflags, "-o", binPath, "./cmd/cleansarif"); err != nil {
		printStatus("❌", "Build failed")
		return err
	}
	printStatus("✅", "Built: "+binPath)
	return nil
}

// Install builds and installs cleansarif into GOBIN.
func Install() error {
	mg.Deps(Build)
	return sh.RunV("go", "install", "./cmd/cleansarif")
}

// Clean removes build artifacts
func Clean() error {
	printH2Header("Clean")
	if err := sh.Rm("bin"); err != nil {
		return err
	}
	if err := sh.Rm("coverage.out"); err != nil {
		return err
	}
	printStatus("✅", "Cleaned build artifacts")
	return nil
}

// QA runs formatting, vet, linters, tests and a build.
func QA() {
	mg.SerialDeps(Lint.All, Test.Race, Build)
	printStatus("✅", "QA complete!")
}

// Lint namespace for linting commands
type Lint mg.Namespace

// All runs all linters; missing optional linters are skipped.
func (Lint) All() error {
	var errs []error
	for _, lint := range []func() error{Lint{}.Format, Lint{}.Vet, Lint{}.Staticcheck, Lint{}.Golangci} {
		if err := lint(); err != nil && !isCommandNotFound(err) {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Format checks code formatting
func (Lint) Format() error {
	printH2Header("Go Format")
	out, err := sh.Output("gofmt", "-l", ".")
	if err != nil {
		return err
	}
	if out != "" {
		return fmt.Errorf("files need gofmt:\n%s", out)
	}
	return nil
}

// Vet runs go vet
func (Lint) Vet() error {
	printH2Header("Go Vet")
	return sh.RunV("go", "vet", "./...")
}

// Staticcheck runs staticcheck
func (Lint) Staticcheck() error {
	printH2Header("Staticcheck")
	return optionalTool("honnef.co/go/tools/cmd/staticcheck", "staticcheck", "./...")
}

// Golangci runs golangci-lint
func (Lint) Golangci() error {
	printH2Header("Golangci-lint")
	return optionalTool("github.com/golangci/golangci-lint/cmd/golangci-lint", "golangci-lint", "run", "--timeout=5m", "./...")
}

// Test namespace for testing commands
type Test mg.Namespace

// All runs all tests
func (Test) All() error {
	printH2Header("Tests")
	return sh.RunV("go", "test", "./...")
}

// Coverage runs tests with coverage
func (Test) Coverage() error {
	printH2Header("Test Coverage")
	if err := sh.RunV("go", "test", "-coverprofile=coverage.out", "./..."); err != nil {
		return err
	}
	_ = sh.RunV("go", "tool", "cover", "-func=coverage.out")
	return nil
}

// Race runs tests with race detector
func (Test) Race() error {
	printH2Header("Race Detector")
	return sh.RunV("go", "test", "-race", "./...")
}

// optionalTool runs a linter, printing an install hint when it is missing.
func optionalTool(installPath, cmd string, args ...string) error {
	err := sh.RunV(cmd, args...)
	if isCommandNotFound(err) {
		printStatus("⚠️ ", fmt.Sprintf("%s not found (install: go install %s@latest)", cmd, installPath))
	}
	return err
}

func isCommandNotFound(err error) bool {
	if err == nil {
		return false
	}
	return errors.Is(err, exec.ErrNotFound) || strings.Contains(err.Error(), "executable file not found")
}

func gitVersion() string {
	out, err := sh.Output("git", "describe", "--tags", "--always", "--dirty", "--match=v*")
	if err != nil {
		return "dev"
	}
	return out
}

func gitCommit() string {
	out, err := sh.Output("git", "rev-parse", "--short", "HEAD")
	if err != nil {
		return "unknown"
	}
	return out
}

func printH2Header(title string) {
	fmt.Printf("\n=== %s ===\n\n", title)
}

func printStatus(icon, msg string) {
	fmt.Printf("%s %s\n", icon, msg)
}
