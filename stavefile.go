//go:build stave

package main

import (
	"cmp"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/yaklabco/stave/pkg/sh"
	"github.com/yaklabco/stave/pkg/st"
	"github.com/yaklabco/stave/pkg/target"
)

// Default target runs build.
var Default = Build

// Aliases for common targets.
var Aliases = map[string]any{
	"b":   Build,
	"t":   Test.Default,
	"ts":  Test.Short,
	"l":   Lint.Default,
	"c":   Check,
	"fmt": Lint.Fmt,
	"fz":  Bench.Fuzz,
	"s":   Smoke,
}

// Namespace types group related targets.
type (
	Test  st.Namespace
	Lint  st.Namespace
	CI    st.Namespace
	Bench st.Namespace
)

// decoderPackages are the packages between raw bytes and the object graph.
var decoderPackages = []string{
	"./pkg/bytecursor/...",
	"./pkg/cfb/...",
	"./pkg/record/...",
	"./pkg/attrs/...",
	"./pkg/schematic/...",
	"./pkg/document/...",
	"./pkg/schdoc/...",
}

// Build compiles bin/gosch with version info when sources changed.
func Build() error {
	rebuild, err := target.Dir("bin/gosch", "cmd/", "pkg/", "internal/", "go.mod", "go.sum")
	if err != nil {
		return err
	}
	if !rebuild {
		fmt.Println("bin/gosch is up to date")
		return nil
	}
	fmt.Println("Building gosch...")
	return sh.RunV("go", "build", "-ldflags", ldflags(), "-o", "bin/gosch", "./cmd/gosch")
}

// Check runs format, lint, and the short test suite.
func Check() {
	st.SerialDeps(Lint.Fmt, Lint.Default, Test.Short)
}

// Clean removes build artifacts and smoke-test output.
func Clean() error {
	for _, path := range []string{"bin", "coverage.out", "coverage.html", filepath.Join("tmp", "smoke")} {
		if err := sh.Rm(path); err != nil {
			return err
		}
	}
	return nil
}

// Install installs gosch to $GOBIN or $GOPATH/bin.
func Install() error {
	fmt.Println("Installing gosch...")
	return sh.RunV("go", "install", "-ldflags", ldflags(), "./cmd/gosch")
}

// Default runs every test with race detection and coverage, including the
// multi-megabyte container fixtures that -short skips.
func (Test) Default() error {
	fmt.Println("Running tests...")
	return gotestsum("pkgname-and-test-fails", "./...", "-coverprofile=coverage.out", "-covermode=atomic")
}

// Short skips the large container fixtures.
func (Test) Short() error {
	fmt.Println("Running short tests...")
	return gotestsum("pkgname-and-test-fails", "-short", "./...")
}

// Decoder runs the decoding pipeline tests verbosely.
func (Test) Decoder() error {
	fmt.Println("Running decoder tests...")
	return gotestsum("standard-verbose", decoderPackages...)
}

// Coverage writes coverage.html from a full test run.
func (Test) Coverage() error {
	st.Deps(Test.Default)
	return sh.RunV("go", "tool", "cover", "-html=coverage.out", "-o", "coverage.html")
}

// Default runs golangci-lint with auto-fix.
func (Lint) Default() error {
	fmt.Println("Running linters...")
	return sh.RunV("golangci-lint", "run", "--fix", "./...")
}

// CI runs golangci-lint without auto-fix.
func (Lint) CI() error {
	return sh.RunV("golangci-lint", "run", "./...")
}

// Fmt formats all Go code.
func (Lint) Fmt() error {
	return sh.RunV("gofmt", "-w", ".")
}

// FmtCheck fails when any file needs gofmt.
func (Lint) FmtCheck() error {
	out, err := sh.Output("gofmt", "-l", ".")
	if err != nil {
		return fmt.Errorf("gofmt check failed: %w", err)
	}
	if out != "" {
		return fmt.Errorf("unformatted files:\n%s\nRun 'stave lint:fmt' to fix", out)
	}
	return nil
}

// Vet runs go vet.
func (Lint) Vet() error {
	return sh.RunV("go", "vet", "./...")
}

// Gate runs every CI check in order.
func (CI) Gate() error {
	st.SerialDeps(
		Lint.FmtCheck,
		Lint.Vet,
		Lint.CI,
		Build,
		Test.Default,
		CI.ModTidy,
		CI.Cross,
		Smoke,
	)
	fmt.Println("✓ All CI gate checks passed")
	return nil
}

// ModTidy fails when go mod tidy would change go.mod or go.sum.
func (CI) ModTidy() error {
	before, err := readModFiles()
	if err != nil {
		return err
	}
	if err := sh.RunV("go", "mod", "tidy"); err != nil {
		return err
	}
	after, err := readModFiles()
	if err != nil {
		return err
	}
	if before != after {
		return errors.New("go.mod or go.sum changed after 'go mod tidy'; commit the changes")
	}
	return nil
}

// Cross builds gosch for the platforms it is released on. Schematic files
// mostly live on Windows workstations, so both Windows targets are included.
func (CI) Cross() error {
	platforms := []struct{ goos, goarch string }{
		{"linux", "amd64"},
		{"linux", "arm64"},
		{"darwin", "arm64"},
		{"windows", "amd64"},
		{"windows", "arm64"},
	}
	for _, p := range platforms {
		fmt.Printf("  Building %s/%s...\n", p.goos, p.goarch)
		env := map[string]string{"GOOS": p.goos, "GOARCH": p.goarch, "CGO_ENABLED": "0"}
		if err := sh.RunWith(env, "go", "build", "-o", os.DevNull, "./cmd/gosch"); err != nil {
			return fmt.Errorf("build failed for %s/%s: %w", p.goos, p.goarch, err)
		}
	}
	return nil
}

// Default runs the decoder benchmarks.
func (Bench) Default() error {
	fmt.Println("Running decoder benchmarks...")
	args := append([]string{"test", "-run", "^$", "-bench", ".", "-benchmem"}, decoderPackages...)
	return sh.RunV("go", args...)
}

// Fuzz runs the schdoc fuzz targets for FUZZ_TIME each (default 30s).
func (Bench) Fuzz() error {
	fuzzTime := cmp.Or(os.Getenv("FUZZ_TIME"), "30s")
	for _, name := range []string{"FuzzParse", "FuzzParseStream"} {
		fmt.Printf("Fuzzing %s for %s...\n", name, fuzzTime)
		if err := sh.RunV("go", "test", "-run", "^$", "-fuzz", "^"+name+"$", "-fuzztime", fuzzTime, "./pkg/schdoc"); err != nil {
			return fmt.Errorf("fuzz %s: %w", name, err)
		}
	}
	return nil
}

// Smoke runs the listing commands and writes a starter config with the built binary.
func Smoke() error {
	st.Deps(Build)
	dir := filepath.Join("tmp", "smoke")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create %s: %w", dir, err)
	}
	runs := [][]string{
		{"version"},
		{"kinds"},
		{"codes"},
		{"init", "--force", "--output", filepath.Join(dir, ".gosch.yml")},
	}
	for _, args := range runs {
		if err := sh.RunV("bin/gosch", args...); err != nil {
			return fmt.Errorf("gosch %s: %w", strings.Join(args, " "), err)
		}
	}
	return nil
}

func gotestsum(format string, args ...string) error {
	nCores := cmp.Or(os.Getenv("STAVE_NUM_PROCESSORS"), "4")
	base := []string{"tool", "gotestsum", "-f", format, "--", "-race", "-p", nCores, "-parallel", nCores}
	return sh.RunV("go", append(base, args...)...)
}

func readModFiles() (string, error) {
	mod, err := os.ReadFile("go.mod")
	if err != nil {
		return "", fmt.Errorf("read go.mod: %w", err)
	}
	sum, err := os.ReadFile("go.sum")
	if err != nil {
		return "", fmt.Errorf("read go.sum: %w", err)
	}
	return string(mod) + "\x00" + string(sum), nil
}

// ldflags returns the linker flags for version injection.
func ldflags() string {
	version := cmp.Or(gitOutput("describe", "--tags", "--always", "--dirty"), "dev")
	commit := cmp.Or(gitOutput("rev-parse", "--short", "HEAD"), "none")
	date := time.Now().UTC().Format(time.RFC3339)
	return fmt.Sprintf("-X main.version=%s -X main.commit=%s -X main.date=%s", version, commit, date)
}

func gitOutput(args ...string) string {
	out, err := sh.Output("git", args...)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(out)
}
