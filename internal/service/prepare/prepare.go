package prepare

import (
	"bytes"
	"context"
	"crypto"
	_ "crypto/sha512" // Registers DefaultChecksumFunction.
	"errors"
	"fmt"
	"os"
	"path/filepath"

	goupdate "github.com/doitdistributed/go-update"

	"github.com/oshokin/morrigan-installer/internal/config"
	"github.com/oshokin/morrigan-installer/internal/logger"
)

const (
	// DefaultFileMode is applied to staged files.
	DefaultFileMode os.FileMode = 0o644
	// DefaultChecksumFunction verifies staged files.
	DefaultChecksumFunction crypto.Hash = crypto.SHA512
)

var (
	// ErrResourceMissing is returned when a configured file does not exist.
	ErrResourceMissing = errors.New("resource not found")
	// errHashUnavailable is returned when the checksum function is not linked in.
	errHashUnavailable = errors.New("checksum function is not available")
)

// Options contains inputs for the prepare entry point.
type Options struct {
	// ConfigPath is the installer configuration file.
	ConfigPath string
	// OutputDir overrides the configured output directory.
	OutputDir string
}

// Staged describes one copied file.
type Staged struct {
	// Source is the file that was copied.
	Source string
	// Target is where it was written.
	Target string
	// Size is the number of bytes written.
	Size int64
}

// Run copies the configured resources and installer scripts into the output
// directory and returns what was staged, in configuration order.
// Every source is checked before anything is written.
func Run(ctx context.Context, opts *Options) ([]Staged, error) {
	// Set context with logger name for tracking.
	ctx = logger.WithName(ctx, "prepare")

	if opts == nil {
		opts = &Options{}
	}

	cfg := config.Load(ctx, opts.ConfigPath)

	outputDir := opts.OutputDir
	if outputDir == "" {
		outputDir = cfg.OutputDirectory
	}

	plan, err := planFiles(cfg, outputDir)
	if err != nil {
		return nil, err
	}

	if err = os.MkdirAll(outputDir, 0o750); err != nil {
		return nil, fmt.Errorf("create output folder: %w", err)
	}

	staged := make([]Staged, 0, len(plan))

	for _, item := range plan {
		size, stageErr := stageFile(ctx, item.Source, item.Target)
		if stageErr != nil {
			return staged, fmt.Errorf("stage %s: %w", item.Source, stageErr)
		}

		item.Size = size
		staged = append(staged, item)
	}

	logger.InfoKV(ctx, "Installer preparation complete", "output", outputDir, "files", len(staged))

	return staged, nil
}

// planFiles maps every configured entry to its target and checks that the sources exist.
func planFiles(cfg *config.Config, outputDir string) ([]Staged, error) {
	groups := []struct {
		dir     string
		entries []string
	}{
		{dir: cfg.ResourcesDirectory, entries: cfg.Resources},
		{dir: cfg.InstallerScriptsDirectory, entries: cfg.InstallerScripts},
	}

	var (
		plan    []Staged
		missing []string
	)

	for _, group := range groups {
		for _, entry := range group.entries {
			source := filepath.Join(group.dir, entry)

			info, err := os.Stat(source)
			if err != nil || !info.Mode().IsRegular() {
				missing = append(missing, source)
				continue
			}

			plan = append(plan, Staged{
				Source: source,
				Target: filepath.Join(outputDir, filepath.Base(entry)),
			})
		}
	}

	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %v", ErrResourceMissing, missing)
	}

	return plan, nil
}

// stageFile replaces target with the contents of source and verifies its checksum.
func stageFile(ctx context.Context, source, target string) (int64, error) {
	data, err := os.ReadFile(filepath.Clean(source))
	if err != nil {
		return 0, err
	}

	checksum, err := Checksum(data)
	if err != nil {
		return 0, err
	}

	// go-update renames the current target aside, so it must exist.
	if _, err = os.Stat(target); errors.Is(err, os.ErrNotExist) {
		if err = os.WriteFile(target, nil, DefaultFileMode); err != nil {
			return 0, err
		}
	}

	options := goupdate.Options{
		TargetPath: target,
		TargetMode: DefaultFileMode,
		Checksum:   checksum,
		Hash:       DefaultChecksumFunction,
	}

	if err = goupdate.Apply(bytes.NewReader(data), options); err != nil {
		return 0, err
	}

	oldFileName := filepath.Join(filepath.Dir(target), "."+filepath.Base(target)+".old")
	if _, err = os.Stat(oldFileName); err == nil {
		_ = os.Remove(oldFileName)
	}

	logger.DebugKV(ctx, "Staged file", "source", source, "target", target, "bytes", len(data))

	return int64(len(data)), nil
}

// Checksum returns the DefaultChecksumFunction digest of data.
func Checksum(data []byte) ([]byte, error) {
	if !DefaultChecksumFunction.Available() {
		return nil, errHashUnavailable
	}

	hasher := DefaultChecksumFunction.New()
	if _, err := hasher.Write(data); err != nil {
		return nil, fmt.Errorf("calculate checksum: %w", err)
	}

	return hasher.Sum(nil), nil
}
