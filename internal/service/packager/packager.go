package packager

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode"

	"github.com/hashicorp/go-multierror"

	"github.com/oshokin/morrigan-installer/internal/config"
	"github.com/oshokin/morrigan-installer/internal/domain/build"
	"github.com/oshokin/morrigan-installer/internal/executor"
	"github.com/oshokin/morrigan-installer/internal/identifier"
	"github.com/oshokin/morrigan-installer/internal/logger"
	"github.com/oshokin/morrigan-installer/internal/repository/report"
	"github.com/oshokin/morrigan-installer/internal/service/builder"
	"github.com/oshokin/morrigan-installer/internal/service/common"
	"github.com/oshokin/morrigan-installer/internal/source"
	"github.com/oshokin/morrigan-installer/internal/template"
	"github.com/oshokin/morrigan-installer/internal/toolchain"
)

const (
	// DefaultBuildDir is where the standalone application build is expected.
	DefaultBuildDir = "../morrigan/dist"
	// ProcessedSourceFilename is the transient WiX source written into the work directory.
	ProcessedSourceFilename = "wix_installer_processed.wxs"
	// objectExtension is the extension of the legacy intermediate object.
	objectExtension = ".wixobj"
	// installerSuffix is appended to the product slug to name the MSI.
	installerSuffix = "_installer.msi"
	// bytesInMegabyte is used to print artifact sizes.
	bytesInMegabyte = 1024 * 1024
)

// outputHint is attached to failures of the output folder or artifact.
const outputHint = "Check that the output directory is writable."

// identifierHint is attached to identifier generation failures.
const identifierHint = "Check that the system random source is available and retry the build."

// debugSymbolsExtension is the extension of the symbol file the linker writes next to the MSI.
const debugSymbolsExtension = ".wixpdb"

// errInstallerNotProduced is returned when the toolchain exited zero without writing the MSI.
var errInstallerNotProduced = errors.New("toolchain reported success but the installer is missing")

// Locator finds the toolchain for a run.
type Locator interface {
	Locate(ctx context.Context) (*toolchain.Location, error)
}

// Options contains inputs for the packager entry point.
type Options struct {
	// ConfigPath is the installer configuration file (defaults to config/installer_config.json).
	ConfigPath string
	// BuildDir is the root searched for the application executable.
	BuildDir string
	// TemplatePath overrides the embedded WiX source template.
	TemplatePath string
	// WorkDir receives the transient WiX source and object (defaults to the current directory).
	WorkDir string
	// ReportPath, when set, receives a JSON report of the run.
	ReportPath string
	// Locator overrides the default toolchain locator.
	Locator Locator
	// Runner overrides the process runner used by the builder.
	Runner executor.Runner
	// Identifiers overrides the identifier source.
	Identifiers func() (build.IdentifierSet, error)
}

// packager holds the collaborators of one run.
// It is unexported: callers should use Run, which fills in the defaults.
type packager struct {
	// opts are the caller's options with defaults applied.
	opts *Options
	// builder drives the toolchain.
	builder *builder.Builder
}

// Run executes the MSI build. It always returns a Result; on failure Result.Err
// holds a *build.Error whose hint tells the operator what to do next.
func Run(ctx context.Context, opts *Options) *build.Result {
	// Set context with logger name for tracking.
	ctx = logger.WithName(ctx, "packager")

	p := newPackager(opts)
	result := &build.Result{StartedAt: time.Now()}

	if actor, err := common.DetectActor(); err != nil {
		logger.WarnKV(ctx, "Could not detect build actor", "error", err)
	} else {
		result.BuiltBy = actor
	}

	if err := p.run(ctx, result); err != nil {
		result.Failed(err)
		logger.ErrorKV(ctx, "MSI build failed", "error", err)
	}

	result.Duration = time.Since(result.StartedAt)

	p.saveReport(ctx, result)

	return result
}

// newPackager applies defaults to a copy of opts.
func newPackager(opts *Options) *packager {
	effective := Options{}
	if opts != nil {
		effective = *opts
	}

	if effective.BuildDir == "" {
		effective.BuildDir = DefaultBuildDir
	}

	if effective.WorkDir == "" {
		effective.WorkDir = "."
	}

	if effective.Runner == nil {
		effective.Runner = executor.NewExecRunner()
	}

	if effective.Locator == nil {
		effective.Locator = toolchain.NewLocator(toolchain.WithRunner(effective.Runner))
	}

	if effective.Identifiers == nil {
		effective.Identifiers = identifier.NewGenerator(nil).Generate
	}

	return &packager{
		opts:    &effective,
		builder: builder.New(effective.Runner),
	}
}

// run performs the build steps, filling result as it goes.
func (p *packager) run(ctx context.Context, result *build.Result) error {
	logger.Info(ctx, "Building MSI installer")

	location, err := p.opts.Locator.Locate(ctx)
	if err != nil {
		return err
	}

	result.Protocol = location.Protocol

	cfg := config.Load(ctx, p.opts.ConfigPath)

	artifact, err := source.Validate(p.opts.BuildDir, cfg.ExecutableName)
	if err != nil {
		return err
	}

	logger.InfoKV(ctx, "Found application executable", "path", artifact)

	ids, err := p.opts.Identifiers()
	if err != nil {
		return build.NewError(build.ErrTemplateSubstitution, identifierHint,
			fmt.Errorf("generate identifiers: %w", err))
	}

	result.Identifiers = ids

	if absolute, absErr := filepath.Abs(artifact); absErr == nil {
		artifact = absolute
	}

	document, err := template.Process(p.opts.TemplatePath, location.Protocol, ids, cfg, artifact)
	if err != nil {
		return err
	}

	sourcePath := filepath.Join(p.opts.WorkDir, ProcessedSourceFilename)
	objectPath := strings.TrimSuffix(sourcePath, filepath.Ext(sourcePath)) + objectExtension

	// Registered before the first write so partial files are removed too.
	defer removeTransient(ctx, sourcePath, objectPath)

	if err = document.WriteFile(sourcePath); err != nil {
		return err
	}

	if err = os.MkdirAll(cfg.OutputDirectory, 0o750); err != nil {
		return build.NewError(build.ErrBuildPhaseFailed, outputHint,
			fmt.Errorf("create output folder: %w", err))
	}

	result.OutputPath = filepath.Join(cfg.OutputDirectory, OutputFilename(cfg.ProductName))

	defer removeTransient(ctx, DebugSymbolsPath(result.OutputPath))

	err = p.builder.Build(ctx, &builder.Request{
		SourcePath: sourcePath,
		ObjectPath: objectPath,
		OutputPath: result.OutputPath,
		Location:   location,
	})
	if err != nil {
		return err
	}

	info, err := os.Stat(result.OutputPath)
	if err != nil {
		return build.NewError(build.ErrBuildPhaseFailed, outputHint,
			fmt.Errorf("%w: %w", errInstallerNotProduced, err))
	}

	result.Succeeded(info.Size())

	logger.InfoKV(ctx, "MSI installer created successfully",
		"path", result.OutputPath,
		"size", fmt.Sprintf("%.1f MB", float64(info.Size())/bytesInMegabyte))

	return nil
}

// saveReport persists the result when a report path is configured.
// A report failure is logged and never changes the build outcome.
func (p *packager) saveReport(ctx context.Context, result *build.Result) {
	if p.opts.ReportPath == "" {
		return
	}

	repo := report.NewFileRepository(p.opts.ReportPath)
	if err := repo.Save(ctx, result); err != nil {
		logger.WarnKV(ctx, "Could not save build report", "path", repo.Path(), "error", err)
		return
	}

	logger.InfoKV(ctx, "Build report saved", "path", repo.Path())
}

// removeTransient deletes the transient build files. Missing files are fine;
// other failures are collected and logged.
func removeTransient(ctx context.Context, paths ...string) {
	var errs *multierror.Error

	for _, path := range paths {
		if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
			errs = multierror.Append(errs, err)
		}
	}

	if err := errs.ErrorOrNil(); err != nil {
		logger.WarnKV(ctx, "Could not remove transient files", "error", err)
	}
}

// DebugSymbolsPath returns the .wixpdb file the toolchain writes beside the installer.
func DebugSymbolsPath(outputPath string) string {
	return strings.TrimSuffix(outputPath, filepath.Ext(outputPath)) + debugSymbolsExtension
}

// OutputFilename returns the MSI file name for a product: its name lower-cased,
// with runs of anything but letters and digits collapsed to underscores.
func OutputFilename(productName string) string {
	var slug strings.Builder

	pendingSeparator := false

	for _, r := range strings.ToLower(productName) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if pendingSeparator && slug.Len() > 0 {
				slug.WriteByte('_')
			}

			slug.WriteRune(r)

			pendingSeparator = false

			continue
		}

		pendingSeparator = true
	}

	if slug.Len() == 0 {
		slug.WriteString("product")
	}

	return slug.String() + installerSuffix
}
