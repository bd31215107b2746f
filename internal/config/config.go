package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	goversion "github.com/hashicorp/go-version"
	"gopkg.in/yaml.v3"

	"github.com/oshokin/morrigan-installer/internal/logger"
)

// Config holds the build metadata of the packaged product.
// It is loaded once per run and treated as read-only afterwards.
type Config struct {
	// ProductName is shown in Add/Remove Programs.
	ProductName string `yaml:"product_name" json:"product_name"`
	// Version is the MSI ProductVersion (numeric, up to four parts).
	Version string `yaml:"version" json:"version"`
	// Manufacturer is the publisher shown by the installer.
	Manufacturer string `yaml:"manufacturer" json:"manufacturer"`
	// UpgradeCode is kept for reference; builds always generate fresh identifiers.
	UpgradeCode string `yaml:"upgrade_code" json:"upgrade_code"`
	// OutputDirectory is where installer artifacts are written.
	OutputDirectory string `yaml:"output_directory" json:"output_directory"`
	// IconPath is the installer icon. Only custom templates reference it.
	IconPath string `yaml:"icon_path" json:"icon_path"`
	// LicensePath is the RTF license shown by the installer UI. Only custom templates reference it.
	LicensePath string `yaml:"license_path" json:"license_path"`
	// ExecutableName is the base name of the packaged executable, without extension.
	ExecutableName string `yaml:"executable_name" json:"executable_name"`
	// ResourcesDirectory is the folder the Resources entries are relative to.
	ResourcesDirectory string `yaml:"resources_directory" json:"resources_directory"`
	// Resources lists files staged next to the installer by the prepare command.
	Resources []string `yaml:"resources,omitempty" json:"resources,omitempty"`
	// InstallerScriptsDirectory is the folder the InstallerScripts entries are relative to.
	InstallerScriptsDirectory string `yaml:"installer_scripts_directory" json:"installer_scripts_directory"`
	// InstallerScripts lists installer sources staged next to the resources.
	InstallerScripts []string `yaml:"installer_scripts,omitempty" json:"installer_scripts,omitempty"`
}

const (
	// DefaultConfigFilename is the default location of the installer configuration.
	// The file may be JSON or YAML; YAML is a superset of JSON.
	DefaultConfigFilename = "config/installer_config.json"

	// DefaultProductName is used when the configuration does not name the product.
	DefaultProductName = "Morrigan Client"

	// DefaultVersion is used when the configuration has no usable version.
	DefaultVersion = "0.1.0"

	// DefaultManufacturer is used when the configuration has no manufacturer.
	DefaultManufacturer = "Morrigan AI"

	// DefaultOutputDirectory is the default artifact folder.
	DefaultOutputDirectory = "dist"

	// DefaultIconPath is the default installer icon.
	DefaultIconPath = "resources/icons/morrigan.ico"

	// DefaultLicensePath is the default license document.
	DefaultLicensePath = "resources/license/LICENSE.rtf"

	// DefaultExecutableName is the default packaged executable.
	DefaultExecutableName = "morrigan"

	// DefaultResourcesDirectory is the default folder holding staged resources.
	DefaultResourcesDirectory = "resources"

	// DefaultInstallerScriptsDirectory is the default folder holding installer sources.
	DefaultInstallerScriptsDirectory = "installer"

	// DefaultFilePermissions is the default file permission for config files.
	DefaultFilePermissions = 0o600

	// maxVersionParts is the number of fields an MSI ProductVersion may have.
	maxVersionParts = 4
	// maxMajorMinor is the upper bound of the major and minor fields.
	maxMajorMinor = 255
	// maxBuildRevision is the upper bound of the build and revision fields.
	maxBuildRevision = 65535
)

var (
	// errConfigIsNotSet is returned when a nil configuration is provided.
	errConfigIsNotSet = errors.New("configuration is not set")
	// errVersionOutOfRange is returned when a version field exceeds MSI limits.
	errVersionOutOfRange = errors.New("version field out of range")
	// errTooManyVersionParts is returned for versions with more than four fields.
	errTooManyVersionParts = errors.New("too many version fields")
)

// Default returns the built-in configuration used when no file is available.
func Default() *Config {
	return &Config{
		ProductName:        DefaultProductName,
		Version:            DefaultVersion,
		Manufacturer:       DefaultManufacturer,
		OutputDirectory:    DefaultOutputDirectory,
		IconPath:           DefaultIconPath,
		LicensePath:        DefaultLicensePath,
		ExecutableName:     DefaultExecutableName,
		ResourcesDirectory: DefaultResourcesDirectory,

		InstallerScriptsDirectory: DefaultInstallerScriptsDirectory,
	}
}

// Load reads the configuration at path. It never fails: a missing, unreadable
// or malformed file is logged as a warning and the defaults are returned.
// Keys absent from the file fall back to their individual defaults.
func Load(ctx context.Context, path string) *Config {
	if path == "" {
		path = DefaultConfigFilename
	}

	contents, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		logger.WarnKV(ctx, "Could not load config, using defaults", "path", path, "error", err)
		return Default()
	}

	var cfg Config
	if err = yaml.Unmarshal(contents, &cfg); err != nil {
		logger.WarnKV(ctx, "Could not parse config, using defaults", "path", path, "error", err)
		return Default()
	}

	applyDefaults(ctx, &cfg)

	return &cfg
}

// Save writes the configuration to path in YAML format.
func Save(path string, cfg *Config) error {
	if cfg == nil {
		return errConfigIsNotSet
	}

	if path == "" {
		path = DefaultConfigFilename
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err = os.MkdirAll(dir, 0o750); err != nil {
			return fmt.Errorf("create config folder: %w", err)
		}
	}

	// Restrict permissions.
	if err = os.WriteFile(filepath.Clean(path), data, DefaultFilePermissions); err != nil {
		return fmt.Errorf("write config: %w", err)
	}

	return nil
}

// NormalizeVersion converts a semantic version into MSI ProductVersion form:
// numeric fields only, at most four of them, major and minor up to 255,
// build and revision up to 65535. Prerelease and metadata parts are dropped.
func NormalizeVersion(raw string) (string, error) {
	parsed, err := goversion.NewVersion(strings.TrimSpace(raw))
	if err != nil {
		return "", fmt.Errorf("parse version %q: %w", raw, err)
	}

	segments := parsed.Segments()
	if len(segments) > maxVersionParts {
		return "", fmt.Errorf("%q: %w", raw, errTooManyVersionParts)
	}

	fields := make([]string, 0, len(segments))

	for i, segment := range segments {
		limit := maxBuildRevision
		if i < 2 {
			limit = maxMajorMinor
		}

		if segment < 0 || segment > limit {
			return "", fmt.Errorf("%q field %d is %d, limit %d: %w", raw, i+1, segment, limit, errVersionOutOfRange)
		}

		fields = append(fields, strconv.Itoa(segment))
	}

	return strings.Join(fields, "."), nil
}

// applyDefaults fills every empty field from Default and normalizes the version.
func applyDefaults(ctx context.Context, cfg *Config) {
	defaults := Default()

	fill := func(value *string, fallback string) {
		if strings.TrimSpace(*value) == "" {
			*value = fallback
		}
	}

	fill(&cfg.ProductName, defaults.ProductName)
	fill(&cfg.Version, defaults.Version)
	fill(&cfg.Manufacturer, defaults.Manufacturer)
	fill(&cfg.OutputDirectory, defaults.OutputDirectory)
	fill(&cfg.IconPath, defaults.IconPath)
	fill(&cfg.LicensePath, defaults.LicensePath)
	fill(&cfg.ExecutableName, defaults.ExecutableName)
	fill(&cfg.ResourcesDirectory, defaults.ResourcesDirectory)
	fill(&cfg.InstallerScriptsDirectory, defaults.InstallerScriptsDirectory)

	normalized, err := NormalizeVersion(cfg.Version)
	if err != nil {
		logger.WarnKV(ctx, "Invalid product version, using default", "version", cfg.Version, "error", err)
		cfg.Version = defaults.Version

		return
	}

	cfg.Version = normalized
}
