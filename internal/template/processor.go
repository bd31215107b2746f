package template

import (
	_ "embed"
	"encoding/xml"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/oshokin/morrigan-installer/internal/config"
	"github.com/oshokin/morrigan-installer/internal/domain/build"
)

// Placeholder tokens recognized in WiX templates.
const (
	TokenUpgradeCode        = "PUT-GUID-HERE"
	TokenProductCode        = "PUT-PRODUCT-GUID-HERE"
	TokenComponentMain      = "PUT-COMPONENT-MAIN-GUID"
	TokenComponentConfig    = "PUT-COMPONENT-CONFIG-GUID"
	TokenComponentLicense   = "PUT-COMPONENT-LICENSE-GUID"
	TokenComponentResources = "PUT-COMPONENT-RESOURCES-GUID"
	TokenVersion            = "PUT-VERSION-HERE"
	TokenProductName        = "PUT-PRODUCT-NAME-HERE"
	TokenManufacturer       = "PUT-MANUFACTURER-HERE"
	TokenSourcePath         = "PUT-SOURCE-PATH-HERE"
)

// Embedded WiX sources used when no template path is given. WiX v4 and later
// reject the v3 schema, so each protocol has its own.
var (
	//go:embed wxs/legacy.wxs
	legacySource string
	//go:embed wxs/modern.wxs
	modernSource string
)

// substitutionHint is attached to read and write failures.
const substitutionHint = "Check that the WiX template exists and the work directory is writable."

var (
	// errResidualPlaceholder is returned when a placeholder survives substitution.
	errResidualPlaceholder = errors.New("placeholder left in processed template")
	// errEmptyToken is returned when a replacement has no token.
	errEmptyToken = errors.New("replacement token is empty")
)

// Replacement maps one placeholder token to its value.
type Replacement struct {
	// Token is the literal placeholder text.
	Token string
	// Value replaces every occurrence of Token.
	Value string
}

// Document is a processed template.
type Document struct {
	// Text is the concrete build descriptor.
	Text string
	// Replacements are the substitutions that produced Text.
	Replacements []Replacement
}

// Tokens returns every placeholder token in a fixed order.
func Tokens() []string {
	return []string{
		TokenUpgradeCode,
		TokenProductCode,
		TokenComponentMain,
		TokenComponentConfig,
		TokenComponentLicense,
		TokenComponentResources,
		TokenVersion,
		TokenProductName,
		TokenManufacturer,
		TokenSourcePath,
	}
}

// DefaultSource returns the embedded WiX template for the toolchain protocol:
// the v4 schema for the modern protocol, the v3 schema otherwise.
func DefaultSource(protocol build.Protocol) string {
	if protocol == build.ProtocolModern {
		return modernSource
	}

	return legacySource
}

// Replacements builds the substitution map for a build. Configuration values and
// the artifact path are XML-escaped so the descriptor stays well-formed.
func Replacements(ids build.IdentifierSet, cfg *config.Config, artifactPath string) []Replacement {
	return []Replacement{
		{Token: TokenUpgradeCode, Value: ids.UpgradeCode},
		{Token: TokenProductCode, Value: ids.ProductCode},
		{Token: TokenComponentMain, Value: ids.ComponentMain},
		{Token: TokenComponentConfig, Value: ids.ComponentConfig},
		{Token: TokenComponentLicense, Value: ids.ComponentLicense},
		{Token: TokenComponentResources, Value: ids.ComponentResources},
		{Token: TokenVersion, Value: escape(cfg.Version)},
		{Token: TokenProductName, Value: escape(cfg.ProductName)},
		{Token: TokenManufacturer, Value: escape(cfg.Manufacturer)},
		{Token: TokenSourcePath, Value: escape(artifactPath)},
	}
}

// Process reads the template at path (the embedded default for protocol when path
// is empty) and substitutes identifiers, configuration and the artifact path into it.
func Process(
	path string,
	protocol build.Protocol,
	ids build.IdentifierSet,
	cfg *config.Config,
	artifactPath string,
) (*Document, error) {
	text := DefaultSource(protocol)

	if path != "" {
		contents, err := os.ReadFile(filepath.Clean(path))
		if err != nil {
			return nil, build.NewError(build.ErrTemplateSubstitution, substitutionHint,
				fmt.Errorf("read template: %w", err))
		}

		text = string(contents)
	}

	return Render(text, Replacements(ids, cfg, artifactPath))
}

// Render substitutes replacements into text in a single pass.
func Render(text string, replacements []Replacement) (*Document, error) {
	pairs := make([]string, 0, len(replacements)*2)

	for _, replacement := range replacements {
		if replacement.Token == "" {
			return nil, build.NewError(build.ErrTemplateSubstitution, substitutionHint, errEmptyToken)
		}

		pairs = append(pairs, replacement.Token, replacement.Value)
	}

	rendered := strings.NewReplacer(pairs...).Replace(text)

	for _, replacement := range replacements {
		if strings.Contains(rendered, replacement.Token) {
			return nil, build.NewError(build.ErrTemplateSubstitution, substitutionHint,
				fmt.Errorf("%s: %w", replacement.Token, errResidualPlaceholder))
		}
	}

	return &Document{
		Text:         rendered,
		Replacements: replacements,
	}, nil
}

// WriteFile writes the descriptor to path.
func (d *Document) WriteFile(path string) error {
	if err := os.WriteFile(filepath.Clean(path), []byte(d.Text), config.DefaultFilePermissions); err != nil {
		return build.NewError(build.ErrTemplateSubstitution, substitutionHint,
			fmt.Errorf("write processed template: %w", err))
	}

	return nil
}

// escape returns s with XML special characters escaped.
func escape(s string) string {
	var builder strings.Builder

	// strings.Builder never fails to write.
	_ = xml.EscapeText(&builder, []byte(s))

	return builder.String()
}
