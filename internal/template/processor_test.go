package template

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/oshokin/morrigan-installer/internal/config"
	"github.com/oshokin/morrigan-installer/internal/domain/build"
	"github.com/oshokin/morrigan-installer/internal/identifier"
	"github.com/oshokin/morrigan-installer/internal/testutil"
)

func fixedIdentifiers() build.IdentifierSet {
	return build.IdentifierSet{
		UpgradeCode:        "11111111-1111-4111-8111-111111111111",
		ProductCode:        "22222222-2222-4222-8222-222222222222",
		ComponentMain:      "33333333-3333-4333-8333-333333333333",
		ComponentConfig:    "44444444-4444-4444-8444-444444444444",
		ComponentLicense:   "55555555-5555-4555-8555-555555555555",
		ComponentResources: "66666666-6666-4666-8666-666666666666",
	}
}

// TestTokens_Disjoint checks no token is a substring of another.
func TestTokens_Disjoint(t *testing.T) {
	t.Parallel()

	tokens := Tokens()
	for i, outer := range tokens {
		for j, inner := range tokens {
			if i != j {
				require.NotContains(t, outer, inner)
			}
		}
	}
}

// TestProcess_DefaultTemplate leaves no placeholder and embeds every value.
func TestProcess_DefaultTemplate(t *testing.T) {
	t.Parallel()

	cfg := config.Default()
	artifact := filepath.Join("build", "dist", "morrigan.exe")

	doc, err := Process("", build.ProtocolLegacy, fixedIdentifiers(), cfg, artifact)
	require.NoError(t, err)

	for _, token := range Tokens() {
		require.NotContains(t, doc.Text, token)
	}

	for _, value := range fixedIdentifiers().Values() {
		require.Equal(t, strings.Count(DefaultSource(build.ProtocolLegacy), tokenFor(t, doc, value)), strings.Count(doc.Text, value))
	}

	require.Contains(t, doc.Text, `Version="0.1.0"`)
	require.Contains(t, doc.Text, `Manufacturer="Morrigan AI"`)
	require.Contains(t, doc.Text, `Source="`+artifact+`"`)
	require.Equal(t, 4, strings.Count(doc.Text, "Morrigan Client"))
}

// TestRender_Counts verifies each value appears exactly as often as its token did.
func TestRender_Counts(t *testing.T) {
	t.Parallel()

	text := "A=PUT-GUID-HERE;B=PUT-PRODUCT-GUID-HERE;A2=PUT-GUID-HERE;N=PUT-PRODUCT-NAME-HERE"
	replacements := []Replacement{
		{Token: TokenUpgradeCode, Value: "up"},
		{Token: TokenProductCode, Value: "prod"},
		{Token: TokenProductName, Value: "Morrigan"},
	}

	doc, err := Render(text, replacements)
	require.NoError(t, err)

	want := "A=up;B=prod;A2=up;N=Morrigan"
	if diff := cmp.Diff(want, doc.Text); diff != "" {
		t.Fatalf("rendered text mismatch (-want +got):\n%s", diff)
	}

	require.Equal(t, replacements, doc.Replacements)
}

// TestRender_ValueNotRescanned shows a value resembling another token's text is left alone
// when it is not a full token, and rejected when it embeds one.
func TestRender_ValueNotRescanned(t *testing.T) {
	t.Parallel()

	doc, err := Render("N=PUT-PRODUCT-NAME-HERE", []Replacement{
		{Token: TokenProductName, Value: "PUT-VERSION"},
		{Token: TokenVersion, Value: "1.0.0"},
	})
	require.NoError(t, err)
	require.Equal(t, "N=PUT-VERSION", doc.Text)

	_, err = Render("N=PUT-PRODUCT-NAME-HERE", []Replacement{
		{Token: TokenProductName, Value: "x PUT-VERSION-HERE"},
		{Token: TokenVersion, Value: "1.0.0"},
	})
	require.ErrorIs(t, err, build.ErrTemplateSubstitution)
	require.ErrorIs(t, err, errResidualPlaceholder)
}

// TestReplacements_EscapesXML keeps the descriptor well-formed.
func TestReplacements_EscapesXML(t *testing.T) {
	t.Parallel()

	cfg := config.Default()
	cfg.Manufacturer = `R&D "Labs"`

	doc, err := Process("", build.ProtocolLegacy, fixedIdentifiers(), cfg, "morrigan.exe")
	require.NoError(t, err)
	require.Contains(t, doc.Text, `Manufacturer="R&amp;D &#34;Labs&#34;"`)
}

// TestProcess_CustomTemplateAndWrite reads a template from disk and writes the descriptor.
func TestProcess_CustomTemplateAndWrite(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := testutil.WriteFile(t, filepath.Join(dir, "app.wxs"), "<Product Name=\"PUT-PRODUCT-NAME-HERE\" Id=\"PUT-PRODUCT-GUID-HERE\" />")

	doc, err := Process(path, build.ProtocolLegacy, fixedIdentifiers(), config.Default(), "app.exe")
	require.NoError(t, err)

	out := filepath.Join(dir, "app_processed.wxs")
	require.NoError(t, doc.WriteFile(out))

	written, err := os.ReadFile(out)
	require.NoError(t, err)
	require.Equal(t, `<Product Name="Morrigan Client" Id="22222222-2222-4222-8222-222222222222" />`, string(written))
}

// TestProcess_IOFailures are classified as template substitution errors.
func TestProcess_IOFailures(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	_, err := Process(filepath.Join(dir, "missing.wxs"), build.ProtocolLegacy, fixedIdentifiers(), config.Default(), "app.exe")
	require.ErrorIs(t, err, build.ErrTemplateSubstitution)
	require.ErrorIs(t, err, os.ErrNotExist)

	doc, err := Render("x", nil)
	require.NoError(t, err)

	err = doc.WriteFile(filepath.Join(dir, "no", "such", "dir", "out.wxs"))
	require.ErrorIs(t, err, build.ErrTemplateSubstitution)
}

// TestProcess_FreshIdentifiersOnly differ between runs while configuration-derived text matches.
func TestProcess_FreshIdentifiersOnly(t *testing.T) {
	t.Parallel()

	cfg := config.Default()

	first, err := Process("", build.ProtocolLegacy, identifier.Generate(), cfg, "app.exe")
	require.NoError(t, err)

	second, err := Process("", build.ProtocolLegacy, identifier.Generate(), cfg, "app.exe")
	require.NoError(t, err)

	require.NotEqual(t, first.Text, second.Text)

	// Masking identifiers makes both documents identical.
	mask := func(doc *Document) string {
		text := doc.Text
		for _, replacement := range doc.Replacements[:6] {
			text = strings.ReplaceAll(text, replacement.Value, replacement.Token)
		}

		return text
	}

	if diff := cmp.Diff(mask(first), mask(second)); diff != "" {
		t.Fatalf("configuration-derived content differs (-first +second):\n%s", diff)
	}
}

// tokenFor returns the token whose replacement value is value.
func tokenFor(t *testing.T, doc *Document, value string) string {
	t.Helper()

	for _, replacement := range doc.Replacements {
		if replacement.Value == value {
			return replacement.Token
		}
	}

	t.Fatalf("no replacement for %q", value)

	return ""
}

// TestDefaultSource_SchemaPerProtocol picks the WiX v4 schema only for the modern toolchain.
func TestDefaultSource_SchemaPerProtocol(t *testing.T) {
	t.Parallel()

	cases := []struct {
		protocol  build.Protocol
		namespace string
		root      string
	}{
		{protocol: build.ProtocolLegacy, namespace: `xmlns="http://schemas.microsoft.com/wix/2006/wi"`, root: "<Product "},
		{protocol: build.ProtocolModern, namespace: `xmlns="http://wixtoolset.org/schemas/v4/wxs"`, root: "<Package Name="},
		{protocol: build.ProtocolUnknown, namespace: `xmlns="http://schemas.microsoft.com/wix/2006/wi"`, root: "<Product "},
	}

	for _, tc := range cases {
		doc, err := Process("", tc.protocol, fixedIdentifiers(), config.Default(), "app.exe")
		require.NoError(t, err, tc.protocol.String())
		require.Contains(t, doc.Text, tc.namespace, tc.protocol.String())
		require.Contains(t, doc.Text, tc.root, tc.protocol.String())

		for _, token := range Tokens() {
			require.NotContains(t, doc.Text, token, tc.protocol.String())
		}
	}

	modern, err := Process("", build.ProtocolModern, fixedIdentifiers(), config.Default(), "app.exe")
	require.NoError(t, err)
	require.NotContains(t, modern.Text, "<Product")
	require.Contains(t, modern.Text, `ProductCode="22222222-2222-4222-8222-222222222222"`)
	require.Equal(t, 4, strings.Count(modern.Text, "Morrigan Client"))
}

// TestDefaultSource_NoIconOrLicense keeps the default sources buildable without an icon or license on disk.
func TestDefaultSource_NoIconOrLicense(t *testing.T) {
	t.Parallel()

	cfg := config.Default()
	cfg.IconPath = "assets/missing.ico"
	cfg.LicensePath = "assets/missing.rtf"

	for _, protocol := range []build.Protocol{build.ProtocolLegacy, build.ProtocolModern} {
		doc, err := Process("", protocol, fixedIdentifiers(), cfg, "app.exe")
		require.NoError(t, err, protocol.String())
		require.NotContains(t, doc.Text, cfg.IconPath, protocol.String())
		require.NotContains(t, doc.Text, cfg.LicensePath, protocol.String())
		require.NotContains(t, doc.Text, "<Icon ", protocol.String())
	}
}
