package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// TestLoad_FallsBackToDefaults covers missing, unreadable and malformed files.
func TestLoad_FallsBackToDefaults(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	malformed := filepath.Join(dir, "malformed.json")
	require.NoError(t, os.WriteFile(malformed, []byte(`{"product_name": [`), 0o600))

	wrongShape := filepath.Join(dir, "wrong-shape.yaml")
	require.NoError(t, os.WriteFile(wrongShape, []byte("- just\n- a\n- list\n"), 0o600))

	cases := map[string]string{
		"missing":     filepath.Join(dir, "missing.json"),
		"directory":   dir,
		"malformed":   malformed,
		"wrong shape": wrongShape,
	}

	for name, path := range cases {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			cfg := Load(context.Background(), path)
			require.Equal(t, Default(), cfg)
		})
	}
}

// TestLoad_JSON reads installer_config.json as written by earlier tooling.
func TestLoad_JSON(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "installer_config.json")
	contents := `{
  "product_name": "Morrigan",
  "version": "1.4.2",
  "manufacturer": "Morrigan Labs",
  "upgrade_code": "8B2B1D8E-37D1-4E57-9A6B-6B5B0F1C2D3E",
  "output_directory": "out",
  "resources": ["icons/morrigan.ico"]
}`
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o600))

	cfg := Load(context.Background(), path)
	require.Equal(t, "Morrigan", cfg.ProductName)
	require.Equal(t, "1.4.2", cfg.Version)
	require.Equal(t, "Morrigan Labs", cfg.Manufacturer)
	require.Equal(t, "8B2B1D8E-37D1-4E57-9A6B-6B5B0F1C2D3E", cfg.UpgradeCode)
	require.Equal(t, "out", cfg.OutputDirectory)
	require.Equal(t, []string{"icons/morrigan.ico"}, cfg.Resources)

	// Absent keys fall back one by one.
	require.Equal(t, DefaultIconPath, cfg.IconPath)
	require.Equal(t, DefaultLicensePath, cfg.LicensePath)
	require.Equal(t, DefaultExecutableName, cfg.ExecutableName)
}

// TestLoad_InvalidVersion ensures an unusable version is replaced without dropping other keys.
func TestLoad_InvalidVersion(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "installer_config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("product_name: Morrigan\nversion: next\n"), 0o600))

	cfg := Load(context.Background(), path)
	require.Equal(t, DefaultVersion, cfg.Version)
	require.Equal(t, "Morrigan", cfg.ProductName)
}

// TestNormalizeVersion checks MSI ProductVersion rules.
func TestNormalizeVersion(t *testing.T) {
	t.Parallel()

	valid := map[string]string{
		"0.1.0":         "0.1.0",
		"1":             "1.0.0",
		"v2.3":          "2.3.0",
		"1.2.3.4":       "1.2.3.4",
		"1.2.3-beta.1":  "1.2.3",
		"1.2.3+build.7": "1.2.3",
		"255.255.65535": "255.255.65535",
	}
	for input, want := range valid {
		got, err := NormalizeVersion(input)
		require.NoError(t, err, input)
		require.Equal(t, want, got, input)
	}

	for _, input := range []string{"", "next", "256.0.0", "1.256.0", "1.0.65536", "1.2.3.4.5"} {
		_, err := NormalizeVersion(input)
		require.Error(t, err, input)
	}
}

// TestSaveLoadRoundtrip ensures a saved configuration loads back unchanged.
func TestSaveLoadRoundtrip(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "config", "installer_config.yaml")

	cfg := Default()
	cfg.ProductName = "Morrigan"
	cfg.Resources = []string{"icons/morrigan.ico", "license/LICENSE.rtf"}

	require.NoError(t, Save(path, cfg))

	loaded := Load(context.Background(), path)
	require.Equal(t, cfg, loaded)

	info, err := os.Stat(path)
	require.NoError(t, err)
	require.False(t, info.IsDir())
}

// TestSave_Nil rejects a nil configuration.
func TestSave_Nil(t *testing.T) {
	t.Parallel()

	require.Error(t, Save(filepath.Join(t.TempDir(), "x.yaml"), nil))
}
