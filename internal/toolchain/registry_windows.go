//go:build windows

package toolchain

import (
	"golang.org/x/sys/windows/registry"
)

// wixRegistryKeys are the HKLM keys under which WiX v3 records its InstallRoot.
//
//nolint:gochecknoglobals // Read-only lookup table.
var wixRegistryKeys = []string{
	`SOFTWARE\WOW6432Node\Microsoft\Windows Installer XML\3.11`,
	`SOFTWARE\Microsoft\Windows Installer XML\3.11`,
	`SOFTWARE\WOW6432Node\Microsoft\Windows Installer XML\3.14`,
	`SOFTWARE\Microsoft\Windows Installer XML\3.14`,
}

// registryInstallRoots returns the WiX v3 install roots recorded in the registry.
func registryInstallRoots() []string {
	var roots []string

	for _, path := range wixRegistryKeys {
		key, err := registry.OpenKey(registry.LOCAL_MACHINE, path, registry.QUERY_VALUE)
		if err != nil {
			continue
		}

		root, _, err := key.GetStringValue("InstallRoot")
		_ = key.Close()

		if err == nil && root != "" {
			roots = append(roots, root)
		}
	}

	return roots
}
