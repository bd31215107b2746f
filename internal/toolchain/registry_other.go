//go:build !windows

package toolchain

// registryInstallRoots has nothing to read outside Windows.
func registryInstallRoots() []string {
	return nil
}
