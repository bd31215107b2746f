package build

// IdentifierSet contains the GUIDs the WiX source needs for one build.
// A set is generated fresh for every run and never reused.
type IdentifierSet struct {
	// UpgradeCode groups every version of the product for major upgrades.
	UpgradeCode string
	// ProductCode identifies this particular product build.
	ProductCode string
	// ComponentMain identifies the main executable component.
	ComponentMain string
	// ComponentConfig identifies the configuration files component.
	ComponentConfig string
	// ComponentLicense identifies the license component.
	ComponentLicense string
	// ComponentResources identifies the bundled resources component.
	ComponentResources string
}

// Values returns the identifiers in a fixed order.
func (s IdentifierSet) Values() []string {
	return []string{
		s.UpgradeCode,
		s.ProductCode,
		s.ComponentMain,
		s.ComponentConfig,
		s.ComponentLicense,
		s.ComponentResources,
	}
}
