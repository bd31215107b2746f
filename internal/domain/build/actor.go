package build

// Actor identifies who ran a build.
type Actor struct {
	// Hostname is the machine the build ran on.
	Hostname string
	// Username is the system user who started the build.
	Username string
}

// Clone returns a copy of the actor.
func (a *Actor) Clone() *Actor {
	if a == nil {
		return nil
	}

	cloned := *a

	return &cloned
}
