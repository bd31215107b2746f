package builder

import (
	"path/filepath"
	"time"

	"github.com/oshokin/morrigan-installer/internal/executor"
)

// Form is one way of invoking the modern toolchain.
type Form struct {
	// Name labels the form in logs.
	Name string
	// Invocation is the command to run.
	Invocation *executor.Invocation
}

// ModernForms returns the invocation forms of `wix build`, in priority order:
// the bare executable, the .NET local tool wrapper and the fully-qualified path
// inside the located directory.
func ModernForms(req *Request, timeout time.Duration) []Form {
	buildArgs := []string{"build", req.SourcePath, "-o", req.OutputPath}
	searchPath := []string{req.Location.Dir}

	qualified := req.Location.Builder
	if qualified == "" {
		qualified = filepath.Join(req.Location.Dir, "wix"+executor.ExecutableExtension())
	}

	return []Form{
		{
			Name: "direct",
			Invocation: &executor.Invocation{
				Name:       "wix",
				Args:       buildArgs,
				SearchPath: searchPath,
				Timeout:    timeout,
			},
		},
		{
			Name: "dotnet",
			Invocation: &executor.Invocation{
				Name:       "dotnet",
				Args:       append([]string{"wix"}, buildArgs...),
				SearchPath: searchPath,
				Timeout:    timeout,
			},
		},
		{
			Name: "qualified",
			Invocation: &executor.Invocation{
				Name:       qualified,
				Args:       buildArgs,
				SearchPath: searchPath,
				Timeout:    timeout,
			},
		},
	}
}
