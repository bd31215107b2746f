package identifier

import (
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"

	"github.com/oshokin/morrigan-installer/internal/domain/build"
)

// Generator produces identifier sets from an entropy source.
type Generator struct {
	// entropy is the random source; nil means crypto/rand via uuid.NewRandom.
	entropy io.Reader
}

// NewGenerator returns a Generator reading from entropy.
// Passing nil uses the cryptographically secure default source.
func NewGenerator(entropy io.Reader) *Generator {
	return &Generator{
		entropy: entropy,
	}
}

// Generate returns a fresh identifier set using crypto/rand.
// It panics only if the operating system entropy source is broken.
func Generate() build.IdentifierSet {
	set, err := NewGenerator(nil).Generate()
	if err != nil {
		panic(err)
	}

	return set
}

// Generate returns a fresh identifier set.
func (g *Generator) Generate() (build.IdentifierSet, error) {
	values := make([]string, 0, 6)

	for range 6 {
		value, err := g.next()
		if err != nil {
			return build.IdentifierSet{}, err
		}

		values = append(values, value)
	}

	return build.IdentifierSet{
		UpgradeCode:        values[0],
		ProductCode:        values[1],
		ComponentMain:      values[2],
		ComponentConfig:    values[3],
		ComponentLicense:   values[4],
		ComponentResources: values[5],
	}, nil
}

// Format renders a UUID in WiX GUID notation.
func Format(id uuid.UUID) string {
	return strings.ToUpper(id.String())
}

// next produces one formatted GUID.
func (g *Generator) next() (string, error) {
	var (
		id  uuid.UUID
		err error
	)

	if g.entropy == nil {
		id, err = uuid.NewRandom()
	} else {
		id, err = uuid.NewRandomFromReader(g.entropy)
	}

	if err != nil {
		return "", fmt.Errorf("generate identifier: %w", err)
	}

	return Format(id), nil
}
