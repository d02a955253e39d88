//go:build !z3

package z3

import (
	"github.com/crest-go/crest/solver"
	"github.com/crest-go/crest/solver/config"
	"github.com/pkg/errors"
)

func init() {
	solver.RegisterBackend(&Backend{})
}

// Backend is a placeholder for the Z3 backend in builds without the z3 build tag.
type Backend struct{}

// Name returns the name the backend is registered under.
func (b *Backend) Name() string {
	return Name
}

// Open always fails.
func (b *Backend) Open(theory config.Theory) (solver.Session, error) {
	return nil, errors.New("z3 backend not available - rebuild with '-tags z3' to enable")
}
