// core/sampler/errors.go
package sampler

import "github.com/pkg/errors"

var (
	// ErrInvalidDistribution marks a weight vector that cannot back a
	// categorical sampler (empty, all-zero, or containing bad values).
	ErrInvalidDistribution = errors.New("invalid distribution")

	// ErrDegenerateDistribution marks a sampling range whose total weight
	// is zero, so no position can be drawn from it.
	ErrDegenerateDistribution = errors.New("degenerate distribution")
)
