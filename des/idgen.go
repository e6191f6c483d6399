package des

import (
	"strconv"
	"sync/atomic"

	"github.com/rs/xid"
)

// IDGenerator produces identifiers for Events, Processes and Resources.
// Generalized from a package-global ID allocator (sim/idgenerator.go) into a
// field owned by each Environment: the Environment already owns every
// entity that needs an ID, so a global singleton only cost testability
// without buying anything.
type IDGenerator interface {
	Generate() string
}

// SequentialIDGenerator produces "1", "2", "3", ... in allocation order.
// Deterministic, and the default used by a fresh Environment.
type SequentialIDGenerator struct {
	next uint64
}

// NewSequentialIDGenerator returns a fresh SequentialIDGenerator starting at 1.
func NewSequentialIDGenerator() *SequentialIDGenerator {
	return &SequentialIDGenerator{}
}

// Generate returns the next sequential ID.
func (g *SequentialIDGenerator) Generate() string {
	n := atomic.AddUint64(&g.next, 1)
	return strconv.FormatUint(n, 10)
}

// XIDGenerator produces globally unique, non-deterministic IDs. Useful when
// multiple Environments' output needs to be merged without collision; not
// the default because the kernel favors deterministic replay out of the
// box.
type XIDGenerator struct{}

// NewXIDGenerator returns an XIDGenerator.
func NewXIDGenerator() *XIDGenerator {
	return &XIDGenerator{}
}

// Generate returns a new xid-based identifier.
func (g *XIDGenerator) Generate() string {
	return xid.New().String()
}
