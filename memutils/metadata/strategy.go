package metadata

import "github.com/pkg/errors"

// AllocationStrategy selects the hole a new allocation is placed in
type AllocationStrategy uint32

const (
	// AllocationStrategyFirstFit selects the lowest-addressed hole large enough for the allocation
	AllocationStrategyFirstFit AllocationStrategy = iota + 1
	// AllocationStrategyBestFit selects the smallest hole large enough for the allocation. Ties go
	// to the lowest address.
	AllocationStrategyBestFit
	// AllocationStrategyWorstFit selects the largest hole, provided it is large enough for the
	// allocation. Ties go to the lowest address.
	AllocationStrategyWorstFit
)

var allocationStrategyMapping = map[AllocationStrategy]string{
	AllocationStrategyFirstFit: "First Fit",
	AllocationStrategyBestFit:  "Best Fit",
	AllocationStrategyWorstFit: "Worst Fit",
}

func (s AllocationStrategy) String() string {
	return allocationStrategyMapping[s]
}

// ParseAllocationStrategy maps the single-letter strategy selector (F, B or W) to an AllocationStrategy
func ParseAllocationStrategy(flag string) (AllocationStrategy, error) {
	switch flag {
	case "F":
		return AllocationStrategyFirstFit, nil
	case "B":
		return AllocationStrategyBestFit, nil
	case "W":
		return AllocationStrategyWorstFit, nil
	}

	return 0, errors.Errorf("unknown allocation strategy %q", flag)
}

// placementPolicy describes how a strategy ranks qualifying holes. Holes are always visited in
// ascending address order, so a policy only needs to say when a later hole beats the current pick.
type placementPolicy struct {
	firstMatch bool
	better     func(candidateSize, currentSize int) bool
}

var placementPolicies = map[AllocationStrategy]placementPolicy{
	AllocationStrategyFirstFit: {firstMatch: true},
	AllocationStrategyBestFit: {better: func(candidateSize, currentSize int) bool {
		return candidateSize < currentSize
	}},
	AllocationStrategyWorstFit: {better: func(candidateSize, currentSize int) bool {
		return candidateSize > currentSize
	}},
}
