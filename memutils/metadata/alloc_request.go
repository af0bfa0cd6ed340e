package metadata

// AllocationRequestType is an enum that indicates the type of allocation that is being made.
// It is returned in AllocationRequest from CreateAllocationRequest
type AllocationRequestType uint32

const (
	// AllocationRequestInitial indicates that the list was empty and the allocation will materialize
	// the first explicit segments
	AllocationRequestInitial AllocationRequestType = iota
	// AllocationRequestHole indicates that the allocation will be carved from an existing hole
	AllocationRequestHole
)

var allocationRequestMapping = map[AllocationRequestType]string{
	AllocationRequestInitial: "Initial",
	AllocationRequestHole:    "Hole",
}

func (t AllocationRequestType) String() string {
	return allocationRequestMapping[t]
}

// AllocationRequest is a type returned from BlockMetadata.CreateAllocationRequest which indicates where
// the metadata intends to place new memory. It can be committed with BlockMetadata.Alloc as long as the
// list has not been mutated in between.
type AllocationRequest struct {
	// BlockAllocationHandle identifies the hole the allocation will be carved from
	BlockAllocationHandle BlockAllocationHandle
	// Size is the number of bytes that will be allocated
	Size int
	// Item is the hole as it was when the request was created
	Item Segment
	// Type identifies whether the request materializes the list or carves an existing hole
	Type AllocationRequestType
	// Strategy is the placement strategy that chose the hole
	Strategy AllocationStrategy

	// AlgorithmData is the index of the hole within the list
	AlgorithmData uint64
}
