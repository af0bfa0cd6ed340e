package metadata

import (
	"github.com/cameronapriest/OSmemoryallocator/memutils"
	"github.com/launchdarkly/go-jsonstream/v3/jwriter"
	"golang.org/x/exp/slog"
)

// BlockMetadata represents a single fixed-size address space. It manages the segments within
// the space, allowing allocations to be requested, released and relocated, as well as
// enumerated and queried.
type BlockMetadata interface {
	// Init must be called before the BlockMetadata is used. It informs the implementation of the
	// size in bytes of the address space it will be managing, via the size parameter.
	Init(size int)
	// Size retrieves the size in bytes that the address space was initialized with
	Size() int

	// Validate performs internal consistency checks on the metadata. When the implementation is
	// functioning correctly, it should not be possible for this method to return an error, but this
	// may assist in diagnosing issues with the implementation.
	Validate() error
	// AllocationCount returns the number of live allocations.
	AllocationCount() int
	// FreeRegionsCount returns the number of holes in the address space. Adjacent holes are always
	// merged, so they count as a single region.
	FreeRegionsCount() int
	// SumFreeSize returns the number of free bytes in the address space.
	SumFreeSize() int

	// IsEmpty will return true if the address space has no live allocations
	IsEmpty() bool

	// VisitAllRegions will call the provided callback once for each allocation and hole in
	// ascending address order. An empty list reports its single implicit hole.
	VisitAllRegions(handleBlock func(handle BlockAllocationHandle, segment Segment) error) error
	// VisitAllRegionsReverse is VisitAllRegions in descending address order
	VisitAllRegionsReverse(handleBlock func(handle BlockAllocationHandle, segment Segment) error) error
	// AllocationListBegin will retrieve the handle of the lowest-addressed allocation, if any. If none
	// exist, the BlockAllocationHandle value NoAllocation will be returned.
	AllocationListBegin() (BlockAllocationHandle, error)
	// FindNextAllocation accepts a BlockAllocationHandle that maps to a live allocation and returns
	// the handle for the next live allocation at a higher address, if any. If none exist,
	// NoAllocation will be returned.
	//
	// The implementation must return an error if the provided allocHandle does not map to a live
	// allocation.
	FindNextAllocation(allocHandle BlockAllocationHandle) (BlockAllocationHandle, error)

	// AllocationOffset accepts a BlockAllocationHandle that maps to a live segment (allocated or free)
	// and returns its offset in bytes.
	AllocationOffset(allocHandle BlockAllocationHandle) (int, error)
	// AllocationSize accepts a BlockAllocationHandle that maps to a live segment (allocated or free)
	// and returns its size in bytes.
	AllocationSize(allocHandle BlockAllocationHandle) (int, error)
	// AllocationProcess accepts a BlockAllocationHandle that maps to a live allocation and returns
	// the process occupying it.
	AllocationProcess(allocHandle BlockAllocationHandle) (memutils.ProcessID, error)

	// AddDetailedStatistics sums this address space's statistics into the statistics currently present
	// in the provided memutils.DetailedStatistics object.
	AddDetailedStatistics(stats *memutils.DetailedStatistics)
	// AddStatistics sums this address space's statistics into the statistics currently present in the
	// provided memutils.Statistics object.
	AddStatistics(stats *memutils.Statistics)

	// Clear instantly frees all allocations and returns to a single implicit hole
	Clear()
	// BlockJsonData populates a json object with summary information about the address space
	BlockJsonData(json *jwriter.ObjectState)
	// PrintDetailedMap populates a json object with one entry per segment
	PrintDetailedMap(json *jwriter.ObjectState)
	// DebugLogAllAllocations calls logFunc once for each live allocation
	DebugLogAllAllocations(logger *slog.Logger, logFunc func(log *slog.Logger, segment Segment))

	// CreateAllocationRequest retrieves an AllocationRequest object indicating where the implementation
	// would place the requested memory. That object can be passed to Alloc to commit the allocation.
	// The metadata is not modified. The boolean return is false when no hole qualifies.
	//
	// allocSize - the size in bytes of the requested allocation
	// strategy - which hole to prefer when several qualify
	CreateAllocationRequest(allocSize int, strategy AllocationStrategy) (bool, AllocationRequest, error)
	// Alloc commits an AllocationRequest object, occupying the start of the requested hole with the
	// provided process. The implementation must return an error if the request is no longer valid.
	Alloc(request AllocationRequest, process memutils.ProcessID) error

	// Free turns the allocation occupied by process into a hole and merges it with neighboring holes.
	// The returned segment is the resulting hole. If process was already released, the hole containing
	// it is returned along with true, and nothing is modified.
	//
	// The implementation must return an error wrapping memutils.NotFoundError if process was never
	// allocated.
	Free(process memutils.ProcessID) (Segment, bool, error)

	// Rebuild replaces every segment with the provided layout. The layout must satisfy all of the
	// invariants checked by Validate; if it does not, an error is returned and nothing is modified.
	// An empty layout returns the address space to its implicit hole.
	Rebuild(layout []Segment) error
}

// BlockMetadataBase is a simple struct that provides a few shared utilities for BlockMetadata
// implementations.
type BlockMetadataBase struct {
	size int
}

// NewBlockMetadata creates a new, uninitialized BlockMetadataBase
func NewBlockMetadata() BlockMetadataBase {
	return BlockMetadataBase{
		size: 0,
	}
}

// Init sizes the address space in bytes based on the parameter size.
func (m *BlockMetadataBase) Init(size int) {
	m.size = size
}

// Size returns the size of the address space in bytes
func (m *BlockMetadataBase) Size() int { return m.size }

// BlockJsonData populates a json object with information about the address space
func (m *BlockMetadataBase) BlockJsonData(json *jwriter.ObjectState, unusedBytes, allocationCount, unusedRangeCount int) {
	json.Name("TotalBytes").Int(m.Size())
	json.Name("UnusedBytes").Int(unusedBytes)
	json.Name("Allocations").Int(allocationCount)
	json.Name("UnusedRanges").Int(unusedRangeCount)
}

func (m *BlockMetadataBase) printDetailedMapUnusedRange(json *jwriter.ArrayState, segment Segment) {
	obj := json.Object()
	defer obj.End()

	obj.Name("Offset").Int(segment.Offset)
	obj.Name("End").Int(segment.End())
	obj.Name("Type").String(SegmentFree.String())
	obj.Name("Size").Int(segment.Size)
}

func (m *BlockMetadataBase) printDetailedMapAllocation(json *jwriter.ArrayState, segment Segment) {
	obj := json.Object()
	defer obj.End()

	obj.Name("Offset").Int(segment.Offset)
	obj.Name("End").Int(segment.End())
	obj.Name("Type").String(SegmentAllocated.String())
	obj.Name("Size").Int(segment.Size)
	obj.Name("Process").String(segment.Process.String())
}
