package metadata

import (
	"math"

	"github.com/cameronapriest/OSmemoryallocator/memutils"
)

// BlockAllocationHandle identifies a segment within a SegmentList. Handles are derived from the
// segment's offset and remain valid only until the segment is split, merged, or relocated.
type BlockAllocationHandle uint64

const (
	NoAllocation BlockAllocationHandle = math.MaxUint64
)

func handleForOffset(offset int) BlockAllocationHandle {
	return BlockAllocationHandle(offset + 1)
}

func (h BlockAllocationHandle) offset() int {
	return int(h) - 1
}

// SegmentKind indicates whether a segment is occupied by a process or is a hole
type SegmentKind uint32

const (
	SegmentFree SegmentKind = iota
	SegmentAllocated
)

var segmentKindMapping = map[SegmentKind]string{
	SegmentFree:      "Free",
	SegmentAllocated: "Allocated",
}

func (k SegmentKind) String() string {
	return segmentKindMapping[k]
}

// Segment is a contiguous range of the address space
type Segment struct {
	Offset int
	Size   int
	Kind   SegmentKind
	// Process is the occupant of an allocated segment. It is always zero for free segments.
	Process memutils.ProcessID
	// Released lists the processes whose release produced this hole, in address order. It is
	// empty for allocated segments and for holes that were carved or rebuilt by compaction.
	Released []memutils.ProcessID
}

// End is the inclusive address of the last byte in the segment
func (s Segment) End() int {
	return s.Offset + s.Size - 1
}

func (s Segment) IsFree() bool {
	return s.Kind == SegmentFree
}

func (s Segment) Region() Region {
	return Region{Start: s.Offset, End: s.End(), Size: s.Size}
}

func (s Segment) releasedBy(process memutils.ProcessID) bool {
	for _, released := range s.Released {
		if released == process {
			return true
		}
	}

	return false
}

// Region is an inclusive address range reported back to callers
type Region struct {
	Start int
	End   int
	Size  int
}
