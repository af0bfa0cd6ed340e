package defrag

import (
	"fmt"

	"github.com/cameronapriest/OSmemoryallocator/memutils"
	"github.com/cameronapriest/OSmemoryallocator/memutils/metadata"
	"github.com/cockroachdb/errors"
)

// CompactionContext relocates every allocation in a BlockMetadata to the low end of the address
// space, preserving their relative order, and gathers all free bytes into one trailing hole.
// A CompactionContext can be reused for any number of runs; Stats accumulates across them.
type CompactionContext struct {
	// Handler is an optional method that will be called for each relocation once a run has been committed
	Handler MoveHandler
	// Stats contains the totals of every run performed with this context
	Stats CompactionStats

	moves  []Move
	layout []metadata.Segment
}

// Moves returns the relocations performed by the most recent run
func (c *CompactionContext) Moves() []Move {
	return c.moves
}

// CollectMoves computes the compacted layout of mtdata without modifying it. The relocations can
// be retrieved from Moves afterward.
func (c *CompactionContext) CollectMoves(mtdata metadata.BlockMetadata) ([]metadata.Segment, CompactionStats) {
	c.moves = c.moves[:0]
	c.layout = c.layout[:0]

	var stats CompactionStats
	if mtdata.IsEmpty() {
		return nil, stats
	}

	nextOffset := 0
	for handle := c.mustBeginAllocationList(mtdata); handle != metadata.NoAllocation; handle = c.mustFindNextAllocation(mtdata, handle) {
		offset := c.mustFindOffset(mtdata, handle)
		size := c.mustFindSize(mtdata, handle)
		process := c.mustFindProcess(mtdata, handle)

		c.layout = append(c.layout, metadata.Segment{
			Offset:  nextOffset,
			Size:    size,
			Kind:    metadata.SegmentAllocated,
			Process: process,
		})

		if offset != nextOffset {
			c.moves = append(c.moves, Move{
				Process:   process,
				Size:      size,
				SrcOffset: offset,
				DstOffset: nextOffset,
			})
			stats.AllocationsMoved++
			stats.BytesMoved += size
		}

		nextOffset += size
	}

	stats.BytesFreed = mtdata.Size() - nextOffset
	if stats.BytesFreed != mtdata.SumFreeSize() {
		panic(fmt.Sprintf("allocations cover %d bytes of %d, but the metadata reports %d free bytes", nextOffset, mtdata.Size(), mtdata.SumFreeSize()))
	}

	holesAfter := 0
	if stats.BytesFreed > 0 {
		c.layout = append(c.layout, metadata.Segment{
			Offset: nextOffset,
			Size:   stats.BytesFreed,
			Kind:   metadata.SegmentFree,
		})
		holesAfter = 1
	}
	stats.HolesMerged = mtdata.FreeRegionsCount() - holesAfter

	return c.layout, stats
}

// Compact performs one compaction run against mtdata. If there are no allocations, the address
// space is returned to its implicit hole and nothing is reported as freed. On error, mtdata is unmodified.
func (c *CompactionContext) Compact(mtdata metadata.BlockMetadata) (CompactionStats, error) {
	layout, stats := c.CollectMoves(mtdata)

	err := mtdata.Rebuild(layout)
	if err != nil {
		c.moves = c.moves[:0]
		return CompactionStats{}, errors.Wrap(err, "failed to compact address space")
	}

	memutils.DebugValidate(mtdata)

	if c.Handler != nil {
		for _, move := range c.moves {
			c.Handler(move)
		}
	}

	c.Stats.Add(stats)
	return stats, nil
}

func (c *CompactionContext) mustBeginAllocationList(mtdata metadata.BlockMetadata) metadata.BlockAllocationHandle {
	handle, err := mtdata.AllocationListBegin()
	if err != nil {
		panic(fmt.Sprintf("unexpected error when getting first allocation: %+v", err))
	}

	return handle
}

func (c *CompactionContext) mustFindNextAllocation(mtdata metadata.BlockMetadata, handle metadata.BlockAllocationHandle) metadata.BlockAllocationHandle {
	handle, err := mtdata.FindNextAllocation(handle)
	if err != nil {
		panic(fmt.Sprintf("unexpected error when getting next allocation: %+v", err))
	}

	return handle
}

func (c *CompactionContext) mustFindOffset(mtdata metadata.BlockMetadata, handle metadata.BlockAllocationHandle) int {
	offset, err := mtdata.AllocationOffset(handle)
	if err != nil {
		panic(fmt.Sprintf("unexpected error when getting allocation offset: %+v", err))
	}

	return offset
}

func (c *CompactionContext) mustFindSize(mtdata metadata.BlockMetadata, handle metadata.BlockAllocationHandle) int {
	size, err := mtdata.AllocationSize(handle)
	if err != nil {
		panic(fmt.Sprintf("unexpected error when getting allocation size: %+v", err))
	}

	return size
}

func (c *CompactionContext) mustFindProcess(mtdata metadata.BlockMetadata, handle metadata.BlockAllocationHandle) memutils.ProcessID {
	process, err := mtdata.AllocationProcess(handle)
	if err != nil {
		panic(fmt.Sprintf("unexpected error when getting allocation process: %+v", err))
	}

	return process
}
