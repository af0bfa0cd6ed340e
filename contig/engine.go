package contig

import (
	"context"

	"github.com/cameronapriest/OSmemoryallocator/contig/internal/utils"
	"github.com/cameronapriest/OSmemoryallocator/memutils"
	"github.com/cameronapriest/OSmemoryallocator/memutils/defrag"
	"github.com/cameronapriest/OSmemoryallocator/memutils/metadata"
	"github.com/cameronapriest/OSmemoryallocator/memutils/registry"
	"github.com/cockroachdb/errors"
	"golang.org/x/exp/slog"
)

// Engine simulates a single contiguous address space. Processes are placed into holes with one of
// the metadata.AllocationStrategy values, released back into holes that merge with their free
// neighbors, and slid toward address 0 by compaction.
type Engine struct {
	mutex       utils.OptionalRWMutex
	logger      *slog.Logger
	createFlags CreateFlags

	list       *metadata.SegmentList
	names      *registry.Registry
	compaction defrag.CompactionContext
}

// SegmentInfo describes one segment of the address space
type SegmentInfo struct {
	metadata.Region
	Free bool
	// Process is the occupant of the segment. It is zero when Free is true.
	Process memutils.ProcessID
}

// Release is the outcome of a successful Engine.Release call
type Release struct {
	// Region is the hole the process was released into, after merging with any neighboring holes.
	// If the process had already been released, it is the hole that currently contains the
	// process's former address range.
	Region metadata.Region
	// Size is the number of bytes returned to the address space. It is zero when AlreadyFree is true.
	Size int
	// AlreadyFree is true when the process had been released before this call
	AlreadyFree bool
}

func (e *Engine) validateOperation() {
	if e.createFlags&EngineCreateValidateOperations != 0 {
		memutils.MustValidate(e.list)
		return
	}

	memutils.DebugValidate(e.list)
}

// Capacity returns the size of the address space in bytes
func (e *Engine) Capacity() int {
	return e.list.Size()
}

// AllocatedBytes returns the number of bytes currently occupied by processes
func (e *Engine) AllocatedBytes() int {
	e.mutex.RLock()
	defer e.mutex.RUnlock()

	return e.list.Size() - e.list.SumFreeSize()
}

// Allocate places size bytes for the process id into a hole chosen by strategy. The process
// occupies the low-address end of the hole. On success the name becomes active and the occupied
// region is returned.
//
// Allocate returns an error wrapping memutils.DuplicateNameError if id is active, even if the
// process was since released. It returns an error wrapping memutils.InsufficientMemoryError if
// no hole qualifies; in that case id is disabled and may be requested again. Nothing else is
// modified when an error is returned.
func (e *Engine) Allocate(id memutils.ProcessID, size int, strategy metadata.AllocationStrategy) (metadata.Region, error) {
	e.logger.Debug("Engine::Allocate",
		slog.String("Process", id.String()),
		slog.Int("Size", size),
		slog.String("Strategy", strategy.String()),
	)

	err := memutils.CheckSize(size, "size")
	if err != nil {
		return metadata.Region{}, err
	}

	e.mutex.Lock()
	defer e.mutex.Unlock()

	err = e.names.Check(id)
	if err != nil {
		return metadata.Region{}, err
	}

	success, allocRequest, err := e.list.CreateAllocationRequest(size, strategy)
	if err != nil {
		return metadata.Region{}, errors.Wrapf(err, "failed to place process %s", id)
	}

	if !success {
		e.names.Disable(id)
		e.logger.Debug("  Engine::Allocate FAILED",
			slog.String("Process", id.String()),
			slog.Int("FreeBytes", e.list.SumFreeSize()),
		)
		return metadata.Region{}, errors.Wrapf(memutils.InsufficientMemoryError, "process %s needs %d bytes with %s", id, size, strategy)
	}

	err = e.list.Alloc(allocRequest, id)
	if err != nil {
		return metadata.Region{}, errors.Wrapf(err, "failed to commit allocation for process %s", id)
	}

	err = e.names.Reserve(id)
	if err != nil {
		panic(errors.Wrapf(err, "process %s was allocated but could not be registered", id))
	}

	e.validateOperation()

	region := metadata.Region{
		Start: allocRequest.Item.Offset,
		End:   allocRequest.Item.Offset + size - 1,
		Size:  size,
	}

	e.logger.Debug("  Allocated",
		slog.String("Process", id.String()),
		slog.Int("Start", region.Start),
		slog.Int("End", region.End),
	)

	return region, nil
}

// Release turns the segment occupied by id into a hole and merges it with neighboring holes. The
// name remains active.
//
// Releasing a process a second time is not an error: the hole currently containing its former
// range is reported with AlreadyFree set. Once that hole has been carved for a new allocation or
// compacted, the release is forgotten. Release returns an error wrapping memutils.NotFoundError
// if id does not occupy, and has not recently been released from, any segment.
func (e *Engine) Release(id memutils.ProcessID) (Release, error) {
	e.logger.Debug("Engine::Release", slog.String("Process", id.String()))

	e.mutex.Lock()
	defer e.mutex.Unlock()

	sizeBefore := e.list.SumFreeSize()

	hole, alreadyFree, err := e.list.Free(id)
	if err != nil {
		return Release{}, err
	}

	if !alreadyFree {
		e.validateOperation()
	}

	return Release{
		Region:      hole.Region(),
		Size:        e.list.SumFreeSize() - sizeBefore,
		AlreadyFree: alreadyFree,
	}, nil
}

// Compact relocates every process toward address 0, preserving their order, and gathers all
// free bytes into a single hole at the top of the address space. If no process is allocated,
// the address space returns to its initial single hole and nothing is reported as freed.
func (e *Engine) Compact() defrag.CompactionStats {
	e.logger.Debug("Engine::Compact")

	e.mutex.Lock()
	defer e.mutex.Unlock()

	stats, err := e.compaction.Compact(e.list)
	if err != nil {
		panic(err)
	}

	e.validateOperation()

	e.logger.Debug("  Compacted",
		slog.Int("BytesFreed", stats.BytesFreed),
		slog.Int("BytesMoved", stats.BytesMoved),
		slog.Int("AllocationsMoved", stats.AllocationsMoved),
	)

	return stats
}

// CompactionTotals returns the sum of every compaction performed by this engine
func (e *Engine) CompactionTotals() defrag.CompactionStats {
	e.mutex.RLock()
	defer e.mutex.RUnlock()

	return e.compaction.Stats
}

func segmentInfo(segment metadata.Segment) SegmentInfo {
	return SegmentInfo{
		Region:  segment.Region(),
		Free:    segment.IsFree(),
		Process: segment.Process,
	}
}

// Inspect returns every segment in ascending address order. An untouched address space is
// reported as a single hole.
func (e *Engine) Inspect() []SegmentInfo {
	e.mutex.RLock()
	defer e.mutex.RUnlock()

	segments := make([]SegmentInfo, 0, e.list.SegmentCount())
	_ = e.list.VisitAllRegions(func(handle metadata.BlockAllocationHandle, segment metadata.Segment) error {
		segments = append(segments, segmentInfo(segment))
		return nil
	})

	return segments
}

// InspectDescending returns every segment in descending address order
func (e *Engine) InspectDescending() []SegmentInfo {
	e.mutex.RLock()
	defer e.mutex.RUnlock()

	segments := make([]SegmentInfo, 0, e.list.SegmentCount())
	_ = e.list.VisitAllRegionsReverse(func(handle metadata.BlockAllocationHandle, segment metadata.Segment) error {
		segments = append(segments, segmentInfo(segment))
		return nil
	})

	return segments
}

// Names returns every process name that has been requested, in ascending order
func (e *Engine) Names() []registry.Entry {
	e.mutex.RLock()
	defer e.mutex.RUnlock()

	return e.names.Entries()
}

// Close releases every remaining process. Processes still allocated are logged at debug level.
func (e *Engine) Close() error {
	e.logger.Debug("Engine::Close")

	e.mutex.Lock()
	defer e.mutex.Unlock()

	if !e.list.IsEmpty() {
		e.list.DebugLogAllAllocations(e.logger, func(log *slog.Logger, segment metadata.Segment) {
			log.LogAttrs(context.Background(), slog.LevelDebug, "[UNRELEASED MEMORY] process still allocated at exit",
				slog.String("Process", segment.Process.String()),
				slog.Int("Offset", segment.Offset),
				slog.Int("Size", segment.Size),
			)
		})
	}

	e.list.Clear()
	return nil
}
