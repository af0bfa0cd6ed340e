package metadata

import (
	"fmt"
	"sort"

	"github.com/cameronapriest/OSmemoryallocator/memutils"
	"github.com/launchdarkly/go-jsonstream/v3/jwriter"
	"github.com/pkg/errors"
	"golang.org/x/exp/slices"
	"golang.org/x/exp/slog"
)

// SegmentList is a BlockMetadata implementation that partitions an address space into an
// address-ordered slice of allocated segments and holes.
//
// A freshly initialized list holds no segments at all and represents a single implicit hole
// spanning the whole address space. The first allocation materializes explicit segments. After
// that, every mutation leaves the list contiguous, fully covering [0, Size()-1], free of adjacent
// holes, and with at most one segment per process.
type SegmentList struct {
	BlockMetadataBase

	segments    []Segment
	allocCount  int
	freeCount   int
	sumFreeSize int
}

var _ BlockMetadata = &SegmentList{}

// NewSegmentList creates a new SegmentList. Init must be called before it is used.
func NewSegmentList() *SegmentList {
	return &SegmentList{
		BlockMetadataBase: NewBlockMetadata(),
	}
}

// Init prepares the list for allocations and sizes the address space in bytes based on the parameter size.
func (l *SegmentList) Init(size int) {
	l.BlockMetadataBase.Init(size)
	l.segments = nil
	l.allocCount = 0
	l.freeCount = 0
	l.sumFreeSize = size
}

func (l *SegmentList) AllocationCount() int {
	return l.allocCount
}

func (l *SegmentList) FreeRegionsCount() int {
	if len(l.segments) == 0 {
		return 1
	}

	return l.freeCount
}

func (l *SegmentList) SumFreeSize() int {
	return l.sumFreeSize
}

func (l *SegmentList) IsEmpty() bool {
	return l.allocCount == 0
}

// SegmentCount returns the number of segments, counting the implicit hole of an empty list
func (l *SegmentList) SegmentCount() int {
	if len(l.segments) == 0 {
		return 1
	}

	return len(l.segments)
}

func (l *SegmentList) implicitHole() Segment {
	return Segment{
		Offset: 0,
		Size:   l.size,
		Kind:   SegmentFree,
	}
}

func (l *SegmentList) cloneSegment(index int) Segment {
	segment := l.segments[index]
	if segment.Released != nil {
		segment.Released = slices.Clone(segment.Released)
	}
	return segment
}

// InsertInitial materializes an empty list: process occupies [0, size-1] and, if any bytes remain,
// a hole spans the rest of the address space. It panics if the list already has segments or
// size does not fit.
func (l *SegmentList) InsertInitial(process memutils.ProcessID, size int) {
	memutils.DebugCheckSize(size, "initial allocation size")
	if len(l.segments) != 0 {
		panic("cannot insert the initial segments into a list that already has segments")
	}
	if size < 1 || size > l.size {
		panic(fmt.Sprintf("initial allocation of %d bytes does not fit in an address space of %d bytes", size, l.size))
	}

	l.segments = append(l.segments, Segment{
		Offset:  0,
		Size:    size,
		Kind:    SegmentAllocated,
		Process: process,
	})
	l.allocCount++
	l.sumFreeSize -= size

	if size < l.size {
		l.segments = append(l.segments, Segment{
			Offset: size,
			Size:   l.size - size,
			Kind:   SegmentFree,
		})
		l.freeCount++
	}
}

// Split carves size bytes from the low-address end of the hole at index and gives them to process.
// When the hole is larger than size, the rest of it remains a hole immediately after the new
// allocation. It returns the index of the allocated segment and the index of the remaining hole,
// or -1 if the hole was consumed entirely.
//
// Split panics if the segment at index is not a hole or is smaller than size.
func (l *SegmentList) Split(index int, size int, process memutils.ProcessID) (int, int) {
	memutils.DebugCheckSize(size, "split size")
	hole := l.segments[index]
	if !hole.IsFree() {
		panic(fmt.Sprintf("segment at offset %d is already taken", hole.Offset))
	}
	if size < 1 || size > hole.Size {
		panic(fmt.Sprintf("cannot split %d bytes from a hole of %d bytes at offset %d", size, hole.Size, hole.Offset))
	}

	l.segments[index] = Segment{
		Offset:  hole.Offset,
		Size:    size,
		Kind:    SegmentAllocated,
		Process: process,
	}
	l.allocCount++
	l.sumFreeSize -= size

	if size == hole.Size {
		l.freeCount--
		return index, -1
	}

	l.segments = slices.Insert(l.segments, index+1, Segment{
		Offset: hole.Offset + size,
		Size:   hole.Size - size,
		Kind:   SegmentFree,
	})

	return index, index + 1
}

// mergeBlock absorbs the hole at index+1 into the hole at index
func (l *SegmentList) mergeBlock(index int) {
	block := l.segments[index]
	next := l.segments[index+1]

	if !block.IsFree() || !next.IsFree() {
		panic("cannot merge a segment that is not free")
	}
	if block.End()+1 != next.Offset {
		panic("cannot merge separate physical regions")
	}

	l.segments[index].Size += next.Size
	l.segments[index].Released = append(l.segments[index].Released, next.Released...)
	l.segments = slices.Delete(l.segments, index+1, index+2)
	l.freeCount--
}

func (l *SegmentList) findAllocation(process memutils.ProcessID) (int, bool) {
	for index, segment := range l.segments {
		if !segment.IsFree() && segment.Process == process {
			return index, true
		}
	}

	return -1, false
}

func (l *SegmentList) findReleasedHole(process memutils.ProcessID) (int, bool) {
	for index, segment := range l.segments {
		if segment.IsFree() && segment.releasedBy(process) {
			return index, true
		}
	}

	return -1, false
}

func (l *SegmentList) indexForHandle(handle BlockAllocationHandle) (int, error) {
	if handle == NoAllocation || handle == 0 {
		return -1, errors.New("received a handle that was incompatible with this metadata")
	}

	offset := handle.offset()
	index := sort.Search(len(l.segments), func(i int) bool {
		return l.segments[i].Offset >= offset
	})

	if index >= len(l.segments) || l.segments[index].Offset != offset {
		return -1, errors.Errorf("no segment begins at offset %d", offset)
	}

	return index, nil
}

func (l *SegmentList) segmentForHandle(handle BlockAllocationHandle) (Segment, error) {
	if len(l.segments) == 0 && handle == handleForOffset(0) {
		return l.implicitHole(), nil
	}

	index, err := l.indexForHandle(handle)
	if err != nil {
		return Segment{}, err
	}

	return l.segments[index], nil
}

// Validate performs internal consistency checks on the list: contiguity, full coverage of the
// address space, no adjacent holes, unique processes, and agreement with the cached counters.
func (l *SegmentList) Validate() error {
	if l.sumFreeSize < 0 || l.sumFreeSize > l.size {
		return errors.New("invalid metadata free size")
	}

	if len(l.segments) == 0 {
		if l.allocCount != 0 || l.freeCount != 0 {
			return errors.Errorf("the list has no segments, but counts %d allocations and %d holes", l.allocCount, l.freeCount)
		}
		if l.sumFreeSize != l.size {
			return errors.Errorf("the list has no segments, but only %d of %d bytes are free", l.sumFreeSize, l.size)
		}
		return nil
	}

	nextOffset := 0
	prevFree := false
	var allocCount, freeCount, freeSize int
	processes := make(map[memutils.ProcessID]int, l.allocCount)

	for index, segment := range l.segments {
		if segment.Size < 1 {
			return errors.Errorf("segment at index %d has invalid size %d", index, segment.Size)
		}

		if segment.Offset != nextOffset {
			return errors.Errorf("segment at index %d starts at offset %d, but the previous segment ended at offset %d", index, segment.Offset, nextOffset-1)
		}

		switch segment.Kind {
		case SegmentFree:
			if prevFree {
				return errors.Errorf("segment at offset %d is a hole adjacent to the hole before it", segment.Offset)
			}
			if segment.Process != 0 {
				return errors.Errorf("hole at offset %d still names process %s as its occupant", segment.Offset, segment.Process)
			}

			freeCount++
			freeSize += segment.Size
			prevFree = true
		case SegmentAllocated:
			if len(segment.Released) != 0 {
				return errors.Errorf("allocated segment at offset %d still lists released processes", segment.Offset)
			}

			if otherOffset, duplicate := processes[segment.Process]; duplicate {
				return errors.Errorf("process %s occupies both offset %d and offset %d", segment.Process, otherOffset, segment.Offset)
			}

			processes[segment.Process] = segment.Offset
			allocCount++
			prevFree = false
		default:
			return errors.Errorf("segment at offset %d has unknown kind %d", segment.Offset, segment.Kind)
		}

		nextOffset = segment.Offset + segment.Size
	}

	if nextOffset != l.size {
		return errors.Errorf("the full size of the metadata is %d, but the segments only added up to %d", l.size, nextOffset)
	}

	if freeSize != l.sumFreeSize {
		return errors.Errorf("the free size of the metadata is %d, but the holes only added up to %d", l.sumFreeSize, freeSize)
	}

	if allocCount != l.allocCount {
		return errors.Errorf("the allocation count of the metadata is %d, but the allocated segments only added up to %d", l.allocCount, allocCount)
	}

	if freeCount != l.freeCount {
		return errors.Errorf("the hole count of the metadata is %d, but there were only %d holes", l.freeCount, freeCount)
	}

	return nil
}

func (l *SegmentList) AddDetailedStatistics(stats *memutils.DetailedStatistics) {
	stats.SegmentCount += l.SegmentCount()
	stats.CapacityBytes += l.size

	if len(l.segments) == 0 {
		stats.AddUnusedRange(l.size)
		return
	}

	for _, segment := range l.segments {
		if segment.IsFree() {
			stats.AddUnusedRange(segment.Size)
		} else {
			stats.AddAllocation(segment.Size)
		}
	}
}

func (l *SegmentList) AddStatistics(stats *memutils.Statistics) {
	stats.SegmentCount += l.SegmentCount()
	stats.AllocationCount += l.allocCount
	stats.CapacityBytes += l.size
	stats.AllocationBytes += l.size - l.sumFreeSize
}

func (l *SegmentList) VisitAllRegions(handleBlock func(handle BlockAllocationHandle, segment Segment) error) error {
	if len(l.segments) == 0 {
		return handleBlock(handleForOffset(0), l.implicitHole())
	}

	for index := range l.segments {
		segment := l.cloneSegment(index)
		err := handleBlock(handleForOffset(segment.Offset), segment)
		if err != nil {
			return err
		}
	}

	return nil
}

func (l *SegmentList) VisitAllRegionsReverse(handleBlock func(handle BlockAllocationHandle, segment Segment) error) error {
	if len(l.segments) == 0 {
		return handleBlock(handleForOffset(0), l.implicitHole())
	}

	for index := len(l.segments) - 1; index >= 0; index-- {
		segment := l.cloneSegment(index)
		err := handleBlock(handleForOffset(segment.Offset), segment)
		if err != nil {
			return err
		}
	}

	return nil
}

// Segments returns a copy of every segment in ascending address order
func (l *SegmentList) Segments() []Segment {
	segments := make([]Segment, 0, l.SegmentCount())
	_ = l.VisitAllRegions(func(handle BlockAllocationHandle, segment Segment) error {
		segments = append(segments, segment)
		return nil
	})
	return segments
}

func (l *SegmentList) AllocationListBegin() (BlockAllocationHandle, error) {
	if l.allocCount == 0 {
		return NoAllocation, nil
	}

	for _, segment := range l.segments {
		if !segment.IsFree() {
			return handleForOffset(segment.Offset), nil
		}
	}

	return NoAllocation, errors.New("the metadata has an allocation but none could be found in the segments")
}

func (l *SegmentList) FindNextAllocation(allocHandle BlockAllocationHandle) (BlockAllocationHandle, error) {
	index, err := l.indexForHandle(allocHandle)
	if err != nil {
		return NoAllocation, err
	}
	if l.segments[index].IsFree() {
		return NoAllocation, errors.New("provided segment cannot be free")
	}

	for index++; index < len(l.segments); index++ {
		if !l.segments[index].IsFree() {
			return handleForOffset(l.segments[index].Offset), nil
		}
	}

	return NoAllocation, nil
}

func (l *SegmentList) AllocationOffset(allocHandle BlockAllocationHandle) (int, error) {
	segment, err := l.segmentForHandle(allocHandle)
	if err != nil {
		return 0, err
	}

	return segment.Offset, nil
}

func (l *SegmentList) AllocationSize(allocHandle BlockAllocationHandle) (int, error) {
	segment, err := l.segmentForHandle(allocHandle)
	if err != nil {
		return 0, err
	}

	return segment.Size, nil
}

func (l *SegmentList) AllocationProcess(allocHandle BlockAllocationHandle) (memutils.ProcessID, error) {
	segment, err := l.segmentForHandle(allocHandle)
	if err != nil {
		return 0, err
	}

	if segment.IsFree() {
		return 0, errors.New("a process cannot be retrieved for a free segment")
	}

	return segment.Process, nil
}

func (l *SegmentList) Clear() {
	l.segments = nil
	l.allocCount = 0
	l.freeCount = 0
	l.sumFreeSize = l.size
}

func (l *SegmentList) BlockJsonData(json *jwriter.ObjectState) {
	l.BlockMetadataBase.BlockJsonData(json, l.sumFreeSize, l.allocCount, l.FreeRegionsCount())
}

func (l *SegmentList) PrintDetailedMap(json *jwriter.ObjectState) {
	arrayState := json.Name("Segments").Array()
	defer arrayState.End()

	_ = l.VisitAllRegions(func(handle BlockAllocationHandle, segment Segment) error {
		if segment.IsFree() {
			l.printDetailedMapUnusedRange(&arrayState, segment)
		} else {
			l.printDetailedMapAllocation(&arrayState, segment)
		}
		return nil
	})
}

func (l *SegmentList) DebugLogAllAllocations(logger *slog.Logger, logFunc func(log *slog.Logger, segment Segment)) {
	for index, segment := range l.segments {
		if !segment.IsFree() {
			logFunc(logger, l.cloneSegment(index))
		}
	}
}

func (l *SegmentList) Rebuild(layout []Segment) error {
	candidate := SegmentList{
		BlockMetadataBase: l.BlockMetadataBase,
		sumFreeSize:       l.size,
	}

	if len(layout) > 0 {
		candidate.segments = make([]Segment, 0, len(layout))
		candidate.sumFreeSize = 0
	}

	for _, segment := range layout {
		if segment.Released != nil {
			segment.Released = slices.Clone(segment.Released)
		}
		candidate.segments = append(candidate.segments, segment)

		if segment.IsFree() {
			candidate.freeCount++
			candidate.sumFreeSize += segment.Size
		} else {
			candidate.allocCount++
		}
	}

	err := candidate.Validate()
	if err != nil {
		return errors.Wrap(err, "rejected rebuilt segment layout")
	}

	l.segments = candidate.segments
	l.allocCount = candidate.allocCount
	l.freeCount = candidate.freeCount
	l.sumFreeSize = candidate.sumFreeSize

	return nil
}
