package metadata

import (
	"github.com/cameronapriest/OSmemoryallocator/memutils"
	"github.com/pkg/errors"
)

func (l *SegmentList) Free(process memutils.ProcessID) (Segment, bool, error) {
	index, found := l.findAllocation(process)
	if !found {
		holeIndex, released := l.findReleasedHole(process)
		if released {
			return l.cloneSegment(holeIndex), true, nil
		}

		return Segment{}, false, errors.Wrapf(memutils.NotFoundError, "process %s", process)
	}

	segment := &l.segments[index]
	segment.Kind = SegmentFree
	segment.Process = 0
	segment.Released = []memutils.ProcessID{process}
	l.allocCount--
	l.freeCount++
	l.sumFreeSize += segment.Size

	// Try merging
	if index+1 < len(l.segments) && l.segments[index+1].IsFree() {
		l.mergeBlock(index)
	}

	if index > 0 && l.segments[index-1].IsFree() {
		l.mergeBlock(index - 1)
		index--
	}

	return l.cloneSegment(index), false, nil
}
