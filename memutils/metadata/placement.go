package metadata

import (
	"github.com/cameronapriest/OSmemoryallocator/memutils"
	"github.com/pkg/errors"
)

func (l *SegmentList) CreateAllocationRequest(allocSize int, strategy AllocationStrategy) (bool, AllocationRequest, error) {
	var allocRequest AllocationRequest

	if allocSize < 1 {
		return false, allocRequest, errors.Wrapf(memutils.InvalidSizeError, "allocSize is %d", allocSize)
	}

	policy, ok := placementPolicies[strategy]
	if !ok {
		return false, allocRequest, errors.Errorf("unknown allocation strategy %d", strategy)
	}

	memutils.DebugValidate(l)

	// Is the address space big enough?
	if allocSize > l.sumFreeSize {
		return false, allocRequest, nil
	}

	if len(l.segments) == 0 {
		allocRequest.Type = AllocationRequestInitial
		allocRequest.BlockAllocationHandle = handleForOffset(0)
		allocRequest.Size = allocSize
		allocRequest.Item = l.implicitHole()
		allocRequest.Strategy = strategy
		return true, allocRequest, nil
	}

	chosen := -1
	for index, segment := range l.segments {
		if !segment.IsFree() || segment.Size < allocSize {
			continue
		}

		if chosen < 0 {
			chosen = index
			if policy.firstMatch {
				break
			}
			continue
		}

		if policy.better(segment.Size, l.segments[chosen].Size) {
			chosen = index
		}
	}

	if chosen < 0 {
		return false, allocRequest, nil
	}

	allocRequest.Type = AllocationRequestHole
	allocRequest.BlockAllocationHandle = handleForOffset(l.segments[chosen].Offset)
	allocRequest.Size = allocSize
	allocRequest.Item = l.cloneSegment(chosen)
	allocRequest.Strategy = strategy
	allocRequest.AlgorithmData = uint64(chosen)

	return true, allocRequest, nil
}

func (l *SegmentList) Alloc(req AllocationRequest, process memutils.ProcessID) error {
	if req.Size < 1 {
		return errors.Wrapf(memutils.InvalidSizeError, "allocation request size is %d", req.Size)
	}

	if _, taken := l.findAllocation(process); taken {
		return errors.Wrapf(memutils.DuplicateNameError, "process %s is already allocated", process)
	}

	switch req.Type {
	case AllocationRequestInitial:
		if len(l.segments) != 0 {
			return errors.New("allocation request was created for an empty list, but the list has since been populated")
		}
		if req.Size > l.size {
			return errors.New("allocation request is larger than the address space")
		}

		l.InsertInitial(process, req.Size)
	case AllocationRequestHole:
		index := int(req.AlgorithmData)
		if index >= len(l.segments) {
			return errors.New("allocation request refers to a segment that no longer exists")
		}

		hole := l.segments[index]
		if hole.Offset != req.Item.Offset || handleForOffset(hole.Offset) != req.BlockAllocationHandle {
			return errors.New("allocation request had a block allocation handle that was incompatible with the requested offset")
		}
		if !hole.IsFree() {
			return errors.New("allocation request refers to a segment that is no longer free")
		}
		if hole.Size < req.Size {
			return errors.New("allocation request had a hole too small for the request")
		}

		l.Split(index, req.Size, process)
	default:
		return errors.New("allocation request was received by an incompatible metadata")
	}

	return nil
}
