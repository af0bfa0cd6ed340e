package memutils

import "math"

// Statistics contains the basic counters for one address space
type Statistics struct {
	SegmentCount    int
	AllocationCount int
	CapacityBytes   int
	AllocationBytes int
}

// Clear zeroes every counter
func (s *Statistics) Clear() {
	*s = Statistics{}
}

// FreeBytes is the number of bytes not occupied by any process
func (s *Statistics) FreeBytes() int {
	return s.CapacityBytes - s.AllocationBytes
}

// DetailedStatistics adds hole counts and the size extremes of allocations and holes. The minimums
// are math.MaxInt until something has been counted.
type DetailedStatistics struct {
	Statistics
	UnusedRangeCount   int
	AllocationSizeMin  int
	AllocationSizeMax  int
	UnusedRangeSizeMin int
	UnusedRangeSizeMax int
}

func (s *DetailedStatistics) Clear() {
	*s = DetailedStatistics{
		AllocationSizeMin:  math.MaxInt,
		UnusedRangeSizeMin: math.MaxInt,
	}
}

// AddUnusedRange counts one hole of the given size
func (s *DetailedStatistics) AddUnusedRange(size int) {
	s.UnusedRangeCount++
	s.UnusedRangeSizeMin = min(s.UnusedRangeSizeMin, size)
	s.UnusedRangeSizeMax = max(s.UnusedRangeSizeMax, size)
}

// AddAllocation counts one allocated segment of the given size
func (s *DetailedStatistics) AddAllocation(size int) {
	s.AllocationCount++
	s.AllocationBytes += size
	s.AllocationSizeMin = min(s.AllocationSizeMin, size)
	s.AllocationSizeMax = max(s.AllocationSizeMax, size)
}

// ExternalFragmentation returns a value between 0 and 1 describing how scattered the free bytes are:
// 0 when all free bytes sit in a single hole (or there are none), approaching 1 as the largest hole
// shrinks relative to the total free bytes.
func (s *DetailedStatistics) ExternalFragmentation() float64 {
	free := s.FreeBytes()
	if free == 0 || s.UnusedRangeCount == 0 {
		return 0
	}

	return 1 - float64(s.UnusedRangeSizeMax)/float64(free)
}
