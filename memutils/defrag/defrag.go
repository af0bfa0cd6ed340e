package defrag

// CompactionStats contains basic metrics for compaction over time
type CompactionStats struct {
	// BytesFreed is the number of free bytes gathered into the single trailing hole. It is zero when
	// there was nothing to compact because no process was allocated.
	BytesFreed int
	// BytesMoved is the number of bytes belonging to processes whose address range changed
	BytesMoved int
	// AllocationsMoved is the number of processes whose address range changed
	AllocationsMoved int
	// HolesMerged is the number of holes that no longer exist after compaction
	HolesMerged int
}

func (s *CompactionStats) Add(stats CompactionStats) {
	s.BytesFreed += stats.BytesFreed
	s.BytesMoved += stats.BytesMoved
	s.AllocationsMoved += stats.AllocationsMoved
	s.HolesMerged += stats.HolesMerged
}
