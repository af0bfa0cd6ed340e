package defrag

import "github.com/cameronapriest/OSmemoryallocator/memutils"

// Move describes the relocation of a single process during compaction
type Move struct {
	Process   memutils.ProcessID
	Size      int
	SrcOffset int
	DstOffset int
}

// MoveHandler is called once for each Move after a compaction has been committed
type MoveHandler func(move Move)
