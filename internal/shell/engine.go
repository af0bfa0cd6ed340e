package shell

import (
	"github.com/cameronapriest/OSmemoryallocator/contig"
	"github.com/cameronapriest/OSmemoryallocator/memutils"
	"github.com/cameronapriest/OSmemoryallocator/memutils/defrag"
	"github.com/cameronapriest/OSmemoryallocator/memutils/metadata"
	"github.com/cameronapriest/OSmemoryallocator/memutils/registry"
)

//go:generate mockgen -source engine.go -destination mocks/engine.go

// Engine is the part of *contig.Engine that the shell drives
type Engine interface {
	Allocate(id memutils.ProcessID, size int, strategy metadata.AllocationStrategy) (metadata.Region, error)
	Release(id memutils.ProcessID) (contig.Release, error)
	Compact() defrag.CompactionStats
	Inspect() []contig.SegmentInfo
	InspectDescending() []contig.SegmentInfo
	Capacity() int
	AllocatedBytes() int
	Names() []registry.Entry
	BuildStatsString(detailed bool) string
}

var _ Engine = &contig.Engine{}
