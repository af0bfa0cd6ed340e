package contig

import (
	"github.com/cameronapriest/OSmemoryallocator/memutils"
	"github.com/cameronapriest/OSmemoryallocator/memutils/registry"
	"github.com/launchdarkly/go-jsonstream/v3/jwriter"
)

// Statistics returns the counters and extremes of every allocation and hole in the address space
func (e *Engine) Statistics() memutils.DetailedStatistics {
	e.mutex.RLock()
	defer e.mutex.RUnlock()

	return e.statistics()
}

func (e *Engine) statistics() memutils.DetailedStatistics {
	var stats memutils.DetailedStatistics
	stats.Clear()
	e.list.AddDetailedStatistics(&stats)

	return stats
}

func printDetailedStatistics(json *jwriter.ObjectState, stats *memutils.DetailedStatistics) {
	json.Name("SegmentCount").Int(stats.SegmentCount)
	json.Name("AllocationCount").Int(stats.AllocationCount)
	json.Name("UnusedRangeCount").Int(stats.UnusedRangeCount)
	json.Name("CapacityBytes").Int(stats.CapacityBytes)
	json.Name("AllocationBytes").Int(stats.AllocationBytes)

	if stats.AllocationCount > 0 {
		json.Name("AllocationSizeMin").Int(stats.AllocationSizeMin)
		json.Name("AllocationSizeMax").Int(stats.AllocationSizeMax)
	}

	if stats.UnusedRangeCount > 0 {
		json.Name("UnusedRangeSizeMin").Int(stats.UnusedRangeSizeMin)
		json.Name("UnusedRangeSizeMax").Int(stats.UnusedRangeSizeMax)
	}

	json.Name("ExternalFragmentation").Float64(stats.ExternalFragmentation())
}

// BuildStatsString produces a JSON document describing the address space. When detailed is true,
// the document also lists every segment and every registered process name.
func (e *Engine) BuildStatsString(detailed bool) string {
	e.mutex.RLock()
	defer e.mutex.RUnlock()

	stats := e.statistics()
	compaction := e.compaction.Stats

	writer := jwriter.NewWriter()
	root := writer.Object()

	totalObj := root.Name("Total").Object()
	printDetailedStatistics(&totalObj, &stats)
	totalObj.End()

	compactionObj := root.Name("Compaction").Object()
	compactionObj.Name("BytesFreed").Int(compaction.BytesFreed)
	compactionObj.Name("BytesMoved").Int(compaction.BytesMoved)
	compactionObj.Name("AllocationsMoved").Int(compaction.AllocationsMoved)
	compactionObj.Name("HolesMerged").Int(compaction.HolesMerged)
	compactionObj.End()

	if detailed {
		mapObj := root.Name("DetailedMap").Object()
		e.list.BlockJsonData(&mapObj)
		e.list.PrintDetailedMap(&mapObj)
		mapObj.End()

		namesArray := root.Name("Names").Array()
		_ = e.names.Visit(func(entry registry.Entry) error {
			nameObj := namesArray.Object()
			nameObj.Name("Process").String(entry.ID.String())
			nameObj.Name("Status").String(entry.Status.String())
			nameObj.End()
			return nil
		})
		namesArray.End()
	}

	root.End()

	return string(writer.Bytes())
}
