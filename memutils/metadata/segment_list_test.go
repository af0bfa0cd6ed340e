package metadata_test

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/cameronapriest/OSmemoryallocator/memutils"
	"github.com/cameronapriest/OSmemoryallocator/memutils/metadata"
	"github.com/launchdarkly/go-jsonstream/v3/jwriter"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/slog"
)

func allocate(t *testing.T, list *metadata.SegmentList, process memutils.ProcessID, size int, strategy metadata.AllocationStrategy) metadata.AllocationRequest {
	success, req, err := list.CreateAllocationRequest(size, strategy)
	require.NoError(t, err)
	require.True(t, success)

	err = list.Alloc(req, process)
	require.NoError(t, err)
	require.NoError(t, list.Validate())

	return req
}

func TestSegmentListBasicAlloc(t *testing.T) {
	list := metadata.NewSegmentList()
	list.Init(1000)

	var stats memutils.DetailedStatistics
	stats.Clear()
	list.AddDetailedStatistics(&stats)

	require.Equal(t, memutils.DetailedStatistics{
		Statistics: memutils.Statistics{
			SegmentCount:    1,
			CapacityBytes:   1000,
			AllocationCount: 0,
			AllocationBytes: 0,
		},
		UnusedRangeCount:   1,
		AllocationSizeMin:  math.MaxInt,
		AllocationSizeMax:  0,
		UnusedRangeSizeMin: 1000,
		UnusedRangeSizeMax: 1000,
	}, stats)

	req := allocate(t, list, 1, 100, metadata.AllocationStrategyFirstFit)
	require.Equal(t, metadata.AllocationRequestInitial, req.Type)

	stats.Clear()
	list.AddDetailedStatistics(&stats)

	require.Equal(t, memutils.DetailedStatistics{
		Statistics: memutils.Statistics{
			SegmentCount:    2,
			CapacityBytes:   1000,
			AllocationCount: 1,
			AllocationBytes: 100,
		},
		UnusedRangeCount:   1,
		AllocationSizeMin:  100,
		AllocationSizeMax:  100,
		UnusedRangeSizeMin: 900,
		UnusedRangeSizeMax: 900,
	}, stats)

	req = allocate(t, list, 2, 200, metadata.AllocationStrategyFirstFit)
	require.Equal(t, metadata.AllocationRequestHole, req.Type)
	require.Equal(t, 100, req.Item.Offset)

	_, _, err := list.Free(1)
	require.NoError(t, err)
	require.NoError(t, list.Validate())

	var basic memutils.Statistics
	list.AddStatistics(&basic)
	require.Equal(t, memutils.Statistics{
		SegmentCount:    3,
		AllocationCount: 1,
		CapacityBytes:   1000,
		AllocationBytes: 200,
	}, basic)
	require.Equal(t, 800, basic.FreeBytes())

	require.Equal(t, 2, list.FreeRegionsCount())
	require.Equal(t, 800, list.SumFreeSize())
	require.Equal(t, 1, list.AllocationCount())
	require.False(t, list.IsEmpty())
}

func TestSegmentListFreeMergesNeighbors(t *testing.T) {
	testCases := map[string]struct {
		Release        []memutils.ProcessID
		ExpectedLayout []metadata.Segment
	}{
		"NoFreeNeighbors": {
			Release: []memutils.ProcessID{2},
			ExpectedLayout: []metadata.Segment{
				{Offset: 0, Size: 10, Kind: metadata.SegmentAllocated, Process: 1},
				{Offset: 10, Size: 10, Kind: metadata.SegmentFree, Released: []memutils.ProcessID{2}},
				{Offset: 20, Size: 10, Kind: metadata.SegmentAllocated, Process: 3},
				{Offset: 30, Size: 10, Kind: metadata.SegmentAllocated, Process: 4},
			},
		},
		"FreePrevious": {
			Release: []memutils.ProcessID{1, 2},
			ExpectedLayout: []metadata.Segment{
				{Offset: 0, Size: 20, Kind: metadata.SegmentFree, Released: []memutils.ProcessID{1, 2}},
				{Offset: 20, Size: 10, Kind: metadata.SegmentAllocated, Process: 3},
				{Offset: 30, Size: 10, Kind: metadata.SegmentAllocated, Process: 4},
			},
		},
		"FreeNext": {
			Release: []memutils.ProcessID{3, 2},
			ExpectedLayout: []metadata.Segment{
				{Offset: 0, Size: 10, Kind: metadata.SegmentAllocated, Process: 1},
				{Offset: 10, Size: 20, Kind: metadata.SegmentFree, Released: []memutils.ProcessID{2, 3}},
				{Offset: 30, Size: 10, Kind: metadata.SegmentAllocated, Process: 4},
			},
		},
		"FreeBoth": {
			Release: []memutils.ProcessID{1, 3, 2},
			ExpectedLayout: []metadata.Segment{
				{Offset: 0, Size: 30, Kind: metadata.SegmentFree, Released: []memutils.ProcessID{1, 2, 3}},
				{Offset: 30, Size: 10, Kind: metadata.SegmentAllocated, Process: 4},
			},
		},
		"FreeEverything": {
			Release: []memutils.ProcessID{4, 1, 3, 2},
			ExpectedLayout: []metadata.Segment{
				{Offset: 0, Size: 40, Kind: metadata.SegmentFree, Released: []memutils.ProcessID{1, 2, 3, 4}},
			},
		},
	}

	for testName, testCase := range testCases {
		t.Run(testName, func(t *testing.T) {
			list := metadata.NewSegmentList()
			list.Init(40)

			for process := memutils.ProcessID(1); process <= 4; process++ {
				allocate(t, list, process, 10, metadata.AllocationStrategyFirstFit)
			}

			for _, process := range testCase.Release {
				hole, alreadyFree, err := list.Free(process)
				require.NoError(t, err)
				require.False(t, alreadyFree)
				require.True(t, hole.IsFree())
				require.NoError(t, list.Validate())
			}

			require.Equal(t, testCase.ExpectedLayout, list.Segments())
		})
	}
}

func TestSegmentListFreedHoleHasNoOccupant(t *testing.T) {
	// The same hole, produced by releasing different processes
	releaseOrders := [][]memutils.ProcessID{{1, 2}, {2, 1}, {2}}

	var holes []metadata.Segment
	for _, order := range releaseOrders {
		list := metadata.NewSegmentList()
		list.Init(30)
		allocate(t, list, 1, 10, metadata.AllocationStrategyFirstFit)
		allocate(t, list, 2, 10, metadata.AllocationStrategyFirstFit)
		allocate(t, list, 3, 10, metadata.AllocationStrategyFirstFit)

		var hole metadata.Segment
		for _, process := range order {
			var err error
			hole, _, err = list.Free(process)
			require.NoError(t, err)
			require.Equal(t, memutils.ProcessID(0), hole.Process)
			require.NoError(t, list.Validate())
		}

		_ = list.VisitAllRegions(func(handle metadata.BlockAllocationHandle, segment metadata.Segment) error {
			if segment.IsFree() {
				require.Equal(t, memutils.ProcessID(0), segment.Process)
			}
			return nil
		})

		hole.Released = nil
		holes = append(holes, hole)
	}

	require.Equal(t, holes[0], holes[1])
	require.Equal(t, metadata.Region{Start: 10, End: 19, Size: 10}, holes[2].Region())
	require.Equal(t, memutils.ProcessID(0), holes[2].Process)
}

func TestSegmentListFreeTwice(t *testing.T) {
	list := metadata.NewSegmentList()
	list.Init(100)
	allocate(t, list, 1, 30, metadata.AllocationStrategyFirstFit)
	allocate(t, list, 2, 30, metadata.AllocationStrategyFirstFit)

	hole, alreadyFree, err := list.Free(1)
	require.NoError(t, err)
	require.False(t, alreadyFree)
	require.Equal(t, metadata.Region{Start: 0, End: 29, Size: 30}, hole.Region())

	hole, alreadyFree, err = list.Free(1)
	require.NoError(t, err)
	require.True(t, alreadyFree)
	require.Equal(t, metadata.Region{Start: 0, End: 29, Size: 30}, hole.Region())
	require.Equal(t, 70, list.SumFreeSize())

	_, _, err = list.Free(3)
	require.ErrorIs(t, err, memutils.NotFoundError)
}

func TestSegmentListStrategies(t *testing.T) {
	testCases := map[string]struct {
		Strategy       metadata.AllocationStrategy
		Size           int
		ExpectedOffset int
		ExpectFailure  bool
	}{
		"FirstFit":            {Strategy: metadata.AllocationStrategyFirstFit, Size: 12, ExpectedOffset: 15},
		"BestFit":             {Strategy: metadata.AllocationStrategyBestFit, Size: 12, ExpectedOffset: 50},
		"WorstFit":            {Strategy: metadata.AllocationStrategyWorstFit, Size: 12, ExpectedOffset: 15},
		"FirstFitSmall":       {Strategy: metadata.AllocationStrategyFirstFit, Size: 10, ExpectedOffset: 0},
		"BestFitExact":        {Strategy: metadata.AllocationStrategyBestFit, Size: 10, ExpectedOffset: 0},
		"BestFitOnlyLargest":  {Strategy: metadata.AllocationStrategyBestFit, Size: 16, ExpectedOffset: 15},
		"WorstFitTooLarge":    {Strategy: metadata.AllocationStrategyWorstFit, Size: 31, ExpectFailure: true},
		"BestFitTooLarge":     {Strategy: metadata.AllocationStrategyBestFit, Size: 31, ExpectFailure: true},
		"FirstFitMoreThanAll": {Strategy: metadata.AllocationStrategyFirstFit, Size: 56, ExpectFailure: true},
	}

	for testName, testCase := range testCases {
		t.Run(testName, func(t *testing.T) {
			list := metadata.NewSegmentList()
			list.Init(100)

			sizes := []int{10, 5, 30, 5, 15, 35}
			for index, size := range sizes {
				allocate(t, list, memutils.ProcessID(index+1), size, metadata.AllocationStrategyFirstFit)
			}
			for _, process := range []memutils.ProcessID{1, 3, 5} {
				_, _, err := list.Free(process)
				require.NoError(t, err)
			}

			before := list.Segments()

			success, req, err := list.CreateAllocationRequest(testCase.Size, testCase.Strategy)
			require.NoError(t, err)
			require.Equal(t, before, list.Segments())

			if testCase.ExpectFailure {
				require.False(t, success)
				return
			}

			require.True(t, success)
			require.Equal(t, testCase.Strategy, req.Strategy)
			require.Equal(t, testCase.ExpectedOffset, req.Item.Offset)

			require.NoError(t, list.Alloc(req, 7))
			require.NoError(t, list.Validate())

			offset, err := list.AllocationOffset(req.BlockAllocationHandle)
			require.NoError(t, err)
			require.Equal(t, testCase.ExpectedOffset, offset)

			size, err := list.AllocationSize(req.BlockAllocationHandle)
			require.NoError(t, err)
			require.Equal(t, testCase.Size, size)

			process, err := list.AllocationProcess(req.BlockAllocationHandle)
			require.NoError(t, err)
			require.Equal(t, memutils.ProcessID(7), process)
		})
	}
}

func TestSegmentListStaleRequest(t *testing.T) {
	list := metadata.NewSegmentList()
	list.Init(100)

	success, req, err := list.CreateAllocationRequest(40, metadata.AllocationStrategyFirstFit)
	require.NoError(t, err)
	require.True(t, success)

	allocate(t, list, 1, 10, metadata.AllocationStrategyFirstFit)

	require.Error(t, list.Alloc(req, 2))
	require.NoError(t, list.Validate())

	success, req, err = list.CreateAllocationRequest(40, metadata.AllocationStrategyFirstFit)
	require.NoError(t, err)
	require.True(t, success)

	allocate(t, list, 3, 90, metadata.AllocationStrategyFirstFit)

	require.Error(t, list.Alloc(req, 2))
	require.Equal(t, 2, list.AllocationCount())
}

func TestSegmentListRejectsInvalidRequests(t *testing.T) {
	list := metadata.NewSegmentList()
	list.Init(100)

	_, _, err := list.CreateAllocationRequest(0, metadata.AllocationStrategyFirstFit)
	require.ErrorIs(t, err, memutils.InvalidSizeError)

	_, _, err = list.CreateAllocationRequest(10, metadata.AllocationStrategy(9))
	require.Error(t, err)

	req := allocate(t, list, 1, 10, metadata.AllocationStrategyFirstFit)

	success, req, err := list.CreateAllocationRequest(10, metadata.AllocationStrategyFirstFit)
	require.NoError(t, err)
	require.True(t, success)

	err = list.Alloc(req, 1)
	require.ErrorIs(t, err, memutils.DuplicateNameError)

	req.Size = 0
	err = list.Alloc(req, 2)
	require.ErrorIs(t, err, memutils.InvalidSizeError)
}

func TestSegmentListSplitPanics(t *testing.T) {
	list := metadata.NewSegmentList()
	list.Init(100)
	list.InsertInitial(1, 40)

	require.Panics(t, func() {
		list.InsertInitial(2, 10)
	})

	require.Panics(t, func() {
		list.Split(0, 10, 2)
	})

	require.Panics(t, func() {
		list.Split(1, 61, 2)
	})

	allocIndex, holeIndex := list.Split(1, 60, 2)
	require.Equal(t, 1, allocIndex)
	require.Equal(t, -1, holeIndex)
	require.NoError(t, list.Validate())
	require.Equal(t, 0, list.FreeRegionsCount())
}

func TestSegmentListInitialAllocation(t *testing.T) {
	list := metadata.NewSegmentList()
	list.Init(100)

	require.Panics(t, func() {
		list.InsertInitial(1, 101)
	})

	list.InsertInitial(1, 100)
	require.NoError(t, list.Validate())
	require.Equal(t, []metadata.Segment{
		{Offset: 0, Size: 100, Kind: metadata.SegmentAllocated, Process: 1},
	}, list.Segments())
}

func TestSegmentListAllocationIteration(t *testing.T) {
	list := metadata.NewSegmentList()
	list.Init(100)

	handle, err := list.AllocationListBegin()
	require.NoError(t, err)
	require.Equal(t, metadata.NoAllocation, handle)

	for process := memutils.ProcessID(1); process <= 5; process++ {
		allocate(t, list, process, 10, metadata.AllocationStrategyFirstFit)
	}
	for _, process := range []memutils.ProcessID{1, 4} {
		_, _, err = list.Free(process)
		require.NoError(t, err)
	}

	var processes []memutils.ProcessID
	for handle, err = list.AllocationListBegin(); handle != metadata.NoAllocation; handle, err = list.FindNextAllocation(handle) {
		require.NoError(t, err)

		process, err := list.AllocationProcess(handle)
		require.NoError(t, err)
		processes = append(processes, process)
	}
	require.NoError(t, err)
	require.Equal(t, []memutils.ProcessID{2, 3, 5}, processes)

	// The first hole is not an allocation
	_, err = list.FindNextAllocation(1)
	require.Error(t, err)
	_, err = list.AllocationProcess(1)
	require.Error(t, err)

	// Nothing begins at offset 5
	_, err = list.AllocationOffset(6)
	require.Error(t, err)
}

func TestSegmentListVisitOrder(t *testing.T) {
	list := metadata.NewSegmentList()
	list.Init(100)

	var offsets []int
	require.NoError(t, list.VisitAllRegions(func(handle metadata.BlockAllocationHandle, segment metadata.Segment) error {
		offsets = append(offsets, segment.Offset)
		return nil
	}))
	require.Equal(t, []int{0}, offsets)

	allocate(t, list, 1, 10, metadata.AllocationStrategyFirstFit)
	allocate(t, list, 2, 20, metadata.AllocationStrategyFirstFit)

	offsets = nil
	require.NoError(t, list.VisitAllRegionsReverse(func(handle metadata.BlockAllocationHandle, segment metadata.Segment) error {
		offsets = append(offsets, segment.Offset)
		return nil
	}))
	require.Equal(t, []int{30, 10, 0}, offsets)
}

func TestSegmentListRebuild(t *testing.T) {
	list := metadata.NewSegmentList()
	list.Init(100)
	allocate(t, list, 1, 10, metadata.AllocationStrategyFirstFit)
	before := list.Segments()

	testCases := map[string][]metadata.Segment{
		"Gap": {
			{Offset: 0, Size: 10, Kind: metadata.SegmentAllocated, Process: 1},
			{Offset: 20, Size: 80, Kind: metadata.SegmentFree},
		},
		"Short": {
			{Offset: 0, Size: 10, Kind: metadata.SegmentAllocated, Process: 1},
			{Offset: 10, Size: 50, Kind: metadata.SegmentFree},
		},
		"AdjacentHoles": {
			{Offset: 0, Size: 10, Kind: metadata.SegmentAllocated, Process: 1},
			{Offset: 10, Size: 50, Kind: metadata.SegmentFree},
			{Offset: 60, Size: 40, Kind: metadata.SegmentFree},
		},
		"DuplicateProcess": {
			{Offset: 0, Size: 10, Kind: metadata.SegmentAllocated, Process: 1},
			{Offset: 10, Size: 90, Kind: metadata.SegmentAllocated, Process: 1},
		},
		"HoleWithOccupant": {
			{Offset: 0, Size: 10, Kind: metadata.SegmentAllocated, Process: 1},
			{Offset: 10, Size: 90, Kind: metadata.SegmentFree, Process: 2},
		},
		"EmptySegment": {
			{Offset: 0, Size: 0, Kind: metadata.SegmentAllocated, Process: 2},
			{Offset: 0, Size: 100, Kind: metadata.SegmentAllocated, Process: 1},
		},
	}

	for testName, layout := range testCases {
		t.Run(testName, func(t *testing.T) {
			require.Error(t, list.Rebuild(layout))
			require.Equal(t, before, list.Segments())
		})
	}

	require.NoError(t, list.Rebuild([]metadata.Segment{
		{Offset: 0, Size: 90, Kind: metadata.SegmentFree},
		{Offset: 90, Size: 10, Kind: metadata.SegmentAllocated, Process: 1},
	}))
	require.Equal(t, 90, list.SumFreeSize())
	require.Equal(t, 1, list.FreeRegionsCount())

	require.NoError(t, list.Rebuild(nil))
	require.True(t, list.IsEmpty())
	require.Equal(t, 1, list.SegmentCount())
}

func TestSegmentListClear(t *testing.T) {
	list := metadata.NewSegmentList()
	list.Init(100)
	allocate(t, list, 1, 10, metadata.AllocationStrategyFirstFit)
	allocate(t, list, 2, 10, metadata.AllocationStrategyFirstFit)

	var logged []memutils.ProcessID
	list.DebugLogAllAllocations(slog.Default(), func(log *slog.Logger, segment metadata.Segment) {
		logged = append(logged, segment.Process)
	})
	require.Equal(t, []memutils.ProcessID{1, 2}, logged)

	list.Clear()
	require.NoError(t, list.Validate())
	require.True(t, list.IsEmpty())
	require.Equal(t, 100, list.SumFreeSize())
}

func TestSegmentListJson(t *testing.T) {
	list := metadata.NewSegmentList()
	list.Init(100)
	allocate(t, list, 1, 10, metadata.AllocationStrategyFirstFit)
	allocate(t, list, 2, 20, metadata.AllocationStrategyFirstFit)
	_, _, err := list.Free(1)
	require.NoError(t, err)

	writer := jwriter.NewWriter()
	obj := writer.Object()
	list.BlockJsonData(&obj)
	list.PrintDetailedMap(&obj)
	obj.End()

	var out struct {
		TotalBytes   int
		UnusedBytes  int
		Allocations  int
		UnusedRanges int
		Segments     []map[string]any
	}
	require.NoError(t, json.Unmarshal(writer.Bytes(), &out))

	require.Equal(t, 100, out.TotalBytes)
	require.Equal(t, 80, out.UnusedBytes)
	require.Equal(t, 1, out.Allocations)
	require.Equal(t, 2, out.UnusedRanges)
	require.Len(t, out.Segments, 3)
	require.Equal(t, "Free", out.Segments[0]["Type"])
	require.Equal(t, "Allocated", out.Segments[1]["Type"])
	require.Equal(t, "P2", out.Segments[1]["Process"])
	require.NotContains(t, out.Segments[2], "Process")
}

func TestParseAllocationStrategy(t *testing.T) {
	strategy, err := metadata.ParseAllocationStrategy("B")
	require.NoError(t, err)
	require.Equal(t, metadata.AllocationStrategyBestFit, strategy)
	require.Equal(t, "Best Fit", strategy.String())

	_, err = metadata.ParseAllocationStrategy("f")
	require.Error(t, err)
}
