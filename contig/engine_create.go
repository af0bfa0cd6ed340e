package contig

import (
	"strings"

	"github.com/cameronapriest/OSmemoryallocator/contig/internal/utils"
	"github.com/cameronapriest/OSmemoryallocator/memutils"
	"github.com/cameronapriest/OSmemoryallocator/memutils/defrag"
	"github.com/cameronapriest/OSmemoryallocator/memutils/metadata"
	"github.com/cameronapriest/OSmemoryallocator/memutils/registry"
	"github.com/cockroachdb/errors"
	"golang.org/x/exp/slog"
)

// CreateFlags indicate specific engine behaviors to activate or deactivate
type CreateFlags int32

const (
	// EngineCreateExternallySynchronized ensures that the engine will not be synchronized internally.
	// The consumer must guarantee it is used from only one goroutine at a time or is synchronized by
	// some other mechanism.
	EngineCreateExternallySynchronized CreateFlags = 1 << iota
	// EngineCreateValidateOperations runs a full consistency check of the address space after every
	// operation that modifies it, and panics if the check fails. This is independent of the
	// debug_mem_utils build tag.
	EngineCreateValidateOperations
)

var createFlagsMapping = []struct {
	flag CreateFlags
	name string
}{
	{EngineCreateExternallySynchronized, "EngineCreateExternallySynchronized"},
	{EngineCreateValidateOperations, "EngineCreateValidateOperations"},
}

func (f CreateFlags) String() string {
	var names []string
	for _, mapping := range createFlagsMapping {
		if f&mapping.flag != 0 {
			names = append(names, mapping.name)
		}
	}

	return strings.Join(names, "|")
}

// CreateOptions contains optional settings when creating an engine
type CreateOptions struct {
	// Flags indicates specific engine behaviors to activate or deactivate
	Flags CreateFlags

	// CompactionHandler is an optional callback that is executed once for every process relocated
	// by Engine.Compact
	CompactionHandler defrag.MoveHandler
}

// New creates a new Engine managing an address space of capacity bytes. The address space
// starts out as a single hole.
//
// logger - Receives debug output for every operation
//
// capacity - The size of the address space in bytes. It must be between 1 and memutils.MaxCapacity.
//
// options - Optional parameters: it is valid to leave all the fields blank
func New(logger *slog.Logger, capacity int, options CreateOptions) (*Engine, error) {
	err := memutils.CheckCapacity(capacity)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create engine")
	}

	useMutex := options.Flags&EngineCreateExternallySynchronized == 0

	engine := &Engine{
		mutex:       utils.OptionalRWMutex{UseMutex: useMutex},
		logger:      logger,
		createFlags: options.Flags,
		list:        metadata.NewSegmentList(),
		names:       registry.New(),
		compaction: defrag.CompactionContext{
			Handler: options.CompactionHandler,
		},
	}
	engine.list.Init(capacity)

	logger.Debug("Engine::New",
		slog.Int("Capacity", capacity),
		slog.String("Flags", options.Flags.String()),
	)

	return engine, nil
}
