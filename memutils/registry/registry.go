package registry

import (
	"sort"

	"github.com/cameronapriest/OSmemoryallocator/memutils"
	"github.com/dolthub/swiss"
	"github.com/pkg/errors"
)

// NameStatus is the state of a process name within a Registry
type NameStatus uint32

const (
	// NameUnknown is reported for names that have never been mentioned
	NameUnknown NameStatus = iota
	// NameActive means the most recent allocation request for the name succeeded. An active name
	// cannot be requested again, even after the process has been released.
	NameActive
	// NameDisabled means the most recent allocation request for the name failed for lack of space.
	// It can be requested again.
	NameDisabled
)

var nameStatusMapping = map[NameStatus]string{
	NameUnknown:  "Unknown",
	NameActive:   "Active",
	NameDisabled: "Disabled",
}

func (s NameStatus) String() string {
	return nameStatusMapping[s]
}

// Entry is a single name reported by Registry.Visit
type Entry struct {
	ID     memutils.ProcessID
	Status NameStatus
}

// Registry tracks every process name that has been requested. Names are never forgotten:
// release and compaction leave the registry untouched.
type Registry struct {
	names *swiss.Map[memutils.ProcessID, NameStatus]
}

func New() *Registry {
	return &Registry{
		names: swiss.NewMap[memutils.ProcessID, NameStatus](42),
	}
}

// Reserve claims id for a new allocation request. It returns an error wrapping
// memutils.DuplicateNameError if id is already active.
func (r *Registry) Reserve(id memutils.ProcessID) error {
	err := r.Check(id)
	if err != nil {
		return err
	}

	r.names.Put(id, NameActive)
	return nil
}

// Check returns an error wrapping memutils.DuplicateNameError if id is already active, without
// modifying the registry
func (r *Registry) Check(id memutils.ProcessID) error {
	if r.Status(id) == NameActive {
		return errors.Wrapf(memutils.DuplicateNameError, "process %s", id)
	}

	return nil
}

// Disable marks id as free to be requested again
func (r *Registry) Disable(id memutils.ProcessID) {
	r.names.Put(id, NameDisabled)
}

func (r *Registry) Status(id memutils.ProcessID) NameStatus {
	status, ok := r.names.Get(id)
	if !ok {
		return NameUnknown
	}

	return status
}

// Len is the number of names ever mentioned
func (r *Registry) Len() int {
	return r.names.Count()
}

// Visit calls visit once for each registered name in ascending id order. Iteration stops at
// the first error, which is returned.
func (r *Registry) Visit(visit func(entry Entry) error) error {
	entries := make([]Entry, 0, r.names.Count())
	r.names.Iter(func(id memutils.ProcessID, status NameStatus) bool {
		entries = append(entries, Entry{ID: id, Status: status})
		return false
	})

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].ID < entries[j].ID
	})

	for _, entry := range entries {
		err := visit(entry)
		if err != nil {
			return err
		}
	}

	return nil
}

// Entries returns every registered name in ascending id order
func (r *Registry) Entries() []Entry {
	entries := make([]Entry, 0, r.names.Count())
	_ = r.Visit(func(entry Entry) error {
		entries = append(entries, entry)
		return nil
	})
	return entries
}
