package memutils

import "github.com/pkg/errors"

// DuplicateNameError is returned when an allocation is requested for a process id that is already active
var DuplicateNameError error = errors.New("process name has already been used")

// InsufficientMemoryError is returned when the chosen placement strategy cannot find a hole large enough
// for the requested allocation
var InsufficientMemoryError error = errors.New("not enough memory is available")

// NotFoundError is returned when a release is requested for a process that was never allocated
var NotFoundError error = errors.New("process not located in memory")

// InvalidSizeError is returned from CheckSize or other methods if a requested allocation size is not positive
var InvalidSizeError error = errors.New("size must be a positive number of bytes")

// InvalidCapacityError is returned from CheckCapacity if an address space size is out of range
var InvalidCapacityError error = errors.New("capacity must be a positive number of bytes no larger than MaxCapacity")
