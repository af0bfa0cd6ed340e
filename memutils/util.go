package memutils

import (
	"fmt"

	cerrors "github.com/cockroachdb/errors"
)

// MaxCapacity is the largest address space, in bytes, that can be simulated
const MaxCapacity int = 1 << 20

type Number interface {
	~int | ~uint
}

// ProcessID identifies the process occupying an allocated segment. Its display form is P<n>.
type ProcessID int

func (p ProcessID) String() string {
	return fmt.Sprintf("P%d", int(p))
}

func CheckSize[T Number](size T, name string) error {
	if size < 1 {
		return cerrors.Wrapf(InvalidSizeError, "%s is %d", name, size)
	}
	return nil
}

func CheckCapacity(capacity int) error {
	if capacity < 1 || capacity > MaxCapacity {
		return cerrors.Wrapf(InvalidCapacityError, "capacity is %d, maximum is %d", capacity, MaxCapacity)
	}
	return nil
}
