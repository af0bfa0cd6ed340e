//go:build debug_mem_utils

package memutils

// DebugValidate will call Validate on the provided object and panics if any errors are returned. This
// method no-ops unless the debug_mem_utils build tag is present
func DebugValidate(validatable Validatable) {
	MustValidate(validatable)
}

// DebugCheckSize will verify that the numerical value passed in is a valid allocation size, and panics if it is not.
// This method no-ops unless the debug_mem_utils build tag is present.
func DebugCheckSize[T Number](value T, name string) {
	err := CheckSize[T](value, name)
	if err != nil {
		panic(err)
	}
}
