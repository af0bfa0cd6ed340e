package memutils

// Validatable is used by the DebugValidate method to allow it to act upon
// all types with a Validate method
type Validatable interface {
	Validate() error
}

// MustValidate will call Validate on the provided object and panics if any errors are returned.
// Unlike DebugValidate, it runs regardless of build tags.
func MustValidate(validatable Validatable) {
	err := validatable.Validate()
	if err != nil {
		panic(err)
	}
}
