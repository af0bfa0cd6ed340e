package shell

import (
	"strconv"
	"unicode"

	"github.com/cameronapriest/OSmemoryallocator/memutils"
	"github.com/cockroachdb/errors"
)

// InvalidNameError is returned by ParseProcessName for names that are not a letter followed by digits
var InvalidNameError = errors.New("process names must be a letter followed by a number, such as P0")

// ParseProcessName extracts the process number from a name such as P12. Only the number
// identifies the process, so P12 and Q12 name the same process.
func ParseProcessName(name string) (memutils.ProcessID, error) {
	runes := []rune(name)
	if len(runes) < 2 || !unicode.IsLetter(runes[0]) {
		return 0, errors.Wrapf(InvalidNameError, "name is %q", name)
	}

	for _, r := range runes[1:] {
		if r < '0' || r > '9' {
			return 0, errors.Wrapf(InvalidNameError, "name is %q", name)
		}
	}

	number, err := strconv.Atoi(string(runes[1:]))
	if err != nil {
		return 0, errors.Wrapf(InvalidNameError, "name is %q", name)
	}

	return memutils.ProcessID(number), nil
}
