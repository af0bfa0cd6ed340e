package shell

import (
	"strconv"
	"strings"

	"github.com/cameronapriest/OSmemoryallocator/memutils"
	"github.com/cameronapriest/OSmemoryallocator/memutils/metadata"
)

// CommandKind identifies which operation a line of input requests
type CommandKind uint32

const (
	// CommandNone is a blank line
	CommandNone CommandKind = iota
	// CommandRequest is RQ <name> <bytes> <F|B|W>
	CommandRequest
	// CommandRelease is RL <name>
	CommandRelease
	// CommandCompact is C
	CommandCompact
	// CommandStat is STAT
	CommandStat
	// CommandExit is X or q
	CommandExit
)

var commandKindMapping = map[CommandKind]string{
	CommandNone:    "None",
	CommandRequest: "Request",
	CommandRelease: "Release",
	CommandCompact: "Compact",
	CommandStat:    "Stat",
	CommandExit:    "Exit",
}

func (k CommandKind) String() string {
	return commandKindMapping[k]
}

// Command is a single parsed line of input
type Command struct {
	Kind CommandKind
	// Name is the process name as it was typed
	Name     string
	Process  memutils.ProcessID
	Size     int
	Strategy metadata.AllocationStrategy
}

// Usage selects which command forms are printed along with an InputError
type Usage uint32

const (
	UsageNone Usage = iota
	UsageRequest
	UsageRequestAndRelease
)

// InputError describes a line that could not be parsed into a Command
type InputError struct {
	Message string
	Usage   Usage
}

func (e *InputError) Error() string {
	return e.Message
}

func inputError(usage Usage, message string) *InputError {
	return &InputError{Message: message, Usage: usage}
}

func isStrategyFlag(field string) bool {
	return field == "F" || field == "B" || field == "W"
}

// Parse reads one line of input. A line whose last word is a strategy flag is treated as an
// allocation request; any other line that is not C, STAT, X or q is treated as a release.
func Parse(line string) (Command, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return Command{Kind: CommandNone}, nil
	}

	if len(fields) == 1 {
		switch fields[0] {
		case "X", "q":
			return Command{Kind: CommandExit}, nil
		case "C":
			return Command{Kind: CommandCompact}, nil
		case "STAT":
			return Command{Kind: CommandStat}, nil
		}
	}

	if fields[0] == "RQ" || isStrategyFlag(fields[len(fields)-1]) {
		return parseRequest(fields)
	}

	return parseRelease(fields)
}

func parseRequest(fields []string) (Command, error) {
	if len(fields) > 4 {
		return Command{}, inputError(UsageRequest, "Too many arguments entered in the command.")
	}

	if fields[0] != "RQ" {
		return Command{}, inputError(UsageNone, `Please request allocation using the "RQ" command.`)
	}

	if len(fields) < 4 {
		return Command{}, inputError(UsageRequest, "Too few arguments entered in the command.")
	}

	size, err := strconv.Atoi(fields[2])
	if err != nil || size <= 0 {
		return Command{}, inputError(UsageNone, "Please enter a valid positive number of bytes.")
	}

	strategy, err := metadata.ParseAllocationStrategy(fields[3])
	if err != nil {
		return Command{}, inputError(UsageRequest, "Please choose an algorithm flag of F, B or W.")
	}

	process, err := ParseProcessName(fields[1])
	if err != nil {
		return Command{}, inputError(UsageNone, "Please name processes with a letter followed by a number, such as P0.")
	}

	return Command{
		Kind:     CommandRequest,
		Name:     fields[1],
		Process:  process,
		Size:     size,
		Strategy: strategy,
	}, nil
}

func parseRelease(fields []string) (Command, error) {
	if len(fields) > 2 {
		return Command{}, inputError(UsageRequestAndRelease, "Incorrect number of arguments entered in the command.")
	}

	if len(fields) == 1 {
		if fields[0] == "RL" {
			return Command{}, inputError(UsageRequestAndRelease, "Too few arguments entered in the command.")
		}

		return Command{}, inputError(UsageNone, "Invalid command.")
	}

	if fields[0] != "RL" {
		return Command{}, inputError(UsageNone, `Please request release using the "RL" command.`)
	}

	process, err := ParseProcessName(fields[1])
	if err != nil {
		return Command{}, inputError(UsageNone, "Please name processes with a letter followed by a number, such as P0.")
	}

	return Command{
		Kind:    CommandRelease,
		Name:    fields[1],
		Process: process,
	}, nil
}
