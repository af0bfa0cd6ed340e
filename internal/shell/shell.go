package shell

import (
	"bufio"
	"io"

	"github.com/cameronapriest/OSmemoryallocator/memutils"
	"github.com/cockroachdb/errors"
	"github.com/dolthub/swiss"
	"golang.org/x/exp/slog"
)

// Options controls optional shell output
type Options struct {
	// Debug prints the segments from the highest address down and the registered names after
	// each request
	Debug bool
	// JSONStats makes STAT print the detailed JSON map
	JSONStats bool
	// Styles overrides the colors. When nil, DefaultStyles is used.
	Styles *Styles
}

// Shell reads commands, applies them to an Engine, and prints the outcome
type Shell struct {
	logger  *slog.Logger
	engine  Engine
	printer printer
	options Options
	// typed maps each allocated process to the name it was requested under
	typed *swiss.Map[memutils.ProcessID, string]
}

func New(logger *slog.Logger, engine Engine, out io.Writer, options Options) *Shell {
	styles := DefaultStyles(out)
	if options.Styles != nil {
		styles = *options.Styles
	}

	return &Shell{
		logger: logger,
		engine: engine,
		printer: printer{
			out:    out,
			styles: styles,
		},
		options: options,
		typed:   swiss.NewMap[memutils.ProcessID, string](42),
	}
}

// Run prompts for and executes commands from in until an exit command or the end of input
func (s *Shell) Run(in io.Reader) error {
	scanner := bufio.NewScanner(in)

	for {
		s.printer.prompt()
		if !scanner.Scan() {
			break
		}

		if s.ExecuteLine(scanner.Text()) {
			return nil
		}
	}

	err := scanner.Err()
	if err != nil {
		return errors.Wrap(err, "reading commands")
	}

	return nil
}

// ExecuteLine parses and executes a single line. It returns true if the line asked to exit.
func (s *Shell) ExecuteLine(line string) bool {
	command, err := Parse(line)
	if err != nil {
		var inputErr *InputError
		if errors.As(err, &inputErr) {
			s.printer.inputError(inputErr)
		} else {
			s.printer.failure(err)
		}
		return false
	}

	return s.Execute(command)
}

// Execute applies a parsed command to the engine. It returns true for CommandExit.
func (s *Shell) Execute(command Command) bool {
	s.logger.Debug("Shell::Execute", slog.String("Command", command.Kind.String()))

	switch command.Kind {
	case CommandExit:
		return true
	case CommandRequest:
		s.request(command)
	case CommandRelease:
		s.release(command)
	case CommandCompact:
		stats := s.engine.Compact()
		s.printer.compacted()
		if s.options.Debug {
			s.printer.plainf("Free bytes: %d\n\n", stats.BytesFreed)
		}
	case CommandStat:
		s.stat()
	}

	return false
}

func (s *Shell) request(command Command) {
	s.printer.strategy(command.Strategy)

	_, err := s.engine.Allocate(command.Process, command.Size, command.Strategy)
	switch {
	case errors.Is(err, memutils.DuplicateNameError):
		s.printer.duplicate(command.Name)
		return
	case errors.Is(err, memutils.InsufficientMemoryError):
		s.printer.noMemory(command.Name)
	case err != nil:
		s.printer.failure(err)
		return
	default:
		s.typed.Put(command.Process, command.Name)
		s.printer.allocated(command.Name, command.Size)
		if s.options.Debug {
			s.printer.allocatedSoFar(s.engine.AllocatedBytes())
		}
	}

	if s.options.Debug {
		s.printer.names(s.engine.Names())
		s.printer.segments(s.engine.InspectDescending(), s.displayName)
	}
}

func (s *Shell) release(command Command) {
	result, err := s.engine.Release(command.Process)
	switch {
	case errors.Is(err, memutils.NotFoundError):
		s.printer.notFound(command.Name)
		return
	case err != nil:
		s.printer.failure(err)
		return
	case result.AlreadyFree:
		s.printer.alreadyReleased(command.Name, result.Region)
	default:
		s.printer.released(command.Name, result.Size)
	}

	if s.options.Debug {
		s.printer.segments(s.engine.InspectDescending(), s.displayName)
	}
}

func (s *Shell) stat() {
	if s.options.JSONStats {
		s.printer.json(s.engine.BuildStatsString(true))
		return
	}

	s.printer.segments(s.engine.Inspect(), s.displayName)
}

// displayName is the name process was last allocated under, or P<n> if the shell never saw it
func (s *Shell) displayName(process memutils.ProcessID) string {
	name, ok := s.typed.Get(process)
	if !ok {
		return process.String()
	}

	return name
}
