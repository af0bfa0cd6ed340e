package shell

import (
	"fmt"
	"io"

	"github.com/cameronapriest/OSmemoryallocator/contig"
	"github.com/cameronapriest/OSmemoryallocator/memutils"
	"github.com/cameronapriest/OSmemoryallocator/memutils/metadata"
	"github.com/cameronapriest/OSmemoryallocator/memutils/registry"
	"github.com/charmbracelet/lipgloss"
)

// Styles holds the colors used for each kind of message
type Styles struct {
	Process lipgloss.Style
	Unused  lipgloss.Style
	Success lipgloss.Style
	Notice  lipgloss.Style
	Release lipgloss.Style
	Error   lipgloss.Style
	Prompt  lipgloss.Style
}

// DefaultStyles builds the standard palette. Colors are dropped automatically when out is not
// a terminal.
func DefaultStyles(out io.Writer) Styles {
	renderer := lipgloss.NewRenderer(out)

	return Styles{
		Process: renderer.NewStyle().Foreground(lipgloss.Color("4")),
		Unused:  renderer.NewStyle().Foreground(lipgloss.Color("1")),
		Success: renderer.NewStyle().Foreground(lipgloss.Color("2")),
		Notice:  renderer.NewStyle().Foreground(lipgloss.Color("3")),
		Release: renderer.NewStyle().Foreground(lipgloss.Color("5")),
		Error:   renderer.NewStyle().Foreground(lipgloss.Color("1")),
		Prompt:  renderer.NewStyle().Foreground(lipgloss.Color("4")),
	}
}

type printer struct {
	out    io.Writer
	styles Styles
}

func (p *printer) printf(style lipgloss.Style, format string, args ...any) {
	fmt.Fprint(p.out, style.Render(fmt.Sprintf(format, args...)))
}

func (p *printer) plainf(format string, args ...any) {
	fmt.Fprintf(p.out, format, args...)
}

func (p *printer) prompt() {
	p.plainf("%s$ ", p.styles.Prompt.Render("allocator"))
}

func (p *printer) inputError(err *InputError) {
	p.plainf("\n")
	p.printf(p.styles.Error, "%s", err.Message)
	p.plainf("\n")

	switch err.Usage {
	case UsageRequest:
		p.printf(p.styles.Error, "To request memory allocation, structure a command as follows:")
		p.plainf("\n\nRQ [process name] [process bytes] [algorithm flag]\n")
	case UsageRequestAndRelease:
		p.printf(p.styles.Error, "To request memory allocation, structure a command as follows:")
		p.plainf("\n\nRQ [process name] [number of bytes] [strategy]\n\n")
		p.printf(p.styles.Error, "To release allocated memory, structure a command as follows:")
		p.plainf("\n\nRL [process name]\n")
	}

	p.plainf("\n")
}

func (p *printer) strategy(strategy metadata.AllocationStrategy) {
	style := p.styles.Notice
	switch strategy {
	case metadata.AllocationStrategyWorstFit:
		style = p.styles.Error
	case metadata.AllocationStrategyBestFit:
		style = p.styles.Success
	}

	p.plainf("\nUsing %s Memory Allocation...\n", style.Render(strategy.String()))
}

func (p *printer) allocated(name string, size int) {
	p.plainf("\n")
	p.printf(p.styles.Success, "Process %s created with %d bytes allocated.", name, size)
	p.plainf("\n\n")
}

func (p *printer) allocatedSoFar(bytes int) {
	p.printf(p.styles.Release, "%d bytes allocated so far.", bytes)
	p.plainf("\n\n")
}

func (p *printer) noMemory(name string) {
	p.plainf("\n")
	p.printf(p.styles.Error, "Not enough memory is available to allocate process %s.", name)
	p.plainf("\n\n")
}

func (p *printer) duplicate(name string) {
	p.plainf("\n")
	p.printf(p.styles.Error, "The process name %s has already been used.", name)
	p.plainf("\n")
	p.printf(p.styles.Error, "Please choose a different name.")
	p.plainf("\n\n")
}

func (p *printer) released(name string, size int) {
	p.plainf("\n")
	p.printf(p.styles.Release, "Process %s released from memory (%d bytes).", name, size)
	p.plainf("\n\n")
}

func (p *printer) alreadyReleased(name string, region metadata.Region) {
	p.plainf("\n")
	p.printf(p.styles.Notice, "Process %s has already been released from memory, creating a hole from", name)
	p.plainf("\n")
	p.printf(p.styles.Notice, "%d to %d, of size %d bytes.", region.Start, region.End, region.Size)
	p.plainf("\n\n")
}

func (p *printer) notFound(name string) {
	p.plainf("\n")
	p.printf(p.styles.Error, "Process %s not located in memory.", name)
	p.plainf("\n\n")
}

func (p *printer) failure(err error) {
	p.plainf("\n")
	p.printf(p.styles.Error, "%v", err)
	p.plainf("\n\n")
}

func (p *printer) compacted() {
	p.plainf("\nCompacting all free memory together... ")
	p.printf(p.styles.Success, "compacted.")
	p.plainf("\n\n")
}

func (p *printer) segments(segments []contig.SegmentInfo, nameOf func(memutils.ProcessID) string) {
	p.plainf("\n")
	for _, segment := range segments {
		p.plainf("Addresses [%d:%d] ", segment.Start, segment.End)
		if segment.Free {
			p.printf(p.styles.Unused, "Unused")
		} else {
			p.printf(p.styles.Process, "Process %s", nameOf(segment.Process))
		}
		p.plainf("\n")
	}
	p.plainf("\n")
}

func (p *printer) names(entries []registry.Entry) {
	p.plainf("\n-----------------\n")
	for _, entry := range entries {
		p.printf(p.styles.Process, "Process number: %d (%s)", int(entry.ID), entry.Status)
		p.plainf("\n")
	}
	p.plainf("-----------------\n")
}

func (p *printer) json(stats string) {
	p.plainf("\n%s\n\n", stats)
}
