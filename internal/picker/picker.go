package picker

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-isatty"
	"github.com/sungur/rhinorun/internal/run"
)

// Picker prompts on a terminal. It implements run.Picker.
type Picker struct {
	// Input defaults to stdin.
	Input io.Reader
	// Output defaults to stderr so stdout stays free for command output.
	Output io.Writer
}

// Pick shows the labels and blocks until one is chosen, the prompt is
// dismissed (run.ErrPickCancelled) or ctx ends.
func (p Picker) Pick(ctx context.Context, prompt string, labels []string) (int, error) {
	if len(labels) == 0 {
		return -1, errors.New("nothing to pick from")
	}

	in := p.Input
	if in == nil {
		in = os.Stdin
	}
	out := p.Output
	if out == nil {
		out = os.Stderr
	}

	prog := tea.NewProgram(NewModel(prompt, labels),
		tea.WithContext(ctx),
		tea.WithInput(in),
		tea.WithOutput(out),
	)
	final, err := prog.Run()
	if err != nil {
		if ctx.Err() != nil {
			return -1, ctx.Err()
		}
		return -1, fmt.Errorf("selection prompt: %w", err)
	}

	m, ok := final.(Model)
	if !ok || m.Chosen() < 0 {
		return -1, run.ErrPickCancelled
	}
	return m.Chosen(), nil
}

// Interactive reports whether both stdin and stderr are terminals, which the
// picker needs to draw and read keys.
func Interactive() bool {
	return isTerminal(os.Stdin) && isTerminal(os.Stderr)
}

func isTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
