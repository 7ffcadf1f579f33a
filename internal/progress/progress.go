// Package progress shows a spinner on a terminal while a blocking job runs.
package progress

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

// isTTY is replaced in tests.
var isTTY = func(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// Run calls work and returns its error. When w is a terminal a spinner with
// label is drawn on w until work returns, then erased.
func Run(ctx context.Context, w io.Writer, label string, work func(ctx context.Context) error) error {
	if !isTTY(w) {
		return work(ctx)
	}

	p := tea.NewProgram(newModel(label),
		tea.WithOutput(w),
		tea.WithInput(nil),
		tea.WithoutSignalHandler(),
		tea.WithContext(ctx),
	)

	var workErr error
	finished := make(chan struct{})
	go func() {
		defer close(finished)
		workErr = work(ctx)
		p.Send(doneMsg{})
	}()

	_, err := p.Run()
	<-finished
	if workErr != nil {
		return workErr
	}
	if err != nil && ctx.Err() == nil {
		return fmt.Errorf("progress: %w", err)
	}
	return nil
}

type doneMsg struct{}

type model struct {
	spinner  spinner.Model
	label    string
	start    time.Time
	finished bool
}

var labelStyle = lipgloss.NewStyle().Faint(true)

func newModel(label string) model {
	s := spinner.New(spinner.WithSpinner(spinner.Dot))
	return model{spinner: s, label: label, start: time.Now()}
}

func (m model) Init() tea.Cmd {
	return m.spinner.Tick
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case doneMsg:
		m.finished = true
		return m, tea.Quit
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m model) View() string {
	if m.finished {
		return ""
	}
	elapsed := time.Since(m.start).Truncate(100 * time.Millisecond)
	return fmt.Sprintf("%s %s %s", m.spinner.View(), m.label, labelStyle.Render(elapsed.String()))
}
