// Package ui provides the optional terminal interface.
package ui

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"

	"github.com/nibzard/tasker-go/internal/storage"
	"github.com/nibzard/tasker-go/internal/task"
)

// Options configures the TUI.
type Options struct {
	Path       string
	StrictLoad bool
	Logger     *log.Logger
	// AfterSave runs after each successful save. Errors are shown, not fatal.
	AfterSave func(ctx context.Context, tasks []*task.Task) error
	// Today overrides the current date for overdue checks.
	Today func() task.Date
	// Watch reloads the list when the file changes on disk.
	Watch bool
}

// RunTUI starts the TUI on the terminal.
func RunTUI(ctx context.Context, opts Options) error {
	if !IsTTY(os.Stdout) {
		return fmt.Errorf("tui requires a TTY")
	}
	model := newTUIModel(ctx, opts)
	if opts.Watch {
		watcher, err := newFileWatcher(opts.Path)
		if err != nil {
			model.opts.Logger.Warn("file watching disabled", "path", opts.Path, "err", err)
		} else {
			defer watcher.Close()
			model.watcher = watcher
		}
	}

	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	finalModel, err := program.Run()
	if err != nil {
		return err
	}
	if m, ok := finalModel.(*tuiModel); ok && m.saveErr != nil {
		return m.saveErr
	}
	return nil
}

var (
	titleStyle   = lipgloss.NewStyle().Bold(true)
	cursorStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	doneStyle    = lipgloss.NewStyle().Faint(true).Strikethrough(true)
	overdueStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	mutedStyle   = lipgloss.NewStyle().Faint(true)
)

type tuiModel struct {
	ctx         context.Context
	opts        Options
	keys        KeyMap
	help        help.Model
	watcher     *fsnotify.Watcher
	tasks       []*task.Task
	visible     []int // Indexes into tasks
	cursor      int
	overdueOnly bool
	loadErr     error
	saveErr     error
	message     string
	skipped     int
}

// fileChangedMsg reports a change to the task file on disk.
type fileChangedMsg struct{}

type watchErrMsg struct{ err error }

func newTUIModel(ctx context.Context, opts Options) *tuiModel {
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}
	if opts.Today == nil {
		opts.Today = task.Today
	}
	return &tuiModel{ctx: ctx, opts: opts, keys: DefaultKeyMap, help: help.New()}
}

func (m *tuiModel) Init() tea.Cmd {
	m.reload()
	return m.watchCmd()
}

func (m *tuiModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Down):
			if m.cursor < len(m.visible)-1 {
				m.cursor++
			}
		case key.Matches(msg, m.keys.Up):
			if m.cursor > 0 {
				m.cursor--
			}
		case key.Matches(msg, m.keys.Done):
			if m.markDone() != nil {
				return m, tea.Quit
			}
		case key.Matches(msg, m.keys.Reload):
			m.reload()
			m.message = "Reloaded"
		case key.Matches(msg, m.keys.Overdue):
			m.overdueOnly = !m.overdueOnly
			m.applyFilter()
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
		}
	case tea.WindowSizeMsg:
		m.help.Width = msg.Width
	case fileChangedMsg:
		m.reload()
		return m, m.watchCmd()
	case watchErrMsg:
		m.opts.Logger.Warn("file watch error", "path", m.opts.Path, "err", msg.err)
		return m, m.watchCmd()
	}
	return m, nil
}

func (m *tuiModel) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Tasks") + "  " + mutedStyle.Render(m.opts.Path) + "\n\n")

	if m.loadErr != nil {
		b.WriteString(errorStyle.Render("Error loading task file: "+m.loadErr.Error()) + "\n\n")
		b.WriteString(m.help.View(m.keys) + "\n")
		return b.String()
	}

	if m.overdueOnly {
		b.WriteString("Filter: overdue (o to clear)\n\n")
	}
	if len(m.visible) == 0 {
		b.WriteString("  No tasks.\n")
	}
	today := m.opts.Today()
	for row, idx := range m.visible {
		b.WriteString(m.formatRow(row, idx, today) + "\n")
	}
	b.WriteString("\n")

	writeSummary(&b, m.tasks, today, m.skipped)
	if m.message != "" {
		b.WriteString(m.message + "\n\n")
	}
	b.WriteString(m.help.View(m.keys) + "\n")
	return b.String()
}

func (m *tuiModel) formatRow(row, idx int, today task.Date) string {
	t := m.tasks[idx]
	marker := "  "
	if row == m.cursor {
		marker = cursorStyle.Render("> ")
	}
	check := "[ ]"
	if t.Status.IsFinished() {
		check = "[x]"
	}

	text := fmt.Sprintf("%d. %s", idx+1, t.Title)
	switch {
	case t.Status.IsFinished():
		text = doneStyle.Render(text)
	case t.IsOverdueAt(today):
		text = overdueStyle.Render(text + " (overdue)")
	}

	line := fmt.Sprintf("%s%s %s  %s", marker, check, text, mutedStyle.Render(string(t.Status)))
	if !t.DueDate.IsZero() {
		line += mutedStyle.Render("  due " + t.DueDate.String())
	}
	return line
}

func (m *tuiModel) reload() {
	result, err := storage.Load(m.opts.Path, storage.WithStrict(m.opts.StrictLoad))
	if err != nil {
		m.loadErr = err
		m.tasks = nil
		m.applyFilter()
		return
	}
	m.loadErr = nil
	m.tasks = result.Tasks
	m.skipped = len(result.Skipped)
	if result.FileErr != nil {
		m.opts.Logger.Warn("task file ignored", "path", m.opts.Path, "err", result.FileErr)
	}
	m.applyFilter()
}

func (m *tuiModel) applyFilter() {
	today := m.opts.Today()
	m.visible = m.visible[:0]
	for i, t := range m.tasks {
		if m.overdueOnly && (t.Status.IsFinished() || !t.IsOverdueAt(today)) {
			continue
		}
		m.visible = append(m.visible, i)
	}
	if m.cursor >= len(m.visible) {
		m.cursor = len(m.visible) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

// markDone completes the task under the cursor and saves. It returns the
// save error, which ends the program.
func (m *tuiModel) markDone() error {
	if len(m.visible) == 0 {
		return nil
	}
	t := m.tasks[m.visible[m.cursor]]
	if t.Status.IsFinished() {
		m.message = "Already done"
		return nil
	}
	t.Complete()
	if err := storage.Save(m.opts.Path, m.tasks); err != nil {
		m.saveErr = err
		return err
	}
	m.message = fmt.Sprintf("Marked %q as done", t.Title)
	if m.opts.AfterSave != nil {
		if err := m.opts.AfterSave(m.ctx, m.tasks); err != nil {
			m.opts.Logger.Warn("after-save hook failed", "path", m.opts.Path, "err", err)
			m.message += " (hook failed: " + err.Error() + ")"
		}
	}
	m.applyFilter()
	return nil
}

// newFileWatcher watches the directory holding path. Saves replace the file
// by rename, so watching the file itself would lose track after one save.
func newFileWatcher(path string) (*fsnotify.Watcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		watcher.Close()
		return nil, err
	}
	return watcher, nil
}

// watchCmd waits for the next event that touches the task file.
func (m *tuiModel) watchCmd() tea.Cmd {
	if m.watcher == nil {
		return nil
	}
	watcher := m.watcher
	name := filepath.Base(m.opts.Path)
	return func() tea.Msg {
		for {
			select {
			case event, ok := <-watcher.Events:
				if !ok {
					return nil
				}
				if filepath.Base(event.Name) == name && event.Has(fsnotify.Create|fsnotify.Write|fsnotify.Rename|fsnotify.Remove) {
					return fileChangedMsg{}
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return nil
				}
				return watchErrMsg{err: err}
			}
		}
	}
}

func writeSummary(b *strings.Builder, tasks []*task.Task, today task.Date, skipped int) {
	var done, overdue int
	for _, t := range tasks {
		switch {
		case t.Status.IsFinished():
			done++
		case t.IsOverdueAt(today):
			overdue++
		}
	}
	b.WriteString(fmt.Sprintf("Total: %d  Done: %d  Overdue: %d", len(tasks), done, overdue))
	if skipped > 0 {
		b.WriteString(fmt.Sprintf("  Skipped: %d", skipped))
	}
	b.WriteString("\n\n")
}

// IsTTY returns true if w is a terminal.
func IsTTY(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return (info.Mode() & os.ModeCharDevice) != 0
}
