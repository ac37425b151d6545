// Package console implements the interactive menu loop over a task file.
package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/nibzard/tasker-go/internal/storage"
	"github.com/nibzard/tasker-go/internal/task"
)

// Menu commands.
const (
	CmdAdd      = "1"
	CmdList     = "2"
	CmdQuit     = "3"
	CmdMarkDone = "4"
)

// Messages written to the output channel.
const (
	MsgInvalidChoice     = "Invalid choice"
	MsgFieldsRequired    = "All fields must be filled in."
	MsgInvalidDate       = "Invalid date format. Use YYYY-MM-DD."
	MsgInvalidTaskNumber = "Invalid task number"
)

// Prompts passed to the input function.
const (
	PromptChoice      = "Choose: "
	PromptTitle       = "Title: "
	PromptDescription = "Description: "
	PromptDue         = "Due date (YYYY-MM-DD): "
	PromptTaskNumber  = "Task number to mark as done: "
)

// DefaultMenu is shown before every choice prompt.
const DefaultMenu = "1. Add task\n2. List tasks\n3. Quit\n4. Mark task as done\n"

// State is the lifecycle state of a Controller.
type State int

const (
	Running State = iota
	Terminated
)

func (s State) String() string {
	switch s {
	case Running:
		return "running"
	case Terminated:
		return "terminated"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// InputFunc shows prompt and returns one line of user input without the
// line terminator. It returns io.EOF when input is exhausted.
type InputFunc func(prompt string) (string, error)

// OutputFunc writes one line of output.
type OutputFunc func(line string)

// AfterSaveFunc runs after each successful save.
type AfterSaveFunc func(ctx context.Context, tasks []*task.Task) error

// Option configures a Controller.
type Option func(*Controller)

// WithInput sets the input source. The default reads nothing and reports EOF.
func WithInput(in InputFunc) Option {
	return func(c *Controller) { c.input = in }
}

// WithOutput sets the output sink. The default discards output.
func WithOutput(out OutputFunc) Option {
	return func(c *Controller) { c.output = out }
}

// WithLogger sets the logger for load and save diagnostics.
func WithLogger(logger *log.Logger) Option {
	return func(c *Controller) { c.logger = logger }
}

// WithStrictLoad makes New fail on the first invalid entry in the file.
func WithStrictLoad(strict bool) Option {
	return func(c *Controller) { c.strict = strict }
}

// WithAfterSave registers fn to run after each successful save. Its errors
// are logged, not returned.
func WithAfterSave(fn AfterSaveFunc) Option {
	return func(c *Controller) { c.afterSave = fn }
}

// WithTasks seeds the collection; the file is not read.
func WithTasks(tasks []*task.Task) Option {
	return func(c *Controller) {
		c.tasks = append([]*task.Task{}, tasks...)
		c.seeded = true
	}
}

// WithMenu replaces the menu text shown before the choice prompt.
func WithMenu(menu string) Option {
	return func(c *Controller) { c.menu = menu }
}

// Controller runs the menu loop for one task file.
type Controller struct {
	path      string
	tasks     []*task.Task
	state     State
	input     InputFunc
	output    OutputFunc
	logger    *log.Logger
	strict    bool
	seeded    bool
	menu      string
	afterSave AfterSaveFunc
}

// New creates a controller bound to path and loads its tasks.
func New(path string, opts ...Option) (*Controller, error) {
	c := &Controller{
		path:   path,
		state:  Running,
		input:  func(string) (string, error) { return "", io.EOF },
		output: func(string) {},
		logger: log.New(io.Discard),
		menu:   DefaultMenu,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.seeded {
		return c, nil
	}

	result, err := storage.Load(path, storage.WithStrict(c.strict))
	if err != nil {
		return nil, err
	}
	if result.FileErr != nil {
		c.logger.Warn("task file ignored, starting empty", "path", path, "err", result.FileErr)
	}
	for _, skipped := range result.Skipped {
		c.logger.Warn("skipped invalid task", "path", path, "index", skipped.Index, "err", skipped.Err)
	}
	c.logger.Debug("tasks loaded", "path", path, "count", len(result.Tasks), "skipped", len(result.Skipped))
	c.tasks = result.Tasks
	return c, nil
}

// Tasks returns the in-memory collection.
func (c *Controller) Tasks() []*task.Task {
	return c.tasks
}

// State returns the lifecycle state.
func (c *Controller) State() State {
	return c.state
}

// Path returns the task file path.
func (c *Controller) Path() string {
	return c.path
}

// Run reads commands until quit or end of input. It returns ctx.Err() if
// the context is cancelled and a *storage.StorageError if a save fails.
func (c *Controller) Run(ctx context.Context) error {
	for c.state == Running {
		if err := ctx.Err(); err != nil {
			return err
		}
		choice, err := c.input(c.menu + PromptChoice)
		if err != nil {
			return c.inputErr(err)
		}
		if err := c.Dispatch(ctx, choice); err != nil {
			return c.inputErr(err)
		}
	}
	return nil
}

// Dispatch executes a single menu command.
func (c *Controller) Dispatch(ctx context.Context, choice string) error {
	switch strings.TrimSpace(choice) {
	case CmdAdd:
		return c.add(ctx)
	case CmdList:
		c.list()
	case CmdQuit:
		c.state = Terminated
	case CmdMarkDone:
		return c.markDone(ctx)
	default:
		c.output(MsgInvalidChoice)
	}
	return nil
}

func (c *Controller) add(ctx context.Context) error {
	title, err := c.input(PromptTitle)
	if err != nil {
		return err
	}
	description, err := c.input(PromptDescription)
	if err != nil {
		return err
	}
	due, err := c.input(PromptDue)
	if err != nil {
		return err
	}

	// The date is parsed as typed; only title and description are trimmed.
	title = strings.TrimSpace(title)
	description = strings.TrimSpace(description)
	if title == "" || description == "" || strings.TrimSpace(due) == "" {
		c.output(MsgFieldsRequired)
		return nil
	}

	t, err := task.New(title, task.WithDescription(description), task.WithDue(due))
	if err != nil {
		if errors.Is(err, task.ErrInvalidDate) {
			c.output(MsgInvalidDate)
			return nil
		}
		c.output(err.Error())
		return nil
	}

	c.tasks = append(c.tasks, t)
	return c.save(ctx)
}

func (c *Controller) list() {
	for i, t := range c.tasks {
		c.output(fmt.Sprintf("%d. %s - %s", i+1, t.Title, t.Status))
	}
}

func (c *Controller) markDone(ctx context.Context) error {
	raw, err := c.input(PromptTaskNumber)
	if err != nil {
		return err
	}
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n < 1 || n > len(c.tasks) {
		c.output(MsgInvalidTaskNumber)
		return nil
	}
	c.tasks[n-1].Complete()
	return c.save(ctx)
}

func (c *Controller) save(ctx context.Context) error {
	if err := storage.Save(c.path, c.tasks); err != nil {
		return err
	}
	c.logger.Debug("tasks saved", "path", c.path, "count", len(c.tasks))
	if c.afterSave != nil {
		if err := c.afterSave(ctx, c.tasks); err != nil {
			c.logger.Warn("after-save hook failed", "path", c.path, "err", err)
		}
	}
	return nil
}

// inputErr maps end of input to a clean quit.
func (c *Controller) inputErr(err error) error {
	if errors.Is(err, io.EOF) {
		c.state = Terminated
		return nil
	}
	return err
}

// ReaderInput returns an InputFunc that writes each prompt to w (if not
// nil) and reads one line from r.
func ReaderInput(r io.Reader, w io.Writer) InputFunc {
	reader := bufio.NewReader(r)
	return func(prompt string) (string, error) {
		if w != nil && prompt != "" {
			if _, err := io.WriteString(w, prompt); err != nil {
				return "", err
			}
		}
		line, err := reader.ReadString('\n')
		if err != nil {
			if errors.Is(err, io.EOF) && line != "" {
				return strings.TrimRight(line, "\r"), nil
			}
			return "", err
		}
		return strings.TrimRight(line, "\r\n"), nil
	}
}

// WriterOutput returns an OutputFunc that writes each line to w.
func WriterOutput(w io.Writer) OutputFunc {
	return func(line string) {
		fmt.Fprintln(w, line)
	}
}
