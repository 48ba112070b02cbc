package repair

import (
	"context"
	"fmt"
	"io"

	"github.com/fatih/color"
	"go.uber.org/zap"
)

// Output receives progress messages from repair steps.
type Output interface {
	Info(message string)
	Warning(message string)
}

// Step is a one-shot data repair. Steps must be safe to run again.
type Step interface {
	Name() string
	Run(ctx context.Context, out Output) error
}

// Runner executes steps in registration order and stops at the first failure.
type Runner struct {
	steps []Step
}

func NewRunner(steps ...Step) *Runner {
	return &Runner{steps: steps}
}

func (r *Runner) Steps() []Step {
	return r.steps
}

func (r *Runner) Run(ctx context.Context, out Output) error {
	for _, step := range r.steps {
		out.Info("Repair step: " + step.Name())
		if err := step.Run(ctx, out); err != nil {
			return fmt.Errorf("repair step %q failed: %w", step.Name(), err)
		}
	}
	return nil
}

// LoggerOutput forwards messages to a zap logger.
type LoggerOutput struct {
	Logger *zap.Logger
}

func (o LoggerOutput) Info(message string) {
	o.Logger.Info(message)
}

func (o LoggerOutput) Warning(message string) {
	o.Logger.Warn(message)
}

// ConsoleOutput prints messages for a terminal, warnings in yellow.
type ConsoleOutput struct {
	w    io.Writer
	info *color.Color
	warn *color.Color
}

func NewConsoleOutput(w io.Writer) *ConsoleOutput {
	return &ConsoleOutput{
		w:    w,
		info: color.New(color.FgGreen),
		warn: color.New(color.FgYellow, color.Bold),
	}
}

func (o *ConsoleOutput) Info(message string) {
	o.info.Fprint(o.w, " - ")
	fmt.Fprintln(o.w, message)
}

func (o *ConsoleOutput) Warning(message string) {
	o.warn.Fprintln(o.w, "WARNING: "+message)
}
