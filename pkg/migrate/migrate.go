// Package migrate applies the versioned SQL files that create the HR tables.
package migrate

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/nimburion/hrportal/pkg/observability/logger"
)

// Actions accepted by Run.
const (
	ActionUp     = "up"
	ActionDown   = "down"
	ActionStatus = "status"
)

const defaultTimeout = 60 * time.Second

// PendingMigration contains an unapplied migration entry for status output.
type PendingMigration struct {
	Version int64  `json:"version" yaml:"version"`
	Name    string `json:"name" yaml:"name"`
}

// Status lists applied versions and the migrations still to apply.
type Status struct {
	AppliedVersions []int64            `json:"applied" yaml:"applied"`
	Pending         []PendingMigration `json:"pending" yaml:"pending"`
}

// Runner applies and reverts migrations. *SQLManager implements it.
type Runner interface {
	Up(ctx context.Context) (int, error)
	Down(ctx context.Context, steps int) (int, error)
	Status(ctx context.Context) (*Status, error)
}

// Command is a parsed "[up|down|status] [steps]" invocation.
type Command struct {
	Action string
	Steps  int
}

// ParseArgs parses [up|down|status] [steps], defaulting to "up" and one step.
func ParseArgs(args []string) (Command, error) {
	cmd := Command{Action: ActionUp, Steps: 1}
	if len(args) > 0 {
		cmd.Action = args[0]
	}
	if len(args) > 1 {
		steps, err := strconv.Atoi(args[1])
		if err != nil {
			return Command{}, fmt.Errorf("invalid down steps %q", args[1])
		}
		cmd.Steps = steps
	}
	switch cmd.Action {
	case ActionUp, ActionDown, ActionStatus:
		return cmd, nil
	default:
		return Command{}, errors.New("usage: migrate [up|down|status] [steps]")
	}
}

// Run executes cmd under timeout and logs the outcome. The status is returned for every
// action so callers can print it.
func Run(ctx context.Context, cmd Command, runner Runner, log logger.Logger, timeout time.Duration) (*Status, error) {
	if runner == nil {
		return nil, errors.New("migration runner is required")
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	switch cmd.Action {
	case ActionUp:
		applied, err := runner.Up(ctx)
		if err != nil {
			return nil, err
		}
		log.Info("migrations applied", "count", applied)
	case ActionDown:
		if cmd.Steps <= 0 {
			return nil, errors.New("steps must be greater than zero")
		}
		reverted, err := runner.Down(ctx, cmd.Steps)
		if err != nil {
			return nil, err
		}
		log.Info("migrations reverted", "count", reverted, "steps", cmd.Steps)
	case ActionStatus:
	default:
		return nil, fmt.Errorf("unknown migrate action %q", cmd.Action)
	}

	status, err := runner.Status(ctx)
	if err != nil {
		return nil, err
	}
	log.Info("migration status", "applied", len(status.AppliedVersions), "pending", len(status.Pending))
	return status, nil
}
