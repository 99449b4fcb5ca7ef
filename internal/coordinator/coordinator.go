// Package coordinator connects view input events to ledger operations and
// pushes ledger results back into the view. It owns no data.
package coordinator

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"budget/internal/core"
	"budget/internal/log"
	"budget/internal/view"
)

// Ledger is the set of ledger operations the flows need.
type Ledger interface {
	Add(c core.Category, description string, value decimal.Decimal) core.Entry
	Delete(c core.Category, id int) bool
	RecomputeTotals()
	RecomputePercentages()
	Summary() core.Summary
	ExpensePercentages() []core.Percentage
}

// Notifier receives ledger changes after a flow completes. Failures are
// logged and never undo the change.
type Notifier interface {
	EntryAdded(ctx context.Context, e core.Entry, s core.Summary) error
	EntryDeleted(ctx context.Context, c core.Category, id int, s core.Summary) error
}

type Coordinator struct {
	ledger Ledger
	view   view.View
	events Notifier
	logger *log.Logger
	slog   *log.StructuredLogger
}

type Option func(*Coordinator)

// WithNotifier publishes add and delete events.
func WithNotifier(n Notifier) Option {
	return func(c *Coordinator) {
		c.events = n
	}
}

func WithLogger(l *log.Logger) Option {
	return func(c *Coordinator) {
		c.logger = l
	}
}

func New(l Ledger, v view.View, opts ...Option) *Coordinator {
	c := &Coordinator{ledger: l, view: v}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = log.Discard()
	}
	c.logger = c.logger.WithComponent(log.ComponentCoordinator)
	c.slog = log.NewStructuredLogger(c.logger)
	return c
}

// Init renders the zeroed summary and the month label.
func (c *Coordinator) Init(ctx context.Context) {
	c.logger.InfoContext(ctx, "Application has started.", log.FieldOperation, log.OpInit)
	c.view.RenderSummary(core.Summary{
		Budget:          decimal.Zero,
		TotalIncome:     decimal.Zero,
		TotalExpense:    decimal.Zero,
		SpendPercentage: core.Undefined(),
	})
	c.view.RenderCurrentMonthLabel()
}

// Add runs the add flow. Invalid input leaves ledger and view untouched and
// is returned as an error wrapping one of the core sentinels.
func (c *Coordinator) Add(ctx context.Context) (core.Entry, error) {
	in := c.view.ReadInputForm()

	cat, desc, value, err := validate(in)
	if err != nil {
		c.logger.DebugContext(ctx, "Input rejected",
			log.FieldError, err,
			log.FieldOperation, log.OpValidate)
		return core.Entry{}, err
	}

	e := c.ledger.Add(cat, desc, value)
	c.view.RenderNewEntry(e, cat)
	c.view.ClearInputForm()
	c.updateBudget()
	c.updatePercentages()

	c.slog.LogEntryAdded(ctx, cat.Name(), e.ID, e.Description, e.Value.String())
	if c.events != nil {
		if err := c.events.EntryAdded(ctx, e, c.ledger.Summary()); err != nil {
			c.slog.LogError(ctx, "Failed to publish entry event", err, log.OpPublish,
				log.NewFields().WithEntry(cat.Name(), e.ID, e.Description, e.Value.String()))
		}
	}
	return e, nil
}

// Delete runs the delete flow for a row identifier such as "exp-3".
// An unknown id in a valid category is not an error.
func (c *Coordinator) Delete(ctx context.Context, itemID string) error {
	cat, id, err := core.ParseItemID(itemID)
	if err != nil {
		return err
	}

	removed := c.ledger.Delete(cat, id)
	c.view.RemoveEntry(cat, id)
	c.updateBudget()
	c.updatePercentages()

	c.slog.LogEntryDeleted(ctx, itemID, removed)
	if removed && c.events != nil {
		if err := c.events.EntryDeleted(ctx, cat, id, c.ledger.Summary()); err != nil {
			c.slog.LogError(ctx, "Failed to publish entry event", err, log.OpPublish,
				log.NewFields().WithEntry(cat.Name(), id, "", ""))
		}
	}
	return nil
}

// ChangeType handles a change of the category selector.
func (c *Coordinator) ChangeType(ctx context.Context) {
	c.view.ToggleInputTypeStyling()
	c.logger.DebugContext(ctx, "Input type changed", log.FieldOperation, log.OpToggle)
}

func (c *Coordinator) updateBudget() {
	c.ledger.RecomputeTotals()
	c.view.RenderSummary(c.ledger.Summary())
}

func (c *Coordinator) updatePercentages() {
	c.ledger.RecomputePercentages()
	c.view.RenderExpensePercentages(c.ledger.ExpensePercentages())
}

func validate(in view.Input) (core.Category, string, decimal.Decimal, error) {
	cat, err := core.ParseCategory(in.Category)
	if err != nil {
		return "", "", decimal.Zero, err
	}
	desc, err := core.ValidateDescription(in.Description)
	if err != nil {
		return "", "", decimal.Zero, err
	}
	value, err := core.ParseValue(in.RawValue)
	if err != nil {
		return "", "", decimal.Zero, fmt.Errorf("%w: %q", err, in.RawValue)
	}
	return cat, desc, value, nil
}
