package generation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/jonathan/interview-coach/internal/llm"
	"github.com/jonathan/interview-coach/internal/logger"
)

// Options tunes the cascade
type Options struct {
	// Budget is how many non-static tiers may run; zero means the default and a
	// negative value disables every model tier. The static tier is always available.
	Budget int
	// StructuredAttempts bounds gateway calls in the structured tier
	StructuredAttempts int
	// Backoff is the fixed pause between structured attempts
	Backoff time.Duration
	// CallTimeout bounds every single gateway call
	CallTimeout time.Duration
	// MinFreeFormItems is the number of numbered lines the free-form tier must recover
	MinFreeFormItems int
	// ItemConcurrency bounds concurrent calls in the per-item tier
	ItemConcurrency int
}

// DefaultOptions returns the production defaults
func DefaultOptions() Options {
	return Options{
		Budget:             3,
		StructuredAttempts: 3,
		Backoff:            time.Second,
		CallTimeout:        30 * time.Second,
		MinFreeFormItems:   3,
		ItemConcurrency:    4,
	}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	switch {
	case o.Budget == 0:
		o.Budget = d.Budget
	case o.Budget < 0:
		// static content only
		o.Budget = 0
	}
	if o.StructuredAttempts < 1 {
		o.StructuredAttempts = d.StructuredAttempts
	}
	if o.Backoff < 0 {
		o.Backoff = 0
	}
	if o.CallTimeout <= 0 {
		o.CallTimeout = d.CallTimeout
	}
	if o.MinFreeFormItems < 1 {
		o.MinFreeFormItems = d.MinFreeFormItems
	}
	if o.ItemConcurrency < 1 {
		o.ItemConcurrency = d.ItemConcurrency
	}
	return o
}

// Tier is one strategy in the cascade
type Tier struct {
	Name TierName
	// Applies reports whether the tier can handle spec; tiers that do not apply are skipped without spending budget
	Applies func(spec *PromptSpec) bool
	Run     func(ctx context.Context, spec *PromptSpec) (*Output, error)
}

// TierFailure is returned by a tier that could not produce a value
type TierFailure struct {
	Tier   TierName
	Reason string
	// Unreachable is set when no call reached the gateway (offline, dial or auth failures)
	Unreachable bool
	Cause       error
}

func (e *TierFailure) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s tier failed: %s: %v", e.Tier, e.Reason, e.Cause)
	}
	return fmt.Sprintf("%s tier failed: %s", e.Tier, e.Reason)
}

func (e *TierFailure) Unwrap() error {
	return e.Cause
}

// Cascade runs tiers in order until one returns a value
type Cascade struct {
	client llm.Client
	opts   Options
	log    *zap.Logger
	tiers  []Tier
	static Tier
}

// NewCascade builds the standard structured → free-form → per-item → static cascade
func NewCascade(client llm.Client, opts Options, log *zap.Logger) *Cascade {
	if client == nil {
		client = llm.NewOfflineClient(nil)
	}
	c := &Cascade{
		client: client,
		opts:   opts.withDefaults(),
		log:    logger.OrNop(log),
	}
	c.tiers = []Tier{
		{Name: TierStructured, Run: c.runStructured},
		{Name: TierFreeForm, Applies: freeFormApplies, Run: c.runFreeForm},
		{Name: TierPerItem, Applies: perItemApplies, Run: c.runPerItem},
	}
	c.static = Tier{Name: TierStatic, Run: runStatic}
	return c
}

// Options returns the effective options
func (c *Cascade) Options() Options {
	return c.opts
}

// Generate returns a schema-conformant value for spec.
// It fails only when spec is nil or ctx is cancelled; in the latter case no
// partial output is returned.
func (c *Cascade) Generate(ctx context.Context, spec *PromptSpec) (*Output, error) {
	if spec == nil {
		return nil, errors.New("generation: nil prompt spec")
	}
	if err := spec.kind.Validate(); err != nil {
		return nil, err
	}

	budget := c.opts.Budget
	for _, tier := range c.tiers {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if budget == 0 {
			break
		}
		if tier.Applies != nil && !tier.Applies(spec) {
			continue
		}
		budget--

		start := time.Now()
		out, err := tier.Run(ctx, spec)
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		if err == nil {
			c.log.Info("generation succeeded",
				zap.String("tier", string(tier.Name)),
				zap.String("kind", spec.kind.String()),
				zap.Duration("duration", time.Since(start)),
			)
			return out, nil
		}

		c.log.Warn("generation tier failed",
			zap.String("tier", string(tier.Name)),
			zap.String("kind", spec.kind.String()),
			zap.Duration("duration", time.Since(start)),
			zap.Error(err),
		)

		var tf *TierFailure
		if errors.As(err, &tf) && tf.Unreachable {
			c.log.Warn("completion gateway unreachable, using static content", zap.String("kind", spec.kind.String()))
			break
		}
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return c.static.Run(ctx, spec)
}

// complete makes one gateway call bounded by CallTimeout
func (c *Cascade) complete(ctx context.Context, prompt string, tier llm.ModelTier, maxTokens int32, asJSON bool) (string, error) {
	callCtx, cancel := context.WithTimeout(ctx, c.opts.CallTimeout)
	defer cancel()
	return c.client.Complete(callCtx, llm.Request{
		Prompt:          prompt,
		Tier:            tier,
		MaxOutputTokens: maxTokens,
		JSON:            asJSON,
	})
}

// sleep waits for d or until ctx is done. Swapped in tests.
var sleep = func(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
