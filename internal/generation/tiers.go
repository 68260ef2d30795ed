package generation

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/jonathan/interview-coach/internal/llm"
	"github.com/jonathan/interview-coach/internal/parsing"
	"github.com/jonathan/interview-coach/internal/types"
)

// runStructured sends the full prompt and parses the whole value.
// Transient gateway failures and parse failures are retried with a fixed backoff.
// The failure is marked Unreachable only when every attempt failed to reach the
// gateway; timeouts, rate limits and empty responses demote to the next tier.
func (c *Cascade) runStructured(ctx context.Context, spec *PromptSpec) (*Output, error) {
	if strings.TrimSpace(spec.instruction) == "" {
		return nil, &TierFailure{Tier: TierStructured, Reason: "no structured instruction"}
	}

	reached := false
	var lastErr error
	for attempt := 1; attempt <= c.opts.StructuredAttempts; attempt++ {
		if attempt > 1 {
			if err := sleep(ctx, c.opts.Backoff); err != nil {
				return nil, err
			}
		}

		text, err := c.complete(ctx, spec.instruction, spec.tier, spec.maxTokens, true)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			lastErr = err
			if !llm.IsUnreachable(err) {
				reached = true
			}
			c.log.Debug("structured attempt failed",
				zap.Int("attempt", attempt),
				zap.String("kind", spec.kind.String()),
				zap.Error(err),
			)
			if !llm.IsTransient(err) {
				break
			}
			continue
		}
		reached = true

		value, err := parsing.Parse(text, spec.kind)
		if err != nil {
			lastErr = err
			c.log.Debug("structured response rejected",
				zap.Int("attempt", attempt),
				zap.String("kind", spec.kind.String()),
				zap.String("preview", llm.PreviewLines(text, 3)),
				zap.Error(err),
			)
			continue
		}

		if spec.kind.IsList() {
			value.Questions = padQuestions(value.Questions, spec.fallback, spec.count)
		}
		return &Output{Value: *value, Tier: TierStructured}, nil
	}

	return nil, &TierFailure{
		Tier:        TierStructured,
		Reason:      fmt.Sprintf("no valid response in %d attempts", c.opts.StructuredAttempts),
		Unreachable: !reached,
		Cause:       lastErr,
	}
}

func freeFormApplies(spec *PromptSpec) bool {
	return spec.kind.IsList() && strings.TrimSpace(spec.freeForm) != ""
}

// runFreeForm asks for a numbered plain-text list and scans it line by line
func (c *Cascade) runFreeForm(ctx context.Context, spec *PromptSpec) (*Output, error) {
	text, err := c.complete(ctx, spec.freeForm, spec.tier, spec.maxTokens, false)
	if err != nil {
		return nil, &TierFailure{Tier: TierFreeForm, Reason: "gateway call failed", Cause: err}
	}

	lines := parsing.ParseNumberedItems(text)
	need := c.opts.MinFreeFormItems
	if spec.count < need {
		need = spec.count
	}
	if len(lines) < need {
		return nil, &TierFailure{
			Tier:   TierFreeForm,
			Reason: fmt.Sprintf("recovered %d numbered items, need %d", len(lines), need),
		}
	}
	if len(lines) > spec.count {
		lines = lines[:spec.count]
	}

	questions := make([]types.GeneratedQuestion, 0, spec.count)
	for i, line := range lines {
		questions = append(questions, questionFromText(line, spec.itemMeta(i)))
	}
	questions = padQuestions(questions, spec.fallback, spec.count)

	return &Output{Value: parsing.Value{Kind: spec.kind, Questions: questions}, Tier: TierFreeForm}, nil
}

func perItemApplies(spec *PromptSpec) bool {
	return len(spec.items) > 0
}

// runPerItem issues one minimal prompt per item concurrently and assembles the value.
// Items that fail are filled from canned defaults; the tier fails only when none succeeded.
func (c *Cascade) runPerItem(ctx context.Context, spec *PromptSpec) (*Output, error) {
	answers := make([]string, len(spec.items))

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(c.opts.ItemConcurrency)
	for i, item := range spec.items {
		g.Go(func() error {
			text, err := c.complete(gCtx, item.Prompt, llm.TierLite, spec.itemMaxTokens, false)
			if err != nil {
				c.log.Debug("item prompt failed",
					zap.Int("item", i),
					zap.String("field", item.Field),
					zap.Error(err),
				)
				return nil
			}
			answers[i] = text
			return nil
		})
	}
	_ = g.Wait()
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if spec.kind.IsList() {
		return assembleQuestions(spec, answers)
	}
	return assembleDocument(spec, answers)
}

func assembleQuestions(spec *PromptSpec, answers []string) (*Output, error) {
	recovered := 0
	questions := make([]types.GeneratedQuestion, 0, spec.count)
	for i, answer := range answers {
		if len(questions) == spec.count {
			break
		}
		text := parsing.CleanItemText(answer)
		if text == "" {
			continue
		}
		recovered++
		questions = append(questions, questionFromText(text, spec.itemMeta(i)))
	}
	if recovered == 0 {
		return nil, &TierFailure{Tier: TierPerItem, Reason: "no item prompt returned text"}
	}

	questions = padQuestions(questions, spec.fallback, spec.count)
	return &Output{Value: parsing.Value{Kind: spec.kind, Questions: questions}, Tier: TierPerItem}, nil
}

func assembleDocument(spec *PromptSpec, answers []string) (*Output, error) {
	doc, err := defaultDocument(spec)
	if err != nil {
		return nil, &TierFailure{Tier: TierPerItem, Reason: "build default document", Cause: err}
	}

	recovered := 0
	for i, item := range spec.items {
		if item.Field == "" {
			continue
		}
		if value, ok := readItem(answers[i], item.Format); ok {
			doc[item.Field] = value
			recovered++
		}
	}
	if recovered == 0 {
		return nil, &TierFailure{Tier: TierPerItem, Reason: "no item prompt returned usable text"}
	}

	value, err := parsing.FromDocument(spec.kind, doc)
	if err != nil {
		return nil, &TierFailure{Tier: TierPerItem, Reason: "assembled document rejected", Cause: err}
	}
	return &Output{Value: *value, Tier: TierPerItem}, nil
}

// readItem converts one single-item response according to its format
func readItem(answer string, format ItemFormat) (any, bool) {
	switch format {
	case FormatNumber:
		n, ok := parsing.ParseItemNumber(answer)
		if !ok {
			return nil, false
		}
		return n, true
	case FormatList:
		items := parsing.ParseItemList(answer)
		if len(items) == 0 {
			return nil, false
		}
		list := make([]any, len(items))
		for i, item := range items {
			list[i] = item
		}
		return list, true
	default:
		text := strings.TrimSpace(answer)
		if text == "" {
			return nil, false
		}
		return text, true
	}
}

// defaultDocument renders the static value for spec as a generic JSON document
func defaultDocument(spec *PromptSpec) (map[string]any, error) {
	v := staticValue(spec)

	var payload any
	switch {
	case v.Evaluation != nil:
		payload = v.Evaluation
	case v.Feedback != nil:
		payload = v.Feedback
	case v.Resume != nil:
		payload = v.Resume
	default:
		return nil, errors.New("kind has no object default")
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	doc := map[string]any{}
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, err
	}
	return doc, nil
}

func runStatic(_ context.Context, spec *PromptSpec) (*Output, error) {
	return &Output{Value: staticValue(spec), Tier: TierStatic}, nil
}

// itemMeta returns the metadata for question i, falling back to the planned rotation
func (s *PromptSpec) itemMeta(i int) types.GeneratedQuestion {
	if i < len(s.items) && s.items[i].Question != nil {
		return copyQuestion(*s.items[i].Question)
	}
	return PlannedQuestion(i, s.count)
}

func questionFromText(text string, meta types.GeneratedQuestion) types.GeneratedQuestion {
	meta.Question = text
	return parsing.NormalizeQuestion(meta)
}
