// Package generation obtains validated structured data from an unreliable completion gateway.
//
// A Cascade runs an ordered list of tiers, from a full structured prompt down to
// static canned content, and returns the first schema-conformant result. Gateway
// and parse failures demote to the next tier and never reach the caller.
package generation

import (
	"fmt"

	"github.com/jonathan/interview-coach/internal/llm"
	"github.com/jonathan/interview-coach/internal/parsing"
	"github.com/jonathan/interview-coach/internal/schemas"
	"github.com/jonathan/interview-coach/internal/types"
)

// ItemFormat says how a single-item response is read
type ItemFormat string

// Item formats
const (
	FormatText   ItemFormat = "text"
	FormatNumber ItemFormat = "number"
	FormatList   ItemFormat = "list"
)

// ItemPrompt is one minimal prompt used by the per-item tier.
// For question lists each item is one question and Question carries its metadata;
// for object kinds each item fills the document field named by Field.
type ItemPrompt struct {
	Field    string
	Prompt   string
	Format   ItemFormat
	Question *types.GeneratedQuestion
}

// Fallback is the context the static tier uses to tailor canned content
type Fallback struct {
	RoleTitle  string
	Skills     []string
	Question   string
	Answer     string
	ResumeText string
}

// SpecParams holds the inputs to NewPromptSpec
type SpecParams struct {
	Kind                schemas.Kind
	Instruction         string
	FreeFormInstruction string
	Items               []ItemPrompt
	Count               int
	Tier                llm.ModelTier
	MaxOutputTokens     int32
	ItemMaxTokens       int32
	Fallback            Fallback
}

// PromptSpec is an instruction plus the schema its output must satisfy. Immutable once built.
type PromptSpec struct {
	kind          schemas.Kind
	instruction   string
	freeForm      string
	items         []ItemPrompt
	count         int
	tier          llm.ModelTier
	maxTokens     int32
	itemMaxTokens int32
	fallback      Fallback
}

// NewPromptSpec validates params and returns an immutable spec.
// An unsupported kind, or a question list with fewer than one question,
// is a *schemas.SchemaMisconfigurationError.
func NewPromptSpec(p SpecParams) (*PromptSpec, error) {
	if err := p.Kind.Validate(); err != nil {
		return nil, err
	}
	if p.Kind.IsList() && p.Count < 1 {
		return nil, &schemas.SchemaMisconfigurationError{
			Kind:    p.Kind,
			Message: fmt.Sprintf("question count must be at least 1, got %d", p.Count),
		}
	}
	if !p.Kind.IsList() {
		p.Count = 1
	}
	if p.Tier == "" {
		p.Tier = llm.TierStandard
	}

	items := make([]ItemPrompt, len(p.Items))
	for i, item := range p.Items {
		if item.Question != nil {
			q := *item.Question
			q.ExpectedKeywords = append([]string(nil), q.ExpectedKeywords...)
			item.Question = &q
		}
		items[i] = item
	}

	fb := p.Fallback
	fb.Skills = append([]string(nil), fb.Skills...)

	return &PromptSpec{
		kind:          p.Kind,
		instruction:   p.Instruction,
		freeForm:      p.FreeFormInstruction,
		items:         items,
		count:         p.Count,
		tier:          p.Tier,
		maxTokens:     p.MaxOutputTokens,
		itemMaxTokens: p.ItemMaxTokens,
		fallback:      fb,
	}, nil
}

// Kind returns the declared output schema
func (s *PromptSpec) Kind() schemas.Kind { return s.kind }

// Instruction returns the structured prompt
func (s *PromptSpec) Instruction() string { return s.instruction }

// Count returns the number of questions requested (1 for object kinds)
func (s *PromptSpec) Count() int { return s.count }

// Items returns a copy of the per-item prompts
func (s *PromptSpec) Items() []ItemPrompt {
	return append([]ItemPrompt(nil), s.items...)
}

// TierName identifies which tier produced an output
type TierName string

// Tier names in cascade order
const (
	TierStructured TierName = "structured"
	TierFreeForm   TierName = "free_form"
	TierPerItem    TierName = "per_item"
	TierStatic     TierName = "static"
)

// Output is a validated value together with the tier that produced it
type Output struct {
	parsing.Value
	Tier TierName
}
