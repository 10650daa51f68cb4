// Package contextwindow assembles a bounded-size context block from an
// oversupply of candidate records: per-category token budgeting, composite
// importance/recency selection, lost-in-the-middle arrangement, and
// rendering. The whole package is pure computation — no I/O, no shared
// state, safe for concurrent callers.
package contextwindow

// Category is one of the four content kinds, each with its own budget
// allocation and selection pass.
type Category string

const (
	CategoryMessage  Category = "message"
	CategoryMemory   Category = "memory"
	CategoryLearning Category = "learning"
	CategoryEntity   Category = "entity"
)

// Categories lists all categories in their fixed window order: memories
// first, conversation last (most time-sensitive content closest to the end
// of the prompt).
var Categories = []Category{CategoryMemory, CategoryLearning, CategoryEntity, CategoryMessage}

const (
	// DefaultSystemPromptReserve is held back for the system prompt.
	DefaultSystemPromptReserve = 2000
	// DefaultSafetyReserve is held back as headroom against estimator error.
	DefaultSafetyReserve = 4000
	// DefaultModelContextSize is assumed for unknown model names.
	DefaultModelContextSize = 128000
)

// Default category shares: 40% conversation, 30% memories, 20% learnings,
// 10% entities.
var defaultPercentages = map[Category]float64{
	CategoryMessage:  0.40,
	CategoryMemory:   0.30,
	CategoryLearning: 0.20,
	CategoryEntity:   0.10,
}

// modelContextSizes maps known model identifiers to their total context
// size. Unknown names fall back to DefaultModelContextSize.
var modelContextSizes = map[string]int{
	"claude-opus-4":     200000,
	"claude-sonnet-4":   200000,
	"claude-3-5-sonnet": 200000,
	"claude-3-5-haiku":  200000,
	"gpt-4o":            128000,
	"gpt-4o-mini":       128000,
	"gpt-4-turbo":       128000,
	"o1":                128000,
	"gpt-3.5-turbo":     16384,
}

// ContextBudget is the resolved token allocation for one window build.
// Invariant: SystemPromptReserve + SafetyReserve + Σ PerCategory ≤ Total.
type ContextBudget struct {
	Total               int
	SystemPromptReserve int
	SafetyReserve       int
	PerCategory         map[Category]int
}

// BudgetOptions configures NewBudget. Zero-valued fields take defaults;
// Percentages missing a category gets that category's default share.
type BudgetOptions struct {
	Total               int
	SystemPromptReserve int
	SafetyReserve       int
	Percentages         map[Category]float64
}

// CategoryCounts carries per-category candidate counts for adaptive budgets.
type CategoryCounts struct {
	Messages  int
	Memories  int
	Learnings int
	Entities  int
}

func (c CategoryCounts) total() int {
	return c.Messages + c.Memories + c.Learnings + c.Entities
}

// NewBudget allocates per-category ceilings from fixed percentages of the
// tokens remaining after the system-prompt and safety reserves. Percentages
// are applied against the post-reserve pool, never against the raw total.
func NewBudget(opts BudgetOptions) ContextBudget {
	b := ContextBudget{
		Total:               opts.Total,
		SystemPromptReserve: opts.SystemPromptReserve,
		SafetyReserve:       opts.SafetyReserve,
		PerCategory:         make(map[Category]int, len(Categories)),
	}
	if b.SystemPromptReserve == 0 {
		b.SystemPromptReserve = DefaultSystemPromptReserve
	}
	if b.SafetyReserve == 0 {
		b.SafetyReserve = DefaultSafetyReserve
	}

	available := b.available()
	for _, cat := range Categories {
		pct, ok := opts.Percentages[cat]
		if !ok {
			pct = defaultPercentages[cat]
		}
		b.PerCategory[cat] = int(float64(available) * pct)
	}
	return b
}

// NewAdaptiveBudget sizes each category's share by its proportion of the
// total candidate count: categories with no candidates get no tokens. When
// all counts are zero the fixed default split applies.
func NewAdaptiveBudget(total int, counts CategoryCounts) ContextBudget {
	sum := counts.total()
	if sum == 0 {
		return NewBudget(BudgetOptions{Total: total})
	}

	shares := map[Category]float64{
		CategoryMessage:  float64(counts.Messages) / float64(sum),
		CategoryMemory:   float64(counts.Memories) / float64(sum),
		CategoryLearning: float64(counts.Learnings) / float64(sum),
		CategoryEntity:   float64(counts.Entities) / float64(sum),
	}
	return NewBudget(BudgetOptions{Total: total, Percentages: shares})
}

// BudgetForModel resolves a model name to its context size and runs the
// fixed-percentage allocator. Unknown names degrade to the documented
// default rather than failing.
func BudgetForModel(name string) ContextBudget {
	size, ok := modelContextSizes[name]
	if !ok {
		size = DefaultModelContextSize
	}
	return NewBudget(BudgetOptions{Total: size})
}

// available is the pool the category percentages apply to.
func (b ContextBudget) available() int {
	avail := b.Total - b.SystemPromptReserve - b.SafetyReserve
	if avail < 0 {
		return 0
	}
	return avail
}

// For returns the ceiling for one category.
func (b ContextBudget) For(cat Category) int {
	return b.PerCategory[cat]
}
