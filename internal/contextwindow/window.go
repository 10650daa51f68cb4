package contextwindow

import (
	"strings"

	"github.com/hollis-dev/attic/internal/models"
)

// WindowInputs carries the already-fetched candidate records for one build.
// Retrieval is the caller's concern; the engine only ranks, packs, and
// renders.
type WindowInputs struct {
	Messages  []*models.Message
	Memories  []*models.Memory
	Learnings []*models.Learning
	Entities  []*models.Entity
}

// Counts reports per-category candidate counts, the input to adaptive
// budgeting.
func (in WindowInputs) Counts() CategoryCounts {
	return CategoryCounts{
		Messages:  len(in.Messages),
		Memories:  len(in.Memories),
		Learnings: len(in.Learnings),
		Entities:  len(in.Entities),
	}
}

// BuildOptions tunes one window build.
type BuildOptions struct {
	Weights Weights
	// UseLostInMiddleFix reorders the final sequence edge-first. Nil means
	// enabled (the default); it exists as a pointer so callers can turn the
	// fix off explicitly.
	UseLostInMiddleFix *bool
}

func (o BuildOptions) lostInMiddle() bool {
	return o.UseLostInMiddleFix == nil || *o.UseLostInMiddleFix
}

func (o BuildOptions) weights() Weights {
	if o.Weights == (Weights{}) {
		return DefaultWeights
	}
	return o.Weights
}

// ContextWindow is the terminal artifact of one build. Item order is
// significant; the window owns its items and references (does not own) its
// budget.
type ContextWindow struct {
	Items       []ContextItem
	TotalTokens int
	Budget      ContextBudget
	// Truncated is true iff at least one candidate was excluded solely
	// because it did not fit its category's ceiling.
	Truncated bool
}

// WindowStats is a pure on-demand derivation over a window; never stored.
type WindowStats struct {
	TotalItems      int
	TotalTokens     int
	ItemsByCategory map[Category]int
	BudgetUsed      float64
	BudgetRemaining int
	Truncated       bool
}

// FormatOptions controls rendering.
type FormatOptions struct {
	// GroupByType renders fixed-order category headings, each followed by
	// that category's items filtered from the window — grouping never
	// reorders items within a category.
	GroupByType bool
}

var categoryHeadings = map[Category]string{
	CategoryMemory:   "## Memories",
	CategoryLearning: "## Learnings",
	CategoryEntity:   "## Entities",
	CategoryMessage:  "## Conversation",
}

// BuildWindow runs the full pipeline: normalize each record kind, select
// per category against that category's own ceiling (never the shared total,
// so one category's uniformly high scores cannot starve the rest),
// concatenate in fixed order — memories, learnings, entities, then
// conversation — and optionally arrange the whole sequence for
// lost-in-the-middle mitigation.
func BuildWindow(inputs WindowInputs, budget ContextBudget, opts BuildOptions) ContextWindow {
	w := opts.weights()

	selections := map[Category]Selection{
		CategoryMemory:   SelectItems(NormalizeMemories(inputs.Memories), budget.For(CategoryMemory), w),
		CategoryLearning: SelectItems(NormalizeLearnings(inputs.Learnings), budget.For(CategoryLearning), w),
		CategoryEntity:   SelectItems(NormalizeEntities(inputs.Entities), budget.For(CategoryEntity), w),
		CategoryMessage:  SelectItems(NormalizeMessages(inputs.Messages), budget.For(CategoryMessage), w),
	}

	win := ContextWindow{Budget: budget}
	for _, cat := range Categories {
		sel := selections[cat]
		win.Items = append(win.Items, sel.Items...)
		win.TotalTokens += sel.TotalTokens
		if sel.Excluded > 0 {
			win.Truncated = true
		}
	}

	if opts.lostInMiddle() {
		win.Items = ArrangeForLostInMiddle(win.Items)
	}
	return win
}

// FormatWindow renders the window to the text block spliced into a prompt:
// one line per item in window order, or category-grouped sections when
// GroupByType is set.
func FormatWindow(win ContextWindow, opts FormatOptions) string {
	if len(win.Items) == 0 {
		return ""
	}

	var sb strings.Builder
	if !opts.GroupByType {
		for _, it := range win.Items {
			sb.WriteString(it.Text)
			sb.WriteString("\n")
		}
		return sb.String()
	}

	for _, cat := range Categories {
		var lines []string
		for _, it := range win.Items {
			if it.Category == cat {
				lines = append(lines, it.Text)
			}
		}
		if len(lines) == 0 {
			continue
		}
		sb.WriteString(categoryHeadings[cat])
		sb.WriteString("\n")
		for _, l := range lines {
			sb.WriteString(l)
			sb.WriteString("\n")
		}
		sb.WriteString("\n")
	}
	return strings.TrimRight(sb.String(), "\n") + "\n"
}

// Stats derives window statistics. No failure modes.
func Stats(win ContextWindow) WindowStats {
	byCategory := make(map[Category]int, len(Categories))
	for _, it := range win.Items {
		byCategory[it.Category]++
	}

	used := 0.0
	if win.Budget.Total > 0 {
		used = float64(win.TotalTokens) / float64(win.Budget.Total)
	}

	return WindowStats{
		TotalItems:      len(win.Items),
		TotalTokens:     win.TotalTokens,
		ItemsByCategory: byCategory,
		BudgetUsed:      used,
		BudgetRemaining: win.Budget.Total - win.TotalTokens,
		Truncated:       win.Truncated,
	}
}
