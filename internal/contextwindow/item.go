package contextwindow

import (
	"fmt"
	"strings"
	"time"

	"github.com/hollis-dev/attic/internal/models"
	"github.com/hollis-dev/attic/internal/tokens"
)

// Default importances for conversation roles. User turns outrank the
// assistant's own prior output because user intent is the stronger signal
// for what the next response needs.
const (
	userMessageImportance      = 0.8
	assistantMessageImportance = 0.6
)

// entityFallbackImportance applies when no entity in the candidate set has
// any recorded mentions, so relative frequency carries no information.
const entityFallbackImportance = 0.5

// ContextItem is the uniform shape every source record normalizes into.
// TokenCount is always derived from Text at construction time, never
// supplied by the caller. Items are built once per window build and
// discarded with it.
type ContextItem struct {
	Category   Category
	Text       string
	Importance float64
	Timestamp  time.Time
	TokenCount int
}

// NormalizeMessages converts conversation turns into context items.
// Missing roles default to assistant weight; a zero CreatedAt degrades to
// the epoch rather than failing.
func NormalizeMessages(msgs []*models.Message) []ContextItem {
	items := make([]ContextItem, 0, len(msgs))
	for _, m := range msgs {
		if m == nil {
			continue
		}
		role := string(m.Role)
		if role == "" {
			role = string(models.RoleAssistant)
		}
		importance := assistantMessageImportance
		if m.Role == models.RoleUser {
			importance = userMessageImportance
		}
		text := fmt.Sprintf("%s: %s", role, m.Content)
		items = append(items, newItem(CategoryMessage, text, importance, m.CreatedAt))
	}
	return items
}

// NormalizeMemories converts stored facts into context items. Importance is
// the record's own stored value, unmodified.
func NormalizeMemories(mems []*models.Memory) []ContextItem {
	items := make([]ContextItem, 0, len(mems))
	for _, m := range mems {
		if m == nil {
			continue
		}
		text := m.Content
		if m.Category != "" {
			text = fmt.Sprintf("[%s] %s", m.Category, m.Content)
		}
		items = append(items, newItem(CategoryMemory, text, m.Importance, m.CreatedAt))
	}
	return items
}

// NormalizeLearnings converts self-improvement notes into context items.
// An explicit stored importance wins; otherwise the severity tier supplies
// a monotonic default, and unknown severities land on the medium tier.
func NormalizeLearnings(ls []*models.Learning) []ContextItem {
	items := make([]ContextItem, 0, len(ls))
	for _, l := range ls {
		if l == nil {
			continue
		}
		importance := models.SeverityImportance[models.SeverityMedium]
		if l.Importance != nil {
			importance = *l.Importance
		} else if v, ok := models.SeverityImportance[l.Severity]; ok {
			importance = v
		}

		var sb strings.Builder
		if l.Trigger != "" {
			sb.WriteString("When ")
			sb.WriteString(l.Trigger)
			sb.WriteString(": ")
		}
		sb.WriteString(l.Lesson)
		items = append(items, newItem(CategoryLearning, sb.String(), importance, l.CreatedAt))
	}
	return items
}

// NormalizeEntities converts extracted entities into context items.
// Importance is mention frequency normalized against the most-mentioned
// entity in the candidate set, so scores are relative to this build only.
func NormalizeEntities(ents []*models.Entity) []ContextItem {
	maxMentions := 0
	for _, e := range ents {
		if e != nil && e.MentionCount > maxMentions {
			maxMentions = e.MentionCount
		}
	}

	items := make([]ContextItem, 0, len(ents))
	for _, e := range ents {
		if e == nil {
			continue
		}
		importance := entityFallbackImportance
		if maxMentions > 0 {
			importance = float64(e.MentionCount) / float64(maxMentions)
		}

		text := e.Name
		if e.Type != "" {
			text = fmt.Sprintf("%s (%s)", e.Name, e.Type)
		}
		if e.Description != "" {
			text += ": " + e.Description
		}
		items = append(items, newItem(CategoryEntity, text, importance, e.LastSeenAt))
	}
	return items
}

func newItem(cat Category, text string, importance float64, unixTime int64) ContextItem {
	return ContextItem{
		Category:   cat,
		Text:       text,
		Importance: clamp01(importance),
		Timestamp:  time.Unix(unixTime, 0).UTC(),
		TokenCount: tokens.Estimate(text),
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
