package contextwindow

import (
	"strings"
	"testing"
	"time"

	"github.com/hollis-dev/attic/internal/models"
	"github.com/hollis-dev/attic/internal/tokens"
)

func TestNormalizeMessages(t *testing.T) {
	now := time.Now().Unix()

	t.Run("user turns outrank assistant turns", func(t *testing.T) {
		items := NormalizeMessages([]*models.Message{
			{Role: models.RoleUser, Content: "deploy the staging build", CreatedAt: now},
			{Role: models.RoleAssistant, Content: "staging build deployed", CreatedAt: now},
		})
		if len(items) != 2 {
			t.Fatalf("expected 2 items, got %d", len(items))
		}
		if items[0].Importance != 0.8 {
			t.Fatalf("expected user importance 0.8, got %v", items[0].Importance)
		}
		if items[1].Importance != 0.6 {
			t.Fatalf("expected assistant importance 0.6, got %v", items[1].Importance)
		}
	})

	t.Run("renders role prefix", func(t *testing.T) {
		items := NormalizeMessages([]*models.Message{
			{Role: models.RoleUser, Content: "hello", CreatedAt: now},
		})
		if items[0].Text != "user: hello" {
			t.Fatalf("unexpected text: %q", items[0].Text)
		}
	})

	t.Run("token count derived from text", func(t *testing.T) {
		content := strings.Repeat("word ", 40)
		items := NormalizeMessages([]*models.Message{
			{Role: models.RoleUser, Content: content, CreatedAt: now},
		})
		if items[0].TokenCount != tokens.Estimate(items[0].Text) {
			t.Fatalf("token count %d does not match estimator %d",
				items[0].TokenCount, tokens.Estimate(items[0].Text))
		}
	})

	t.Run("nil entries are skipped", func(t *testing.T) {
		items := NormalizeMessages([]*models.Message{nil, {Role: models.RoleUser, Content: "x", CreatedAt: now}})
		if len(items) != 1 {
			t.Fatalf("expected 1 item, got %d", len(items))
		}
	})
}

func TestNormalizeMemories(t *testing.T) {
	t.Run("stored importance passes through unmodified", func(t *testing.T) {
		items := NormalizeMemories([]*models.Memory{
			{Content: "prefers tabs", Category: "preference", Importance: 0.42},
		})
		if items[0].Importance != 0.42 {
			t.Fatalf("expected 0.42, got %v", items[0].Importance)
		}
		if items[0].Text != "[preference] prefers tabs" {
			t.Fatalf("unexpected text: %q", items[0].Text)
		}
	})

	t.Run("missing category degrades to bare content", func(t *testing.T) {
		items := NormalizeMemories([]*models.Memory{{Content: "plain fact", Importance: 0.5}})
		if items[0].Text != "plain fact" {
			t.Fatalf("unexpected text: %q", items[0].Text)
		}
	})

	t.Run("importance clamped to unit interval", func(t *testing.T) {
		items := NormalizeMemories([]*models.Memory{{Content: "x", Importance: 3.0}})
		if items[0].Importance != 1.0 {
			t.Fatalf("expected clamp to 1.0, got %v", items[0].Importance)
		}
	})
}

func TestNormalizeLearnings(t *testing.T) {
	t.Run("severity tiers are monotonic", func(t *testing.T) {
		mk := func(sev models.Severity) float64 {
			items := NormalizeLearnings([]*models.Learning{{Lesson: "l", Severity: sev}})
			return items[0].Importance
		}
		crit, high, med, low := mk(models.SeverityCritical), mk(models.SeverityHigh), mk(models.SeverityMedium), mk(models.SeverityLow)
		if !(crit > high && high > med && med > low) {
			t.Fatalf("severity importances not monotonic: %v %v %v %v", crit, high, med, low)
		}
	})

	t.Run("explicit importance overrides severity", func(t *testing.T) {
		imp := 0.33
		items := NormalizeLearnings([]*models.Learning{
			{Lesson: "l", Severity: models.SeverityCritical, Importance: &imp},
		})
		if items[0].Importance != 0.33 {
			t.Fatalf("expected 0.33, got %v", items[0].Importance)
		}
	})

	t.Run("unknown severity defaults to medium tier", func(t *testing.T) {
		items := NormalizeLearnings([]*models.Learning{{Lesson: "l", Severity: "bogus"}})
		if items[0].Importance != models.SeverityImportance[models.SeverityMedium] {
			t.Fatalf("expected medium default, got %v", items[0].Importance)
		}
	})

	t.Run("trigger and lesson render together", func(t *testing.T) {
		items := NormalizeLearnings([]*models.Learning{
			{Trigger: "tests flake on CI", Lesson: "pin the clock in time-sensitive tests", Severity: models.SeverityHigh},
		})
		want := "When tests flake on CI: pin the clock in time-sensitive tests"
		if items[0].Text != want {
			t.Fatalf("unexpected text: %q", items[0].Text)
		}
	})
}

func TestNormalizeEntities(t *testing.T) {
	t.Run("importance is mention frequency normalized to the set", func(t *testing.T) {
		items := NormalizeEntities([]*models.Entity{
			{Name: "redis", Type: "service", MentionCount: 10},
			{Name: "minio", Type: "service", MentionCount: 5},
		})
		if items[0].Importance != 1.0 {
			t.Fatalf("expected 1.0 for most-mentioned, got %v", items[0].Importance)
		}
		if items[1].Importance != 0.5 {
			t.Fatalf("expected 0.5, got %v", items[1].Importance)
		}
	})

	t.Run("zero mentions across the set falls back to midpoint", func(t *testing.T) {
		items := NormalizeEntities([]*models.Entity{{Name: "x"}, {Name: "y"}})
		for _, it := range items {
			if it.Importance != 0.5 {
				t.Fatalf("expected 0.5 fallback, got %v", it.Importance)
			}
		}
	})

	t.Run("text carries name, type, and description", func(t *testing.T) {
		items := NormalizeEntities([]*models.Entity{
			{Name: "redis", Type: "service", Description: "session cache", MentionCount: 1},
		})
		if items[0].Text != "redis (service): session cache" {
			t.Fatalf("unexpected text: %q", items[0].Text)
		}
	})
}
