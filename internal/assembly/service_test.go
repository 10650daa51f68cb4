package assembly

import (
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"testing"

	"github.com/hollis-dev/attic/internal/config"
	"github.com/hollis-dev/attic/internal/models"
	"github.com/hollis-dev/attic/internal/store"
)

func setupTestService(t *testing.T) *Service {
	t.Helper()

	db, err := store.Open(filepath.Join(t.TempDir(), "attic.db"))
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	cfg := &config.Config{
		DefaultModel:     "claude-sonnet-4",
		ImportanceWeight: 0.6,
		RecencyWeight:    0.4,
		MaxMessages:      200,
		MaxMemories:      100,
		MaxLearnings:     50,
		MaxEntities:      50,
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	return NewService(
		store.NewMessageStore(db),
		store.NewMemoryStore(db),
		store.NewLearningStore(db),
		store.NewEntityStore(db),
		cfg,
		logger,
	)
}

func TestLogMessage(t *testing.T) {
	svc := setupTestService(t)

	t.Run("stores and returns id", func(t *testing.T) {
		resp, err := svc.LogMessage("sess-1", &models.LogMessageRequest{
			Role:    models.RoleUser,
			Content: "set up the staging environment",
		})
		if err != nil {
			t.Fatalf("LogMessage: %v", err)
		}
		if resp.ID == "" {
			t.Fatal("expected non-empty id")
		}

		msgs, err := svc.ListMessages("sess-1", 10)
		if err != nil {
			t.Fatalf("ListMessages: %v", err)
		}
		if len(msgs) != 1 {
			t.Fatalf("expected 1 message, got %d", len(msgs))
		}
		if msgs[0].Content != "set up the staging environment" {
			t.Errorf("unexpected content %q", msgs[0].Content)
		}
	})

	t.Run("skips wholly private content", func(t *testing.T) {
		resp, err := svc.LogMessage("sess-1", &models.LogMessageRequest{
			Role:    models.RoleUser,
			Content: "<private>api key is hunter2</private>",
		})
		if err != nil {
			t.Fatalf("LogMessage: %v", err)
		}
		if !resp.Skipped {
			t.Error("expected Skipped for all-private content")
		}
	})

	t.Run("strips private spans from mixed content", func(t *testing.T) {
		_, err := svc.LogMessage("sess-2", &models.LogMessageRequest{
			Role:    models.RoleUser,
			Content: "deploy it <private>with the prod token</private> today",
		})
		if err != nil {
			t.Fatalf("LogMessage: %v", err)
		}
		msgs, err := svc.ListMessages("sess-2", 10)
		if err != nil {
			t.Fatalf("ListMessages: %v", err)
		}
		if strings.Contains(msgs[0].Content, "prod token") {
			t.Errorf("private span leaked into stored content: %q", msgs[0].Content)
		}
	})

	t.Run("empty role defaults to user", func(t *testing.T) {
		_, err := svc.LogMessage("sess-3", &models.LogMessageRequest{Content: "hello"})
		if err != nil {
			t.Fatalf("LogMessage: %v", err)
		}
		msgs, _ := svc.ListMessages("sess-3", 10)
		if msgs[0].Role != models.RoleUser {
			t.Errorf("expected role user, got %q", msgs[0].Role)
		}
	})
}

func TestStoreMemory(t *testing.T) {
	svc := setupTestService(t)

	resp, err := svc.StoreMemory(&models.StoreMemoryRequest{
		Content:    "user prefers tabs over spaces",
		Category:   "preference",
		Importance: 0.9,
	})
	if err != nil {
		t.Fatalf("StoreMemory: %v", err)
	}
	if resp.ID == "" {
		t.Fatal("expected non-empty id")
	}

	mems, err := svc.ListMemories(10)
	if err != nil {
		t.Fatalf("ListMemories: %v", err)
	}
	if len(mems) != 1 || mems[0].Importance != 0.9 {
		t.Fatalf("unexpected memories: %+v", mems)
	}

	t.Run("zero importance gets default", func(t *testing.T) {
		_, err := svc.StoreMemory(&models.StoreMemoryRequest{Content: "likes short answers"})
		if err != nil {
			t.Fatalf("StoreMemory: %v", err)
		}
		mems, _ := svc.ListMemories(10)
		for _, m := range mems {
			if m.Content == "likes short answers" && m.Importance != 0.5 {
				t.Errorf("expected default importance 0.5, got %v", m.Importance)
			}
		}
	})
}

func TestStoreLearning(t *testing.T) {
	svc := setupTestService(t)

	t.Run("invalid severity degrades to medium", func(t *testing.T) {
		_, err := svc.StoreLearning(&models.StoreLearningRequest{
			Trigger:  "build fails",
			Lesson:   "check the lockfile first",
			Severity: "catastrophic",
		})
		if err != nil {
			t.Fatalf("StoreLearning: %v", err)
		}
		ls, err := svc.ListLearnings(10)
		if err != nil {
			t.Fatalf("ListLearnings: %v", err)
		}
		if ls[0].Severity != models.SeverityMedium {
			t.Errorf("expected medium, got %q", ls[0].Severity)
		}
	})

	t.Run("explicit importance round-trips", func(t *testing.T) {
		imp := 0.95
		_, err := svc.StoreLearning(&models.StoreLearningRequest{
			Trigger:    "flaky test",
			Lesson:     "rerun before blaming the change",
			Severity:   models.SeverityLow,
			Importance: &imp,
		})
		if err != nil {
			t.Fatalf("StoreLearning: %v", err)
		}
		ls, _ := svc.ListLearnings(10)
		found := false
		for _, l := range ls {
			if l.Trigger == "flaky test" {
				found = true
				if l.Importance == nil || *l.Importance != 0.95 {
					t.Errorf("expected importance 0.95, got %v", l.Importance)
				}
			}
		}
		if !found {
			t.Fatal("stored learning not listed")
		}
	})
}

func TestTrackEntity(t *testing.T) {
	svc := setupTestService(t)

	first, err := svc.TrackEntity(&models.TrackEntityRequest{
		Name: "billing-service", Type: "repo", Description: "the billing backend",
	})
	if err != nil {
		t.Fatalf("TrackEntity: %v", err)
	}
	second, err := svc.TrackEntity(&models.TrackEntityRequest{
		Name: "billing-service", Type: "repo",
	})
	if err != nil {
		t.Fatalf("TrackEntity repeat: %v", err)
	}
	if first.ID != second.ID {
		t.Errorf("repeat mention created new entity: %q vs %q", first.ID, second.ID)
	}

	ents, err := svc.ListEntities(10)
	if err != nil {
		t.Fatalf("ListEntities: %v", err)
	}
	if len(ents) != 1 {
		t.Fatalf("expected 1 entity, got %d", len(ents))
	}
	if ents[0].MentionCount != 2 {
		t.Errorf("expected mention count 2, got %d", ents[0].MentionCount)
	}
	if ents[0].Description != "the billing backend" {
		t.Errorf("description lost on repeat mention: %q", ents[0].Description)
	}
}

func TestBuildContext(t *testing.T) {
	svc := setupTestService(t)

	if _, err := svc.LogMessage("sess-1", &models.LogMessageRequest{
		Role: models.RoleUser, Content: "what did we decide about retries",
	}); err != nil {
		t.Fatalf("seed message: %v", err)
	}
	if _, err := svc.StoreMemory(&models.StoreMemoryRequest{
		Content: "retries capped at three with exponential backoff", Category: "decision", Importance: 0.9,
	}); err != nil {
		t.Fatalf("seed memory: %v", err)
	}
	if _, err := svc.StoreLearning(&models.StoreLearningRequest{
		Trigger: "timeout storm", Lesson: "add jitter", Severity: models.SeverityHigh,
	}); err != nil {
		t.Fatalf("seed learning: %v", err)
	}
	if _, err := svc.TrackEntity(&models.TrackEntityRequest{
		Name: "payments-api", Type: "service",
	}); err != nil {
		t.Fatalf("seed entity: %v", err)
	}

	t.Run("includes all seeded records under a roomy budget", func(t *testing.T) {
		resp, err := svc.BuildContext(&models.BuildContextRequest{SessionID: "sess-1"})
		if err != nil {
			t.Fatalf("BuildContext: %v", err)
		}
		if len(resp.Items) != 4 {
			t.Fatalf("expected 4 items, got %d", len(resp.Items))
		}
		if resp.Truncated {
			t.Error("unexpected truncation under default budget")
		}
		if resp.Text == "" {
			t.Error("expected rendered text")
		}
		if resp.Stats.TotalItems != 4 {
			t.Errorf("stats disagree with items: %d", resp.Stats.TotalItems)
		}
	})

	t.Run("explicit total overrides model preset", func(t *testing.T) {
		resp, err := svc.BuildContext(&models.BuildContextRequest{
			SessionID: "sess-1", Model: "claude-opus-4", TotalTokens: 50000,
		})
		if err != nil {
			t.Fatalf("BuildContext: %v", err)
		}
		if resp.Budget.Total != 50000 {
			t.Errorf("expected total 50000, got %d", resp.Budget.Total)
		}
	})

	t.Run("model preset resolves the total", func(t *testing.T) {
		resp, err := svc.BuildContext(&models.BuildContextRequest{
			SessionID: "sess-1", Model: "gpt-3.5-turbo",
		})
		if err != nil {
			t.Fatalf("BuildContext: %v", err)
		}
		if resp.Budget.Total != 16384 {
			t.Errorf("expected total 16384, got %d", resp.Budget.Total)
		}
	})

	t.Run("adaptive splits available by candidate counts", func(t *testing.T) {
		resp, err := svc.BuildContext(&models.BuildContextRequest{
			SessionID: "sess-1", TotalTokens: 106000, Adaptive: true,
		})
		if err != nil {
			t.Fatalf("BuildContext: %v", err)
		}
		// One candidate in each of the four categories: equal shares of
		// the 100000 available after reserves.
		for cat, ceiling := range resp.Budget.PerCategory {
			if ceiling != 25000 {
				t.Errorf("category %s: expected 25000, got %d", cat, ceiling)
			}
		}
	})

	t.Run("grouped rendering carries headings", func(t *testing.T) {
		resp, err := svc.BuildContext(&models.BuildContextRequest{
			SessionID: "sess-1", GroupByType: true,
		})
		if err != nil {
			t.Fatalf("BuildContext: %v", err)
		}
		for _, heading := range []string{"## Memories", "## Learnings", "## Entities", "## Conversation"} {
			if !strings.Contains(resp.Text, heading) {
				t.Errorf("grouped text missing %q", heading)
			}
		}
	})

	t.Run("no session id builds from stores only", func(t *testing.T) {
		resp, err := svc.BuildContext(&models.BuildContextRequest{})
		if err != nil {
			t.Fatalf("BuildContext: %v", err)
		}
		for _, it := range resp.Items {
			if it.Category == "message" {
				t.Error("message item present without a session")
			}
		}
	})
}

func TestPreviewBudget(t *testing.T) {
	svc := setupTestService(t)

	t.Run("known model", func(t *testing.T) {
		b := svc.PreviewBudget("claude-opus-4")
		if b.Total != 200000 {
			t.Errorf("expected 200000, got %d", b.Total)
		}
	})

	t.Run("unknown model falls back", func(t *testing.T) {
		b := svc.PreviewBudget("mystery-model")
		if b.Total != 128000 {
			t.Errorf("expected 128000, got %d", b.Total)
		}
	})

	t.Run("empty model uses configured default", func(t *testing.T) {
		b := svc.PreviewBudget("")
		if b.Total != 200000 {
			t.Errorf("expected 200000 for claude-sonnet-4, got %d", b.Total)
		}
	})
}
