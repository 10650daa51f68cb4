package contextwindow

import (
	"fmt"
	"reflect"
	"testing"
	"time"
)

func testItem(text string, importance float64, age time.Duration, tokenCount int, now time.Time) ContextItem {
	return ContextItem{
		Category:   CategoryMemory,
		Text:       text,
		Importance: importance,
		Timestamp:  now.Add(-age),
		TokenCount: tokenCount,
	}
}

func TestRecencyScore(t *testing.T) {
	now := time.Now().UTC()

	t.Run("fresh items score near one", func(t *testing.T) {
		if got := RecencyScore(now, now); got != 1.0 {
			t.Fatalf("expected 1.0, got %v", got)
		}
	})

	t.Run("older items score lower", func(t *testing.T) {
		young := RecencyScore(now.Add(-time.Hour), now)
		old := RecencyScore(now.Add(-72*time.Hour), now)
		if young <= old {
			t.Fatalf("expected decay: young %v <= old %v", young, old)
		}
		if old > 0.1 {
			t.Fatalf("expected three-day-old item near zero, got %v", old)
		}
	})

	t.Run("future timestamps clamp to one", func(t *testing.T) {
		if got := RecencyScore(now.Add(time.Hour), now); got != 1.0 {
			t.Fatalf("expected clamp to 1.0, got %v", got)
		}
	})
}

func TestSelectItems(t *testing.T) {
	now := time.Now().UTC()
	w := Weights{Importance: 0.7, Recency: 0.3}

	t.Run("budget respected", func(t *testing.T) {
		var items []ContextItem
		for i := 0; i < 20; i++ {
			items = append(items, testItem(fmt.Sprintf("item-%d", i), 0.5, time.Duration(i)*time.Hour, 10+i, now))
		}
		sel := selectItemsAt(items, 100, w, now)
		if sel.TotalTokens > 100 {
			t.Fatalf("selection exceeds budget: %d", sel.TotalTokens)
		}
		sum := 0
		for _, it := range sel.Items {
			sum += it.TokenCount
		}
		if sum != sel.TotalTokens {
			t.Fatalf("TotalTokens %d disagrees with item sum %d", sel.TotalTokens, sum)
		}
	})

	t.Run("idempotent including tie-breaks", func(t *testing.T) {
		items := []ContextItem{
			testItem("a", 0.5, time.Hour, 10, now),
			testItem("b", 0.5, time.Hour, 10, now),
			testItem("c", 0.5, 2*time.Hour, 10, now),
			testItem("d", 0.9, 5*time.Hour, 10, now),
		}
		first := selectItemsAt(items, 40, w, now)
		second := selectItemsAt(items, 40, w, now)
		if !reflect.DeepEqual(first, second) {
			t.Fatal("identical inputs produced different selections")
		}
	})

	t.Run("three 25-token items against a 50-token budget", func(t *testing.T) {
		items := []ContextItem{
			testItem("low", 0.2, time.Hour, 25, now),
			testItem("high", 0.9, time.Hour, 25, now),
			testItem("mid", 0.6, time.Hour, 25, now),
		}
		sel := selectItemsAt(items, 50, w, now)
		if len(sel.Items) != 2 {
			t.Fatalf("expected exactly 2 items, got %d", len(sel.Items))
		}
		if sel.Items[0].Text != "high" || sel.Items[1].Text != "mid" {
			t.Fatalf("expected the 2 highest-composite items, got %q %q", sel.Items[0].Text, sel.Items[1].Text)
		}
		if sel.Excluded != 1 {
			t.Fatalf("expected 1 excluded, got %d", sel.Excluded)
		}
	})

	t.Run("overflow skips but keeps evaluating smaller items", func(t *testing.T) {
		items := []ContextItem{
			testItem("big-high", 0.9, time.Hour, 80, now),
			testItem("big-mid", 0.7, time.Hour, 50, now),
			testItem("small-low", 0.1, time.Hour, 10, now),
		}
		sel := selectItemsAt(items, 90, w, now)
		// big-high fits (80); big-mid would overflow (130) and is skipped;
		// small-low still fits (90).
		if len(sel.Items) != 2 {
			t.Fatalf("expected 2 items, got %d", len(sel.Items))
		}
		if sel.Items[0].Text != "big-high" || sel.Items[1].Text != "small-low" {
			t.Fatalf("unexpected selection: %q %q", sel.Items[0].Text, sel.Items[1].Text)
		}
	})

	t.Run("ties broken more-recent-first", func(t *testing.T) {
		// Equal importance; recency weight zero so composite scores tie exactly.
		wz := Weights{Importance: 1.0, Recency: 0}
		items := []ContextItem{
			testItem("older", 0.5, 10*time.Hour, 10, now),
			testItem("newer", 0.5, 1*time.Hour, 10, now),
		}
		sel := selectItemsAt(items, 10, wz, now)
		if len(sel.Items) != 1 || sel.Items[0].Text != "newer" {
			t.Fatalf("expected newer item to win the tie, got %+v", sel.Items)
		}
	})

	t.Run("recency weight can outrank importance", func(t *testing.T) {
		wr := Weights{Importance: 0.1, Recency: 0.9}
		items := []ContextItem{
			testItem("important-but-stale", 1.0, 96*time.Hour, 10, now),
			testItem("fresh-but-minor", 0.3, time.Minute, 10, now),
		}
		sel := selectItemsAt(items, 10, wr, now)
		if sel.Items[0].Text != "fresh-but-minor" {
			t.Fatalf("expected recency to dominate, got %q", sel.Items[0].Text)
		}
	})

	t.Run("zero budget selects nothing", func(t *testing.T) {
		items := []ContextItem{testItem("a", 0.9, time.Hour, 1, now)}
		sel := selectItemsAt(items, 0, w, now)
		if len(sel.Items) != 0 || sel.Excluded != 1 {
			t.Fatalf("expected empty selection with 1 excluded, got %+v", sel)
		}
	})
}
