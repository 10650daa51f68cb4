// Package assembly is the service facade over record ingestion and context
// window building. It owns the impure edges — IDs, clocks, candidate
// retrieval from the store — so the contextwindow engine stays pure.
package assembly

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/hollis-dev/attic/internal/config"
	"github.com/hollis-dev/attic/internal/contextwindow"
	"github.com/hollis-dev/attic/internal/models"
	"github.com/hollis-dev/attic/internal/privacy"
	"github.com/hollis-dev/attic/internal/store"
)

// Service is the main facade for all record and context operations.
type Service struct {
	messages  *store.MessageStore
	memories  *store.MemoryStore
	learnings *store.LearningStore
	entities  *store.EntityStore
	cfg       *config.Config
	logger    *slog.Logger
}

// NewService creates the service with all store dependencies.
func NewService(
	messages *store.MessageStore,
	memories *store.MemoryStore,
	learnings *store.LearningStore,
	entities *store.EntityStore,
	cfg *config.Config,
	logger *slog.Logger,
) *Service {
	return &Service{
		messages:  messages,
		memories:  memories,
		learnings: learnings,
		entities:  entities,
		cfg:       cfg,
		logger:    logger,
	}
}

// LogMessage persists one conversation turn. Content that is entirely
// private is skipped rather than stored empty.
func (s *Service) LogMessage(sessionID string, req *models.LogMessageRequest) (*models.StoreResponse, error) {
	if privacy.OnlyPrivate(req.Content) {
		return &models.StoreResponse{Skipped: true}, nil
	}

	role := req.Role
	if role == "" {
		role = models.RoleUser
	}

	m := &models.Message{
		ID:        uuid.New().String(),
		SessionID: sessionID,
		Role:      role,
		Content:   privacy.Strip(req.Content),
		CreatedAt: time.Now().Unix(),
	}
	if err := s.messages.Insert(m); err != nil {
		return nil, fmt.Errorf("log message: %w", err)
	}
	return &models.StoreResponse{ID: m.ID}, nil
}

// ListMessages returns the newest messages for a session, oldest first.
func (s *Service) ListMessages(sessionID string, limit int) ([]*models.Message, error) {
	if limit <= 0 || limit > s.cfg.MaxMessages {
		limit = s.cfg.MaxMessages
	}
	return s.messages.ListRecent(sessionID, limit)
}

// StoreMemory persists one long-term fact.
func (s *Service) StoreMemory(req *models.StoreMemoryRequest) (*models.StoreResponse, error) {
	if privacy.OnlyPrivate(req.Content) {
		return &models.StoreResponse{Skipped: true}, nil
	}

	importance := req.Importance
	if importance == 0 {
		importance = 0.5
	}

	m := &models.Memory{
		ID:         uuid.New().String(),
		Content:    privacy.Strip(req.Content),
		Category:   req.Category,
		Importance: importance,
		CreatedAt:  time.Now().Unix(),
	}
	if err := s.memories.Insert(m); err != nil {
		return nil, fmt.Errorf("store memory: %w", err)
	}
	return &models.StoreResponse{ID: m.ID}, nil
}

// ListMemories returns the most important stored facts.
func (s *Service) ListMemories(limit int) ([]*models.Memory, error) {
	if limit <= 0 || limit > s.cfg.MaxMemories {
		limit = s.cfg.MaxMemories
	}
	return s.memories.ListByImportance(limit)
}

// StoreLearning persists one self-improvement note. An invalid or missing
// severity degrades to medium.
func (s *Service) StoreLearning(req *models.StoreLearningRequest) (*models.StoreResponse, error) {
	severity := req.Severity
	if !severity.IsValid() {
		severity = models.SeverityMedium
	}

	l := &models.Learning{
		ID:         uuid.New().String(),
		Trigger:    req.Trigger,
		Lesson:     req.Lesson,
		Severity:   severity,
		Importance: req.Importance,
		CreatedAt:  time.Now().Unix(),
	}
	if err := s.learnings.Insert(l); err != nil {
		return nil, fmt.Errorf("store learning: %w", err)
	}
	return &models.StoreResponse{ID: l.ID}, nil
}

// ListLearnings returns the newest learnings.
func (s *Service) ListLearnings(limit int) ([]*models.Learning, error) {
	if limit <= 0 || limit > s.cfg.MaxLearnings {
		limit = s.cfg.MaxLearnings
	}
	return s.learnings.List(limit)
}

// TrackEntity records a mention of a named thing: first sighting inserts,
// repeats increment the mention count.
func (s *Service) TrackEntity(req *models.TrackEntityRequest) (*models.StoreResponse, error) {
	e := &models.Entity{
		ID:          uuid.New().String(),
		Name:        req.Name,
		Type:        req.Type,
		Description: req.Description,
		LastSeenAt:  time.Now().Unix(),
	}
	id, err := s.entities.Upsert(e)
	if err != nil {
		return nil, fmt.Errorf("track entity: %w", err)
	}
	return &models.StoreResponse{ID: id}, nil
}

// ListEntities returns the most-mentioned entities.
func (s *Service) ListEntities(limit int) ([]*models.Entity, error) {
	if limit <= 0 || limit > s.cfg.MaxEntities {
		limit = s.cfg.MaxEntities
	}
	return s.entities.ListByMentions(limit)
}

// BuildContext retrieves the candidate records, resolves the budget, and
// runs the assembly engine. Retrieval failures are errors; the engine
// itself is total and reports starvation only as data (Truncated).
func (s *Service) BuildContext(req *models.BuildContextRequest) (*models.BuildContextResponse, error) {
	inputs, err := s.gatherCandidates(req)
	if err != nil {
		return nil, err
	}

	budget := s.resolveBudget(req, inputs)
	opts := contextwindow.BuildOptions{
		Weights:            s.resolveWeights(req),
		UseLostInMiddleFix: req.UseLostInMiddle,
	}

	win := contextwindow.BuildWindow(inputs, budget, opts)
	text := contextwindow.FormatWindow(win, contextwindow.FormatOptions{GroupByType: req.GroupByType})
	stats := contextwindow.Stats(win)

	s.logger.Debug("context window built",
		"session", req.SessionID,
		"items", stats.TotalItems,
		"tokens", stats.TotalTokens,
		"truncated", stats.Truncated,
	)

	return &models.BuildContextResponse{
		Items:     itemViews(win.Items),
		Text:      text,
		Budget:    budgetView(budget),
		Stats:     statsView(stats),
		Truncated: win.Truncated,
	}, nil
}

// PreviewBudget resolves a budget for a model name without building a
// window. Unknown names degrade to the documented default size.
func (s *Service) PreviewBudget(model string) models.BudgetView {
	if model == "" {
		model = s.cfg.DefaultModel
	}
	return budgetView(contextwindow.BudgetForModel(model))
}

func (s *Service) gatherCandidates(req *models.BuildContextRequest) (contextwindow.WindowInputs, error) {
	var inputs contextwindow.WindowInputs
	var err error

	if req.SessionID != "" {
		inputs.Messages, err = s.ListMessages(req.SessionID, req.MaxMessages)
		if err != nil {
			return inputs, fmt.Errorf("gather messages: %w", err)
		}
	}
	inputs.Memories, err = s.ListMemories(req.MaxMemories)
	if err != nil {
		return inputs, fmt.Errorf("gather memories: %w", err)
	}
	inputs.Learnings, err = s.ListLearnings(req.MaxLearnings)
	if err != nil {
		return inputs, fmt.Errorf("gather learnings: %w", err)
	}
	inputs.Entities, err = s.ListEntities(req.MaxEntities)
	if err != nil {
		return inputs, fmt.Errorf("gather entities: %w", err)
	}
	return inputs, nil
}

func (s *Service) resolveBudget(req *models.BuildContextRequest, inputs contextwindow.WindowInputs) contextwindow.ContextBudget {
	total := req.TotalTokens
	if total == 0 {
		model := req.Model
		if model == "" {
			model = s.cfg.DefaultModel
		}
		total = contextwindow.BudgetForModel(model).Total
	}

	if req.Adaptive {
		return contextwindow.NewAdaptiveBudget(total, inputs.Counts())
	}
	return contextwindow.NewBudget(contextwindow.BudgetOptions{Total: total})
}

func (s *Service) resolveWeights(req *models.BuildContextRequest) contextwindow.Weights {
	w := contextwindow.Weights{
		Importance: s.cfg.ImportanceWeight,
		Recency:    s.cfg.RecencyWeight,
	}
	if req.ImportanceWeight != nil {
		w.Importance = *req.ImportanceWeight
	}
	if req.RecencyWeight != nil {
		w.Recency = *req.RecencyWeight
	}
	return w
}

// --- view conversions ---

func itemViews(items []contextwindow.ContextItem) []models.ContextItemView {
	views := make([]models.ContextItemView, len(items))
	for i, it := range items {
		views[i] = models.ContextItemView{
			Category:   string(it.Category),
			Text:       it.Text,
			Importance: it.Importance,
			Timestamp:  it.Timestamp.Unix(),
			TokenCount: it.TokenCount,
		}
	}
	return views
}

func budgetView(b contextwindow.ContextBudget) models.BudgetView {
	per := make(map[string]int, len(b.PerCategory))
	for cat, ceiling := range b.PerCategory {
		per[string(cat)] = ceiling
	}
	return models.BudgetView{
		Total:               b.Total,
		SystemPromptReserve: b.SystemPromptReserve,
		SafetyReserve:       b.SafetyReserve,
		PerCategory:         per,
	}
}

func statsView(st contextwindow.WindowStats) models.StatsView {
	byCat := make(map[string]int, len(st.ItemsByCategory))
	for cat, n := range st.ItemsByCategory {
		byCat[string(cat)] = n
	}
	return models.StatsView{
		TotalItems:      st.TotalItems,
		TotalTokens:     st.TotalTokens,
		ItemsByCategory: byCat,
		BudgetUsed:      st.BudgetUsed,
		BudgetRemaining: st.BudgetRemaining,
		Truncated:       st.Truncated,
	}
}
