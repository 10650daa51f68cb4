package models

// Role identifies who produced a conversation message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
)

func (r Role) IsValid() bool {
	return r == RoleUser || r == RoleAssistant || r == RoleSystem
}

// Severity classifies how badly a learning's trigger bit us.
type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityHigh     Severity = "high"
	SeverityMedium   Severity = "medium"
	SeverityLow      Severity = "low"
)

var ValidSeverities = map[Severity]bool{
	SeverityCritical: true,
	SeverityHigh:     true,
	SeverityMedium:   true,
	SeverityLow:      true,
}

func (s Severity) IsValid() bool {
	return ValidSeverities[s]
}

// SeverityImportance maps each severity tier to a default importance.
// Monotonic: worse severity → higher importance. Used only when a learning
// carries no explicit importance of its own.
var SeverityImportance = map[Severity]float64{
	SeverityCritical: 1.0,
	SeverityHigh:     0.9,
	SeverityMedium:   0.7,
	SeverityLow:      0.5,
}

// Message is one conversation turn, owned by a session.
type Message struct {
	ID        string `json:"id"`
	SessionID string `json:"sessionId"`
	Role      Role   `json:"role"`
	Content   string `json:"content"`
	CreatedAt int64  `json:"createdAt"`
}

// Memory is a long-term fact with a caller-assigned importance.
type Memory struct {
	ID         string  `json:"id"`
	Content    string  `json:"content"`
	Category   string  `json:"category"`
	Importance float64 `json:"importance"`
	CreatedAt  int64   `json:"createdAt"`
}

// Learning is a self-improvement note: what triggered it and what was learned.
// Importance is optional; when nil the severity tier supplies the default.
type Learning struct {
	ID         string   `json:"id"`
	Trigger    string   `json:"trigger"`
	Lesson     string   `json:"lesson"`
	Severity   Severity `json:"severity"`
	Importance *float64 `json:"importance,omitempty"`
	CreatedAt  int64    `json:"createdAt"`
}

// Entity is an extracted named thing. MentionCount drives its importance
// relative to the other entities in a candidate set.
type Entity struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Type         string `json:"type"`
	Description  string `json:"description"`
	MentionCount int    `json:"mentionCount"`
	LastSeenAt   int64  `json:"lastSeenAt"`
}

// Session groups conversation messages.
type Session struct {
	ID           string `json:"id"`
	StartedAt    int64  `json:"startedAt"`
	LastActiveAt int64  `json:"lastActiveAt"`
	MessageCount int    `json:"messageCount"`
}

// --- HTTP payloads ---

// LogMessageRequest is the payload for POST /sessions/{id}/messages.
type LogMessageRequest struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// StoreMemoryRequest is the payload for POST /memories.
type StoreMemoryRequest struct {
	Content    string  `json:"content"`
	Category   string  `json:"category"`
	Importance float64 `json:"importance"`
}

// StoreLearningRequest is the payload for POST /learnings.
type StoreLearningRequest struct {
	Trigger    string   `json:"trigger"`
	Lesson     string   `json:"lesson"`
	Severity   Severity `json:"severity"`
	Importance *float64 `json:"importance,omitempty"`
}

// TrackEntityRequest is the payload for POST /entities. Tracking the same
// name/type again increments its mention count.
type TrackEntityRequest struct {
	Name        string `json:"name"`
	Type        string `json:"type"`
	Description string `json:"description"`
}

// StoreResponse is the generic created-record response.
type StoreResponse struct {
	ID      string `json:"id"`
	Skipped bool   `json:"skipped,omitempty"`
}

// BuildContextRequest is the payload for POST /context/build.
// Model or TotalTokens selects the budget total (TotalTokens wins when both
// are set; neither falls back to the configured default model). Adaptive
// switches the budget to candidate-count-proportional category shares.
type BuildContextRequest struct {
	SessionID        string   `json:"sessionId"`
	Model            string   `json:"model,omitempty"`
	TotalTokens      int      `json:"totalTokens,omitempty"`
	Adaptive         bool     `json:"adaptive,omitempty"`
	ImportanceWeight *float64 `json:"importanceWeight,omitempty"`
	RecencyWeight    *float64 `json:"recencyWeight,omitempty"`
	UseLostInMiddle  *bool    `json:"useLostInMiddleFix,omitempty"`
	GroupByType      bool     `json:"groupByType,omitempty"`
	MaxMessages      int      `json:"maxMessages,omitempty"`
	MaxMemories      int      `json:"maxMemories,omitempty"`
	MaxLearnings     int      `json:"maxLearnings,omitempty"`
	MaxEntities      int      `json:"maxEntities,omitempty"`
}

// ContextItemView is the JSON shape of one selected context item.
type ContextItemView struct {
	Category   string  `json:"category"`
	Text       string  `json:"text"`
	Importance float64 `json:"importance"`
	Timestamp  int64   `json:"timestamp"`
	TokenCount int     `json:"tokenCount"`
}

// BudgetView is the JSON shape of a resolved budget.
type BudgetView struct {
	Total               int            `json:"total"`
	SystemPromptReserve int            `json:"systemPromptReserve"`
	SafetyReserve       int            `json:"safetyReserve"`
	PerCategory         map[string]int `json:"perCategory"`
}

// StatsView is the JSON shape of window statistics.
type StatsView struct {
	TotalItems      int            `json:"totalItems"`
	TotalTokens     int            `json:"totalTokens"`
	ItemsByCategory map[string]int `json:"itemsByCategory"`
	BudgetUsed      float64        `json:"budgetUsed"`
	BudgetRemaining int            `json:"budgetRemaining"`
	Truncated       bool           `json:"truncated"`
}

// BuildContextResponse is returned from POST /context/build.
type BuildContextResponse struct {
	Items     []ContextItemView `json:"items"`
	Text      string            `json:"text"`
	Budget    BudgetView        `json:"budget"`
	Stats     StatsView         `json:"stats"`
	Truncated bool              `json:"truncated"`
}

// ListMessagesResponse is returned from GET /sessions/{id}/messages.
type ListMessagesResponse struct {
	Messages []*Message `json:"messages"`
}

// HealthResponse is returned from GET /health.
type HealthResponse struct {
	Status       string `json:"status"`
	DB           string `json:"db"`
	MessageCount int    `json:"messageCount"`
	MemoryCount  int    `json:"memoryCount"`
}
