package mcp

// ToolDefinitions returns the MCP tool definitions for the attic server.
func ToolDefinitions() []ToolDefinition {
	return []ToolDefinition{
		{
			Name: "context_build",
			Description: "Assemble a context window from stored memories, learnings, entities, and " +
				"conversation history, selected against a token budget and rendered as text. " +
				"Call this at the start of a session to recover prior context.",
			InputSchema: InputSchema{
				Type: "object",
				Properties: map[string]Property{
					"sessionId":   {Type: "string", Description: "Session whose conversation history to include"},
					"model":       {Type: "string", Description: "Model name used to size the token budget"},
					"totalTokens": {Type: "number", Description: "Explicit budget total, overrides model sizing"},
					"adaptive":    {Type: "boolean", Description: "Split the budget by candidate counts instead of fixed shares"},
					"groupByType": {Type: "boolean", Description: "Render with per-category headings", Default: false},
				},
			},
		},
		{
			Name: "memory_store",
			Description: "Store a long-term fact: a decision, preference, or piece of project context " +
				"worth recalling in future sessions. Wrap anything secret in <private> tags to keep it out of storage.",
			InputSchema: InputSchema{
				Type: "object",
				Properties: map[string]Property{
					"content":  {Type: "string", Description: "The fact, written as a standalone sentence"},
					"category": {Type: "string", Description: "Free-form grouping label, e.g. decision or preference"},
					"importance": {Type: "number", Description: "How much this should outrank other facts, 0.0-1.0",
						Default: 0.5},
				},
				Required: []string{"content"},
			},
		},
		{
			Name: "learning_store",
			Description: "Record a self-improvement note: what situation triggered it and what to do " +
				"differently next time. Severity controls how prominently it surfaces later.",
			InputSchema: InputSchema{
				Type: "object",
				Properties: map[string]Property{
					"trigger": {Type: "string", Description: "The situation that prompted the lesson"},
					"lesson":  {Type: "string", Description: "What to do differently"},
					"severity": {Type: "string", Description: "How badly the trigger bit",
						Enum: []string{"critical", "high", "medium", "low"}},
				},
				Required: []string{"trigger", "lesson"},
			},
		},
		{
			Name: "entity_track",
			Description: "Record a mention of a named thing — a person, service, repo, or tool. " +
				"Repeated mentions of the same name and type raise its prominence in future context windows.",
			InputSchema: InputSchema{
				Type: "object",
				Properties: map[string]Property{
					"name":        {Type: "string", Description: "The entity's name"},
					"type":        {Type: "string", Description: "What kind of thing it is, e.g. person, service, repo"},
					"description": {Type: "string", Description: "One-line description, kept from the richest mention"},
				},
				Required: []string{"name"},
			},
		},
		{
			Name: "message_log",
			Description: "Log one conversation turn into a session so it can be replayed into future " +
				"context windows. Content inside <private> tags is stripped before storage.",
			InputSchema: InputSchema{
				Type: "object",
				Properties: map[string]Property{
					"sessionId": {Type: "string", Description: "Session the turn belongs to"},
					"role": {Type: "string", Description: "Who produced the turn",
						Enum: []string{"user", "assistant", "system"}},
					"content": {Type: "string", Description: "The message text"},
				},
				Required: []string{"sessionId", "content"},
			},
		},
	}
}
