package mcp

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"
)

const protocolVersion = "2024-11-05"

// Server implements an MCP stdio server that delegates to the HTTP attic server.
type Server struct {
	serverURL string
	apiKey    string
	client    *http.Client
}

// NewServer creates a new MCP server.
func NewServer(serverURL, apiKey string) *Server {
	return &Server{
		serverURL: strings.TrimRight(serverURL, "/"),
		apiKey:    apiKey,
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// Run starts the stdio event loop. Blocks until stdin is closed.
func (s *Server) Run() error {
	scanner := bufio.NewScanner(os.Stdin)
	// Increase buffer for large messages
	buf := make([]byte, 0, 1024*1024)
	scanner.Buffer(buf, 1024*1024)

	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var req Request
		if err := json.Unmarshal(line, &req); err != nil {
			s.writeError(nil, -32700, "parse error: "+err.Error())
			continue
		}

		resp := s.handleRequest(&req)
		if resp != nil {
			s.writeResponse(resp)
		}
	}

	return scanner.Err()
}

func (s *Server) handleRequest(req *Request) *Response {
	switch req.Method {
	case "initialize":
		return s.handleInitialize(req)
	case "initialized":
		// Notification — no response
		return nil
	case "tools/list":
		return s.handleToolsList(req)
	case "tools/call":
		return s.handleToolsCall(req)
	case "ping":
		return &Response{JSONRPC: "2.0", ID: req.ID, Result: map[string]string{}}
	default:
		return s.errorResponse(req.ID, -32601, "method not found: "+req.Method)
	}
}

func (s *Server) handleInitialize(req *Request) *Response {
	return &Response{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: InitializeResult{
			ProtocolVersion: protocolVersion,
			Capabilities: ServerCapabilities{
				Tools: &ToolCapabilities{},
			},
			ServerInfo: ServerInfo{
				Name:    "attic",
				Version: "1.0.0",
			},
		},
	}
}

func (s *Server) handleToolsList(req *Request) *Response {
	return &Response{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result:  ToolsListResult{Tools: ToolDefinitions()},
	}
}

func (s *Server) handleToolsCall(req *Request) *Response {
	paramsBytes, err := json.Marshal(req.Params)
	if err != nil {
		return s.errorResponse(req.ID, -32602, "invalid params")
	}

	var params CallToolParams
	if err := json.Unmarshal(paramsBytes, &params); err != nil {
		return s.errorResponse(req.ID, -32602, "invalid params: "+err.Error())
	}

	result, isError := s.dispatchTool(params.Name, params.Arguments)

	return &Response{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: CallToolResult{
			Content: []ContentBlock{{Type: "text", Text: result}},
			IsError: isError,
		},
	}
}

func (s *Server) dispatchTool(name string, args map[string]interface{}) (string, bool) {
	switch name {
	case "context_build":
		return s.toolContextBuild(args)
	case "memory_store":
		return s.toolMemoryStore(args)
	case "learning_store":
		return s.toolLearningStore(args)
	case "entity_track":
		return s.toolEntityTrack(args)
	case "message_log":
		return s.toolMessageLog(args)
	default:
		return fmt.Sprintf("unknown tool: %s", name), true
	}
}

// --- Tool implementations (HTTP delegation) ---

func (s *Server) toolContextBuild(args map[string]interface{}) (string, bool) {
	body := map[string]interface{}{
		"sessionId":   args["sessionId"],
		"adaptive":    getBool(args, "adaptive", false),
		"groupByType": getBool(args, "groupByType", false),
	}
	if model, ok := args["model"].(string); ok && model != "" {
		body["model"] = model
	}
	if total := getFloat(args, "totalTokens", 0); total > 0 {
		body["totalTokens"] = int(total)
	}
	return s.httpPost("/context/build", body)
}

func (s *Server) toolMemoryStore(args map[string]interface{}) (string, bool) {
	body := map[string]interface{}{
		"content":    args["content"],
		"category":   args["category"],
		"importance": getFloat(args, "importance", 0.5),
	}
	return s.httpPost("/memories", body)
}

func (s *Server) toolLearningStore(args map[string]interface{}) (string, bool) {
	body := map[string]interface{}{
		"trigger":  args["trigger"],
		"lesson":   args["lesson"],
		"severity": args["severity"],
	}
	return s.httpPost("/learnings", body)
}

func (s *Server) toolEntityTrack(args map[string]interface{}) (string, bool) {
	body := map[string]interface{}{
		"name":        args["name"],
		"type":        args["type"],
		"description": args["description"],
	}
	return s.httpPost("/entities", body)
}

func (s *Server) toolMessageLog(args map[string]interface{}) (string, bool) {
	sessionID, _ := args["sessionId"].(string)
	if sessionID == "" {
		return "sessionId is required", true
	}
	body := map[string]interface{}{
		"role":    args["role"],
		"content": args["content"],
	}
	return s.httpPost(fmt.Sprintf("/sessions/%s/messages", sessionID), body)
}

// --- HTTP helpers ---

func (s *Server) httpPost(path string, body interface{}) (string, bool) {
	jsonBody, err := json.Marshal(body)
	if err != nil {
		return fmt.Sprintf("marshal error: %s", err), true
	}

	url := s.serverURL + path
	req, err := http.NewRequest("POST", url, bytes.NewReader(jsonBody))
	if err != nil {
		return fmt.Sprintf("request error: %s", err), true
	}
	req.Header.Set("Content-Type", "application/json")
	if s.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+s.apiKey)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Sprintf("HTTP error: %s", err), true
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Sprintf("read error: %s", err), true
	}

	if resp.StatusCode >= 400 {
		return string(respBody), true
	}

	return string(respBody), false
}

// --- Response helpers ---

func (s *Server) writeResponse(resp *Response) {
	data, _ := json.Marshal(resp)
	fmt.Fprintf(os.Stdout, "%s\n", data)
}

func (s *Server) writeError(id interface{}, code int, message string) {
	s.writeResponse(s.errorResponse(id, code, message))
}

func (s *Server) errorResponse(id interface{}, code int, message string) *Response {
	return &Response{
		JSONRPC: "2.0",
		ID:      id,
		Error:   &RPCError{Code: code, Message: message},
	}
}

// --- Argument helpers ---

func getFloat(args map[string]interface{}, key string, fallback float64) float64 {
	if v, ok := args[key]; ok {
		switch val := v.(type) {
		case float64:
			return val
		case int:
			return float64(val)
		}
	}
	return fallback
}

func getBool(args map[string]interface{}, key string, fallback bool) bool {
	if v, ok := args[key]; ok {
		if b, ok := v.(bool); ok {
			return b
		}
	}
	return fallback
}
