package models

// ProjectContext carries the client's current project for prompt building.
type ProjectContext struct {
	Files      ProjectFiles `json:"files"`
	ActiveFile string       `json:"activeFile,omitempty"`
}

// ChatRequest is the body of POST /api/builder/chat.
type ChatRequest struct {
	Messages []Message       `json:"messages"`
	Context  *ProjectContext `json:"context,omitempty"`
	Mode     Mode            `json:"mode,omitempty"`
}

// Usage reports token accounting returned by the provider.
type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// Meta describes how a successful reply was produced.
type Meta struct {
	Model string `json:"model"`
	Usage *Usage `json:"usage,omitempty"`
	Mode  Mode   `json:"mode"`
}

// ChatResponse is the body returned by POST /api/builder/chat.
type ChatResponse struct {
	Success          bool   `json:"success"`
	AssistantMessage string `json:"assistantMessage"`
	Error            string `json:"error,omitempty"`
	Patch            *Patch `json:"patch,omitempty"`
	Meta             *Meta  `json:"meta,omitempty"`
}

// HealthResponse is the capability descriptor returned by GET /api/builder/chat.
type HealthResponse struct {
	Status     string         `json:"status"`
	Configured bool           `json:"configured"`
	Message    string         `json:"message"`
	Endpoints  map[string]any `json:"endpoints"`
}
