package types

// ChatRequest is the body of POST /api/v1/chat.
type ChatRequest struct {
	Message string `json:"message"`
}

// ChatResponse is the reply to a chat request. ID is the ULID assigned to
// this exchange, also present in the request logs.
type ChatResponse struct {
	ID     string `json:"id"`
	Answer string `json:"answer"`
}

// HealthResponse is the reply to GET /api/v1/health.
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
	Model   string `json:"model"`
}
