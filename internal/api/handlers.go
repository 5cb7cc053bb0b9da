package api

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/oklog/ulid/v2"

	"github.com/hyperengineering/boardsight/internal/types"
	"github.com/hyperengineering/boardsight/internal/validation"
)

// Answerer answers a free-text question about the tracked boards.
type Answerer interface {
	Answer(ctx context.Context, question string) (string, error)
}

// Handler implements the API handlers
type Handler struct {
	assistant Answerer
	apiKey    string
	version   string
	model     string
}

// NewHandler creates a new Handler.
func NewHandler(a Answerer, apiKey, version, model string) *Handler {
	return &Handler{
		assistant: a,
		apiKey:    apiKey,
		version:   version,
		model:     model,
	}
}

// Health returns the health status
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	resp := types.HealthResponse{
		Status:  "healthy",
		Version: h.version,
		Model:   h.model,
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

// Chat handles POST /api/v1/chat
func (h *Handler) Chat(w http.ResponseWriter, r *http.Request) {
	var req types.ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteProblem(w, r, http.StatusBadRequest, fmt.Sprintf("Invalid JSON: %s", err.Error()))
		return
	}

	if errs := validation.ValidateChatMessage(req.Message); len(errs) > 0 {
		WriteProblemWithErrors(w, r, "Request contains invalid fields", errs)
		return
	}

	id := ulid.Make().String()
	answer, err := h.assistant.Answer(r.Context(), req.Message)
	if err != nil {
		slog.Error("chat failed", "id", id, "error", err)
		MapError(w, r, err)
		return
	}

	slog.Info("chat answered", "id", id, "question_len", len(req.Message))

	resp := types.ChatResponse{
		ID:     id,
		Answer: answer,
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}
