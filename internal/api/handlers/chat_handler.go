package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	appMiddleware "github.com/finsolve-tech/finsight/internal/api/middlewares"
	"github.com/finsolve-tech/finsight/internal/models"
	"github.com/finsolve-tech/finsight/internal/services"
)

type ChatHandler struct {
	answers *services.AnswerService
	memory  *services.MemoryService
}

func NewChatHandler(answers *services.AnswerService, memory *services.MemoryService) *ChatHandler {
	return &ChatHandler{answers: answers, memory: memory}
}

// Query handles one chat query for the authenticated caller. The answer
// pipeline degrades internally (empty retrieval, fallback text), so barring
// a bad request body this endpoint always returns a response object.
func (h *ChatHandler) Query(w http.ResponseWriter, r *http.Request) {
	identity, ok := appMiddleware.IdentityFrom(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	var req models.QueryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}
	if req.Query == "" {
		http.Error(w, "query is required", http.StatusBadRequest)
		return
	}

	log.Printf("chat: processing query for %s (%s)", identity.Username, identity.Role)
	resp := h.answers.Answer(r.Context(), req.Query, identity.Role, identity.Username)
	writeJSON(w, http.StatusOK, resp)
}

// ClearMemory drops the caller's conversation history.
func (h *ChatHandler) ClearMemory(w http.ResponseWriter, r *http.Request) {
	identity, ok := appMiddleware.IdentityFrom(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	h.memory.Clear(identity.Username, identity.Role)
	writeJSON(w, http.StatusOK, map[string]string{"message": "conversation memory cleared"})
}

// Health reports the service status map for monitoring.
func Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":    "healthy",
		"timestamp": time.Now().UTC(),
		"services": map[string]string{
			"AuthService": "operational",
			"RAGService":  "operational",
		},
	})
}
