package app

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/finsolve-tech/finsight/internal/config"
	"github.com/finsolve-tech/finsight/internal/core"
	db "github.com/finsolve-tech/finsight/internal/core/database"
	"github.com/finsolve-tech/finsight/internal/core/llm"
	"github.com/finsolve-tech/finsight/internal/services"
)

type App struct {
	DBClient core.DbClient
	Server   *Server

	embedder *llm.GeminiEmbedder
	llm      *llm.GeminiLLM
}

func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {
	appCtx, cancel := context.WithTimeout(ctx, 5*time.Minute)
	defer cancel()

	dbClient, err := db.NewDatabaseClient(appCtx, cfg)
	if err != nil {
		return nil, err
	}
	log.Println("Database initialized and ready.")

	permissions, err := services.NewPermissionService(appCtx, dbClient)
	if err != nil {
		return nil, fmt.Errorf("permission catalog: %w", err)
	}

	auth := services.NewAuthService(dbClient)
	if err := auth.SeedUsers(appCtx); err != nil {
		return nil, fmt.Errorf("seed users: %w", err)
	}

	tokens := services.NewTokenService(cfg.JWTSecret, time.Duration(cfg.TokenTTLMins)*time.Minute)

	embedder, err := llm.NewGeminiEmbedder(appCtx, cfg.EmbedAPIKey, cfg.EmbedModel)
	if err != nil {
		return nil, fmt.Errorf("couldn't initialize the embedder: %w", err)
	}

	// The generative backend is optional: without an API key the answer
	// pipeline runs on the deterministic fallback path.
	var provider core.LLMProvider
	var gen *llm.GeminiLLM
	switch {
	case cfg.AIAPIKey != "":
		gen, err = llm.NewGeminiLLM(appCtx, cfg.AIAPIKey, cfg.GenModel)
		if err != nil {
			return nil, fmt.Errorf("couldn't initialize the llm provider: %w", err)
		}
		provider = gen
	case cfg.EmbedAPIKey != "":
		log.Println("GEMINI_API_KEY not set; answers will use the rule-based fallback over EMBED_API_KEY retrieval.")
	default:
		log.Println("no AI credentials set; retrieval will fail and every answer will be the no-data message.")
	}

	memory := services.NewMemoryService(cfg.MemoryBudget)
	retriever := services.NewRetrievalService(dbClient, embedder, permissions)
	answers := services.NewAnswerService(retriever, memory, provider, cfg.RetrieveK)

	server := NewServer(cfg, auth, tokens, permissions, answers, memory)

	return &App{
		DBClient: dbClient,
		Server:   server,
		embedder: embedder,
		llm:      gen,
	}, nil
}

func (a *App) Close() {
	if a.embedder != nil {
		_ = a.embedder.Close()
	}
	if a.llm != nil {
		_ = a.llm.Close()
	}
	if a.DBClient != nil {
		_ = a.DBClient.Close()
	}
}
