package core

import "context"

type EmbeddingProvider interface {
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
}

type LLMProvider interface {
	Generate(ctx context.Context, systemPrompt string, userPrompt string) (string, error)
}

// DocumentExtractor turns a raw corpus file into plain text. The contentType
// hint selects the parsing strategy (plain read vs docconv).
type DocumentExtractor interface {
	ExtractText(ctx context.Context, data []byte, contentType string) (string, error)
}
