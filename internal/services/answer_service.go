package services

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/finsolve-tech/finsight/internal/core"
	"github.com/finsolve-tech/finsight/internal/models"
	"github.com/finsolve-tech/finsight/internal/textutil"
)

const (
	// Prompt size bounds: only the closest hits make it into the context
	// window, each truncated to a fixed character budget.
	maxContextDocs    = 3
	maxCharsPerDoc    = 400
	generateTimeout   = 30 * time.Second
	noDataMessage     = "I couldn't find any relevant information to answer your query that you are authorized to access. Please try rephrasing your question or contact your administrator if you believe you should have access to this information."
	answerSystemInstr = "You are an AI assistant for FinSolve Technologies, a FinTech company. " +
		"Provide helpful, accurate, and concise responses based only on the provided context. " +
		"If the information is not in the context, state that explicitly. " +
		"Always cite the document names from the context when referencing information. " +
		"Use the conversation history to maintain context for follow-up questions. " +
		"Keep responses to a maximum of 4 lines."
)

// AnswerService composes the grounded prompt from retrieved chunks and
// conversation history, invokes the generative backend, and degrades to a
// deterministic keyword-templated response when the backend is unavailable
// or fails. Every request terminates in a response object.
type AnswerService struct {
	retriever *RetrievalService
	memory    *MemoryService
	llm       core.LLMProvider // nil when no backend credential is configured
	topK      int
}

func NewAnswerService(retriever *RetrievalService, memory *MemoryService, llm core.LLMProvider, topK int) *AnswerService {
	if topK <= 0 {
		topK = 5
	}
	return &AnswerService{retriever: retriever, memory: memory, llm: llm, topK: topK}
}

// Answer handles one query for an authenticated (username, role) pair.
func (s *AnswerService) Answer(ctx context.Context, query string, role models.Role, username string) *models.QueryResponse {
	hits := s.retriever.Retrieve(ctx, query, role, s.topK)

	resp := &models.QueryResponse{
		Sources:        s.sourcesFor(hits),
		UserRole:       role,
		Timestamp:      time.Now().UTC(),
		QueryProcessed: query,
	}

	if len(hits) == 0 {
		resp.Response = noDataMessage
		resp.Sources = []models.Source{}
		return resp
	}

	resp.Response = s.generate(ctx, query, hits, role, username)
	return resp
}

// generate tries the LLM path and falls back to the keyword templates.
func (s *AnswerService) generate(ctx context.Context, query string, hits []models.RetrievalHit, role models.Role, username string) string {
	if s.llm == nil {
		return fallbackResponse(query, hits, role)
	}

	genCtx, cancel := context.WithTimeout(ctx, generateTimeout)
	defer cancel()

	userPrompt := s.buildPrompt(query, hits, role, username)
	text, err := s.llm.Generate(genCtx, answerSystemInstr, userPrompt)
	if err != nil || strings.TrimSpace(text) == "" {
		log.Printf("answer: generation failed for %s (%s), using fallback: %v", username, role, err)
		return fallbackResponse(query, hits, role)
	}

	text = strings.TrimSpace(text)
	s.memory.Append(username, role, query, text)
	return text
}

func (s *AnswerService) buildPrompt(query string, hits []models.RetrievalHit, role models.Role, username string) string {
	docs := hits
	if len(docs) > maxContextDocs {
		docs = docs[:maxContextDocs]
	}

	var ctxParts []string
	for _, h := range docs {
		ctxParts = append(ctxParts, fmt.Sprintf("Source: %s\nContent: %s",
			h.Chunk.DocumentName, textutil.Truncate(h.Chunk.Text, maxCharsPerDoc)))
	}

	history := s.memory.Render(username, role)

	return fmt.Sprintf(
		"Conversation History:\n%s\n\nUser Role: %s\nUser Query: %s\n\nContext from company documents:\n%s\n\nResponse:",
		history, role, query, strings.Join(ctxParts, "\n\n"))
}

func (s *AnswerService) sourcesFor(hits []models.RetrievalHit) []models.Source {
	sources := make([]models.Source, 0, len(hits))
	for _, h := range hits {
		sources = append(sources, models.Source{
			Document:       h.Chunk.DocumentName,
			Department:     h.Chunk.Department,
			UpdateDate:     h.Chunk.UpdateDate,
			RelevanceScore: s.retriever.RelevanceScore(h.Distance),
		})
	}
	return sources
}

// fallbackBucket pairs trigger keywords with a response template. Buckets are
// evaluated in order; the first whose keyword matches wins, and the final
// catch-all has no keywords.
type fallbackBucket struct {
	keywords []string
	render   func(sources, role string) string
}

var fallbackBuckets = []fallbackBucket{
	{
		keywords: []string{"revenue", "income", "profit", "financial", "q4"},
		render: func(sources, role string) string {
			return fmt.Sprintf("Based on financial documents (e.g., %s) available to your role (%s), "+
				"FinSolve's financial performance metrics are detailed in those sources. "+
				"Please consult the relevant financial reports for specific figures and analysis.", sources, role)
		},
	},
	{
		keywords: []string{"marketing", "campaign", "customer", "acquisition", "sales"},
		render: func(sources, role string) string {
			return fmt.Sprintf("According to marketing reports (e.g., %s) accessible to your role (%s), "+
				"FinSolve has been running various marketing campaigns focused on customer acquisition and "+
				"brand awareness. Detailed performance metrics are available in the source documents.", sources, role)
		},
	},
	{
		keywords: []string{"employee", "hr", "policy", "handbook", "leave", "benefits"},
		render: func(sources, role string) string {
			return fmt.Sprintf("The employee handbook and HR policies (e.g., %s) contain information relevant "+
				"to your query. As a %s user, you have access to policies regarding work procedures, benefits, "+
				"and company guidelines. Please refer to these documents for specific details.", sources, role)
		},
	},
	{
		keywords: []string{"engineering", "technical", "architecture", "system", "sdlc", "security", "roadmap"},
		render: func(sources, role string) string {
			return fmt.Sprintf("The engineering documentation (e.g., %s) provides technical information about "+
				"FinSolve's systems and architecture. Based on your role (%s), I can provide information about "+
				"technical specifications, development practices, and security measures. "+
				"Consult the relevant engineering documents for in-depth understanding.", sources, role)
		},
	},
	{
		// catch-all
		render: func(sources, role string) string {
			return fmt.Sprintf("I found some relevant document(s) (e.g., %s) related to your query. "+
				"Based on your role as %s, you have access to information from these sources. "+
				"For detailed information, please refer directly to the source documents.", sources, role)
		},
	},
}

// fallbackResponse is the deterministic non-generative path. It names the
// candidate documents and the caller's role without inventing facts.
func fallbackResponse(query string, hits []models.RetrievalHit, role models.Role) string {
	names := make([]string, 0, len(hits))
	for _, h := range hits {
		names = append(names, h.Chunk.DocumentName)
	}
	sources := strings.Join(names, ", ")
	if sources == "" {
		sources = "relevant documents"
	}

	q := strings.ToLower(query)
	for _, b := range fallbackBuckets {
		if len(b.keywords) == 0 {
			return b.render(sources, role.String())
		}
		for _, kw := range b.keywords {
			if strings.Contains(q, kw) {
				return b.render(sources, role.String())
			}
		}
	}
	// Unreachable while the catch-all bucket is last.
	return sources
}
