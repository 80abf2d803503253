package services

import (
	"context"
	"errors"
	"testing"

	"github.com/finsolve-tech/finsight/internal/models"
)

func newTestRetriever(db *mockDb) *RetrievalService {
	perms := NewPermissionServiceFromRecords(referencePermissions())
	return NewRetrievalService(db, &mockEmbedder{}, perms)
}

func TestRetrieve_FiltersByRole(t *testing.T) {
	db := newMockDb()
	db.hits = []models.RetrievalHit{
		{Chunk: financeChunk("doc_1_chunk_0", "Quarterly Financial Report"), Distance: 0.2},
		{Chunk: hrChunk("hr_summary_001", "HR Data Summary"), Distance: 0.3},
		{Chunk: generalChunk("doc_8_chunk_0", "Employee Handbook"), Distance: 0.4},
	}

	hits := newTestRetriever(db).Retrieve(context.Background(), "What was Q1 revenue?", models.RoleFinance, 5)

	if len(hits) != 2 {
		t.Fatalf("got %d hits, want 2", len(hits))
	}
	for _, h := range hits {
		if !h.Chunk.AllowsRole(models.RoleFinance) {
			t.Errorf("leaked chunk %s to finance role", h.Chunk.ID)
		}
		if h.Chunk.Department == "HR" {
			t.Errorf("finance role must never see an HR-only chunk")
		}
	}
}

func TestRetrieve_UnrestrictedRoleSeesEverything(t *testing.T) {
	db := newMockDb()
	db.hits = []models.RetrievalHit{
		{Chunk: financeChunk("doc_1_chunk_0", "Quarterly Financial Report"), Distance: 0.2},
		{Chunk: hrChunk("hr_summary_001", "HR Data Summary"), Distance: 0.3},
	}

	hits := newTestRetriever(db).Retrieve(context.Background(), "company overview", models.RoleCLevel, 5)
	if len(hits) != 2 {
		t.Errorf("c-level got %d hits, want 2", len(hits))
	}
}

func TestRetrieve_UnknownRoleGetsNothing(t *testing.T) {
	db := newMockDb()
	db.hits = []models.RetrievalHit{
		{Chunk: generalChunk("doc_8_chunk_0", "Employee Handbook"), Distance: 0.1},
	}

	hits := newTestRetriever(db).Retrieve(context.Background(), "anything", models.ParseRole("contractor"), 5)
	if len(hits) != 0 {
		t.Errorf("unknown role got %d hits, want 0", len(hits))
	}
}

func TestRetrieve_AscendingDistance(t *testing.T) {
	db := newMockDb()
	// Deliberately out of order: the retriever must re-sort.
	db.hits = []models.RetrievalHit{
		{Chunk: financeChunk("doc_1_chunk_2", "Quarterly Financial Report"), Distance: 0.9},
		{Chunk: financeChunk("doc_1_chunk_0", "Quarterly Financial Report"), Distance: 0.1},
		{Chunk: financeChunk("doc_1_chunk_1", "Quarterly Financial Report"), Distance: 0.5},
	}

	hits := newTestRetriever(db).Retrieve(context.Background(), "revenue", models.RoleFinance, 5)
	for i := 1; i < len(hits); i++ {
		if hits[i].Distance < hits[i-1].Distance {
			t.Errorf("hits not in ascending distance order: %v then %v", hits[i-1].Distance, hits[i].Distance)
		}
	}
}

func TestRetrieve_CapsAtK(t *testing.T) {
	db := newMockDb()
	for i := 0; i < 10; i++ {
		db.hits = append(db.hits, models.RetrievalHit{
			Chunk:    financeChunk("doc_1_chunk_"+string(rune('0'+i)), "Quarterly Financial Report"),
			Distance: float64(i) * 0.1,
		})
	}

	hits := newTestRetriever(db).Retrieve(context.Background(), "revenue", models.RoleFinance, 3)
	if len(hits) != 3 {
		t.Errorf("got %d hits, want 3", len(hits))
	}
}

func TestRetrieve_IndexFailureYieldsEmpty(t *testing.T) {
	db := newMockDb()
	db.searchErr = errors.New("index unreachable")

	hits := newTestRetriever(db).Retrieve(context.Background(), "revenue", models.RoleFinance, 5)
	if hits != nil {
		t.Errorf("index failure should yield empty result, got %v", hits)
	}
}

func TestRetrieve_EmbeddingFailureYieldsEmpty(t *testing.T) {
	db := newMockDb()
	db.hits = []models.RetrievalHit{
		{Chunk: financeChunk("doc_1_chunk_0", "Quarterly Financial Report"), Distance: 0.2},
	}
	perms := NewPermissionServiceFromRecords(referencePermissions())
	svc := NewRetrievalService(db, &mockEmbedder{err: errors.New("embedder down")}, perms)

	hits := svc.Retrieve(context.Background(), "revenue", models.RoleFinance, 5)
	if hits != nil {
		t.Errorf("embedding failure should yield empty result, got %v", hits)
	}
}

func TestRelevanceScore_MonotoneAndClamped(t *testing.T) {
	svc := newTestRetriever(newMockDb())

	prev := 2.0
	for _, d := range []float64{0, 0.3, 0.75, 1.5, 2.0, 10} {
		score := svc.RelevanceScore(d)
		if score < 0 || score > 1 {
			t.Errorf("RelevanceScore(%v) = %v, out of [0,1]", d, score)
		}
		if score > prev {
			t.Errorf("RelevanceScore not monotone: score(%v) = %v > previous %v", d, score, prev)
		}
		prev = score
	}

	if svc.RelevanceScore(0) != 1.0 {
		t.Errorf("zero distance should score 1.0")
	}
	if svc.RelevanceScore(1.5) != 0.0 {
		t.Errorf("distance at the cap should score 0.0")
	}
}
