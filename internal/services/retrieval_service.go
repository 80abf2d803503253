package services

import (
	"context"
	"log"
	"sort"
	"time"

	"github.com/finsolve-tech/finsight/internal/core"
	"github.com/finsolve-tech/finsight/internal/models"
)

// DefaultDistanceCap normalizes distance into a [0,1] relevance score.
// Calibrated for the current embedding model; treat as tunable, not a law.
const DefaultDistanceCap = 1.5

// overFetchFactor widens the index query to absorb post-filter loss.
const overFetchFactor = 2

const searchTimeout = 10 * time.Second

// RetrievalService performs the access-controlled similarity search: embed
// the query, over-fetch from the shared index, drop everything the caller's
// role may not see, and return the k closest survivors.
type RetrievalService struct {
	db          core.DbClient
	embedder    core.EmbeddingProvider
	permissions *PermissionService
	distanceCap float64
}

func NewRetrievalService(db core.DbClient, emb core.EmbeddingProvider, perms *PermissionService) *RetrievalService {
	return &RetrievalService{
		db:          db,
		embedder:    emb,
		permissions: perms,
		distanceCap: DefaultDistanceCap,
	}
}

// Retrieve returns at most k accessible hits in ascending distance order.
// Index or embedding failures degrade to an empty result, never an error:
// the caller surfaces "no data" text instead of a hard failure. An unknown
// role sees nothing.
func (s *RetrievalService) Retrieve(ctx context.Context, query string, role models.Role, k int) []models.RetrievalHit {
	if k <= 0 {
		k = 5
	}

	searchCtx, cancel := context.WithTimeout(ctx, searchTimeout)
	defer cancel()

	vecs, err := s.embedder.EmbedTexts(searchCtx, []string{query})
	if err != nil || len(vecs) == 0 {
		log.Printf("retrieval: query embedding failed: %v", err)
		return nil
	}

	candidates, err := s.db.SearchDocumentChunks(searchCtx, vecs[0], k*overFetchFactor)
	if err != nil {
		log.Printf("retrieval: index search failed: %v", err)
		return nil
	}

	accepted := make([]models.RetrievalHit, 0, k)
	for _, hit := range candidates {
		if !s.permissions.CanViewChunk(role, &hit.Chunk) {
			continue
		}
		accepted = append(accepted, hit)
		if len(accepted) >= k {
			break
		}
	}

	// The index should already emit ascending distances, but the filter must
	// not be the thing that depends on it.
	sort.SliceStable(accepted, func(i, j int) bool {
		return accepted[i].Distance < accepted[j].Distance
	})

	if len(accepted) > k {
		accepted = accepted[:k]
	}
	return accepted
}

// RelevanceScore maps a hit distance to the user-facing [0,1] score:
// clamp(1 - distance/cap, 0, 1). Monotonically decreasing in distance.
func (s *RetrievalService) RelevanceScore(distance float64) float64 {
	score := 1.0 - distance/s.distanceCap
	if score < 0 {
		return 0
	}
	if score > 1 {
		return 1
	}
	return score
}
