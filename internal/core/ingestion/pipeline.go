package ingestion

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/finsolve-tech/finsight/internal/core"
	"github.com/finsolve-tech/finsight/internal/models"
)

// Config tunes the ingestion pipeline.
//
// ChunkWords:   words per chunk.
// OverlapWords: words re-used between consecutive chunks for context bleed.
// BatchSize:    chunks embedded per provider call.
// DataDir:      local corpus root, used when no object store is configured.
type Config struct {
	ChunkWords   int
	OverlapWords int
	BatchSize    int
	DataDir      string
}

// Ingestor loads the corpus, extracts and chunks each document, embeds the
// chunks and upserts them into the index with stable ids.
type Ingestor struct {
	db        core.DbClient
	obj       core.ObjectClient // nil means read from the local data dir
	extractor core.DocumentExtractor
	embedder  core.EmbeddingProvider
	cfg       Config
}

func NewIngestor(db core.DbClient, obj core.ObjectClient, extractor core.DocumentExtractor, emb core.EmbeddingProvider, cfg Config) *Ingestor {
	if cfg.ChunkWords <= 0 {
		cfg.ChunkWords = 500
	}
	if cfg.OverlapWords <= 0 {
		cfg.OverlapWords = 50
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 16
	}
	return &Ingestor{db: db, obj: obj, extractor: extractor, embedder: emb, cfg: cfg}
}

// Run ingests every corpus file plus the HR analytics summary. Missing files
// are skipped with a warning so a partial corpus still produces a usable
// index. Upserts are keyed on the stable chunk id, so re-running replaces
// rows instead of duplicating them.
func (i *Ingestor) Run(ctx context.Context, corpus []SourceMapping) error {
	updateDate := time.Now().Format("2006-01-02")

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(4)

	for idx, mapping := range corpus {
		g.Go(func() error {
			return i.processSource(gctx, idx, mapping, updateDate)
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	if err := i.processHRData(ctx, updateDate); err != nil {
		log.Printf("ingestion: hr data skipped: %v", err)
	}

	n, err := i.db.CountDocumentChunks(ctx)
	if err != nil {
		return err
	}
	log.Printf("ingestion: index now holds %d chunks", n)
	return nil
}

func (i *Ingestor) processSource(ctx context.Context, fileIndex int, m SourceMapping, updateDate string) error {
	data, err := i.loadSource(ctx, m.Path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			log.Printf("ingestion: file not found, skipping: %s", m.Path)
			return nil
		}
		return fmt.Errorf("load %s: %w", m.Path, err)
	}

	text, err := i.extractor.ExtractText(ctx, data, ContentTypeForPath(m.Path))
	if err != nil {
		return fmt.Errorf("extract %s: %w", m.Path, err)
	}

	pieces := SplitWords(text, i.cfg.ChunkWords, i.cfg.OverlapWords)
	if len(pieces) == 0 {
		log.Printf("ingestion: no content in %s", m.Path)
		return nil
	}

	sourceFile := filepath.Base(m.Path)
	chunks := make([]models.DocumentChunk, len(pieces))
	for ci, piece := range pieces {
		chunks[ci] = models.DocumentChunk{
			ID:           ChunkID(fileIndex, ci),
			Text:         piece,
			Department:   m.Department,
			AllowedRoles: m.AllowedRoles,
			SourceFile:   sourceFile,
			DocumentName: DocumentName(sourceFile),
			UpdateDate:   updateDate,
		}
	}

	if err := i.embedAndPersist(ctx, chunks); err != nil {
		return fmt.Errorf("persist %s: %w", m.Path, err)
	}
	log.Printf("ingestion: %s -> %d chunks", m.Path, len(chunks))
	return nil
}

// processHRData summarizes the HR CSV into one restricted chunk.
func (i *Ingestor) processHRData(ctx context.Context, updateDate string) error {
	data, err := i.loadSmall(ctx, HRDataFile)
	if err != nil {
		return err
	}

	summary, err := BuildHRSummary(data)
	if err != nil {
		return err
	}

	chunk := models.DocumentChunk{
		ID:           "hr_summary_001",
		Text:         summary,
		Department:   "HR",
		AllowedRoles: []models.Role{models.RoleHR, models.RoleCLevel},
		SourceFile:   filepath.Base(HRDataFile),
		DocumentName: "HR Data Summary",
		UpdateDate:   updateDate,
	}
	return i.embedAndPersist(ctx, []models.DocumentChunk{chunk})
}

// embedAndPersist embeds chunks in batches and upserts each batch.
func (i *Ingestor) embedAndPersist(ctx context.Context, chunks []models.DocumentChunk) error {
	for start := 0; start < len(chunks); start += i.cfg.BatchSize {
		end := start + i.cfg.BatchSize
		if end > len(chunks) {
			end = len(chunks)
		}
		batch := chunks[start:end]

		texts := make([]string, len(batch))
		for bi := range batch {
			texts[bi] = batch[bi].Text
		}

		embedCtx, cancel := context.WithTimeout(ctx, 2*time.Minute)
		vecs, err := i.embedder.EmbedTexts(embedCtx, texts)
		cancel()
		if err != nil {
			return fmt.Errorf("embed batch: %w", err)
		}
		if len(vecs) != len(batch) {
			return fmt.Errorf("embed batch: got %d vectors for %d chunks", len(vecs), len(batch))
		}
		for bi := range batch {
			batch[bi].Embedding = vecs[bi]
		}

		if err := i.db.UpsertDocumentChunks(ctx, batch); err != nil {
			return fmt.Errorf("upsert batch: %w", err)
		}
	}
	return nil
}

// loadSource streams one corpus document; pdf and docx sources can be large,
// so the object-store path reads through GetObjectReader.
func (i *Ingestor) loadSource(ctx context.Context, rel string) ([]byte, error) {
	if i.obj == nil {
		return os.ReadFile(filepath.Join(i.cfg.DataDir, rel))
	}
	rc, err := i.obj.GetObjectReader(ctx, rel)
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}

// loadSmall fetches a small corpus file in a single call.
func (i *Ingestor) loadSmall(ctx context.Context, rel string) ([]byte, error) {
	if i.obj == nil {
		return os.ReadFile(filepath.Join(i.cfg.DataDir, rel))
	}
	return i.obj.GetFile(ctx, rel)
}
