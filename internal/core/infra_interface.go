package core

import (
	"context"
	"io"

	"github.com/finsolve-tech/finsight/internal/models"
)

// DbClient defines all persistence operations the services need.
// It abstracts Postgres/pgvector so higher layers never depend on a specific DB.
type DbClient interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)

	ListRolePermissions(ctx context.Context) ([]models.PermissionRecord, error)

	UpsertDocumentChunks(ctx context.Context, chunks []models.DocumentChunk) error
	CountDocumentChunks(ctx context.Context) (int, error)

	// SearchDocumentChunks returns the limit nearest chunks to the query
	// vector in ascending distance order.
	SearchDocumentChunks(ctx context.Context, queryVec []float32, limit int) ([]models.RetrievalHit, error)

	Close() error
}

// ObjectClient defines interactions with the corpus object store. A client is
// bound to one bucket at construction; keys are corpus-relative paths. It's
// abstract so AWS can be replaced with MinIO, GCP, etc. easily.
type ObjectClient interface {
	UploadFile(ctx context.Context, key string, data io.Reader, contentType string) (url string, err error)
	DeleteFile(ctx context.Context, key string) error
	GetFile(ctx context.Context, key string) ([]byte, error)

	GetObjectReader(ctx context.Context, key string) (io.ReadCloser, error)
}
