package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/pgvector/pgvector-go"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/finsolve-tech/finsight/internal/config"
	"github.com/finsolve-tech/finsight/internal/core"
	"github.com/finsolve-tech/finsight/internal/models"
)

type DatabaseClient struct {
	db *sql.DB
}

func NewDatabaseClient(ctx context.Context, cfg *config.Config) (core.DbClient, error) {
	if cfg == nil {
		return nil, fmt.Errorf("database client configuration is nil")
	}
	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is empty")
	}

	dsn := cfg.DatabaseURL
	if cfg.SslCertPath != "" {
		u, err := url.Parse(cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("invalid DATABASE_URL: %w", err)
		}
		q := u.Query()
		q.Set("sslmode", "verify-ca")
		q.Set("sslrootcert", cfg.SslCertPath)
		u.RawQuery = q.Encode()
		dsn = u.String()
	}

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	// Sensible pool settings for an API service; adjust as needed.
	db.SetMaxOpenConns(20)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(30 * time.Minute)
	db.SetConnMaxIdleTime(10 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping db: %w", err)
	}

	if err := EnsureBootstrapped(pingCtx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("bootstrap: %w", err)
	}

	return &DatabaseClient{db: db}, nil
}

func (c *DatabaseClient) Close() error {
	if c.db != nil {
		return c.db.Close()
	}
	return nil
}

func (c *DatabaseClient) CreateUser(ctx context.Context, user *models.User) error {
	if user == nil {
		return errors.New("nil user")
	}
	const q = `
		INSERT INTO users (id, username, password_hash, role, created_at)
		VALUES ($1, $2, $3, $4, COALESCE($5, now()))
	`
	_, err := c.db.ExecContext(ctx, q,
		user.ID, user.Username, user.PasswordHash, user.Role.String(), user.CreatedAt)
	return err
}

func (c *DatabaseClient) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	const q = `
		SELECT id, username, password_hash, role, created_at
		FROM users WHERE username = $1
	`
	var (
		u    models.User
		role string
	)
	err := c.db.QueryRowContext(ctx, q, username).Scan(
		&u.ID, &u.Username, &u.PasswordHash, &role, &u.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	u.Role = models.ParseRole(role)
	return &u, nil
}

func (c *DatabaseClient) ListRolePermissions(ctx context.Context) ([]models.PermissionRecord, error) {
	const q = `SELECT role, departments, data_types FROM role_permissions`
	rows, err := c.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.PermissionRecord
	for rows.Next() {
		var role, departments, dataTypes string
		if err := rows.Scan(&role, &departments, &dataTypes); err != nil {
			return nil, err
		}
		out = append(out, models.PermissionRecord{
			Role:        models.ParseRole(role),
			Departments: splitSet(departments),
			DataTypes:   splitSet(dataTypes),
		})
	}
	return out, rows.Err()
}

// UpsertDocumentChunks writes chunks in a single transaction. Chunk ids are
// stable per (document, chunk) position so a re-ingestion run replaces rows
// instead of duplicating them.
func (c *DatabaseClient) UpsertDocumentChunks(ctx context.Context, chunks []models.DocumentChunk) error {
	if len(chunks) == 0 {
		return nil
	}
	tx, err := c.db.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return err
	}

	const q = `
		INSERT INTO document_chunks
			(id, text, department, access_roles, source_file, document_name, update_date, embedding)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (id) DO UPDATE SET
			text = EXCLUDED.text,
			department = EXCLUDED.department,
			access_roles = EXCLUDED.access_roles,
			source_file = EXCLUDED.source_file,
			document_name = EXCLUDED.document_name,
			update_date = EXCLUDED.update_date,
			embedding = EXCLUDED.embedding
	`
	stmt, err := tx.PrepareContext(ctx, q)
	if err != nil {
		_ = tx.Rollback()
		return err
	}
	defer stmt.Close()

	for i := range chunks {
		ch := &chunks[i]
		vec := pgvector.NewVector(ch.Embedding)

		if _, err := stmt.ExecContext(ctx,
			ch.ID, ch.Text, ch.Department, joinRoles(ch.AllowedRoles),
			ch.SourceFile, ch.DocumentName, ch.UpdateDate, vec,
		); err != nil {
			_ = tx.Rollback()
			return err
		}
	}
	return tx.Commit()
}

func (c *DatabaseClient) CountDocumentChunks(ctx context.Context) (int, error) {
	var n int
	err := c.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM document_chunks`).Scan(&n)
	return n, err
}

// SearchDocumentChunks finds the limit nearest chunks for a query embedding,
// ascending by L2 distance.
func (c *DatabaseClient) SearchDocumentChunks(ctx context.Context, queryVec []float32, limit int) ([]models.RetrievalHit, error) {
	const q = `
		SELECT id, text, department, access_roles, source_file, document_name, update_date,
		       embedding <-> $1 AS distance
		FROM document_chunks
		ORDER BY embedding <-> $1 ASC
		LIMIT $2
	`
	vec := pgvector.NewVector(queryVec)
	rows, err := c.db.QueryContext(ctx, q, vec, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.RetrievalHit
	for rows.Next() {
		var (
			hit   models.RetrievalHit
			roles string
		)
		if err := rows.Scan(
			&hit.Chunk.ID, &hit.Chunk.Text, &hit.Chunk.Department, &roles,
			&hit.Chunk.SourceFile, &hit.Chunk.DocumentName, &hit.Chunk.UpdateDate,
			&hit.Distance,
		); err != nil {
			return nil, err
		}
		hit.Chunk.AllowedRoles = splitRoles(roles)
		out = append(out, hit)
	}
	return out, rows.Err()
}

// Metadata sets travel comma-joined in a single text column.

func splitSet(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func joinRoles(roles []models.Role) string {
	parts := make([]string, len(roles))
	for i, r := range roles {
		parts[i] = r.String()
	}
	return strings.Join(parts, ",")
}

func splitRoles(s string) []models.Role {
	parts := splitSet(s)
	out := make([]models.Role, len(parts))
	for i, p := range parts {
		out[i] = models.ParseRole(p)
	}
	return out
}
