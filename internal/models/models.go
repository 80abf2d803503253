package models

import (
	"strings"
	"time"
)

// Role is the authorization identity class assigned to an authenticated user.
// Roles are a closed set; ParseRole normalizes input but unknown values are
// kept as-is and simply resolve to empty permissions downstream.
type Role string

const (
	RoleFinance     Role = "finance"
	RoleMarketing   Role = "marketing"
	RoleHR          Role = "hr"
	RoleEngineering Role = "engineering"
	RoleCLevel      Role = "c-level"
	RoleEmployee    Role = "employee"
)

// ParseRole lower-cases and trims the raw role string.
func ParseRole(s string) Role {
	return Role(strings.ToLower(strings.TrimSpace(s)))
}

func (r Role) String() string { return string(r) }

// Known reports whether the role is one of the seeded deployment roles.
func (r Role) Known() bool {
	switch r {
	case RoleFinance, RoleMarketing, RoleHR, RoleEngineering, RoleCLevel, RoleEmployee:
		return true
	}
	return false
}

// SentinelAll marks a permission entry as unrestricted. A role whose
// department or data-type list carries this value may access everything.
const SentinelAll = "all"

// User represents an authenticated user of the system.
type User struct {
	ID           string    `db:"id" json:"id"`
	Username     string    `db:"username" json:"username"`
	PasswordHash string    `db:"password_hash" json:"-"`
	Role         Role      `db:"role" json:"role"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

// PermissionRecord maps one role to the departments and data types it may see.
// Order of the slices is irrelevant; they are sets.
type PermissionRecord struct {
	Role        Role     `db:"role" json:"role"`
	Departments []string `db:"departments" json:"departments"`
	DataTypes   []string `db:"data_types" json:"data_types"`
}

// DocumentChunk is one indexed slice of a source document together with the
// access metadata the retrieval filter needs. The ID is stable across
// re-ingestion runs (doc_{fileIndex}_chunk_{chunkIndex}).
type DocumentChunk struct {
	ID           string    `db:"id" json:"id"`
	Text         string    `db:"text" json:"text"`
	Department   string    `db:"department" json:"department"`
	AllowedRoles []Role    `db:"allowed_roles" json:"allowed_roles"`
	SourceFile   string    `db:"source_file" json:"source_file"`
	DocumentName string    `db:"document_name" json:"document_name"`
	UpdateDate   string    `db:"update_date" json:"update_date"`
	Embedding    []float32 `db:"embedding" json:"-"`
}

// AllowsRole reports whether the chunk's allowed-role set contains r.
func (c *DocumentChunk) AllowsRole(r Role) bool {
	for _, ar := range c.AllowedRoles {
		if ar == r {
			return true
		}
	}
	return false
}

// RetrievalHit is one similarity-search result. Distance is non-negative;
// smaller means more similar.
type RetrievalHit struct {
	Chunk    DocumentChunk `json:"chunk"`
	Distance float64       `json:"distance"`
}

// Source is the user-facing citation derived from a RetrievalHit.
type Source struct {
	Document       string  `json:"document"`
	Department     string  `json:"department"`
	UpdateDate     string  `json:"update_date"`
	RelevanceScore float64 `json:"relevance_score"`
}

// QueryRequest is the chat query payload.
type QueryRequest struct {
	Query   string `json:"query"`
	Context string `json:"context,omitempty"`
}

// QueryResponse is the answer returned for one chat query.
type QueryResponse struct {
	Response       string    `json:"response"`
	Sources        []Source  `json:"sources"`
	UserRole       Role      `json:"user_role"`
	Timestamp      time.Time `json:"timestamp"`
	QueryProcessed string    `json:"query_processed"`
}

// LoginResponse is returned on successful authentication.
type LoginResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	Username    string `json:"username"`
	Role        Role   `json:"role"`
	Message     string `json:"message"`
}

// ConversationTurn is one query/response pair kept in conversation memory.
type ConversationTurn struct {
	Query    string `json:"query"`
	Response string `json:"response"`
}

// Identity is the verified (username, role) pair extracted from a token.
type Identity struct {
	Username string `json:"username"`
	Role     Role   `json:"role"`
}
