package services

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/finsolve-tech/finsight/internal/core"
	"github.com/finsolve-tech/finsight/internal/models"
)

// PermissionService is the single authority for role visibility. It loads the
// role_permissions table once at startup; lookups after that are in-memory
// and read-only. An unknown role resolves to empty permissions, never an
// error.
type PermissionService struct {
	records map[models.Role]models.PermissionRecord
}

func NewPermissionService(ctx context.Context, db core.DbClient) (*PermissionService, error) {
	recs, err := db.ListRolePermissions(ctx)
	if err != nil {
		return nil, fmt.Errorf("load role permissions: %w", err)
	}
	if len(recs) == 0 {
		return nil, fmt.Errorf("role_permissions table is empty; database not bootstrapped")
	}

	m := make(map[models.Role]models.PermissionRecord, len(recs))
	for _, r := range recs {
		m[r.Role] = r
	}
	log.Printf("permission catalog loaded with %d roles", len(m))
	return &PermissionService{records: m}, nil
}

// NewPermissionServiceFromRecords builds a catalog from an explicit seed,
// bypassing the database. Used for tooling and tests.
func NewPermissionServiceFromRecords(recs []models.PermissionRecord) *PermissionService {
	m := make(map[models.Role]models.PermissionRecord, len(recs))
	for _, r := range recs {
		m[r.Role] = r
	}
	return &PermissionService{records: m}
}

// DepartmentsFor returns the departments the role may access. Empty for an
// unknown role.
func (s *PermissionService) DepartmentsFor(role models.Role) []string {
	return s.records[role].Departments
}

// DataTypesFor returns the data-type tags the role may access.
func (s *PermissionService) DataTypesFor(role models.Role) []string {
	return s.records[role].DataTypes
}

func (s *PermissionService) CanAccessDepartment(role models.Role, dept string) bool {
	if s.Unrestricted(role) {
		return true
	}
	return containsFold(s.records[role].Departments, dept)
}

func (s *PermissionService) CanAccessDataType(role models.Role, dataType string) bool {
	if s.Unrestricted(role) {
		return true
	}
	return containsFold(s.records[role].DataTypes, dataType)
}

// Unrestricted reports whether the role's permission entry carries the "all"
// sentinel in either set. This is the one place the can-see-everything rule
// lives; the retriever and the department listing both ask here instead of
// special-casing privileged roles themselves.
func (s *PermissionService) Unrestricted(role models.Role) bool {
	rec, ok := s.records[role]
	if !ok {
		return false
	}
	return containsFold(rec.Departments, models.SentinelAll) ||
		containsFold(rec.DataTypes, models.SentinelAll)
}

// CanViewChunk decides whether the role may see a retrieved chunk: either the
// chunk's allowed-role set names the role, or the role is unrestricted.
func (s *PermissionService) CanViewChunk(role models.Role, chunk *models.DocumentChunk) bool {
	if s.Unrestricted(role) {
		return true
	}
	return chunk.AllowsRole(role)
}

func containsFold(set []string, v string) bool {
	for _, s := range set {
		if strings.EqualFold(s, v) {
			return true
		}
	}
	return false
}
