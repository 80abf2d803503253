package services

import (
	"context"
	"errors"
	"sync"

	"github.com/finsolve-tech/finsight/internal/models"
)

// mockDb implements core.DbClient over in-memory maps.
type mockDb struct {
	mu    sync.Mutex
	users map[string]*models.User
	perms []models.PermissionRecord
	hits  []models.RetrievalHit

	searchErr error
	failUsers bool
}

func newMockDb() *mockDb {
	return &mockDb{users: make(map[string]*models.User)}
}

func (m *mockDb) CreateUser(ctx context.Context, user *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failUsers {
		return errors.New("db down")
	}
	if _, ok := m.users[user.Username]; ok {
		return errors.New("duplicate username")
	}
	m.users[user.Username] = user
	return nil
}

func (m *mockDb) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failUsers {
		return nil, errors.New("db down")
	}
	return m.users[username], nil
}

func (m *mockDb) ListRolePermissions(ctx context.Context) ([]models.PermissionRecord, error) {
	return m.perms, nil
}

func (m *mockDb) UpsertDocumentChunks(ctx context.Context, chunks []models.DocumentChunk) error {
	return nil
}

func (m *mockDb) CountDocumentChunks(ctx context.Context) (int, error) {
	return len(m.hits), nil
}

func (m *mockDb) SearchDocumentChunks(ctx context.Context, queryVec []float32, limit int) ([]models.RetrievalHit, error) {
	if m.searchErr != nil {
		return nil, m.searchErr
	}
	if limit > len(m.hits) {
		limit = len(m.hits)
	}
	return m.hits[:limit], nil
}

func (m *mockDb) Close() error { return nil }

// mockEmbedder returns a fixed vector per text.
type mockEmbedder struct {
	err error
}

func (m *mockEmbedder) EmbedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	if m.err != nil {
		return nil, m.err
	}
	out := make([][]float32, len(texts))
	for i := range texts {
		out[i] = []float32{0.1, 0.2, 0.3}
	}
	return out, nil
}

// mockLLM records the prompts it receives.
type mockLLM struct {
	mu       sync.Mutex
	response string
	err      error
	prompts  []string
	systems  []string
}

func (m *mockLLM) Generate(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.systems = append(m.systems, systemPrompt)
	m.prompts = append(m.prompts, userPrompt)
	if m.err != nil {
		return "", m.err
	}
	if m.response != "" {
		return m.response, nil
	}
	return "mocked answer", nil
}

func (m *mockLLM) lastPrompt() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.prompts) == 0 {
		return ""
	}
	return m.prompts[len(m.prompts)-1]
}

// referencePermissions mirrors the seeded deployment permission table.
func referencePermissions() []models.PermissionRecord {
	return []models.PermissionRecord{
		{Role: models.RoleFinance, Departments: []string{"Finance", "General"},
			DataTypes: []string{"financial_reports", "employee_handbook"}},
		{Role: models.RoleMarketing, Departments: []string{"Marketing", "General"},
			DataTypes: []string{"campaign_performance", "employee_handbook"}},
		{Role: models.RoleHR, Departments: []string{"HR", "General"},
			DataTypes: []string{"employee_data", "payroll", "employee_handbook"}},
		{Role: models.RoleEngineering, Departments: []string{"Engineering", "General"},
			DataTypes: []string{"technical_architecture", "employee_handbook"}},
		{Role: models.RoleCLevel, Departments: []string{"Finance", "Marketing", "HR", "Engineering", "General"},
			DataTypes: []string{"all"}},
		{Role: models.RoleEmployee, Departments: []string{"General"},
			DataTypes: []string{"employee_handbook", "general_info"}},
	}
}

func financeChunk(id, name string) models.DocumentChunk {
	return models.DocumentChunk{
		ID: id, Text: "Q1 revenue grew 12% year over year.", Department: "Finance",
		AllowedRoles: []models.Role{models.RoleFinance, models.RoleCLevel},
		SourceFile:   "quarterly_financial_report.md", DocumentName: name, UpdateDate: "2024-12-01",
	}
}

func hrChunk(id, name string) models.DocumentChunk {
	return models.DocumentChunk{
		ID: id, Text: "Average salary and attendance figures.", Department: "HR",
		AllowedRoles: []models.Role{models.RoleHR, models.RoleCLevel},
		SourceFile:   "hr_data.csv", DocumentName: name, UpdateDate: "2024-12-01",
	}
}

func generalChunk(id, name string) models.DocumentChunk {
	return models.DocumentChunk{
		ID: id, Text: "Leave policy and company guidelines.", Department: "General",
		AllowedRoles: []models.Role{
			models.RoleFinance, models.RoleMarketing, models.RoleHR,
			models.RoleEngineering, models.RoleCLevel, models.RoleEmployee,
		},
		SourceFile: "employee_handbook.md", DocumentName: name, UpdateDate: "2024-12-01",
	}
}
