package ingestion

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/finsolve-tech/finsight/internal/models"
)

// SourceMapping ties one corpus file to the department it belongs to and the
// roles allowed to see its chunks.
type SourceMapping struct {
	Path         string
	Department   string
	AllowedRoles []models.Role
}

// allRoles is the access list for General documents every employee may read.
var allRoles = []models.Role{
	models.RoleFinance, models.RoleMarketing, models.RoleHR,
	models.RoleEngineering, models.RoleCLevel, models.RoleEmployee,
}

// DefaultCorpus is the reference deployment corpus. Paths are relative to the
// configured data directory (or bucket prefix when pulling from S3).
func DefaultCorpus() []SourceMapping {
	return []SourceMapping{
		{Path: "engineering/engineering_master_doc.md", Department: "Engineering",
			AllowedRoles: []models.Role{models.RoleEngineering, models.RoleCLevel}},
		{Path: "finance/financial_summary.md", Department: "Finance",
			AllowedRoles: []models.Role{models.RoleFinance, models.RoleCLevel}},
		{Path: "finance/quarterly_financial_report.md", Department: "Finance",
			AllowedRoles: []models.Role{models.RoleFinance, models.RoleCLevel}},
		{Path: "marketing/marketing_report_2024.md", Department: "Marketing",
			AllowedRoles: []models.Role{models.RoleMarketing, models.RoleCLevel}},
		{Path: "marketing/marketing_report_q1_2024.md", Department: "Marketing",
			AllowedRoles: []models.Role{models.RoleMarketing, models.RoleCLevel}},
		{Path: "marketing/marketing_report_q2_2024.md", Department: "Marketing",
			AllowedRoles: []models.Role{models.RoleMarketing, models.RoleCLevel}},
		{Path: "marketing/marketing_report_q3_2024.md", Department: "Marketing",
			AllowedRoles: []models.Role{models.RoleMarketing, models.RoleCLevel}},
		{Path: "marketing/market_report_q4_2024.md", Department: "Marketing",
			AllowedRoles: []models.Role{models.RoleMarketing, models.RoleCLevel}},
		{Path: "general/employee_handbook.md", Department: "General",
			AllowedRoles: allRoles},
	}
}

// HRDataFile is the HR analytics CSV summarized into a single restricted chunk.
const HRDataFile = "hr/hr_data.csv"

// DocumentName derives the display name from a source file name:
// "quarterly_financial_report.md" -> "Quarterly Financial Report".
func DocumentName(sourceFile string) string {
	base := filepath.Base(sourceFile)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	words := strings.Split(strings.ReplaceAll(base, "_", " "), " ")
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

// ChunkID builds the stable id for one chunk. Re-ingesting the same corpus
// with the same chunking parameters reproduces the same ids.
func ChunkID(fileIndex, chunkIndex int) string {
	return fmt.Sprintf("doc_%d_chunk_%d", fileIndex, chunkIndex)
}
