package services

import (
	"testing"

	"github.com/finsolve-tech/finsight/internal/models"
)

func TestCanAccessDepartment_MatchesDepartmentsFor(t *testing.T) {
	perms := NewPermissionServiceFromRecords(referencePermissions())

	allDepts := []string{"Finance", "Marketing", "HR", "Engineering", "General"}
	roles := []models.Role{
		models.RoleFinance, models.RoleMarketing, models.RoleHR,
		models.RoleEngineering, models.RoleCLevel, models.RoleEmployee,
	}

	for _, role := range roles {
		listed := map[string]bool{}
		for _, d := range perms.DepartmentsFor(role) {
			listed[d] = true
		}
		for _, d := range allDepts {
			got := perms.CanAccessDepartment(role, d)
			want := listed[d] || perms.Unrestricted(role)
			if got != want {
				t.Errorf("CanAccessDepartment(%s, %s) = %v, want %v", role, d, got, want)
			}
		}
	}
}

func TestUnrestricted_AllSentinel(t *testing.T) {
	perms := NewPermissionServiceFromRecords(referencePermissions())

	if !perms.Unrestricted(models.RoleCLevel) {
		t.Error("c-level should be unrestricted via the all sentinel")
	}
	if perms.Unrestricted(models.RoleFinance) {
		t.Error("finance should not be unrestricted")
	}
	if perms.Unrestricted(models.ParseRole("intern")) {
		t.Error("unknown role should not be unrestricted")
	}
}

func TestUnrestricted_GrantsEveryDataType(t *testing.T) {
	perms := NewPermissionServiceFromRecords(referencePermissions())

	// The catalog never enumerates these for c-level; the sentinel must cover
	// anything presented.
	for _, dt := range []string{"payroll", "financial_reports", "some_future_type"} {
		if !perms.CanAccessDataType(models.RoleCLevel, dt) {
			t.Errorf("c-level denied data type %q", dt)
		}
	}
	if perms.CanAccessDataType(models.RoleEmployee, "payroll") {
		t.Error("employee should not access payroll data")
	}
}

func TestUnknownRole_EmptyNotError(t *testing.T) {
	perms := NewPermissionServiceFromRecords(referencePermissions())

	unknown := models.ParseRole("contractor")
	if got := perms.DepartmentsFor(unknown); len(got) != 0 {
		t.Errorf("unknown role departments = %v, want empty", got)
	}
	if perms.CanAccessDepartment(unknown, "Finance") {
		t.Error("unknown role should not access Finance")
	}
}

func TestCanViewChunk(t *testing.T) {
	perms := NewPermissionServiceFromRecords(referencePermissions())
	chunk := hrChunk("hr_summary_001", "HR Data Summary")

	if !perms.CanViewChunk(models.RoleHR, &chunk) {
		t.Error("hr should view an hr chunk")
	}
	if !perms.CanViewChunk(models.RoleCLevel, &chunk) {
		t.Error("c-level should view any chunk")
	}
	if perms.CanViewChunk(models.RoleEmployee, &chunk) {
		t.Error("employee should not view an hr chunk")
	}
	if perms.CanViewChunk(models.ParseRole("contractor"), &chunk) {
		t.Error("unknown role should not view an hr chunk")
	}
}

func TestCaseInsensitiveDepartmentMatch(t *testing.T) {
	perms := NewPermissionServiceFromRecords(referencePermissions())

	if !perms.CanAccessDepartment(models.RoleFinance, "finance") {
		t.Error("department match should be case-insensitive")
	}
}
