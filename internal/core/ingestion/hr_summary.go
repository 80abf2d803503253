package ingestion

import (
	"encoding/csv"
	"fmt"
	"strconv"
	"strings"
)

// BuildHRSummary condenses the HR analytics CSV into one summary document.
// The raw per-employee rows never enter the index; only this aggregate does,
// restricted to the hr and c-level roles.
func BuildHRSummary(data []byte) (string, error) {
	r := csv.NewReader(strings.NewReader(string(data)))
	records, err := r.ReadAll()
	if err != nil {
		return "", fmt.Errorf("parse hr csv: %w", err)
	}
	if len(records) < 2 {
		return "", fmt.Errorf("hr csv has no data rows")
	}

	col := map[string]int{}
	for i, name := range records[0] {
		col[strings.TrimSpace(name)] = i
	}

	rows := records[1:]
	departments := uniqueColumn(rows, col, "department")
	locations := uniqueColumn(rows, col, "location")
	avgSalary := meanColumn(rows, col, "salary")
	avgRating := meanColumn(rows, col, "performance_rating")
	avgAttendance := meanColumn(rows, col, "attendance_pct")

	return fmt.Sprintf(
		"HR Data Summary:\n"+
			"Total Employees: %d\n"+
			"Departments: %s\n"+
			"Locations: %s\n"+
			"Average Salary: $%.2f\n"+
			"Average Performance Rating: %.2f\n"+
			"Average Attendance: %.2f%%",
		len(rows),
		strings.Join(departments, ", "),
		strings.Join(locations, ", "),
		avgSalary, avgRating, avgAttendance,
	), nil
}

func uniqueColumn(rows [][]string, col map[string]int, name string) []string {
	i, ok := col[name]
	if !ok {
		return nil
	}
	seen := map[string]bool{}
	var out []string
	for _, row := range rows {
		if i >= len(row) {
			continue
		}
		v := strings.TrimSpace(row[i])
		if v != "" && !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}
	return out
}

func meanColumn(rows [][]string, col map[string]int, name string) float64 {
	i, ok := col[name]
	if !ok {
		return 0
	}
	var sum float64
	var n int
	for _, row := range rows {
		if i >= len(row) {
			continue
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(row[i]), 64)
		if err != nil {
			continue
		}
		sum += v
		n++
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}
