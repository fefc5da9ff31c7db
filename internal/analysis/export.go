package analysis

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"fedjobs/internal/errors"
	"fedjobs/internal/model"
)

// Artifact is one tabular export, named by its position in the fixed
// analysis list so re-runs overwrite deterministically.
type Artifact struct {
	Name   string
	Header []string
	Rows   [][]string
}

// Artifacts runs the fixed analysis list over the stored records.
func Artifacts(positions []model.Position) []Artifact {
	salary := MonthlySalaryByTitle(positions)
	salaryRows := make([][]string, 0, len(salary))
	for _, row := range salary {
		salaryRows = append(salaryRows, []string{row.PositionTitle, row.Month, formatFloat(row.SalaryMin)})
	}

	eligibility := EligibilitySalaryGap(positions)
	eligibilityRows := make([][]string, 0, len(eligibility))
	for _, row := range eligibility {
		eligibilityRows = append(eligibilityRows, []string{row.WhoMayApply, formatFloat(row.AvgSalary)})
	}

	organizations := PostingsPerOrganization(positions)
	organizationRows := make([][]string, 0, len(organizations))
	for _, row := range organizations {
		organizationRows = append(organizationRows, []string{row.OrganizationName, strconv.Itoa(row.Positions)})
	}

	return []Artifact{
		{
			Name:   "analysis_0.csv",
			Header: []string{"position_title", "month", "salary_min"},
			Rows:   salaryRows,
		},
		{
			Name:   "analysis_1.csv",
			Header: []string{"who_may_apply", "avg_salary"},
			Rows:   eligibilityRows,
		},
		{
			Name:   "analysis_2.csv",
			Header: []string{"organization_name", "positions_per_organization"},
			Rows:   organizationRows,
		},
	}
}

// Export materializes each artifact as a CSV file under dir.
func Export(dir string, artifacts []Artifact) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.Internal(fmt.Sprintf("creating reports directory %s", dir), err)
	}

	for _, artifact := range artifacts {
		if err := writeArtifact(dir, artifact); err != nil {
			return err
		}
	}
	return nil
}

func writeArtifact(dir string, artifact Artifact) error {
	path := filepath.Join(dir, artifact.Name)
	file, err := os.Create(path)
	if err != nil {
		return errors.Internal(fmt.Sprintf("creating artifact %s", path), err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)

	if err := writer.Write(artifact.Header); err != nil {
		return errors.Internal(fmt.Sprintf("writing header of %s", path), err)
	}
	for _, row := range artifact.Rows {
		if err := writer.Write(row); err != nil {
			return errors.Internal(fmt.Sprintf("writing row of %s", path), err)
		}
	}
	writer.Flush()
	return writer.Error()
}

func formatFloat(value float64) string {
	return strconv.FormatFloat(value, 'f', -1, 64)
}
