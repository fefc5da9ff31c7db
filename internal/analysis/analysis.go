package analysis

import (
	"sort"

	"fedjobs/internal/model"
)

const monthLayout = "01-2006"

// Monthly-equivalent factors for the known pay intervals. Bi-weekly uses
// 2.17 as the approximate pay periods per month.
const biWeeklyPerMonth = 2.17

const (
	intervalPerYear  = "Per Year"
	intervalBiWeekly = "Bi-weekly"
	intervalPerMonth = "Per Month"
)

var eligibilityLabels = []string{
	"United States Citizens",
	"Student/Internship Program Eligibles",
}

type MonthlySalaryRow struct {
	PositionTitle string
	Month         string
	SalaryMin     float64
}

type EligibilityRow struct {
	WhoMayApply string
	AvgSalary   float64
}

type OrganizationRow struct {
	OrganizationName string
	Positions        int
}

// MonthlyEquivalent converts a minimum salary to its monthly equivalent.
// The second return is false for intervals outside the known set, which
// excludes the posting from the salary aggregation.
func MonthlyEquivalent(interval string, salaryMin float64) (float64, bool) {
	switch interval {
	case intervalPerYear:
		return salaryMin / 12, true
	case intervalBiWeekly:
		return salaryMin * biWeeklyPerMonth, true
	case intervalPerMonth:
		return salaryMin, true
	default:
		return 0, false
	}
}

// MonthlySalaryByTitle sums monthly-equivalent minimum salaries per
// (title, publication month), ascending by the summed value.
func MonthlySalaryByTitle(positions []model.Position) []MonthlySalaryRow {
	type groupKey struct {
		title string
		month string
	}

	sums := make(map[groupKey]float64)
	for _, p := range positions {
		if p.SalaryInterval == nil || p.SalaryMin == nil {
			continue
		}
		monthly, ok := MonthlyEquivalent(*p.SalaryInterval, *p.SalaryMin)
		if !ok {
			continue
		}
		month := ""
		if p.PublicationDate != nil {
			month = p.PublicationDate.Format(monthLayout)
		}
		sums[groupKey{title: p.PositionTitle, month: month}] += monthly
	}

	rows := make([]MonthlySalaryRow, 0, len(sums))
	for key, sum := range sums {
		rows = append(rows, MonthlySalaryRow{
			PositionTitle: key.title,
			Month:         key.month,
			SalaryMin:     sum,
		})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].SalaryMin != rows[j].SalaryMin {
			return rows[i].SalaryMin < rows[j].SalaryMin
		}
		if rows[i].PositionTitle != rows[j].PositionTitle {
			return rows[i].PositionTitle < rows[j].PositionTitle
		}
		return rows[i].Month < rows[j].Month
	})
	return rows
}

// EligibilitySalaryGap averages (salary_max-salary_min)/2 for the two
// tracked eligibility labels; all other labels are excluded.
func EligibilitySalaryGap(positions []model.Position) []EligibilityRow {
	sums := make(map[string]float64)
	counts := make(map[string]int)
	for _, p := range positions {
		if p.WhoMayApply == nil || p.SalaryMin == nil || p.SalaryMax == nil {
			continue
		}
		if !trackedEligibility(*p.WhoMayApply) {
			continue
		}
		sums[*p.WhoMayApply] += (*p.SalaryMax - *p.SalaryMin) / 2
		counts[*p.WhoMayApply]++
	}

	rows := make([]EligibilityRow, 0, len(eligibilityLabels))
	for _, label := range eligibilityLabels {
		if counts[label] == 0 {
			continue
		}
		rows = append(rows, EligibilityRow{
			WhoMayApply: label,
			AvgSalary:   sums[label] / float64(counts[label]),
		})
	}
	return rows
}

// PostingsPerOrganization counts postings per organization, ascending.
func PostingsPerOrganization(positions []model.Position) []OrganizationRow {
	counts := make(map[string]int)
	for _, p := range positions {
		organization := ""
		if p.OrganizationName != nil {
			organization = *p.OrganizationName
		}
		counts[organization]++
	}

	rows := make([]OrganizationRow, 0, len(counts))
	for organization, count := range counts {
		rows = append(rows, OrganizationRow{
			OrganizationName: organization,
			Positions:        count,
		})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Positions != rows[j].Positions {
			return rows[i].Positions < rows[j].Positions
		}
		return rows[i].OrganizationName < rows[j].OrganizationName
	})
	return rows
}

func trackedEligibility(label string) bool {
	for _, tracked := range eligibilityLabels {
		if label == tracked {
			return true
		}
	}
	return false
}
