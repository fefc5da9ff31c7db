package model

import (
	"encoding/json"
	"time"
)

// Position is one stored job posting. Nullable columns are pointers;
// an absent value stays nil, never zero.
type Position struct {
	SalaryMax        *float64   `json:"salary_max"`
	SalaryMin        *float64   `json:"salary_min"`
	OrganizationName *string    `json:"organization_name"`
	PositionTitle    string     `json:"position_title"`
	PublicationDate  *time.Time `json:"publication_date"`
	SalaryInterval   *string    `json:"salary_interval"`
	WhoMayApply      *string    `json:"who_may_apply"`
}

// Columns is the declared column order of the positions table. Inserts
// are strictly positional against it, so Values must stay in lockstep.
var Columns = []string{
	"salary_max",
	"salary_min",
	"organization_name",
	"position_title",
	"publication_date",
	"salary_interval",
	"who_may_apply",
}

// Values returns the record's fields in Columns order.
func (p *Position) Values() []interface{} {
	return []interface{}{
		p.SalaryMax,
		p.SalaryMin,
		p.OrganizationName,
		p.PositionTitle,
		p.PublicationDate,
		p.SalaryInterval,
		p.WhoMayApply,
	}
}

func (p Position) MarshalBinary() ([]byte, error) {
	return json.Marshal(p)
}

func (p *Position) UnmarshalBinary(data []byte) error {
	return json.Unmarshal(data, p)
}
