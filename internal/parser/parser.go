package parser

import (
	"fmt"
	"strings"
	"time"

	"fedjobs/internal/errors"
	"fedjobs/internal/model"
)

var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02T15:04:05.9999999",
	time.RFC3339,
}

// Positions flattens a search payload into schema-conformant records.
// Every expected field is required: the first missing one fails the
// whole batch with a PARSE error naming the item and the field.
func Positions(response *model.SearchResponse) ([]model.Position, error) {
	if response == nil || response.SearchResult == nil {
		return nil, errors.Parse("payload missing SearchResult")
	}

	positions := make([]model.Position, 0, len(response.SearchResult.SearchResultItems))
	for i, item := range response.SearchResult.SearchResultItems {
		position, err := normalize(i, item)
		if err != nil {
			return nil, err
		}
		positions = append(positions, *position)
	}
	return positions, nil
}

func normalize(index int, item model.SearchResultItem) (*model.Position, error) {
	descriptor := item.MatchedObjectDescriptor
	if descriptor == nil {
		return nil, missing(index, "MatchedObjectDescriptor")
	}
	if descriptor.PositionTitle == nil {
		return nil, missing(index, "PositionTitle")
	}
	if descriptor.OrganizationName == nil {
		return nil, missing(index, "OrganizationName")
	}
	if descriptor.PublicationStartDate == nil {
		return nil, missing(index, "PublicationStartDate")
	}
	if descriptor.UserArea == nil || descriptor.UserArea.Details == nil ||
		descriptor.UserArea.Details.WhoMayApply == nil || descriptor.UserArea.Details.WhoMayApply.Name == nil {
		return nil, missing(index, "UserArea.Details.WhoMayApply.Name")
	}
	if len(descriptor.PositionRemuneration) == 0 {
		return nil, missing(index, "PositionRemuneration")
	}

	// Only the first remuneration entry is modeled.
	remuneration := descriptor.PositionRemuneration[0]
	if remuneration.MinimumRange == nil {
		return nil, missing(index, "PositionRemuneration.MinimumRange")
	}
	if remuneration.MaximumRange == nil {
		return nil, missing(index, "PositionRemuneration.MaximumRange")
	}
	if remuneration.RateIntervalCode == nil {
		return nil, missing(index, "PositionRemuneration.RateIntervalCode")
	}

	publicationDate, err := parseDate(*descriptor.PublicationStartDate)
	if err != nil {
		return nil, errors.Parse(fmt.Sprintf("item %d: invalid PublicationStartDate %q", index, *descriptor.PublicationStartDate))
	}

	title := strings.ToLower(*descriptor.PositionTitle)
	organization := strings.ToLower(*descriptor.OrganizationName)
	whoMayApply := *descriptor.UserArea.Details.WhoMayApply.Name
	salaryMin := float64(*remuneration.MinimumRange)
	salaryMax := float64(*remuneration.MaximumRange)
	interval := *remuneration.RateIntervalCode

	return &model.Position{
		SalaryMax:        &salaryMax,
		SalaryMin:        &salaryMin,
		OrganizationName: &organization,
		PositionTitle:    title,
		PublicationDate:  &publicationDate,
		SalaryInterval:   &interval,
		WhoMayApply:      &whoMayApply,
	}, nil
}

func missing(index int, field string) error {
	return errors.Parse(fmt.Sprintf("item %d: missing %s", index, field))
}

func parseDate(value string) (time.Time, error) {
	var lastErr error
	for _, layout := range dateLayouts {
		parsed, err := time.Parse(layout, value)
		if err == nil {
			return parsed, nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}
