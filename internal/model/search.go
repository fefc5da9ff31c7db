package model

import (
	"encoding/json"
	"strconv"
	"strings"
)

// SearchResponse mirrors the USAJobs search payload. Fields are pointers
// so the normalizer can tell a missing key from a zero value.
type SearchResponse struct {
	SearchResult *SearchResult `json:"SearchResult"`
}

type SearchResult struct {
	SearchResultItems []SearchResultItem `json:"SearchResultItems"`
}

type SearchResultItem struct {
	MatchedObjectDescriptor *MatchedObjectDescriptor `json:"MatchedObjectDescriptor"`
}

type MatchedObjectDescriptor struct {
	PositionTitle        *string        `json:"PositionTitle"`
	OrganizationName     *string        `json:"OrganizationName"`
	PublicationStartDate *string        `json:"PublicationStartDate"`
	PositionRemuneration []Remuneration `json:"PositionRemuneration"`
	UserArea             *UserArea      `json:"UserArea"`
}

type Remuneration struct {
	MinimumRange     *Amount `json:"MinimumRange"`
	MaximumRange     *Amount `json:"MaximumRange"`
	RateIntervalCode *string `json:"RateIntervalCode"`
}

type UserArea struct {
	Details *UserAreaDetails `json:"Details"`
}

type UserAreaDetails struct {
	WhoMayApply *WhoMayApply `json:"WhoMayApply"`
}

type WhoMayApply struct {
	Name *string `json:"Name"`
}

// Amount is a remuneration bound. The API encodes it as a quoted string,
// occasionally as a bare number.
type Amount float64

func (a *Amount) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if len(s) >= 2 && s[0] == '"' {
		unquoted, err := strconv.Unquote(s)
		if err != nil {
			return err
		}
		s = strings.TrimSpace(unquoted)
	}
	value, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return err
	}
	*a = Amount(value)
	return nil
}

func (r SearchResponse) MarshalBinary() ([]byte, error) {
	return json.Marshal(r)
}

func (r *SearchResponse) UnmarshalBinary(data []byte) error {
	return json.Unmarshal(data, r)
}
