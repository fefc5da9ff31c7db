package pipeline

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"fedjobs/internal/api"
	"fedjobs/internal/config"
	"fedjobs/internal/errors"
	"fedjobs/internal/messaging"
	"fedjobs/internal/model"
	"fedjobs/internal/window"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeSearchClient struct {
	queries  []api.SearchQuery
	response *model.SearchResponse
	err      error
}

func (f *fakeSearchClient) Search(_ context.Context, query api.SearchQuery) (*model.SearchResponse, error) {
	f.queries = append(f.queries, query)
	return f.response, f.err
}

type fakeStore struct {
	schemaErr error
	insertErr error
	inserted  []model.Position
	latest    *time.Time
}

func (f *fakeStore) EnsureSchema(context.Context) error { return f.schemaErr }

func (f *fakeStore) Insert(_ context.Context, position model.Position) error {
	if f.insertErr != nil {
		return f.insertErr
	}
	f.inserted = append(f.inserted, position)
	f.latest = position.PublicationDate
	return nil
}

func (f *fakeStore) LatestPublicationDate(context.Context) (*time.Time, error) {
	return f.latest, nil
}

func searchResponse(t *testing.T, payload string) *model.SearchResponse {
	t.Helper()
	var response model.SearchResponse
	require.NoError(t, json.Unmarshal([]byte(payload), &response))
	return &response
}

func twoItemPayload(publicationDate string) string {
	return `{
		"SearchResult": {
			"SearchResultItems": [
				{
					"MatchedObjectDescriptor": {
						"PositionTitle": "Data Analyst",
						"OrganizationName": "GSA",
						"PublicationStartDate": "` + publicationDate + `",
						"PositionRemuneration": [
							{"MinimumRange": "50000", "MaximumRange": "70000", "RateIntervalCode": "Per Year"}
						],
						"UserArea": {"Details": {"WhoMayApply": {"Name": "United States Citizens"}}}
					}
				},
				{
					"MatchedObjectDescriptor": {
						"PositionTitle": "Data Engineer",
						"OrganizationName": "NASA",
						"PublicationStartDate": "` + publicationDate + `",
						"PositionRemuneration": [
							{"MinimumRange": "60000", "MaximumRange": "90000", "RateIntervalCode": "Per Year"}
						],
						"UserArea": {"Details": {"WhoMayApply": {"Name": "United States Citizens"}}}
					}
				}
			]
		}
	}`
}

func newIngest(client api.SearchClient, store IngestStore) *Ingest {
	logger := zap.NewNop()
	cfg := &config.Config{
		PositionTitles: []string{"Data Analyst"},
		Keywords:       []string{"data"},
	}
	return NewIngest(client, store, window.NewCalculator(store, logger), messaging.NewNopPublisher(), logger, cfg)
}

func TestIngestEmptyStoreFetchesEverything(t *testing.T) {
	today := time.Now().Format("2006-01-02")
	client := &fakeSearchClient{response: searchResponse(t, twoItemPayload(today))}
	store := &fakeStore{}

	require.NoError(t, newIngest(client, store).Run(context.Background()))

	require.Len(t, client.queries, 1)
	assert.Nil(t, client.queries[0].Days)
	assert.Equal(t, []string{"Data Analyst"}, client.queries[0].Titles)
	assert.Equal(t, []string{"data"}, client.queries[0].Keywords)
	require.Len(t, store.inserted, 2)
	assert.Equal(t, "data analyst", store.inserted[0].PositionTitle)
	assert.Equal(t, "data engineer", store.inserted[1].PositionTitle)
}

func TestIngestRerunComputesZeroDayWindow(t *testing.T) {
	today := time.Now().Format("2006-01-02")
	client := &fakeSearchClient{response: searchResponse(t, twoItemPayload(today))}
	store := &fakeStore{}
	ingest := newIngest(client, store)

	require.NoError(t, ingest.Run(context.Background()))
	require.NoError(t, ingest.Run(context.Background()))

	require.Len(t, client.queries, 2)
	assert.Nil(t, client.queries[0].Days)
	require.NotNil(t, client.queries[1].Days)
	assert.Equal(t, 0, *client.queries[1].Days)
}

func TestIngestSchemaFailureIsFatal(t *testing.T) {
	client := &fakeSearchClient{}
	store := &fakeStore{schemaErr: errors.Store("creating table positions", assert.AnError)}

	err := newIngest(client, store).Run(context.Background())
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrTypeStore))
	assert.Empty(t, client.queries)
}

func TestIngestMalformedItemFailsBatch(t *testing.T) {
	payload := `{
		"SearchResult": {
			"SearchResultItems": [
				{
					"MatchedObjectDescriptor": {
						"PositionTitle": "Data Analyst",
						"OrganizationName": "GSA",
						"PublicationStartDate": "2024-05-01",
						"UserArea": {"Details": {"WhoMayApply": {"Name": "Anyone"}}}
					}
				}
			]
		}
	}`
	client := &fakeSearchClient{response: searchResponse(t, payload)}
	store := &fakeStore{}

	err := newIngest(client, store).Run(context.Background())
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrTypeParse))
	assert.Empty(t, store.inserted)
}

func TestIngestTransportFailureIsFatal(t *testing.T) {
	client := &fakeSearchClient{err: errors.Transport("search", 502)}
	store := &fakeStore{}

	err := newIngest(client, store).Run(context.Background())
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrTypeTransport))
}
