package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"fedjobs/internal/cache"
	"fedjobs/internal/config"
	"fedjobs/internal/errors"
	"fedjobs/internal/model"
	"fedjobs/internal/telemetry"

	"go.uber.org/zap"
)

var tracer = telemetry.GetTracer("fedjobs/api")

const searchEndpoint = "search"

// SearchQuery carries the search terms and the optional day window.
// A nil Days means no date filter is sent at all.
type SearchQuery struct {
	Titles   []string
	Keywords []string
	Days     *int
}

type SearchClient interface {
	Search(ctx context.Context, query SearchQuery) (*model.SearchResponse, error)
}

type searchClient struct {
	client *http.Client
	logger *zap.Logger
	config *config.Config
	cache  cache.Cache
}

func NewSearchClient(logger *zap.Logger, config *config.Config, cache cache.Cache) SearchClient {
	return &searchClient{
		client: &http.Client{
			Timeout: config.APITimeout,
		},
		logger: logger,
		config: config,
		cache:  cache,
	}
}

func (c *searchClient) Search(ctx context.Context, query SearchQuery) (*model.SearchResponse, error) {
	ctx, span := tracer.Start(ctx, "Search")
	defer span.End()

	params := url.Values{}
	params.Set("Keyword", strings.Join(query.Keywords, ","))
	params.Set("PositionTitle", strings.Join(query.Titles, ","))
	if query.Days != nil {
		params.Set("DatePosted", strconv.Itoa(*query.Days))
	}
	params.Set("ResultsPerPage", strconv.Itoa(c.config.PageLimit))

	cacheKey := fmt.Sprintf("usajobs:%s:%s", searchEndpoint, params.Encode())

	var cached model.SearchResponse
	err := c.cache.Get(ctx, cacheKey, &cached)
	if err == nil {
		span.SetAttributes(telemetry.String("cache.result", "hit"))
		c.logger.Debug("cache hit for position search")
		return &cached, nil
	} else if err != cache.ErrNotFound {
		span.SetAttributes(telemetry.String("cache.result", "error"))
		span.RecordError(err)
		c.logger.Warn("cache error for position search", zap.Error(err))
	} else {
		span.SetAttributes(telemetry.String("cache.result", "miss"))
	}

	requestURL := fmt.Sprintf("%s/%s?%s", c.config.APIBaseURL, searchEndpoint, params.Encode())
	c.logger.Debug("cache miss, searching positions", zap.String("url", requestURL))
	span.SetAttributes(telemetry.String("http.url", requestURL))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		span.RecordError(err)
		return nil, errors.Internal("creating request", err)
	}
	req.Host = "data.usajobs.gov"
	req.Header.Set("User-Agent", c.config.AuthorizationEmail)
	req.Header.Set("Authorization-Key", c.config.AuthorizationKey)

	resp, err := c.client.Do(req)
	if err != nil {
		span.RecordError(err)
		c.logger.Error("failed to execute request", zap.Error(err))
		return nil, errors.Internal("executing request", err)
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			c.logger.Warn("failed to close response body", zap.Error(cerr))
		}
	}()

	span.SetAttributes(
		telemetry.Int("http.status_code", resp.StatusCode),
		telemetry.String("http.method", http.MethodGet),
	)

	if resp.StatusCode != http.StatusOK {
		c.logger.Error("unexpected status code", zap.Int("status_code", resp.StatusCode))
		return nil, errors.Transport(searchEndpoint, resp.StatusCode)
	}

	var searchResponse model.SearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&searchResponse); err != nil {
		c.logger.Error("failed to decode response", zap.Error(err))
		return nil, errors.Internal("decoding response", err)
	}

	if searchResponse.SearchResult != nil {
		c.logger.Info("search response stats",
			zap.Int("total_items", len(searchResponse.SearchResult.SearchResultItems)))
	}

	if err := c.cache.Set(ctx, cacheKey, searchResponse, c.config.CacheTTL); err != nil {
		c.logger.Warn("failed to cache search response", zap.Error(err))
	}

	return &searchResponse, nil
}
