// Package adzuna is a client for the Adzuna job search API.
package adzuna

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/mitchellh/mapstructure"
	"github.com/tidwall/gjson"
	"go.uber.org/zap"

	"github.com/jobsift/jobsift/internal/logger"
	"github.com/jobsift/jobsift/internal/store"
)

const (
	apiURL         = "https://api.adzuna.com/v1/api"
	defaultCountry = "us"
	resultsPerPage = 50
	requestTimeout = 30 * time.Second
	createdLayout  = "2006-01-02T15:04:05Z"
)

// SearchParams describe one paged search against the jobs endpoint.
type SearchParams struct {
	Keyword    string
	Location   string
	Country    string
	MaxDaysOld int
	Category   string
}

// PageResult is one page of search results, already converted to jobs.
type PageResult struct {
	Jobs       []store.Job
	TotalCount int
	TotalPages int
	Page       int
}

// APIError is a non-200 response from the API.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("adzuna api: status %d: %s", e.StatusCode, e.Message)
}

type envelope struct {
	Count   int              `json:"count"`
	Results []map[string]any `json:"results"`
}

type Client struct {
	appID  string
	apiKey string
	http   *resty.Client
	logger *zap.Logger
}

func New(appID, apiKey string, logger *zap.Logger) *Client {
	return &Client{
		appID:  appID,
		apiKey: apiKey,
		http: resty.New().
			SetBaseURL(apiURL).
			SetTimeout(requestTimeout),
		logger: logger,
	}
}

// CheckCredentials verifies that both credential parts are present. It does
// not call the API.
func (c *Client) CheckCredentials() error {
	if c.appID == "" || c.apiKey == "" {
		return fmt.Errorf("adzuna credentials missing: set ADZUNA_APP_ID and ADZUNA_API_KEY")
	}

	return nil
}

// SearchPage fetches one page of results for the given params. Pages are
// numbered from 1.
func (c *Client) SearchPage(ctx context.Context, params SearchParams, page int) (*PageResult, error) {
	country := params.Country
	if country == "" {
		country = defaultCountry
	}

	req := c.http.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"app_id":           c.appID,
			"app_key":          c.apiKey,
			"what":             params.Keyword,
			"results_per_page": strconv.Itoa(resultsPerPage),
			"content-type":     "application/json",
		})
	if params.Location != "" {
		req.SetQueryParam("where", params.Location)
	}
	if params.MaxDaysOld > 0 {
		req.SetQueryParam("max_days_old", strconv.Itoa(params.MaxDaysOld))
	}
	if params.Category != "" {
		req.SetQueryParam("category", params.Category)
	}

	resp, err := req.Get(fmt.Sprintf("/jobs/%s/search/%d", strings.ToLower(country), page))
	if err != nil {
		return nil, fmt.Errorf("adzuna search page %d: %w", page, err)
	}
	if resp.StatusCode() != 200 {
		msg := gjson.GetBytes(resp.Body(), "display").String()
		if msg == "" {
			msg = gjson.GetBytes(resp.Body(), "exception").String()
		}
		if msg == "" {
			msg = logger.TruncateForLog(string(resp.Body()), 200)
		}

		return nil, &APIError{StatusCode: resp.StatusCode(), Message: msg}
	}

	var raw map[string]any
	if err := decodeBody(resp.Body(), &raw); err != nil {
		return nil, fmt.Errorf("adzuna search page %d: %w", page, err)
	}

	var env envelope
	cfg := &mapstructure.DecoderConfig{
		Result:  &env,
		TagName: "json",
	}
	decoder, _ := mapstructure.NewDecoder(cfg)
	if err := decoder.Decode(raw); err != nil {
		return nil, fmt.Errorf("adzuna search page %d: decoding results: %w", page, err)
	}

	jobs := make([]store.Job, 0, len(env.Results))
	for _, r := range env.Results {
		jobs = append(jobs, convertResult(r))
	}

	totalPages := 0
	if env.Count > 0 {
		totalPages = (env.Count + resultsPerPage - 1) / resultsPerPage
	}

	c.logger.Debug("got response from adzuna",
		zap.Int("page", page),
		zap.Int("count", env.Count),
		zap.Int("results", len(jobs)),
	)

	return &PageResult{
		Jobs:       jobs,
		TotalCount: env.Count,
		TotalPages: totalPages,
		Page:       page,
	}, nil
}

// SetBaseURL overrides the API endpoint, for tests.
func (c *Client) SetBaseURL(u string) {
	c.http.SetBaseURL(u)
}
