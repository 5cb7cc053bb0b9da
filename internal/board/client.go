package board

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sethvargo/go-retry"
)

// ErrUpstreamUnavailable is returned when the board service could not be
// reached or did not produce a usable response after retries. Callers decide
// whether to degrade (empty working set) or surface the failure.
var ErrUpstreamUnavailable = errors.New("board service unavailable")

// Client defines the read-only surface of the board service.
type Client interface {
	FetchItems(ctx context.Context, boardID string) ([]RawRecord, error)
	FetchColumns(ctx context.Context, boardID string) ([]ColumnMeta, error)
}

// Compile-time interface check
var _ Client = (*HTTPClient)(nil)

// HTTPClient talks to the board service's GraphQL endpoint.
//
// Reads are idempotent, so transport and 5xx failures are retried with
// jittered exponential backoff before giving up.
type HTTPClient struct {
	endpoint  string
	apiKey    string
	hc        *http.Client
	retryBase time.Duration
	maxRetry  uint64
}

// NewHTTPClient creates a board service client.
func NewHTTPClient(endpoint, apiKey string, timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		endpoint:  endpoint,
		apiKey:    apiKey,
		hc:        &http.Client{Timeout: timeout},
		retryBase: 500 * time.Millisecond,
		maxRetry:  3,
	}
}

const itemsQuery = `query ($boardID: [ID!]) {
  boards (ids: $boardID) {
    items_page (limit: 500) {
      items { id name column_values { id text value } }
    }
  }
}`

const columnsQuery = `query ($boardID: [ID!]) {
  boards (ids: $boardID) {
    columns { id title }
  }
}`

type graphQLError struct {
	Message string `json:"message"`
}

type itemsEnvelope struct {
	Data struct {
		Boards []struct {
			ItemsPage struct {
				Items []RawRecord `json:"items"`
			} `json:"items_page"`
		} `json:"boards"`
	} `json:"data"`
	Errors []graphQLError `json:"errors"`
}

type columnsEnvelope struct {
	Data struct {
		Boards []struct {
			Columns []ColumnMeta `json:"columns"`
		} `json:"boards"`
	} `json:"data"`
	Errors []graphQLError `json:"errors"`
}

// FetchItems returns all items of the given board. A board that exists but
// has no items yields an empty slice. Items already decoded are returned
// even when the service reports partial errors alongside them.
func (c *HTTPClient) FetchItems(ctx context.Context, boardID string) ([]RawRecord, error) {
	var env itemsEnvelope
	if err := c.post(ctx, itemsQuery, boardID, &env); err != nil {
		return nil, err
	}
	if len(env.Data.Boards) == 0 {
		if len(env.Errors) > 0 {
			return nil, fmt.Errorf("%w: %s", ErrUpstreamUnavailable, env.Errors[0].Message)
		}
		return []RawRecord{}, nil
	}
	items := env.Data.Boards[0].ItemsPage.Items
	if items == nil {
		items = []RawRecord{}
	}
	return items, nil
}

// FetchColumns returns the column schema of the given board.
func (c *HTTPClient) FetchColumns(ctx context.Context, boardID string) ([]ColumnMeta, error) {
	var env columnsEnvelope
	if err := c.post(ctx, columnsQuery, boardID, &env); err != nil {
		return nil, err
	}
	if len(env.Data.Boards) == 0 {
		if len(env.Errors) > 0 {
			return nil, fmt.Errorf("%w: %s", ErrUpstreamUnavailable, env.Errors[0].Message)
		}
		return []ColumnMeta{}, nil
	}
	cols := env.Data.Boards[0].Columns
	if cols == nil {
		cols = []ColumnMeta{}
	}
	return cols, nil
}

func (c *HTTPClient) post(ctx context.Context, query, boardID string, out any) error {
	body, err := json.Marshal(map[string]any{
		"query":     query,
		"variables": map[string]any{"boardID": []string{boardID}},
	})
	if err != nil {
		return fmt.Errorf("marshal query: %w", err)
	}

	backoff := retry.WithMaxRetries(c.maxRetry,
		retry.WithJitter(c.retryBase/2, retry.NewExponential(c.retryBase)))

	err = retry.Do(ctx, backoff, func(ctx context.Context) error {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
		if err != nil {
			return err
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", c.apiKey)

		resp, err := c.hc.Do(req)
		if err != nil {
			return retry.RetryableError(err)
		}
		defer resp.Body.Close()

		if resp.StatusCode >= http.StatusInternalServerError ||
			resp.StatusCode == http.StatusTooManyRequests {
			io.Copy(io.Discard, resp.Body)
			return retry.RetryableError(fmt.Errorf("status %d", resp.StatusCode))
		}
		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("status %d", resp.StatusCode)
		}
		return json.NewDecoder(resp.Body).Decode(out)
	})
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUpstreamUnavailable, err)
	}
	return nil
}
