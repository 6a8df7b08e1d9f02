package apify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	DefaultBaseURL = "https://api.apify.com/v2"
	pageSize       = 1000
	maxErrorBody   = 512
)

var ErrRequestFailed = errors.New("apify request failed")

// Item is one raw dataset record, kept as the JSON the actor produced.
type Item = json.RawMessage

// Client reads datasets from the Apify API.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

type datasetList struct {
	Data struct {
		Items []struct {
			ID string `json:"id"`
		} `json:"items"`
	} `json:"data"`
}

// New builds a client. An empty baseURL uses DefaultBaseURL; a zero timeout
// uses 30s.
func New(token, baseURL string, timeout time.Duration) (*Client, error) {
	if token == "" {
		return nil, errors.New("apify token required")
	}
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		token:   token,
		http:    &http.Client{Timeout: timeout},
	}, nil
}

// DatasetIDs lists the account's unnamed datasets, which is where actor runs
// store their results.
func (c *Client) DatasetIDs(ctx context.Context) ([]string, error) {
	var list datasetList
	if err := c.get(ctx, "/datasets", url.Values{"unnamed": {"1"}}, &list); err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(list.Data.Items))
	for _, d := range list.Data.Items {
		ids = append(ids, d.ID)
	}
	return ids, nil
}

// DatasetItems returns one page of raw items.
func (c *Client) DatasetItems(ctx context.Context, datasetID string, offset, limit int) ([]Item, error) {
	if datasetID == "" {
		return nil, errors.New("dataset id required")
	}
	if limit <= 0 {
		limit = pageSize
	}
	q := url.Values{
		"offset": {fmt.Sprint(offset)},
		"limit":  {fmt.Sprint(limit)},
	}
	var items []Item
	if err := c.get(ctx, "/datasets/"+url.PathEscape(datasetID)+"/items", q, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// AllDatasetItems pages through a dataset until a short page.
func (c *Client) AllDatasetItems(ctx context.Context, datasetID string) ([]Item, error) {
	var all []Item
	for offset := 0; ; {
		items, err := c.DatasetItems(ctx, datasetID, offset, pageSize)
		if err != nil {
			return nil, fmt.Errorf("dataset %s at offset %d: %w", datasetID, offset, err)
		}
		all = append(all, items...)
		offset += len(items)
		if len(items) < pageSize {
			return all, nil
		}
	}
}

func (c *Client) get(ctx context.Context, path string, q url.Values, out any) error {
	q.Set("token", c.token)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+q.Encode(), nil)
	if err != nil {
		return fmt.Errorf("failed to create apify request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrRequestFailed, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read apify response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		if len(raw) > maxErrorBody {
			raw = raw[:maxErrorBody]
		}
		return fmt.Errorf("%w: %s: status %d: %s", ErrRequestFailed, path, resp.StatusCode, bytes.TrimSpace(raw))
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("failed to decode apify response: %w", err)
	}
	return nil
}
