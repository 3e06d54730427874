package apiclient

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"groupadmin/internal/model"
)

// ItemsQuery carries the list parameters for the items endpoint.
type ItemsQuery struct {
	Category string
	SortBy   string
	Limit    int
	LastKey  string
}

// Values encodes the query for the wire; the same encoding feeds the cache
// fingerprint.
func (q ItemsQuery) Values() url.Values {
	v := url.Values{}
	if q.Category != "" {
		v.Set("category", q.Category)
	}
	if q.SortBy != "" {
		v.Set("sort_by", q.SortBy)
	}
	if q.Limit > 0 {
		v.Set("limit", strconv.Itoa(q.Limit))
	}
	if q.LastKey != "" {
		v.Set("lastKey", q.LastKey)
	}
	return v
}

// ItemsPage is one page of items plus the continuation key, if any.
type ItemsPage struct {
	Items            []model.Item `json:"items"`
	LastEvaluatedKey string       `json:"last_evaluated_key,omitempty"`
}

// ListItems fetches one page of items.
func (c *Client) ListItems(ctx context.Context, q ItemsQuery) (*ItemsPage, error) {
	var out ItemsPage
	if err := c.do(ctx, http.MethodGet, "/items", q.Values(), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateItem creates a new item.
func (c *Client) CreateItem(ctx context.Context, item model.Item) error {
	return c.do(ctx, http.MethodPost, "/items", nil, item, nil)
}

// UpdateItem applies a partial update; only the patch's non-nil fields are
// sent.
func (c *Client) UpdateItem(ctx context.Context, id string, patch model.ItemPatch) error {
	return c.do(ctx, http.MethodPatch, "/items/"+id, nil, patch, nil)
}

// DeleteItem deletes an item.
func (c *Client) DeleteItem(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/items/"+id, nil, nil, nil)
}
