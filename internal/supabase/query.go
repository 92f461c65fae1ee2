package supabase

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

type filter struct {
	column string
	op     string
	value  string
}

// QueryBuilder builds one PostgREST request against a table.
type QueryBuilder struct {
	client  *Client
	table   string
	columns string
	filters []filter
	orders  []string
	limit   int
}

// From starts a request against table.
func (c *Client) From(table string) *QueryBuilder {
	return &QueryBuilder{client: c, table: table}
}

func (q *QueryBuilder) Select(columns string) *QueryBuilder {
	q.columns = columns
	return q
}

func (q *QueryBuilder) Eq(column string, value any) *QueryBuilder {
	return q.where(column, "eq", value)
}

func (q *QueryBuilder) Gte(column string, value any) *QueryBuilder {
	return q.where(column, "gte", value)
}

func (q *QueryBuilder) Lte(column string, value any) *QueryBuilder {
	return q.where(column, "lte", value)
}

func (q *QueryBuilder) Order(column string, ascending bool) *QueryBuilder {
	dir := "asc"
	if !ascending {
		dir = "desc"
	}

	q.orders = append(q.orders, column+"."+dir)

	return q
}

func (q *QueryBuilder) Limit(n int) *QueryBuilder {
	q.limit = n
	return q
}

func (q *QueryBuilder) where(column, op string, value any) *QueryBuilder {
	q.filters = append(q.filters, filter{column: column, op: op, value: fmt.Sprint(value)})
	return q
}

func (q *QueryBuilder) query() url.Values {
	params := url.Values{}

	if q.columns != "" {
		params.Set("select", q.columns)
	}

	for _, f := range q.filters {
		params.Add(f.column, f.op+"."+f.value)
	}

	if len(q.orders) > 0 {
		params.Set("order", strings.Join(q.orders, ","))
	}

	if q.limit > 0 {
		params.Set("limit", strconv.Itoa(q.limit))
	}

	return params
}

// Execute runs a select and returns the matching rows.
func (q *QueryBuilder) Execute(ctx context.Context) ([]map[string]any, error) {
	reqURL := q.client.tableURL(q.table)
	if params := q.query(); len(params) > 0 {
		reqURL += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	q.client.setHeaders(ctx, req)

	return q.client.do(req)
}

// Insert sends rows as one JSON array in a single POST.
func (q *QueryBuilder) Insert(ctx context.Context, rows []map[string]any) ([]map[string]any, error) {
	body, err := json.Marshal(rows)
	if err != nil {
		return nil, fmt.Errorf("marshal rows: %w", err)
	}

	reqURL := q.client.tableURL(q.table)
	if q.columns != "" {
		reqURL += "?" + url.Values{"select": {q.columns}}.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, reqURL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	q.client.setHeaders(ctx, req)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Prefer", "return=representation")

	return q.client.do(req)
}
