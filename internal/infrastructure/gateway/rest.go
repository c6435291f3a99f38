package gateway

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// Query builds a PostgREST request against one table.
type Query struct {
	c      *Client
	table  string
	token  string
	params url.Values
}

// From starts a query on table made on behalf of token.
func (c *Client) From(table, token string) *Query {
	return &Query{c: c, table: table, token: token, params: url.Values{}}
}

func (q *Query) Select(columns string) *Query {
	q.params.Set("select", columns)
	return q
}

func (q *Query) Eq(column, value string) *Query {
	q.params.Add(column, "eq."+value)
	return q
}

func (q *Query) Gte(column string, t time.Time) *Query {
	q.params.Add(column, "gte."+FormatTime(t))
	return q
}

func (q *Query) Lt(column string, t time.Time) *Query {
	q.params.Add(column, "lt."+FormatTime(t))
	return q
}

func (q *Query) In(column string, values ...string) *Query {
	q.params.Add(column, "in.("+strings.Join(values, ",")+")")
	return q
}

// Order appends an ordering term; multiple calls sort by each in turn.
func (q *Query) Order(column string, ascending bool) *Query {
	dir := "desc"
	if ascending {
		dir = "asc"
	}
	term := column + "." + dir
	if prev := q.params.Get("order"); prev != "" {
		term = prev + "," + term
	}
	q.params.Set("order", term)
	return q
}

func (q *Query) Limit(n int) *Query {
	q.params.Set("limit", strconv.Itoa(n))
	return q
}

// Find decodes the matching rows into out, which must point to a slice.
func (q *Query) Find(ctx context.Context, out any) error {
	req := q.c.request(ctx, "rest.select."+q.table, q.token).
		SetQueryParamsFromValues(q.params).
		SetResult(out)
	_, err := q.c.send(req, http.MethodGet, q.path())
	return err
}

// Count returns the exact number of matching rows without fetching them.
func (q *Query) Count(ctx context.Context) (int, error) {
	req := q.c.request(ctx, "rest.count."+q.table, q.token).
		SetQueryParamsFromValues(q.params).
		SetHeader("Prefer", "count=exact")
	resp, err := q.c.send(req, http.MethodHead, q.path())
	if err != nil {
		return 0, err
	}
	return parseContentRange(resp.Header().Get("Content-Range"))
}

// Insert writes row and decodes the stored representation into out, which
// must point to a slice.
func (q *Query) Insert(ctx context.Context, row, out any) error {
	req := q.c.request(ctx, "rest.insert."+q.table, q.token).
		SetQueryParamsFromValues(q.params).
		SetHeader("Prefer", "return=representation").
		SetBody(row).
		SetResult(out)
	_, err := q.c.send(req, http.MethodPost, q.path())
	return err
}

func (q *Query) path() string { return "/rest/v1/" + q.table }

// parseContentRange reads the total from "0-24/3573" or "*/0".
func parseContentRange(v string) (int, error) {
	i := strings.LastIndexByte(v, '/')
	if i < 0 {
		return 0, fmt.Errorf("gateway: malformed Content-Range %q", v)
	}
	n, err := strconv.Atoi(v[i+1:])
	if err != nil {
		return 0, fmt.Errorf("gateway: malformed Content-Range %q: %w", v, err)
	}
	return n, nil
}

// FormatTime renders t the way the data API compares timestamps: UTC ISO-8601
// with milliseconds.
func FormatTime(t time.Time) string {
	return t.UTC().Format("2006-01-02T15:04:05.000Z")
}
