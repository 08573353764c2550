package supabase

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

// Query собирает один запрос к таблице в параметры PostgREST.
// Значение не переиспользуется: на каждый запрос - новый From().
type Query struct {
	client *Client
	table  string
	params url.Values
}

func newQuery(client *Client, table string) *Query {
	params := url.Values{}
	params.Set("select", "*")

	return &Query{
		client: client,
		table:  table,
		params: params,
	}
}

func (q *Query) Select(columns string) *Query {
	q.params.Set("select", columns)
	return q
}

func (q *Query) Eq(column string, value string) *Query {
	q.params.Add(column, "eq."+value)
	return q
}

func (q *Query) In(column string, values []string) *Query {
	q.params.Add(column, "in.("+strings.Join(values, ",")+")")
	return q
}

func (q *Query) Ilike(column string, pattern string) *Query {
	q.params.Add(column, "ilike."+pattern)
	return q
}

// Or принимает готовое PostgREST-выражение, например
// "title.ilike.*курьер*,company.ilike.*курьер*".
func (q *Query) Or(expr string) *Query {
	q.params.Add("or", "("+expr+")")
	return q
}

func (q *Query) Order(column string, ascending bool) *Query {
	direction := "desc"
	if ascending {
		direction = "asc"
	}
	q.params.Set("order", column+"."+direction)
	return q
}

func (q *Query) Limit(limit int) *Query {
	q.params.Set("limit", strconv.Itoa(limit))
	return q
}

func (q *Query) Offset(offset int) *Query {
	q.params.Set("offset", strconv.Itoa(offset))
	return q
}

func (q *Query) endpoint() string {
	return q.client.baseURL + "/rest/v1/" + q.table + "?" + q.params.Encode()
}

// Get выполняет чтение и разбирает строки в dest (указатель на slice).
func (q *Query) Get(ctx context.Context, dest interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, q.endpoint(), nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	resp, err := q.client.do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	return decodeBody(resp.Body, dest)
}

// GetWithCount - то же чтение, но с точным числом строк без пагинации.
// Платформа считает его по Prefer: count=exact и отдаёт в Content-Range.
func (q *Query) GetWithCount(ctx context.Context, dest interface{}) (int64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, q.endpoint(), nil)
	if err != nil {
		return 0, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Prefer", "count=exact")

	resp, err := q.client.do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	total, err := parseContentRange(resp.Header.Get("Content-Range"))
	if err != nil {
		return 0, err
	}

	if err := decodeBody(resp.Body, dest); err != nil {
		return 0, err
	}

	return total, nil
}

// Insert вставляет строку и разбирает представление вставленного в dest
// (Prefer: return=representation, платформа отвечает массивом).
func (q *Query) Insert(ctx context.Context, row interface{}, dest interface{}) error {
	payload, err := json.Marshal(row)
	if err != nil {
		return fmt.Errorf("marshal row: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, q.endpoint(), bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Prefer", "return=representation")

	resp, err := q.client.do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if dest == nil {
		return nil
	}

	return decodeBody(resp.Body, dest)
}

// Update применяет patch ко всем строкам, попавшим под фильтры.
func (q *Query) Update(ctx context.Context, patch interface{}) error {
	payload, err := json.Marshal(patch)
	if err != nil {
		return fmt.Errorf("marshal patch: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPatch, q.endpoint(), bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := q.client.do(req)
	if err != nil {
		return err
	}

	return resp.Body.Close()
}

// parseContentRange достаёт total из заголовка вида "0-9/42".
func parseContentRange(header string) (int64, error) {
	idx := strings.LastIndex(header, "/")
	if idx < 0 {
		return 0, fmt.Errorf("unexpected content-range header: %q", header)
	}

	totalPart := header[idx+1:]
	if totalPart == "*" {
		return 0, nil
	}

	total, err := strconv.ParseInt(totalPart, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parse content-range total: %w", err)
	}

	return total, nil
}
