package supabase

import (
	"fmt"
	"io"
	"net/http"
	"strings"

	jsoniter "github.com/json-iterator/go"

	"github.com/gigs-work/backend/internal/config"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Client - единственный на процесс клиент hosted-бэкенда (таблицы
// по протоколу PostgREST плюс файловое хранилище). Конструируется один
// раз с фиксированным endpoint и сервисным ключом. Ретраев, backoff и
// локального кэша данных нет: каждое чтение - прямой round trip.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client

	// токен последней пользовательской сессии; пишется только из
	// auth-потока, см. SetSession
	sessionToken string
}

func New(cfg config.SupabaseConfig) *Client {
	return &Client{
		baseURL: strings.TrimRight(cfg.URL, "/"),
		apiKey:  cfg.APIKey,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
	}
}

// SetSession кэширует токен сессии: последующие вызовы идут с ним
// вместо сервисного ключа в Authorization.
func (c *Client) SetSession(token string) {
	c.sessionToken = token
}

// From даёт доступ к таблице по имени.
func (c *Client) From(table string) *Query {
	return newQuery(c, table)
}

// Bucket даёт доступ к файловому namespace по имени.
func (c *Client) Bucket(name string) *Bucket {
	return &Bucket{client: c, name: name}
}

func (c *Client) authorize(req *http.Request) {
	req.Header.Set("apikey", c.apiKey)

	token := c.sessionToken
	if token == "" {
		token = c.apiKey
	}
	req.Header.Set("Authorization", "Bearer "+token)
}

func (c *Client) do(req *http.Request) (*http.Response, error) {
	c.authorize(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("supabase request failed: %w", err)
	}

	if resp.StatusCode >= http.StatusBadRequest {
		defer resp.Body.Close()

		raw, _ := io.ReadAll(resp.Body)

		apiErr := &APIError{Status: resp.StatusCode}
		if err := json.Unmarshal(raw, apiErr); err != nil || apiErr.Message == "" {
			apiErr.Message = string(raw)
		}

		return nil, apiErr
	}

	return resp, nil
}

// decodeBody разбирает JSON-ответ, не давая кривому payload уронить
// процесс: любая ошибка разбора возвращается как обычная ошибка.
func decodeBody(r io.Reader, out interface{}) error {
	raw, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("read response body: %w", err)
	}

	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode response body: %w", err)
	}

	return nil
}
