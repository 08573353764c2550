package supabase

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
)

// Bucket - файловый namespace хранилища.
type Bucket struct {
	client *Client
	name   string
}

// Upload кладёт объект по пути внутри bucket, перезаписывая существующий.
func (b *Bucket) Upload(ctx context.Context, path string, contentType string, data []byte) error {
	endpoint := b.client.baseURL + "/storage/v1/object/" + b.name + "/" + path

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("x-upsert", "true")

	resp, err := b.client.do(req)
	if err != nil {
		return err
	}

	return resp.Body.Close()
}

func (b *Bucket) Download(ctx context.Context, path string) ([]byte, error) {
	endpoint := b.client.baseURL + "/storage/v1/object/" + b.name + "/" + path

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := b.client.do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read object body: %w", err)
	}

	return data, nil
}

// PublicURL возвращает публичную ссылку на объект; сетевого вызова нет.
func (b *Bucket) PublicURL(path string) string {
	return b.client.baseURL + "/storage/v1/object/public/" + b.name + "/" + path
}
