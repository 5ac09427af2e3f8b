package blob

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"
)

// Object is a fetched blob body.
type Object struct {
	ContentType string
	Data        []byte
}

// HTTPFetcher reads public blobs over HTTP.
type HTTPFetcher struct {
	client   *http.Client
	maxBytes int64
	logger   *log.Logger
}

func NewHTTPFetcher(timeout time.Duration, maxBytes int64, logger *log.Logger) *HTTPFetcher {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &HTTPFetcher{
		client:   &http.Client{Timeout: timeout},
		maxBytes: maxBytes,
		logger:   logger,
	}
}

var ErrTooLarge = errors.New("blob exceeds size limit")

func (f *HTTPFetcher) Fetch(ctx context.Context, publicURL string) (Object, error) {
	if f == nil || f.client == nil {
		return Object{}, errors.New("nil http fetcher")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, publicURL, nil)
	if err != nil {
		return Object{}, err
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return Object{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		rb, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		bodyStr := strings.TrimSpace(string(rb))
		if f.logger != nil {
			f.logger.Printf("[Blob] fetch error url=%s status=%d body=%q", publicURL, resp.StatusCode, bodyStr)
		}
		return Object{}, fmt.Errorf("blob fetch failed: status=%d", resp.StatusCode)
	}

	body := io.Reader(resp.Body)
	if f.maxBytes > 0 {
		body = io.LimitReader(resp.Body, f.maxBytes+1)
	}
	data, err := io.ReadAll(body)
	if err != nil {
		return Object{}, err
	}
	if f.maxBytes > 0 && int64(len(data)) > f.maxBytes {
		return Object{}, ErrTooLarge
	}

	ct := resp.Header.Get("Content-Type")
	if ct == "" {
		ct = http.DetectContentType(data)
	}
	return Object{ContentType: ct, Data: data}, nil
}
