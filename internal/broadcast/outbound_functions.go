package broadcast

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/Vovarama1992/messenger-broadcast/internal/logger"
)

// APIError is a non-2xx answer from a remote function.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("request failed with status code %d", e.StatusCode)
}

type FunctionsClient struct {
	baseURL string
	client  *http.Client
}

var _ Client = (*FunctionsClient)(nil)

// NewFunctionsClient talks to <baseURL>/pages and <baseURL>/send-messages.
// A zero timeout leaves requests bounded only by their context.
func NewFunctionsClient(baseURL string, timeout time.Duration) *FunctionsClient {
	return &FunctionsClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
	}
}

func (c *FunctionsClient) ListPages(ctx context.Context, token string) ([]Page, error) {
	var pages []Page
	if err := c.do(ctx, http.MethodGet, "/pages", token, nil, &pages); err != nil {
		return nil, err
	}
	if pages == nil {
		pages = []Page{}
	}
	return pages, nil
}

func (c *FunctionsClient) SendMessage(ctx context.Context, token string, req SendRequest) error {
	return c.do(ctx, http.MethodPost, "/send-messages", token, req, nil)
}

func (c *FunctionsClient) do(ctx context.Context, method, path, token string, body, out any) error {
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}

	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Authorization", "Bearer "+token)

	start := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	logger.Debug("functions call",
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("elapsed", time.Since(start)),
	)

	if resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return &APIError{StatusCode: resp.StatusCode, Body: string(respBody)}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s response: %w", path, err)
	}
	return nil
}
