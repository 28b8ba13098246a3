package broadcast

import "context"

type Page struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type SendRequest struct {
	PageID  string `json:"pageId"`
	Message string `json:"message"`
}

// Client calls the two remote functions, authenticated with the operator's
// access token.
type Client interface {
	ListPages(ctx context.Context, token string) ([]Page, error)
	SendMessage(ctx context.Context, token string, req SendRequest) error
}
