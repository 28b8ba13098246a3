package broadcast_test

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/Vovarama1992/messenger-broadcast/internal/broadcast"
)

type fakeClient struct {
	mu        sync.Mutex
	pages     []broadcast.Page
	listErr   error
	sendErr   error
	listCalls int
	sent      []broadcast.SendRequest
	tokens    []string
}

func (f *fakeClient) ListPages(_ context.Context, token string) ([]broadcast.Page, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listCalls++
	f.tokens = append(f.tokens, token)
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.pages, nil
}

func (f *fakeClient) SendMessage(_ context.Context, token string, req broadcast.SendRequest) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, req)
	f.tokens = append(f.tokens, token)
	return f.sendErr
}

var shopAndSupport = []broadcast.Page{{ID: "1", Name: "Shop"}, {ID: "2", Name: "Support"}}

func TestEnsurePagesOncePerToken(t *testing.T) {
	ctx := context.Background()
	client := &fakeClient{pages: shopAndSupport}
	ws := broadcast.NewWorkspace(client)

	ws.EnsurePages(ctx, "")
	ws.EnsurePages(ctx, "tok-a")
	ws.EnsurePages(ctx, "tok-a")
	if client.listCalls != 1 {
		t.Fatalf("expected 1 fetch, got %d", client.listCalls)
	}

	ws.EnsurePages(ctx, "tok-b")
	if client.listCalls != 2 {
		t.Fatalf("expected refetch on token change, got %d", client.listCalls)
	}

	view := ws.View()
	if len(view.Pages) != 2 || view.Pages[0].Name != "Shop" || view.Pages[1].Name != "Support" {
		t.Fatalf("unexpected pages %+v", view.Pages)
	}
}

func TestFetchPagesFailureKeepsCollection(t *testing.T) {
	ctx := context.Background()
	client := &fakeClient{pages: shopAndSupport}
	ws := broadcast.NewWorkspace(client)

	if err := ws.FetchPages(ctx, "tok"); err != nil {
		t.Fatalf("FetchPages failed: %v", err)
	}

	client.listErr = errors.New("timeout")
	if err := ws.FetchPages(ctx, "tok"); err == nil {
		t.Fatal("expected error")
	}

	view := ws.View()
	if len(view.Pages) != 2 {
		t.Fatalf("expected stale collection kept, got %+v", view.Pages)
	}
	if view.Status.Text != "Error fetching pages: timeout" || !view.Status.IsError() {
		t.Fatalf("unexpected status %+v", view.Status)
	}
}

func TestSendMessagePreconditions(t *testing.T) {
	cases := []struct {
		name   string
		pageID string
		text   string
	}{
		{"no page", "", "Hello"},
		{"no message", "1", ""},
		{"neither", "", ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			client := &fakeClient{}
			ws := broadcast.NewWorkspace(client)

			st := ws.SendMessage(context.Background(), "tok", tc.pageID, tc.text)
			if len(client.sent) != 0 {
				t.Fatalf("expected 0 calls, got %d", len(client.sent))
			}
			if st.Text != broadcast.StatusNeedInput || st.IsError() {
				t.Fatalf("unexpected status %+v", st)
			}
		})
	}
}

func TestSendMessageWhitespaceIsSent(t *testing.T) {
	client := &fakeClient{}
	ws := broadcast.NewWorkspace(client)

	st := ws.SendMessage(context.Background(), "tok", "1", "   ")

	if len(client.sent) != 1 {
		t.Fatalf("expected exactly 1 call, got %d", len(client.sent))
	}
	if client.sent[0].Message != "   " {
		t.Fatalf("expected message passed through verbatim, got %q", client.sent[0].Message)
	}
	if st.Text != broadcast.StatusQueued {
		t.Fatalf("unexpected status %+v", st)
	}
}

func TestSendMessageSuccess(t *testing.T) {
	client := &fakeClient{}
	ws := broadcast.NewWorkspace(client)

	st := ws.SendMessage(context.Background(), "tok", "1", "Hello")

	if len(client.sent) != 1 {
		t.Fatalf("expected exactly 1 call, got %d", len(client.sent))
	}
	if client.sent[0] != (broadcast.SendRequest{PageID: "1", Message: "Hello"}) {
		t.Fatalf("unexpected payload %+v", client.sent[0])
	}
	if client.tokens[0] != "tok" {
		t.Fatalf("expected token forwarded, got %q", client.tokens[0])
	}
	if st.Text != "Messages queued successfully" || st.IsError() {
		t.Fatalf("unexpected status %+v", st)
	}
	if ws.View().Status != st {
		t.Fatal("expected status stored on workspace")
	}
}

func TestSendMessageFailurePreservesDraft(t *testing.T) {
	client := &fakeClient{sendErr: errors.New("network down")}
	ws := broadcast.NewWorkspace(client)

	st := ws.SendMessage(context.Background(), "tok", "1", "Hello")

	if len(client.sent) != 1 {
		t.Fatalf("expected exactly 1 call, got %d", len(client.sent))
	}
	if !strings.Contains(st.Text, "network down") || !st.IsError() {
		t.Fatalf("unexpected status %+v", st)
	}
	if view := ws.View(); view.Message != "Hello" || view.SelectedID != "1" {
		t.Fatalf("expected draft preserved, got %+v", view)
	}
}

func TestSendMessageWithoutToken(t *testing.T) {
	client := &fakeClient{}
	ws := broadcast.NewWorkspace(client)

	st := ws.SendMessage(context.Background(), "", "1", "Hello")
	if len(client.sent) != 0 || !st.IsError() {
		t.Fatalf("expected no call and error status, got %d calls, %+v", len(client.sent), st)
	}
}

func TestSelectPageName(t *testing.T) {
	ctx := context.Background()
	ws := broadcast.NewWorkspace(&fakeClient{pages: shopAndSupport})
	_ = ws.FetchPages(ctx, "tok")

	if got := ws.View().SelectedName; got != broadcast.NoPageSelected {
		t.Fatalf("expected no selection, got %q", got)
	}

	ws.SelectPage("2")
	if got := ws.View().SelectedName; got != "Support" {
		t.Fatalf("expected Support, got %q", got)
	}

	ws.SelectPage("99")
	if got := ws.View().SelectedName; got != broadcast.NoPageSelected {
		t.Fatalf("expected unknown id to render as no selection, got %q", got)
	}
}

func TestReset(t *testing.T) {
	ctx := context.Background()
	client := &fakeClient{pages: shopAndSupport}
	ws := broadcast.NewWorkspace(client)
	ws.EnsurePages(ctx, "tok")
	ws.SendMessage(ctx, "tok", "1", "Hello")

	ws.Reset()

	view := ws.View()
	if len(view.Pages) != 0 || view.Message != "" || view.SelectedID != "" || !view.Status.Empty() {
		t.Fatalf("expected empty workspace, got %+v", view)
	}

	ws.EnsurePages(ctx, "tok")
	if client.listCalls != 2 {
		t.Fatalf("expected fetch after reset with same token, got %d", client.listCalls)
	}
}

func TestErrorStatus(t *testing.T) {
	if got := broadcast.ErrorStatus("state mismatch").Text; got != "Error: state mismatch" {
		t.Fatalf("unexpected text %q", got)
	}
	if got := broadcast.ErrorStatus("Error logging in").Text; got != "Error logging in" {
		t.Fatalf("unexpected text %q", got)
	}
}
