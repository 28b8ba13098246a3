package broadcast

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"

	"github.com/Vovarama1992/messenger-broadcast/internal/logger"
)

var errNoToken = errors.New("not logged in")

// View is a copy of the workspace state for rendering.
type View struct {
	Pages        []Page `json:"pages"`
	SelectedID   string `json:"selectedPageId"`
	SelectedName string `json:"selectedPageName"`
	Message      string `json:"message"`
	Status       Status `json:"status"`
}

// Workspace holds the pages screen state: the fetched page list, the
// single selection, the draft message and the last status.
type Workspace struct {
	client Client

	mu        sync.Mutex
	pages     []Page
	selected  string
	message   string
	status    Status
	loadedFor string
}

func NewWorkspace(client Client) *Workspace {
	return &Workspace{client: client, pages: []Page{}}
}

// EnsurePages fetches the page list once per distinct token, including the
// first token after startup or login. A failed fetch is not retried until
// the token changes.
func (w *Workspace) EnsurePages(ctx context.Context, token string) {
	w.mu.Lock()
	due := token != "" && token != w.loadedFor
	if due {
		w.loadedFor = token
	}
	w.mu.Unlock()

	if due {
		_ = w.FetchPages(ctx, token)
	}
}

// FetchPages replaces the page list on success. On failure the previous
// list is kept and the error becomes the status.
func (w *Workspace) FetchPages(ctx context.Context, token string) error {
	log := logger.Named("workspace")

	pages, err := w.client.ListPages(ctx, token)

	w.mu.Lock()
	defer w.mu.Unlock()

	if err != nil {
		log.Error("fetch pages failed", zap.Error(err))
		w.status = errorStatus(fetchErrorPrefix, err)
		return err
	}

	w.pages = pages
	log.Info("pages fetched", zap.Int("count", len(pages)))
	return nil
}

// SelectPage sets the active page without checking it exists.
func (w *Workspace) SelectPage(pageID string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.selected = pageID
}

func (w *Workspace) SetMessage(text string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.message = text
}

// SendMessage records the form input, checks that both a page and a
// message are present, and only then calls the send function once. The
// draft is kept whatever the outcome.
func (w *Workspace) SendMessage(ctx context.Context, token, pageID, text string) Status {
	log := logger.Named("workspace").With(zap.String("page_id", pageID))

	w.mu.Lock()
	w.selected = pageID
	w.message = text
	w.mu.Unlock()

	if pageID == "" || text == "" {
		return w.setStatus(infoStatus(StatusNeedInput))
	}
	if token == "" {
		return w.setStatus(errorStatus(sendErrorPrefix, errNoToken))
	}

	err := w.client.SendMessage(ctx, token, SendRequest{PageID: pageID, Message: text})
	if err != nil {
		log.Error("send messages failed", zap.Error(err))
		return w.setStatus(errorStatus(sendErrorPrefix, err))
	}

	log.Info("messages queued", zap.Int("message_len", len(text)))
	return w.setStatus(successStatus(StatusQueued))
}

func (w *Workspace) SetStatus(s Status) {
	w.setStatus(s)
}

func (w *Workspace) setStatus(s Status) Status {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.status = s
	return s
}

func (w *Workspace) View() View {
	w.mu.Lock()
	defer w.mu.Unlock()

	pages := make([]Page, len(w.pages))
	copy(pages, w.pages)

	return View{
		Pages:        pages,
		SelectedID:   w.selected,
		SelectedName: w.selectedName(),
		Message:      w.message,
		Status:       w.status,
	}
}

func (w *Workspace) selectedName() string {
	for _, p := range w.pages {
		if p.ID == w.selected && w.selected != "" {
			return p.Name
		}
	}
	return NoPageSelected
}

// Reset forgets everything tied to the previous session.
func (w *Workspace) Reset() {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.pages = []Page{}
	w.selected = ""
	w.message = ""
	w.status = Status{}
	w.loadedFor = ""
}
