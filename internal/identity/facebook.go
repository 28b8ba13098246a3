package identity

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/facebook"

	"github.com/Vovarama1992/messenger-broadcast/internal/logger"
)

const (
	defaultDialogBaseURL = "https://www.facebook.com"
	defaultGraphBaseURL  = "https://graph.facebook.com"
)

type FacebookOptions struct {
	AppID          string
	AppSecret      string
	APIVersion     string
	RedirectURL    string
	Scopes         []string
	RevokeOnLogout bool

	// Overridable for tests.
	DialogBaseURL string
	GraphBaseURL  string
	HTTPClient    *http.Client
}

// Facebook drives the OAuth dialog and talks to the Graph API.
type Facebook struct {
	opts   FacebookOptions
	client *http.Client

	once    sync.Once
	initErr error
	oauth   *oauth2.Config
}

var _ Provider = (*Facebook)(nil)

func NewFacebook(opts FacebookOptions) *Facebook {
	client := opts.HTTPClient
	if client == nil {
		client = http.DefaultClient
	}
	if opts.DialogBaseURL == "" {
		opts.DialogBaseURL = defaultDialogBaseURL
	}
	if opts.GraphBaseURL == "" {
		opts.GraphBaseURL = defaultGraphBaseURL
	}
	return &Facebook{opts: opts, client: client}
}

// Init runs once per process; later calls return the first result.
func (f *Facebook) Init(_ context.Context) error {
	f.once.Do(func() {
		f.initErr = f.init()
		if f.initErr != nil {
			logger.Error("facebook init failed", zap.Error(f.initErr))
			return
		}
		logger.Info("facebook provider initialized",
			zap.String("app_id", f.opts.AppID),
			zap.String("version", f.opts.APIVersion),
		)
	})
	return f.initErr
}

func (f *Facebook) init() error {
	if f.opts.AppID == "" {
		return errors.New("facebook: app id is required")
	}

	endpoint := facebook.Endpoint
	if f.opts.APIVersion != "" || f.opts.DialogBaseURL != defaultDialogBaseURL || f.opts.GraphBaseURL != defaultGraphBaseURL {
		endpoint = oauth2.Endpoint{
			AuthURL:   f.opts.DialogBaseURL + f.versioned("/dialog/oauth"),
			TokenURL:  f.opts.GraphBaseURL + f.versioned("/oauth/access_token"),
			AuthStyle: oauth2.AuthStyleInParams,
		}
	}

	f.oauth = &oauth2.Config{
		ClientID:     f.opts.AppID,
		ClientSecret: f.opts.AppSecret,
		RedirectURL:  f.opts.RedirectURL,
		Scopes:       f.opts.Scopes,
		Endpoint:     endpoint,
	}
	return nil
}

func (f *Facebook) versioned(path string) string {
	if f.opts.APIVersion == "" {
		return path
	}
	return "/" + f.opts.APIVersion + path
}

func (f *Facebook) config() (*oauth2.Config, error) {
	if f.oauth == nil {
		return nil, ErrNotInitialized
	}
	return f.oauth, nil
}

func (f *Facebook) LoginURL(state string) (string, error) {
	cfg, err := f.config()
	if err != nil {
		return "", err
	}
	return cfg.AuthCodeURL(state), nil
}

func (f *Facebook) Login(ctx context.Context, code string) (LoginResult, error) {
	cfg, err := f.config()
	if err != nil {
		return LoginResult{}, err
	}
	if code == "" {
		return LoginResult{}, ErrMissingCode
	}

	ctx = context.WithValue(ctx, oauth2.HTTPClient, f.client)
	tok, err := cfg.Exchange(ctx, code)
	if err != nil {
		return LoginResult{}, fmt.Errorf("facebook: exchange code: %w", err)
	}
	if tok.AccessToken == "" {
		return LoginResult{}, errors.New("facebook: empty access token in response")
	}

	return LoginResult{AccessToken: tok.AccessToken, Expiry: tok.Expiry}, nil
}

// LoginStatus asks the Graph API whether the token still identifies the
// operator. Rejections map to StatusNotAuthorized; transport failures are
// returned as errors.
func (f *Facebook) LoginStatus(ctx context.Context, accessToken string) (LoginStatus, error) {
	if _, err := f.config(); err != nil {
		return StatusUnknown, err
	}
	if accessToken == "" {
		return StatusUnknown, nil
	}

	resp, err := f.graph(ctx, http.MethodGet, "/me?fields=id", accessToken)
	if err != nil {
		return StatusUnknown, err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode < 300:
		return StatusConnected, nil
	case resp.StatusCode == http.StatusBadRequest,
		resp.StatusCode == http.StatusUnauthorized,
		resp.StatusCode == http.StatusForbidden:
		return StatusNotAuthorized, nil
	default:
		return StatusUnknown, graphError(resp)
	}
}

// Logout revokes the app's permissions only when configured to; otherwise
// ending the session is purely local.
func (f *Facebook) Logout(ctx context.Context, accessToken string) error {
	if _, err := f.config(); err != nil {
		return err
	}
	if !f.opts.RevokeOnLogout || accessToken == "" {
		return nil
	}

	resp, err := f.graph(ctx, http.MethodDelete, "/me/permissions", accessToken)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return graphError(resp)
	}
	return nil
}

func (f *Facebook) graph(ctx context.Context, method, path, accessToken string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, f.opts.GraphBaseURL+f.versioned(path), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("facebook: %s %s: %w", method, strings.SplitN(path, "?", 2)[0], err)
	}
	return resp, nil
}

func graphError(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	return fmt.Errorf("facebook graph api error: %s body=%s", resp.Status, string(body))
}
