package server

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"sync"
	"sync/atomic"

	"golang.org/x/oauth2"
)

// ErrInvalidState means the callback's state did not match the one sent to the provider.
var ErrInvalidState = errors.New("invalid state parameter")

// OAuthResult is the outcome of a single authorization code callback.
type OAuthResult struct {
	Token *oauth2.Token
	Err   error
}

// Error returns the failure, if any.
func (o OAuthResult) Error() error { return o.Err }

// OAuthHandler accepts exactly one redirect from the provider at GET /callback and publishes the exchanged
// token on [OAuthHandler.Result].
type OAuthHandler struct {
	config *oauth2.Config
	state  string
	used   atomic.Bool
	once   sync.Once
	result chan OAuthResult
}

// NewOAuthHandler creates a handler expecting the given state token back from the provider.
func NewOAuthHandler(config *oauth2.Config, state string) *OAuthHandler {
	return &OAuthHandler{
		config: config,
		state:  state,
		result: make(chan OAuthResult, 1),
	}
}

func (h *OAuthHandler) Routes() []string {
	return []string{"GET /callback"}
}

var callbackPage = template.Must(template.New("callback").Parse(`<!DOCTYPE html>
<html>
<head>
    <title>sangeet: {{.Title}}</title>
    <style>
        body { font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, sans-serif;
               display: flex; align-items: center; justify-content: center; height: 100vh;
               margin: 0; background: #f5f5f5; }
        .card { text-align: center; background: white; padding: 2rem;
                border-radius: 8px; box-shadow: 0 2px 4px rgba(0,0,0,0.1); }
        h1 { color: {{.Color}}; margin: 0 0 1rem 0; }
        p { color: #666; margin: 0; }
    </style>
</head>
<body>
    <div class="card">
        <h1>{{.Title}}</h1>
        <p>{{.Message}}</p>
    </div>
</body>
</html>
`))

type callbackView struct {
	Title   string
	Message string
	Color   template.CSS
}

var signedInView = callbackView{
	Title:   "Signed in",
	Message: "You can close this window and return to the terminal.",
	Color:   "#7d56f4",
}

func failureView(msg string) callbackView {
	return callbackView{Title: "Sign-in failed", Message: msg, Color: "#d64545"}
}

func (h *OAuthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if !h.used.CompareAndSwap(false, true) {
		render(w, http.StatusBadRequest, failureView("This sign-in link was already used."))
		return
	}

	token, status, view, err := h.exchange(r.Context(), r)
	h.Send(OAuthResult{Token: token, Err: err})
	render(w, status, view)
}

// exchange validates the redirect and trades the code for a token.
func (h *OAuthHandler) exchange(ctx context.Context, r *http.Request) (*oauth2.Token, int, callbackView, error) {
	query := r.URL.Query()
	if query.Get("state") != h.state {
		return nil, http.StatusBadRequest, failureView("Invalid state parameter."), ErrInvalidState
	}

	code := query.Get("code")
	if code == "" {
		err := fmt.Errorf("authorization failed: %s - %s", query.Get("error"), query.Get("error_description"))
		return nil, http.StatusBadRequest, failureView("The provider did not authorize this request."), err
	}

	token, err := h.config.Exchange(ctx, code)
	if err != nil {
		return nil, http.StatusInternalServerError, failureView("Token exchange failed."),
			fmt.Errorf("token exchange failed: %w", err)
	}
	return token, http.StatusOK, signedInView, nil
}

func render(w http.ResponseWriter, status int, view callbackView) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	callbackPage.Execute(w, view)
}

// Send publishes result. Only the first call has any effect.
func (h *OAuthHandler) Send(result OAuthResult) {
	h.once.Do(func() {
		h.result <- result
		close(h.result)
	})
}

// Result yields exactly one [OAuthResult] and is then closed.
func (h *OAuthHandler) Result() <-chan OAuthResult {
	return h.result
}
