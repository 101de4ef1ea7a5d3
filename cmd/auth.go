package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/urfave/cli/v3"
	"golang.org/x/oauth2"

	"github.com/desertthunder/sangeet/internal/formatter"
	"github.com/desertthunder/sangeet/internal/server"
	"github.com/desertthunder/sangeet/internal/services"
	"github.com/desertthunder/sangeet/internal/shared"
	"github.com/desertthunder/sangeet/internal/tasks"
)

const loginTimeout = 2 * time.Minute

// AuthLogin signs the user in and stores the session.
//
// With --user-id a local session is written directly. Otherwise the OAuth2 authorization code flow runs against
// the configured identity provider: a local callback server is started, the browser is opened, and the returned
// id_token supplies the user id and profile.
func (r *Runner) AuthLogin(ctx context.Context, cmd *cli.Command) error {
	sessions, err := r.Session()
	if err != nil {
		return err
	}

	var session *services.Session
	if userID := cmd.String("user-id"); userID != "" {
		name := cmd.String("name")
		if name == "" {
			name = userID
		}
		session = &services.Session{UserID: userID, Name: name, Email: cmd.String("email")}
	} else {
		login, err := services.NewOAuthLogin(r.Config().Identity)
		if err != nil {
			return fmt.Errorf("%w (or pass --user-id for a local session)", err)
		}

		token, err := r.doOAuth(ctx, login, !cmd.Bool("no-browser"))
		if err != nil {
			return err
		}

		if session, err = login.SessionFromToken(token); err != nil {
			return err
		}
	}

	if err := sessions.Save(session); err != nil {
		return err
	}
	r.identity = sessions
	r.logger.Info("session saved", "path", sessions.Path(), "user", session.UserID)

	store, err := r.Store()
	if err != nil {
		return err
	}
	library := tasks.NewLibraryCoordinator(store, nil, r.notifier, r.logger)
	if _, err := library.SaveProfile(ctx, session.UserID, session.Name, session.Email); err != nil {
		r.logger.Warn("failed to save profile", "error", err)
	}

	return r.writePlain("✓ Signed in as %s (%s)\n", session.Name, session.UserID)
}

// doOAuth runs the authorization code flow and returns the exchanged token.
func (r *Runner) doOAuth(ctx context.Context, login *services.OAuthLogin, openBrowser bool) (*oauth2.Token, error) {
	state, err := shared.GenerateState()
	if err != nil {
		return nil, fmt.Errorf("failed to generate state token: %w", err)
	}

	authURL := login.AuthURL(state)
	oauthHandler := server.NewOAuthHandler(login.Config(), state)
	router := server.NewBasicRouter()
	router.Use(server.Recover(r.logger))
	router.Handler(oauthHandler)

	httpServer := server.New(r.Config().Server.Addr(), router)
	r.logger.Infof("starting OAuth callback server at %v", httpServer.Addr)
	serverErrors := server.Start(httpServer, r.logger)
	defer func() {
		if err := server.Stop(httpServer); err != nil {
			r.logger.Warn("error shutting down server", "error", err)
		}
	}()

	if openBrowser {
		r.writePlain("→ Opening browser to sign in...\n")
		if err := shared.OpenBrowser(authURL); err != nil {
			r.logger.Warnf("failed to open browser automatically %v", err)
			r.writePlainln("⚠ Could not open browser automatically.")
			r.writePlain("Please open this URL in your browser:\n%s\n\n", authURL)
		}
	} else {
		r.writePlain("Open this URL in your browser:\n%s\n\n", authURL)
	}

	r.writePlain("→ Waiting for authorization (%s timeout)...\n", loginTimeout)

	timeout := time.NewTimer(loginTimeout)
	defer timeout.Stop()

	var result server.OAuthResult
	select {
	case result = <-oauthHandler.Result():
	case err := <-serverErrors:
		return nil, fmt.Errorf("server error: %w", err)
	case <-timeout.C:
		return nil, fmt.Errorf("%w: authorization timed out after %s", shared.ErrTimeout, loginTimeout)
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	if result.Error() != nil {
		return nil, fmt.Errorf("%w: %w", shared.ErrAuthFailed, result.Error())
	}
	if result.Token == nil {
		return nil, fmt.Errorf("%w: no token received", shared.ErrAuthFailed)
	}
	return result.Token, nil
}

// AuthStatus shows the signed-in user.
func (r *Runner) AuthStatus(ctx context.Context, cmd *cli.Command) error {
	sessions, err := r.Session()
	if err != nil {
		return err
	}

	session, err := sessions.Load()
	if errors.Is(err, shared.ErrNotAuthenticated) {
		if cmd.Bool("json") {
			return r.writeJSON(map[string]any{"authenticated": false}, false)
		}
		return r.writePlain("✗ Not signed in\n")
	}
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(map[string]any{
			"authenticated": true,
			"user_id":       session.UserID,
			"name":          session.Name,
			"email":         session.Email,
		}, false)
	}

	r.writePlain("✓ Signed in as %s\n", session.Name)
	r.writePlain("User ID: %s\n", session.UserID)
	if session.Email != "" {
		r.writePlain("Email: %s\n", session.Email)
	}
	if session.Token != nil && !session.Token.Expiry.IsZero() {
		r.writePlain("Token expires: %s\n", formatter.Ago(session.Token.Expiry))
	}
	r.writePlain("Session: %s\n", sessions.Path())
	return nil
}

// AuthLogout removes the session file.
func (r *Runner) AuthLogout(ctx context.Context, cmd *cli.Command) error {
	sessions, err := r.Session()
	if err != nil {
		return err
	}
	if err := sessions.Clear(); err != nil {
		return err
	}
	r.identity = nil
	r.logger.Info("session cleared", "path", sessions.Path())
	return r.writePlain("✓ Signed out\n")
}
