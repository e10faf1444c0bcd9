package sheets

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/sheets/v4"
)

// authTimeout bounds how long the interactive flow waits for the user
// to approve access in their browser.
const authTimeout = 5 * time.Minute

// callbackAddr must match the redirect URI registered on the OAuth2
// client in the Google Cloud console.
const callbackAddr = ":8080"

const callbackSuccessPage = `<html><body>
	<h1>Authentication successful</h1>
	<p>You can close this tab and return to tally.</p>
	<script>window.setTimeout(function(){window.close();}, 3000);</script>
</body></html>`

const callbackFailurePage = `<html><body>
	<h1>Authentication failed</h1>
	<p>No authorization code was received. Please run the command again.</p>
	<script>window.setTimeout(function(){window.close();}, 3000);</script>
</body></html>`

// OAuth2Config carries the pieces of the interactive flow that differ
// per installation.
type OAuth2Config struct {
	ClientID     string
	ClientSecret string
	TokenFile    string // where to persist the obtained token, empty to skip
}

// AuthenticateOAuth2Interactive walks the user through Google's OAuth2
// consent flow: it starts a local callback server, prints the consent
// URL, and waits for the browser redirect carrying the authorization
// code. Offline access is requested so the exchanged token includes a
// refresh token.
func AuthenticateOAuth2Interactive(ctx context.Context, config OAuth2Config) (*oauth2.Token, error) {
	oauthConfig := &oauth2.Config{
		ClientID:     config.ClientID,
		ClientSecret: config.ClientSecret,
		Endpoint:     google.Endpoint,
		RedirectURL:  "http://localhost" + callbackAddr + "/callback",
		Scopes:       []string{sheets.SpreadsheetsScope},
	}

	server, codes, errs := startCallbackServer()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Warn("Error shutting down callback server", "error", err)
		}
	}()

	authURL := oauthConfig.AuthCodeURL("state-token", oauth2.AccessTypeOffline, oauth2.ApprovalForce)
	slog.Info("🔐 Google Sheets Authentication Required")
	slog.Info("Please visit this URL to authenticate", "url", authURL)
	slog.Info("Waiting for authentication...")

	var code string
	select {
	case code = <-codes:
		slog.Info("Received authorization code")
	case err := <-errs:
		return nil, err
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-time.After(authTimeout):
		return nil, fmt.Errorf("no authentication response within %s", authTimeout)
	}

	token, err := oauthConfig.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("failed to exchange authorization code: %w", err)
	}

	if config.TokenFile != "" {
		if err := saveToken(config.TokenFile, token); err != nil {
			slog.Warn("Failed to save token to file", "error", err, "file", config.TokenFile)
		} else {
			slog.Info("Token saved", "file", config.TokenFile)
		}
	}

	return token, nil
}

// startCallbackServer serves the OAuth2 redirect on a dedicated mux so
// repeated auth attempts never collide on http.DefaultServeMux. Sends
// are non-blocking; only the first callback counts.
func startCallbackServer() (*http.Server, <-chan string, <-chan error) {
	codes := make(chan string, 1)
	errs := make(chan error, 1)

	mux := http.NewServeMux()
	mux.HandleFunc("/callback", func(w http.ResponseWriter, r *http.Request) {
		code := r.URL.Query().Get("code")
		if code == "" {
			select {
			case errs <- errors.New("no authorization code received"):
			default:
			}
			_, _ = fmt.Fprint(w, callbackFailurePage)
			return
		}
		select {
		case codes <- code:
		default:
		}
		_, _ = fmt.Fprint(w, callbackSuccessPage)
	})

	server := &http.Server{
		Addr:              callbackAddr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		if err := server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			select {
			case errs <- fmt.Errorf("failed to start callback server: %w", err):
			default:
			}
		}
	}()

	return server, codes, errs
}

func saveToken(path string, token *oauth2.Token) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("failed to create token directory: %w", err)
	}

	data, err := json.Marshal(token)
	if err != nil {
		return fmt.Errorf("failed to encode token: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write token file: %w", err)
	}
	return nil
}
