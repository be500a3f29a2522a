package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

const (
	// ClientSecretsFile is the downloaded Google API credentials file, placed
	// in the autoflow config directory.
	ClientSecretsFile = "credentials.json"

	// TokenFile stores the obtained OAuth token next to the credentials.
	TokenFile = "token.json"

	// LocalhostAuthPort is the port the local server listens on to capture
	// the OAuth redirect.
	LocalhostAuthPort = "6789"

	authTimeout = 5 * time.Minute
)

// Flow obtains and caches Google OAuth tokens under Dir.
type Flow struct {
	Dir    string
	Out    io.Writer
	logger *zap.Logger
}

func NewFlow(dir string, logger *zap.Logger) *Flow {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Flow{Dir: dir, Out: os.Stdout, logger: logger}
}

// TokenPath is where the token is cached.
func (f *Flow) TokenPath() string {
	return filepath.Join(f.Dir, TokenFile)
}

// Config creates an oauth2.Config from the client secrets file, forcing
// localhost redirects onto LocalhostAuthPort.
func (f *Flow) Config(scopes []string) (*oauth2.Config, error) {
	clientSecretsFile := filepath.Join(f.Dir, ClientSecretsFile)
	b, err := os.ReadFile(clientSecretsFile)
	if err != nil {
		return nil, fmt.Errorf("unable to read client secret file %s: %w", clientSecretsFile, err)
	}

	config, err := google.ConfigFromJSON(b, scopes...)
	if err != nil {
		return nil, fmt.Errorf("unable to parse client secret file to config: %w", err)
	}

	parsedURL, parseErr := url.Parse(config.RedirectURL)
	switch {
	case parseErr != nil:
		f.logger.Warn("could not parse redirect url, using it as is", zap.String("redirect_url", config.RedirectURL), zap.Error(parseErr))
	case parsedURL.Hostname() == "localhost" || parsedURL.Hostname() == "127.0.0.1":
		if parsedURL.Port() != LocalhostAuthPort {
			if parsedURL.Port() != "" {
				f.logger.Warn("forcing localhost redirect port", zap.String("configured", parsedURL.Port()), zap.String("port", LocalhostAuthPort))
			}
			parsedURL.Host = net.JoinHostPort(parsedURL.Hostname(), LocalhostAuthPort)
			config.RedirectURL = parsedURL.String()
		}
	case config.RedirectURL == "urn:ietf:wg:oauth:2.0:oob":
		config.RedirectURL = fmt.Sprintf("http://localhost:%s/oauth2callback", LocalhostAuthPort)
		f.logger.Info("overriding out-of-band redirect url", zap.String("redirect_url", config.RedirectURL))
	default:
		f.logger.Warn("redirect url is not a localhost callback", zap.String("redirect_url", config.RedirectURL))
	}

	return config, nil
}

// Client returns an authenticated *http.Client. It loads the cached token or
// runs the browser flow when none exists. The client refreshes expired
// access tokens on its own.
func (f *Flow) Client(ctx context.Context, scopes []string) (*http.Client, error) {
	config, err := f.Config(scopes)
	if err != nil {
		return nil, err
	}

	tokenFile := f.TokenPath()
	tok, err := TokenFromFile(tokenFile)
	if err != nil {
		f.logger.Info("no existing token, starting web authorization", zap.String("path", tokenFile))
		tok, err = f.tokenFromWeb(ctx, config)
		if err != nil {
			return nil, fmt.Errorf("failed to get token from web: %w", err)
		}
		if err := SaveToken(tokenFile, tok); err != nil {
			return nil, err
		}
	}

	src := config.TokenSource(ctx, tok)
	if current, err := src.Token(); err != nil {
		f.logger.Warn("could not refresh token", zap.Error(err))
	} else if current.AccessToken != tok.AccessToken || current.RefreshToken != tok.RefreshToken {
		if err := SaveToken(tokenFile, current); err != nil {
			f.logger.Warn("could not save refreshed token", zap.Error(err))
		}
	}
	return oauth2.NewClient(ctx, src), nil
}

// Reset removes the cached token so the next Client call re-authorizes.
func (f *Flow) Reset() error {
	err := os.Remove(f.TokenPath())
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("could not delete token file '%s': %w", f.TokenPath(), err)
	}
	return nil
}

// tokenFromWeb runs the authorization code flow through a local server that
// captures the redirect.
func (f *Flow) tokenFromWeb(ctx context.Context, config *oauth2.Config) (*oauth2.Token, error) {
	codeCh := make(chan string, 1)
	errCh := make(chan error, 1)

	listener, err := net.Listen("tcp", ":"+LocalhostAuthPort)
	if err != nil {
		return nil, fmt.Errorf("failed to start listener on port %s: %w", LocalhostAuthPort, err)
	}
	defer listener.Close()

	server := &http.Server{
		Handler: http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			code := r.URL.Query().Get("code")
			if code == "" {
				http.Error(w, "Authorization code not found", http.StatusBadRequest)
				errCh <- errors.New("authorization code not found in redirect URL")
				return
			}
			fmt.Fprintf(w, "Authentication successful! You can close this window.")
			codeCh <- code
		}),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  15 * time.Second,
	}
	defer server.Shutdown(context.Background())

	go func() {
		if err := server.Serve(listener); err != nil && err != http.ErrServerClosed {
			errCh <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	// AccessTypeOffline is required for a refresh token.
	authURL := config.AuthCodeURL("state-token", oauth2.AccessTypeOffline, oauth2.SetAuthURLParam("prompt", "consent"))
	fmt.Fprintf(f.Out, "Please open the following URL in your browser to authorize AutoFlow:\n%s\n", authURL)
	f.logger.Info("waiting for authorization code", zap.String("redirect_url", config.RedirectURL))

	select {
	case code := <-codeCh:
		exCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
		defer cancel()
		tok, err := config.Exchange(exCtx, code)
		if err != nil {
			return nil, fmt.Errorf("unable to retrieve token from Google: %w", err)
		}
		return tok, nil
	case err := <-errCh:
		return nil, err
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-time.After(authTimeout):
		return nil, errors.New("authorization timed out, please try again")
	}
}

// TokenFromFile reads an oauth2.Token from a JSON file.
func TokenFromFile(file string) (*oauth2.Token, error) {
	f, err := os.Open(file)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	tok := &oauth2.Token{}
	if err := json.NewDecoder(f).Decode(tok); err != nil {
		return nil, fmt.Errorf("failed to decode token from file %s: %w", file, err)
	}
	return tok, nil
}

// SaveToken writes token to path, readable by the owner only.
func SaveToken(path string, token *oauth2.Token) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("could not create token directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("unable to cache OAuth token to %s: %w", path, err)
	}
	defer f.Close()
	return json.NewEncoder(f).Encode(token)
}
