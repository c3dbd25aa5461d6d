// Package auth loads Google service-account credentials and turns them into
// OAuth2 access tokens for the Cloud Translation API.
package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"golang.org/x/oauth2/google"
)

// Scope is the OAuth2 scope requested for access tokens.
const Scope = "https://www.googleapis.com/auth/cloud-translation"

var (
	ErrMissingCredentials = errors.New("missing credentials file")
	ErrInvalidCredentials = errors.New("invalid service account credentials")
)

// keyFile holds the fields of a service-account key we look at ourselves.
type keyFile struct {
	Type        string `json:"type"`
	ProjectID   string `json:"project_id"`
	ClientEmail string `json:"client_email"`
	PrivateKey  string `json:"private_key"`
}

// Credentials is a loaded service-account key.
type Credentials struct {
	path string
	data []byte
	key  keyFile
}

// Load reads and checks a service-account key file. A missing file yields
// an error wrapping ErrMissingCredentials.
func Load(path string) (*Credentials, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrMissingCredentials, path)
		}
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	c, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	c.path = path
	return c, nil
}

// Parse checks the contents of a service-account key file.
func Parse(data []byte) (*Credentials, error) {
	var key keyFile
	if err := json.Unmarshal(data, &key); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCredentials, err)
	}
	switch {
	case key.Type != "service_account":
		return nil, fmt.Errorf("%w: type is %q, want service_account", ErrInvalidCredentials, key.Type)
	case key.ProjectID == "":
		return nil, fmt.Errorf("%w: no project_id", ErrInvalidCredentials)
	case key.ClientEmail == "" || key.PrivateKey == "":
		return nil, fmt.Errorf("%w: no client_email or private_key", ErrInvalidCredentials)
	}
	return &Credentials{data: data, key: key}, nil
}

// Path returns the file the credentials were loaded from.
func (c *Credentials) Path() string { return c.path }

// ProjectID returns the Google Cloud project of the service account.
func (c *Credentials) ProjectID() string { return c.key.ProjectID }

// Email returns the service account's client email.
func (c *Credentials) Email() string { return c.key.ClientEmail }

// AccessToken exchanges the key for a fresh access token.
func (c *Credentials) AccessToken(ctx context.Context) (string, error) {
	creds, err := google.CredentialsFromJSON(ctx, c.data, Scope)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidCredentials, err)
	}
	tok, err := creds.TokenSource.Token()
	if err != nil {
		return "", fmt.Errorf("obtaining access token: %w", err)
	}
	return tok.AccessToken, nil
}
