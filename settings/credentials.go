// Package settings stores per-user ftlsync settings.
//
// Settings live in the XDG data directory:
//
//	$XDG_DATA_HOME/ftlsync/  (default: ~/.local/share/ftlsync/)
//
// Files stored:
//   - auth.json: remembered service-account keys, one per profile
//
// Auth.json is a JSON object keyed by profile name (normally "default").
// Only the path of the key file is stored, never the key itself, together
// with the project id and client email read from it at login time.
//
// File permissions are 0600 (owner read/write only).
//
// Lookup order for the service-account key:
//  1. --credentials flag (highest priority)
//  2. FTLSYNC_CREDENTIALS environment variable
//  3. credentials in .ftlsync.yaml
//  4. This store
//  5. credentials.json in the working directory
package settings

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

const (
	dataDirName = "ftlsync"
	fileName    = "auth.json"

	// DefaultProfile is the profile used by "ftlsync auth login".
	DefaultProfile = "default"

	typeServiceAccount = "service_account"

	// EnvCredentials names the environment variable holding a key path.
	EnvCredentials = "FTLSYNC_CREDENTIALS"

	// DefaultCredentialsFile is used when nothing else names a key.
	DefaultCredentialsFile = "credentials.json"
)

// Info is one remembered service account.
type Info struct {
	// Type discriminator; only "service_account" is written today.
	Type string `json:"type"`

	CredentialsPath string `json:"credentialsPath"`
	ProjectID       string `json:"projectId,omitempty"`
	Email           string `json:"email,omitempty"` // client_email of the key
}

// IsServiceAccount reports whether the entry points to a service-account key.
func (i *Info) IsServiceAccount() bool {
	return i.Type == typeServiceAccount
}

// Store holds all remembered accounts, keyed by profile.
type Store map[string]*Info

// ---------------------------------------------------------------------------
// File path
// ---------------------------------------------------------------------------

// dataDir respects $XDG_DATA_HOME and falls back to ~/.local/share.
func dataDir() (string, error) {
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, dataDirName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(home, ".local", "share", dataDirName), nil
}

func filePath() (string, error) {
	dir, err := dataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, fileName), nil
}

// FilePath returns the auth.json file path for display purposes.
func FilePath() string {
	p, err := filePath()
	if err != nil {
		return ""
	}
	return p
}

// ---------------------------------------------------------------------------
// Load / Save
// ---------------------------------------------------------------------------

// Load reads the store from disk.
// Returns an empty store if the file doesn't exist or is invalid.
func Load() Store {
	path, err := filePath()
	if err != nil {
		return make(Store)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return make(Store)
	}

	var store Store
	if err := json.Unmarshal(data, &store); err != nil || store == nil {
		return make(Store)
	}
	return store
}

// Save writes the store to disk with 0600 permissions.
func Save(store Store) error {
	path, err := filePath()
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(store, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling settings: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("writing auth file: %w", err)
	}
	return nil
}

// ---------------------------------------------------------------------------
// Get / Set / Remove
// ---------------------------------------------------------------------------

// Get returns the entry for a profile, or nil if not found.
func Get(profile string) *Info {
	return Load()[profile]
}

// SetServiceAccount remembers a service-account key for a profile.
// The path is stored as an absolute path.
func SetServiceAccount(profile, path, projectID, email string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("resolving %s: %w", path, err)
	}
	store := Load()
	store[profile] = &Info{
		Type:            typeServiceAccount,
		CredentialsPath: abs,
		ProjectID:       projectID,
		Email:           email,
	}
	return Save(store)
}

// CredentialsPath returns the remembered key path for a profile, or "".
func CredentialsPath(profile string) string {
	info := Get(profile)
	if info == nil || !info.IsServiceAccount() {
		return ""
	}
	return info.CredentialsPath
}

// Remove forgets a profile.
func Remove(profile string) error {
	store := Load()
	if _, ok := store[profile]; !ok {
		return nil
	}
	delete(store, profile)
	return Save(store)
}

// RemoveAll deletes the store file.
func RemoveAll() error {
	path, err := filePath()
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("removing auth file: %w", err)
	}
	return nil
}

// ---------------------------------------------------------------------------
// Resolution
// ---------------------------------------------------------------------------

// ResolveCredentialsPath picks the service-account key path following the
// lookup order: flag, environment, project config, store, then
// credentials.json in the working directory.
func ResolveCredentialsPath(flagValue, configValue string) string {
	if flagValue != "" {
		return flagValue
	}
	if env := os.Getenv(EnvCredentials); env != "" {
		return env
	}
	if configValue != "" {
		return configValue
	}
	if stored := CredentialsPath(DefaultProfile); stored != "" {
		return stored
	}
	return DefaultCredentialsFile
}
