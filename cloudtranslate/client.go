// Package cloudtranslate is a small client for the Google Cloud Translation
// v3 REST API: text translation (optionally through a glossary) and the list
// of supported languages.
package cloudtranslate

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"golang.org/x/text/language"
)

const (
	// DefaultBaseURL is the public Cloud Translation endpoint.
	DefaultBaseURL = "https://translation.googleapis.com"
	// DefaultLocation is the API location used for requests and glossaries.
	DefaultLocation = "us-central1"
	// DefaultSourceLanguage is the language of source resources.
	DefaultSourceLanguage = "en"
)

var (
	ErrFailedQuery       = errors.New("translation API query failed")
	ErrNoTranslations    = errors.New("translation API returned no translations")
	ErrUnsupportedLocale = errors.New("locale is not a supported translation target")
	ErrInvalidLocale     = errors.New("invalid locale code")
	ErrLanguageNotFound  = errors.New("language not found")
)

// Language is one entry of the supported-languages list.
type Language struct {
	Code          string `json:"languageCode"`
	DisplayName   string `json:"displayName"`
	SupportSource bool   `json:"supportSource"`
	SupportTarget bool   `json:"supportTarget"`
}

// Client translates text into one target language for one project.
type Client struct {
	projectID  string
	targetLang string
	sourceLang string
	location   string
	glossary   string
	ignoreCase bool

	http *resty.Client
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL overrides the API endpoint.
func WithBaseURL(url string) Option {
	return func(c *Client) { c.http.SetBaseURL(strings.TrimRight(url, "/")) }
}

// WithLocation sets the API location (default us-central1).
func WithLocation(loc string) Option {
	return func(c *Client) {
		if loc != "" {
			c.location = loc
		}
	}
}

// WithSourceLanguage sets the source language code (default en).
func WithSourceLanguage(lang string) Option {
	return func(c *Client) {
		if lang != "" {
			c.sourceLang = lang
		}
	}
}

// WithGlossary routes translations through a glossary. name is either a
// glossary id in the client's project and location, or a full resource path.
func WithGlossary(name string, ignoreCase bool) Option {
	return func(c *Client) {
		c.glossary = name
		c.ignoreCase = ignoreCase
	}
}

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.http.SetTimeout(d)
		}
	}
}

// New returns a client authenticated with an OAuth2 access token.
func New(token, projectID, targetLang string, opts ...Option) *Client {
	c := &Client{
		projectID:  projectID,
		targetLang: targetLang,
		sourceLang: DefaultSourceLanguage,
		location:   DefaultLocation,
		http: resty.New().
			SetBaseURL(DefaultBaseURL).
			SetAuthToken(token).
			SetTimeout(30 * time.Second),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// GlossaryPath expands a glossary id to its resource path.
func GlossaryPath(projectID, location, name string) string {
	if strings.Contains(name, "/") {
		return name
	}
	return fmt.Sprintf("projects/%s/locations/%s/glossaries/%s", projectID, location, name)
}

// ---------------------------------------------------------------------------
// Translation
// ---------------------------------------------------------------------------

type glossaryConfig struct {
	Glossary   string `json:"glossary"`
	IgnoreCase bool   `json:"ignoreCase,omitempty"`
}

type translateRequest struct {
	Contents           []string        `json:"contents"`
	MimeType           string          `json:"mimeType"`
	SourceLanguageCode string          `json:"sourceLanguageCode"`
	TargetLanguageCode string          `json:"targetLanguageCode"`
	GlossaryConfig     *glossaryConfig `json:"glossaryConfig,omitempty"`
}

type translation struct {
	TranslatedText string `json:"translatedText"`
}

type translateResponse struct {
	Translations         []translation `json:"translations"`
	GlossaryTranslations []translation `json:"glossaryTranslations"`
}

// Translate translates one HTML text fragment. When a glossary is
// configured and the API returns a glossary translation, that one wins.
// The returned text is as delivered by the API, HTML entities included.
func (c *Client) Translate(ctx context.Context, text string) (string, error) {
	body := translateRequest{
		Contents:           []string{text},
		MimeType:           "text/html",
		SourceLanguageCode: c.sourceLang,
		TargetLanguageCode: c.targetLang,
	}
	if c.glossary != "" {
		body.GlossaryConfig = &glossaryConfig{
			Glossary:   GlossaryPath(c.projectID, c.location, c.glossary),
			IgnoreCase: c.ignoreCase,
		}
	}

	var out translateResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetPathParams(map[string]string{"project": c.projectID, "location": c.location}).
		SetHeader("Content-Type", "application/json").
		SetBody(body).
		SetResult(&out).
		Post("/v3/projects/{project}/locations/{location}:translateText")
	if err != nil {
		return "", fmt.Errorf("translate request: %w", err)
	}
	if !resp.IsSuccess() {
		return "", fmt.Errorf("%w: %s: %s", ErrFailedQuery, resp.Status(), strings.TrimSpace(resp.String()))
	}

	switch {
	case len(out.GlossaryTranslations) > 0:
		return out.GlossaryTranslations[len(out.GlossaryTranslations)-1].TranslatedText, nil
	case len(out.Translations) > 0:
		return out.Translations[len(out.Translations)-1].TranslatedText, nil
	}
	return "", ErrNoTranslations
}

// ---------------------------------------------------------------------------
// Languages
// ---------------------------------------------------------------------------

// Languages returns every language the API knows, with display names in
// displayLang.
func (c *Client) Languages(ctx context.Context, displayLang string) ([]Language, error) {
	var out struct {
		Languages []Language `json:"languages"`
	}
	resp, err := c.http.R().
		SetContext(ctx).
		SetPathParams(map[string]string{"project": c.projectID, "location": c.location}).
		SetQueryParam("displayLanguageCode", displayLang).
		SetResult(&out).
		Get("/v3/projects/{project}/locations/{location}/supportedLanguages")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFailedQuery, err)
	}
	if !resp.IsSuccess() {
		return nil, fmt.Errorf("%w: %s: %s", ErrFailedQuery, resp.Status(), strings.TrimSpace(resp.String()))
	}
	return out.Languages, nil
}

// SupportedTargets returns the languages usable as translation targets,
// with display names in the client's target language.
func (c *Client) SupportedTargets(ctx context.Context) ([]Language, error) {
	all, err := c.Languages(ctx, c.targetLang)
	if err != nil {
		return nil, err
	}
	targets := make([]Language, 0, len(all))
	for _, l := range all {
		if l.SupportTarget {
			targets = append(targets, l)
		}
	}
	return targets, nil
}

// LanguageName returns the display name of code in the target language.
func (c *Client) LanguageName(ctx context.Context, code string) (string, error) {
	all, err := c.Languages(ctx, c.targetLang)
	if err != nil {
		return "", err
	}
	for _, l := range all {
		if l.Code == code {
			return l.DisplayName, nil
		}
	}
	return "", fmt.Errorf("%w: %s", ErrLanguageNotFound, code)
}

// ValidateLocale checks that code is a well-formed language tag and that
// the API supports it as a translation target.
func (c *Client) ValidateLocale(ctx context.Context, code string) error {
	if _, err := language.Parse(code); err != nil {
		return fmt.Errorf("%w %q: %v", ErrInvalidLocale, code, err)
	}
	targets, err := c.SupportedTargets(ctx)
	if err != nil {
		return fmt.Errorf("listing supported languages: %w", err)
	}
	for _, l := range targets {
		if strings.EqualFold(l.Code, code) {
			return nil
		}
	}
	return fmt.Errorf("%w: %s", ErrUnsupportedLocale, code)
}
