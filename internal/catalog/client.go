package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"maps"
	"net/http"
	"slices"
	"strings"
	"time"

	"webplatform/internal/config"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
	"golang.org/x/text/language"
)

const (
	// FreshnessWindow is how long cached categories are served without a fetch.
	FreshnessWindow = 300 * time.Second
	RequestTimeout  = 20 * time.Second

	categoriesCacheKey = "appstore-categories"
	maxResponseSize    = 32 << 20
)

var ErrCategoryNotFound = errors.New("category not found")

// Client talks to the app store server.
type Client struct {
	cfg        *config.Config
	httpClient *http.Client
	cache      CacheStore
	logger     *zap.Logger
	clock      Clock
	lang       language.Tag
	refresh    singleflight.Group
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

func WithClock(clock Clock) Option {
	return func(c *Client) { c.clock = clock }
}

func NewClient(cfg *config.Config, cache CacheStore, logger *zap.Logger, opts ...Option) *Client {
	lang, err := language.Parse(cfg.Language)
	if err != nil {
		lang = language.English
	}

	c := &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: RequestTimeout},
		cache:      cache,
		logger:     logger.With(zap.String("app", "core"), zap.String("component", "appstore")),
		clock:      RealClock{},
		lang:       lang,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// IsAppStoreEnabled reports whether the app store may be contacted at all.
func (c *Client) IsAppStoreEnabled() bool {
	return c.cfg.AppStoreEnabled
}

func (c *Client) appStoreURL() string {
	if c.cfg.AppStoreURL == "" {
		return config.DefaultAppStoreURL
	}
	return strings.TrimRight(c.cfg.AppStoreURL, "/")
}

func (c *Client) platformVersion() string {
	if c.cfg.PlatformVersion == "" {
		return config.DefaultPlatformVersion
	}
	return c.cfg.PlatformVersion
}

// GetCategories returns category names by id, or nil when the app store is
// disabled or cannot be reached. Responses are cached for FreshnessWindow.
func (c *Client) GetCategories(ctx context.Context) map[string]string {
	if !c.IsAppStoreEnabled() {
		return nil
	}

	cached, found, err := c.cache.Get(ctx, categoriesCacheKey)
	if err != nil {
		c.logger.Warn("Could not read cached categories", zap.Error(err))
		found = false
	}
	if found && c.isFresh(cached) {
		cats, err := parseCategories(cached.Data, c.lang)
		if err == nil {
			return cats
		}
		c.logger.Warn("Discarding unreadable cached categories", zap.Error(err))
	}

	// The refresh is shared by every waiting caller, so it must outlive the
	// caller that started it. get still bounds it with RequestTimeout.
	shared := context.WithoutCancel(ctx)
	v, err, _ := c.refresh.Do(categoriesCacheKey, func() (interface{}, error) {
		return c.refreshCategories(shared)
	})
	if err != nil {
		c.logger.Error("Could not get categories", zap.Error(err))
		if found && c.cfg.AppStoreServeStale {
			if cats, perr := parseCategories(cached.Data, c.lang); perr == nil {
				c.logger.Warn("Serving stale categories", zap.Time("fetched_at", cached.FetchedAt))
				return cats
			}
		}
		return nil
	}
	return maps.Clone(v.(map[string]string))
}

func (c *Client) isFresh(rec CacheRecord) bool {
	return !c.clock.Now().After(rec.FetchedAt.Add(FreshnessWindow))
}

func (c *Client) refreshCategories(ctx context.Context) (map[string]string, error) {
	now := c.clock.Now()
	body, err := c.get(ctx, c.appStoreURL()+"/api/v1/categories.json")
	if err != nil {
		return nil, err
	}

	cats, err := parseCategories(body, c.lang)
	if err != nil {
		return nil, err
	}

	if err := c.cache.Put(ctx, categoriesCacheKey, CacheRecord{Data: body, FetchedAt: now}); err != nil {
		c.logger.Warn("Could not cache categories", zap.Error(err))
	}
	return cats, nil
}

func parseCategories(data []byte, lang language.Tag) (map[string]string, error) {
	var payload []categoryPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, fmt.Errorf("decoding categories: %w", err)
	}
	if payload == nil {
		return nil, errors.New("decoding categories: not a list")
	}

	cats := make(map[string]string, len(payload))
	for _, category := range payload {
		cats[string(category.ID)] = category.Translations.pick(lang).Name
	}
	return cats, nil
}

// GetApplications returns the apps listed under category. The listing is
// fetched on every call. ErrCategoryNotFound is returned when the listing
// was retrieved but has no such category.
func (c *Client) GetApplications(ctx context.Context, category string) ([]Application, error) {
	if !c.IsAppStoreEnabled() {
		return []Application{}, nil
	}

	apps, ok := c.getApps(ctx)
	if !ok {
		return []Application{}, nil
	}

	list, found := apps[category]
	if !found {
		return nil, fmt.Errorf("%w: %s", ErrCategoryNotFound, category)
	}
	return list, nil
}

// GetApplication returns the app with the given id, or nil.
func (c *Client) GetApplication(ctx context.Context, id string) *Application {
	if !c.IsAppStoreEnabled() {
		return nil
	}

	apps, ok := c.getApps(ctx)
	if !ok {
		return nil
	}

	for _, category := range slices.Sorted(maps.Keys(apps)) {
		for _, app := range apps[category] {
			if app.ID == id {
				found := app
				return &found
			}
		}
	}
	return nil
}

// GetApplicationDownload returns the download URL of the app's latest
// release, or "" when it is unknown.
func (c *Client) GetApplicationDownload(ctx context.Context, id string) string {
	if !c.IsAppStoreEnabled() {
		return ""
	}

	app := c.GetApplication(ctx, id)
	if app == nil {
		return ""
	}
	return app.Download
}

// getApps fetches the full listing grouped by category. An app declaring
// several categories appears in each of them.
func (c *Client) getApps(ctx context.Context) (map[string][]Application, bool) {
	url := c.appStoreURL() + "/api/v1/platform/" + c.platformVersion() + "/apps.json"
	body, err := c.get(ctx, url)
	if err != nil {
		c.logger.Error("Could not get apps", zap.Error(err))
		return nil, false
	}

	var payload []appPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		c.logger.Error("Could not decode apps", zap.String("url", url), zap.Error(err))
		return nil, false
	}
	if payload == nil {
		c.logger.Error("Could not decode apps: not a list", zap.String("url", url))
		return nil, false
	}

	sorted := make(map[string][]Application)
	for _, raw := range payload {
		app := c.normalize(raw)
		for _, category := range raw.Categories {
			sorted[string(category)] = append(sorted[string(category)], app)
		}
	}
	return sorted, true
}

func (c *Client) normalize(raw appPayload) Application {
	tr := raw.Translations.pick(c.lang)
	app := Application{
		ID:          string(raw.ID),
		Name:        tr.Name,
		Description: tr.Description,
		Featured:    raw.Featured,
		Documentation: Documentation{
			User:      raw.UserDocs,
			Admin:     raw.AdminDocs,
			Developer: raw.DeveloperDocs,
		},
		Website: raw.Website,
		Bugs:    raw.IssueTracker,
	}
	if len(raw.Releases) > 0 {
		app.Version = raw.Releases[0].Version
		app.Checksum = raw.Releases[0].Checksum
		app.Download = raw.Releases[0].Download
	}
	if len(raw.Screenshots) > 0 {
		app.Preview = raw.Screenshots[0].URL
	}
	app.DetailPage = c.appStoreURL() + "/app/" + app.ID
	return app
}

func (c *Client) get(ctx context.Context, url string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, RequestTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request to %s failed: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%s returned unexpected status: %s", url, resp.Status)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, fmt.Errorf("reading response from %s: %w", url, err)
	}
	return body, nil
}
