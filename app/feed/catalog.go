package feed

import (
	"context"
	_ "embed"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"gopkg.in/yaml.v3"
)

//go:embed sources.yml
var builtinSourcesYAML []byte

// Catalog resolves the set of sources to poll for one run: the configured
// OPML directory when it is reachable, the builtin catalog otherwise, capped
// at maxFeeds either way.
type Catalog struct {
	opmlURL    string
	maxFeeds   int
	httpClient *http.Client
	userAgent  string
	builtin    []Source
}

func NewCatalog(opmlURL string, maxFeeds int, httpClient *http.Client, userAgent string) (*Catalog, error) {
	builtin, err := loadBuiltinSources()
	if err != nil {
		return nil, fmt.Errorf("failed to load builtin source catalog: %w", err)
	}

	return &Catalog{
		opmlURL:    opmlURL,
		maxFeeds:   maxFeeds,
		httpClient: httpClient,
		userAgent:  userAgent,
		builtin:    builtin,
	}, nil
}

// Resolve returns the sources for one run. A failure to reach or parse the
// OPML directory is recovered locally by falling back to the builtin
// catalog; it never surfaces to the caller.
func (c *Catalog) Resolve(ctx context.Context) []Source {
	sources := c.builtin

	if c.opmlURL != "" {
		fetched, err := c.fetchOPML(ctx)
		switch {
		case err != nil:
			slog.Warn("OPML directory unavailable, using builtin catalog", "url", c.opmlURL, "error", err)
		case len(fetched) == 0:
			slog.Warn("OPML directory contains no feeds, using builtin catalog", "url", c.opmlURL)
		default:
			sources = fetched
		}
	}

	if len(sources) > c.maxFeeds {
		sources = sources[:c.maxFeeds]
	}

	return sources
}

func (c *Catalog) fetchOPML(ctx context.Context) ([]Source, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", c.opmlURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch OPML: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP error: %d %s", resp.StatusCode, resp.Status)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	return ParseOPML(data)
}

func loadBuiltinSources() ([]Source, error) {
	var catalog struct {
		Sources []Source `yaml:"sources"`
	}
	if err := yaml.Unmarshal(builtinSourcesYAML, &catalog); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	if len(catalog.Sources) == 0 {
		return nil, fmt.Errorf("builtin catalog is empty")
	}
	return catalog.Sources, nil
}
