package services

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/podx/internal/cache"
	"github.com/desertthunder/podx/internal/shared"
)

// DefaultPodcastIndexURL is the public Podcast Index API root.
const DefaultPodcastIndexURL = "https://api.podcastindex.org/api/1.0"

const defaultMaxResults = 40

// PodcastIndex implements [Directory] over the Podcast Index API.
type PodcastIndex struct {
	api        *APIService
	cache      *cache.Store
	logger     *log.Logger
	maxResults int
}

// PodcastIndexOpts configures a [PodcastIndex] client.
type PodcastIndexOpts struct {
	BaseURL    string
	APIKey     string
	APISecret  string
	UserAgent  string
	MaxResults int
	HTTPClient *http.Client
	Cache      *cache.Store
	Logger     *log.Logger
	Now        func() time.Time
}

type searchResponse struct {
	Status      any    `json:"status"`
	Feeds       []Feed `json:"feeds"`
	Count       int    `json:"count"`
	Description string `json:"description"`
}

type episodesResponse struct {
	Status      any       `json:"status"`
	Items       []Episode `json:"items"`
	Count       int       `json:"count"`
	Description string    `json:"description"`
}

type feedResponse struct {
	Status      any             `json:"status"`
	Feed        json.RawMessage `json:"feed"`
	Description string          `json:"description"`
}

// NewPodcastIndex creates a Podcast Index client from opts.
func NewPodcastIndex(opts PodcastIndexOpts) *PodcastIndex {
	if opts.MaxResults <= 0 {
		opts.MaxResults = defaultMaxResults
	}
	if opts.UserAgent == "" {
		opts.UserAgent = "podx"
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Cache == nil {
		opts.Cache, _ = cache.Open("", 0)
	}

	return &PodcastIndex{
		api:        NewAPIService(opts.BaseURL, opts.HTTPClient, NewPodcastIndexSigner(opts.APIKey, opts.APISecret, opts.UserAgent, opts.Now)),
		cache:      opts.Cache,
		logger:     opts.Logger,
		maxResults: opts.MaxResults,
	}
}

// NewPodcastIndexSigner returns a [Signer] that adds the Podcast Index authentication headers.
func NewPodcastIndexSigner(key, secret, userAgent string, now func() time.Time) Signer {
	return func(req *http.Request) error {
		if key == "" || secret == "" {
			return fmt.Errorf("%w: podcast index api key and secret are required", shared.ErrMissingCredentials)
		}

		date := strconv.FormatInt(now().Unix(), 10)
		sum := sha1.Sum([]byte(key + secret + date))

		req.Header.Set("User-Agent", userAgent)
		req.Header.Set("X-Auth-Key", key)
		req.Header.Set("X-Auth-Date", date)
		req.Header.Set("Authorization", hex.EncodeToString(sum[:]))
		return nil
	}
}

// API exposes the raw transport for debugging commands.
func (p *PodcastIndex) API() *APIService { return p.api }

func (p *PodcastIndex) Name() string { return "Podcast Index" }

// SearchShows searches feeds by term.
func (p *PodcastIndex) SearchShows(ctx context.Context, term string) ([]Feed, error) {
	query := url.Values{}
	query.Set("q", term)
	query.Set("max", strconv.Itoa(p.maxResults))

	var resp searchResponse
	if err := p.getJSON(ctx, "/search/byterm", query, &resp); err != nil {
		return nil, err
	}
	p.logger.Debug("search complete", "term", term, "results", len(resp.Feeds))
	return resp.Feeds, nil
}

// ShowEpisodes lists a feed's episodes, newest first.
func (p *PodcastIndex) ShowEpisodes(ctx context.Context, showID int64) ([]Episode, error) {
	query := url.Values{}
	query.Set("id", strconv.FormatInt(showID, 10))
	query.Set("max", strconv.Itoa(p.maxResults))

	var resp episodesResponse
	if err := p.getJSON(ctx, "/episodes/byfeedid", query, &resp); err != nil {
		return nil, err
	}
	p.logger.Debug("episodes loaded", "show", showID, "episodes", len(resp.Items))
	return resp.Items, nil
}

// ShowByID looks up a single feed. The API answers an unknown id with an empty feed array.
func (p *PodcastIndex) ShowByID(ctx context.Context, showID int64) (Feed, error) {
	query := url.Values{}
	query.Set("id", strconv.FormatInt(showID, 10))

	var resp feedResponse
	if err := p.getJSON(ctx, "/podcasts/byfeedid", query, &resp); err != nil {
		return Feed{}, err
	}

	var feed Feed
	if len(resp.Feed) > 0 && resp.Feed[0] == '{' {
		if err := decode(resp.Feed, &feed); err != nil {
			return Feed{}, err
		}
	}
	if feed.ID == 0 {
		return Feed{}, fmt.Errorf("%w: %d", shared.ErrShowNotFound, showID)
	}
	return feed, nil
}

// getJSON decodes the response for path+query into dest, serving it from the cache when possible.
func (p *PodcastIndex) getJSON(ctx context.Context, path string, query url.Values, dest any) error {
	key := path + "?" + query.Encode()

	body, ok, err := p.cache.Get(key)
	if err != nil {
		p.logger.Warn("failed to read cached response, fetching", "key", key, "error", err)
	}
	if ok {
		p.logger.Debug("cache hit", "key", key)
		return decode(body, dest)
	}

	resp, err := p.api.Get(ctx, path, query)
	if err != nil {
		return err
	}
	if !resp.OK() {
		return fmt.Errorf("%w: %s returned status %d", shared.ErrAPIRequest, path, resp.StatusCode)
	}

	if err := decode(resp.Body, dest); err != nil {
		return err
	}

	if err := p.cache.Set(key, resp.Body); err != nil {
		p.logger.Warn("failed to cache response", "key", key, "error", err)
	}
	return nil
}

func decode(body []byte, dest any) error {
	if err := json.Unmarshal(body, dest); err != nil {
		return fmt.Errorf("%w: failed to decode response: %v", shared.ErrInvalidInput, err)
	}
	return nil
}
