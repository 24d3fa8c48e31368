package catalog

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"time"
)

// Client talks to a Podcast Index compatible catalog API. Auth is the
// key + secret + unix-time SHA-1 scheme the API documents.
type Client struct {
	baseURL    string
	apiKey     string
	apiSecret  string
	httpClient *http.Client
	now        func() time.Time
}

func NewClient(baseURL, apiKey, apiSecret string) *Client {
	if baseURL == "" {
		baseURL = "https://api.podcastindex.org/api/1.0"
	}
	return &Client{
		baseURL:    baseURL,
		apiKey:     apiKey,
		apiSecret:  apiSecret,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		now:        time.Now,
	}
}

type Podcast struct {
	FeedId       int64    `json:"id"`
	Title        string   `json:"title"`
	Author       string   `json:"author"`
	Artwork      string   `json:"artwork"`
	EpisodeCount int      `json:"episodeCount"`
	Categories   []string `json:"-"`

	RawCategories map[string]string `json:"categories"`
}

type Episode struct {
	Id            int64  `json:"id"`
	FeedId        int64  `json:"feedId"`
	Title         string `json:"title"`
	EnclosureUrl  string `json:"enclosureUrl"`
	Duration      int    `json:"duration"`
	Episode       *int   `json:"episode"`
	Season        *int   `json:"season"`
	DatePublished int64  `json:"datePublished"`
	TranscriptURL string `json:"transcriptUrl"`
}

type TimedSegment struct {
	Text      string  `json:"body"`
	StartTime float64 `json:"startTime"`
	EndTime   float64 `json:"endTime"`
	Speaker   string  `json:"speaker"`
}

const (
	TranscriptStatusComplete = "complete"
	TranscriptStatusMissing  = "missing"
)

// Transcript is the catalog-first acquisition result. Status is "missing"
// when the episode publishes no transcript, in which case the caller falls
// back to speech-to-text.
type Transcript struct {
	Status   string
	Text     string
	Segments []TimedSegment
}

type searchResponse struct {
	Feeds []Podcast `json:"feeds"`
}

type podcastResponse struct {
	Feed Podcast `json:"feed"`
}

type episodesResponse struct {
	Items []Episode `json:"items"`
}

type episodeResponse struct {
	Episode Episode `json:"episode"`
}

func (c *Client) Search(ctx context.Context, query string, limit int) ([]Podcast, error) {
	if limit <= 0 {
		limit = 10
	}
	params := url.Values{}
	params.Set("q", query)
	params.Set("max", strconv.Itoa(limit))

	var res searchResponse
	if err := c.get(ctx, "/search/byterm", params, &res); err != nil {
		return nil, err
	}
	for i := range res.Feeds {
		res.Feeds[i].Categories = flattenCategories(res.Feeds[i].RawCategories)
	}
	return res.Feeds, nil
}

func (c *Client) PodcastByFeedId(ctx context.Context, feedId string) (*Podcast, error) {
	params := url.Values{}
	params.Set("id", feedId)

	var res podcastResponse
	if err := c.get(ctx, "/podcasts/byfeedid", params, &res); err != nil {
		return nil, err
	}
	if res.Feed.FeedId == 0 {
		return nil, fmt.Errorf("catalog: podcast %s not found", feedId)
	}
	res.Feed.Categories = flattenCategories(res.Feed.RawCategories)
	return &res.Feed, nil
}

func (c *Client) EpisodesByFeedId(ctx context.Context, feedId string, max int) ([]Episode, error) {
	if max <= 0 {
		max = 100
	}
	params := url.Values{}
	params.Set("id", feedId)
	params.Set("max", strconv.Itoa(max))

	var res episodesResponse
	if err := c.get(ctx, "/episodes/byfeedid", params, &res); err != nil {
		return nil, err
	}
	return res.Items, nil
}

func (c *Client) EpisodeById(ctx context.Context, episodeId string) (*Episode, error) {
	params := url.Values{}
	params.Set("id", episodeId)

	var res episodeResponse
	if err := c.get(ctx, "/episodes/byid", params, &res); err != nil {
		return nil, err
	}
	if res.Episode.Id == 0 {
		return nil, fmt.Errorf("catalog: episode %s not found", episodeId)
	}
	return &res.Episode, nil
}

// FetchTranscript looks up the episode's published transcript. A missing
// transcript is not an error; it reports Status "missing" so the sync worker
// can fall back to speech-to-text.
func (c *Client) FetchTranscript(ctx context.Context, catalogEpisodeId string) (*Transcript, error) {
	episode, err := c.EpisodeById(ctx, catalogEpisodeId)
	if err != nil {
		return nil, err
	}
	if episode.TranscriptURL == "" {
		return &Transcript{Status: TranscriptStatusMissing}, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, episode.TranscriptURL, nil)
	if err != nil {
		return nil, err
	}
	res, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, err
	}
	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("catalog: transcript fetch returned %d", res.StatusCode)
	}

	return parseTranscript(body), nil
}

func (c *Client) get(ctx context.Context, path string, params url.Values, out interface{}) error {
	endpoint := c.baseURL + path
	if len(params) > 0 {
		endpoint += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}
	c.sign(req)

	res, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return err
	}
	if res.StatusCode != http.StatusOK {
		return fmt.Errorf("catalog: %s returned %d, body %s", path, res.StatusCode, string(body))
	}

	return json.Unmarshal(body, out)
}

func (c *Client) sign(req *http.Request) {
	authDate := strconv.FormatInt(c.now().Unix(), 10)
	hash := sha1.Sum([]byte(c.apiKey + c.apiSecret + authDate))

	req.Header.Set("X-Auth-Key", c.apiKey)
	req.Header.Set("X-Auth-Date", authDate)
	req.Header.Set("Authorization", hex.EncodeToString(hash[:]))
	req.Header.Set("User-Agent", "borrowed-brain/1.0")
}

func flattenCategories(raw map[string]string) []string {
	if len(raw) == 0 {
		return nil
	}
	out := make([]string, 0, len(raw))
	for _, name := range raw {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}
