package rates

import (
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/encoding/charmap"
)

// DefaultFeedURL is the CBR daily rates endpoint.
const DefaultFeedURL = "https://www.cbr.ru/scripts/XML_daily.asp"

// Config holds CBR client settings.
type Config struct {
	FeedURL        string `yaml:"feed_url" envconfig:"CBR_FEED_URL"`
	TimeoutSeconds int    `yaml:"timeout_seconds" envconfig:"CBR_TIMEOUT_SECONDS"`
}

// Client fetches rates from the CBR daily XML feed. The feed is served in
// the legacy windows-1251 encoding and uses a comma decimal separator.
type Client struct {
	url    string
	client *http.Client
}

// NewClient builds a Client. Zero config falls back to the public feed URL
// and a 10 second timeout.
func NewClient(cfg Config) *Client {
	url := strings.TrimSpace(cfg.FeedURL)
	if url == "" {
		url = DefaultFeedURL
	}
	timeout := 10 * time.Second
	if cfg.TimeoutSeconds > 0 {
		timeout = time.Duration(cfg.TimeoutSeconds) * time.Second
	}
	return &Client{
		url:    url,
		client: &http.Client{Timeout: timeout},
	}
}

type feedDocument struct {
	XMLName xml.Name    `xml:"ValCurs"`
	Valutes []feedEntry `xml:"Valute"`
}

type feedEntry struct {
	CharCode string `xml:"CharCode"`
	Nominal  int    `xml:"Nominal"`
	Value    string `xml:"Value"`
}

// Rate fetches the feed and returns the per-unit rate for charCode.
func (c *Client) Rate(ctx context.Context, charCode string) (float64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return 0, fmt.Errorf("rates: build request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("rates: fetch feed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, resp.Body)
		return 0, fmt.Errorf("rates: feed returned %s", resp.Status)
	}

	doc, err := decodeFeed(resp.Body)
	if err != nil {
		return 0, err
	}

	code := strings.ToUpper(strings.TrimSpace(charCode))
	for _, v := range doc.Valutes {
		if strings.ToUpper(strings.TrimSpace(v.CharCode)) != code {
			continue
		}
		return parseEntry(v)
	}
	return 0, fmt.Errorf("rates: currency %q not present in feed", code)
}

func decodeFeed(r io.Reader) (*feedDocument, error) {
	dec := xml.NewDecoder(r)
	dec.CharsetReader = func(charset string, input io.Reader) (io.Reader, error) {
		switch strings.ToLower(charset) {
		case "windows-1251", "cp1251":
			return charmap.Windows1251.NewDecoder().Reader(input), nil
		case "utf-8", "":
			return input, nil
		default:
			return nil, fmt.Errorf("unsupported charset %q", charset)
		}
	}

	var doc feedDocument
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("rates: decode feed: %w", err)
	}
	return &doc, nil
}

func parseEntry(v feedEntry) (float64, error) {
	// Value uses a comma decimal separator ("11,5000")
	raw := strings.ReplaceAll(strings.TrimSpace(v.Value), ",", ".")
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("rates: parse value %q: %w", v.Value, err)
	}
	if v.Nominal <= 0 {
		return 0, fmt.Errorf("rates: invalid nominal %d", v.Nominal)
	}
	return value / float64(v.Nominal), nil
}
