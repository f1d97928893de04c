package orders

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// SheetConfig holds settings for the published-spreadsheet backend.
// Header fragments are matched case-insensitively as substrings, so the
// sheet's columns may be reordered or renamed as long as a fragment still
// appears in the header text.
type SheetConfig struct {
	URL             string   `yaml:"url" envconfig:"ORDERS_SHEET_URL"`
	TimeoutSeconds  int      `yaml:"timeout_seconds" envconfig:"ORDERS_SHEET_TIMEOUT_SECONDS"`
	CodeFragments   []string `yaml:"code_fragments" envconfig:"ORDERS_SHEET_CODE_FRAGMENTS"`
	StatusFragments []string `yaml:"status_fragments" envconfig:"ORDERS_SHEET_STATUS_FRAGMENTS"`
}

// SheetStore reads a spreadsheet published as CSV over HTTP. Every lookup
// refetches the export; the sheets are small and the publish endpoint is
// cached by the provider.
type SheetStore struct {
	url             string
	client          *http.Client
	codeFragments   []string
	statusFragments []string
}

// NewSheetStore builds a SheetStore. An empty URL is a configuration error.
func NewSheetStore(cfg SheetConfig) (*SheetStore, error) {
	url := strings.TrimSpace(cfg.URL)
	if url == "" {
		return nil, fmt.Errorf("orders: sheet url is required")
	}
	timeout := 10 * time.Second
	if cfg.TimeoutSeconds > 0 {
		timeout = time.Duration(cfg.TimeoutSeconds) * time.Second
	}
	codeFragments := normalizeFragments(cfg.CodeFragments)
	if len(codeFragments) == 0 {
		codeFragments = []string{"order code", "номер заказа"}
	}
	statusFragments := normalizeFragments(cfg.StatusFragments)
	if len(statusFragments) == 0 {
		statusFragments = []string{"status", "статус"}
	}
	return &SheetStore{
		url:             url,
		client:          &http.Client{Timeout: timeout},
		codeFragments:   codeFragments,
		statusFragments: statusFragments,
	}, nil
}

// StatusByCode fetches the CSV export and scans it for code.
func (s *SheetStore) StatusByCode(ctx context.Context, code string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return "", fmt.Errorf("orders: build request: %w", err)
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("orders: fetch sheet: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, resp.Body)
		return "", fmt.Errorf("orders: sheet returned %s", resp.Status)
	}

	return s.scan(resp.Body, code)
}

func (s *SheetStore) scan(r io.Reader, code string) (string, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return "", fmt.Errorf("orders: read header: %w", err)
	}

	codeCol := findColumn(header, s.codeFragments)
	statusCol := findColumn(header, s.statusFragments)
	if codeCol < 0 || statusCol < 0 {
		return "", fmt.Errorf("orders: required columns not found in header %q", strings.Join(header, ","))
	}

	for {
		row, err := reader.Read()
		if err == io.EOF {
			return "", ErrNotFound
		}
		if err != nil {
			return "", fmt.Errorf("orders: read row: %w", err)
		}
		if codeCol >= len(row) || statusCol >= len(row) {
			continue
		}
		if NormalizeCode(row[codeCol]) == code {
			return strings.TrimSpace(row[statusCol]), nil
		}
	}
}

func findColumn(header []string, fragments []string) int {
	for i, cell := range header {
		lowered := strings.ToLower(strings.TrimSpace(cell))
		for _, fragment := range fragments {
			if strings.Contains(lowered, fragment) {
				return i
			}
		}
	}
	return -1
}

func normalizeFragments(fragments []string) []string {
	var out []string
	for _, f := range fragments {
		f = strings.ToLower(strings.TrimSpace(f))
		if f != "" {
			out = append(out, f)
		}
	}
	return out
}
