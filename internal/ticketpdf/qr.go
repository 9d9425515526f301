package ticketpdf

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// QRFetcher retrieves QR raster images for ticket secrets from an external
// image-generation service.
type QRFetcher struct {
	baseURL    string
	httpClient *http.Client
}

// NewQRFetcher returns a fetcher against the given service base URL, e.g.
// "https://api.qrserver.com". A nil httpClient gets a sensible default.
func NewQRFetcher(baseURL string, httpClient *http.Client) *QRFetcher {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 15 * time.Second}
	}
	return &QRFetcher{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
	}
}

// URL returns the image URL for a secret. The query parameter order is part
// of the service contract, so the string is assembled by hand.
func (f *QRFetcher) URL(secret string) string {
	return f.baseURL + "/v1/create-qr-code/?size=240x240&data=" + url.QueryEscape(secret)
}

// FetchPNG downloads the QR image for a secret.
func (f *QRFetcher) FetchPNG(ctx context.Context, secret string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.URL(secret), nil)
	if err != nil {
		return nil, fmt.Errorf("ticketpdf.FetchPNG: %w", err)
	}
	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("ticketpdf.FetchPNG: %w", err)
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("ticketpdf.FetchPNG: HTTP %d", resp.StatusCode)
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20)) // 4 MB cap
	if err != nil {
		return nil, fmt.Errorf("ticketpdf.FetchPNG: %w", err)
	}
	return data, nil
}
