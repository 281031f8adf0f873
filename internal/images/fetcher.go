package images

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/netip"
	"os"
	"path/filepath"
	"strings"
	"syscall"
	"time"
)

// MaxImageBytes caps any downloaded footprint image.
const MaxImageBytes = 10 * 1024 * 1024

var (
	ErrTooLarge       = errors.New("image too large")
	ErrPrivateAddress = errors.New("image URL resolves to a private address")
)

// Fetcher retrieves footprint images over HTTP
type Fetcher struct {
	HTTPClient *http.Client
	MaxBytes   int64
}

// NewFetcher creates a new image fetcher
func NewFetcher() *Fetcher {
	return &Fetcher{
		HTTPClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		MaxBytes: MaxImageBytes,
	}
}

// NewPublicFetcher creates a fetcher that refuses to connect to loopback,
// private, link-local and unspecified addresses, including after redirects.
func NewPublicFetcher() *Fetcher {
	dialer := &net.Dialer{
		Timeout: 10 * time.Second,
		Control: rejectPrivate,
	}
	return &Fetcher{
		HTTPClient: &http.Client{
			Timeout:   30 * time.Second,
			Transport: &http.Transport{DialContext: dialer.DialContext},
		},
		MaxBytes: MaxImageBytes,
	}
}

// rejectPrivate runs after name resolution, so address is always an IP.
func rejectPrivate(network, address string, _ syscall.RawConn) error {
	ap, err := netip.ParseAddrPort(address)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrPrivateAddress, address)
	}
	ip := ap.Addr().Unmap()
	if ip.IsLoopback() || ip.IsPrivate() || ip.IsUnspecified() || ip.IsLinkLocalUnicast() ||
		ip.IsLinkLocalMulticast() || ip.IsInterfaceLocalMulticast() || ip.IsMulticast() {
		return fmt.Errorf("%w: %s", ErrPrivateAddress, ip)
	}
	return nil
}

// IsRemote reports whether src should be fetched rather than read from disk.
func IsRemote(src string) bool {
	return strings.HasPrefix(src, "http://") || strings.HasPrefix(src, "https://")
}

// Fetch downloads the image at url and returns its raw bytes.
func (f *Fetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	if !IsRemote(url) {
		return nil, fmt.Errorf("unsupported image URL %q: must be http or https", url)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}

	resp, err := f.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to download image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to download image: HTTP %d", resp.StatusCode)
	}

	limit := f.MaxBytes
	if limit <= 0 {
		limit = MaxImageBytes
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, limit+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read image data: %w", err)
	}
	if int64(len(data)) > limit {
		return nil, fmt.Errorf("%w: more than %d bytes", ErrTooLarge, limit)
	}

	slog.Debug("Downloaded image", "url", url, "bytes", len(data))
	return data, nil
}

// Load returns the bytes of src, fetching it when it is an http(s) URL.
func (f *Fetcher) Load(ctx context.Context, src string) ([]byte, error) {
	if IsRemote(src) {
		return f.Fetch(ctx, src)
	}

	data, err := os.ReadFile(src)
	if err != nil {
		return nil, fmt.Errorf("failed to read image: %w", err)
	}
	return data, nil
}

// Download saves the image at url to outputPath, creating parent directories.
func (f *Fetcher) Download(ctx context.Context, url, outputPath string) error {
	data, err := f.Fetch(ctx, url)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(outputPath), 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	if err := os.WriteFile(outputPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write image file: %w", err)
	}
	return nil
}
