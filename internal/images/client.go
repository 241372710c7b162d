// Package images uploads member photos to the club's image host
// (a Cloudinary-style HTTP upload API with unsigned presets).
package images

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/muhammedbesir/okuyamayanlar/internal/config"
)

var (
	ErrNotConfigured   = errors.New("image host is not configured")
	ErrUnsupportedType = errors.New("unsupported image type")
	ErrTooLarge        = errors.New("image exceeds maximum size")
)

// allowedTypes are the content types the upload endpoint accepts.
var allowedTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/webp": true,
	"image/gif":  true,
}

// UploadResult is the subset of the host's response the application keeps.
type UploadResult struct {
	URL      string `json:"secure_url"`
	PublicID string `json:"public_id"`
	Width    int    `json:"width,omitempty"`
	Height   int    `json:"height,omitempty"`
	Bytes    int64  `json:"bytes,omitempty"`
}

// Client talks to the image host's upload API.
type Client struct {
	httpClient   *http.Client
	baseURL      string
	cloudName    string
	uploadPreset string
	maxSizeBytes int64
}

// NewClient creates an image host client from configuration.
func NewClient(cfg config.Images) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		baseURL:      strings.TrimSuffix(cfg.BaseURL, "/"),
		cloudName:    cfg.CloudName,
		uploadPreset: cfg.UploadPreset,
		maxSizeBytes: cfg.MaxSizeBytes,
	}
}

// IsConfigured reports whether uploads can be attempted.
func (c *Client) IsConfigured() bool {
	return c.cloudName != "" && c.uploadPreset != ""
}

// MaxSizeBytes returns the configured upload size limit.
func (c *Client) MaxSizeBytes() int64 {
	return c.maxSizeBytes
}

// Upload streams an image to the host and returns its hosted URL. The
// filename is replaced with a random public ID so member filenames never
// leak into URLs.
func (c *Client) Upload(ctx context.Context, contentType string, size int64, r io.Reader) (*UploadResult, error) {
	if !c.IsConfigured() {
		return nil, ErrNotConfigured
	}
	if !allowedTypes[contentType] {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedType, contentType)
	}
	if c.maxSizeBytes > 0 && size > c.maxSizeBytes {
		return nil, ErrTooLarge
	}

	publicID := uuid.NewString()

	body, formContentType, err := c.buildForm(publicID, contentType, r)
	if err != nil {
		return nil, err
	}

	url := fmt.Sprintf("%s/%s/image/upload", c.baseURL, c.cloudName)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", formContentType)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("upload image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("unexpected status %d: %s", resp.StatusCode, strings.TrimSpace(string(payload)))
	}

	var result UploadResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if result.URL == "" {
		return nil, fmt.Errorf("image host returned no URL")
	}
	return &result, nil
}

func (c *Client) buildForm(publicID, contentType string, r io.Reader) (io.Reader, string, error) {
	pr, pw := io.Pipe()
	writer := multipart.NewWriter(pw)

	go func() {
		defer pw.Close()

		if err := writer.WriteField("upload_preset", c.uploadPreset); err != nil {
			pw.CloseWithError(err)
			return
		}
		if err := writer.WriteField("public_id", publicID); err != nil {
			pw.CloseWithError(err)
			return
		}

		part, err := writer.CreateFormFile("file", publicID+extensionFor(contentType))
		if err != nil {
			pw.CloseWithError(err)
			return
		}
		if _, err := io.Copy(part, r); err != nil {
			pw.CloseWithError(err)
			return
		}
		pw.CloseWithError(writer.Close())
	}()

	return pr, writer.FormDataContentType(), nil
}

func extensionFor(contentType string) string {
	switch contentType {
	case "image/jpeg":
		return ".jpg"
	case "image/png":
		return ".png"
	case "image/webp":
		return ".webp"
	case "image/gif":
		return ".gif"
	default:
		return ""
	}
}
