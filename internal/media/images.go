package media

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"
)

// ImageUpload is the provider's answer to an upload: the opaque id plus
// the display and thumbnail variant URLs.
type ImageUpload struct {
	ProviderID   string
	URL          string
	ThumbnailURL string
}

// ImageClient defines what we need from the image hosting provider.
type ImageClient interface {
	Upload(ctx context.Context, fileBytes []byte, filename string) (*ImageUpload, error)
	Delete(ctx context.Context, providerID string) error
}

// CloudflareImages is an ImageClient backed by the Cloudflare Images API.
type CloudflareImages struct {
	AccountID string
	APIToken  string
	Client    *http.Client
}

type cloudflareUploadResponse struct {
	Success bool `json:"success"`
	Result  struct {
		ID       string   `json:"id"`
		Variants []string `json:"variants"`
	} `json:"result"`
}

func (c *CloudflareImages) baseURL() string {
	return fmt.Sprintf("https://api.cloudflare.com/client/v4/accounts/%s/images/v1", c.AccountID)
}

func (c *CloudflareImages) httpClient() *http.Client {
	if c.Client == nil {
		c.Client = &http.Client{Timeout: 30 * time.Second}
	}
	return c.Client
}

// Upload sends the file as multipart form data. The returned variant URLs
// are rewritten to the provider's named "public" and "thumbnail" variants.
func (c *CloudflareImages) Upload(ctx context.Context, fileBytes []byte, filename string) (*ImageUpload, error) {
	if c.AccountID == "" || c.APIToken == "" {
		return nil, fmt.Errorf("cloudflare: CLOUDFLARE_ACCOUNT_ID and CLOUDFLARE_API_TOKEN must be set")
	}

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", filename)
	if err != nil {
		return nil, err
	}
	if _, err := fw.Write(fileBytes); err != nil {
		return nil, err
	}
	if err := mw.Close(); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL(), &buf)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.APIToken)
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := c.httpClient().Do(req)
	if err != nil {
		return nil, fmt.Errorf("cloudflare request: %w", err)
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("cloudflare error: status %d body: %s", resp.StatusCode, string(respBody))
	}

	var data cloudflareUploadResponse
	if err := json.Unmarshal(respBody, &data); err != nil {
		return nil, fmt.Errorf("cloudflare response decode: %w", err)
	}
	if !data.Success || data.Result.ID == "" || len(data.Result.Variants) == 0 {
		return nil, fmt.Errorf("cloudflare returned no image, body: %s", string(respBody))
	}

	// Variant URLs share the same prefix, differing in the last segment.
	variantBase := data.Result.Variants[0]
	if i := strings.LastIndex(variantBase, "/"); i >= 0 {
		variantBase = variantBase[:i]
	}
	return &ImageUpload{
		ProviderID:   data.Result.ID,
		URL:          variantBase + "/public",
		ThumbnailURL: variantBase + "/thumbnail",
	}, nil
}

// Delete removes the image at the provider. A non-2xx answer is the
// operation's own failure and must surface to the caller.
func (c *CloudflareImages) Delete(ctx context.Context, providerID string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, c.baseURL()+"/"+providerID, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.APIToken)

	resp, err := c.httpClient().Do(req)
	if err != nil {
		return fmt.Errorf("cloudflare request: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("cloudflare delete error: status %d body: %s", resp.StatusCode, string(body))
	}
	return nil
}
