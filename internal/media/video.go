package media

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const muxUploadsAPI = "https://api.mux.com/video/v1/uploads"

// DirectUpload is a provider upload session: the browser PUTs the video
// file to URL; UploadID is how the asset-created webhook is matched back
// to our record.
type DirectUpload struct {
	UploadID string
	URL      string
}

// VideoClient defines what we need from the video hosting provider.
type VideoClient interface {
	CreateDirectUpload(ctx context.Context, corsOrigin string) (*DirectUpload, error)
}

// MuxClient is a VideoClient backed by the Mux direct uploads API
// (basic auth with token id/secret).
type MuxClient struct {
	TokenID     string
	TokenSecret string
	Client      *http.Client
}

type muxCreateUploadRequest struct {
	CorsOrigin       string           `json:"cors_origin"`
	NewAssetSettings muxAssetSettings `json:"new_asset_settings"`
}

type muxAssetSettings struct {
	PlaybackPolicy []string `json:"playback_policy"`
}

type muxCreateUploadResponse struct {
	Data struct {
		ID  string `json:"id"`
		URL string `json:"url"`
	} `json:"data"`
}

func (c *MuxClient) CreateDirectUpload(ctx context.Context, corsOrigin string) (*DirectUpload, error) {
	if c.TokenID == "" || c.TokenSecret == "" {
		return nil, fmt.Errorf("mux: MUX_TOKEN_ID and MUX_TOKEN_SECRET must be set")
	}
	if c.Client == nil {
		c.Client = &http.Client{Timeout: 15 * time.Second}
	}

	bodyBytes, err := json.Marshal(muxCreateUploadRequest{
		CorsOrigin:       corsOrigin,
		NewAssetSettings: muxAssetSettings{PlaybackPolicy: []string{"public"}},
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, muxUploadsAPI, bytes.NewReader(bodyBytes))
	if err != nil {
		return nil, err
	}
	req.SetBasicAuth(c.TokenID, c.TokenSecret)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("mux request: %w", err)
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("mux error: status %d body: %s", resp.StatusCode, string(respBody))
	}

	var data muxCreateUploadResponse
	if err := json.Unmarshal(respBody, &data); err != nil {
		return nil, fmt.Errorf("mux response decode: %w", err)
	}
	if data.Data.ID == "" || data.Data.URL == "" {
		return nil, fmt.Errorf("mux returned no upload, body: %s", string(respBody))
	}
	return &DirectUpload{UploadID: data.Data.ID, URL: data.Data.URL}, nil
}
