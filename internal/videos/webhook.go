package videos

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"propertyflow-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// WebhookHandler consumes Mux event deliveries. WebhookSecret empty
// disables signature verification (local development without a tunnel).
type WebhookHandler struct {
	DB            *gorm.DB
	WebhookSecret string
}

type muxEvent struct {
	Type string `json:"type"`
	Data struct {
		ID          string `json:"id"`
		AssetID     string `json:"asset_id"`
		UploadID    string `json:"upload_id"`
		PlaybackIDs []struct {
			ID string `json:"id"`
		} `json:"playback_ids"`
	} `json:"data"`
}

// HandleWebhook POST /api/v1/webhooks/mux — raw body, signature verification, then process.
// Events that do not match a tracked video are acknowledged and dropped;
// a non-200 would only make the provider redeliver them.
func (wh *WebhookHandler) HandleWebhook(c *fiber.Ctx) error {
	rawBody := c.BodyRaw()
	sig := c.Get("Mux-Signature")

	if len(rawBody) == 0 {
		log.Warn().Msg("Mux webhook received empty body")
		return c.Status(400).SendString("Webhook Error: empty body")
	}

	if wh.WebhookSecret != "" {
		if err := verifyMuxSignature(rawBody, sig, wh.WebhookSecret); err != nil {
			log.Warn().Err(err).Bool("has_sig", sig != "").Msg("Mux webhook signature verification failed")
			return c.Status(400).SendString(fmt.Sprintf("Webhook Error: %s", err.Error()))
		}
	}

	var event muxEvent
	if err := json.Unmarshal(rawBody, &event); err != nil {
		log.Warn().Err(err).Msg("Mux webhook JSON parse failed")
		return c.Status(400).SendString(fmt.Sprintf("Webhook Error: %s", err.Error()))
	}

	if err := wh.archive(event.Type, rawBody); err != nil {
		log.Error().Err(err).Str("event_type", event.Type).Msg("Failed to archive webhook event")
	}

	if err := wh.process(event); err != nil {
		log.Warn().Err(err).Str("event_type", event.Type).Msg("Mux webhook not applied")
	}
	return c.Status(200).SendString("ok")
}

func (wh *WebhookHandler) archive(eventType string, rawBody []byte) error {
	return wh.DB.Create(&models.WebhookEvent{
		Provider:  "mux",
		EventType: eventType,
		Payload:   datatypes.JSON(rawBody),
	}).Error
}

func (wh *WebhookHandler) process(event muxEvent) error {
	switch event.Type {
	case "video.upload.asset_created":
		return wh.assetCreated(event)
	case "video.asset.ready":
		return wh.assetReady(event)
	case "video.asset.errored":
		return wh.assetErrored(event)
	default:
		return nil
	}
}

// assetCreated links the upload session to its asset. The event's data
// object is the upload, so data.id is the upload id we matched on at
// session creation and asset_id arrives in the payload.
func (wh *WebhookHandler) assetCreated(event muxEvent) error {
	uploadID := event.Data.ID

	var video models.ListingVideo
	err := wh.DB.Where("provider_upload_id = ?", uploadID).First(&video).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("no video for upload %s", uploadID)
		}
		return err
	}
	if isTerminal(video.Status) {
		return nil
	}
	updates := map[string]interface{}{"status": models.VideoProcessing}
	if event.Data.AssetID != "" {
		updates["provider_asset_id"] = event.Data.AssetID
	}
	return wh.DB.Model(&video).Updates(updates).Error
}

func (wh *WebhookHandler) assetReady(event muxEvent) error {
	var video models.ListingVideo
	err := wh.DB.Where("provider_asset_id = ?", event.Data.ID).First(&video).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("no video for asset %s", event.Data.ID)
		}
		return err
	}
	if isTerminal(video.Status) {
		return nil
	}
	updates := map[string]interface{}{"status": models.VideoReady}
	if len(event.Data.PlaybackIDs) > 0 {
		updates["playback_id"] = event.Data.PlaybackIDs[0].ID
	}
	return wh.DB.Model(&video).Updates(updates).Error
}

func (wh *WebhookHandler) assetErrored(event muxEvent) error {
	var video models.ListingVideo
	err := wh.DB.Where("provider_asset_id = ?", event.Data.ID).First(&video).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("no video for asset %s", event.Data.ID)
		}
		return err
	}
	if isTerminal(video.Status) {
		return nil
	}
	return wh.DB.Model(&video).Update("status", models.VideoError).Error
}

// ready and error never transition again, even if the provider
// redelivers an older event out of order.
func isTerminal(status string) bool {
	return status == models.VideoReady || status == models.VideoError
}

// verifyMuxSignature verifies the Mux-Signature header (t=...,v1=...,
// HMAC-SHA256 over "timestamp.body", same scheme Stripe uses).
func verifyMuxSignature(payload []byte, sigHeader, secret string) error {
	if sigHeader == "" {
		return errors.New("missing signature")
	}

	var timestamp string
	var signatures []string

	parts := strings.Split(sigHeader, ",")
	for _, part := range parts {
		kv := strings.SplitN(strings.TrimSpace(part), "=", 2)
		if len(kv) != 2 {
			continue
		}
		switch kv[0] {
		case "t":
			timestamp = kv[1]
		case "v1":
			signatures = append(signatures, kv[1])
		}
	}

	if timestamp == "" || len(signatures) == 0 {
		return errors.New("invalid signature format")
	}

	signedPayload := timestamp + "." + string(payload)
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(signedPayload))
	expectedSig := hex.EncodeToString(mac.Sum(nil))

	for _, sig := range signatures {
		if hmac.Equal([]byte(sig), []byte(expectedSig)) {
			ts, err := strconv.ParseInt(timestamp, 10, 64)
			if err != nil {
				return errors.New("invalid timestamp")
			}
			diff := time.Now().Unix() - ts
			if diff < 0 {
				diff = -diff
			}
			if diff > 300 {
				return errors.New("timestamp too old")
			}
			return nil
		}
	}

	return errors.New("signature mismatch")
}
