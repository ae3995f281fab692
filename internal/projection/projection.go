// Package projection maps already-fetched listing aggregates into the
// API response shapes. It does no persistence work: callers hand over
// the materialized listing, its agent, photos and videos.
package projection

import (
	"sort"

	"propertyflow-backend/internal/models"

	"github.com/google/uuid"
)

// Aggregate is a fully materialized listing graph.
type Aggregate struct {
	Listing models.Listing
	Agent   *models.Agent
	Photos  []models.ListingPhoto
	Videos  []models.ListingVideo
}

// Base is shared by every listing shape.
type Base struct {
	ID           uuid.UUID `json:"id"`
	AgentID      uuid.UUID `json:"agent_id"`
	Slug         string    `json:"slug"`
	Address      string    `json:"address"`
	Price        int       `json:"price"`
	Beds         int       `json:"beds"`
	Baths        int       `json:"baths"`
	Sqft         int       `json:"sqft"`
	Description  *string   `json:"description"`
	MLSNumber    *string   `json:"mls_number"`
	Status       string    `json:"status"`
	BrandedURL   string    `json:"branded_url"`
	UnbrandedURL string    `json:"unbranded_url"`
}

// Photo is the photo shape in every projection.
type Photo struct {
	ID           uuid.UUID `json:"id"`
	URL          string    `json:"url"`
	ThumbnailURL string    `json:"thumbnail_url"`
	Position     int       `json:"position"`
}

// Video is the video shape in owner projections (all statuses).
type Video struct {
	ID              uuid.UUID `json:"id"`
	ProviderAssetID *string   `json:"provider_asset_id"`
	PlaybackID      *string   `json:"playback_id"`
	Title           *string   `json:"title"`
	Status          string    `json:"status"`
}

// PublicVideo omits the provider asset id.
type PublicVideo struct {
	ID         uuid.UUID `json:"id"`
	PlaybackID *string   `json:"playback_id"`
	Title      *string   `json:"title"`
	Status     string    `json:"status"`
}

// AgentBlock is the agent contact/brand block on branded public pages.
type AgentBlock struct {
	Name             string  `json:"name"`
	Email            *string `json:"email"`
	Phone            *string `json:"phone"`
	BrokerageName    *string `json:"brokerage_name"`
	PhotoURL         *string `json:"photo_url"`
	BrokerageLogoURL *string `json:"brokerage_logo_url"`
}

// OwnerSummary is the dashboard card shape.
type OwnerSummary struct {
	Base
	AgentName     *string `json:"agent_name"`
	FirstPhotoURL *string `json:"first_photo_url"`
}

// OwnerDetail is the edit-page shape: summary plus full media.
type OwnerDetail struct {
	OwnerSummary
	Photos []Photo `json:"photos"`
	Videos []Video `json:"videos"`
}

// PublicBranded is the public page shape including the agent block.
type PublicBranded struct {
	Slug        string        `json:"slug"`
	Address     string        `json:"address"`
	Price       int           `json:"price"`
	Beds        int           `json:"beds"`
	Baths       int           `json:"baths"`
	Sqft        int           `json:"sqft"`
	Description *string       `json:"description"`
	MLSNumber   *string       `json:"mls_number"`
	Photos      []Photo       `json:"photos"`
	Videos      []PublicVideo `json:"videos"`
	Agent       AgentBlock    `json:"agent"`
}

// PublicUnbranded is the MLS/syndication shape. It is a distinct struct
// with no agent field at all, so nothing about the agent can leak
// through optional-field inspection.
type PublicUnbranded struct {
	Slug        string        `json:"slug"`
	Address     string        `json:"address"`
	Price       int           `json:"price"`
	Beds        int           `json:"beds"`
	Baths       int           `json:"baths"`
	Sqft        int           `json:"sqft"`
	Description *string       `json:"description"`
	MLSNumber   *string       `json:"mls_number"`
	Photos      []Photo       `json:"photos"`
	Videos      []PublicVideo `json:"videos"`
}

func base(l models.Listing) Base {
	return Base{
		ID:           l.ID,
		AgentID:      l.AgentID,
		Slug:         l.Slug,
		Address:      l.Address,
		Price:        l.Price,
		Beds:         l.Beds,
		Baths:        l.Baths,
		Sqft:         l.Sqft,
		Description:  l.Description,
		MLSNumber:    l.MLSNumber,
		Status:       l.Status,
		BrandedURL:   "/p/" + l.Slug,
		UnbrandedURL: "/p/" + l.Slug + "/mls",
	}
}

// orderedPhotos sorts ascending by position; ties keep insertion order.
func orderedPhotos(photos []models.ListingPhoto) []Photo {
	sorted := make([]models.ListingPhoto, len(photos))
	copy(sorted, photos)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Position < sorted[j].Position
	})
	out := make([]Photo, 0, len(sorted))
	for _, p := range sorted {
		out = append(out, Photo{
			ID:           p.ID,
			URL:          p.URL,
			ThumbnailURL: p.ThumbnailURL,
			Position:     p.Position,
		})
	}
	return out
}

func ToOwnerSummary(agg Aggregate) OwnerSummary {
	out := OwnerSummary{Base: base(agg.Listing)}
	if agg.Agent != nil {
		out.AgentName = &agg.Agent.Name
	}
	if photos := orderedPhotos(agg.Photos); len(photos) > 0 {
		out.FirstPhotoURL = &photos[0].ThumbnailURL
	}
	return out
}

func ToOwnerDetail(agg Aggregate) OwnerDetail {
	videos := make([]Video, 0, len(agg.Videos))
	for _, v := range agg.Videos {
		videos = append(videos, Video{
			ID:              v.ID,
			ProviderAssetID: v.ProviderAssetID,
			PlaybackID:      v.PlaybackID,
			Title:           v.Title,
			Status:          v.Status,
		})
	}
	return OwnerDetail{
		OwnerSummary: ToOwnerSummary(agg),
		Photos:       orderedPhotos(agg.Photos),
		Videos:       videos,
	}
}

func publicVideos(videos []models.ListingVideo) []PublicVideo {
	out := make([]PublicVideo, 0, len(videos))
	for _, v := range videos {
		if v.Status != models.VideoReady {
			continue
		}
		out = append(out, PublicVideo{
			ID:         v.ID,
			PlaybackID: v.PlaybackID,
			Title:      v.Title,
			Status:     v.Status,
		})
	}
	return out
}

func ToPublicBranded(agg Aggregate) PublicBranded {
	out := PublicBranded{
		Slug:        agg.Listing.Slug,
		Address:     agg.Listing.Address,
		Price:       agg.Listing.Price,
		Beds:        agg.Listing.Beds,
		Baths:       agg.Listing.Baths,
		Sqft:        agg.Listing.Sqft,
		Description: agg.Listing.Description,
		MLSNumber:   agg.Listing.MLSNumber,
		Photos:      orderedPhotos(agg.Photos),
		Videos:      publicVideos(agg.Videos),
	}
	if agg.Agent != nil {
		out.Agent = AgentBlock{
			Name:             agg.Agent.Name,
			Email:            agg.Agent.Email,
			Phone:            agg.Agent.Phone,
			BrokerageName:    agg.Agent.BrokerageName,
			PhotoURL:         agg.Agent.PhotoURL,
			BrokerageLogoURL: agg.Agent.BrokerageLogoURL,
		}
	}
	return out
}

func ToPublicUnbranded(agg Aggregate) PublicUnbranded {
	return PublicUnbranded{
		Slug:        agg.Listing.Slug,
		Address:     agg.Listing.Address,
		Price:       agg.Listing.Price,
		Beds:        agg.Listing.Beds,
		Baths:       agg.Listing.Baths,
		Sqft:        agg.Listing.Sqft,
		Description: agg.Listing.Description,
		MLSNumber:   agg.Listing.MLSNumber,
		Photos:      orderedPhotos(agg.Photos),
		Videos:      publicVideos(agg.Videos),
	}
}
