package videos

import (
	"propertyflow-backend/internal/middleware"
	"propertyflow-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type Handlers struct {
	Service *Service
}

type createUploadBody struct {
	Title *string `json:"title"`
}

// POST /api/v1/listings/:listing_id/videos
func (h *Handlers) CreateUpload(c *fiber.Ctx) error {
	listingID, err := uuid.Parse(c.Params("listing_id"))
	if err != nil {
		return response.Error(c, "Invalid listing_id format", fiber.StatusBadRequest, nil)
	}
	var body createUploadBody
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&body); err != nil {
			return response.Error(c, "Invalid request body", fiber.StatusBadRequest, nil)
		}
	}

	session, err := h.Service.CreateUpload(c.Context(), middleware.AccountID(c), listingID, body.Title)
	if err != nil {
		return response.AppError(c, err)
	}
	return response.SuccessCreated(c, "Video upload created successfully", session, nil)
}

// GET /api/v1/listings/:listing_id/videos
func (h *Handlers) List(c *fiber.Ctx) error {
	listingID, err := uuid.Parse(c.Params("listing_id"))
	if err != nil {
		return response.Error(c, "Invalid listing_id format", fiber.StatusBadRequest, nil)
	}
	videos, err := h.Service.List(c.Context(), middleware.AccountID(c), listingID)
	if err != nil {
		return response.AppError(c, err)
	}
	return response.Success(c, "Videos fetched successfully", videos, nil)
}

// GET /api/v1/listings/:listing_id/videos/:video_id
func (h *Handlers) Get(c *fiber.Ctx) error {
	listingID, err := uuid.Parse(c.Params("listing_id"))
	if err != nil {
		return response.Error(c, "Invalid listing_id format", fiber.StatusBadRequest, nil)
	}
	videoID, err := uuid.Parse(c.Params("video_id"))
	if err != nil {
		return response.Error(c, "Invalid video_id format", fiber.StatusBadRequest, nil)
	}
	video, err := h.Service.Get(c.Context(), middleware.AccountID(c), listingID, videoID)
	if err != nil {
		return response.AppError(c, err)
	}
	return response.Success(c, "Video fetched successfully", video, nil)
}

// DELETE /api/v1/listings/:listing_id/videos/:video_id
func (h *Handlers) Delete(c *fiber.Ctx) error {
	listingID, err := uuid.Parse(c.Params("listing_id"))
	if err != nil {
		return response.Error(c, "Invalid listing_id format", fiber.StatusBadRequest, nil)
	}
	videoID, err := uuid.Parse(c.Params("video_id"))
	if err != nil {
		return response.Error(c, "Invalid video_id format", fiber.StatusBadRequest, nil)
	}
	if err := h.Service.Delete(c.Context(), middleware.AccountID(c), listingID, videoID); err != nil {
		return response.AppError(c, err)
	}
	return response.NoContent(c)
}
