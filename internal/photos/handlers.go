package photos

import (
	"io"

	"propertyflow-backend/internal/middleware"
	"propertyflow-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type Handlers struct {
	Service *Service
}

type reorderBody struct {
	PhotoIDs []uuid.UUID `json:"photo_ids"`
}

// POST /api/v1/listings/:listing_id/photos
// Expects a multipart form with a single "file" part.
func (h *Handlers) Upload(c *fiber.Ctx) error {
	listingID, err := uuid.Parse(c.Params("listing_id"))
	if err != nil {
		return response.Error(c, "Invalid listing_id format", fiber.StatusBadRequest, nil)
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return response.Error(c, "Missing file", fiber.StatusBadRequest, nil)
	}
	file, err := fileHeader.Open()
	if err != nil {
		return response.Error(c, "Could not read file", fiber.StatusBadRequest, nil)
	}
	defer file.Close()
	fileBytes, err := io.ReadAll(file)
	if err != nil {
		return response.Error(c, "Could not read file", fiber.StatusBadRequest, nil)
	}

	photo, err := h.Service.Upload(c.Context(), middleware.AccountID(c), listingID, fileBytes, fileHeader.Filename)
	if err != nil {
		return response.AppError(c, err)
	}
	return response.SuccessCreated(c, "Photo uploaded successfully", photo, nil)
}

// PUT /api/v1/listings/:listing_id/photos/order
func (h *Handlers) Reorder(c *fiber.Ctx) error {
	listingID, err := uuid.Parse(c.Params("listing_id"))
	if err != nil {
		return response.Error(c, "Invalid listing_id format", fiber.StatusBadRequest, nil)
	}
	var body reorderBody
	if err := c.BodyParser(&body); err != nil {
		return response.Error(c, "Invalid request body", fiber.StatusBadRequest, nil)
	}

	photos, err := h.Service.Reorder(c.Context(), middleware.AccountID(c), listingID, body.PhotoIDs)
	if err != nil {
		return response.AppError(c, err)
	}
	return response.Success(c, "Photo order updated successfully", photos, nil)
}

// DELETE /api/v1/listings/:listing_id/photos/:photo_id
func (h *Handlers) Delete(c *fiber.Ctx) error {
	listingID, err := uuid.Parse(c.Params("listing_id"))
	if err != nil {
		return response.Error(c, "Invalid listing_id format", fiber.StatusBadRequest, nil)
	}
	photoID, err := uuid.Parse(c.Params("photo_id"))
	if err != nil {
		return response.Error(c, "Invalid photo_id format", fiber.StatusBadRequest, nil)
	}
	if err := h.Service.Delete(c.Context(), middleware.AccountID(c), listingID, photoID); err != nil {
		return response.AppError(c, err)
	}
	return response.NoContent(c)
}
