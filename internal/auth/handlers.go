package auth

import (
	"errors"

	"propertyflow-backend/internal/jwt"
	"propertyflow-backend/internal/middleware"
	"propertyflow-backend/internal/models"
	"propertyflow-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

type Handlers struct {
	Service *Service
	JWT     *jwt.Manager
}

// AccountShape is the account object returned by signup and /me.
type AccountShape struct {
	ID               string  `json:"id"`
	Email            string  `json:"email"`
	BusinessName     *string `json:"business_name"`
	SubscriptionTier string  `json:"subscription_tier"`
}

func accountShape(u *models.User) AccountShape {
	return AccountShape{
		ID:               u.ID.String(),
		Email:            u.Email,
		BusinessName:     u.BusinessName,
		SubscriptionTier: u.SubscriptionTier,
	}
}

// POST /api/v1/auth/signup
func (h *Handlers) Signup(c *fiber.Ctx) error {
	var in SignupInput
	if err := c.BodyParser(&in); err != nil {
		return response.Error(c, "Invalid request body", fiber.StatusBadRequest, nil)
	}
	user, err := h.Service.Signup(c.Context(), in)
	if err != nil {
		if errors.Is(err, ErrEmailPasswordRequired) {
			return response.Error(c, err.Error(), fiber.StatusBadRequest, nil)
		}
		return response.AppError(c, err)
	}
	return response.SuccessCreated(c, "Account created successfully", accountShape(user), nil)
}

// POST /api/v1/auth/login
func (h *Handlers) Login(c *fiber.Ctx) error {
	var in LoginInput
	if err := c.BodyParser(&in); err != nil {
		return response.Error(c, "Invalid request body", fiber.StatusBadRequest, nil)
	}
	user, err := h.Service.Login(c.Context(), in)
	if err != nil {
		if errors.Is(err, ErrEmailPasswordRequired) {
			return response.Error(c, err.Error(), fiber.StatusBadRequest, nil)
		}
		if errors.Is(err, ErrInvalidCredentials) {
			return response.Unauthorized(c, err.Error())
		}
		return response.AppError(c, err)
	}
	token, err := h.JWT.Issue(user.ID, user.Email)
	if err != nil {
		return response.AppError(c, err)
	}
	return response.Success(c, "Logged in successfully", fiber.Map{
		"access_token": token,
		"token_type":   "bearer",
	}, nil)
}

// GET /api/v1/auth/me
func (h *Handlers) Me(c *fiber.Ctx) error {
	user, err := h.Service.GetByID(c.Context(), middleware.AccountID(c))
	if err != nil {
		return response.AppError(c, err)
	}
	return response.Success(c, "Account fetched successfully", accountShape(user), nil)
}
