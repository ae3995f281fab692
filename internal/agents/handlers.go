package agents

import (
	"propertyflow-backend/internal/middleware"
	"propertyflow-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type Handlers struct {
	Service *Service
}

// GET /api/v1/agents
func (h *Handlers) List(c *fiber.Ctx) error {
	agents, err := h.Service.List(c.Context(), middleware.AccountID(c))
	if err != nil {
		return response.AppError(c, err)
	}
	return response.Success(c, "Agents fetched successfully", agents, nil)
}

// POST /api/v1/agents
func (h *Handlers) Create(c *fiber.Ctx) error {
	var in CreateAgentInput
	if err := c.BodyParser(&in); err != nil {
		return response.Error(c, "Invalid request body", fiber.StatusBadRequest, nil)
	}
	agent, err := h.Service.Create(c.Context(), middleware.AccountID(c), in)
	if err != nil {
		return response.AppError(c, err)
	}
	return response.SuccessCreated(c, "Agent created successfully", agent, nil)
}

// GET /api/v1/agents/:agent_id
func (h *Handlers) Get(c *fiber.Ctx) error {
	agentID, err := uuid.Parse(c.Params("agent_id"))
	if err != nil {
		return response.Error(c, "Invalid agent_id format", fiber.StatusBadRequest, nil)
	}
	agent, err := h.Service.Get(c.Context(), middleware.AccountID(c), agentID)
	if err != nil {
		return response.AppError(c, err)
	}
	return response.Success(c, "Agent fetched successfully", agent, nil)
}

// PUT /api/v1/agents/:agent_id
func (h *Handlers) Update(c *fiber.Ctx) error {
	agentID, err := uuid.Parse(c.Params("agent_id"))
	if err != nil {
		return response.Error(c, "Invalid agent_id format", fiber.StatusBadRequest, nil)
	}
	var in UpdateAgentInput
	if err := c.BodyParser(&in); err != nil {
		return response.Error(c, "Invalid request body", fiber.StatusBadRequest, nil)
	}
	agent, err := h.Service.Update(c.Context(), middleware.AccountID(c), agentID, in)
	if err != nil {
		return response.AppError(c, err)
	}
	return response.Success(c, "Agent updated successfully", agent, nil)
}

// DELETE /api/v1/agents/:agent_id
func (h *Handlers) Delete(c *fiber.Ctx) error {
	agentID, err := uuid.Parse(c.Params("agent_id"))
	if err != nil {
		return response.Error(c, "Invalid agent_id format", fiber.StatusBadRequest, nil)
	}
	if err := h.Service.Delete(c.Context(), middleware.AccountID(c), agentID); err != nil {
		return response.AppError(c, err)
	}
	return response.NoContent(c)
}
