package web

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
	"github.com/selvklart/docflow/pkg/engine"
	"github.com/selvklart/docflow/pkg/identity"
	"github.com/selvklart/docflow/pkg/models"
)

type APIHandlers struct {
	logger    *slog.Logger
	engine    *engine.Engine
	validator *validator.Validate
}

func NewAPIHandlers(logger *slog.Logger, eng *engine.Engine, validator *validator.Validate) *APIHandlers {
	return &APIHandlers{
		logger:    logger,
		engine:    eng,
		validator: validator,
	}
}

// principal resolves the acting user from the identity headers. Read
// endpoints tolerate a missing identity and evaluate against the zero
// principal, which fails every gate closed.
func (h *APIHandlers) principal(c fiber.Ctx) models.Principal {
	principal, err := identity.FromHeaders(c.Get(identity.UserIDHeader), c.Get(identity.UserRolesHeader))
	if err != nil {
		return models.Principal{}
	}

	return principal
}

func (h *APIHandlers) GetWorkflowStatus(c fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return badRequest(c, "Document ID is required")
	}

	status, err := h.engine.Status(c.Context(), id, h.principal(c))
	if err != nil {
		return handleEngineError(c, err)
	}

	return c.JSON(status)
}

func (h *APIHandlers) BeginWorkflow(c fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return badRequest(c, "Document ID is required")
	}

	var req BeginWorkflowRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "Invalid JSON format")
	}

	meta, err := h.engine.Begin(c.Context(), id, req.HasUnpublishedChanges)
	if err != nil {
		return handleEngineError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(meta)
}

func (h *APIHandlers) AddAssignees(c fiber.Ctx) error {
	return h.mutateAssignees(c, h.engine.Assign)
}

func (h *APIHandlers) RemoveAssignees(c fiber.Ctx) error {
	return h.mutateAssignees(c, h.engine.Unassign)
}

func (h *APIHandlers) mutateAssignees(
	c fiber.Ctx,
	mutate func(ctx context.Context, documentID string, principalIDs []string) (*models.Metadata, error),
) error {
	id := c.Params("id")
	if id == "" {
		return badRequest(c, "Document ID is required")
	}

	var req AssigneesRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "Invalid JSON format")
	}

	if err := h.validator.Struct(req); err != nil {
		return badRequest(c, err.Error())
	}

	meta, err := mutate(c.Context(), id, req.Assignees)
	if err != nil {
		return handleEngineError(c, err)
	}

	return c.JSON(meta)
}

func (h *APIHandlers) AdvanceWorkflow(c fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return badRequest(c, "Document ID is required")
	}

	principal, err := identity.FromHeaders(c.Get(identity.UserIDHeader), c.Get(identity.UserRolesHeader))
	if err != nil {
		return unauthorized(c, "identity headers are required to move documents")
	}

	var req AdvanceRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "Invalid JSON format")
	}

	if err := h.validator.Struct(req); err != nil {
		return badRequest(c, err.Error())
	}

	result, err := h.engine.Advance(c.Context(), id, principal, req.TargetState)
	if err != nil {
		return handleEngineError(c, err)
	}

	if !result.Decision.Allowed {
		return c.Status(fiber.StatusForbidden).JSON(AdvanceResponse{
			Allowed: false,
			Reason:  result.Decision.Reason,
		})
	}

	return c.JSON(AdvanceResponse{
		Allowed:  true,
		Metadata: result.Metadata,
	})
}

func (h *APIHandlers) GetNextStep(c fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return badRequest(c, "Document ID is required")
	}

	next, err := h.engine.Next(c.Context(), id, h.principal(c))
	if err != nil {
		return handleEngineError(c, err)
	}

	return c.JSON(next)
}

func (h *APIHandlers) CompleteWorkflow(c fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return badRequest(c, "Document ID is required")
	}

	if err := h.engine.Complete(c.Context(), id); err != nil {
		return handleEngineError(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

func (h *APIHandlers) CancelWorkflow(c fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return badRequest(c, "Document ID is required")
	}

	if err := h.engine.Cancel(c.Context(), id); err != nil {
		return handleEngineError(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

func (h *APIHandlers) GetStates(c fiber.Ctx) error {
	return c.JSON(StatesResponse{
		States:      h.engine.Catalog().States(),
		SchemaTypes: h.engine.Catalog().SchemaTypes(),
	})
}

func (h *APIHandlers) GetDocumentsByState(c fiber.Ctx) error {
	state := c.Query("state")
	if state == "" {
		return badRequest(c, "state query parameter is required")
	}

	documents, err := h.engine.ListByState(c.Context(), state)
	if err != nil {
		return handleEngineError(c, err)
	}

	return c.JSON(DocumentsResponse{
		State:     state,
		Documents: documents,
	})
}

func (h *APIHandlers) HealthCheck(c fiber.Ctx) error {
	status := "healthy"
	message := "Docflow API is healthy"
	httpStatus := http.StatusOK

	if err := h.engine.HealthCheck(c.Context()); err != nil {
		h.logger.ErrorContext(c.Context(), "store health check failed", "error", err)

		status = "unhealthy"
		message = "Docflow API is unhealthy: " + err.Error()
		httpStatus = http.StatusInternalServerError
	}

	return c.Status(httpStatus).JSON(fiber.Map{
		"status":    status,
		"message":   message,
		"timestamp": time.Now().UTC(),
	})
}
