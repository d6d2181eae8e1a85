package web

import (
	"errors"

	"github.com/gofiber/fiber/v3"
	"github.com/moogar0880/problems"
	"github.com/selvklart/docflow/pkg/engine"
	"github.com/selvklart/docflow/pkg/lock"
	"github.com/selvklart/docflow/pkg/store"
)

func badRequest(c fiber.Ctx, detail string) error {
	problem := problems.NewStatusProblem(400).
		WithInstance(c.Path()).
		WithType("validation_error").
		WithDetail(detail)

	return c.Status(fiber.StatusBadRequest).JSON(problem)
}

func unauthorized(c fiber.Ctx, detail string) error {
	problem := problems.NewStatusProblem(401).
		WithInstance(c.Path()).
		WithType("unauthenticated").
		WithDetail(detail)

	return c.Status(fiber.StatusUnauthorized).JSON(problem)
}

func notFound(c fiber.Ctx, detail string) error {
	problem := problems.NewStatusProblem(404).
		WithInstance(c.Path()).
		WithType("not_found").
		WithDetail(detail)

	return c.Status(fiber.StatusNotFound).JSON(problem)
}

func conflict(c fiber.Ctx, problemType, detail string) error {
	problem := problems.NewStatusProblem(409).
		WithInstance(c.Path()).
		WithType(problemType).
		WithDetail(detail)

	return c.Status(fiber.StatusConflict).JSON(problem)
}

func internalError(c fiber.Ctx, problemType string, err error) error {
	problem := problems.NewStatusProblem(500).
		WithInstance(c.Path()).
		WithType(problemType).
		WithError(err)

	return c.Status(fiber.StatusInternalServerError).JSON(problem)
}

// handleEngineError maps engine errors onto problem responses.
func handleEngineError(c fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, engine.ErrNotInWorkflow):
		return notFound(c, "document is not in workflow")

	case errors.Is(err, engine.ErrAlreadyInWorkflow):
		return conflict(c, "already_in_workflow", err.Error())

	case errors.Is(err, engine.ErrNoUnpublishedChanges):
		return conflict(c, "no_unpublished_changes", err.Error())

	case errors.Is(err, engine.ErrNotInLastState):
		return conflict(c, "not_in_last_state", err.Error())

	case errors.Is(err, engine.ErrUnknownTargetState):
		return badRequest(c, err.Error())

	case store.IsRevisionConflict(err), lock.IsLocked(err):
		return conflict(c, "concurrent_update", "document was modified concurrently, retry the operation")

	case engine.IsReleaseFailure(err):
		return internalError(c, "release_failed", err)

	case engine.IsIntegrity(err):
		return internalError(c, "inconsistent_metadata", err)

	default:
		return internalError(c, "internal_error", err)
	}
}
