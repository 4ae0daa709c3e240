// Package http contains the inbound HTTP handlers.
package http

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"

	"triage_server/core/domain"
	"triage_server/core/service/pipeline"
	"triage_server/pkg/apperr"
	"triage_server/pkg/response"
)

// ClassifyHandler exposes the classification pipeline over HTTP.
type ClassifyHandler struct {
	pipeline *pipeline.Pipeline
	batch    *pipeline.BatchClassifier
	maxBatch int
}

// NewClassifyHandler creates the handler.
func NewClassifyHandler(p *pipeline.Pipeline, b *pipeline.BatchClassifier, maxBatch int) *ClassifyHandler {
	if maxBatch <= 0 {
		maxBatch = 100
	}
	return &ClassifyHandler{pipeline: p, batch: b, maxBatch: maxBatch}
}

// Register mounts the classify routes.
func (h *ClassifyHandler) Register(router fiber.Router) {
	router.Post("/classify", h.Classify)
	router.Post("/classify/batch", h.ClassifyBatch)
}

type classifyRequest struct {
	Email *domain.EmailInput `json:"email"`
}

type batchRequest struct {
	Emails []*domain.EmailInput `json:"emails"`
}

type batchResponse struct {
	Classifications []*domain.Classification `json:"classifications"`
	Count           int                      `json:"count"`
}

// Classify handles POST /api/classify. A malformed or empty envelope is the
// only client error; any classifiable input gets a 200 with a full result.
func (h *ClassifyHandler) Classify(c *fiber.Ctx) error {
	var req classifyRequest
	if err := c.BodyParser(&req); err != nil {
		return apperr.BadRequest("malformed request body").WithError(err)
	}
	if req.Email == nil {
		return apperr.ValidationFailed("email is required")
	}

	start := time.Now()
	result := h.pipeline.Classify(c.Context(), req.Email)

	return response.OKWithMeta(c, result, &response.Meta{
		Elapsed: float64(time.Since(start).Microseconds()) / 1000.0,
	})
}

// ClassifyBatch handles POST /api/classify/batch. The batch size is capped;
// results come back in input order, one per email.
func (h *ClassifyHandler) ClassifyBatch(c *fiber.Ctx) error {
	var req batchRequest
	if err := c.BodyParser(&req); err != nil {
		return apperr.BadRequest("malformed request body").WithError(err)
	}
	if len(req.Emails) == 0 {
		return apperr.ValidationFailed("emails must not be empty")
	}
	if len(req.Emails) > h.maxBatch {
		return apperr.BatchTooLarge(fmt.Sprintf("batch size %d exceeds limit %d", len(req.Emails), h.maxBatch))
	}

	start := time.Now()
	results := h.batch.ClassifyBatch(c.Context(), req.Emails)

	failed := 0
	for _, r := range results {
		if r.Error != "" {
			failed++
		}
	}

	return response.OKWithMeta(c, batchResponse{Classifications: results, Count: len(results)}, &response.Meta{
		Total:   len(results),
		Failed:  failed,
		Elapsed: float64(time.Since(start).Microseconds()) / 1000.0,
	})
}
