package handler

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/lecturerclaims/claims-system/internal/core/domain"
	"github.com/lecturerclaims/claims-system/internal/core/ports"
)

type reviewFunc func(ctx context.Context, id string, actor domain.Actor) (*domain.Claim, error)
type rejectFunc func(ctx context.Context, id string, actor domain.Actor, reason string) (*domain.Claim, error)

// ReviewHandler serves one reviewer stage: its work queue plus approve and reject.
type ReviewHandler struct {
	claims  ports.ClaimService
	queue   domain.ClaimStatus
	approve reviewFunc
	reject  rejectFunc
}

// NewCoordinatorHandler serves the Pending queue.
func NewCoordinatorHandler(claims ports.ClaimService) *ReviewHandler {
	return &ReviewHandler{
		claims:  claims,
		queue:   domain.StatusPending,
		approve: claims.CoordinatorApprove,
		reject:  claims.CoordinatorReject,
	}
}

// NewManagerHandler serves the Coordinator Approved queue.
func NewManagerHandler(claims ports.ClaimService) *ReviewHandler {
	return &ReviewHandler{
		claims:  claims,
		queue:   domain.StatusCoordinatorApproved,
		approve: claims.ManagerApprove,
		reject:  claims.ManagerReject,
	}
}

// Queue handles GET /v1/coordinator/claims and GET /v1/manager/claims.
//
// @Summary      Claims awaiting this reviewer, oldest first
// @Tags         review
// @Produce      json
// @Security     BearerAuth
// @Param        claimant  query     string  false  "Case-insensitive claimant name filter"
// @Param        page      query     int     false  "Page number (default 1)"
// @Param        limit     query     int     false  "Page size (default 20, max 100)"
// @Success      200       {object}  listClaimsResponse
// @Failure      403       {object}  errorResponse
// @Router       /v1/coordinator/claims [get]
// @Router       /v1/manager/claims [get]
func (h *ReviewHandler) Queue(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}
	var q listClaimsQuery
	if err := c.Bind(&q); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid query parameters")
	}

	result, err := h.claims.ListClaims(c.Request().Context(), ports.ListClaimsInput{
		ClaimantName: q.Claimant,
		Status:       h.queue,
		OrderBy:      ports.OrderCreatedAsc,
		Page:         q.Page,
		Limit:        q.Limit,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toListResponse(result, actor.Role))
}

// Approve handles POST /v1/{coordinator,manager}/claims/:id/approve.
//
// @Summary      Approve a claim at this reviewer's stage
// @Description  Runs the validation gate. Manager approval also marks the claim paid and issues a payment reference.
// @Tags         review
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Claim ID"
// @Success      200  {object}  claimResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Failure      409  {object}  errorResponse
// @Failure      422  {object}  errorResponse
// @Router       /v1/coordinator/claims/{id}/approve [post]
// @Router       /v1/manager/claims/{id}/approve [post]
func (h *ReviewHandler) Approve(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}
	claim, err := h.approve(c.Request().Context(), c.Param("id"), actor)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toClaimResponse(claim, actor.Role))
}

// Reject handles POST /v1/{coordinator,manager}/claims/:id/reject.
//
// @Summary      Return a claim to the claimant for fixes
// @Tags         review
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string         true   "Claim ID"
// @Param        body  body      rejectRequest  false  "Reason shown to the claimant"
// @Success      200   {object}  claimResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Router       /v1/coordinator/claims/{id}/reject [post]
// @Router       /v1/manager/claims/{id}/reject [post]
func (h *ReviewHandler) Reject(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}
	var req rejectRequest
	if c.Request().ContentLength != 0 {
		if err := c.Bind(&req); err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
		}
		if err := c.Validate(&req); err != nil {
			return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
		}
	}

	claim, err := h.reject(c.Request().Context(), c.Param("id"), actor, req.Reason)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toClaimResponse(claim, actor.Role))
}
