package handler

import (
	"errors"
	"mime"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"github.com/lecturerclaims/claims-system/internal/core/domain"
	"github.com/lecturerclaims/claims-system/internal/core/ports"
)

const evidenceField = "evidence"

// ClaimHandler handles the claimant-facing claim endpoints.
type ClaimHandler struct {
	claims ports.ClaimService
	users  ports.AuthService
}

func NewClaimHandler(claims ports.ClaimService, users ports.AuthService) *ClaimHandler {
	return &ClaimHandler{claims: claims, users: users}
}

// Submit handles POST /v1/claims.
//
// @Summary      Submit a claim
// @Description  The claimant's name and hourly rate are taken from their profile at submission time.
// @Tags         claims
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        Idempotency-Key  header    string  false  "Idempotency key to prevent duplicate submissions"
// @Param        hours_worked     formData  string  true   "Hours worked this month"
// @Param        evidence         formData  file    false  "Supporting document (.pdf or .docx)"
// @Success      201              {object}  claimResponse
// @Success      200              {object}  claimResponse  "Replay of an earlier submission"
// @Failure      401              {object}  errorResponse
// @Failure      422              {object}  errorResponse
// @Router       /v1/claims [post]
func (h *ClaimHandler) Submit(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}
	var form submitClaimForm
	if err := c.Bind(&form); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&form); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}
	hours, _ := decimal.NewFromString(form.HoursWorked)

	profile, err := h.users.Profile(c.Request().Context(), actor.ID)
	if err != nil {
		return err
	}

	upload, closeFn, err := evidenceUpload(c)
	if err != nil {
		return err
	}
	defer closeFn()

	result, err := h.claims.SubmitClaim(c.Request().Context(), ports.SubmitClaimInput{
		ClaimantID:     actor.ID,
		ClaimantName:   profile.Name,
		HoursWorked:    hours,
		Rate:           profile.HourlyRate,
		Evidence:       upload,
		IdempotencyKey: c.Request().Header.Get("Idempotency-Key"),
	})
	if err != nil {
		return err
	}

	status := http.StatusCreated
	if result.AlreadyExisted {
		status = http.StatusOK
	}
	return c.JSON(status, toClaimResponse(result.Claim, actor.Role))
}

// Resubmit handles PUT /v1/claims/:id.
//
// @Summary      Correct and resubmit a claim returned for fixes
// @Tags         claims
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        id            path      string  true   "Claim ID"
// @Param        hours_worked  formData  string  true   "Corrected hours worked"
// @Param        evidence      formData  file    false  "Replacement document; omit to keep the current one"
// @Success      200           {object}  claimResponse
// @Failure      403           {object}  errorResponse
// @Failure      404           {object}  errorResponse
// @Failure      409           {object}  errorResponse
// @Failure      422           {object}  errorResponse
// @Router       /v1/claims/{id} [put]
func (h *ClaimHandler) Resubmit(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}
	var form submitClaimForm
	if err := c.Bind(&form); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&form); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}
	hours, _ := decimal.NewFromString(form.HoursWorked)

	profile, err := h.users.Profile(c.Request().Context(), actor.ID)
	if err != nil {
		return err
	}

	upload, closeFn, err := evidenceUpload(c)
	if err != nil {
		return err
	}
	defer closeFn()

	claim, err := h.claims.ResubmitClaim(c.Request().Context(), ports.ResubmitClaimInput{
		ClaimID:     c.Param("id"),
		ClaimantID:  actor.ID,
		HoursWorked: hours,
		Rate:        profile.HourlyRate,
		Evidence:    upload,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toClaimResponse(claim, actor.Role))
}

// List handles GET /v1/claims, the caller's own claims, newest first unless order=asc.
//
// @Summary      List my claims
// @Tags         claims
// @Produce      json
// @Security     BearerAuth
// @Param        status  query     string  false  "Filter by status"
// @Param        order   query     string  false  "asc or desc by creation time (default desc)"
// @Param        page    query     int     false  "Page number (default 1)"
// @Param        limit   query     int     false  "Page size (default 20, max 100)"
// @Success      200     {object}  listClaimsResponse
// @Failure      401     {object}  errorResponse
// @Failure      422     {object}  errorResponse
// @Router       /v1/claims [get]
func (h *ClaimHandler) List(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}
	var q listClaimsQuery
	if err := c.Bind(&q); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid query parameters")
	}
	order, ok := parseOrder(q.Order)
	if !ok {
		return echo.NewHTTPError(http.StatusBadRequest, `order must be "asc" or "desc"`)
	}

	result, err := h.claims.ListClaims(c.Request().Context(), ports.ListClaimsInput{
		ClaimantID: actor.ID,
		Status:     domain.ClaimStatus(q.Status),
		OrderBy:    order,
		Page:       q.Page,
		Limit:      q.Limit,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toListResponse(result, actor.Role))
}

// Get handles GET /v1/claims/:id.
//
// @Summary      Get a claim
// @Tags         claims
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Claim ID"
// @Success      200  {object}  claimResponse
// @Failure      404  {object}  errorResponse
// @Router       /v1/claims/{id} [get]
func (h *ClaimHandler) Get(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}
	claim, err := h.claims.GetClaim(c.Request().Context(), c.Param("id"), actor)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toClaimResponse(claim, actor.Role))
}

// Events handles GET /v1/claims/:id/events.
//
// @Summary      Audit trail of a claim
// @Tags         claims
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Claim ID"
// @Success      200  {array}   claimEventResponse
// @Failure      404  {object}  errorResponse
// @Router       /v1/claims/{id}/events [get]
func (h *ClaimHandler) Events(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}
	events, err := h.claims.ClaimEvents(c.Request().Context(), c.Param("id"), actor)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toEventResponses(events))
}

// Evidence handles GET /v1/claims/:id/evidence.
//
// @Summary      Download claim evidence
// @Tags         claims
// @Produce      octet-stream
// @Security     BearerAuth
// @Param        id   path  string  true  "Claim ID"
// @Success      200  {file}    file
// @Failure      404  {object}  errorResponse
// @Router       /v1/claims/{id}/evidence [get]
func (h *ClaimHandler) Evidence(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}
	file, err := h.claims.OpenEvidence(c.Request().Context(), c.Param("id"), actor)
	if err != nil {
		return err
	}
	defer file.Content.Close()

	c.Response().Header().Set(echo.HeaderContentDisposition, mime.FormatMediaType("attachment", map[string]string{"filename": file.Name}))
	if file.Size > 0 {
		c.Response().Header().Set(echo.HeaderContentLength, strconv.FormatInt(file.Size, 10))
	}
	return c.Stream(http.StatusOK, echo.MIMEOctetStream, file.Content)
}

func parseOrder(raw string) (ports.ClaimOrder, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", "desc":
		return ports.OrderCreatedDesc, true
	case "asc":
		return ports.OrderCreatedAsc, true
	}
	return "", false
}

// evidenceUpload opens the optional evidence file of a multipart request.
// A zero-byte file counts as no evidence. The returned close function is always safe to call.
func evidenceUpload(c echo.Context) (*ports.EvidenceUpload, func(), error) {
	noop := func() {}
	fh, err := c.FormFile(evidenceField)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
			return nil, noop, nil
		}
		return nil, noop, echo.NewHTTPError(http.StatusBadRequest, "invalid evidence upload")
	}
	if fh.Size == 0 {
		return nil, noop, nil
	}
	return openUpload(fh)
}

func openUpload(fh *multipart.FileHeader) (*ports.EvidenceUpload, func(), error) {
	f, err := fh.Open()
	if err != nil {
		return nil, func() {}, echo.NewHTTPError(http.StatusBadRequest, "invalid evidence upload")
	}
	return &ports.EvidenceUpload{
		Filename: fh.Filename,
		Size:     fh.Size,
		Content:  f,
	}, func() { _ = f.Close() }, nil
}
