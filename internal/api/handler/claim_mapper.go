package handler

import (
	"time"

	"github.com/lecturerclaims/claims-system/internal/core/domain"
	"github.com/lecturerclaims/claims-system/internal/core/ports"
	"github.com/lecturerclaims/claims-system/internal/core/workflow"
)

const timeLayout = "2006-01-02T15:04:05Z"

// --- Service result → HTTP response ---

// toClaimResponse renders a claim for viewer; allowed actions depend on the viewer's role.
func toClaimResponse(c *domain.Claim, viewer domain.Role) claimResponse {
	resp := claimResponse{
		ID:               c.ID,
		ClaimantID:       c.ClaimantID,
		ClaimantName:     c.ClaimantName,
		HoursWorked:      c.HoursWorked.String(),
		Rate:             c.Rate.StringFixed(2),
		Amount:           c.Amount.StringFixed(2),
		Status:           string(c.Status),
		PaymentStatus:    string(c.PaymentStatus),
		ReviewNote:       c.ReviewNote,
		ReviewedBy:       string(c.ReviewedBy),
		ReviewedAt:       formatTimePtr(c.ReviewedAt),
		PaymentReference: c.PaymentReference,
		PaidAt:           formatTimePtr(c.PaidAt),
		StatusHistory:    make([]historyItemResponse, 0, len(c.StatusHistory)),
		AllowedActions:   allowedActions(c.Status, viewer),
		Version:          c.Version,
		CreatedAt:        formatTime(c.CreatedAt),
		UpdatedAt:        formatTime(c.UpdatedAt),
		Links: claimLinks{
			Self:   "/v1/claims/" + c.ID,
			Events: "/v1/claims/" + c.ID + "/events",
		},
	}
	if c.Evidence != nil {
		resp.Evidence = &evidenceResponse{
			OriginalName: c.Evidence.OriginalName,
			SizeBytes:    c.Evidence.SizeBytes,
			Download:     "/v1/claims/" + c.ID + "/evidence",
		}
	}
	for _, h := range c.StatusHistory {
		resp.StatusHistory = append(resp.StatusHistory, historyItemResponse{
			Status:    string(h.Status),
			Actor:     string(h.Actor),
			Note:      h.Note,
			Timestamp: formatTime(h.Timestamp),
		})
	}
	return resp
}

// allowedActions lists what viewer may do next. HR acts for either reviewer stage.
func allowedActions(status domain.ClaimStatus, viewer domain.Role) []string {
	if viewer != domain.RoleHR {
		return nonNil(workflow.PermittedActions(status, viewer))
	}
	out := workflow.PermittedActions(status, domain.RoleCoordinator)
	out = append(out, workflow.PermittedActions(status, domain.RoleManager)...)
	return nonNil(out)
}

func toListResponse(r *ports.ListClaimsResult, viewer domain.Role) listClaimsResponse {
	data := make([]claimResponse, 0, len(r.Items))
	for _, c := range r.Items {
		data = append(data, toClaimResponse(c, viewer))
	}
	return listClaimsResponse{
		Data: data,
		Pagination: paginationMeta{
			Page:       r.Page,
			Limit:      r.Limit,
			Total:      r.Total,
			TotalPages: r.TotalPages,
		},
	}
}

func toEventResponses(events []*domain.ClaimEvent) []claimEventResponse {
	out := make([]claimEventResponse, 0, len(events))
	for _, e := range events {
		out = append(out, claimEventResponse{
			Action:     e.Action,
			Actor:      string(e.Actor),
			ActorID:    e.ActorID,
			From:       string(e.From),
			To:         string(e.To),
			Note:       e.Note,
			OccurredAt: formatTime(e.OccurredAt),
		})
	}
	return out
}

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func formatTimePtr(t *time.Time) string {
	if t == nil {
		return ""
	}
	return formatTime(*t)
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
