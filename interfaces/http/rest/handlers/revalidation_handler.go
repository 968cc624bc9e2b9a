package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"tastebase-backend/application/services"
	"tastebase-backend/domain/revalidation"
	"tastebase-backend/pkg/auth"
	apperrors "tastebase-backend/pkg/errors"
	"tastebase-backend/pkg/utils"

	"go.uber.org/zap"
)

// RevalidationHandler handles the three revalidation trigger surfaces: the
// CMS webhook, the admin endpoint and the generic on-demand endpoint. Each
// surface authenticates against its own shared secret before anything else
// runs; a rejected request never touches the render cache.
type RevalidationHandler struct {
	service          *services.RevalidationService
	webhookSecret    *auth.SecretVerifier
	adminSecret      *auth.SecretVerifier
	revalidateSecret *auth.SecretVerifier
	logger           *zap.Logger
}

// NewRevalidationHandler creates a new revalidation handler
func NewRevalidationHandler(
	service *services.RevalidationService,
	webhookSecret *auth.SecretVerifier,
	adminSecret *auth.SecretVerifier,
	revalidateSecret *auth.SecretVerifier,
	logger *zap.Logger,
) *RevalidationHandler {
	return &RevalidationHandler{
		service:          service,
		webhookSecret:    webhookSecret,
		adminSecret:      adminSecret,
		revalidateSecret: revalidateSecret,
		logger:           logger,
	}
}

// WebhookRequest represents the request body sent by the CMS on recipe changes
type WebhookRequest struct {
	Action         string `json:"action" validate:"required,oneof=created updated deleted"`
	RecipeSlug     string `json:"recipe_slug,omitempty"`
	RecipeCategory string `json:"recipe_category,omitempty"`
	WebhookSecret  string `json:"webhook_secret"`
}

// WebhookResponse represents the success envelope for the webhook endpoint
type WebhookResponse struct {
	Message        string `json:"message"`
	RecipeSlug     string `json:"recipe_slug"`
	RecipeCategory string `json:"recipe_category"`
	Timestamp      string `json:"timestamp"`
}

// RecipeWebhook handles POST /api/webhooks/recipe
func (h *RevalidationHandler) RecipeWebhook(w http.ResponseWriter, r *http.Request) {
	var req WebhookRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondAppError(w, apperrors.NewValidationError("invalid request body: "+err.Error()))
		return
	}

	if !h.webhookSecret.Verify(req.WebhookSecret) {
		h.logger.Warn("Webhook secret mismatch",
			zap.String("action", req.Action),
			zap.String("recipeSlug", req.RecipeSlug),
		)
		h.respondAppError(w, apperrors.NewUnauthorizedError("invalid webhook secret"))
		return
	}

	if err := utils.ValidateStruct(req); err != nil {
		h.respondAppError(w, apperrors.NewValidationError(err.Error()))
		return
	}

	var event revalidation.DomainEvent
	switch req.Action {
	case "created":
		event = revalidation.NewRecipe{Category: req.RecipeCategory}
	case "updated":
		event = revalidation.RecipeUpdated{Slug: req.RecipeSlug, Category: req.RecipeCategory}
	case "deleted":
		event = revalidation.RecipeDeleted{Category: req.RecipeCategory}
	}

	summary := h.service.Revalidate(r.Context(), event)
	if summary.Failed > 0 {
		h.respondSummaryFailure(w, summary)
		return
	}

	h.respondJSON(w, http.StatusOK, WebhookResponse{
		Message:        fmt.Sprintf("Revalidated %d targets for recipe %s", summary.Succeeded, req.Action),
		RecipeSlug:     req.RecipeSlug,
		RecipeCategory: req.RecipeCategory,
		Timestamp:      utils.NowRFC3339(),
	})
}

// AdminRevalidateRequest represents the request body for the admin endpoint
type AdminRevalidateRequest struct {
	AdminSecret    string   `json:"admin_secret"`
	Action         string   `json:"action" validate:"required,oneof=new-recipe update-recipe custom all"`
	RecipeSlug     string   `json:"recipe_slug,omitempty"`
	RecipeCategory string   `json:"recipe_category,omitempty"`
	Paths          []string `json:"paths,omitempty" validate:"omitempty,dive,startswith=/"`
	Tags           []string `json:"tags,omitempty" validate:"omitempty,dive,lowercase"`
}

// AdminRevalidateResponse represents the success envelope for the admin endpoint
type AdminRevalidateResponse struct {
	Success   bool   `json:"success"`
	Message   string `json:"message"`
	Action    string `json:"action"`
	Timestamp string `json:"timestamp"`
}

// AdminRevalidate handles POST /api/admin/revalidate
func (h *RevalidationHandler) AdminRevalidate(w http.ResponseWriter, r *http.Request) {
	var req AdminRevalidateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondAppError(w, apperrors.NewValidationError("invalid request body: "+err.Error()))
		return
	}

	if !h.adminSecret.Verify(req.AdminSecret) {
		h.logger.Warn("Admin secret mismatch", zap.String("action", req.Action))
		h.respondAppError(w, apperrors.NewUnauthorizedError("invalid admin secret"))
		return
	}

	if err := utils.ValidateStruct(req); err != nil {
		h.respondAppError(w, apperrors.NewValidationError(err.Error()))
		return
	}

	var event revalidation.DomainEvent
	switch req.Action {
	case "new-recipe":
		event = revalidation.NewRecipe{Category: req.RecipeCategory}
	case "update-recipe":
		event = revalidation.RecipeUpdated{Slug: req.RecipeSlug, Category: req.RecipeCategory}
	case "custom":
		// Exactly the caller-supplied set. Empty is a valid no-op: an explicit
		// request for nothing is not an error.
		event = revalidation.CustomRequest{Paths: req.Paths, Tags: req.Tags}
	case "all":
		event = revalidation.DefaultSweep{}
	}

	summary := h.service.Revalidate(r.Context(), event)
	if summary.Failed > 0 {
		h.respondSummaryFailure(w, summary)
		return
	}

	h.respondJSON(w, http.StatusOK, AdminRevalidateResponse{
		Success:   true,
		Message:   fmt.Sprintf("Revalidated %d targets", summary.Succeeded),
		Action:    req.Action,
		Timestamp: utils.NowRFC3339(),
	})
}

// revalidateParams carries the generic endpoint's parameters, whether they
// arrived as a JSON body or as query parameters.
type revalidateParams struct {
	Secret string `json:"secret"`
	Type   string `json:"type"`
	Path   string `json:"path,omitempty"`
	Tag    string `json:"tag,omitempty"`
}

// RevalidateResponse represents the success envelope for the generic endpoint
type RevalidateResponse struct {
	Revalidated bool     `json:"revalidated"`
	Type        string   `json:"type"`
	Target      string   `json:"target,omitempty"`
	Paths       []string `json:"paths,omitempty"`
	Tags        []string `json:"tags,omitempty"`
	Now         string   `json:"now"`
}

// Revalidate handles POST /api/revalidate
func (h *RevalidationHandler) Revalidate(w http.ResponseWriter, r *http.Request) {
	var params revalidateParams
	if err := json.NewDecoder(r.Body).Decode(&params); err != nil {
		h.respondAppError(w, apperrors.NewValidationError("invalid request body: "+err.Error()))
		return
	}
	h.handleRevalidate(w, r, params)
}

// RevalidateQuery handles GET /api/revalidate with query-string parameters.
// Same semantics as the POST form; both are thin adapters over
// handleRevalidate so the two invocation styles cannot drift.
func (h *RevalidationHandler) RevalidateQuery(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	h.handleRevalidate(w, r, revalidateParams{
		Secret: query.Get("secret"),
		Type:   query.Get("type"),
		Path:   query.Get("path"),
		Tag:    query.Get("tag"),
	})
}

func (h *RevalidationHandler) handleRevalidate(w http.ResponseWriter, r *http.Request, params revalidateParams) {
	if !h.revalidateSecret.Verify(params.Secret) {
		h.logger.Warn("Revalidate secret mismatch", zap.String("type", params.Type))
		h.respondAppError(w, apperrors.NewUnauthorizedError("invalid secret"))
		return
	}

	var event revalidation.DomainEvent
	switch params.Type {
	case "path":
		if params.Path == "" {
			h.respondAppError(w, apperrors.NewValidationError("path is required when type is path"))
			return
		}
		event = revalidation.CustomRequest{Paths: []string{params.Path}}
	case "tag":
		if params.Tag == "" {
			h.respondAppError(w, apperrors.NewValidationError("tag is required when type is tag"))
			return
		}
		event = revalidation.CustomRequest{Tags: []string{params.Tag}}
	case "default":
		event = revalidation.DefaultSweep{}
	default:
		h.respondAppError(w, apperrors.NewValidationError("type must be one of: path, tag, default"))
		return
	}

	summary := h.service.Revalidate(r.Context(), event)
	if summary.Failed > 0 {
		h.respondSummaryFailure(w, summary)
		return
	}

	response := RevalidateResponse{
		Revalidated: true,
		Type:        params.Type,
		Now:         utils.NowRFC3339(),
	}
	switch params.Type {
	case "path":
		response.Target = params.Path
	case "tag":
		response.Target = params.Tag
	case "default":
		response.Paths, response.Tags = revalidation.SplitTargets(summary.Targets())
	}

	h.respondJSON(w, http.StatusOK, response)
}

// respondSummaryFailure reports a fan-out that hit downstream failures. The
// request is safe to re-trigger as-is: completed invalidations are no-ops on
// retry.
func (h *RevalidationHandler) respondSummaryFailure(w http.ResponseWriter, summary *services.Summary) {
	appErr := apperrors.NewDownstreamError("render cache",
		fmt.Errorf("%d of %d targets failed", summary.Failed, summary.Failed+summary.Succeeded),
	).WithDetails(map[string]interface{}{
		"operation_id": summary.OperationID,
		"succeeded":    summary.Succeeded,
		"failed":       summary.Failed,
	})
	h.respondAppError(w, appErr)
}

// Helper methods

func (h *RevalidationHandler) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("Failed to encode response", zap.Error(err))
	}
}

func (h *RevalidationHandler) respondAppError(w http.ResponseWriter, appErr *apperrors.AppError) {
	body := map[string]interface{}{
		"error":   true,
		"type":    string(appErr.Type),
		"message": appErr.Message,
		"code":    appErr.HTTPStatus,
	}
	if appErr.Details != nil {
		body["details"] = appErr.Details
	}
	h.respondJSON(w, appErr.HTTPStatus, body)
}
