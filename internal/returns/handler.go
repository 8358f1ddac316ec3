package returns

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/orderdesk/orderdesk/internal/observability"
	"github.com/orderdesk/orderdesk/internal/platform/httpx"
	"github.com/orderdesk/orderdesk/internal/rbac"
	"github.com/orderdesk/orderdesk/internal/shared"
)

// Handler wires HTTP endpoints for return management.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	rbac      rbac.Middleware
	metrics   *observability.Metrics
	validator *validator.Validate
}

// NewHandler constructs a Handler instance.
func NewHandler(logger *slog.Logger, service *Service, mw rbac.Middleware, metrics *observability.Metrics) *Handler {
	return &Handler{
		logger:    logger,
		service:   service,
		rbac:      mw,
		metrics:   metrics,
		validator: validator.New(),
	}
}

// MountRoutes registers return routes on provided router. Status changes
// are an administrative concern, so they are limited to back-office roles.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Use(h.rbac.RequireAuthenticated())
	r.Get("/", h.list)
	r.Post("/", h.create)
	r.Get("/{id}", h.show)

	r.Group(func(r chi.Router) {
		r.Use(h.rbac.RequireRole(rbac.RoleAdmin, rbac.RoleEmployee))
		r.Get("/{id}/changes", h.allowedChanges)
		r.Post("/{id}/changes", h.requestChange)
		r.Post("/{id}/changes/{challengeID}/confirm", h.confirmChange)
		r.Delete("/{id}/changes/{challengeID}", h.cancelChange)
		r.Get("/{id}/approvals", h.approvalHistory)
	})
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	companyID, _ := strconv.ParseInt(r.URL.Query().Get("company_id"), 10, 64)
	req := ListReturnsRequest{CompanyID: companyID}
	if limit := r.URL.Query().Get("limit"); limit != "" {
		req.Limit, _ = strconv.Atoi(limit)
	}
	if offset := r.URL.Query().Get("offset"); offset != "" {
		req.Offset, _ = strconv.Atoi(offset)
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}

	result, total, err := h.service.List(r.Context(), req)
	if err != nil {
		h.logger.Error("list returns", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{
		"returns":    result,
		"pagination": shared.NewPagination(req.Offset/max(req.Limit, 1)+1, req.Limit, total),
	})
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.rbac.CurrentActor(r)
	if !ok {
		httpx.Problem(w, http.StatusForbidden, "Forbidden", "")
		return
	}

	var req CreateReturnRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "malformed JSON body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}

	ret, err := h.service.Create(r.Context(), req, actor.UserID)
	if err != nil {
		h.logger.Error("create return", slog.Any("error", err))
		h.respondDomainError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, ret)
}

func (h *Handler) show(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid id")
		return
	}
	ret, err := h.service.Get(r.Context(), id)
	if err != nil {
		h.respondDomainError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, ret)
}

func (h *Handler) allowedChanges(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid id")
		return
	}
	resp, err := h.service.AllowedChanges(r.Context(), id, r.URL.Query().Get("field"))
	if err != nil {
		h.respondDomainError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, resp)
}

func (h *Handler) requestChange(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.rbac.CurrentActor(r)
	if !ok {
		httpx.Problem(w, http.StatusForbidden, "Forbidden", "")
		return
	}
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid id")
		return
	}

	var req RequestChangeRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "malformed JSON body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}

	ch, err := h.service.RequestChange(r.Context(), id, actor, req.Field, req.Value)
	if err != nil {
		if errors.Is(err, ErrChangeNotAllowed) {
			h.metrics.IncPolicyDenial("return", actor.Role.String())
		}
		h.respondDomainError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, ChallengeResponse{
		ChallengeID: ch.ID,
		Word:        ch.Word,
		Label:       ch.Label,
	})
}

func (h *Handler) confirmChange(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.rbac.CurrentActor(r)
	if !ok {
		httpx.Problem(w, http.StatusForbidden, "Forbidden", "")
		return
	}
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid id")
		return
	}
	challengeID, err := uuid.Parse(chi.URLParam(r, "challengeID"))
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid challenge id")
		return
	}

	var req ConfirmChangeRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "malformed JSON body")
		return
	}
	req.ChallengeID = challengeID
	if req.Word == "" {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "word is required")
		return
	}

	ret, err := h.service.ConfirmChange(r.Context(), id, actor, challengeID, req.Word)
	if err != nil {
		if errors.Is(err, ErrChangeNotAllowed) {
			h.metrics.IncPolicyDenial("return", actor.Role.String())
		}
		h.respondDomainError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, ret)
}

func (h *Handler) approvalHistory(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid id")
		return
	}
	logs, err := h.service.ApprovalHistory(r.Context(), id)
	if err != nil {
		h.respondDomainError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"approvals": logs})
}

func (h *Handler) cancelChange(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid id")
		return
	}
	challengeID, err := uuid.Parse(chi.URLParam(r, "challengeID"))
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid challenge id")
		return
	}
	if err := h.service.CancelChange(r.Context(), id, challengeID); err != nil {
		h.respondDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) respondDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrNotFound), errors.Is(err, ErrChallengeNotFound):
		httpx.Problem(w, http.StatusNotFound, "Not Found", err.Error())
	case errors.Is(err, ErrChangeNotAllowed):
		httpx.Problem(w, http.StatusConflict, "Change Not Allowed", err.Error())
	case errors.Is(err, ErrChallengeMismatch):
		httpx.Problem(w, http.StatusUnprocessableEntity, "Confirmation Failed", err.Error())
	case errors.Is(err, shared.ErrStaleState):
		httpx.Problem(w, http.StatusConflict, "Stale State", err.Error())
	case errors.Is(err, ErrUnknownField):
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
	default:
		httpx.RespondError(w, err)
	}
}
