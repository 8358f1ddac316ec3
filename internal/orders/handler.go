package orders

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/orderdesk/orderdesk/internal/observability"
	"github.com/orderdesk/orderdesk/internal/platform/httpx"
	"github.com/orderdesk/orderdesk/internal/rbac"
	"github.com/orderdesk/orderdesk/internal/shared"
)

// Handler wires HTTP endpoints for order management.
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

// MountRoutes registers order routes on provided router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Use(h.rbac.RequireAuthenticated())
	r.Get("/", h.list)
	r.Post("/", h.create)
	r.Get("/{id}", h.show)
	r.Get("/{id}/transitions", h.transitions)
	r.Post("/{id}/status", h.changeStatus)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	companyID, _ := strconv.ParseInt(r.URL.Query().Get("company_id"), 10, 64)
	req := ListOrdersRequest{CompanyID: companyID}
	if status := r.URL.Query().Get("status"); status != "" {
		s := Status(status)
		if !s.Valid() {
			httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "unknown status filter")
			return
		}
		req.Status = &s
	}
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
		h.logger.Error("list orders", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{
		"orders":     result,
		"pagination": shared.NewPagination(req.Offset/max(req.Limit, 1)+1, req.Limit, total),
	})
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.rbac.CurrentActor(r)
	if !ok {
		httpx.Problem(w, http.StatusForbidden, "Forbidden", "")
		return
	}

	var req CreateOrderRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "malformed JSON body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}

	order, err := h.service.Create(r.Context(), req, actor.UserID)
	if err != nil {
		h.logger.Error("create order", slog.Any("error", err))
		h.respondDomainError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, order)
}

func (h *Handler) show(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid id")
		return
	}
	order, err := h.service.Get(r.Context(), id)
	if err != nil {
		h.respondDomainError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, order)
}

func (h *Handler) transitions(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.rbac.CurrentActor(r)
	if !ok {
		httpx.Problem(w, http.StatusForbidden, "Forbidden", "")
		return
	}
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid id")
		return
	}
	resp, err := h.service.Transitions(r.Context(), id, actor.Role)
	if err != nil {
		h.respondDomainError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, resp)
}

func (h *Handler) changeStatus(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.rbac.CurrentActor(r)
	if !ok {
		httpx.Problem(w, http.StatusForbidden, "Forbidden", "")
		return
	}
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid id")
		return
	}

	var req ChangeStatusRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "malformed JSON body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}

	order, err := h.service.ChangeStatus(r.Context(), id, actor, Status(req.Status))
	if err != nil {
		if errors.Is(err, ErrTransitionNotAllowed) {
			h.metrics.IncPolicyDenial("order", actor.Role.String())
		}
		h.respondDomainError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, order)
}

func (h *Handler) respondDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		httpx.Problem(w, http.StatusNotFound, "Not Found", err.Error())
	case errors.Is(err, ErrTransitionNotAllowed):
		httpx.Problem(w, http.StatusConflict, "Transition Not Allowed", err.Error())
	case errors.Is(err, shared.ErrStaleState):
		httpx.Problem(w, http.StatusConflict, "Stale State", err.Error())
	case errors.Is(err, ErrUnknownStatus), errors.Is(err, ErrEmptyLines), errors.Is(err, ErrInvalidQuantity):
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
	case errors.Is(err, ErrDuplicateDocNumber):
		httpx.Problem(w, http.StatusConflict, "Duplicate", err.Error())
	default:
		httpx.RespondError(w, err)
	}
}
