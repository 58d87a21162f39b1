package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"taxfill/internal/declaration/models"
	"taxfill/internal/declaration/service"
	"taxfill/internal/declaration/store"
	id "taxfill/pkg/domain"
	dErrors "taxfill/pkg/domain-errors"
	"taxfill/pkg/platform/httputil"
	"taxfill/pkg/requestcontext"
)

// Service defines the interface for declaration operations.
type Service interface {
	Create(ctx context.Context, userID id.UserID, input service.CreateInput) (*models.Declaration, error)
	Update(ctx context.Context, userID id.UserID, input service.UpdateInput) (*models.Declaration, error)
	Get(ctx context.Context, userID id.UserID, declarationID id.DeclarationID) (*models.Declaration, error)
	List(ctx context.Context, userID id.UserID, filter store.Filter) ([]*models.Declaration, error)
}

// Handler wires declaration endpoints to the declaration service.
type Handler struct {
	service Service
	logger  *slog.Logger
}

// New constructs a declaration handler with its dependencies.
func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register mounts declaration endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/declarations", h.HandleCreate)
	r.Get("/declarations", h.HandleList)
	r.Get("/declarations/{declarationID}", h.HandleGet)
	r.Put("/declarations/{declarationID}", h.HandleUpdate)
}

// HandleCreate handles POST /declarations requests.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	userID, ok := h.requireUser(w, ctx)
	if !ok {
		return
	}

	req, ok := httputil.DecodeAndPrepare[CreateDeclarationRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	d, err := h.service.Create(ctx, userID, req.Input())
	if err != nil {
		h.logger.ErrorContext(ctx, "declaration create failed",
			"request_id", requestID,
			"user_id", userID,
			"year", req.Year,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, FromDeclaration(d))
}

// HandleUpdate handles PUT /declarations/{declarationID} requests.
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	userID, ok := h.requireUser(w, ctx)
	if !ok {
		return
	}

	declarationID, err := id.ParseDeclarationID(chi.URLParam(r, "declarationID"))
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid declaration id"))
		return
	}

	req, ok := httputil.DecodeAndPrepare[UpdateDeclarationRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	d, err := h.service.Update(ctx, userID, req.Input(declarationID))
	if err != nil {
		h.logger.ErrorContext(ctx, "declaration update failed",
			"request_id", requestID,
			"user_id", userID,
			"declaration_id", declarationID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, FromDeclaration(d))
}

// HandleGet handles GET /declarations/{declarationID} requests.
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, ok := h.requireUser(w, ctx)
	if !ok {
		return
	}

	declarationID, err := id.ParseDeclarationID(chi.URLParam(r, "declarationID"))
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid declaration id"))
		return
	}

	d, err := h.service.Get(ctx, userID, declarationID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, FromDeclaration(d))
}

// HandleList handles GET /declarations requests. Supports optional year and
// status query parameters.
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, ok := h.requireUser(w, ctx)
	if !ok {
		return
	}

	filter, err := filterFromQuery(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	declarations, err := h.service.List(ctx, userID, filter)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, FromDeclarations(declarations))
}

func (h *Handler) requireUser(w http.ResponseWriter, ctx context.Context) (id.UserID, bool) {
	userID := requestcontext.UserID(ctx)
	if userID.IsZero() {
		httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "authentication required"))
		return id.UserID{}, false
	}
	return userID, true
}

func filterFromQuery(r *http.Request) (store.Filter, error) {
	var filter store.Filter
	if raw := r.URL.Query().Get("year"); raw != "" {
		year, err := strconv.Atoi(raw)
		if err != nil {
			return filter, dErrors.New(dErrors.CodeBadRequest, "year must be an integer")
		}
		filter.Year = &year
	}
	if raw := r.URL.Query().Get("status"); raw != "" {
		status := models.DeclarationStatus(strings.ToUpper(raw))
		if !status.Valid() {
			return filter, dErrors.New(dErrors.CodeBadRequest, "status must be DRAFT or SUBMITTED")
		}
		filter.Status = &status
	}
	return filter, nil
}
