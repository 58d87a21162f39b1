package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"taxfill/internal/dependent/models"
	"taxfill/internal/dependent/service"
	id "taxfill/pkg/domain"
	dErrors "taxfill/pkg/domain-errors"
	"taxfill/pkg/platform/httputil"
	"taxfill/pkg/requestcontext"
)

// Service defines the interface for dependent operations.
type Service interface {
	Create(ctx context.Context, userID id.UserID, input service.CreateInput) (*models.Dependent, error)
	List(ctx context.Context, userID id.UserID) ([]*models.Dependent, error)
}

// Handler wires dependent endpoints to the dependent service.
type Handler struct {
	service Service
	logger  *slog.Logger
}

// New constructs a dependent handler with its dependencies.
func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register mounts dependent endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/dependents", h.HandleCreate)
	r.Get("/dependents", h.HandleList)
}

// CreateDependentRequest is the HTTP request body for POST /dependents.
type CreateDependentRequest struct {
	Name         string `json:"name"`
	BirthDate    string `json:"birth_date"`
	Relationship string `json:"relationship"`

	parsedBirthDate time.Time
}

// Validate validates and parses the request.
// Implements the Validatable interface for httputil.DecodeAndPrepare.
func (r *CreateDependentRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	r.Name = strings.TrimSpace(r.Name)
	if r.Name == "" {
		return dErrors.New(dErrors.CodeBadRequest, "name is required")
	}
	birthDate, err := time.Parse("2006-01-02", r.BirthDate)
	if err != nil {
		return dErrors.New(dErrors.CodeBadRequest, "birth_date must be YYYY-MM-DD")
	}
	r.parsedBirthDate = birthDate
	relationship := models.Relationship(strings.ToUpper(strings.TrimSpace(r.Relationship)))
	if !relationship.Valid() {
		return dErrors.Newf(dErrors.CodeBadRequest, "invalid relationship %q", r.Relationship)
	}
	r.Relationship = string(relationship)
	return nil
}

// DependentResponse is the HTTP representation of a dependent.
type DependentResponse struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	BirthDate    string `json:"birth_date"`
	Relationship string `json:"relationship"`
}

// FromDependent converts a domain dependent to its HTTP representation.
func FromDependent(d *models.Dependent) DependentResponse {
	return DependentResponse{
		ID:           d.ID.String(),
		Name:         d.Name,
		BirthDate:    d.BirthDate.Format("2006-01-02"),
		Relationship: string(d.Relationship),
	}
}

// HandleCreate handles POST /dependents requests.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	userID := requestcontext.UserID(ctx)
	if userID.IsZero() {
		httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "authentication required"))
		return
	}

	req, ok := httputil.DecodeAndPrepare[CreateDependentRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	dependent, err := h.service.Create(ctx, userID, service.CreateInput{
		Name:         req.Name,
		BirthDate:    req.parsedBirthDate,
		Relationship: models.Relationship(req.Relationship),
	})
	if err != nil {
		h.logger.ErrorContext(ctx, "dependent create failed",
			"request_id", requestID,
			"user_id", userID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, FromDependent(dependent))
}

// HandleList handles GET /dependents requests.
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID := requestcontext.UserID(ctx)
	if userID.IsZero() {
		httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "authentication required"))
		return
	}

	dependents, err := h.service.List(ctx, userID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	responses := make([]DependentResponse, 0, len(dependents))
	for _, d := range dependents {
		responses = append(responses, FromDependent(d))
	}
	httputil.WriteJSON(w, http.StatusOK, responses)
}
