package category

import (
	"errors"
	"net/http"

	"bookreview/internal/entity"
	"bookreview/internal/httpx"
)

type HTTPHandler struct {
	service *Service
}

func NewHTTPHandler(service *Service) *HTTPHandler {
	return &HTTPHandler{service: service}
}

type categoryRequest struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name" validate:"required,notblank,max=50"`
	Description *string `json:"description" validate:"omitempty,max=200"`
}

func (req categoryRequest) toEntity() entity.Category {
	return entity.Category{
		ID:          req.ID,
		Name:        req.Name,
		Description: req.Description,
	}
}

// List handles GET /api/Category
// @Summary List categories
// @Tags Category
// @Produce json
// @Success 200 {array} entity.Category
// @Failure 500 {object} httpx.ErrorResponse
// @Router /api/Category [get]
func (h *HTTPHandler) List(w http.ResponseWriter, r *http.Request) {
	categories, err := h.service.List(r.Context())
	if err != nil {
		httpx.InternalError(w, r, err)
		return
	}
	httpx.JSONOK(w, categories)
}

// Get handles GET /api/Category/{id}
// @Summary Get category with its books
// @Tags Category
// @Produce json
// @Param id path int true "Category ID"
// @Success 200 {object} entity.Category
// @Failure 404
// @Router /api/Category/{id} [get]
func (h *HTTPHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := httpx.PathID(r, "id")
	if !ok {
		httpx.NotFound(w)
		return
	}

	c, err := h.service.Get(r.Context(), id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httpx.JSONOK(w, c)
}

// Create handles POST /api/Category
// @Summary Create category
// @Tags Category
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body categoryRequest true "Category"
// @Success 201 {object} entity.Category
// @Failure 400 {object} httpx.ErrorResponse
// @Failure 401 {object} httpx.ErrorResponse
// @Router /api/Category [post]
func (h *HTTPHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req categoryRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.BadRequest(w, r, "Invalid JSON body")
		return
	}
	if errs := httpx.ValidateStruct(req); len(errs) > 0 {
		httpx.ValidationFailed(w, r, errs)
		return
	}

	c := req.toEntity()
	c.ID = 0
	created, err := h.service.Create(r.Context(), c)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httpx.JSONCreated(w, created, "/api/Category/%d", created.ID)
}

// Update handles PUT /api/Category/{id}
// @Summary Replace category
// @Tags Category
// @Accept json
// @Security BearerAuth
// @Param id path int true "Category ID"
// @Param body body categoryRequest true "Category"
// @Success 204
// @Failure 400 {object} httpx.ErrorResponse
// @Failure 404
// @Router /api/Category/{id} [put]
func (h *HTTPHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := httpx.PathID(r, "id")
	if !ok {
		httpx.NotFound(w)
		return
	}

	var req categoryRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.BadRequest(w, r, "Invalid JSON body")
		return
	}
	if req.ID != id {
		httpx.JSONError(w, r, http.StatusBadRequest, "ID_MISMATCH", "Body id does not match path id", nil)
		return
	}
	if errs := httpx.ValidateStruct(req); len(errs) > 0 {
		httpx.ValidationFailed(w, r, errs)
		return
	}

	if err := h.service.Update(r.Context(), req.toEntity()); err != nil {
		h.writeError(w, r, err)
		return
	}
	httpx.NoContent(w)
}

// Delete handles DELETE /api/Category/{id}
// @Summary Delete category
// @Tags Category
// @Security BearerAuth
// @Param id path int true "Category ID"
// @Success 204
// @Failure 404
// @Failure 409 {object} httpx.ErrorResponse
// @Router /api/Category/{id} [delete]
func (h *HTTPHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := httpx.PathID(r, "id")
	if !ok {
		httpx.NotFound(w)
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		h.writeError(w, r, err)
		return
	}
	httpx.NoContent(w)
}

// Count handles GET /api/Category/count
// @Summary Number of categories
// @Tags Category
// @Produce json
// @Success 200 {integer} int
// @Router /api/Category/count [get]
func (h *HTTPHandler) Count(w http.ResponseWriter, r *http.Request) {
	n, err := h.service.Count(r.Context())
	if err != nil {
		httpx.InternalError(w, r, err)
		return
	}
	httpx.JSONOK(w, n)
}

func (h *HTTPHandler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		httpx.NotFound(w)
	case errors.Is(err, ErrConflict):
		httpx.JSONError(w, r, http.StatusConflict, "CONFLICT", "Category still has books", nil)
	default:
		httpx.InternalError(w, r, err)
	}
}
