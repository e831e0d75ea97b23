package author

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

type authorRequest struct {
	ID        int64             `json:"id"`
	FirstName string            `json:"firstName" validate:"required,notblank,max=100"`
	LastName  string            `json:"lastName" validate:"required,notblank,max=100"`
	Biography *string           `json:"biography" validate:"omitempty,max=500"`
	BirthDate *entity.Timestamp `json:"birthDate"`
}

func (req authorRequest) toEntity() entity.Author {
	return entity.Author{
		ID:        req.ID,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Biography: req.Biography,
		BirthDate: req.BirthDate.Ptr(),
	}
}

// List handles GET /api/Author
// @Summary List authors with their books
// @Tags Author
// @Produce json
// @Success 200 {array} entity.Author
// @Failure 500 {object} httpx.ErrorResponse
// @Router /api/Author [get]
func (h *HTTPHandler) List(w http.ResponseWriter, r *http.Request) {
	authors, err := h.service.List(r.Context())
	if err != nil {
		httpx.InternalError(w, r, err)
		return
	}
	httpx.JSONOK(w, authors)
}

// Get handles GET /api/Author/{id}
// @Summary Get author
// @Tags Author
// @Produce json
// @Param id path int true "Author ID"
// @Success 200 {object} entity.Author
// @Failure 404
// @Router /api/Author/{id} [get]
func (h *HTTPHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := httpx.PathID(r, "id")
	if !ok {
		httpx.NotFound(w)
		return
	}

	a, err := h.service.Get(r.Context(), id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httpx.JSONOK(w, a)
}

// Create handles POST /api/Author
// @Summary Create author
// @Tags Author
// @Accept json
// @Produce json
// @Param body body authorRequest true "Author"
// @Success 201 {object} entity.Author
// @Failure 400 {object} httpx.ErrorResponse
// @Router /api/Author [post]
func (h *HTTPHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req authorRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.BadRequest(w, r, "Invalid JSON body")
		return
	}
	if errs := httpx.ValidateStruct(req); len(errs) > 0 {
		httpx.ValidationFailed(w, r, errs)
		return
	}

	a := req.toEntity()
	a.ID = 0
	created, err := h.service.Create(r.Context(), a)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httpx.JSONCreated(w, created, "/api/Author/%d", created.ID)
}

// Update handles PUT /api/Author/{id}
// @Summary Replace author
// @Tags Author
// @Accept json
// @Param id path int true "Author ID"
// @Param body body authorRequest true "Author"
// @Success 204
// @Failure 400 {object} httpx.ErrorResponse
// @Failure 404
// @Router /api/Author/{id} [put]
func (h *HTTPHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := httpx.PathID(r, "id")
	if !ok {
		httpx.NotFound(w)
		return
	}

	var req authorRequest
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

// Delete handles DELETE /api/Author/{id}
// @Summary Delete author
// @Tags Author
// @Param id path int true "Author ID"
// @Success 204
// @Failure 404
// @Failure 409 {object} httpx.ErrorResponse
// @Router /api/Author/{id} [delete]
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

// Count handles GET /api/Author/count
// @Summary Number of authors
// @Tags Author
// @Produce json
// @Success 200 {integer} int
// @Router /api/Author/count [get]
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
		httpx.JSONError(w, r, http.StatusConflict, "CONFLICT", "Author still has books", nil)
	default:
		httpx.InternalError(w, r, err)
	}
}
