package book

import (
	"errors"
	"net/http"
	"strings"

	"bookreview/internal/entity"
	"bookreview/internal/httpx"
)

type HTTPHandler struct {
	service *Service
}

func NewHTTPHandler(service *Service) *HTTPHandler {
	return &HTTPHandler{service: service}
}

type bookRequest struct {
	ID            int64             `json:"id"`
	Title         string            `json:"title" validate:"required,notblank,max=200"`
	ISBN          *string           `json:"isbn" validate:"omitempty,max=17,isbn"`
	Description   *string           `json:"description" validate:"omitempty,max=1000"`
	PublishedDate *entity.Timestamp `json:"publishedDate" validate:"required,notzero"`
	AuthorID      int64             `json:"authorId" validate:"required,gt=0"`
	CategoryID    *int64            `json:"categoryId" validate:"omitempty,gt=0"`
}

// normalize treats a blank ISBN as absent; form clients send "" for empty inputs.
func (req *bookRequest) normalize() {
	if req.ISBN != nil {
		isbn := strings.TrimSpace(*req.ISBN)
		if isbn == "" {
			req.ISBN = nil
		} else {
			req.ISBN = &isbn
		}
	}
}

func (req bookRequest) toEntity() entity.Book {
	b := entity.Book{
		ID:          req.ID,
		Title:       req.Title,
		ISBN:        req.ISBN,
		Description: req.Description,
		AuthorID:    req.AuthorID,
		CategoryID:  req.CategoryID,
	}
	if req.PublishedDate != nil {
		b.PublishedDate = req.PublishedDate.Time
	}
	return b
}

func (h *HTTPHandler) decode(w http.ResponseWriter, r *http.Request) (bookRequest, bool) {
	var req bookRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.BadRequest(w, r, "Invalid JSON body")
		return req, false
	}
	req.normalize()
	return req, true
}

// List handles GET /api/Book
// @Summary List books with author, category and reviews
// @Tags Book
// @Produce json
// @Success 200 {array} entity.Book
// @Failure 500 {object} httpx.ErrorResponse
// @Router /api/Book [get]
func (h *HTTPHandler) List(w http.ResponseWriter, r *http.Request) {
	books, err := h.service.List(r.Context())
	if err != nil {
		httpx.InternalError(w, r, err)
		return
	}
	httpx.JSONOK(w, books)
}

// Get handles GET /api/Book/{id}
// @Summary Get book
// @Tags Book
// @Produce json
// @Param id path int true "Book ID"
// @Success 200 {object} entity.Book
// @Failure 404
// @Router /api/Book/{id} [get]
func (h *HTTPHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := httpx.PathID(r, "id")
	if !ok {
		httpx.NotFound(w)
		return
	}

	b, err := h.service.Get(r.Context(), id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httpx.JSONOK(w, b)
}

// Recent handles GET /api/Book/recent
// @Summary Most recently published books
// @Tags Book
// @Produce json
// @Param limit query int false "Number of books" default(5)
// @Success 200 {array} entity.Book
// @Router /api/Book/recent [get]
func (h *HTTPHandler) Recent(w http.ResponseWriter, r *http.Request) {
	limit := httpx.QueryInt(r, "limit", DefaultRecentLimit, MaxRecentLimit)

	books, err := h.service.Recent(r.Context(), limit)
	if err != nil {
		httpx.InternalError(w, r, err)
		return
	}
	httpx.JSONOK(w, books)
}

// Create handles POST /api/Book
// @Summary Create book
// @Tags Book
// @Accept json
// @Produce json
// @Param body body bookRequest true "Book"
// @Success 201 {object} entity.Book
// @Failure 400 {object} httpx.ErrorResponse
// @Router /api/Book [post]
func (h *HTTPHandler) Create(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decode(w, r)
	if !ok {
		return
	}
	if errs := httpx.ValidateStruct(req); len(errs) > 0 {
		httpx.ValidationFailed(w, r, errs)
		return
	}

	b := req.toEntity()
	b.ID = 0
	created, err := h.service.Create(r.Context(), b)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httpx.JSONCreated(w, created, "/api/Book/%d", created.ID)
}

// Update handles PUT /api/Book/{id}
// @Summary Replace book
// @Tags Book
// @Accept json
// @Param id path int true "Book ID"
// @Param body body bookRequest true "Book"
// @Success 204
// @Failure 400 {object} httpx.ErrorResponse
// @Failure 404
// @Router /api/Book/{id} [put]
func (h *HTTPHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := httpx.PathID(r, "id")
	if !ok {
		httpx.NotFound(w)
		return
	}

	req, ok := h.decode(w, r)
	if !ok {
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

// Delete handles DELETE /api/Book/{id}
// @Summary Delete book
// @Tags Book
// @Param id path int true "Book ID"
// @Success 204
// @Failure 404
// @Failure 409 {object} httpx.ErrorResponse
// @Router /api/Book/{id} [delete]
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

// Count handles GET /api/Book/count
// @Summary Number of books
// @Tags Book
// @Produce json
// @Success 200 {integer} int
// @Router /api/Book/count [get]
func (h *HTTPHandler) Count(w http.ResponseWriter, r *http.Request) {
	n, err := h.service.Count(r.Context())
	if err != nil {
		httpx.InternalError(w, r, err)
		return
	}
	httpx.JSONOK(w, n)
}

func (h *HTTPHandler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var refErr *InvalidReferenceError
	switch {
	case errors.Is(err, ErrNotFound):
		httpx.NotFound(w)
	case errors.As(err, &refErr):
		httpx.JSONError(w, r, http.StatusBadRequest, "INVALID_REFERENCE", "Referenced row does not exist",
			[]httpx.ErrorDetail{{Field: refErr.Field, Message: refErr.Error()}})
	default:
		httpx.InternalError(w, r, err)
	}
}
