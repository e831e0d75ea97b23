package review

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

// reviewRequest has no userId: the reviewer is always the authenticated caller.
type reviewRequest struct {
	ID      int64  `json:"id"`
	Content string `json:"content" validate:"required,notblank,max=1000"`
	Rating  int    `json:"rating" validate:"min=1,max=5"`
	BookID  int64  `json:"bookId" validate:"required,gt=0"`
}

func (req reviewRequest) toEntity() entity.Review {
	return entity.Review{
		ID:      req.ID,
		Content: req.Content,
		Rating:  req.Rating,
		BookID:  req.BookID,
	}
}

// List handles GET /api/Review
// @Summary List reviews with book and reviewer
// @Tags Review
// @Produce json
// @Success 200 {array} entity.Review
// @Failure 500 {object} httpx.ErrorResponse
// @Router /api/Review [get]
func (h *HTTPHandler) List(w http.ResponseWriter, r *http.Request) {
	reviews, err := h.service.List(r.Context())
	if err != nil {
		httpx.InternalError(w, r, err)
		return
	}
	httpx.JSONOK(w, reviews)
}

// Get handles GET /api/Review/{id}
// @Summary Get review
// @Tags Review
// @Produce json
// @Param id path int true "Review ID"
// @Success 200 {object} entity.Review
// @Failure 404
// @Router /api/Review/{id} [get]
func (h *HTTPHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := httpx.PathID(r, "id")
	if !ok {
		httpx.NotFound(w)
		return
	}

	rv, err := h.service.Get(r.Context(), id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httpx.JSONOK(w, rv)
}

// ByBook handles GET /api/Review/book/{bookId}
// @Summary Reviews of one book
// @Tags Review
// @Produce json
// @Param bookId path int true "Book ID"
// @Success 200 {array} entity.Review
// @Failure 404
// @Router /api/Review/book/{bookId} [get]
func (h *HTTPHandler) ByBook(w http.ResponseWriter, r *http.Request) {
	bookID, ok := httpx.PathID(r, "bookId")
	if !ok {
		httpx.NotFound(w)
		return
	}

	reviews, err := h.service.ForBook(r.Context(), bookID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httpx.JSONOK(w, reviews)
}

// AverageRating handles GET /api/Review/average-rating
// @Summary Mean rating over all reviews
// @Tags Review
// @Produce json
// @Success 200 {number} float64
// @Router /api/Review/average-rating [get]
func (h *HTTPHandler) AverageRating(w http.ResponseWriter, r *http.Request) {
	avg, err := h.service.AverageRating(r.Context())
	if err != nil {
		httpx.InternalError(w, r, err)
		return
	}
	httpx.JSONOK(w, avg)
}

// Create handles POST /api/Review
// @Summary Create review as the signed-in user
// @Tags Review
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body reviewRequest true "Review"
// @Success 201 {object} entity.Review
// @Failure 400 {object} httpx.ErrorResponse
// @Failure 401 {object} httpx.ErrorResponse
// @Router /api/Review [post]
func (h *HTTPHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req reviewRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.BadRequest(w, r, "Invalid JSON body")
		return
	}
	if errs := httpx.ValidateStruct(req); len(errs) > 0 {
		httpx.ValidationFailed(w, r, errs)
		return
	}

	rv := req.toEntity()
	rv.ID = 0
	created, err := h.service.Create(r.Context(), httpx.UserIDFrom(r), rv)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httpx.JSONCreated(w, created, "/api/Review/%d", created.ID)
}

// Update handles PUT /api/Review/{id}
// @Summary Replace review content, rating and book
// @Tags Review
// @Accept json
// @Security BearerAuth
// @Param id path int true "Review ID"
// @Param body body reviewRequest true "Review"
// @Success 204
// @Failure 400 {object} httpx.ErrorResponse
// @Failure 401 {object} httpx.ErrorResponse
// @Failure 404
// @Router /api/Review/{id} [put]
func (h *HTTPHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := httpx.PathID(r, "id")
	if !ok {
		httpx.NotFound(w)
		return
	}

	var req reviewRequest
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

// Delete handles DELETE /api/Review/{id}
// @Summary Delete review
// @Tags Review
// @Security BearerAuth
// @Param id path int true "Review ID"
// @Success 204
// @Failure 401 {object} httpx.ErrorResponse
// @Failure 404
// @Router /api/Review/{id} [delete]
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

// Count handles GET /api/Review/count
// @Summary Number of reviews
// @Tags Review
// @Produce json
// @Success 200 {integer} int
// @Router /api/Review/count [get]
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
	case errors.Is(err, ErrUnauthenticated):
		httpx.Unauthorized(w, r)
	case errors.As(err, &refErr):
		httpx.JSONError(w, r, http.StatusBadRequest, "INVALID_REFERENCE", "Referenced row does not exist",
			[]httpx.ErrorDetail{{Field: refErr.Field, Message: refErr.Error()}})
	case errors.Is(err, ErrInvalidRating):
		httpx.ValidationFailed(w, r, []httpx.ErrorDetail{{Field: "rating", Message: err.Error()}})
	default:
		httpx.InternalError(w, r, err)
	}
}
