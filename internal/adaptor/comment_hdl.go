package adaptor

import (
	"net/http"

	"catalog-api/internal/dto/request"
	"catalog-api/internal/usecase"
	"catalog-api/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type CommentHandler struct {
	service usecase.CommentService
	log     *zap.Logger
}

func NewCommentHandler(service usecase.CommentService, log *zap.Logger) *CommentHandler {
	return &CommentHandler{
		service: service,
		log:     log.With(zap.String("handler", "comment")),
	}
}

// List handles GET /titles/{titleID}/reviews/{reviewID}/comments/
func (h *CommentHandler) List(w http.ResponseWriter, r *http.Request) {
	comments, err := h.service.List(r.Context(),
		chi.URLParam(r, "titleID"),
		chi.URLParam(r, "reviewID"),
		request.NewPaginatedRequest(r.URL.Query()),
	)
	if err != nil {
		handleServiceError(h.log, w, err, "list comments")
		return
	}

	utils.ResponseSuccess(w, "success", comments)
}

func (h *CommentHandler) Get(w http.ResponseWriter, r *http.Request) {
	comment, err := h.service.GetByID(r.Context(),
		chi.URLParam(r, "titleID"),
		chi.URLParam(r, "reviewID"),
		chi.URLParam(r, "commentID"),
	)
	if err != nil {
		handleServiceError(h.log, w, err, "get comment")
		return
	}

	utils.ResponseSuccess(w, "success", comment)
}

func (h *CommentHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req request.CreateCommentRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	comment, err := h.service.Create(r.Context(), chi.URLParam(r, "titleID"), chi.URLParam(r, "reviewID"), &req)
	if err != nil {
		handleServiceError(h.log, w, err, "create comment")
		return
	}

	utils.ResponseCreated(w, "Comment created", comment)
}

func (h *CommentHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req request.UpdateCommentRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	comment, err := h.service.Update(r.Context(),
		chi.URLParam(r, "titleID"),
		chi.URLParam(r, "reviewID"),
		chi.URLParam(r, "commentID"),
		&req,
	)
	if err != nil {
		handleServiceError(h.log, w, err, "update comment")
		return
	}

	utils.ResponseSuccess(w, "Comment updated", comment)
}

func (h *CommentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	err := h.service.Delete(r.Context(),
		chi.URLParam(r, "titleID"),
		chi.URLParam(r, "reviewID"),
		chi.URLParam(r, "commentID"),
	)
	if err != nil {
		handleServiceError(h.log, w, err, "delete comment")
		return
	}

	utils.ResponseNoContent(w)
}
