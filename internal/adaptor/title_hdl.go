package adaptor

import (
	"net/http"
	"strconv"

	"catalog-api/internal/data/entity"
	"catalog-api/internal/dto/request"
	"catalog-api/internal/usecase"
	"catalog-api/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type TitleHandler struct {
	service usecase.TitleService
	log     *zap.Logger
}

func NewTitleHandler(service usecase.TitleService, log *zap.Logger) *TitleHandler {
	return &TitleHandler{
		service: service,
		log:     log.With(zap.String("handler", "title")),
	}
}

// List handles GET /titles/?genre=&category=&name=&year=
func (h *TitleHandler) List(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	filter := entity.TitleFilter{
		GenreSlug:    query.Get("genre"),
		CategorySlug: query.Get("category"),
		Name:         query.Get("name"),
	}
	if raw := query.Get("year"); raw != "" {
		year, err := strconv.Atoi(raw)
		if err != nil {
			utils.ResponseBadRequest(w, "Validation failed", map[string]string{"year": "Enter a whole number"})
			return
		}
		filter.Year = &year
	}

	titles, err := h.service.List(r.Context(), request.TitleQuery{
		PaginatedRequest: request.NewPaginatedRequest(query),
		TitleFilter:      filter,
	})
	if err != nil {
		handleServiceError(h.log, w, err, "list titles")
		return
	}

	utils.ResponseSuccess(w, "success", titles)
}

// Get handles GET /titles/{titleID}/
func (h *TitleHandler) Get(w http.ResponseWriter, r *http.Request) {
	title, err := h.service.GetByID(r.Context(), chi.URLParam(r, "titleID"))
	if err != nil {
		handleServiceError(h.log, w, err, "get title")
		return
	}

	utils.ResponseSuccess(w, "success", title)
}

// Create handles POST /titles/ (admin)
func (h *TitleHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req request.TitleRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	title, err := h.service.Create(r.Context(), &req)
	if err != nil {
		handleServiceError(h.log, w, err, "create title")
		return
	}

	utils.ResponseCreated(w, "Title created", title)
}

// Update handles PATCH /titles/{titleID}/ (admin)
func (h *TitleHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req request.TitleUpdateRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	title, err := h.service.Update(r.Context(), chi.URLParam(r, "titleID"), &req)
	if err != nil {
		handleServiceError(h.log, w, err, "update title")
		return
	}

	utils.ResponseSuccess(w, "Title updated", title)
}

// Delete handles DELETE /titles/{titleID}/ (admin)
func (h *TitleHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(r.Context(), chi.URLParam(r, "titleID")); err != nil {
		handleServiceError(h.log, w, err, "delete title")
		return
	}

	utils.ResponseNoContent(w)
}
