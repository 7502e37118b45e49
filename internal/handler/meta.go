package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/avilov/taskboard/internal/repo"
	"github.com/avilov/taskboard/pkg/respond"
)

// MetaHandler отдает справочники: шаблоны досок и палитру цветов.
type MetaHandler struct {
	templates repo.TemplateRepository
	colors    repo.ColorRepository
	logger    *zap.Logger
}

func NewMetaHandler(templates repo.TemplateRepository, colors repo.ColorRepository, logger *zap.Logger) *MetaHandler {
	return &MetaHandler{
		templates: templates,
		colors:    colors,
		logger:    logger,
	}
}

func (h *MetaHandler) Routes(r chi.Router) {
	r.Get("/templates", h.ListTemplates)
	r.Get("/templates/{id}", h.GetTemplate)
	r.Get("/colors", h.ListColors)
}

func (h *MetaHandler) ListTemplates(w http.ResponseWriter, r *http.Request) {
	templates, err := h.templates.List(r.Context())
	if err != nil {
		h.logger.Error("internal error", zap.Error(err))
		respond.Error(w, r, http.StatusInternalServerError, "internal error")
		return
	}
	respond.JSON(w, r, http.StatusOK, templates)
}

func (h *MetaHandler) GetTemplate(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)

	template, err := h.templates.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, repo.ErrorNotFound) {
			respond.Error(w, r, http.StatusNotFound, "not found")
			return
		}
		h.logger.Error("internal error", zap.Error(err))
		respond.Error(w, r, http.StatusInternalServerError, "internal error")
		return
	}
	respond.JSON(w, r, http.StatusOK, template)
}

func (h *MetaHandler) ListColors(w http.ResponseWriter, r *http.Request) {
	colors, err := h.colors.List(r.Context())
	if err != nil {
		h.logger.Error("internal error", zap.Error(err))
		respond.Error(w, r, http.StatusInternalServerError, "internal error")
		return
	}
	respond.JSON(w, r, http.StatusOK, colors)
}
