package http

import (
	"net/http"

	"github.com/DRSN-tech/shop-admin/internal/usecase"
	"github.com/DRSN-tech/shop-admin/pkg/logger"
)

type CategoryHandler struct {
	categoryUsecase usecase.CategoryUC
	logger          logger.Logger
}

func NewCategoryHandler(categoryUsecase usecase.CategoryUC, logger logger.Logger) *CategoryHandler {
	return &CategoryHandler{categoryUsecase: categoryUsecase, logger: logger}
}

// getCategories
//
//	@Summary		Список категорий или одна категория
//	@Description	Без id возвращает все категории, отсортированные по usedCount и имени
//	@Tags			categories
//	@Produce		json
//	@Param			id	query		int	false	"ID категории"
//	@Success		200	{object}	SuccessResponse{data=[]CategoryDTO}
//	@Failure		400	{object}	ErrorResponse
//	@Failure		401	{object}	ErrorResponse
//	@Failure		404	{object}	ErrorResponse
//	@Router			/categories [get]
func (h *CategoryHandler) getCategories(w http.ResponseWriter, r *http.Request) {
	if r.URL.Query().Has("id") {
		id, err := parseID(r)
		if err != nil {
			respondError(w, h.logger, r, err)
			return
		}

		category, err := h.categoryUsecase.Get(r.Context(), id)
		if err != nil {
			respondError(w, h.logger, r, err)
			return
		}

		WriteSuccess(w, http.StatusOK, "Category fetched successfully", toCategoryDTO(category))
		return
	}

	categories, err := h.categoryUsecase.List(r.Context())
	if err != nil {
		respondError(w, h.logger, r, err)
		return
	}

	WriteSuccess(w, http.StatusOK, "Categories fetched successfully", toCategoryDTOs(categories))
}

// createCategory
//
//	@Summary		Создание категории
//	@Tags			categories
//	@Accept			json
//	@Produce		json
//	@Param			body	body		CategoryReq	true	"Категория"
//	@Success		201		{object}	SuccessResponse{data=CategoryDTO}
//	@Failure		400		{object}	ErrorResponse	"Ошибка валидации"
//	@Failure		409		{object}	ErrorResponse	"Категория уже существует"
//	@Router			/categories [post]
func (h *CategoryHandler) createCategory(w http.ResponseWriter, r *http.Request) {
	var body CategoryReq
	if err := decodeJSON(w, r, &body); err != nil {
		respondError(w, h.logger, r, err)
		return
	}

	category, err := h.categoryUsecase.Create(r.Context(), &usecase.CreateCategoryReq{
		Name:        body.Name,
		Description: body.Description,
		Parent:      body.Parent,
		ParentFor:   body.ParentFor,
		Properties:  toProperties(body.Properties),
	})
	if err != nil {
		respondError(w, h.logger, r, err)
		return
	}

	h.logger.Infof("category %d created", category.ID)
	WriteSuccess(w, http.StatusCreated, "Category created successfully", toCategoryDTO(category))
}

// updateCategory
//
//	@Summary		Изменение категории
//	@Description	Меняет имя, описание, родителя и свойства. Счётчики не меняются.
//	@Tags			categories
//	@Accept			json
//	@Produce		json
//	@Param			id		query		int			true	"ID категории"
//	@Param			body	body		CategoryReq	true	"Категория"
//	@Success		200		{object}	SuccessResponse{data=CategoryDTO}
//	@Failure		400		{object}	ErrorResponse
//	@Failure		404		{object}	ErrorResponse
//	@Failure		409		{object}	ErrorResponse
//	@Router			/categories [put]
func (h *CategoryHandler) updateCategory(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		respondError(w, h.logger, r, err)
		return
	}

	var body CategoryReq
	if err := decodeJSON(w, r, &body); err != nil {
		respondError(w, h.logger, r, err)
		return
	}

	category, err := h.categoryUsecase.Update(r.Context(), &usecase.UpdateCategoryReq{
		ID:          id,
		Name:        body.Name,
		Description: body.Description,
		Parent:      body.Parent,
		Properties:  toProperties(body.Properties),
	})
	if err != nil {
		respondError(w, h.logger, r, err)
		return
	}

	WriteSuccess(w, http.StatusOK, "Category updated successfully", toCategoryDTO(category))
}

// deleteCategory
//
//	@Summary		Удаление категории
//	@Description	Категорию, к которой привязаны товары, удалить нельзя
//	@Tags			categories
//	@Produce		json
//	@Param			id	query		int	true	"ID категории"
//	@Success		200	{object}	SuccessResponse{data=CategoryDTO}
//	@Failure		400	{object}	ErrorResponse	"Категория используется"
//	@Failure		404	{object}	ErrorResponse
//	@Router			/categories [delete]
func (h *CategoryHandler) deleteCategory(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		respondError(w, h.logger, r, err)
		return
	}

	category, err := h.categoryUsecase.Delete(r.Context(), id)
	if err != nil {
		respondError(w, h.logger, r, err)
		return
	}

	h.logger.Infof("category %d deleted", category.ID)
	WriteSuccess(w, http.StatusOK, "Category deleted successfully", toCategoryDTO(category))
}

// incrementUsage
//
//	@Summary		Увеличение счётчика использования
//	@Tags			categories
//	@Produce		json
//	@Param			id	query		int	true	"ID категории"
//	@Success		200	{object}	SuccessResponse{data=CategoryDTO}
//	@Failure		404	{object}	ErrorResponse
//	@Router			/categories [patch]
func (h *CategoryHandler) incrementUsage(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		respondError(w, h.logger, r, err)
		return
	}

	category, err := h.categoryUsecase.IncrementUsage(r.Context(), id)
	if err != nil {
		respondError(w, h.logger, r, err)
		return
	}

	WriteSuccess(w, http.StatusOK, "Category usage incremented", toCategoryDTO(category))
}
