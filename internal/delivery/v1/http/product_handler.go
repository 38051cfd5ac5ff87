package http

import (
	"net/http"

	"github.com/DRSN-tech/shop-admin/internal/usecase"
	"github.com/DRSN-tech/shop-admin/pkg/logger"
)

type ProductHandler struct {
	productUsecase usecase.ProductUC
	logger         logger.Logger
}

func NewProductHandler(productUsecase usecase.ProductUC, logger logger.Logger) *ProductHandler {
	return &ProductHandler{productUsecase: productUsecase, logger: logger}
}

// getProducts
//
//	@Summary		Список товаров или один товар
//	@Tags			products
//	@Produce		json
//	@Param			id	query		int	false	"ID товара"
//	@Success		200	{object}	SuccessResponse{data=[]ProductDTO}
//	@Failure		400	{object}	ErrorResponse
//	@Failure		404	{object}	ErrorResponse
//	@Router			/products [get]
func (p *ProductHandler) getProducts(w http.ResponseWriter, r *http.Request) {
	if r.URL.Query().Has("id") {
		id, err := parseID(r)
		if err != nil {
			respondError(w, p.logger, r, err)
			return
		}

		product, err := p.productUsecase.Get(r.Context(), id)
		if err != nil {
			respondError(w, p.logger, r, err)
			return
		}

		WriteSuccess(w, http.StatusOK, "Product fetched successfully", toProductDTO(product))
		return
	}

	products, err := p.productUsecase.List(r.Context())
	if err != nil {
		respondError(w, p.logger, r, err)
		return
	}

	WriteSuccess(w, http.StatusOK, "Products fetched successfully", toProductDTOs(products))
}

// createProduct
//
//	@Summary		Создание товара
//	@Description	Привязывает товар к категориям и увеличивает их счётчики использования
//	@Tags			products
//	@Accept			json
//	@Produce		json
//	@Param			body	body		ProductBody	true	"Товар"
//	@Success		201		{object}	SuccessResponse{data=ProductDTO}
//	@Failure		400		{object}	ErrorResponse	"Ошибка валидации"
//	@Router			/products [post]
func (p *ProductHandler) createProduct(w http.ResponseWriter, r *http.Request) {
	req, err := p.parseProductBody(w, r)
	if err != nil {
		respondError(w, p.logger, r, err)
		return
	}

	product, err := p.productUsecase.Create(r.Context(), req)
	if err != nil {
		respondError(w, p.logger, r, err)
		return
	}

	p.logger.Infof("product %d created", product.ID)
	WriteSuccess(w, http.StatusCreated, "Product created successfully", toProductDTO(product))
}

// updateProduct
//
//	@Summary		Изменение товара
//	@Tags			products
//	@Accept			json
//	@Produce		json
//	@Param			id		query		int			true	"ID товара"
//	@Param			body	body		ProductBody	true	"Товар"
//	@Success		200		{object}	SuccessResponse{data=ProductDTO}
//	@Failure		400		{object}	ErrorResponse
//	@Failure		404		{object}	ErrorResponse
//	@Router			/products [put]
func (p *ProductHandler) updateProduct(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		respondError(w, p.logger, r, err)
		return
	}

	req, err := p.parseProductBody(w, r)
	if err != nil {
		respondError(w, p.logger, r, err)
		return
	}

	product, err := p.productUsecase.Update(r.Context(), id, req)
	if err != nil {
		respondError(w, p.logger, r, err)
		return
	}

	WriteSuccess(w, http.StatusOK, "Product updated successfully", toProductDTO(product))
}

// deleteProduct
//
//	@Summary		Удаление товара
//	@Tags			products
//	@Produce		json
//	@Param			id	query		int	true	"ID товара"
//	@Success		200	{object}	SuccessResponse{data=ProductDTO}
//	@Failure		404	{object}	ErrorResponse
//	@Router			/products [delete]
func (p *ProductHandler) deleteProduct(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		respondError(w, p.logger, r, err)
		return
	}

	product, err := p.productUsecase.Delete(r.Context(), id)
	if err != nil {
		respondError(w, p.logger, r, err)
		return
	}

	p.logger.Infof("product %d deleted", product.ID)
	WriteSuccess(w, http.StatusOK, "Product deleted successfully", toProductDTO(product))
}

// getStatics
//
//	@Summary		Товары по категории
//	@Description	С id возвращает товары категории, без id все товары
//	@Tags			statics
//	@Produce		json
//	@Param			id	query		int	false	"ID категории"
//	@Success		200	{object}	SuccessResponse{data=[]ProductDTO}
//	@Failure		404	{object}	ErrorResponse	"Товаров в категории нет"
//	@Router			/statics [get]
func (p *ProductHandler) getStatics(w http.ResponseWriter, r *http.Request) {
	if !r.URL.Query().Has("id") {
		p.getProducts(w, r)
		return
	}

	id, err := parseID(r)
	if err != nil {
		respondError(w, p.logger, r, err)
		return
	}

	products, err := p.productUsecase.ListByCategory(r.Context(), id)
	if err != nil {
		respondError(w, p.logger, r, err)
		return
	}

	WriteSuccess(w, http.StatusOK, "Products fetched successfully", toProductDTOs(products))
}

func (p *ProductHandler) parseProductBody(w http.ResponseWriter, r *http.Request) (*usecase.ProductReq, error) {
	var body ProductBody
	if err := decodeJSON(w, r, &body); err != nil {
		return nil, err
	}

	return body.toReq()
}
