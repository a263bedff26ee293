package handlers

import (
	"net/http"
	"strconv"

	"github.com/FatimaaAlzahraa/RouteX/internal/dto"
	"github.com/FatimaaAlzahraa/RouteX/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// CatalogHandler обслуживает справочники: склады, клиенты, товары.
type CatalogHandler struct {
	catalog service.CatalogService
	log     *zap.Logger
}

func NewCatalogHandler(catalog service.CatalogService, log *zap.Logger) *CatalogHandler {
	return &CatalogHandler{
		catalog: catalog,
		log:     log,
	}
}

func pagination(c *gin.Context) (limit, offset int) {
	limit, _ = strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ = strconv.Atoi(c.DefaultQuery("offset", "0"))
	return limit, offset
}

// CreateWarehouseHandler godoc
// @Summary Создание склада
// @Security BearerAuth
// @Tags warehouses
// @Accept json
// @Produce json
// @Param warehouse body dto.WarehouseRequest true "Название и расположение"
// @Success 201 {object} dto.WarehouseResponse
// @Failure 409 {object} dto.ConflictErrorResponse "Склад с таким названием и расположением уже есть"
// @Router /api/v1/warehouses [post]
func (h *CatalogHandler) CreateWarehouse(c *gin.Context) {
	var req dto.WarehouseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Warn("Invalid warehouse request", zap.Error(err))
		c.JSON(http.StatusBadRequest, dto.NewValidationError("invalid request body", []dto.FieldError{}))
		return
	}

	w, err := h.catalog.CreateWarehouse(c.Request.Context(), service.WarehouseInput{
		Name:     req.Name,
		Location: req.Location,
	})
	if err != nil {
		respondServiceError(c, h.log, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToWarehouseResponse(w))
}

// GetWarehouseHandler godoc
// @Summary Получение склада
// @Security BearerAuth
// @Tags warehouses
// @Produce json
// @Param id path string true "ID склада"
// @Success 200 {object} dto.WarehouseResponse
// @Router /api/v1/warehouses/{id} [get]
func (h *CatalogHandler) GetWarehouse(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	w, err := h.catalog.GetWarehouse(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToWarehouseResponse(w))
}

// UpdateWarehouseHandler godoc
// @Summary Обновление склада
// @Security BearerAuth
// @Tags warehouses
// @Accept json
// @Produce json
// @Param id path string true "ID склада"
// @Param warehouse body dto.WarehousePatchRequest true "Изменяемые поля"
// @Success 200 {object} dto.WarehouseResponse
// @Router /api/v1/warehouses/{id} [patch]
func (h *CatalogHandler) UpdateWarehouse(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req dto.WarehousePatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.NewValidationError("invalid request body", []dto.FieldError{}))
		return
	}

	w, err := h.catalog.UpdateWarehouse(c.Request.Context(), id, service.WarehousePatch{
		Name:     req.Name,
		Location: req.Location,
	})
	if err != nil {
		respondServiceError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToWarehouseResponse(w))
}

// ListWarehousesHandler godoc
// @Summary Список складов
// @Security BearerAuth
// @Tags warehouses
// @Produce json
// @Success 200 {object} dto.ListResponse[dto.WarehouseResponse]
// @Router /api/v1/warehouses [get]
func (h *CatalogHandler) ListWarehouses(c *gin.Context) {
	limit, offset := pagination(c)
	list, total, err := h.catalog.ListWarehouses(c.Request.Context(), limit, offset)
	if err != nil {
		respondServiceError(c, h.log, err)
		return
	}

	items := make([]dto.WarehouseResponse, 0, len(list))
	for i := range list {
		items = append(items, dto.ToWarehouseResponse(&list[i]))
	}
	c.JSON(http.StatusOK, dto.ListResponse[dto.WarehouseResponse]{Items: items, Total: total})
}

// DeleteWarehouseHandler godoc
// @Summary Удаление склада
// @Security BearerAuth
// @Tags warehouses
// @Param id path string true "ID склада"
// @Success 204 "Удалено"
// @Router /api/v1/warehouses/{id} [delete]
func (h *CatalogHandler) DeleteWarehouse(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	deleted, err := h.catalog.DeleteWarehouse(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, h.log, err)
		return
	}
	if !deleted {
		c.JSON(http.StatusNotFound, dto.NewNotFoundError("warehouse not found"))
		return
	}

	c.Status(http.StatusNoContent)
}

// CreateCustomerHandler godoc
// @Summary Создание клиента
// @Description Требуется хотя бы один непустой адрес из трёх
// @Security BearerAuth
// @Tags customers
// @Accept json
// @Produce json
// @Param customer body dto.CustomerRequest true "Данные клиента"
// @Success 201 {object} dto.CustomerResponse
// @Failure 400 {object} dto.ValidationErrorResponse "Нет ни одного адреса"
// @Router /api/v1/customers [post]
func (h *CatalogHandler) CreateCustomer(c *gin.Context) {
	var req dto.CustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Warn("Invalid customer request", zap.Error(err))
		c.JSON(http.StatusBadRequest, dto.NewValidationError("invalid request body", []dto.FieldError{}))
		return
	}

	cust, err := h.catalog.CreateCustomer(c.Request.Context(), service.CustomerInput{
		Name:     req.Name,
		Phone:    req.Phone,
		Address:  req.Address,
		Address2: req.Address2,
		Address3: req.Address3,
	})
	if err != nil {
		respondServiceError(c, h.log, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToCustomerResponse(cust))
}

// GetCustomerHandler godoc
// @Summary Получение клиента
// @Security BearerAuth
// @Tags customers
// @Produce json
// @Param id path string true "ID клиента"
// @Success 200 {object} dto.CustomerResponse
// @Router /api/v1/customers/{id} [get]
func (h *CatalogHandler) GetCustomer(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	cust, err := h.catalog.GetCustomer(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToCustomerResponse(cust))
}

// UpdateCustomerHandler godoc
// @Summary Обновление клиента
// @Security BearerAuth
// @Tags customers
// @Accept json
// @Produce json
// @Param id path string true "ID клиента"
// @Param customer body dto.CustomerPatchRequest true "Изменяемые поля"
// @Success 200 {object} dto.CustomerResponse
// @Router /api/v1/customers/{id} [patch]
func (h *CatalogHandler) UpdateCustomer(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req dto.CustomerPatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.NewValidationError("invalid request body", []dto.FieldError{}))
		return
	}

	cust, err := h.catalog.UpdateCustomer(c.Request.Context(), id, service.CustomerPatch{
		Name:     req.Name,
		Phone:    req.Phone,
		Address:  req.Address,
		Address2: req.Address2,
		Address3: req.Address3,
	})
	if err != nil {
		respondServiceError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToCustomerResponse(cust))
}

// ListCustomersHandler godoc
// @Summary Список клиентов
// @Security BearerAuth
// @Tags customers
// @Produce json
// @Success 200 {object} dto.ListResponse[dto.CustomerResponse]
// @Router /api/v1/customers [get]
func (h *CatalogHandler) ListCustomers(c *gin.Context) {
	limit, offset := pagination(c)
	list, total, err := h.catalog.ListCustomers(c.Request.Context(), limit, offset)
	if err != nil {
		respondServiceError(c, h.log, err)
		return
	}

	items := make([]dto.CustomerResponse, 0, len(list))
	for i := range list {
		items = append(items, dto.ToCustomerResponse(&list[i]))
	}
	c.JSON(http.StatusOK, dto.ListResponse[dto.CustomerResponse]{Items: items, Total: total})
}

// DeleteCustomerHandler godoc
// @Summary Удаление клиента
// @Security BearerAuth
// @Tags customers
// @Param id path string true "ID клиента"
// @Success 204 "Удалено"
// @Router /api/v1/customers/{id} [delete]
func (h *CatalogHandler) DeleteCustomer(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	deleted, err := h.catalog.DeleteCustomer(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, h.log, err)
		return
	}
	if !deleted {
		c.JSON(http.StatusNotFound, dto.NewNotFoundError("customer not found"))
		return
	}

	c.Status(http.StatusNoContent)
}

// CreateProductHandler godoc
// @Summary Создание товара
// @Security BearerAuth
// @Tags products
// @Accept json
// @Produce json
// @Param product body dto.ProductRequest true "Данные товара"
// @Success 201 {object} dto.ProductResponse
// @Router /api/v1/products [post]
func (h *CatalogHandler) CreateProduct(c *gin.Context) {
	var req dto.ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Warn("Invalid product request", zap.Error(err))
		c.JSON(http.StatusBadRequest, dto.NewValidationError("invalid request body", []dto.FieldError{}))
		return
	}

	isActive := true
	if req.IsActive != nil {
		isActive = *req.IsActive
	}
	p, err := h.catalog.CreateProduct(c.Request.Context(), service.ProductInput{
		Name:       req.Name,
		PriceCents: req.PriceCents,
		Unit:       req.Unit,
		StockQty:   req.StockQty,
		IsActive:   isActive,
	})
	if err != nil {
		respondServiceError(c, h.log, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToProductResponse(p))
}

// GetProductHandler godoc
// @Summary Получение товара
// @Security BearerAuth
// @Tags products
// @Produce json
// @Param id path string true "ID товара"
// @Success 200 {object} dto.ProductResponse
// @Router /api/v1/products/{id} [get]
func (h *CatalogHandler) GetProduct(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	p, err := h.catalog.GetProduct(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToProductResponse(p))
}

// UpdateProductHandler godoc
// @Summary Обновление товара
// @Description Остаток через этот метод не меняется, только через пополнение
// @Security BearerAuth
// @Tags products
// @Accept json
// @Produce json
// @Param id path string true "ID товара"
// @Param product body dto.ProductPatchRequest true "Изменяемые поля"
// @Success 200 {object} dto.ProductResponse
// @Router /api/v1/products/{id} [patch]
func (h *CatalogHandler) UpdateProduct(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req dto.ProductPatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.NewValidationError("invalid request body", []dto.FieldError{}))
		return
	}

	p, err := h.catalog.UpdateProduct(c.Request.Context(), id, service.ProductPatch{
		Name:       req.Name,
		PriceCents: req.PriceCents,
		Unit:       req.Unit,
		IsActive:   req.IsActive,
	})
	if err != nil {
		respondServiceError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToProductResponse(p))
}

// RestockProductHandler godoc
// @Summary Пополнение остатка товара
// @Security BearerAuth
// @Tags products
// @Accept json
// @Produce json
// @Param id path string true "ID товара"
// @Param restock body dto.RestockRequest true "Количество (> 0)"
// @Success 200 {object} dto.ProductResponse
// @Failure 400 {object} dto.ValidationErrorResponse "Количество должно быть больше нуля"
// @Router /api/v1/products/{id}/restock [post]
func (h *CatalogHandler) RestockProduct(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req dto.RestockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.NewValidationError("invalid request body", []dto.FieldError{}))
		return
	}

	p, err := h.catalog.RestockProduct(c.Request.Context(), id, req.Quantity)
	if err != nil {
		respondServiceError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToProductResponse(p))
}

// ListProductsHandler godoc
// @Summary Список товаров
// @Security BearerAuth
// @Tags products
// @Produce json
// @Param q query string false "Поиск по названию"
// @Param active query bool false "Только активные или только неактивные"
// @Success 200 {object} dto.ListResponse[dto.ProductResponse]
// @Router /api/v1/products [get]
func (h *CatalogHandler) ListProducts(c *gin.Context) {
	limit, offset := pagination(c)
	f := service.ProductListFilter{
		Query:  c.Query("q"),
		Limit:  limit,
		Offset: offset,
	}
	if raw := c.Query("active"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, dto.NewValidationError("invalid query", []dto.FieldError{
				{Field: "active", Message: "must be a boolean"},
			}))
			return
		}
		f.OnlyActive = &v
	}

	list, total, err := h.catalog.ListProducts(c.Request.Context(), f)
	if err != nil {
		respondServiceError(c, h.log, err)
		return
	}

	items := make([]dto.ProductResponse, 0, len(list))
	for i := range list {
		items = append(items, dto.ToProductResponse(&list[i]))
	}
	c.JSON(http.StatusOK, dto.ListResponse[dto.ProductResponse]{Items: items, Total: total})
}
