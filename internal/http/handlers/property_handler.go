package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/casavia/estate-backend/internal/dto"
	"github.com/casavia/estate-backend/internal/http/handlers/common"
	"github.com/casavia/estate-backend/internal/http/response"
	"github.com/casavia/estate-backend/internal/models"
	"github.com/casavia/estate-backend/internal/pkg/apperror"
	"github.com/casavia/estate-backend/internal/repository"
	"github.com/casavia/estate-backend/internal/validation"
)

// PropertyHandler предоставляет HTTP слой каталога объектов.
type PropertyHandler struct {
	properties *repository.PropertyRepository
}

// NewPropertyHandler создаёт хэндлер.
func NewPropertyHandler(properties *repository.PropertyRepository) *PropertyHandler {
	return &PropertyHandler{properties: properties}
}

// Create обрабатывает POST /properties. Публиковать объекты могут
// только агенты.
func (h *PropertyHandler) Create(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		respondUnauthorized(c, err)
		return
	}

	role, err := common.CurrentUserRole(c)
	if err != nil {
		respondUnauthorized(c, err)
		return
	}
	if role != models.RoleAgent {
		response.Error(c, apperror.New(apperror.ErrCodeForbidden, "публиковать объекты могут только агенты"))
		return
	}

	var req dto.CreatePropertyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, err.Error())
		return
	}

	if err := validation.ValidatePropertyTitle(req.Title); err != nil {
		response.ValidationError(c, err.Error())
		return
	}
	if err := validation.ValidatePropertyDescription(req.Description); err != nil {
		response.ValidationError(c, err.Error())
		return
	}
	if err := validation.ValidateNonEmpty("адрес", req.Address); err != nil {
		response.ValidationError(c, err.Error())
		return
	}
	if err := validation.ValidateNonEmpty("город", req.City); err != nil {
		response.ValidationError(c, err.Error())
		return
	}
	if req.AskingPrice <= 0 {
		response.Error(c, apperror.ErrInvalidPrice)
		return
	}
	if err := validation.ValidatePriceBounds(req.AskingPrice); err != nil {
		response.Error(c, apperror.ErrInvalidPrice)
		return
	}

	property := &models.Property{
		AgentID:     userID,
		Title:       req.Title,
		Description: req.Description,
		Address:     req.Address,
		City:        req.City,
		AskingPrice: req.AskingPrice,
		Status:      models.PropertyStatusActive,
	}

	if err := h.properties.Create(c.Request.Context(), property); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, http.StatusCreated, property)
}

// Get обрабатывает GET /properties/:id.
func (h *PropertyHandler) Get(c *gin.Context) {
	propertyID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		response.ValidationError(c, err.Error())
		return
	}

	property, err := h.properties.GetByID(c.Request.Context(), propertyID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, http.StatusOK, property)
}

// List обрабатывает GET /properties с фильтрами по городу и цене.
func (h *PropertyHandler) List(c *gin.Context) {
	limit, offset := common.GetPagination(c)

	filter := repository.PropertyFilter{
		City:     c.Query("city"),
		MinPrice: int64(common.ParseIntQuery(c, "min_price", 0)),
		MaxPrice: int64(common.ParseIntQuery(c, "max_price", 0)),
		Status:   c.Query("status"),
	}

	properties, err := h.properties.List(c.Request.Context(), filter, limit, offset)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, http.StatusOK, properties)
}

// Mine обрабатывает GET /properties/mine — объекты текущего агента.
func (h *PropertyHandler) Mine(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		respondUnauthorized(c, err)
		return
	}

	limit, offset := common.GetPagination(c)
	properties, err := h.properties.ListByAgent(c.Request.Context(), userID, limit, offset)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, http.StatusOK, properties)
}

// UpdateStatus обрабатывает PATCH /properties/:id/status. Менять статус
// может только агент объекта.
func (h *PropertyHandler) UpdateStatus(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		respondUnauthorized(c, err)
		return
	}

	propertyID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		response.ValidationError(c, err.Error())
		return
	}

	var req dto.UpdatePropertyStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, err.Error())
		return
	}

	switch req.Status {
	case models.PropertyStatusActive, models.PropertyStatusSold, models.PropertyStatusArchived:
	default:
		response.ValidationError(c, "статус должен быть active, sold или archived")
		return
	}

	property, err := h.properties.GetByID(c.Request.Context(), propertyID)
	if err != nil {
		response.Error(c, err)
		return
	}
	if property.AgentID != userID {
		response.Error(c, apperror.New(apperror.ErrCodeForbidden, "объект принадлежит другому агенту"))
		return
	}

	if err := h.properties.UpdateStatus(c.Request.Context(), propertyID, req.Status); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, http.StatusOK, gin.H{"status": req.Status})
}
