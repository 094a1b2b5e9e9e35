package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/casavia/estate-backend/internal/dto"
	"github.com/casavia/estate-backend/internal/http/handlers/common"
	"github.com/casavia/estate-backend/internal/http/response"
	"github.com/casavia/estate-backend/internal/service"
)

// OfferHandler предоставляет HTTP слой переговоров по предложениям.
type OfferHandler struct {
	negotiations *service.NegotiationService
	queries      *service.NegotiationQueryService
}

// NewOfferHandler создаёт хэндлер.
func NewOfferHandler(negotiations *service.NegotiationService, queries *service.NegotiationQueryService) *OfferHandler {
	return &OfferHandler{
		negotiations: negotiations,
		queries:      queries,
	}
}

// Create обрабатывает POST /properties/:id/offers — первое предложение покупателя.
func (h *OfferHandler) Create(c *gin.Context) {
	buyerID, err := common.CurrentUserID(c)
	if err != nil {
		respondUnauthorized(c, err)
		return
	}

	propertyID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		response.ValidationError(c, err.Error())
		return
	}

	var req dto.CreateOfferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, err.Error())
		return
	}

	offer, err := h.negotiations.CreateOffer(c.Request.Context(), service.CreateOfferInput{
		PropertyID: propertyID,
		BuyerID:    buyerID,
		Amount:     req.Amount,
		Note:       req.Note,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, http.StatusCreated, dto.NewOfferResponse(offer))
}

// Respond обрабатывает POST /offers/:id/response — ход стороны: accept,
// reject или counter.
func (h *OfferHandler) Respond(c *gin.Context) {
	actorID, err := common.CurrentUserID(c)
	if err != nil {
		respondUnauthorized(c, err)
		return
	}

	offerID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		response.ValidationError(c, err.Error())
		return
	}

	var req dto.SubmitResponseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, err.Error())
		return
	}

	offer, err := h.negotiations.SubmitResponse(c.Request.Context(), service.SubmitResponseInput{
		OfferID:  offerID,
		ActorID:  actorID,
		Outcome:  req.Outcome,
		NewPrice: req.NewPrice,
		Note:     req.Note,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, http.StatusOK, dto.NewOfferResponse(offer))
}

// History обрабатывает GET /offers/:id/history — история глазами зрителя.
func (h *OfferHandler) History(c *gin.Context) {
	viewerID, err := common.CurrentUserID(c)
	if err != nil {
		respondUnauthorized(c, err)
		return
	}

	offerID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		response.ValidationError(c, err.Error())
		return
	}

	view, err := h.queries.GetHistory(c.Request.Context(), offerID, viewerID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, http.StatusOK, view)
}

// My обрабатывает GET /offers/my — все переговоры участника.
func (h *OfferHandler) My(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		respondUnauthorized(c, err)
		return
	}

	limit, offset := common.GetPagination(c)
	summaries, err := h.queries.ListForParty(c.Request.Context(), userID, limit, offset)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, http.StatusOK, summaries)
}

// Pending обрабатывает GET /offers/pending — незавершённые переговоры,
// ожидающие хода ответственной стороны.
func (h *OfferHandler) Pending(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		respondUnauthorized(c, err)
		return
	}

	limit, offset := common.GetPagination(c)
	summaries, err := h.queries.ListPendingForResponsible(c.Request.Context(), userID, limit, offset)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, http.StatusOK, summaries)
}
