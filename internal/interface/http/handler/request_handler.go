package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/ignatzorin/skillswap-backend/internal/cache"
	"github.com/ignatzorin/skillswap-backend/internal/domain/entity"
	"github.com/ignatzorin/skillswap-backend/internal/domain/repository"
	"github.com/ignatzorin/skillswap-backend/internal/interface/http/dto"
	"github.com/ignatzorin/skillswap-backend/internal/interface/http/response"
	"github.com/ignatzorin/skillswap-backend/internal/usecase/request"
)

type RequestHandler struct {
	createUC        *request.CreateRequestUseCase
	getUC           *request.GetRequestUseCase
	listUC          *request.ListRequestsUseCase
	listMyUC        *request.ListMyRequestsUseCase
	contributionsUC *request.ListMyContributionsUseCase
	submitOfferUC   *request.SubmitOfferUseCase
	listOffersUC    *request.ListOffersUseCase
	acceptOfferUC   *request.AcceptOfferUseCase
	rejectOfferUC   *request.RejectOfferUseCase
	awardKarmaUC    *request.AwardKarmaUseCase
	cache           *cache.Cache
}

func NewRequestHandler(
	createUC *request.CreateRequestUseCase,
	getUC *request.GetRequestUseCase,
	listUC *request.ListRequestsUseCase,
	listMyUC *request.ListMyRequestsUseCase,
	contributionsUC *request.ListMyContributionsUseCase,
	submitOfferUC *request.SubmitOfferUseCase,
	listOffersUC *request.ListOffersUseCase,
	acceptOfferUC *request.AcceptOfferUseCase,
	rejectOfferUC *request.RejectOfferUseCase,
	awardKarmaUC *request.AwardKarmaUseCase,
	c *cache.Cache,
) *RequestHandler {
	return &RequestHandler{
		createUC:        createUC,
		getUC:           getUC,
		listUC:          listUC,
		listMyUC:        listMyUC,
		contributionsUC: contributionsUC,
		submitOfferUC:   submitOfferUC,
		listOffersUC:    listOffersUC,
		acceptOfferUC:   acceptOfferUC,
		rejectOfferUC:   rejectOfferUC,
		awardKarmaUC:    awardKarmaUC,
		cache:           c,
	}
}

func (h *RequestHandler) CreateRequest(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var req dto.CreateRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "заголовок запроса обязателен")
		return
	}

	created, err := h.createUC.Execute(c.Request.Context(), req.ToInput(userID))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, dto.ToRequestResponse(created))
}

func (h *RequestHandler) GetRequest(c *gin.Context) {
	requestID, ok := parseUUIDParam(c, "id", "некорректный ID запроса")
	if !ok {
		return
	}

	req, err := h.getUC.Execute(c.Request.Context(), requestID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, dto.ToRequestResponse(req))
}

// ListRequests поддерживает фильтры status и tag и пагинацию limit/offset.
func (h *RequestHandler) ListRequests(c *gin.Context) {
	result, err := h.listUC.Execute(c.Request.Context(), repository.RequestFilter{
		Status: c.Query("status"),
		Tag:    c.Query("tag"),
		Limit:  parseIntQuery(c, "limit", 0),
		Offset: parseIntQuery(c, "offset", 0),
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Paginated(c, dto.ToRequestResponses(result.Items), result.Total, result.Limit, result.Offset)
}

func (h *RequestHandler) ListMyRequests(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	items, err := h.listMyUC.Execute(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, dto.ToRequestResponses(items))
}

func (h *RequestHandler) ListMyContributions(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	items, err := h.contributionsUC.Execute(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, dto.ToContributionResponses(items))
}

func (h *RequestHandler) SubmitOffer(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	requestID, ok := parseUUIDParam(c, "id", "некорректный ID запроса")
	if !ok {
		return
	}

	var req dto.SubmitOfferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "текст отклика обязателен")
		return
	}

	offer, err := h.submitOfferUC.Execute(c.Request.Context(), requestID, userID, req.Message)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, dto.ToOfferResponse(offer))
}

func (h *RequestHandler) ListOffers(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	requestID, ok := parseUUIDParam(c, "id", "некорректный ID запроса")
	if !ok {
		return
	}

	offers, err := h.listOffersUC.Execute(c.Request.Context(), requestID, userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, dto.ToOfferResponses(offers))
}

func (h *RequestHandler) AcceptOffer(c *gin.Context) {
	h.decideOffer(c, h.acceptOfferUC.Execute)
}

func (h *RequestHandler) RejectOffer(c *gin.Context) {
	h.decideOffer(c, h.rejectOfferUC.Execute)
}

func (h *RequestHandler) decideOffer(c *gin.Context, decide func(ctx context.Context, requestID, offerID, requesterID uuid.UUID) (*entity.Offer, error)) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	requestID, ok := parseUUIDParam(c, "id", "некорректный ID запроса")
	if !ok {
		return
	}
	offerID, ok := parseUUIDParam(c, "offerId", "некорректный ID отклика")
	if !ok {
		return
	}

	offer, err := decide(c.Request.Context(), requestID, offerID, userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, dto.ToOfferResponse(offer))
}

// Complete завершает запрос и начисляет карму принятому помощнику.
func (h *RequestHandler) Complete(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	requestID, ok := parseUUIDParam(c, "id", "некорректный ID запроса")
	if !ok {
		return
	}

	result, err := h.awardKarmaUC.Execute(c.Request.Context(), requestID, userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	h.cache.InvalidateByPrefix(cache.LeaderboardPrefix)

	response.Success(c, dto.ToAwardKarmaResponse(result))
}
