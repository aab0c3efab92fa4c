package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/ignatzorin/skillswap-backend/internal/cache"
	"github.com/ignatzorin/skillswap-backend/internal/domain/repository"
	"github.com/ignatzorin/skillswap-backend/internal/interface/http/dto"
	"github.com/ignatzorin/skillswap-backend/internal/interface/http/response"
	"github.com/ignatzorin/skillswap-backend/internal/usecase/karma"
)

const leaderboardCacheTTL = 30 * time.Second

// AdminChecker определяет, входит ли пользователь в список администраторов.
type AdminChecker interface {
	IsAdmin(userID uuid.UUID) bool
}

type KarmaHandler struct {
	leaderboardUC *karma.LeaderboardUseCase
	getKarmaUC    *karma.GetKarmaUseCase
	awardUC       *karma.AwardUseCase
	admins        AdminChecker
	cache         *cache.Cache
}

func NewKarmaHandler(
	leaderboardUC *karma.LeaderboardUseCase,
	getKarmaUC *karma.GetKarmaUseCase,
	awardUC *karma.AwardUseCase,
	admins AdminChecker,
	c *cache.Cache,
) *KarmaHandler {
	return &KarmaHandler{
		leaderboardUC: leaderboardUC,
		getKarmaUC:    getKarmaUC,
		awardUC:       awardUC,
		admins:        admins,
		cache:         c,
	}
}

// Leaderboard кэшируется ненадолго: рейтинг читают гораздо чаще, чем меняют.
func (h *KarmaHandler) Leaderboard(c *gin.Context) {
	limit := parseIntQuery(c, "limit", karma.DefaultLeaderboardLimit)

	value, err := h.cache.GetOrSet(cache.LeaderboardKey(limit), leaderboardCacheTTL, func() (interface{}, error) {
		return h.leaderboardUC.Execute(c.Request.Context(), limit)
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, dto.ToLeaderboardResponses(value.([]repository.LeaderboardEntry)))
}

func (h *KarmaHandler) GetKarma(c *gin.Context) {
	userID, ok := parseUUIDParam(c, "id", "некорректный ID пользователя")
	if !ok {
		return
	}

	points, err := h.getKarmaUC.Execute(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, gin.H{"user_id": userID, "karma": points})
}

// Award - ручное начисление кармы администратором.
func (h *KarmaHandler) Award(c *gin.Context) {
	callerID, ok := requireUserID(c)
	if !ok {
		return
	}
	if !h.admins.IsAdmin(callerID) {
		response.Forbidden(c, "действие доступно только администратору")
		return
	}

	var req dto.AwardKarmaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "некорректное тело запроса")
		return
	}

	if err := h.awardUC.Execute(c.Request.Context(), req.UserID, req.RequestID, req.Delta); err != nil {
		response.Error(c, err)
		return
	}
	h.cache.InvalidateByPrefix(cache.LeaderboardPrefix)

	response.Success(c, gin.H{"user_id": req.UserID, "delta": req.Delta})
}
