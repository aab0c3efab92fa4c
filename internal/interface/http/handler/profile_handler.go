package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/ignatzorin/skillswap-backend/internal/domain/entity"
	"github.com/ignatzorin/skillswap-backend/internal/interface/http/dto"
	"github.com/ignatzorin/skillswap-backend/internal/interface/http/response"
	"github.com/ignatzorin/skillswap-backend/internal/usecase/profile"
	"github.com/ignatzorin/skillswap-backend/internal/usecase/testimonial"
)

type ProfileHandler struct {
	ensureUC       *profile.EnsureProfileUseCase
	getUC          *profile.GetProfileUseCase
	updateUC       *profile.UpdateProfileUseCase
	addSkillUC     *profile.AddSkillUseCase
	removeSkillUC  *profile.RemoveSkillUseCase
	testimonialsUC *testimonial.ListForUserUseCase
}

func NewProfileHandler(
	ensureUC *profile.EnsureProfileUseCase,
	getUC *profile.GetProfileUseCase,
	updateUC *profile.UpdateProfileUseCase,
	addSkillUC *profile.AddSkillUseCase,
	removeSkillUC *profile.RemoveSkillUseCase,
	testimonialsUC *testimonial.ListForUserUseCase,
) *ProfileHandler {
	return &ProfileHandler{
		ensureUC:       ensureUC,
		getUC:          getUC,
		updateUC:       updateUC,
		addSkillUC:     addSkillUC,
		removeSkillUC:  removeSkillUC,
		testimonialsUC: testimonialsUC,
	}
}

// Session обновляет профиль данными провайдера и возвращает его.
func (h *ProfileHandler) Session(c *gin.Context) {
	value, ok := c.Get("identity")
	identity, valid := value.(entity.Identity)
	if !ok || !valid {
		response.Unauthorized(c, "требуется авторизация")
		return
	}

	user, err := h.ensureUC.Execute(c.Request.Context(), identity)
	if err != nil {
		response.Error(c, err)
		return
	}

	h.respondProfile(c, user.ID, user.ID)
}

func (h *ProfileHandler) GetMe(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	h.respondProfile(c, userID, userID)
}

// GetUser - публичный профиль с одобренными отзывами.
func (h *ProfileHandler) GetUser(c *gin.Context) {
	userID, ok := parseUUIDParam(c, "id", "некорректный ID пользователя")
	if !ok {
		return
	}
	h.respondProfile(c, userID, viewerID(c))
}

func (h *ProfileHandler) respondProfile(c *gin.Context, userID, viewer uuid.UUID) {
	p, err := h.getUC.Execute(c.Request.Context(), userID, viewer)
	if err != nil {
		response.Error(c, err)
		return
	}
	testimonials, err := h.testimonialsUC.Execute(c.Request.Context(), userID, viewer)
	if err != nil {
		response.Error(c, err)
		return
	}

	resp := dto.ToProfileResponse(p, viewer)
	resp.Testimonials = dto.ToTestimonialResponses(testimonials)
	response.Success(c, resp)
}

func (h *ProfileHandler) UpdateMe(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var req dto.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "некорректное тело запроса")
		return
	}

	user, err := h.updateUC.Execute(c.Request.Context(), userID, req.ToInput())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, dto.ToUserResponse(user, userID))
}

func (h *ProfileHandler) AddSkill(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var req dto.AddSkillRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "название навыка обязательно")
		return
	}

	skill, err := h.addSkillUC.Execute(c.Request.Context(), userID, profile.AddSkillInput{
		Name:        req.Name,
		Category:    req.Category,
		Proficiency: req.Proficiency,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, dto.ToSkillResponse(skill))
}

func (h *ProfileHandler) RemoveSkill(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	if err := h.removeSkillUC.Execute(c.Request.Context(), userID, c.Param("name")); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, gin.H{"message": "навык удалён"})
}
