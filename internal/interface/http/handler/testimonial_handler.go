package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/ignatzorin/skillswap-backend/internal/interface/http/dto"
	"github.com/ignatzorin/skillswap-backend/internal/interface/http/response"
	"github.com/ignatzorin/skillswap-backend/internal/usecase/testimonial"
)

type TestimonialHandler struct {
	createUC  *testimonial.CreateUseCase
	approveUC *testimonial.ApproveUseCase
	deleteUC  *testimonial.DeleteUseCase
}

func NewTestimonialHandler(createUC *testimonial.CreateUseCase, approveUC *testimonial.ApproveUseCase, deleteUC *testimonial.DeleteUseCase) *TestimonialHandler {
	return &TestimonialHandler{createUC: createUC, approveUC: approveUC, deleteUC: deleteUC}
}

func (h *TestimonialHandler) Create(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var req dto.CreateTestimonialRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "receiver_id и text обязательны")
		return
	}

	t, err := h.createUC.Execute(c.Request.Context(), userID, req.ReceiverID, req.Text)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, dto.ToTestimonialResponse(t))
}

// Approve доступен только получателю отзыва.
func (h *TestimonialHandler) Approve(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	id, ok := parseUUIDParam(c, "id", "некорректный ID отзыва")
	if !ok {
		return
	}

	t, err := h.approveUC.Execute(c.Request.Context(), id, userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, dto.ToTestimonialResponse(t))
}

func (h *TestimonialHandler) Delete(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	id, ok := parseUUIDParam(c, "id", "некорректный ID отзыва")
	if !ok {
		return
	}

	if err := h.deleteUC.Execute(c.Request.Context(), id, userID); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, gin.H{"message": "отзыв удалён"})
}
