package handler

import (
	"net/http"
	"strconv"

	"commune/internal/middleware"
	"commune/internal/service"

	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	svc *service.UserService
}

func NewUserHandler(svc *service.UserService) *UserHandler {
	return &UserHandler{svc: svc}
}

type UserCreateReq struct {
	Username  string `json:"username" binding:"required,max=50"`
	Password  string `json:"password" binding:"required,min=6"`
	AvatarURL string `json:"avatar_url"`
	Role      string `json:"role" binding:"omitempty,oneof=user admin"`
}

type UserUpdateReq struct {
	Username  *string `json:"username" binding:"omitempty,max=50"`
	Password  *string `json:"password" binding:"omitempty,min=6"`
	AvatarURL *string `json:"avatar_url"`
	Role      *string `json:"role" binding:"omitempty,oneof=user admin"`
}

func (h *UserHandler) List(c *gin.Context) {
	limit, offset := pageParams(c)
	users, err := h.svc.List(c.Request.Context(), limit, offset)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"list": users})
}

func (h *UserHandler) GetByUsername(c *gin.Context) {
	user, err := h.svc.GetByUsername(c.Request.Context(), c.Param("username"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

func (h *UserHandler) MySubscriptions(c *gin.Context) {
	actor := middleware.ActorFrom(c)
	limit, offset := pageParams(c)

	list, err := h.svc.GetSubscriptions(c.Request.Context(), actor.ID, limit, offset)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"list": list})
}

func (h *UserHandler) Subscriptions(c *gin.Context) {
	limit, offset := pageParams(c)

	list, err := h.svc.GetSubscriptionsByUsername(c.Request.Context(), c.Param("username"), limit, offset)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"list": list})
}

func (h *UserHandler) Create(c *gin.Context) {
	actor := middleware.ActorFrom(c)

	var req UserCreateReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid params"})
		return
	}

	user, err := h.svc.Create(c.Request.Context(), actor, service.UserInput{
		Username:  req.Username,
		Password:  req.Password,
		AvatarURL: req.AvatarURL,
		Role:      req.Role,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

func (h *UserHandler) Update(c *gin.Context) {
	actor := middleware.ActorFrom(c)

	userID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid user id"})
		return
	}

	var req UserUpdateReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid params"})
		return
	}

	user, err := h.svc.Update(c.Request.Context(), actor, userID, service.UserUpdate{
		Username:  req.Username,
		Password:  req.Password,
		AvatarURL: req.AvatarURL,
		Role:      req.Role,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

func (h *UserHandler) Delete(c *gin.Context) {
	actor := middleware.ActorFrom(c)

	userID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid user id"})
		return
	}

	if err := h.svc.Delete(c.Request.Context(), actor, userID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"msg": "user has been deleted"})
}

func pageParams(c *gin.Context) (limit, offset int) {
	limit, _ = strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ = strconv.Atoi(c.DefaultQuery("offset", "0"))
	return limit, offset
}
