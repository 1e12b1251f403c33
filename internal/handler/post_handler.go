package handler

import (
	"net/http"
	"strconv"

	"commune/internal/middleware"
	"commune/internal/model"
	"commune/internal/service"

	"github.com/gin-gonic/gin"
)

type PostHandler struct {
	svc *service.PostService
}

func NewPostHandler(svc *service.PostService) *PostHandler {
	return &PostHandler{svc: svc}
}

type PostCreateReq struct {
	Title       string `json:"title" binding:"required,max=50"`
	Text        string `json:"text" binding:"max=500"`
	CommunityID uint64 `json:"community_id" binding:"required"`
}

type PostUpdateReq struct {
	Title *string `json:"title" binding:"omitempty,max=50"`
	Text  *string `json:"text" binding:"omitempty,max=500"`
}

func (h *PostHandler) List(c *gin.Context) {
	limit, offset := pageParams(c)

	var filter model.PostFilter
	if v, err := strconv.ParseUint(c.Query("owner_id"), 10, 64); err == nil {
		filter.OwnerID = &v
	}
	if v, err := strconv.ParseUint(c.Query("community_id"), 10, 64); err == nil {
		filter.CommunityID = &v
	}

	list, err := h.svc.List(c.Request.Context(), filter, limit, offset)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"list": list})
}

func (h *PostHandler) Get(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid post id"})
		return
	}

	post, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, post)
}

func (h *PostHandler) Create(c *gin.Context) {
	actor := middleware.ActorFrom(c)

	var req PostCreateReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid params"})
		return
	}

	post, err := h.svc.Create(c.Request.Context(), actor, service.PostInput{
		Title:       req.Title,
		Text:        req.Text,
		CommunityID: req.CommunityID,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, post)
}

func (h *PostHandler) Update(c *gin.Context) {
	actor := middleware.ActorFrom(c)

	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid post id"})
		return
	}

	var req PostUpdateReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid params"})
		return
	}

	post, err := h.svc.Update(c.Request.Context(), actor, id, service.PostUpdate{
		Title: req.Title,
		Text:  req.Text,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, post)
}

func (h *PostHandler) Delete(c *gin.Context) {
	actor := middleware.ActorFrom(c)

	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid post id"})
		return
	}

	if err := h.svc.Delete(c.Request.Context(), actor, id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"msg": "post has been deleted"})
}
