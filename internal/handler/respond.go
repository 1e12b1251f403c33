package handler

import (
	"net/http"

	"commune/internal/apperr"

	"github.com/gin-gonic/gin"
)

func respondError(c *gin.Context, err error) {
	switch apperr.KindOf(err) {
	case apperr.KindNotFound:
		c.JSON(http.StatusNotFound, gin.H{"msg": err.Error()})
	case apperr.KindConflict:
		c.JSON(http.StatusConflict, gin.H{"msg": err.Error()})
	case apperr.KindPermissionDenied:
		c.JSON(http.StatusForbidden, gin.H{"msg": err.Error()})
	case apperr.KindBadRequest:
		c.JSON(http.StatusBadRequest, gin.H{"msg": err.Error()})
	case apperr.KindUnauthenticated:
		c.JSON(http.StatusUnauthorized, gin.H{"msg": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"msg": "internal error"})
	}
}
