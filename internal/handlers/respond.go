package handlers

import (
	"github.com/gin-gonic/gin"

	"admin-service/internal/models"
)

func respondError(c *gin.Context, status int, code, message string) {
	c.JSON(status, models.ErrorResponse{
		Success: false,
		Error: models.Error{
			Code:    code,
			Message: message,
		},
	})
}

func respondData(c *gin.Context, status int, data interface{}) {
	c.JSON(status, models.SuccessResponse{
		Success: true,
		Data:    data,
	})
}

func respondMessage(c *gin.Context, status int, data interface{}, message string) {
	c.JSON(status, models.SuccessResponse{
		Success: true,
		Data:    data,
		Message: &message,
	})
}
