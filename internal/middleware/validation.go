package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/rankpredictor/internal/app/models/dto"
)

// BindQuery binds and validates query parameters into obj. On failure it
// writes a 400 response and returns false.
func BindQuery(c *gin.Context, obj interface{}) bool {
	if err := c.ShouldBindQuery(obj); err != nil {
		abortValidation(c, err)
		return false
	}
	return true
}

// BindURI binds and validates path parameters into obj
func BindURI(c *gin.Context, obj interface{}) bool {
	if err := c.ShouldBindUri(obj); err != nil {
		abortValidation(c, err)
		return false
	}
	return true
}

func abortValidation(c *gin.Context, err error) {
	c.AbortWithStatusJSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
}
