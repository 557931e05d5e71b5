package httputil

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/meridianswap/swap-engine/internal/common"
)

type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Success: true,
		Data:    data,
	})
}

func Error(c *gin.Context, status int, err string) {
	c.JSON(status, Response{
		Success: false,
		Error:   err,
	})
}

func BadRequest(c *gin.Context, err string) {
	Error(c, http.StatusBadRequest, err)
}

func InternalError(c *gin.Context, err string) {
	Error(c, http.StatusInternalServerError, err)
}

func NotFound(c *gin.Context, err string) {
	Error(c, http.StatusNotFound, err)
}

// HTTPError renders a structured HttpError with its own status code.
func HTTPError(c *gin.Context, httpErr *common.HttpError) {
	c.JSON(httpErr.StatusCode, Response{
		Success: false,
		Error:   httpErr.Message,
	})
}
