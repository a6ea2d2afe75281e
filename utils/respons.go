package utils

import (
	"github.com/gin-gonic/gin"
)

// JSONResponse adalah envelope standar semua endpoint. Message dipakai
// sebagai status tag (UPDATE_SUCCESS, ALREADY_IN_LIST, dst.) oleh core
// seating, dan sebagai pesan biasa oleh endpoint lain.
type JSONResponse struct {
	Status  bool        `json:"status"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

func RespondJSON(c *gin.Context, code int, message string, data interface{}) {
	c.JSON(code, JSONResponse{
		Status:  code >= 200 && code < 300,
		Message: message,
		Data:    data,
	})
}

func RespondError(c *gin.Context, code int, err error) {
	c.JSON(code, JSONResponse{
		Status:  false,
		Message: err.Error(),
		Data:    nil,
	})
}

// RespondTag -> rejection/error dengan machine-readable tag plus penjelasan
func RespondTag(c *gin.Context, code int, tag string, cause string) {
	c.JSON(code, JSONResponse{
		Status:  false,
		Message: tag,
		Data:    gin.H{"cause": cause},
	})
}
