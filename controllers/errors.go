package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"questbridge-api/services"
	"questbridge-api/utils"
)

var statusByKind = map[services.ErrorKind]int{
	services.KindNotFound:        http.StatusNotFound,
	services.KindForbidden:       http.StatusForbidden,
	services.KindUnauthorized:    http.StatusUnauthorized,
	services.KindConflict:        http.StatusConflict,
	services.KindInvalidArgument: http.StatusBadRequest,
	services.KindInvalidState:    http.StatusBadRequest,
}

// respondError writes a domain error with its mapped status. Anything else is
// attached to the context for ErrorHandler to log and answer with a 500.
func respondError(c *gin.Context, err error) {
	if e, ok := services.AsError(err); ok {
		status, known := statusByKind[e.Kind]
		if !known {
			status = http.StatusBadRequest
		}
		c.JSON(status, utils.ErrorResponse{
			Error:  e.Message,
			Code:   status,
			Status: string(e.Status),
		})
		return
	}
	_ = c.Error(err)
}
