package api

import (
	"github.com/gin-gonic/gin"
)

type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

type envelope struct {
	Ok    bool      `json:"ok"`
	Data  any       `json:"data,omitempty"`
	Error *apiError `json:"error,omitempty"`
}

func success(c *gin.Context, status int, data any) {
	c.JSON(status, envelope{Ok: true, Data: data})
}

func failure(c *gin.Context, status int, code, message string) {
	c.AbortWithStatusJSON(status, envelope{
		Ok:    false,
		Error: &apiError{Code: code, Message: message},
	})
}
