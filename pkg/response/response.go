package response

import (
	"github.com/gin-gonic/gin"
)

// Body is the common `{message, ...}` shape every endpoint speaks.
type Body struct {
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
	Error   any    `json:"error,omitempty"`
}

// ListBody is the collection shape used by task listings. Count is always
// present, so an empty result is still distinguishable from an error.
type ListBody struct {
	Message string `json:"message"`
	Data    any    `json:"data"`
	Count   int    `json:"count"`
}

// Message writes a bare confirmation.
func Message(c *gin.Context, status int, message string) {
	c.JSON(status, Body{Message: message})
}

// Data writes a message plus payload.
func Data(c *gin.Context, status int, message string, data any) {
	c.JSON(status, Body{Message: message, Data: data})
}

// List writes the collection shape with its count.
func List(c *gin.Context, status int, message string, data any, count int) {
	c.JSON(status, ListBody{Message: message, Data: data, Count: count})
}

// Error writes an error body. detail is included only when the caller decides
// it is safe (handlers pass nil outside development mode).
func Error(c *gin.Context, status int, message string, detail any) {
	c.JSON(status, Body{Message: message, Error: detail})
}

// AbortError writes an error body and stops the handler chain; for middleware.
func AbortError(c *gin.Context, status int, message string, detail any) {
	c.AbortWithStatusJSON(status, Body{Message: message, Error: detail})
}
