package responses

import "github.com/gin-gonic/gin"

type APIResponse struct {
	Status  string      `json:"status"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Meta    *Meta       `json:"meta,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// Meta describes list payloads.
type Meta struct {
	Count int `json:"count"`
}

func Success(c *gin.Context, statusCode int, data interface{}, message string) {
	c.JSON(statusCode, APIResponse{
		Status:  "success",
		Message: message,
		Data:    data,
	})
}

// List is Success for slices; it always emits an array and a count, even
// when items is empty.
func List[T any](c *gin.Context, statusCode int, items []T, message string) {
	if items == nil {
		items = []T{}
	}
	c.JSON(statusCode, APIResponse{
		Status:  "success",
		Message: message,
		Data:    items,
		Meta:    &Meta{Count: len(items)},
	})
}

func Fail(c *gin.Context, statusCode int, err error, message string) {
	resp := APIResponse{
		Status:  "error",
		Message: message,
	}
	if err != nil {
		resp.Error = err.Error()
	}
	c.JSON(statusCode, resp)
}
