package response

import "github.com/gin-gonic/gin"

func RespondJSON(c *gin.Context, status string, code int, message string, data interface{}, errors interface{}) {
	c.JSON(code, StandardApiResponse{
		Status:     status,
		StatusCode: code,
		Message:    message,
		Data:       data,
		Errors:     errors,
	})
}

// Success writes a success envelope with the given status code and payload.
func Success(c *gin.Context, code int, message string, data interface{}) {
	RespondJSON(c, "success", code, message, data, nil)
}

// Error writes an error envelope. details carries validation or conflict
// information such as the list of unavailable seats.
func Error(c *gin.Context, code int, message string, details interface{}) {
	RespondJSON(c, "error", code, message, nil, details)
}
