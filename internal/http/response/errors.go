package response

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/cannon-backend/internal/platform/apierr"
)

// RespondAPIError writes err using its apierr status and code. Untyped errors become
// a 500 with fallbackCode.
func RespondAPIError(c *gin.Context, err error, fallbackCode string) {
	e := apierr.As(err, fallbackCode)
	if e == nil {
		return
	}
	RespondError(c, e.Status, e.Code, e)
}
