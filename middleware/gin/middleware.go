package ginmw

import (
	"github.com/gin-gonic/gin"

	"github.com/reoring/tinyskema"
	"github.com/reoring/tinyskema/middleware"
	"github.com/reoring/tinyskema/validation"
)

// Validate binds the request to t (and obj when non-nil), stores the record
// in the request context and under middleware.RecordKey, and aborts with the
// error payload on failure.
func Validate(t *tinyskema.Type, obj *validation.Object) gin.HandlerFunc {
	return func(c *gin.Context) {
		rec, err := middleware.Bind(c.Request, t, obj)
		if err != nil {
			c.AbortWithStatusJSON(middleware.Status(err), middleware.ErrorPayload(err))
			return
		}
		c.Request = c.Request.WithContext(middleware.ContextWithRecord(c.Request.Context(), rec))
		c.Set(middleware.RecordKey, rec)
		c.Next()
	}
}

// GetRecord fetches the validated record from gin.Context.
func GetRecord(c *gin.Context) (*tinyskema.Record, bool) {
	return middleware.RecordFromContext(c.Request.Context())
}
