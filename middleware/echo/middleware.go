package echomw

import (
	"github.com/labstack/echo/v4"

	"github.com/reoring/tinyskema"
	"github.com/reoring/tinyskema/middleware"
	"github.com/reoring/tinyskema/validation"
)

// Validate binds the request to t (and obj when non-nil), stores the record
// in the request context and under middleware.RecordKey, or answers with the
// error payload on failure.
func Validate(t *tinyskema.Type, obj *validation.Object) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			rec, err := middleware.Bind(c.Request(), t, obj)
			if err != nil {
				return c.JSON(middleware.Status(err), middleware.ErrorPayload(err))
			}
			c.SetRequest(c.Request().WithContext(middleware.ContextWithRecord(c.Request().Context(), rec)))
			c.Set(middleware.RecordKey, rec)
			return next(c)
		}
	}
}

// GetRecord fetches the validated record from echo.Context.
func GetRecord(c echo.Context) (*tinyskema.Record, bool) {
	return middleware.RecordFromContext(c.Request().Context())
}
