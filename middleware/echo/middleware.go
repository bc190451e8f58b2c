package echomw

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/reoring/jsonvet"
	"github.com/reoring/jsonvet/middleware"
)

// ValidateJSON validates the request body with v using opt (or
// DefaultParseOpt when zero value), stores the document in the context on
// success, or returns 400 with an error payload.
func ValidateJSON(v jsonvet.Validator, opt jsonvet.ParseOpt) echo.MiddlewareFunc {
	opt = middleware.OrDefault(opt)
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			doc, err := middleware.Check(c.Request(), v, opt)
			if err != nil {
				es, _ := jsonvet.AsErrors(err)
				return c.JSON(http.StatusBadRequest, middleware.ErrorPayload(es))
			}
			ctx := middleware.ContextWithDocument(c.Request().Context(), doc)
			c.SetRequest(c.Request().WithContext(ctx))
			return next(c)
		}
	}
}

// GetDocument fetches the validated document from echo.Context.
func GetDocument(c echo.Context) (jsonvet.Node, bool) {
	return middleware.DocumentFromContext(c.Request().Context())
}
