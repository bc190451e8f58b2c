package ginmw

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/reoring/jsonvet"
	"github.com/reoring/jsonvet/middleware"
)

// ValidateJSON validates the request body with v using opt (or
// DefaultParseOpt when zero value), stores the document in the context, and
// on failure aborts with 400 and an error payload.
func ValidateJSON(v jsonvet.Validator, opt jsonvet.ParseOpt) gin.HandlerFunc {
	opt = middleware.OrDefault(opt)
	return func(c *gin.Context) {
		doc, err := middleware.Check(c.Request, v, opt)
		if err != nil {
			es, _ := jsonvet.AsErrors(err)
			c.AbortWithStatusJSON(http.StatusBadRequest, middleware.ErrorPayload(es))
			return
		}
		c.Request = c.Request.WithContext(middleware.ContextWithDocument(c.Request.Context(), doc))
		c.Next()
	}
}

// GetDocument fetches the validated document from gin.Context.
func GetDocument(c *gin.Context) (jsonvet.Node, bool) {
	return middleware.DocumentFromContext(c.Request.Context())
}
