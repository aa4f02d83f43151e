package graph

import (
	"net/http"

	"github.com/graphql-go/graphql"
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/delibee-app/server/internal/middleware"
	"github.com/delibee-app/server/internal/models"
)

// request is the standard GraphQL POST body.
type request struct {
	Query         string         `json:"query"`
	OperationName string         `json:"operationName"`
	Variables     map[string]any `json:"variables"`
}

// Handler serves GraphQL over HTTP POST. The auth middleware stores the
// verified claims in the echo context; they are carried into resolvers via
// the request context.
func Handler(schema graphql.Schema) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req request
		if err := c.Bind(&req); err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
		}

		ctx := c.Request().Context()
		if claims, ok := c.Get(middleware.ContextUserKey).(*models.JwtCustomClaims); ok {
			if id, err := primitive.ObjectIDFromHex(claims.UserID); err == nil {
				ctx = WithAuthUser(ctx, id)
			}
		}

		result := graphql.Do(graphql.Params{
			Schema:         schema,
			RequestString:  req.Query,
			OperationName:  req.OperationName,
			VariableValues: req.Variables,
			Context:        ctx,
		})
		return c.JSON(http.StatusOK, result)
	}
}
