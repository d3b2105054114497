package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/Miraines/MoonyAndStarry/account-service/internal/app/account/authn"
)

// AuthContext кладёт AuthResult в контекст запроса. Ошибок не бывает:
// невалидный токен превращается в анонимный запрос.
func AuthContext(resolver *authn.Resolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		ar := resolver.Resolve(c.GetHeader("Authorization"))
		c.Request = c.Request.WithContext(authn.WithContext(c.Request.Context(), ar))
		c.Next()
	}
}
