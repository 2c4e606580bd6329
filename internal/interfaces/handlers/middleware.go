package handlers

import (
	"net/http"
	"strings"

	"knowledgehub-server/internal/domain/entities"
	"knowledgehub-server/internal/domain/services"
	"knowledgehub-server/internal/interfaces/dto"
	"knowledgehub-server/pkg/errors"

	"github.com/gin-gonic/gin"
)

const ctxUserKey = "currentUser"

func respondWithError(c *gin.Context, httpStatus int, message string) {
	c.JSON(httpStatus, dto.ErrorResponse{Error: message})
}

func handleServiceError(c *gin.Context, err error) {
	switch e := err.(type) {
	case *errors.BadRequestError:
		respondWithError(c, http.StatusBadRequest, e.Message)
	case *errors.UnauthorizedError:
		respondWithError(c, http.StatusUnauthorized, e.Message)
	case *errors.ForbiddenError:
		respondWithError(c, http.StatusForbidden, e.Message)
	case *errors.NotFoundError:
		respondWithError(c, http.StatusNotFound, e.Message)
	case *errors.InternalError:
		respondWithError(c, http.StatusInternalServerError, e.Message)
	default:
		respondWithError(c, http.StatusInternalServerError, "internal server error")
	}
}

func CORSMiddleware() gin.HandlerFunc {
	return gin.HandlerFunc(func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Credentials", "true")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Header("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	})
}

func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer ")
	}
	return ""
}

// AuthRequired resolves the bearer token and aborts with 401 when the
// session is missing or invalid. The 401 drives the client's
// session-expired transition.
func AuthRequired(authSvc *services.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			respondWithError(c, http.StatusUnauthorized, "no authentication token found")
			c.Abort()
			return
		}

		user, err := authSvc.ValidateToken(c.Request.Context(), token)
		if err != nil {
			handleServiceError(c, err)
			c.Abort()
			return
		}

		c.Set(ctxUserKey, user)
		c.Next()
	}
}

// OptionalAuth resolves the bearer token when present but lets
// anonymous requests through; visibility gating downgrades to
// PUBLIC-only results for them.
func OptionalAuth(authSvc *services.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if token := bearerToken(c); token != "" {
			if user, err := authSvc.ValidateToken(c.Request.Context(), token); err == nil {
				c.Set(ctxUserKey, user)
			}
		}
		c.Next()
	}
}

func AdminRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		user := currentUser(c)
		if user == nil || !user.IsAdmin() {
			respondWithError(c, http.StatusForbidden, "access denied, admin role required")
			c.Abort()
			return
		}
		c.Next()
	}
}

func currentUser(c *gin.Context) *entities.User {
	value, exists := c.Get(ctxUserKey)
	if !exists {
		return nil
	}
	user, ok := value.(*entities.User)
	if !ok {
		return nil
	}
	return user
}
