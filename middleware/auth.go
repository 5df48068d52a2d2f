package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/time/rate"
	"gorm.io/gorm"

	"transport-broker-api/config"
	"transport-broker-api/models"
)

// SessionCookieName is the cookie the browser frontend carries the session in.
const SessionCookieName = "session"

const sessionTTL = 7 * 24 * time.Hour

const claimsKey = "sessionClaims"

// Claims mirror the user/profile row at login time. There is no server-side
// session store, so they can go stale until the cookie expires.
type Claims struct {
	UserID       uint            `json:"user_id"`
	UserIDString string          `json:"user_id_string"`
	Role         models.UserRole `json:"role"`
	Email        string          `json:"email"`
	Name         string          `json:"name"`
	CompanyName  string          `json:"company_name,omitempty"`
	jwt.RegisteredClaims
}

// IssueSession creates a signed session token for a verified user.
func IssueSession(user *models.User, companyName string) (string, error) {
	claims := Claims{
		UserID:       user.ID,
		UserIDString: user.UserID,
		Role:         user.Role,
		Email:        user.Email,
		Name:         user.Name,
		CompanyName:  companyName,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(sessionTTL)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(config.JWTSecret)
}

// SetSessionCookie attaches the session token to the response.
func SetSessionCookie(c *gin.Context, token string) {
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     SessionCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(sessionTTL.Seconds()),
		HttpOnly: true,
		Secure:   gin.Mode() == gin.ReleaseMode,
		SameSite: http.SameSiteLaxMode,
	})
}

// ClearSessionCookie expires the session cookie. Logout is purely
// client-side; issued tokens stay valid until expiry.
func ClearSessionCookie(c *gin.Context) {
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   gin.Mode() == gin.ReleaseMode,
		SameSite: http.SameSiteLaxMode,
	})
}

func parseSession(tokenStr string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return config.JWTSecret, nil
	})
	if err != nil || !token.Valid {
		return nil, jwt.ErrTokenUnverifiable
	}
	return claims, nil
}

// sessionToken extracts the raw token from the cookie, falling back to an
// Authorization bearer header for non-browser API clients.
func sessionToken(c *gin.Context) string {
	if cookie, err := c.Request.Cookie(SessionCookieName); err == nil && cookie.Value != "" {
		return cookie.Value
	}
	authHeader := c.GetHeader("Authorization")
	if strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimPrefix(authHeader, "Bearer ")
	}
	return ""
}

// authenticate resolves the session into context claims. Aborts with 401
// and returns false when there is no usable session.
func authenticate(c *gin.Context) bool {
	tokenStr := sessionToken(c)
	if tokenStr == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "No session"})
		c.Abort()
		return false
	}
	claims, err := parseSession(tokenStr)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired session"})
		c.Abort()
		return false
	}
	c.Set(claimsKey, claims)
	return true
}

// AuthRequired validates the session and injects claims into the context.
// No session at all is a 401, distinct from the 403 RoleRequired yields.
func AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !authenticate(c) {
			return
		}
		c.Next()
	}
}

// AuthRequiredFresh is AuthRequired plus a live check that the user row
// still exists with the same role. Used on sensitive admin mutations where
// a stale cookie must not be honoured.
func AuthRequiredFresh(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !authenticate(c) {
			return
		}
		claims := GetClaims(c)
		var user models.User
		if err := db.Where("id = ? AND role = ?", claims.UserID, claims.Role).First(&user).Error; err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Session no longer valid"})
			c.Abort()
			return
		}
		c.Next()
	}
}

// RoleRequired enforces that caller has one of the allowed roles
func RoleRequired(roles ...models.UserRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := GetClaims(c)
		if claims == nil {
			c.JSON(http.StatusForbidden, gin.H{"error": "Role not found in context"})
			c.Abort()
			return
		}
		for _, r := range roles {
			if claims.Role == r {
				c.Next()
				return
			}
		}
		c.JSON(http.StatusForbidden, gin.H{
			"error": "Access denied. Required role(s): " + rolesString(roles),
		})
		c.Abort()
	}
}

func rolesString(roles []models.UserRole) string {
	s := ""
	for i, r := range roles {
		if i > 0 {
			s += ", "
		}
		s += string(r)
	}
	return s
}

// RateLimit rejects requests once the shared bucket is exhausted.
func RateLimit(limiter *rate.Limiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !limiter.Allow() {
			c.JSON(http.StatusTooManyRequests, gin.H{"error": "Too many requests. Please try again later."})
			c.Abort()
			return
		}
		c.Next()
	}
}

// GetClaims extracts the session claims from context, nil if absent.
func GetClaims(c *gin.Context) *Claims {
	val, ok := c.Get(claimsKey)
	if !ok {
		return nil
	}
	claims, _ := val.(*Claims)
	return claims
}

// GetUserID extracts caller numeric user ID from context
func GetUserID(c *gin.Context) uint {
	if claims := GetClaims(c); claims != nil {
		return claims.UserID
	}
	return 0
}

// GetRole extracts caller role from context
func GetRole(c *gin.Context) models.UserRole {
	if claims := GetClaims(c); claims != nil {
		return claims.Role
	}
	return ""
}
