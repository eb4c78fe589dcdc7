package handler

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
	"github.com/inkwell/internal/db"
	"github.com/inkwell/internal/service"
	"gorm.io/gorm"
)

const authUserContextKey = "__auth_user"

type authClaims struct {
	UserID uint   `json:"userId"`
	Email  string `json:"email"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Login 校验邮箱密码并签发 Bearer 令牌。
func (a *API) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "email and password are required"})
		return
	}

	user, err := a.users.Authenticate(req.Email, req.Password)
	if err != nil {
		var permission *service.PermissionError
		if errors.As(err, &permission) {
			c.JSON(http.StatusUnauthorized, gin.H{"message": "Invalid credentials"})
			return
		}
		writeServiceError(c, err)
		return
	}

	claims := authClaims{
		UserID: user.ID,
		Email:  user.Email,
		Role:   user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(7 * 24 * time.Hour)),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(a.jwtSecret)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token": token,
		"user": gin.H{
			"id":    user.ID,
			"name":  user.Name,
			"email": user.Email,
			"role":  user.Role,
		},
	})
}

// AuthRequired 解析 Bearer 令牌并将对应的活跃用户写入请求上下文。
func (a *API) AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token := strings.TrimPrefix(header, "Bearer ")
		if token == "" || token == header {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Access denied. No token provided."})
			return
		}

		claims := &authClaims{}
		parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, errors.New("unexpected signing method")
			}
			return a.jwtSecret, nil
		})
		if err != nil || !parsed.Valid {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Invalid token."})
			return
		}

		var user db.User
		if err := a.db.First(&user, claims.UserID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Invalid token or user inactive."})
				return
			}
			writeServiceError(c, err)
			c.Abort()
			return
		}
		if !user.IsActive {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Invalid token or user inactive."})
			return
		}

		c.Set(authUserContextKey, user)
		c.Next()
	}
}

// RequireRole 仅放行持有任一给定角色的用户。
func (a *API) RequireRole(roles ...string) gin.HandlerFunc {
	allowed := make(map[string]bool, len(roles))
	for _, role := range roles {
		allowed[role] = true
	}

	return func(c *gin.Context) {
		user, ok := currentUser(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Access denied. Not authenticated."})
			return
		}
		if !allowed[user.Role] {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"message": "Access denied. Insufficient permissions."})
			return
		}
		c.Next()
	}
}

func currentUser(c *gin.Context) (db.User, bool) {
	value, exists := c.Get(authUserContextKey)
	if !exists {
		return db.User{}, false
	}
	user, ok := value.(db.User)
	return user, ok
}

func currentActor(c *gin.Context) (service.Actor, bool) {
	user, ok := currentUser(c)
	if !ok {
		return service.Actor{}, false
	}
	return service.Actor{UserID: user.ID, Role: user.Role}, true
}
