package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/workbin-dev/workbin/internal/auth"
	"github.com/workbin-dev/workbin/internal/store"
	"github.com/workbin-dev/workbin/internal/types"
	"github.com/workbin-dev/workbin/internal/utils"
	"gorm.io/datatypes"
)

type RegisterRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required,min=8"`
	Email    string `json:"email" binding:"omitempty,email"`
	FullName string `json:"full_name"`
}

// Token exchanges form-encoded credentials for a bearer token. Bad
// credentials always produce the same generic challenge, whether the
// username exists or not.
func Token(ctx *gin.Context) {
	username := strings.TrimSpace(ctx.PostForm("username"))
	password := ctx.PostForm("password")

	if username == "" || password == "" {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Username and password are required"})
		return
	}

	user, err := store.Authenticate(username, password)

	if err != nil {
		if errors.Is(err, store.ErrInvalidCredentials) {
			ctx.Header("WWW-Authenticate", "Bearer")
			ctx.JSON(http.StatusUnauthorized, gin.H{"error": "Incorrect username or password"})
			return
		}
		log.Printf("Database error when authenticating user: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	token, err := auth.GenerateToken(user.Username, auth.AccessTokenTTL())

	if err != nil {
		log.Printf("Failed to generate token: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	ctx.JSON(http.StatusOK, types.TokenResponse{
		AccessToken: token,
		TokenType:   "bearer",
	})
}

func Register(ctx *gin.Context) {
	var body RegisterRequest

	if err := ctx.BindJSON(&body); err != nil {
		log.Printf("Failed to bind JSON: %v", err)
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	body.Username = strings.TrimSpace(body.Username)

	var email *string

	if body.Email != "" {
		normalized := strings.ToLower(strings.TrimSpace(body.Email))
		email = &normalized
	}

	user, err := store.CreateUser(body.Username, body.Password, strings.TrimSpace(body.FullName), email)

	if err != nil {
		if errors.Is(err, store.ErrUserExists) {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "Username or email already exists"})
			return
		}
		log.Printf("Failed to create user: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	ctx.JSON(http.StatusCreated, gin.H{
		"user": types.UserResponse{
			ID:       user.ID,
			Username: user.Username,
			Email:    user.Email,
			FullName: user.FullName,
		},
	})
}

func Me(ctx *gin.Context) {
	currentUser, err := utils.GetCurrentUser(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"user": types.UserResponse{
			ID:       currentUser.ID,
			Username: currentUser.Username,
			Email:    currentUser.Email,
			FullName: currentUser.FullName,
		},
	})
}

func GetPreferences(ctx *gin.Context) {
	username, err := utils.GetCurrentUsername(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	user, err := store.FindUser(username)

	if err != nil {
		log.Printf("Failed to fetch user: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	preferences := json.RawMessage(user.Preferences)

	if len(preferences) == 0 {
		preferences = json.RawMessage("{}")
	}

	ctx.JSON(http.StatusOK, gin.H{"preferences": preferences})
}

func UpdatePreferences(ctx *gin.Context) {
	currentUser, err := utils.GetCurrentUser(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var body map[string]interface{}

	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	raw, err := json.Marshal(body)

	if err != nil {
		log.Printf("Failed to marshal preferences: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	if err := store.UpdatePreferences(currentUser.ID, datatypes.JSON(raw)); err != nil {
		log.Printf("Failed to update preferences: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"preferences": json.RawMessage(raw)})
}
