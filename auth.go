package main

import (
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"golang.org/x/crypto/bcrypt"
)

const minPasswordLength = 8

// dummyHash is compared against when a login username isn't found.
var dummyHash, _ = bcrypt.GenerateFromPassword([]byte("dummy"), bcrypt.DefaultCost)

type credentials struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// register creates a user with default preferences and returns its auth token.
// POST /api/register (public).
func (h *Handler) register(c *gin.Context) {
	var body credentials
	if err := c.ShouldBindJSON(&body); err != nil {
		apiError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	body.Username = strings.TrimSpace(body.Username)
	body.Email = strings.TrimSpace(strings.ToLower(body.Email))
	if body.Username == "" {
		apiError(c, http.StatusBadRequest, "username is required")
		return
	}
	if at := strings.Index(body.Email, "@"); at <= 0 || at == len(body.Email)-1 {
		apiError(c, http.StatusBadRequest, "invalid email format")
		return
	}
	if len(body.Password) < minPasswordLength {
		apiError(c, http.StatusBadRequest, "password must be at least 8 characters")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(body.Password), bcrypt.DefaultCost)
	if err != nil {
		apiError(c, http.StatusInternalServerError, "failed to hash password")
		return
	}
	token := uuid.New().String()

	// User row and its preferences row go in together so a user never exists
	// without preferences.
	tx, err := h.db.Begin(c)
	if err != nil {
		log.Printf("[register] begin: %v", err)
		apiError(c, http.StatusInternalServerError, "failed to create user")
		return
	}
	defer tx.Rollback(c)

	var userID int
	err = tx.QueryRow(c,
		`INSERT INTO users (username, email, password, auth_token)
		 VALUES (@username, @email, @password, @token) RETURNING id`,
		pgx.NamedArgs{"username": body.Username, "email": body.Email, "password": string(hash), "token": token},
	).Scan(&userID)
	if err != nil {
		if isUniqueViolation(err) {
			apiError(c, http.StatusConflict, "username already exists")
			return
		}
		log.Printf("[register] insert user: %v", err)
		apiError(c, http.StatusInternalServerError, "failed to create user")
		return
	}

	if _, err := tx.Exec(c, "INSERT INTO user_preferences (user_id) VALUES (@userID)",
		pgx.NamedArgs{"userID": userID}); err != nil {
		log.Printf("[register] insert preferences for user %d: %v", userID, err)
		apiError(c, http.StatusInternalServerError, "failed to create user")
		return
	}
	if err := tx.Commit(c); err != nil {
		log.Printf("[register] commit: %v", err)
		apiError(c, http.StatusInternalServerError, "failed to create user")
		return
	}

	c.JSON(http.StatusCreated, gin.H{"token": token, "user_id": userID})
}

// login verifies username/password and returns the user's auth token.
// POST /api/login (public, rate limited per client).
func (h *Handler) login(c *gin.Context) {
	var body credentials
	if err := c.ShouldBindJSON(&body); err != nil {
		apiError(c, http.StatusBadRequest, "invalid request body")
		return
	}

	u, lookupErr := queryOne[user](h.db, c,
		"SELECT * FROM users WHERE username = @username",
		pgx.NamedArgs{"username": strings.TrimSpace(body.Username)})

	// bcrypt runs whether or not the username was found.
	hashToCheck := string(dummyHash)
	if lookupErr == nil {
		hashToCheck = u.Password
	}
	compareErr := bcrypt.CompareHashAndPassword([]byte(hashToCheck), []byte(body.Password))

	if lookupErr != nil || compareErr != nil {
		apiError(c, http.StatusUnauthorized, "invalid credentials")
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": u.AuthToken, "user_id": u.ID})
}

// authMiddleware validates the Bearer token and sets user_id on the context.
func (h *Handler) authMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			apiError(c, http.StatusUnauthorized, "missing or invalid authorization header")
			c.Abort()
			return
		}
		token := strings.TrimPrefix(header, "Bearer ")
		if _, err := uuid.Parse(token); err != nil {
			apiError(c, http.StatusUnauthorized, "invalid token")
			c.Abort()
			return
		}

		var userID int
		err := h.db.QueryRow(c, "SELECT id FROM users WHERE auth_token = $1", token).Scan(&userID)
		if err != nil {
			apiError(c, http.StatusUnauthorized, "invalid token")
			c.Abort()
			return
		}

		c.Set("user_id", userID)
		c.Next()
	}
}
