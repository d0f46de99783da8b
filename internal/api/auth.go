package api

import (
	"net/http"
	"time"

	"github.com/athena-edu/backend/internal/auth"
	"github.com/athena-edu/backend/internal/middleware"
	"github.com/athena-edu/backend/internal/models"
	"github.com/athena-edu/backend/internal/repository"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// AuthHandler handles registration, login and token refresh. Register
// and login are the only public endpoints; everything else requires the
// access token these produce.
type AuthHandler struct {
	users      repository.UserRepository
	profiles   repository.ProfileRepository
	jwtSecret  string
	accessTTL  time.Duration
	refreshTTL time.Duration
	logger     *zap.Logger
}

func NewAuthHandler(
	users repository.UserRepository,
	profiles repository.ProfileRepository,
	jwtSecret string,
	accessTTL, refreshTTL time.Duration,
	logger *zap.Logger,
) *AuthHandler {
	return &AuthHandler{
		users:      users,
		profiles:   profiles,
		jwtSecret:  jwtSecret,
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		logger:     logger,
	}
}

type registerStudentRequest struct {
	Email      string   `json:"email" binding:"required,email"`
	Password   string   `json:"password" binding:"required,min=8"`
	FirstName  string   `json:"firstName" binding:"required"`
	LastName   string   `json:"lastName" binding:"required"`
	Institute  string   `json:"institute" binding:"required"`
	Year       int      `json:"year" binding:"required,gte=1,lte=10"`
	Speciality string   `json:"speciality" binding:"required"`
	Phone      string   `json:"phone"`
	Skills     []string `json:"skills"`
	Bio        string   `json:"bio"`
}

type registerTeacherRequest struct {
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required,min=8"`
	FirstName string `json:"firstName" binding:"required"`
	LastName  string `json:"lastName" binding:"required"`
	Teaching  string `json:"teaching" binding:"required"`
	Institute string `json:"institute" binding:"required"`
	Phone     string `json:"phone"`
	Bio       string `json:"bio"`
}

type registerAdminRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken" binding:"required"`
}

// tokenPair is returned by register, login and (access only) refresh.
type tokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken,omitempty"`
	TokenType    string `json:"tokenType"`
}

// hashPassword truncates to 72 bytes before hashing; bcrypt ignores the
// rest anyway and newer versions reject longer inputs outright.
func hashPassword(password string) (string, error) {
	raw := []byte(password)
	if len(raw) > 72 {
		raw = raw[:72]
	}
	hash, err := bcrypt.GenerateFromPassword(raw, bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func checkPassword(hash, password string) bool {
	raw := []byte(password)
	if len(raw) > 72 {
		raw = raw[:72]
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), raw) == nil
}

func (h *AuthHandler) issueTokens(userID uuid.UUID, email, role string) (*tokenPair, error) {
	access, err := auth.GenerateToken(userID, email, role, auth.TokenTypeAccess, h.jwtSecret, h.accessTTL)
	if err != nil {
		return nil, err
	}
	refresh, err := auth.GenerateToken(userID, email, role, auth.TokenTypeRefresh, h.jwtSecret, h.refreshTTL)
	if err != nil {
		return nil, err
	}
	return &tokenPair{AccessToken: access, RefreshToken: refresh, TokenType: "bearer"}, nil
}

// createAccount is the shared register path: reject duplicate emails,
// hash, insert.
func (h *AuthHandler) createAccount(c *gin.Context, email, password, role string) *models.User {
	existing, err := h.users.GetByEmail(c.Request.Context(), email)
	if err != nil {
		h.logger.Error("failed to check existing user", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "registration failed"})
		return nil
	}
	if existing != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "email already registered"})
		return nil
	}

	hash, err := hashPassword(password)
	if err != nil {
		h.logger.Error("failed to hash password", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "registration failed"})
		return nil
	}

	user, err := h.users.Create(c.Request.Context(), email, hash, role)
	if err != nil {
		h.logger.Error("failed to create user", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "registration failed"})
		return nil
	}
	return user
}

// RegisterStudent handles POST /v1/auth/register/student
func (h *AuthHandler) RegisterStudent(c *gin.Context) {
	var req registerStudentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user := h.createAccount(c, req.Email, req.Password, models.RoleStudent)
	if user == nil {
		return
	}

	skills := req.Skills
	if skills == nil {
		skills = []string{}
	}
	now := time.Now().UTC()
	profile := &models.StudentProfile{
		UserID:     user.ID,
		FirstName:  req.FirstName,
		LastName:   req.LastName,
		Institute:  req.Institute,
		Year:       req.Year,
		Speciality: req.Speciality,
		Phone:      req.Phone,
		Skills:     skills,
		Bio:        req.Bio,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := h.profiles.CreateStudent(c.Request.Context(), profile); err != nil {
		h.logger.Error("failed to create student profile", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "registration failed"})
		return
	}

	tokens, err := h.issueTokens(user.ID, user.Email, user.Role)
	if err != nil {
		h.logger.Error("failed to issue tokens", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "registration failed"})
		return
	}

	h.logger.Info("student registered", zap.String("user_id", user.ID.String()))
	c.JSON(http.StatusCreated, gin.H{
		"message": "student registered successfully",
		"user": gin.H{
			"id":        user.ID,
			"email":     user.Email,
			"role":      user.Role,
			"firstName": profile.FirstName,
			"lastName":  profile.LastName,
		},
		"tokens": tokens,
	})
}

// RegisterTeacher handles POST /v1/auth/register/teacher
func (h *AuthHandler) RegisterTeacher(c *gin.Context) {
	var req registerTeacherRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user := h.createAccount(c, req.Email, req.Password, models.RoleTeacher)
	if user == nil {
		return
	}

	now := time.Now().UTC()
	profile := &models.TeacherProfile{
		UserID:    user.ID,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Teaching:  req.Teaching,
		Institute: req.Institute,
		Phone:     req.Phone,
		Bio:       req.Bio,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := h.profiles.CreateTeacher(c.Request.Context(), profile); err != nil {
		h.logger.Error("failed to create teacher profile", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "registration failed"})
		return
	}

	tokens, err := h.issueTokens(user.ID, user.Email, user.Role)
	if err != nil {
		h.logger.Error("failed to issue tokens", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "registration failed"})
		return
	}

	h.logger.Info("teacher registered", zap.String("user_id", user.ID.String()))
	c.JSON(http.StatusCreated, gin.H{
		"message": "teacher registered successfully",
		"user": gin.H{
			"id":        user.ID,
			"email":     user.Email,
			"role":      user.Role,
			"firstName": profile.FirstName,
			"lastName":  profile.LastName,
		},
		"tokens": tokens,
	})
}

// RegisterAdmin handles POST /v1/auth/register/admin. Mounted behind
// RequireRole(admin): only an existing admin can mint another one.
func (h *AuthHandler) RegisterAdmin(c *gin.Context) {
	var req registerAdminRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user := h.createAccount(c, req.Email, req.Password, models.RoleAdmin)
	if user == nil {
		return
	}

	h.logger.Info("admin registered",
		zap.String("user_id", user.ID.String()),
		zap.String("created_by", middleware.GetUserID(c).String()),
	)
	c.JSON(http.StatusCreated, gin.H{
		"message": "admin registered successfully",
		"user": gin.H{
			"id":    user.ID,
			"email": user.Email,
			"role":  user.Role,
		},
	})
}

// Login handles POST /v1/auth/login. The failure message never says
// whether the email or the password was wrong.
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.users.GetByEmail(c.Request.Context(), req.Email)
	if err != nil {
		h.logger.Error("failed to look up user", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "login failed"})
		return
	}
	if user == nil || !checkPassword(user.PasswordHash, req.Password) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid email or password"})
		return
	}

	tokens, err := h.issueTokens(user.ID, user.Email, user.Role)
	if err != nil {
		h.logger.Error("failed to issue tokens", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "login failed"})
		return
	}

	payload := gin.H{
		"id":    user.ID,
		"email": user.Email,
		"role":  user.Role,
	}
	switch user.Role {
	case models.RoleStudent:
		if p, perr := h.profiles.GetStudent(c.Request.Context(), user.ID); perr == nil && p != nil {
			payload["firstName"] = p.FirstName
			payload["lastName"] = p.LastName
		}
	case models.RoleTeacher:
		if p, perr := h.profiles.GetTeacher(c.Request.Context(), user.ID); perr == nil && p != nil {
			payload["firstName"] = p.FirstName
			payload["lastName"] = p.LastName
		}
	}

	h.logger.Info("user logged in", zap.String("user_id", user.ID.String()))
	c.JSON(http.StatusOK, gin.H{
		"message": "login successful",
		"user":    payload,
		"tokens":  tokens,
	})
}

// Refresh handles POST /v1/auth/refresh: trades a valid refresh token
// for a fresh access token. Access tokens are rejected here the same way
// refresh tokens are rejected by the auth middleware.
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req refreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	claims, err := auth.ParseToken(req.RefreshToken, h.jwtSecret)
	if err != nil || claims.TokenType != auth.TokenTypeRefresh {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid refresh token"})
		return
	}

	// the account may have been deleted since the token was issued
	user, err := h.users.GetByID(c.Request.Context(), claims.UserID)
	if err != nil {
		h.logger.Error("failed to look up user", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "refresh failed"})
		return
	}
	if user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid refresh token"})
		return
	}

	access, err := auth.GenerateToken(user.ID, user.Email, user.Role, auth.TokenTypeAccess, h.jwtSecret, h.accessTTL)
	if err != nil {
		h.logger.Error("failed to issue access token", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "refresh failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"tokens": tokenPair{AccessToken: access, TokenType: "bearer"},
	})
}
