package api

import (
	"net/http"

	"github.com/athena-edu/backend/internal/middleware"
	"github.com/athena-edu/backend/internal/models"
	"github.com/athena-edu/backend/internal/repository"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ProfileHandler serves the caller's own role profile. The route group
// already gates by role, so a student can never reach the teacher
// profile endpoints.
type ProfileHandler struct {
	profiles repository.ProfileRepository
	logger   *zap.Logger
}

func NewProfileHandler(profiles repository.ProfileRepository, logger *zap.Logger) *ProfileHandler {
	return &ProfileHandler{profiles: profiles, logger: logger}
}

type updateStudentProfileRequest struct {
	FirstName  *string  `json:"firstName"`
	LastName   *string  `json:"lastName"`
	Institute  *string  `json:"institute"`
	Year       *int     `json:"year" binding:"omitempty,gte=1,lte=10"`
	Speciality *string  `json:"speciality"`
	Phone      *string  `json:"phone"`
	Skills     []string `json:"skills"`
	Bio        *string  `json:"bio"`
}

type updateTeacherProfileRequest struct {
	FirstName *string `json:"firstName"`
	LastName  *string `json:"lastName"`
	Teaching  *string `json:"teaching"`
	Institute *string `json:"institute"`
	Phone     *string `json:"phone"`
	Bio       *string `json:"bio"`
}

// GetStudent handles GET /v1/student/profile
func (h *ProfileHandler) GetStudent(c *gin.Context) {
	profile, err := h.profiles.GetStudent(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		h.logger.Error("failed to load student profile", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load profile"})
		return
	}
	if profile == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "profile not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"profile": profile})
}

// UpdateStudent handles PUT /v1/student/profile
func (h *ProfileHandler) UpdateStudent(c *gin.Context) {
	var req updateStudentProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	patch := models.StudentProfilePatch{
		FirstName:  req.FirstName,
		LastName:   req.LastName,
		Institute:  req.Institute,
		Year:       req.Year,
		Speciality: req.Speciality,
		Phone:      req.Phone,
		Skills:     req.Skills,
		Bio:        req.Bio,
	}
	if patch.IsEmpty() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no valid fields to update"})
		return
	}

	profile, err := h.profiles.UpdateStudent(c.Request.Context(), middleware.GetUserID(c), patch)
	if err != nil {
		h.logger.Error("failed to update student profile", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update profile"})
		return
	}
	if profile == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "profile not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "profile updated successfully",
		"profile": profile,
	})
}

// GetTeacher handles GET /v1/teacher/profile
func (h *ProfileHandler) GetTeacher(c *gin.Context) {
	profile, err := h.profiles.GetTeacher(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		h.logger.Error("failed to load teacher profile", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load profile"})
		return
	}
	if profile == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "profile not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"profile": profile})
}

// UpdateTeacher handles PUT /v1/teacher/profile
func (h *ProfileHandler) UpdateTeacher(c *gin.Context) {
	var req updateTeacherProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	patch := models.TeacherProfilePatch{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Teaching:  req.Teaching,
		Institute: req.Institute,
		Phone:     req.Phone,
		Bio:       req.Bio,
	}
	if patch.IsEmpty() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no valid fields to update"})
		return
	}

	profile, err := h.profiles.UpdateTeacher(c.Request.Context(), middleware.GetUserID(c), patch)
	if err != nil {
		h.logger.Error("failed to update teacher profile", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update profile"})
		return
	}
	if profile == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "profile not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "profile updated successfully",
		"profile": profile,
	})
}
