package api

import (
	"net/http"

	"github.com/athena-edu/backend/internal/middleware"
	"github.com/athena-edu/backend/internal/models"
	"github.com/athena-edu/backend/internal/repository"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// AdminHandler is mounted behind RequireRole(admin).
type AdminHandler struct {
	users    repository.UserRepository
	profiles repository.ProfileRepository
	logger   *zap.Logger
}

func NewAdminHandler(users repository.UserRepository, profiles repository.ProfileRepository, logger *zap.Logger) *AdminHandler {
	return &AdminHandler{users: users, profiles: profiles, logger: logger}
}

type adminUserEntry struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	Role      string `json:"role"`
	FirstName string `json:"firstName,omitempty"`
	LastName  string `json:"lastName,omitempty"`
	CreatedAt string `json:"createdAt"`
}

// ListUsers handles GET /v1/admin/users: every account with the profile
// name joined in where one exists.
func (h *AdminHandler) ListUsers(c *gin.Context) {
	users, err := h.users.List(c.Request.Context())
	if err != nil {
		h.logger.Error("failed to list users", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list users"})
		return
	}

	entries := make([]adminUserEntry, 0, len(users))
	for _, u := range users {
		entry := adminUserEntry{
			ID:        u.ID.String(),
			Email:     u.Email,
			Role:      u.Role,
			CreatedAt: u.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
		}
		switch u.Role {
		case models.RoleStudent:
			if p, perr := h.profiles.GetStudent(c.Request.Context(), u.ID); perr == nil && p != nil {
				entry.FirstName = p.FirstName
				entry.LastName = p.LastName
			}
		case models.RoleTeacher:
			if p, perr := h.profiles.GetTeacher(c.Request.Context(), u.ID); perr == nil && p != nil {
				entry.FirstName = p.FirstName
				entry.LastName = p.LastName
			}
		}
		entries = append(entries, entry)
	}

	c.JSON(http.StatusOK, gin.H{"users": entries})
}

// DeleteUser handles DELETE /v1/admin/users/:userId. The role profile
// goes with the account; admins cannot delete themselves.
func (h *AdminHandler) DeleteUser(c *gin.Context) {
	userID, err := uuid.Parse(c.Param("userId"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}

	if userID == middleware.GetUserID(c) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "cannot delete your own account"})
		return
	}

	user, err := h.users.GetByID(c.Request.Context(), userID)
	if err != nil {
		h.logger.Error("failed to load user", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete user"})
		return
	}
	if user == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}

	switch user.Role {
	case models.RoleStudent:
		if err := h.profiles.DeleteStudent(c.Request.Context(), userID); err != nil {
			h.logger.Error("failed to delete student profile", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete user"})
			return
		}
	case models.RoleTeacher:
		if err := h.profiles.DeleteTeacher(c.Request.Context(), userID); err != nil {
			h.logger.Error("failed to delete teacher profile", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete user"})
			return
		}
	}

	if err := h.users.Delete(c.Request.Context(), userID); err != nil {
		h.logger.Error("failed to delete user", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete user"})
		return
	}

	h.logger.Info("user deleted",
		zap.String("user_id", userID.String()),
		zap.String("deleted_by", middleware.GetUserID(c).String()),
	)
	c.JSON(http.StatusOK, gin.H{"message": "user deleted successfully"})
}

// Stats handles GET /v1/admin/stats.
func (h *AdminHandler) Stats(c *gin.Context) {
	ctx := c.Request.Context()

	total, err := h.users.Count(ctx)
	if err != nil {
		h.logger.Error("failed to count users", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load stats"})
		return
	}

	stats := gin.H{"totalUsers": total}
	for _, role := range []string{models.RoleStudent, models.RoleTeacher, models.RoleAdmin} {
		n, cerr := h.users.CountByRole(ctx, role)
		if cerr != nil {
			h.logger.Error("failed to count users by role", zap.String("role", role), zap.Error(cerr))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load stats"})
			return
		}
		stats[role+"s"] = n
	}

	c.JSON(http.StatusOK, gin.H{"stats": stats})
}
