package api

import (
	"net/http"

	"github.com/athena-edu/backend/internal/models"
	"github.com/athena-edu/backend/internal/repository"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// TeacherHandler serves the teacher directory used to pick a room
// supervisor.
type TeacherHandler struct {
	users    repository.UserRepository
	profiles repository.ProfileRepository
	logger   *zap.Logger
}

func NewTeacherHandler(users repository.UserRepository, profiles repository.ProfileRepository, logger *zap.Logger) *TeacherHandler {
	return &TeacherHandler{users: users, profiles: profiles, logger: logger}
}

type teacherEntry struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Teaching  string `json:"teaching"`
	Institute string `json:"institute"`
}

// List handles GET /v1/teachers. Teachers without a profile still appear
// in the directory, just with empty name fields.
func (h *TeacherHandler) List(c *gin.Context) {
	teachers, err := h.users.ListByRole(c.Request.Context(), models.RoleTeacher)
	if err != nil {
		h.logger.Error("failed to list teachers", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list teachers"})
		return
	}

	entries := make([]teacherEntry, 0, len(teachers))
	for _, t := range teachers {
		entry := teacherEntry{ID: t.ID.String(), Email: t.Email}
		profile, perr := h.profiles.GetTeacher(c.Request.Context(), t.ID)
		if perr != nil {
			h.logger.Warn("failed to load teacher profile",
				zap.String("user_id", t.ID.String()), zap.Error(perr))
		} else if profile != nil {
			entry.FirstName = profile.FirstName
			entry.LastName = profile.LastName
			entry.Teaching = profile.Teaching
			entry.Institute = profile.Institute
		}
		entries = append(entries, entry)
	}

	c.JSON(http.StatusOK, gin.H{"teachers": entries})
}
