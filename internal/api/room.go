package api

import (
	"net/http"
	"time"

	"github.com/athena-edu/backend/internal/middleware"
	"github.com/athena-edu/backend/internal/rooms"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RoomHandler is the HTTP face of the room lifecycle. It binds payloads
// and extracts the caller; every decision belongs to the service.
type RoomHandler struct {
	service *rooms.Service
	logger  *zap.Logger
}

func NewRoomHandler(service *rooms.Service, logger *zap.Logger) *RoomHandler {
	return &RoomHandler{service: service, logger: logger}
}

func caller(c *gin.Context) rooms.Caller {
	return rooms.Caller{
		UserID: middleware.GetUserID(c),
		Role:   middleware.GetRole(c),
	}
}

// createRoomRequest is the input schema. The 20-member upper bound lives
// here, not in the service.
type createRoomRequest struct {
	Title               string    `json:"title" binding:"required"`
	Purpose             string    `json:"purpose" binding:"required"`
	SkillsNeeded        []string  `json:"skillsNeeded"`
	Deadline            time.Time `json:"deadline" binding:"required"`
	MaxMembers          int       `json:"maxMembers" binding:"required,gte=2,lte=20"`
	TeacherSupervisorID string    `json:"teacherSupervisorId"`
}

type updateRoomRequest struct {
	Title               *string    `json:"title"`
	Purpose             *string    `json:"purpose"`
	SkillsNeeded        []string   `json:"skillsNeeded"`
	Deadline            *time.Time `json:"deadline"`
	MaxMembers          *int       `json:"maxMembers"`
	TeacherSupervisorID *string    `json:"teacherSupervisorId"`
}

type studentIDRequest struct {
	StudentID string `json:"studentId" binding:"required"`
}

// Create handles POST /v1/rooms/create
func (h *RoomHandler) Create(c *gin.Context) {
	var req createRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	view, err := h.service.Create(c.Request.Context(), caller(c), rooms.CreateInput{
		Title:               req.Title,
		Purpose:             req.Purpose,
		SkillsNeeded:        req.SkillsNeeded,
		Deadline:            req.Deadline,
		MaxMembers:          req.MaxMembers,
		TeacherSupervisorID: req.TeacherSupervisorID,
	})
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "room created successfully",
		"room":    view,
	})
}

// GetAll handles GET /v1/rooms/all
func (h *RoomHandler) GetAll(c *gin.Context) {
	list, err := h.service.GetAll(c.Request.Context(), caller(c))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"rooms": list})
}

// GetMine handles GET /v1/rooms/my
func (h *RoomHandler) GetMine(c *gin.Context) {
	list, err := h.service.GetMine(c.Request.Context(), caller(c))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"rooms": list})
}

// Get handles GET /v1/rooms/:roomId
func (h *RoomHandler) Get(c *gin.Context) {
	detail, err := h.service.Get(c.Request.Context(), c.Param("roomId"), caller(c))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, detail)
}

// Update handles PUT /v1/rooms/:roomId
func (h *RoomHandler) Update(c *gin.Context) {
	var req updateRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	view, err := h.service.Update(c.Request.Context(), c.Param("roomId"), caller(c), rooms.UpdateInput{
		Title:               req.Title,
		Purpose:             req.Purpose,
		SkillsNeeded:        req.SkillsNeeded,
		Deadline:            req.Deadline,
		MaxMembers:          req.MaxMembers,
		TeacherSupervisorID: req.TeacherSupervisorID,
	})
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "room updated successfully",
		"room":    view,
	})
}

// RequestJoin handles POST /v1/rooms/:roomId/request-join
func (h *RoomHandler) RequestJoin(c *gin.Context) {
	if err := h.service.RequestJoin(c.Request.Context(), c.Param("roomId"), caller(c)); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "join request sent successfully"})
}

// Approve handles POST /v1/rooms/:roomId/approve
func (h *RoomHandler) Approve(c *gin.Context) {
	var req studentIDRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.service.Approve(c.Request.Context(), c.Param("roomId"), caller(c), req.StudentID); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "join request approved"})
}

// Reject handles POST /v1/rooms/:roomId/reject
func (h *RoomHandler) Reject(c *gin.Context) {
	var req studentIDRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.service.Reject(c.Request.Context(), c.Param("roomId"), caller(c), req.StudentID); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "join request rejected"})
}

// Invite handles POST /v1/rooms/:roomId/invite
func (h *RoomHandler) Invite(c *gin.Context) {
	var req studentIDRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.service.Invite(c.Request.Context(), c.Param("roomId"), caller(c), req.StudentID); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "student invited successfully"})
}

// Join handles POST /v1/rooms/:roomId/join
func (h *RoomHandler) Join(c *gin.Context) {
	if err := h.service.Join(c.Request.Context(), c.Param("roomId"), caller(c)); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "joined room successfully"})
}

// Leave handles DELETE /v1/rooms/:roomId/leave
func (h *RoomHandler) Leave(c *gin.Context) {
	if err := h.service.Leave(c.Request.Context(), c.Param("roomId"), caller(c)); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "left room successfully"})
}

// Delete handles DELETE /v1/rooms/:roomId
func (h *RoomHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("roomId"), caller(c)); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "room deleted successfully"})
}

// Register mounts the room routes on an authenticated group.
func (h *RoomHandler) Register(rg *gin.RouterGroup) {
	rg.POST("/rooms/create", h.Create)
	rg.GET("/rooms/all", h.GetAll)
	rg.GET("/rooms/my", h.GetMine)
	rg.GET("/rooms/:roomId", h.Get)
	rg.PUT("/rooms/:roomId", h.Update)
	rg.POST("/rooms/:roomId/request-join", h.RequestJoin)
	rg.POST("/rooms/:roomId/approve", h.Approve)
	rg.POST("/rooms/:roomId/reject", h.Reject)
	rg.POST("/rooms/:roomId/invite", h.Invite)
	rg.POST("/rooms/:roomId/join", h.Join)
	rg.DELETE("/rooms/:roomId/leave", h.Leave)
	rg.DELETE("/rooms/:roomId", h.Delete)
}
