package rooms

import (
	"time"

	"github.com/athena-edu/backend/internal/models"
	"github.com/google/uuid"
)

// Caller is the authenticated identity every operation acts on behalf
// of. It comes from the JWT claims, never from the request body.
type Caller struct {
	UserID uuid.UUID
	Role   string
}

// NewRoom constructs a well-formed room record: the creator is the sole
// member, both workflow sets start empty, and the type is already
// decided by the service. No validation happens here.
func NewRoom(creatorID uuid.UUID, roomType, title, purpose string, skillsNeeded []string, deadline time.Time, maxMembers int, teacherSupervisorID *uuid.UUID) *models.Room {
	if skillsNeeded == nil {
		skillsNeeded = []string{}
	}
	now := time.Now().UTC()
	return &models.Room{
		ID:                  uuid.New(),
		CreatorID:           creatorID,
		Type:                roomType,
		Title:               title,
		Purpose:             purpose,
		SkillsNeeded:        skillsNeeded,
		Deadline:            deadline,
		TeacherSupervisorID: teacherSupervisorID,
		MaxMembers:          maxMembers,
		Members:             []uuid.UUID{creatorID},
		PendingRequests:     []uuid.UUID{},
		InvitedUsers:        []uuid.UUID{},
		CreatedAt:           now,
		UpdatedAt:           now,
	}
}

// View is the wire shape of a room: ids stringified, timestamps rendered
// as RFC 3339. roomId duplicates _id for frontend compatibility.
type View struct {
	ID                  string   `json:"_id"`
	RoomID              string   `json:"roomId"`
	CreatorID           string   `json:"creatorId"`
	Type                string   `json:"type"`
	Title               string   `json:"title"`
	Purpose             string   `json:"purpose"`
	SkillsNeeded        []string `json:"skillsNeeded"`
	Deadline            string   `json:"deadline"`
	TeacherSupervisorID *string  `json:"teacherSupervisorId"`
	MaxMembers          int      `json:"maxMembers"`
	Members             []string `json:"members"`
	PendingRequests     []string `json:"pendingRequests"`
	InvitedUsers        []string `json:"invitedUsers"`
	CreatedAt           string   `json:"createdAt"`
	UpdatedAt           string   `json:"updatedAt"`
}

// DetailView is a View merged with the viewer context for the caller.
type DetailView struct {
	View
	IsMember  bool `json:"isMember"`
	IsCreator bool `json:"isCreator"`
	CanJoin   bool `json:"canJoin"`
	Pending   bool `json:"pending"`
}

// Project renders a stored room as a View. Pure: it never mutates its
// argument. Returns nil for nil input.
func Project(room *models.Room) *View {
	if room == nil {
		return nil
	}

	var supervisor *string
	if room.TeacherSupervisorID != nil {
		s := room.TeacherSupervisorID.String()
		supervisor = &s
	}

	skills := make([]string, len(room.SkillsNeeded))
	copy(skills, room.SkillsNeeded)

	return &View{
		ID:                  room.ID.String(),
		RoomID:              room.ID.String(),
		CreatorID:           room.CreatorID.String(),
		Type:                room.Type,
		Title:               room.Title,
		Purpose:             room.Purpose,
		SkillsNeeded:        skills,
		Deadline:            room.Deadline.Format(time.RFC3339),
		TeacherSupervisorID: supervisor,
		MaxMembers:          room.MaxMembers,
		Members:             idStrings(room.Members),
		PendingRequests:     idStrings(room.PendingRequests),
		InvitedUsers:        idStrings(room.InvitedUsers),
		CreatedAt:           room.CreatedAt.Format(time.RFC3339),
		UpdatedAt:           room.UpdatedAt.Format(time.RFC3339),
	}
}

// ProjectAll renders a slice of rooms; an empty slice stays an empty
// slice so it serializes as [].
func ProjectAll(list []models.Room) []View {
	views := make([]View, 0, len(list))
	for i := range list {
		views = append(views, *Project(&list[i]))
	}
	return views
}

func idStrings(ids []uuid.UUID) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		out = append(out, id.String())
	}
	return out
}
