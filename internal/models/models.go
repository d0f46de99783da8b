package models

import (
	"time"

	"github.com/google/uuid"
)

// Roles known to the platform. Role is a plain string validated at the
// handler layer, not an enum type.
const (
	RoleStudent = "student"
	RoleTeacher = "teacher"
	RoleAdmin   = "admin"
)

// Room types. The type is derived from the creator's role at creation
// time and is immutable afterwards.
const (
	RoomTypeStudent = "student"
	RoomTypeTeacher = "teacher"
)

// User is an account. Profile data lives in the role-specific profile
// tables, not here.
type User struct {
	ID           uuid.UUID `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
}

// StudentProfile holds the student-only fields, keyed by user id.
type StudentProfile struct {
	UserID     uuid.UUID `json:"userId"`
	FirstName  string    `json:"firstName"`
	LastName   string    `json:"lastName"`
	Institute  string    `json:"institute"`
	Year       int       `json:"year"`
	Speciality string    `json:"speciality"`
	Phone      string    `json:"phone"`
	Skills     []string  `json:"skills"`
	Bio        string    `json:"bio"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// TeacherProfile holds the teacher-only fields, keyed by user id.
type TeacherProfile struct {
	UserID    uuid.UUID `json:"userId"`
	FirstName string    `json:"firstName"`
	LastName  string    `json:"lastName"`
	Teaching  string    `json:"teaching"`
	Institute string    `json:"institute"`
	Phone     string    `json:"phone"`
	Bio       string    `json:"bio"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Room is a bounded collaboration group. The member sets are stored as
// uuid arrays on the room row itself so that every membership transition
// is a single-row, single-statement update.
//
// Invariants the lifecycle service maintains:
//   - CreatorID is always present in Members.
//   - Members never intersects PendingRequests or InvitedUsers.
//   - len(Members) <= MaxMembers (best effort under concurrency, see
//     the repository's guarded updates).
type Room struct {
	ID                  uuid.UUID
	CreatorID           uuid.UUID
	Type                string
	Title               string
	Purpose             string
	SkillsNeeded        []string
	Deadline            time.Time
	TeacherSupervisorID *uuid.UUID
	MaxMembers          int
	Members             []uuid.UUID
	PendingRequests     []uuid.UUID
	InvitedUsers        []uuid.UUID
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// HasMember reports whether id is in the members set.
func (r *Room) HasMember(id uuid.UUID) bool {
	return containsID(r.Members, id)
}

// HasPending reports whether id has an unapproved join request.
func (r *Room) HasPending(id uuid.UUID) bool {
	return containsID(r.PendingRequests, id)
}

// HasInvite reports whether id has an open invitation.
func (r *Room) HasInvite(id uuid.UUID) bool {
	return containsID(r.InvitedUsers, id)
}

// IsFull reports whether the room reached its capacity.
func (r *Room) IsFull() bool {
	return len(r.Members) >= r.MaxMembers
}

func containsID(ids []uuid.UUID, id uuid.UUID) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

// RoomPatch is the set of creator-editable room fields. Nil means "field
// absent from the patch"; there is no way to unset a supervisor, matching
// the update semantics of the persisted document.
type RoomPatch struct {
	Title               *string
	Purpose             *string
	SkillsNeeded        []string
	Deadline            *time.Time
	MaxMembers          *int
	TeacherSupervisorID *uuid.UUID
}

// IsEmpty reports whether the patch carries no effective change.
func (p RoomPatch) IsEmpty() bool {
	return p.Title == nil &&
		p.Purpose == nil &&
		p.SkillsNeeded == nil &&
		p.Deadline == nil &&
		p.MaxMembers == nil &&
		p.TeacherSupervisorID == nil
}

// StudentProfilePatch is a partial student-profile update; nil means
// "leave unchanged".
type StudentProfilePatch struct {
	FirstName  *string
	LastName   *string
	Institute  *string
	Year       *int
	Speciality *string
	Phone      *string
	Skills     []string
	Bio        *string
}

func (p StudentProfilePatch) IsEmpty() bool {
	return p.FirstName == nil &&
		p.LastName == nil &&
		p.Institute == nil &&
		p.Year == nil &&
		p.Speciality == nil &&
		p.Phone == nil &&
		p.Skills == nil &&
		p.Bio == nil
}

// TeacherProfilePatch is a partial teacher-profile update.
type TeacherProfilePatch struct {
	FirstName *string
	LastName  *string
	Teaching  *string
	Institute *string
	Phone     *string
	Bio       *string
}

func (p TeacherProfilePatch) IsEmpty() bool {
	return p.FirstName == nil &&
		p.LastName == nil &&
		p.Teaching == nil &&
		p.Institute == nil &&
		p.Phone == nil &&
		p.Bio == nil
}
