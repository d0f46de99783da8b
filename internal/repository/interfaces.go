package repository

import (
	"context"

	"github.com/athena-edu/backend/internal/models"
	"github.com/google/uuid"
)

// RoomRepository is the persistence boundary for rooms.
//
// Every mutation method is a single atomic operation at the storage
// layer. The add-* methods are add-unique (a second add of the same id is
// a no-op), and ApprovePending/JoinMember move an id across two sets in
// one statement so no observable state ever has the id in both or in
// neither. Capacity checks stay in the service and are best effort by
// design.
type RoomRepository interface {
	// Insert persists a fully constructed room.
	Insert(ctx context.Context, room *models.Room) error

	// GetByID returns a room, or nil, nil if it does not exist.
	GetByID(ctx context.Context, roomID uuid.UUID) (*models.Room, error)

	// ListStudentVisible returns every student room plus the teacher
	// rooms where the user is invited or a member.
	ListStudentVisible(ctx context.Context, userID uuid.UUID) ([]models.Room, error)

	// ListCreatedOrSupervised returns rooms the user created or
	// supervises.
	ListCreatedOrSupervised(ctx context.Context, userID uuid.UUID) ([]models.Room, error)

	// ListByMember returns rooms where the user is a member.
	ListByMember(ctx context.Context, userID uuid.UUID) ([]models.Room, error)

	// UpdateFields applies the patch plus an updatedAt refresh and
	// returns the updated room (find-and-modify). Returns nil, nil if
	// the room vanished.
	UpdateFields(ctx context.Context, roomID uuid.UUID, patch models.RoomPatch) (*models.Room, error)

	// AddPending adds a user to pendingRequests (add-unique).
	AddPending(ctx context.Context, roomID, userID uuid.UUID) error

	// RemovePending removes a user from pendingRequests.
	RemovePending(ctx context.Context, roomID, userID uuid.UUID) error

	// ApprovePending removes the user from pendingRequests and adds them
	// to members in one atomic statement.
	ApprovePending(ctx context.Context, roomID, userID uuid.UUID) error

	// AddInvite adds a user to invitedUsers (add-unique).
	AddInvite(ctx context.Context, roomID, userID uuid.UUID) error

	// JoinMember adds the user to members and removes them from
	// invitedUsers in one atomic statement.
	JoinMember(ctx context.Context, roomID, userID uuid.UUID) error

	// RemoveMember removes a user from members.
	RemoveMember(ctx context.Context, roomID, userID uuid.UUID) error

	// Delete permanently removes the room. No soft delete.
	Delete(ctx context.Context, roomID uuid.UUID) error
}

// UserRepository handles account data.
type UserRepository interface {
	// Create inserts a new user. Email uniqueness is enforced by the
	// store.
	Create(ctx context.Context, email, passwordHash, role string) (*models.User, error)

	// GetByID returns a user, or nil, nil if not found.
	GetByID(ctx context.Context, userID uuid.UUID) (*models.User, error)

	// GetByEmail returns a user by email, or nil, nil if not found.
	GetByEmail(ctx context.Context, email string) (*models.User, error)

	// GetByIDAndRole returns the user only if it exists with the given
	// role; nil, nil otherwise. Used for supervisor and invitee checks.
	GetByIDAndRole(ctx context.Context, userID uuid.UUID, role string) (*models.User, error)

	// List returns all users, newest first.
	List(ctx context.Context) ([]models.User, error)

	// ListByRole returns all users with the given role.
	ListByRole(ctx context.Context, role string) ([]models.User, error)

	// Delete removes a user account.
	Delete(ctx context.Context, userID uuid.UUID) error

	// Count returns the total number of users.
	Count(ctx context.Context) (int64, error)

	// CountByRole returns the number of users with the given role.
	CountByRole(ctx context.Context, role string) (int64, error)
}

// ProfileRepository handles the role-specific profile documents.
type ProfileRepository interface {
	CreateStudent(ctx context.Context, profile *models.StudentProfile) error
	GetStudent(ctx context.Context, userID uuid.UUID) (*models.StudentProfile, error)
	// UpdateStudent applies non-nil fields and returns the updated
	// profile, or nil, nil if the profile does not exist.
	UpdateStudent(ctx context.Context, userID uuid.UUID, patch models.StudentProfilePatch) (*models.StudentProfile, error)
	DeleteStudent(ctx context.Context, userID uuid.UUID) error

	CreateTeacher(ctx context.Context, profile *models.TeacherProfile) error
	GetTeacher(ctx context.Context, userID uuid.UUID) (*models.TeacherProfile, error)
	UpdateTeacher(ctx context.Context, userID uuid.UUID, patch models.TeacherProfilePatch) (*models.TeacherProfile, error)
	DeleteTeacher(ctx context.Context, userID uuid.UUID) error
}
