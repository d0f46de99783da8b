package rooms

import (
	"context"
	"fmt"
	"time"

	"github.com/athena-edu/backend/internal/models"
	"github.com/athena-edu/backend/internal/repository"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Service owns every room state transition. Handlers never touch the
// room repository directly; all precondition checks live here.
//
// Concurrency: no locks. The service reads the room, checks
// preconditions, and then issues one atomic repository mutation. The
// capacity check is therefore best effort (two racing approvals can both
// observe space), but set exclusivity between members, pendingRequests
// and invitedUsers is guaranteed by the combined single-statement
// updates.
type Service struct {
	rooms  repository.RoomRepository
	users  repository.UserRepository
	logger *zap.Logger
}

func NewService(rooms repository.RoomRepository, users repository.UserRepository, logger *zap.Logger) *Service {
	return &Service{rooms: rooms, users: users, logger: logger}
}

// CreateInput carries the validated create payload. The upper maxMembers
// bound is enforced by the binding layer; the service only re-checks the
// lower one.
type CreateInput struct {
	Title               string
	Purpose             string
	SkillsNeeded        []string
	Deadline            time.Time
	MaxMembers          int
	TeacherSupervisorID string
}

// UpdateInput is the partial update payload; nil means absent.
type UpdateInput struct {
	Title               *string
	Purpose             *string
	SkillsNeeded        []string
	Deadline            *time.Time
	MaxMembers          *int
	TeacherSupervisorID *string
}

// Create makes a new room. Students get a student room, everyone else a
// teacher room; the creator becomes the first member.
func (s *Service) Create(ctx context.Context, caller Caller, input CreateInput) (*View, error) {
	if input.MaxMembers < 2 {
		return nil, Conflict("maxMembers must be at least 2")
	}

	var supervisor *uuid.UUID
	if input.TeacherSupervisorID != "" {
		id, err := s.resolveTeacher(ctx, input.TeacherSupervisorID)
		if err != nil {
			return nil, err
		}
		supervisor = id
	}

	roomType := models.RoomTypeTeacher
	if caller.Role == models.RoleStudent {
		roomType = models.RoomTypeStudent
	}

	room := NewRoom(caller.UserID, roomType, input.Title, input.Purpose,
		input.SkillsNeeded, input.Deadline, input.MaxMembers, supervisor)

	if err := s.rooms.Insert(ctx, room); err != nil {
		return nil, Internal(fmt.Errorf("insert room: %w", err))
	}

	s.logger.Info("room created",
		zap.String("room_id", room.ID.String()),
		zap.String("creator_id", caller.UserID.String()),
		zap.String("type", room.Type),
	)
	return Project(room), nil
}

// GetAll lists rooms visible to the caller. Students see every student
// room plus teacher rooms they are invited to or members of; teachers
// see rooms they created or supervise; other roles see nothing.
func (s *Service) GetAll(ctx context.Context, caller Caller) ([]View, error) {
	var (
		list []models.Room
		err  error
	)

	switch caller.Role {
	case models.RoleStudent:
		list, err = s.rooms.ListStudentVisible(ctx, caller.UserID)
	case models.RoleTeacher:
		list, err = s.rooms.ListCreatedOrSupervised(ctx, caller.UserID)
	default:
		return []View{}, nil
	}
	if err != nil {
		return nil, Internal(fmt.Errorf("list rooms: %w", err))
	}

	return ProjectAll(list), nil
}

// GetMine lists rooms where the caller is a member.
func (s *Service) GetMine(ctx context.Context, caller Caller) ([]View, error) {
	list, err := s.rooms.ListByMember(ctx, caller.UserID)
	if err != nil {
		return nil, Internal(fmt.Errorf("list my rooms: %w", err))
	}
	return ProjectAll(list), nil
}

// Get returns one room merged with the caller's viewer context. Teacher
// rooms the caller may not see yield Forbidden, not NotFound: the id was
// presented by the caller, only the content is withheld.
func (s *Service) Get(ctx context.Context, roomID string, caller Caller) (*DetailView, error) {
	room, err := s.load(ctx, roomID)
	if err != nil {
		return nil, err
	}

	if !Visible(room, caller) {
		return nil, Forbidden("you don't have access to this room")
	}

	viewerCtx := ComputeContext(room, caller)
	return &DetailView{
		View:      *Project(room),
		IsMember:  viewerCtx.IsMember,
		IsCreator: viewerCtx.IsCreator,
		CanJoin:   viewerCtx.CanJoin,
		Pending:   viewerCtx.Pending,
	}, nil
}

// Update applies a creator-only partial update of the metadata fields.
// Membership sets and the room type are never touchable through here.
func (s *Service) Update(ctx context.Context, roomID string, caller Caller, input UpdateInput) (*View, error) {
	room, err := s.load(ctx, roomID)
	if err != nil {
		return nil, err
	}

	if room.CreatorID != caller.UserID {
		return nil, Forbidden("only room creator can update the room")
	}

	patch := models.RoomPatch{
		Title:        input.Title,
		Purpose:      input.Purpose,
		SkillsNeeded: input.SkillsNeeded,
		Deadline:     input.Deadline,
		MaxMembers:   input.MaxMembers,
	}

	if input.TeacherSupervisorID != nil && *input.TeacherSupervisorID != "" {
		id, uerr := uuid.Parse(*input.TeacherSupervisorID)
		if uerr != nil {
			return nil, Conflict("invalid teacher supervisor ID")
		}
		teacher, terr := s.users.GetByIDAndRole(ctx, id, models.RoleTeacher)
		if terr != nil {
			return nil, Internal(fmt.Errorf("lookup teacher supervisor: %w", terr))
		}
		if teacher == nil {
			return nil, Conflict("invalid teacher supervisor ID")
		}
		patch.TeacherSupervisorID = &id
	}

	if patch.IsEmpty() {
		return nil, Conflict("no valid fields to update")
	}

	if patch.MaxMembers != nil {
		max := *patch.MaxMembers
		if max < 2 || max > 20 {
			return nil, Conflict("maxMembers must be between 2 and 20")
		}
		if max < len(room.Members) {
			return nil, Conflict(fmt.Sprintf("cannot reduce maxMembers below current member count (%d)", len(room.Members)))
		}
	}

	updated, err := s.rooms.UpdateFields(ctx, room.ID, patch)
	if err != nil {
		return nil, Internal(fmt.Errorf("update room: %w", err))
	}
	if updated == nil {
		return nil, NotFound("room not found")
	}

	s.logger.Info("room updated",
		zap.String("room_id", room.ID.String()),
		zap.String("user_id", caller.UserID.String()),
	)
	return Project(updated), nil
}

// RequestJoin files a join request on a student room. Student callers
// only; the creator approves or rejects later.
func (s *Service) RequestJoin(ctx context.Context, roomID string, caller Caller) error {
	if caller.Role != models.RoleStudent {
		return Forbidden("only students can send join requests")
	}

	room, err := s.load(ctx, roomID)
	if err != nil {
		return err
	}

	if room.Type != models.RoomTypeStudent {
		return Conflict("can only request to join student-created rooms")
	}
	if room.HasMember(caller.UserID) {
		return Conflict("you are already a member of this room")
	}
	if room.HasPending(caller.UserID) {
		return Conflict("you already have a pending request for this room")
	}
	if room.IsFull() {
		return Conflict("room is full")
	}

	if err := s.rooms.AddPending(ctx, room.ID, caller.UserID); err != nil {
		return Internal(fmt.Errorf("add pending request: %w", err))
	}

	s.logger.Info("join request sent",
		zap.String("room_id", room.ID.String()),
		zap.String("user_id", caller.UserID.String()),
	)
	return nil
}

// Approve moves a pending student into members. Creator only. The move
// is a single combined mutation: there is no observable state with the
// student in both sets or in neither.
func (s *Service) Approve(ctx context.Context, roomID string, caller Caller, studentID string) error {
	room, err := s.load(ctx, roomID)
	if err != nil {
		return err
	}

	if room.CreatorID != caller.UserID {
		return Forbidden("only room creator can approve requests")
	}

	student, err := uuid.Parse(studentID)
	if err != nil || !room.HasPending(student) {
		return Conflict("no pending request from this student")
	}
	if room.IsFull() {
		return Conflict("room is full")
	}

	if err := s.rooms.ApprovePending(ctx, room.ID, student); err != nil {
		return Internal(fmt.Errorf("approve pending request: %w", err))
	}

	s.logger.Info("join request approved",
		zap.String("room_id", room.ID.String()),
		zap.String("student_id", student.String()),
	)
	return nil
}

// Reject drops a pending request. Creator only.
func (s *Service) Reject(ctx context.Context, roomID string, caller Caller, studentID string) error {
	room, err := s.load(ctx, roomID)
	if err != nil {
		return err
	}

	if room.CreatorID != caller.UserID {
		return Forbidden("only room creator can reject requests")
	}

	student, err := uuid.Parse(studentID)
	if err != nil || !room.HasPending(student) {
		return Conflict("no pending request from this student")
	}

	if err := s.rooms.RemovePending(ctx, room.ID, student); err != nil {
		return Internal(fmt.Errorf("remove pending request: %w", err))
	}

	s.logger.Info("join request rejected",
		zap.String("room_id", room.ID.String()),
		zap.String("student_id", student.String()),
	)
	return nil
}

// Invite adds an existing student to the invited set. Creator only; the
// student joins (or not) on their own later.
func (s *Service) Invite(ctx context.Context, roomID string, caller Caller, studentID string) error {
	room, err := s.load(ctx, roomID)
	if err != nil {
		return err
	}

	if room.CreatorID != caller.UserID {
		return Forbidden("only room creator can invite students")
	}

	student, err := uuid.Parse(studentID)
	if err != nil {
		return NotFound("student not found")
	}
	user, err := s.users.GetByIDAndRole(ctx, student, models.RoleStudent)
	if err != nil {
		return Internal(fmt.Errorf("lookup student: %w", err))
	}
	if user == nil {
		return NotFound("student not found")
	}

	if room.HasMember(student) {
		return Conflict("student is already a member")
	}
	if room.HasInvite(student) {
		return Conflict("student is already invited")
	}

	if err := s.rooms.AddInvite(ctx, room.ID, student); err != nil {
		return Internal(fmt.Errorf("add invite: %w", err))
	}

	s.logger.Info("student invited",
		zap.String("room_id", room.ID.String()),
		zap.String("student_id", student.String()),
	)
	return nil
}

// Join adds the caller to members. Teacher rooms require an invitation;
// the invite is consumed by the same combined mutation that adds the
// member.
func (s *Service) Join(ctx context.Context, roomID string, caller Caller) error {
	room, err := s.load(ctx, roomID)
	if err != nil {
		return err
	}

	if room.HasMember(caller.UserID) {
		return Conflict("you are already a member of this room")
	}
	if room.IsFull() {
		return Conflict("room is full")
	}
	if room.Type == models.RoomTypeTeacher && !room.HasInvite(caller.UserID) {
		return Forbidden("you must be invited to join this room")
	}

	if err := s.rooms.JoinMember(ctx, room.ID, caller.UserID); err != nil {
		return Internal(fmt.Errorf("join member: %w", err))
	}

	s.logger.Info("user joined room",
		zap.String("room_id", room.ID.String()),
		zap.String("user_id", caller.UserID.String()),
	)
	return nil
}

// Leave removes the caller from members. The creator can never leave —
// deleting the room is their only exit, which keeps creatorId ∈ members
// invariant for the room's whole life.
func (s *Service) Leave(ctx context.Context, roomID string, caller Caller) error {
	room, err := s.load(ctx, roomID)
	if err != nil {
		return err
	}

	if room.CreatorID == caller.UserID {
		return Conflict("room creator cannot leave, delete the room instead")
	}
	if !room.HasMember(caller.UserID) {
		return Conflict("you are not a member of this room")
	}

	if err := s.rooms.RemoveMember(ctx, room.ID, caller.UserID); err != nil {
		return Internal(fmt.Errorf("remove member: %w", err))
	}

	s.logger.Info("user left room",
		zap.String("room_id", room.ID.String()),
		zap.String("user_id", caller.UserID.String()),
	)
	return nil
}

// Delete permanently removes the room. Creator only, no soft delete, no
// cascading cleanup (nothing references rooms by foreign key).
func (s *Service) Delete(ctx context.Context, roomID string, caller Caller) error {
	room, err := s.load(ctx, roomID)
	if err != nil {
		return err
	}

	if room.CreatorID != caller.UserID {
		return Forbidden("only room creator can delete the room")
	}

	if err := s.rooms.Delete(ctx, room.ID); err != nil {
		return Internal(fmt.Errorf("delete room: %w", err))
	}

	s.logger.Info("room deleted",
		zap.String("room_id", room.ID.String()),
		zap.String("user_id", caller.UserID.String()),
	)
	return nil
}

// load parses the id and fetches the room. A malformed id and a missing
// room are the same NotFound to the caller.
func (s *Service) load(ctx context.Context, roomID string) (*models.Room, error) {
	id, err := uuid.Parse(roomID)
	if err != nil {
		return nil, NotFound("room not found")
	}

	room, err := s.rooms.GetByID(ctx, id)
	if err != nil {
		return nil, Internal(fmt.Errorf("get room: %w", err))
	}
	if room == nil {
		return nil, NotFound("room not found")
	}
	return room, nil
}

// resolveTeacher validates a teacher supervisor id on the create path:
// a malformed or unknown id is NotFound there.
func (s *Service) resolveTeacher(ctx context.Context, teacherID string) (*uuid.UUID, error) {
	id, err := uuid.Parse(teacherID)
	if err != nil {
		return nil, NotFound("teacher supervisor not found")
	}
	teacher, err := s.users.GetByIDAndRole(ctx, id, models.RoleTeacher)
	if err != nil {
		return nil, Internal(fmt.Errorf("lookup teacher supervisor: %w", err))
	}
	if teacher == nil {
		return nil, NotFound("teacher supervisor not found")
	}
	return &id, nil
}
