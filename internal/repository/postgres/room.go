package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/athena-edu/backend/internal/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// RoomStore persists rooms with the member sets as uuid[] columns.
// Postgres updates a row atomically, so every transition below is one
// UPDATE statement: add-unique is a guarded array_append, remove is
// array_remove, and the two combined transitions (approve, join) touch
// both arrays inside the same statement. No transaction is needed.
type RoomStore struct {
	pool *pgxpool.Pool
}

func NewRoomStore(pool *pgxpool.Pool) *RoomStore {
	return &RoomStore{pool: pool}
}

const roomColumns = `id, creator_id, type, title, purpose, skills_needed, deadline,
	teacher_supervisor_id, max_members, members, pending_requests, invited_users,
	created_at, updated_at`

func scanRoom(row pgx.Row) (*models.Room, error) {
	var r models.Room
	err := row.Scan(
		&r.ID,
		&r.CreatorID,
		&r.Type,
		&r.Title,
		&r.Purpose,
		&r.SkillsNeeded,
		&r.Deadline,
		&r.TeacherSupervisorID,
		&r.MaxMembers,
		&r.Members,
		&r.PendingRequests,
		&r.InvitedUsers,
		&r.CreatedAt,
		&r.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &r, nil
}

func (s *RoomStore) Insert(ctx context.Context, room *models.Room) error {
	query := `
		INSERT INTO rooms (id, creator_id, type, title, purpose, skills_needed, deadline,
			teacher_supervisor_id, max_members, members, pending_requests, invited_users,
			created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`

	_, err := s.pool.Exec(ctx, query,
		room.ID,
		room.CreatorID,
		room.Type,
		room.Title,
		room.Purpose,
		room.SkillsNeeded,
		room.Deadline,
		room.TeacherSupervisorID,
		room.MaxMembers,
		room.Members,
		room.PendingRequests,
		room.InvitedUsers,
		room.CreatedAt,
		room.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert room: %w", err)
	}
	return nil
}

func (s *RoomStore) GetByID(ctx context.Context, roomID uuid.UUID) (*models.Room, error) {
	query := `SELECT ` + roomColumns + ` FROM rooms WHERE id = $1`

	room, err := scanRoom(s.pool.QueryRow(ctx, query, roomID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get room: %w", err)
	}
	return room, nil
}

func (s *RoomStore) ListStudentVisible(ctx context.Context, userID uuid.UUID) ([]models.Room, error) {
	query := `
		SELECT ` + roomColumns + `
		FROM rooms
		WHERE type = 'student'
		   OR (type = 'teacher' AND ($1::uuid = ANY(invited_users) OR $1::uuid = ANY(members)))
		ORDER BY created_at DESC`

	return s.list(ctx, query, userID)
}

func (s *RoomStore) ListCreatedOrSupervised(ctx context.Context, userID uuid.UUID) ([]models.Room, error) {
	query := `
		SELECT ` + roomColumns + `
		FROM rooms
		WHERE creator_id = $1 OR teacher_supervisor_id = $1
		ORDER BY created_at DESC`

	return s.list(ctx, query, userID)
}

func (s *RoomStore) ListByMember(ctx context.Context, userID uuid.UUID) ([]models.Room, error) {
	query := `
		SELECT ` + roomColumns + `
		FROM rooms
		WHERE $1::uuid = ANY(members)
		ORDER BY created_at DESC`

	return s.list(ctx, query, userID)
}

func (s *RoomStore) list(ctx context.Context, query string, args ...any) ([]models.Room, error) {
	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list rooms: %w", err)
	}
	defer rows.Close()

	rooms := make([]models.Room, 0)
	for rows.Next() {
		room, err := scanRoom(rows)
		if err != nil {
			return nil, fmt.Errorf("scan room: %w", err)
		}
		rooms = append(rooms, *room)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rooms: %w", err)
	}

	return rooms, nil
}

// UpdateFields builds a single UPDATE ... RETURNING from the non-nil
// patch fields, so the caller sees the document exactly as written.
func (s *RoomStore) UpdateFields(ctx context.Context, roomID uuid.UUID, patch models.RoomPatch) (*models.Room, error) {
	sets := []string{"updated_at = now()"}
	args := []any{roomID}

	add := func(column string, value any) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if patch.Title != nil {
		add("title", *patch.Title)
	}
	if patch.Purpose != nil {
		add("purpose", *patch.Purpose)
	}
	if patch.SkillsNeeded != nil {
		add("skills_needed", patch.SkillsNeeded)
	}
	if patch.Deadline != nil {
		add("deadline", *patch.Deadline)
	}
	if patch.MaxMembers != nil {
		add("max_members", *patch.MaxMembers)
	}
	if patch.TeacherSupervisorID != nil {
		add("teacher_supervisor_id", *patch.TeacherSupervisorID)
	}

	query := `
		UPDATE rooms
		SET ` + strings.Join(sets, ", ") + `
		WHERE id = $1
		RETURNING ` + roomColumns

	room, err := scanRoom(s.pool.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("update room: %w", err)
	}
	return room, nil
}

func (s *RoomStore) AddPending(ctx context.Context, roomID, userID uuid.UUID) error {
	// The NOT ... ANY guard makes the append idempotent under
	// concurrent requests; without it two racing calls could append the
	// same id twice.
	query := `
		UPDATE rooms
		SET pending_requests = array_append(pending_requests, $2::uuid), updated_at = now()
		WHERE id = $1 AND NOT ($2::uuid = ANY(pending_requests))`

	_, err := s.pool.Exec(ctx, query, roomID, userID)
	if err != nil {
		return fmt.Errorf("add pending request: %w", err)
	}
	return nil
}

func (s *RoomStore) RemovePending(ctx context.Context, roomID, userID uuid.UUID) error {
	query := `
		UPDATE rooms
		SET pending_requests = array_remove(pending_requests, $2::uuid), updated_at = now()
		WHERE id = $1`

	_, err := s.pool.Exec(ctx, query, roomID, userID)
	if err != nil {
		return fmt.Errorf("remove pending request: %w", err)
	}
	return nil
}

// ApprovePending moves the id from pending_requests into members in one
// statement. The CASE keeps members duplicate-free even if the id was
// already a member when the statement runs.
func (s *RoomStore) ApprovePending(ctx context.Context, roomID, userID uuid.UUID) error {
	query := `
		UPDATE rooms
		SET pending_requests = array_remove(pending_requests, $2::uuid),
		    members = CASE WHEN $2::uuid = ANY(members) THEN members
		                   ELSE array_append(members, $2::uuid) END,
		    updated_at = now()
		WHERE id = $1`

	_, err := s.pool.Exec(ctx, query, roomID, userID)
	if err != nil {
		return fmt.Errorf("approve pending request: %w", err)
	}
	return nil
}

func (s *RoomStore) AddInvite(ctx context.Context, roomID, userID uuid.UUID) error {
	query := `
		UPDATE rooms
		SET invited_users = array_append(invited_users, $2::uuid), updated_at = now()
		WHERE id = $1 AND NOT ($2::uuid = ANY(invited_users))`

	_, err := s.pool.Exec(ctx, query, roomID, userID)
	if err != nil {
		return fmt.Errorf("add invite: %w", err)
	}
	return nil
}

// JoinMember is the mirror of ApprovePending for the invite flow.
func (s *RoomStore) JoinMember(ctx context.Context, roomID, userID uuid.UUID) error {
	query := `
		UPDATE rooms
		SET invited_users = array_remove(invited_users, $2::uuid),
		    members = CASE WHEN $2::uuid = ANY(members) THEN members
		                   ELSE array_append(members, $2::uuid) END,
		    updated_at = now()
		WHERE id = $1`

	_, err := s.pool.Exec(ctx, query, roomID, userID)
	if err != nil {
		return fmt.Errorf("join member: %w", err)
	}
	return nil
}

func (s *RoomStore) RemoveMember(ctx context.Context, roomID, userID uuid.UUID) error {
	query := `
		UPDATE rooms
		SET members = array_remove(members, $2::uuid), updated_at = now()
		WHERE id = $1`

	_, err := s.pool.Exec(ctx, query, roomID, userID)
	if err != nil {
		return fmt.Errorf("remove member: %w", err)
	}
	return nil
}

func (s *RoomStore) Delete(ctx context.Context, roomID uuid.UUID) error {
	query := `DELETE FROM rooms WHERE id = $1`

	_, err := s.pool.Exec(ctx, query, roomID)
	if err != nil {
		return fmt.Errorf("delete room: %w", err)
	}
	return nil
}
