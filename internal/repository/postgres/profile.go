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

// ProfileStore persists the role-specific profile rows. One row per user
// in student_profiles or teacher_profiles, keyed by user_id.
type ProfileStore struct {
	pool *pgxpool.Pool
}

func NewProfileStore(pool *pgxpool.Pool) *ProfileStore {
	return &ProfileStore{pool: pool}
}

func (s *ProfileStore) CreateStudent(ctx context.Context, p *models.StudentProfile) error {
	query := `
		INSERT INTO student_profiles (user_id, first_name, last_name, institute, year,
			speciality, phone, skills, bio, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, now(), now())`

	_, err := s.pool.Exec(ctx, query,
		p.UserID, p.FirstName, p.LastName, p.Institute, p.Year,
		p.Speciality, p.Phone, p.Skills, p.Bio,
	)
	if err != nil {
		return fmt.Errorf("insert student profile: %w", err)
	}
	return nil
}

func (s *ProfileStore) GetStudent(ctx context.Context, userID uuid.UUID) (*models.StudentProfile, error) {
	query := `
		SELECT user_id, first_name, last_name, institute, year, speciality, phone,
			skills, bio, created_at, updated_at
		FROM student_profiles
		WHERE user_id = $1`

	var p models.StudentProfile
	err := s.pool.QueryRow(ctx, query, userID).Scan(
		&p.UserID, &p.FirstName, &p.LastName, &p.Institute, &p.Year,
		&p.Speciality, &p.Phone, &p.Skills, &p.Bio, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get student profile: %w", err)
	}
	return &p, nil
}

func (s *ProfileStore) UpdateStudent(ctx context.Context, userID uuid.UUID, patch models.StudentProfilePatch) (*models.StudentProfile, error) {
	sets := []string{"updated_at = now()"}
	args := []any{userID}

	add := func(column string, value any) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if patch.FirstName != nil {
		add("first_name", *patch.FirstName)
	}
	if patch.LastName != nil {
		add("last_name", *patch.LastName)
	}
	if patch.Institute != nil {
		add("institute", *patch.Institute)
	}
	if patch.Year != nil {
		add("year", *patch.Year)
	}
	if patch.Speciality != nil {
		add("speciality", *patch.Speciality)
	}
	if patch.Phone != nil {
		add("phone", *patch.Phone)
	}
	if patch.Skills != nil {
		add("skills", patch.Skills)
	}
	if patch.Bio != nil {
		add("bio", *patch.Bio)
	}

	query := `
		UPDATE student_profiles
		SET ` + strings.Join(sets, ", ") + `
		WHERE user_id = $1
		RETURNING user_id, first_name, last_name, institute, year, speciality, phone,
			skills, bio, created_at, updated_at`

	var p models.StudentProfile
	err := s.pool.QueryRow(ctx, query, args...).Scan(
		&p.UserID, &p.FirstName, &p.LastName, &p.Institute, &p.Year,
		&p.Speciality, &p.Phone, &p.Skills, &p.Bio, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("update student profile: %w", err)
	}
	return &p, nil
}

func (s *ProfileStore) DeleteStudent(ctx context.Context, userID uuid.UUID) error {
	_, err := s.pool.Exec(ctx, `DELETE FROM student_profiles WHERE user_id = $1`, userID)
	if err != nil {
		return fmt.Errorf("delete student profile: %w", err)
	}
	return nil
}

func (s *ProfileStore) CreateTeacher(ctx context.Context, p *models.TeacherProfile) error {
	query := `
		INSERT INTO teacher_profiles (user_id, first_name, last_name, teaching, institute,
			phone, bio, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, now(), now())`

	_, err := s.pool.Exec(ctx, query,
		p.UserID, p.FirstName, p.LastName, p.Teaching, p.Institute, p.Phone, p.Bio,
	)
	if err != nil {
		return fmt.Errorf("insert teacher profile: %w", err)
	}
	return nil
}

func (s *ProfileStore) GetTeacher(ctx context.Context, userID uuid.UUID) (*models.TeacherProfile, error) {
	query := `
		SELECT user_id, first_name, last_name, teaching, institute, phone, bio,
			created_at, updated_at
		FROM teacher_profiles
		WHERE user_id = $1`

	var p models.TeacherProfile
	err := s.pool.QueryRow(ctx, query, userID).Scan(
		&p.UserID, &p.FirstName, &p.LastName, &p.Teaching, &p.Institute,
		&p.Phone, &p.Bio, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get teacher profile: %w", err)
	}
	return &p, nil
}

func (s *ProfileStore) UpdateTeacher(ctx context.Context, userID uuid.UUID, patch models.TeacherProfilePatch) (*models.TeacherProfile, error) {
	sets := []string{"updated_at = now()"}
	args := []any{userID}

	add := func(column string, value any) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if patch.FirstName != nil {
		add("first_name", *patch.FirstName)
	}
	if patch.LastName != nil {
		add("last_name", *patch.LastName)
	}
	if patch.Teaching != nil {
		add("teaching", *patch.Teaching)
	}
	if patch.Institute != nil {
		add("institute", *patch.Institute)
	}
	if patch.Phone != nil {
		add("phone", *patch.Phone)
	}
	if patch.Bio != nil {
		add("bio", *patch.Bio)
	}

	query := `
		UPDATE teacher_profiles
		SET ` + strings.Join(sets, ", ") + `
		WHERE user_id = $1
		RETURNING user_id, first_name, last_name, teaching, institute, phone, bio,
			created_at, updated_at`

	var p models.TeacherProfile
	err := s.pool.QueryRow(ctx, query, args...).Scan(
		&p.UserID, &p.FirstName, &p.LastName, &p.Teaching, &p.Institute,
		&p.Phone, &p.Bio, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("update teacher profile: %w", err)
	}
	return &p, nil
}

func (s *ProfileStore) DeleteTeacher(ctx context.Context, userID uuid.UUID) error {
	_, err := s.pool.Exec(ctx, `DELETE FROM teacher_profiles WHERE user_id = $1`, userID)
	if err != nil {
		return fmt.Errorf("delete teacher profile: %w", err)
	}
	return nil
}
