package rooms

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/athena-edu/backend/internal/models"
	"github.com/google/uuid"
)

// fakeRoomRepo mirrors the store contract in memory: add-* methods are
// add-unique and the approve/join moves touch both sets in one step.
type fakeRoomRepo struct {
	rooms map[uuid.UUID]*models.Room
	fail  error
}

func newFakeRoomRepo() *fakeRoomRepo {
	return &fakeRoomRepo{rooms: make(map[uuid.UUID]*models.Room)}
}

func cloneRoom(r *models.Room) *models.Room {
	c := *r
	c.SkillsNeeded = append([]string(nil), r.SkillsNeeded...)
	c.Members = append([]uuid.UUID(nil), r.Members...)
	c.PendingRequests = append([]uuid.UUID(nil), r.PendingRequests...)
	c.InvitedUsers = append([]uuid.UUID(nil), r.InvitedUsers...)
	return &c
}

func (f *fakeRoomRepo) Insert(_ context.Context, room *models.Room) error {
	if f.fail != nil {
		return f.fail
	}
	f.rooms[room.ID] = cloneRoom(room)
	return nil
}

func (f *fakeRoomRepo) GetByID(_ context.Context, roomID uuid.UUID) (*models.Room, error) {
	if f.fail != nil {
		return nil, f.fail
	}
	room, ok := f.rooms[roomID]
	if !ok {
		return nil, nil
	}
	return cloneRoom(room), nil
}

func (f *fakeRoomRepo) ListStudentVisible(_ context.Context, userID uuid.UUID) ([]models.Room, error) {
	if f.fail != nil {
		return nil, f.fail
	}
	var out []models.Room
	for _, r := range f.rooms {
		if r.Type == models.RoomTypeStudent || r.HasMember(userID) || r.HasInvite(userID) {
			out = append(out, *cloneRoom(r))
		}
	}
	sortRooms(out)
	return out, nil
}

func (f *fakeRoomRepo) ListCreatedOrSupervised(_ context.Context, userID uuid.UUID) ([]models.Room, error) {
	if f.fail != nil {
		return nil, f.fail
	}
	var out []models.Room
	for _, r := range f.rooms {
		if r.CreatorID == userID || (r.TeacherSupervisorID != nil && *r.TeacherSupervisorID == userID) {
			out = append(out, *cloneRoom(r))
		}
	}
	sortRooms(out)
	return out, nil
}

func (f *fakeRoomRepo) ListByMember(_ context.Context, userID uuid.UUID) ([]models.Room, error) {
	if f.fail != nil {
		return nil, f.fail
	}
	var out []models.Room
	for _, r := range f.rooms {
		if r.HasMember(userID) {
			out = append(out, *cloneRoom(r))
		}
	}
	sortRooms(out)
	return out, nil
}

func (f *fakeRoomRepo) UpdateFields(_ context.Context, roomID uuid.UUID, patch models.RoomPatch) (*models.Room, error) {
	if f.fail != nil {
		return nil, f.fail
	}
	room, ok := f.rooms[roomID]
	if !ok {
		return nil, nil
	}
	if patch.Title != nil {
		room.Title = *patch.Title
	}
	if patch.Purpose != nil {
		room.Purpose = *patch.Purpose
	}
	if patch.SkillsNeeded != nil {
		room.SkillsNeeded = append([]string(nil), patch.SkillsNeeded...)
	}
	if patch.Deadline != nil {
		room.Deadline = *patch.Deadline
	}
	if patch.MaxMembers != nil {
		room.MaxMembers = *patch.MaxMembers
	}
	if patch.TeacherSupervisorID != nil {
		id := *patch.TeacherSupervisorID
		room.TeacherSupervisorID = &id
	}
	room.UpdatedAt = time.Now().UTC()
	return cloneRoom(room), nil
}

func addUnique(ids []uuid.UUID, id uuid.UUID) []uuid.UUID {
	for _, v := range ids {
		if v == id {
			return ids
		}
	}
	return append(ids, id)
}

func removeID(ids []uuid.UUID, id uuid.UUID) []uuid.UUID {
	out := ids[:0]
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}

func (f *fakeRoomRepo) mutate(roomID uuid.UUID, fn func(*models.Room)) error {
	if f.fail != nil {
		return f.fail
	}
	room, ok := f.rooms[roomID]
	if !ok {
		return errors.New("room vanished")
	}
	fn(room)
	room.UpdatedAt = time.Now().UTC()
	return nil
}

func (f *fakeRoomRepo) AddPending(_ context.Context, roomID, userID uuid.UUID) error {
	return f.mutate(roomID, func(r *models.Room) {
		r.PendingRequests = addUnique(r.PendingRequests, userID)
	})
}

func (f *fakeRoomRepo) RemovePending(_ context.Context, roomID, userID uuid.UUID) error {
	return f.mutate(roomID, func(r *models.Room) {
		r.PendingRequests = removeID(r.PendingRequests, userID)
	})
}

func (f *fakeRoomRepo) ApprovePending(_ context.Context, roomID, userID uuid.UUID) error {
	return f.mutate(roomID, func(r *models.Room) {
		r.PendingRequests = removeID(r.PendingRequests, userID)
		r.Members = addUnique(r.Members, userID)
	})
}

func (f *fakeRoomRepo) AddInvite(_ context.Context, roomID, userID uuid.UUID) error {
	return f.mutate(roomID, func(r *models.Room) {
		r.InvitedUsers = addUnique(r.InvitedUsers, userID)
	})
}

func (f *fakeRoomRepo) JoinMember(_ context.Context, roomID, userID uuid.UUID) error {
	return f.mutate(roomID, func(r *models.Room) {
		r.Members = addUnique(r.Members, userID)
		r.InvitedUsers = removeID(r.InvitedUsers, userID)
	})
}

func (f *fakeRoomRepo) RemoveMember(_ context.Context, roomID, userID uuid.UUID) error {
	return f.mutate(roomID, func(r *models.Room) {
		r.Members = removeID(r.Members, userID)
	})
}

func (f *fakeRoomRepo) Delete(_ context.Context, roomID uuid.UUID) error {
	if f.fail != nil {
		return f.fail
	}
	delete(f.rooms, roomID)
	return nil
}

func sortRooms(list []models.Room) {
	sort.Slice(list, func(i, j int) bool {
		return list[i].ID.String() < list[j].ID.String()
	})
}

// fakeUserRepo holds accounts for supervisor and invitee lookups.
type fakeUserRepo struct {
	users map[uuid.UUID]*models.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[uuid.UUID]*models.User)}
}

func (f *fakeUserRepo) add(role string) uuid.UUID {
	id := uuid.New()
	f.users[id] = &models.User{
		ID:        id,
		Email:     id.String() + "@example.com",
		Role:      role,
		CreatedAt: time.Now().UTC(),
	}
	return id
}

func (f *fakeUserRepo) Create(_ context.Context, email, passwordHash, role string) (*models.User, error) {
	u := &models.User{ID: uuid.New(), Email: email, PasswordHash: passwordHash, Role: role, CreatedAt: time.Now().UTC()}
	f.users[u.ID] = u
	return u, nil
}

func (f *fakeUserRepo) GetByID(_ context.Context, userID uuid.UUID) (*models.User, error) {
	return f.users[userID], nil
}

func (f *fakeUserRepo) GetByEmail(_ context.Context, email string) (*models.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, nil
}

func (f *fakeUserRepo) GetByIDAndRole(_ context.Context, userID uuid.UUID, role string) (*models.User, error) {
	u := f.users[userID]
	if u == nil || u.Role != role {
		return nil, nil
	}
	return u, nil
}

func (f *fakeUserRepo) List(_ context.Context) ([]models.User, error) {
	var out []models.User
	for _, u := range f.users {
		out = append(out, *u)
	}
	return out, nil
}

func (f *fakeUserRepo) ListByRole(_ context.Context, role string) ([]models.User, error) {
	var out []models.User
	for _, u := range f.users {
		if u.Role == role {
			out = append(out, *u)
		}
	}
	return out, nil
}

func (f *fakeUserRepo) Delete(_ context.Context, userID uuid.UUID) error {
	delete(f.users, userID)
	return nil
}

func (f *fakeUserRepo) Count(_ context.Context) (int64, error) {
	return int64(len(f.users)), nil
}

func (f *fakeUserRepo) CountByRole(_ context.Context, role string) (int64, error) {
	var n int64
	for _, u := range f.users {
		if u.Role == role {
			n++
		}
	}
	return n, nil
}
