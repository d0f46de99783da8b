package rooms

import (
	"context"
	"testing"
	"time"

	"github.com/athena-edu/backend/internal/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fixture struct {
	svc   *Service
	rooms *fakeRoomRepo
	users *fakeUserRepo
}

func newFixture() *fixture {
	rooms := newFakeRoomRepo()
	users := newFakeUserRepo()
	return &fixture{
		svc:   NewService(rooms, users, zap.NewNop()),
		rooms: rooms,
		users: users,
	}
}

func (f *fixture) student() Caller {
	return Caller{UserID: f.users.add(models.RoleStudent), Role: models.RoleStudent}
}

func (f *fixture) teacher() Caller {
	return Caller{UserID: f.users.add(models.RoleTeacher), Role: models.RoleTeacher}
}

func createInput(maxMembers int) CreateInput {
	return CreateInput{
		Title:        "Distributed systems study group",
		Purpose:      "weekly exam prep",
		SkillsNeeded: []string{"go", "networking"},
		Deadline:     time.Now().Add(30 * 24 * time.Hour).UTC(),
		MaxMembers:   maxMembers,
	}
}

// checkInvariants asserts the structural properties that must hold after
// every transition: the creator stays a member, the three sets are
// pairwise disjoint, and membership never exceeds capacity.
func checkInvariants(t *testing.T, f *fixture, roomID string) *models.Room {
	t.Helper()
	id, err := uuid.Parse(roomID)
	require.NoError(t, err)
	room, err := f.rooms.GetByID(context.Background(), id)
	require.NoError(t, err)
	require.NotNil(t, room)

	assert.True(t, room.HasMember(room.CreatorID), "creator must remain a member")
	assert.LessOrEqual(t, len(room.Members), room.MaxMembers)
	for _, m := range room.Members {
		assert.False(t, room.HasPending(m), "member %s also pending", m)
		assert.False(t, room.HasInvite(m), "member %s also invited", m)
	}
	return room
}

func kindOf(t *testing.T, err error) Kind {
	t.Helper()
	require.Error(t, err)
	return KindOf(err)
}

func TestRequestApproveLifecycle(t *testing.T) {
	f := newFixture()
	creator := f.student()
	requester := f.student()
	ctx := context.Background()

	view, err := f.svc.Create(ctx, creator, createInput(2))
	require.NoError(t, err)
	assert.Equal(t, models.RoomTypeStudent, view.Type)
	assert.Equal(t, []string{creator.UserID.String()}, view.Members)

	require.NoError(t, f.svc.RequestJoin(ctx, view.ID, requester))
	room := checkInvariants(t, f, view.ID)
	assert.True(t, room.HasPending(requester.UserID))
	assert.False(t, room.HasMember(requester.UserID))

	require.NoError(t, f.svc.Approve(ctx, view.ID, creator, requester.UserID.String()))
	room = checkInvariants(t, f, view.ID)
	assert.True(t, room.HasMember(requester.UserID))
	assert.Empty(t, room.PendingRequests)
	assert.Len(t, room.Members, 2)
}

func TestRequestJoinFullRoom(t *testing.T) {
	f := newFixture()
	creator := f.student()
	first := f.student()
	late := f.student()
	ctx := context.Background()

	view, err := f.svc.Create(ctx, creator, createInput(2))
	require.NoError(t, err)
	require.NoError(t, f.svc.RequestJoin(ctx, view.ID, first))
	require.NoError(t, f.svc.Approve(ctx, view.ID, creator, first.UserID.String()))

	err = f.svc.RequestJoin(ctx, view.ID, late)
	assert.Equal(t, KindConflict, kindOf(t, err))
	assert.EqualError(t, err, "room is full")
	checkInvariants(t, f, view.ID)
}

func TestTeacherRoomInviteJoin(t *testing.T) {
	f := newFixture()
	creator := f.teacher()
	invitee := f.student()
	ctx := context.Background()

	view, err := f.svc.Create(ctx, creator, createInput(5))
	require.NoError(t, err)
	assert.Equal(t, models.RoomTypeTeacher, view.Type)

	// uninvited join is a permission failure, not a business conflict
	err = f.svc.Join(ctx, view.ID, invitee)
	assert.Equal(t, KindForbidden, kindOf(t, err))

	require.NoError(t, f.svc.Invite(ctx, view.ID, creator, invitee.UserID.String()))
	room := checkInvariants(t, f, view.ID)
	assert.True(t, room.HasInvite(invitee.UserID))

	require.NoError(t, f.svc.Join(ctx, view.ID, invitee))
	room = checkInvariants(t, f, view.ID)
	assert.True(t, room.HasMember(invitee.UserID))
	assert.Empty(t, room.InvitedUsers, "join must consume the invite")
}

func TestLeave(t *testing.T) {
	f := newFixture()
	creator := f.student()
	member := f.student()
	ctx := context.Background()

	view, err := f.svc.Create(ctx, creator, createInput(3))
	require.NoError(t, err)
	require.NoError(t, f.svc.RequestJoin(ctx, view.ID, member))
	require.NoError(t, f.svc.Approve(ctx, view.ID, creator, member.UserID.String()))

	err = f.svc.Leave(ctx, view.ID, creator)
	assert.Equal(t, KindConflict, kindOf(t, err))
	assert.EqualError(t, err, "room creator cannot leave, delete the room instead")

	require.NoError(t, f.svc.Leave(ctx, view.ID, member))
	room := checkInvariants(t, f, view.ID)
	assert.False(t, room.HasMember(member.UserID))
	assert.Len(t, room.Members, 1)

	// leaving twice is a conflict, not a silent no-op
	err = f.svc.Leave(ctx, view.ID, member)
	assert.Equal(t, KindConflict, kindOf(t, err))
}

func TestUpdateConstraints(t *testing.T) {
	f := newFixture()
	creator := f.student()
	outsider := f.student()
	ctx := context.Background()

	view, err := f.svc.Create(ctx, creator, createInput(5))
	require.NoError(t, err)
	for _, member := range []Caller{f.student(), f.student()} {
		require.NoError(t, f.svc.RequestJoin(ctx, view.ID, member))
		require.NoError(t, f.svc.Approve(ctx, view.ID, creator, member.UserID.String()))
	}

	title := "renamed"
	_, err = f.svc.Update(ctx, view.ID, outsider, UpdateInput{Title: &title})
	assert.Equal(t, KindForbidden, kindOf(t, err))

	one := 1
	_, err = f.svc.Update(ctx, view.ID, creator, UpdateInput{MaxMembers: &one})
	assert.Equal(t, KindConflict, kindOf(t, err))
	assert.EqualError(t, err, "maxMembers must be between 2 and 20")

	twentyone := 21
	_, err = f.svc.Update(ctx, view.ID, creator, UpdateInput{MaxMembers: &twentyone})
	assert.Equal(t, KindConflict, kindOf(t, err))

	// three members, so shrinking to two must fail
	two := 2
	_, err = f.svc.Update(ctx, view.ID, creator, UpdateInput{MaxMembers: &two})
	assert.Equal(t, KindConflict, kindOf(t, err))
	assert.Contains(t, err.Error(), "below current member count (3)")

	_, err = f.svc.Update(ctx, view.ID, creator, UpdateInput{})
	assert.Equal(t, KindConflict, kindOf(t, err))
	assert.EqualError(t, err, "no valid fields to update")

	updated, err := f.svc.Update(ctx, view.ID, creator, UpdateInput{Title: &title})
	require.NoError(t, err)
	assert.Equal(t, "renamed", updated.Title)
}

func TestTeacherRoomVisibility(t *testing.T) {
	f := newFixture()
	creator := f.teacher()
	outsider := f.student()
	ctx := context.Background()

	view, err := f.svc.Create(ctx, creator, createInput(4))
	require.NoError(t, err)

	_, err = f.svc.Get(ctx, view.ID, outsider)
	assert.Equal(t, KindForbidden, kindOf(t, err))
	assert.EqualError(t, err, "you don't have access to this room")

	detail, err := f.svc.Get(ctx, view.ID, creator)
	require.NoError(t, err)
	assert.True(t, detail.IsCreator)
	assert.True(t, detail.IsMember)
	assert.False(t, detail.CanJoin)

	// invited outsiders can see the room and could join it
	require.NoError(t, f.svc.Invite(ctx, view.ID, creator, outsider.UserID.String()))
	detail, err = f.svc.Get(ctx, view.ID, outsider)
	require.NoError(t, err)
	assert.True(t, detail.CanJoin)
	assert.False(t, detail.IsMember)
}

func TestCreateValidation(t *testing.T) {
	f := newFixture()
	student := f.student()
	ctx := context.Background()

	_, err := f.svc.Create(ctx, student, createInput(1))
	assert.Equal(t, KindConflict, kindOf(t, err))
	assert.EqualError(t, err, "maxMembers must be at least 2")

	input := createInput(3)
	input.TeacherSupervisorID = uuid.NewString()
	_, err = f.svc.Create(ctx, student, input)
	assert.Equal(t, KindNotFound, kindOf(t, err))
	assert.EqualError(t, err, "teacher supervisor not found")

	// a student id is not a valid supervisor either
	input.TeacherSupervisorID = f.student().UserID.String()
	_, err = f.svc.Create(ctx, student, input)
	assert.Equal(t, KindNotFound, kindOf(t, err))

	supervisor := f.teacher()
	input.TeacherSupervisorID = supervisor.UserID.String()
	view, err := f.svc.Create(ctx, student, input)
	require.NoError(t, err)
	require.NotNil(t, view.TeacherSupervisorID)
	assert.Equal(t, supervisor.UserID.String(), *view.TeacherSupervisorID)
}

func TestRequestJoinPreconditions(t *testing.T) {
	f := newFixture()
	creator := f.student()
	requester := f.student()
	teacher := f.teacher()
	ctx := context.Background()

	view, err := f.svc.Create(ctx, creator, createInput(3))
	require.NoError(t, err)

	err = f.svc.RequestJoin(ctx, view.ID, teacher)
	assert.Equal(t, KindForbidden, kindOf(t, err))
	assert.EqualError(t, err, "only students can send join requests")

	err = f.svc.RequestJoin(ctx, view.ID, creator)
	assert.Equal(t, KindConflict, kindOf(t, err))
	assert.EqualError(t, err, "you are already a member of this room")

	require.NoError(t, f.svc.RequestJoin(ctx, view.ID, requester))
	err = f.svc.RequestJoin(ctx, view.ID, requester)
	assert.Equal(t, KindConflict, kindOf(t, err))
	assert.EqualError(t, err, "you already have a pending request for this room")

	teacherRoom, err := f.svc.Create(ctx, teacher, createInput(3))
	require.NoError(t, err)
	err = f.svc.RequestJoin(ctx, teacherRoom.ID, requester)
	assert.Equal(t, KindConflict, kindOf(t, err))
	assert.EqualError(t, err, "can only request to join student-created rooms")
}

func TestApproveRejectPreconditions(t *testing.T) {
	f := newFixture()
	creator := f.student()
	requester := f.student()
	outsider := f.student()
	ctx := context.Background()

	view, err := f.svc.Create(ctx, creator, createInput(2))
	require.NoError(t, err)
	require.NoError(t, f.svc.RequestJoin(ctx, view.ID, requester))

	err = f.svc.Approve(ctx, view.ID, outsider, requester.UserID.String())
	assert.Equal(t, KindForbidden, kindOf(t, err))

	err = f.svc.Approve(ctx, view.ID, creator, outsider.UserID.String())
	assert.Equal(t, KindConflict, kindOf(t, err))
	assert.EqualError(t, err, "no pending request from this student")

	err = f.svc.Approve(ctx, view.ID, creator, "not-a-uuid")
	assert.Equal(t, KindConflict, kindOf(t, err))

	require.NoError(t, f.svc.Reject(ctx, view.ID, creator, requester.UserID.String()))
	room := checkInvariants(t, f, view.ID)
	assert.Empty(t, room.PendingRequests)
	assert.False(t, room.HasMember(requester.UserID))

	// rejecting again finds nothing pending
	err = f.svc.Reject(ctx, view.ID, creator, requester.UserID.String())
	assert.Equal(t, KindConflict, kindOf(t, err))
}

func TestApproveFullRoom(t *testing.T) {
	f := newFixture()
	creator := f.student()
	first := f.student()
	second := f.student()
	ctx := context.Background()

	view, err := f.svc.Create(ctx, creator, createInput(2))
	require.NoError(t, err)
	require.NoError(t, f.svc.RequestJoin(ctx, view.ID, first))
	require.NoError(t, f.svc.RequestJoin(ctx, view.ID, second))
	require.NoError(t, f.svc.Approve(ctx, view.ID, creator, first.UserID.String()))

	err = f.svc.Approve(ctx, view.ID, creator, second.UserID.String())
	assert.Equal(t, KindConflict, kindOf(t, err))
	assert.EqualError(t, err, "room is full")

	room := checkInvariants(t, f, view.ID)
	assert.True(t, room.HasPending(second.UserID), "failed approve leaves the request pending")
}

func TestInvitePreconditions(t *testing.T) {
	f := newFixture()
	creator := f.teacher()
	invitee := f.student()
	outsider := f.student()
	ctx := context.Background()

	view, err := f.svc.Create(ctx, creator, createInput(4))
	require.NoError(t, err)

	err = f.svc.Invite(ctx, view.ID, outsider, invitee.UserID.String())
	assert.Equal(t, KindForbidden, kindOf(t, err))
	assert.EqualError(t, err, "only room creator can invite students")

	err = f.svc.Invite(ctx, view.ID, creator, "garbage")
	assert.Equal(t, KindNotFound, kindOf(t, err))
	assert.EqualError(t, err, "student not found")

	err = f.svc.Invite(ctx, view.ID, creator, uuid.NewString())
	assert.Equal(t, KindNotFound, kindOf(t, err))

	// teachers cannot be invited as students
	err = f.svc.Invite(ctx, view.ID, creator, f.teacher().UserID.String())
	assert.Equal(t, KindNotFound, kindOf(t, err))

	require.NoError(t, f.svc.Invite(ctx, view.ID, creator, invitee.UserID.String()))
	err = f.svc.Invite(ctx, view.ID, creator, invitee.UserID.String())
	assert.Equal(t, KindConflict, kindOf(t, err))
	assert.EqualError(t, err, "student is already invited")

	require.NoError(t, f.svc.Join(ctx, view.ID, invitee))
	err = f.svc.Invite(ctx, view.ID, creator, invitee.UserID.String())
	assert.Equal(t, KindConflict, kindOf(t, err))
	assert.EqualError(t, err, "student is already a member")
}

func TestJoinStudentRoomDirectly(t *testing.T) {
	f := newFixture()
	creator := f.student()
	joiner := f.student()
	ctx := context.Background()

	view, err := f.svc.Create(ctx, creator, createInput(3))
	require.NoError(t, err)

	// student rooms allow a direct join without an invite
	require.NoError(t, f.svc.Join(ctx, view.ID, joiner))
	room := checkInvariants(t, f, view.ID)
	assert.True(t, room.HasMember(joiner.UserID))

	err = f.svc.Join(ctx, view.ID, joiner)
	assert.Equal(t, KindConflict, kindOf(t, err))
	assert.EqualError(t, err, "you are already a member of this room")
}

func TestDelete(t *testing.T) {
	f := newFixture()
	creator := f.student()
	outsider := f.student()
	ctx := context.Background()

	view, err := f.svc.Create(ctx, creator, createInput(3))
	require.NoError(t, err)

	err = f.svc.Delete(ctx, view.ID, outsider)
	assert.Equal(t, KindForbidden, kindOf(t, err))
	assert.EqualError(t, err, "only room creator can delete the room")

	require.NoError(t, f.svc.Delete(ctx, view.ID, creator))

	_, err = f.svc.Get(ctx, view.ID, creator)
	assert.Equal(t, KindNotFound, kindOf(t, err))
	assert.EqualError(t, err, "room not found")
}

func TestMissingRoomIsNotFound(t *testing.T) {
	f := newFixture()
	caller := f.student()
	ctx := context.Background()

	for _, roomID := range []string{uuid.NewString(), "not-a-uuid"} {
		_, err := f.svc.Get(ctx, roomID, caller)
		assert.Equal(t, KindNotFound, kindOf(t, err), "id %q", roomID)
		assert.EqualError(t, err, "room not found")
	}
}

func TestGetAllByRole(t *testing.T) {
	f := newFixture()
	studentA := f.student()
	studentB := f.student()
	teacher := f.teacher()
	admin := Caller{UserID: f.users.add(models.RoleAdmin), Role: models.RoleAdmin}
	ctx := context.Background()

	studentRoom, err := f.svc.Create(ctx, studentA, createInput(3))
	require.NoError(t, err)
	teacherRoom, err := f.svc.Create(ctx, teacher, createInput(3))
	require.NoError(t, err)

	// students see every student room but not closed teacher rooms
	list, err := f.svc.GetAll(ctx, studentB)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, studentRoom.ID, list[0].ID)

	// an invitation makes the teacher room visible
	require.NoError(t, f.svc.Invite(ctx, teacherRoom.ID, teacher, studentB.UserID.String()))
	list, err = f.svc.GetAll(ctx, studentB)
	require.NoError(t, err)
	assert.Len(t, list, 2)

	// teachers see what they created or supervise
	list, err = f.svc.GetAll(ctx, teacher)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, teacherRoom.ID, list[0].ID)

	list, err = f.svc.GetAll(ctx, admin)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestGetMine(t *testing.T) {
	f := newFixture()
	creator := f.student()
	member := f.student()
	ctx := context.Background()

	view, err := f.svc.Create(ctx, creator, createInput(3))
	require.NoError(t, err)
	_, err = f.svc.Create(ctx, f.student(), createInput(3))
	require.NoError(t, err)

	list, err := f.svc.GetMine(ctx, member)
	require.NoError(t, err)
	assert.Empty(t, list)

	require.NoError(t, f.svc.Join(ctx, view.ID, member))
	list, err = f.svc.GetMine(ctx, member)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, view.ID, list[0].ID)
}

func TestInternalErrorsAreWrapped(t *testing.T) {
	f := newFixture()
	caller := f.student()
	ctx := context.Background()

	view, err := f.svc.Create(ctx, caller, createInput(3))
	require.NoError(t, err)

	f.rooms.fail = assert.AnError
	_, err = f.svc.Get(ctx, view.ID, caller)
	assert.Equal(t, KindInternal, kindOf(t, err))
}
