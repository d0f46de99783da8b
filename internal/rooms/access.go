package rooms

import "github.com/athena-edu/backend/internal/models"

// Context is the viewer context: what the caller is to this room and
// whether they could join it right now. Computed purely from the room
// record, no storage access.
type Context struct {
	IsMember  bool
	IsCreator bool
	CanJoin   bool
	Pending   bool
}

// ComputeContext derives the viewer context for caller against room.
//
// canJoin rules:
//   - members never re-join;
//   - a student can join a student room while it has space and they are
//     not already pending (they still go through request/approve);
//   - anyone can join a teacher room they are invited to, space
//     permitting;
//   - every other combination (a teacher looking at a student room,
//     an uninvited caller at a teacher room) is false.
func ComputeContext(room *models.Room, caller Caller) Context {
	ctx := Context{
		IsMember:  room.HasMember(caller.UserID),
		IsCreator: caller.UserID == room.CreatorID,
		Pending:   room.HasPending(caller.UserID),
	}

	if ctx.IsMember {
		return ctx
	}

	switch {
	case room.Type == models.RoomTypeStudent && caller.Role == models.RoleStudent:
		ctx.CanJoin = !room.IsFull() && !ctx.Pending
	case room.Type == models.RoomTypeTeacher:
		ctx.CanJoin = room.HasInvite(caller.UserID) && !room.IsFull()
	}

	return ctx
}

// Visible reports whether the caller may see the room at all. Student
// rooms are public; teacher rooms are visible only to the creator,
// members, and invited users. A false here surfaces as 403, not 404 —
// the room id is already known to the caller.
func Visible(room *models.Room, caller Caller) bool {
	if room.Type != models.RoomTypeTeacher {
		return true
	}
	return caller.UserID == room.CreatorID ||
		room.HasMember(caller.UserID) ||
		room.HasInvite(caller.UserID)
}
