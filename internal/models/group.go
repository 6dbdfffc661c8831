package models

// Group represents a named set of users who share expenses, such as a trip
// or a household. Membership only grows; groups are never deleted.
type Group struct {
	// ID is the unique identifier for the group (UUID format).
	ID string `json:"id"`

	// Name is the display name of the group (e.g. "Trip to Bali").
	Name string `json:"name"`

	// MemberIDs is the set of member user IDs. Order carries no meaning.
	// The creator is always a member.
	MemberIDs []string `json:"member_ids"`

	// CreatedAt is the Unix timestamp when the group was created.
	CreatedAt int64 `json:"created_at"`
}

// HasMember reports whether id is a member of the group.
func (g *Group) HasMember(id string) bool {
	for _, mid := range g.MemberIDs {
		if mid == id {
			return true
		}
	}
	return false
}
