// Package policy centralizes the role/ownership predicates gating every
// mutation. Each predicate is a pure function of the principal's role plus
// row ownership; handlers evaluate them before touching the store.
package policy

import "github.com/aethermere/campaign/server/model"

// CanEditWorld reports whether u may edit world entities: district
// updates, guild create/update, relationship create/update/delete.
func CanEditWorld(u *model.User) bool {
	return u.Role == model.RoleAdmin || u.Role == model.RoleDM
}

// CanDeleteGuild reports whether u may delete a guild.
func CanDeleteGuild(u *model.User) bool {
	return u.Role == model.RoleAdmin
}

// CanManageUsers reports whether u may list, create, delete, or reset
// passwords of accounts.
func CanManageUsers(u *model.User) bool {
	return u.Role == model.RoleAdmin
}

// CanEditNote reports whether u may update or delete the given note.
func CanEditNote(u *model.User, note *model.PlayerNote) bool {
	return note.UserID == u.ID || u.Role == model.RoleAdmin
}

// CanEditQuickRef reports whether actor may read-or-create and update the
// quick ref belonging to subject.
func CanEditQuickRef(actor, subject *model.User) bool {
	if actor.Role == model.RoleAdmin || actor.Role == model.RoleDM {
		return true
	}
	return actor.ID == subject.ID && subject.Role == model.RolePlayer
}
