// Copyright (c) 2026 Quillora. All rights reserved.

package sec

import "strings"

// # User Roles

// Role represents the authorization level granted to an account.
//
// The set of roles is closed. Permission grants are set-based rather than
// hierarchical: every decision goes through [Role.Permissions], so adding a
// role means extending the switch below, checked at review time, not a
// runtime dictionary miss.
type Role string

const (
	// Unrestricted system access
	RoleAdmin Role = "admin"

	// Can manage all content, media, and comment moderation
	RoleEditor Role = "editor"

	// Can create content and upload media, editing only their own work
	RoleAuthor Role = "author"

	// Default read-and-comment access
	RoleViewer Role = "viewer"
)

// # Permission Table

// Permissions returns the fixed set of permission patterns granted to a role.
//
// # Pattern Grammar
//
//   - "*" grants everything.
//   - "content:*" grants every action beginning with "content:".
//   - Any other pattern requires exact equality with the action string.
//
// Unknown roles receive no grants at all.
func (r Role) Permissions() []string {
	switch r {
	case RoleAdmin:
		return []string{"*"}
	case RoleEditor:
		return []string{"content:*", "media:*", "comments:moderate"}
	case RoleAuthor:
		return []string{"content:create", "content:edit:own", "media:upload"}
	case RoleViewer:
		return []string{"content:read", "comments:create"}
	default:
		return nil
	}
}

// Has reports whether the role may perform the given action.
//
// Matching is first-success: the universal wildcard, a namespace prefix
// match, or exact equality each short-circuit to true. The empty action
// matches nothing except the universal wildcard.
func (r Role) Has(action string) bool {
	for _, grant := range r.Permissions() {
		if grant == "*" {
			return true
		}
		if action == "" {
			continue
		}
		if strings.HasSuffix(grant, ":*") {
			prefix := strings.TrimSuffix(grant, "*")
			if strings.HasPrefix(action, prefix) {
				return true
			}
			continue
		}
		if grant == action {
			return true
		}
	}
	return false
}

// IsValid reports whether the role is one of the closed enumeration values.
func (r Role) IsValid() bool {
	switch r {
	case RoleAdmin, RoleEditor, RoleAuthor, RoleViewer:
		return true
	default:
		return false
	}
}

// # Ownership Guard

// CanModify decides whether an acting user may mutate a specific resource
// instance.
//
// This is a coarser, second authorization axis layered on top of the
// permission table: [Role.Has] answers "may this role perform this class of
// action at all", CanModify answers "may this user touch this instance".
// Admins and editors may touch anything; everyone else only their own.
func CanModify(role Role, actingUserID, resourceOwnerID string) bool {
	if role == RoleAdmin || role == RoleEditor {
		return true
	}
	return actingUserID == resourceOwnerID
}
