// Copyright (c) 2026 Quillora. All rights reserved.

package sec_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/quillora/quillora/internal/platform/sec"
)

/*
TestRole_Permissions verifies every known role carries a non-empty grant set
and unknown roles carry none.
*/
func TestRole_Permissions(t *testing.T) {
	for _, role := range []sec.Role{sec.RoleAdmin, sec.RoleEditor, sec.RoleAuthor, sec.RoleViewer} {
		assert.NotEmpty(t, role.Permissions(), "role %q must have grants", role)
	}

	assert.Empty(t, sec.Role("superuser").Permissions())
	assert.Empty(t, sec.Role("").Permissions())
}

/*
TestRole_Has exercises the pattern grammar: universal wildcard, namespace
prefix, and exact match.
*/
func TestRole_Has(t *testing.T) {
	tests := []struct {
		name    string
		role    sec.Role
		action  string
		allowed bool
	}{
		// Admin: universal wildcard matches everything, even the empty action.
		{"admin_any_action", sec.RoleAdmin, "content:delete", true},
		{"admin_unlisted_action", sec.RoleAdmin, "system:shutdown", true},
		{"admin_empty_action", sec.RoleAdmin, "", true},

		// Editor: namespace wildcards over content and media.
		{"editor_content_prefix", sec.RoleEditor, "content:publish", true},
		{"editor_media_prefix", sec.RoleEditor, "media:delete", true},
		{"editor_exact_grant", sec.RoleEditor, "comments:moderate", true},
		{"editor_outside_namespace", sec.RoleEditor, "users:delete", false},
		{"editor_empty_action", sec.RoleEditor, "", false},

		// Author: exact grants only.
		{"author_create", sec.RoleAuthor, "content:create", true},
		{"author_edit_own", sec.RoleAuthor, "content:edit:own", true},
		{"author_upload", sec.RoleAuthor, "media:upload", true},
		{"author_edit_any", sec.RoleAuthor, "content:edit", false},
		{"author_read", sec.RoleAuthor, "content:read", false},

		// Viewer: read and comment only.
		{"viewer_read", sec.RoleViewer, "content:read", true},
		{"viewer_comment", sec.RoleViewer, "comments:create", true},
		{"viewer_create", sec.RoleViewer, "content:create", false},
		{"viewer_moderate", sec.RoleViewer, "comments:moderate", false},

		// Unknown roles are granted nothing.
		{"unknown_role", sec.Role("superuser"), "content:read", false},
		{"empty_role", sec.Role(""), "content:read", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.allowed, tt.role.Has(tt.action))
		})
	}
}

/*
TestRole_IsValid verifies the closed role enumeration.
*/
func TestRole_IsValid(t *testing.T) {
	assert.True(t, sec.RoleAdmin.IsValid())
	assert.True(t, sec.RoleEditor.IsValid())
	assert.True(t, sec.RoleAuthor.IsValid())
	assert.True(t, sec.RoleViewer.IsValid())

	assert.False(t, sec.Role("superuser").IsValid())
	assert.False(t, sec.Role("Admin").IsValid()) // case-sensitive
	assert.False(t, sec.Role("").IsValid())
}

/*
TestCanModify verifies the instance-level ownership guard: admins and editors
touch anything, everyone else only their own resources.
*/
func TestCanModify(t *testing.T) {
	tests := []struct {
		name    string
		role    sec.Role
		actor   string
		owner   string
		allowed bool
	}{
		{"admin_not_owner", sec.RoleAdmin, "user-1", "user-2", true},
		{"editor_not_owner", sec.RoleEditor, "user-1", "user-2", true},
		{"author_not_owner", sec.RoleAuthor, "user-1", "user-2", false},
		{"author_owner", sec.RoleAuthor, "user-1", "user-1", true},
		{"viewer_not_owner", sec.RoleViewer, "user-1", "user-2", false},
		{"viewer_owner", sec.RoleViewer, "user-1", "user-1", true},
		{"unknown_role_owner", sec.Role("superuser"), "user-1", "user-1", true},
		{"unknown_role_not_owner", sec.Role("superuser"), "user-1", "user-2", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.allowed, sec.CanModify(tt.role, tt.actor, tt.owner))
		})
	}
}
