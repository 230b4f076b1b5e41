package models

import "strings"

// Permission is a "resource:action" capability string. A stored
// "resource:*" entry grants every action on that resource.
type Permission string

// Permission constants grouped by resource
const (
	PermissionLeadsView   Permission = "leads:view"
	PermissionLeadsEdit   Permission = "leads:edit"
	PermissionLeadsDelete Permission = "leads:delete"
	PermissionLeadsAll    Permission = "leads:*"

	PermissionSalesView   Permission = "sales:view"
	PermissionSalesEdit   Permission = "sales:edit"
	PermissionSalesAll    Permission = "sales:*"

	PermissionAdLinksView Permission = "ad_links:view"
	PermissionAdLinksEdit Permission = "ad_links:edit"
	PermissionAdLinksAll  Permission = "ad_links:*"

	PermissionContentView Permission = "content:view"
	PermissionContentEdit Permission = "content:edit"
	PermissionContentAll  Permission = "content:*"

	PermissionUsersView Permission = "users:view"
	PermissionUsersEdit Permission = "users:edit"
	PermissionUsersAll  Permission = "users:*"

	PermissionAnalyticsView Permission = "analytics:view"
)

// rolePermissions is the static role to permission-set table. Unknown roles
// resolve to an empty set, so every lookup denies by default.
var rolePermissions = map[Role][]Permission{
	RoleSuperAdmin: {
		PermissionLeadsAll,
		PermissionSalesAll,
		PermissionAdLinksAll,
		PermissionContentAll,
		PermissionUsersAll,
		PermissionAnalyticsView,
	},
	RoleAdmin: {
		PermissionLeadsAll,
		PermissionSalesAll,
		PermissionAdLinksAll,
		PermissionContentAll,
		PermissionUsersView,
		PermissionAnalyticsView,
	},
	RoleCRMUser: {
		PermissionLeadsView,
		PermissionLeadsEdit,
		PermissionSalesView,
		PermissionSalesEdit,
		PermissionAnalyticsView,
	},
	RoleViewer: {
		PermissionLeadsView,
		PermissionSalesView,
		PermissionAdLinksView,
		PermissionContentView,
		PermissionAnalyticsView,
	},
}

// AdminRoute couples a top-level admin panel route with its guarding permission
type AdminRoute struct {
	Path       string
	Permission Permission
}

// adminRoutes is ordered the way the panel navigation renders
var adminRoutes = []AdminRoute{
	{Path: "/admin/leads", Permission: PermissionLeadsView},
	{Path: "/admin/sales", Permission: PermissionSalesView},
	{Path: "/admin/ad-links", Permission: PermissionAdLinksView},
	{Path: "/admin/analytics", Permission: PermissionAnalyticsView},
	{Path: "/admin/content", Permission: PermissionContentView},
	{Path: "/admin/users", Permission: PermissionUsersView},
}

// HasPermission reports whether the role's static permission set contains the
// requested permission, either exactly or via a resource wildcard. Lookups are
// pure and total: unknown roles and malformed permissions simply deny.
func HasPermission(role Role, permission Permission) bool {
	granted, ok := rolePermissions[role]
	if !ok {
		return false
	}

	resource, _, found := strings.Cut(string(permission), ":")
	wildcard := Permission(resource + ":*")

	for _, p := range granted {
		if p == permission {
			return true
		}
		if found && p == wildcard {
			return true
		}
	}
	return false
}

// HasAnyPermission reports whether the role holds at least one of the given permissions
func HasAnyPermission(role Role, permissions []Permission) bool {
	for _, p := range permissions {
		if HasPermission(role, p) {
			return true
		}
	}
	return false
}

// AccessibleRoutes returns the ordered admin routes whose guarding permission
// the role satisfies
func AccessibleRoutes(role Role) []string {
	var routes []string
	for _, r := range adminRoutes {
		if HasPermission(role, r.Permission) {
			routes = append(routes, r.Path)
		}
	}
	return routes
}
