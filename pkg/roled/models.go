package roled

// UserID identifies a device user. User 0 is the primary user.
type UserID int32

// UserAll addresses every user at once when registering listeners.
const UserAll UserID = -1

// Flags accompany role-holder mutations. They are forwarded to the role
// controller untouched.
type Flags int32

const (
	// FlagDontKillApp suppresses restarting the affected package after the
	// grant set changes.
	FlagDontKillApp Flags = 1 << 0
)

// Callback completes an asynchronous role-holder mutation. It is invoked
// exactly once, with a nil error on success.
type Callback func(err error)

// RoleHoldersChangedListener observes role-holder changes for one user or
// for all users. A non-nil return is treated as a delivery failure for this
// listener only; it never affects delivery to other listeners.
type RoleHoldersChangedListener interface {
	OnRoleHoldersChanged(roleName string, user UserID) error
}

// Well-known role names.
const (
	RoleAssistant       = "android.app.role.ASSISTANT"
	RoleBrowser         = "android.app.role.BROWSER"
	RoleCallRedirection = "android.app.role.CALL_REDIRECTION"
	RoleCallScreening   = "android.app.role.CALL_SCREENING"
	RoleDialer          = "android.app.role.DIALER"
	RoleHome            = "android.app.role.HOME"
	RoleSMS             = "android.app.role.SMS"
)

var defaultApplicationRoles = map[string]struct{}{
	RoleAssistant:       {},
	RoleBrowser:         {},
	RoleCallRedirection: {},
	RoleCallScreening:   {},
	RoleDialer:          {},
	RoleHome:            {},
	RoleSMS:             {},
}

// IsDefaultApplicationRole reports whether roleName is on the fixed
// allow-list served by the default-application surface.
func IsDefaultApplicationRole(roleName string) bool {
	_, ok := defaultApplicationRoles[roleName]
	return ok
}

// Permissions checked by the request surface.
const (
	PermissionManageRoleHolders         = "roled.permission.MANAGE_ROLE_HOLDERS"
	PermissionObserveRoleHolders        = "roled.permission.OBSERVE_ROLE_HOLDERS"
	PermissionManageDefaultApplications = "roled.permission.MANAGE_DEFAULT_APPLICATIONS"
	PermissionBypassRoleQualification   = "roled.permission.BYPASS_ROLE_QUALIFICATION"
	PermissionInteractAcrossUsers       = "roled.permission.INTERACT_ACROSS_USERS"
	PermissionManageRolesFromController = "roled.permission.MANAGE_ROLES_FROM_CONTROLLER"
)
