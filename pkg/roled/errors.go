package roled

var (
	ErrRoleNameEmpty    = NewErrCannotBeEmpty("role name")
	ErrPackageNameEmpty = NewErrCannotBeEmpty("package name")

	ErrRoleNotFound = NewErrNotFound("role")
	ErrUserNotFound = NewErrNotFound("user")

	ErrNotDefaultApplicationRole = NewErrUnsupported("default-application access for this role")
)
