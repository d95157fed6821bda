// Package rpc is the remote-call surface of the role service. The handlers
// are transport-agnostic: a binder-style front end attaches a
// contextx.Caller to the request context and invokes them directly. Every
// handler validates its arguments, consults the Authorizer, records a
// security event for mutations, and only then dispatches to the service.
package rpc

import (
	"context"
	"errors"
	"strconv"

	"code.cloudfoundry.org/roled/pkg/api"
	"code.cloudfoundry.org/roled/pkg/logx"
	"code.cloudfoundry.org/roled/pkg/roled"
)

// ErrRoleHolderChangeFailed completes a mutation callback whose grant
// computation reported failure.
var ErrRoleHolderChangeFailed = errors.New("role-holder change failed")

type RoleServiceServer struct {
	logger         logx.Logger
	securityLogger logx.SecurityLogger
	authorizer     Authorizer

	service *api.Service
}

func NewRoleServiceServer(
	logger logx.Logger,
	securityLogger logx.SecurityLogger,
	authorizer Authorizer,
	service *api.Service,
) *RoleServiceServer {
	return &RoleServiceServer{
		logger:         logger,
		securityLogger: securityLogger,
		authorizer:     authorizer,
		service:        service,
	}
}

func (s *RoleServiceServer) IsRoleAvailableAsUser(ctx context.Context, roleName string, user roled.UserID) (bool, error) {
	if err := validateRoleName(roleName); err != nil {
		return false, err
	}
	if err := s.authorize(ctx, roled.PermissionObserveRoleHolders, user); err != nil {
		return false, err
	}

	logger := s.logger.WithName("is-role-available-as-user").WithData(
		logx.Data{Key: "role.name", Value: roleName},
		logx.Data{Key: "userId", Value: user},
	)
	logger.Debug(starting)

	available := s.service.IsRoleAvailable(user, roleName)

	logger.Debug(success)
	return available, nil
}

func (s *RoleServiceServer) IsRoleHeldAsUser(ctx context.Context, roleName, packageName string, user roled.UserID) (bool, error) {
	if err := validateRoleName(roleName); err != nil {
		return false, err
	}
	if err := validatePackageName(packageName); err != nil {
		return false, err
	}
	if err := s.authorize(ctx, roled.PermissionObserveRoleHolders, user); err != nil {
		return false, err
	}

	logger := s.logger.WithName("is-role-held-as-user").WithData(
		logx.Data{Key: "role.name", Value: roleName},
		logx.Data{Key: "package.name", Value: packageName},
		logx.Data{Key: "userId", Value: user},
	)
	logger.Debug(starting)

	for _, holder := range s.service.RoleHolders(user, roleName) {
		if holder == packageName {
			logger.Debug(success)
			return true, nil
		}
	}

	logger.Debug(success)
	return false, nil
}

func (s *RoleServiceServer) GetRoleHoldersAsUser(ctx context.Context, roleName string, user roled.UserID) ([]string, error) {
	if err := validateRoleName(roleName); err != nil {
		return nil, err
	}
	if err := s.authorize(ctx, roled.PermissionObserveRoleHolders, user); err != nil {
		return nil, err
	}

	logger := s.logger.WithName("get-role-holders-as-user").WithData(
		logx.Data{Key: "role.name", Value: roleName},
		logx.Data{Key: "userId", Value: user},
	)
	logger.Debug(starting)

	holders := s.service.RoleHolders(user, roleName)

	logger.Debug(success)
	return holders, nil
}

func (s *RoleServiceServer) AddRoleHolderAsUser(ctx context.Context, roleName, packageName string, flags roled.Flags, user roled.UserID, callback roled.Callback) error {
	if err := validateRoleName(roleName); err != nil {
		return err
	}
	if err := validatePackageName(packageName); err != nil {
		return err
	}
	if err := s.authorize(ctx, roled.PermissionManageRoleHolders, user); err != nil {
		return err
	}

	s.securityLogger.Log(ctx, "AddRoleHolderAsUser", "Role holder addition",
		logx.SecurityData{Key: "roleName", Value: roleName},
		logx.SecurityData{Key: "packageName", Value: packageName},
		logx.SecurityData{Key: "userId", Value: formatUser(user)},
	)
	logger := s.logger.WithName("add-role-holder-as-user").WithData(
		logx.Data{Key: "role.name", Value: roleName},
		logx.Data{Key: "package.name", Value: packageName},
		logx.Data{Key: "userId", Value: user},
	)
	logger.Debug(starting)

	s.service.AddRoleHolder(ctx, user, roleName, packageName, flags, func(ok bool) {
		if !ok {
			callback(ErrRoleHolderChangeFailed)
			return
		}
		logger.Debug(success)
		callback(nil)
	})
	return nil
}

func (s *RoleServiceServer) RemoveRoleHolderAsUser(ctx context.Context, roleName, packageName string, flags roled.Flags, user roled.UserID, callback roled.Callback) error {
	if err := validateRoleName(roleName); err != nil {
		return err
	}
	if err := validatePackageName(packageName); err != nil {
		return err
	}
	if err := s.authorize(ctx, roled.PermissionManageRoleHolders, user); err != nil {
		return err
	}

	s.securityLogger.Log(ctx, "RemoveRoleHolderAsUser", "Role holder removal",
		logx.SecurityData{Key: "roleName", Value: roleName},
		logx.SecurityData{Key: "packageName", Value: packageName},
		logx.SecurityData{Key: "userId", Value: formatUser(user)},
	)
	logger := s.logger.WithName("remove-role-holder-as-user").WithData(
		logx.Data{Key: "role.name", Value: roleName},
		logx.Data{Key: "package.name", Value: packageName},
		logx.Data{Key: "userId", Value: user},
	)
	logger.Debug(starting)

	s.service.RemoveRoleHolder(ctx, user, roleName, packageName, flags, func(ok bool) {
		if !ok {
			callback(ErrRoleHolderChangeFailed)
			return
		}
		logger.Debug(success)
		callback(nil)
	})
	return nil
}

func (s *RoleServiceServer) ClearRoleHoldersAsUser(ctx context.Context, roleName string, flags roled.Flags, user roled.UserID, callback roled.Callback) error {
	if err := validateRoleName(roleName); err != nil {
		return err
	}
	if err := s.authorize(ctx, roled.PermissionManageRoleHolders, user); err != nil {
		return err
	}

	s.securityLogger.Log(ctx, "ClearRoleHoldersAsUser", "Role holder clearing",
		logx.SecurityData{Key: "roleName", Value: roleName},
		logx.SecurityData{Key: "userId", Value: formatUser(user)},
	)
	logger := s.logger.WithName("clear-role-holders-as-user").WithData(
		logx.Data{Key: "role.name", Value: roleName},
		logx.Data{Key: "userId", Value: user},
	)
	logger.Debug(starting)

	s.service.ClearRoleHolders(ctx, user, roleName, flags, func(ok bool) {
		if !ok {
			callback(ErrRoleHolderChangeFailed)
			return
		}
		logger.Debug(success)
		callback(nil)
	})
	return nil
}

// GetDefaultApplicationAsUser returns the current holder of a
// default-application role, or the empty string when none is assigned. Roles
// outside the fixed allow-list are rejected.
func (s *RoleServiceServer) GetDefaultApplicationAsUser(ctx context.Context, roleName string, user roled.UserID) (string, error) {
	if err := validateRoleName(roleName); err != nil {
		return "", err
	}
	if !roled.IsDefaultApplicationRole(roleName) {
		return "", roled.ErrNotDefaultApplicationRole
	}
	if err := s.authorize(ctx, roled.PermissionManageDefaultApplications, user); err != nil {
		return "", err
	}

	logger := s.logger.WithName("get-default-application-as-user").WithData(
		logx.Data{Key: "role.name", Value: roleName},
		logx.Data{Key: "userId", Value: user},
	)
	logger.Debug(starting)

	holders := s.service.RoleHolders(user, roleName)
	if len(holders) == 0 {
		logger.Debug(success)
		return "", nil
	}

	logger.Debug(success)
	return holders[0], nil
}

// SetDefaultApplicationAsUser assigns packageName as the sole holder of a
// default-application role. An empty packageName clears the role instead.
func (s *RoleServiceServer) SetDefaultApplicationAsUser(ctx context.Context, roleName, packageName string, flags roled.Flags, user roled.UserID, callback roled.Callback) error {
	if err := validateRoleName(roleName); err != nil {
		return err
	}
	if !roled.IsDefaultApplicationRole(roleName) {
		return roled.ErrNotDefaultApplicationRole
	}
	if err := s.authorize(ctx, roled.PermissionManageDefaultApplications, user); err != nil {
		return err
	}

	s.securityLogger.Log(ctx, "SetDefaultApplicationAsUser", "Default application change",
		logx.SecurityData{Key: "roleName", Value: roleName},
		logx.SecurityData{Key: "packageName", Value: packageName},
		logx.SecurityData{Key: "userId", Value: formatUser(user)},
	)
	logger := s.logger.WithName("set-default-application-as-user").WithData(
		logx.Data{Key: "role.name", Value: roleName},
		logx.Data{Key: "package.name", Value: packageName},
		logx.Data{Key: "userId", Value: user},
	)
	logger.Debug(starting)

	done := func(ok bool) {
		if !ok {
			callback(ErrRoleHolderChangeFailed)
			return
		}
		logger.Debug(success)
		callback(nil)
	}

	if packageName == "" {
		s.service.ClearRoleHolders(ctx, user, roleName, flags, done)
		return nil
	}

	s.service.AddRoleHolder(ctx, user, roleName, packageName, flags, done)
	return nil
}

func (s *RoleServiceServer) AddOnRoleHoldersChangedListenerAsUser(ctx context.Context, listener roled.RoleHoldersChangedListener, user roled.UserID) error {
	if err := s.authorize(ctx, roled.PermissionObserveRoleHolders, user); err != nil {
		return err
	}

	s.service.AddOnRoleHoldersChangedListener(user, listener)
	return nil
}

func (s *RoleServiceServer) RemoveOnRoleHoldersChangedListenerAsUser(ctx context.Context, listener roled.RoleHoldersChangedListener, user roled.UserID) error {
	if err := s.authorize(ctx, roled.PermissionObserveRoleHolders, user); err != nil {
		return err
	}

	s.service.RemoveOnRoleHoldersChangedListener(user, listener)
	return nil
}

func (s *RoleServiceServer) IsBypassingRoleQualification(ctx context.Context) (bool, error) {
	if err := s.authorizer.CheckPermission(ctx, roled.PermissionBypassRoleQualification); err != nil {
		return false, err
	}

	return s.service.IsBypassingRoleQualification(), nil
}

func (s *RoleServiceServer) SetBypassingRoleQualification(ctx context.Context, bypass bool) error {
	if err := s.authorizer.CheckPermission(ctx, roled.PermissionBypassRoleQualification); err != nil {
		return err
	}

	s.securityLogger.Log(ctx, "SetBypassingRoleQualification", "Role qualification bypass change",
		logx.SecurityData{Key: "bypass", Value: strconv.FormatBool(bypass)},
	)

	s.service.SetBypassingRoleQualification(bypass)
	return nil
}

func (s *RoleServiceServer) IsRoleFallbackEnabledAsUser(ctx context.Context, roleName string, user roled.UserID) (bool, error) {
	if err := validateRoleName(roleName); err != nil {
		return false, err
	}
	if err := s.authorize(ctx, roled.PermissionManageRoleHolders, user); err != nil {
		return false, err
	}
	if !s.service.IsRoleAvailable(user, roleName) {
		return false, roled.ErrRoleNotFound
	}

	return s.service.IsFallbackEnabled(user, roleName), nil
}

func (s *RoleServiceServer) SetRoleFallbackEnabledAsUser(ctx context.Context, roleName string, enabled bool, user roled.UserID) error {
	if err := validateRoleName(roleName); err != nil {
		return err
	}
	if err := s.authorize(ctx, roled.PermissionManageRoleHolders, user); err != nil {
		return err
	}
	if !s.service.IsRoleAvailable(user, roleName) {
		return roled.ErrRoleNotFound
	}

	s.securityLogger.Log(ctx, "SetRoleFallbackEnabledAsUser", "Role fallback change",
		logx.SecurityData{Key: "roleName", Value: roleName},
		logx.SecurityData{Key: "enabled", Value: strconv.FormatBool(enabled)},
		logx.SecurityData{Key: "userId", Value: formatUser(user)},
	)

	s.service.SetFallbackEnabled(user, roleName, enabled)
	return nil
}

func (s *RoleServiceServer) SetRoleNamesFromControllerAsUser(ctx context.Context, roleNames []string, user roled.UserID) error {
	for _, roleName := range roleNames {
		if err := validateRoleName(roleName); err != nil {
			return err
		}
	}
	if err := s.authorize(ctx, roled.PermissionManageRolesFromController, user); err != nil {
		return err
	}

	s.securityLogger.Log(ctx, "SetRoleNamesFromControllerAsUser", "Recognized role set change",
		logx.SecurityData{Key: "userId", Value: formatUser(user)},
	)

	s.service.SetRoleNamesFromController(user, roleNames)
	return nil
}

func (s *RoleServiceServer) AddRoleHolderFromControllerAsUser(ctx context.Context, roleName, packageName string, user roled.UserID) error {
	if err := validateRoleName(roleName); err != nil {
		return err
	}
	if err := validatePackageName(packageName); err != nil {
		return err
	}
	if err := s.authorize(ctx, roled.PermissionManageRolesFromController, user); err != nil {
		return err
	}
	if !s.service.IsRoleAvailable(user, roleName) {
		return roled.ErrRoleNotFound
	}

	s.securityLogger.Log(ctx, "AddRoleHolderFromControllerAsUser", "Role holder addition",
		logx.SecurityData{Key: "roleName", Value: roleName},
		logx.SecurityData{Key: "packageName", Value: packageName},
		logx.SecurityData{Key: "userId", Value: formatUser(user)},
	)

	s.service.AddRoleHolderFromController(user, roleName, packageName)
	return nil
}

func (s *RoleServiceServer) RemoveRoleHolderFromControllerAsUser(ctx context.Context, roleName, packageName string, user roled.UserID) error {
	if err := validateRoleName(roleName); err != nil {
		return err
	}
	if err := validatePackageName(packageName); err != nil {
		return err
	}
	if err := s.authorize(ctx, roled.PermissionManageRolesFromController, user); err != nil {
		return err
	}
	if !s.service.IsRoleAvailable(user, roleName) {
		return roled.ErrRoleNotFound
	}

	s.securityLogger.Log(ctx, "RemoveRoleHolderFromControllerAsUser", "Role holder removal",
		logx.SecurityData{Key: "roleName", Value: roleName},
		logx.SecurityData{Key: "packageName", Value: packageName},
		logx.SecurityData{Key: "userId", Value: formatUser(user)},
	)

	s.service.RemoveRoleHolderFromController(user, roleName, packageName)
	return nil
}

func (s *RoleServiceServer) GetHeldRolesFromControllerAsUser(ctx context.Context, packageName string, user roled.UserID) ([]string, error) {
	if err := validatePackageName(packageName); err != nil {
		return nil, err
	}
	if err := s.authorize(ctx, roled.PermissionManageRolesFromController, user); err != nil {
		return nil, err
	}

	return s.service.HeldRoles(user, packageName), nil
}

// authorize runs the common guard sequence for AsUser operations: the
// required permission, the cross-user check, and target-user existence.
// roled.UserAll is a valid target only for listener registration; it always
// takes the cross-user path and skips the existence check.
func (s *RoleServiceServer) authorize(ctx context.Context, permission string, user roled.UserID) error {
	if err := s.authorizer.CheckPermission(ctx, permission); err != nil {
		return err
	}
	if err := s.authorizer.CheckUser(ctx, user); err != nil {
		return err
	}
	if user != roled.UserAll && !s.service.UserExists(user) {
		return roled.ErrUserNotFound
	}
	return nil
}

func formatUser(user roled.UserID) string {
	return strconv.Itoa(int(user))
}
