package rpc

import (
	"strings"

	"code.cloudfoundry.org/roled/pkg/roled"
)

func validateRoleName(roleName string) error {
	if strings.Trim(roleName, "\t \n") == "" {
		return roled.ErrRoleNameEmpty
	}
	return nil
}

func validatePackageName(packageName string) error {
	if strings.Trim(packageName, "\t \n") == "" {
		return roled.ErrPackageNameEmpty
	}
	return nil
}
