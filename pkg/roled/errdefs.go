package roled

import "fmt"

type ErrNotFound struct {
	model string
}

func NewErrNotFound(model string) ErrNotFound {
	return ErrNotFound{
		model: model,
	}
}

func (err ErrNotFound) Error() string {
	return fmt.Sprintf("%s not found", err.model)
}

type ErrCannotBeEmpty struct {
	model string
}

func NewErrCannotBeEmpty(model string) ErrCannotBeEmpty {
	return ErrCannotBeEmpty{
		model: model,
	}
}

func (err ErrCannotBeEmpty) Error() string {
	return fmt.Sprintf("%s cannot be empty", err.model)
}

type ErrUnsupported struct {
	operation string
}

func NewErrUnsupported(operation string) ErrUnsupported {
	return ErrUnsupported{
		operation: operation,
	}
}

func (err ErrUnsupported) Error() string {
	return fmt.Sprintf("%s is not supported by this controller", err.operation)
}

type ErrDenied struct {
	permission string
}

func NewErrDenied(permission string) ErrDenied {
	return ErrDenied{
		permission: permission,
	}
}

func (err ErrDenied) Error() string {
	return fmt.Sprintf("caller does not hold %s", err.permission)
}

// Permission reports the permission whose absence caused the denial.
func (err ErrDenied) Permission() string {
	return err.permission
}
