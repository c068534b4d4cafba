package user

import "errors"

var (
	ErrUserNotFound           = errors.New("user not found")
	ErrUserEmailExists        = errors.New("email already registered")
	ErrInvalidUserType        = errors.New("user type must be admin or employee")
	ErrAdminPrivilegeRequired = errors.New("admin privilege required")
	ErrInsufficientPermission = errors.New("insufficient permissions")
	ErrForbidden              = errors.New("not allowed to access this resource")
)
