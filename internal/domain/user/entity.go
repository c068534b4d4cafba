package user

import (
	"fmt"
	"time"
)

// UserType tags which account collection a reference points into.
type UserType string

const (
	TypeAdmin    UserType = "admin"
	TypeEmployee UserType = "employee"
)

func (t UserType) Valid() bool {
	return t == TypeAdmin || t == TypeEmployee
}

func ParseUserType(s string) (UserType, error) {
	t := UserType(s)
	if !t.Valid() {
		return "", ErrInvalidUserType
	}
	return t, nil
}

// Ref identifies an account as Admin(id) or Employee(id).
type Ref struct {
	Type UserType
	ID   string
}

func AdminRef(id string) Ref {
	return Ref{Type: TypeAdmin, ID: id}
}

func EmployeeRef(id string) Ref {
	return Ref{Type: TypeEmployee, ID: id}
}

func (r Ref) IsAdmin() bool {
	return r.Type == TypeAdmin
}

func (r Ref) IsZero() bool {
	return r.ID == "" && r.Type == ""
}

func (r Ref) String() string {
	return fmt.Sprintf("%s:%s", r.Type, r.ID)
}

// Account holds the fields admins and employees share.
type Account struct {
	Ref          Ref
	Email        string
	PasswordHash *string
	FullName     string
	Department   *string
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// DepartmentName returns the department or an empty string.
func (a Account) DepartmentName() string {
	if a.Department == nil {
		return ""
	}
	return *a.Department
}

// Principal is the authenticated caller of an operation.
type Principal struct {
	Ref   Ref
	Email string
}

func (p Principal) IsAdmin() bool {
	return p.Ref.IsAdmin()
}

// CanView reports whether the principal may read data owned by owner.
func (p Principal) CanView(owner Ref) bool {
	return p.IsAdmin() || p.Ref == owner
}
