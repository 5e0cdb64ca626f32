package dialog

import (
	"net/mail"
	"strings"
	"unicode/utf8"

	"github.com/jaakkos/backoffice/internal/domain"
)

// Validation messages shown next to user fields.
const (
	MsgInvalidEmail  = "Please enter a valid email address."
	MsgInvalidRole   = "Role must be Admin, Editor or Viewer."
	MsgInvalidStatus = "Status must be Active, Inactive or Pending."
)

// UserForm is the draft edited in the user dialog.
type UserForm struct {
	Name   string
	Email  string
	Role   string
	Status string
}

// NewUserForm returns the create-mode defaults.
func NewUserForm() UserForm {
	return UserForm{Role: string(domain.RoleViewer), Status: string(domain.StatusActive)}
}

// UserFormFrom pre-fills the form from an existing user.
func UserFormFrom(u domain.User) UserForm {
	return UserForm{Name: u.Name, Email: u.Email, Role: string(u.Role), Status: string(u.Status)}
}

// Validate implements Form.
func (f UserForm) Validate() (domain.UserInput, FieldErrors) {
	errs := FieldErrors{}
	if utf8.RuneCountInString(f.Name) < MinNameLength {
		errs["name"] = MsgNameTooShort
	}
	email := strings.TrimSpace(f.Email)
	if addr, err := mail.ParseAddress(email); err != nil || addr.Address != email {
		errs["email"] = MsgInvalidEmail
	}
	role, ok := domain.ParseRole(f.Role)
	if !ok {
		errs["role"] = MsgInvalidRole
	}
	status, ok := domain.ParseStatus(f.Status)
	if !ok {
		errs["status"] = MsgInvalidStatus
	}
	if len(errs) > 0 {
		return domain.UserInput{}, errs
	}
	return domain.UserInput{Name: f.Name, Email: email, Role: role, Status: status}, nil
}
