package user

import (
	"strings"

	"github.com/yaojerry/office-admin/internal"
)

type CreateUserDTO struct {
	Username    string  `json:"username"`
	DisplayName string  `json:"displayName"`
	Email       string  `json:"email"`
	Password    string  `json:"password"`
	Phone       string  `json:"phone"`
	Roles       []int64 `json:"roles"`
	Departments []int64 `json:"departments"`
}

func (d CreateUserDTO) Validate() error {
	var errs []internal.ValidationError
	if d.Username == "" {
		errs = append(errs, internal.ValidationError{Field: "username", Message: "username is required", Code: string(internal.ErrCodeValidationFailed)})
	}
	if d.Email == "" || !strings.Contains(d.Email, "@") {
		errs = append(errs, internal.ValidationError{Field: "email", Message: "a valid email is required", Code: string(internal.ErrCodeValidationFailed)})
	}
	if len(d.Password) < 6 {
		errs = append(errs, internal.ValidationError{Field: "password", Message: "password must be at least 6 characters", Code: string(internal.ErrCodeValidationFailed)})
	}
	if len(errs) > 0 {
		return internal.NewValidationError("Validation failed", internal.ErrCodeValidationFailed).
			WithDetails(internal.ValidationErrors{Errors: errs})
	}
	return nil
}

// UpdateUserDTO replaces membership sets when the roles or departments field
// is present: the supplied list becomes the full set, it is not additive.
type UpdateUserDTO struct {
	DisplayName *string  `json:"displayName"`
	Email       *string  `json:"email"`
	Phone       *string  `json:"phone"`
	Password    *string  `json:"password"`
	Roles       *[]int64 `json:"roles"`
	Departments *[]int64 `json:"departments"`
}

type UpdateProfileDTO struct {
	Email    *string `json:"email"`
	Phone    *string `json:"phone"`
	Password *string `json:"password"`
}
