package notification

import "github.com/yaojerry/office-admin/internal"

type CreateNotificationDTO struct {
	UserID  int64  `json:"userId"`
	Type    string `json:"type"`
	Title   string `json:"title"`
	Content string `json:"content"`
}

func (d CreateNotificationDTO) Validate() error {
	var errs []internal.ValidationError
	if d.UserID <= 0 {
		errs = append(errs, internal.ValidationError{Field: "userId", Message: "userId is required", Code: string(internal.ErrCodeValidationFailed)})
	}
	if d.Type == "" {
		errs = append(errs, internal.ValidationError{Field: "type", Message: "type is required", Code: string(internal.ErrCodeValidationFailed)})
	}
	if d.Title == "" {
		errs = append(errs, internal.ValidationError{Field: "title", Message: "title is required", Code: string(internal.ErrCodeValidationFailed)})
	}
	if d.Content == "" {
		errs = append(errs, internal.ValidationError{Field: "content", Message: "content is required", Code: string(internal.ErrCodeValidationFailed)})
	}
	if len(errs) > 0 {
		return internal.NewValidationError("Validation failed", internal.ErrCodeValidationFailed).
			WithDetails(internal.ValidationErrors{Errors: errs})
	}
	return nil
}
