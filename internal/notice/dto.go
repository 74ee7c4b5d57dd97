package notice

import "github.com/yaojerry/office-admin/internal"

type CreateNoticeDTO struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

func (d CreateNoticeDTO) Validate() error {
	var errs []internal.ValidationError
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

type UpdateNoticeDTO struct {
	Title   *string `json:"title"`
	Content *string `json:"content"`
}

type SetArchivedDTO struct {
	Archived bool `json:"archived"`
}
