package notebook

import (
	"errors"
	"fmt"
	"strings"

	"cloudnote/internal/config"
	"cloudnote/internal/domain"
	"cloudnote/internal/domain/models/notebook"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// noteFields is the validated subset of a note write
type noteFields struct {
	Title   string
	Content string
	FileURL string
	Tags    []string
	Type    string
}

func (f *noteFields) Validate() error {
	return validation.ValidateStruct(f,
		validation.Field(&f.Title,
			validation.RuneLength(0, config.MaxNoteTitleLength).Error("Title must be less than 200 characters"),
		),
		validation.Field(&f.Content,
			validation.By(maxBytes(config.MaxNoteContentBytes, "Content must be less than 1MB")),
		),
		validation.Field(&f.FileURL,
			validation.By(maxBytes(config.MaxFileURLBytes, "File size must be less than ~700KB")),
		),
		validation.Field(&f.Tags,
			validation.Length(0, config.MaxTags).Error("Maximum 20 tags allowed"),
			validation.Each(validation.RuneLength(0, config.MaxTagLength).Error("Each tag must be a string with max 30 characters")),
		),
		validation.Field(&f.Type,
			validation.In(string(notebook.NoteTypeText), string(notebook.NoteTypePDF)).Error("Type must be text or pdf"),
		),
	)
}

func maxBytes(limit int, message string) validation.RuleFunc {
	return func(value interface{}) error {
		s, _ := value.(string)
		if len(s) > limit {
			return errors.New(message)
		}
		return nil
	}
}

// validateFolderName trims name and checks it is 1..MaxFolderNameLength runes
func validateFolderName(name string) (string, error) {
	trimmed := strings.TrimSpace(name)
	err := validation.Validate(trimmed,
		validation.Required.Error("Folder name is required"),
		validation.RuneLength(1, config.MaxFolderNameLength).Error("Folder name must be less than 100 characters"),
	)
	if err != nil {
		return "", &domain.ValidationError{Message: err.Error()}
	}
	return trimmed, nil
}

func validationError(err error) error {
	return fmt.Errorf("%w: %v", domain.ErrValidation, err)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// normalizeID maps "" to nil so both mean "unset" (root for folder references)
func normalizeID(id *string) *string {
	if id == nil || *id == "" {
		return nil
	}
	return id
}
