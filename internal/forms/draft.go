// Package forms validates recipe drafts and runs their submission, allowing
// at most one submission in flight per user.
package forms

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
)

// MaxImageSize is the largest image accepted with a draft
const MaxImageSize = 5 << 20

// MsgImageTooLarge is reported for images over MaxImageSize
const MsgImageTooLarge = "Image must be 5MB or smaller"

// Field names used as keys in ValidationError
const (
	FieldTitle        = "title"
	FieldIngredients  = "ingredients"
	FieldInstructions = "instructions"
	FieldImage        = "image"
)

// Image is an uploaded file attached to a draft
type Image struct {
	Filename    string
	ContentType string
	Size        int64
	Body        io.Reader
}

// Draft is the mutable record behind the submission form
type Draft struct {
	Title        string
	Ingredients  string
	Instructions string
	Image        *Image
}

// Trimmed returns a copy with the text fields trimmed
func (d Draft) Trimmed() Draft {
	d.Title = strings.TrimSpace(d.Title)
	d.Ingredients = strings.TrimSpace(d.Ingredients)
	d.Instructions = strings.TrimSpace(d.Instructions)
	return d
}

// ValidationError maps a field name to its message
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", k, e.Fields[k]))
	}
	return "invalid draft: " + strings.Join(parts, ", ")
}

// Validate reports every blank or unacceptable field at once. It returns nil
// or a *ValidationError.
func (d Draft) Validate() error {
	fields := make(map[string]string)
	t := d.Trimmed()

	if t.Title == "" {
		fields[FieldTitle] = "Title is required"
	}
	if t.Ingredients == "" {
		fields[FieldIngredients] = "Ingredients are required"
	}
	if t.Instructions == "" {
		fields[FieldInstructions] = "Instructions are required"
	}

	switch {
	case d.Image == nil || d.Image.Body == nil || d.Image.Size == 0:
		fields[FieldImage] = "Image is required"
	case !strings.HasPrefix(d.Image.ContentType, "image/"):
		fields[FieldImage] = "Image must be an image file"
	case d.Image.Size > MaxImageSize:
		fields[FieldImage] = MsgImageTooLarge
	}

	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}

// ImageTooLarge validates a draft whose upload was cut off because the image
// was too large. The text fields keep their own messages.
func ImageTooLarge(d Draft) *ValidationError {
	fields := make(map[string]string)
	var verr *ValidationError
	if errors.As(d.Validate(), &verr) {
		fields = verr.Fields
	}
	fields[FieldImage] = MsgImageTooLarge
	return &ValidationError{Fields: fields}
}
