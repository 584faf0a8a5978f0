package api

import (
	"bytes"
	"errors"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/pageza/recipeshare/internal/forms"
	"github.com/pageza/recipeshare/internal/logging"
	"github.com/pageza/recipeshare/internal/render"
	"github.com/pageza/recipeshare/internal/service"
	"github.com/pageza/recipeshare/internal/session"
)

const (
	msgSubmitted    = "Recipe submitted successfully!"
	msgSubmitFailed = "Failed to submit recipe. Please try again."
	msgInFlight     = "Your previous submission is still being saved."
)

// Upload limits. maxUploadBody caps the whole request; an image over
// forms.MaxImageSize but under this cap is still reported as a field error.
const (
	maxUploadBody = 4 * forms.MaxImageSize
	maxFieldSize  = 64 << 10
)

// SubmitHandler serves the recipe submission form
type SubmitHandler struct {
	forms     *forms.Controller
	submitter *service.RecipeSubmitter
}

func NewSubmitHandler(controller *forms.Controller, submitter *service.RecipeSubmitter) *SubmitHandler {
	return &SubmitHandler{forms: controller, submitter: submitter}
}

func (h *SubmitHandler) Form(c *gin.Context) {
	s := session.From(c)
	renderPage(c, http.StatusOK, "submit", "Submit a Recipe", render.SubmitBody{
		InFlight: h.forms.InFlight(c.Request.Context(), s.UserID.String()),
	})
}

func (h *SubmitHandler) Submit(c *gin.Context) {
	s := session.From(c)
	draft, err := readDraft(c)

	body := render.SubmitBody{
		Title:        draft.Title,
		Ingredients:  draft.Ingredients,
		Instructions: draft.Instructions,
	}

	var verr *forms.ValidationError
	if err != nil && !errors.As(err, &verr) {
		logging.Warn("unreadable submission", zap.Error(err))
		err = nil
	}
	if err == nil {
		err = h.forms.Submit(c.Request.Context(), s.UserID.String(), draft, h.submitter.Write(s.UserID, nil))
	}

	switch {
	case err == nil:
		setFlash(c, msgSubmitted)
		c.Redirect(http.StatusSeeOther, "/submit")
	case errors.As(err, &verr):
		body.Errors = verr.Fields
		renderPage(c, http.StatusUnprocessableEntity, "submit", "Submit a Recipe", body)
	case errors.Is(err, forms.ErrSubmissionInFlight):
		body.InFlight = true
		flashNow(c, msgInFlight)
		renderPage(c, http.StatusConflict, "submit", "Submit a Recipe", body)
	default:
		logging.Error("recipe submission failed", zap.String("user_id", s.UserID.String()), zap.Error(err))
		flashNow(c, msgSubmitFailed)
		renderPage(c, http.StatusInternalServerError, "submit", "Submit a Recipe", body)
	}
}

// readDraft streams a multipart form into a draft. The image is read up to one
// byte past forms.MaxImageSize so oversized files fail validation without
// losing the text fields. A body cut off by maxUploadBody yields a
// *forms.ValidationError.
func readDraft(c *gin.Context) (forms.Draft, error) {
	var d forms.Draft
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxUploadBody)

	mr, err := c.Request.MultipartReader()
	if errors.Is(err, http.ErrNotMultipart) {
		d.Title = c.PostForm(forms.FieldTitle)
		d.Ingredients = c.PostForm(forms.FieldIngredients)
		d.Instructions = c.PostForm(forms.FieldInstructions)
		return d, nil
	}
	if err != nil {
		return d, err
	}

	for {
		part, err := mr.NextPart()
		if err == io.EOF {
			return d, nil
		}
		if err != nil {
			return d, readFailure(d, err)
		}
		err = readPart(&d, part)
		_ = part.Close()
		if err != nil {
			return d, readFailure(d, err)
		}
	}
}

func readPart(d *forms.Draft, part *multipart.Part) error {
	switch part.FormName() {
	case forms.FieldTitle:
		return readField(&d.Title, part)
	case forms.FieldIngredients:
		return readField(&d.Ingredients, part)
	case forms.FieldInstructions:
		return readField(&d.Instructions, part)
	case forms.FieldImage:
		if part.FileName() == "" {
			return nil
		}
		data, err := io.ReadAll(io.LimitReader(part, forms.MaxImageSize+1))
		if err != nil {
			return err
		}
		d.Image = &forms.Image{
			Filename:    part.FileName(),
			ContentType: part.Header.Get("Content-Type"),
			Size:        int64(len(data)),
			Body:        bytes.NewReader(data),
		}
	}
	return nil
}

func readField(dst *string, part *multipart.Part) error {
	data, err := io.ReadAll(io.LimitReader(part, maxFieldSize))
	if err != nil {
		return err
	}
	*dst = string(data)
	return nil
}

func readFailure(d forms.Draft, err error) error {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return forms.ImageTooLarge(d)
	}
	return err
}
