package api_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/pageza/recipeshare/internal/models"
	"github.com/pageza/recipeshare/internal/service"
	"github.com/pageza/recipeshare/internal/types"
)

var pngUpload = &upload{filename: "soup.png", contentType: "image/png", data: []byte("\x89PNG fake")}

var soupFields = map[string]string{
	"title":        "  Tomato Soup ",
	"ingredients":  "Tomatoes\nSalt",
	"instructions": "Simmer for 20 minutes",
}

func TestSubmitRequiresLogin(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(httptest.NewRequest(http.MethodGet, "/submit", nil))
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/login", w.Header().Get("Location"))

	w = env.do(multipartRequest(t, "/submit", soupFields, pngUpload))
	assert.Equal(t, http.StatusSeeOther, w.Code)
	env.images.AssertNotCalled(t, "Upload", mock.Anything, mock.Anything)
}

func TestSubmitFormRenders(t *testing.T) {
	env := newTestEnv(t)
	_, token := env.user(t, "cook")

	w := env.do(withToken(httptest.NewRequest(http.MethodGet, "/submit", nil), token))
	require.Equal(t, http.StatusOK, w.Code)
	doc := document(t, w)
	assert.Equal(t, 1, doc.Find(".submit-form").Length())
	_, disabled := doc.Find(".submit-form button").Attr("disabled")
	assert.False(t, disabled)
	assert.Equal(t, "cook", doc.Find(".whoami").Text())
}

func TestSubmitValidationErrors(t *testing.T) {
	env := newTestEnv(t)
	_, token := env.user(t, "cook")

	w := env.do(withToken(multipartRequest(t, "/submit", map[string]string{"title": "Soup", "ingredients": "  "}, nil), token))
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)

	doc := document(t, w)
	assert.Equal(t, "Ingredients are required", doc.Find(`.field-error[data-field="ingredients"]`).Text())
	assert.Equal(t, "Instructions are required", doc.Find(`.field-error[data-field="instructions"]`).Text())
	assert.Equal(t, "Image is required", doc.Find(`.field-error[data-field="image"]`).Text())
	assert.Equal(t, 0, doc.Find(`.field-error[data-field="title"]`).Length())
	val, _ := doc.Find("#title").Attr("value")
	assert.Equal(t, "Soup", val)
	env.images.AssertNotCalled(t, "Upload", mock.Anything, mock.Anything)
}

func TestSubmitRejectsNonImage(t *testing.T) {
	env := newTestEnv(t)
	_, token := env.user(t, "cook")

	w := env.do(withToken(multipartRequest(t, "/submit", soupFields,
		&upload{filename: "notes.txt", contentType: "text/plain", data: []byte("hi")}), token))
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, "Image must be an image file", document(t, w).Find(`.field-error[data-field="image"]`).Text())
}

func TestSubmitOversizedImageKeepsDraft(t *testing.T) {
	tests := []struct {
		name string
		size int
	}{
		{name: "over image limit", size: 7 << 20},
		{name: "over body limit", size: 21 << 20},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)
			_, token := env.user(t, "cook")
			big := &upload{filename: "huge.png", contentType: "image/png", data: make([]byte, tt.size)}

			w := env.do(withToken(multipartRequest(t, "/submit", soupFields, big), token))
			require.Equal(t, http.StatusUnprocessableEntity, w.Code)

			doc := document(t, w)
			assert.Equal(t, "Image must be 5MB or smaller", doc.Find(`.field-error[data-field="image"]`).Text())
			assert.Equal(t, 0, doc.Find(`.field-error[data-field="title"]`).Length())
			assert.Equal(t, 0, doc.Find(`.field-error[data-field="instructions"]`).Length())
			val, _ := doc.Find("#title").Attr("value")
			assert.Equal(t, "  Tomato Soup ", val)
			env.images.AssertNotCalled(t, "Upload", mock.Anything, mock.Anything)
		})
	}
}

func TestSubmitSuccess(t *testing.T) {
	env := newTestEnv(t)
	owner, token := env.user(t, "cook")
	env.images.On("Upload", mock.Anything, mock.MatchedBy(func(img service.ImageUpload) bool {
		return img.Filename == "soup.png" && img.ContentType == "image/png"
	})).Return(&service.StoredImage{Key: "recipe-images/x.png", URL: "https://cdn.test/x.png"}, nil)

	w := env.do(withToken(multipartRequest(t, "/submit", soupFields, pngUpload), token))
	require.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/submit", w.Header().Get("Location"))

	flash := cookie(w, "flash")
	require.NotNil(t, flash)
	msg, err := url.QueryUnescape(flash.Value)
	require.NoError(t, err)
	assert.Equal(t, "Recipe submitted successfully!", msg)

	recipes, err := env.recipes.ListRecipes(context.Background(), &owner.ID)
	require.NoError(t, err)
	require.Len(t, recipes, 1)
	assert.Equal(t, "Tomato Soup", recipes[0].Title)
	assert.Equal(t, "https://cdn.test/x.png", recipes[0].ImageURL)
	assert.Equal(t, "recipe-images/x.png", recipes[0].ImageKey)
	env.images.AssertExpectations(t)

	// The flash is shown once on the next page
	req := withToken(httptest.NewRequest(http.MethodGet, "/submit", nil), token)
	req.AddCookie(flash)
	w = env.do(req)
	assert.Equal(t, "Recipe submitted successfully!", document(t, w).Find(".flash").Text())
}

func TestSubmitUploadFailure(t *testing.T) {
	env := newTestEnv(t)
	owner, token := env.user(t, "cook")
	env.images.On("Upload", mock.Anything, mock.Anything).Return(nil, errors.New("access denied"))

	w := env.do(withToken(multipartRequest(t, "/submit", soupFields, pngUpload), token))
	require.Equal(t, http.StatusInternalServerError, w.Code)

	doc := document(t, w)
	assert.Equal(t, "Failed to submit recipe. Please try again.", doc.Find(".flash").Text())
	val, _ := doc.Find("#title").Attr("value")
	assert.Equal(t, "  Tomato Soup ", val)

	recipes, err := env.recipes.ListRecipes(context.Background(), &owner.ID)
	require.NoError(t, err)
	assert.Empty(t, recipes)
}

func TestAPICreateRecipe(t *testing.T) {
	env := newTestEnv(t)
	owner, token := env.user(t, "cook")
	env.images.On("Upload", mock.Anything, mock.Anything).
		Return(&service.StoredImage{Key: "recipe-images/y.png", URL: "https://cdn.test/y.png"}, nil)

	w := env.do(multipartRequest(t, "/api/v1/recipes", soupFields, pngUpload))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	req := multipartRequest(t, "/api/v1/recipes", soupFields, pngUpload)
	req.Header.Set("Authorization", "Bearer "+token)
	w = env.do(req)
	require.Equal(t, http.StatusCreated, w.Code)

	var created models.Recipe
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.Equal(t, "Tomato Soup", created.Title)
	assert.Equal(t, owner.ID, created.UserID)

	req = multipartRequest(t, "/api/v1/recipes", map[string]string{}, nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w = env.do(req)
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	var body types.RecipeFieldErrors
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "Title is required", body.Fields["title"])
}

func TestAPICreateRecipeOversizedImage(t *testing.T) {
	env := newTestEnv(t)
	_, token := env.user(t, "cook")
	big := &upload{filename: "huge.png", contentType: "image/png", data: make([]byte, 7<<20)}

	req := multipartRequest(t, "/api/v1/recipes", soupFields, big)
	req.Header.Set("Authorization", "Bearer "+token)
	w := env.do(req)
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)

	var body types.RecipeFieldErrors
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, map[string]string{"image": "Image must be 5MB or smaller"}, body.Fields)
	env.images.AssertNotCalled(t, "Upload", mock.Anything, mock.Anything)
}

func TestAPIRecipeReads(t *testing.T) {
	env := newTestEnv(t)
	owner, _ := env.user(t, "cook")
	recipe := seedRecipe(t, env, owner, "Ramen")
	seedRecipe(t, env, owner, "Paella")

	w := env.do(httptest.NewRequest(http.MethodGet, "/api/v1/recipes/"+recipe.ID.String(), nil))
	require.Equal(t, http.StatusOK, w.Code)
	var got models.Recipe
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, "Ramen", got.Title)
	require.NotNil(t, got.User)
	assert.Equal(t, "cook", got.User.Username)

	w = env.do(httptest.NewRequest(http.MethodGet, "/api/v1/recipes/bad", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = env.do(httptest.NewRequest(http.MethodGet, "/api/v1/recipes/"+randomID(), nil))
	assert.Equal(t, http.StatusNotFound, w.Code)

	var list struct {
		Recipes []models.Recipe `json:"recipes"`
	}
	w = env.do(httptest.NewRequest(http.MethodGet, "/api/v1/recipes?q=paella", nil))
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	require.Len(t, list.Recipes, 1)
	assert.Equal(t, "Paella", list.Recipes[0].Title)

	w = env.do(httptest.NewRequest(http.MethodGet, "/api/v1/recipes/featured?limit=1", nil))
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	assert.Len(t, list.Recipes, 1)
}
