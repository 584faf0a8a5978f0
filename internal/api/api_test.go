package api_test

import (
	"bytes"
	"context"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"net/url"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/pageza/recipeshare/internal/api"
	"github.com/pageza/recipeshare/internal/forms"
	"github.com/pageza/recipeshare/internal/mocks"
	"github.com/pageza/recipeshare/internal/models"
	"github.com/pageza/recipeshare/internal/render"
	"github.com/pageza/recipeshare/internal/router"
	"github.com/pageza/recipeshare/internal/service"
	"github.com/pageza/recipeshare/internal/session"
	"github.com/pageza/recipeshare/internal/testdb"
	"github.com/pageza/recipeshare/internal/types"
)

const testSecret = "test-secret"

type testEnv struct {
	router  *gin.Engine
	db      *gorm.DB
	auth    *service.AuthService
	recipes *service.RecipeService
	meals   *mocks.MockMealService
	images  *mocks.MockImageStore
	screens *api.Screens
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := testdb.SQLite(t)
	pages, err := render.Load()
	require.NoError(t, err)

	env := &testEnv{
		db:      db,
		auth:    service.NewAuthService(db, testSecret),
		recipes: service.NewRecipeService(db),
		meals:   new(mocks.MockMealService),
		images:  new(mocks.MockImageStore),
		screens: api.NewScreens(),
	}

	holder := session.NewHolder(env.auth, session.Options{}, env.screens.All()...)
	controller := forms.NewController(forms.NewLocalGuard())
	submitter := service.NewRecipeSubmitter(env.recipes, env.images)

	env.router = router.SetupRouter(router.Handlers{
		Pages:   api.NewPageHandler(env.meals, env.recipes, env.screens),
		Submit:  api.NewSubmitHandler(controller, submitter),
		Auth:    api.NewAuthHandler(env.auth, holder, nil, false),
		Meals:   api.NewMealHandler(env.meals),
		Recipes: api.NewRecipeHandler(env.recipes, controller, submitter, nil),
		Health:  api.NewHealthHandler(db, nil),
	}, router.Options{
		Templates:   pages,
		Session:     holder,
		CORSOrigins: []string{"http://app.test"},
	})
	return env
}

// user registers an account and returns it with a valid session token
func (e *testEnv) user(t *testing.T, name string) (*models.User, string) {
	t.Helper()
	u, err := e.auth.Register(context.Background(), name+"@example.com", name, "secret123")
	require.NoError(t, err)
	token, err := e.auth.GenerateToken(&types.TokenClaims{UserID: u.ID, Username: u.Username})
	require.NoError(t, err)
	return u, token
}

func (e *testEnv) do(req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func withToken(req *http.Request, token string) *http.Request {
	req.AddCookie(&http.Cookie{Name: session.TokenCookie, Value: token})
	return req
}

func document(t *testing.T, w *httptest.ResponseRecorder) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(w.Body.String()))
	require.NoError(t, err)
	return doc
}

func cookie(w *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, c := range w.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func formRequest(path string, v url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(v.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

type upload struct {
	filename    string
	contentType string
	data        []byte
}

func multipartRequest(t *testing.T, path string, fields map[string]string, file *upload) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	if file != nil {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="image"; filename=%q`, file.filename))
		h.Set("Content-Type", file.contentType)
		part, err := mw.CreatePart(h)
		require.NoError(t, err)
		_, err = part.Write(file.data)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func seedRecipe(t *testing.T, e *testEnv, owner *models.User, title string) *models.Recipe {
	t.Helper()
	r, err := e.recipes.CreateRecipe(context.Background(), &models.Recipe{
		Title:        title,
		Ingredients:  "2 eggs\n1 cup flour",
		Instructions: "Mix\nBake",
		ImageURL:     "https://cdn.test/" + title + ".jpg",
		UserID:       owner.ID,
	})
	require.NoError(t, err)
	return r
}

var anyCtx = mock.Anything

func randomID() string { return uuid.NewString() }
