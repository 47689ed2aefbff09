package http

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/emersonlsg10/flask/auth"
	"github.com/emersonlsg10/flask/crud"
	"github.com/emersonlsg10/flask/domain"
	"github.com/emersonlsg10/flask/errs"
)

// newTestServer builds a Server on top of a fresh in-memory sqlite database.
// Handlers are exercised directly, so the csrf and cookie middleware stay out
// of the way and the signed-in user is injected through the request context.
func newTestServer(t *testing.T) (*Server, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	err = db.AutoMigrate(
		domain.User{},
		domain.OAuth{},
		domain.Post{},
		domain.Love{},
		domain.Comment{},
	)
	require.NoError(t, err)

	services, err := crud.NewServices(
		db,
		crud.WithUser("test-pepper", "test-hmac-key"),
		crud.WithOAuth(),
		crud.WithPost(),
		crud.WithLove(),
		crud.WithComment(),
	)
	require.NoError(t, err)

	return NewServer(false, "32-byte-long-auth-key-for-csrf!!", &oauth2.Config{}, services), db
}

func seedUser(t *testing.T, db *gorm.DB, username string) *domain.User {
	t.Helper()
	user := domain.User{Username: username, PasswordHash: "x", RememberHash: username + "-hash"}
	require.NoError(t, db.Create(&user).Error)
	return &user
}

func seedPost(t *testing.T, db *gorm.DB, author *domain.User, title string) *domain.Post {
	t.Helper()
	post := domain.Post{Title: title, Body: "body", AuthorID: author.ID}
	require.NoError(t, db.Create(&post).Error)
	return &post
}

// formRequest builds a request the way the mux router would deliver it:
// route vars set, form body encoded, and the signed-in user in the context.
func formRequest(method, target string, vars map[string]string, form url.Values, user *domain.User) *http.Request {
	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}
	r := httptest.NewRequest(method, target, body)
	if form != nil {
		r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	if vars != nil {
		r = mux.SetURLVars(r, vars)
	}
	if user != nil {
		r = r.WithContext(auth.SetUser(r.Context(), user))
	}
	return r
}

func idVars(id int) map[string]string {
	return map[string]string{"id": strconv.Itoa(id)}
}

func errorMessage(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var resp errs.ErrorResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	return resp.Error
}

func TestCreateAndLoveScenario(t *testing.T) {
	s, db := newTestServer(t)
	alice := seedUser(t, db, "alice")
	bob := seedUser(t, db, "bob")

	// Alice creates a post through the handler.
	w := httptest.NewRecorder()
	s.handleCreatePost(w, formRequest("POST", "/create", nil, url.Values{
		"title": {"Hello"},
		"body":  {"first post"},
	}, alice))
	require.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/", w.Result().Header.Get("Location"))

	var post domain.Post
	require.NoError(t, db.First(&post).Error)
	assert.Equal(t, alice.ID, post.AuthorID)

	// Bob loves it.
	w = httptest.NewRecorder()
	s.handleCreateLove(w, formRequest("POST", "/1/love", idVars(post.ID), nil, bob))
	require.Equal(t, http.StatusSeeOther, w.Code)

	// The listing shows a love count of 1 for that post.
	w = httptest.NewRecorder()
	s.handleIndex(w, formRequest("GET", "/", nil, nil, nil))
	require.Equal(t, http.StatusOK, w.Code)

	var feed []domain.PostInfo
	require.NoError(t, json.NewDecoder(w.Body).Decode(&feed))
	require.Len(t, feed, 1)
	assert.Equal(t, post.ID, feed[0].ID)
	assert.Equal(t, 1, feed[0].Loves)
	assert.Equal(t, bob.ID, feed[0].LoveAuthorID)
	assert.Equal(t, "alice", feed[0].Username)
}

func TestCreatePostInvalidTitle(t *testing.T) {
	s, db := newTestServer(t)
	alice := seedUser(t, db, "alice")

	w := httptest.NewRecorder()
	s.handleCreatePost(w, formRequest("POST", "/create", nil, url.Values{
		"title": {"Hi"},
		"body":  {"too short"},
	}, alice))
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Title name must be bigger than 4 letters.", errorMessage(t, w))

	// Nothing was inserted.
	var count int64
	require.NoError(t, db.Model(&domain.Post{}).Count(&count).Error)
	assert.EqualValues(t, 0, count)
}

func TestCreatePostFormSeed(t *testing.T) {
	s, db := newTestServer(t)
	alice := seedUser(t, db, "alice")

	w := httptest.NewRecorder()
	s.handleCreatePost(w, formRequest("GET", "/create", nil, nil, alice))
	require.Equal(t, http.StatusOK, w.Code)

	var post domain.Post
	require.NoError(t, json.NewDecoder(w.Body).Decode(&post))
	assert.Zero(t, post.ID)
}

func TestUpdatePostByAuthor(t *testing.T) {
	s, db := newTestServer(t)
	alice := seedUser(t, db, "alice")
	post := seedPost(t, db, alice, "Hello")

	// A GET renders the current post for the edit form.
	w := httptest.NewRecorder()
	s.handleUpdatePost(w, formRequest("GET", "/1/update", idVars(post.ID), nil, alice))
	require.Equal(t, http.StatusOK, w.Code)
	var current domain.Post
	require.NoError(t, json.NewDecoder(w.Body).Decode(&current))
	assert.Equal(t, "Hello", current.Title)

	// A POST writes title and body and redirects to the listing.
	w = httptest.NewRecorder()
	s.handleUpdatePost(w, formRequest("POST", "/1/update", idVars(post.ID), url.Values{
		"title": {"Edited"},
		"body":  {"new body"},
	}, alice))
	require.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/", w.Result().Header.Get("Location"))

	var stored domain.Post
	require.NoError(t, db.First(&stored, "id = ?", post.ID).Error)
	assert.Equal(t, "Edited", stored.Title)
	assert.Equal(t, "new body", stored.Body)
}

func TestUpdatePostInvalidTitleKeepsRow(t *testing.T) {
	s, db := newTestServer(t)
	alice := seedUser(t, db, "alice")
	post := seedPost(t, db, alice, "Hello")

	w := httptest.NewRecorder()
	s.handleUpdatePost(w, formRequest("POST", "/1/update", idVars(post.ID), url.Values{
		"title": {"Hi"},
		"body":  {"whatever"},
	}, alice))
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Title name must be bigger than 4 letters.", errorMessage(t, w))

	var stored domain.Post
	require.NoError(t, db.First(&stored, "id = ?", post.ID).Error)
	assert.Equal(t, "Hello", stored.Title)
}

func TestUpdatePostNonAuthor(t *testing.T) {
	s, db := newTestServer(t)
	alice := seedUser(t, db, "alice")
	bob := seedUser(t, db, "bob")
	post := seedPost(t, db, alice, "Hello")

	w := httptest.NewRecorder()
	s.handleUpdatePost(w, formRequest("POST", "/1/update", idVars(post.ID), url.Values{
		"title": {"Hacked"},
		"body":  {"x"},
	}, bob))
	assert.Equal(t, http.StatusForbidden, w.Code)

	var stored domain.Post
	require.NoError(t, db.First(&stored, "id = ?", post.ID).Error)
	assert.Equal(t, "Hello", stored.Title)
}

func TestDeletePostNotFound(t *testing.T) {
	s, db := newTestServer(t)
	alice := seedUser(t, db, "alice")

	w := httptest.NewRecorder()
	s.handleDeletePost(w, formRequest("POST", "/999/delete", idVars(999), nil, alice))
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Post id 999 doesn't exist.", errorMessage(t, w))
}

func TestDeletePostNonAuthor(t *testing.T) {
	s, db := newTestServer(t)
	alice := seedUser(t, db, "alice")
	bob := seedUser(t, db, "bob")
	post := seedPost(t, db, alice, "Hello")

	w := httptest.NewRecorder()
	s.handleDeletePost(w, formRequest("POST", "/1/delete", idVars(post.ID), nil, bob))
	assert.Equal(t, http.StatusForbidden, w.Code)

	// The post survives.
	var count int64
	require.NoError(t, db.Model(&domain.Post{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestDeletePostByAuthor(t *testing.T) {
	s, db := newTestServer(t)
	alice := seedUser(t, db, "alice")
	post := seedPost(t, db, alice, "Hello")

	w := httptest.NewRecorder()
	s.handleDeletePost(w, formRequest("POST", "/1/delete", idVars(post.ID), nil, alice))
	require.Equal(t, http.StatusSeeOther, w.Code)

	var count int64
	require.NoError(t, db.Model(&domain.Post{}).Count(&count).Error)
	assert.EqualValues(t, 0, count)
}

func TestPostDetails(t *testing.T) {
	s, db := newTestServer(t)
	alice := seedUser(t, db, "alice")
	bob := seedUser(t, db, "bob")
	post := seedPost(t, db, alice, "Hello")
	require.NoError(t, db.Create(&domain.Comment{CommentText: "hi", PostID: post.ID, AuthorID: bob.ID}).Error)

	// Only the author gets to see the details page.
	w := httptest.NewRecorder()
	s.handlePostDetails(w, formRequest("GET", "/1/details", idVars(post.ID), nil, bob))
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = httptest.NewRecorder()
	s.handlePostDetails(w, formRequest("GET", "/1/details", idVars(post.ID), nil, alice))
	require.Equal(t, http.StatusOK, w.Code)

	var details struct {
		Post     *domain.Post         `json:"post"`
		Comments []domain.CommentInfo `json:"comments"`
	}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&details))
	assert.Equal(t, post.ID, details.Post.ID)
	require.Len(t, details.Comments, 1)
	assert.Equal(t, "hi", details.Comments[0].CommentText)
	assert.Equal(t, "bob", details.Comments[0].Username)
}

func TestFindPostWithoutAuthorCheck(t *testing.T) {
	s, db := newTestServer(t)
	alice := seedUser(t, db, "alice")
	bob := seedUser(t, db, "bob")
	post := seedPost(t, db, alice, "Hello")

	// With the author check off, the resolver succeeds no matter who asks.
	found, err := s.findPost(formRequest("GET", "/1/details", idVars(post.ID), nil, bob), false)
	require.NoError(t, err)
	assert.Equal(t, post.ID, found.ID)

	found, err = s.findPost(formRequest("GET", "/1/details", idVars(post.ID), nil, nil), false)
	require.NoError(t, err)
	assert.Equal(t, post.ID, found.ID)

	// With the check on, the same non-author caller is rejected.
	_, err = s.findPost(formRequest("GET", "/1/details", idVars(post.ID), nil, bob), true)
	require.Error(t, err)
	assert.Equal(t, errs.EUNAUTHORIZED, errs.ErrorCode(err))

	// Missing posts stay 404 either way.
	_, err = s.findPost(formRequest("GET", "/999/details", idVars(999), nil, bob), false)
	require.Error(t, err)
	assert.Equal(t, errs.ENOTFOUND, errs.ErrorCode(err))
}

func TestRequireAuthAnonymous(t *testing.T) {
	s, _ := newTestServer(t)

	called := false
	handler := s.requireAuth(func(w http.ResponseWriter, r *http.Request) {
		called = true
	})

	w := httptest.NewRecorder()
	handler(w, formRequest("POST", "/create", nil, nil, nil))
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.False(t, called)
}
