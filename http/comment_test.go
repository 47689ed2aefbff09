package http

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/emersonlsg10/flask/domain"
)

func TestCreateCommentRedirectsToDetails(t *testing.T) {
	s, db := newTestServer(t)
	alice := seedUser(t, db, "alice")
	bob := seedUser(t, db, "bob")
	post := seedPost(t, db, alice, "Hello")

	w := httptest.NewRecorder()
	s.handleCreateComment(w, formRequest("POST", "/1/comment", idVars(post.ID), url.Values{
		"comment_text": {"great post"},
	}, bob))
	require.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, fmt.Sprintf("/%d/details", post.ID), w.Result().Header.Get("Location"))

	var comment domain.Comment
	require.NoError(t, db.First(&comment).Error)
	assert.Equal(t, "great post", comment.CommentText)
	assert.Equal(t, bob.ID, comment.AuthorID)
	assert.Equal(t, post.ID, comment.PostID)
}

func TestCreateCommentEmptyText(t *testing.T) {
	s, db := newTestServer(t)
	alice := seedUser(t, db, "alice")
	post := seedPost(t, db, alice, "Hello")

	w := httptest.NewRecorder()
	s.handleCreateComment(w, formRequest("POST", "/1/comment", idVars(post.ID), url.Values{
		"comment_text": {""},
	}, alice))
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "comment_text is required.", errorMessage(t, w))

	var count int64
	require.NoError(t, db.Model(&domain.Comment{}).Count(&count).Error)
	assert.EqualValues(t, 0, count)
}

func TestDescommentDeletesByCommentID(t *testing.T) {
	s, db := newTestServer(t)
	alice := seedUser(t, db, "alice")
	bob := seedUser(t, db, "bob")
	post := seedPost(t, db, alice, "Hello")

	comment := domain.Comment{CommentText: "mine", PostID: post.ID, AuthorID: bob.ID}
	require.NoError(t, db.Create(&comment).Error)

	// The route's {id} is the comment id; the form still ships the post_id
	// field, which goes unused.
	w := httptest.NewRecorder()
	s.handleDeleteComment(w, formRequest("POST",
		fmt.Sprintf("/%d/descomment", comment.ID),
		idVars(comment.ID),
		url.Values{"post_id": {fmt.Sprint(post.ID)}},
		bob))
	require.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/", w.Result().Header.Get("Location"))

	var count int64
	require.NoError(t, db.Model(&domain.Comment{}).Count(&count).Error)
	assert.EqualValues(t, 0, count)
}

func TestDescommentOtherUsersComment(t *testing.T) {
	s, db := newTestServer(t)
	alice := seedUser(t, db, "alice")
	bob := seedUser(t, db, "bob")
	post := seedPost(t, db, alice, "Hello")

	comment := domain.Comment{CommentText: "bob's", PostID: post.ID, AuthorID: bob.ID}
	require.NoError(t, db.Create(&comment).Error)

	// The delete filter includes the author, so alice's attempt matches
	// nothing and the comment stays.
	w := httptest.NewRecorder()
	s.handleDeleteComment(w, formRequest("POST",
		fmt.Sprintf("/%d/descomment", comment.ID),
		idVars(comment.ID), nil, alice))
	require.Equal(t, http.StatusSeeOther, w.Code)

	var count int64
	require.NoError(t, db.Model(&domain.Comment{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}
