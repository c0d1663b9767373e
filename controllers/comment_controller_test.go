package controllers_test

import (
	"fmt"
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sociumlab/socium/models"
)

func TestCreateComment(t *testing.T) {
	r, db := newTestEnv(t)
	alice, _ := createUser(t, db, "alice")
	_, bobToken := createUser(t, db, "bob")
	post := createPost(t, db, alice, "commentable")

	path := fmt.Sprintf("/api/v1/posts/%d/%s/comments", post.ID, url.PathEscape(post.Slug))
	w := doJSON(r, http.MethodPost, path, bobToken, map[string]string{"body": "nice post"})
	require.Equal(t, http.StatusCreated, w.Code)

	var data struct {
		Comment models.Comment `json:"comment"`
	}
	decodeData(t, w, &data)
	assert.Equal(t, post.ID, data.Comment.PostID)
	assert.False(t, data.Comment.IsReply)
	assert.Nil(t, data.Comment.ReplyToID)
	assert.Equal(t, "bob", data.Comment.User.Username)
}

func TestCreateCommentWrongSlugIs404(t *testing.T) {
	r, db := newTestEnv(t)
	alice, _ := createUser(t, db, "alice")
	_, bobToken := createUser(t, db, "bob")
	post := createPost(t, db, alice, "commentable")

	path := fmt.Sprintf("/api/v1/posts/%d/stale-slug/comments", post.ID)
	w := doJSON(r, http.MethodPost, path, bobToken, map[string]string{"body": "lost"})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCreateCommentRequiresBody(t *testing.T) {
	r, db := newTestEnv(t)
	alice, _ := createUser(t, db, "alice")
	_, bobToken := createUser(t, db, "bob")
	post := createPost(t, db, alice, "commentable")

	path := fmt.Sprintf("/api/v1/posts/%d/%s/comments", post.ID, url.PathEscape(post.Slug))
	w := doJSON(r, http.MethodPost, path, bobToken, map[string]string{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateReply(t *testing.T) {
	r, db := newTestEnv(t)
	alice, _ := createUser(t, db, "alice")
	bob, bobToken := createUser(t, db, "bob")
	post := createPost(t, db, alice, "thread root")
	parent := models.Comment{PostID: post.ID, UserID: alice.ID, Body: "parent"}
	require.NoError(t, db.Create(&parent).Error)

	path := fmt.Sprintf("/api/v1/posts/%d/comments/%d/reply", post.ID, parent.ID)
	w := doJSON(r, http.MethodPost, path, bobToken, map[string]string{"body": "child"})
	require.Equal(t, http.StatusCreated, w.Code)

	var data struct {
		Comment models.Comment `json:"comment"`
	}
	decodeData(t, w, &data)
	// is_reply is true iff reply_to is set, and the reply lands on the
	// parent comment's post.
	assert.True(t, data.Comment.IsReply)
	require.NotNil(t, data.Comment.ReplyToID)
	assert.Equal(t, parent.ID, *data.Comment.ReplyToID)
	assert.Equal(t, parent.PostID, data.Comment.PostID)
	assert.Equal(t, bob.ID, data.Comment.UserID)
}

func TestCreateReplyMissingParents(t *testing.T) {
	r, db := newTestEnv(t)
	alice, _ := createUser(t, db, "alice")
	_, bobToken := createUser(t, db, "bob")
	post := createPost(t, db, alice, "thread root")
	other := createPost(t, db, alice, "another thread")
	parent := models.Comment{PostID: post.ID, UserID: alice.ID, Body: "parent"}
	require.NoError(t, db.Create(&parent).Error)

	// Unknown post.
	w := doJSON(r, http.MethodPost, fmt.Sprintf("/api/v1/posts/999/comments/%d/reply", parent.ID),
		bobToken, map[string]string{"body": "child"})
	assert.Equal(t, http.StatusNotFound, w.Code)

	// Unknown comment.
	w = doJSON(r, http.MethodPost, fmt.Sprintf("/api/v1/posts/%d/comments/999/reply", post.ID),
		bobToken, map[string]string{"body": "child"})
	assert.Equal(t, http.StatusNotFound, w.Code)

	// Comment belongs to a different post.
	w = doJSON(r, http.MethodPost, fmt.Sprintf("/api/v1/posts/%d/comments/%d/reply", other.ID, parent.ID),
		bobToken, map[string]string{"body": "child"})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDeleteCommentOwnership(t *testing.T) {
	r, db := newTestEnv(t)
	alice, aliceToken := createUser(t, db, "alice")
	bob, bobToken := createUser(t, db, "bob")
	post := createPost(t, db, alice, "commentable")
	comment := models.Comment{PostID: post.ID, UserID: bob.ID, Body: "mine"}
	require.NoError(t, db.Create(&comment).Error)

	w := doJSON(r, http.MethodDelete, fmt.Sprintf("/api/v1/comments/%d", comment.ID), aliceToken, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	var count int64
	db.Model(&models.Comment{}).Where("id = ?", comment.ID).Count(&count)
	assert.Equal(t, int64(1), count)

	w = doJSON(r, http.MethodDelete, fmt.Sprintf("/api/v1/comments/%d", comment.ID), bobToken, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	db.Model(&models.Comment{}).Where("id = ?", comment.ID).Count(&count)
	assert.Equal(t, int64(0), count)
}
