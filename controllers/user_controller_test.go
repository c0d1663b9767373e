package controllers_test

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sociumlab/socium/models"
)

func TestFollowAndUnfollow(t *testing.T) {
	r, db := newTestEnv(t)
	alice, aliceToken := createUser(t, db, "alice")
	bob, _ := createUser(t, db, "bob")

	followPath := fmt.Sprintf("/api/v1/users/%d/follow", bob.ID)
	unfollowPath := fmt.Sprintf("/api/v1/users/%d/unfollow", bob.ID)

	w := doJSON(r, http.MethodPost, followPath, aliceToken, nil)
	assert.Equal(t, http.StatusCreated, w.Code)

	// Following twice in a row is forbidden.
	w = doJSON(r, http.MethodPost, followPath, aliceToken, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	var count int64
	db.Model(&models.Relation{}).Where("from_user_id = ? AND to_user_id = ?", alice.ID, bob.ID).Count(&count)
	assert.Equal(t, int64(1), count)

	w = doJSON(r, http.MethodPost, unfollowPath, aliceToken, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	// Unfollowing with no existing relation is forbidden.
	w = doJSON(r, http.MethodPost, unfollowPath, aliceToken, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestFollowEdgeCases(t *testing.T) {
	r, db := newTestEnv(t)
	alice, aliceToken := createUser(t, db, "alice")

	w := doJSON(r, http.MethodPost, "/api/v1/users/999/follow", aliceToken, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doJSON(r, http.MethodPost, fmt.Sprintf("/api/v1/users/%d/follow", alice.ID), aliceToken, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(r, http.MethodPost, "/api/v1/users/999/follow", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestUserRelationsListing(t *testing.T) {
	r, db := newTestEnv(t)
	alice, _ := createUser(t, db, "alice")
	bob, _ := createUser(t, db, "bob")
	carol, _ := createUser(t, db, "carol")

	require.NoError(t, db.Create(&models.Relation{FromUserID: bob.ID, ToUserID: alice.ID}).Error)
	require.NoError(t, db.Create(&models.Relation{FromUserID: carol.ID, ToUserID: alice.ID}).Error)
	require.NoError(t, db.Create(&models.Relation{FromUserID: alice.ID, ToUserID: bob.ID}).Error)

	w := doJSON(r, http.MethodGet, "/api/v1/users/alice/relations", "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var data struct {
		User      map[string]interface{}   `json:"user"`
		Followers []map[string]interface{} `json:"followers"`
		Following []map[string]interface{} `json:"following"`
	}
	decodeData(t, w, &data)
	assert.Equal(t, "alice", data.User["username"])
	require.Len(t, data.Followers, 2)
	require.Len(t, data.Following, 1)
	assert.Equal(t, "bob", data.Following[0]["username"])

	w = doJSON(r, http.MethodGet, "/api/v1/users/nobody/relations", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestUserProfile(t *testing.T) {
	r, db := newTestEnv(t)
	alice, _ := createUser(t, db, "alice")
	bob, bobToken := createUser(t, db, "bob")
	createPost(t, db, alice, "profile post")
	require.NoError(t, db.Create(&models.Relation{FromUserID: bob.ID, ToUserID: alice.ID}).Error)

	var data struct {
		User       map[string]interface{} `json:"user"`
		Posts      []models.Post          `json:"posts"`
		IsFollowed bool                   `json:"is_followed"`
		Followers  int64                  `json:"followers"`
	}

	// Follower sees is_followed=true.
	w := doJSON(r, http.MethodGet, "/api/v1/users/alice", bobToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	decodeData(t, w, &data)
	assert.True(t, data.IsFollowed)
	assert.Equal(t, int64(1), data.Followers)
	assert.Len(t, data.Posts, 1)

	// Anonymous viewer does not.
	w = doJSON(r, http.MethodGet, "/api/v1/users/alice", "", nil)
	decodeData(t, w, &data)
	assert.False(t, data.IsFollowed)

	w = doJSON(r, http.MethodGet, "/api/v1/users/nobody", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestEditProfileSelfOnly(t *testing.T) {
	r, db := newTestEnv(t)
	createUser(t, db, "alice")
	_, bobToken := createUser(t, db, "bob")

	payload := map[string]string{
		"username": "alice",
		"email":    "alice@example.com",
		"bio":      "stolen bio",
	}

	// A non-owner gets a bare 403 with no body.
	w := doJSON(r, http.MethodPut, "/api/v1/users/alice/edit", bobToken, payload)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Zero(t, w.Body.Len())
}

func TestEditProfileFullUpdate(t *testing.T) {
	r, db := newTestEnv(t)
	alice, aliceToken := createUser(t, db, "alice")

	w := doJSON(r, http.MethodPut, "/api/v1/users/alice/edit", aliceToken, map[string]string{
		"username":    "alice2",
		"email":       "alice2@example.com",
		"bio":         "hello there",
		"picture_url": "/static/profile/2026/01/01/test.png",
	})
	require.Equal(t, http.StatusOK, w.Code)

	var stored models.User
	require.NoError(t, db.First(&stored, alice.ID).Error)
	assert.Equal(t, "alice2", stored.Username)
	assert.Equal(t, "alice2@example.com", stored.Email)
	assert.Equal(t, "hello there", stored.Bio)
	assert.Equal(t, "/static/profile/2026/01/01/test.png", stored.PictureURL)
}

func TestEditProfileValidation(t *testing.T) {
	r, db := newTestEnv(t)
	_, aliceToken := createUser(t, db, "alice")
	createUser(t, db, "bob")

	// Missing email surfaces a field-error map.
	w := doJSON(r, http.MethodPut, "/api/v1/users/alice/edit", aliceToken, map[string]string{
		"username": "alice",
	})
	require.Equal(t, http.StatusBadRequest, w.Code)
	var data struct {
		Errors map[string]string `json:"errors"`
	}
	decodeData(t, w, &data)
	assert.Contains(t, data.Errors, "Email")

	// Colliding with another user's name is rejected.
	w = doJSON(r, http.MethodPut, "/api/v1/users/alice/edit", aliceToken, map[string]string{
		"username": "bob",
		"email":    "alice@example.com",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
