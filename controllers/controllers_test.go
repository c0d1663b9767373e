package controllers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/sociumlab/socium/models"
	"github.com/sociumlab/socium/routes"
	"github.com/sociumlab/socium/utils"
)

var testRedis *miniredis.Miniredis

func TestMain(m *testing.M) {
	mr, err := miniredis.Run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "miniredis: %v\n", err)
		os.Exit(1)
	}
	testRedis = mr

	os.Setenv("JWT_SECRET", "test-secret")
	os.Setenv("GIN_MODE", "test")
	os.Setenv("REDIS_HOST", mr.Host())
	os.Setenv("REDIS_PORT", mr.Port())
	os.Setenv("RATE_LIMIT_PER_MINUTE", "1000000")
	gin.SetMode(gin.TestMode)

	code := m.Run()
	mr.Close()
	os.Exit(code)
}

// newTestEnv builds a fresh in-memory database and an engine with the full
// API tree mounted.
func newTestEnv(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	testRedis.FlushAll()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Post{},
		&models.Comment{},
		&models.Vote{},
		&models.Relation{},
		&models.Direct{},
	))

	r := gin.New()
	routes.RegisterAPI(r, db)
	return r, db
}

// createUser inserts a user directly and returns it with a valid bearer
// token.
func createUser(t *testing.T, db *gorm.DB, username string) (models.User, string) {
	t.Helper()
	hash, err := utils.HashPassword("password-1")
	require.NoError(t, err)
	user := models.User{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: hash,
	}
	require.NoError(t, db.Create(&user).Error)
	token, err := utils.GenerateToken(user.ID, user.Username, time.Hour)
	require.NoError(t, err)
	return user, token
}

func createPost(t *testing.T, db *gorm.DB, user models.User, body string) models.Post {
	t.Helper()
	post := models.Post{UserID: user.ID, Body: body, Slug: utils.PostSlug(body)}
	require.NoError(t, db.Create(&post).Error)
	return post
}

func doJSON(r http.Handler, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		b, _ := json.Marshal(body)
		reader = bytes.NewReader(b)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

type apiResponse struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func decodeResponse(t *testing.T, w *httptest.ResponseRecorder) apiResponse {
	t.Helper()
	var resp apiResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func decodeData(t *testing.T, w *httptest.ResponseRecorder, out interface{}) {
	t.Helper()
	resp := decodeResponse(t, w)
	require.NoError(t, json.Unmarshal(resp.Data, out))
}
