package handler_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/user/showsense/internal/config"
	"github.com/user/showsense/internal/handler"
	"github.com/user/showsense/internal/repository"
	"github.com/user/showsense/internal/router"
	"github.com/user/showsense/internal/utils"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestServer(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	utils.InitCache()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.Exec(repository.Schema).Error)
	repos := repository.NewRepositories(db, ":memory:", repository.ModeReadWrite)

	// 固定几条目录数据
	seed := []struct {
		title string
		score int
		theme string
	}{
		{"Bluey", 2, "Family"},
		{"Puppy Pals", 4, "Adventure"},
		{"Space Lab", 5, "STEM"},
	}
	for _, s := range seed {
		require.NoError(t, db.Exec(
			`INSERT INTO shows (title, stimulation_score, interactivity_level) VALUES (?, ?, 'High')`,
			s.title, s.score).Error)
		require.NoError(t, db.Exec(`INSERT OR IGNORE INTO themes (name) VALUES (?)`, s.theme).Error)
		require.NoError(t, db.Exec(`
			INSERT OR IGNORE INTO show_themes (show_id, theme_id)
			SELECT s.id, t.id FROM shows s, themes t WHERE s.title = ? AND t.name = ?`,
			s.title, s.theme).Error)
	}

	cfg := &config.Config{Env: "test", DefaultPageSize: 21}
	h := handler.NewHandler(repos, cfg)

	r := gin.New()
	router.RegisterRoutes(r, h, repos)
	return r
}

func doGet(t *testing.T, r *gin.Engine, path string) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	r.ServeHTTP(w, req)
	return w
}

func TestHealth(t *testing.T) {
	r := newTestServer(t)
	w := doGet(t, r, "/health")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestListShowsEndpoint(t *testing.T) {
	r := newTestServer(t)
	w := doGet(t, r, "/api/shows?sortBy=stimulation_score&sortOrder=desc")
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Shows []struct {
			ID     int      `json:"id"`
			Title  string   `json:"title"`
			Themes []string `json:"themes"`
		} `json:"shows"`
		TotalShows  int `json:"totalShows"`
		TotalPages  int `json:"totalPages"`
		CurrentPage int `json:"currentPage"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, 3, body.TotalShows)
	assert.Equal(t, 1, body.TotalPages)
	assert.Equal(t, 1, body.CurrentPage)
	require.Len(t, body.Shows, 3)
	assert.Equal(t, "Space Lab", body.Shows[0].Title)
	assert.Equal(t, []string{"STEM"}, body.Shows[0].Themes)
}

func TestListShowsBadParamsStillOK(t *testing.T) {
	r := newTestServer(t)
	// 坏参数钳制而不是 400
	w := doGet(t, r, "/api/shows?page=zero&limit=banana&minAge=x")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestGetShowEndpoint(t *testing.T) {
	r := newTestServer(t)

	w := doGet(t, r, "/api/shows/1")
	require.Equal(t, http.StatusOK, w.Code)
	var show struct {
		Title  string   `json:"title"`
		Themes []string `json:"themes"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &show))
	assert.Equal(t, "Bluey", show.Title)
	assert.Equal(t, []string{"Family"}, show.Themes)
}

func TestGetShowInvalidID(t *testing.T) {
	r := newTestServer(t)
	for _, path := range []string{"/api/shows/abc", "/api/shows/-1", "/api/shows/0"} {
		w := doGet(t, r, path)
		assert.Equal(t, http.StatusBadRequest, w.Code, "path %s", path)
		assert.Contains(t, w.Body.String(), "error")
	}
}

func TestGetShowNotFound(t *testing.T) {
	r := newTestServer(t)
	w := doGet(t, r, "/api/shows/999")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "not found")
}

func TestGetShowByTitleEndpoint(t *testing.T) {
	r := newTestServer(t)

	// 大小写不敏感精确匹配
	w := doGet(t, r, "/api/shows/title/bluey")
	assert.Equal(t, http.StatusOK, w.Code)

	w = doGet(t, r, "/api/shows/title/Nobody%20Home")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCompareEndpoint(t *testing.T) {
	r := newTestServer(t)

	w := doGet(t, r, "/api/shows/compare?ids=3,1")
	require.Equal(t, http.StatusOK, w.Code)
	var shows []struct {
		Title string `json:"title"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &shows))
	require.Len(t, shows, 2)
	// 输出顺序跟请求里的 ID 顺序一致
	assert.Equal(t, "Space Lab", shows[0].Title)
	assert.Equal(t, "Bluey", shows[1].Title)
}

func TestCompareEndpointValidation(t *testing.T) {
	r := newTestServer(t)

	w := doGet(t, r, "/api/shows/compare")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doGet(t, r, "/api/shows/compare?ids=a,b")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doGet(t, r, "/api/shows/compare?ids=1,2,3,4")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "more than 3")
}

func TestThemesEndpoint(t *testing.T) {
	r := newTestServer(t)
	w := doGet(t, r, "/api/themes")
	require.Equal(t, http.StatusOK, w.Code)

	var names []string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &names))
	assert.Equal(t, []string{"Adventure", "Family", "STEM"}, names)
}

func TestSuggestionsEndpoint(t *testing.T) {
	r := newTestServer(t)

	w := doGet(t, r, "/api/suggestions?term=sp")
	require.Equal(t, http.StatusOK, w.Code)
	var titles []string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &titles))
	assert.Equal(t, []string{"Space Lab"}, titles)

	// 空词返回空数组，不报错
	w = doGet(t, r, "/api/suggestions")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())
}

func TestShowListEndpoint(t *testing.T) {
	r := newTestServer(t)
	w := doGet(t, r, "/api/show-list")
	require.Equal(t, http.StatusOK, w.Code)

	var items []struct {
		ID    int    `json:"id"`
		Title string `json:"title"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &items))
	require.Len(t, items, 3)
	assert.Equal(t, "Bluey", items[0].Title)
}

func TestHomepageDataEndpoint(t *testing.T) {
	r := newTestServer(t)
	w := doGet(t, r, "/api/homepage-data")
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		FeaturedShow *struct {
			Title string `json:"title"`
		} `json:"featuredShow"`
		PopularShows []struct {
			Title string `json:"title"`
		} `json:"popularShows"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.NotNil(t, body.FeaturedShow)
	assert.Len(t, body.PopularShows, 3)
}

func TestUnknownAPIRoute(t *testing.T) {
	r := newTestServer(t)
	w := doGet(t, r, "/api/nope")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "error")
}
