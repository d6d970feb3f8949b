package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jengzang/filmday-backend-go/internal/auth"
	"github.com/jengzang/filmday-backend-go/internal/config"
	"github.com/jengzang/filmday-backend-go/internal/database"
	"github.com/jengzang/filmday-backend-go/internal/middleware"
	"github.com/jengzang/filmday-backend-go/internal/models"
	"github.com/jengzang/filmday-backend-go/internal/repository"
	"github.com/jengzang/filmday-backend-go/internal/service"
	"github.com/jengzang/filmday-backend-go/pkg/response"
)

const (
	ratingsTSV = "tconst\taverageRating\tnumVotes\n" +
		"tt0111161\t9.3\t2900000\n" +
		"tt0133093\t8.7\t2100000\n" +
		"tt0114369\t8.6\t1800000\n"

	basicsTSV = "tconst\ttitleType\tprimaryTitle\toriginalTitle\tisAdult\tstartYear\tendYear\truntimeMinutes\tgenres\n" +
		"tt0111161\tmovie\tThe Shawshank Redemption\tThe Shawshank Redemption\t0\t1994\t\\N\t142\tDrama\n" +
		"tt0133093\tmovie\tThe Matrix\tThe Matrix\t0\t1999\t\\N\t136\tAction,Sci-Fi\n" +
		"tt0114369\tmovie\tSe7en\tSe7en\t0\t1995\t\\N\t127\tCrime,Drama,Mystery\n"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type testServer struct {
	router *gin.Engine
	token  string
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	ctx := context.Background()

	conn, err := database.Open(database.Config{Path: filepath.Join(t.TempDir(), "film_database.db")})
	if err != nil {
		t.Fatalf("open database: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	films := repository.NewFilmRepository(conn)
	users := repository.NewUserRepository(conn)
	jwtManager, err := auth.NewJWTManager("test-secret", time.Hour)
	if err != nil {
		t.Fatalf("NewJWTManager: %v", err)
	}

	filmSvc := service.NewFilmService(films, nil, time.Minute)
	importSvc := service.NewImportService(films, repository.NewImportRunRepository(conn), filmSvc)
	if _, err := importSvc.Import(ctx,
		strings.NewReader(basicsTSV), strings.NewReader(ratingsTSV), time.Now()); err != nil {
		t.Fatalf("import: %v", err)
	}
	userSvc := service.NewUserService(users, jwtManager)
	if _, err := userSvc.CreateUser(ctx, "ana", "Ana", "correct horse"); err != nil {
		t.Fatalf("CreateUser: %v", err)
	}

	cfg := &config.Config{LoginRateLimit: 100, LoginRateWindow: time.Minute}
	router := SetupRouter(cfg, Services{
		Films:   filmSvc,
		Users:   userSvc,
		Filters: service.NewFiltersService(users, filmSvc),
		Imports: importSvc,
		JWT:     jwtManager,
	})

	s := &testServer{router: router}
	var login models.LoginResponse
	code := s.do(t, http.MethodPost, "/api/v1/auth/login",
		models.LoginRequest{Username: "ana", Password: "correct horse"}, &login)
	if code != http.StatusOK {
		t.Fatalf("login status %d", code)
	}
	s.token = login.Token
	return s
}

type envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// send issues a request and decodes the response envelope
func (s *testServer) send(t *testing.T, method, path string, body interface{}) (int, envelope) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if s.token != "" {
		req.Header.Set("Authorization", "Bearer "+s.token)
	}

	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	var env envelope
	if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode response %q: %v", w.Body.String(), err)
	}
	return w.Code, env
}

// do sends a request and decodes the envelope data into out
func (s *testServer) do(t *testing.T, method, path string, body, out interface{}) int {
	t.Helper()
	code, env := s.send(t, method, path, body)
	if out != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, out); err != nil {
			t.Fatalf("decode data %s: %v", env.Data, err)
		}
	}
	return code
}

func (s *testServer) message(t *testing.T, method, path string, body interface{}) (int, string) {
	t.Helper()
	code, env := s.send(t, method, path, body)
	return code, env.Message
}

func searchBody() models.FilterSelection {
	return models.FilterSelection{
		Years:    models.IntRange{Min: 1990, Max: 2000},
		Duration: models.IntRange{Min: 60, Max: 180},
		Rating:   models.FloatRange{Min: 7.0, Max: 10.0},
		MinVotes: 100000,
		Genre:    models.NoGenre(),
	}
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("health status %d", w.Code)
	}
}

func TestLoginWrongPassword(t *testing.T) {
	s := newTestServer(t)
	s.token = ""
	code, msg := s.message(t, http.MethodPost, "/api/v1/auth/login",
		models.LoginRequest{Username: "ana", Password: "nope nope"})
	if code != http.StatusUnauthorized || msg != response.MsgInvalidCredentials {
		t.Errorf("got %d %q", code, msg)
	}
}

func TestRoutesRequireToken(t *testing.T) {
	s := newTestServer(t)
	s.token = ""
	for _, path := range []string{"/api/v1/genres", "/api/v1/catalog", "/api/v1/films/random", "/api/v1/me/filters"} {
		if code := s.do(t, http.MethodGet, path, nil, nil); code != http.StatusUnauthorized {
			t.Errorf("%s: status %d, want 401", path, code)
		}
	}
}

func TestSearch(t *testing.T) {
	s := newTestServer(t)

	var result models.FilmSearchResult
	if code := s.do(t, http.MethodPost, "/api/v1/films/search", searchBody(), &result); code != http.StatusOK {
		t.Fatalf("search status %d", code)
	}
	if result.Count != 3 || result.Films[0].ID != "tt0111161" {
		t.Errorf("unexpected result %+v", result)
	}
	if len(result.Notices) != 1 || result.Notices[0] != models.NoticeNoGenreFilter {
		t.Errorf("unexpected notices %v", result.Notices)
	}

	sel := searchBody()
	sel.Genre = models.SecondaryGenres("Crime", models.GenreAnd, "Mystery")
	result = models.FilmSearchResult{}
	if code := s.do(t, http.MethodPost, "/api/v1/films/search", sel, &result); code != http.StatusOK {
		t.Fatalf("search status %d", code)
	}
	if result.Count != 1 || result.Films[0].ID != "tt0114369" {
		t.Errorf("unexpected genre result %+v", result)
	}
}

func TestSearchValidation(t *testing.T) {
	s := newTestServer(t)

	tests := []struct {
		name   string
		mutate func(*models.FilterSelection)
		msg    string
	}{
		{"too many genres", func(sel *models.FilterSelection) {
			sel.Genre = models.SecondaryGenres("", models.GenreOr, "Drama", "Crime", "Mystery", "Action")
		}, "You can select a maximum of 3 genres!"},
		{"unknown genre", func(sel *models.FilterSelection) {
			sel.Genre = models.PrimaryGenre("Drama; DROP TABLE film_data")
		}, `unknown genre "Drama; DROP TABLE film_data"`},
		{"bad sort", func(sel *models.FilterSelection) {
			sel.Sort.Column = "title"
		}, "sort.column: must be one of: rating year duration votes"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sel := searchBody()
			tt.mutate(&sel)
			code, msg := s.message(t, http.MethodPost, "/api/v1/films/search", sel)
			if code != http.StatusBadRequest || msg != tt.msg {
				t.Errorf("got %d %q, want 400 %q", code, msg, tt.msg)
			}
		})
	}
}

func TestRandom(t *testing.T) {
	s := newTestServer(t)

	var film models.Film
	if code := s.do(t, http.MethodGet, "/api/v1/films/random", nil, &film); code != http.StatusOK || film.ID == "" {
		t.Fatalf("random status %d film %+v", code, film)
	}

	sel := searchBody()
	sel.Genre = models.PrimaryGenre("Action")
	film = models.Film{}
	if code := s.do(t, http.MethodPost, "/api/v1/films/random", sel, &film); code != http.StatusOK || film.ID != "tt0133093" {
		t.Fatalf("random matching status %d film %+v", code, film)
	}

	sel.Genre = models.PrimaryGenre("Western")
	code, msg := s.message(t, http.MethodPost, "/api/v1/films/random", sel)
	if code != http.StatusNotFound || msg != response.MsgEmptySet {
		t.Errorf("got %d %q", code, msg)
	}
}

func TestGetFilmByID(t *testing.T) {
	s := newTestServer(t)

	var film models.Film
	if code := s.do(t, http.MethodGet, "/api/v1/films/tt0133093", nil, &film); code != http.StatusOK || film.Title != "The Matrix" {
		t.Fatalf("status %d film %+v", code, film)
	}
	if code := s.do(t, http.MethodGet, "/api/v1/films/tt9999999", nil, nil); code != http.StatusNotFound {
		t.Errorf("missing film status %d", code)
	}
	if code := s.do(t, http.MethodGet, "/api/v1/films/abc", nil, nil); code != http.StatusBadRequest {
		t.Errorf("bad id status %d", code)
	}
}

func TestCatalogAndGenres(t *testing.T) {
	s := newTestServer(t)

	var info models.CatalogInfo
	if code := s.do(t, http.MethodGet, "/api/v1/catalog", nil, &info); code != http.StatusOK {
		t.Fatalf("catalog status %d", code)
	}
	if info.FilmCount != 3 || info.Stale || info.Bounds.MinYear != 1994 {
		t.Errorf("unexpected catalog info %+v", info)
	}

	var runs []models.ImportRun
	if code := s.do(t, http.MethodGet, "/api/v1/catalog/imports", nil, &runs); code != http.StatusOK {
		t.Fatalf("imports status %d", code)
	}
	if len(runs) != 1 || runs[0].Status != models.ImportStatusCompleted || runs[0].FilmsWritten != 3 {
		t.Errorf("unexpected import runs %+v", runs)
	}
	if code := s.do(t, http.MethodGet, "/api/v1/catalog/imports?limit=500", nil, nil); code != http.StatusBadRequest {
		t.Errorf("limit above 100: status %d", code)
	}

	var genres struct {
		Genres []struct {
			Name  string `json:"name"`
			Label string `json:"label"`
		} `json:"genres"`
	}
	if code := s.do(t, http.MethodGet, "/api/v1/genres", nil, &genres); code != http.StatusOK {
		t.Fatalf("genres status %d", code)
	}
	if len(genres.Genres) != len(models.KnownGenres) {
		t.Errorf("expected %d genres, got %d", len(models.KnownGenres), len(genres.Genres))
	}
}

func TestSavedFilters(t *testing.T) {
	s := newTestServer(t)

	sel := searchBody()
	sel.Genre = models.PrimaryGenre("Drama")
	if code := s.do(t, http.MethodPut, "/api/v1/me/filters", sel, nil); code != http.StatusOK {
		t.Fatalf("save status %d", code)
	}

	var saved models.SavedFilters
	if code := s.do(t, http.MethodGet, "/api/v1/me/filters", nil, &saved); code != http.StatusOK {
		t.Fatalf("get status %d", code)
	}
	if saved.Selection.Genre.Primary != "Drama" || saved.UpdatedAt.IsZero() {
		t.Errorf("unexpected saved filters %+v", saved)
	}

	if code := s.do(t, http.MethodDelete, "/api/v1/me/filters", nil, nil); code != http.StatusOK {
		t.Fatalf("delete status %d", code)
	}
}

func TestLoginRateLimited(t *testing.T) {
	limited := SetupRouter(&config.Config{}, Services{
		JWT:          mustJWT(t),
		LoginLimiter: middleware.NewRateLimiter(1, time.Minute),
	})

	codes := make([]int, 2)
	for i := range codes {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", strings.NewReader("{}"))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		limited.ServeHTTP(w, req)
		codes[i] = w.Code
	}
	if codes[0] != http.StatusBadRequest || codes[1] != http.StatusTooManyRequests {
		t.Errorf("unexpected status codes %v", codes)
	}
}

func mustJWT(t *testing.T) *auth.JWTManager {
	t.Helper()
	m, err := auth.NewJWTManager("secret", time.Hour)
	if err != nil {
		t.Fatalf("NewJWTManager: %v", err)
	}
	return m
}
