package routes

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/btmxh/folio/internal/auth"
	"github.com/btmxh/folio/internal/clock"
	"github.com/btmxh/folio/internal/db"
	"github.com/btmxh/folio/internal/icons"
	"github.com/btmxh/folio/internal/media"
	"github.com/btmxh/folio/internal/services"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestRouter(t *testing.T) (http.Handler, *clock.Fake) {
	t.Helper()

	fake := clock.NewFake(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	sockets := services.NewWebSocketManager(fake)
	t.Cleanup(sockets.Close)

	return CreateMainRouter(Dependencies{
		Resolver: media.NewResolver(fake, time.Minute),
		Catalog:  services.NewCatalog(fake, time.Minute, icons.Default()),
		Sockets:  sockets,
	}), fake
}

func withMockDB(t *testing.T) sqlmock.Sqlmock {
	t.Helper()

	conn, mock, err := sqlmock.New()
	require.NoError(t, err)

	old := db.SetDB(conn)
	t.Cleanup(func() {
		db.SetDB(old)
		conn.Close()
	})
	return mock
}

func serve(router http.Handler, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func get(router http.Handler, path string) *httptest.ResponseRecorder {
	return serve(router, httptest.NewRequest(http.MethodGet, path, nil))
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body), "body: %s", w.Body.String())
	return body
}

func TestNormalizeEndpoint(t *testing.T) {
	router, _ := newTestRouter(t)

	w := get(router, "/api/embed/normalize?url="+url.QueryEscape("https://youtu.be/abc123"))
	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Equal(t, "yt", body["kind"])
	assert.Equal(t, "https://www.youtube.com/embed/abc123", body["embedUrl"])

	w = get(router, "/api/embed/normalize?url="+url.QueryEscape("https://www.youtube.com/embed/%zz"))
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.NotEmpty(t, decode(t, w)["errors"])

	w = get(router, "/api/embed/normalize")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestMarkupEndpoint(t *testing.T) {
	router, _ := newTestRouter(t)

	w := get(router, "/api/embed/markup?url="+url.QueryEscape("https://drive.google.com/file/d/XYZ/view")+"&title=Reel")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `src="https://drive.google.com/file/d/XYZ/preview"`)
	assert.Contains(t, w.Body.String(), `title="Reel"`)

	markup := `<iframe src="https://player.vimeo.com/video/1"></iframe>`
	w = get(router, "/api/embed/markup?url="+url.QueryEscape(markup))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, markup, w.Body.String())
}

func TestInfoEndpointRejectsDrive(t *testing.T) {
	router, _ := newTestRouter(t)

	w := get(router, "/api/embed/info?url="+url.QueryEscape("https://drive.google.com/file/d/XYZ/view"))
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestInfoEndpointDirectNeedsAdmin(t *testing.T) {
	router, _ := newTestRouter(t)

	target := "/api/embed/info?url=" + url.QueryEscape("https://10.0.0.5:8080/admin.mp4")
	w := get(router, target)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, []any{"You must be logged in to do this."}, decode(t, w)["errors"])

	auth.SetSecret("test-secret")
	defer auth.SetSecret("")
	token, err := auth.Authorize("admin", time.Hour)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, target, nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w = serve(router, req)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestPlayerPage(t *testing.T) {
	router, _ := newTestRouter(t)

	w := get(router, "/embed?url="+url.QueryEscape("https://youtu.be/abc123")+"&title=Creature+reel")
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "<title>Creature reel</title>")
	assert.Contains(t, body, `data-source="https://www.youtube.com/embed/abc123"`)
	assert.Contains(t, body, "<iframe")

	w = get(router, "/embed")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "No video available.")
}

func TestPlayerPageError(t *testing.T) {
	router, _ := newTestRouter(t)

	w := get(router, "/embed?url="+url.QueryEscape("https://www.youtube.com/embed/%zz"))
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, w.Body.String(), "<h1>Invalid video URL</h1>")
}

func TestIconEndpoint(t *testing.T) {
	router, _ := newTestRouter(t)

	w := get(router, "/api/icons/Blender")
	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Equal(t, true, body["known"])
	assert.Equal(t, "blender", body["icon"].(map[string]any)["key"])

	body = decode(t, get(router, "/api/icons/unknown-tool"))
	assert.Equal(t, false, body["known"])
	assert.Equal(t, icons.FallbackKey, body["icon"].(map[string]any)["key"])
}

func TestWritesRequireAdmin(t *testing.T) {
	router, _ := newTestRouter(t)

	w := serve(router, httptest.NewRequest(http.MethodPost, "/api/projects", strings.NewReader(`{"title":"Reel"}`)))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, []any{"You must be logged in to do this."}, decode(t, w)["errors"])

	w = serve(router, httptest.NewRequest(http.MethodDelete, "/api/roles/"+uuid.NewString(), nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestInvalidId(t *testing.T) {
	router, _ := newTestRouter(t)

	w := get(router, "/api/projects/not-a-uuid")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestListRolesEndpoint(t *testing.T) {
	router, _ := newTestRouter(t)
	mock := withMockDB(t)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT (.+) FROM roles").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "sort_order"}).AddRow(uuid.NewString(), "Animator", int64(0)))
	mock.ExpectCommit()

	w := get(router, "/api/roles")
	require.Equal(t, http.StatusOK, w.Code)

	var roles []services.Role
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &roles))
	require.Len(t, roles, 1)
	assert.Equal(t, "Animator", roles[0].Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteToolAsAdmin(t *testing.T) {
	auth.SetSecret("test-secret")
	defer auth.SetSecret("")

	token, err := auth.Authorize("admin", time.Hour)
	require.NoError(t, err)

	router, _ := newTestRouter(t)
	mock := withMockDB(t)

	id := uuid.New()
	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM tools WHERE id").WithArgs(id).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	req := httptest.NewRequest(http.MethodDelete, "/api/tools/"+id.String(), nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := serve(router, req)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDatabaseErrorsStayPrivate(t *testing.T) {
	router, _ := newTestRouter(t)
	mock := withMockDB(t)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT (.+) FROM experiences").WillReturnError(assert.AnError)
	mock.ExpectRollback()

	w := get(router, "/api/experiences")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), assert.AnError.Error())
	assert.Equal(t, []any{db.GenericError.Error()}, decode(t, w)["errors"])
}

func TestMe(t *testing.T) {
	router, _ := newTestRouter(t)

	body := decode(t, get(router, "/auth/me"))
	assert.Equal(t, false, body["loggedIn"])
}
