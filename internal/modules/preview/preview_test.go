package preview

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tikblok/core/internal/models"
	"github.com/tikblok/core/internal/repositories"
	"go.uber.org/zap"
)

const testIndexHTML = `<!doctype html><html><head><title>TikBlok</title></head><body></body></html>`

type fakeVideos struct {
	video *models.Video
	err   error
}

func (f *fakeVideos) FindByID(context.Context, string) (*models.Video, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.video, nil
}

func newOriginServer(t *testing.T, status int) (*httptest.Server, *int64) {
	t.Helper()
	var fetches int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&fetches, 1)
		w.WriteHeader(status)
		io.WriteString(w, testIndexHTML)
	}))
	t.Cleanup(srv.Close)
	return srv, &fetches
}

func newPreviewRouter(videos VideoGetter, webURL string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	NewHandler(videos, webURL, zap.NewNop()).RegisterRoutes(r)
	return r
}

func getPreview(r *gin.Engine, id string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/video/"+id, nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestPreviewInjectsMetaTags(t *testing.T) {
	origin, _ := newOriginServer(t, http.StatusOK)
	videos := &fakeVideos{video: &models.Video{
		ID:           "v1",
		Title:        "Diamond Find",
		Description:  "Mining adventure",
		ThumbnailURL: "https://cdn.example.com/v1.jpg",
	}}
	r := newPreviewRouter(videos, origin.URL)

	w := getPreview(r, "v1")
	require.Equal(t, http.StatusOK, w.Code)

	body := w.Body.String()
	assert.Contains(t, body, `<meta property="og:title" content="Diamond Find" />`)
	assert.Contains(t, body, `<meta property="og:description" content="Mining adventure" />`)
	assert.Contains(t, body, `<meta property="og:image" content="https://cdn.example.com/v1.jpg" />`)
	assert.Contains(t, body, `content="`+origin.URL+`/video/v1"`)
	assert.Contains(t, body, `<meta name="twitter:card" content="summary_large_image" />`)
	// Tags land inside the head, before the SPA body.
	assert.Less(t, strings.Index(body, "og:title"), strings.Index(body, "</head>"))
}

func TestPreviewEscapesQuotesInTitle(t *testing.T) {
	origin, _ := newOriginServer(t, http.StatusOK)
	videos := &fakeVideos{video: &models.Video{ID: "v1", Title: `Say "hello"`}}
	r := newPreviewRouter(videos, origin.URL)

	w := getPreview(r, "v1")
	body := w.Body.String()
	assert.Contains(t, body, `content="Say &quot;hello&quot;"`)
	assert.NotContains(t, body, `content="Say "hello""`)
}

func TestPreviewFallsBackForMissingVideo(t *testing.T) {
	origin, _ := newOriginServer(t, http.StatusOK)
	r := newPreviewRouter(&fakeVideos{err: repositories.ErrVideoNotFound}, origin.URL)

	w := getPreview(r, "nope")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, testIndexHTML, w.Body.String())
	assert.NotContains(t, w.Body.String(), "og:title")
}

func TestPreviewFallsBackOnLookupError(t *testing.T) {
	origin, _ := newOriginServer(t, http.StatusOK)
	r := newPreviewRouter(&fakeVideos{err: errors.New("mongo down")}, origin.URL)

	w := getPreview(r, "v1")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, testIndexHTML, w.Body.String())
}

func TestPreviewCachesIndexHTML(t *testing.T) {
	origin, fetches := newOriginServer(t, http.StatusOK)
	videos := &fakeVideos{video: &models.Video{ID: "v1", Title: "t"}}
	r := newPreviewRouter(videos, origin.URL)

	getPreview(r, "v1")
	getPreview(r, "v1")
	getPreview(r, "v1")

	assert.Equal(t, int64(1), atomic.LoadInt64(fetches))
}

func TestPreviewUnavailableWhenOriginFails(t *testing.T) {
	origin, _ := newOriginServer(t, http.StatusInternalServerError)
	r := newPreviewRouter(&fakeVideos{}, origin.URL)

	w := getPreview(r, "v1")
	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.Contains(t, w.Body.String(), "preview unavailable")
}

func TestInjectMetaTagsDefaults(t *testing.T) {
	out := injectMetaTags(testIndexHTML, "https://tikblok.example", "TikBlok", &models.Video{ID: "v1"})
	assert.Contains(t, out, `<meta property="og:title" content="TikBlok Video" />`)
	assert.Contains(t, out, `<meta property="og:description" content="Watch this video on TikBlok" />`)
}
