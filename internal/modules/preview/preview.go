package preview

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/tikblok/core/internal/models"
	"go.uber.org/zap"
)

// VideoGetter loads a video record for meta-tag rendering.
type VideoGetter interface {
	FindByID(ctx context.Context, id string) (*models.Video, error)
}

// Handler serves crawler-friendly HTML for video links: the SPA index.html
// with og:/twitter: meta tags injected for the requested video. Any failure
// falls back to the plain index.html so human visitors are never blocked.
type Handler struct {
	videos   VideoGetter
	webURL   string
	siteName string
	logger   *zap.Logger
	httpc    *http.Client

	mu        sync.Mutex
	indexHTML string
}

func NewHandler(videos VideoGetter, webURL string, logger *zap.Logger) *Handler {
	return &Handler{
		videos:   videos,
		webURL:   strings.TrimRight(webURL, "/"),
		siteName: "TikBlok",
		logger:   logger,
		httpc:    &http.Client{Timeout: 10 * time.Second},
	}
}

func (h *Handler) RegisterRoutes(r gin.IRouter) {
	r.GET("/video/:id", h.videoPreview)
}

func (h *Handler) videoPreview(c *gin.Context) {
	html, err := h.baseHTML(c.Request.Context())
	if err != nil {
		h.logger.Error("fetch index.html failed", zap.Error(err))
		c.String(http.StatusBadGateway, "preview unavailable")
		return
	}

	videoID := c.Param("id")
	video, err := h.videos.FindByID(c.Request.Context(), videoID)
	if err != nil || video == nil {
		if err != nil {
			h.logger.Warn("preview video lookup failed", zap.String("video_id", videoID), zap.Error(err))
		}
		c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(html))
		return
	}

	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(injectMetaTags(html, h.webURL, h.siteName, video)))
}

// baseHTML returns the SPA shell, fetched once from the public origin and
// cached for the process lifetime.
func (h *Handler) baseHTML(ctx context.Context) (string, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.indexHTML != "" {
		return h.indexHTML, nil
	}
	if h.webURL == "" {
		return "", errors.New("web url is not configured")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, h.webURL+"/index.html", nil)
	if err != nil {
		return "", err
	}
	resp, err := h.httpc.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("fetch index.html: status %d", resp.StatusCode)
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	h.indexHTML = string(data)
	return h.indexHTML, nil
}

var quoteEscaper = strings.NewReplacer(`"`, "&quot;")

// injectMetaTags splices og:/twitter: tags before </head>.
func injectMetaTags(html, webURL, siteName string, v *models.Video) string {
	title := v.Title
	if title == "" {
		title = siteName + " Video"
	}
	description := v.Description
	if description == "" {
		description = "Watch this video on " + siteName
	}
	title = quoteEscaper.Replace(title)
	description = quoteEscaper.Replace(description)

	tags := fmt.Sprintf(`
    <meta property="og:title" content="%s" />
    <meta property="og:description" content="%s" />
    <meta property="og:image" content="%s" />
    <meta property="og:url" content="%s/video/%s" />
    <meta property="og:type" content="video.other" />
    <meta property="og:site_name" content="%s" />

    <meta name="twitter:card" content="summary_large_image" />
    <meta name="twitter:title" content="%s" />
    <meta name="twitter:description" content="%s" />
    <meta name="twitter:image" content="%s" />
    `, title, description, v.ThumbnailURL, webURL, v.ID, siteName, title, description, v.ThumbnailURL)

	return strings.Replace(html, "</head>", tags+"\n</head>", 1)
}
