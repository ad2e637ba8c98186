package handlers

import (
	"fmt"
	"net"
	"net/http"
	"net/http/httputil"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"karnex/internal/interfaces/http/middleware"
	"karnex/internal/shared/logger"
	"karnex/internal/shared/utils"
	"karnex/internal/shared/utils/logutil"
)

// UserHeader tells the AI upstream who the call is billed to.
const UserHeader = "X-Karnex-User-ID"

// AIProxyHandler forwards AI calls to the completion upstream. The response
// status it writes is the upstream's, which decides whether usage is counted.
type AIProxyHandler struct {
	proxy  *httputil.ReverseProxy
	logger logger.Interface
}

// NewAIProxyHandler proxies requests under prefix to upstreamURL. An empty
// upstreamURL yields a handler that answers 503.
func NewAIProxyHandler(upstreamURL, prefix string, timeout time.Duration, logger logger.Interface) (*AIProxyHandler, error) {
	h := &AIProxyHandler{logger: logger}
	if upstreamURL == "" {
		return h, nil
	}

	target, err := url.Parse(upstreamURL)
	if err != nil || target.Scheme == "" || target.Host == "" {
		return nil, fmt.Errorf("invalid AI upstream url %q", upstreamURL)
	}

	transport := &http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		DialContext:           (&net.Dialer{Timeout: 10 * time.Second}).DialContext,
		ResponseHeaderTimeout: timeout,
		IdleConnTimeout:       90 * time.Second,
		MaxIdleConnsPerHost:   32,
	}

	h.proxy = &httputil.ReverseProxy{
		Rewrite: func(r *httputil.ProxyRequest) {
			r.Out.URL.Path = strings.TrimPrefix(r.Out.URL.Path, prefix)
			r.Out.URL.RawPath = ""
			r.SetURL(target)
			r.SetXForwarded()
			r.Out.Header.Del("Authorization")
		},
		Transport:     transport,
		FlushInterval: -1,
		ErrorHandler: func(w http.ResponseWriter, r *http.Request, err error) {
			logger.Errorw("AI upstream request failed",
				"path", logutil.TruncateForLog(r.URL.Path, 128),
				"user_id", r.Header.Get(UserHeader),
				"error", err,
			)
			w.WriteHeader(http.StatusBadGateway)
		},
	}
	return h, nil
}

// Proxy godoc
// @Summary AI proxy
// @Description Forwards the call to the AI upstream. Successful calls count against the monthly AI quota.
// @Security Bearer
// @Tags ai
// @Param path path string true "Upstream path"
// @Success 200 "Upstream response"
// @Failure 401 {object} utils.APIResponse "Unauthorized"
// @Failure 429 {object} utils.DenialResponse "Rate limited or AI quota exceeded"
// @Failure 502 "Upstream unreachable"
// @Failure 503 {object} utils.APIResponse "AI service not configured"
// @Router /api/ai/{path} [post]
func (h *AIProxyHandler) Proxy(c *gin.Context) {
	if h.proxy == nil {
		utils.ErrorResponse(c, http.StatusServiceUnavailable, "AI service is not configured")
		return
	}

	c.Request.Header.Set(UserHeader, strconv.FormatUint(uint64(middleware.UserID(c)), 10))
	h.proxy.ServeHTTP(c.Writer, c.Request)
}
