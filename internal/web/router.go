package web

import (
	"embed"
	"html/template"
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"messattendance/internal/auth"
	"messattendance/internal/httpmiddleware"
)

//go:embed templates/*.html
var templateFS embed.FS

// SessionCookie holds flash messages.
const SessionCookie = "mess_session"

// Options configures the router.
type Options struct {
	Log           *zap.Logger
	SessionSecret string
	SecureCookies bool
	// Limiter throttles check-in requests and login POSTs per client IP; nil disables it.
	Limiter httpmiddleware.Limiter
	// Probes are reported by /healthz under their map key.
	Probes map[string]Probe
}

// NewRouter wires every route of the application.
func NewRouter(svc Services, opts Options) *gin.Engine {
	h := newHandler(svc, opts)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(httpmiddleware.RequestLogger(h.log, "/healthz", "/metrics"))
	r.Use(httpmiddleware.SecurityHeaders())

	store := cookie.NewStore([]byte(opts.SessionSecret))
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   86400,
		HttpOnly: true,
		Secure:   opts.SecureCookies,
		SameSite: http.SameSiteLaxMode,
	})
	r.Use(sessions.Sessions(SessionCookie, store))
	r.Use(auth.Session(svc.Gate))

	r.SetHTMLTemplate(template.Must(template.ParseFS(templateFS, "templates/*.html")))

	limited := func(handler gin.HandlerFunc) []gin.HandlerFunc {
		if opts.Limiter == nil {
			return []gin.HandlerFunc{handler}
		}
		return []gin.HandlerFunc{httpmiddleware.RateLimit(opts.Limiter, h.log), handler}
	}

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.GET("/healthz", h.Healthz)

	r.GET("/", limited(h.Index)...)
	r.POST("/", limited(h.Index)...)
	r.GET("/mark", h.Mark)
	r.GET("/scan", h.Scan)
	r.GET("/login", h.LoginPage)
	r.POST("/login", limited(h.Login)...)
	r.GET("/logout", h.Logout)

	admin := r.Group("", auth.AdminOnly(h.denyAdmin))
	{
		admin.GET("/dashboard", h.Dashboard)
		admin.GET("/students", h.Students)
		admin.POST("/students", h.AddStudent)
		admin.POST("/students/upload", h.UploadStudents)
		admin.GET("/report", h.Report)
		admin.POST("/report", h.Report)
		admin.GET("/export.csv", h.ExportCSV)
	}

	return r
}
