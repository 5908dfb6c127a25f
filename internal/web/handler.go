package web

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"messattendance/internal/attendance"
	"messattendance/internal/auth"
	"messattendance/internal/metrics"
)

// Probe reports whether a dependency is reachable.
type Probe interface {
	Healthy(ctx context.Context) bool
}

// Services are the domain collaborators the handlers delegate to.
type Services struct {
	CheckIns *attendance.CheckInService
	Roster   *attendance.RosterService
	Reports  *attendance.ReportService
	Gate     *auth.Gate
}

// Handler serves the check-in desk and the admin pages.
type Handler struct {
	checkins *attendance.CheckInService
	roster   *attendance.RosterService
	reports  *attendance.ReportService
	gate     *auth.Gate
	log      *zap.Logger
	probes   map[string]Probe
	secure   bool
	now      func() time.Time
}

func newHandler(svc Services, opts Options) *Handler {
	log := opts.Log
	if log == nil {
		log = zap.NewNop()
	}
	return &Handler{
		checkins: svc.CheckIns,
		roster:   svc.Roster,
		reports:  svc.Reports,
		gate:     svc.Gate,
		log:      log,
		probes:   opts.Probes,
		secure:   opts.SecureCookies,
		now:      time.Now,
	}
}

func (h *Handler) today() string { return attendance.Day(h.now()) }

func (h *Handler) render(c *gin.Context, status int, page, title string, data gin.H) {
	if data == nil {
		data = gin.H{}
	}
	data["title"] = title
	data["admin"] = auth.FromContext(c).IsAdmin
	data["flashes"] = takeFlashes(c)
	c.HTML(status, page, data)
}

// fail reports an unexpected storage failure.
func (h *Handler) fail(c *gin.Context, err error) {
	_ = c.Error(err)
	h.log.Error("request failed", zap.String("path", c.Request.URL.Path), zap.Error(err))
	c.String(http.StatusInternalServerError, "internal server error")
}

// ---------- Health ----------

func (h *Handler) Healthz(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	body := gin.H{"status": "ok"}
	status := http.StatusOK
	for name, p := range h.probes {
		ok := p.Healthy(ctx)
		body[name] = ok
		if !ok {
			status = http.StatusServiceUnavailable
			body["status"] = "degraded"
		}
	}
	c.JSON(status, body)
}

// ---------- Check-in ----------

// Index shows the check-in desk. A POST with roll_no, or a roll/roll_no query
// parameter, marks that student for today.
func (h *Handler) Index(c *gin.Context) {
	roll := c.Query("roll")
	if roll == "" {
		roll = c.Query("roll_no")
	}
	triggered := c.Request.Method == http.MethodPost || strings.TrimSpace(roll) != ""
	if strings.TrimSpace(roll) == "" {
		roll = c.PostForm("roll_no")
	}

	today := h.today()
	data := gin.H{"today": today}
	if triggered {
		res, err := h.checkins.MarkAttendance(c.Request.Context(), roll, today)
		if err != nil {
			h.fail(c, err)
			return
		}
		metrics.CheckIns.WithLabelValues(res.Outcome.String()).Inc()
		h.log.Info("checkin", zap.String("roll_no", res.RollNo), zap.String("date", res.Date),
			zap.Stringer("outcome", res.Outcome))
		data["status"], data["message"] = checkInMessage(res)
	}

	sum, err := h.reports.DailySummary(c.Request.Context(), today)
	if err != nil {
		h.fail(c, err)
		return
	}
	data["total"], data["taken"] = sum.Total, sum.Taken
	h.render(c, http.StatusOK, "index.html", "Check-in", data)
}

// Mark is the QR code target: it forwards the roll to the check-in page.
func (h *Handler) Mark(c *gin.Context) {
	roll := strings.TrimSpace(c.Query("roll"))
	if roll == "" {
		addFlash(c, Danger, "Missing roll parameter.")
		c.Redirect(http.StatusFound, "/")
		return
	}
	c.Redirect(http.StatusFound, "/?roll="+url.QueryEscape(roll))
}

func (h *Handler) Scan(c *gin.Context) {
	h.render(c, http.StatusOK, "scan.html", "Scan", nil)
}

// ---------- Access gate ----------

func (h *Handler) LoginPage(c *gin.Context) {
	h.render(c, http.StatusOK, "login.html", "Login", nil)
}

func (h *Handler) Login(c *gin.Context) {
	token, exp, err := h.gate.Login(c.PostForm("password"))
	if err != nil {
		metrics.Logins.WithLabelValues("failure").Inc()
		h.log.Warn("admin login failed", zap.String("client_ip", c.ClientIP()))
		addFlash(c, Danger, "Wrong password.")
		h.render(c, http.StatusUnauthorized, "login.html", "Login", nil)
		return
	}
	metrics.Logins.WithLabelValues("success").Inc()
	auth.SetCookie(c, token, exp, h.secure)
	addFlash(c, Success, "Logged in as admin.")
	c.Redirect(http.StatusFound, "/dashboard")
}

func (h *Handler) Logout(c *gin.Context) {
	auth.ClearCookie(c, h.secure)
	s := sessions.Default(c)
	s.Clear()
	addFlash(c, Info, "Logged out.")
	c.Redirect(http.StatusFound, "/")
}

// denyAdmin sends non-admins to the login page.
func (h *Handler) denyAdmin(c *gin.Context) {
	addFlash(c, Warning, msgLoginRequired)
	c.Redirect(http.StatusFound, "/login")
}

// ---------- Admin ----------

func (h *Handler) Dashboard(c *gin.Context) {
	ctx := c.Request.Context()
	today := h.today()
	sum, err := h.reports.DailySummary(ctx, today)
	if err != nil {
		h.fail(c, err)
		return
	}
	recent, err := h.reports.RecentDailyCounts(ctx, attendance.DefaultRecentDays)
	if err != nil {
		h.fail(c, err)
		return
	}
	h.render(c, http.StatusOK, "dashboard.html", "Dashboard", gin.H{
		"today":  today,
		"total":  sum.Total,
		"taken":  sum.Taken,
		"recent": recent,
	})
}

func (h *Handler) Students(c *gin.Context) {
	rows, err := h.roster.ListStudents(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	h.render(c, http.StatusOK, "students.html", "Students", gin.H{"rows": rows})
}

func (h *Handler) AddStudent(c *gin.Context) {
	st, err := h.roster.AddStudent(c.Request.Context(),
		c.PostForm("name"), c.PostForm("roll_no"), c.PostForm("hostel"), c.PostForm("batch"))
	switch {
	case err == nil:
		h.log.Info("student added", zap.String("roll_no", st.RollNo))
		addFlash(c, Success, "Student added.")
	case errors.Is(err, attendance.ErrDuplicateRoll):
		addFlash(c, Danger, "Roll No already exists.")
	case errors.Is(err, attendance.ErrMissingInput):
		addFlash(c, Danger, "Name and Roll No are required.")
	default:
		h.fail(c, err)
		return
	}
	c.Redirect(http.StatusSeeOther, "/students")
}

func (h *Handler) UploadStudents(c *gin.Context) {
	fh, err := c.FormFile("file")
	if err != nil {
		addFlash(c, Danger, "No file selected.")
		c.Redirect(http.StatusSeeOther, "/students")
		return
	}
	if !strings.HasSuffix(strings.ToLower(filepath.Base(fh.Filename)), ".csv") {
		addFlash(c, Danger, "Please upload a CSV file.")
		c.Redirect(http.StatusSeeOther, "/students")
		return
	}
	f, err := fh.Open()
	if err != nil {
		h.fail(c, err)
		return
	}
	defer f.Close()

	sum, err := h.roster.ImportStudents(c.Request.Context(), f)
	metrics.ImportedRows.WithLabelValues("added").Add(float64(sum.Added))
	metrics.ImportedRows.WithLabelValues("skipped").Add(float64(sum.Skipped))

	var parseErr *csv.ParseError
	switch {
	case err == nil:
		h.log.Info("roster imported", zap.String("file", fh.Filename),
			zap.Int("added", sum.Added), zap.Int("skipped", sum.Skipped))
		addFlash(c, Info, fmt.Sprintf("Upload complete. Added %d, skipped %d.", sum.Added, sum.Skipped))
	case errors.As(err, &parseErr):
		addFlash(c, Danger, fmt.Sprintf("CSV could not be read at line %d. Added %d, skipped %d before it.",
			parseErr.Line, sum.Added, sum.Skipped))
	case errors.Is(err, attendance.ErrInvalidFormat):
		addFlash(c, Danger, msgBadHeader)
	default:
		h.fail(c, err)
		return
	}
	c.Redirect(http.StatusSeeOther, "/students")
}

// reportDate reads the date parameter, defaulting to today. An unparsable
// date falls back to today with a warning.
func (h *Handler) reportDate(c *gin.Context) string {
	raw := strings.TrimSpace(c.DefaultPostForm("date", c.Query("date")))
	if raw == "" {
		return h.today()
	}
	date, err := attendance.ParseDate(raw)
	if err != nil {
		addFlash(c, Warning, fmt.Sprintf("Invalid date %q, showing today.", raw))
		return h.today()
	}
	return date
}

func (h *Handler) Report(c *gin.Context) {
	date := h.reportDate(c)
	rows, err := h.reports.PresenceReport(c.Request.Context(), date)
	if err != nil {
		h.fail(c, err)
		return
	}
	taken := 0
	for _, r := range rows {
		if r.Taken {
			taken++
		}
	}
	h.render(c, http.StatusOK, "report.html", "Report", gin.H{
		"rows":          rows,
		"selected_date": date,
		"total":         len(rows),
		"taken":         taken,
	})
}

func (h *Handler) ExportCSV(c *gin.Context) {
	date := h.today()
	if raw := strings.TrimSpace(c.Query("date")); raw != "" {
		var err error
		if date, err = attendance.ParseDate(raw); err != nil {
			c.String(http.StatusBadRequest, "invalid date %q, expected YYYY-MM-DD", raw)
			return
		}
	}
	data, err := h.reports.ExportCSV(c.Request.Context(), date)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="attendance_%s.csv"`, date))
	c.Data(http.StatusOK, "text/csv", data)
}
