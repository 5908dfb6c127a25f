package web

import (
	"strings"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

// Flash severities, matching the page's alert classes.
const (
	Info    = "info"
	Success = "success"
	Warning = "warning"
	Danger  = "danger"
)

// Flash is a one-shot message shown on the next rendered page.
type Flash struct {
	Category string
	Message  string
}

const flashSep = "|"

func addFlash(c *gin.Context, category, message string) {
	s := sessions.Default(c)
	s.AddFlash(category + flashSep + message)
	_ = s.Save()
}

func takeFlashes(c *gin.Context) []Flash {
	s := sessions.Default(c)
	raw := s.Flashes()
	if len(raw) == 0 {
		return nil
	}
	_ = s.Save()

	out := make([]Flash, 0, len(raw))
	for _, v := range raw {
		str, ok := v.(string)
		if !ok {
			continue
		}
		category, message, found := strings.Cut(str, flashSep)
		if !found {
			category, message = Info, str
		}
		out = append(out, Flash{Category: category, Message: message})
	}
	return out
}
