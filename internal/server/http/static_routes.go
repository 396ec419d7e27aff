package httpserver

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
)

const viewCookieName = "xiangqi_view"

// RegisterStaticRoutes 挂载：
// - /web/*        桌面版页面
// - /web_mobile/* 手机版页面
// - /             按 ?view=、cookie、User-Agent 的顺序决定跳到哪一个
func RegisterStaticRoutes(r chi.Router, desktopDir, mobileDir string) {
	if desktopDir == "" {
		desktopDir = "."
	}
	if mobileDir == "" {
		mobileDir = desktopDir
	}

	r.Handle("/web/*", http.StripPrefix("/web/", http.FileServer(http.Dir(desktopDir))))
	r.Handle("/web_mobile/*", http.StripPrefix("/web_mobile/", http.FileServer(http.Dir(mobileDir))))
	r.Get("/web", redirectTo("/web/"))
	r.Get("/web_mobile", redirectTo("/web_mobile/"))

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		target := "/web/"
		if pickView(w, r) == "mobile" {
			target = "/web_mobile/"
		}
		w.Header().Set("Vary", "User-Agent, Cookie")
		http.Redirect(w, r, target, http.StatusFound)
	})
}

func redirectTo(target string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, target, http.StatusFound)
	}
}

func pickView(w http.ResponseWriter, r *http.Request) string {
	if v, ok := normalizeView(r.URL.Query().Get("view")); ok {
		http.SetCookie(w, &http.Cookie{
			Name:     viewCookieName,
			Value:    v,
			Path:     "/",
			MaxAge:   30 * 24 * 60 * 60,
			SameSite: http.SameSiteLaxMode,
		})
		return v
	}
	if c, err := r.Cookie(viewCookieName); err == nil {
		if v, ok := normalizeView(c.Value); ok {
			return v
		}
	}
	if isMobileUA(r.UserAgent()) {
		return "mobile"
	}
	return "web"
}

func normalizeView(v string) (string, bool) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "web", "desktop", "pc":
		return "web", true
	case "mobile", "m", "phone", "web_mobile":
		return "mobile", true
	}
	return "", false
}

var mobileNeedles = []string{"android", "iphone", "ipad", "ipod", "mobile", "windows phone", "harmony"}

func isMobileUA(ua string) bool {
	s := strings.ToLower(ua)
	for _, n := range mobileNeedles {
		if strings.Contains(s, n) {
			return true
		}
	}
	return false
}
