package handler

import (
	"html/template"
	"log/slog"
	"net/http"
	"regexp"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"menuboard/internal/editor"
	"menuboard/internal/middleware"
	"menuboard/internal/store"
)

const sessionTTL = 30 * 24 * time.Hour

var slugStripRegexp = regexp.MustCompile(`[^a-z0-9-]+`)

type AuthHandler struct {
	userStore       *store.UserStore
	sessionStore    *store.SessionStore
	restaurantStore *store.RestaurantStore
	editors         *editor.Manager
	templates       *template.Template
	logger          *slog.Logger
}

func NewAuthHandler(
	us *store.UserStore,
	ss *store.SessionStore,
	rs *store.RestaurantStore,
	editors *editor.Manager,
	logger *slog.Logger,
) *AuthHandler {
	tmpl := template.Must(template.ParseGlob("web/templates/auth_*.html"))
	return &AuthHandler{
		userStore:       us,
		sessionStore:    ss,
		restaurantStore: rs,
		editors:         editors,
		templates:       tmpl,
		logger:          logger,
	}
}

func (h *AuthHandler) LoginPage(w http.ResponseWriter, r *http.Request) {
	h.templates.ExecuteTemplate(w, "auth_login.html", map[string]any{})
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	email := strings.TrimSpace(r.FormValue("email"))
	password := r.FormValue("password")

	if email == "" || password == "" {
		h.templates.ExecuteTemplate(w, "auth_login.html", map[string]any{
			"Error": "Email and password are required",
		})
		return
	}

	user, err := h.userStore.GetByEmail(email)
	if err != nil {
		h.logger.Error("login lookup", "error", err)
		http.Error(w, "Internal error", http.StatusInternalServerError)
		return
	}
	// Same failure message whether the account exists or the password is
	// wrong, to prevent user enumeration.
	if user == nil || bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		h.templates.ExecuteTemplate(w, "auth_login.html", map[string]any{
			"Error": "Invalid email or password",
		})
		return
	}

	sess, err := h.sessionStore.Create(user.ID, sessionTTL)
	if err != nil {
		h.logger.Error("create session", "error", err)
		http.Error(w, "Internal error", http.StatusInternalServerError)
		return
	}

	h.setSessionCookie(w, r, sess.Token)
	http.Redirect(w, r, "/admin", http.StatusSeeOther)
}

func (h *AuthHandler) RegisterPage(w http.ResponseWriter, r *http.Request) {
	h.templates.ExecuteTemplate(w, "auth_register.html", map[string]any{})
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	email := strings.TrimSpace(r.FormValue("email"))
	password := r.FormValue("password")
	restaurantName := strings.TrimSpace(r.FormValue("restaurant_name"))
	slug := Slugify(r.FormValue("slug"))
	if slug == "" {
		slug = Slugify(restaurantName)
	}

	renderError := func(msg string) {
		h.templates.ExecuteTemplate(w, "auth_register.html", map[string]any{
			"Error":          msg,
			"Email":          email,
			"RestaurantName": restaurantName,
		})
	}

	if email == "" || password == "" || restaurantName == "" {
		renderError("Email, password, and restaurant name are required")
		return
	}
	if len(password) < 8 {
		renderError("Password must be at least 8 characters")
		return
	}
	if slug == "" {
		renderError("Restaurant name must contain letters or numbers")
		return
	}

	existing, err := h.userStore.GetByEmail(email)
	if err != nil {
		h.logger.Error("register lookup", "error", err)
		http.Error(w, "Internal error", http.StatusInternalServerError)
		return
	}
	if existing != nil {
		renderError("An account with that email already exists")
		return
	}

	if taken, err := h.restaurantStore.GetBySlug(slug); err != nil {
		h.logger.Error("register slug lookup", "error", err)
		http.Error(w, "Internal error", http.StatusInternalServerError)
		return
	} else if taken != nil {
		renderError("That display URL is already taken")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		h.logger.Error("hash password", "error", err)
		http.Error(w, "Internal error", http.StatusInternalServerError)
		return
	}

	user, err := h.userStore.Create(email, string(hash))
	if err != nil {
		h.logger.Error("create user", "error", err)
		http.Error(w, "Internal error", http.StatusInternalServerError)
		return
	}

	if _, err := h.restaurantStore.Create(user.ID, restaurantName, slug); err != nil {
		h.logger.Error("create restaurant", "error", err)
		http.Error(w, "Internal error", http.StatusInternalServerError)
		return
	}

	sess, err := h.sessionStore.Create(user.ID, sessionTTL)
	if err != nil {
		h.logger.Error("create session", "error", err)
		http.Error(w, "Internal error", http.StatusInternalServerError)
		return
	}

	h.setSessionCookie(w, r, sess.Token)
	http.Redirect(w, r, "/admin", http.StatusSeeOther)
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(middleware.SessionCookieName); err == nil && cookie.Value != "" {
		if sess, err := h.sessionStore.GetByToken(cookie.Value); err == nil && sess != nil {
			h.sessionStore.Delete(sess.ID)
			h.editors.Drop(sess.UserID)
		}
	}

	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})

	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

func (h *AuthHandler) setSessionCookie(w http.ResponseWriter, r *http.Request, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(sessionTTL / time.Second),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   r.TLS != nil,
	})
}

// Slugify reduces a name to a URL-safe slug: lowercase, spaces collapsed to
// single dashes, everything outside [a-z0-9-] stripped.
func Slugify(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.Join(strings.Fields(s), "-")
	s = slugStripRegexp.ReplaceAllString(s, "")
	return strings.Trim(s, "-")
}
