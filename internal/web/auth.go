package web

import (
	"net/http"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/Zlatonn/warranty-checker/internal/auth"
	"github.com/Zlatonn/warranty-checker/internal/store"
)

// LoginPage handles GET /login.
func (s *Server) LoginPage(w http.ResponseWriter, r *http.Request) {
	s.Templates.Render(w, "login.html", &PageData{Title: "Sign in"})
}

// LoginSubmit handles POST /login.
func (s *Server) LoginSubmit(w http.ResponseWriter, r *http.Request) {
	email := r.FormValue("email")
	password := r.FormValue("password")

	renderError := func(msg string) {
		s.Templates.Render(w, "login.html", &PageData{Title: "Sign in", Error: msg})
	}

	if email == "" || password == "" {
		renderError("Enter your email and password.")
		return
	}

	user, err := store.GetUserByEmail(r.Context(), s.DB, email)
	if err != nil || user == nil {
		renderError("Invalid email or password.")
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		renderError("Invalid email or password.")
		return
	}

	token, err := auth.GenerateToken(s.JWTSecret, user.ID, user.Email, user.Username)
	if err != nil {
		renderError("Sign-in failed, please try again.")
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     "token",
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
		MaxAge:   int(auth.TokenExpiry.Seconds()),
	})

	http.Redirect(w, r, "/items", http.StatusSeeOther)
}

// RegisterPage handles GET /register.
func (s *Server) RegisterPage(w http.ResponseWriter, r *http.Request) {
	s.Templates.Render(w, "register.html", &PageData{Title: "Sign up"})
}

// RegisterSubmit handles POST /register.
func (s *Server) RegisterSubmit(w http.ResponseWriter, r *http.Request) {
	email := strings.TrimSpace(r.FormValue("email"))
	username := strings.TrimSpace(r.FormValue("username"))
	password := r.FormValue("password")

	renderError := func(msg string) {
		s.Templates.Render(w, "register.html", &PageData{Title: "Sign up", Error: msg})
	}

	if email == "" || username == "" || password == "" {
		renderError("All fields are required.")
		return
	}

	existing, err := store.GetUserByEmail(r.Context(), s.DB, email)
	if err != nil {
		renderError("Registration failed, please try again.")
		return
	}
	if existing != nil {
		renderError("That email is already registered.")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		renderError("Registration failed, please try again.")
		return
	}

	if _, err := store.CreateUser(r.Context(), s.DB, email, username, string(hash)); err != nil {
		renderError("Registration failed, please try again.")
		return
	}

	s.Templates.Render(w, "login.html", &PageData{
		Title:   "Sign in",
		Success: "Account created. You can sign in now.",
	})
}

// Logout handles POST /logout.
func (s *Server) Logout(w http.ResponseWriter, r *http.Request) {
	// Revoke the token so the API session dies with the cookie.
	if cookie, err := r.Cookie("token"); err == nil && cookie.Value != "" {
		if claims, err := auth.ValidateToken(s.JWTSecret, cookie.Value); err == nil &&
			claims.ID != "" && claims.ExpiresAt != nil {
			_ = store.RevokeToken(r.Context(), s.DB, claims.ID, claims.ExpiresAt.Time)
		}
	}

	clearAuthCookie(w)
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}
