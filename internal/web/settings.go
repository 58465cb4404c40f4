package web

import (
	"net/http"

	"golang.org/x/crypto/bcrypt"

	"github.com/Zlatonn/warranty-checker/internal/store"
)

// SettingsPage handles GET /settings.
func (s *Server) SettingsPage(w http.ResponseWriter, r *http.Request) {
	claims := GetWebClaims(r.Context())
	s.Templates.Render(w, "settings.html", &PageData{Title: "Settings", User: claims})
}

// SettingsSubmit handles POST /settings (change own password).
func (s *Server) SettingsSubmit(w http.ResponseWriter, r *http.Request) {
	claims := GetWebClaims(r.Context())

	renderError := func(msg string) {
		s.Templates.Render(w, "settings.html", &PageData{
			Title: "Settings",
			User:  claims,
			Error: msg,
		})
	}

	currentPassword := r.FormValue("current_password")
	newPassword := r.FormValue("new_password")

	if currentPassword == "" || newPassword == "" {
		renderError("Enter your current and new password.")
		return
	}

	user, err := store.GetUser(r.Context(), s.DB, claims.UserID)
	if err != nil || user == nil {
		renderError("Failed to look up your account.")
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(currentPassword)); err != nil {
		renderError("Current password is incorrect.")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		renderError("Failed to save the new password.")
		return
	}

	if err := store.UpdateUserPassword(r.Context(), s.DB, claims.UserID, string(hash)); err != nil {
		renderError("Failed to update the password.")
		return
	}

	s.Templates.Render(w, "settings.html", &PageData{
		Title:   "Settings",
		User:    claims,
		Success: "Password updated.",
	})
}
