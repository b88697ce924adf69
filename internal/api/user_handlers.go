package api

import (
	"errors"
	"net/http"

	"serwer-cytatow/internal/service"

	_ "serwer-cytatow/internal/models"
)

// @Summary      Get current user info
// @Description  Returns the profile of the user owning the access token.
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  models.User
// @Failure      401  {string}  string "Unauthorized"
// @Failure      500  {string}  string "Internal Server Error"
// @Router       /me [get]
func (s *Server) GetCurrentUserHandler(w http.ResponseWriter, r *http.Request) {
	claims := GetUserFromContext(r.Context())

	user, err := s.accounts.User(r.Context(), claims.UserID)
	if err != nil {
		if errors.Is(err, service.ErrUnauthenticated) {
			http.Error(w, "User no longer exists", http.StatusUnauthorized)
			return
		}
		s.serverError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, user)
}
