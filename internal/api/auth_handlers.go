package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"serwer-cytatow/internal/service"

	"go.uber.org/zap"
)

func (s *Server) SignupPage(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, http.StatusOK, "signup.page.html", &HTMLData{Title: "Sign up"})
}

func (s *Server) SignupSubmit(w http.ResponseWriter, r *http.Request) {
	username := r.FormValue("username")
	email := r.FormValue("email")

	rerender := func(status int, message string) {
		s.render(w, r, status, "signup.page.html", &HTMLData{
			Title:     "Sign up",
			FormError: message,
			FormData: map[string]string{
				"username": username,
				"email":    email,
			},
		})
	}

	if r.FormValue("confirm_password") != "" && r.FormValue("confirm_password") != r.FormValue("password") {
		rerender(http.StatusUnprocessableEntity, "Passwords do not match!")
		return
	}

	user, err := s.accounts.Signup(r.Context(), service.SignupInput{
		Username: username,
		Email:    email,
		Password: r.FormValue("password"),
	})
	if err != nil {
		var vErr *service.ValidationError
		switch {
		case errors.Is(err, service.ErrDuplicate):
			rerender(http.StatusConflict, "Email or username already exists.")
		case errors.As(err, &vErr):
			rerender(http.StatusUnprocessableEntity, vErr.Error())
		default:
			s.serverError(w, r, err)
		}
		return
	}

	s.log.Info("user signed up", zap.Int64("user_id", user.ID), zap.String("username", user.Username))

	setFlash(w, "success", "Signup successful! Please login.")
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

func (s *Server) LoginPage(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, http.StatusOK, "login.page.html", &HTMLData{Title: "Login"})
}

func (s *Server) LoginSubmit(w http.ResponseWriter, r *http.Request) {
	email := r.FormValue("email")

	res, err := s.accounts.Login(r.Context(), service.LoginInput{
		Email:     email,
		Password:  r.FormValue("password"),
		UserAgent: r.UserAgent(),
		ClientIP:  r.RemoteAddr,
		LongLived: true,
	})
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			s.render(w, r, http.StatusUnauthorized, "login.page.html", &HTMLData{
				Title:     "Login",
				FormError: "Invalid email or password.",
				FormData:  map[string]string{"email": email},
			})
			return
		}
		s.serverError(w, r, err)
		return
	}

	s.setSessionCookie(w, res.AccessToken, res.ExpiresAt)
	setFlash(w, "success", "Login successful!")
	http.Redirect(w, r, "/home", http.StatusSeeOther)
}

func (s *Server) Logout(w http.ResponseWriter, r *http.Request) {
	if claims := GetUserFromContext(r.Context()); claims != nil {
		if err := s.accounts.Logout(r.Context(), claims.SessionID()); err != nil {
			s.serverError(w, r, err)
			return
		}
	}

	s.clearSessionCookie(w)
	setFlash(w, "success", "You have been logged out.")
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

type LoginRequest struct {
	Email    string `json:"email" example:"ada@example.com"`
	Password string `json:"password" example:"password123"`
}

type TokenResponse struct {
	AccessToken  string `json:"access_token" example:"eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9.eyJ1c2VyX2lkIjoxLCJ1c2VybmFtZSI6ImFkYSJ9...."`
	RefreshToken string `json:"refresh_token" example:"V1StGXR8_Z5jdHi6B-myT78q_Z5jdHi6B-myT78q"`
}

// @Summary      Logs a user in
// @Description  Authenticates a user by email and returns a short-lived access token and a long-lived refresh token.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        loginRequest   body      LoginRequest  true  "Login Credentials"
// @Success      200            {object}  TokenResponse
// @Failure      400            {string}  string "Invalid request body"
// @Failure      401            {string}  string "Invalid email or password"
// @Failure      500            {string}  string "Internal Server Error"
// @Router       /auth/login [post]
func (s *Server) LoginHandler(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	res, err := s.accounts.Login(r.Context(), service.LoginInput{
		Email:     req.Email,
		Password:  req.Password,
		UserAgent: r.UserAgent(),
		ClientIP:  r.RemoteAddr,
	})
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			http.Error(w, "Invalid email or password", http.StatusUnauthorized)
			return
		}
		s.serverError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, TokenResponse{
		AccessToken:  res.AccessToken,
		RefreshToken: res.RefreshToken,
	})
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" example:"V1StGXR8_Z5jdHi6B-myT78q_Z5jdHi6B-myT78q"`
}

// @Summary      Refresh access token
// @Description  Exchanges a valid refresh token for a new token pair. The old refresh token stops working.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        refreshTokenRequest   body      RefreshTokenRequest  true  "Refresh Token"
// @Success      200                   {object}  TokenResponse
// @Failure      400                   {string}  string "Invalid request body or missing token"
// @Failure      401                   {string}  string "Invalid or expired refresh token"
// @Failure      500                   {string}  string "Internal Server Error"
// @Router       /auth/refresh [post]
func (s *Server) RefreshTokenHandler(w http.ResponseWriter, r *http.Request) {
	var req RefreshTokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.RefreshToken == "" {
		http.Error(w, "Refresh token is required", http.StatusBadRequest)
		return
	}

	res, err := s.accounts.Refresh(r.Context(), req.RefreshToken, r.UserAgent(), r.RemoteAddr)
	if err != nil {
		if errors.Is(err, service.ErrUnauthenticated) {
			http.Error(w, "Invalid or expired refresh token", http.StatusUnauthorized)
			return
		}
		s.serverError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, TokenResponse{
		AccessToken:  res.AccessToken,
		RefreshToken: res.RefreshToken,
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
