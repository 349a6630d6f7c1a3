package http

import (
	"encoding/json"
	"log"
	"net/http"
	"strings"

	"github.com/bostrovsky/tastyreport02/internal/domain/user"
	"github.com/bostrovsky/tastyreport02/internal/shared/auth"
)

type AuthHandler struct {
	userRepo user.Repository
	jwt      *auth.JWT
}

func NewAuthHandler(userRepo user.Repository, jwt *auth.JWT) *AuthHandler {
	return &AuthHandler{userRepo: userRepo, jwt: jwt}
}

type RegisterRequest struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type AuthResponse struct {
	Token string     `json:"token"`
	User  *user.User `json:"user"`
}

// HandleRegister creates a user account and issues a JWT
func (h *AuthHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Email == "" || len(req.Password) < 8 {
		http.Error(w, "Email and a password of at least 8 characters are required", http.StatusBadRequest)
		return
	}

	existing, err := h.userRepo.GetByEmail(r.Context(), req.Email)
	if err != nil {
		log.Printf("Error checking existing user: %v", err)
		http.Error(w, "Failed to register", http.StatusInternalServerError)
		return
	}
	if existing != nil {
		http.Error(w, "Email already registered", http.StatusConflict)
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		log.Printf("Error hashing password: %v", err)
		http.Error(w, "Failed to register", http.StatusInternalServerError)
		return
	}

	u, err := h.userRepo.Create(r.Context(), user.CreateUserParams{
		Email:        req.Email,
		Name:         req.Name,
		PasswordHash: &hash,
	})
	if err != nil {
		log.Printf("Error creating user: %v", err)
		http.Error(w, "Failed to register", http.StatusInternalServerError)
		return
	}

	h.issueToken(w, r, u, http.StatusCreated)
}

// HandleLogin verifies credentials and issues a JWT
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	u, err := h.userRepo.GetByEmail(r.Context(), strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil {
		log.Printf("Error getting user for login: %v", err)
		http.Error(w, "Failed to login", http.StatusInternalServerError)
		return
	}
	if u == nil || u.PasswordHash == nil {
		http.Error(w, "Invalid credentials", http.StatusUnauthorized)
		return
	}
	if err := auth.VerifyPassword(*u.PasswordHash, req.Password); err != nil {
		http.Error(w, "Invalid credentials", http.StatusUnauthorized)
		return
	}

	h.issueToken(w, r, u, http.StatusOK)
}

// HandleLogout clears the auth cookie
func (h *AuthHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     "access_token",
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		MaxAge:   -1,
	})
	w.WriteHeader(http.StatusNoContent)
}

func (h *AuthHandler) issueToken(w http.ResponseWriter, r *http.Request, u *user.User, status int) {
	token, err := h.jwt.Generate(u.ID, u.Email)
	if err != nil {
		log.Printf("Error generating token for user %d: %v", u.ID, err)
		http.Error(w, "Failed to issue token", http.StatusInternalServerError)
		return
	}

	setAuthCookie(w, r, token)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(AuthResponse{Token: token, User: u})
}

// setAuthCookie sets the JWT as an HttpOnly cookie
func setAuthCookie(w http.ResponseWriter, r *http.Request, token string) {
	// Only set Secure flag when actually using HTTPS
	secure := r.TLS != nil || r.Header.Get("X-Forwarded-Proto") == "https"

	http.SetCookie(w, &http.Cookie{
		Name:     "access_token",
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   86400, // 24 hours (matches JWT expiration)
	})
}
