package controllers

import (
	"net/http"
	"time"

	"go-bookstore/accounts"
	"go-bookstore/apperr"
	"go-bookstore/middleware"
	"go-bookstore/models"
	"go-bookstore/session"
	"go-bookstore/utils"

	"github.com/rs/zerolog"
)

// UserController handles user-related requests
type UserController struct {
	Accounts *accounts.Service
	Tokens   *utils.TokenIssuer
	Sessions *session.Store
	TokenTTL time.Duration
	Logger   zerolog.Logger
}

// NewUserController creates a new UserController
func NewUserController(svc *accounts.Service, tokens *utils.TokenIssuer, sessions *session.Store, ttl time.Duration, logger zerolog.Logger) *UserController {
	return &UserController{Accounts: svc, Tokens: tokens, Sessions: sessions, TokenTTL: ttl, Logger: logger}
}

type userView struct {
	Email   string `json:"email"`
	Name    string `json:"name"`
	Address string `json:"address"`
}

func newUserView(u *models.User) userView {
	return userView{Email: u.Email, Name: u.Name, Address: u.Address}
}

// issueToken signs a token for u and sets it as a cookie as well.
func (uc *UserController) issueToken(w http.ResponseWriter, u *models.User) (string, error) {
	token, err := uc.Tokens.GenerateJWT(u.Email, u.Name)
	if err != nil {
		return "", err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.TokenCookie,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(uc.TokenTTL.Seconds()),
	})
	return token, nil
}

// Register handles user registration and logs the new user in
func (uc *UserController) Register(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid input")
		return
	}
	user, err := uc.Accounts.Register(r.Context(),
		r.PostForm.Get("email"), r.PostForm.Get("password"), r.PostForm.Get("name"), r.PostForm.Get("address"))
	if err != nil {
		respondError(w, uc.Logger, err)
		return
	}

	token, err := uc.issueToken(w, user)
	if err != nil {
		respondError(w, uc.Logger, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, utils.M{
		"message": "Account created successfully",
		"token":   token,
		"user":    newUserView(user),
	})
}

// Login handles user authentication
func (uc *UserController) Login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid input")
		return
	}
	user, err := uc.Accounts.Authenticate(r.Context(), r.PostForm.Get("email"), r.PostForm.Get("password"))
	if err != nil {
		respondError(w, uc.Logger, err)
		return
	}

	token, err := uc.issueToken(w, user)
	if err != nil {
		respondError(w, uc.Logger, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{
		"message": "Login successful",
		"token":   token,
		"user":    newUserView(user),
	})
}

// Logout drops the session, and with it the cart, and expires the token
// cookie
func (uc *UserController) Logout(w http.ResponseWriter, r *http.Request) {
	if sess, ok := middleware.SessionFrom(r.Context()); ok {
		uc.Sessions.Delete(sess.ID)
	}
	http.SetCookie(w, &http.Cookie{Name: middleware.TokenCookie, Value: "", Path: "/", MaxAge: -1})
	http.SetCookie(w, &http.Cookie{Name: middleware.SessionCookie, Value: "", Path: "/", MaxAge: -1})
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"message": "Logged out"})
}

// GetProfile returns the logged-in user's profile
func (uc *UserController) GetProfile(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFrom(r.Context())
	if !ok {
		respondError(w, uc.Logger, apperr.ErrUnauthorized)
		return
	}
	user, err := uc.Accounts.Profile(r.Context(), claims.Email)
	if err != nil {
		respondError(w, uc.Logger, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, newUserView(user))
}

// UpdateProfile changes name, address and optionally the password
func (uc *UserController) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFrom(r.Context())
	if !ok {
		respondError(w, uc.Logger, apperr.ErrUnauthorized)
		return
	}
	if err := r.ParseForm(); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid input")
		return
	}
	user, err := uc.Accounts.UpdateProfile(r.Context(), claims.Email, accounts.ProfileUpdate{
		Name:        r.PostForm.Get("name"),
		Address:     r.PostForm.Get("address"),
		NewPassword: r.PostForm.Get("new_password"),
	})
	if err != nil {
		respondError(w, uc.Logger, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{
		"message": "Profile updated successfully",
		"user":    newUserView(user),
	})
}
