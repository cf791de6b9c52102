package auth

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/jobdeck/job-board/internal/middleware"
	"github.com/jobdeck/job-board/internal/server"
	"github.com/jobdeck/job-board/internal/user"

	"github.com/segmentio/ksuid"
	"golang.org/x/crypto/bcrypt"
)

// UserStore is the subset of user.Repository the auth handlers need.
type UserStore interface {
	Create(u *user.User) error
	GetByID(id string) (user.User, error)
	GetByEmail(email string) (user.User, error)
	UpdateRecruiterProfile(id, name, email, company string) (user.User, error)
	UpdateJobSeekerProfile(id, name, email string, skills []string, profile user.Profile) (user.User, error)
	UpdatePassword(id, passwordHash string) error
}

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
	Company  string `json:"company"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type authResponse struct {
	Token string    `json:"token"`
	User  user.User `json:"user"`
}

func RegisterHandler(svr server.Server, userRepo UserStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		req := registerRequest{}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			svr.MessageJSON(w, http.StatusBadRequest, "Invalid request body")
			return
		}
		req.Name = strings.TrimSpace(req.Name)
		req.Email = strings.ToLower(strings.TrimSpace(req.Email))
		if req.Name == "" || req.Email == "" {
			svr.MessageJSON(w, http.StatusBadRequest, "Name and email are required")
			return
		}
		if len(req.Password) < 6 {
			svr.MessageJSON(w, http.StatusBadRequest, "Password must be at least 6 characters")
			return
		}
		if !user.ValidRole(req.Role) {
			svr.MessageJSON(w, http.StatusBadRequest, "Role must be recruiter or job_seeker")
			return
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), svr.GetConfig().BcryptCost)
		if err != nil {
			svr.Log(err, "unable to hash password")
			svr.MessageJSON(w, http.StatusInternalServerError, "Internal server error")
			return
		}
		userID, err := ksuid.NewRandom()
		if err != nil {
			svr.Log(err, "unable to generate user id")
			svr.MessageJSON(w, http.StatusInternalServerError, "Internal server error")
			return
		}
		u := user.User{
			ID:           userID.String(),
			Name:         req.Name,
			Email:        req.Email,
			PasswordHash: string(hash),
			Role:         req.Role,
			Company:      req.Company,
			CreatedAt:    time.Now().UTC(),
		}
		if err := userRepo.Create(&u); err != nil {
			if err == user.ErrEmailTaken {
				svr.MessageJSON(w, http.StatusBadRequest, "User already exists")
				return
			}
			svr.Log(err, "unable to create user")
			svr.MessageJSON(w, http.StatusInternalServerError, "Failed to register")
			return
		}
		token, err := SignToken(svr.GetJWTSigningKey(), u.ID, u.Role)
		if err != nil {
			svr.Log(err, "unable to sign token")
			svr.MessageJSON(w, http.StatusInternalServerError, "Internal server error")
			return
		}
		svr.JSON(w, http.StatusCreated, authResponse{Token: token, User: u})
	}
}

func LoginHandler(svr server.Server, userRepo UserStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		req := loginRequest{}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			svr.MessageJSON(w, http.StatusBadRequest, "Invalid request body")
			return
		}
		u, err := userRepo.GetByEmail(strings.ToLower(strings.TrimSpace(req.Email)))
		if err == sql.ErrNoRows {
			svr.MessageJSON(w, http.StatusUnauthorized, "Invalid credentials")
			return
		}
		if err != nil {
			svr.Log(err, "unable to fetch user by email")
			svr.MessageJSON(w, http.StatusInternalServerError, "Failed to login")
			return
		}
		if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.Password)); err != nil {
			svr.MessageJSON(w, http.StatusUnauthorized, "Invalid credentials")
			return
		}
		token, err := SignToken(svr.GetJWTSigningKey(), u.ID, u.Role)
		if err != nil {
			svr.Log(err, "unable to sign token")
			svr.MessageJSON(w, http.StatusInternalServerError, "Internal server error")
			return
		}
		svr.JSON(w, http.StatusOK, authResponse{Token: token, User: u})
	}
}

func MeHandler(svr server.Server, userRepo UserStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := middleware.UserIDFromContext(r.Context())
		if !ok {
			svr.MessageJSON(w, http.StatusUnauthorized, "No token provided")
			return
		}
		u, err := userRepo.GetByID(userID)
		if err == sql.ErrNoRows {
			svr.MessageJSON(w, http.StatusNotFound, "User not found")
			return
		}
		if err != nil {
			svr.Log(err, "unable to fetch current user")
			svr.MessageJSON(w, http.StatusInternalServerError, "Failed to fetch user")
			return
		}
		svr.JSON(w, http.StatusOK, u)
	}
}

type updateProfileRequest struct {
	Name    string        `json:"name"`
	Email   string        `json:"email"`
	Company string        `json:"company"`
	Skills  []string      `json:"skills"`
	Profile *user.Profile `json:"profile"`
}

// UpdateProfileHandler applies the role-conditional profile update. The
// stored role decides which fields are honoured, never the payload.
func UpdateProfileHandler(svr server.Server, userRepo UserStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := middleware.UserIDFromContext(r.Context())
		if !ok {
			svr.MessageJSON(w, http.StatusUnauthorized, "No token provided")
			return
		}
		req := updateProfileRequest{}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			svr.MessageJSON(w, http.StatusBadRequest, "Invalid request body")
			return
		}
		req.Name = strings.TrimSpace(req.Name)
		req.Email = strings.ToLower(strings.TrimSpace(req.Email))
		if req.Name == "" || req.Email == "" {
			svr.MessageJSON(w, http.StatusBadRequest, "Name and email are required")
			return
		}
		current, err := userRepo.GetByID(userID)
		if err == sql.ErrNoRows {
			svr.MessageJSON(w, http.StatusNotFound, "User not found")
			return
		}
		if err != nil {
			svr.Log(err, "unable to fetch user for profile update")
			svr.MessageJSON(w, http.StatusInternalServerError, "Failed to update profile")
			return
		}

		var updated user.User
		switch current.Role {
		case user.RoleRecruiter:
			updated, err = userRepo.UpdateRecruiterProfile(userID, req.Name, req.Email, req.Company)
		case user.RoleJobSeeker:
			skills := normaliseSkills(req.Skills)
			if skills == nil {
				skills = current.Skills
			}
			profile := current.Profile
			if req.Profile != nil {
				profile = *req.Profile
			}
			updated, err = userRepo.UpdateJobSeekerProfile(userID, req.Name, req.Email, skills, profile)
		default:
			svr.MessageJSON(w, http.StatusBadRequest, "Unknown user role")
			return
		}
		if err == user.ErrEmailTaken {
			svr.MessageJSON(w, http.StatusBadRequest, "Email is already in use")
			return
		}
		if err != nil {
			svr.Log(err, "unable to update profile")
			svr.MessageJSON(w, http.StatusInternalServerError, "Failed to update profile")
			return
		}
		svr.JSON(w, http.StatusOK, updated)
	}
}

type updatePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

func UpdatePasswordHandler(svr server.Server, userRepo UserStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := middleware.UserIDFromContext(r.Context())
		if !ok {
			svr.MessageJSON(w, http.StatusUnauthorized, "No token provided")
			return
		}
		req := updatePasswordRequest{}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			svr.MessageJSON(w, http.StatusBadRequest, "Invalid request body")
			return
		}
		u, err := userRepo.GetByID(userID)
		if err == sql.ErrNoRows {
			svr.MessageJSON(w, http.StatusNotFound, "User not found")
			return
		}
		if err != nil {
			svr.Log(err, "unable to fetch user for password update")
			svr.MessageJSON(w, http.StatusInternalServerError, "Failed to update password")
			return
		}
		if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.CurrentPassword)); err != nil {
			svr.MessageJSON(w, http.StatusUnauthorized, "Current password is incorrect")
			return
		}
		if len(req.NewPassword) < 6 {
			svr.MessageJSON(w, http.StatusBadRequest, "Password must be at least 6 characters")
			return
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), svr.GetConfig().BcryptCost)
		if err != nil {
			svr.Log(err, "unable to hash new password")
			svr.MessageJSON(w, http.StatusInternalServerError, "Failed to update password")
			return
		}
		if err := userRepo.UpdatePassword(userID, string(hash)); err != nil {
			svr.Log(err, "unable to persist new password")
			svr.MessageJSON(w, http.StatusInternalServerError, "Failed to update password")
			return
		}
		svr.MessageJSON(w, http.StatusOK, "Password updated successfully")
	}
}

// normaliseSkills trims entries and drops empties; a nil result means the
// payload carried no usable skills and the stored ones should be kept.
func normaliseSkills(skills []string) []string {
	if skills == nil {
		return nil
	}
	out := make([]string, 0, len(skills))
	for _, s := range skills {
		s = strings.TrimSpace(s)
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}
