package auth

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/jobdeck/job-board/internal/config"
	"github.com/jobdeck/job-board/internal/email"
	"github.com/jobdeck/job-board/internal/middleware"
	"github.com/jobdeck/job-board/internal/server"
	"github.com/jobdeck/job-board/internal/user"

	"github.com/gorilla/mux"
	"golang.org/x/crypto/bcrypt"
)

func newTestServer(t *testing.T) server.Server {
	t.Helper()
	cfg := config.Config{
		Port:          "0",
		Env:           "dev",
		JwtSigningKey: []byte("test-signing-key"),
		FrontendURL:   "http://localhost:3000",
		UploadDir:     t.TempDir(),
		BcryptCost:    bcrypt.MinCost,
	}
	return server.NewServer(cfg, nil, mux.NewRouter(), email.NewClient("", "", "Job Board"))
}

type fakeUserStore struct {
	byID      map[string]user.User
	createErr error
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{byID: map[string]user.User{}}
}

func (f *fakeUserStore) Create(u *user.User) error {
	if f.createErr != nil {
		return f.createErr
	}
	for _, existing := range f.byID {
		if existing.Email == u.Email {
			return user.ErrEmailTaken
		}
	}
	f.byID[u.ID] = *u
	return nil
}

func (f *fakeUserStore) GetByID(id string) (user.User, error) {
	u, ok := f.byID[id]
	if !ok {
		return user.User{}, sql.ErrNoRows
	}
	return u, nil
}

func (f *fakeUserStore) GetByEmail(email string) (user.User, error) {
	for _, u := range f.byID {
		if u.Email == email {
			return u, nil
		}
	}
	return user.User{}, sql.ErrNoRows
}

func (f *fakeUserStore) UpdateRecruiterProfile(id, name, email, company string) (user.User, error) {
	u, err := f.GetByID(id)
	if err != nil {
		return user.User{}, err
	}
	u.Name, u.Email, u.Company = name, email, company
	f.byID[id] = u
	return u, nil
}

func (f *fakeUserStore) UpdateJobSeekerProfile(id, name, email string, skills []string, profile user.Profile) (user.User, error) {
	u, err := f.GetByID(id)
	if err != nil {
		return user.User{}, err
	}
	u.Name, u.Email, u.Skills, u.Profile = name, email, skills, profile
	f.byID[id] = u
	return u, nil
}

func (f *fakeUserStore) UpdatePassword(id, passwordHash string) error {
	u, err := f.GetByID(id)
	if err != nil {
		return err
	}
	u.PasswordHash = passwordHash
	f.byID[id] = u
	return nil
}

func (f *fakeUserStore) add(t *testing.T, id, name, emailAddr, password, role, company string) user.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("unable to hash password: %v", err)
	}
	u := user.User{
		ID:           id,
		Name:         name,
		Email:        emailAddr,
		PasswordHash: string(hash),
		Role:         role,
		Company:      company,
		CreatedAt:    time.Now().UTC(),
	}
	f.byID[id] = u
	return u
}

func jsonRequest(method, target, body string) *http.Request {
	return httptest.NewRequest(method, target, strings.NewReader(body))
}

func authedRequest(method, target, userID, body string) *http.Request {
	req := jsonRequest(method, target, body)
	return req.WithContext(middleware.WithUserID(req.Context(), userID))
}

func wantMessage(t *testing.T, rec *httptest.ResponseRecorder, status int, message string) {
	t.Helper()
	if rec.Code != status {
		t.Fatalf("status = %d, want %d (body %s)", rec.Code, status, rec.Body.String())
	}
	body := map[string]string{}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("unable to decode response body: %v", err)
	}
	if body["message"] != message {
		t.Errorf("message = %q, want %q", body["message"], message)
	}
}

func TestRegisterHandler(t *testing.T) {
	t.Parallel()

	t.Run("creates job seeker and issues token", func(t *testing.T) {
		t.Parallel()
		svr := newTestServer(t)
		store := newFakeUserStore()
		rec := httptest.NewRecorder()
		RegisterHandler(svr, store)(rec, jsonRequest(http.MethodPost, "/api/auth/register",
			`{"name":"Ada","email":"Ada@Example.com","password":"secret1","role":"job_seeker"}`))
		if rec.Code != http.StatusCreated {
			t.Fatalf("status = %d, want %d (body %s)", rec.Code, http.StatusCreated, rec.Body.String())
		}
		res := authResponse{}
		if err := json.NewDecoder(rec.Body).Decode(&res); err != nil {
			t.Fatalf("unable to decode response: %v", err)
		}
		if res.Token == "" {
			t.Error("token is empty")
		}
		if res.User.Email != "ada@example.com" {
			t.Errorf("email = %q, want lowercased", res.User.Email)
		}
		if res.User.Role != user.RoleJobSeeker {
			t.Errorf("role = %q", res.User.Role)
		}
		if len(store.byID) != 1 {
			t.Errorf("stored users = %d, want 1", len(store.byID))
		}
	})

	t.Run("rejects duplicate email", func(t *testing.T) {
		t.Parallel()
		svr := newTestServer(t)
		store := newFakeUserStore()
		store.add(t, "u1", "Ada", "ada@example.com", "secret1", user.RoleJobSeeker, "")
		rec := httptest.NewRecorder()
		RegisterHandler(svr, store)(rec, jsonRequest(http.MethodPost, "/api/auth/register",
			`{"name":"Ada","email":"ada@example.com","password":"secret1","role":"job_seeker"}`))
		wantMessage(t, rec, http.StatusBadRequest, "User already exists")
	})

	t.Run("rejects unknown role", func(t *testing.T) {
		t.Parallel()
		svr := newTestServer(t)
		rec := httptest.NewRecorder()
		RegisterHandler(svr, newFakeUserStore())(rec, jsonRequest(http.MethodPost, "/api/auth/register",
			`{"name":"Ada","email":"ada@example.com","password":"secret1","role":"admin"}`))
		wantMessage(t, rec, http.StatusBadRequest, "Role must be recruiter or job_seeker")
	})

	t.Run("rejects short password", func(t *testing.T) {
		t.Parallel()
		svr := newTestServer(t)
		rec := httptest.NewRecorder()
		RegisterHandler(svr, newFakeUserStore())(rec, jsonRequest(http.MethodPost, "/api/auth/register",
			`{"name":"Ada","email":"ada@example.com","password":"abc","role":"job_seeker"}`))
		wantMessage(t, rec, http.StatusBadRequest, "Password must be at least 6 characters")
	})
}

func TestLoginHandler(t *testing.T) {
	t.Parallel()

	t.Run("valid credentials", func(t *testing.T) {
		t.Parallel()
		svr := newTestServer(t)
		store := newFakeUserStore()
		store.add(t, "u1", "Ada", "ada@example.com", "secret1", user.RoleRecruiter, "Acme")
		rec := httptest.NewRecorder()
		LoginHandler(svr, store)(rec, jsonRequest(http.MethodPost, "/api/auth/login",
			`{"email":"ada@example.com","password":"secret1"}`))
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want %d (body %s)", rec.Code, http.StatusOK, rec.Body.String())
		}
		res := authResponse{}
		if err := json.NewDecoder(rec.Body).Decode(&res); err != nil {
			t.Fatalf("unable to decode response: %v", err)
		}
		if res.Token == "" {
			t.Error("token is empty")
		}
	})

	t.Run("wrong password", func(t *testing.T) {
		t.Parallel()
		svr := newTestServer(t)
		store := newFakeUserStore()
		store.add(t, "u1", "Ada", "ada@example.com", "secret1", user.RoleRecruiter, "Acme")
		rec := httptest.NewRecorder()
		LoginHandler(svr, store)(rec, jsonRequest(http.MethodPost, "/api/auth/login",
			`{"email":"ada@example.com","password":"wrong"}`))
		wantMessage(t, rec, http.StatusUnauthorized, "Invalid credentials")
	})

	t.Run("unknown email", func(t *testing.T) {
		t.Parallel()
		svr := newTestServer(t)
		rec := httptest.NewRecorder()
		LoginHandler(svr, newFakeUserStore())(rec, jsonRequest(http.MethodPost, "/api/auth/login",
			`{"email":"nobody@example.com","password":"secret1"}`))
		wantMessage(t, rec, http.StatusUnauthorized, "Invalid credentials")
	})
}

func TestMeHandler(t *testing.T) {
	t.Parallel()

	t.Run("returns the token subject", func(t *testing.T) {
		t.Parallel()
		svr := newTestServer(t)
		store := newFakeUserStore()
		store.add(t, "u1", "Ada", "ada@example.com", "secret1", user.RoleJobSeeker, "")
		rec := httptest.NewRecorder()
		MeHandler(svr, store)(rec, authedRequest(http.MethodGet, "/api/auth/me", "u1", ""))
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
		}
		u := user.User{}
		if err := json.NewDecoder(rec.Body).Decode(&u); err != nil {
			t.Fatalf("unable to decode response: %v", err)
		}
		if u.ID != "u1" || u.Email != "ada@example.com" {
			t.Errorf("unexpected user %+v", u)
		}
	})

	t.Run("user gone", func(t *testing.T) {
		t.Parallel()
		svr := newTestServer(t)
		rec := httptest.NewRecorder()
		MeHandler(svr, newFakeUserStore())(rec, authedRequest(http.MethodGet, "/api/auth/me", "ghost", ""))
		wantMessage(t, rec, http.StatusNotFound, "User not found")
	})
}

func TestUpdateProfileHandler(t *testing.T) {
	t.Parallel()

	t.Run("recruiter keeps only recruiter fields", func(t *testing.T) {
		t.Parallel()
		svr := newTestServer(t)
		store := newFakeUserStore()
		store.add(t, "u1", "Ada", "ada@example.com", "secret1", user.RoleRecruiter, "Acme")
		rec := httptest.NewRecorder()
		UpdateProfileHandler(svr, store)(rec, authedRequest(http.MethodPut, "/api/auth/update-profile", "u1",
			`{"name":"Ada L","email":"ada@example.com","company":"Initech","skills":["go"]}`))
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want %d (body %s)", rec.Code, http.StatusOK, rec.Body.String())
		}
		updated := store.byID["u1"]
		if updated.Company != "Initech" {
			t.Errorf("company = %q, want Initech", updated.Company)
		}
		if len(updated.Skills) != 0 {
			t.Errorf("skills = %v, recruiter update must not touch skills", updated.Skills)
		}
	})

	t.Run("job seeker updates skills and profile", func(t *testing.T) {
		t.Parallel()
		svr := newTestServer(t)
		store := newFakeUserStore()
		store.add(t, "u1", "Ada", "ada@example.com", "secret1", user.RoleJobSeeker, "")
		rec := httptest.NewRecorder()
		UpdateProfileHandler(svr, store)(rec, authedRequest(http.MethodPut, "/api/auth/update-profile", "u1",
			`{"name":"Ada","email":"ada@example.com","skills":[" Go ","Postgres",""],"profile":{"bio":"hi","experience":[],"education":[]}}`))
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want %d (body %s)", rec.Code, http.StatusOK, rec.Body.String())
		}
		updated := store.byID["u1"]
		if len(updated.Skills) != 2 || updated.Skills[0] != "Go" || updated.Skills[1] != "Postgres" {
			t.Errorf("skills = %v, want trimmed [Go Postgres]", updated.Skills)
		}
		if updated.Profile.Bio != "hi" {
			t.Errorf("bio = %q, want hi", updated.Profile.Bio)
		}
	})

	t.Run("missing name", func(t *testing.T) {
		t.Parallel()
		svr := newTestServer(t)
		store := newFakeUserStore()
		store.add(t, "u1", "Ada", "ada@example.com", "secret1", user.RoleJobSeeker, "")
		rec := httptest.NewRecorder()
		UpdateProfileHandler(svr, store)(rec, authedRequest(http.MethodPut, "/api/auth/update-profile", "u1",
			`{"name":"","email":"ada@example.com"}`))
		wantMessage(t, rec, http.StatusBadRequest, "Name and email are required")
	})
}

func TestUpdatePasswordHandler(t *testing.T) {
	t.Parallel()

	t.Run("wrong current password", func(t *testing.T) {
		t.Parallel()
		svr := newTestServer(t)
		store := newFakeUserStore()
		store.add(t, "u1", "Ada", "ada@example.com", "secret1", user.RoleJobSeeker, "")
		rec := httptest.NewRecorder()
		UpdatePasswordHandler(svr, store)(rec, authedRequest(http.MethodPut, "/api/auth/update-password", "u1",
			`{"currentPassword":"wrong","newPassword":"newsecret"}`))
		wantMessage(t, rec, http.StatusUnauthorized, "Current password is incorrect")
	})

	t.Run("short new password", func(t *testing.T) {
		t.Parallel()
		svr := newTestServer(t)
		store := newFakeUserStore()
		store.add(t, "u1", "Ada", "ada@example.com", "secret1", user.RoleJobSeeker, "")
		rec := httptest.NewRecorder()
		UpdatePasswordHandler(svr, store)(rec, authedRequest(http.MethodPut, "/api/auth/update-password", "u1",
			`{"currentPassword":"secret1","newPassword":"abc"}`))
		wantMessage(t, rec, http.StatusBadRequest, "Password must be at least 6 characters")
	})

	t.Run("updates the hash", func(t *testing.T) {
		t.Parallel()
		svr := newTestServer(t)
		store := newFakeUserStore()
		store.add(t, "u1", "Ada", "ada@example.com", "secret1", user.RoleJobSeeker, "")
		rec := httptest.NewRecorder()
		UpdatePasswordHandler(svr, store)(rec, authedRequest(http.MethodPut, "/api/auth/update-password", "u1",
			`{"currentPassword":"secret1","newPassword":"newsecret"}`))
		wantMessage(t, rec, http.StatusOK, "Password updated successfully")
		updated := store.byID["u1"]
		if err := bcrypt.CompareHashAndPassword([]byte(updated.PasswordHash), []byte("newsecret")); err != nil {
			t.Errorf("new password does not verify: %v", err)
		}
	})
}
