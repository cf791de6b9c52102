package main

import (
	"log"
	"net/http"

	"github.com/jobdeck/job-board/internal/application"
	"github.com/jobdeck/job-board/internal/auth"
	"github.com/jobdeck/job-board/internal/config"
	"github.com/jobdeck/job-board/internal/database"
	"github.com/jobdeck/job-board/internal/email"
	"github.com/jobdeck/job-board/internal/job"
	"github.com/jobdeck/job-board/internal/middleware"
	"github.com/jobdeck/job-board/internal/server"
	"github.com/jobdeck/job-board/internal/user"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
)

func main() {
	godotenv.Load()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("unable to load config: %+v", err)
	}
	conn, err := database.GetDbConn(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("unable to connect to postgres: %v", err)
	}
	defer database.CloseDbConn(conn)

	emailClient := email.NewClient(cfg.EmailAPIKey, cfg.NoReplyEmail, cfg.SiteName)
	router := mux.NewRouter()
	router.NotFoundHandler = server.RouteNotFoundHandler()
	svr := server.NewServer(cfg, conn, router, emailClient)

	userRepo := user.NewRepository(conn)
	jobRepo := job.NewRepository(conn)
	applicationRepo := application.NewRepository(conn)

	authenticated := func(next http.HandlerFunc) http.HandlerFunc {
		return middleware.BearerAuthenticatedMiddleware(cfg.JwtSigningKey, cfg.Env, next)
	}

	svr.RegisterRoute("/health", server.HealthCheckHandler(), []string{"GET"})

	svr.RegisterRoute("/api/auth/register", auth.RegisterHandler(svr, userRepo), []string{"POST"})
	svr.RegisterRoute("/api/auth/login", auth.LoginHandler(svr, userRepo), []string{"POST"})
	svr.RegisterRoute("/api/auth/me", authenticated(auth.MeHandler(svr, userRepo)), []string{"GET"})
	svr.RegisterRoute("/api/auth/update-profile", authenticated(auth.UpdateProfileHandler(svr, userRepo)), []string{"PUT"})
	svr.RegisterRoute("/api/auth/update-password", authenticated(auth.UpdatePasswordHandler(svr, userRepo)), []string{"PUT"})

	svr.RegisterRoute("/api/jobs", authenticated(job.CreateJobHandler(svr, jobRepo)), []string{"POST"})
	svr.RegisterRoute("/api/jobs", job.ListJobsHandler(svr, jobRepo), []string{"GET"})
	svr.RegisterRoute("/api/jobs/my-jobs", authenticated(job.MyJobsHandler(svr, jobRepo, applicationRepo)), []string{"GET"})
	svr.RegisterRoute("/api/jobs/{id}/applications", authenticated(job.JobApplicationsHandler(svr, jobRepo, applicationRepo)), []string{"GET"})
	svr.RegisterRoute("/api/jobs/{id}/apply", authenticated(job.ApplyToJobHandler(svr, jobRepo, applicationRepo, userRepo)), []string{"POST"})
	svr.RegisterRoute("/api/jobs/{id}", job.GetJobHandler(svr, jobRepo), []string{"GET"})

	svr.RegisterRoute("/api/applications/me", authenticated(application.MyApplicationsHandler(svr, applicationRepo)), []string{"GET"})

	// uploaded resumes and cover letters, read-only
	svr.RegisterPathPrefix("/uploads/", http.StripPrefix("/uploads/", http.FileServer(http.Dir(cfg.UploadDir))), []string{"GET"})

	log.Fatal(svr.Run())
}
