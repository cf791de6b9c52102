package application

import (
	"net/http"

	"github.com/jobdeck/job-board/internal/middleware"
	"github.com/jobdeck/job-board/internal/server"
)

// Store is the subset of Repository the handler needs.
type Store interface {
	ApplicationsForApplicant(applicantID string) ([]*ApplicationWithJob, error)
}

// MyApplicationsHandler lists the caller's applications with a shallow job
// projection, newest first.
func MyApplicationsHandler(svr server.Server, applicationRepo Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := middleware.UserIDFromContext(r.Context())
		if !ok {
			svr.MessageJSON(w, http.StatusUnauthorized, "No token provided")
			return
		}
		applications, err := applicationRepo.ApplicationsForApplicant(userID)
		if err != nil {
			svr.Log(err, "unable to fetch applications for applicant")
			svr.MessageJSON(w, http.StatusInternalServerError, "Failed to fetch applications")
			return
		}
		svr.JSON(w, http.StatusOK, applications)
	}
}
