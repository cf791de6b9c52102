package config

import (
	"encoding/base64"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

type Config struct {
	Port          string
	DatabaseURL   string
	JwtSigningKey []byte
	FrontendURL   string // origin allowed by CORS
	UploadDir     string // resumes and cover letters are stored here
	Env           string // either prod or dev, disables security headers and few other bits
	SentryDSN     string
	EmailAPIKey   string // transactional email API key, email is disabled when empty
	NoReplyEmail  string
	SiteName      string
	BcryptCost    int
}

func LoadConfig() (Config, error) {
	port := os.Getenv("PORT")
	if port == "" {
		return Config{}, fmt.Errorf("PORT cannot be empty")
	}
	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		return Config{}, fmt.Errorf("DATABASE_URL cannot be empty")
	}
	jwtSigningKey := os.Getenv("JWT_SIGNING_KEY")
	if jwtSigningKey == "" {
		return Config{}, fmt.Errorf("JWT_SIGNING_KEY cannot be empty")
	}
	jwtSigningKeyBytes, err := base64.StdEncoding.DecodeString(jwtSigningKey)
	if err != nil {
		return Config{}, errors.Wrapf(err, "unable to decode jwt signing key to bytes")
	}
	frontendURL := os.Getenv("FRONTEND_URL")
	if frontendURL == "" {
		frontendURL = "http://localhost:3000"
	}
	uploadDir := os.Getenv("UPLOAD_DIR")
	if uploadDir == "" {
		uploadDir = "uploads"
	}
	env := strings.ToLower(os.Getenv("ENV"))
	if env == "" {
		return Config{}, fmt.Errorf("ENV cannot be empty")
	}
	siteName := os.Getenv("SITE_NAME")
	if siteName == "" {
		siteName = "Job Board"
	}
	bcryptCost := 10
	if bcryptCostStr := os.Getenv("BCRYPT_COST"); bcryptCostStr != "" {
		bcryptCost, err = strconv.Atoi(bcryptCostStr)
		if err != nil {
			return Config{}, errors.Wrap(err, "unable to convert bcrypt cost to int")
		}
	}

	return Config{
		Port:          port,
		DatabaseURL:   databaseURL,
		JwtSigningKey: jwtSigningKeyBytes,
		FrontendURL:   frontendURL,
		UploadDir:     uploadDir,
		Env:           env,
		SentryDSN:     os.Getenv("SENTRY_DSN"),
		EmailAPIKey:   os.Getenv("EMAIL_API_KEY"),
		NoReplyEmail:  os.Getenv("NO_REPLY_EMAIL"),
		SiteName:      siteName,
		BcryptCost:    bcryptCost,
	}, nil
}
