package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
)

const (
	DefaultExamPDFPath  = "/home/sabbirba10/exam.pdf"
	DefaultExamJSONPath = "/home/sabbirba10/exam.json"
	DefaultSiteName     = "Exam"
)

type Config struct {
	Port           string
	Env            string // either prod or dev, dev disables https redirect and security headers
	ExamPDFPath    string // absolute path of the pdf served on /exam.pdf
	ExamJSONPath   string // absolute path of the json served on /exam.json
	SiteName       string // homepage title
	SentryDSN      string // error tracking is disabled when empty
	MetricsAddress string // prometheus listener, disabled when empty
	LogFormat      string // console or json
}

func LoadConfig() (Config, error) {
	// .env is optional, real environment variables always win
	if err := godotenv.Load(); err != nil && !os.IsNotExist(errors.Cause(err)) {
		return Config{}, errors.Wrap(err, "unable to load .env file")
	}
	port := os.Getenv("PORT")
	if port == "" {
		return Config{}, fmt.Errorf("PORT cannot be empty")
	}
	env := strings.ToLower(os.Getenv("ENV"))
	if env == "" {
		return Config{}, fmt.Errorf("ENV cannot be empty")
	}
	if env != "dev" && env != "prod" {
		return Config{}, fmt.Errorf("ENV must be either dev or prod, got %q", env)
	}
	examPDFPath := os.Getenv("EXAM_PDF_PATH")
	if examPDFPath == "" {
		examPDFPath = DefaultExamPDFPath
	}
	examJSONPath := os.Getenv("EXAM_JSON_PATH")
	if examJSONPath == "" {
		examJSONPath = DefaultExamJSONPath
	}
	siteName := os.Getenv("SITE_NAME")
	if siteName == "" {
		siteName = DefaultSiteName
	}
	logFormat := strings.ToLower(os.Getenv("LOG_FORMAT"))
	if logFormat == "" {
		logFormat = "console"
	}
	if logFormat != "console" && logFormat != "json" {
		return Config{}, fmt.Errorf("LOG_FORMAT must be either console or json, got %q", logFormat)
	}

	return Config{
		Port:           port,
		Env:            env,
		ExamPDFPath:    examPDFPath,
		ExamJSONPath:   examJSONPath,
		SiteName:       siteName,
		SentryDSN:      os.Getenv("SENTRY_DSN"),
		MetricsAddress: os.Getenv("METRICS_ADDRESS"),
		LogFormat:      logFormat,
	}, nil
}
