package handler

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/sabbirba10/exam-server/internal/metrics"
	"github.com/sabbirba10/exam-server/internal/middleware"
	"github.com/sabbirba10/exam-server/internal/server"
)

const (
	ExamPDFRoute  = "/exam.pdf"
	ExamJSONRoute = "/exam.json"

	MediaTypePDF  = "application/pdf"
	MediaTypeJSON = "application/json"

	uniqueDownloaderWindow = 24 * time.Hour
)

// Download describes one exam file as listed on the homepage.
type Download struct {
	Name      string
	URL       string
	Available bool
	Size      int64
	ModTime   time.Time
}

// RegisterRoutes wires the homepage and both exam downloads. Only the html
// page is compressed, the exam files go out as stored.
func RegisterRoutes(svr server.Server) {
	methods := []string{"GET", "HEAD"}
	svr.RegisterRoute("/", middleware.GzipMiddleware(IndexPageHandler(svr)).ServeHTTP, methods)
	svr.RegisterRoute(ExamPDFRoute, ExamPDFHandler(svr), methods)
	svr.RegisterRoute(ExamJSONRoute, ExamJSONHandler(svr), methods)
}

func IndexPageHandler(svr server.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cfg := svr.GetConfig()
		downloads := []Download{
			describe(ExamPDFRoute, cfg.ExamPDFPath),
			describe(ExamJSONRoute, cfg.ExamJSONPath),
		}
		if err := svr.Render(w, http.StatusOK, "index.html", map[string]interface{}{
			"Downloads": downloads,
		}); err != nil {
			svr.Log(err, "unable to render index.html")
			svr.InternalError(w)
		}
	}
}

func ExamPDFHandler(svr server.Server) http.HandlerFunc {
	return ServeExamFile(svr, svr.GetConfig().ExamPDFPath, MediaTypePDF)
}

func ExamJSONHandler(svr server.Server) http.HandlerFunc {
	return ServeExamFile(svr, svr.GetConfig().ExamJSONPath, MediaTypeJSON)
}

// ServeExamFile answers 404 when path does not exist at request time, otherwise
// it streams the file with the given media type. Any failure past the
// existence check is a 500.
func ServeExamFile(svr server.Server, path, mediaType string) http.HandlerFunc {
	name := filepath.Base(path)
	return func(w http.ResponseWriter, r *http.Request) {
		if !exists(path) {
			metrics.ExamDownloads.WithLabelValues(name, metrics.OutcomeMissing).Inc()
			svr.NotFound(w)
			return
		}
		f, err := os.Open(path)
		if err != nil {
			metrics.ExamDownloads.WithLabelValues(name, metrics.OutcomeError).Inc()
			svr.Log(err, fmt.Sprintf("unable to open %s", path))
			svr.InternalError(w)
			return
		}
		defer f.Close()
		fi, err := f.Stat()
		if err != nil {
			metrics.ExamDownloads.WithLabelValues(name, metrics.OutcomeError).Inc()
			svr.Log(err, fmt.Sprintf("unable to stat %s", path))
			svr.InternalError(w)
			return
		}
		if !fi.Mode().IsRegular() {
			metrics.ExamDownloads.WithLabelValues(name, metrics.OutcomeError).Inc()
			svr.Log(fmt.Errorf("%s is not a regular file", path), "unable to serve exam file")
			svr.InternalError(w)
			return
		}
		w.Header().Set("Content-Type", mediaType)
		w.Header().Set("Content-Length", strconv.FormatInt(fi.Size(), 10))
		w.WriteHeader(http.StatusOK)
		if r.Method == http.MethodHead {
			return
		}
		// never send more than the declared length, even if the file grows meanwhile
		if _, err := io.CopyN(w, f, fi.Size()); err != nil {
			// headers are gone already, the client sees a truncated body
			metrics.ExamDownloads.WithLabelValues(name, metrics.OutcomeError).Inc()
			svr.Log(err, fmt.Sprintf("unable to stream %s", path))
			return
		}
		metrics.ExamDownloads.WithLabelValues(name, metrics.OutcomeServed).Inc()
		if !svr.SeenSince(r, uniqueDownloaderWindow) {
			metrics.UniqueDownloaders.WithLabelValues(name).Inc()
		}
	}
}

// exists mirrors a plain existence query: any stat failure counts as absent.
func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func describe(url, path string) Download {
	d := Download{Name: filepath.Base(path), URL: url}
	fi, err := os.Stat(path)
	if err != nil || !fi.Mode().IsRegular() {
		return d
	}
	d.Available = true
	d.Size = fi.Size()
	d.ModTime = fi.ModTime()
	return d
}
