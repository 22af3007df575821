package cli

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/spf13/cobra"

	"github.com/costajob/image-augmenter/pkg/buildinfo"
	"github.com/costajob/image-augmenter/pkg/dataset"
	"github.com/costajob/image-augmenter/pkg/errors"
	"github.com/costajob/image-augmenter/pkg/imgio"
	"github.com/costajob/image-augmenter/pkg/observability"
)

// Preview server limits.
const (
	// maxUploadBytes caps the uploaded image size.
	maxUploadBytes = 32 << 20

	// defaultPreviewLimit caps the variants returned per request; base64
	// payloads grow fast.
	defaultPreviewLimit = 32
)

// serveCommand creates the serve command running the preview HTTP server.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr      string
		noCache   bool
		redisAddr = c.Config.RedisAddr
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the augmentation preview HTTP server",
		Long: `Run the augmentation preview HTTP server.

The server accepts an image upload and responds with its augmented
variants inline, so filter configurations can be tuned without running a
full pack. Endpoints:

  GET  /          service info
  GET  /healthz   liveness probe
  POST /preview   multipart upload ("image" field), returns JSON variants`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			runner, err := c.newRunner(cmd, noCache, redisAddr)
			if err != nil {
				return fmt.Errorf("initialize runner: %w", err)
			}
			defer runner.Close()

			observability.SetHTTPHooks(&httpLog{logger: c.Logger})
			defer observability.Reset()

			srv := &previewServer{
				runner: runner,
				config: c.Config,
				logger: c.Logger,
			}
			server := &http.Server{
				Addr:              addr,
				Handler:           srv.routes(),
				ReadHeaderTimeout: 10 * time.Second,
			}

			go func() {
				<-cmd.Context().Done()
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				_ = server.Shutdown(shutdownCtx)
			}()

			printInfo("Preview server listening on %s", addr)
			c.Logger.Info("serving", "addr", addr)
			if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				return err
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8372", "listen address")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().StringVar(&redisAddr, "redis", redisAddr, "redis address for a shared normalization cache (host:port)")

	return cmd
}

// =============================================================================
// Preview Server
// =============================================================================

type previewServer struct {
	runner *dataset.Runner
	config *Config
	logger *log.Logger
}

func (s *previewServer) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(hookMiddleware)
	r.Use(s.loggerMiddleware)

	r.Get("/", s.handleInfo)
	r.Get("/healthz", s.handleHealth)
	r.Post("/preview", s.handlePreview)
	return r
}

// hookMiddleware forwards request lifecycle events to the observability hooks.
func hookMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		observability.HTTP().OnRequest(r.Context(), r.Method, r.URL.Path)
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		observability.HTTP().OnResponse(r.Context(), r.Method, r.URL.Path, ww.Status(), time.Since(start))
	})
}

// loggerMiddleware attaches a request-scoped logger carrying the chi
// request id; handlers retrieve it with loggerFromContext.
func (s *previewServer) loggerMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		l := s.logger.With("request_id", middleware.GetReqID(r.Context()))
		next.ServeHTTP(w, r.WithContext(withLogger(r.Context(), l)))
	})
}

// httpLog surfaces preview server traffic through the CLI logger. It is
// registered as the HTTP observability hooks by the serve command.
type httpLog struct {
	logger *log.Logger
}

func (h *httpLog) OnRequest(_ context.Context, method, path string) {
	h.logger.Debug("request", "method", method, "path", path)
}

func (h *httpLog) OnResponse(_ context.Context, method, path string, status int, duration time.Duration) {
	h.logger.Info("response", "method", method, "path", path, "status", status, "duration", duration.Round(time.Millisecond))
}

var _ observability.HTTPHooks = (*httpLog)(nil)

func (s *previewServer) handleInfo(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"name":    appName,
		"version": buildinfo.Version,
		"endpoints": []string{
			"GET /healthz",
			"POST /preview",
		},
	})
}

func (s *previewServer) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// previewVariant is one augmented variant in a preview response.
type previewVariant struct {
	Name string `json:"name"`
	Ext  string `json:"ext"`
	Data string `json:"data"` // base64-encoded encoded image
}

type previewResponse struct {
	Count     int              `json:"count"`
	Truncated bool             `json:"truncated"`
	Variants  []previewVariant `json:"variants"`
}

// handlePreview augments an uploaded image and returns the variants inline.
// Options default to the server config and can be overridden per request
// via form fields (cutoff, size, canvas, shift_axis, rank, limit).
func (s *previewServer) handlePreview(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	file, header, err := r.FormFile("image")
	if err != nil {
		writeError(w, http.StatusBadRequest, errors.New(errors.ErrCodeInvalidInput, "missing image upload"))
		return
	}
	defer file.Close()
	if !imgio.Recognized(header.Filename) {
		writeError(w, http.StatusUnsupportedMediaType, errors.New(errors.ErrCodeUnsupported, "unrecognized image type %s", header.Filename))
		return
	}

	opts, limit, err := s.requestOptions(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	// Variants work from a path; stage the upload next to nothing else.
	staged, err := stageUpload(file, header.Filename)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	defer os.RemoveAll(filepath.Dir(staged))

	resp := previewResponse{}
	err = s.runner.Variants(r.Context(), opts, staged, func(i int, img *imgio.Image) error {
		resp.Count++
		if len(resp.Variants) >= limit {
			resp.Truncated = true
			return nil
		}
		var buf bytes.Buffer
		if err := img.Encode(&buf); err != nil {
			return err
		}
		resp.Variants = append(resp.Variants, previewVariant{
			Name: fmt.Sprintf("variant_%03d.%s", i, img.Ext()),
			Ext:  img.Ext(),
			Data: base64.StdEncoding.EncodeToString(buf.Bytes()),
		})
		return nil
	})
	if err != nil {
		loggerFromContext(r.Context()).Error("preview failed", "file", header.Filename, "error", err)
		writeError(w, statusFor(err), err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// requestOptions merges the server config with per-request overrides.
func (s *previewServer) requestOptions(r *http.Request) (dataset.Options, int, error) {
	opts := s.config.Options()
	opts.Folder = "."
	opts.Logger = loggerFromContext(r.Context())

	if v := r.FormValue("cutoff"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return opts, 0, errors.New(errors.ErrCodeInvalidCutoff, "cutoff %q is not a number", v)
		}
		opts.Cutoff = f
	}
	if v := r.FormValue("size"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return opts, 0, errors.New(errors.ErrCodeInvalidSize, "size %q is not a number", v)
		}
		opts.Size = n
	}
	if v := r.FormValue("canvas"); v != "" {
		opts.Canvas = v
	}
	if v := r.FormValue("shift_axis"); v != "" {
		opts.ShiftAxis = v
	}
	if v := r.FormValue("rank"); v != "" {
		opts.RankKind = v
	}

	limit := defaultPreviewLimit
	if v := r.FormValue("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			return opts, 0, errors.New(errors.ErrCodeInvalidInput, "limit %q is not a positive number", v)
		}
		limit = n
	}
	return opts, limit, nil
}

// stageUpload copies an uploaded stream into a fresh temp directory,
// keeping the original filename so labelling and channel detection work.
func stageUpload(src io.Reader, filename string) (string, error) {
	dir, err := os.MkdirTemp("", "imgpack-upload")
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeInternal, err, "staging upload")
	}
	dest := filepath.Join(dir, filepath.Base(filename))
	f, err := os.Create(dest)
	if err != nil {
		os.RemoveAll(dir)
		return "", errors.Wrap(errors.ErrCodeInternal, err, "staging upload")
	}
	if _, err := io.Copy(f, src); err != nil {
		f.Close()
		os.RemoveAll(dir)
		return "", errors.Wrap(errors.ErrCodeInternal, err, "staging upload")
	}
	if err := f.Close(); err != nil {
		os.RemoveAll(dir)
		return "", errors.Wrap(errors.ErrCodeInternal, err, "staging upload")
	}
	return dest, nil
}

// statusFor maps pipeline error codes onto HTTP statuses.
func statusFor(err error) int {
	switch errors.GetCode(err) {
	case errors.ErrCodeInvalidInput, errors.ErrCodeInvalidCutoff, errors.ErrCodeInvalidSize,
		errors.ErrCodeInvalidColor, errors.ErrCodeInvalidAxis, errors.ErrCodeInvalidRank,
		errors.ErrCodeInvalidBatch:
		return http.StatusBadRequest
	case errors.ErrCodeNotFound, errors.ErrCodeFileNotFound:
		return http.StatusNotFound
	case errors.ErrCodeDecode, errors.ErrCodeUnsupported:
		return http.StatusUnsupportedMediaType
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{
		"error": errors.UserMessage(err),
		"code":  string(errors.GetCode(err)),
	})
}
