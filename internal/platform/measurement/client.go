package measurement

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"
	"time"

	"github.com/yungbote/cannon-backend/internal/observability"
	"github.com/yungbote/cannon-backend/internal/platform/ctxutil"
	"github.com/yungbote/cannon-backend/internal/platform/logger"
)

// Frame is one still submitted for measurement.
type Frame struct {
	Image     []byte
	Timestamp float64
}

// Client talks to the external facial measurement service. Responses are returned raw;
// interpretation belongs to the caller.
type Client interface {
	UploadVideo(ctx context.Context, video []byte, filename string) ([]byte, error)
	AnalyzeFrames(ctx context.Context, frames []Frame) ([]byte, error)
	Health(ctx context.Context) bool
}

type HTTPError struct {
	StatusCode int
	Body       string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("measurement service http %d: %s", e.StatusCode, e.Body)
}

func (e *HTTPError) HTTPStatusCode() int { return e.StatusCode }

type client struct {
	log        *logger.Logger
	baseURL    string
	httpClient *http.Client
}

func New(log *logger.Logger, baseURL string, timeout time.Duration) Client {
	if timeout <= 0 {
		timeout = 120 * time.Second
	}
	return &client{
		log:        log.With("service", "MeasurementClient"),
		baseURL:    strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

type frameBody struct {
	Image     string  `json:"image"`
	Timestamp float64 `json:"timestamp"`
}

type analyzeBody struct {
	Frames []frameBody    `json:"frames"`
	Config map[string]any `json:"config"`
}

func (c *client) AnalyzeFrames(ctx context.Context, frames []Frame) ([]byte, error) {
	if len(frames) == 0 {
		return nil, fmt.Errorf("no frames to analyze")
	}
	body := analyzeBody{Frames: make([]frameBody, 0, len(frames)), Config: map[string]any{}}
	for _, f := range frames {
		body.Frames = append(body.Frames, frameBody{
			Image:     "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(f.Image),
			Timestamp: f.Timestamp,
		})
	}
	raw, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}
	return c.post(ctx, "/scan/analyze", "application/json", bytes.NewReader(raw))
}

func (c *client) UploadVideo(ctx context.Context, video []byte, filename string) ([]byte, error) {
	if len(video) == 0 {
		return nil, fmt.Errorf("empty video")
	}
	if filename == "" {
		filename = "scan.mp4"
	}
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename=%q`, filename))
	h.Set("Content-Type", "video/mp4")
	part, err := mw.CreatePart(h)
	if err != nil {
		return nil, err
	}
	if _, err := part.Write(video); err != nil {
		return nil, err
	}
	if err := mw.Close(); err != nil {
		return nil, err
	}
	return c.post(ctx, "/scan/upload-video", mw.FormDataContentType(), &buf)
}

func (c *client) post(ctx context.Context, path, contentType string, body io.Reader) ([]byte, error) {
	ctx = ctxutil.Default(ctx)
	start := time.Now()
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", contentType)
	resp, err := c.httpClient.Do(req)
	if err != nil {
		observability.Current().ObserveUpstream("measurement", path, "error", time.Since(start))
		return nil, fmt.Errorf("measurement service %s: %w", path, err)
	}
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read measurement response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		observability.Current().ObserveUpstream("measurement", path, "error", time.Since(start))
		return nil, &HTTPError{StatusCode: resp.StatusCode, Body: string(raw)}
	}
	observability.Current().ObserveUpstream("measurement", path, "ok", time.Since(start))
	c.log.Debug("measurement call complete", "path", path, "bytes", len(raw), "duration_ms", time.Since(start).Milliseconds())
	return raw, nil
}

func (c *client) Health(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctxutil.Default(ctx), 5*time.Second)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return false
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return false
	}
	_ = resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}
