package video

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/charmbracelet/log"
)

const (
	runwayEndpoint = "https://api.dev.runwayml.com"
	runwayVersion  = "2024-11-06"
	runwayModel    = "gen4_turbo"
	runwayRatio    = "720:1280"
)

// defaultClipSeconds matches the shortest duration the model accepts; the
// trailer cuts are short anyway.
const defaultClipSeconds = 5

// Runway generates clips through the Runway image-to-video task API: submit
// a task, poll until it settles, then download the rendered clip.
type Runway struct {
	client   *http.Client
	endpoint string
	key      string
	outDir   string
	poll     time.Duration
}

func NewRunway(key, outDir string) *Runway {
	return &Runway{
		client:   &http.Client{Timeout: 60 * time.Second},
		endpoint: runwayEndpoint,
		key:      key,
		outDir:   outDir,
		poll:     5 * time.Second,
	}
}

type runwayTask struct {
	ID      string   `json:"id"`
	Status  string   `json:"status"`
	Output  []string `json:"output"`
	Failure string   `json:"failure"`
}

// Generate submits one image-to-video task and blocks until the clip is
// rendered and downloaded, or the task fails or ctx is cancelled.
func (r *Runway) Generate(ctx context.Context, req Request) (Clip, error) {
	image, err := imageDataURI(req.Image)
	if err != nil {
		return Clip{}, fmt.Errorf("runway image: %w", err)
	}

	duration := int(req.Duration)
	if duration <= 0 {
		duration = defaultClipSeconds
	}

	body, err := json.Marshal(map[string]any{
		"model":       runwayModel,
		"promptImage": image,
		"promptText":  req.Prompt,
		"duration":    duration,
		"ratio":       runwayRatio,
	})
	if err != nil {
		return Clip{}, err
	}

	var created runwayTask
	if err := r.call(ctx, http.MethodPost, "/v1/image_to_video", body, &created); err != nil {
		return Clip{}, fmt.Errorf("runway create: %w", err)
	}
	log.Info("runway task submitted", "scene", req.Scene, "task", created.ID)

	url, err := r.wait(ctx, created.ID)
	if err != nil {
		return Clip{}, err
	}

	path := filepath.Join(r.outDir, req.Scene+".mp4")
	if err := r.download(ctx, url, path); err != nil {
		return Clip{}, fmt.Errorf("runway download: %w", err)
	}
	return Clip{Scene: req.Scene, Path: path}, nil
}

// wait polls the task until it settles and returns the clip URL.
func (r *Runway) wait(ctx context.Context, id string) (string, error) {
	ticker := time.NewTicker(r.poll)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-ticker.C:
		}

		var task runwayTask
		if err := r.call(ctx, http.MethodGet, "/v1/tasks/"+id, nil, &task); err != nil {
			return "", fmt.Errorf("runway poll: %w", err)
		}
		switch task.Status {
		case "SUCCEEDED":
			if len(task.Output) == 0 {
				return "", fmt.Errorf("runway task %s succeeded without output", id)
			}
			return task.Output[0], nil
		case "FAILED":
			return "", fmt.Errorf("runway task %s failed: %s", id, task.Failure)
		}
		log.Debug("runway task pending", "task", id, "status", task.Status)
	}
}

// call issues one API request, retrying transient failures. Client errors
// are permanent and fail immediately.
func (r *Runway) call(ctx context.Context, method, path string, body []byte, out any) error {
	do := func() ([]byte, error) {
		var reader io.Reader
		if body != nil {
			reader = bytes.NewReader(body)
		}
		httpReq, err := http.NewRequestWithContext(ctx, method, r.endpoint+path, reader)
		if err != nil {
			return nil, backoff.Permanent(err)
		}
		httpReq.Header.Set("Authorization", "Bearer "+r.key)
		httpReq.Header.Set("X-Runway-Version", runwayVersion)
		if body != nil {
			httpReq.Header.Set("Content-Type", "application/json")
		}

		resp, err := r.client.Do(httpReq)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()

		switch {
		case resp.StatusCode < 300:
			return io.ReadAll(resp.Body)
		case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
			return nil, fmt.Errorf("runway status %d", resp.StatusCode)
		default:
			msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
			return nil, backoff.Permanent(fmt.Errorf("runway status %d: %s", resp.StatusCode, msg))
		}
	}

	policy := backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), 3), ctx)
	data, err := backoff.RetryNotifyWithData(do, policy, func(err error, d time.Duration) {
		log.Warn("runway retry", "err", err, "backoff", d)
	})
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	return json.Unmarshal(data, out)
}

func (r *Runway) download(ctx context.Context, url, path string) error {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	resp, err := r.client.Do(httpReq)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("clip fetch status %d", resp.StatusCode)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	_, err = io.Copy(f, resp.Body)
	return err
}

// imageDataURI reads an illustration and inlines it for upload.
func imageDataURI(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	mediaType := mime.TypeByExtension(filepath.Ext(path))
	if mediaType == "" {
		mediaType = "image/jpeg"
	}
	return fmt.Sprintf("data:%s;base64,%s", mediaType, base64.StdEncoding.EncodeToString(data)), nil
}
