// Package video specifies the boundary to generative image-to-video
// backends. Implementations wrap a vendor API and are configured outside the
// core pipeline.
package video

import "context"

// Clip is one generated video clip for a scene.
type Clip struct {
	Scene string `json:"scene"`
	Path  string `json:"path"`
}

// Request asks for one clip animated from a still page image.
type Request struct {
	Scene    string
	Image    string // path to the source illustration
	Prompt   string // motion/style hint
	Duration float64
}

// Generator turns page illustrations into short motion clips. Calls are
// long-running; implementations must honor ctx cancellation while polling.
type Generator interface {
	Generate(ctx context.Context, req Request) (Clip, error)
}
