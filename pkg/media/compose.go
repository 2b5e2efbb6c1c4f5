package media

import (
	"context"

	"github.com/charmbracelet/log"
)

// ScenePlan is one scene's inputs for final composition. A nil Audio means
// the scene had no synthesized speech and the clip plays unvoiced; an empty
// BGM means no music bed matched.
type ScenePlan struct {
	Scene    string
	Video    string
	Audio    *Artifact
	Subtitle []Line
	BGM      string
}

// Composer concatenates scene plans into one final video. Implementations
// wrap an encoder toolchain and live outside the core pipeline.
type Composer interface {
	Compose(ctx context.Context, scenes []ScenePlan, out string) error
}

// BuildPlans pairs each scene's video clip with its audio artifact, laid-out
// subtitle and matched music bed. Inputs are parallel slices in scene order;
// audio entries may be nil for scenes whose synthesis failed or was skipped.
func BuildPlans(scenes, videos, subtitles []string, audio []*Artifact, bgmDir string, style SubtitleStyle) []ScenePlan {
	plans := make([]ScenePlan, 0, len(scenes))
	for i, scene := range scenes {
		plan := ScenePlan{Scene: scene}
		if i < len(videos) {
			plan.Video = videos[i]
		}
		if i < len(audio) {
			plan.Audio = audio[i]
		}
		if i < len(subtitles) {
			plan.Subtitle = style.Layout(subtitles[i])
		}
		if bgmDir != "" {
			if plan.BGM = FindBGM(bgmDir, scene); plan.BGM == "" {
				log.Debug("no music bed for scene", "scene", scene)
			}
		}
		plans = append(plans, plan)
	}
	return plans
}
