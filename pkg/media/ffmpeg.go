package media

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
)

// FFmpeg assembles the final trailer with the ffmpeg binary: each scene's
// clip is cut to its narration length, mixed with its music bed, gets the
// subtitle burned in, and the per-scene segments are concatenated.
type FFmpeg struct {
	Bin  string // ffmpeg binary, "ffmpeg" on PATH by default
	Font string // fontfile for burned subtitles, empty skips the burn
}

func NewFFmpeg(font string) *FFmpeg {
	return &FFmpeg{Bin: "ffmpeg", Font: font}
}

func (f *FFmpeg) Compose(ctx context.Context, scenes []ScenePlan, out string) error {
	if len(scenes) == 0 {
		return fmt.Errorf("no scenes to compose")
	}
	work, err := os.MkdirTemp("", "compose-*")
	if err != nil {
		return err
	}
	defer os.RemoveAll(work)

	var segments []string
	for i, plan := range scenes {
		if plan.Video == "" {
			log.Warn("scene has no clip, skipping", "scene", plan.Scene)
			continue
		}
		segment := filepath.Join(work, fmt.Sprintf("segment_%03d.mp4", i))
		if err := f.run(ctx, f.sceneArgs(plan, segment)); err != nil {
			return fmt.Errorf("scene %s: %w", plan.Scene, err)
		}
		segments = append(segments, segment)
	}
	if len(segments) == 0 {
		return fmt.Errorf("no scene had a clip")
	}

	list := filepath.Join(work, "concat.txt")
	var b strings.Builder
	for _, segment := range segments {
		fmt.Fprintf(&b, "file '%s'\n", segment)
	}
	if err := os.WriteFile(list, []byte(b.String()), 0o644); err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(out), 0o755); err != nil {
		return err
	}
	args := []string{"-y", "-f", "concat", "-safe", "0", "-i", list, "-c", "copy", out}
	if err := f.run(ctx, args); err != nil {
		return fmt.Errorf("concat: %w", err)
	}
	log.Info("trailer composed", "scenes", len(segments), "out", out)
	return nil
}

// sceneArgs builds the ffmpeg invocation for one scene segment.
func (f *FFmpeg) sceneArgs(plan ScenePlan, out string) []string {
	args := []string{"-y", "-i", plan.Video}

	hasAudio := plan.Audio != nil && plan.Audio.Path != ""
	hasBGM := plan.BGM != ""
	if hasAudio {
		args = append(args, "-i", plan.Audio.Path)
	}
	if hasBGM {
		args = append(args, "-stream_loop", "-1", "-i", plan.BGM)
	}

	if burn := f.drawtext(plan.Subtitle); burn != "" {
		args = append(args, "-vf", burn)
	}

	switch {
	case hasAudio && hasBGM:
		args = append(args,
			"-filter_complex", "[2:a]volume=0.2[bg];[1:a][bg]amix=inputs=2:duration=first[a]",
			"-map", "0:v", "-map", "[a]")
	case hasAudio:
		args = append(args, "-map", "0:v", "-map", "1:a")
	case hasBGM:
		args = append(args, "-map", "0:v", "-map", "1:a")
	}

	// cut the clip to the narration length; an unvoiced scene keeps the
	// clip's own length
	if hasAudio && plan.Audio.Duration > 0 {
		args = append(args, "-t", fmt.Sprintf("%.3f", plan.Audio.Duration))
	}

	return append(args, "-c:v", "libx264", "-r", "30", "-c:a", "aac", "-shortest", out)
}

// drawtext renders the laid-out subtitle lines as a drawtext filter chain.
func (f *FFmpeg) drawtext(lines []Line) string {
	if f.Font == "" || len(lines) == 0 {
		return ""
	}
	filters := make([]string, 0, len(lines))
	for _, line := range lines {
		filters = append(filters, fmt.Sprintf(
			"drawtext=fontfile='%s':text='%s':x=%d:y=%d:fontsize=44:fontcolor=white:borderw=3:bordercolor=black",
			f.Font, drawtextEscape(line.Text), line.X, line.Y))
	}
	return strings.Join(filters, ",")
}

var drawtextReplacer = strings.NewReplacer(
	`\`, `\\`,
	`'`, `\\\'`,
	`:`, `\:`,
	`%`, `\%`,
)

func drawtextEscape(s string) string {
	return drawtextReplacer.Replace(s)
}

func (f *FFmpeg) run(ctx context.Context, args []string) error {
	bin := f.Bin
	if bin == "" {
		bin = "ffmpeg"
	}
	cmd := exec.CommandContext(ctx, bin, args...)
	output, err := cmd.CombinedOutput()
	if err != nil {
		tail := string(output)
		if len(tail) > 512 {
			tail = tail[len(tail)-512:]
		}
		return fmt.Errorf("%s: %w: %s", bin, err, tail)
	}
	return nil
}
