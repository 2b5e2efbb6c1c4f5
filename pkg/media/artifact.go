// Package media handles the produced audio artifacts and the hand-off to
// video composition: duration measurement, waveform concatenation,
// background-music matching and subtitle preparation.
package media

import (
	"encoding/binary"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Artifact is one produced audio file. Duration is in seconds, zero when
// measurement failed.
type Artifact struct {
	Path     string  `json:"path"`
	Duration float64 `json:"duration,omitempty"`
}

// Duration measures an audio file's play time from its headers.
func Duration(path string) (float64, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".wav":
		return wavDuration(data)
	case ".mp3":
		return mp3Duration(data)
	}
	return 0, fmt.Errorf("unsupported audio format %q", filepath.Ext(path))
}

func wavDuration(data []byte) (float64, error) {
	if len(data) < 44 || string(data[:4]) != "RIFF" || string(data[8:12]) != "WAVE" {
		return 0, fmt.Errorf("not a wav file")
	}
	byteRate := binary.LittleEndian.Uint32(data[28:32])
	if byteRate == 0 {
		return 0, fmt.Errorf("wav header has zero byte rate")
	}
	chunk, err := findWavChunk(data, "data")
	if err != nil {
		return 0, err
	}
	return float64(len(chunk)) / float64(byteRate), nil
}

// mp3Bitrates is the MPEG-1 Layer III bitrate table in kbit/s, indexed by
// the frame header's bitrate field.
var mp3Bitrates = [16]int{0, 32, 40, 48, 56, 64, 80, 96, 112, 128, 160, 192, 224, 256, 320, 0}

// mp3Duration estimates play time from the first frame header's bitrate.
// Good enough for the constant-bitrate streams the backends produce.
func mp3Duration(data []byte) (float64, error) {
	for i := 0; i+4 <= len(data); i++ {
		if data[i] != 0xff || data[i+1]&0xe0 != 0xe0 {
			continue
		}
		version := data[i+1] >> 3 & 0x03
		layer := data[i+1] >> 1 & 0x03
		if version != 0x03 || layer != 0x01 { // MPEG-1 Layer III only
			continue
		}
		kbps := mp3Bitrates[data[i+2]>>4]
		if kbps == 0 {
			continue
		}
		return float64(len(data)-i) * 8 / float64(kbps*1000), nil
	}
	return 0, fmt.Errorf("no mp3 frame header found")
}
