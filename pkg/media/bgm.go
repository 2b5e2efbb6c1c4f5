package media

import (
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
)

// bgmSuffix matches the numeric page marker in music-bed filenames, e.g.
// forest_3P.mp3 belongs to page 3.
var bgmSuffix = regexp.MustCompile(`_(\d+)P\.[^.]+$`)

// pageNumber matches the page index in scene identifiers like page_003.
var pageNumber = regexp.MustCompile(`page_?(\d+)`)

// FindBGM returns the background-music file for a scene identifier, matching
// the page number in the scene name against the _NP suffix convention in the
// music directory. A missing match is a soft condition and returns empty.
func FindBGM(dir, scene string) string {
	m := pageNumber.FindStringSubmatch(strings.ToLower(scene))
	if m == nil {
		return ""
	}
	page, _ := strconv.Atoi(m[1])

	entries, err := os.ReadDir(dir)
	if err != nil {
		log.Debug("bgm directory unreadable", "dir", dir, "err", err)
		return ""
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	for _, name := range names {
		sm := bgmSuffix.FindStringSubmatch(name)
		if sm == nil {
			continue
		}
		if n, _ := strconv.Atoi(sm[1]); n == page {
			return filepath.Join(dir, name)
		}
	}
	return ""
}
