package speaker

import (
	"strings"
	"unicode/utf8"

	"storyreel/pkg/lexicon"
)

// SpeedForDuration picks the synthesis speed step that fits text into the
// target clip length. Steps follow the primary backend's parameter, where
// positive slows delivery down and negative speeds it up (-5 fastest, 5
// slowest); 0 is the natural reading rate of about four and a half
// syllables per second. Spaces are not spoken and do not count toward the
// estimate.
func SpeedForDuration(text string, seconds float64) int {
	if seconds <= 0 {
		return 0
	}
	chars := utf8.RuneCountInString(strings.ReplaceAll(text, " ", ""))
	if chars == 0 {
		return 0
	}
	natural := float64(chars) / lexicon.CharsPerSecond

	if natural <= seconds {
		// audio fits with room to spare, slow down a notch
		switch ratio := natural / seconds; {
		case ratio > 0.8:
			return 0
		case ratio > 0.6:
			return 1
		default:
			return 2
		}
	}
	// audio runs long, speed up in steps
	switch ratio := seconds / natural; {
	case ratio > 0.8:
		return -1
	case ratio > 0.6:
		return -2
	case ratio > 0.5:
		return -3
	case ratio > 0.4:
		return -4
	default:
		return -5
	}
}
