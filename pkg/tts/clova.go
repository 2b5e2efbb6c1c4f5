package tts

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/charmbracelet/log"
)

const clovaEndpoint = "https://naveropenapi.apigw.ntruss.com/tts-premium/v1/tts"

// clovaLimit is the documented per-call text limit of the premium endpoint.
const clovaLimit = 2000

// emotionVoices lists the speakers that accept the emotion parameter, and
// whether anger is among the emotions they grade. Anger on a voice that
// cannot act it degrades to neutral rather than erroring.
var emotionVoices = map[string]bool{
	"nara":      false,
	"vara":      true,
	"vmikyung":  true,
	"vdain":     true,
	"vyuna":     true,
	"vgoeun":    true,
	"vdaeseong": true,
}

// emotionStrengthVoices are the pro speakers that additionally grade
// emotion intensity.
var emotionStrengthVoices = map[string]struct{}{
	"vara":     {},
	"vmikyung": {},
	"vdain":    {},
	"vyuna":    {},
}

// Clova drives the Naver Clova premium voice endpoint, the primary backend.
// Voice identities here are the native speaker names the session manager
// hands out.
type Clova struct {
	client   *http.Client
	endpoint string
	keyID    string
	key      string
}

func NewClova(keyID, key string) *Clova {
	return &Clova{
		client:   &http.Client{Timeout: 30 * time.Second},
		endpoint: clovaEndpoint,
		keyID:    keyID,
		key:      key,
	}
}

func (c *Clova) Kind() Kind { return KindClova }
func (c *Clova) Limit() int { return clovaLimit }

// Synthesize posts one request, retrying transient failures with
// exponential backoff. Client errors are permanent and fail immediately.
func (c *Clova) Synthesize(ctx context.Context, req Request) ([]byte, error) {
	form := url.Values{
		"speaker": {req.Voice},
		"speed":   {strconv.Itoa(req.Speed)},
		"pitch":   {strconv.Itoa(req.Pitch)},
		"volume":  {"0"},
		"format":  {"mp3"},
		"text":    {req.Text},
	}
	if emotion := req.Emotion; emotion != "" {
		angerOK, supported := emotionVoices[req.Voice]
		if supported {
			if emotion == "angry" && !angerOK {
				emotion = "neutral"
			}
			form.Set("emotion", emotion)
			if _, graded := emotionStrengthVoices[req.Voice]; graded && req.EmotionStrength != 0 {
				form.Set("emotion-strength", strconv.Itoa(min(2, max(0, req.EmotionStrength))))
			}
		}
	}

	call := func() ([]byte, error) {
		httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, strings.NewReader(form.Encode()))
		if err != nil {
			return nil, backoff.Permanent(err)
		}
		httpReq.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		httpReq.Header.Set("X-NCP-APIGW-API-KEY-ID", c.keyID)
		httpReq.Header.Set("X-NCP-APIGW-API-KEY", c.key)

		resp, err := c.client.Do(httpReq)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()

		switch {
		case resp.StatusCode == http.StatusOK:
			return io.ReadAll(resp.Body)
		case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
			return nil, fmt.Errorf("clova status %d", resp.StatusCode)
		default:
			body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
			return nil, backoff.Permanent(fmt.Errorf("clova status %d: %s", resp.StatusCode, body))
		}
	}

	policy := backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), 3), ctx)
	audio, err := backoff.RetryNotifyWithData(call, policy, func(err error, d time.Duration) {
		log.Warn("clova retry", "err", err, "backoff", d)
	})
	if err != nil {
		return nil, fmt.Errorf("clova synthesize: %w", err)
	}
	return audio, nil
}
