package tts

import (
	"bytes"
	"context"
	"encoding/binary"
	"fmt"
	"strings"
	"time"

	"github.com/gorilla/websocket"
	"github.com/segmentio/ksuid"
)

const (
	edgeEndpoint = "wss://speech.platform.bing.com/consumer/speech/synthesize/readaloud/edge/v1?TrustedClientToken=6A5AA1D4EAFF4E9FB37E23D68491D6F4"
	edgeFormat   = "audio-24khz-48kbitrate-mono-mp3"
)

// edgeVoices maps voice categories onto the free backend's small fixed set.
// This is also the table Clova failures fall back through.
var edgeVoices = map[string]string{
	"narrator":        "ko-KR-SunHiNeural",
	"narrator_male":   "ko-KR-InJoonNeural",
	"narrator_female": "ko-KR-SunHiNeural",
	"child_male":      "ko-KR-SunHiNeural",
	"child_female":    "ko-KR-SunHiNeural",
	"young_male":      "ko-KR-HyunsuMultilingualNeural",
	"young_female":    "ko-KR-SunHiNeural",
	"adult_male":      "ko-KR-InJoonNeural",
	"adult_male_deep": "ko-KR-InJoonNeural",
	"adult_female":    "ko-KR-SunHiNeural",
	"elder_male":      "ko-KR-InJoonNeural",
	"elder_female":    "ko-KR-SunHiNeural",
}

// EdgeVoice translates a voice category to this backend's naming scheme.
func EdgeVoice(category string) string {
	if v, ok := edgeVoices[category]; ok {
		return v
	}
	return edgeVoices["narrator"]
}

// Edge is the free fallback backend, speaking the readaloud websocket
// protocol used by the browser feature of the same name.
type Edge struct {
	dialer *websocket.Dialer
}

func NewEdge() *Edge {
	return &Edge{dialer: &websocket.Dialer{HandshakeTimeout: 10 * time.Second}}
}

func (e *Edge) Kind() Kind { return KindEdge }
func (e *Edge) Limit() int { return 3000 }

func (e *Edge) Synthesize(ctx context.Context, req Request) ([]byte, error) {
	conn, _, err := e.dialer.DialContext(ctx, edgeEndpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("edge dial: %w", err)
	}
	defer conn.Close()

	if deadline, ok := ctx.Deadline(); ok {
		conn.SetReadDeadline(deadline)
		conn.SetWriteDeadline(deadline)
	}

	timestamp := time.Now().UTC().Format("Mon Jan 02 2006 15:04:05 GMT+0000 (Coordinated Universal Time)")
	config := "X-Timestamp:" + timestamp + "\r\n" +
		"Content-Type:application/json; charset=utf-8\r\n" +
		"Path:speech.config\r\n\r\n" +
		`{"context":{"synthesis":{"audio":{"metadataoptions":{"sentenceBoundaryEnabled":"false","wordBoundaryEnabled":"false"},"outputFormat":"` + edgeFormat + `"}}}}`
	if err := conn.WriteMessage(websocket.TextMessage, []byte(config)); err != nil {
		return nil, fmt.Errorf("edge config: %w", err)
	}

	ssml := fmt.Sprintf(
		`<speak version='1.0' xmlns='http://www.w3.org/2001/10/synthesis' xml:lang='ko-KR'><voice name='%s'><prosody pitch='+0Hz' rate='%s' volume='+0%%'>%s</prosody></voice></speak>`,
		req.Voice, edgeRate(req.Speed), escapeXML(req.Text))
	message := "X-RequestId:" + ksuid.New().String() + "\r\n" +
		"Content-Type:application/ssml+xml\r\n" +
		"X-Timestamp:" + timestamp + "\r\n" +
		"Path:ssml\r\n\r\n" + ssml
	if err := conn.WriteMessage(websocket.TextMessage, []byte(message)); err != nil {
		return nil, fmt.Errorf("edge ssml: %w", err)
	}

	var audio bytes.Buffer
	for {
		kind, data, err := conn.ReadMessage()
		if err != nil {
			return nil, fmt.Errorf("edge read: %w", err)
		}
		switch kind {
		case websocket.TextMessage:
			if strings.Contains(string(data), "Path:turn.end") {
				if audio.Len() == 0 {
					return nil, fmt.Errorf("edge synthesize: no audio received")
				}
				return audio.Bytes(), nil
			}
		case websocket.BinaryMessage:
			if len(data) < 2 {
				continue
			}
			headerLen := int(binary.BigEndian.Uint16(data[:2]))
			if len(data) < 2+headerLen {
				continue
			}
			header := string(data[2 : 2+headerLen])
			if strings.Contains(header, "Path:audio") {
				audio.Write(data[2+headerLen:])
			}
		}
	}
}

// edgeRate converts a speed step to the protocol's percentage form, where
// positive percentages speak faster.
func edgeRate(step int) string {
	return fmt.Sprintf("%+d%%", -step*10)
}

var xmlEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;", "'", "&apos;", `"`, "&quot;")

func escapeXML(s string) string {
	return xmlEscaper.Replace(s)
}
