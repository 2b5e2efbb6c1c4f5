package server

import (
	"net/http"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/labstack/echo/v4"

	"storyreel/pkg/script"
	"storyreel/pkg/speaker"
	"storyreel/pkg/utils"
)

type scriptReq struct {
	Pages []script.Page `json:"pages"`
	Count int           `json:"count"`
}

type scriptScene struct {
	Text      string `json:"text"`
	Speaker   string `json:"speaker"`
	Category  string `json:"category"`
	Character string `json:"character,omitempty"`
	Style     string `json:"style,omitempty"`
}

type scriptResp struct {
	Title  string            `json:"title"`
	Scenes []scriptScene     `json:"scenes"`
	Cast   []string          `json:"cast,omitempty"`
	Voices map[string]string `json:"voices,omitempty"`
}

// POST /api/script
func (s *Server) handlePostScript(c echo.Context) error {
	var req scriptReq
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid json")
	}
	if len(req.Pages) == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "no pages given")
	}
	if req.Count <= 0 {
		req.Count = len(req.Pages)
	}
	for i := range req.Pages {
		req.Pages[i].Text = strings.TrimSpace(req.Pages[i].Text)
	}

	drafted, err := s.Drafter.Draft(c.Request().Context(), req.Pages, req.Count)
	if err != nil {
		return c.JSON(http.StatusBadGateway, utils.ErrJSON(err.Error()))
	}
	log.Debug("script drafted", "script", utils.PrettyJSON(drafted))

	resp := scriptResp{Title: drafted.Title, Scenes: make([]scriptScene, len(drafted.Scenes))}
	for i, scene := range drafted.Scenes {
		category, character := script.VoiceKey(scene.Speaker)
		resp.Scenes[i] = scriptScene{
			Text:      scene.Text,
			Speaker:   scene.Speaker,
			Category:  category,
			Character: character,
			Style:     scene.Style,
		}
	}

	// settle voices for the whole cast up front so synthesis reads a stable
	// table. The most frequent mined character is the protagonist and picks
	// first.
	resp.Cast = castFromDraft(req.Pages, resp.Scenes)
	var protagonist string
	if mined := speaker.ExtractCharacters(pageTexts(req.Pages)); len(mined) > 0 {
		protagonist = mined[0]
	}
	resp.Voices = s.TTS.Session().Preassign(resp.Cast, protagonist)

	return c.JSON(http.StatusOK, resp)
}

func pageTexts(pages []script.Page) []string {
	texts := make([]string, len(pages))
	for i, p := range pages {
		texts[i] = p.Text
	}
	return texts
}

// castFromDraft unions the drafted scenes' scripted characters with the
// characters mined from the page texts, keeping first-seen order.
func castFromDraft(pages []script.Page, scenes []scriptScene) []string {
	seen := make(map[string]struct{})
	var cast []string
	add := func(name string) {
		key := speaker.Normalize(name)
		if key == "" {
			return
		}
		if _, dup := seen[key]; dup {
			return
		}
		seen[key] = struct{}{}
		cast = append(cast, key)
	}
	for _, scene := range scenes {
		add(scene.Character)
	}
	for _, name := range speaker.ExtractCharacters(pageTexts(pages)) {
		add(name)
	}
	return cast
}
