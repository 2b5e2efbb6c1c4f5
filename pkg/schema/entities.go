package schema

import (
	"encoding/json"
	"strings"
)

// Script is a drafted trailer narration: one entry per selected scene, in
// scene order.
type Script struct {
	Title  string  `json:"title" jsonschema_description:"Short trailer title derived from the story"`
	Scenes []Scene `json:"scenes" jsonschema_description:"One narration entry per requested scene, in the same order as the scenes were given"`
}

// Scene is one drafted line of the trailer.
type Scene struct {
	Text    string `json:"text" jsonschema_description:"Narration or quoted dialogue to speak over this scene; empty for a silent scene"`
	Speaker string `json:"speaker" jsonschema_description:"Voice label: a category such as narrator, child_male or elder_female, optionally with the character name in parentheses, e.g. child_male (토끼); use none for silent scenes"`
	Style   string `json:"style,omitempty" jsonschema_description:"Optional delivery hint such as whispering or excited"`
}

type sceneAlias Scene

// UnmarshalJSON tolerates malformed model output: a bare string becomes
// narration when non-empty, anything that is neither string nor object
// becomes a silent scene.
func (s *Scene) UnmarshalJSON(data []byte) error {
	var text string
	if err := json.Unmarshal(data, &text); err == nil {
		if strings.TrimSpace(text) == "" {
			*s = Scene{Speaker: "none"}
		} else {
			*s = Scene{Text: text, Speaker: "narrator"}
		}
		return nil
	}
	var a sceneAlias
	if err := json.Unmarshal(data, &a); err != nil {
		*s = Scene{Speaker: "none"}
		return nil
	}
	*s = Scene(a)
	return nil
}
