package generate

import (
	"fmt"
	"sort"
	"strings"

	"github.com/roboco-io/deckstream/internal/markup"
)

const systemPromptTemplate = `You are a presentation designer. Write the deck as slide markup and nothing else.

Rules:
- Wrap the deck in <PRESENTATION> and every slide in <SLIDE>.
- Use only these tags: %s.
- Start every slide with exactly one H1 or H2 heading.
- Layout containers (%s) hold DIV items; each DIV holds H3, P, ICON or IMG.
- ICON and IMG are self-closing and take a query attribute: <ICON query="rocket" />.
- CHART takes a charttype attribute and holds DATA rows with LABEL and VALUE.
- SLIDE accepts layout="left|right|vertical|background" and align="start|center|end".
- At most one IMG directly inside a slide; it becomes the slide's main image.
- Write all text in %s.
- Do not use Markdown and do not wrap the output in code fences.`

var languageNames = map[string]string{
	"en": "English",
	"ko": "Korean",
	"ja": "Japanese",
	"de": "German",
	"fr": "French",
	"es": "Spanish",
}

// Languages lists the language codes the prompt names explicitly.
func Languages() []string {
	out := make([]string, 0, len(languageNames))
	for code := range languageNames {
		out = append(out, code)
	}
	sort.Strings(out)
	return out
}

// SystemPrompt describes the markup vocabulary to the model.
func SystemPrompt(language string) string {
	lang, ok := languageNames[strings.ToLower(language)]
	if !ok {
		lang = language
	}
	if lang == "" {
		lang = "English"
	}

	var layouts []string
	for _, name := range markup.Vocabulary() {
		if markup.IsLayoutTag(name) {
			layouts = append(layouts, name)
		}
	}
	return fmt.Sprintf(systemPromptTemplate, strings.Join(markup.Vocabulary(), ", "), strings.Join(layouts, ", "), lang)
}

// UserPrompt asks for a deck about topic.
func UserPrompt(topic string, slides int) string {
	if slides <= 0 {
		return fmt.Sprintf("Create a presentation about: %s", strings.TrimSpace(topic))
	}
	return fmt.Sprintf("Create a %d-slide presentation about: %s", slides, strings.TrimSpace(topic))
}
