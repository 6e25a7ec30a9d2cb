package cli

import (
	"embed"
	"io/fs"
	"path"
	"sort"
	"strings"

	"github.com/charmbracelet/glamour"
)

//go:embed docs/*.md
var docsFS embed.FS

// Topics returns the names of the embedded documentation topics
func Topics() []string {
	entries, err := fs.ReadDir(docsFS, "docs")
	if err != nil {
		return nil
	}
	var names []string
	for _, e := range entries {
		names = append(names, strings.TrimSuffix(e.Name(), path.Ext(e.Name())))
	}
	sort.Strings(names)
	return names
}

// TopicContent returns the raw markdown of a topic
func TopicContent(name string) (string, bool) {
	data, err := docsFS.ReadFile("docs/" + name + ".md")
	if err != nil {
		return "", false
	}
	return string(data), true
}

// GlamourRenderer uses the glamour library for rich markdown rendering
type GlamourRenderer struct {
	Style string // Style name: "dark", "light", "notty", "auto", or path to custom style
	Width int    // Terminal width (0 = glamour default)
}

// NewGlamourRenderer creates a markdown renderer, plain when stdout is not a terminal
func NewGlamourRenderer() *GlamourRenderer {
	style := "auto"
	if !stdoutIsTerminal() {
		style = "notty"
	}
	return &GlamourRenderer{Style: style}
}

// Render converts markdown to terminal output, returning content unchanged
// if rendering fails
func (r *GlamourRenderer) Render(content string) string {
	var options []glamour.TermRendererOption

	if r.Style != "" && r.Style != "auto" {
		options = append(options, glamour.WithStylePath(r.Style))
	} else {
		options = append(options, glamour.WithAutoStyle())
	}

	if r.Width > 0 {
		options = append(options, glamour.WithWordWrap(r.Width))
	}

	renderer, err := glamour.NewTermRenderer(options...)
	if err != nil {
		return content
	}

	rendered, err := renderer.Render(content)
	if err != nil {
		return content
	}
	return rendered
}
