// Package ui renders command results as styled terminal output, plain
// text or JSON.
package ui

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/arthur-debert/testbed/pkg/errors"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Field is one labelled value of a result
type Field struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// Renderer writes results and errors in one output format
type Renderer interface {
	// RenderResult renders a titled list of fields
	RenderResult(title string, fields []Field) error

	// RenderError renders an error, including its code when it has one
	RenderError(err error) error

	// RenderMessage renders a simple message
	RenderMessage(msg string) error
}

// NewRenderer creates a renderer for format, detecting the format for
// FormatAuto when output is a file.
func NewRenderer(format Format, output io.Writer) (Renderer, error) {
	switch format {
	case FormatAuto:
		if file, ok := output.(*os.File); ok {
			return NewRenderer(DetectFormat(file), output)
		}
		return NewRenderer(FormatText, output)
	case FormatTerminal:
		r := lipgloss.NewRenderer(output)
		if file, ok := output.(*os.File); ok {
			r.SetColorProfile(termenv.NewOutput(file).EnvColorProfile())
		}
		return &terminalRenderer{w: output, r: r}, nil
	case FormatText:
		return &textRenderer{w: output}, nil
	case FormatJSON:
		return &jsonRenderer{enc: newEncoder(output)}, nil
	default:
		return nil, errors.Newf(errors.ErrInvalidOption, "unknown format: %v", format)
	}
}

type terminalRenderer struct {
	w io.Writer
	r *lipgloss.Renderer
}

func (t *terminalRenderer) RenderResult(title string, fields []Field) error {
	var b strings.Builder
	b.WriteString(TitleStyle.Renderer(t.r).Render(title))
	b.WriteString("\n")
	for _, f := range fields {
		b.WriteString("  ")
		b.WriteString(LabelStyle.Renderer(t.r).Render(f.Label))
		b.WriteString(ValueStyle.Renderer(t.r).Render(f.Value))
		b.WriteString("\n")
	}
	_, err := io.WriteString(t.w, b.String())
	return err
}

func (t *terminalRenderer) RenderError(err error) error {
	msg := ErrorStyle.Renderer(t.r).Render("Error:") + " " + err.Error()
	if code := errors.GetErrorCode(err); code != errors.ErrUnknown {
		msg += " " + CodeStyle.Renderer(t.r).Render("("+string(code)+")")
	}
	_, werr := fmt.Fprintln(t.w, msg)
	return werr
}

func (t *terminalRenderer) RenderMessage(msg string) error {
	_, err := fmt.Fprintln(t.w, SuccessStyle.Renderer(t.r).Render(msg))
	return err
}

type textRenderer struct {
	w io.Writer
}

func (t *textRenderer) RenderResult(title string, fields []Field) error {
	if _, err := fmt.Fprintln(t.w, title); err != nil {
		return err
	}
	for _, f := range fields {
		if _, err := fmt.Fprintf(t.w, "  %-10s%s\n", f.Label, f.Value); err != nil {
			return err
		}
	}
	return nil
}

func (t *textRenderer) RenderError(err error) error {
	_, werr := fmt.Fprintf(t.w, "Error: %v\n", err)
	return werr
}

func (t *textRenderer) RenderMessage(msg string) error {
	_, err := fmt.Fprintln(t.w, msg)
	return err
}

type jsonRenderer struct {
	enc *json.Encoder
}

func newEncoder(w io.Writer) *json.Encoder {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc
}

func (j *jsonRenderer) RenderResult(title string, fields []Field) error {
	values := make(map[string]string, len(fields))
	for _, f := range fields {
		values[strings.ToLower(f.Label)] = f.Value
	}
	return j.enc.Encode(map[string]interface{}{
		"title":  title,
		"fields": values,
	})
}

func (j *jsonRenderer) RenderError(err error) error {
	out := map[string]interface{}{
		"error": err.Error(),
		"code":  string(errors.GetErrorCode(err)),
	}
	if details := errors.GetErrorDetails(err); len(details) > 0 {
		out["details"] = details
	}
	return j.enc.Encode(out)
}

func (j *jsonRenderer) RenderMessage(msg string) error {
	return j.enc.Encode(map[string]string{"message": msg})
}
