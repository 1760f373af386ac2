package docgen

import (
	"bytes"
	"strings"
	"text/template"
)

const fence = "```"

var documentationTemplate = template.Must(template.New("documentation").Parse(
	`Generate Markdown documentation for the endpoint handled by ` + "`{{.Symbol}}`" + `.
Use exactly this layout and nothing else:

## {{.Symbol}}

` + "`{{if .Method}}{{.Method}} {{end}}{{.URL}}`" + `

<one sentence describing what the endpoint does>

### Request body
- ` + "`<field>`" + ` (<type>): <description>

### Returns
<what the endpoint responds with>

### Example request
` + fence + `json
<example request body>
` + fence + `

### Example response
` + fence + `json
<example response body>
` + fence + `

Handler source:

{{.Body}}
`))

var conversionTemplate = template.Must(template.New("conversion").Parse(
	`Convert the following code to {{.Language}}.
Respond with the converted code only.

{{.Source}}
`))

// conversionSystemPrompt is sent as the system instruction for conversions.
const conversionSystemPrompt = "You are a helpful assistant."

// DocumentationPrompt renders the documentation prompt for req.
func DocumentationPrompt(req DocRequest) (string, error) {
	var buf bytes.Buffer
	if err := documentationTemplate.Execute(&buf, req); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// ConversionPrompt renders the translation prompt for source.
func ConversionPrompt(source, targetLanguage string) (string, error) {
	var buf bytes.Buffer
	data := struct{ Language, Source string }{targetLanguage, source}
	if err := conversionTemplate.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// StripCodeFence removes a single Markdown fence wrapping the whole text.
func StripCodeFence(text string) string {
	trimmed := strings.TrimSpace(text)
	if !strings.HasPrefix(trimmed, fence) || !strings.HasSuffix(trimmed, fence) || len(trimmed) < 2*len(fence) {
		return trimmed
	}
	inner := strings.TrimSuffix(trimmed[len(fence):], fence)
	// Drop the info string ("go", "python") on the opening line.
	if idx := strings.IndexByte(inner, '\n'); idx >= 0 {
		inner = inner[idx+1:]
	} else {
		return trimmed
	}
	return strings.TrimSpace(inner)
}
