package prompts

import (
	"bytes"
	"fmt"
	"os"
	"text/template"

	"gopkg.in/yaml.v3"
)

const defaultPromptsPath = "prompts.yaml"

const defaultAdvice = `Analyze this gameplay video and provide detailed feedback in JSON format with keys 'good', 'bad', and 'improve', each containing a list of up to 5 strings. Focus on specific gameplay elements like aim, building, positioning, decision-making, and resource management. For 'bad' and 'improve', include specific timestamps (e.g., '0:45') where the issue or improvement opportunity occurred. Ensure feedback is precise and tied to specific moments in the video. Example:
{
  "good": ["Accurate aim on headshots at 0:30", "Effective building during combat at 1:15"],
  "bad": ["Missed shots during exchange at 0:45", "Poor positioning in storm at 1:30"],
  "improve": ["Practice quicker building at 1:15 to minimize exposure", "Improve situational awareness at 0:45 to avoid ambushes"]
}
Ensure the response is a valid JSON object.`

const defaultThumbnail = `Generate an image for a gameplay video thumbnail with the summary: '{{.Summary}}'. Include vibrant colors (#178FDB to #6AE2FD gradient background), the featured character skin, and elements like weapons, builds, or loot chests. Make it dynamic, action-packed, with a bold game aesthetic using 'Luckiest Guy' font style for any text. Ensure the output is an image ({{.Size}}x{{.Size}} pixels).`

const defaultChat = `You are an educational gaming coach and entertainer known for breaking down complex gameplay into easy lessons. You are authentic, relatable, and self-aware. Respond to the following question about this gameplay clip with the summary: '{{.Summary}}'. Use casual language like 'bro' and 'nasty clip' for good plays, keep responses concise, strategic, and fun, like you're coaching a fan, and tie advice to gameplay moments with timestamps where possible. Previous chat history: {{.History}}

Question: {{.Message}}`

type Prompts struct {
	Advice    string `yaml:"advice"`
	Thumbnail string `yaml:"thumbnail"`
	Chat      string `yaml:"chat"`
}

type ThumbnailParams struct {
	Summary string
	Size    int
}

type ChatParams struct {
	Summary string
	History string
	Message string
}

// Load reads prompts.yaml when present; missing fields keep the built-in
// prompts so the file only needs to override what it changes.
func Load() (*Prompts, error) {
	return LoadFrom(defaultPromptsPath)
}

func LoadFrom(path string) (*Prompts, error) {
	p := &Prompts{}

	data, err := os.ReadFile(path)
	if err == nil {
		if err := yaml.Unmarshal(data, p); err != nil {
			return nil, fmt.Errorf("failed to parse prompts file: %w", err)
		}
	}

	applyDefaults(p)
	return p, nil
}

func applyDefaults(p *Prompts) {
	if p.Advice == "" {
		p.Advice = defaultAdvice
	}
	if p.Thumbnail == "" {
		p.Thumbnail = defaultThumbnail
	}
	if p.Chat == "" {
		p.Chat = defaultChat
	}
}

// RenderAdvice returns the structured-feedback prompt. It takes no
// parameters; the template exists so deployments can swap the game focus.
func (p *Prompts) RenderAdvice() (string, error) {
	return render(p.Advice, nil)
}

func (p *Prompts) RenderThumbnail(params ThumbnailParams) (string, error) {
	return render(p.Thumbnail, params)
}

func (p *Prompts) RenderChat(params ChatParams) (string, error) {
	return render(p.Chat, params)
}

func render(tmpl string, data any) (string, error) {
	t, err := template.New("prompt").Parse(tmpl)
	if err != nil {
		return "", fmt.Errorf("failed to parse template: %w", err)
	}

	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute template: %w", err)
	}

	return buf.String(), nil
}
