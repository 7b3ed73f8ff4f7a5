package prompts

import (
	"embed"
	"fmt"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"

	"mockinterview/api/internal/utils"
)

// embeds all .yaml files in the templates folder into Go program at compile time
//
//go:embed templates/*.yaml
var templateFS embed.FS

// character budgets for the optional context blocks
const (
	ResumeContextLimit     = 2000
	JobContextLimit        = 1500
	ResumeExtractionLimit  = 4000
	JobAnalysisLimit       = 3000
	defaultCandidateName   = "there"
	catalogTopics          = "topics"
	catalogCompanies       = "companies"
	catalogDifficulties    = "difficulties"
	instructionsFile       = "instructions"
	instructionScoring     = "scoring"
	instructionResume      = "resume_context"
	instructionJob         = "job_context"
	instructionRoleOpening = "role_opening"
)

// instruction templates rendered through BuildPrompt
const (
	InstructionSummary          = "summary"
	InstructionResumeExtraction = "resume_extraction"
	InstructionJobAnalysis      = "job_analysis"
)

var (
	namePattern = regexp.MustCompile(`NAME:[ \t]*([^\n]+)`)
	rolePattern = regexp.MustCompile(`CURRENT_ROLE:[ \t]*([^\n]+)`)
)

// one selectable catalog entry (topic, company style or difficulty)
type Entry struct {
	ID          string `yaml:"id" json:"id"`
	Name        string `yaml:"name" json:"name"`
	Description string `yaml:"description" json:"description,omitempty"`
	Prompt      string `yaml:"prompt" json:"-"`
	Opening     string `yaml:"opening" json:"-"`
}

type catalog struct {
	Default string  `yaml:"default"`
	Entries []Entry `yaml:"entries"`

	byID map[string]Entry
}

func (c *catalog) lookup(id string) Entry {
	if e, ok := c.byID[utils.NormalizeKey(id)]; ok {
		return e
	}
	return c.byID[c.Default]
}

type PromptManager struct {
	catalogs     map[string]*catalog
	instructions map[string]string // name -> template text
}

// ComposeInput is the interview configuration the system prompt is built from.
type ComposeInput struct {
	Topic          string
	Company        string
	Difficulty     string
	Resume         string
	JobDescription string
}

// Composition is the resolved configuration plus the generated texts.
type Composition struct {
	Topic          string
	TopicName      string
	Company        string
	CompanyName    string
	Difficulty     string
	SystemPrompt   string
	OpeningMessage string
}

// creates a new prompt manager and loads templates
func NewPromptManager() (*PromptManager, error) {
	pm := &PromptManager{
		catalogs:     make(map[string]*catalog),
		instructions: make(map[string]string),
	}

	if err := pm.loadPrompts(); err != nil {
		return nil, fmt.Errorf("failed to load prompt templates: %w", err)
	}

	return pm, nil
}

// Compose builds the system prompt and the opening message. Unknown keys
// fall back to each catalog's default entry.
func (pm *PromptManager) Compose(in ComposeInput) Composition {
	topic := pm.catalogs[catalogTopics].lookup(in.Topic)
	company := pm.catalogs[catalogCompanies].lookup(in.Company)
	difficulty := pm.catalogs[catalogDifficulties].lookup(in.Difficulty)

	parts := []string{
		strings.TrimSpace(topic.Prompt),
		strings.TrimSpace(company.Prompt),
		strings.TrimSpace(difficulty.Prompt),
	}
	if in.Resume != "" {
		parts = append(parts, pm.render(instructionResume, map[string]string{
			"Resume": Truncate(in.Resume, ResumeContextLimit),
		}))
	}
	if in.JobDescription != "" {
		parts = append(parts, pm.render(instructionJob, map[string]string{
			"JobDescription": Truncate(in.JobDescription, JobContextLimit),
		}))
	}
	parts = append(parts, pm.render(instructionScoring, nil))

	return Composition{
		Topic:          topic.ID,
		TopicName:      topic.Name,
		Company:        company.ID,
		CompanyName:    company.Name,
		Difficulty:     difficulty.ID,
		SystemPrompt:   strings.Join(parts, "\n\n"),
		OpeningMessage: pm.opening(topic, company, in.Resume),
	}
}

func (pm *PromptManager) opening(topic, company Entry, resume string) string {
	name := extractField(namePattern, resume)
	if name == "" {
		name = defaultCandidateName
	}
	data := map[string]string{
		"Name":    name,
		"Company": company.Name,
		"Topic":   topic.Name,
	}

	if role := extractField(rolePattern, resume); role != "" {
		data["Role"] = role
		return pm.render(instructionRoleOpening, data)
	}
	return replaceAll(topic.Opening, data)
}

// BuildPrompt renders a named instruction template (summary,
// resume_extraction, job_analysis, ...).
func (pm *PromptManager) BuildPrompt(name string, data map[string]string) (string, error) {
	if _, ok := pm.instructions[name]; !ok {
		return "", fmt.Errorf("template not found: %s", name)
	}
	return pm.render(name, data), nil
}

func (pm *PromptManager) Topics() []Entry       { return pm.entries(catalogTopics) }
func (pm *PromptManager) Companies() []Entry    { return pm.entries(catalogCompanies) }
func (pm *PromptManager) Difficulties() []Entry { return pm.entries(catalogDifficulties) }

// TemplateCount reports how many catalog entries and instructions are loaded.
func (pm *PromptManager) TemplateCount() int {
	n := len(pm.instructions)
	for _, c := range pm.catalogs {
		n += len(c.Entries)
	}
	return n
}

func (pm *PromptManager) entries(name string) []Entry {
	c, ok := pm.catalogs[name]
	if !ok {
		return nil
	}
	out := make([]Entry, len(c.Entries))
	copy(out, c.Entries)
	return out
}

func (pm *PromptManager) render(name string, data map[string]string) string {
	return strings.TrimSpace(replaceAll(pm.instructions[name], data))
}

// loadPrompts loads all YAML prompt files from the embedded filesystem
func (pm *PromptManager) loadPrompts() error {
	entries, err := templateFS.ReadDir("templates")
	if err != nil {
		return fmt.Errorf("failed to read templates directory: %w", err)
	}

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".yaml") {
			continue
		}

		data, err := templateFS.ReadFile("templates/" + entry.Name())
		if err != nil {
			return fmt.Errorf("failed to read template file %s: %w", entry.Name(), err)
		}

		name := strings.TrimSuffix(entry.Name(), ".yaml")
		if name == instructionsFile {
			if err := yaml.Unmarshal(data, &pm.instructions); err != nil {
				return fmt.Errorf("failed to parse template file %s: %w", entry.Name(), err)
			}
			continue
		}

		var c catalog
		if err := yaml.Unmarshal(data, &c); err != nil {
			return fmt.Errorf("failed to parse template file %s: %w", entry.Name(), err)
		}
		c.byID = make(map[string]Entry, len(c.Entries))
		for _, e := range c.Entries {
			c.byID[e.ID] = e
		}
		if _, ok := c.byID[c.Default]; !ok {
			return fmt.Errorf("template file %s: default entry %q not defined", entry.Name(), c.Default)
		}
		pm.catalogs[name] = &c
	}

	for _, required := range []string{catalogTopics, catalogCompanies, catalogDifficulties} {
		if _, ok := pm.catalogs[required]; !ok {
			return fmt.Errorf("missing catalog: %s", required)
		}
	}
	for _, required := range []string{instructionScoring, instructionResume, instructionJob, instructionRoleOpening, InstructionSummary, InstructionResumeExtraction, InstructionJobAnalysis} {
		if _, ok := pm.instructions[required]; !ok {
			return fmt.Errorf("missing instruction: %s", required)
		}
	}
	return nil
}

// Substitution is a single pass over the template, so placeholders that show
// up inside substituted user text are left as written.
func replaceAll(tmpl string, data map[string]string) string {
	if len(data) == 0 {
		return tmpl
	}
	pairs := make([]string, 0, 2*len(data))
	for key, value := range data {
		pairs = append(pairs, "{{."+key+"}}", value)
	}
	return strings.NewReplacer(pairs...).Replace(tmpl)
}

func extractField(pattern *regexp.Regexp, text string) string {
	if text == "" {
		return ""
	}
	match := pattern.FindStringSubmatch(text)
	if match == nil {
		return ""
	}
	return strings.TrimSpace(match[1])
}

// Truncate cuts s to at most limit characters.
func Truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}
