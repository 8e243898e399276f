package agent

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

// extractors maps an extraction rule name to the pattern used to pull
// the answer quantity out of a document.
var extractors = map[string]*regexp.Regexp{
	"hours":         regexp.MustCompile(`(?i)(\d+)\s*hours?`),
	"days":          regexp.MustCompile(`(?i)(\d+)\s*days?`),
	"business_days": regexp.MustCompile(`(?i)(\d+)\s*business\s+days?`),
}

// Topic binds a trigger keyword set to an extraction rule and answer
// templates. A topic matches when every keyword appears in the
// lower-cased question. Templates may reference {value} (the extracted
// quantity) and {version} (the document's version label); an empty
// template disables that answer path and the composer falls back to its
// generic message.
type Topic struct {
	Name               string   `yaml:"name"`
	Label              string   `yaml:"label"`
	Keywords           []string `yaml:"keywords"`
	Extract            string   `yaml:"extract"`
	CurrentTemplate    string   `yaml:"current_template"`
	SupersededTemplate string   `yaml:"superseded_template"`
	PlainTemplate      string   `yaml:"plain_template"`
}

// matches reports whether every trigger keyword appears in the
// lower-cased question.
func (t Topic) matches(question string) bool {
	q := strings.ToLower(question)
	for _, kw := range t.Keywords {
		if !strings.Contains(q, kw) {
			return false
		}
	}
	return len(t.Keywords) > 0
}

// extractFirst pulls the first quantity matching the topic's extraction
// rule from content.
func (t Topic) extractFirst(content string) (string, bool) {
	re, ok := extractors[t.Extract]
	if !ok {
		return "", false
	}
	m := re.FindStringSubmatch(content)
	if m == nil {
		return "", false
	}
	return m[1], true
}

// Registry is the ordered topic table. Selection is first-match in
// declaration order, so more specific topics belong earlier.
type Registry struct {
	topics []Topic
}

// NewRegistry builds a registry over the given topics.
func NewRegistry(topics []Topic) *Registry {
	return &Registry{topics: topics}
}

// DefaultRegistry returns the built-in topic table: incident reporting
// deadlines and onboarding deadlines.
func DefaultRegistry() *Registry {
	return NewRegistry([]Topic{
		{
			Name:               "incident_reporting",
			Label:              "security incidents",
			Keywords:           []string{"report", "incident"},
			Extract:            "hours",
			CurrentTemplate:    "Current policy requires reporting within {value} hours (based on the {version} procedure).",
			SupersededTemplate: "The {version} version required {value} hours but is outdated.",
		},
		{
			Name:          "onboarding",
			Label:         "onboarding",
			Keywords:      []string{"onboarding"},
			Extract:       "business_days",
			PlainTemplate: "New employees must complete onboarding within {value} business days.",
		},
	})
}

// topicsFile is the on-disk registry format.
type topicsFile struct {
	Topics []Topic `yaml:"topics"`
}

// LoadRegistry reads a topic table from a YAML file, replacing the
// built-in defaults. The file lets operators add answer topics without a
// rebuild.
func LoadRegistry(path string) (*Registry, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "agent: read topics file %s", path)
	}

	var f topicsFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, eris.Wrapf(err, "agent: parse topics file %s", path)
	}

	for i, t := range f.Topics {
		if t.Name == "" {
			return nil, eris.Errorf("agent: topic %d has no name", i)
		}
		if len(t.Keywords) == 0 {
			return nil, eris.Errorf("agent: topic %s has no keywords", t.Name)
		}
		if _, ok := extractors[t.Extract]; !ok {
			return nil, eris.Errorf("agent: topic %s has unknown extract rule %q", t.Name, t.Extract)
		}
	}

	return NewRegistry(f.Topics), nil
}

// Match returns the first topic whose keywords all appear in the
// question.
func (r *Registry) Match(question string) (Topic, bool) {
	for _, t := range r.topics {
		if t.matches(question) {
			return t, true
		}
	}
	return Topic{}, false
}

// Labels lists the display labels of all topics, used by the
// clarification message to enumerate what the agent can answer.
func (r *Registry) Labels() []string {
	labels := make([]string, 0, len(r.topics))
	for _, t := range r.topics {
		label := t.Label
		if label == "" {
			label = t.Name
		}
		labels = append(labels, label)
	}
	return labels
}

// clarification is the fixed low-confidence answer. It enumerates the
// registry's topics so the caller knows what to ask about.
func (r *Registry) clarification() string {
	return fmt.Sprintf(
		"I found multiple policies in the knowledge base, but your question is too vague. "+
			"Could you please be more specific? Available topics: %s.",
		strings.Join(r.Labels(), ", "),
	)
}
