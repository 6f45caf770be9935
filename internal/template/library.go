package template

import (
	"regexp"

	"momo-etl/internal/models"
	"momo-etl/internal/parsererror"
)

// SlotDef is the configuration form of a Slot. Patterns are uncompiled
// regular expressions; each must contain exactly one capture group.
type SlotDef struct {
	Name     string   `yaml:"name"`
	Type     SlotType `yaml:"type"`
	Patterns []string `yaml:"patterns"`
}

// Definition is the configuration form of a Template, loadable from YAML.
// A marker string may contain "|" to express alternation; all marker
// entries must be satisfied for the template to match.
type Definition struct {
	Name      string                      `yaml:"name"`
	Markers   []string                    `yaml:"markers"`
	Excludes  []string                    `yaml:"excludes"`
	Slots     []SlotDef                   `yaml:"slots"`
	Required  []string                    `yaml:"required"`
	Weight    float64                     `yaml:"weight"`
	Category  models.Category             `yaml:"category"`
	Direction models.TransactionDirection `yaml:"direction"`
	TxType    models.TransactionType      `yaml:"type"`
}

// Library is the ordered, immutable set of compiled templates for a run.
type Library struct {
	templates []*Template
}

// Candidate pairs a matched template with its extraction result.
type Candidate struct {
	Template *Template
	Result   *ExtractionResult
}

// NewLibrary compiles and validates an ordered list of definitions.
// A malformed definition (duplicate name, weight outside [0,1], required
// slot with no capture declaration, bad regex, pattern without a capture
// group) fails construction immediately: a broken library would mis-parse
// every message of the run.
func NewLibrary(defs []Definition) (*Library, error) {
	seen := make(map[string]bool, len(defs))
	templates := make([]*Template, 0, len(defs))

	for _, def := range defs {
		if def.Name == "" {
			return nil, &parsererror.TemplateError{Template: "(unnamed)", Reason: "template has no name"}
		}
		if seen[def.Name] {
			return nil, &parsererror.TemplateError{Template: def.Name, Reason: "duplicate template name"}
		}
		seen[def.Name] = true

		if def.Weight < 0 || def.Weight > 1 {
			return nil, &parsererror.TemplateError{Template: def.Name, Reason: "base weight outside [0,1]"}
		}
		if len(def.Markers) == 0 {
			return nil, &parsererror.TemplateError{Template: def.Name, Reason: "template declares no match markers"}
		}
		if !def.Category.Valid() {
			return nil, &parsererror.TemplateError{Template: def.Name, Reason: "unknown category " + string(def.Category)}
		}

		tmpl, err := compile(def)
		if err != nil {
			return nil, err
		}
		templates = append(templates, tmpl)
	}

	return &Library{templates: templates}, nil
}

func compile(def Definition) (*Template, error) {
	tmpl := &Template{
		Name:      def.Name,
		Weight:    def.Weight,
		Category:  def.Category,
		Direction: def.Direction,
		TxType:    def.TxType,
		required:  make(map[string]bool, len(def.Required)),
	}

	for _, marker := range def.Markers {
		group := splitAlternation(marker)
		tmpl.markers = append(tmpl.markers, group)
	}
	for _, excl := range def.Excludes {
		tmpl.excludes = append(tmpl.excludes, lower(excl))
	}

	slotNames := make(map[string]bool, len(def.Slots))
	for _, slotDef := range def.Slots {
		if slotDef.Name == "" {
			return nil, &parsererror.TemplateError{Template: def.Name, Reason: "slot has no name"}
		}
		if slotNames[slotDef.Name] {
			return nil, &parsererror.TemplateError{Template: def.Name, Reason: "duplicate slot " + slotDef.Name}
		}
		slotNames[slotDef.Name] = true

		if len(slotDef.Patterns) == 0 {
			return nil, &parsererror.TemplateError{Template: def.Name, Reason: "slot " + slotDef.Name + " has no patterns"}
		}

		slot := Slot{Name: slotDef.Name, Type: slotDef.Type}
		for _, raw := range slotDef.Patterns {
			re, err := regexp.Compile("(?i)" + raw)
			if err != nil {
				return nil, &parsererror.TemplateError{
					Template: def.Name,
					Reason:   "slot " + slotDef.Name + " pattern does not compile",
					Err:      err,
				}
			}
			if re.NumSubexp() < 1 {
				return nil, &parsererror.TemplateError{
					Template: def.Name,
					Reason:   "slot " + slotDef.Name + " pattern has no capture group",
				}
			}
			slot.patterns = append(slot.patterns, re)
		}
		tmpl.slots = append(tmpl.slots, slot)
	}

	for _, req := range def.Required {
		if !slotNames[req] {
			return nil, &parsererror.TemplateError{
				Template: def.Name,
				Reason:   "required slot " + req + " is not declared as a capture",
			}
		}
		tmpl.required[req] = true
	}

	return tmpl, nil
}

// Candidates returns every template whose predicate succeeds for the text,
// paired with its extraction result, in priority order. The sequence is
// deterministic: templates live in a slice, never a map.
func (l *Library) Candidates(text string) []Candidate {
	var candidates []Candidate
	for _, tmpl := range l.templates {
		if !tmpl.Matches(text) {
			continue
		}
		candidates = append(candidates, Candidate{
			Template: tmpl,
			Result:   tmpl.Extract(text),
		})
	}
	return candidates
}

// Len returns the number of templates in the library.
func (l *Library) Len() int {
	return len(l.templates)
}

// Names returns template names in priority order.
func (l *Library) Names() []string {
	names := make([]string, len(l.templates))
	for i, tmpl := range l.templates {
		names[i] = tmpl.Name
	}
	return names
}

func splitAlternation(marker string) []string {
	var group []string
	for _, alt := range splitPipe(marker) {
		group = append(group, lower(alt))
	}
	return group
}
