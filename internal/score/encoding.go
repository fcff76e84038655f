package score

import (
	"encoding/json"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

// wordWire is the persisted shape of a Word. The timing pair is flattened into
// two scalar fields so older documents without timings stay readable.
type wordWire struct {
	ID          uuid.UUID      `yaml:"id" json:"id"`
	Text        string         `yaml:"text" json:"text"`
	Annotations []Annotation   `yaml:"annotations" json:"annotations"`
	Highlight   HighlightColor `yaml:"highlight,omitempty" json:"highlight,omitempty"`
	AudioStart  *float64       `yaml:"audioStart,omitempty" json:"audioStart,omitempty"`
	AudioEnd    *float64       `yaml:"audioEnd,omitempty" json:"audioEnd,omitempty"`
}

func (w Word) wire() wordWire {
	out := wordWire{
		ID:          w.ID,
		Text:        w.Text,
		Annotations: w.Annotations,
		Highlight:   w.Highlight,
	}
	if out.Annotations == nil {
		out.Annotations = []Annotation{}
	}
	if w.Timing != nil {
		start, end := w.Timing.Start, w.Timing.End
		out.AudioStart = &start
		out.AudioEnd = &end
	}
	return out
}

func (w *Word) fromWire(in wordWire) {
	w.ID = in.ID
	w.Text = in.Text
	w.Annotations = in.Annotations
	if w.Annotations == nil {
		w.Annotations = []Annotation{}
	}
	w.Highlight = in.Highlight
	w.Timing = nil
	// A lone start or end is dropped: the pair is only meaningful together.
	if in.AudioStart != nil && in.AudioEnd != nil {
		w.Timing = &AudioSpan{Start: *in.AudioStart, End: *in.AudioEnd}
	}
}

// MarshalJSON implements json.Marshaler.
func (w Word) MarshalJSON() ([]byte, error) {
	return json.Marshal(w.wire())
}

// UnmarshalJSON implements json.Unmarshaler.
func (w *Word) UnmarshalJSON(data []byte) error {
	var in wordWire
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	w.fromWire(in)
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (w Word) MarshalYAML() (interface{}, error) {
	return w.wire(), nil
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (w *Word) UnmarshalYAML(node *yaml.Node) error {
	var in wordWire
	if err := node.Decode(&in); err != nil {
		return err
	}
	w.fromWire(in)
	return nil
}

// EncodeJSON renders a script as indented JSON.
func EncodeJSON(s *Script) ([]byte, error) {
	return json.MarshalIndent(s, "", "  ")
}

// DecodeJSON parses a script from JSON.
func DecodeJSON(data []byte) (*Script, error) {
	var s Script
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, err
	}
	normalize(&s)
	return &s, nil
}

// EncodeYAML renders a script as YAML.
func EncodeYAML(s *Script) ([]byte, error) {
	return yaml.Marshal(s)
}

// DecodeYAML parses a script from YAML.
func DecodeYAML(data []byte) (*Script, error) {
	var s Script
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, err
	}
	normalize(&s)
	return &s, nil
}

// normalize replaces nil containers so decoded scripts compare equal to
// freshly built ones.
func normalize(s *Script) {
	if s.Paragraphs == nil {
		s.Paragraphs = []Paragraph{}
	}
}
