package manuscript

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

// Format is a manuscript file encoding
type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

var ErrUnsupportedFormat = errors.New("unsupported manuscript format")

// FormatFromPath picks a format from the file extension
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".json":
		return FormatJSON, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(path))
}

// Load reads, id-fills and validates a manuscript file
func Load(path string) (*Manuscript, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading manuscript: %w", err)
	}
	return Parse(data, format)
}

// Parse decodes data, assigns ids to nodes without one and validates the tree
func Parse(data []byte, format Format) (*Manuscript, error) {
	var m Manuscript
	switch format {
	case FormatYAML:
		if err := yaml.Unmarshal(data, &m); err != nil {
			return nil, fmt.Errorf("parsing manuscript yaml: %w", err)
		}
	case FormatJSON:
		if err := json.Unmarshal(data, &m); err != nil {
			return nil, fmt.Errorf("parsing manuscript json: %w", err)
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}

	m.EnsureIDs()
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return &m, nil
}

// idNamespace seeds the name-based uuids EnsureIDs derives
var idNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://github.com/dotcommander/plotarc/manuscript"))

// EnsureIDs gives every act, chapter and scene without an id a uuid derived
// from the manuscript title and the node's indices, so the same document
// always gets the same ids.
func (m *Manuscript) EnsureIDs() {
	derive := func(path string) string {
		return uuid.NewSHA1(idNamespace, []byte(m.Title+"/"+path)).String()
	}
	for ai := range m.Acts {
		act := &m.Acts[ai]
		if act.ID == "" {
			act.ID = derive(fmt.Sprintf("act/%d", ai))
		}
		for ci := range act.Chapters {
			ch := &act.Chapters[ci]
			if ch.ID == "" {
				ch.ID = derive(fmt.Sprintf("act/%d/chapter/%d", ai, ci))
			}
			for si := range ch.Scenes {
				if ch.Scenes[si].ID == "" {
					ch.Scenes[si].ID = derive(fmt.Sprintf("act/%d/chapter/%d/scene/%d", ai, ci, si))
				}
			}
		}
	}
}

// ValidationError lists every problem found in a manuscript
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	return "invalid manuscript: " + strings.Join(e.Problems, "; ")
}

var validate = validator.New()

// Validate checks required fields and that scene ids are unique
func (m *Manuscript) Validate() error {
	var problems []string

	if err := validate.Struct(m); err != nil {
		var fieldErrs validator.ValidationErrors
		if !errors.As(err, &fieldErrs) {
			return fmt.Errorf("validating manuscript: %w", err)
		}
		for _, fe := range fieldErrs {
			problems = append(problems, fmt.Sprintf("%s is %s", fe.Namespace(), fe.Tag()))
		}
	}

	seen := make(map[string]struct{})
	for _, act := range m.Acts {
		for _, ch := range act.Chapters {
			for _, sc := range ch.Scenes {
				if sc.ID == "" {
					continue
				}
				if _, dup := seen[sc.ID]; dup {
					problems = append(problems, fmt.Sprintf("scene id %q is not unique", sc.ID))
				}
				seen[sc.ID] = struct{}{}
			}
		}
	}

	if len(problems) > 0 {
		return &ValidationError{Problems: problems}
	}
	return nil
}
