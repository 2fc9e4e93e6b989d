package transcript

import (
	"fmt"
	"os"
	"strings"

	"github.com/samber/lo"
	"gopkg.in/yaml.v3"
)

type speakerFile struct {
	Speakers []Speaker `yaml:"speakers"`
}

// LoadSpeakerFile reads an ordered speaker dictionary from a YAML file:
//
//	speakers:
//	  - id: "Speaker 1"
//	    name: "Peter"
func LoadSpeakerFile(path string) ([]Speaker, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read speaker map: %w", err)
	}
	var f speakerFile
	if err := yaml.Unmarshal(b, &f); err != nil {
		return nil, fmt.Errorf("failed to parse speaker map %s: %w", path, err)
	}
	return f.Speakers, nil
}

// MergeSpeakers overlays request-supplied speakers on top of defaults.
// Overrides win on a case-insensitive ID match; relative order within each
// list is preserved.
func MergeSpeakers(defaults, overrides []Speaker) []Speaker {
	out := append([]Speaker{}, overrides...)
	for _, d := range defaults {
		if _, found := lo.Find(out, func(s Speaker) bool {
			return strings.EqualFold(s.ID, d.ID)
		}); !found {
			out = append(out, d)
		}
	}
	return out
}
