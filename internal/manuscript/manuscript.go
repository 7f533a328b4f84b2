// Package manuscript models the act → chapter → scene tree the analyzer
// reads. The editor owns the real store; this package only loads snapshots.
package manuscript

import (
	"github.com/dotcommander/plotarc/internal/tension"
)

// Manuscript is an ordered snapshot of acts
type Manuscript struct {
	Title string `yaml:"title" json:"title"`
	Acts  []Act  `yaml:"acts" json:"acts" validate:"dive"`
}

type Act struct {
	ID       string    `yaml:"id" json:"id" validate:"required"`
	Title    string    `yaml:"title" json:"title" validate:"required"`
	Chapters []Chapter `yaml:"chapters" json:"chapters" validate:"dive"`
}

type Chapter struct {
	ID     string  `yaml:"id" json:"id" validate:"required"`
	Title  string  `yaml:"title" json:"title" validate:"required"`
	Scenes []Scene `yaml:"scenes" json:"scenes" validate:"dive"`
}

// Scene content is editor markup (HTML fragments)
type Scene struct {
	ID      string `yaml:"id" json:"id" validate:"required"`
	Title   string `yaml:"title" json:"title" validate:"required"`
	Content string `yaml:"content" json:"content"`
}

// SceneCount returns the number of scenes across all acts
func (m *Manuscript) SceneCount() int {
	if m == nil {
		return 0
	}
	n := 0
	for _, act := range m.Acts {
		for _, ch := range act.Chapters {
			n += len(ch.Scenes)
		}
	}
	return n
}

// Locate resolves a scene id to its structural position. It reports false
// when the id is not in the tree.
func (m *Manuscript) Locate(sceneID string) (tension.Position, bool) {
	if m == nil || sceneID == "" {
		return tension.Position{}, false
	}
	for ai, act := range m.Acts {
		for ci, ch := range act.Chapters {
			for si, sc := range ch.Scenes {
				if sc.ID != sceneID {
					continue
				}
				return tension.Position{
					ActIndex:             ai,
					TotalActs:            len(m.Acts),
					ChapterIndex:         ci,
					TotalChaptersInAct:   len(act.Chapters),
					SceneIndex:           si,
					TotalScenesInChapter: len(ch.Scenes),
				}, true
			}
		}
	}
	return tension.Position{}, false
}

// Scene returns the scene with id, if present
func (m *Manuscript) Scene(sceneID string) (Scene, bool) {
	if m == nil {
		return Scene{}, false
	}
	for _, act := range m.Acts {
		for _, ch := range act.Chapters {
			for _, sc := range ch.Scenes {
				if sc.ID == sceneID {
					return sc, true
				}
			}
		}
	}
	return Scene{}, false
}
