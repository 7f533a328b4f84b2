package report

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"

	"github.com/dotcommander/plotarc/internal/curve"
	"github.com/dotcommander/plotarc/internal/lexicon"
	"github.com/dotcommander/plotarc/internal/manuscript"
	"github.com/dotcommander/plotarc/internal/storage"
)

func flatPoints(values ...int) []curve.Point {
	points := make([]curve.Point, len(values))
	for i, v := range values {
		points[i] = curve.Point{Position: i, Intensity: v, Breadcrumb: "A > C > S"}
	}
	return points
}

func sampleManuscript() *manuscript.Manuscript {
	return &manuscript.Manuscript{
		Title: "La Nuit",
		Acts: []manuscript.Act{{
			ID: "a", Title: "Acte I",
			Chapters: []manuscript.Chapter{{
				ID: "c", Title: "Chapitre 1",
				Scenes: []manuscript.Scene{
					{ID: "s1", Title: "Réveil", Content: "<p>Le soleil, le café, le calme.</p>"},
					{ID: "s2", Title: "Alerte", Content: "<p>Un cri! Du sang! La peur!</p>"},
				},
			}},
		}},
	}
}

func TestBuild(t *testing.T) {
	b := curve.NewBuilder(lexicon.NewStore(nil), curve.WithWorkers(2))
	a, err := Build(context.Background(), b, sampleManuscript())
	if err != nil {
		t.Fatal(err)
	}
	if a.Title != "La Nuit" || len(a.Points) != 2 || len(a.Diagnostics) != 5 {
		t.Errorf("Build() = %+v", a)
	}
	if a.Points[1].Intensity <= a.Points[0].Intensity {
		t.Errorf("alarm scene (%d) should outscore the calm one (%d)", a.Points[1].Intensity, a.Points[0].Intensity)
	}
}

func TestBuildEmpty(t *testing.T) {
	b := curve.NewBuilder(lexicon.NewStore(nil))
	_, err := Build(context.Background(), b, &manuscript.Manuscript{Title: "Vide"})
	if !errors.Is(err, curve.ErrEmptyCurve) {
		t.Errorf("Build() error = %v, want curve.ErrEmptyCurve", err)
	}
}

func TestFromPointsFlatCurve(t *testing.T) {
	a, err := FromPoints("Flat", flatPoints(40, 41, 39, 42, 40))
	if err != nil {
		t.Fatal(err)
	}
	if len(a.FlatZones) != 3 {
		t.Errorf("FlatZones = %v, want 3", a.FlatZones)
	}
	if len(a.Suggestions) == 0 || a.Suggestions[0].Kind != "add_twist" {
		t.Errorf("Suggestions = %v, want add_twist first", a.Suggestions)
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"", FormatText, false},
		{"JSON", FormatJSON, false},
		{"yml", FormatYAML, false},
		{"yaml", FormatYAML, false},
		{"csv", "", true},
	}
	for _, tt := range tests {
		got, err := ParseFormat(tt.in)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("ParseFormat(%q) = %q, %v", tt.in, got, err)
		}
		if tt.wantErr && !errors.Is(err, ErrUnknownFormat) {
			t.Errorf("ParseFormat(%q) error = %v, want ErrUnknownFormat", tt.in, err)
		}
	}
}

func TestRender(t *testing.T) {
	a, err := FromPoints("Flat", flatPoints(40, 41, 39, 42, 40))
	if err != nil {
		t.Fatal(err)
	}

	t.Run("json", func(t *testing.T) {
		var buf bytes.Buffer
		if err := Render(&buf, a, FormatJSON); err != nil {
			t.Fatal(err)
		}
		var decoded Analysis
		if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
			t.Fatalf("invalid JSON: %v", err)
		}
		if decoded.Statistics != a.Statistics || len(decoded.Points) != 5 {
			t.Errorf("decoded = %+v", decoded)
		}
	})

	t.Run("yaml", func(t *testing.T) {
		var buf bytes.Buffer
		if err := Render(&buf, a, FormatYAML); err != nil {
			t.Fatal(err)
		}
		var decoded map[string]any
		if err := yaml.Unmarshal(buf.Bytes(), &decoded); err != nil {
			t.Fatalf("invalid YAML: %v", err)
		}
		for _, key := range []string{"statistics", "diagnostics", "flat_zones", "suggestions"} {
			if _, ok := decoded[key]; !ok {
				t.Errorf("yaml output lacks %q", key)
			}
		}
	})

	t.Run("text", func(t *testing.T) {
		var buf bytes.Buffer
		if err := Render(&buf, a, FormatText); err != nil {
			t.Fatal(err)
		}
		out := buf.String()
		for _, want := range []string{"Flat", "5 scenes analyzed", "Diagnostics", "Flat zones", "scenes 1-3, 2-4, 3-5", "########"} {
			if !strings.Contains(out, want) {
				t.Errorf("text output lacks %q:\n%s", want, out)
			}
		}
	})

	t.Run("unknown", func(t *testing.T) {
		if err := Render(&bytes.Buffer{}, a, Format("csv")); !errors.Is(err, ErrUnknownFormat) {
			t.Errorf("Render() error = %v, want ErrUnknownFormat", err)
		}
	})
}

func TestArchiverSave(t *testing.T) {
	fs := storage.NewFileSystem(t.TempDir())
	ar := NewArchiver(fs, storage.SessionDescriptive)
	ctx := context.Background()

	a, err := FromPoints("La Nuit", flatPoints(10, 60, 20))
	if err != nil {
		t.Fatal(err)
	}
	dir, err := ar.Save(ctx, a)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(dir, "la-nuit") {
		t.Errorf("session dir %q does not carry the title", dir)
	}
	for _, name := range []string{"report.json", "report.txt", "README.md"} {
		if !fs.Exists(ctx, filepath.Join(dir, name)) {
			t.Errorf("%s missing from %s", name, dir)
		}
	}

	sessions, err := ar.Sessions(ctx)
	if err != nil {
		t.Fatal(err)
	}
	name := filepath.Base(dir)
	if len(sessions) != 1 || sessions[0] != name {
		t.Errorf("Sessions() = %v, want [%s]", sessions, name)
	}

	if err := ar.Remove(ctx, name); err != nil {
		t.Fatal(err)
	}
	if fs.Exists(ctx, dir) {
		t.Errorf("%s still exists after Remove", dir)
	}
	if sessions, _ := ar.Sessions(ctx); len(sessions) != 0 {
		t.Errorf("Sessions() after Remove = %v", sessions)
	}
}

func TestArchiverRemoveRejectsUnknownNames(t *testing.T) {
	fs := storage.NewFileSystem(t.TempDir())
	ctx := context.Background()
	if err := fs.Save(ctx, storage.LexiconFileName, []byte("version: 1\n")); err != nil {
		t.Fatal(err)
	}
	ar := NewArchiver(fs, storage.SessionUUID)

	for _, name := range []string{"", ".", "..", "../lexicon.yaml", "*", "missing"} {
		if err := ar.Remove(ctx, name); !errors.Is(err, ErrSessionNotFound) {
			t.Errorf("Remove(%q) error = %v, want ErrSessionNotFound", name, err)
		}
	}
	if !fs.Exists(ctx, storage.LexiconFileName) {
		t.Error("Remove touched files outside the sessions directory")
	}
}
