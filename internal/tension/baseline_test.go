package tension

import (
	"math"
	"testing"
)

func TestBaseline(t *testing.T) {
	tests := []struct {
		name            string
		pos             Position
		want            float64
		wantCliffhanger bool
	}{
		{
			name: "three acts, opening chapter",
			pos:  Position{ActIndex: 0, TotalActs: 3, ChapterIndex: 0, TotalChaptersInAct: 2, SceneIndex: 0, TotalScenesInChapter: 3},
			want: 10,
		},
		{
			name:            "three acts, end of first act",
			pos:             Position{ActIndex: 0, TotalActs: 3, ChapterIndex: 1, TotalChaptersInAct: 2, SceneIndex: 2, TotalScenesInChapter: 3},
			want:            25,
			wantCliffhanger: true,
		},
		{
			name: "three acts, middle act",
			pos:  Position{ActIndex: 1, TotalActs: 3, ChapterIndex: 0, TotalChaptersInAct: 1, SceneIndex: 0, TotalScenesInChapter: 2},
			want: 27.5,
		},
		{
			name: "five acts, second middle act",
			pos:  Position{ActIndex: 3, TotalActs: 5, ChapterIndex: 0, TotalChaptersInAct: 1, SceneIndex: 0, TotalScenesInChapter: 2},
			want: 20 + 15*0.75,
		},
		{
			name: "three acts, last act before climax",
			pos:  Position{ActIndex: 2, TotalActs: 3, ChapterIndex: 0, TotalChaptersInAct: 1, SceneIndex: 5, TotalScenesInChapter: 11},
			want: 37.5,
		},
		{
			name: "three acts, resolution at 0.9",
			pos:  Position{ActIndex: 2, TotalActs: 3, ChapterIndex: 0, TotalChaptersInAct: 1, SceneIndex: 9, TotalScenesInChapter: 11},
			want: 30,
		},
		{
			name:            "three acts, final scene",
			pos:             Position{ActIndex: 2, TotalActs: 3, ChapterIndex: 0, TotalChaptersInAct: 1, SceneIndex: 10, TotalScenesInChapter: 11},
			want:            25,
			wantCliffhanger: true,
		},
		{
			name: "two acts, first act midway",
			pos:  Position{ActIndex: 0, TotalActs: 2, ChapterIndex: 1, TotalChaptersInAct: 3, SceneIndex: 0, TotalScenesInChapter: 2},
			want: 22.5,
		},
		{
			name:            "two acts, second act",
			pos:             Position{ActIndex: 1, TotalActs: 2, ChapterIndex: 0, TotalChaptersInAct: 1, SceneIndex: 3, TotalScenesInChapter: 4},
			want:            40,
			wantCliffhanger: true,
		},
		{
			name:            "single act, single scene",
			pos:             Position{ActIndex: 0, TotalActs: 1, ChapterIndex: 0, TotalChaptersInAct: 1, SceneIndex: 0, TotalScenesInChapter: 1},
			want:            20,
			wantCliffhanger: true,
		},
		{
			name: "single act, halfway",
			pos:  Position{ActIndex: 0, TotalActs: 1, ChapterIndex: 0, TotalChaptersInAct: 1, SceneIndex: 2, TotalScenesInChapter: 5},
			want: 30,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, cliff := Baseline(tt.pos)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("Baseline() = %v, want %v", got, tt.want)
			}
			if cliff != tt.wantCliffhanger {
				t.Errorf("cliffhanger = %v, want %v", cliff, tt.wantCliffhanger)
			}
		})
	}
}

func TestBaselineDegenerateTotals(t *testing.T) {
	// zero totals must not divide by zero
	got, _ := Baseline(Position{})
	if math.IsNaN(got) || math.IsInf(got, 0) {
		t.Fatalf("Baseline(zero) = %v", got)
	}
	if got != 20 {
		t.Errorf("Baseline(zero) = %v, want 20", got)
	}
}
