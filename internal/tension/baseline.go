package tension

// Position locates a scene inside the act/chapter/scene tree. All indices
// are 0-based and every total is at least 1 for a resolvable scene.
type Position struct {
	ActIndex             int `json:"act_index"`
	TotalActs            int `json:"total_acts"`
	ChapterIndex         int `json:"chapter_index"`
	TotalChaptersInAct   int `json:"total_chapters_in_act"`
	SceneIndex           int `json:"scene_index"`
	TotalScenesInChapter int `json:"total_scenes_in_chapter"`
}

// IsChapterEnd reports whether the scene closes its chapter
func (p Position) IsChapterEnd() bool {
	return p.SceneIndex == p.TotalScenesInChapter-1
}

// progress maps index into [0,1] over total slots. A single slot is 0.
func progress(index, total int) float64 {
	span := total - 1
	if span < 1 {
		span = 1
	}
	return float64(index) / float64(span)
}

// Baseline is the position-only expected tension: a three-act prior of
// rising action, complication, late climax and resolution. The second value
// flags the last scene of a chapter; the cliffhanger bonus is applied by the
// scorer, not included here.
func Baseline(p Position) (float64, bool) {
	chapterProgress := progress(p.ChapterIndex, p.TotalChaptersInAct)
	sceneProgress := progress(p.SceneIndex, p.TotalScenesInChapter)
	actProgress := progress(p.ActIndex, p.TotalActs)

	var base float64
	switch {
	case p.TotalActs >= 3:
		switch p.ActIndex {
		case 0:
			base = 10 + 15*chapterProgress
		case p.TotalActs - 1:
			if sceneProgress < 0.7 {
				base = 35 + 5*sceneProgress
			} else {
				// post-climax resolution
				base = 40 - 50*(sceneProgress-0.7)
			}
		default:
			base = 20 + 15*actProgress
		}
	case p.TotalActs == 2:
		if p.ActIndex == 0 {
			base = 15 + 15*chapterProgress
		} else {
			base = 30 + 10*sceneProgress
		}
	default:
		base = 20 + 20*sceneProgress
	}

	return base, p.IsChapterEnd()
}
