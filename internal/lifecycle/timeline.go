package lifecycle

import "fmt"

// TimelineStage is a stage flagged relative to an order's current position.
type TimelineStage struct {
	Stage
	Completed bool
	Current   bool
}

// Upcoming reports whether the stage has not been reached yet.
func (s TimelineStage) Upcoming() bool {
	return !s.Completed && !s.Current
}

// Timeline is the full, ordered stage sequence of one order.
type Timeline []TimelineStage

// Progress derives the flags of stage i for current index c.
func Progress(i, c int) (completed, current bool) {
	return i < c, i == c
}

// BuildTimeline maps a persisted status onto the full eight-stage timeline.
func BuildTimeline(status string) (Timeline, error) {
	s, err := ParseStatus(status)
	if err != nil {
		return nil, err
	}
	idx, _ := s.Index()
	return BuildTimelineAt(idx)
}

// BuildTimelineAt builds the timeline for an explicit current step index.
func BuildTimelineAt(current int) (Timeline, error) {
	if current < 0 || current >= StageCount {
		return nil, fmt.Errorf("%w: step index %d out of range", ErrInvalidStatus, current)
	}

	timeline := make(Timeline, StageCount)
	for i, stage := range stages {
		completed, cur := Progress(i, current)
		timeline[i] = TimelineStage{Stage: stage, Completed: completed, Current: cur}
	}
	return timeline, nil
}

// Current returns the stage flagged as current.
func (t Timeline) Current() (TimelineStage, bool) {
	for _, s := range t {
		if s.Current {
			return s, true
		}
	}
	return TimelineStage{}, false
}

// CompletedCount returns the number of completed stages.
func (t Timeline) CompletedCount() int {
	n := 0
	for _, s := range t {
		if s.Completed {
			n++
		}
	}
	return n
}
