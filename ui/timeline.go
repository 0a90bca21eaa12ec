package ui

import (
	"strings"

	"github.com/lepinkainen/pdfkit/transport"
)

// Stage is one marker on a tool's timeline
type Stage int

const (
	StageStart Stage = iota
	StageProcessing
	StageFinalizing
	StageComplete
)

// Stages lists the timeline markers in display order
var Stages = []Stage{StageStart, StageProcessing, StageFinalizing, StageComplete}

func (s Stage) String() string {
	switch s {
	case StageStart:
		return "start"
	case StageProcessing:
		return "processing"
	case StageFinalizing:
		return "finalizing"
	case StageComplete:
		return "complete"
	}
	return "unknown"
}

// StageSet is a set of active timeline markers
type StageSet uint8

// AllStages has every marker active
const AllStages = StageSet(1<<StageStart | 1<<StageProcessing | 1<<StageFinalizing | 1<<StageComplete)

// NewStageSet returns a set containing the given stages
func NewStageSet(stages ...Stage) StageSet {
	var s StageSet
	for _, st := range stages {
		s |= 1 << st
	}
	return s
}

// Has reports whether stage is active
func (s StageSet) Has(stage Stage) bool {
	return s&(1<<stage) != 0
}

func (s StageSet) String() string {
	var names []string
	for _, st := range Stages {
		if s.Has(st) {
			names = append(names, st.String())
		}
	}
	return "{" + strings.Join(names, ",") + "}"
}

// ActiveStages maps a (progress, status) pair to the markers that should be lit.
// Terminal statuses light everything regardless of progress.
func ActiveStages(progress float64, status transport.Status) StageSet {
	switch {
	case status.Terminal() || progress >= 100:
		return AllStages
	case progress <= 20:
		return NewStageSet(StageStart)
	case progress <= 80:
		return NewStageSet(StageStart, StageProcessing)
	default:
		return NewStageSet(StageStart, StageProcessing, StageFinalizing)
	}
}

// TimelinePolicy decides how a new stage set combines with the rendered one
type TimelinePolicy int

const (
	// TimelineLastValue renders exactly the latest set; lower progress un-lights markers
	TimelineLastValue TimelinePolicy = iota
	// TimelineMonotonic never un-lights a marker within a session
	TimelineMonotonic
)

// ParseTimelinePolicy accepts "last-value" or "monotonic"
func ParseTimelinePolicy(s string) TimelinePolicy {
	if s == "monotonic" {
		return TimelineMonotonic
	}
	return TimelineLastValue
}

// Apply combines the previous set with the next one under the policy
func (p TimelinePolicy) Apply(prev, next StageSet) StageSet {
	if p == TimelineMonotonic {
		return prev | next
	}
	return next
}
