package domain

import "math"

// Band buckets a progress percentage for display.
type Band string

const (
	// BandLow is under half done.
	BandLow Band = "low"
	// BandMid is half done or better, but not finished.
	BandMid Band = "mid"
	// BandComplete is fully delivered (or over-delivered).
	BandComplete Band = "complete"
)

// Progress summarizes delivery against promised posts.
type Progress struct {
	Completed int `json:"completed"`
	Required  int `json:"required"`

	// Percentage is rounded, never clamped: over-delivery reads 150.
	// Displays that want a bar cap it at 100 themselves.
	Percentage int `json:"percentage"`
}

// Band returns the display bucket for the percentage.
func (p Progress) Band() Band {
	switch {
	case p.Percentage < 50:
		return BandLow
	case p.Percentage < 100:
		return BandMid
	default:
		return BandComplete
	}
}

// ObligationProgress measures one obligation. Every recorded post
// counts once, whatever the number of platform URLs it carries.
func ObligationProgress(o Obligation) Progress {
	return newProgress(len(o.Posts), o.Required)
}

// OverallProgress sums delivery across all obligations of an item.
// An item without obligations reads {0, 0, 0}.
func OverallProgress(item CalendarItem) Progress {
	completed, required := 0, 0
	for _, o := range item.Obligations {
		completed += len(o.Posts)
		required += o.Required
	}
	return newProgress(completed, required)
}

func newProgress(completed, required int) Progress {
	p := Progress{Completed: completed, Required: required}
	if required > 0 {
		p.Percentage = int(math.Round(float64(completed) / float64(required) * 100))
	}
	return p
}
