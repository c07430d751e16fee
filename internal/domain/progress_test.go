package domain

import "testing"

func TestObligationProgress(t *testing.T) {
	tests := []struct {
		name     string
		posts    int
		required int
		expected Progress
	}{
		{
			name:     "nothing delivered",
			posts:    0,
			required: 4,
			expected: Progress{Completed: 0, Required: 4, Percentage: 0},
		},
		{
			name:     "halfway",
			posts:    2,
			required: 4,
			expected: Progress{Completed: 2, Required: 4, Percentage: 50},
		},
		{
			name:     "rounds to nearest",
			posts:    1,
			required: 3,
			expected: Progress{Completed: 1, Required: 3, Percentage: 33},
		},
		{
			name:     "rounds half up",
			posts:    1,
			required: 8,
			expected: Progress{Completed: 1, Required: 8, Percentage: 13},
		},
		{
			name:     "over-delivery is not clamped",
			posts:    3,
			required: 2,
			expected: Progress{Completed: 3, Required: 2, Percentage: 150},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := Obligation{Required: tt.required, Posts: make([]Post, tt.posts)}
			got := ObligationProgress(o)
			if got != tt.expected {
				t.Errorf("ObligationProgress() = %+v, want %+v", got, tt.expected)
			}
		})
	}
}

func TestObligationProgress_PostCountsOnceAcrossPlatforms(t *testing.T) {
	o := Obligation{
		Required: 2,
		Posts: []Post{
			{
				ID: "p1",
				URLs: []PlatformURL{
					{Platform: PlatformInstagram, URL: "https://instagram.com/p/1"},
					{Platform: PlatformTikTok, URL: "https://tiktok.com/@club/video/1"},
					{Platform: PlatformYouTube, URL: "https://youtu.be/1"},
				},
			},
		},
	}

	got := ObligationProgress(o)
	if got.Completed != 1 {
		t.Errorf("Expected 1 completed post regardless of URL count, got %d", got.Completed)
	}
	if got.Percentage != 50 {
		t.Errorf("Expected 50%%, got %d%%", got.Percentage)
	}
}

func TestOverallProgress(t *testing.T) {
	tests := []struct {
		name     string
		item     CalendarItem
		expected Progress
	}{
		{
			name:     "no obligations",
			item:     CalendarItem{ID: "a", IsSponsored: true},
			expected: Progress{Completed: 0, Required: 0, Percentage: 0},
		},
		{
			name: "sums across obligations",
			item: CalendarItem{
				ID: "b",
				Obligations: map[string]Obligation{
					"story": {Required: 2, Posts: []Post{{ID: "p1"}}},
					"reel":  {Required: 2, Posts: []Post{{ID: "p2"}, {ID: "p3"}}},
				},
			},
			expected: Progress{Completed: 3, Required: 4, Percentage: 75},
		},
		{
			name: "mixed over and under delivery",
			item: CalendarItem{
				ID: "c",
				Obligations: map[string]Obligation{
					"story": {Required: 1, Posts: []Post{{ID: "p1"}, {ID: "p2"}}},
					"reel":  {Required: 3, Posts: nil},
				},
			},
			expected: Progress{Completed: 2, Required: 4, Percentage: 50},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := OverallProgress(tt.item)
			if got != tt.expected {
				t.Errorf("OverallProgress() = %+v, want %+v", got, tt.expected)
			}
		})
	}
}

func TestProgressBand(t *testing.T) {
	tests := []struct {
		name       string
		percentage int
		expected   Band
	}{
		{name: "zero", percentage: 0, expected: BandLow},
		{name: "just under half", percentage: 49, expected: BandLow},
		{name: "exactly half", percentage: 50, expected: BandMid},
		{name: "just under done", percentage: 99, expected: BandMid},
		{name: "exactly done", percentage: 100, expected: BandComplete},
		{name: "over-delivered", percentage: 150, expected: BandComplete},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Progress{Percentage: tt.percentage}
			if got := p.Band(); got != tt.expected {
				t.Errorf("Band() = %v, want %v", got, tt.expected)
			}
		})
	}
}
