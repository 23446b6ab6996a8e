package filter

import (
	"testing"

	"jobscout/internal/model"
)

func boolPtr(b bool) *bool { return &b }

func TestMatch_NilPreferences(t *testing.T) {
	f := NewPreferenceFilter(nil)
	if !f.Match(model.JobListing{Title: "Anything"}) {
		t.Error("nil preferences must match everything")
	}
}

func TestMatch_RemoteWork(t *testing.T) {
	remote := model.JobListing{Title: "Backend Engineer", Description: "Fully remote position"}
	office := model.JobListing{Title: "Backend Engineer", Location: "Tel Aviv"}

	wantRemote := NewPreferenceFilter(&model.Preferences{RemoteWork: boolPtr(true)})
	if !wantRemote.Match(remote) {
		t.Error("expected remote listing to match remote_work=true")
	}
	if wantRemote.Match(office) {
		t.Error("expected office listing to fail remote_work=true")
	}

	wantOffice := NewPreferenceFilter(&model.Preferences{RemoteWork: boolPtr(false)})
	if wantOffice.Match(remote) {
		t.Error("expected remote listing to fail remote_work=false")
	}
	if !wantOffice.Match(office) {
		t.Error("expected office listing to match remote_work=false")
	}
}

func TestMatch_JobTypes(t *testing.T) {
	f := NewPreferenceFilter(&model.Preferences{JobTypes: []string{"full-time"}})

	if !f.Match(model.JobListing{Title: "Engineer", Description: "This is a full-time role"}) {
		t.Error("expected full-time listing to match")
	}
	if !f.Match(model.JobListing{Title: "מהנדס תוכנה", Description: "משרה מלאה בתל אביב"}) {
		t.Error("expected Hebrew full-time listing to match")
	}
	if f.Match(model.JobListing{Title: "Engineer", Description: "summer internship"}) {
		t.Error("expected internship listing to fail the full-time preference")
	}
}

func TestMatch_UnknownJobTypeConstrainsNothing(t *testing.T) {
	f := NewPreferenceFilter(&model.Preferences{JobTypes: []string{"gig-economy"}})
	if f.Match(model.JobListing{Title: "Engineer"}) {
		t.Error("an unknown configured type matches no listing")
	}
}

func TestKeywordRelevance(t *testing.T) {
	tests := []struct {
		name                 string
		keyword, title, desc string
		want                 int
	}{
		{"title match", "golang", "Golang Developer", "", 30},
		{"description match", "golang", "Backend Developer", "We use Golang daily", 15},
		{"title and description", "golang", "Golang Developer", "Golang shop", 45},
		{"seniority only", "python", "Senior Backend Engineer", "", 10},
		{"seniority counted once", "golang", "Senior Golang Lead", "lead team", 40},
		{"no match", "rust", "Java Developer", "Spring stack", 0},
		{"empty keyword", "", "Golang Developer", "", 0},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := KeywordRelevance(tc.keyword, tc.title, tc.desc); got != tc.want {
				t.Errorf("KeywordRelevance(%q, %q, %q) = %d, want %d", tc.keyword, tc.title, tc.desc, got, tc.want)
			}
		})
	}
}

func TestScore(t *testing.T) {
	longDesc := make([]byte, 600)
	for i := range longDesc {
		longDesc[i] = 'x'
	}

	tests := []struct {
		name string
		job  model.JobListing
		want int
	}{
		{
			name: "baseline drushim, unknown age",
			job:  model.JobListing{Source: model.SourceDrushim, PostingDays: model.UnknownDays},
			want: 50,
		},
		{
			name: "posted today",
			job:  model.JobListing{Source: model.SourceDrushim, PostingDays: 0},
			want: 70,
		},
		{
			name: "posted this week",
			job:  model.JobListing{Source: model.SourceDrushim, PostingDays: 5},
			want: 60,
		},
		{
			name: "linkedin source bonus",
			job:  model.JobListing{Source: model.SourceLinkedIn, PostingDays: model.UnknownDays},
			want: 65,
		},
		{
			name: "rich description",
			job:  model.JobListing{Source: model.SourceDrushim, PostingDays: model.UnknownDays, Description: string(longDesc)},
			want: 60,
		},
		{
			name: "keyword bonus carried from extraction",
			job:  model.JobListing{Source: model.SourceDrushim, PostingDays: model.UnknownDays, MatchScore: 30},
			want: 80,
		},
		{
			name: "clamped at 100",
			job: model.JobListing{
				Source:      model.SourceLinkedIn,
				PostingDays: 0,
				Description: string(longDesc),
				MatchScore:  55,
			},
			want: 100,
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := Score(tc.job); got != tc.want {
				t.Errorf("Score() = %d, want %d", got, tc.want)
			}
		})
	}
}
