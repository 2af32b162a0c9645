package boxscore

import "testing"

func TestNormalizeLabel(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Duke Blue Devils", "duke blue devils"},
		{"  St. John's (NY) ", "st john s ny"},
		{"UNC-Chapel_Hill", "unc chapel hill"},
		{"Müller  Jr.", "müller jr"},
		{"...", ""},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := NormalizeLabel(tt.in); got != tt.want {
				t.Errorf("NormalizeLabel(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestCleanupName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Jordan Smith", "Jordan Smith"},
		{"Jordan   Smith..", "Jordan Smith"},
		{"  Alex\tLee. ", "Alex Lee"},
		{"P.J. Washington", "P.J. Washington"},
		{" . ", ""},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := CleanupName(tt.in); got != tt.want {
				t.Errorf("CleanupName(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestIsLikelyTeamLabel(t *testing.T) {
	id := 10
	team := &TeamRef{ID: &id, FullName: "Duke Blue Devils", Name: "Blue Devils", Abbreviation: "DUKE", College: "Duke"}
	playTeam := &TeamRef{ID: &id, Name: "Devils"}

	tests := []struct {
		name     string
		team     *TeamRef
		playTeam *TeamRef
		want     bool
	}{
		{"Duke", team, nil, true},
		{"duke blue devils", team, nil, true},
		{"Blue-Devils", team, nil, true},
		{"DUKE.", team, nil, true},
		{"Devils", team, playTeam, true},
		{"Devils", team, nil, false},
		{"Jordan Smith", team, playTeam, false},
		{"Duke", nil, nil, false},
		{"", team, playTeam, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsLikelyTeamLabel(tt.name, tt.team, tt.playTeam); got != tt.want {
				t.Errorf("IsLikelyTeamLabel(%q) = %v, want %v", tt.name, got, tt.want)
			}
		})
	}
}
