package boxscore

import "regexp"

var (
	shooterPattern   = regexp.MustCompile(`(?i)^(.+?) (?:made|missed)\b`)
	assisterPattern  = regexp.MustCompile(`(?i)assisted by (.+)`)
	rebounderPattern = regexp.MustCompile(`(?i)^(.+?) (?:offensive|defensive) rebound`)
	stealerPattern   = regexp.MustCompile(`(?i)^(.+?) steal`)
	blockerPattern   = regexp.MustCompile(`(?i)^(.+?) block`)
	foulerPattern    = regexp.MustCompile(`(?i)foul on (.+)`)
	turnoverPattern  = regexp.MustCompile(`(?i)^(.+?) turnover`)
)

func extractWith(pattern *regexp.Regexp, description string) string {
	match := pattern.FindStringSubmatch(description)
	if len(match) < 2 {
		return ""
	}
	return CleanupName(match[1])
}

// ExtractShooter returns the name before " made" or " missed".
func ExtractShooter(description string) string {
	return extractWith(shooterPattern, description)
}

// ExtractAssister returns the name after "Assisted by ".
func ExtractAssister(description string) string {
	return extractWith(assisterPattern, description)
}

// ExtractRebounder returns the name before " Offensive Rebound" or " Defensive Rebound".
func ExtractRebounder(description string) string {
	return extractWith(rebounderPattern, description)
}

// ExtractStealer returns the name before " Steal".
func ExtractStealer(description string) string {
	return extractWith(stealerPattern, description)
}

// ExtractBlocker returns the name before " Block".
func ExtractBlocker(description string) string {
	return extractWith(blockerPattern, description)
}

// ExtractFouler returns the name after "Foul on ".
func ExtractFouler(description string) string {
	return extractWith(foulerPattern, description)
}

// ExtractTurnoverCommitter returns the name before " Turnover".
func ExtractTurnoverCommitter(description string) string {
	return extractWith(turnoverPattern, description)
}
