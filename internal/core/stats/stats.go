package stats

import "time"

// Cache keys for the read models. Revalidation deletes them.
const (
	LeaderboardCacheKey = "stats:leaderboard"
	PlatformCacheKey    = "stats:platform"
)

const (
	// MaxLeaderboard is the number of users the cached leaderboard holds
	MaxLeaderboard = 100

	// maxStreakDays bounds the solution history scanned for streaks
	maxStreakDays = 365

	// responseSample is the number of recent solutions averaged for response time
	responseSample = 100
)

// LeaderboardEntry is one ranked user
type LeaderboardEntry struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Username    string `json:"username"`
	Image       string `json:"image,omitempty"`
	Reputation  int    `json:"reputation"`
	Solutions   int    `json:"solutions"`
	Bugs        int    `json:"bugs"`
	SolvedToday int    `json:"solvedToday"`
	Streak      int    `json:"streak"`
}

// Platform summarizes site activity
type Platform struct {
	GeneratedAt      time.Time `json:"generatedAt"`
	OpenBugs         int       `json:"openBugs"`
	SolvedToday      int       `json:"solvedToday"`
	TotalUsers       int       `json:"totalUsers"`
	TotalSolutions   int       `json:"totalSolutions"`
	TotalBugs        int       `json:"totalBugs"`
	AvgResponseHours float64   `json:"avgResponseHours"`
}

// startOfDay truncates t to midnight in loc
func startOfDay(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}

// Streak counts consecutive days, ending today, with at least one timestamp
// in times. A day without activity today means no streak.
func Streak(times []time.Time, now time.Time, loc *time.Location) int {
	if len(times) == 0 {
		return 0
	}

	active := make(map[time.Time]struct{}, len(times))
	for _, t := range times {
		active[startOfDay(t, loc)] = struct{}{}
	}

	streak := 0
	day := startOfDay(now, loc)
	for streak < maxStreakDays {
		if _, ok := active[day]; !ok {
			break
		}
		streak++
		day = day.AddDate(0, 0, -1)
	}
	return streak
}

// countSince counts timestamps at or after since
func countSince(times []time.Time, since time.Time) int {
	n := 0
	for _, t := range times {
		if !t.Before(since) {
			n++
		}
	}
	return n
}
