package quiz

import "time"

// localZone is the single fixed civil timezone for all "daily" boundaries
// (UTC+5:30), so "today" means the same thing regardless of server location.
var localZone = time.FixedZone("IST", 5*3600+30*60)

// Today returns the current local date as YYYY-MM-DD
func Today() string {
	return LocalDate(time.Now())
}

// LocalDate formats t's calendar date in the quiz timezone
func LocalDate(t time.Time) string {
	return t.In(localZone).Format("2006-01-02")
}

// LocalHour returns t's hour of day in the quiz timezone
func LocalHour(t time.Time) int {
	return t.In(localZone).Hour()
}
