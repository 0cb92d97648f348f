package vacancies

import "time"

// Stats are per-resume application statistics.
type Stats struct {
	// Success and Failed count responded outcomes by isResponded.
	Success int64
	Failed  int64
	// FirstDay and FirstWeek count successful applications on the day of the
	// latest successful application, and in the 7 days starting that day.
	FirstDay  int64
	FirstWeek int64
	// StartDate is the day (UTC midnight) of the latest successful application.
	StartDate *time.Time
}
