package querybuilder

import "time"

func (b *Builder) BuildTotalCount() string {
	return "SELECT COUNT(*) FROM " + b.profile.Table
}

func (b *Builder) BuildCompletedCount() (string, []interface{}) {
	return "SELECT COUNT(*) FROM " + b.profile.Table + " WHERE completed = ?", []interface{}{true}
}

// BuildCreatedSinceCount counts records created strictly after since.
func (b *Builder) BuildCreatedSinceCount(since time.Time) (string, []interface{}) {
	return "SELECT COUNT(*) FROM " + b.profile.Table + " WHERE created_at > ?", []interface{}{since}
}

func (b *Builder) BuildOldestCreatedAt() string {
	return "SELECT created_at FROM " + b.profile.Table + " ORDER BY created_at ASC LIMIT 1"
}

// BuildDailyCreated returns rows (day, count) for records created at or after since.
func (b *Builder) BuildDailyCreated(since time.Time) (string, []interface{}) {
	day := b.dialect.DayOf("created_at")
	return "SELECT " + day + " AS day, COUNT(*) AS count FROM " + b.profile.Table +
		" WHERE created_at >= ? GROUP BY 1 ORDER BY 1", []interface{}{since}
}

// BuildDailyCompleted returns rows (day, count) of completed records. The day
// is taken from updated_at when the table tracks it.
func (b *Builder) BuildDailyCompleted(since time.Time) (string, []interface{}) {
	col := b.completionColumn()
	return "SELECT " + b.dialect.DayOf(col) + " AS day, COUNT(*) AS count FROM " + b.profile.Table +
		" WHERE completed = ? AND " + col + " >= ? GROUP BY 1 ORDER BY 1", []interface{}{true, since}
}

// BuildHourly returns rows (hour, count) over all records.
func (b *Builder) BuildHourly() string {
	return "SELECT " + b.dialect.HourOf("created_at") + " AS hour, COUNT(*) AS count FROM " +
		b.profile.Table + " GROUP BY 1 ORDER BY 1"
}

// BuildAverageCompletion averages created_at to updated_at over completed
// records. ok is false when the table has no updated_at column.
func (b *Builder) BuildAverageCompletion() (sql string, args []interface{}, ok bool) {
	if !b.profile.HasUpdatedAt {
		return "", nil, false
	}
	return "SELECT AVG(" + b.dialect.SecondsBetween("created_at", "updated_at") + ") FROM " + b.profile.Table +
		" WHERE completed = ? AND updated_at IS NOT NULL", []interface{}{true}, true
}

func (b *Builder) completionColumn() string {
	if b.profile.HasUpdatedAt {
		return "updated_at"
	}
	return "created_at"
}
