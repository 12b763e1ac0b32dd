package workdays

import "time"

// CountLocal counts Monday-Friday days in [start, end), stepping one day at a
// time from start. Holidays are not known here.
func CountLocal(start, end time.Time) int {
	if !start.Before(end) {
		return 0
	}
	days := 0
	for cur := start; cur.Before(end); cur = cur.AddDate(0, 0, 1) {
		switch cur.Weekday() {
		case time.Saturday, time.Sunday:
		default:
			days++
		}
	}
	return days
}
