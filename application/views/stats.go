package views

import "time"

const daySeconds = 24 * 60 * 60

// DailyUsage is the number of memos created on one day
type DailyUsage struct {
	Timestamp int64 // start of the day, unix seconds
	Count     int
}

// DailyCounts buckets memo creation timestamps into per-day counts over the
// trailing window ending at now. Bucket indices are rounded because DST can
// make a local day 23 or 25 hours long.
func DailyCounts(timestamps []int64, days int, now time.Time) []DailyUsage {
	today := dayStart(now)
	begin := today - int64(days)*daySeconds

	usage := make([]DailyUsage, days)
	for i := range usage {
		usage[i] = DailyUsage{Timestamp: begin + int64(i+1)*daySeconds}
	}

	for _, ts := range timestamps {
		offset := float64(dayStart(time.Unix(ts, 0))-begin)/daySeconds - 1
		index := int(offset + 0.5)
		if index >= 0 && index < len(usage) {
			usage[index].Count++
		}
	}
	return usage
}

func dayStart(t time.Time) int64 {
	local := t.Local()
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, time.Local).Unix()
}
