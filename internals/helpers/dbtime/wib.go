// Semua perhitungan batas tanggal & tampilan waktu memakai zona sipil tetap
// UTC+7 (WIB), mengikuti perilaku server lama.
package dbtime

import "time"

var WIB = time.FixedZone("WIB", 7*60*60)

const displayLayout = "2006-01-02 15:04:05-07:00"

// StartOfDay menormalkan tanggal (yyyy-mm-dd) ke 00:00:00.000 WIB.
func StartOfDay(t time.Time) time.Time {
	t = t.In(WIB)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, WIB)
}

// EndOfDay menormalkan tanggal ke 23:59:59.999 WIB.
func EndOfDay(t time.Time) time.Time {
	t = t.In(WIB)
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, 999_000_000, WIB)
}

// ParseDate menerima "2006-01-02" dan mengembalikan tengah malam WIB.
func ParseDate(s string) (time.Time, error) {
	return time.ParseInLocation("2006-01-02", s, WIB)
}

// FormatWIB merender timestamp untuk response API.
func FormatWIB(t time.Time) string {
	return t.In(WIB).Format(displayLayout)
}

func FormatWIBPtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := FormatWIB(*t)
	return &s
}

// ClockWIB merender jam saja (untuk pesan sapaan check-in/check-out).
func ClockWIB(t time.Time) string {
	return t.In(WIB).Format("15:04:05")
}
