package route

import "fmt"

// FormatDistance renders meters as "850 m" below one kilometer and "1.5 km"
// above it.
func FormatDistance(meters float64) string {
	if meters >= 1000 {
		return fmt.Sprintf("%.1f km", meters/1000)
	}
	return fmt.Sprintf("%.0f m", meters)
}

// FormatDuration renders seconds as "5m" below one hour and "1h 30m" above.
func FormatDuration(seconds float64) string {
	totalMinutes := int(seconds / 60)
	hours := totalMinutes / 60
	minutes := totalMinutes % 60

	if hours > 0 {
		return fmt.Sprintf("%dh %dm", hours, minutes)
	}
	return fmt.Sprintf("%dm", minutes)
}
