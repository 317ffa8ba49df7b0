package display

import (
	"fmt"
	"math"
	"time"
	"unicode/utf8"
)

// FormatBytes returns a human-readable size (B, KiB, MiB, GiB, TiB, PiB).
func FormatBytes(bytes int64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	suffixes := []string{"KiB", "MiB", "GiB", "TiB", "PiB", "EiB"}
	if exp >= len(suffixes) {
		exp = len(suffixes) - 1
		div = 1
		for i := 0; i <= exp; i++ {
			div *= unit
		}
	}
	return fmt.Sprintf("%.1f %s", float64(bytes)/float64(div), suffixes[exp])
}

// FormatBytesWithSign prefixes with + or - for delta display (e.g. "- 1.2 GiB").
func FormatBytesWithSign(bytes int64) string {
	sign := ""
	if bytes > 0 {
		sign = "+ "
	} else if bytes < 0 {
		sign = "- "
		bytes = -bytes
	}
	return sign + FormatBytes(bytes)
}

// FormatMinutes renders seconds as minutes with two decimals ("61.50 min").
func FormatMinutes(seconds float64) string {
	return fmt.Sprintf("%.2f min", seconds/60)
}

// FormatPercent renders part/whole as a percentage, or "-" when whole is 0.
func FormatPercent(part, whole float64) string {
	if whole <= 0 {
		return "-"
	}
	return fmt.Sprintf("%.2f %%", part/whole*100)
}

// FormatElapsed renders d as "M min and S sec", rounded to whole seconds.
func FormatElapsed(d time.Duration) string {
	secs := int64(math.Round(d.Seconds()))
	return fmt.Sprintf("%d min and %d sec", secs/60, secs%60)
}

// Truncate shortens s to at most n runes, marking the cut with an ellipsis.
func Truncate(s string, n int) string {
	if n <= 0 {
		return ""
	}
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	if n == 1 {
		return "…"
	}
	r := []rune(s)
	return string(r[:n-1]) + "…"
}

// Plural returns "video" or "videos" for n.
func Plural(n int, word string) string {
	if n == 1 {
		return word
	}
	return word + "s"
}
