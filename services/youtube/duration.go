package youtube

import (
	"fmt"
	"regexp"
	"strconv"
)

// UnknownDuration is shown when a duration cannot be determined.
const UnknownDuration = "Unknown"

var isoDurationPattern = regexp.MustCompile(`^PT(?:(\d+)H)?(?:(\d+)M)?(?:(\d+)S)?$`)

// FormatDuration renders an ISO-8601 PT#H#M#S duration as "#h #m #s".
// Missing components count as zero; anything else yields UnknownDuration.
func FormatDuration(iso string) string {
	m := isoDurationPattern.FindStringSubmatch(iso)
	if m == nil || (m[1] == "" && m[2] == "" && m[3] == "") {
		return UnknownDuration
	}
	parts := [3]int{}
	for i := range parts {
		if m[i+1] == "" {
			continue
		}
		n, err := strconv.Atoi(m[i+1])
		if err != nil {
			return UnknownDuration
		}
		parts[i] = n
	}
	return fmt.Sprintf("%dh %dm %ds", parts[0], parts[1], parts[2])
}
