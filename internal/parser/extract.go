package parser

import "strings"

// Candidates holds, per sensor kind, the most recent non-blank line that
// mentions that kind's marker. An empty string means no line of that kind
// was found.
type Candidates struct {
	MS5611  string
	MPU6050 string
	TMP     string
}

// ExtractLatest scans the file content newest-first and returns the most
// recent candidate line per sensor kind. The kinds are independent: the
// MS5611 line may be older than the MPU6050 line. Scanning stops early once
// all three kinds have a candidate.
//
// The simulator appends, so the latest line of each kind must win, not
// merely the last line of the file.
func ExtractLatest(content string) Candidates {
	var c Candidates

	lines := strings.Split(content, "\n")
	for i := len(lines) - 1; i >= 0; i-- {
		line := strings.TrimSpace(lines[i])
		if line == "" {
			continue
		}
		if c.MS5611 == "" && strings.Contains(line, MarkerMS5611) {
			c.MS5611 = line
		}
		if c.MPU6050 == "" && strings.Contains(line, MarkerMPU6050) {
			c.MPU6050 = line
		}
		if c.TMP == "" && strings.Contains(line, MarkerTMP) {
			c.TMP = line
		}
		if c.MS5611 != "" && c.MPU6050 != "" && c.TMP != "" {
			break
		}
	}

	return c
}
