// Package advice normalizes the structured-feedback output of the video
// analysis call into the three fixed buckets shown to players.
package advice

import (
	"encoding/json"
	"strings"
)

type Advice struct {
	Good    []string `json:"good"`
	Bad     []string `json:"bad"`
	Improve []string `json:"improve"`
}

const (
	failedText       = "Analysis failed, unable to evaluate gameplay"
	requirementsText = "Check video requirements (360p-4K, 4s-60min, <2GB, audio) and try again"
)

// Fallback is the advice returned when analysis fails outright or its
// output carries nothing usable.
func Fallback() Advice {
	return Advice{
		Good:    []string{failedText},
		Bad:     []string{failedText},
		Improve: []string{requirementsText},
	}
}

// Parse turns raw analysis output into Advice. A valid JSON object is used
// as-is; otherwise lines prefixed Good:/Bad:/Improve: (with or without a
// leading dash) are routed into the matching bucket. If neither yields
// anything the fixed fallback is returned.
func Parse(raw string) Advice {
	var parsed Advice
	if err := json.Unmarshal([]byte(raw), &parsed); err == nil && !parsed.empty() {
		return parsed
	}

	heuristic := parseLines(raw)
	if heuristic.empty() {
		return Fallback()
	}
	return heuristic
}

func parseLines(raw string) Advice {
	var a Advice
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		prefixed := strings.TrimPrefix(line, "- ")

		switch {
		case strings.HasPrefix(prefixed, "Good:"):
			a.Good = append(a.Good, strings.TrimSpace(strings.TrimPrefix(prefixed, "Good:")))
		case strings.HasPrefix(prefixed, "Bad:"):
			a.Bad = append(a.Bad, strings.TrimSpace(strings.TrimPrefix(prefixed, "Bad:")))
		case strings.HasPrefix(prefixed, "Improve:"):
			a.Improve = append(a.Improve, strings.TrimSpace(strings.TrimPrefix(prefixed, "Improve:")))
		}
	}
	return a
}

func (a Advice) empty() bool {
	return len(a.Good) == 0 && len(a.Bad) == 0 && len(a.Improve) == 0
}

// Normalized returns a copy with nil buckets replaced by empty slices so
// every bucket is present on the wire.
func (a Advice) Normalized() Advice {
	if a.Good == nil {
		a.Good = []string{}
	}
	if a.Bad == nil {
		a.Bad = []string{}
	}
	if a.Improve == nil {
		a.Improve = []string{}
	}
	return a
}
