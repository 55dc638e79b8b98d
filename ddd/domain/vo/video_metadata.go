package vo

import "time"

// VideoMetadata is probed once at upload.
type VideoMetadata struct {
	Duration   float64 `json:"duration"`
	Format     string  `json:"format"`
	Resolution string  `json:"resolution"`
	FPS        float64 `json:"fps"`
}

// DurationOr returns the known duration, or fallback when the probe found none.
func (m VideoMetadata) DurationOr(fallback time.Duration) float64 {
	if m.Duration > 0 {
		return m.Duration
	}
	return fallback.Seconds()
}
