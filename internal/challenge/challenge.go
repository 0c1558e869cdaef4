// Package challenge models timed daily challenges: the challenge record,
// medal tiers and the penalty-aware timer.
package challenge

import (
	"errors"
	"fmt"
)

// Challenge is a timed, image-judged exercise. Tier times are in minutes
// and satisfy 0 < Gold <= Silver <= Bronze.
type Challenge struct {
	ID          string
	Title       string
	Theme       string
	Description string
	ImagePrompt string

	// ReferenceImageURL is either an embedded data URL or a remote
	// placeholder. Only embedded images are sent to the judge.
	ReferenceImageURL string

	GoldTime   float64
	SilverTime float64
	BronzeTime float64
}

// Fallback design used when challenge generation fails.
const (
	FallbackTitle       = "Speed Modeling"
	FallbackTheme       = "Abstract"
	FallbackDescription = "Build an abstract sculpture using only primitive shapes. Focus on clean composition and readable silhouettes."
	FallbackImagePrompt = "An abstract sculpture composed of simple primitive shapes, studio lighting, neutral background"
)

// Fallback returns the fixed challenge design with the given id. The
// reference image is left for the caller to fill.
func Fallback(id string) Challenge {
	return Challenge{
		ID:          id,
		Title:       FallbackTitle,
		Theme:       FallbackTheme,
		Description: FallbackDescription,
		ImagePrompt: FallbackImagePrompt,
		GoldTime:    10,
		SilverTime:  20,
		BronzeTime:  30,
	}
}

// Validate checks the tier times.
func (c Challenge) Validate() error {
	if c.GoldTime <= 0 || c.SilverTime <= 0 || c.BronzeTime <= 0 {
		return fmt.Errorf("tier times must be positive, got %v/%v/%v", c.GoldTime, c.SilverTime, c.BronzeTime)
	}
	if c.GoldTime > c.SilverTime || c.SilverTime > c.BronzeTime {
		return errors.New("tier times must satisfy gold <= silver <= bronze")
	}
	return nil
}
