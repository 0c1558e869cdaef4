package challenge

import (
	"testing"
	"time"
)

var tenTwentyThirty = Challenge{GoldTime: 10, SilverTime: 20, BronzeTime: 30}

func TestClassify(t *testing.T) {
	tests := []struct {
		total time.Duration
		want  Tier
	}{
		{0, TierGold},
		{10 * time.Minute, TierGold},
		{10*time.Minute + time.Second, TierSilver},
		{15 * time.Minute, TierSilver},
		{20 * time.Minute, TierSilver},
		{25 * time.Minute, TierBronze},
		{30 * time.Minute, TierBronze},
		{30*time.Minute + time.Second, TierFail},
		{2 * time.Hour, TierFail},
	}
	for _, tt := range tests {
		if got := Classify(tt.total, tenTwentyThirty); got != tt.want {
			t.Errorf("Classify(%s) = %s, want %s", tt.total, got, tt.want)
		}
	}
}

func TestTimeToNextTier(t *testing.T) {
	tests := []struct {
		total time.Duration
		want  time.Duration
	}{
		{900 * time.Second, 300 * time.Second},
		{0, 10 * time.Minute},
		{10 * time.Minute, 0},
		{21 * time.Minute, 9 * time.Minute},
		{31 * time.Minute, 0},
	}
	for _, tt := range tests {
		if got := TimeToNextTier(tt.total, tenTwentyThirty); got != tt.want {
			t.Errorf("TimeToNextTier(%s) = %s, want %s", tt.total, got, tt.want)
		}
	}
}

func TestTimeToNextTier_FractionalMinutes(t *testing.T) {
	c := Challenge{GoldTime: 1.5, SilverTime: 2, BronzeTime: 3}
	if got := TimeToNextTier(60*time.Second, c); got != 30*time.Second {
		t.Errorf("got %s, want 30s", got)
	}
}

func TestFallback(t *testing.T) {
	c := Fallback("id-1")
	if c.Title != "Speed Modeling" || c.Theme != "Abstract" {
		t.Errorf("fallback = %q/%q", c.Title, c.Theme)
	}
	if c.GoldTime != 10 || c.SilverTime != 20 || c.BronzeTime != 30 {
		t.Errorf("fallback times = %v/%v/%v", c.GoldTime, c.SilverTime, c.BronzeTime)
	}
	if err := c.Validate(); err != nil {
		t.Errorf("fallback invalid: %v", err)
	}
}

func TestValidate(t *testing.T) {
	bad := []Challenge{
		{GoldTime: 0, SilverTime: 20, BronzeTime: 30},
		{GoldTime: 10, SilverTime: -1, BronzeTime: 30},
		{GoldTime: 20, SilverTime: 10, BronzeTime: 30},
		{GoldTime: 10, SilverTime: 30, BronzeTime: 20},
	}
	for _, c := range bad {
		if err := c.Validate(); err == nil {
			t.Errorf("Validate(%v/%v/%v) = nil, want error", c.GoldTime, c.SilverTime, c.BronzeTime)
		}
	}
	if err := (Challenge{GoldTime: 5, SilverTime: 5, BronzeTime: 5}).Validate(); err != nil {
		t.Errorf("equal times should be valid: %v", err)
	}
}
