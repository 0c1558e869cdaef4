package learning

import (
	"fmt"
	"strings"
)

// Domain is the creative or technical field a learner works in.
type Domain string

const (
	DomainEngineering  Domain = "Engineering"
	DomainDigitalArt   Domain = "Digital Art"
	DomainArchitecture Domain = "Architecture"
)

// Domains lists every domain in display order.
var Domains = []Domain{DomainEngineering, DomainDigitalArt, DomainArchitecture}

// ParseDomain matches a domain name case-insensitively. Hyphens and
// underscores are accepted in place of spaces.
func ParseDomain(s string) (Domain, error) {
	norm := normalize(s)
	for _, d := range Domains {
		if normalize(string(d)) == norm {
			return d, nil
		}
	}
	return "", fmt.Errorf("unknown domain %q (want Engineering, Digital Art or Architecture)", s)
}

// SkillLevel is the learner's self-reported proficiency.
type SkillLevel string

const (
	LevelBeginner     SkillLevel = "Beginner"
	LevelNovice       SkillLevel = "Novice"
	LevelIntermediate SkillLevel = "Intermediate"
	LevelAdvanced     SkillLevel = "Advanced"
)

// SkillLevels lists every level from least to most experienced.
var SkillLevels = []SkillLevel{LevelBeginner, LevelNovice, LevelIntermediate, LevelAdvanced}

// ParseSkillLevel matches a level name case-insensitively.
func ParseSkillLevel(s string) (SkillLevel, error) {
	norm := normalize(s)
	for _, l := range SkillLevels {
		if normalize(string(l)) == norm {
			return l, nil
		}
	}
	return "", fmt.Errorf("unknown skill level %q (want Beginner, Novice, Intermediate or Advanced)", s)
}

func normalize(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	return strings.NewReplacer("-", " ", "_", " ").Replace(s)
}

// StepStatus is a step's position in the unlock lifecycle.
// Status only moves forward: locked, active, completed.
type StepStatus string

const (
	StatusLocked    StepStatus = "locked"
	StatusActive    StepStatus = "active"
	StatusCompleted StepStatus = "completed"

	// StatusReviewing marks a step under external review. Reserved: nothing
	// sets it yet. A reviewing step may still be completed.
	StatusReviewing StepStatus = "reviewing"
)

// DefaultXPReward is awarded for steps whose reward is unset.
const DefaultXPReward = 50

// UserProfile is the learner. XP never decreases.
type UserProfile struct {
	Name       string     `yaml:"name"`
	Domain     Domain     `yaml:"domain"`
	Tool       string     `yaml:"tool"`
	SkillLevel SkillLevel `yaml:"skillLevel"`
	Goal       string     `yaml:"goal"`
	XP         int        `yaml:"xp"`
	Streak     int        `yaml:"streak"`
}

// LearningPath is a generated curriculum: an ordered sequence of steps
// toward the learner's goal.
type LearningPath struct {
	ID          string
	Title       string
	Description string
	TotalXP     int
	Steps       []Step
}

// Step is one curriculum module, gated by unlock order.
type Step struct {
	ID            string
	Title         string
	Description   string
	Criteria      []string
	DetailedSteps []string
	XPReward      int
	Status        StepStatus
}

// Reward returns the XP the step is worth.
func (s Step) Reward() int {
	if s.XPReward <= 0 {
		return DefaultXPReward
	}
	return s.XPReward
}

// StepCompleted is emitted after a step is completed.
type StepCompleted struct {
	Step          Step
	XPAwarded     int
	NextStep      *Step // nil when the completed step was the last
	PathCompleted bool
}
