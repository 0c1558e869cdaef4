package learning

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// LoadProfile reads a learner profile from a YAML file. Domain and level
// names are matched loosely and stored in canonical form. A missing streak
// defaults to 1.
func LoadProfile(path string) (*UserProfile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read profile: %w", err)
	}

	var p UserProfile
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("parse profile %s: %w", path, err)
	}

	if err := p.Canonicalize(); err != nil {
		return nil, err
	}
	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("invalid profile %s: %w", path, err)
	}
	return &p, nil
}

// Canonicalize rewrites domain and level to their canonical spelling and
// fills the streak default.
func (p *UserProfile) Canonicalize() error {
	if p.Domain != "" {
		d, err := ParseDomain(string(p.Domain))
		if err != nil {
			return err
		}
		p.Domain = d
	}
	if p.SkillLevel != "" {
		l, err := ParseSkillLevel(string(p.SkillLevel))
		if err != nil {
			return err
		}
		p.SkillLevel = l
	}
	if p.Streak == 0 {
		p.Streak = 1
	}
	return nil
}

// Validate checks the fields path generation depends on.
func (p *UserProfile) Validate() error {
	var errs []error
	if strings.TrimSpace(p.Name) == "" {
		errs = append(errs, errors.New("name is required"))
	}
	if _, err := ParseDomain(string(p.Domain)); err != nil {
		errs = append(errs, err)
	}
	if strings.TrimSpace(p.Tool) == "" {
		errs = append(errs, errors.New("tool is required"))
	}
	if _, err := ParseSkillLevel(string(p.SkillLevel)); err != nil {
		errs = append(errs, err)
	}
	if p.XP < 0 {
		errs = append(errs, fmt.Errorf("xp must be >= 0, got %d", p.XP))
	}
	if p.Streak < 1 {
		errs = append(errs, fmt.Errorf("streak must be >= 1, got %d", p.Streak))
	}
	return errors.Join(errs...)
}
