package orchestrator

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/abhisek/skillforge/internal/extract"
	"github.com/abhisek/skillforge/internal/learning"
	"github.com/abhisek/skillforge/internal/llm"
	"github.com/abhisek/skillforge/internal/media"
	"github.com/abhisek/skillforge/internal/prompts"
)

type pathOutput struct {
	Title       string       `json:"title"`
	Description string       `json:"description"`
	TotalXP     int          `json:"totalXp"`
	Steps       []stepOutput `json:"steps"`
}

type stepOutput struct {
	ID            string   `json:"id"`
	Title         string   `json:"title"`
	Description   string   `json:"description"`
	Criteria      []string `json:"criteria"`
	DetailedSteps []string `json:"detailedSteps"`
	XPReward      int      `json:"xpReward"`
}

// GenerateLearningPath designs a curriculum for the learner. Failures are
// returned: there is no meaningful fallback curriculum. The returned path
// has a fresh id, its first step active and every other step locked.
func (o *Orchestrator) GenerateLearningPath(ctx context.Context, domain learning.Domain, tool, goal string, level learning.SkillLevel) (*learning.LearningPath, error) {
	ctx = llm.WithPurpose(ctx, llm.PurposeLearningPath)

	p := prompts.LearningPath(domain, tool, goal, level)
	req := userRequest(p)
	req.ThinkingBudget = o.cfg.ThinkingBudget

	resp, err := o.profiles.Reasoning.Generate(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("learning path generation: %w", err)
	}

	var out pathOutput
	if err := extract.Decode(resp.Text, p.Schema, &out); err != nil {
		return nil, fmt.Errorf("parse learning path response: %w", err)
	}

	path := &learning.LearningPath{
		ID:          uuid.NewString(),
		Title:       out.Title,
		Description: out.Description,
		TotalXP:     out.TotalXP,
		Steps:       make([]learning.Step, len(out.Steps)),
	}
	for i, s := range out.Steps {
		path.Steps[i] = learning.Step{
			ID:            s.ID,
			Title:         s.Title,
			Description:   s.Description,
			Criteria:      s.Criteria,
			DetailedSteps: s.DetailedSteps,
			XPReward:      s.XPReward,
		}
	}
	learning.Normalize(path)

	o.logger.Debug("learning path generated",
		zap.String("path_id", path.ID),
		zap.Int("steps", len(path.Steps)),
	)
	return path, nil
}

// ReviewResult is the critic's verdict on a step submission.
type ReviewResult struct {
	Passed   bool
	Feedback string
}

type reviewOutput struct {
	Passed   bool   `json:"passed"`
	Feedback string `json:"feedback"`
}

// ReviewSubmission judges a screenshot of the learner's work against a
// step's criteria. Any failure yields a non-passing result with
// ReviewUnavailableFeedback.
func (o *Orchestrator) ReviewSubmission(ctx context.Context, image media.Image, stepDescription string, criteria []string) ReviewResult {
	ctx = llm.WithPurpose(ctx, llm.PurposeReview)

	if image.IsZero() {
		return ReviewResult{Passed: false, Feedback: NoSubmissionFeedback}
	}

	p := prompts.Review(stepDescription, criteria)
	resp, err := o.profiles.Reasoning.Generate(ctx, o.judgeRequest(p, image.LLM()))
	if err != nil {
		o.fallback(llm.PurposeReview, err)
		return ReviewResult{Passed: false, Feedback: ReviewUnavailableFeedback}
	}

	var out reviewOutput
	if err := extract.Decode(resp.Text, p.Schema, &out); err != nil {
		o.fallback(llm.PurposeReview, err)
		return ReviewResult{Passed: false, Feedback: ReviewUnavailableFeedback}
	}
	return ReviewResult{Passed: out.Passed, Feedback: out.Feedback}
}
