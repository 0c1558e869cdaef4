package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/abhisek/skillforge/internal/challenge"
	"github.com/abhisek/skillforge/internal/extract"
	"github.com/abhisek/skillforge/internal/learning"
	"github.com/abhisek/skillforge/internal/llm"
	"github.com/abhisek/skillforge/internal/media"
	"github.com/abhisek/skillforge/internal/prompts"
)

type designOutput struct {
	Title       string  `json:"title"`
	Theme       string  `json:"theme"`
	Description string  `json:"description"`
	ImagePrompt string  `json:"imagePrompt"`
	GoldTime    float64 `json:"goldTime"`
	SilverTime  float64 `json:"silverTime"`
	BronzeTime  float64 `json:"bronzeTime"`
}

// GenerateDailyChallenge always returns a challenge. The design stage
// falls back to the fixed "Speed Modeling" design, and the reference image
// stage falls back to a placeholder URL labeled with the title.
func (o *Orchestrator) GenerateDailyChallenge(ctx context.Context, domain learning.Domain, tool string, level learning.SkillLevel) challenge.Challenge {
	c, err := o.designChallenge(ctx, domain, tool, level)
	if err != nil {
		o.fallback(llm.PurposeChallengeDesign, err)
		c = challenge.Fallback(c.ID)
	}

	c.ReferenceImageURL = o.referenceImage(ctx, c, level)
	return c
}

func (o *Orchestrator) designChallenge(ctx context.Context, domain learning.Domain, tool string, level learning.SkillLevel) (challenge.Challenge, error) {
	ctx = llm.WithPurpose(ctx, llm.PurposeChallengeDesign)
	c := challenge.Challenge{ID: uuid.NewString()}

	p := prompts.ChallengeDesign(domain, tool, level)
	resp, err := o.profiles.Fast.Generate(ctx, userRequest(p))
	if err != nil {
		return c, err
	}

	var out designOutput
	if err := extract.Decode(resp.Text, p.Schema, &out); err != nil {
		return c, err
	}

	c.Title = out.Title
	c.Theme = out.Theme
	c.Description = out.Description
	c.ImagePrompt = out.ImagePrompt
	c.GoldTime = out.GoldTime
	c.SilverTime = out.SilverTime
	c.BronzeTime = out.BronzeTime
	if err := c.Validate(); err != nil {
		return c, err
	}
	return c, nil
}

func (o *Orchestrator) referenceImage(ctx context.Context, c challenge.Challenge, level learning.SkillLevel) string {
	ctx = llm.WithPurpose(ctx, llm.PurposeChallengeImage)

	req := llm.Request{
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: prompts.ChallengeImage(c.ImagePrompt, level)},
		},
		ResponseImages: true,
		AspectRatio:    o.cfg.AspectRatio,
	}
	resp, err := o.profiles.Image.Generate(ctx, req)
	if err == nil && len(resp.Images) == 0 {
		err = &llm.ErrEmptyResponse{Model: resp.Model}
	}
	if err != nil {
		o.fallback(llm.PurposeChallengeImage, err)
		return media.PlaceholderURL(c.Title)
	}
	return media.FromLLM(resp.Images[0]).DataURL()
}

// EvaluationResult is the judge's verdict on a challenge submission.
type EvaluationResult struct {
	Passed   bool
	Score    int
	Feedback string
}

type evaluationOutput struct {
	Passed   bool    `json:"passed"`
	Score    float64 `json:"score"`
	Feedback string  `json:"feedback"`
}

// EvaluateChallengeSubmission scores the learner's image against the
// challenge. An embedded reference image is sent ahead of the submission;
// a remote placeholder is never sent and the challenge text stands in for
// it. An empty submission fails without calling the backend; any backend
// or parse failure auto-passes with AutoPassScore.
func (o *Orchestrator) EvaluateChallengeSubmission(ctx context.Context, c challenge.Challenge, submission media.Image) EvaluationResult {
	ctx = llm.WithPurpose(ctx, llm.PurposeEvaluation)
	autoPass := EvaluationResult{Passed: true, Score: AutoPassScore, Feedback: AutoPassFeedback}

	if submission.IsZero() {
		return EvaluationResult{Passed: false, Score: 0, Feedback: NoSubmissionFeedback}
	}

	var images []llm.Image
	ref, embedded := media.ParseDataURL(c.ReferenceImageURL)
	if embedded {
		images = append(images, ref.LLM())
	}
	images = append(images, submission.LLM())

	p := prompts.Evaluation(c, embedded)
	resp, err := o.profiles.Reasoning.Generate(ctx, o.judgeRequest(p, images...))
	if err != nil {
		o.fallback(llm.PurposeEvaluation, err)
		return autoPass
	}

	var out evaluationOutput
	if err := extract.Decode(resp.Text, p.Schema, &out); err != nil {
		o.fallback(llm.PurposeEvaluation, err)
		return autoPass
	}

	return EvaluationResult{
		Passed:   out.Passed,
		Score:    clampScore(out.Score),
		Feedback: out.Feedback,
	}
}

func clampScore(s float64) int {
	switch {
	case s < 0:
		return 0
	case s > 100:
		return 100
	}
	return int(s + 0.5)
}

// GenerateHint returns one short tip for the challenge, or FallbackHint.
func (o *Orchestrator) GenerateHint(ctx context.Context, tool string, c challenge.Challenge) string {
	ctx = llm.WithPurpose(ctx, llm.PurposeHint)

	resp, err := o.profiles.Fast.Generate(ctx, userRequest(prompts.Hint(tool, c)))
	var hint string
	if err == nil {
		hint = strings.TrimSpace(resp.Text)
		if hint == "" {
			err = errors.New("empty hint")
		}
	}
	if err != nil {
		o.fallback(llm.PurposeHint, err)
		return FallbackHint
	}
	return hint
}

// EditImage applies an instruction to an image through the image profile.
// Unlike the other operations, failures are returned.
func (o *Orchestrator) EditImage(ctx context.Context, img media.Image, instruction string) (media.Image, error) {
	ctx = llm.WithPurpose(ctx, llm.PurposeImageEdit)

	if img.IsZero() {
		return media.Image{}, media.ErrNoImage
	}

	req := llm.Request{
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: prompts.EditImage(instruction), Images: []llm.Image{img.LLM()}},
		},
		ResponseImages: true,
		AspectRatio:    o.cfg.AspectRatio,
	}
	resp, err := o.profiles.Image.Generate(ctx, req)
	if err != nil {
		return media.Image{}, fmt.Errorf("image edit: %w", err)
	}
	if len(resp.Images) == 0 {
		return media.Image{}, fmt.Errorf("image edit: %w", &llm.ErrEmptyResponse{Model: resp.Model})
	}

	o.logger.Debug("image edited", zap.Int("bytes", len(resp.Images[0].Data)))
	return media.FromLLM(resp.Images[0]), nil
}
