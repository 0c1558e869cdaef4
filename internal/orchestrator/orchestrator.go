// Package orchestrator turns the generative backend into the application's
// AI operations. Every operation builds a prompt, calls one backend profile
// and extracts a typed result from the reply.
//
// Curriculum generation is the only operation whose failures reach the
// caller. Every other operation substitutes a fixed fallback result and
// logs the failure, so the learner is never blocked by the backend.
package orchestrator

import (
	"go.uber.org/zap"

	"github.com/abhisek/skillforge/internal/chat"
	"github.com/abhisek/skillforge/internal/learning"
	"github.com/abhisek/skillforge/internal/llm"
	"github.com/abhisek/skillforge/internal/prompts"
)

// Fallback results substituted when the backend fails.
const (
	ReviewUnavailableFeedback = "The reviewer is unavailable right now, so this submission could not be checked. Please try again in a moment."
	AutoPassFeedback          = "The judge is unavailable right now. Your submission has been accepted automatically."
	AutoPassScore             = 85
	FallbackHint              = "Break the task into smaller shapes and block out the overall form before adding any detail."
)

// NoSubmissionFeedback is returned, without calling the backend, when a
// review or evaluation is asked for with no image.
const NoSubmissionFeedback = "No image was submitted. Attach a screenshot of your work to be judged."

// Route describes how requests of one purpose use the backend.
type Route struct {
	// Profile is the backend profile the request is sent to.
	Profile string

	// OnFailure is what the learner gets when the request fails. Empty
	// means the error reaches the caller.
	OnFailure string
}

// Routes maps every purpose label to its route.
var Routes = map[string]Route{
	llm.PurposeLearningPath:    {Profile: llm.ProfileReasoning},
	llm.PurposeReview:          {Profile: llm.ProfileReasoning, OnFailure: "not passed"},
	llm.PurposeChallengeDesign: {Profile: llm.ProfileFast, OnFailure: "fixed design"},
	llm.PurposeChallengeImage:  {Profile: llm.ProfileImage, OnFailure: "placeholder image"},
	llm.PurposeEvaluation:      {Profile: llm.ProfileReasoning, OnFailure: "auto-pass"},
	llm.PurposeHint:            {Profile: llm.ProfileFast, OnFailure: "fixed hint"},
	llm.PurposeChat:            {Profile: llm.ProfileFast, OnFailure: "apology reply"},
	llm.PurposeImageEdit:       {Profile: llm.ProfileImage, OnFailure: "apology reply"},
}

// Config tunes backend requests.
type Config struct {
	// ThinkingBudget is the extended-reasoning budget for curriculum design
	// and for judging submitted images.
	ThinkingBudget int

	// AspectRatio for generated and edited images.
	AspectRatio string
}

// DefaultConfig returns the standard request tuning.
func DefaultConfig() Config {
	return Config{
		ThinkingBudget: 32768,
		AspectRatio:    "1:1",
	}
}

// ConfigFrom takes request tuning from the backend configuration.
func ConfigFrom(cfg llm.Config) Config {
	return Config{
		ThinkingBudget: cfg.ThinkingBudget,
		AspectRatio:    cfg.AspectRatio,
	}
}

// Orchestrator runs AI operations against the three backend profiles.
// It holds no mutable state and is safe for concurrent use.
type Orchestrator struct {
	profiles llm.Profiles
	cfg      Config
	logger   *zap.Logger
}

// New creates an Orchestrator. A nil logger discards log output.
func New(profiles llm.Profiles, cfg Config, logger *zap.Logger) *Orchestrator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Orchestrator{
		profiles: profiles,
		cfg:      cfg,
		logger:   logger.Named("orchestrator"),
	}
}

// CreateChatSession opens a fresh mentoring conversation for the learner,
// bound to the fast profile. Image edits go through the image profile.
func (o *Orchestrator) CreateChatSession(profile learning.UserProfile) *chat.Session {
	return chat.NewSession(o.profiles.Fast, prompts.MentorSystem(profile), o, o.logger.Named("chat"))
}

func (o *Orchestrator) fallback(purpose string, err error) {
	o.logger.Warn("using fallback",
		zap.String("purpose", purpose),
		zap.String("fallback", Routes[purpose].OnFailure),
		zap.Error(err),
	)
}

// judgeRequest is a request on the reasoning profile that judges images
// and carries the full thinking budget.
func (o *Orchestrator) judgeRequest(p prompts.Prompt, images ...llm.Image) llm.Request {
	req := userRequest(p, images...)
	req.ThinkingBudget = o.cfg.ThinkingBudget
	return req
}

func userRequest(p prompts.Prompt, images ...llm.Image) llm.Request {
	return llm.Request{
		System: p.System,
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: p.User, Images: images},
		},
		JSON: p.Schema != nil,
	}
}
