// Package prompts builds the instructions sent to the generative backend.
//
// Builders are pure: they never fail and pass unknown or empty inputs
// through verbatim. Each structured prompt spells out the exact JSON shape
// expected back, since the backend enforces no schema; the paired
// llm.Schema is what the reply is validated against.
package prompts

import (
	"fmt"
	"strings"

	"github.com/abhisek/skillforge/internal/challenge"
	"github.com/abhisek/skillforge/internal/learning"
	"github.com/abhisek/skillforge/internal/llm"
)

// Prompt is a system instruction, a user message and the schema the reply
// must satisfy (nil for free text).
type Prompt struct {
	System string
	User   string
	Schema *llm.Schema
}

const curriculumSystemPrompt = `You are an expert curriculum designer for creative and technical software. You design practical, project-based learning paths that build real skills step by step.`

// LearningPath builds the curriculum generation prompt.
func LearningPath(domain learning.Domain, tool, goal string, level learning.SkillLevel) Prompt {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("Domain: %s\n", domain))
	b.WriteString(fmt.Sprintf("Tool: %s\n", tool))
	b.WriteString(fmt.Sprintf("Skill level: %s\n", level))
	b.WriteString(fmt.Sprintf("Goal: %s\n", goal))

	b.WriteString(`
Instructions:
Design a learning path of 5 to 8 steps that takes this learner from their current level to the goal using the tool above.
1. Each step is one focused module with a short title and a 1-3 sentence description.
2. Give each step 2-4 concrete, visually checkable success criteria. A reviewer will judge a screenshot of the learner's work against them.
3. Give each step 3-6 detailed instructions in the order the learner should follow them.
4. Award 50-200 XP per step, more for harder steps. totalXp is the sum of all step rewards.
5. If the level is Beginner, start from the interface basics. If the level is Advanced, skip fundamentals and focus on professional technique.

Respond with ONLY a JSON object of this exact shape, no prose and no code fences:
{
  "title": string,
  "description": string,
  "totalXp": integer,
  "steps": [
    {
      "id": string,
      "title": string,
      "description": string,
      "criteria": [string],
      "detailedSteps": [string],
      "xpReward": integer
    }
  ]
}`)

	return Prompt{System: curriculumSystemPrompt, User: b.String(), Schema: LearningPathSchema}
}

const criticSystemPrompt = `You are a strict but fair senior reviewer. You judge a learner's screenshot only against the stated criteria. You do not reward effort, only visible results.`

// Review builds the step review prompt. The image is attached separately.
func Review(stepDescription string, criteria []string) Prompt {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("Task: %s\n", stepDescription))
	b.WriteString("\nCriteria:\n")
	if len(criteria) == 0 {
		b.WriteString("None stated. Judge whether the image plausibly completes the task.\n")
	}
	for _, c := range criteria {
		b.WriteString(fmt.Sprintf("- %s\n", c))
	}

	b.WriteString(`
Instructions:
Look at the attached image of the learner's work. Set passed to true only if every criterion is clearly met. In feedback, name what works and the single most important fix, in 2-4 sentences.

Respond with ONLY a JSON object of this exact shape:
{"passed": boolean, "feedback": string}`)

	return Prompt{System: criticSystemPrompt, User: b.String(), Schema: ReviewSchema}
}

const challengeSystemPrompt = `You design short, fun, timed creative challenges. Each challenge must be finishable in one sitting and judged by comparing the learner's result to a reference image.`

// ChallengeDesign builds the daily challenge brainstorming prompt.
func ChallengeDesign(domain learning.Domain, tool string, level learning.SkillLevel) Prompt {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("Domain: %s\n", domain))
	b.WriteString(fmt.Sprintf("Tool: %s\n", tool))
	b.WriteString(fmt.Sprintf("Skill level: %s\n", level))

	b.WriteString(`
Instructions:
Invent one daily challenge the learner can build in the tool above.
1. Give it a catchy title, a one or two word theme, and a 2-3 sentence description of what to build.
2. Write imagePrompt: a description of the finished result for an image generator, used as the reference the learner must match.
3. If the level is Beginner, keep the subject low-poly and simple. If the level is Advanced, ask for intricate detail. Otherwise aim for moderate detail.
4. Set medal times in minutes: goldTime < silverTime < bronzeTime, realistic for the level.

Respond with ONLY a JSON object of this exact shape:
{"title": string, "theme": string, "description": string, "imagePrompt": string, "goldTime": number, "silverTime": number, "bronzeTime": number}`)

	return Prompt{System: challengeSystemPrompt, User: b.String(), Schema: ChallengeDesignSchema}
}

// ChallengeImage builds the reference image prompt for a challenge design.
func ChallengeImage(imagePrompt string, level learning.SkillLevel) string {
	style := "clean, moderately detailed"
	switch level {
	case learning.LevelBeginner:
		style = "simple, low-poly"
	case learning.LevelAdvanced:
		style = "intricately detailed"
	}
	return fmt.Sprintf("A %s reference render: %s. Neutral background, even lighting, the subject centered and fully visible. No text.", style, imagePrompt)
}

const judgeSystemPrompt = `You are a competition judge comparing a learner's submission to a challenge reference. Score visual similarity and craft honestly.`

// Evaluation builds the challenge submission judging prompt. When the
// reference image is not attached, the challenge text stands in for it.
func Evaluation(c challenge.Challenge, referenceAttached bool) Prompt {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("Challenge: %s\n", c.Title))
	b.WriteString(fmt.Sprintf("Theme: %s\n", c.Theme))
	b.WriteString(fmt.Sprintf("Description: %s\n", c.Description))

	b.WriteString("\nInstructions:\n")
	if referenceAttached {
		b.WriteString("The first image is the reference. The second image is the learner's submission. Compare them.\n")
	} else {
		b.WriteString("No reference image is available. The attached image is the learner's submission. Judge it against the challenge description above as if it were the reference.\n")
		if c.ImagePrompt != "" {
			b.WriteString(fmt.Sprintf("The reference was described as: %s\n", c.ImagePrompt))
		}
	}
	b.WriteString(`Give an integer score from 0 to 100 for how closely the submission matches. Set passed to true when the match is about 85% or better. Keep feedback to 2-3 sentences.

Respond with ONLY a JSON object of this exact shape:
{"passed": boolean, "score": integer, "feedback": string}`)

	return Prompt{System: judgeSystemPrompt, User: b.String(), Schema: EvaluationSchema}
}

const hintSystemPrompt = `You are a concise expert mentor. You give one practical hint at a time without solving the whole task.`

// Hint builds the challenge hint prompt.
func Hint(tool string, c challenge.Challenge) Prompt {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("Tool: %s\n", tool))
	b.WriteString(fmt.Sprintf("Challenge: %s\n", c.Title))
	b.WriteString(fmt.Sprintf("Description: %s\n", c.Description))
	b.WriteString("\nGive one specific hint (a technique, shortcut or workflow) in at most two sentences. Plain text only.")

	return Prompt{System: hintSystemPrompt, User: b.String()}
}

// EditImage builds the instruction for editing an attached image.
func EditImage(instruction string) string {
	return fmt.Sprintf("Edit the attached image: %s. Keep everything else unchanged.", instruction)
}

// MentorSystem is the chat persona for a learner.
func MentorSystem(profile learning.UserProfile) string {
	return fmt.Sprintf(`You are a friendly expert mentor for %s, a %s learner in %s using %s. Answer questions clearly and briefly, give concrete steps in the tool, and ask a clarifying question when the request is ambiguous. If an image is attached, refer to what you see in it.`,
		profile.Name, profile.SkillLevel, profile.Domain, profile.Tool)
}

// MentorContext is the situational block prepended to every chat message
// the model sees. It is never shown in the transcript.
func MentorContext(tool, moduleTitle, moduleDescription string) string {
	var b strings.Builder
	b.WriteString("[Context]\n")
	b.WriteString(fmt.Sprintf("Current tool: %s\n", tool))
	b.WriteString(fmt.Sprintf("Active module: %s\n", moduleTitle))
	b.WriteString(fmt.Sprintf("Module description: %s\n", moduleDescription))
	b.WriteString("[/Context]\n\n")
	return b.String()
}
