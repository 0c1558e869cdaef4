package prompts

import "github.com/abhisek/skillforge/internal/llm"

// LearningPathSchema is the required shape of a generated curriculum.
var LearningPathSchema = &llm.Schema{
	Name:        "learning-path",
	Description: "A curriculum of ordered steps toward the learner's goal",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"title":       map[string]any{"type": "string", "minLength": 1},
			"description": map[string]any{"type": "string"},
			"totalXp":     map[string]any{"type": "integer", "minimum": 0},
			"steps": map[string]any{
				"type":     "array",
				"minItems": 1,
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"id":          map[string]any{"type": "string"},
						"title":       map[string]any{"type": "string", "minLength": 1},
						"description": map[string]any{"type": "string"},
						"criteria": map[string]any{
							"type":  "array",
							"items": map[string]any{"type": "string"},
						},
						"detailedSteps": map[string]any{
							"type":  "array",
							"items": map[string]any{"type": "string"},
						},
						"xpReward": map[string]any{"type": "integer", "minimum": 0},
					},
					"required": []any{"title", "description", "criteria"},
				},
			},
		},
		"required": []any{"title", "steps"},
	},
}

// ReviewSchema is the required shape of a step review verdict.
var ReviewSchema = &llm.Schema{
	Name:        "review-result",
	Description: "Pass/fail verdict on a submitted image with feedback",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"passed":   map[string]any{"type": "boolean"},
			"feedback": map[string]any{"type": "string"},
		},
		"required": []any{"passed", "feedback"},
	},
}

// ChallengeDesignSchema is the required shape of a daily challenge design.
var ChallengeDesignSchema = &llm.Schema{
	Name:        "challenge-design",
	Description: "A timed creative challenge with medal tier times in minutes",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"title":       map[string]any{"type": "string", "minLength": 1},
			"theme":       map[string]any{"type": "string"},
			"description": map[string]any{"type": "string"},
			"imagePrompt": map[string]any{"type": "string", "minLength": 1},
			"goldTime":    map[string]any{"type": "number", "exclusiveMinimum": 0},
			"silverTime":  map[string]any{"type": "number", "exclusiveMinimum": 0},
			"bronzeTime":  map[string]any{"type": "number", "exclusiveMinimum": 0},
		},
		"required": []any{"title", "theme", "description", "imagePrompt", "goldTime", "silverTime", "bronzeTime"},
	},
}

// EvaluationSchema is the required shape of a challenge submission score.
var EvaluationSchema = &llm.Schema{
	Name:        "evaluation-result",
	Description: "Similarity score of a submission against the reference",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"passed":   map[string]any{"type": "boolean"},
			"score":    map[string]any{"type": "number"},
			"feedback": map[string]any{"type": "string"},
		},
		"required": []any{"passed", "score", "feedback"},
	},
}
