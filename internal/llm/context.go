package llm

import "context"

type contextKey string

const purposeKey contextKey = "llm_purpose"

// Purpose labels for backend requests.
const (
	PurposeLearningPath    = "learning-path"
	PurposeReview          = "review"
	PurposeChallengeDesign = "challenge-design"
	PurposeChallengeImage  = "challenge-image"
	PurposeEvaluation      = "evaluation"
	PurposeHint            = "hint"
	PurposeChat            = "chat"
	PurposeImageEdit       = "image-edit"
)

// Purposes lists every purpose label in the order requests are typically
// made during a session.
var Purposes = []string{
	PurposeLearningPath, PurposeReview,
	PurposeChallengeDesign, PurposeChallengeImage, PurposeEvaluation, PurposeHint,
	PurposeChat, PurposeImageEdit,
}

// WithPurpose attaches a purpose label to the context for event logging.
func WithPurpose(ctx context.Context, purpose string) context.Context {
	return context.WithValue(ctx, purposeKey, purpose)
}

// PurposeFrom extracts the purpose label from the context.
func PurposeFrom(ctx context.Context) string {
	if v, ok := ctx.Value(purposeKey).(string); ok {
		return v
	}
	return "unknown"
}
