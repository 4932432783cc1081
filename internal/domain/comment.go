package domain

// ModerationState is the visibility status of a visitor comment. It is a single
// canonical three-state enum; no legacy aliases are accepted anywhere.
type ModerationState string

// Moderation states.
const (
	ModerationApproved ModerationState = "approved"
	ModerationPending  ModerationState = "pending"
	ModerationRejected ModerationState = "rejected"
)

// Valid returns true if the state is a recognized value.
func (m ModerationState) Valid() bool {
	switch m {
	case ModerationApproved, ModerationPending, ModerationRejected:
		return true
	default:
		return false
	}
}

// Comment is a visitor-submitted message attached to a site or monument. A comment
// belongs to exactly one node by containment in its Comments slice; there is no
// back-reference.
type Comment struct {
	ID         string `json:"id"`
	AuthorName string `json:"authorName" validate:"required"`
	Message    string `json:"message" validate:"required"`
	// Date is the submission time as ISO text, kept opaque.
	Date            string          `json:"date"`
	Rating          *float64        `json:"rating,omitempty" validate:"omitempty,gte=1,lte=5"`
	ModerationState ModerationState `json:"moderationState"`
}
