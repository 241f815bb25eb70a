package domain

// InteractionType is the kind of side data a transition needs before it is applied.
type InteractionType string

const (
	InteractionInterviewSchedule InteractionType = "interview-schedule"
	InteractionInterviewFeedback InteractionType = "interview-feedback"
	InteractionReschedule        InteractionType = "reschedule"
	InteractionJoining           InteractionType = "joining"
	InteractionReject            InteractionType = "reject"
	InteractionActualCTC         InteractionType = "actual-ctc"
	InteractionNone              InteractionType = "none"
)

// InteractionField is one input the collecting dialog presents.
type InteractionField string

const (
	FieldDate          InteractionField = "date"
	FieldDateTime      InteractionField = "datetime"
	FieldReason        InteractionField = "reason"
	FieldFeedback      InteractionField = "feedback"
	FieldBillingReason InteractionField = "billing_reason"
)

var interactionFields = map[InteractionType][]InteractionField{
	InteractionInterviewSchedule: {FieldDateTime},
	InteractionReschedule:        {FieldDateTime, FieldReason},
	InteractionInterviewFeedback: {FieldFeedback},
	InteractionJoining:           {FieldDate},
	InteractionReject:            {FieldReason},
	InteractionActualCTC:         {FieldBillingReason},
}

// InteractionFields returns the fixed dialog fields for an interaction type.
func InteractionFields(kind InteractionType) []InteractionField {
	fields := interactionFields[kind]
	out := make([]InteractionField, len(fields))
	copy(out, fields)
	return out
}

// EventData is the variant payload attached to a timeline event.
// Kind selects which of the detail blocks is populated.
type EventData struct {
	Kind      InteractionType   `json:"kind,omitempty"`
	Interview *InterviewDetails `json:"interview,omitempty" validate:"omitempty"`
	Feedback  *FeedbackDetails  `json:"feedback,omitempty" validate:"omitempty"`
	Joining   *JoiningDetails   `json:"joining,omitempty" validate:"omitempty"`
	Rejection *RejectionDetails `json:"rejection,omitempty" validate:"omitempty"`
	Billing   *BillingDetails   `json:"billing,omitempty" validate:"omitempty"`
}

// IsEmpty reports whether no payload was supplied.
func (d EventData) IsEmpty() bool {
	return d.Kind == "" && d.Interview == nil && d.Feedback == nil &&
		d.Joining == nil && d.Rejection == nil && d.Billing == nil
}

// InterviewDetails is collected when scheduling or rescheduling a round.
type InterviewDetails struct {
	Round       string `json:"round,omitempty"`
	Date        string `json:"date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	DateTime    string `json:"datetime" validate:"required,datetime=2006-01-02T15:04:05Z07:00"`
	Location    string `json:"location,omitempty"`
	Interviewer string `json:"interviewer,omitempty"`
	Reason      string `json:"reason,omitempty"`
}

// FeedbackDetails is collected for round outcomes.
type FeedbackDetails struct {
	Round    string `json:"round,omitempty"`
	Result   string `json:"result,omitempty" validate:"omitempty,oneof=selected rejected"`
	Feedback string `json:"feedback" validate:"required"`
}

// JoiningDetails is collected for offers and joining.
type JoiningDetails struct {
	JoiningDate string   `json:"date" validate:"required,datetime=2006-01-02"`
	OfferedCTC  *float64 `json:"offered_ctc,omitempty" validate:"omitempty,gte=0"`
}

// RejectionDetails is collected when a candidate is rejected or dropped.
type RejectionDetails struct {
	Reason string `json:"reason" validate:"required"`
}

// BillingDetails is collected when the client processes a candidate.
type BillingDetails struct {
	ActualCTC     *float64 `json:"actual_ctc,omitempty" validate:"omitempty,gte=0"`
	BillingReason string   `json:"billing_reason" validate:"required"`
}
