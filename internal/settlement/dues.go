package settlement

// DuesGoal is the part of a dues goal the tracker needs.
type DuesGoal struct {
	ID           string
	Title        string
	TargetAmount int64
}

// DuesPayment is a treasury movement that may be tagged with a dues goal.
type DuesPayment struct {
	Direction      Direction
	CounterpartyID string
	Amount         int64
	DueID          string
}

// DuesProgress is the collection status of one goal.
type DuesProgress struct {
	GoalID           string           `json:"goal_id"`
	Title            string           `json:"title"`
	TargetAmount     int64            `json:"target_amount"`
	ParticipantCount int              `json:"participant_count"`
	Received         int64            `json:"received"`
	TotalTarget      int64            `json:"total_target"`
	Remaining        int64            `json:"remaining"`
	Percentage       float64          `json:"percentage"`
	Paid             map[string]int64 `json:"paid"`
	FullyPaid        map[string]bool  `json:"fully_paid"`
}

// ComputeDuesProgress attributes receive transactions tagged with the goal.
// Payments tagged with another goal, or untagged, never count. A payment from
// someone outside participantIDs counts towards Received only.
func ComputeDuesProgress(goal DuesGoal, participantIDs []string, payments []DuesPayment) DuesProgress {
	progress := DuesProgress{
		GoalID:           goal.ID,
		Title:            goal.Title,
		TargetAmount:     goal.TargetAmount,
		ParticipantCount: len(participantIDs),
		TotalTarget:      goal.TargetAmount * int64(len(participantIDs)),
		Paid:             make(map[string]int64, len(participantIDs)),
		FullyPaid:        make(map[string]bool, len(participantIDs)),
	}
	for _, id := range participantIDs {
		progress.Paid[id] = 0
	}

	for _, p := range payments {
		if p.Direction != Receive || p.DueID != goal.ID {
			continue
		}
		progress.Received += p.Amount
		if _, ok := progress.Paid[p.CounterpartyID]; ok {
			progress.Paid[p.CounterpartyID] += p.Amount
		}
	}

	progress.Remaining = progress.TotalTarget - progress.Received
	if progress.Remaining < 0 {
		progress.Remaining = 0
	}
	if progress.TotalTarget > 0 {
		progress.Percentage = float64(progress.Received) / float64(progress.TotalTarget) * 100
	}
	for id, paid := range progress.Paid {
		progress.FullyPaid[id] = paid >= goal.TargetAmount
	}
	return progress
}
