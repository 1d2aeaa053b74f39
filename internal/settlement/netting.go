// Package settlement turns ledger snapshots into who-owes-whom figures.
//
// Everything here is pure: callers pass in a snapshot of participants,
// expenses and treasury transactions and get a fresh result back. Amounts are
// accumulated as float64 and rounded only when a result is produced.
package settlement

import (
	"math"
	"sort"
)

// debtThreshold is the smallest outgoing debt that is reported.
const debtThreshold = 0.01

// Participant is the part of a participant the engine needs.
type Participant struct {
	ID   string
	Name string
}

// Expense is one shared payment. ParticipantIDs is the share set.
type Expense struct {
	PayerID        string
	Amount         int64
	ParticipantIDs []string
}

// Direction of a treasury movement.
type Direction string

const (
	Receive Direction = "receive"
	Send    Direction = "send"
)

// TreasuryTx is one movement of the collective fund.
type TreasuryTx struct {
	Direction      Direction
	CounterpartyID string
	Amount         int64
}

// Transfer is a single amount owed to one creditor.
type Transfer struct {
	ToID   string `json:"to_id"`
	ToName string `json:"to_name"`
	Amount int64  `json:"amount"`
}

// PersonalSettlement lists everything one participant owes.
type PersonalSettlement struct {
	PersonID    string     `json:"person_id"`
	PersonName  string     `json:"person_name"`
	Settlements []Transfer `json:"settlements"`
	TotalAmount int64      `json:"total_amount"`
}

// NetBalance is a participant's position against the collective fund.
// Negative means the participant still owes the fund.
type NetBalance struct {
	ParticipantID string `json:"participant_id"`
	Name          string `json:"name"`
	Balance       int64  `json:"balance"`
}

// NetBalances partitions participants into payers and receivers.
type NetBalances struct {
	Balances  []NetBalance `json:"balances"`
	Payers    []NetBalance `json:"payers"`
	Receivers []NetBalance `json:"receivers"`
}

// Share returns the exact per-participant share of an expense.
func Share(e Expense) float64 {
	if len(e.ParticipantIDs) == 0 {
		return 0
	}
	return float64(e.Amount) / float64(len(e.ParticipantIDs))
}

// Round rounds half up to a whole currency unit.
func Round(v float64) int64 {
	return int64(math.Floor(v + 0.5))
}

// creditorLedger keeps debts towards creditors in first-seen order.
type creditorLedger struct {
	order   []string
	amounts map[string]float64
}

func (l *creditorLedger) add(creditor string, amount float64) {
	if _, ok := l.amounts[creditor]; !ok {
		l.order = append(l.order, creditor)
	}
	l.amounts[creditor] += amount
}

// ComputeSettlements accumulates directed pairwise debts: every sharer owes
// the payer their share. Debts in opposite directions between the same two
// people are kept apart, never netted.
func ComputeSettlements(participants []Participant, expenses []Expense) []PersonalSettlement {
	names := make(map[string]string, len(participants))
	debts := make(map[string]*creditorLedger, len(participants))
	for _, p := range participants {
		names[p.ID] = p.Name
		debts[p.ID] = &creditorLedger{amounts: make(map[string]float64)}
	}

	for _, e := range expenses {
		share := Share(e)
		for _, pid := range e.ParticipantIDs {
			if pid == e.PayerID {
				continue
			}
			ledger, ok := debts[pid]
			if !ok {
				continue
			}
			ledger.add(e.PayerID, share)
		}
	}

	results := make([]PersonalSettlement, 0)
	for _, p := range participants {
		ledger := debts[p.ID]
		var transfers []Transfer
		var total int64
		for _, to := range ledger.order {
			amount := ledger.amounts[to]
			if amount <= debtThreshold {
				continue
			}
			rounded := Round(amount)
			if rounded == 0 {
				continue
			}
			name, ok := names[to]
			if !ok {
				name = to
			}
			transfers = append(transfers, Transfer{ToID: to, ToName: name, Amount: rounded})
			total += rounded
		}
		if len(transfers) == 0 {
			continue
		}
		results = append(results, PersonalSettlement{
			PersonID:    p.ID,
			PersonName:  p.Name,
			Settlements: transfers,
			TotalAmount: total,
		})
	}
	return results
}

// ComputeNetBalances computes each participant's balance against the
// collective fund. Paying an expense credits the payer with the full amount
// and debits every sharer with their share. A receive credits the
// counterparty; a send debits it.
func ComputeNetBalances(participants []Participant, expenses []Expense, txs []TreasuryTx) NetBalances {
	raw := make(map[string]float64, len(participants))

	for _, e := range expenses {
		raw[e.PayerID] += float64(e.Amount)
		share := Share(e)
		for _, pid := range e.ParticipantIDs {
			raw[pid] -= share
		}
	}

	for _, tx := range txs {
		switch tx.Direction {
		case Receive:
			raw[tx.CounterpartyID] += float64(tx.Amount)
		case Send:
			raw[tx.CounterpartyID] -= float64(tx.Amount)
		}
	}

	result := NetBalances{
		Balances:  make([]NetBalance, 0, len(participants)),
		Payers:    make([]NetBalance, 0),
		Receivers: make([]NetBalance, 0),
	}
	for _, p := range participants {
		nb := NetBalance{ParticipantID: p.ID, Name: p.Name, Balance: Round(raw[p.ID])}
		result.Balances = append(result.Balances, nb)
		switch {
		case nb.Balance < 0:
			result.Payers = append(result.Payers, nb)
		case nb.Balance > 0:
			result.Receivers = append(result.Receivers, nb)
		}
	}

	sort.SliceStable(result.Payers, func(i, j int) bool {
		return result.Payers[i].Balance < result.Payers[j].Balance
	})
	sort.SliceStable(result.Receivers, func(i, j int) bool {
		return result.Receivers[i].Balance > result.Receivers[j].Balance
	})
	return result
}
