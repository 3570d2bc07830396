package ledger

import "math"

type Action string

const (
	ActionAdd    Action = "add"
	ActionRemove Action = "remove"
)

func ParseAction(s string) (Action, bool) {
	switch Action(s) {
	case ActionAdd, ActionRemove:
		return Action(s), true
	default:
		return "", false
	}
}

// Delta returns the signed cent change the action applies.
func (a Action) Delta(cents int64) int64 {
	if a == ActionRemove {
		return -cents
	}
	return cents
}

// MaxAmount is the largest amount a single update accepts.
const MaxAmount = 1_000_000_000_000

// ToCents rounds an amount to the nearest cent.
func ToCents(amount float64) int64 {
	return int64(math.Round(amount * 100))
}

func FromCents(cents int64) float64 {
	return float64(cents) / 100
}
