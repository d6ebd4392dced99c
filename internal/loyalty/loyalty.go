// Package loyalty awards member points for settled transactions and derives
// the display tier from a points balance.
package loyalty

import "nook-pos/internal/model"

// PointsPerUnit is how much final total earns one point.
const PointsPerUnit = 100

type Tier string

const (
	TierRegular Tier = "Regular"
	TierSilver  Tier = "Silver"
	TierGold    Tier = "Gold"
	TierDiamond Tier = "Diamond"
)

const (
	SilverThreshold  = 1000
	GoldThreshold    = 5000
	DiamondThreshold = 10000
)

// PointsEarned is floor(finalTotal / 100); non-positive totals earn nothing.
func PointsEarned(finalTotal int64) int64 {
	if finalTotal <= 0 {
		return 0
	}
	return finalTotal / PointsPerUnit
}

// ApplyTransaction returns a copy of member with the earned points added and
// txn prepended to the history. The input member is not modified.
func ApplyTransaction(member model.Member, txn model.Transaction) model.Member {
	history := make([]model.Transaction, 0, len(member.History)+1)
	history = append(history, txn)
	history = append(history, member.History...)

	member.Points += PointsEarned(txn.Total)
	member.History = history
	return member
}

// TierFor classifies a points balance. It is never stored.
func TierFor(points int64) Tier {
	switch {
	case points >= DiamondThreshold:
		return TierDiamond
	case points >= GoldThreshold:
		return TierGold
	case points >= SilverThreshold:
		return TierSilver
	default:
		return TierRegular
	}
}
