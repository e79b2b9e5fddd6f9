package service

import (
	"math"

	"github.com/Skotchmaster/spark_cart/internal/models"
	"github.com/Skotchmaster/spark_cart/internal/repo"
)

// Tally counts one target's votes: Primary is up or yes, Secondary is down or no.
type Tally struct {
	Primary   int64 `json:"primary"`
	Secondary int64 `json:"secondary"`
}

func (t Tally) Total() int64 {
	return t.Primary + t.Secondary
}

// Percentage is the rounded share of primary votes, 0 when nobody voted.
func (t Tally) Percentage() int {
	total := t.Total()
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(t.Primary) / float64(total) * 100))
}

func (t *Tally) add(kind models.VoteKind, n int64) {
	if kind.Primary() {
		t.Primary += n
	} else {
		t.Secondary += n
	}
}

// tallies folds grouped counts into one Tally per target, ignoring kinds
// that do not belong to their target's family.
func tallies(rows []repo.VoteCount) map[models.Target]Tally {
	out := make(map[models.Target]Tally)
	for _, row := range rows {
		if row.Kind.Family() != row.TargetType {
			continue
		}
		key := models.Target{Type: row.TargetType, ID: row.TargetID}
		t := out[key]
		t.add(row.Kind, row.N)
		out[key] = t
	}
	return out
}
