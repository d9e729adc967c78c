package game

// =============================================================================
// SCORING
// =============================================================================

const voteLeaderBonus = 3

// ratingPoints is awarded by ballot position.
var ratingPoints = []int{5, 3, 1}

// TallyVotes counts votes per candidate. Each candidate scores its vote
// count, and every candidate tied on the highest non-zero count earns the
// leader bonus on top.
func TallyVotes(votes map[string]string) (counts, points map[string]int) {
	counts = make(map[string]int)
	for _, target := range votes {
		counts[target]++
	}
	top := 0
	for _, c := range counts {
		top = max(top, c)
	}
	points = make(map[string]int, len(counts))
	for cand, c := range counts {
		pts := c
		if top > 0 && c == top {
			pts += voteLeaderBonus
		}
		points[cand] = pts
	}
	return counts, points
}

// CancelSucceeded reports a strict majority of the eligible voters.
func CancelSucceeded(cancels, eligible int) bool {
	return cancels*2 > eligible
}

// RatingTopCount is how many ranks of each ballot score.
func RatingTopCount(players int) int {
	switch {
	case players >= 6:
		return 3
	case players >= 4:
		return 2
	default:
		return 1
	}
}

func TallyRatings(ballots map[string][]string, topCount int) map[string]int {
	points := make(map[string]int)
	for _, ballot := range ballots {
		for rank := 0; rank < topCount && rank < len(ballot); rank++ {
			pts := 1
			if rank < len(ratingPoints) {
				pts = ratingPoints[rank]
			}
			points[ballot[rank]] += pts
		}
	}
	return points
}
