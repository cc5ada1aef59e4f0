package quiz

// Tier buckets a percentage score for certificate presentation.
type Tier string

const (
	TierGold   Tier = "gold"
	TierSilver Tier = "silver"
	TierBronze Tier = "bronze"
)

// Score compares a friend's answers against the creator's position by
// position. Labels are compared by exact string equality, emoji prefix
// included. Percentage is 100*correct/n; the question bank is non-empty by
// construction so n > 0.
func Score(creatorAnswers, friendAnswers map[int]string, n int) (correct int, percentage float64) {
	for i := 0; i < n; i++ {
		if friendAnswers[i] == creatorAnswers[i] {
			correct++
		}
	}
	percentage = float64(correct) / float64(n) * 100
	return correct, percentage
}

// TierFor maps a percentage to its tier. Lower bounds are inclusive.
func TierFor(percentage float64) Tier {
	switch {
	case percentage >= 80:
		return TierGold
	case percentage >= 60:
		return TierSilver
	default:
		return TierBronze
	}
}
