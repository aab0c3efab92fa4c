package entity

const (
	minQualityScore = 1
	maxQualityScore = 10
)

// QualityScore - оценка текста запроса по трём осям, каждая от 1 до 10.
type QualityScore struct {
	Clarity      int `json:"clarity"`
	Completeness int `json:"completeness"`
	Friendliness int `json:"friendliness"`
}

func (q QualityScore) Clamp() QualityScore {
	return QualityScore{
		Clarity:      clampScore(q.Clarity),
		Completeness: clampScore(q.Completeness),
		Friendliness: clampScore(q.Friendliness),
	}
}

func clampScore(v int) int {
	if v < minQualityScore {
		return minQualityScore
	}
	if v > maxQualityScore {
		return maxQualityScore
	}
	return v
}
