// Package badge описывает каталог значков и правила их получения.
//
// Каждый значок ссылается на одно правило (Predicate). Правило - это
// помеченный вариант над снимком статистики пользователя (Stats):
//
//	MinCount(MetricUniqueHelped, 5)  → помог не менее чем 5 разным людям
//	MaxRank(3)                        → хотя бы раз был в топ-3 рейтинга
//	MinTenureDays(365)                → состоит в сообществе не меньше года
//	Manual()                          → выдаётся только вручную
//
// Все правила - чистые функции от Stats, без ввода-вывода.
package badge

import (
	"time"
)

// Kind - тег варианта правила.
type Kind int

const (
	// KindNone - правило отсутствует, значок выдаётся вне алгоритма.
	KindNone Kind = iota
	// KindMinCount - значение метрики не меньше порога.
	KindMinCount
	// KindMaxRank - лучшее место в рейтинге не хуже порога (1 - лучшее).
	KindMaxRank
	// KindMinTenureDays - с момента регистрации прошло не меньше порога дней.
	KindMinTenureDays
)

// Metric - именованное поле снимка статистики.
type Metric string

const (
	MetricUniqueHelped         Metric = "unique_helped"
	MetricRequestsCreated      Metric = "requests_created"
	MetricHelpOffered          Metric = "help_offered"
	MetricMaxSkillEndorsements Metric = "max_skill_endorsements"
	MetricEndorsedCategories   Metric = "endorsed_categories"
	MetricTestimonials         Metric = "testimonials"
	MetricKarma                Metric = "karma"
	MetricHelpStreakDays       Metric = "help_streak_days"
)

// Predicate - декларативное правило получения значка.
type Predicate struct {
	Kind      Kind
	Metric    Metric
	Threshold int
}

func MinCount(metric Metric, threshold int) Predicate {
	return Predicate{Kind: KindMinCount, Metric: metric, Threshold: threshold}
}

func MaxRank(rank int) Predicate {
	return Predicate{Kind: KindMaxRank, Threshold: rank}
}

func MinTenureDays(days int) Predicate {
	return Predicate{Kind: KindMinTenureDays, Threshold: days}
}

func Manual() Predicate {
	return Predicate{Kind: KindNone}
}

// Satisfied - единый диспетчер правил.
func (p Predicate) Satisfied(s Stats) bool {
	switch p.Kind {
	case KindMinCount:
		return s.Value(p.Metric) >= p.Threshold
	case KindMaxRank:
		return s.BestRank > 0 && s.BestRank <= p.Threshold
	case KindMinTenureDays:
		return s.TenureDays() >= p.Threshold
	default:
		return false
	}
}

// Progress возвращает текущее значение и цель для отображения прогресса.
// Для рейтинга текущее значение - лучшее место (0 - ещё не попадал в рейтинг).
func (p Predicate) Progress(s Stats) (current, target int) {
	switch p.Kind {
	case KindMinCount:
		return s.Value(p.Metric), p.Threshold
	case KindMaxRank:
		return s.BestRank, p.Threshold
	case KindMinTenureDays:
		return s.TenureDays(), p.Threshold
	default:
		return 0, 0
	}
}

// SkillStat - навык пользователя с числом подтверждений.
type SkillStat struct {
	Name         string
	Category     string
	Endorsements int
}

// Stats - снимок агрегированных счётчиков пользователя на момент AsOf.
type Stats struct {
	UniqueHelped    int
	RequestsCreated int
	HelpOffered     int
	Skills          []SkillStat
	Testimonials    int
	Karma           int
	// BestRank - лучшее место в рейтинге за всё время, 0 - ни разу не попадал.
	BestRank       int
	HelpStreakDays int
	JoinedAt       time.Time
	AsOf           time.Time
	Earned         map[string]struct{}
}

// Has сообщает, есть ли у пользователя значок.
func (s Stats) Has(badgeID string) bool {
	_, ok := s.Earned[badgeID]
	return ok
}

// WithEarned возвращает копию снимка с добавленным значком.
func (s Stats) WithEarned(badgeID string) Stats {
	earned := make(map[string]struct{}, len(s.Earned)+1)
	for id := range s.Earned {
		earned[id] = struct{}{}
	}
	earned[badgeID] = struct{}{}
	s.Earned = earned
	return s
}

func (s Stats) MaxSkillEndorsements() int {
	best := 0
	for _, skill := range s.Skills {
		if skill.Endorsements > best {
			best = skill.Endorsements
		}
	}
	return best
}

// EndorsedCategories - число различных категорий, в которых есть подтверждённые навыки.
func (s Stats) EndorsedCategories() int {
	categories := make(map[string]struct{})
	for _, skill := range s.Skills {
		if skill.Endorsements > 0 {
			categories[skill.Category] = struct{}{}
		}
	}
	return len(categories)
}

func (s Stats) TenureDays() int {
	if s.JoinedAt.IsZero() {
		return 0
	}
	asOf := s.AsOf
	if asOf.IsZero() {
		asOf = time.Now()
	}
	if asOf.Before(s.JoinedAt) {
		return 0
	}
	return int(asOf.Sub(s.JoinedAt).Hours() / 24)
}

func (s Stats) Value(m Metric) int {
	switch m {
	case MetricUniqueHelped:
		return s.UniqueHelped
	case MetricRequestsCreated:
		return s.RequestsCreated
	case MetricHelpOffered:
		return s.HelpOffered
	case MetricMaxSkillEndorsements:
		return s.MaxSkillEndorsements()
	case MetricEndorsedCategories:
		return s.EndorsedCategories()
	case MetricTestimonials:
		return s.Testimonials
	case MetricKarma:
		return s.Karma
	case MetricHelpStreakDays:
		return s.HelpStreakDays
	default:
		return 0
	}
}

// CheckEligibility возвращает true, если значок ещё не получен и правило выполнено.
// Неизвестный значок и значок без правила всегда дают false.
func CheckEligibility(stats Stats, badgeID string) bool {
	b, ok := Lookup(badgeID)
	if !ok {
		return false
	}
	if stats.Has(badgeID) {
		return false
	}
	return b.Rule.Satisfied(stats)
}
