package badge

type Category string

const (
	CategoryHelping    Category = "helping"
	CategoryCommunity  Category = "community"
	CategorySkills     Category = "skills"
	CategoryReputation Category = "reputation"
	CategoryStreak     Category = "streak"
	CategorySpecial    Category = "special"
)

type Tier string

const (
	TierBronze   Tier = "Bronze"
	TierSilver   Tier = "Silver"
	TierGold     Tier = "Gold"
	TierPlatinum Tier = "Platinum"
)

// Badge - неизменяемая запись каталога.
type Badge struct {
	ID          string
	Name        string
	Description string
	Category    Category
	Tier        Tier
	Points      int
	Icon        string
	Rule        Predicate
}

// SkillGuruID - значок за 5 подтверждений одного навыка.
const SkillGuruID = "skill-endorsed-5"

// SkillGuruThreshold - число подтверждений, на котором срабатывает проверка значков.
const SkillGuruThreshold = 5

var catalog = []Badge{
	{ID: "first-help", Name: "Первая помощь", Description: "Помог первому участнику", Category: CategoryHelping, Tier: TierBronze, Points: 10, Icon: "hand-heart", Rule: MinCount(MetricUniqueHelped, 1)},
	{ID: "helper-5", Name: "Помощник", Description: "Помог 5 разным участникам", Category: CategoryHelping, Tier: TierSilver, Points: 25, Icon: "hands-helping", Rule: MinCount(MetricUniqueHelped, 5)},
	{ID: "helper-25", Name: "Наставник", Description: "Помог 25 разным участникам", Category: CategoryHelping, Tier: TierGold, Points: 75, Icon: "medal", Rule: MinCount(MetricUniqueHelped, 25)},
	{ID: "helper-100", Name: "Герой сообщества", Description: "Помог 100 разным участникам", Category: CategoryHelping, Tier: TierPlatinum, Points: 200, Icon: "crown", Rule: MinCount(MetricUniqueHelped, 100)},

	{ID: "first-request", Name: "Первый вопрос", Description: "Опубликовал первый запрос", Category: CategoryCommunity, Tier: TierBronze, Points: 5, Icon: "question", Rule: MinCount(MetricRequestsCreated, 1)},
	{ID: "curious-mind", Name: "Любознательный", Description: "Опубликовал 10 запросов", Category: CategoryCommunity, Tier: TierSilver, Points: 20, Icon: "lightbulb", Rule: MinCount(MetricRequestsCreated, 10)},
	{ID: "generous", Name: "Щедрая душа", Description: "Предложил помощь 20 раз", Category: CategoryCommunity, Tier: TierGold, Points: 40, Icon: "gift", Rule: MinCount(MetricHelpOffered, 20)},

	{ID: SkillGuruID, Name: "Skill Guru", Description: "Навык подтвердили 5 участников", Category: CategorySkills, Tier: TierSilver, Points: 30, Icon: "star", Rule: MinCount(MetricMaxSkillEndorsements, SkillGuruThreshold)},
	{ID: "skill-endorsed-20", Name: "Признанный эксперт", Description: "Навык подтвердили 20 участников", Category: CategorySkills, Tier: TierGold, Points: 80, Icon: "stars", Rule: MinCount(MetricMaxSkillEndorsements, 20)},
	{ID: "multi-skilled", Name: "Многогранный", Description: "Подтверждённые навыки в 5 категориях", Category: CategorySkills, Tier: TierGold, Points: 60, Icon: "palette", Rule: MinCount(MetricEndorsedCategories, 5)},

	{ID: "testimonial-3", Name: "Добрая слава", Description: "Получил 3 одобренных отзыва", Category: CategoryReputation, Tier: TierBronze, Points: 15, Icon: "quote", Rule: MinCount(MetricTestimonials, 3)},
	{ID: "testimonial-10", Name: "Любимец сообщества", Description: "Получил 10 одобренных отзывов", Category: CategoryReputation, Tier: TierGold, Points: 60, Icon: "heart", Rule: MinCount(MetricTestimonials, 10)},
	{ID: "top-10", Name: "Топ-10", Description: "Вошёл в десятку рейтинга", Category: CategoryReputation, Tier: TierSilver, Points: 50, Icon: "trophy", Rule: MaxRank(10)},
	{ID: "top-3", Name: "Пьедестал", Description: "Вошёл в тройку рейтинга", Category: CategoryReputation, Tier: TierGold, Points: 100, Icon: "podium", Rule: MaxRank(3)},
	{ID: "champion", Name: "Чемпион", Description: "Занял первое место в рейтинге", Category: CategoryReputation, Tier: TierPlatinum, Points: 250, Icon: "crown-gold", Rule: MaxRank(1)},
	{ID: "karma-100", Name: "Сотня", Description: "Набрал 100 кармы", Category: CategoryReputation, Tier: TierSilver, Points: 50, Icon: "sparkles", Rule: MinCount(MetricKarma, 100)},

	{ID: "streak-7", Name: "Неделя добра", Description: "Помогал 7 дней подряд", Category: CategoryStreak, Tier: TierSilver, Points: 35, Icon: "flame", Rule: MinCount(MetricHelpStreakDays, 7)},
	{ID: "streak-30", Name: "Месяц добра", Description: "Помогал 30 дней подряд", Category: CategoryStreak, Tier: TierPlatinum, Points: 150, Icon: "fire", Rule: MinCount(MetricHelpStreakDays, 30)},

	{ID: "veteran", Name: "Ветеран", Description: "Год в сообществе", Category: CategorySpecial, Tier: TierGold, Points: 50, Icon: "shield", Rule: MinTenureDays(365)},
	{ID: "problem-solver", Name: "Решатель проблем", Description: "Выдаётся модераторами за особый вклад", Category: CategorySpecial, Tier: TierPlatinum, Points: 100, Icon: "puzzle", Rule: Manual()},
}

var byID = func() map[string]Badge {
	m := make(map[string]Badge, len(catalog))
	for _, b := range catalog {
		m[b.ID] = b
	}
	return m
}()

// Catalog возвращает копию каталога в порядке отображения.
func Catalog() []Badge {
	out := make([]Badge, len(catalog))
	copy(out, catalog)
	return out
}

func Lookup(id string) (Badge, bool) {
	b, ok := byID[id]
	return b, ok
}

// IsManual сообщает, что значок не имеет правила и выдаётся только вручную.
func (b Badge) IsManual() bool {
	return b.Rule.Kind == KindNone
}
