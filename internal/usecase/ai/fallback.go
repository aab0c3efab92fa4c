package ai

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/ignatzorin/skillswap-backend/internal/domain/entity"
)

const (
	maxSuggestedTags = 5
	titleWordMin     = 4
)

// tagKeywords сопоставляет корни слов с тегами.
var tagKeywords = []struct {
	stems []string
	tag   string
}{
	{[]string{"python", "питон"}, "python"},
	{[]string{"golang", " go "}, "go"},
	{[]string{"javascript", "js", "react", "vue", "фронтенд", "frontend"}, "frontend"},
	{[]string{"sql", "postgres", "база данных", "баз данных"}, "databases"},
	{[]string{"дизайн", "figma", "design", "макет"}, "design"},
	{[]string{"англ", "english", "немец", "испан", "язык"}, "languages"},
	{[]string{"гитар", "музык", "пиани", "вокал"}, "music"},
	{[]string{"математ", "физик", "хими", "math"}, "academic"},
	{[]string{"резюме", "собеседован", "карьер"}, "career"},
	{[]string{"приготов", "рецепт", "кулинар", "выпечк"}, "cooking"},
	{[]string{"бизнес", "маркетинг", "финанс", "excel"}, "business"},
	{[]string{"спорт", "трениров", " бег", "йог"}, "sports"},
	{[]string{"ремонт", "шить", "вязан", "рукодел"}, "crafts"},
}

var (
	spacesRe    = regexp.MustCompile(`\s+`)
	beforePunct = regexp.MustCompile(`\s+([.,!?;:])`)
	deadlineRe  = regexp.MustCompile(`(?i)(срок|дедлайн|до \d|завтра|сегодня|недел|срочно|deadline|urgent)`)
	politeRe    = regexp.MustCompile(`(?i)(пожалуйста|спасибо|благодар|буду рад|буду рада|please|thanks)`)
	greetingRe  = regexp.MustCompile(`(?i)^(привет|здравствуй|добрый)`)
)

// fallbackTags извлекает теги из словаря и значимых слов заголовка.
func fallbackTags(title, description string) []string {
	text := " " + strings.ToLower(title+" "+description) + " "
	tags := make([]string, 0, maxSuggestedTags)
	seen := make(map[string]bool)
	add := func(tag string) {
		if len(tags) < maxSuggestedTags && !seen[tag] {
			seen[tag] = true
			tags = append(tags, tag)
		}
	}

	for _, kw := range tagKeywords {
		for _, stem := range kw.stems {
			if strings.Contains(text, stem) {
				add(kw.tag)
				break
			}
		}
	}
	for _, word := range strings.FieldsFunc(strings.ToLower(title), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '+' && r != '#'
	}) {
		if utf8.RuneCountInString(word) >= titleWordMin {
			add(word)
		}
	}
	return tags
}

func fallbackTips(title, description string) string {
	desc := strings.TrimSpace(description)
	tips := []string{}

	if utf8.RuneCountInString(strings.TrimSpace(title)) < 15 {
		tips = append(tips, "Сделайте заголовок конкретнее: назовите навык и задачу.")
	}
	if utf8.RuneCountInString(desc) < 80 {
		tips = append(tips, "Добавьте подробностей: что уже пробовали и какой результат нужен.")
	}
	if !strings.Contains(title+desc, "?") {
		tips = append(tips, "Сформулируйте главный вопрос, на который ждёте ответ.")
	}
	if !deadlineRe.MatchString(title + " " + desc) {
		tips = append(tips, "Укажите срок или насколько это срочно.")
	}
	if len(tips) == 0 {
		tips = append(tips, "Запрос выглядит понятным, можно публиковать.")
	}
	return "• " + strings.Join(tips, "\n• ")
}

func fallbackQuality(title, description string) entity.QualityScore {
	titleLen := utf8.RuneCountInString(strings.TrimSpace(title))
	descLen := utf8.RuneCountInString(strings.TrimSpace(description))

	clarity := 3 + titleLen/10
	if strings.Contains(title+description, "?") {
		clarity += 2
	}
	completeness := 2 + descLen/60
	if deadlineRe.MatchString(title + " " + description) {
		completeness++
	}
	friendliness := 6
	if politeRe.MatchString(description) {
		friendliness += 3
	}
	if greetingRe.MatchString(strings.TrimSpace(description)) {
		friendliness++
	}

	return entity.QualityScore{
		Clarity:      clarity,
		Completeness: completeness,
		Friendliness: friendliness,
	}.Clamp()
}

func fallbackEnhance(title, description string) string {
	desc := normalizeSpacing(description)
	opening := fmt.Sprintf("Ищу помощь: %s.", strings.TrimRight(strings.TrimSpace(title), ".!?"))
	if desc == "" {
		return opening + " Буду благодарен за любые советы и подсказки."
	}
	desc = capitalize(desc)
	if last, _ := utf8.DecodeLastRuneInString(desc); !strings.ContainsRune(".!?", last) {
		desc += "."
	}
	return opening + " " + desc
}

func normalizeSpacing(text string) string {
	text = spacesRe.ReplaceAllString(text, " ")
	text = beforePunct.ReplaceAllString(text, "$1")
	return strings.TrimSpace(text)
}

func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	return string(unicode.ToUpper(r)) + s[size:]
}
