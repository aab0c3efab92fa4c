package validation

import (
	"fmt"
	"net/url"
	"strings"
	"unicode/utf8"
)

// Константы валидации
const (
	MinDisplayNameLength   = 2
	MaxDisplayNameLength   = 100
	MinRequestTitleLength  = 3
	MaxRequestTitleLength  = 120
	MaxRequestDescription  = 5000
	MaxOfferInReturnLength = 500
	MaxEstimatedTimeLength = 50
	MaxTagLength           = 30
	MaxTagsCount           = 10
	MaxOfferMessageLength  = 2000
	MaxBioLength           = 1000
	MaxSkillLength         = 50
	MaxMessageLength       = 5000
	MaxTestimonialLength   = 1000
	MaxLinksCount          = 10
	MaxLinkTitleLength     = 100
	MaxExternalLinkLength  = 500
	MaxAIInputLength       = 6000
)

// ValidateLength проверяет длину строки.
func ValidateLength(fieldName, value string, min, max int) error {
	length := utf8.RuneCountInString(value)
	if min > 0 && length < min {
		return fmt.Errorf("%s должен быть не менее %d символов", fieldName, min)
	}
	if max > 0 && length > max {
		return fmt.Errorf("%s должен быть не более %d символов", fieldName, max)
	}
	return nil
}

// ValidateNonEmpty проверяет, что строка не пустая.
func ValidateNonEmpty(fieldName, value string) error {
	if strings.TrimSpace(value) == "" {
		return fmt.Errorf("%s не может быть пустым", fieldName)
	}
	return nil
}

// ValidateDisplayName проверяет отображаемое имя.
func ValidateDisplayName(displayName string) error {
	displayName = strings.TrimSpace(displayName)
	if displayName == "" {
		return fmt.Errorf("отображаемое имя обязательно")
	}
	return ValidateLength("отображаемое имя", displayName, MinDisplayNameLength, MaxDisplayNameLength)
}

// ValidateRequestTitle проверяет заголовок запроса о помощи.
func ValidateRequestTitle(title string) error {
	title = strings.TrimSpace(title)
	if title == "" {
		return fmt.Errorf("заголовок запроса обязателен")
	}
	return ValidateLength("заголовок запроса", title, MinRequestTitleLength, MaxRequestTitleLength)
}

// ValidateRequestDescription проверяет описание запроса. Пустое описание допустимо.
func ValidateRequestDescription(description string) error {
	return ValidateLength("описание запроса", strings.TrimSpace(description), 0, MaxRequestDescription)
}

// NormalizeTags приводит теги к нижнему регистру, убирает пустые и повторы.
func NormalizeTags(tags []string) ([]string, error) {
	result := make([]string, 0, len(tags))
	seen := make(map[string]bool, len(tags))
	for _, tag := range tags {
		tag = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(tag), "#")))
		if tag == "" || seen[tag] {
			continue
		}
		if utf8.RuneCountInString(tag) > MaxTagLength {
			return nil, fmt.Errorf("тег не может быть длиннее %d символов", MaxTagLength)
		}
		seen[tag] = true
		result = append(result, tag)
	}
	if len(result) > MaxTagsCount {
		return nil, fmt.Errorf("количество тегов не может превышать %d", MaxTagsCount)
	}
	return result, nil
}

// ValidateSkillName проверяет название навыка.
func ValidateSkillName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("название навыка обязательно")
	}
	return ValidateLength("название навыка", name, 1, MaxSkillLength)
}

// ValidateBio проверяет биографию.
func ValidateBio(bio string) error {
	return ValidateLength("биография", strings.TrimSpace(bio), 0, MaxBioLength)
}

// ValidateExternalLink проверяет внешнюю ссылку.
func ValidateExternalLink(link string) error {
	linkStr := strings.TrimSpace(link)
	if linkStr == "" {
		return fmt.Errorf("ссылка не может быть пустой")
	}

	if err := ValidateLength("внешняя ссылка", linkStr, 0, MaxExternalLinkLength); err != nil {
		return err
	}

	parsedURL, err := url.Parse(linkStr)
	if err != nil {
		return fmt.Errorf("некорректный формат URL")
	}

	if parsedURL.Scheme != "http" && parsedURL.Scheme != "https" {
		return fmt.Errorf("ссылка должна начинаться с http:// или https://")
	}

	if parsedURL.Host == "" {
		return fmt.Errorf("ссылка должна содержать доменное имя")
	}
	return nil
}

// ValidateMessageContent проверяет содержимое сообщения чата (пробелы уже отброшены вызывающим).
func ValidateMessageContent(content string) error {
	return ValidateLength("сообщение", content, 1, MaxMessageLength)
}

// ValidateTestimonial проверяет текст отзыва.
func ValidateTestimonial(text string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return fmt.Errorf("текст отзыва не может быть пустым")
	}
	return ValidateLength("текст отзыва", text, 1, MaxTestimonialLength)
}
