package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/ignatzorin/skillswap-backend/internal/domain/entity"
	openai "github.com/sashabaranov/go-openai"
)

const systemPrompt = "Ты помощник сообщества взаимопомощи. Пользователи публикуют запросы о помощи с навыками и обменом знаниями. Отвечай кратко и по-русски."

var codeBlockRe = regexp.MustCompile("```(?:json)?\\s*([\\s\\S]*?)\\s*```")

// OpenAIService ходит в OpenAI-совместимый chat completions API.
type OpenAIService struct {
	client *openai.Client
	model  string
}

func NewOpenAIService(baseURL, apiKey, model string, timeout time.Duration) *OpenAIService {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = strings.TrimSuffix(baseURL, "/")
	}
	cfg.HTTPClient = &http.Client{Timeout: timeout}
	if model == "" {
		model = "gpt-4o-mini"
	}
	return &OpenAIService{client: openai.NewClientWithConfig(cfg), model: model}
}

func (s *OpenAIService) SuggestTags(ctx context.Context, title, description string) ([]string, error) {
	prompt := fmt.Sprintf(
		"Предложи до 5 коротких тегов для запроса о помощи. Ответь одной строкой через запятую, без пояснений.\nЗаголовок: %s\nОписание: %s",
		title, description)
	content, err := s.complete(ctx, prompt)
	if err != nil {
		return nil, err
	}
	return ParseTagList(content), nil
}

func (s *OpenAIService) ClarityTips(ctx context.Context, title, description string) (string, error) {
	prompt := fmt.Sprintf(
		"Дай 2-4 совета, как сделать запрос о помощи понятнее. Каждый совет с новой строки, начиная с \"• \".\nЗаголовок: %s\nОписание: %s",
		title, description)
	return s.complete(ctx, prompt)
}

func (s *OpenAIService) QualityScore(ctx context.Context, title, description string) (entity.QualityScore, error) {
	prompt := fmt.Sprintf(
		"Оцени запрос о помощи по шкале от 1 до 10 по трём критериям: ясность, полнота, дружелюбие. "+
			"Ответь только JSON вида {\"clarity\": n, \"completeness\": n, \"friendliness\": n}.\nЗаголовок: %s\nОписание: %s",
		title, description)
	content, err := s.complete(ctx, prompt)
	if err != nil {
		return entity.QualityScore{}, err
	}
	return ParseQualityScore(content)
}

func (s *OpenAIService) EnhanceDescription(ctx context.Context, title, description string) (string, error) {
	prompt := fmt.Sprintf(
		"Перепиши описание запроса о помощи, чтобы оно было понятным и дружелюбным. Сохрани смысл, не добавляй выдуманных фактов. Верни только новый текст.\nЗаголовок: %s\nОписание: %s",
		title, description)
	return s.complete(ctx, prompt)
}

func (s *OpenAIService) complete(ctx context.Context, prompt string) (string, error) {
	resp, err := s.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: s.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		Temperature: 0.3,
	})
	if err != nil {
		return "", fmt.Errorf("ai: запрос к модели: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("ai: пустой ответ")
	}
	content := strings.TrimSpace(resp.Choices[0].Message.Content)
	if content == "" {
		return "", fmt.Errorf("ai: пустой ответ")
	}
	return content, nil
}

// ParseTagList разбирает ответ модели вида "go, api, #backend".
func ParseTagList(content string) []string {
	content = strings.ReplaceAll(content, "\n", ",")
	parts := strings.Split(content, ",")
	tags := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.Trim(strings.TrimSpace(p), "\"'`.-•*")
		p = strings.TrimSpace(strings.TrimPrefix(p, "#"))
		if p != "" {
			tags = append(tags, p)
		}
	}
	return tags
}

// ParseQualityScore достаёт JSON с оценками, даже если модель обернула его в markdown.
func ParseQualityScore(content string) (entity.QualityScore, error) {
	var score entity.QualityScore
	candidates := make([]string, 0, 2)
	if m := codeBlockRe.FindStringSubmatch(content); len(m) > 1 {
		candidates = append(candidates, m[1])
	}
	if start, end := strings.Index(content, "{"), strings.LastIndex(content, "}"); start != -1 && end > start {
		candidates = append(candidates, content[start:end+1])
	}
	for _, c := range candidates {
		if err := json.Unmarshal([]byte(c), &score); err == nil {
			return score, nil
		}
	}
	return score, fmt.Errorf("ai: не удалось разобрать оценку: %q", content)
}
