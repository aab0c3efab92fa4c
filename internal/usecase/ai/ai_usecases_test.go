package ai_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/ignatzorin/skillswap-backend/internal/domain/entity"
	"github.com/ignatzorin/skillswap-backend/internal/pkg/apperror"
	"github.com/ignatzorin/skillswap-backend/internal/usecase/ai"
)

type mockAIService struct {
	mock.Mock
}

func (m *mockAIService) SuggestTags(ctx context.Context, title, description string) ([]string, error) {
	args := m.Called(ctx, title, description)
	tags, _ := args.Get(0).([]string)
	return tags, args.Error(1)
}

func (m *mockAIService) ClarityTips(ctx context.Context, title, description string) (string, error) {
	args := m.Called(ctx, title, description)
	return args.String(0), args.Error(1)
}

func (m *mockAIService) QualityScore(ctx context.Context, title, description string) (entity.QualityScore, error) {
	args := m.Called(ctx, title, description)
	return args.Get(0).(entity.QualityScore), args.Error(1)
}

func (m *mockAIService) EnhanceDescription(ctx context.Context, title, description string) (string, error) {
	args := m.Called(ctx, title, description)
	return args.String(0), args.Error(1)
}

var errModel = errors.New("model timeout")

func TestSuggestTags_FromModel(t *testing.T) {
	svc := new(mockAIService)
	svc.On("SuggestTags", mock.Anything, "Помогите с Python", "").
		Return([]string{"Python", "#python", "pandas", "data", "ml", "numpy", "extra"}, nil)

	res, err := ai.NewSuggestTagsUseCase(svc).Execute(context.Background(), "Помогите с Python", "")
	require.NoError(t, err)
	assert.False(t, res.Fallback)
	assert.Equal(t, []string{"python", "pandas", "data", "ml", "numpy"}, res.Tags)
	svc.AssertExpectations(t)
}

func TestSuggestTags_FallbackOnError(t *testing.T) {
	svc := new(mockAIService)
	svc.On("SuggestTags", mock.Anything, mock.Anything, mock.Anything).Return(nil, errModel)

	res, err := ai.NewSuggestTagsUseCase(svc).Execute(context.Background(), "Изучаю гитару и английский", "нужна практика разговорного")
	require.NoError(t, err)
	assert.True(t, res.Fallback)
	assert.Contains(t, res.Tags, "music")
	assert.Contains(t, res.Tags, "languages")
	assert.LessOrEqual(t, len(res.Tags), 5)
}

func TestSuggestTags_FallbackOnEmptyAnswer(t *testing.T) {
	svc := new(mockAIService)
	svc.On("SuggestTags", mock.Anything, mock.Anything, mock.Anything).Return([]string{" ", "#"}, nil)

	res, err := ai.NewSuggestTagsUseCase(svc).Execute(context.Background(), "Рецепт борща", "")
	require.NoError(t, err)
	assert.True(t, res.Fallback)
	assert.Contains(t, res.Tags, "cooking")
}

func TestSuggestTags_NoServiceConfigured(t *testing.T) {
	res, err := ai.NewSuggestTagsUseCase(nil).Execute(context.Background(), "Подготовка к собеседованию", "")
	require.NoError(t, err)
	assert.True(t, res.Fallback)
	assert.Contains(t, res.Tags, "career")
}

func TestInputValidation(t *testing.T) {
	uc := ai.NewClarityTipsUseCase(nil)
	_, err := uc.Execute(context.Background(), "  ", "описание")
	assert.True(t, apperror.IsValidation(err))

	_, err = uc.Execute(context.Background(), "заголовок", strings.Repeat("x", 6001))
	assert.True(t, apperror.IsValidation(err))
}

func TestClarityTips(t *testing.T) {
	svc := new(mockAIService)
	svc.On("ClarityTips", mock.Anything, "t1", "d").Return("• Уточните срок", nil)
	svc.On("ClarityTips", mock.Anything, "t2", "d").Return("", errModel)
	uc := ai.NewClarityTipsUseCase(svc)

	res, err := uc.Execute(context.Background(), "t1", "d")
	require.NoError(t, err)
	assert.Equal(t, "• Уточните срок", res.Tips)
	assert.False(t, res.Fallback)

	res, err = uc.Execute(context.Background(), "t2", "d")
	require.NoError(t, err)
	assert.True(t, res.Fallback)
	assert.True(t, strings.HasPrefix(res.Tips, "• "))
	assert.Contains(t, res.Tips, "срок")
}

func TestClarityTips_FallbackForGoodRequest(t *testing.T) {
	res, err := ai.NewClarityTipsUseCase(nil).Execute(context.Background(),
		"Как настроить CI для Go проекта?",
		"Есть репозиторий на GitHub, хочу запускать тесты и линтер на каждый PR. Нужно до пятницы, срок поджимает, буду рад ссылкам.")
	require.NoError(t, err)
	assert.Equal(t, "• Запрос выглядит понятным, можно публиковать.", res.Tips)
}

func TestQualityScore_ClampsModelOutput(t *testing.T) {
	svc := new(mockAIService)
	svc.On("QualityScore", mock.Anything, mock.Anything, mock.Anything).
		Return(entity.QualityScore{Clarity: 12, Completeness: 0, Friendliness: 7}, nil)

	res, err := ai.NewQualityScoreUseCase(svc).Execute(context.Background(), "t", "d")
	require.NoError(t, err)
	assert.False(t, res.Fallback)
	assert.Equal(t, entity.QualityScore{Clarity: 10, Completeness: 1, Friendliness: 7}, res.Score)
}

func TestQualityScore_FallbackInRange(t *testing.T) {
	svc := new(mockAIService)
	svc.On("QualityScore", mock.Anything, mock.Anything, mock.Anything).Return(entity.QualityScore{}, errModel)

	long := strings.Repeat("Подробное описание задачи. ", 40)
	res, err := ai.NewQualityScoreUseCase(svc).Execute(context.Background(), "Нужна помощь с SQL запросом?", "Привет! "+long+" Спасибо!")
	require.NoError(t, err)
	assert.True(t, res.Fallback)
	for _, v := range []int{res.Score.Clarity, res.Score.Completeness, res.Score.Friendliness} {
		assert.GreaterOrEqual(t, v, 1)
		assert.LessOrEqual(t, v, 10)
	}
	assert.Equal(t, 10, res.Score.Friendliness)
	assert.Equal(t, 10, res.Score.Completeness)
}

func TestEnhanceDescription(t *testing.T) {
	svc := new(mockAIService)
	svc.On("EnhanceDescription", mock.Anything, "ok", mock.Anything).Return("  Улучшенный текст  ", nil)
	svc.On("EnhanceDescription", mock.Anything, "fail", mock.Anything).Return("", errModel)
	uc := ai.NewEnhanceDescriptionUseCase(svc)

	res, err := uc.Execute(context.Background(), "ok", "что-то")
	require.NoError(t, err)
	assert.Equal(t, "Улучшенный текст", res.Description)
	assert.False(t, res.Fallback)

	res, err = uc.Execute(context.Background(), "fail", "  нужна   помощь , с   гитарой ")
	require.NoError(t, err)
	assert.True(t, res.Fallback)
	assert.Equal(t, "Ищу помощь: fail. Нужна помощь, с гитарой.", res.Description)
}

func TestEnhanceDescription_EmptyDescriptionFallback(t *testing.T) {
	res, err := ai.NewEnhanceDescriptionUseCase(nil).Execute(context.Background(), "Урок испанского!", "")
	require.NoError(t, err)
	assert.True(t, res.Fallback)
	assert.True(t, strings.HasPrefix(res.Description, "Ищу помощь: Урок испанского."))
}
