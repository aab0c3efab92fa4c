package handler_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ignatzorin/skillswap-backend/internal/cache"
	"github.com/ignatzorin/skillswap-backend/internal/interface/http/handler"
	"github.com/ignatzorin/skillswap-backend/internal/usecase/ai"
	"github.com/ignatzorin/skillswap-backend/internal/usecase/badge"
	"github.com/ignatzorin/skillswap-backend/internal/usecase/chat"
	"github.com/ignatzorin/skillswap-backend/internal/usecase/fakes"
	"github.com/ignatzorin/skillswap-backend/internal/usecase/karma"
	"github.com/ignatzorin/skillswap-backend/internal/usecase/request"
)

const testUserHeader = "X-Test-User"

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

type testServer struct {
	t      *testing.T
	db     *fakes.DB
	router *gin.Engine
}

// testAuth заменяет middleware авторизации: пользователь передаётся заголовком.
func testAuth(c *gin.Context) {
	if id, err := uuid.Parse(c.GetHeader(testUserHeader)); err == nil {
		c.Set("user_id", id)
	}
	c.Next()
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := fakes.NewDB()
	publisher := fakes.NewPublisher()
	requests := db.Requests()
	chats := db.Chats()
	c := cache.New()

	requestHandler := handler.NewRequestHandler(
		request.NewCreateRequestUseCase(requests, publisher),
		request.NewGetRequestUseCase(requests),
		request.NewListRequestsUseCase(requests),
		request.NewListMyRequestsUseCase(requests),
		request.NewListMyContributionsUseCase(requests),
		request.NewSubmitOfferUseCase(requests, publisher),
		request.NewListOffersUseCase(requests),
		request.NewAcceptOfferUseCase(requests, publisher),
		request.NewRejectOfferUseCase(requests, publisher),
		request.NewAwardKarmaUseCase(requests, publisher, 5),
		c,
	)
	chatHandler := handler.NewChatHandler(
		chat.NewGetOrCreateChatUseCase(chats, requests, publisher),
		chat.NewListMyChatsUseCase(chats),
		chat.NewSendMessageUseCase(chats, publisher, fakes.NewPusher()),
		chat.NewListMessagesUseCase(chats),
		chat.NewMarkChatReadUseCase(chats),
	)
	grantUC := badge.NewGrantBadgeUseCase(db.Badges(), db.Users(), nil)
	badgeHandler := handler.NewBadgeHandler(badge.NewProgressUseCase(db.Stats()), grantUC)
	karmaHandler := handler.NewKarmaHandler(
		karma.NewLeaderboardUseCase(db.KarmaLedger()),
		karma.NewGetKarmaUseCase(db.KarmaLedger()),
		karma.NewAwardUseCase(db.KarmaLedger(), publisher),
		grantUC,
		c,
	)
	aiHandler := handler.NewAIHandler(
		ai.NewSuggestTagsUseCase(nil),
		ai.NewClarityTipsUseCase(nil),
		ai.NewQualityScoreUseCase(nil),
		ai.NewEnhanceDescriptionUseCase(nil),
	)

	r := gin.New()
	r.Use(testAuth)
	r.GET("/api/badges", badgeHandler.Catalog)
	r.POST("/api/users/:id/badges/:badgeId", badgeHandler.Grant)
	r.GET("/api/leaderboard", karmaHandler.Leaderboard)
	r.POST("/api/admin/karma", karmaHandler.Award)
	r.GET("/api/requests", requestHandler.ListRequests)
	r.POST("/api/requests", requestHandler.CreateRequest)
	r.GET("/api/requests/:id", requestHandler.GetRequest)
	r.POST("/api/requests/:id/offers", requestHandler.SubmitOffer)
	r.POST("/api/requests/:id/offers/:offerId/accept", requestHandler.AcceptOffer)
	r.POST("/api/requests/:id/complete", requestHandler.Complete)
	r.POST("/api/chats", chatHandler.GetOrCreate)
	r.POST("/api/chats/:id/messages", chatHandler.SendMessage)
	r.GET("/api/chats/:id/messages", chatHandler.ListMessages)
	r.POST("/api/ai/tags", aiHandler.SuggestTags)

	return &testServer{t: t, db: db, router: r}
}

func (s *testServer) do(method, path string, userID uuid.UUID, body interface{}) (int, envelope) {
	s.t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(s.t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if userID != uuid.Nil {
		req.Header.Set(testUserHeader, userID.String())
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	var env envelope
	require.NoError(s.t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	return w.Code, env
}

func dataField(t *testing.T, env envelope, into interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(env.Data, into))
}

func TestRequestLifecycle(t *testing.T) {
	s := newTestServer(t)
	owner := s.db.SeedUser("Owner")
	helper := s.db.SeedUser("Helper")

	code, env := s.do(http.MethodPost, "/api/requests", owner.ID, map[string]interface{}{
		"title":       "Нужна помощь с Go",
		"description": "Разобраться с контекстами и горутинами",
		"tags":        []string{"go"},
	})
	require.Equal(t, http.StatusCreated, code, env)
	var created struct {
		ID     uuid.UUID `json:"id"`
		Status string    `json:"status"`
	}
	dataField(t, env, &created)
	assert.Equal(t, "open", created.Status)

	base := "/api/requests/" + created.ID.String()
	code, env = s.do(http.MethodPost, base+"/offers", helper.ID, map[string]string{"message": "Могу помочь"})
	require.Equal(t, http.StatusCreated, code, env)
	var offer struct {
		ID uuid.UUID `json:"id"`
	}
	dataField(t, env, &offer)

	t.Run("принять может только автор", func(t *testing.T) {
		code, env := s.do(http.MethodPost, base+"/offers/"+offer.ID.String()+"/accept", helper.ID, nil)
		assert.Equal(t, http.StatusForbidden, code)
		assert.Equal(t, "FORBIDDEN", env.Error.Code)
	})

	code, _ = s.do(http.MethodPost, base+"/offers/"+offer.ID.String()+"/accept", owner.ID, nil)
	require.Equal(t, http.StatusOK, code)

	code, env = s.do(http.MethodPost, base+"/complete", owner.ID, nil)
	require.Equal(t, http.StatusOK, code, env)
	var award struct {
		HelperID uuid.UUID `json:"helper_id"`
		Delta    int       `json:"delta"`
	}
	dataField(t, env, &award)
	assert.Equal(t, helper.ID, award.HelperID)
	assert.Equal(t, 5, award.Delta)
	assert.Equal(t, 5, s.db.KarmaOf(helper.ID))

	t.Run("повторное завершение не начисляет карму", func(t *testing.T) {
		code, env := s.do(http.MethodPost, base+"/complete", owner.ID, nil)
		assert.Equal(t, http.StatusConflict, code)
		assert.Equal(t, "CONFLICT", env.Error.Code)
		assert.Equal(t, 5, s.db.KarmaOf(helper.ID))
	})

	t.Run("рейтинг показывает начисление", func(t *testing.T) {
		code, env := s.do(http.MethodGet, "/api/leaderboard", uuid.Nil, nil)
		require.Equal(t, http.StatusOK, code)
		var entries []struct {
			Rank   int       `json:"rank"`
			UserID uuid.UUID `json:"user_id"`
			Karma  int       `json:"karma"`
		}
		dataField(t, env, &entries)
		require.NotEmpty(t, entries)
		assert.Equal(t, helper.ID, entries[0].UserID)
		assert.Equal(t, 1, entries[0].Rank)
	})
}

func TestRequestHandler_Validation(t *testing.T) {
	s := newTestServer(t)
	owner := s.db.SeedUser("Owner")

	t.Run("без авторизации", func(t *testing.T) {
		code, env := s.do(http.MethodPost, "/api/requests", uuid.Nil, map[string]string{"title": "x"})
		assert.Equal(t, http.StatusUnauthorized, code)
		assert.False(t, env.Success)
	})

	t.Run("некорректный ID", func(t *testing.T) {
		code, env := s.do(http.MethodGet, "/api/requests/not-a-uuid", owner.ID, nil)
		assert.Equal(t, http.StatusBadRequest, code)
		assert.Equal(t, "BAD_REQUEST", env.Error.Code)
	})

	t.Run("несуществующий запрос", func(t *testing.T) {
		code, env := s.do(http.MethodGet, "/api/requests/"+uuid.NewString(), uuid.Nil, nil)
		assert.Equal(t, http.StatusNotFound, code)
		assert.Equal(t, "NOT_FOUND", env.Error.Code)
	})

	t.Run("неизвестный статус в фильтре", func(t *testing.T) {
		code, _ := s.do(http.MethodGet, "/api/requests?status=archived", uuid.Nil, nil)
		assert.Equal(t, http.StatusBadRequest, code)
	})
}

func TestChatHandler(t *testing.T) {
	s := newTestServer(t)
	owner := s.db.SeedUser("Owner")
	helper := s.db.SeedUser("Helper")

	code, env := s.do(http.MethodPost, "/api/requests", owner.ID, map[string]interface{}{
		"title":       "Помогите с SQL",
		"description": "Нужен индекс для большой таблицы",
	})
	require.Equal(t, http.StatusCreated, code, env)
	var req struct {
		ID uuid.UUID `json:"id"`
	}
	dataField(t, env, &req)

	body := map[string]uuid.UUID{"request_id": req.ID, "participant_id": owner.ID}
	code, env = s.do(http.MethodPost, "/api/chats", helper.ID, body)
	require.Equal(t, http.StatusCreated, code, env)
	var first struct {
		Chat struct {
			ID uuid.UUID `json:"id"`
		} `json:"chat"`
		Created bool `json:"created"`
	}
	dataField(t, env, &first)
	assert.True(t, first.Created)

	// Повторный вызов с другой стороны возвращает тот же чат.
	code, env = s.do(http.MethodPost, "/api/chats", owner.ID, map[string]uuid.UUID{"request_id": req.ID, "participant_id": helper.ID})
	require.Equal(t, http.StatusOK, code, env)
	var second struct {
		Chat struct {
			ID uuid.UUID `json:"id"`
		} `json:"chat"`
		Created bool `json:"created"`
	}
	dataField(t, env, &second)
	assert.False(t, second.Created)
	assert.Equal(t, first.Chat.ID, second.Chat.ID)

	messages := "/api/chats/" + first.Chat.ID.String() + "/messages"

	t.Run("пустой текст игнорируется", func(t *testing.T) {
		code, env := s.do(http.MethodPost, messages, helper.ID, map[string]string{"text": "   "})
		assert.Equal(t, http.StatusOK, code)
		assert.True(t, env.Success)
		assert.Equal(t, 0, s.db.MessageCount())
	})

	code, env = s.do(http.MethodPost, messages, helper.ID, map[string]string{"text": "Привет!"})
	require.Equal(t, http.StatusCreated, code, env)

	t.Run("посторонний не читает переписку", func(t *testing.T) {
		stranger := s.db.SeedUser("Stranger")
		code, _ := s.do(http.MethodGet, messages, stranger.ID, nil)
		assert.Equal(t, http.StatusForbidden, code)
	})

	code, env = s.do(http.MethodGet, messages, owner.ID, nil)
	require.Equal(t, http.StatusOK, code)
	var list []struct {
		Text string `json:"text"`
	}
	dataField(t, env, &list)
	require.Len(t, list, 1)
	assert.Equal(t, "Привет!", list[0].Text)
}

func TestBadgeHandler(t *testing.T) {
	s := newTestServer(t)
	user := s.db.SeedUser("User")

	code, env := s.do(http.MethodGet, "/api/badges", uuid.Nil, nil)
	require.Equal(t, http.StatusOK, code)
	var catalog []struct {
		ID string `json:"id"`
	}
	dataField(t, env, &catalog)
	assert.Len(t, catalog, len(badge.ListCatalog()))

	code, env = s.do(http.MethodPost, "/api/users/"+user.ID.String()+"/badges/problem-solver", user.ID, nil)
	assert.Equal(t, http.StatusForbidden, code)
	assert.Equal(t, "FORBIDDEN", env.Error.Code)

	code, _ = s.do(http.MethodPost, "/api/admin/karma", user.ID, map[string]interface{}{
		"user_id": user.ID, "request_id": uuid.New(), "delta": 10,
	})
	assert.Equal(t, http.StatusForbidden, code)
}

func TestAIHandler_FallbackWithoutModel(t *testing.T) {
	s := newTestServer(t)

	code, env := s.do(http.MethodPost, "/api/ai/tags", uuid.Nil, map[string]string{
		"title":       "Help with React hooks",
		"description": "My useEffect runs twice and I want to understand why",
	})
	require.Equal(t, http.StatusOK, code, env)
	var tags struct {
		Tags     []string `json:"tags"`
		Fallback bool     `json:"fallback"`
	}
	dataField(t, env, &tags)
	assert.True(t, tags.Fallback)

	code, env = s.do(http.MethodPost, "/api/ai/tags", uuid.Nil, map[string]string{"title": ""})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "VALIDATION_ERROR", env.Error.Code)
}
