// Package fakes содержит in-memory реализации репозиториев для тестов use case слоя.
// Семантика повторяет SQL-адаптеры: уникальные ключи, условные апдейты и атомарные счётчики.
package fakes

import (
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/ignatzorin/skillswap-backend/internal/domain/entity"
)

type skillKey struct {
	userID uuid.UUID
	name   string
}

type ledgerKey struct {
	requestID uuid.UUID
	userID    uuid.UUID
}

// DB - общее состояние всех фейковых репозиториев.
type DB struct {
	mu sync.Mutex

	users         map[uuid.UUID]*entity.User
	skills        map[skillKey]*entity.Skill
	badges        map[uuid.UUID]map[string]time.Time
	requests      map[uuid.UUID]*entity.Request
	offers        map[uuid.UUID]*entity.Offer
	chats         map[uuid.UUID]*entity.Chat
	messages      []*entity.Message
	notifications map[uuid.UUID]*entity.Notification
	eventIDs      map[uuid.UUID]struct{}
	testimonials  map[uuid.UUID]*entity.Testimonial
	ledger        map[ledgerKey]int
}

func NewDB() *DB {
	return &DB{
		users:         make(map[uuid.UUID]*entity.User),
		skills:        make(map[skillKey]*entity.Skill),
		badges:        make(map[uuid.UUID]map[string]time.Time),
		requests:      make(map[uuid.UUID]*entity.Request),
		offers:        make(map[uuid.UUID]*entity.Offer),
		chats:         make(map[uuid.UUID]*entity.Chat),
		notifications: make(map[uuid.UUID]*entity.Notification),
		eventIDs:      make(map[uuid.UUID]struct{}),
		testimonials:  make(map[uuid.UUID]*entity.Testimonial),
		ledger:        make(map[ledgerKey]int),
	}
}

// SeedUser создаёт пользователя с указанным именем и возвращает его копию.
func (db *DB) SeedUser(name string) *entity.User {
	u, _ := entity.NewUser(entity.Identity{ExternalID: "ext-" + uuid.NewString(), DisplayName: name})
	db.mu.Lock()
	defer db.mu.Unlock()
	db.users[u.ID] = cloneUser(u)
	return u
}

// KarmaOf возвращает текущую карму пользователя напрямую из состояния.
func (db *DB) KarmaOf(userID uuid.UUID) int {
	db.mu.Lock()
	defer db.mu.Unlock()
	if u, ok := db.users[userID]; ok {
		return u.Karma
	}
	return 0
}

// NotificationsFor возвращает записанные уведомления получателя в порядке создания.
func (db *DB) NotificationsFor(userID uuid.UUID) []*entity.Notification {
	db.mu.Lock()
	defer db.mu.Unlock()
	var result []*entity.Notification
	for _, n := range db.notifications {
		if n.RecipientID == userID {
			c := *n
			result = append(result, &c)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].CreatedAt.Before(result[j].CreatedAt) })
	return result
}

func cloneUser(u *entity.User) *entity.User {
	c := *u
	c.Links = append([]entity.Link(nil), u.Links...)
	if u.BestRank != nil {
		r := *u.BestRank
		c.BestRank = &r
	}
	return &c
}

func cloneSkill(s *entity.Skill) *entity.Skill {
	c := *s
	c.Endorsements = append([]uuid.UUID{}, s.Endorsements...)
	return &c
}

func cloneRequest(r *entity.Request) *entity.Request {
	c := *r
	c.Tags = append([]string(nil), r.Tags...)
	return &c
}

func cloneOffer(o *entity.Offer) *entity.Offer {
	c := *o
	return &c
}

func cloneChat(ch *entity.Chat) *entity.Chat {
	c := *ch
	c.Participants = append([]uuid.UUID(nil), ch.Participants...)
	c.Unread = make(map[uuid.UUID]int, len(ch.Unread))
	for k, v := range ch.Unread {
		c.Unread[k] = v
	}
	return &c
}
