package fakes

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/ignatzorin/skillswap-backend/internal/domain/entity"
	"github.com/ignatzorin/skillswap-backend/internal/domain/repository"
	"github.com/ignatzorin/skillswap-backend/internal/pkg/apperror"
)

// NotificationRepository можно заставить падать через Err.
type NotificationRepository struct {
	db  *DB
	Err error
}

func (db *DB) Notifications() *NotificationRepository { return &NotificationRepository{db: db} }

func (r *NotificationRepository) Create(ctx context.Context, n *entity.Notification) (bool, error) {
	if r.Err != nil {
		return false, r.Err
	}
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if n.EventID != nil {
		if _, seen := r.db.eventIDs[*n.EventID]; seen {
			return false, nil
		}
		r.db.eventIDs[*n.EventID] = struct{}{}
	}
	c := *n
	r.db.notifications[n.ID] = &c
	return true, nil
}

func (r *NotificationRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Notification, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	n, ok := r.db.notifications[id]
	if !ok {
		return nil, apperror.ErrNotificationNotFound
	}
	c := *n
	return &c, nil
}

func (r *NotificationRepository) ListByRecipient(ctx context.Context, recipientID uuid.UUID, unreadOnly bool, limit, offset int) ([]*entity.Notification, int, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	var matched []*entity.Notification
	for _, n := range r.db.notifications {
		if n.RecipientID != recipientID || (unreadOnly && n.IsRead) {
			continue
		}
		c := *n
		matched = append(matched, &c)
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].CreatedAt.After(matched[j].CreatedAt) })
	total := len(matched)
	if offset >= total {
		return []*entity.Notification{}, total, nil
	}
	end := total
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	return matched[offset:end], total, nil
}

func (r *NotificationRepository) CountUnread(ctx context.Context, recipientID uuid.UUID) (int, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	count := 0
	for _, n := range r.db.notifications {
		if n.RecipientID == recipientID && !n.IsRead {
			count++
		}
	}
	return count, nil
}

func (r *NotificationRepository) MarkAsRead(ctx context.Context, id uuid.UUID) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	n, ok := r.db.notifications[id]
	if !ok {
		return apperror.ErrNotificationNotFound
	}
	n.IsRead = true
	return nil
}

func (r *NotificationRepository) MarkAllAsRead(ctx context.Context, recipientID uuid.UUID) (int64, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	var updated int64
	for _, n := range r.db.notifications {
		if n.RecipientID == recipientID && !n.IsRead {
			n.IsRead = true
			updated++
		}
	}
	return updated, nil
}

func (r *NotificationRepository) Delete(ctx context.Context, id uuid.UUID) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if _, ok := r.db.notifications[id]; !ok {
		return apperror.ErrNotificationNotFound
	}
	delete(r.db.notifications, id)
	return nil
}

// Publisher запоминает опубликованные события вместо записи в outbox.
type Publisher struct {
	mu          sync.Mutex
	Events      []repository.NotifyEvent
	BadgeChecks []uuid.UUID
}

func NewPublisher() *Publisher { return &Publisher{} }

func (p *Publisher) Notify(ctx context.Context, event repository.NotifyEvent) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Events = append(p.Events, event)
}

func (p *Publisher) BadgeCheck(ctx context.Context, userID uuid.UUID) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.BadgeChecks = append(p.BadgeChecks, userID)
}

// EventsFor возвращает события, адресованные пользователю.
func (p *Publisher) EventsFor(userID uuid.UUID) []repository.NotifyEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	var result []repository.NotifyEvent
	for _, e := range p.Events {
		if e.RecipientID == userID {
			result = append(result, e)
		}
	}
	return result
}

func (p *Publisher) BadgeChecksFor(userID uuid.UUID) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	count := 0
	for _, id := range p.BadgeChecks {
		if id == userID {
			count++
		}
	}
	return count
}

type Push struct {
	UserID uuid.UUID
	Event  string
	Data   interface{}
}

type Pusher struct {
	mu     sync.Mutex
	Pushes []Push
}

func NewPusher() *Pusher { return &Pusher{} }

func (p *Pusher) Push(userID uuid.UUID, event string, data interface{}) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Pushes = append(p.Pushes, Push{UserID: userID, Event: event, Data: data})
}

func (p *Pusher) Count(event string) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	count := 0
	for _, push := range p.Pushes {
		if push.Event == event {
			count++
		}
	}
	return count
}
