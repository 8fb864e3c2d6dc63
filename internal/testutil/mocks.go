package testutil

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/DmitryDubovikov/tutors-backend/internal/domain/booking"
	domainErrors "github.com/DmitryDubovikov/tutors-backend/internal/domain/errors"
	"github.com/DmitryDubovikov/tutors-backend/internal/domain/outbox"
	"github.com/DmitryDubovikov/tutors-backend/internal/domain/payment"
	"github.com/DmitryDubovikov/tutors-backend/internal/domain/tutor"
	"github.com/google/uuid"
)

// --- Payment Repository Mock ---

// MockPaymentRepository is an in-memory implementation of payment.Repository.
// Per-method Func overrides take precedence over the default map-backed
// behavior.
type MockPaymentRepository struct {
	mu       sync.Mutex
	payments map[uuid.UUID]*payment.Payment
	byKey    map[string]uuid.UUID
	byIntent map[string]uuid.UUID

	CreateFunc              func(ctx context.Context, p *payment.Payment) error
	GetByIDFunc             func(ctx context.Context, id uuid.UUID) (*payment.Payment, error)
	GetByIdempotencyKeyFunc func(ctx context.Context, key string) (*payment.Payment, error)
	GetByIntentIDFunc       func(ctx context.Context, intentID string) (*payment.Payment, error)
	UpdateFunc              func(ctx context.Context, p *payment.Payment) error
}

func NewMockPaymentRepository() *MockPaymentRepository {
	return &MockPaymentRepository{
		payments: make(map[uuid.UUID]*payment.Payment),
		byKey:    make(map[string]uuid.UUID),
		byIntent: make(map[string]uuid.UUID),
	}
}

func (m *MockPaymentRepository) Create(ctx context.Context, p *payment.Payment) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, p)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.byKey[p.IdempotencyKey]; exists {
		return domainErrors.ErrDuplicateIdempotencyKey
	}
	cp := *p
	m.payments[p.ID] = &cp
	m.byKey[p.IdempotencyKey] = p.ID
	m.byIntent[p.PaymentIntentID] = p.ID
	return nil
}

func (m *MockPaymentRepository) GetByID(ctx context.Context, id uuid.UUID) (*payment.Payment, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.payments[id]
	if !ok {
		return nil, domainErrors.ErrPaymentNotFound
	}
	cp := *p
	return &cp, nil
}

func (m *MockPaymentRepository) GetByIdempotencyKey(ctx context.Context, key string) (*payment.Payment, error) {
	if m.GetByIdempotencyKeyFunc != nil {
		return m.GetByIdempotencyKeyFunc(ctx, key)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	id, ok := m.byKey[key]
	if !ok {
		return nil, domainErrors.ErrPaymentNotFound
	}
	cp := *m.payments[id]
	return &cp, nil
}

func (m *MockPaymentRepository) GetByIntentID(ctx context.Context, intentID string) (*payment.Payment, error) {
	if m.GetByIntentIDFunc != nil {
		return m.GetByIntentIDFunc(ctx, intentID)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	id, ok := m.byIntent[intentID]
	if !ok {
		return nil, domainErrors.ErrPaymentNotFound
	}
	cp := *m.payments[id]
	return &cp, nil
}

func (m *MockPaymentRepository) GetByIntentIDForUser(ctx context.Context, intentID string, userID uuid.UUID) (*payment.Payment, error) {
	p, err := m.GetByIntentID(ctx, intentID)
	if err != nil {
		return nil, err
	}
	if p.UserID != userID {
		return nil, domainErrors.ErrPaymentNotFound
	}
	return p, nil
}

func (m *MockPaymentRepository) Update(ctx context.Context, p *payment.Payment) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, p)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.payments[p.ID]; !ok {
		return domainErrors.ErrPaymentNotFound
	}
	cp := *p
	m.payments[p.ID] = &cp
	return nil
}

func (m *MockPaymentRepository) ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*payment.Payment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*payment.Payment
	for _, p := range m.payments {
		if p.UserID == userID {
			cp := *p
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (m *MockPaymentRepository) ListStuckProcessing(ctx context.Context, cutoff time.Time, limit int) ([]*payment.Payment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*payment.Payment
	for _, p := range m.payments {
		if p.Status == payment.StatusProcessing && p.UpdatedAt.Before(cutoff) {
			cp := *p
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UpdatedAt.Before(out[j].UpdatedAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// Count returns the number of stored payments.
func (m *MockPaymentRepository) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.payments)
}

// --- Booking Repository Mock ---

// MockBookingRepository is an in-memory implementation of booking.Repository.
type MockBookingRepository struct {
	mu       sync.Mutex
	bookings map[uuid.UUID]*booking.Booking

	GetByIDFunc func(ctx context.Context, id uuid.UUID) (*booking.Booking, error)
	UpdateFunc  func(ctx context.Context, b *booking.Booking) error
}

func NewMockBookingRepository() *MockBookingRepository {
	return &MockBookingRepository{bookings: make(map[uuid.UUID]*booking.Booking)}
}

func (m *MockBookingRepository) Create(ctx context.Context, b *booking.Booking) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *b
	m.bookings[b.ID] = &cp
	return nil
}

func (m *MockBookingRepository) GetByID(ctx context.Context, id uuid.UUID) (*booking.Booking, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.bookings[id]
	if !ok {
		return nil, domainErrors.ErrBookingNotFound
	}
	cp := *b
	return &cp, nil
}

func (m *MockBookingRepository) GetByIDForStudent(ctx context.Context, id, studentID uuid.UUID) (*booking.Booking, error) {
	b, err := m.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if b.StudentID != studentID {
		return nil, domainErrors.ErrBookingNotFound
	}
	return b, nil
}

func (m *MockBookingRepository) Update(ctx context.Context, b *booking.Booking) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, b)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.bookings[b.ID]; !ok {
		return domainErrors.ErrBookingNotFound
	}
	cp := *b
	m.bookings[b.ID] = &cp
	return nil
}

func (m *MockBookingRepository) ListByStudent(ctx context.Context, studentID uuid.UUID, limit, offset int) ([]*booking.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*booking.Booking
	for _, b := range m.bookings {
		if b.StudentID == studentID {
			cp := *b
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

// --- Tutor Repository Mock ---

// MockTutorRepository is an in-memory implementation of tutor.Repository.
type MockTutorRepository struct {
	mu     sync.Mutex
	tutors map[uuid.UUID]*tutor.Tutor
}

func NewMockTutorRepository() *MockTutorRepository {
	return &MockTutorRepository{tutors: make(map[uuid.UUID]*tutor.Tutor)}
}

func (m *MockTutorRepository) Create(ctx context.Context, t *tutor.Tutor) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *t
	m.tutors[t.ID] = &cp
	return nil
}

func (m *MockTutorRepository) GetByID(ctx context.Context, id uuid.UUID) (*tutor.Tutor, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.tutors[id]
	if !ok {
		return nil, domainErrors.ErrTutorNotFound
	}
	cp := *t
	return &cp, nil
}

func (m *MockTutorRepository) Update(ctx context.Context, t *tutor.Tutor) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.tutors[t.ID]; !ok {
		return domainErrors.ErrTutorNotFound
	}
	cp := *t
	m.tutors[t.ID] = &cp
	return nil
}

func (m *MockTutorRepository) Delete(ctx context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.tutors[id]; !ok {
		return domainErrors.ErrTutorNotFound
	}
	delete(m.tutors, id)
	return nil
}

func (m *MockTutorRepository) List(ctx context.Context, limit, offset int) ([]*tutor.Tutor, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*tutor.Tutor
	for _, t := range m.tutors {
		cp := *t
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

// --- Outbox Repository Mock ---

// MockOutboxRepository is an in-memory implementation of outbox.Repository.
type MockOutboxRepository struct {
	mu     sync.Mutex
	events []*outbox.Event

	AppendFunc func(ctx context.Context, event *outbox.Event) error
}

func NewMockOutboxRepository() *MockOutboxRepository {
	return &MockOutboxRepository{}
}

func (m *MockOutboxRepository) Append(ctx context.Context, event *outbox.Event) error {
	if m.AppendFunc != nil {
		return m.AppendFunc(ctx, event)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *event
	m.events = append(m.events, &cp)
	return nil
}

func (m *MockOutboxRepository) GetUnpublished(ctx context.Context, limit int) ([]*outbox.Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*outbox.Event
	for _, e := range m.events {
		if e.PublishedAt == nil {
			cp := *e
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *MockOutboxRepository) MarkPublished(ctx context.Context, id uuid.UUID, publishedAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, e := range m.events {
		if e.ID == id && e.PublishedAt == nil {
			ts := publishedAt
			e.PublishedAt = &ts
			return nil
		}
	}
	return nil
}

// Events returns a snapshot of all stored events.
func (m *MockOutboxRepository) Events() []*outbox.Event {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*outbox.Event, 0, len(m.events))
	for _, e := range m.events {
		cp := *e
		out = append(out, &cp)
	}
	return out
}

// Discard drops all events, emulating a rolled-back transaction.
func (m *MockOutboxRepository) Discard() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = nil
}

// --- Transaction Manager Mock ---

// MockTxManager runs the callback without a real transaction. When FailWith
// is set the callback still runs but the whole transaction reports failure,
// and RolledBack is flipped so tests can assert rollback behavior.
type MockTxManager struct {
	FailWith   error
	RolledBack bool
	Calls      int
}

func (m *MockTxManager) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	m.Calls++
	if err := fn(ctx); err != nil {
		m.RolledBack = true
		return err
	}
	if m.FailWith != nil {
		m.RolledBack = true
		return m.FailWith
	}
	return nil
}

// --- Enqueuer Mock ---

// EnqueuedTask records one Enqueue call.
type EnqueuedTask struct {
	Task    string
	Payload any
}

// MockEnqueuer records enqueued tasks.
type MockEnqueuer struct {
	mu    sync.Mutex
	tasks []EnqueuedTask

	EnqueueFunc func(ctx context.Context, task string, payload any) error
}

func (m *MockEnqueuer) Enqueue(ctx context.Context, task string, payload any) error {
	if m.EnqueueFunc != nil {
		return m.EnqueueFunc(ctx, task, payload)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tasks = append(m.tasks, EnqueuedTask{Task: task, Payload: payload})
	return nil
}

// Tasks returns a snapshot of recorded tasks.
func (m *MockEnqueuer) Tasks() []EnqueuedTask {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]EnqueuedTask, len(m.tasks))
	copy(out, m.tasks)
	return out
}

// TasksNamed returns recorded tasks with the given name.
func (m *MockEnqueuer) TasksNamed(name string) []EnqueuedTask {
	var out []EnqueuedTask
	for _, t := range m.Tasks() {
		if t.Task == name {
			out = append(out, t)
		}
	}
	return out
}

// --- Broker Producer Mock ---

// SentMessage records one broker send.
type SentMessage struct {
	Topic string
	Key   string
	Value []byte
}

// MockBrokerProducer records sent messages. SendFunc overrides the default
// always-succeed behavior.
type MockBrokerProducer struct {
	mu       sync.Mutex
	messages []SentMessage

	SendFunc func(ctx context.Context, topic, key string, value []byte) error
}

func (m *MockBrokerProducer) Send(ctx context.Context, topic, key string, value []byte) error {
	if m.SendFunc != nil {
		if err := m.SendFunc(ctx, topic, key, value); err != nil {
			return err
		}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.messages = append(m.messages, SentMessage{Topic: topic, Key: key, Value: value})
	return nil
}

// Messages returns a snapshot of sent messages.
func (m *MockBrokerProducer) Messages() []SentMessage {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]SentMessage, len(m.messages))
	copy(out, m.messages)
	return out
}
