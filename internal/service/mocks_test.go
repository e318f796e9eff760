package service_test

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/tessera-app/tessera/internal/events"
	"github.com/tessera-app/tessera/internal/models"
	"github.com/tessera-app/tessera/internal/repository"
)

type MockLikeRepo struct {
	mock.Mock
}

func (m *MockLikeRepo) Exists(ctx context.Context, from, to uuid.UUID) (bool, error) {
	args := m.Called(ctx, from, to)
	return args.Bool(0), args.Error(1)
}

func (m *MockLikeRepo) Save(ctx context.Context, like *models.Like) error {
	args := m.Called(ctx, like)
	return args.Error(0)
}

func (m *MockLikeRepo) ReverseLikeExists(ctx context.Context, from, to uuid.UUID) (bool, error) {
	args := m.Called(ctx, from, to)
	return args.Bool(0), args.Error(1)
}

func (m *MockLikeRepo) PendingLikers(ctx context.Context, user uuid.UUID) ([]repository.PendingLiker, error) {
	args := m.Called(ctx, user)
	return args.Get(0).([]repository.PendingLiker), args.Error(1)
}

type MockMatchRepo struct {
	mock.Mock
}

func (m *MockMatchRepo) InsertIfAbsent(ctx context.Context, match *models.Match) (*models.Match, bool, error) {
	args := m.Called(ctx, match)
	var stored *models.Match
	if v := args.Get(0); v != nil {
		stored = v.(*models.Match)
	}
	return stored, args.Bool(1), args.Error(2)
}

func (m *MockMatchRepo) GetByID(ctx context.Context, id string) (*models.Match, error) {
	args := m.Called(ctx, id)
	var match *models.Match
	if v := args.Get(0); v != nil {
		match = v.(*models.Match)
	}
	return match, args.Error(1)
}

func (m *MockMatchRepo) Update(ctx context.Context, match *models.Match, from models.MatchState) (bool, error) {
	args := m.Called(ctx, match, from)
	return args.Bool(0), args.Error(1)
}

func (m *MockMatchRepo) ListForUser(ctx context.Context, user uuid.UUID) ([]models.Match, error) {
	args := m.Called(ctx, user)
	return args.Get(0).([]models.Match), args.Error(1)
}

type MockConvoRepo struct {
	mock.Mock
}

func (m *MockConvoRepo) GetByID(ctx context.Context, id string) (*models.Conversation, error) {
	args := m.Called(ctx, id)
	var convo *models.Conversation
	if v := args.Get(0); v != nil {
		convo = v.(*models.Conversation)
	}
	return convo, args.Error(1)
}

func (m *MockConvoRepo) ListForUser(ctx context.Context, user uuid.UUID) ([]models.Conversation, error) {
	args := m.Called(ctx, user)
	return args.Get(0).([]models.Conversation), args.Error(1)
}

func (m *MockConvoRepo) MarkRead(ctx context.Context, id string, user uuid.UUID, at time.Time) error {
	args := m.Called(ctx, id, user, at)
	return args.Error(0)
}

func (m *MockConvoRepo) Archive(ctx context.Context, id string, reason models.EndReason, at time.Time) error {
	args := m.Called(ctx, id, reason, at)
	return args.Error(0)
}

func (m *MockConvoRepo) Hide(ctx context.Context, id string, user uuid.UUID) error {
	args := m.Called(ctx, id, user)
	return args.Error(0)
}

type MockMessageRepo struct {
	mock.Mock
}

func (m *MockMessageRepo) SendInMatch(ctx context.Context, pairID string, sender uuid.UUID, content string) (*models.Message, error) {
	args := m.Called(ctx, pairID, sender, content)
	var msg *models.Message
	if v := args.Get(0); v != nil {
		msg = v.(*models.Message)
	}
	return msg, args.Error(1)
}

func (m *MockMessageRepo) List(ctx context.Context, conversationID string, limit, offset int) ([]models.Message, error) {
	args := m.Called(ctx, conversationID, limit, offset)
	return args.Get(0).([]models.Message), args.Error(1)
}

func (m *MockMessageRepo) Latest(ctx context.Context, conversationID string) (*models.Message, error) {
	args := m.Called(ctx, conversationID)
	var msg *models.Message
	if v := args.Get(0); v != nil {
		msg = v.(*models.Message)
	}
	return msg, args.Error(1)
}

func (m *MockMessageRepo) CountUnread(ctx context.Context, conversationID string, user uuid.UUID) (int, error) {
	args := m.Called(ctx, conversationID, user)
	return args.Int(0), args.Error(1)
}

// recordedEvent captures one Notify call.
type recordedEvent struct {
	Type    events.Type
	Payload any
	Users   []uuid.UUID
}

// fakeNotifier records events instead of touching Redis.
type fakeNotifier struct {
	Events []recordedEvent
}

func (f *fakeNotifier) Notify(_ context.Context, typ events.Type, payload any, users ...uuid.UUID) {
	f.Events = append(f.Events, recordedEvent{Type: typ, Payload: payload, Users: users})
}
