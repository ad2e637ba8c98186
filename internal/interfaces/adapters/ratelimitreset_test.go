package adapters

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"karnex/internal/shared/logger"
)

type mockResetter struct{ mock.Mock }

func (m *mockResetter) Reset(ctx context.Context, key string) error {
	return m.Called(ctx, key).Error(0)
}

type mockPublisher struct{ mock.Mock }

func (m *mockPublisher) PublishReset(ctx context.Context, key string) error {
	return m.Called(ctx, key).Error(0)
}

func TestBroadcastResetter_Reset(t *testing.T) {
	local := new(mockResetter)
	pub := new(mockPublisher)
	r := NewBroadcastResetter(local, pub, logger.NewNopLogger())

	local.On("Reset", mock.Anything, "1.2.3.4").Return(nil)
	pub.On("PublishReset", mock.Anything, "1.2.3.4").Return(errors.New("redis down"))

	assert.NoError(t, r.Reset(context.Background(), "1.2.3.4"))
	local.AssertExpectations(t)
	pub.AssertExpectations(t)
}

func TestBroadcastResetter_LocalFailureSkipsBroadcast(t *testing.T) {
	local := new(mockResetter)
	pub := new(mockPublisher)
	r := NewBroadcastResetter(local, pub, logger.NewNopLogger())

	local.On("Reset", mock.Anything, "k").Return(errors.New("store down"))

	assert.Error(t, r.Reset(context.Background(), "k"))
	pub.AssertNotCalled(t, "PublishReset", mock.Anything, mock.Anything)
}

func TestBroadcastResetter_ApplyRemoteReset(t *testing.T) {
	local := new(mockResetter)
	r := NewBroadcastResetter(local, new(mockPublisher), logger.NewNopLogger())

	local.On("Reset", mock.Anything, "k").Return(nil).Once()
	r.ApplyRemoteReset("k")
	local.AssertExpectations(t)
}
