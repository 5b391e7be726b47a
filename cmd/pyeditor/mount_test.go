package main

import (
	"context"
	"errors"
	"testing"

	"github.com/rpggio/pyeditor/internal/domain/session"
	"github.com/rpggio/pyeditor/internal/repository/mocks"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestMount_ConsumeFailure(t *testing.T) {
	intents := new(mocks.IntentRepository)
	intents.On("Consume", mock.Anything).Return(session.Intent{}, errors.New("disk full")).Once()

	a := &app{intents: intents}
	err := a.mount(context.Background(), session.NewService(nil, nil, nil, nil, nil))
	require.ErrorContains(t, err, "reading queued navigation")
	intents.AssertExpectations(t)
}

func TestMount_EmptyQueueLeavesSessionAlone(t *testing.T) {
	intents := new(mocks.IntentRepository)
	intents.On("Consume", mock.Anything).Return(session.Intent{}, nil).Once()

	sess := session.NewService(nil, nil, nil, nil, nil)
	a := &app{intents: intents}
	require.NoError(t, a.mount(context.Background(), sess))
	require.Nil(t, sess.Snapshot().CurrentProject)
	intents.AssertExpectations(t)
}
