package book

import (
	"context"
	"errors"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"

	"bookreview/internal/entity"
)

func TestService_Recent_ClampsLimit(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	mockRepo := NewMockRepository(ctrl)
	svc := NewService(mockRepo)

	mockRepo.EXPECT().Recent(gomock.Any(), DefaultRecentLimit).Return(nil, nil)
	mockRepo.EXPECT().Recent(gomock.Any(), MaxRecentLimit).Return(nil, nil)

	_, err := svc.Recent(context.Background(), 0)
	assert.NoError(t, err)
	_, err = svc.Recent(context.Background(), MaxRecentLimit+1)
	assert.NoError(t, err)
}

func TestService_Create_KeepsReferenceError(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	mockRepo := NewMockRepository(ctrl)
	svc := NewService(mockRepo)

	mockRepo.EXPECT().Add(gomock.Any(), gomock.Any()).Return(&InvalidReferenceError{Field: "authorId"})

	_, err := svc.Create(context.Background(), entity.Book{Title: "x", AuthorID: 9})

	assert.True(t, errors.Is(err, ErrInvalidReference))
	var refErr *InvalidReferenceError
	assert.True(t, errors.As(err, &refErr))
	assert.Equal(t, "authorId", refErr.Field)
}

func TestService_Delete_MissingBook(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	mockRepo := NewMockRepository(ctrl)
	svc := NewService(mockRepo)

	mockRepo.EXPECT().GetByID(gomock.Any(), int64(5)).Return(entity.Book{}, ErrNotFound)

	err := svc.Delete(context.Background(), 5)
	assert.ErrorIs(t, err, ErrNotFound)
}
