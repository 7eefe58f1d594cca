package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"threads/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockFollowRepository is a mock of the FollowRepository interface
type MockFollowRepository struct {
	mock.Mock
}

func (m *MockFollowRepository) Follow(ctx context.Context, follower *models.User, followedID uint) (bool, error) {
	args := m.Called(ctx, follower, followedID)
	return args.Bool(0), args.Error(1)
}

func (m *MockFollowRepository) Unfollow(ctx context.Context, followerID, followedID uint) error {
	args := m.Called(ctx, followerID, followedID)
	return args.Error(0)
}

func (m *MockFollowRepository) IsFollowing(ctx context.Context, followerID, followedID uint) (bool, error) {
	args := m.Called(ctx, followerID, followedID)
	return args.Bool(0), args.Error(1)
}

func TestGetUser(t *testing.T) {
	tests := []struct {
		name           string
		path           string
		mockSetup      func(repo *MockUserRepository)
		expectedStatus int
	}{
		{
			name: "Found",
			path: "/users/2",
			mockSetup: func(repo *MockUserRepository) {
				repo.On("GetByID", mock.Anything, uint(2)).
					Return(&models.User{ID: 2, Username: "bob"}, nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name: "Not Found",
			path: "/users/99",
			mockSetup: func(repo *MockUserRepository) {
				repo.On("GetByID", mock.Anything, uint(99)).
					Return(nil, models.NewNotFoundError("User", uint(99)))
			},
			expectedStatus: http.StatusNotFound,
		},
		{
			name:           "Invalid ID",
			path:           "/users/abc",
			mockSetup:      func(repo *MockUserRepository) {},
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := fiberApp()
			mockRepo := new(MockUserRepository)
			s := &Server{userRepo: mockRepo}
			app.Get("/users/:id", s.GetUser)

			tt.mockSetup(mockRepo)

			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			resp, err := app.Test(req)
			require.NoError(t, err)
			defer func() { _ = resp.Body.Close() }()
			assert.Equal(t, tt.expectedStatus, resp.StatusCode)
		})
	}
}

func TestFollowUser(t *testing.T) {
	alice := &models.User{ID: 1, Username: "alice"}

	tests := []struct {
		name           string
		path           string
		mockSetup      func(users *MockUserRepository, follows *MockFollowRepository)
		expectedStatus int
		expectedMsg    string
	}{
		{
			name: "Success",
			path: "/users/2/follow",
			mockSetup: func(users *MockUserRepository, follows *MockFollowRepository) {
				users.On("GetByID", mock.Anything, uint(2)).
					Return(&models.User{ID: 2, Username: "bob"}, nil)
				follows.On("Follow", mock.Anything, alice, uint(2)).Return(true, nil)
			},
			expectedStatus: http.StatusOK,
			expectedMsg:    "User followed successfully",
		},
		{
			name: "Already Following Is Idempotent",
			path: "/users/2/follow",
			mockSetup: func(users *MockUserRepository, follows *MockFollowRepository) {
				users.On("GetByID", mock.Anything, uint(2)).
					Return(&models.User{ID: 2, Username: "bob"}, nil)
				follows.On("Follow", mock.Anything, alice, uint(2)).Return(false, nil)
			},
			expectedStatus: http.StatusOK,
			expectedMsg:    "User followed successfully",
		},
		{
			name:           "Self Follow",
			path:           "/users/1/follow",
			mockSetup:      func(users *MockUserRepository, follows *MockFollowRepository) {},
			expectedStatus: http.StatusBadRequest,
			expectedMsg:    "Cannot follow yourself",
		},
		{
			name: "Target Not Found",
			path: "/users/99/follow",
			mockSetup: func(users *MockUserRepository, follows *MockFollowRepository) {
				users.On("GetByID", mock.Anything, uint(99)).
					Return(nil, models.NewNotFoundError("User", uint(99)))
			},
			expectedStatus: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := fiberApp()
			mockUsers := new(MockUserRepository)
			mockFollows := new(MockFollowRepository)
			s := &Server{userRepo: mockUsers, followRepo: mockFollows}
			app.Post("/users/:id/follow", asUser(alice), s.FollowUser)

			tt.mockSetup(mockUsers, mockFollows)

			req := httptest.NewRequest(http.MethodPost, tt.path, nil)
			resp, err := app.Test(req)
			require.NoError(t, err)
			defer func() { _ = resp.Body.Close() }()

			assert.Equal(t, tt.expectedStatus, resp.StatusCode)
			if tt.expectedMsg != "" {
				var parsed map[string]interface{}
				require.NoError(t, json.NewDecoder(resp.Body).Decode(&parsed))
				assert.Equal(t, tt.expectedMsg, parsed["message"])
			}
			mockUsers.AssertExpectations(t)
			mockFollows.AssertExpectations(t)
		})
	}
}

func TestUnfollowUser(t *testing.T) {
	alice := &models.User{ID: 1, Username: "alice"}

	app := fiberApp()
	mockUsers := new(MockUserRepository)
	mockFollows := new(MockFollowRepository)
	s := &Server{userRepo: mockUsers, followRepo: mockFollows}
	app.Post("/users/:id/unfollow", asUser(alice), s.UnfollowUser)

	mockUsers.On("GetByID", mock.Anything, uint(2)).
		Return(&models.User{ID: 2, Username: "bob"}, nil)
	mockFollows.On("Unfollow", mock.Anything, uint(1), uint(2)).Return(nil)

	req := httptest.NewRequest(http.MethodPost, "/users/2/unfollow", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var parsed map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&parsed))
	assert.Equal(t, "User unfollowed successfully", parsed["message"])
}

func TestUpdateProfile(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		mockSetup      func(repo *MockUserRepository)
		expectedStatus int
	}{
		{
			name: "Update Name And Bio",
			body: `{"name":"New Name","bio":"new bio"}`,
			mockSetup: func(repo *MockUserRepository) {
				repo.On("Update", mock.Anything, mock.Anything).Return(nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name: "Clear Bio Only",
			body: `{"bio":""}`,
			mockSetup: func(repo *MockUserRepository) {
				repo.On("Update", mock.Anything, mock.Anything).Return(nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "Empty Name Rejected",
			body:           `{"name":""}`,
			mockSetup:      func(repo *MockUserRepository) {},
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			alice := &models.User{ID: 1, Username: "alice", Name: "Alice", Bio: "old bio"}
			app := fiberApp()
			mockRepo := new(MockUserRepository)
			s := &Server{userRepo: mockRepo}
			app.Put("/users/profile", asUser(alice), s.UpdateProfile)

			tt.mockSetup(mockRepo)

			req := httptest.NewRequest(http.MethodPut, "/users/profile", bytes.NewReader([]byte(tt.body)))
			req.Header.Set("Content-Type", "application/json")

			resp, err := app.Test(req)
			require.NoError(t, err)
			defer func() { _ = resp.Body.Close() }()
			assert.Equal(t, tt.expectedStatus, resp.StatusCode)
			mockRepo.AssertExpectations(t)
		})
	}
}

func TestUpdateProfilePreservesUntouchedFields(t *testing.T) {
	alice := &models.User{ID: 1, Username: "alice", Name: "Alice", Bio: "keep me"}
	app := fiberApp()
	mockRepo := new(MockUserRepository)
	s := &Server{userRepo: mockRepo}
	app.Put("/users/profile", asUser(alice), s.UpdateProfile)

	mockRepo.On("Update", mock.Anything, mock.MatchedBy(func(u *models.User) bool {
		return u.Name == "New Name" && u.Bio == "keep me"
	})).Return(nil)

	req := httptest.NewRequest(http.MethodPut, "/users/profile",
		bytes.NewReader([]byte(`{"name":"New Name"}`)))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	mockRepo.AssertExpectations(t)
}
