package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"threads/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestSearchUsers(t *testing.T) {
	tests := []struct {
		name          string
		url           string
		mockSetup     func(repo *MockUserRepository)
		expectedCount int
	}{
		{
			name: "Matches",
			url:  "/search/users?q=ali",
			mockSetup: func(repo *MockUserRepository) {
				repo.On("Search", mock.Anything, "ali", 20).
					Return([]models.User{{ID: 1, Username: "alice"}}, nil)
			},
			expectedCount: 1,
		},
		{
			// Empty and whitespace queries return an empty list without
			// touching the repository
			name:          "Empty Query",
			url:           "/search/users?q=",
			mockSetup:     func(repo *MockUserRepository) {},
			expectedCount: 0,
		},
		{
			name:          "Whitespace Query",
			url:           "/search/users?q=%20%20",
			mockSetup:     func(repo *MockUserRepository) {},
			expectedCount: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := fiberApp()
			mockRepo := new(MockUserRepository)
			s := &Server{userRepo: mockRepo}
			app.Get("/search/users", s.SearchUsers)

			tt.mockSetup(mockRepo)

			req := httptest.NewRequest(http.MethodGet, tt.url, nil)
			resp, err := app.Test(req)
			require.NoError(t, err)
			defer func() { _ = resp.Body.Close() }()

			assert.Equal(t, http.StatusOK, resp.StatusCode)

			var parsed []models.User
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&parsed))
			assert.Len(t, parsed, tt.expectedCount)
			mockRepo.AssertExpectations(t)
		})
	}
}

func TestSearchPosts(t *testing.T) {
	app := fiberApp()
	mockRepo := new(MockPostRepository)
	s := &Server{postRepo: mockRepo}
	app.Get("/search/posts", s.SearchPosts)

	mockRepo.On("Search", mock.Anything, "hello", 20, uint(0)).
		Return([]*models.Post{{ID: 1}, {ID: 2}}, nil)

	req := httptest.NewRequest(http.MethodGet, "/search/posts?q=hello", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var parsed []models.Post
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&parsed))
	assert.Len(t, parsed, 2)
}

func TestSearchPostsEmptyQuery(t *testing.T) {
	app := fiberApp()
	mockRepo := new(MockPostRepository)
	s := &Server{postRepo: mockRepo}
	app.Get("/search/posts", s.SearchPosts)

	req := httptest.NewRequest(http.MethodGet, "/search/posts", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var parsed []models.Post
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&parsed))
	assert.Empty(t, parsed)
	mockRepo.AssertExpectations(t)
}
