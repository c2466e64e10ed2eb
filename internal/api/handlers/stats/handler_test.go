package stats

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"Cignito/internal/core/stats"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockStatsService struct {
	mock.Mock
}

func (m *mockStatsService) Leaderboard(ctx context.Context, limit int) ([]*stats.LeaderboardEntry, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*stats.LeaderboardEntry), args.Error(1)
}

func (m *mockStatsService) PlatformStats(ctx context.Context) (*stats.Platform, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*stats.Platform), args.Error(1)
}

func TestHandleLeaderboard(t *testing.T) {
	svc := new(mockStatsService)
	svc.On("Leaderboard", mock.Anything, 3).Return([]*stats.LeaderboardEntry{
		{ID: "u1", Username: "ada", Reputation: 40, Streak: 2},
	}, nil)
	h := NewHandler(svc)

	w := httptest.NewRecorder()
	h.HandleLeaderboard(w, httptest.NewRequest(http.MethodGet, "/api/leaderboard?limit=3", nil))

	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Users []stats.LeaderboardEntry `json:"users"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Users, 1)
	assert.Equal(t, 40, resp.Users[0].Reputation)
	assert.Equal(t, 2, resp.Users[0].Streak)
}

func TestHandleLeaderboard_BadLimit(t *testing.T) {
	h := NewHandler(new(mockStatsService))

	for _, q := range []string{"abc", "0", "-4"} {
		w := httptest.NewRecorder()
		h.HandleLeaderboard(w, httptest.NewRequest(http.MethodGet, "/api/leaderboard?limit="+q, nil))
		assert.Equal(t, http.StatusBadRequest, w.Code, q)
	}
}

func TestHandlePlatform(t *testing.T) {
	svc := new(mockStatsService)
	svc.On("PlatformStats", mock.Anything).Return(&stats.Platform{OpenBugs: 4, TotalUsers: 9}, nil).Once()
	svc.On("PlatformStats", mock.Anything).Return(nil, errors.New("connection refused"))
	h := NewHandler(svc)

	w := httptest.NewRecorder()
	h.HandlePlatform(w, httptest.NewRequest(http.MethodGet, "/api/stats", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"openBugs":4`)

	w = httptest.NewRecorder()
	h.HandlePlatform(w, httptest.NewRequest(http.MethodGet, "/api/stats", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "connection refused")
}
