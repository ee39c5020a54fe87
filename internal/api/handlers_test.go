package api_test

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/neexbeast/tourguide/internal/api"
	"github.com/neexbeast/tourguide/internal/geo"
	"github.com/neexbeast/tourguide/internal/gps"
	"github.com/neexbeast/tourguide/internal/guide"
	"github.com/neexbeast/tourguide/internal/rewards"
	"github.com/neexbeast/tourguide/internal/trip"
	"github.com/neexbeast/tourguide/internal/user"
)

const testToken = "test-token"

// testProvider serves a small catalog and a fixed user location.
type testProvider struct {
	attractions []gps.Attraction
	location    geo.Location
}

func (p *testProvider) Attractions(_ context.Context) ([]gps.Attraction, error) {
	out := make([]gps.Attraction, len(p.attractions))
	copy(out, p.attractions)
	return out, nil
}

func (p *testProvider) UserLocation(_ context.Context, userID uuid.UUID) (gps.VisitedLocation, error) {
	return gps.VisitedLocation{UserID: userID, Location: p.location, Time: time.Now()}, nil
}

type okPinger struct{}

func (okPinger) Ping(_ context.Context) error { return nil }

type failPinger struct{}

func (failPinger) Ping(_ context.Context) error { return context.DeadlineExceeded }

func newTestServer(t *testing.T, pinger interface {
	Ping(ctx context.Context) error
}) (*httptest.Server, *guide.Service, *testProvider) {
	t.Helper()

	provider := &testProvider{
		attractions: []gps.Attraction{
			{ID: uuid.New(), Name: "Disneyland", Location: geo.Location{Latitude: 33.817595, Longitude: -117.922008}},
			{ID: uuid.New(), Name: "Jackson Hole", Location: geo.Location{Latitude: 43.582767, Longitude: -110.821999}},
			{ID: uuid.New(), Name: "San Diego Zoo", Location: geo.Location{Latitude: 32.735317, Longitude: -117.149048}},
			{ID: uuid.New(), Name: "Flatiron Building", Location: geo.Location{Latitude: 40.741112, Longitude: -73.989723}},
			{ID: uuid.New(), Name: "Fallingwater", Location: geo.Location{Latitude: 39.906113, Longitude: -79.468056}},
			{ID: uuid.New(), Name: "McKinley Tower", Location: geo.Location{Latitude: 61.218887, Longitude: -149.877502}},
		},
		location: geo.Location{Latitude: 33.817595, Longitude: -117.922008},
	}

	log := slog.Default()
	engine := guide.New(guide.Config{}, provider, provider, rewards.NewCentral(), trip.NewSimulator(), log)

	handlers := api.NewHandlers(engine, log)
	srv := httptest.NewServer(api.NewRouter(handlers, testToken, pinger, log))
	t.Cleanup(srv.Close)

	return srv, engine, provider
}

func get(t *testing.T, url, token string) *http.Response {
	t.Helper()
	req, err := http.NewRequest(http.MethodGet, url, nil)
	require.NoError(t, err)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func addUser(engine *guide.Service, name string) *user.User {
	u := user.New(uuid.New(), name, "000", name+"@tourguide.com")
	engine.AddUser(u)
	return u
}

func TestIndex(t *testing.T) {
	srv, _, _ := newTestServer(t, okPinger{})

	resp := get(t, srv.URL+"/", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Contains(t, body["message"], "TourGuide")
}

func TestGetLocation(t *testing.T) {
	srv, engine, provider := newTestServer(t, okPinger{})
	addUser(engine, "jon")

	resp := get(t, srv.URL+"/api/v1/users/jon/location", testToken)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var visited gps.VisitedLocation
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&visited))
	assert.Equal(t, provider.location, visited.Location)
}

func TestGetLocation_UnknownUser(t *testing.T) {
	srv, _, _ := newTestServer(t, okPinger{})

	resp := get(t, srv.URL+"/api/v1/users/ghost/location", testToken)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestGetLocation_Unauthorized(t *testing.T) {
	srv, engine, _ := newTestServer(t, okPinger{})
	addUser(engine, "jon")

	resp := get(t, srv.URL+"/api/v1/users/jon/location", "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp = get(t, srv.URL+"/api/v1/users/jon/location", "wrong-token")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestGetRewards(t *testing.T) {
	srv, engine, provider := newTestServer(t, okPinger{})
	u := addUser(engine, "jon")
	u.AddVisitedLocation(gps.VisitedLocation{
		UserID:   u.ID,
		Location: provider.attractions[0].Location,
		Time:     time.Now(),
	})
	_, err := engine.TrackUser(context.Background(), u)
	require.NoError(t, err)

	resp := get(t, srv.URL+"/api/v1/users/jon/rewards", testToken)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var rewardsList []user.Reward
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&rewardsList))
	require.Len(t, rewardsList, 1)
	assert.Equal(t, "Disneyland", rewardsList[0].Attraction.Name)
	assert.Positive(t, rewardsList[0].Points)
}

func TestGetRewards_EmptyIsArray(t *testing.T) {
	srv, engine, _ := newTestServer(t, okPinger{})
	addUser(engine, "jon")

	resp := get(t, srv.URL+"/api/v1/users/jon/rewards", testToken)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var rewardsList []user.Reward
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&rewardsList))
	assert.Empty(t, rewardsList)
}

func TestGetNearbyAttractions(t *testing.T) {
	srv, engine, _ := newTestServer(t, okPinger{})
	addUser(engine, "jon")

	resp := get(t, srv.URL+"/api/v1/users/jon/nearby-attractions", testToken)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var nearby []api.NearbyAttraction
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&nearby))

	require.Len(t, nearby, guide.NearbyAttractionCount)
	assert.Equal(t, "Disneyland", nearby[0].AttractionName, "the co-located attraction must sort first")
	for i := 1; i < len(nearby); i++ {
		assert.LessOrEqual(t, nearby[i-1].Distance, nearby[i].Distance)
	}
	for _, n := range nearby {
		assert.Equal(t, 33.817595, n.UserLatitude)
		assert.Positive(t, n.RewardPoints)
	}
}

func TestGetTripDeals(t *testing.T) {
	srv, engine, _ := newTestServer(t, okPinger{})
	addUser(engine, "jon")

	resp := get(t, srv.URL+"/api/v1/users/jon/trip-deals", testToken)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var deals []trip.Provider
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&deals))
	assert.Len(t, deals, trip.TargetDealCount)
}

func TestHealth(t *testing.T) {
	srv, _, _ := newTestServer(t, okPinger{})

	resp := get(t, srv.URL+"/api/v1/health", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestHealth_RedisDown(t *testing.T) {
	srv, _, _ := newTestServer(t, failPinger{})

	resp := get(t, srv.URL+"/api/v1/health", "")
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
}
