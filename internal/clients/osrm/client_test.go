package osrm

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/dict-ojt/dict-travel-order-system-sub000/internal/lib/geo"
	"github.com/dict-ojt/dict-travel-order-system-sub000/internal/lib/routing"
)

var _ routing.Provider = (*Client)(nil)

// MockHTTPDoer is a mock implementation of HTTPDoer
type MockHTTPDoer struct {
	mock.Mock
}

func (m *MockHTTPDoer) Do(req *http.Request) (*http.Response, error) {
	args := m.Called(req)
	resp, _ := args.Get(0).(*http.Response)
	return resp, args.Error(1)
}

// Helper function to create mock HTTP response
func createMockResponse(statusCode int, body string) *http.Response {
	return &http.Response{
		StatusCode: statusCode,
		Body:       io.NopCloser(strings.NewReader(body)),
		Header:     make(http.Header),
	}
}

var (
	quezonCity = geo.Point{Latitude: 14.6507, Longitude: 121.0494}
	tagaytay   = geo.Point{Latitude: 14.1153, Longitude: 120.9621}
	batangas   = geo.Point{Latitude: 13.7565, Longitude: 121.0583}
)

const twoRoutes = `{
	"code": "Ok",
	"routes": [
		{
			"distance": 61234.5,
			"duration": 4012.3,
			"geometry": "_p~iF~ps|U_ulLnnqC_mqNvxq` + "`" + `@",
			"legs": [{"summary": "South Luzon Expressway", "distance": 61234.5, "duration": 4012.3}]
		},
		{
			"distance": 70011.0,
			"duration": 5100.0,
			"geometry": "_p~iF~ps|U_ulLnnqC",
			"legs": [{"summary": "Aguinaldo Highway", "distance": 70011.0, "duration": 5100.0}]
		}
	]
}`

func TestRoute_Success(t *testing.T) {
	mockHTTP := &MockHTTPDoer{}
	mockHTTP.On("Do", mock.AnythingOfType("*http.Request")).Return(
		createMockResponse(200, twoRoutes), nil)

	client := NewClientWithHTTPDoer("https://router.example.org", mockHTTP)

	routes, err := client.Route(context.Background(), []geo.Point{quezonCity, tagaytay},
		routing.ProviderOptions{Alternatives: true})

	require.NoError(t, err)
	require.Len(t, routes, 2)
	assert.Equal(t, 61234.5, routes[0].DistanceMeters)
	assert.Equal(t, 4012.3, routes[0].DurationSeconds)
	assert.Len(t, routes[0].Geometry, 3)
	assert.Len(t, routes[1].Geometry, 2)
	require.Len(t, routes[0].Legs, 1)
	assert.Equal(t, "South Luzon Expressway", routes[0].Legs[0].Summary)
	assert.False(t, routes[0].Direct)

	mockHTTP.AssertExpectations(t)
}

func TestRoute_RequestFormat(t *testing.T) {
	var capturedRequest *http.Request
	mockHTTP := &MockHTTPDoer{}
	mockHTTP.On("Do", mock.AnythingOfType("*http.Request")).Run(func(args mock.Arguments) {
		capturedRequest = args.Get(0).(*http.Request)
	}).Return(createMockResponse(200, twoRoutes), nil)

	client := NewClientWithHTTPDoer("https://router.example.org/", mockHTTP)

	_, err := client.Route(context.Background(), []geo.Point{quezonCity, tagaytay, batangas},
		routing.ProviderOptions{Exclude: []routing.RoadClass{routing.Tolls, routing.Highways}})
	require.NoError(t, err)

	require.NotNil(t, capturedRequest)
	assert.Equal(t, http.MethodGet, capturedRequest.Method)
	assert.Equal(t, "/route/v1/driving/121.049400,14.650700;120.962100,14.115300;121.058300,13.756500",
		capturedRequest.URL.Path)

	query := capturedRequest.URL.Query()
	assert.Equal(t, "full", query.Get("overview"))
	assert.Equal(t, "polyline", query.Get("geometries"))
	assert.Equal(t, "false", query.Get("alternatives"))
	assert.Equal(t, "toll,motorway", query.Get("exclude"))
}

func TestRoute_NoExcludeParamWhenEmpty(t *testing.T) {
	var capturedRequest *http.Request
	mockHTTP := &MockHTTPDoer{}
	mockHTTP.On("Do", mock.AnythingOfType("*http.Request")).Run(func(args mock.Arguments) {
		capturedRequest = args.Get(0).(*http.Request)
	}).Return(createMockResponse(200, twoRoutes), nil)

	client := NewClientWithHTTPDoer("https://router.example.org", mockHTTP)
	_, err := client.Route(context.Background(), []geo.Point{quezonCity, tagaytay},
		routing.ProviderOptions{Alternatives: true})
	require.NoError(t, err)

	assert.False(t, capturedRequest.URL.Query().Has("exclude"))
	assert.Equal(t, "true", capturedRequest.URL.Query().Get("alternatives"))
}

func TestRoute_NoRouteIsEmptyResult(t *testing.T) {
	mockHTTP := &MockHTTPDoer{}
	mockHTTP.On("Do", mock.AnythingOfType("*http.Request")).Return(
		createMockResponse(400, `{"code": "NoRoute", "message": "Impossible route between points"}`), nil)

	client := NewClientWithHTTPDoer("https://router.example.org", mockHTTP)
	routes, err := client.Route(context.Background(), []geo.Point{quezonCity, {Latitude: 10.3157, Longitude: 123.8854}},
		routing.ProviderOptions{})

	require.NoError(t, err)
	assert.Empty(t, routes)
}

func TestRoute_APIError(t *testing.T) {
	mockHTTP := &MockHTTPDoer{}
	mockHTTP.On("Do", mock.AnythingOfType("*http.Request")).Return(
		createMockResponse(400, `{"code": "InvalidQuery", "message": "Query string malformed"}`), nil)

	client := NewClientWithHTTPDoer("https://router.example.org", mockHTTP)
	routes, err := client.Route(context.Background(), []geo.Point{quezonCity, tagaytay}, routing.ProviderOptions{})

	assert.Error(t, err)
	assert.Nil(t, routes)
	assert.Contains(t, err.Error(), "API error 400")
}

func TestRoute_RateLimitError(t *testing.T) {
	mockHTTP := &MockHTTPDoer{}
	mockHTTP.On("Do", mock.AnythingOfType("*http.Request")).Return(
		createMockResponse(429, `Too Many Requests`), nil)

	client := NewClientWithHTTPDoer("https://router.example.org", mockHTTP)
	_, err := client.Route(context.Background(), []geo.Point{quezonCity, tagaytay}, routing.ProviderOptions{})

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "rate limit exceeded")
}

func TestRoute_NetworkError(t *testing.T) {
	mockHTTP := &MockHTTPDoer{}
	mockHTTP.On("Do", mock.AnythingOfType("*http.Request")).Return(nil, errors.New("dial tcp: connection refused"))

	client := NewClientWithHTTPDoer("https://router.example.org", mockHTTP)
	_, err := client.Route(context.Background(), []geo.Point{quezonCity, tagaytay}, routing.ProviderOptions{})

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to execute request")
}

func TestRoute_InvalidJSON(t *testing.T) {
	mockHTTP := &MockHTTPDoer{}
	mockHTTP.On("Do", mock.AnythingOfType("*http.Request")).Return(
		createMockResponse(200, `{"invalid": json}`), nil)

	client := NewClientWithHTTPDoer("https://router.example.org", mockHTTP)
	_, err := client.Route(context.Background(), []geo.Point{quezonCity, tagaytay}, routing.ProviderOptions{})

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to decode response")
}

func TestRoute_RequiresTwoPoints(t *testing.T) {
	mockHTTP := &MockHTTPDoer{}
	client := NewClientWithHTTPDoer("https://router.example.org", mockHTTP)

	_, err := client.Route(context.Background(), []geo.Point{quezonCity}, routing.ProviderOptions{})
	assert.Error(t, err)
	mockHTTP.AssertNotCalled(t, "Do", mock.Anything)
}
