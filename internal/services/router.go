package services

import (
	"net/http"

	"github.com/gorilla/mux"
)

// NewRouter wires every handler under /api
func NewRouter(routes *RouteService, orders *OrderService, sessions *PickerSessionService, prefs *PreferencesService, health *HealthService) *mux.Router {
	r := mux.NewRouter()
	api := r.PathPrefix("/api").Subrouter()

	api.HandleFunc("/health", health.Health).Methods(http.MethodGet)
	api.HandleFunc("/offices", routes.Offices).Methods(http.MethodGet)
	api.HandleFunc("/locations/normalize", routes.Normalize).Methods(http.MethodPost)
	api.HandleFunc("/routes", routes.RouteOptions).Methods(http.MethodPost)
	api.HandleFunc("/routes/geojson", routes.RouteGeoJSON).Methods(http.MethodPost)
	api.HandleFunc("/geocode/search", routes.Search).Methods(http.MethodGet)
	api.HandleFunc("/geocode/reverse", routes.Reverse).Methods(http.MethodGet)

	api.HandleFunc("/orders", orders.CreateOrder).Methods(http.MethodPost)
	api.HandleFunc("/orders", orders.ListOrders).Methods(http.MethodGet)
	api.HandleFunc("/orders/{orderID}", orders.GetOrder).Methods(http.MethodGet)
	api.HandleFunc("/orders/{orderID}", orders.DeleteOrder).Methods(http.MethodDelete)
	api.HandleFunc("/orders/{orderID}/legs", orders.AddLeg).Methods(http.MethodPost)
	api.HandleFunc("/orders/{orderID}/legs/{legID}", orders.UpdateLeg).Methods(http.MethodPatch)
	api.HandleFunc("/orders/{orderID}/legs/{legID}", orders.RemoveLeg).Methods(http.MethodDelete)
	api.HandleFunc("/orders/{orderID}/validation", orders.ValidateOrder).Methods(http.MethodGet)
	api.HandleFunc("/orders/{orderID}/export.kml", orders.ExportKML).Methods(http.MethodGet)
	api.HandleFunc("/orders/{orderID}/itinerary", orders.Itinerary).Methods(http.MethodPost)
	api.HandleFunc("/orders/{orderID}/picker", sessions.Open).Methods(http.MethodPost)

	api.HandleFunc("/picker/{sessionID}", sessions.View).Methods(http.MethodGet)
	api.HandleFunc("/picker/{sessionID}", sessions.Cancel).Methods(http.MethodDelete)
	api.HandleFunc("/picker/{sessionID}/pick", sessions.Pick).Methods(http.MethodPost)
	api.HandleFunc("/picker/{sessionID}/waypoints", sessions.AddWaypoint).Methods(http.MethodPost)
	api.HandleFunc("/picker/{sessionID}/stop", sessions.StopPicking).Methods(http.MethodPost)
	api.HandleFunc("/picker/{sessionID}/click", sessions.Click).Methods(http.MethodPost)
	api.HandleFunc("/picker/{sessionID}/search", sessions.Search).Methods(http.MethodPost)
	api.HandleFunc("/picker/{sessionID}/select", sessions.Select).Methods(http.MethodPost)
	api.HandleFunc("/picker/{sessionID}/points/{pointID}", sessions.Drag).Methods(http.MethodPut)
	api.HandleFunc("/picker/{sessionID}/points/{pointID}", sessions.Remove).Methods(http.MethodDelete)
	api.HandleFunc("/picker/{sessionID}/points/{pointID}/move", sessions.Move).Methods(http.MethodPost)
	api.HandleFunc("/picker/{sessionID}/dates", sessions.Dates).Methods(http.MethodPut)
	api.HandleFunc("/picker/{sessionID}/avoidance", sessions.Avoid).Methods(http.MethodPut)
	api.HandleFunc("/picker/{sessionID}/route", sessions.SelectRoute).Methods(http.MethodPut)
	api.HandleFunc("/picker/{sessionID}/confirm", sessions.Confirm).Methods(http.MethodPost)

	api.HandleFunc("/preferences/theme", prefs.GetTheme).Methods(http.MethodGet)
	api.HandleFunc("/preferences/theme", prefs.SetTheme).Methods(http.MethodPut)
	api.HandleFunc("/saved-routes", prefs.ListRoutes).Methods(http.MethodGet)
	api.HandleFunc("/saved-routes", prefs.SaveRoute).Methods(http.MethodPost)
	api.HandleFunc("/saved-routes/{routeID}", prefs.GetRoute).Methods(http.MethodGet)
	api.HandleFunc("/saved-routes/{routeID}", prefs.DeleteRoute).Methods(http.MethodDelete)

	return r
}
