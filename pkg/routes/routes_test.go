package routes_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/adtrail/adtrail/pkg/routes"
)

func handlerFor(status int) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
	}
}

func TestRegisterRoutes(t *testing.T) {
	mux := http.NewServeMux()
	routes.Register(mux, routes.Group{
		Prefix: "/ads",
		Routes: []routes.Route{
			{Method: "POST", Pattern: "", Handler: handlerFor(201)},
			{Method: "GET", Pattern: "/{id}", Handler: handlerFor(200)},
		},
	})

	tests := []struct {
		method string
		path   string
		want   int
	}{
		{"POST", "/ads", 201},
		{"GET", "/ads/ad-1", 200},
		{"DELETE", "/ads", http.StatusMethodNotAllowed},
	}

	for _, tt := range tests {
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, httptest.NewRequest(tt.method, tt.path, nil))
		if rec.Code != tt.want {
			t.Errorf("%s %s = %d, want %d", tt.method, tt.path, rec.Code, tt.want)
		}
	}
}

func TestRegisterNestedGroups(t *testing.T) {
	mux := http.NewServeMux()
	routes.Register(mux, routes.Group{
		Prefix: "/ads",
		Children: []routes.Group{
			{
				Prefix: "/{id}",
				Routes: []routes.Route{
					{Method: "POST", Pattern: "/suppress", Handler: handlerFor(200)},
				},
			},
		},
	})

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest("POST", "/ads/ad-1/suppress", nil))
	if rec.Code != 200 {
		t.Errorf("nested route = %d, want 200", rec.Code)
	}
}
