package collaborators_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"fulfillment/internal/adapters/out/collaborators"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func serve(t *testing.T, handler http.HandlerFunc) string {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return srv.URL
}

func writeJSON(w http.ResponseWriter, body any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(body)
}

func TestRestaurantClient_GetRestaurant(t *testing.T) {
	url := serve(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/restaurants/R1":
			writeJSON(w, map[string]any{
				"id": "R1", "name": "Curry Leaf", "ownerId": "U9",
				"location": map[string]float64{"longitude": 79.86, "latitude": 6.91},
			})
		case "/restaurants/R2":
			writeJSON(w, map[string]any{"id": "R2", "name": "No Map", "ownerId": "U8"})
		default:
			http.NotFound(w, r)
		}
	})
	client := collaborators.NewRestaurantClient(url+"/", time.Second)

	r, err := client.GetRestaurant(t.Context(), "R1")
	require.NoError(t, err)
	assert.Equal(t, "Curry Leaf", r.Name)
	assert.Equal(t, "U9", r.OwnerID)
	require.NotNil(t, r.Location)
	assert.True(t, r.Location.IsEqual(kernel.MustNewLocation(79.86, 6.91)))

	r, err = client.GetRestaurant(t.Context(), "R2")
	require.NoError(t, err)
	assert.Nil(t, r.Location)

	_, err = client.GetRestaurant(t.Context(), "R3")
	require.ErrorIs(t, err, errs.ErrObjectNotFound)
	assert.NotErrorIs(t, err, errs.ErrUpstream)
}

func TestRestaurantClient_GetMenuItem(t *testing.T) {
	url := serve(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/menu-items/M1" {
			writeJSON(w, map[string]any{"id": "M1", "name": "Kottu", "price": "850.25", "imageUrl": "https://img/k.png"})
			return
		}
		if r.URL.Path == "/menu-items/M2" {
			writeJSON(w, map[string]any{"id": "M2", "name": "Broken", "price": -1})
			return
		}
		http.NotFound(w, r)
	})
	client := collaborators.NewRestaurantClient(url, time.Second)

	item, err := client.GetMenuItem(t.Context(), "M1")
	require.NoError(t, err)
	assert.Equal(t, "Kottu", item.Name)
	assert.True(t, item.Price.IsEqual(kernel.MustNewMoney("850.25")))
	assert.Equal(t, "https://img/k.png", item.ImageURL)

	_, err = client.GetMenuItem(t.Context(), "M2")
	require.ErrorIs(t, err, errs.ErrUpstream)
}

func TestCartClient_GetCartTotal(t *testing.T) {
	url := serve(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/carts/C1/total":
			writeJSON(w, map[string]any{"total": 1250.5})
		case "/carts/C2/total":
			http.Error(w, "boom", http.StatusInternalServerError)
		case "/carts/C4/total":
			writeJSON(w, map[string]any{"total": -10})
		default:
			http.NotFound(w, r)
		}
	})
	client := collaborators.NewCartClient(url, time.Second)

	total, err := client.GetCartTotal(t.Context(), "C1")
	require.NoError(t, err)
	assert.Equal(t, int64(125050), total.MinorUnits())

	_, err = client.GetCartTotal(t.Context(), "C2")
	require.ErrorIs(t, err, errs.ErrUpstream)
	assert.Contains(t, err.Error(), "status 500")

	_, err = client.GetCartTotal(t.Context(), "C3")
	require.ErrorIs(t, err, errs.ErrUpstream)

	_, err = client.GetCartTotal(t.Context(), "C4")
	require.ErrorIs(t, err, errs.ErrUpstream)
	assert.ErrorIs(t, err, errs.ErrValueIsInvalid)
}

func TestIdentityClient(t *testing.T) {
	var gotRole string
	url := serve(t, func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/users/U1":
			writeJSON(w, map[string]any{"id": "U1", "email": "a@b.lk", "phone": "+94770000000", "role": "customer"})
		case r.Method == http.MethodPut && r.URL.Path == "/users/U1/role":
			var body map[string]string
			if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			gotRole = body["role"]
			w.WriteHeader(http.StatusNoContent)
		default:
			http.NotFound(w, r)
		}
	})
	client := collaborators.NewIdentityClient(url, time.Second)

	u, err := client.GetUser(t.Context(), "U1")
	require.NoError(t, err)
	assert.Equal(t, "a@b.lk", u.Email)
	assert.Equal(t, "+94770000000", u.Phone)

	require.NoError(t, client.UpdateUserRole(t.Context(), "U1", kernel.RoleDeliveryPersonnel))
	assert.Equal(t, kernel.RoleDeliveryPersonnel.String(), gotRole)

	require.ErrorIs(t, client.UpdateUserRole(t.Context(), "U2", kernel.RoleDeliveryPersonnel), errs.ErrObjectNotFound)
}

func TestClient_TimeoutIsUpstream(t *testing.T) {
	url := serve(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-time.After(time.Second):
		case <-r.Context().Done():
		}
	})
	client := collaborators.NewIdentityClient(url, 50*time.Millisecond)

	_, err := client.GetUser(t.Context(), "U1")
	require.ErrorIs(t, err, errs.ErrUpstream)
}
