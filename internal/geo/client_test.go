package geo

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"eventmarket/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_Upsert(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/places/upsert", r.URL.Path)

		var body map[string]any
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "Listing", body["refType"])
		assert.Equal(t, "abc", body["refId"])
		assert.Nil(t, body["radius"])
		assert.Equal(t, "Gölbaşı", body["addressLabel"])

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(models.Place{
			ID: "p1", RefType: "Listing", RefID: "abc", Latitude: 39.79, Longitude: 32.8, AddressLabel: "Gölbaşı",
		})
	}))
	defer srv.Close()

	c := NewClient(srv.URL+"/", time.Second)
	p, err := c.Upsert(context.Background(), models.Place{
		RefType: models.EntityListing, RefID: "abc", Latitude: 39.79, Longitude: 32.8, AddressLabel: "Gölbaşı",
	})
	require.NoError(t, err)
	assert.Equal(t, "p1", p.ID)
	assert.InDelta(t, 39.79, p.Latitude, 1e-9)
}

func TestClient_GetByRef_NotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Vendor", r.URL.Query().Get("refType"))
		assert.Equal(t, "v1", r.URL.Query().Get("refId"))
		http.NotFound(w, r)
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL, time.Second).GetByRef(context.Background(), models.EntityVendor, "v1")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestClient_ListByType(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/places/by-type", r.URL.Path)
		_, _ = w.Write([]byte(`[{"id":"1","refType":"Vendor","refId":"a","latitude":1,"longitude":2,"radius":150}]`))
	}))
	defer srv.Close()

	places, err := NewClient(srv.URL, time.Second).ListByType(context.Background(), models.EntityVendor)
	require.NoError(t, err)
	require.Len(t, places, 1)
	require.NotNil(t, places[0].Radius)
	assert.InDelta(t, 150, *places[0].Radius, 1e-9)
}

func TestClient_Unavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusBadGateway)
	}))
	defer srv.Close()

	err := NewClient(srv.URL, time.Second).Delete(context.Background(), models.EntityListing, "x")
	require.ErrorIs(t, err, ErrUnavailable)

	srv.Close()
	_, err = NewClient(srv.URL, time.Second).ListByType(context.Background(), models.EntityVendor)
	require.ErrorIs(t, err, ErrUnavailable)
}

func TestClient_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(time.Second):
		}
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL, 20*time.Millisecond).GetByRef(context.Background(), models.EntityListing, "x")
	require.ErrorIs(t, err, ErrUnavailable)
}
