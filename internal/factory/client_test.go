package factory

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/pizza-service/internal/model"
)

func TestFulfill_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/order", r.URL.Path)
		assert.Equal(t, "Bearer key-123", r.Header.Get("Authorization"))

		var body orderRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, uint64(2), body.Diner.ID)
		assert.Len(t, body.Order.Items, 1)

		_ = json.NewEncoder(w).Encode(map[string]string{"jwt": "factory.jwt.sig", "reportUrl": "https://factory/report/1"})
	}))
	defer srv.Close()

	res, err := New(srv.URL, "key-123").Fulfill(context.Background(),
		Diner{ID: 2, Name: "pizza diner", Email: "d@jwt.com"},
		model.Order{ID: 1, Items: []model.OrderItem{{MenuID: 1, Description: "Veggie", Price: 0.05}}})
	require.NoError(t, err)
	assert.Equal(t, "factory.jwt.sig", res.JWT)
	assert.Equal(t, "https://factory/report/1", res.ReportURL)
}

func TestFulfill_Rejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"message":"chaos","reportUrl":"https://factory/chaos"}`))
	}))
	defer srv.Close()

	res, err := New(srv.URL, "k").Fulfill(context.Background(), Diner{}, model.Order{})
	assert.ErrorIs(t, err, ErrRejected)
	require.NotNil(t, res)
	assert.Equal(t, "https://factory/chaos", res.ReportURL)
}

func TestFulfill_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	res, err := New(url, "k").Fulfill(context.Background(), Diner{}, model.Order{})
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrRejected)
	assert.Nil(t, res)
}
