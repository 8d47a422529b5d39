package client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"bajeti/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPager_WalksAllPages(t *testing.T) {
	c, _ := newTestServer(t)
	ctx := context.Background()

	cats, err := c.ListCategories(ctx)
	require.NoError(t, err)
	var expense models.Category
	for _, cat := range cats {
		if cat.Type == models.TypeExpense {
			expense = cat
			break
		}
	}
	for _, d := range []string{"2025-01-01", "2025-01-02", "2025-01-03", "2025-01-04", "2025-01-05"} {
		_, err := c.CreateTransaction(ctx, TransactionInput{Amount: dec("1"), CategoryID: expense.ID, Date: d, Type: models.TypeExpense})
		require.NoError(t, err)
	}

	p := NewPager(c, TransactionQuery{}, 2)
	require.NoError(t, p.Reset(ctx))
	assert.Len(t, p.Items(), 2)
	assert.True(t, p.HasMore())

	assert.True(t, p.LoadMore(ctx))
	assert.True(t, p.LoadMore(ctx))
	assert.False(t, p.HasMore())
	assert.False(t, p.LoadMore(ctx))

	items := p.Items()
	require.Len(t, items, 5)
	for i := 1; i < len(items); i++ {
		assert.Greater(t, items[i-1].Date, items[i].Date)
	}
}

func TestPager_IgnoresOverlappingLoads(t *testing.T) {
	var calls atomic.Int32
	release := make(chan struct{})
	started := make(chan struct{}, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := calls.Add(1)
		if n == 1 {
			w.Write([]byte(`{"transactions":[{"id":"a","date":"2025-01-02"}],"nextCursor":"2025-01-02|a"}`))
			return
		}
		started <- struct{}{}
		<-release
		w.Write([]byte(`{"transactions":[{"id":"b","date":"2025-01-01"}],"nextCursor":null}`))
	}))
	defer srv.Close()

	p := NewPager(New(srv.URL, "t"), TransactionQuery{}, 1)
	require.NoError(t, p.Reset(context.Background()))

	done := make(chan bool)
	go func() { done <- p.LoadMore(context.Background()) }()
	<-started

	assert.True(t, p.Loading())
	assert.False(t, p.LoadMore(context.Background()))

	close(release)
	assert.True(t, <-done)
	assert.Equal(t, int32(2), calls.Load())
	assert.Len(t, p.Items(), 2)
	assert.False(t, p.HasMore())
}

func TestPager_FailureStopsPaging(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.Write([]byte(`{"transactions":[{"id":"a","date":"2025-01-02"}],"nextCursor":"2025-01-02|a"}`))
			return
		}
		http.Error(w, `{"code":500,"error":"boom"}`, http.StatusInternalServerError)
	}))
	defer srv.Close()

	p := NewPager(New(srv.URL, "t"), TransactionQuery{}, 1)
	require.NoError(t, p.Reset(context.Background()))

	assert.False(t, p.LoadMore(context.Background()))
	assert.False(t, p.HasMore())
	assert.Len(t, p.Items(), 1)
	assert.Equal(t, int32(2), calls.Load())
}

func TestPager_ResetSurfacesError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "unavailable", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	p := NewPager(New(srv.URL, "t"), TransactionQuery{}, 10)
	err := p.Reset(context.Background())
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "unavailable", apiErr.Message)
	assert.Empty(t, p.Items())
	assert.False(t, p.HasMore())
}

func TestPager_ResetDiscardsInFlightPage(t *testing.T) {
	var calls atomic.Int32
	release := make(chan struct{})
	started := make(chan struct{}, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch calls.Add(1) {
		case 1:
			w.Write([]byte(`{"transactions":[{"id":"a","date":"2025-01-02"}],"nextCursor":"2025-01-02|a"}`))
		case 2:
			started <- struct{}{}
			<-release
			w.Write([]byte(`{"transactions":[{"id":"stale","date":"2025-01-01"}],"nextCursor":null}`))
		default:
			w.Write([]byte(`{"transactions":[{"id":"fresh","date":"2025-02-01"}],"nextCursor":"2025-02-01|fresh"}`))
		}
	}))
	defer srv.Close()

	p := NewPager(New(srv.URL, "t"), TransactionQuery{}, 1)
	require.NoError(t, p.Reset(context.Background()))

	done := make(chan bool)
	go func() { done <- p.LoadMore(context.Background()) }()
	<-started

	require.NoError(t, p.Reset(context.Background()))
	close(release)
	assert.False(t, <-done)

	items := p.Items()
	require.Len(t, items, 1)
	assert.Equal(t, "fresh", items[0].ID)
	assert.True(t, p.HasMore())
}
