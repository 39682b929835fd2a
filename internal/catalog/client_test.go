package catalog

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/tturner/artsel/internal/errors"
	"github.com/tturner/artsel/internal/metrics"
)

// fakeCatalog serves a catalog of total records with ids 1000+i.
type fakeCatalog struct {
	total    int
	status   int
	body     string
	requests atomic.Int32
	lastQ    atomic.Value
	lastUA   atomic.Value
}

func (f *fakeCatalog) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.requests.Add(1)
	f.lastQ.Store(r.URL.Query())
	f.lastUA.Store(r.Header.Get("AIC-User-Agent"))

	if f.status != 0 {
		w.WriteHeader(f.status)
		_, _ = w.Write([]byte(`{"status":` + strconv.Itoa(f.status) + `}`))
		return
	}
	if f.body != "" {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(f.body))
		return
	}

	q := r.URL.Query()
	limit, _ := strconv.Atoi(q.Get("limit"))
	if limit == 0 {
		limit = 12
	}
	page, _ := strconv.Atoi(q.Get("page"))
	if page == 0 {
		page = 1
	}
	offset := (page - 1) * limit

	var items []string
	for i := offset; i < offset+limit && i < f.total; i++ {
		id := 1000 + i
		if q.Get("fields") == "id" {
			items = append(items, fmt.Sprintf(`{"id":%d}`, id))
			continue
		}
		items = append(items, fmt.Sprintf(
			`{"id":%d,"title":"Work %d","place_of_origin":"Chicago","artist_display":"Artist %d","inscriptions":null,"date_start":%d,"date_end":null}`,
			id, id, id, 1900+i))
	}
	totalPages := (f.total + limit - 1) / limit
	w.Header().Set("Content-Type", "application/json")
	fmt.Fprintf(w, `{"pagination":{"total":%d,"limit":%d,"offset":%d,"total_pages":%d,"current_page":%d,"next_url":""},"data":[%s]}`,
		f.total, limit, offset, totalPages, page, strings.Join(items, ","))
}

func newTestClient(t *testing.T, fake *fakeCatalog) *Client {
	t.Helper()
	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)

	client, err := NewClient(Options{
		BaseURL:    srv.URL + "/api/v1/artworks",
		PageSize:   12,
		Timeout:    2 * time.Second,
		RatePerSec: 0,
		Burst:      10,
		UserAgent:  "artsel-test",
		HTTPClient: srv.Client(),
	})
	require.NoError(t, err)
	return client
}

func TestFetchPage(t *testing.T) {
	fake := &fakeCatalog{total: 500}
	client := newTestClient(t, fake)

	resp, err := client.FetchPage(context.Background(), 1)
	require.NoError(t, err)

	assert.Len(t, resp.Data, 12)
	assert.Equal(t, 500, resp.Pagination.Total)
	assert.Equal(t, 12, resp.Pagination.Limit)
	assert.Equal(t, 42, resp.Pagination.TotalPages)
	assert.Equal(t, 1, resp.Pagination.CurrentPage)

	first := resp.Data[0]
	assert.Equal(t, int64(1000), first.ID)
	assert.Equal(t, "Work 1000", first.Title)
	assert.Equal(t, "Chicago", first.PlaceOfOrigin)
	assert.Nil(t, first.Inscriptions)
	require.NotNil(t, first.DateStart)
	assert.Equal(t, 1900, *first.DateStart)
	assert.Nil(t, first.DateEnd)

	q := fake.lastQ.Load().(url.Values)
	assert.Equal(t, []string{"1"}, q["page"])
	assert.Equal(t, []string{"12"}, q["limit"], "page size must be sent explicitly")
	assert.Contains(t, q["fields"][0], "artist_display")
	assert.Equal(t, "artsel-test", fake.lastUA.Load())
}

func TestFetchPage_SecondPage(t *testing.T) {
	client := newTestClient(t, &fakeCatalog{total: 500})

	resp, err := client.FetchPage(context.Background(), 2)
	require.NoError(t, err)
	assert.Equal(t, int64(1012), resp.Data[0].ID)
	assert.Equal(t, 12, resp.Pagination.Offset)
	assert.Equal(t, []int64{1012, 1013, 1014, 1015, 1016, 1017, 1018, 1019, 1020, 1021, 1022, 1023}, resp.IDs())
}

func TestFetchPage_InvalidPage(t *testing.T) {
	fake := &fakeCatalog{total: 10}
	client := newTestClient(t, fake)

	_, err := client.FetchPage(context.Background(), 0)
	require.Error(t, err)
	assert.Equal(t, int32(0), fake.requests.Load(), "no request for an invalid page")
}

func TestFetchPage_ServerError(t *testing.T) {
	fake := &fakeCatalog{status: http.StatusInternalServerError}
	client := newTestClient(t, fake)

	_, err := client.FetchPage(context.Background(), 1)
	require.Error(t, err)

	var netErr *apperrors.NetworkError
	require.True(t, errors.As(err, &netErr), "want NetworkError, got %T", err)
	assert.Equal(t, http.StatusInternalServerError, netErr.StatusCode)
	assert.Equal(t, int32(1), fake.requests.Load(), "no retry by default")
}

func TestFetchPage_RetryOptIn(t *testing.T) {
	fake := &fakeCatalog{status: http.StatusServiceUnavailable}
	srv := httptest.NewServer(fake)
	defer srv.Close()

	client, err := NewClient(Options{
		BaseURL:    srv.URL,
		RetryMax:   2,
		Burst:      10,
		HTTPClient: srv.Client(),
	})
	require.NoError(t, err)

	_, err = client.FetchPage(context.Background(), 1)
	require.Error(t, err)
	assert.Equal(t, int32(3), fake.requests.Load())
}

func TestFetchPage_MalformedJSON(t *testing.T) {
	client := newTestClient(t, &fakeCatalog{body: `{"pagination": {"total": "many"`})

	_, err := client.FetchPage(context.Background(), 1)
	require.Error(t, err)

	var parseErr *apperrors.ParseError
	assert.True(t, errors.As(err, &parseErr), "want ParseError, got %T", err)
}

func TestFetchPage_TransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	base := srv.URL
	srv.Close()

	client, err := NewClient(Options{BaseURL: base, Timeout: time.Second, Burst: 1})
	require.NoError(t, err)

	_, err = client.FetchPage(context.Background(), 1)
	require.Error(t, err)
	var netErr *apperrors.NetworkError
	require.True(t, errors.As(err, &netErr))
	assert.Zero(t, netErr.StatusCode)
}

func TestFetchPage_EmptyData(t *testing.T) {
	client := newTestClient(t, &fakeCatalog{body: `{"pagination":{"total":0,"limit":12,"offset":0,"total_pages":0,"current_page":1},"data":null}`})

	resp, err := client.FetchPage(context.Background(), 1)
	require.NoError(t, err)
	assert.NotNil(t, resp.Data)
	assert.Empty(t, resp.Data)
}

func TestFetchLeadingIdentifiers(t *testing.T) {
	fake := &fakeCatalog{total: 500}
	client := newTestClient(t, fake)

	ids, err := client.FetchLeadingIdentifiers(context.Background(), 50)
	require.NoError(t, err)
	require.Len(t, ids, 50)
	assert.Equal(t, int64(1000), ids[0])
	assert.Equal(t, int64(1049), ids[49])

	q := fake.lastQ.Load().(url.Values)
	assert.Equal(t, []string{"id"}, q["fields"])
	assert.Equal(t, []string{"50"}, q["limit"])
	assert.Empty(t, q["page"])
}

func TestFetchLeadingIdentifiers_Bounds(t *testing.T) {
	fake := &fakeCatalog{total: 500}
	client := newTestClient(t, fake)

	for _, n := range []int{0, -1, 101} {
		_, err := client.FetchLeadingIdentifiers(context.Background(), n)
		assert.Error(t, err, "limit %d", n)
	}
	assert.Equal(t, int32(0), fake.requests.Load())
}

func TestFetchLeadingIdentifiers_Truncates(t *testing.T) {
	client := newTestClient(t, &fakeCatalog{body: `{"data":[{"id":1},{"id":2},{"id":3}]}`})

	ids, err := client.FetchLeadingIdentifiers(context.Background(), 2)
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 2}, ids)
}

func TestFetchLeadingIdentifiers_Failure(t *testing.T) {
	client := newTestClient(t, &fakeCatalog{status: http.StatusTooManyRequests})

	ids, err := client.FetchLeadingIdentifiers(context.Background(), 5)
	require.Error(t, err)
	assert.Nil(t, ids)
}

func TestNewClient_Defaults(t *testing.T) {
	client, err := NewClient(Options{})
	require.NoError(t, err)
	assert.Equal(t, 12, client.PageSize())
	assert.Equal(t, "https://api.artic.edu/api/v1/artworks", client.BaseURL())

	_, err = NewClient(Options{PageSize: 500})
	assert.Error(t, err)
}

func TestEndpoint_ExistingQuery(t *testing.T) {
	client, err := NewClient(Options{BaseURL: "https://example.test/artworks?lang=en"})
	require.NoError(t, err)
	got := client.endpoint(map[string][]string{"page": {"2"}})
	assert.Equal(t, "https://example.test/artworks?lang=en&page=2", got)
}

func TestClientStats(t *testing.T) {
	client := newTestClient(t, &fakeCatalog{total: 50})

	_, err := client.FetchPage(context.Background(), 1)
	require.NoError(t, err)
	_, err = client.FetchLeadingIdentifiers(context.Background(), 5)
	require.NoError(t, err)

	stats := client.Stats()
	assert.Equal(t, 2, stats.TotalRequests)
	assert.Equal(t, 2, stats.Successful)
	require.Contains(t, stats.ByOperation, metrics.OperationPage)
	assert.Equal(t, 1, stats.ByOperation[metrics.OperationPage].Count)
	assert.Equal(t, 1, stats.ByOperation[metrics.OperationIDs].Success)
}

func TestClientStats_SharedSink(t *testing.T) {
	sink := metrics.NewSink()
	srv := httptest.NewServer(&fakeCatalog{status: http.StatusTooManyRequests})
	defer srv.Close()

	client, err := NewClient(Options{BaseURL: srv.URL, HTTPClient: srv.Client(), Metrics: sink})
	require.NoError(t, err)

	_, err = client.FetchPage(context.Background(), 1)
	require.Error(t, err)

	summary := sink.GetSummary()
	assert.Equal(t, 1, summary.Failed)
	assert.Equal(t, 1, summary.RateLimited)
	require.Len(t, sink.GetMetrics(), 1)
	assert.Equal(t, http.StatusTooManyRequests, sink.GetMetrics()[0].StatusCode)
}

func TestFetchPage_CancelledCallerDoesNotFailSharedRequest(t *testing.T) {
	arrived := make(chan struct{}, 4)
	release := make(chan struct{})
	fake := &fakeCatalog{total: 30}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		arrived <- struct{}{}
		<-release
		fake.ServeHTTP(w, r)
	}))
	t.Cleanup(srv.Close)

	client, err := NewClient(Options{
		BaseURL:    srv.URL,
		PageSize:   12,
		Timeout:    5 * time.Second,
		HTTPClient: srv.Client(),
	})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	firstErr := make(chan error, 1)
	go func() {
		_, err := client.FetchPage(ctx, 1)
		firstErr <- err
	}()
	<-arrived

	type result struct {
		resp *PageResponse
		err  error
	}
	second := make(chan result, 1)
	go func() {
		resp, err := client.FetchPage(context.Background(), 1)
		second <- result{resp, err}
	}()
	time.Sleep(50 * time.Millisecond)

	cancel()
	err = <-firstErr
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled), "got %v", err)

	close(release)
	got := <-second
	require.NoError(t, got.err)
	assert.Equal(t, 1, got.resp.Pagination.CurrentPage)
	assert.Len(t, got.resp.Data, 12)
	assert.Equal(t, int32(1), fake.requests.Load())
}
