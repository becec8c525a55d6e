package syncer

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/jobsift/jobsift/internal/adzuna"
	"github.com/jobsift/jobsift/internal/store"
)

type fakeSearcher struct {
	credsErr error
	pages    map[int][]store.Job
	failPage int
	params   []adzuna.SearchParams
	calls    int
}

func (f *fakeSearcher) CheckCredentials() error { return f.credsErr }

func (f *fakeSearcher) SearchPage(_ context.Context, params adzuna.SearchParams, page int) (*adzuna.PageResult, error) {
	f.calls++
	f.params = append(f.params, params)

	if f.failPage > 0 && page >= f.failPage {
		return nil, &adzuna.APIError{StatusCode: 500, Message: "boom"}
	}

	jobs := f.pages[page]

	return &adzuna.PageResult{
		Jobs:       jobs,
		TotalPages: len(f.pages),
		Page:       page,
	}, nil
}

func instantLimiter() *RateLimiter {
	l := NewRateLimiter()
	l.wait = func(context.Context, time.Duration) error { return nil }

	return l
}

func newTestSyncer(t *testing.T, client searcher) (*Syncer, *store.Store) {
	t.Helper()

	st, err := store.New(t.TempDir(), zap.NewNop())
	if err != nil {
		t.Fatalf("creating store: %v", err)
	}

	return New(client, st, instantLimiter(), zap.NewNop()), st
}

func devJob(url string) store.Job {
	return store.Job{Title: "Golang Developer", Description: "backend golang services", URL: url}
}

func TestRunRequiresCredentials(t *testing.T) {
	client := &fakeSearcher{credsErr: errors.New("adzuna credentials missing")}
	s, _ := newTestSyncer(t, client)

	result, err := s.Run(context.Background(), Options{Keywords: []string{"golang"}})
	if err == nil {
		t.Fatalf("expected an error for missing credentials")
	}
	if result.Status != "error" {
		t.Fatalf("expected error status, got %q", result.Status)
	}
	if client.calls != 0 {
		t.Fatalf("no search should run without credentials, got %d calls", client.calls)
	}
}

func TestRunPersistsBatch(t *testing.T) {
	client := &fakeSearcher{pages: map[int][]store.Job{
		1: {devJob("u1"), devJob("u2")},
	}}
	s, st := newTestSyncer(t, client)

	result, err := s.Run(context.Background(), Options{Keywords: []string{"Golang", "golang", " "}})
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if result.Status != "success" {
		t.Fatalf("expected success, got %q (%s)", result.Status, result.Error)
	}
	if result.TotalJobs != 2 {
		t.Fatalf("expected 2 jobs, got %d", result.TotalJobs)
	}
	if result.BatchID == "" {
		t.Fatalf("expected a batch id")
	}
	if result.MatchSummary["golang"] != 2 {
		t.Fatalf("expected 2 golang hits, got %v", result.MatchSummary)
	}

	jobs, err := st.LoadBatch(result.BatchID)
	if err != nil {
		t.Fatalf("loading batch: %v", err)
	}
	if len(jobs) != 2 {
		t.Fatalf("expected 2 persisted jobs, got %d", len(jobs))
	}
}

func TestRunSecondSyncDedupes(t *testing.T) {
	client := &fakeSearcher{pages: map[int][]store.Job{
		1: {devJob("u1")},
	}}
	s, _ := newTestSyncer(t, client)

	first, err := s.Run(context.Background(), Options{Keywords: []string{"golang"}})
	if err != nil || first.Status != "success" {
		t.Fatalf("first run failed: %v %+v", err, first)
	}

	second, err := s.Run(context.Background(), Options{Keywords: []string{"golang"}})
	if err != nil {
		t.Fatalf("second run failed: %v", err)
	}
	if second.Status != "error" || second.TotalJobs != 0 {
		t.Fatalf("second run over identical results must keep nothing, got %+v", second)
	}
}

func TestRunUnsetMaxPagesFollowsAPITotal(t *testing.T) {
	client := &fakeSearcher{pages: map[int][]store.Job{
		1: {devJob("u1")},
		2: {devJob("u2")},
		3: {devJob("u3")},
		4: {devJob("u4")},
	}}
	s, _ := newTestSyncer(t, client)

	result, err := s.Run(context.Background(), Options{Keywords: []string{"golang"}})
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if result.PagesFetched != 4 {
		t.Fatalf("expected all 4 reported pages fetched, got %d", result.PagesFetched)
	}
	if result.TotalJobs != 4 {
		t.Fatalf("expected 4 jobs, got %d", result.TotalJobs)
	}
}

func TestRunMaxPagesBoundsPagination(t *testing.T) {
	client := &fakeSearcher{pages: map[int][]store.Job{
		1: {devJob("u1")},
		2: {devJob("u2")},
		3: {devJob("u3")},
	}}
	s, _ := newTestSyncer(t, client)

	result, err := s.Run(context.Background(), Options{Keywords: []string{"golang"}, MaxPages: 2})
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if result.PagesFetched != 2 {
		t.Fatalf("expected pagination stopped at 2 pages, got %d", result.PagesFetched)
	}
}

func TestRunPageErrorKeepsFetched(t *testing.T) {
	client := &fakeSearcher{
		pages: map[int][]store.Job{
			1: {devJob("u1")},
			2: {devJob("u2")},
		},
		failPage: 2,
	}
	s, _ := newTestSyncer(t, client)

	result, err := s.Run(context.Background(), Options{Keywords: []string{"golang"}, MaxPages: 3})
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if result.Status != "partial" {
		t.Fatalf("expected partial status, got %q", result.Status)
	}
	if result.TotalJobs != 1 {
		t.Fatalf("expected the first page to be preserved, got %d jobs", result.TotalJobs)
	}
	if result.Error == "" {
		t.Fatalf("expected the page error to be reported")
	}
}

func TestRunRemoteLocation(t *testing.T) {
	client := &fakeSearcher{pages: map[int][]store.Job{
		1: {devJob("u1")},
	}}
	s, _ := newTestSyncer(t, client)

	if _, err := s.Run(context.Background(), Options{Keywords: []string{"golang"}, Location: "remote"}); err != nil {
		t.Fatalf("run failed: %v", err)
	}

	keywords := make(map[string]bool)
	for _, p := range client.params {
		keywords[p.Keyword] = true
		if p.Location != "" {
			t.Fatalf("remote sync must not send a location, got %q", p.Location)
		}
	}
	if !keywords["remote"] || !keywords["work from home"] {
		t.Fatalf("expected remote synonyms in the searched keywords, got %v", keywords)
	}
}

func TestNormalizeKeywords(t *testing.T) {
	got := NormalizeKeywords([]string{" Golang ", "golang", "", "Python"})
	want := []string{"golang", "python"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestApplyRemoteLocationPassthrough(t *testing.T) {
	keywords, location := ApplyRemoteLocation([]string{"golang"}, "London")
	if location != "London" || len(keywords) != 1 {
		t.Fatalf("non-remote location must pass through, got %v %q", keywords, location)
	}
}

func TestRateLimiterSlidingWindow(t *testing.T) {
	now := time.Unix(1000, 0)
	var slept []time.Duration

	l := NewRateLimiter()
	l.maxCalls = 3
	l.window = 60 * time.Second
	l.now = func() time.Time { return now }
	l.wait = func(_ context.Context, d time.Duration) error {
		slept = append(slept, d)
		now = now.Add(d)

		return nil
	}

	ctx := context.Background()
	for i := 0; i < 3; i++ {
		if err := l.Wait(ctx); err != nil {
			t.Fatalf("wait %d failed: %v", i, err)
		}
		now = now.Add(time.Second)
	}
	if len(slept) != 0 {
		t.Fatalf("window not exhausted yet, should not sleep: %v", slept)
	}

	if err := l.Wait(ctx); err != nil {
		t.Fatalf("wait failed: %v", err)
	}
	if len(slept) != 1 {
		t.Fatalf("expected one sleep after exhausting the window, got %v", slept)
	}
	if slept[0] <= 0 || slept[0] > 60*time.Second {
		t.Fatalf("unexpected sleep duration %v", slept[0])
	}
}

func TestRateLimiterContextCancelled(t *testing.T) {
	l := NewRateLimiter()
	l.wait = func(ctx context.Context, _ time.Duration) error { return ctx.Err() }

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := l.DelayBetween(ctx); err == nil {
		t.Fatalf("expected context error")
	}
}
