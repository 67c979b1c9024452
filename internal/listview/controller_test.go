package listview

import (
	"context"
	"errors"
	"net/url"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type movie struct {
	ID          int
	Title       string
	PosterPath  string
	VoteAverage float64
}

type recordingNav struct {
	mu      sync.Mutex
	pushes  []string
	replace []string
}

func (n *recordingNav) Push(q string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.pushes = append(n.pushes, q)
}

func (n *recordingNav) Replace(q string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.replace = append(n.replace, q)
}

func (n *recordingNav) snapshot() ([]string, []string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string(nil), n.pushes...), append([]string(nil), n.replace...)
}

type recordingLoader struct {
	mu     sync.Mutex
	states []QueryState
	page   Page[movie]
	err    error
}

func (l *recordingLoader) load(_ context.Context, s QueryState) (Page[movie], error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.states = append(l.states, s)
	return l.page, l.err
}

func (l *recordingLoader) calls() []QueryState {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]QueryState(nil), l.states...)
}

func TestController_CategoryScenario(t *testing.T) {
	loader := &recordingLoader{page: Page[movie]{
		Items:      []movie{{ID: 1, Title: "A", PosterPath: "/a.jpg", VoteAverage: 7.5}},
		TotalPages: 3,
	}}
	nav := &recordingNav{}
	c := NewController[movie]("category", loader.load, nav)
	defer c.Close()

	result := c.Mount(context.Background(), "")
	require.True(t, result.IsSuccess())
	assert.Len(t, result.Items, 1)
	assert.Equal(t, 3, result.TotalPages)
	assert.Equal(t, 3, c.TotalPages())

	c.SetPage(context.Background(), 2)

	calls := loader.calls()
	require.Len(t, calls, 2)
	assert.Equal(t, 1, calls[0].Page)
	assert.Equal(t, 2, calls[1].Page)

	pushes, _ := nav.snapshot()
	require.Len(t, pushes, 1)
	values, err := url.ParseQuery(pushes[0])
	require.NoError(t, err)
	assert.Equal(t, "2", values.Get(PageKey))
	assert.Equal(t, pushes[0], c.Query())
}

func TestController_PageClamp(t *testing.T) {
	loader := &recordingLoader{page: Page[movie]{Items: []movie{{ID: 1}}, TotalPages: 5}}
	c := NewController[movie]("category", loader.load, nil)
	c.Mount(context.Background(), "page=2")

	c.SetPage(context.Background(), 0)
	c.SetPage(context.Background(), -5)
	assert.Equal(t, 2, c.State().Page)
	assert.Len(t, loader.calls(), 1, "no-op pages must not fetch")

	c.SetPage(context.Background(), 15)
	assert.Equal(t, 5, c.State().Page)

	// already on the last page
	c.SetPage(context.Background(), 6)
	assert.Len(t, loader.calls(), 2)
}

func TestController_UnknownTotalDoesNotClamp(t *testing.T) {
	loader := &recordingLoader{page: Page[movie]{Items: []movie{{ID: 1}}}}
	c := NewController[movie]("search", loader.load, nil)
	c.Mount(context.Background(), "")

	c.SetPage(context.Background(), 40)
	assert.Equal(t, 40, c.State().Page)
}

func TestController_ToggleGenre(t *testing.T) {
	loader := &recordingLoader{page: Page[movie]{TotalPages: 1}}
	nav := &recordingNav{}
	c := NewController[movie]("genres", loader.load, nav)
	c.Mount(context.Background(), "genreIds=35&page=4&ref=nav")

	c.ToggleGenre(context.Background(), 28)
	assert.Equal(t, []int{28, 35}, c.State().GenreIDs)
	assert.Equal(t, 1, c.State().Page)

	c.ToggleGenre(context.Background(), 28)
	assert.Equal(t, []int{35}, c.State().GenreIDs)

	c.ToggleGenre(context.Background(), 35)
	assert.Empty(t, c.State().GenreIDs)

	pushes, replaces := nav.snapshot()
	assert.Empty(t, pushes, "genre toggles replace the history entry")
	require.Len(t, replaces, 3)

	values, err := url.ParseQuery(replaces[2])
	require.NoError(t, err)
	assert.False(t, values.Has(GenreIDsKey))
	assert.Equal(t, "nav", values.Get("ref"))

	calls := loader.calls()
	require.Len(t, calls, 4)
	assert.Equal(t, []int{28, 35}, calls[1].GenreIDs)
}

func TestController_MalformedPayloadIsFailure(t *testing.T) {
	malformed := errors.New("metadata: malformed response: missing results")
	loader := &recordingLoader{err: malformed}
	c := NewController[movie]("category", loader.load, nil)

	result := c.Mount(context.Background(), "")
	assert.True(t, result.IsFailure())
	assert.Equal(t, DefaultFailureMessage, result.Message)

	// still interactive after a failure
	loader.mu.Lock()
	loader.err = nil
	loader.page = Page[movie]{Items: []movie{{ID: 9}}, TotalPages: 2}
	loader.mu.Unlock()

	result = c.SetPage(context.Background(), 2)
	assert.True(t, result.IsSuccess())
}

func TestController_SupersessionAcrossGoroutines(t *testing.T) {
	releaseA := make(chan struct{})
	startedA := make(chan struct{})
	load := func(ctx context.Context, s QueryState) (Page[movie], error) {
		if s.Page == 1 {
			close(startedA)
			<-releaseA
			return Page[movie]{Items: []movie{{ID: 100, Title: "A"}}, TotalPages: 9}, nil
		}
		return Page[movie]{Items: []movie{{ID: 200, Title: "B"}}, TotalPages: 9}, nil
	}
	c := NewController[movie]("main", load, nil)

	done := make(chan Result[movie])
	go func() { done <- c.Mount(context.Background(), "") }()
	<-startedA

	// B is issued and resolves while A is still in flight
	b := c.SetPage(context.Background(), 2)
	require.True(t, b.IsSuccess())

	close(releaseA)
	<-done

	final := c.Result()
	require.True(t, final.IsSuccess())
	assert.Equal(t, 200, final.Items[0].ID)
	assert.Equal(t, 2, c.State().Page)
}

func TestController_SearchIsDebounced(t *testing.T) {
	rec := newCountingRecorder()
	loader := &recordingLoader{page: Page[movie]{Items: []movie{{ID: 1}}, TotalPages: 1}}
	nav := &recordingNav{}
	c := NewController[movie]("search", loader.load, nav,
		WithSearchDelay(80*time.Millisecond), WithLimit(5), WithRecorder(rec))
	defer c.Close()

	applied := make(chan Result[movie], 8)
	c.OnChange(func(r Result[movie]) {
		if r.IsSuccess() {
			applied <- r
		}
	})

	ctx := context.Background()
	c.SetSearchText(ctx, "a")
	c.SetSearchText(ctx, "al")
	c.SetSearchText(ctx, "ali")

	assert.Equal(t, "ali", c.State().SearchText, "state updates before the fetch")
	_, replaces := nav.snapshot()
	assert.Len(t, replaces, 3)

	select {
	case <-applied:
	case <-time.After(2 * time.Second):
		t.Fatalf("debounced search never fetched")
	}

	calls := loader.calls()
	require.Len(t, calls, 1)
	assert.Equal(t, "ali", calls[0].SearchText)

	_, collapsed := rec.counts("search")
	assert.Equal(t, 2, collapsed)
}

func TestController_ImmediateFetchCancelsPendingSearch(t *testing.T) {
	loader := &recordingLoader{page: Page[movie]{Items: []movie{{ID: 1}}, TotalPages: 3}}
	c := NewController[movie]("search", loader.load, nil, WithSearchDelay(60*time.Millisecond))
	defer c.Close()

	c.SetSearchText(context.Background(), "dune")
	c.Mount(context.Background(), "query=dune&page=2")

	time.Sleep(150 * time.Millisecond)
	assert.Len(t, loader.calls(), 1)
}

func TestController_CloseStopsPendingSearch(t *testing.T) {
	loader := &recordingLoader{}
	c := NewController[movie]("search", loader.load, nil, WithSearchDelay(40*time.Millisecond))

	c.SetSearchText(context.Background(), "x")
	c.Close()

	time.Sleep(100 * time.Millisecond)
	assert.Empty(t, loader.calls())
}

func TestController_LinkQueries(t *testing.T) {
	loader := &recordingLoader{page: Page[movie]{TotalPages: 4}}
	c := NewController[movie]("genres", loader.load, nil)
	c.Mount(context.Background(), "genreIds=28&page=2")

	assert.Equal(t, "genreIds=28&page=3", c.PageQuery(3))
	assert.Equal(t, "genreIds=28%2C35&page=1", c.ToggleGenreQuery(35))
	assert.Equal(t, "page=1", c.ToggleGenreQuery(28))
}

func TestController_BeginCommitsInCallOrder(t *testing.T) {
	loader := &recordingLoader{page: Page[movie]{Items: []movie{{ID: 1}}, TotalPages: 9}}
	nav := &recordingNav{}
	c := NewController[movie]("category", loader.load, nav)
	defer c.Close()
	c.Mount(context.Background(), "")

	seven := c.BeginPage(context.Background(), 7)
	three := c.BeginPage(context.Background(), 3)

	// loads finish in reverse order
	latest := three.Run()
	stale := seven.Run()

	require.True(t, latest.IsSuccess())
	assert.Equal(t, latest.Seq, stale.Seq, "superseded load must not replace the result")
	assert.Equal(t, 3, c.State().Page)
	pushes, _ := nav.snapshot()
	assert.Equal(t, []string{"page=7", "page=3"}, pushes)
}

func TestController_SetPageRetriesCurrentPageAfterFailure(t *testing.T) {
	loader := &recordingLoader{page: Page[movie]{Items: []movie{{ID: 1}}, TotalPages: 4}}
	nav := &recordingNav{}
	c := NewController[movie]("category", loader.load, nav)
	defer c.Close()

	c.Mount(context.Background(), "page=2")
	c.SetPage(context.Background(), 2)
	assert.Len(t, loader.calls(), 1, "same page after success is a no-op")

	loader.mu.Lock()
	loader.err = errors.New("boom")
	loader.mu.Unlock()
	c.SetPage(context.Background(), 3)
	require.True(t, c.Result().IsFailure())

	loader.mu.Lock()
	loader.err = nil
	loader.mu.Unlock()
	result := c.SetPage(context.Background(), 3)
	require.True(t, result.IsSuccess())
	assert.Len(t, loader.calls(), 3)
	pushes, _ := nav.snapshot()
	assert.Equal(t, []string{"page=3"}, pushes, "a retry does not write the URL again")
}
