package results

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/meur/gamecatalog/internal/catalog"
	"github.com/meur/gamecatalog/internal/models"
)

// recorder collects published snapshots.
type recorder struct {
	mu    sync.Mutex
	snaps []Snapshot
	done  chan Snapshot
}

func newRecorder() *recorder {
	return &recorder{done: make(chan Snapshot, 16)}
}

func (r *recorder) record(s Snapshot) {
	r.mu.Lock()
	r.snaps = append(r.snaps, s)
	r.mu.Unlock()
	if s.State != Loading {
		r.done <- s
	}
}

func (r *recorder) all() []Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Snapshot(nil), r.snaps...)
}

func (r *recorder) wait(t *testing.T) Snapshot {
	t.Helper()
	select {
	case s := <-r.done:
		return s
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for search to resolve")
		return Snapshot{}
	}
}

func searcherOver(games []models.Game) Searcher {
	return SearchFunc(func(q string) []models.Game { return catalog.Search(q, games) })
}

func TestView_SubmitLoadingThenPopulated(t *testing.T) {
	defer goleak.VerifyNone(t)

	rec := newRecorder()
	v := NewView(searcherOver(arenaGames()), WithDelay(10*time.Millisecond), OnChange(rec.record))
	defer v.Close()

	v.Submit("arena")
	assert.Equal(t, Loading, v.Snapshot().State)

	s := rec.wait(t)
	assert.Equal(t, Populated, s.State)
	require.Len(t, s.Games, 2)
	assert.Equal(t, "1", s.Games[0].ID)
	assert.Equal(t, "3", s.Games[1].ID)

	snaps := rec.all()
	require.Len(t, snaps, 2)
	assert.Equal(t, Loading, snaps[0].State)
}

func TestView_ZeroDelayEmpty(t *testing.T) {
	defer goleak.VerifyNone(t)

	rec := newRecorder()
	v := NewView(searcherOver(arenaGames()), WithDelay(0), OnChange(rec.record))
	defer v.Close()

	v.Submit("zzzznotfound")

	s := rec.wait(t)
	assert.Equal(t, Empty, s.State)
	assert.Len(t, s.Actions, 2)
}

func TestView_LatestQueryWins(t *testing.T) {
	defer goleak.VerifyNone(t)

	var mu sync.Mutex
	var searched []string
	searcher := SearchFunc(func(q string) []models.Game {
		mu.Lock()
		searched = append(searched, q)
		mu.Unlock()
		return catalog.Search(q, arenaGames())
	})

	rec := newRecorder()
	v := NewView(searcher, WithDelay(20*time.Millisecond), OnChange(rec.record))
	defer v.Close()

	v.Submit("puzzle")
	v.Submit("kart")
	v.Submit("arena")

	s := rec.wait(t)
	assert.Equal(t, "arena", s.Query)
	assert.Equal(t, Populated, s.State)
	assert.Len(t, s.Games, 2)

	// nothing else resolves afterwards
	select {
	case extra := <-rec.done:
		t.Fatalf("unexpected late completion for %q", extra.Query)
	case <-time.After(60 * time.Millisecond):
	}

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []string{"arena"}, searched)
}

func TestView_PublishedSequenceNeverGoesBack(t *testing.T) {
	defer goleak.VerifyNone(t)

	rec := newRecorder()
	v := NewView(searcherOver(arenaGames()), WithDelay(0), OnChange(rec.record))
	defer v.Close()

	var last Ticket
	for i := 0; i < 20; i++ {
		last = v.Submit("arena")
	}

	deadline := time.After(2 * time.Second)
	for {
		select {
		case s := <-rec.done:
			if s.Seq == last.Seq {
				var prev uint64
				for _, snap := range rec.all() {
					assert.GreaterOrEqual(t, snap.Seq, prev)
					prev = snap.Seq
				}
				return
			}
		case <-deadline:
			t.Fatal("latest submission never resolved")
		}
	}
}

func TestView_CloseCancelsPending(t *testing.T) {
	defer goleak.VerifyNone(t)

	rec := newRecorder()
	v := NewView(searcherOver(arenaGames()), WithDelay(20*time.Millisecond), OnChange(rec.record))

	v.Submit("arena")
	v.Close()

	select {
	case s := <-rec.done:
		t.Fatalf("closed view resolved %q", s.Query)
	case <-time.After(60 * time.Millisecond):
	}

	assert.Equal(t, Ticket{}, v.Submit("arena"))
	assert.Equal(t, Loading, v.Snapshot().State)
}
