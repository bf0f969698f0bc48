package view_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/yzchen14/GUITest/gateway"
	"github.com/yzchen14/GUITest/view"
)

type backend struct {
	hellos atomic.Int32
	posts  atomic.Int32

	mu     sync.Mutex
	bodies []string

	helloBody string
	dataBody  string
	dataCode  int
}

func (b *backend) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.URL.Path {
	case gateway.HelloPath:
		b.hellos.Add(1)
		_, _ = io.WriteString(w, b.helloBody)
	case gateway.DataPath:
		b.posts.Add(1)
		body, _ := io.ReadAll(r.Body)
		b.mu.Lock()
		b.bodies = append(b.bodies, string(body))
		b.mu.Unlock()
		if b.dataCode != 0 {
			w.WriteHeader(b.dataCode)
		}
		_, _ = io.WriteString(w, b.dataBody)
	default:
		http.NotFound(w, r)
	}
}

type alerts struct {
	mu   sync.Mutex
	msgs []string
}

func (a *alerts) Alert(msg string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.msgs = append(a.msgs, msg)
}

func (a *alerts) all() []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]string(nil), a.msgs...)
}

func newView(t *testing.T, b *backend) (*view.View, *bytes.Buffer) {
	t.Helper()
	srv := httptest.NewServer(b)
	t.Cleanup(srv.Close)

	var logs bytes.Buffer
	v := view.New(gateway.NewClient(srv.URL, time.Second), zerolog.New(&logs))
	return v, &logs
}

func TestMount_LoadsGreetingOnce(t *testing.T) {
	b := &backend{helloBody: `{"message":"hi"}`}
	v, _ := newView(t, b)

	require.Equal(t, "", v.Snapshot().Message)

	v.Mount(context.Background())
	v.Mount(context.Background())

	require.EqualValues(t, 1, b.hellos.Load())
	require.Equal(t, "hi", v.Snapshot().Message)
}

func TestMount_ConcurrentCallsFetchOnce(t *testing.T) {
	b := &backend{helloBody: `{"message":"hi"}`}
	v, _ := newView(t, b)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			v.Mount(context.Background())
		}()
	}
	wg.Wait()

	require.EqualValues(t, 1, b.hellos.Load())
	require.Equal(t, "hi", v.Snapshot().Message)
}

func TestMount_FailureKeepsEmptyGreeting(t *testing.T) {
	t.Run("malformed json", func(t *testing.T) {
		b := &backend{helloBody: `{"message":`}
		v, logs := newView(t, b)

		require.NotPanics(t, func() { v.Mount(context.Background()) })
		require.Equal(t, "", v.Snapshot().Message)
		require.Contains(t, logs.String(), `"level":"error"`)
	})

	t.Run("network error", func(t *testing.T) {
		srv := httptest.NewServer(http.NotFoundHandler())
		url := srv.URL
		srv.Close()

		var logs bytes.Buffer
		v := view.New(gateway.NewClient(url, time.Second), zerolog.New(&logs))

		require.NotPanics(t, func() { v.Mount(context.Background()) })
		require.Equal(t, "", v.Snapshot().Message)
		require.Contains(t, logs.String(), `"level":"error"`)
	})
}

func TestUpdateDraft(t *testing.T) {
	v, _ := newView(t, &backend{})

	for _, s := range []string{"a", "ab", "", "héllo 世界 🚀", "  spaced  "} {
		v.UpdateDraft(s)
		require.Equal(t, s, v.Snapshot().Input)
	}
}

func TestSubmit_ClearsDraftAndConfirms(t *testing.T) {
	b := &backend{dataBody: `{"received":{"data":"abc"}}`}
	v, logs := newView(t, b)
	a := &alerts{}

	v.UpdateDraft("abc")
	require.NoError(t, v.Submit(context.Background(), a))

	require.EqualValues(t, 1, b.posts.Load())
	require.Len(t, b.bodies, 1)
	require.JSONEq(t, `{"data":"abc"}`, b.bodies[0])
	require.Equal(t, "", v.Snapshot().Input)
	require.Equal(t, []string{view.ConfirmationMessage}, a.all())
	require.Contains(t, logs.String(), `"message":"Response"`)
}

func TestSubmit_EmptyDraftIsSent(t *testing.T) {
	b := &backend{dataBody: `{}`}
	v, _ := newView(t, b)

	require.NoError(t, v.Submit(context.Background(), nil))
	require.JSONEq(t, `{"data":""}`, b.bodies[0])
}

func TestSubmit_NonSuccessStatusWithJSONStillClears(t *testing.T) {
	b := &backend{dataBody: `{"error":"nope"}`, dataCode: http.StatusUnprocessableEntity}
	v, _ := newView(t, b)
	a := &alerts{}

	v.UpdateDraft("abc")
	require.NoError(t, v.Submit(context.Background(), a))
	require.Equal(t, "", v.Snapshot().Input)
	require.Len(t, a.all(), 1)
}

func TestSubmit_NetworkFailureKeepsDraft(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	var logs bytes.Buffer
	v := view.New(gateway.NewClient(url, time.Second), zerolog.New(&logs))
	a := &alerts{}

	v.UpdateDraft("abc")
	err := v.Submit(context.Background(), a)

	require.True(t, gateway.IsNetwork(err), "got %v", err)
	require.Equal(t, "abc", v.Snapshot().Input)
	require.Empty(t, a.all())
	require.Contains(t, logs.String(), `"level":"error"`)
}

func TestSubmit_ParseFailureKeepsDraft(t *testing.T) {
	b := &backend{dataBody: `Internal Server Error`, dataCode: http.StatusInternalServerError}
	v, _ := newView(t, b)
	a := &alerts{}

	v.UpdateDraft("abc")
	err := v.Submit(context.Background(), a)

	require.True(t, gateway.IsParse(err), "got %v", err)
	require.Equal(t, "abc", v.Snapshot().Input)
	require.Empty(t, a.all())
}

// slowGateway holds every SendData until release is closed.
type slowGateway struct {
	release chan struct{}
	started chan string
	sends   atomic.Int32
}

func (g *slowGateway) Hello(context.Context) (string, error) { return "", nil }

func (g *slowGateway) SendData(_ context.Context, data string) (json.RawMessage, error) {
	g.sends.Add(1)
	g.started <- data
	<-g.release
	return json.RawMessage(`{}`), nil
}

func TestSubmit_RapidRepeatsAreNotDeduplicated(t *testing.T) {
	g := &slowGateway{release: make(chan struct{}), started: make(chan string, 2)}
	v := view.New(g, zerolog.Nop())
	a := &alerts{}

	v.UpdateDraft("twice")

	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = v.Submit(context.Background(), a)
		}()
	}

	require.Equal(t, "twice", <-g.started)
	require.Equal(t, "twice", <-g.started)

	// The view stays usable while requests are in flight.
	v.UpdateDraft("typing")
	require.Equal(t, "typing", v.Snapshot().Input)

	close(g.release)
	wg.Wait()

	require.EqualValues(t, 2, g.sends.Load())
	require.Len(t, a.all(), 2)
	require.Equal(t, "", v.Snapshot().Input)
}

func TestNotifierFunc(t *testing.T) {
	var got string
	view.NotifierFunc(func(msg string) { got = msg }).Alert("x")
	require.Equal(t, "x", got)
}
