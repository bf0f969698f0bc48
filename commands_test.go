package main

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer

	root := newRootCmd()
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetArgs(append(args, "--env-file", filepath.Join(t.TempDir(), "none.env"), "--log-level", "error"))
	err := root.Execute()
	return stdout.String(), stderr.String(), err
}

func fakeGateway(t *testing.T) (*httptest.Server, *[]string) {
	t.Helper()
	var posted []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/hello":
			_, _ = io.WriteString(w, `{"message":"hello there"}`)
		case "/api/data":
			b, _ := io.ReadAll(r.Body)
			posted = append(posted, strings.TrimSpace(string(b)))
			_, _ = io.WriteString(w, `{"received":{}}`)
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)
	return srv, &posted
}

func TestHelloCommand(t *testing.T) {
	srv, _ := fakeGateway(t)

	out, _, err := execute(t, "hello", "--gateway", srv.URL)
	require.NoError(t, err)
	require.Equal(t, "hello there\n", out)
}

func TestSendCommand(t *testing.T) {
	srv, posted := fakeGateway(t)

	out, _, err := execute(t, "send", "abc", "--gateway", srv.URL)
	require.NoError(t, err)
	require.Equal(t, "Data sent successfully!\n", out)
	require.Equal(t, []string{`{"data":"abc"}`}, *posted)
}

func TestSendCommand_GatewayDownIsSilent(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	out, stderr, err := execute(t, "send", "abc", "--gateway", url)
	require.NoError(t, err)
	require.Empty(t, out)
	require.Contains(t, stderr, "Error")
}

func TestNotesCommand_EmptyMemoryStore(t *testing.T) {
	t.Setenv("DATABASE_URL", "")

	out, _, err := execute(t, "notes")
	require.NoError(t, err)
	require.Empty(t, out)
}

func TestSendCommand_RequiresText(t *testing.T) {
	_, _, err := execute(t, "send")
	require.Error(t, err)
}
