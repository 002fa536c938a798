package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	charmlog "github.com/charmbracelet/log"

	"github.com/matzehuels/circlepack/pkg/scene"
	"github.com/matzehuels/circlepack/pkg/store"
)

func testAPI(t *testing.T) *httptest.Server {
	t.Helper()
	api := &apiServer{
		store:  store.NewMemoryStore(),
		logger: charmlog.NewWithOptions(io.Discard, charmlog.Options{}),
	}
	srv := httptest.NewServer(api.routes())
	t.Cleanup(srv.Close)
	return srv
}

func TestServeHealthz(t *testing.T) {
	srv := testAPI(t)

	resp, err := http.Get(srv.URL + "/healthz")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want 200", resp.StatusCode)
	}
}

func TestServePackAndFetch(t *testing.T) {
	srv := testAPI(t)

	body := `{"count": 4, "min_radius": 1, "max_radius": 2, "algorithm": "double", "iterations": 1000, "seed": 7}`
	resp, err := http.Post(srv.URL+"/pack", "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("status = %d, want 201", resp.StatusCode)
	}

	var sc scene.Scene
	if err := json.NewDecoder(resp.Body).Decode(&sc); err != nil {
		t.Fatalf("decoding scene: %v", err)
	}
	if sc.ID == "" {
		t.Error("scene should have an ID")
	}
	if len(sc.Circles) != 4 {
		t.Errorf("circles = %d, want 4", len(sc.Circles))
	}
	if sc.Params.Seed != 7 {
		t.Errorf("seed = %d, want 7", sc.Params.Seed)
	}

	// The committed scene is retrievable as JSON.
	get, err := http.Get(srv.URL + "/scenes/" + sc.ID)
	if err != nil {
		t.Fatal(err)
	}
	defer get.Body.Close()
	if get.StatusCode != http.StatusOK {
		t.Errorf("GET status = %d, want 200", get.StatusCode)
	}

	// And as a rendered SVG.
	svg, err := http.Get(srv.URL + "/scenes/" + sc.ID + ".svg")
	if err != nil {
		t.Fatal(err)
	}
	defer svg.Body.Close()
	if ct := svg.Header.Get("Content-Type"); ct != "image/svg+xml" {
		t.Errorf("Content-Type = %q, want image/svg+xml", ct)
	}
	data, _ := io.ReadAll(svg.Body)
	if !bytes.HasPrefix(data, []byte("<svg ")) {
		t.Error("response is not an SVG document")
	}
}

func TestServePackRejectsBadRequest(t *testing.T) {
	srv := testAPI(t)

	tests := []struct {
		name string
		body string
	}{
		{"invalid json", `{`},
		{"unknown algorithm", `{"algorithm": "Simple"}`},
		{"bad radii", `{"count": 4, "min_radius": 3, "max_radius": 1}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := http.Post(srv.URL+"/pack", "application/json", strings.NewReader(tt.body))
			if err != nil {
				t.Fatal(err)
			}
			defer resp.Body.Close()
			if resp.StatusCode != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", resp.StatusCode)
			}
		})
	}
}

// flakyStore fails the first putFailures commits with a retryable error
// before delegating to the wrapped store.
type flakyStore struct {
	store.Store
	putFailures int
}

func (s *flakyStore) Put(ctx context.Context, sc scene.Scene) error {
	if s.putFailures > 0 {
		s.putFailures--
		return store.Retryable(errors.New("transient backend failure"))
	}
	return s.Store.Put(ctx, sc)
}

func TestServePackRetriesTransientCommit(t *testing.T) {
	if testing.Short() {
		t.Skip("waits out a retry backoff")
	}

	flaky := &flakyStore{Store: store.NewMemoryStore(), putFailures: 1}
	api := &apiServer{
		store:  flaky,
		logger: charmlog.NewWithOptions(io.Discard, charmlog.Options{}),
	}
	srv := httptest.NewServer(api.routes())
	t.Cleanup(srv.Close)

	body := `{"count": 3, "min_radius": 1, "max_radius": 1, "algorithm": "fast", "iterations": 1000}`
	resp, err := http.Post(srv.URL+"/pack", "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("status = %d, want 201", resp.StatusCode)
	}
	if flaky.putFailures != 0 {
		t.Error("flaky Put was never exercised")
	}

	var sc scene.Scene
	if err := json.NewDecoder(resp.Body).Decode(&sc); err != nil {
		t.Fatal(err)
	}
	get, err := http.Get(srv.URL + "/scenes/" + sc.ID)
	if err != nil {
		t.Fatal(err)
	}
	defer get.Body.Close()
	if get.StatusCode != http.StatusOK {
		t.Errorf("GET status = %d, want 200", get.StatusCode)
	}
}

func TestServeSceneNotFound(t *testing.T) {
	srv := testAPI(t)

	resp, err := http.Get(srv.URL + "/scenes/missing")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("status = %d, want 404", resp.StatusCode)
	}
}

func TestServeDelete(t *testing.T) {
	srv := testAPI(t)

	body := `{"count": 3, "min_radius": 1, "max_radius": 1, "algorithm": "fast", "iterations": 1000}`
	resp, err := http.Post(srv.URL+"/pack", "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	var sc scene.Scene
	if err := json.NewDecoder(resp.Body).Decode(&sc); err != nil {
		t.Fatal(err)
	}

	req, _ := http.NewRequest(http.MethodDelete, srv.URL+"/scenes/"+sc.ID, nil)
	del, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	defer del.Body.Close()
	if del.StatusCode != http.StatusNoContent {
		t.Errorf("DELETE status = %d, want 204", del.StatusCode)
	}

	gone, err := http.Get(srv.URL + "/scenes/" + sc.ID)
	if err != nil {
		t.Fatal(err)
	}
	defer gone.Body.Close()
	if gone.StatusCode != http.StatusNotFound {
		t.Errorf("GET after delete = %d, want 404", gone.StatusCode)
	}
}
