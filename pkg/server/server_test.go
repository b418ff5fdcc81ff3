package server

import (
	"bytes"
	"context"
	"encoding/json"
	"image/png"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"

	"github.com/matzehuels/fct/pkg/cache"
	"github.com/matzehuels/fct/pkg/core/ifs"
	"github.com/matzehuels/fct/pkg/errors"
	"github.com/matzehuels/fct/pkg/pipeline"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	logger := log.New(io.Discard)
	runner := pipeline.NewRunner(cache.NewMemoryCache(time.Minute, 0), nil, nil, logger)
	ts := httptest.NewServer(New(Options{Runner: runner, Logger: logger}).Handler())
	t.Cleanup(ts.Close)
	return ts
}

func postJSON(t *testing.T, url string, body any) *http.Response {
	t.Helper()
	data, err := json.Marshal(body)
	if err != nil {
		t.Fatal(err)
	}
	resp, err := http.Post(url, "application/json", bytes.NewReader(data))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var v T
	if err := json.NewDecoder(resp.Body).Decode(&v); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return v
}

func TestHealth(t *testing.T) {
	ts := newTestServer(t)
	resp, err := http.Get(ts.URL + "/healthz")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if id := resp.Header.Get(headerRequestID); len(id) != 36 {
		t.Errorf("missing request id, got %q", id)
	}
}

func TestFractals(t *testing.T) {
	ts := newTestServer(t)
	resp, err := http.Get(ts.URL + "/v1/fractals")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	got := decode[[]FractalInfo](t, resp)
	if len(got) != 2 {
		t.Fatalf("got %d fractals, want 2", len(got))
	}
	if got[0].Kind != ifs.KindTree || len(got[0].Maps) != 4 {
		t.Errorf("first fractal = %+v", got[0])
	}
	if got[1].Kind != ifs.KindTriangle || got[1].Maps[2] != [6]float64{0.5, 0, 0, 0.5, 50, 50} {
		t.Errorf("second fractal = %+v", got[1])
	}
}

func TestGenerate(t *testing.T) {
	ts := newTestServer(t)
	seed := uint64(17)
	resp := postJSON(t, ts.URL+"/v1/generate", GenerateRequest{Kind: "triangle", Count: 2500, Seed: &seed, M: 30})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	got := decode[GenerateResponse](t, resp)
	if got.Count != 2500 || len(got.Steps) != 2500 {
		t.Errorf("count = %d, steps = %d", got.Count, len(got.Steps))
	}
	if got.Seed != 17 || got.Name != "SierpinskiTriangle" {
		t.Errorf("seed = %d, name = %q", got.Seed, got.Name)
	}
	if got.Histogram == nil || got.Histogram.Total() != 2500 {
		t.Error("histogram should count every point")
	}

	// Same seed → same points, served from cache.
	again := decode[GenerateResponse](t, postJSON(t, ts.URL+"/v1/generate", GenerateRequest{Kind: "triangle", Count: 2500, Seed: &seed}))
	if !again.Cached {
		t.Error("seeded request should hit the cache")
	}
	if again.Steps[100] != got.Steps[100] {
		t.Error("seeded requests should be reproducible")
	}
}

func TestGenerateUnseeded(t *testing.T) {
	ts := newTestServer(t)
	a := decode[GenerateResponse](t, postJSON(t, ts.URL+"/v1/generate", GenerateRequest{Kind: "tree", Count: 2500}))
	b := decode[GenerateResponse](t, postJSON(t, ts.URL+"/v1/generate", GenerateRequest{Kind: "tree", Count: 2500}))
	if a.Seed == 0 || a.Seed == b.Seed {
		t.Errorf("server should pick distinct seeds, got %d and %d", a.Seed, b.Seed)
	}
	if a.Cached || b.Cached {
		t.Error("unseeded runs must not be cached")
	}

	// The reported seed reproduces the run.
	seed := a.Seed
	c := decode[GenerateResponse](t, postJSON(t, ts.URL+"/v1/generate", GenerateRequest{Kind: "tree", Count: 2500, Seed: &seed}))
	if c.Steps[2499] != a.Steps[2499] {
		t.Error("reported seed should reproduce the points")
	}
}

func TestGenerateErrors(t *testing.T) {
	ts := newTestServer(t)
	tests := []struct {
		name   string
		body   any
		status int
		code   errors.Code
	}{
		{"too few", GenerateRequest{Kind: "tree", Count: 10}, http.StatusBadRequest, errors.ErrCodeInvalidArgument},
		{"too many", GenerateRequest{Kind: "tree", Count: 7000}, http.StatusBadRequest, errors.ErrCodeInvalidArgument},
		{"unknown kind", GenerateRequest{Kind: "dragon", Count: 2500}, http.StatusNotFound, errors.ErrCodeInvalidKind},
		{"bad m", GenerateRequest{Kind: "tree", Count: 2500, M: 50}, http.StatusBadRequest, errors.ErrCodeInvalidArgument},
		{"unknown field", map[string]any{"kind": "tree", "points": 3}, http.StatusBadRequest, errors.ErrCodeInvalidFormat},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := postJSON(t, ts.URL+"/v1/generate", tt.body)
			if resp.StatusCode != tt.status {
				t.Errorf("status = %d, want %d", resp.StatusCode, tt.status)
			}
			body := decode[errorBody](t, resp)
			if body.Error.Code != tt.code {
				t.Errorf("code = %s, want %s (%s)", body.Error.Code, tt.code, body.Error.Message)
			}
			if body.RequestID == "" {
				t.Error("error body should carry the request id")
			}
		})
	}
}

func TestGenerateErrorMessage(t *testing.T) {
	ts := newTestServer(t)
	body := decode[errorBody](t, postJSON(t, ts.URL+"/v1/generate", GenerateRequest{Kind: "tree", Count: 100}))
	want := "number of points 100 is below the minimum 2500 (valid range <2500, 6400>)"
	if body.Error.Message != want {
		t.Errorf("message = %q, want %q", body.Error.Message, want)
	}
}

func TestDiscretise(t *testing.T) {
	ts := newTestServer(t)
	seq, err := ifs.NewGenerator(ifs.NewSource(3), ifs.DefaultBounds).Generate(ifs.Tree(), 2500, 0, 0)
	if err != nil {
		t.Fatal(err)
	}
	points := ifs.Points(seq.Collect())

	resp := postJSON(t, ts.URL+"/v1/discretise", DiscretiseRequest{Points: points, M: 40})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	got := decode[DiscretiseResponse](t, resp)
	if got.Histogram == nil || got.M != 40 || len(got.Counts) != 40 {
		t.Fatalf("unexpected histogram: %+v", got.Histogram)
	}
	if got.Total != 2500 {
		t.Errorf("total = %d, want 2500", got.Total)
	}

	resp = postJSON(t, ts.URL+"/v1/discretise", DiscretiseRequest{Points: points, M: 50})
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("m=50 for 2500 points: status = %d, want 400", resp.StatusCode)
	}

	for _, m := range []int{1 << 32, 3037000500, 1 << 62} {
		resp := postJSON(t, ts.URL+"/v1/discretise", DiscretiseRequest{Points: points, M: m})
		resp.Body.Close()
		if resp.StatusCode != http.StatusBadRequest {
			t.Errorf("m=%d: status = %d, want 400", m, resp.StatusCode)
		}
	}
}

func TestRenderHugeM(t *testing.T) {
	ts := newTestServer(t)
	resp, err := http.Get(ts.URL + "/v1/render/tree.heatmap?count=2500&seed=4&m=4611686018427387904")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}
}

func TestRender(t *testing.T) {
	ts := newTestServer(t)

	resp, err := http.Get(ts.URL + "/v1/render/tree.heatmap?count=2500&seed=4&m=30&size=96")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(resp.Body)
		t.Fatalf("status = %d: %s", resp.StatusCode, b)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "image/png" {
		t.Errorf("Content-Type = %q", ct)
	}
	if resp.Header.Get("X-Seed") != "4" {
		t.Errorf("X-Seed = %q", resp.Header.Get("X-Seed"))
	}
	img, err := png.Decode(resp.Body)
	if err != nil {
		t.Fatalf("decode png: %v", err)
	}
	if img.Bounds().Dx() != 96 {
		t.Errorf("width = %d", img.Bounds().Dx())
	}

	resp2, err := http.Get(ts.URL + "/v1/render/tree.heatmap?count=2500&seed=4&m=30&size=96")
	if err != nil {
		t.Fatal(err)
	}
	resp2.Body.Close()
	if resp2.Header.Get("X-Cache") != "HIT" {
		t.Errorf("second render X-Cache = %q, want HIT", resp2.Header.Get("X-Cache"))
	}
}

func TestRenderASCII(t *testing.T) {
	ts := newTestServer(t)
	resp, err := http.Get(ts.URL + "/v1/render/triangle.ascii?count=2500&seed=1&m=25")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	lines := strings.Split(strings.TrimSuffix(string(body), "\n"), "\n")
	if len(lines) != 25 {
		t.Fatalf("got %d lines, want 25", len(lines))
	}
	for _, l := range lines {
		if len(l) != 25 || strings.Trim(l, "X ") != "" {
			t.Fatalf("bad ascii line %q", l)
		}
	}
}

func TestRenderErrors(t *testing.T) {
	ts := newTestServer(t)
	tests := []struct {
		path   string
		status int
	}{
		{"/v1/render/tree.gif", http.StatusBadRequest},
		{"/v1/render/tree.png?count=abc", http.StatusBadRequest},
		{"/v1/render/tree.png?seed=-1", http.StatusBadRequest},
		{"/v1/render/tree.heatmap?count=2500", http.StatusBadRequest},
		{"/v1/render/dragon.png", http.StatusNotFound},
		{"/v1/nope", http.StatusNotFound},
	}
	for _, tt := range tests {
		resp, err := http.Get(ts.URL + tt.path)
		if err != nil {
			t.Fatal(err)
		}
		resp.Body.Close()
		if resp.StatusCode != tt.status {
			t.Errorf("GET %s = %d, want %d", tt.path, resp.StatusCode, tt.status)
		}
	}
}

func TestStream(t *testing.T) {
	ts := newTestServer(t)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/v1/stream/triangle?count=2500&seed=8&batch=1000"
	conn, _, err := websocket.Dial(ctx, url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.CloseNow()
	conn.SetReadLimit(1 << 22)

	var steps []ifs.Step
	frames := 0
	for {
		var msg StreamMessage
		if err := wsjson.Read(ctx, conn, &msg); err != nil {
			t.Fatalf("read: %v", err)
		}
		if msg.Done {
			if msg.Total != 2500 {
				t.Errorf("total = %d", msg.Total)
			}
			break
		}
		if msg.Index != len(steps) {
			t.Errorf("frame index = %d, want %d", msg.Index, len(steps))
		}
		steps = append(steps, msg.Steps...)
		frames++
	}
	if len(steps) != 2500 || frames != 3 {
		t.Errorf("got %d steps in %d frames, want 2500 in 3", len(steps), frames)
	}

	want := ifs.NewGenerator(ifs.NewSource(8), ifs.DefaultBounds)
	seq, _ := want.Generate(ifs.Triangle(), 2500, 0, 0)
	if ref := seq.Collect(); ref[1234] != steps[1234] {
		t.Errorf("streamed step differs from a local run: %v vs %v", steps[1234], ref[1234])
	}
}

func TestStreamRejectsBeforeUpgrade(t *testing.T) {
	ts := newTestServer(t)
	resp, err := http.Get(ts.URL + "/v1/stream/tree?count=1")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}
}

func TestRequestIDPropagation(t *testing.T) {
	ts := newTestServer(t)
	req, _ := http.NewRequest(http.MethodGet, ts.URL+"/healthz", nil)
	req.Header.Set(headerRequestID, "6f1c1f0e-4a53-4f5b-9d1c-2f1b7f0a9e11")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if got := resp.Header.Get(headerRequestID); got != "6f1c1f0e-4a53-4f5b-9d1c-2f1b7f0a9e11" {
		t.Errorf("request id = %q", got)
	}
}
