package imagefetch

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"io"
	"net/http"
	"strings"
	"sync"
	"testing"

	"pidformatter/campaign"
	"pidformatter/imageindex"
)

type fakeDoer struct {
	fn func(r *http.Request) (*http.Response, error)
}

func (d fakeDoer) Do(r *http.Request) (*http.Response, error) {
	return d.fn(r)
}

func bodyResponse(status int, body []byte) *http.Response {
	return &http.Response{
		StatusCode: status,
		Header:     make(http.Header),
		Body:       io.NopCloser(bytes.NewReader(body)),
	}
}

func encodePNG(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return buf.Bytes()
}

func opaqueImage(width, height int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, color.RGBA{R: 200, G: 10, B: 10, A: 255})
		}
	}
	return img
}

func TestClient_CheckUsesHeadAndRequiresOK(t *testing.T) {
	t.Parallel()

	var mu sync.Mutex
	methods := make([]string, 0, 2)
	doer := fakeDoer{fn: func(r *http.Request) (*http.Response, error) {
		mu.Lock()
		methods = append(methods, r.Method)
		mu.Unlock()
		if r.Header.Get("User-Agent") != "test-agent" {
			t.Errorf("missing user agent")
		}
		if strings.HasSuffix(r.URL.Path, "/ok.jpg") {
			return bodyResponse(http.StatusOK, nil), nil
		}
		return bodyResponse(http.StatusNotFound, nil), nil
	}}
	client := NewClient(ClientConfig{UserAgent: "test-agent", HTTPClient: doer})

	if !client.Check(context.Background(), "https://img.test/ok.jpg") {
		t.Fatalf("expected ok.jpg to be reachable")
	}
	if client.Check(context.Background(), "https://img.test/missing.jpg") {
		t.Fatalf("expected missing.jpg to be unreachable")
	}
	if client.Check(context.Background(), "") {
		t.Fatalf("expected empty url to be unreachable")
	}
	if len(methods) != 2 || methods[0] != http.MethodHead {
		t.Fatalf("unexpected requests: %v", methods)
	}
}

func TestClient_FetchRejectsNonOK(t *testing.T) {
	t.Parallel()

	doer := fakeDoer{fn: func(r *http.Request) (*http.Response, error) {
		return bodyResponse(http.StatusForbidden, []byte("no")), nil
	}}

	_, err := NewClient(ClientConfig{HTTPClient: doer}).Fetch(context.Background(), "https://img.test/a.jpg")
	if err == nil || !strings.Contains(err.Error(), "status 403") {
		t.Fatalf("expected status error, got %v", err)
	}
}

func TestItemsFromProducts_RequiresIndexEntry(t *testing.T) {
	t.Parallel()

	index, _ := imageindex.Build([][]string{
		{"MB_id", "image_src"},
		{"1", "one.jpg"},
		{"3", "three.webp"},
	}, "https://img.test/")
	rows := []campaign.ProductImage{{PID: 1}, {PID: 2}, {PID: 3}}

	items := ItemsFromProducts(rows, index)
	if len(items) != 2 {
		t.Fatalf("expected 2 items, got %+v", items)
	}
	if items[1].PID != 3 || items[1].URL != "https://img.test/three.webp" || items[1].Filename != "three.png" {
		t.Fatalf("unexpected item: %+v", items[1])
	}
	if got := ItemsFromProducts(rows, nil); len(got) != 0 {
		t.Fatalf("expected no items without index, got %+v", got)
	}
}

type mapFetcher map[string][]byte

func (m mapFetcher) Fetch(_ context.Context, url string) ([]byte, error) {
	data, ok := m[url]
	if !ok {
		return nil, errors.New("not found")
	}
	return data, nil
}

func TestCollect_KeepsOrderAndReportsFailures(t *testing.T) {
	t.Parallel()

	items := []Item{
		{PID: 1, URL: "u1", Filename: "a.png"},
		{PID: 2, URL: "u2", Filename: "b.png"},
		{PID: 3, URL: "u3", Filename: "c.png"},
	}
	fetcher := mapFetcher{"u1": []byte("one"), "u3": []byte("three")}

	images, failures := Collect(context.Background(), fetcher, items, 2)
	if len(images) != 2 || images[0].PID != 1 || images[1].PID != 3 {
		t.Fatalf("unexpected images: %+v", images)
	}
	if string(images[1].Data) != "three" {
		t.Fatalf("unexpected data: %q", images[1].Data)
	}
	if len(failures) != 1 || failures[0].Item.PID != 2 {
		t.Fatalf("unexpected failures: %+v", failures)
	}
}

func TestCollect_CancelledContextSkipsItems(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	images, failures := Collect(ctx, mapFetcher{"u1": []byte("x")}, []Item{{PID: 1, URL: "u1"}}, 1)
	if len(images) != 0 || len(failures) != 1 {
		t.Fatalf("expected cancelled item to fail, got images=%d failures=%d", len(images), len(failures))
	}
}

type setChecker map[string]bool

func (s setChecker) Check(_ context.Context, url string) bool {
	return s[url]
}

func TestCheckAll_DeduplicatesURLs(t *testing.T) {
	t.Parallel()

	got := CheckAll(context.Background(), setChecker{"a": true}, []string{"a", "", "b", "a"}, 4)
	if len(got) != 2 || !got["a"] || got["b"] {
		t.Fatalf("unexpected reachability: %v", got)
	}
}

func TestThumbnail(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name          string
		width, height int
		wantW, wantH  int
	}{
		{name: "landscape", width: 1300, height: 650, wantW: 650, wantH: 325},
		{name: "portrait", width: 400, height: 1000, wantW: 260, wantH: 650},
		{name: "small stays", width: 100, height: 80, wantW: 100, wantH: 80},
	}
	for _, tc := range tests {
		got := Thumbnail(opaqueImage(tc.width, tc.height), 650)
		if got.Bounds().Dx() != tc.wantW || got.Bounds().Dy() != tc.wantH {
			t.Fatalf("%s: want %dx%d, got %dx%d", tc.name, tc.wantW, tc.wantH, got.Bounds().Dx(), got.Bounds().Dy())
		}
	}
}

func TestWriteArchive_CountsTransparentImages(t *testing.T) {
	t.Parallel()

	clear := opaqueImage(4, 4)
	clear.Set(0, 0, color.RGBA{})
	images := []Image{
		{PID: 1, Filename: "solid.png", Data: encodePNG(t, opaqueImage(4, 4))},
		{PID: 2, Filename: "clear.png", Data: encodePNG(t, clear)},
		{PID: 3, Filename: "bad.png", Data: []byte("not an image")},
	}

	stats, err := WriteArchive(io.Discard, images, 650)
	if err != nil {
		t.Fatalf("write archive: %v", err)
	}
	if stats.Transparent != 1 || stats.Written != 2 || stats.Skipped != 1 {
		t.Fatalf("unexpected stats: %+v", stats)
	}
}

func TestWriteArchive(t *testing.T) {
	t.Parallel()

	images := []Image{
		{PID: 1, Filename: "big.png", Data: encodePNG(t, opaqueImage(1000, 500))},
		{PID: 2, Filename: "bad.png", Data: []byte("garbage")},
		{PID: 3, Filename: "big.png", Data: encodePNG(t, opaqueImage(10, 10))},
	}

	var buf bytes.Buffer
	stats, err := WriteArchive(&buf, images, 650)
	if err != nil {
		t.Fatalf("write archive: %v", err)
	}
	if stats.Written != 1 || stats.Skipped != 1 || stats.Duplicates != 1 {
		t.Fatalf("unexpected stats: %+v", stats)
	}

	reader, err := zip.NewReader(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	if err != nil {
		t.Fatalf("open zip: %v", err)
	}
	if len(reader.File) != 1 || reader.File[0].Name != "big.png" {
		t.Fatalf("unexpected zip entries: %d", len(reader.File))
	}
	entry, err := reader.File[0].Open()
	if err != nil {
		t.Fatalf("open entry: %v", err)
	}
	defer entry.Close()
	decoded, err := png.Decode(entry)
	if err != nil {
		t.Fatalf("decode entry: %v", err)
	}
	if decoded.Bounds().Dx() != 650 || decoded.Bounds().Dy() != 325 {
		t.Fatalf("unexpected thumbnail size %v", decoded.Bounds())
	}
}
