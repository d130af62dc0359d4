package recognizer

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/bosocmputer/captcha_ocr_ensemble/internal/ai"
)

type fakeProvider struct {
	name       string
	candidates []string
	gotMIME    string
}

func (f *fakeProvider) Name() string { return f.name }

func (f *fakeProvider) Recognize(ctx context.Context, img ai.Image) ([]string, error) {
	f.gotMIME = img.MIMEType
	return f.candidates, nil
}

func TestNewRequiresCredential(t *testing.T) {
	if _, err := New(Options{Models: []string{"some/model"}}); err == nil {
		t.Fatal("New without any API key must fail")
	}
}

func TestRecognizeBytes(t *testing.T) {
	p1 := &fakeProvider{name: "p1", candidates: []string{"AB12"}}
	p2 := &fakeProvider{name: "p2", candidates: []string{"AB12"}}
	r := newWithProviders([]ai.Provider{p1, p2}, false)

	res, err := r.Recognize(context.Background(), []byte("png-bytes"))
	if err != nil {
		t.Fatalf("Recognize: %v", err)
	}
	if res.FinalText == nil || *res.FinalText != "AB12" {
		t.Fatalf("FinalText = %v, want AB12", res.FinalText)
	}
	if len(res.Details) != 2 {
		t.Fatalf("got %d details, want 2", len(res.Details))
	}
	if p1.gotMIME != "image/png" {
		t.Errorf("raw bytes should default to image/png, got %s", p1.gotMIME)
	}
}

func TestRecognizeFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "captcha.jpg")
	if err := os.WriteFile(path, []byte("jpeg-bytes"), 0644); err != nil {
		t.Fatal(err)
	}

	p := &fakeProvider{name: "p1", candidates: []string{"ZX98"}}
	r := newWithProviders([]ai.Provider{p}, false)

	res, err := r.Recognize(context.Background(), path)
	if err != nil {
		t.Fatalf("Recognize: %v", err)
	}
	if res.FinalText == nil || *res.FinalText != "ZX98" {
		t.Fatalf("FinalText = %v, want ZX98", res.FinalText)
	}
	if p.gotMIME != "image/jpeg" {
		t.Errorf(".jpg file should be tagged image/jpeg, got %s", p.gotMIME)
	}
}

func TestRecognizeMissingFile(t *testing.T) {
	r := newWithProviders([]ai.Provider{&fakeProvider{name: "p1", candidates: []string{"X1Y2"}}}, false)
	if _, err := r.Recognize(context.Background(), "/nonexistent/captcha.png"); err == nil {
		t.Fatal("expected an error for an unresolvable path")
	}
}

func TestRecognizeUnsupportedInput(t *testing.T) {
	r := newWithProviders([]ai.Provider{&fakeProvider{name: "p1", candidates: []string{"X1Y2"}}}, false)
	if _, err := r.Recognize(context.Background(), 42); err == nil {
		t.Fatal("expected an error for an unsupported input type")
	}
	if _, err := r.Recognize(context.Background(), []byte{}); err == nil {
		t.Fatal("expected an error for an empty payload")
	}
}

func TestMIMETypeForPath(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"captcha.png", "image/png"},
		{"captcha.jpg", "image/jpeg"},
		{"captcha.JPEG", "image/jpeg"},
		{"captcha", "image/png"},
		{"dir/captcha.gif", "image/png"},
	}
	for _, tc := range tests {
		if got := MIMETypeForPath(tc.path); got != tc.want {
			t.Errorf("MIMETypeForPath(%q) = %q, want %q", tc.path, got, tc.want)
		}
	}
}
