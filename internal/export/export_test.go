package export

import (
	"context"
	"net/http"
	"net/http/httptest"
	"regexp"
	"testing"
	"time"

	"stampcam/internal/logger"
)

func TestFilename_Pattern(t *testing.T) {
	now := time.UnixMilli(1714550400123)
	got := Filename(now)

	want := "photo_1714550400123.jpg"
	if got != want {
		t.Errorf("Filename() = %q, want %q", got, want)
	}

	pattern := regexp.MustCompile(`^photo_\d+\.jpg$`)
	if !pattern.MatchString(got) {
		t.Errorf("Filename() = %q does not match photo_<epoch-millis>.jpg", got)
	}
}

func TestParseFilename_RoundTrip(t *testing.T) {
	now := time.UnixMilli(1714550400123)
	parsed, err := ParseFilename(Filename(now))
	if err != nil {
		t.Fatalf("ParseFilename failed: %v", err)
	}
	if !parsed.Equal(now) {
		t.Errorf("ParseFilename round trip = %v, want %v", parsed, now)
	}
}

func TestParseFilename_Rejects(t *testing.T) {
	bad := []string{
		"photo_.jpg",
		"photo_abc.jpg",
		"selfie_123.jpg",
		"photo_123.png",
		"photo_123",
	}
	for _, name := range bad {
		if _, err := ParseFilename(name); err == nil {
			t.Errorf("ParseFilename(%q) should fail", name)
		}
	}
}

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()
	return logger.New(t.TempDir())
}

func TestShareClient_Unconfigured(t *testing.T) {
	client := NewShareClient("", "Timestamp Photo", testLogger(t))

	if client.Supported() {
		t.Error("Supported() = true with no share URL")
	}
	if _, err := client.Share(context.Background(), "photo_1.jpg", []byte("x")); err != ErrShareUnsupported {
		t.Errorf("Share error = %v, want ErrShareUnsupported", err)
	}
}

func TestShareClient_Success(t *testing.T) {
	var gotTitle string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("Share request was not multipart: %v", err)
		}
		gotTitle = r.FormValue("title")
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := NewShareClient(server.URL, "Timestamp Photo", testLogger(t))
	shared, err := client.Share(context.Background(), "photo_1.jpg", []byte("jpeg bytes"))
	if err != nil {
		t.Fatalf("Share failed: %v", err)
	}
	if !shared {
		t.Error("Share reported shared=false on success")
	}
	if gotTitle != "Timestamp Photo" {
		t.Errorf("Shared title = %q, want fixed title", gotTitle)
	}
}

func TestShareClient_CancelledIsNotAnError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel() // user dismissed the dialog before it went out

	client := NewShareClient(server.URL, "Timestamp Photo", testLogger(t))
	shared, err := client.Share(ctx, "photo_1.jpg", []byte("jpeg bytes"))
	if err != nil {
		t.Errorf("Cancelled share returned error: %v", err)
	}
	if shared {
		t.Error("Cancelled share reported shared=true")
	}
}

func TestShareClient_ServerFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusBadGateway)
	}))
	defer server.Close()

	client := NewShareClient(server.URL, "Timestamp Photo", testLogger(t))
	shared, err := client.Share(context.Background(), "photo_1.jpg", []byte("jpeg bytes"))
	if err == nil {
		t.Error("Share against failing endpoint should return an error")
	}
	if shared {
		t.Error("Failed share reported shared=true")
	}
}
