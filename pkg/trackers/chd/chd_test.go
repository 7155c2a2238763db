package chd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/halfmoonpt/trackarr/internal/config"
	"github.com/halfmoonpt/trackarr/pkg/meta"
	"github.com/halfmoonpt/trackarr/pkg/trackers/types"
)

func testClient(t *testing.T, base string) *Client {
	t.Helper()
	cookieFile := filepath.Join(t.TempDir(), "cookies.txt")
	if err := os.WriteFile(cookieFile, []byte("c_secure_uid=1\nc_secure_pass=2\n"), 0o644); err != nil {
		t.Fatalf("writing cookie file: %v", err)
	}
	c, err := newWithBase(config.Tracker{Name: "CHD", CookieFile: cookieFile}, base)
	if err != nil {
		t.Fatalf("newWithBase() error = %v", err)
	}
	return c
}

func TestUploadNotSupported(t *testing.T) {
	c := testClient(t, "https://example.invalid")
	ok, err := c.Upload(context.Background(), meta.New(), "")
	if ok {
		t.Error("Upload() = true, want false")
	}
	if !errors.Is(err, types.ErrUploadNotSupported) {
		t.Errorf("error = %v, want ErrUploadNotSupported", err)
	}
}

func TestValidateCredentials(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html><a href="#" data-url="logout.php" id="logout-confirm">退出</a></html>`)
	}))
	defer srv.Close()

	ok, err := testClient(t, srv.URL).ValidateCredentials(context.Background(), meta.New())
	if err != nil {
		t.Fatalf("ValidateCredentials() error = %v", err)
	}
	if !ok {
		t.Error("ValidateCredentials() = false, want true")
	}
}

func TestCategoryID(t *testing.T) {
	tests := []struct {
		name string
		m    meta.Meta
		want string
	}{
		{"movie", meta.Meta{Category: meta.CategoryMovie}, "401"},
		{"tv", meta.Meta{Category: meta.CategoryTV}, "404"},
		{"animation", meta.Meta{Category: meta.CategoryTV, Genres: []string{"Anime"}}, "403"},
		{"variety", meta.Meta{Category: meta.CategoryTV, Genres: []string{"Reality"}}, "405"},
		{"documentary wins", meta.Meta{Category: meta.CategoryMovie, Genres: []string{"Animation", "Documentary"}}, "402"},
		{"unknown", meta.Meta{}, "0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CategoryID(&tt.m); got != tt.want {
				t.Errorf("CategoryID() = %q, want %q", got, tt.want)
			}
		})
	}
}
