package upstream

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/01moynul/marketfeed/internal/models"
)

func TestClientSearchForwardsTokenAndParams(t *testing.T) {
	var gotAuth, gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/ad-listings/search" {
			http.NotFound(w, r)
			return
		}
		gotAuth = r.Header.Get("Authorization")
		gotQuery = r.URL.RawQuery
		io.WriteString(w, `{"$values": [{"id": 1, "title": "x", "categoryId": 3}]}`)
	}))
	defer srv.Close()

	c := NewClient(srv.URL+"/", nil)
	ls, err := c.Search(context.Background(), "tok", url.Values{"categoryId": {"3"}})
	if err != nil {
		t.Fatal(err)
	}
	if len(ls) != 1 || ls[0].ID != "1" {
		t.Errorf("listings: %+v", ls)
	}
	if gotAuth != "Bearer tok" {
		t.Errorf("Authorization: got %q", gotAuth)
	}
	if gotQuery != "categoryId=3" {
		t.Errorf("query: got %q", gotQuery)
	}
}

func TestClientStatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL, nil).Categories(context.Background())
	var se *StatusError
	if !errors.As(err, &se) || se.Code != http.StatusInternalServerError || se.Body != "boom" {
		t.Errorf("got %v", err)
	}
}

func TestClientCreateListingEndpoint(t *testing.T) {
	var paths []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		if r.Method != http.MethodPost || !strings.Contains(string(body), `"title":"Temiz BMW"`) {
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}
		paths = append(paths, r.URL.Path)
		io.WriteString(w, `{"id": 42}`)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, nil)
	p := models.AdPayload{Title: "Temiz BMW"}
	if _, err := c.CreateListing(context.Background(), "tok", p, true); err != nil {
		t.Fatal(err)
	}
	if _, err := c.CreateListing(context.Background(), "tok", p, false); err != nil {
		t.Fatal(err)
	}
	if len(paths) != 2 || paths[0] != "/api/ad-listings/cars" || paths[1] != "/api/ad-listings" {
		t.Errorf("paths: %v", paths)
	}
}
