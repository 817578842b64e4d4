package routes

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/01moynul/marketfeed/internal/auth"
	"github.com/01moynul/marketfeed/internal/drafts"
	"github.com/01moynul/marketfeed/internal/handlers"
	"github.com/01moynul/marketfeed/internal/taxonomy"
	"github.com/01moynul/marketfeed/internal/upstream"
	"github.com/01moynul/marketfeed/internal/vehicle"
	"github.com/gin-gonic/gin"
)

func newRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := &handlers.Handlers{
		Upstream: upstream.NewClient("http://127.0.0.1:0", nil),
		Resolver: taxonomy.NewResolver(),
		Drafts:   drafts.NewMemoryStore(),
		Options:  vehicle.MustLoad(time.Now()),
	}
	return SetupRouter(h, []string{"http://localhost:8081"})
}

func TestPing(t *testing.T) {
	w := httptest.NewRecorder()
	newRouter().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/v1/ping", nil))
	if w.Code != http.StatusOK {
		t.Errorf("got %d; want %d", w.Code, http.StatusOK)
	}
}

func TestProtectedRoutesNeedToken(t *testing.T) {
	r := newRouter()
	for _, target := range []string{"/v1/listings", "/v1/drafts/x"} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, target, nil))
		if w.Code != http.StatusUnauthorized {
			t.Errorf("%s: got %d; want %d", target, w.Code, http.StatusUnauthorized)
		}
	}
}

func TestCreateDraftWithToken(t *testing.T) {
	auth.SetSecret("test-secret")
	tok, err := auth.GenerateToken("user-1", time.Hour)
	if err != nil {
		t.Fatal(err)
	}

	req := httptest.NewRequest(http.MethodPost, "/v1/drafts", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	w := httptest.NewRecorder()
	newRouter().ServeHTTP(w, req)
	if w.Code != http.StatusCreated {
		t.Errorf("got %d; want %d (%s)", w.Code, http.StatusCreated, w.Body.String())
	}
}

func TestCORSPreflight(t *testing.T) {
	req := httptest.NewRequest(http.MethodOptions, "/v1/listings", nil)
	req.Header.Set("Origin", "http://localhost:8081")
	req.Header.Set("Access-Control-Request-Method", http.MethodGet)
	w := httptest.NewRecorder()
	newRouter().ServeHTTP(w, req)

	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:8081" {
		t.Errorf("allow origin: got %q", got)
	}
	if w.Code != http.StatusNoContent {
		t.Errorf("got %d; want %d", w.Code, http.StatusNoContent)
	}
}
