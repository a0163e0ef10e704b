package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/omrontag/tagscan/catalog"
	"github.com/omrontag/tagscan/config"
	"github.com/omrontag/tagscan/scanner"
)

type fakeProvider struct {
	names   []string
	results map[string]scanner.Result
	scanErr error
}

func (f *fakeProvider) PLCNames() []string { return f.names }

func (f *fakeProvider) LastResult(name string) (scanner.Result, bool) {
	r, ok := f.results[name]
	return r, ok
}

func (f *fakeProvider) TriggerScan(name string) error { return f.scanErr }

func TestHandleListPLCs(t *testing.T) {
	p := &fakeProvider{
		names: []string{"line1"},
		results: map[string]scanner.Result{
			"line1": {Records: []catalog.Record{{Name: "Counter", Type: "DINT"}}, Timestamp: time.Now()},
		},
	}
	r := NewRouter(p, nil)

	req := httptest.NewRequest(http.MethodGet, "/plcs", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var resp []PLCStatusResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("bad JSON: %v", err)
	}
	if len(resp) != 1 || resp[0].RecordCount != 1 {
		t.Fatalf("unexpected response: %+v", resp)
	}
}

func TestHandleCatalogNotYetScanned(t *testing.T) {
	p := &fakeProvider{names: []string{"line1"}, results: map[string]scanner.Result{}}
	r := NewRouter(p, nil)

	req := httptest.NewRequest(http.MethodGet, "/plcs/line1/catalog", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestHandleTriggerScanFailure(t *testing.T) {
	p := &fakeProvider{scanErr: errors.New("connect: refused")}
	r := NewRouter(p, nil)

	req := httptest.NewRequest(http.MethodPost, "/plcs/line1/scan", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
}

func TestBasicAuthRejectsBadCredentials(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("correct-horse"), bcrypt.DefaultCost)
	if err != nil {
		t.Fatalf("bcrypt: %v", err)
	}
	users := []config.RESTUser{{Username: "scanner", PasswordHash: string(hash)}}
	r := NewRouter(&fakeProvider{}, users)

	req := httptest.NewRequest(http.MethodGet, "/plcs", nil)
	req.SetBasicAuth("scanner", "wrong-password")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestBasicAuthAcceptsGoodCredentials(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("correct-horse"), bcrypt.DefaultCost)
	if err != nil {
		t.Fatalf("bcrypt: %v", err)
	}
	users := []config.RESTUser{{Username: "scanner", PasswordHash: string(hash)}}
	r := NewRouter(&fakeProvider{names: []string{}}, users)

	req := httptest.NewRequest(http.MethodGet, "/plcs", nil)
	req.SetBasicAuth("scanner", "correct-horse")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}
