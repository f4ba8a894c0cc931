package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	log "github.com/sirupsen/logrus"

	"github.com/safevideo/safetext/pkg/models"
	"github.com/safevideo/safetext/pkg/safetext"
	"github.com/safevideo/safetext/pkg/words"
)

const testRequestID = "9b4f6c5d-1a32-4d8f-b5a6-23c9e1f7d2a1"

func TestMain(m *testing.M) {
	log.SetLevel(log.PanicLevel)
	exitCode := m.Run()
	os.Exit(exitCode)
}

func newTestAPI(t *testing.T) *API {
	t.Helper()

	dir := t.TempDir()
	err := os.WriteFile(filepath.Join(dir, "xx.txt"), []byte("frak\nfrak off\n"), 0o644)
	if err != nil {
		t.Fatalf("failed to write word list: %v", err)
	}

	st := safetext.New(words.NewDirStore(dir), nil)

	api, err := New("SafeTextTest", st, nil)
	if err != nil {
		t.Fatalf("failed to create API: %v", err)
	}

	return api
}

func doJSON(t *testing.T, api *API, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	b, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("failed to marshal request body: %v", err)
	}

	req := httptest.NewRequest(method, path, bytes.NewReader(b))
	req.Header.Set("X-Request-Id", testRequestID)
	rr := httptest.NewRecorder()
	api.Router().ServeHTTP(rr, req)

	return rr
}

func setTestLanguage(t *testing.T, api *API, code string) {
	t.Helper()

	rr := doJSON(t, api, http.MethodPut, "/language", LanguageRequest{Language: code})
	if rr.Code != http.StatusOK {
		t.Fatalf("failed to set language %q: status %v", code, rr.Code)
	}
}

func TestAPI_setLanguage(t *testing.T) {
	api := newTestAPI(t)

	setTestLanguage(t, api, "xx")

	rr := doJSON(t, api, http.MethodGet, "/language", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("want status code %v, got status code %v", http.StatusOK, rr.Code)
	}

	var resp LanguageResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to unmarshal response body: %v", err)
	}
	if resp.Language != "xx" {
		t.Errorf("want language \"xx\", got %q", resp.Language)
	}
}

func TestAPI_setLanguageUnsupported(t *testing.T) {
	api := newTestAPI(t)

	rr := doJSON(t, api, http.MethodPut, "/language", LanguageRequest{Language: "zz"})
	if rr.Code != http.StatusNotFound {
		t.Errorf("want status code %v, got status code %v", http.StatusNotFound, rr.Code)
	}
}

func TestAPI_checkHandler(t *testing.T) {
	api := newTestAPI(t)
	setTestLanguage(t, api, "xx")

	rr := doJSON(t, api, http.MethodPost, "/check", TextRequest{Text: "Frak this thing"})
	if rr.Code != http.StatusOK {
		t.Fatalf("want status code %v, got status code %v", http.StatusOK, rr.Code)
	}
	if got := rr.Header().Get("X-Request-Id"); got != testRequestID {
		t.Errorf("want X-Request-Id %q, got %q", testRequestID, got)
	}

	var resp CheckResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to unmarshal response body: %v", err)
	}

	wantMatches := []models.Match{{Word: "Frak", Index: 1, Start: 0, End: 4}}
	if resp.Language != "xx" {
		t.Errorf("want language \"xx\", got %q", resp.Language)
	}
	if !reflect.DeepEqual(resp.Matches, wantMatches) {
		t.Errorf("want matches %+v, got %+v", wantMatches, resp.Matches)
	}
}

func TestAPI_checkHandlerUnboundWithoutDetector(t *testing.T) {
	api := newTestAPI(t)

	rr := doJSON(t, api, http.MethodPost, "/check", TextRequest{Text: "anything"})
	if rr.Code != http.StatusUnprocessableEntity {
		t.Errorf("want status code %v, got status code %v", http.StatusUnprocessableEntity, rr.Code)
	}
}

func TestAPI_censorHandler(t *testing.T) {
	api := newTestAPI(t)
	setTestLanguage(t, api, "xx")

	rr := doJSON(t, api, http.MethodPost, "/censor", TextRequest{Text: "Frak this, frak off"})
	if rr.Code != http.StatusOK {
		t.Fatalf("want status code %v, got status code %v", http.StatusOK, rr.Code)
	}

	var resp CensorResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to unmarshal response body: %v", err)
	}
	if resp.CensoredText != "**** this, ********" {
		t.Errorf("want censored text %q, got %q", "**** this, ********", resp.CensoredText)
	}
}

func TestAPI_badWordsHandler(t *testing.T) {
	api := newTestAPI(t)
	setTestLanguage(t, api, "xx")

	rr := doJSON(t, api, http.MethodPost, "/badwords", TextRequest{Text: "frak this Frak"})
	if rr.Code != http.StatusOK {
		t.Fatalf("want status code %v, got status code %v", http.StatusOK, rr.Code)
	}

	var resp BadWordsResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to unmarshal response body: %v", err)
	}
	if !reflect.DeepEqual(resp.BadWords, []string{"frak", "Frak"}) {
		t.Errorf("want bad words [frak Frak], got %v", resp.BadWords)
	}
}

func TestAPI_checkHandlerInvalidJSON(t *testing.T) {
	api := newTestAPI(t)
	setTestLanguage(t, api, "xx")

	req := httptest.NewRequest(http.MethodPost, "/check", strings.NewReader("{not json"))
	req.Header.Set("X-Request-Id", testRequestID)
	rr := httptest.NewRecorder()
	api.Router().ServeHTTP(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Errorf("want status code %v, got status code %v", http.StatusBadRequest, rr.Code)
	}
}
