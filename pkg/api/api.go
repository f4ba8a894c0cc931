package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"

	"github.com/gorilla/mux"
	"github.com/segmentio/kafka-go"
	log "github.com/sirupsen/logrus"

	"github.com/safevideo/safetext/pkg/safetext"
	"github.com/safevideo/safetext/pkg/words"
)

type API struct {
	ServiceName string

	r  *mux.Router
	kw *kafka.Writer

	// SafeText binds one language at a time; serialize language switches
	// against in-flight scans.
	mu sync.Mutex
	st *safetext.SafeText
}

func New(name string, st *safetext.SafeText, kafkaWriter *kafka.Writer) (*API, error) {
	if st == nil {
		return nil, errors.New("nil SafeText instance")
	}

	api := API{
		ServiceName: name,
		r:           mux.NewRouter(),
		kw:          kafkaWriter,
		st:          st,
	}
	api.endpoints()

	return &api, nil
}

func (api *API) Router() *mux.Router {
	return api.r
}

func (api *API) endpoints() {
	api.r.Use(api.requestIDMiddleware)
	api.r.Use(api.headerMiddleware)

	if api.kw != nil {
		api.r.Use(api.loggingMiddleware(api.kw))
	}

	api.r.HandleFunc("/check", api.checkHandler).Methods(http.MethodPost)
	api.r.HandleFunc("/censor", api.censorHandler).Methods(http.MethodPost)
	api.r.HandleFunc("/badwords", api.badWordsHandler).Methods(http.MethodPost)
	api.r.HandleFunc("/language", api.setLanguageHandler).Methods(http.MethodPut)
	api.r.HandleFunc("/language", api.getLanguageHandler).Methods(http.MethodGet)
}

func (api *API) checkHandler(w http.ResponseWriter, r *http.Request) {
	sID := shorten(GetRequestID(r.Context()))

	text, ok := decodeTextRequest(w, r, "checkHandler", sID)
	if !ok {
		return
	}

	api.mu.Lock()
	matches, err := api.st.CheckProfanity(text)
	language := api.st.Language()
	api.mu.Unlock()
	if err != nil {
		writeScanError(w, "checkHandler", sID, err)
		return
	}

	resp := CheckResponse{Language: language, Matches: matches}
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		log.Errorf("[checkHandler][%s] failed to encode response: %v", sID, err)
	}
}

func (api *API) censorHandler(w http.ResponseWriter, r *http.Request) {
	sID := shorten(GetRequestID(r.Context()))

	text, ok := decodeTextRequest(w, r, "censorHandler", sID)
	if !ok {
		return
	}

	api.mu.Lock()
	censored, err := api.st.CensorProfanity(text)
	language := api.st.Language()
	api.mu.Unlock()
	if err != nil {
		writeScanError(w, "censorHandler", sID, err)
		return
	}

	resp := CensorResponse{Language: language, CensoredText: censored}
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		log.Errorf("[censorHandler][%s] failed to encode response: %v", sID, err)
	}
}

func (api *API) badWordsHandler(w http.ResponseWriter, r *http.Request) {
	sID := shorten(GetRequestID(r.Context()))

	text, ok := decodeTextRequest(w, r, "badWordsHandler", sID)
	if !ok {
		return
	}

	api.mu.Lock()
	badWords, err := api.st.GetBadWords(text)
	language := api.st.Language()
	api.mu.Unlock()
	if err != nil {
		writeScanError(w, "badWordsHandler", sID, err)
		return
	}

	resp := BadWordsResponse{Language: language, BadWords: badWords}
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		log.Errorf("[badWordsHandler][%s] failed to encode response: %v", sID, err)
	}
}

func (api *API) setLanguageHandler(w http.ResponseWriter, r *http.Request) {
	sID := shorten(GetRequestID(r.Context()))

	var req LanguageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Bad Request: invalid JSON", http.StatusBadRequest)
		log.Errorf("[setLanguageHandler][%s] failed to decode request body: %v", sID, err)
		return
	}
	defer r.Body.Close()

	api.mu.Lock()
	err := api.st.SetLanguage(req.Language)
	api.mu.Unlock()
	if errors.Is(err, words.ErrUnsupportedLanguage) {
		http.Error(w, "Unsupported language", http.StatusNotFound)
		log.Debugf("[setLanguageHandler][%s] unsupported language %q", sID, req.Language)
		return
	}
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		log.Errorf("[setLanguageHandler][%s] SetLanguage(%q) returned error: %v", sID, req.Language, err)
		return
	}

	log.Infof("[setLanguageHandler][%s] language set to %q", sID, req.Language)
	if err := json.NewEncoder(w).Encode(LanguageResponse{Language: req.Language}); err != nil {
		log.Errorf("[setLanguageHandler][%s] failed to encode response: %v", sID, err)
	}
}

func (api *API) getLanguageHandler(w http.ResponseWriter, r *http.Request) {
	sID := shorten(GetRequestID(r.Context()))

	api.mu.Lock()
	language := api.st.Language()
	api.mu.Unlock()

	if err := json.NewEncoder(w).Encode(LanguageResponse{Language: language}); err != nil {
		log.Errorf("[getLanguageHandler][%s] failed to encode response: %v", sID, err)
	}
}

func decodeTextRequest(w http.ResponseWriter, r *http.Request, handler, sID string) (string, bool) {
	var req TextRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Bad Request: invalid JSON", http.StatusBadRequest)
		log.Errorf("[%s][%s] failed to decode request body: %v", handler, sID, err)
		return "", false
	}
	defer r.Body.Close()

	return req.Text, true
}

// writeScanError maps scan failures to HTTP statuses. Detection failures are
// the client's problem (the text was not classifiable), unknown languages
// mean the deployment has no list for the detected code.
func writeScanError(w http.ResponseWriter, handler, sID string, err error) {
	switch {
	case errors.Is(err, safetext.ErrLanguageDetection):
		http.Error(w, "Could not detect language", http.StatusUnprocessableEntity)
		log.Debugf("[%s][%s] %v", handler, sID, err)
	case errors.Is(err, words.ErrUnsupportedLanguage):
		http.Error(w, "Unsupported language", http.StatusNotFound)
		log.Debugf("[%s][%s] %v", handler, sID, err)
	case errors.Is(err, safetext.ErrMalformedInput):
		http.Error(w, "Bad Request", http.StatusBadRequest)
		log.Debugf("[%s][%s] %v", handler, sID, err)
	default:
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		log.Errorf("[%s][%s] scan returned error: %v", handler, sID, err)
	}
}

// GetRequestID extracts the request ID from the context.
// Returns an empty string if not found.
func GetRequestID(ctx context.Context) string {
	reqID, _ := ctx.Value(RequestIDKey).(string)
	return reqID
}

// shorten truncates a string to 6 characters if it is longer than 6, appends '...' at the end,
// otherwise it returns the string unchanged.
func shorten(s string) string {
	if len(s) > 6 {
		return s[:6] + "..."
	}
	return s
}
