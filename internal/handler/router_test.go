package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"sentgen/internal/config"
	"sentgen/internal/controller"
	"sentgen/internal/model"
	sentmodel "sentgen/internal/model/sentgen"
	"sentgen/internal/service"
	"sentgen/internal/service/tokenizer"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var lexicon = map[string]string{
	"the": "DT", "a": "DT",
	"cat": "NN", "mat": "NN", "dog": "NN",
	"sat": "VBD", "ran": "VBD",
	"on": "IN",
	"want": "VB", "see": "VB",
	"i": "PRP", "you": "PRP", "to": "TO",
	".": ".",
}

type lexiconTagger struct{}

func (lexiconTagger) Tag(ctx context.Context, tokens []string) (sentmodel.Corpus, error) {
	corpus := make(sentmodel.Corpus, len(tokens))
	for i, tok := range tokens {
		tag, ok := lexicon[strings.ToLower(tok)]
		if !ok {
			tag = "NN"
		}
		corpus[i] = sentmodel.AnnotatedToken{Token: tok, Tag: tag}
	}
	return corpus, nil
}

type fieldsTokenizer struct{}

func (fieldsTokenizer) Tokenize(ctx context.Context, text string) ([]string, error) {
	return strings.Fields(text), nil
}

const corpusText = "i want to see the cat . the cat sat on the mat . i want the dog . " +
	"the dog ran . i want to see a dog . the cat"

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	logger := zap.NewNop()

	path := filepath.Join(t.TempDir(), "chat.txt")
	require.NoError(t, os.WriteFile(path, []byte(corpusText), 0644))

	cfg := &config.Config{
		App: config.AppConfig{WorkDir: t.TempDir()},
		Generator: config.GeneratorConfig{
			SkeletonLength: sentmodel.DefaultSkeletonLength,
			MaxAttempts:    sentmodel.DefaultMaxAttempts,
			SeedWord:       "want",
			SeedTag:        "VB",
		},
		Source: config.SourceConfig{Corpora: []config.Corpus{
			{Name: "chat", Path: path, Format: config.FormatText, Language: "test"},
		}},
	}

	registry := tokenizer.NewTokenizerRegistry()
	registry.Register("test", fieldsTokenizer{}, lexiconTagger{})
	pipeline, err := registry.GetPipeline("test")
	require.NoError(t, err)

	manager := service.NewCorpusManager(service.NewCorpusLoader(registry, logger), nil, nil, logger)
	_, err = manager.LoadCorpus(context.Background(), &cfg.Source.Corpora[0], false)
	require.NoError(t, err)

	sentences := service.NewSentenceService(manager, service.NewReflectionService(pipeline, logger), cfg.Generator, logger)
	return SetupRouter(
		controller.NewSentenceController(sentences, logger),
		controller.NewCorpusController(manager, cfg, logger),
		nil,
		logger,
	)
}

func do(t *testing.T, router http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestGenerateEndpoint(t *testing.T) {
	router := newTestRouter(t)

	seed := uint64(5)
	threshold := 0.0
	w := do(t, router, http.MethodPost, "/api/v1/generate", model.GenerateRequest{
		Corpus:     "chat",
		Threshold:  &threshold,
		RandomSeed: &seed,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	require.NotEmpty(t, w.Header().Get(RequestIDHeader))

	var resp model.GenerateResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Equal(t, "want", resp.Tokens[0])
	require.Equal(t, "chat", resp.Corpus)
	require.NotEmpty(t, resp.ID)
}

func TestGenerateEndpoint_Errors(t *testing.T) {
	router := newTestRouter(t)

	w := do(t, router, http.MethodPost, "/api/v1/generate", map[string]any{})
	require.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, router, http.MethodPost, "/api/v1/generate", model.GenerateRequest{Corpus: "missing"})
	require.Equal(t, http.StatusNotFound, w.Code)

	w = do(t, router, http.MethodPost, "/api/v1/generate", model.GenerateRequest{Corpus: "chat", SeedWord: "fly", SeedTag: "VB"})
	require.Equal(t, http.StatusNotFound, w.Code)

	threshold := 2.0
	w = do(t, router, http.MethodPost, "/api/v1/generate", model.GenerateRequest{Corpus: "chat", Threshold: &threshold, MaxAttempts: 3})
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Equal(t, "Generation failed", body["error"])
	require.Contains(t, body["details"], "attempts exhausted")
}

func TestChatAndReflectEndpoints(t *testing.T) {
	router := newTestRouter(t)

	threshold := 0.0
	w := do(t, router, http.MethodPost, "/api/v1/chat", model.ChatRequest{Corpus: "chat", Message: "I see you", Threshold: &threshold})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var chat model.ChatResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &chat))
	require.Equal(t, "you", chat.Reflection)
	require.Equal(t, "see", chat.Sentence.Tokens[0])

	w = do(t, router, http.MethodPost, "/api/v1/reflect", model.ReflectRequest{Sentence: "I want the cat"})
	require.Equal(t, http.StatusOK, w.Code)

	w = do(t, router, http.MethodPost, "/api/v1/reflect", model.ReflectRequest{Sentence: "the cat sat"})
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestCorpusEndpoints(t *testing.T) {
	router := newTestRouter(t)

	w := do(t, router, http.MethodGet, "/api/v1/corpora", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.JSONEq(t, `{"corpora":["chat"]}`, w.Body.String())

	w = do(t, router, http.MethodGet, "/api/v1/corpora/chat/stats", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var stats service.CorpusStats
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &stats))
	require.Equal(t, len(strings.Fields(corpusText)), stats.Index.CorpusTokens)

	w = do(t, router, http.MethodGet, "/api/v1/corpora/missing/stats", nil)
	require.Equal(t, http.StatusNotFound, w.Code)

	w = do(t, router, http.MethodPost, "/api/v1/corpora/chat/reload", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = do(t, router, http.MethodPost, "/api/v1/corpora/missing/reload", nil)
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestHealthEndpoint(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/health", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "abc-123", w.Header().Get(RequestIDHeader))

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Equal(t, "healthy", body["status"])
	require.EqualValues(t, 1, body["corpora"])
}
