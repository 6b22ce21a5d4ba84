package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"

	"letter-analyzer-api/analyzer"
	"letter-analyzer-api/config"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type fakeClient struct {
	reply string
	err   error
	calls int
}

func (f *fakeClient) Complete(context.Context, string) (string, error) {
	f.calls++
	return f.reply, f.err
}

func testConfig() *config.Config {
	return &config.Config{
		Environment:    config.EnvDevelopment,
		MaxUploadBytes: 1 << 20,
	}
}

func newAnalyzeRouter(t *testing.T, cfg *config.Config, client analyzer.CompletionClient) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/analyze-letter", HandleAnalyzeLetter(zap.NewNop(), cfg, client))
	return r
}

func letterRequest(t *testing.T, contentType string, data []byte) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	h := textproto.MIMEHeader{}
	h.Set("Content-Disposition", `form-data; name="file"; filename="letter.jpg"`)
	h.Set("Content-Type", contentType)
	part, err := w.CreatePart(h)
	if err != nil {
		t.Fatalf("create part: %v", err)
	}
	if _, err := part.Write(data); err != nil {
		t.Fatalf("write part: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}
	req, _ := http.NewRequest("POST", "/analyze-letter", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}

func TestAnalyzeLetterSuccess(t *testing.T) {
	client := &fakeClient{reply: `{"summary":"Bill due","highlights":["Amount: $50"],"what_to_do":["Pay by mail"],"important_dates":["2024-05-01"]}`}
	r := newAnalyzeRouter(t, testConfig(), client)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, letterRequest(t, "image/jpeg", []byte("fake-jpeg-bytes")))

	if w.Code != http.StatusOK {
		t.Fatalf("status: %d body: %s", w.Code, w.Body.String())
	}
	var result analyzer.AnalysisResult
	if err := json.Unmarshal(w.Body.Bytes(), &result); err != nil {
		t.Fatalf("body: %v", err)
	}
	if result.Summary != "Bill due" || len(result.Highlights) != 1 || len(result.WhatToDo) != 1 || len(result.ImportantDates) != 1 {
		t.Errorf("unexpected result: %+v", result)
	}
	if strings.Contains(w.Body.String(), "email_prompt") {
		t.Errorf("email_prompt should be omitted when absent: %s", w.Body.String())
	}
	if client.calls != 1 {
		t.Errorf("provider calls: %d", client.calls)
	}
}

func TestAnalyzeLetterEmailPromptPassthrough(t *testing.T) {
	client := &fakeClient{reply: `{"summary":"Reply requested","highlights":[],"what_to_do":[],"important_dates":[],"email_prompt":"Would you like me to write an email to jane@example.com?"}`}
	r := newAnalyzeRouter(t, testConfig(), client)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, letterRequest(t, "image/png", []byte("fake-png-bytes")))

	if w.Code != http.StatusOK {
		t.Fatalf("status: %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "jane@example.com") {
		t.Errorf("email prompt missing: %s", w.Body.String())
	}
}

func TestAnalyzeLetterNoFile(t *testing.T) {
	client := &fakeClient{reply: `{"summary":"ok"}`}
	r := newAnalyzeRouter(t, testConfig(), client)

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	_ = w.WriteField("note", "no file here")
	_ = w.Close()
	req, _ := http.NewRequest("POST", "/analyze-letter", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status: %d", rec.Code)
	}
	if client.calls != 0 {
		t.Errorf("provider must not be called without a file, got %d calls", client.calls)
	}
}

func TestAnalyzeLetterRejectsNonImage(t *testing.T) {
	client := &fakeClient{reply: `{"summary":"ok"}`}
	r := newAnalyzeRouter(t, testConfig(), client)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, letterRequest(t, "application/pdf", []byte("%PDF-1.4")))

	if w.Code != http.StatusUnsupportedMediaType {
		t.Fatalf("status: %d", w.Code)
	}
	if client.calls != 0 {
		t.Errorf("provider calls: %d", client.calls)
	}
}

func TestAnalyzeLetterRejectsOversize(t *testing.T) {
	client := &fakeClient{reply: `{"summary":"ok"}`}
	cfg := testConfig()
	cfg.MaxUploadBytes = 16
	r := newAnalyzeRouter(t, cfg, client)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, letterRequest(t, "image/jpeg", bytes.Repeat([]byte("a"), 64)))

	if w.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("status: %d", w.Code)
	}
	if client.calls != 0 {
		t.Errorf("provider calls: %d", client.calls)
	}
}

func TestAnalyzeLetterProviderFailure(t *testing.T) {
	client := &fakeClient{err: errors.New("upstream timeout")}
	r := newAnalyzeRouter(t, testConfig(), client)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, letterRequest(t, "image/jpeg", []byte("fake-jpeg-bytes")))

	if w.Code != http.StatusBadGateway {
		t.Fatalf("status: %d", w.Code)
	}
}

func TestAnalyzeLetterMalformedProviderReply(t *testing.T) {
	client := &fakeClient{reply: "I had trouble with that image."}
	r := newAnalyzeRouter(t, testConfig(), client)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, letterRequest(t, "image/jpeg", []byte("fake-jpeg-bytes")))

	if w.Code != http.StatusBadGateway {
		t.Fatalf("status: %d", w.Code)
	}
	var body map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("error body must be JSON: %v", err)
	}
	if _, ok := body["error"]; !ok {
		t.Errorf("missing error field: %v", body)
	}
}

func TestAnalyzeLetterMarkdownReply(t *testing.T) {
	client := &fakeClient{reply: "**Summary:**\nBill due soon.\n\n**Highlights:**\n- Amount: $50\n"}
	r := newAnalyzeRouter(t, testConfig(), client)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, letterRequest(t, "image/jpeg", []byte("fake-jpeg-bytes")))

	if w.Code != http.StatusOK {
		t.Fatalf("status: %d body: %s", w.Code, w.Body.String())
	}
	if !strings.Contains(w.Body.String(), "Bill due soon.") {
		t.Errorf("summary missing: %s", w.Body.String())
	}
}
