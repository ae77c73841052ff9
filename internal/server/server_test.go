package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"hl7play/internal/diagfmt"
	"hl7play/internal/issue"
	"hl7play/internal/trace"
	"hl7play/internal/workspace"
)

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(rec.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
	return v
}

func TestHealth(t *testing.T) {
	rec := do(t, New(Options{}).Handler(), http.MethodGet, "/health", "")
	if rec.Code != http.StatusOK || decodeBody[map[string]string](t, rec)["status"] != "ok" {
		t.Errorf("health = %d %s", rec.Code, rec.Body.String())
	}
	if _, err := uuid.Parse(rec.Header().Get(RequestIDHeader)); err != nil {
		t.Errorf("missing request id: %v", err)
	}
}

func TestRequestIDIsKept(t *testing.T) {
	id := uuid.NewString()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(RequestIDHeader, id)
	rec := httptest.NewRecorder()
	New(Options{}).Handler().ServeHTTP(rec, req)
	if got := rec.Header().Get(RequestIDHeader); got != id {
		t.Errorf("request id = %q, want %q", got, id)
	}
}

func TestTokenizeConfigCarriesState(t *testing.T) {
	h := New(Options{}).Handler()
	rec := do(t, h, http.MethodPost, "/api/tokenize", `{"mode":"config","text":"a = \"open"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d: %s", rec.Code, rec.Body.String())
	}
	doc := decodeBody[diagfmt.DocumentOutput](t, rec)
	if !doc.Final.InsideString || len(doc.Lines) != 1 {
		t.Fatalf("unexpected document %+v", doc)
	}

	// продолжаем с возвращённым состоянием, как редактор на следующей строке
	rec = do(t, h, http.MethodPost, "/api/tokenize", `{"mode":"config","text":"close\" b","state":{"insideString":true}}`)
	doc = decodeBody[diagfmt.DocumentOutput](t, rec)
	if !doc.Final.Normal() || doc.Lines[0].Tokens[0].Tag != "string" {
		t.Errorf("unexpected continuation %+v", doc)
	}
}

func TestTokenizeHL7(t *testing.T) {
	rec := do(t, New(Options{}).Handler(), http.MethodPost, "/api/tokenize", `{"mode":"hl7v2","text":"PID|1^2&3~4"}`)
	doc := decodeBody[diagfmt.DocumentOutput](t, rec)
	tags := ""
	for _, tok := range doc.Lines[0].Tokens {
		tags += tok.Tag + ","
	}
	want := "segment-name,segment-name,segment-name,field-separator,,component-separator,,subcomponent-separator,,,,"
	if tags != want {
		t.Errorf("tags = %s\nwant   %s", tags, want)
	}
}

func TestTokenizeKeepsRawBuffer(t *testing.T) {
	body, _ := json.Marshal(map[string]string{"mode": "hl7v2", "text": "\ufeffMSH|e\u0301|x\r\nPID"})
	rec := do(t, New(Options{}).Handler(), http.MethodPost, "/api/tokenize", string(body))
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d: %s", rec.Code, rec.Body.String())
	}
	doc := decodeBody[diagfmt.DocumentOutput](t, rec)
	if len(doc.Lines) != 2 {
		t.Fatalf("CRLF must end exactly one line, got %d lines", len(doc.Lines))
	}

	first := doc.Lines[0].Tokens
	// BOM, M, S, H, |, e, U+0301, |, x: one token per rune
	if len(first) != 9 {
		t.Fatalf("expected 9 tokens on line 1, got %d: %+v", len(first), first)
	}
	if first[0].Text != "\ufeff" || first[0].Tag != "segment-name" {
		t.Errorf("BOM must be lexed as is: %+v", first[0])
	}
	if first[1].Text != "M" || first[1].Span.Start != 3 {
		t.Errorf("M must sit at raw byte 3: %+v", first[1])
	}
	for i, tok := range first {
		if tok.Column != i {
			t.Errorf("token %d: column %d, want %d", i, tok.Column, i)
		}
	}
	if first[5].Text != "e" || first[6].Text != "\u0301" || first[6].Span.Start != 8 {
		t.Errorf("decomposed e must stay two tokens: %+v %+v", first[5], first[6])
	}

	second := doc.Lines[1].Tokens
	if len(second) != 3 || second[0].Span.Start != 14 || second[0].Column != 0 {
		t.Errorf("line 2 = %+v", second)
	}
}

func TestTokenizeLines(t *testing.T) {
	h := New(Options{}).Handler()
	rec := do(t, h, http.MethodPost, "/api/tokenize", `{"mode":"config","lines":["a = \"open","still\" b"]}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d: %s", rec.Code, rec.Body.String())
	}
	doc := decodeBody[diagfmt.DocumentOutput](t, rec)
	if len(doc.Lines) != 2 || !doc.Lines[0].State.InsideString || !doc.Final.Normal() {
		t.Fatalf("unexpected document %+v", doc)
	}
	if tok := doc.Lines[1].Tokens[0]; tok.Tag != "string" || tok.Line != 2 || tok.Span.Start != 10 {
		t.Errorf("second line must continue the string: %+v", tok)
	}

	// с сохранённым состоянием строка продолжает строку
	rec = do(t, h, http.MethodPost, "/api/tokenize", `{"mode":"config","lines":["x\" y"],"state":{"insideString":true}}`)
	doc = decodeBody[diagfmt.DocumentOutput](t, rec)
	if doc.Lines[0].Tokens[0].Tag != "string" || !doc.Final.Normal() {
		t.Errorf("restored state ignored: %+v", doc)
	}

	rec = do(t, h, http.MethodPost, "/api/tokenize", `{"mode":"hl7v2","lines":["MSH|\rPID"]}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("line with a break: status %d", rec.Code)
	}
}

func TestTokenizeErrors(t *testing.T) {
	h := New(Options{}).Handler()
	tests := []struct {
		name, body string
	}{
		{"bad json", `{"mode":`},
		{"bad mode", `{"mode":"xml","text":""}`},
		{"impossible state", `{"mode":"config","text":"","state":{"insideString":true,"insideExtrapolation":true}}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, h, http.MethodPost, "/api/tokenize", tt.body)
			if rec.Code != http.StatusBadRequest {
				t.Errorf("status = %d", rec.Code)
			}
			if decodeBody[errorBody](t, rec).Message == "" {
				t.Error("error body must carry a message")
			}
		})
	}
}

func TestBodyLimit(t *testing.T) {
	h := New(Options{MaxBody: 16}).Handler()
	rec := do(t, h, http.MethodPost, "/api/issues/group", `[{"classification":"Error","category":"Usage"}]`)
	if rec.Code != http.StatusRequestEntityTooLarge {
		t.Errorf("status = %d", rec.Code)
	}
}

func TestGroup(t *testing.T) {
	body := `[
		{"classification":"Error","category":"Usage","description":"a"},
		{"classification":"Warning","category":"Format","description":"b"},
		{"classification":"Error","category":"Usage","description":"c"}
	]`
	rec := do(t, New(Options{}).Handler(), http.MethodPost, "/api/issues/group", body)
	groups := decodeBody[[]issue.ClassGroup](t, rec)
	if len(groups) != 2 || groups[0].Classification != "Error" || groups[0].Size != 2 {
		t.Errorf("groups = %+v", groups)
	}

	rec = do(t, New(Options{}).Handler(), http.MethodPost, "/api/issues/group", `[]`)
	if strings.TrimSpace(rec.Body.String()) != "[]" {
		t.Errorf("empty input must yield [], got %s", rec.Body.String())
	}
}

func TestMessageIDs(t *testing.T) {
	body, _ := json.Marshal(messageIDsRequest{Profile: `<P><Messages><Message ID="m1" StructID="VXU_V04"/></Messages></P>`})
	rec := do(t, New(Options{}).Handler(), http.MethodPost, "/api/message-ids", string(body))
	ids := decodeBody[[]workspace.MessageID](t, rec)
	if len(ids) != 1 || ids[0].Name != "VXU_V04" {
		t.Errorf("ids = %+v", ids)
	}
}

func TestNotFoundAndMethod(t *testing.T) {
	h := New(Options{}).Handler()
	if rec := do(t, h, http.MethodGet, "/nope", ""); rec.Code != http.StatusNotFound || decodeBody[errorBody](t, rec).Message != "not found" {
		t.Errorf("404 = %d %s", rec.Code, rec.Body.String())
	}
	if rec := do(t, h, http.MethodGet, "/api/tokenize", ""); rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("405 = %d", rec.Code)
	}
}

func TestRequestsAreTraced(t *testing.T) {
	var buf bytes.Buffer
	tr := trace.NewStreamTracer(&buf, trace.LevelPhase, trace.FormatText)
	do(t, New(Options{Tracer: tr}).Handler(), http.MethodGet, "/health", "")
	if !strings.Contains(buf.String(), "GET /health") {
		t.Errorf("trace output = %q", buf.String())
	}
}

func TestListenAndServe(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	addrCh := make(chan string, 1)
	errCh := make(chan error, 1)
	go func() {
		errCh <- New(Options{Addr: "127.0.0.1:0"}).ListenAndServe(ctx, func(addr string) { addrCh <- addr })
	}()

	var addr string
	select {
	case addr = <-addrCh:
	case <-time.After(5 * time.Second):
		t.Fatal("server did not start")
	}
	resp, err := http.Get("http://" + addr + "/health")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d", resp.StatusCode)
	}

	cancel()
	if err := <-errCh; err != nil {
		t.Errorf("shutdown: %v", err)
	}
}
