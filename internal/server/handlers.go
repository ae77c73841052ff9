package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"hl7play/internal/diagfmt"
	"hl7play/internal/driver"
	"hl7play/internal/issue"
	"hl7play/internal/lexer"
	"hl7play/internal/workspace"
)

type errorBody struct {
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorBody{Message: msg})
}

func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, s.opts.MaxBody)
	defer r.Body.Close()
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, fmt.Sprintf("request body exceeds %d bytes", tooLarge.Limit))
			return false
		}
		writeError(w, http.StatusBadRequest, "invalid request payload: "+err.Error())
		return false
	}
	return true
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// tokenizeRequest carries either a whole buffer in Text or, when Lines is
// set, the lines the editor wants re-lexed starting from State.
type tokenizeRequest struct {
	Mode  string            `json:"mode"`
	Text  string            `json:"text"`
	Lines []string          `json:"lines"`
	State lexer.ConfigState `json:"state"`
}

func (s *Server) handleTokenize(w http.ResponseWriter, r *http.Request) {
	var req tokenizeRequest
	if !s.decode(w, r, &req) {
		return
	}
	mode, err := lexer.ParseMode(req.Mode)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.State.InsideString && req.State.InsideExtrapolation {
		writeError(w, http.StatusBadRequest, "state cannot be inside a string and an extrapolation at once")
		return
	}
	if req.Lines != nil {
		for i, l := range req.Lines {
			if strings.ContainsAny(l, "\r\n") {
				writeError(w, http.StatusBadRequest, fmt.Sprintf("lines[%d] contains a line break", i))
				return
			}
		}
		doc := lexer.LexLines(mode, req.Lines, req.State)
		writeJSON(w, http.StatusOK, diagfmt.DocumentJSON("", doc, diagfmt.JSONOpts{}))
		return
	}
	res := driver.TokenizeText("buffer", req.Text, mode, req.State)
	writeJSON(w, http.StatusOK, diagfmt.DocumentJSON("", res.Document, diagfmt.JSONOpts{}))
}

func (s *Server) handleGroup(w http.ResponseWriter, r *http.Request) {
	var findings []issue.Finding
	if !s.decode(w, r, &findings) {
		return
	}
	writeJSON(w, http.StatusOK, issue.Aggregate(findings))
}

type messageIDsRequest struct {
	Profile string `json:"profile"`
}

func (s *Server) handleMessageIDs(w http.ResponseWriter, r *http.Request) {
	var req messageIDsRequest
	if !s.decode(w, r, &req) {
		return
	}
	ids, err := workspace.MessageIDs(req.Profile)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	if ids == nil {
		ids = []workspace.MessageID{}
	}
	writeJSON(w, http.StatusOK, ids)
}
