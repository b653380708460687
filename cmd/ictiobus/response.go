package main

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
)

// EndpointFunc and Endpoint/EndpointResult below are a trimmed-down version
// of the teacher's server/response.go EndpointResult pattern: handlers
// return a plain value describing the response instead of writing to the
// ResponseWriter directly, and a single writeResponse does the JSON
// encoding and logging in one place.
type EndpointFunc func(req *http.Request) EndpointResult

func Endpoint(ep EndpointFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		defer panicTo500(w, req)
		result := ep(req)
		result.writeResponse(w, req)
	}
}

type EndpointResult struct {
	isErr       bool
	status      int
	internalMsg string
	resp        interface{}
}

func jsonOK(respObj interface{}, internalMsg string) EndpointResult {
	return EndpointResult{status: http.StatusOK, internalMsg: internalMsg, resp: respObj}
}

func jsonBadRequest(userMsg string, internalMsg string) EndpointResult {
	return EndpointResult{isErr: true, status: http.StatusBadRequest, internalMsg: internalMsg, resp: errorResponse{Error: userMsg}}
}

func jsonInternalServerError(internalMsg string) EndpointResult {
	return EndpointResult{isErr: true, status: http.StatusInternalServerError, internalMsg: internalMsg, resp: errorResponse{Error: "An internal server error occurred"}}
}

type errorResponse struct {
	Error string `json:"error"`
}

func (r EndpointResult) writeResponse(w http.ResponseWriter, req *http.Request) {
	if r.status == 0 {
		log.Printf("ERROR %s %s: endpoint result was never populated", req.Method, req.URL.Path)
		http.Error(w, "An internal server error occurred", http.StatusInternalServerError)
		return
	}

	respJSON, err := json.Marshal(r.resp)
	if err != nil {
		res := jsonInternalServerError(fmt.Sprintf("marshal response: %s", err.Error()))
		res.writeResponse(w, req)
		return
	}

	if r.isErr {
		log.Printf("ERROR %s %s -> %d: %s", req.Method, req.URL.Path, r.status, r.internalMsg)
	} else {
		log.Printf("INFO  %s %s -> %d: %s", req.Method, req.URL.Path, r.status, r.internalMsg)
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(r.status)
	w.Write(respJSON)
}

func panicTo500(w http.ResponseWriter, req *http.Request) {
	if rec := recover(); rec != nil {
		log.Printf("ERROR %s %s: panic: %v", req.Method, req.URL.Path, rec)
		http.Error(w, "An internal server error occurred", http.StatusInternalServerError)
	}
}
