package main

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/spf13/pflag"

	"github.com/dekarrin/ictiobus/internal/ictiobus/automaton"
	"github.com/dekarrin/ictiobus/internal/ictiobus/glr"
	"github.com/dekarrin/ictiobus/internal/ictiobus/lr"
	"github.com/dekarrin/ictiobus/internal/ictiobus/runtime"
)

// runServe implements spec.md §6's "serve" networked surface: the same
// compile/parse CLI commands, reachable over HTTP. Grounded on the
// teacher's server package (chi.v5 router, one EndpointFunc per route,
// EndpointResult encoding the response), trimmed to this demo's two
// operations and simplified to accept the whole grammar config with every
// request rather than maintaining a server-side table registry keyed by an
// opaque ref -- spec.md §6 only specifies the core's interfaces, not this
// collaborator's persistence model, so a stateless request/response shape
// was chosen for simplicity.
func runServe(args []string) error {
	fs := pflag.NewFlagSet("serve", pflag.ContinueOnError)
	addr := fs.StringP("listen", "l", ":8080", "Address to listen on")
	if err := fs.Parse(args); err != nil {
		return err
	}

	r := chi.NewRouter()
	r.Post("/compile", Endpoint(epCompile))
	r.Post("/parse", Endpoint(epParse))

	log.Printf("INFO  ictiobus serve listening on %s", *addr)
	return http.ListenAndServe(*addr, r)
}

type compileRequest struct {
	Grammar               grammarConfig
	Tables                string
	PreferShifts          bool
	PreferShiftsOverEmpty bool
}

type compileResponse struct {
	States    []string `json:"states"`
	Conflicts int      `json:"conflicts"`
	Dump      string   `json:"dump"`
}

func epCompile(req *http.Request) EndpointResult {
	var body compileRequest
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		return jsonBadRequest("malformed JSON body", err.Error())
	}

	tbl, err := compileTable(body.Grammar, body.Tables, body.PreferShifts, body.PreferShiftsOverEmpty)
	if err != nil {
		return jsonBadRequest(err.Error(), err.Error())
	}

	return jsonOK(compileResponse{
		States:    tbl.States(),
		Conflicts: len(tbl.Conflicts),
		Dump:      tbl.String(),
	}, "compiled table")
}

type parseRequest struct {
	Grammar               grammarConfig
	Tables                string
	PreferShifts          bool
	PreferShiftsOverEmpty bool
	Input                 string
	GLR                   bool
}

type parseResponse struct {
	Tree        string `json:"tree,omitempty"`
	Forest      string `json:"forest,omitempty"`
	Solutions   int    `json:"solutions,omitempty"`
	Ambiguities int    `json:"ambiguities,omitempty"`
}

func epParse(req *http.Request) EndpointResult {
	var body parseRequest
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		return jsonBadRequest("malformed JSON body", err.Error())
	}

	tbl, err := compileTable(body.Grammar, body.Tables, body.PreferShifts, body.PreferShiftsOverEmpty)
	if err != nil {
		return jsonBadRequest(err.Error(), err.Error())
	}

	engine, err := buildEngine(tbl.Grammar, body.Grammar)
	if err != nil {
		return jsonBadRequest(err.Error(), err.Error())
	}

	if body.GLR {
		p := glr.NewParser(tbl, engine)
		res, err := p.Parse(body.Input)
		if err != nil {
			return jsonBadRequest(err.Error(), err.Error())
		}
		return jsonOK(parseResponse{
			Forest:      res.Forest.ToStr(),
			Solutions:   res.Forest.Solutions(),
			Ambiguities: res.Forest.Ambiguities(),
		}, "parsed with glr")
	}

	p := lr.NewParser(tbl, engine, lr.WithBuildTree(), lr.WithActions(runtime.NewRegistry()))
	res, err := p.Parse(body.Input)
	if err != nil {
		return jsonBadRequest(err.Error(), err.Error())
	}

	var treeStr string
	if res.Tree != nil {
		treeStr = res.Tree.String()
	}
	return jsonOK(parseResponse{Tree: treeStr}, "parsed with lr")
}

func compileTable(cfg grammarConfig, tables string, preferShifts, preferShiftsOverEmpty bool) (*automaton.Table, error) {
	g, err := buildGrammar(cfg)
	if err != nil {
		return nil, err
	}

	tf := &tableFlags{tablesKind: tables, preferShifts: preferShifts, preferShiftsOverEmpty: preferShiftsOverEmpty}
	policy, err := tf.policy()
	if err != nil {
		return nil, err
	}

	tbl, err := automaton.BuildTable(g, policy)
	if err != nil {
		return nil, fmt.Errorf("build table: %w", err)
	}
	return tbl, nil
}
