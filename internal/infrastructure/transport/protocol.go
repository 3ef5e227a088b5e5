package transport

import (
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/rios0rios0/robotremote/internal/domain/entities"
)

// Remote method names.
const (
	MethodTestConnection = "test_connection"
	MethodGetTime        = "get_time"
	MethodListMethods    = "system.listMethods"
	MethodExecute        = "execute_robot_run"
)

// RPCPath is where the worker answers calls. The root path is accepted too.
const RPCPath = "/RPC2"

const jsonRPCVersion = "2.0"

// JSON-RPC 2.0 error codes.
const (
	CodeParseError     = -32700
	CodeInvalidRequest = -32600
	CodeMethodNotFound = -32601
	CodeInvalidParams  = -32602
	CodeServerError    = -32000
)

// ConnectionOK is the reply of the liveness probe.
const ConnectionOK = "OK"

// Request is a JSON-RPC 2.0 call.
type Request struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id,omitempty"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
}

// Response is a JSON-RPC 2.0 reply. Exactly one of Result and Error is set.
type Response struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id"`
	Result  json.RawMessage `json:"result,omitempty"`
	Error   *Fault          `json:"error,omitempty"`
}

// Fault is an error reported by the remote procedure.
type Fault struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (f *Fault) Error() string {
	return fmt.Sprintf("remote fault %d: %s", f.Code, f.Message)
}

// ProtocolError is an HTTP-level failure, such as a rejected credential.
type ProtocolError struct {
	URL        string
	StatusCode int
	Message    string
}

func (e *ProtocolError) Error() string {
	return fmt.Sprintf("protocol error: %s returned %d %s", e.URL, e.StatusCode, e.Message)
}

// executeParams are the positional parameters of execute_robot_run.
type executeParams struct {
	Suites         map[string]entities.SuiteFile
	Dependencies   map[string]string
	Packages       map[string]string
	EnforceUpgrade bool
	Options        map[string]any
	Debug          bool
}

func (p executeParams) MarshalJSON() ([]byte, error) {
	return json.Marshal([]any{p.Suites, p.Dependencies, p.Packages, p.EnforceUpgrade, p.Options, p.Debug})
}

func (p *executeParams) UnmarshalJSON(data []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("params must be an array: %w", err)
	}
	const arity = 6
	if len(raw) != arity {
		return fmt.Errorf("expected %d params, got %d", arity, len(raw))
	}

	targets := []any{&p.Suites, &p.Dependencies, &p.Packages, &p.EnforceUpgrade, &p.Options, &p.Debug}
	for i, target := range targets {
		if err := json.Unmarshal(raw[i], target); err != nil {
			return fmt.Errorf("param %d: %w", i, err)
		}
	}
	return nil
}

func newExecuteParams(bundle *entities.Bundle, debug bool) executeParams {
	return executeParams{
		Suites:         bundle.Suites,
		Dependencies:   bundle.Dependencies,
		Packages:       bundle.Packages,
		EnforceUpgrade: bundle.EnforceUpgrade,
		Options:        bundle.Options,
		Debug:          debug,
	}
}

func (p executeParams) bundle() *entities.Bundle {
	bundle := entities.NewBundle()
	for name, suite := range p.Suites {
		bundle.Suites[name] = suite
	}
	for name, content := range p.Dependencies {
		bundle.Dependencies[name] = content
	}
	for reference, spec := range p.Packages {
		bundle.Packages[reference] = spec
	}
	for key, value := range p.Options {
		bundle.Options[key] = value
	}
	bundle.EnforceUpgrade = p.EnforceUpgrade
	return bundle
}

// redactURL removes credentials from a URL before it is shown.
func redactURL(raw string) string {
	parsed, err := url.Parse(raw)
	if err != nil {
		return raw
	}
	return parsed.Redacted()
}
