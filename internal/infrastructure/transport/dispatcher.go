package transport

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sort"
	"time"

	logger "github.com/sirupsen/logrus"

	"github.com/rios0rios0/robotremote/internal/domain/entities"
)

// Executor runs a bundle on the worker.
type Executor interface {
	Execute(
		ctx context.Context,
		settings *entities.ServerSettings,
		bundle *entities.Bundle,
		debug bool,
	) (*entities.ExecutionResult, error)
}

type methodHandler func(ctx context.Context, params json.RawMessage) (any, error)

// Dispatcher decodes JSON-RPC calls and routes them to the registered methods.
// The method table is built once and only read afterwards.
type Dispatcher struct {
	settings *entities.ServerSettings
	executor Executor
	pool     *Pool
	methods  map[string]methodHandler
	now      func() time.Time
}

// NewDispatcher creates a Dispatcher. Execution calls run on pool, probes are answered inline.
func NewDispatcher(settings *entities.ServerSettings, executor Executor, pool *Pool) *Dispatcher {
	dispatcher := &Dispatcher{
		settings: settings,
		executor: executor,
		pool:     pool,
		now:      time.Now,
	}
	dispatcher.methods = map[string]methodHandler{
		MethodTestConnection: dispatcher.testConnection,
		MethodGetTime:        dispatcher.getTime,
		MethodListMethods:    dispatcher.listMethods,
		MethodExecute:        dispatcher.execute,
	}
	return dispatcher
}

// Methods returns the registered method names in lexical order.
func (it *Dispatcher) Methods() []string {
	names := make([]string, 0, len(it.methods))
	for name := range it.methods {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (it *Dispatcher) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	//nolint:exhaustruct // decoded from the body
	var request Request
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		writeResponse(w, nil, nil, &Fault{Code: CodeParseError, Message: "parse error"})
		return
	}
	if request.JSONRPC != jsonRPCVersion || request.Method == "" {
		writeResponse(w, request.ID, nil, &Fault{Code: CodeInvalidRequest, Message: "invalid request"})
		return
	}

	handler, found := it.methods[request.Method]
	if !found {
		writeResponse(w, request.ID, nil, &Fault{Code: CodeMethodNotFound, Message: "method not found: " + request.Method})
		return
	}

	logger.WithFields(logger.Fields{
		"request_id": requestIDFromContext(r.Context()),
		"method":     request.Method,
	}).Info("[transport] Dispatching call")

	result, err := handler(r.Context(), request.Params)
	if err != nil {
		writeResponse(w, request.ID, nil, toFault(err))
		return
	}
	writeResponse(w, request.ID, result, nil)
}

func (it *Dispatcher) testConnection(context.Context, json.RawMessage) (any, error) {
	return ConnectionOK, nil
}

func (it *Dispatcher) getTime(context.Context, json.RawMessage) (any, error) {
	return it.now().Format(time.RFC3339), nil
}

func (it *Dispatcher) listMethods(context.Context, json.RawMessage) (any, error) {
	return it.Methods(), nil
}

func (it *Dispatcher) execute(ctx context.Context, raw json.RawMessage) (any, error) {
	//nolint:exhaustruct // decoded from the params
	var params executeParams
	if err := json.Unmarshal(raw, &params); err != nil {
		return nil, &Fault{Code: CodeInvalidParams, Message: "invalid params: " + err.Error()}
	}

	// the run outlives a client that hangs up; its workspace is still torn down by the executor
	runCtx := context.WithoutCancel(ctx)
	return it.pool.Do(ctx, func() (any, error) {
		return it.executor.Execute(runCtx, it.settings, params.bundle(), params.Debug)
	})
}

// toFault maps an error onto the terse message the client sees. Details stay in the server log.
func toFault(err error) *Fault {
	var fault *Fault
	if errors.As(err, &fault) {
		return fault
	}

	for _, known := range []error{
		entities.ErrInvalidBundle,
		entities.ErrInstallFailed,
		entities.ErrExecutionFailed,
	} {
		if errors.Is(err, known) {
			return &Fault{Code: CodeServerError, Message: known.Error()}
		}
	}

	logger.Errorf("[transport] Call failed: %v", err)
	return &Fault{Code: CodeServerError, Message: entities.ErrExecutionFailed.Error()}
}

func writeResponse(w http.ResponseWriter, id json.RawMessage, result any, fault *Fault) {
	if len(id) == 0 {
		id = json.RawMessage("null")
	}
	//nolint:exhaustruct // result or error
	response := Response{JSONRPC: jsonRPCVersion, ID: id, Error: fault}

	if fault == nil {
		encoded, err := json.Marshal(result)
		if err != nil {
			logger.Errorf("[transport] Failed to encode result: %v", err)
			response.Error = &Fault{Code: CodeServerError, Message: "failed to encode result"}
		} else {
			response.Result = encoded
		}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(response); err != nil {
		logger.Warnf("[transport] Failed to write response: %v", err)
	}
}
