package transport

import (
	"bytes"
	"context"
	"crypto/tls"
	"crypto/x509"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"github.com/rios0rios0/robotremote/internal/domain/entities"
	"github.com/rios0rios0/robotremote/internal/domain/repositories"
)

const maxErrorBodyLength = 512

// Client calls the worker over HTTPS. It never retries: a run submitted twice would execute twice.
type Client struct {
	url        string
	user       string
	password   string
	httpClient *http.Client
	nextID     atomic.Int64
}

// NewRunnerFactory returns the factory the client command uses to reach a worker.
func NewRunnerFactory() repositories.RunnerFactory {
	return func(settings *entities.ClientSettings) (repositories.RunnerRepository, error) {
		return NewClient(settings)
	}
}

// NewClient creates a Client for the worker described by settings.
func NewClient(settings *entities.ClientSettings) (*Client, error) {
	//nolint:exhaustruct // defaults for everything else
	tlsConfig := &tls.Config{
		MinVersion:         tls.VersionTLS12,
		InsecureSkipVerify: settings.Insecure, //nolint:gosec // explicit operator opt-in for self-signed workers
	}

	if settings.CACertFile != "" {
		pem, err := os.ReadFile(settings.CACertFile)
		if err != nil {
			return nil, fmt.Errorf("failed to read CA certificate: %w", err)
		}
		pool, err := x509.SystemCertPool()
		if err != nil {
			pool = x509.NewCertPool()
		}
		if !pool.AppendCertsFromPEM(pem) {
			return nil, fmt.Errorf("no certificates found in %s", settings.CACertFile)
		}
		tlsConfig.RootCAs = pool
	}

	//nolint:exhaustruct // defaults for everything else
	transport := &http.Transport{
		Proxy:               http.ProxyFromEnvironment,
		TLSClientConfig:     tlsConfig,
		TLSHandshakeTimeout: 10 * time.Second,
	}

	return &Client{
		url:        settings.URL(),
		user:       settings.User,
		password:   settings.Password,
		httpClient: &http.Client{Transport: transport}, //nolint:exhaustruct // runs have no upper time bound
	}, nil
}

// WithHTTPClient replaces the underlying HTTP client.
func (it *Client) WithHTTPClient(httpClient *http.Client) *Client {
	it.httpClient = httpClient
	return it
}

func (it *Client) TestConnection(ctx context.Context) (string, error) {
	var reply string
	if err := it.call(ctx, MethodTestConnection, nil, &reply); err != nil {
		return "", err
	}
	return reply, nil
}

func (it *Client) Execute(
	ctx context.Context,
	bundle *entities.Bundle,
	debug bool,
) (*entities.ExecutionResult, error) {
	//nolint:exhaustruct // filled by the reply
	result := &entities.ExecutionResult{}
	if err := it.call(ctx, MethodExecute, newExecuteParams(bundle, debug), result); err != nil {
		return nil, err
	}
	return result, nil
}

// GetTime calls the legacy time probe.
func (it *Client) GetTime(ctx context.Context) (time.Time, error) {
	var reply string
	if err := it.call(ctx, MethodGetTime, nil, &reply); err != nil {
		return time.Time{}, err
	}
	return time.Parse(time.RFC3339, reply)
}

func (it *Client) call(ctx context.Context, method string, params any, result any) error {
	request := Request{
		JSONRPC: jsonRPCVersion,
		ID:      json.RawMessage(strconv.FormatInt(it.nextID.Add(1), 10)),
		Method:  method,
	}
	if params != nil {
		encoded, err := json.Marshal(params)
		if err != nil {
			return fmt.Errorf("failed to encode %s params: %w", method, err)
		}
		request.Params = encoded
	}

	body, err := json.Marshal(request)
	if err != nil {
		return fmt.Errorf("failed to encode %s request: %w", method, err)
	}

	httpRequest, err := http.NewRequestWithContext(ctx, http.MethodPost, it.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	httpRequest.Header.Set("Content-Type", "application/json")
	httpRequest.SetBasicAuth(it.user, it.password)

	httpResponse, err := it.httpClient.Do(httpRequest)
	if err != nil {
		return fmt.Errorf("failed to reach %s: %w", redactURL(it.url), err)
	}
	defer httpResponse.Body.Close()

	if httpResponse.StatusCode != http.StatusOK {
		text, _ := io.ReadAll(io.LimitReader(httpResponse.Body, maxErrorBodyLength))
		message := strings.TrimSpace(string(text))
		if message == "" {
			message = http.StatusText(httpResponse.StatusCode)
		}
		return &ProtocolError{URL: redactURL(it.url), StatusCode: httpResponse.StatusCode, Message: message}
	}

	//nolint:exhaustruct // decoded from the body
	var response Response
	if decodeErr := json.NewDecoder(httpResponse.Body).Decode(&response); decodeErr != nil {
		return fmt.Errorf("malformed reply from %s: %w", redactURL(it.url), decodeErr)
	}
	if response.Error != nil {
		return response.Error
	}
	if len(response.Result) == 0 || bytes.Equal(response.Result, []byte("null")) {
		return entities.ErrNoDataReceived
	}
	if unmarshalErr := json.Unmarshal(response.Result, result); unmarshalErr != nil {
		return fmt.Errorf("malformed %s result: %w", method, unmarshalErr)
	}
	return nil
}
