package core

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"github.com/ky489401/anki-canonical/internal/ankiconnect"
	"github.com/stretchr/testify/require"
)

// Reset forces singletons to be recreated. Useful between unit tests.
func Reset() {
	configOnce.Reset()
	configSingleton = nil
	loggerOnce.Reset()
	loggerSingleton = nil
	toolkitOnce.Reset()
	toolkitSingleton = nil
}

/* Fixtures */

// CaptureLogs redirects the current logger to a buffer until the end of the test.
func CaptureLogs(t *testing.T, level VerboseLevel) *bytes.Buffer {
	var buf bytes.Buffer
	CurrentLogger().SetOutput(&buf).SetVerboseLevel(level)
	t.Cleanup(func() {
		loggerOnce.Reset()
		loggerSingleton = nil
	})
	return &buf
}

// AnkiHandler answers an AnkiConnect action with its result or an error message.
type AnkiHandler func(params map[string]any) (result any, errMessage string)

// FakeAnki is an in-memory AnkiConnect server.
type FakeAnki struct {
	mu       sync.Mutex
	handlers map[string]AnkiHandler
	Actions  []string
}

// SetUpFakeAnki starts a fake AnkiConnect server answering "version" by default.
func SetUpFakeAnki(t *testing.T) (*FakeAnki, *ankiconnect.Client) {
	fake := &FakeAnki{
		handlers: map[string]AnkiHandler{
			"version": func(map[string]any) (any, string) {
				return ankiconnect.APIVersion, ""
			},
		},
	}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var request struct {
			Action string         `json:"action"`
			Params map[string]any `json:"params"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&request))

		fake.mu.Lock()
		fake.Actions = append(fake.Actions, request.Action)
		handler, ok := fake.handlers[request.Action]
		fake.mu.Unlock()

		response := map[string]any{"result": nil, "error": "unsupported action"}
		if ok {
			result, errMessage := handler(request.Params)
			response["result"] = result
			if errMessage != "" {
				response["error"] = errMessage
			} else {
				response["error"] = nil
			}
		}
		require.NoError(t, json.NewEncoder(w).Encode(response))
	}))
	t.Cleanup(server.Close)
	return fake, ankiconnect.NewClient(server.URL)
}

// Handle registers the handler of an action.
func (f *FakeAnki) Handle(action string, handler AnkiHandler) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.handlers[action] = handler
}

// FakeChatModel replies using a function of the last message.
type FakeChatModel func(prompt string) (string, error)

func (f FakeChatModel) Generate(ctx context.Context, input []*schema.Message, opts ...model.Option) (*schema.Message, error) {
	reply, err := f(input[len(input)-1].Content)
	if err != nil {
		return nil, err
	}
	return schema.AssistantMessage(reply, nil), nil
}

func (f FakeChatModel) Stream(ctx context.Context, input []*schema.Message, opts ...model.Option) (*schema.StreamReader[*schema.Message], error) {
	message, err := f.Generate(ctx, input, opts...)
	if err != nil {
		return nil, err
	}
	return schema.StreamReaderFromArray([]*schema.Message{message}), nil
}
