// Package view holds the page state: the greeting fetched from the gateway
// and the draft typed into the form.
package view

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/rs/zerolog"
)

// ConfirmationMessage is shown after the gateway acknowledges a submit.
const ConfirmationMessage = "Data sent successfully!"

// Gateway is the backend the view talks to.
type Gateway interface {
	Hello(ctx context.Context) (string, error)
	SendData(ctx context.Context, data string) (json.RawMessage, error)
}

// Notifier presents a blocking confirmation to the user.
type Notifier interface {
	Alert(msg string)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(msg string)

func (f NotifierFunc) Alert(msg string) { f(msg) }

// State is a point-in-time copy of the view.
type State struct {
	Message string
	Input   string
}

type View struct {
	gateway Gateway
	log     zerolog.Logger

	mountOnce sync.Once

	mu      sync.Mutex
	message string
	input   string
}

func New(gw Gateway, log zerolog.Logger) *View {
	return &View{gateway: gw, log: log}
}

// Mount loads the greeting. Only the first call does any work; later calls
// return immediately. Failures are logged and leave the greeting as it was.
func (v *View) Mount(ctx context.Context) {
	v.mountOnce.Do(func() {
		msg, err := v.gateway.Hello(ctx)
		if err != nil {
			v.log.Error().Err(err).Msg("Error")
			return
		}

		v.mu.Lock()
		v.message = msg
		v.mu.Unlock()
	})
}

// UpdateDraft replaces the draft with value.
func (v *View) UpdateDraft(value string) {
	v.mu.Lock()
	v.input = value
	v.mu.Unlock()
}

// Submit sends the current draft. On a parsed response the draft is cleared
// and n is alerted. On failure the error is logged, the draft is kept and
// nothing is shown; the error is returned for callers that care.
//
// Overlapping submits are not coalesced.
func (v *View) Submit(ctx context.Context, n Notifier) error {
	v.mu.Lock()
	draft := v.input
	v.mu.Unlock()

	result, err := v.gateway.SendData(ctx, draft)
	if err != nil {
		v.log.Error().Err(err).Msg("Error")
		return err
	}
	v.log.Info().RawJSON("result", result).Msg("Response")

	v.mu.Lock()
	v.input = ""
	v.mu.Unlock()

	if n != nil {
		n.Alert(ConfirmationMessage)
	}
	return nil
}

func (v *View) Snapshot() State {
	v.mu.Lock()
	defer v.mu.Unlock()
	return State{Message: v.message, Input: v.input}
}
