// Package sasl defines the SASL authentication mechanisms a broker
// connection can speak and the session interface the connection layer
// drives a handshake through.
package sasl

import "context"

// Mechanism is a SASL mechanism a client can authenticate with. Session
// is called once per connection to produce a fresh Session for that
// connection's handshake.
type Mechanism interface {
	// Name is the mechanism name sent in the SaslHandshake request
	// (e.g. "PLAIN", "SCRAM-SHA-256").
	Name() string
	Session(ctx context.Context) (Session, error)
}

// Session drives a single connection's handshake. Challenge is called
// with the server's response bytes for every round after the first
// (empty on the first call); it returns the client's next message and
// whether the handshake is complete. A mechanism that needs only one
// round (PLAIN) returns done=true from its first Challenge call.
type Session interface {
	Challenge(serverResponse []byte) (clientResponse []byte, done bool, err error)
}

// singleRound adapts a function into a Mechanism for stateless, single-round
// mechanisms whose entire session is one function call.
type singleRound struct {
	name string
	fn   func() ([]byte, error)
}

func (s singleRound) Name() string { return s.name }

func (s singleRound) Session(context.Context) (Session, error) {
	return &singleRoundSession{fn: s.fn}, nil
}

type singleRoundSession struct {
	fn   func() ([]byte, error)
	done bool
}

func (s *singleRoundSession) Challenge(_ []byte) ([]byte, bool, error) {
	if s.done {
		return nil, true, nil
	}
	s.done = true
	msg, err := s.fn()
	return msg, true, err
}
