// Package plain implements the SASL PLAIN mechanism.
package plain

import (
	"context"
	"fmt"

	"github.com/platformatic/kgo/pkg/sasl"
)

// Auth holds the credentials sent in a PLAIN handshake.
type Auth struct {
	Zid  string // authorization identity, usually left empty
	User string
	Pass string
}

// AsMechanism returns a sasl.Mechanism that authenticates with a.
func (a Auth) AsMechanism() sasl.Mechanism {
	return mechanism{a}
}

type mechanism struct{ auth Auth }

func (mechanism) Name() string { return "PLAIN" }

func (m mechanism) Session(context.Context) (sasl.Session, error) {
	return &session{auth: m.auth}, nil
}

type session struct {
	auth Auth
	done bool
}

// PLAIN is a single round: authzid NUL authcid NUL passwd.
func (s *session) Challenge(_ []byte) ([]byte, bool, error) {
	if s.done {
		return nil, true, nil
	}
	s.done = true
	msg := []byte(fmt.Sprintf("%s\x00%s\x00%s", s.auth.Zid, s.auth.User, s.auth.Pass))
	return msg, true, nil
}
