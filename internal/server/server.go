// Package server exposes the key block and PIN block operations over a small
// TCP command protocol.
//
// A request is a two-character command followed by space-separated ASCII
// fields, hex for binary values. A response is the command code with its
// second character incremented (Z wraps to A), a two-digit status, then the
// payload. Commands:
//
//	WK kbpkHex keyHex headerTemplate  -> wrapped key block
//	UK kbpkHex keyBlock               -> key usage and recovered key hex
//	PE format pin pan [keyHex]        -> PIN block hex
//	PD format blockHex pan [keyHex]   -> PIN
//	KC keyHex                         -> check value hex
package server

import (
	"crypto/rand"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync/atomic"
	"time"

	anetserver "github.com/andrei-cloud/anet/server"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/andrei-cloud/go_paykit/internal/logging"
)

// logAdapter implements anet.Logger using zerolog.
type logAdapter struct{}

func (l logAdapter) Print(v ...any) {
	log.Info().Msg(fmt.Sprint(v...))
}

func (l logAdapter) Printf(format string, v ...any) {
	log.Info().Msgf(format, v...)
}

func (l logAdapter) Infof(format string, v ...any) {
	log.Info().Msgf(format, v...)
}

func (l logAdapter) Warnf(format string, v ...any) {
	log.Warn().Msgf(format, v...)
}

func (l logAdapter) Errorf(format string, v ...any) {
	log.Error().Msgf(format, v...)
}

// Server wraps the anet TCP server around the facade command handlers.
type Server struct {
	address     string
	srv         *anetserver.Server
	random      io.Reader
	activeConns int32
}

// NewServer configures and returns the facade server. Padding and fill bytes
// for wrap and PIN block operations come from crypto/rand.
func NewServer(address string) (*Server, error) {
	cfg := &anetserver.ServerConfig{
		MaxConns:        100,
		ReadTimeout:     30 * time.Second,
		WriteTimeout:    30 * time.Second,
		IdleTimeout:     0 * time.Second, // disable idle connection closure.
		ShutdownTimeout: 5 * time.Second,
		Logger:          logAdapter{},
	}

	s := &Server{
		address: address,
		random:  rand.Reader,
	}
	handler := anetserver.HandlerFunc(s.handle)
	srv, err := anetserver.NewServer(address, handler, cfg)
	if err != nil {
		return nil, fmt.Errorf("server setup failed: %w", err)
	}
	s.srv = srv

	return s, nil
}

// Start begins listening for connections.
func (s *Server) Start() error {
	log.Info().Str("address", s.address).Msg("server started")

	return s.srv.Start()
}

// Stop gracefully shuts down the server.
func (s *Server) Stop() error {
	return s.srv.Stop()
}

var commandDescriptions = map[string]string{
	"WK": "wrap key into key block",
	"UK": "unwrap key block",
	"PE": "encode pin block",
	"PD": "decode pin block",
	"KC": "compute key check value",
}

// incrementCode returns the response code: the command with its second
// character incremented, Z wrapping to A.
func incrementCode(cmd string) string {
	b := []byte(cmd)
	if len(b) < 2 {
		return cmd
	}
	if b[1] == 'Z' {
		b[1] = 'A'
	} else {
		b[1]++
	}

	return string(b)
}

// respond assembles a wire response from status and payload.
func respond(cmd string, st Status, payload string) []byte {
	return []byte(incrementCode(cmd) + st.Code + payload)
}

// dispatch routes one parsed command to its handler. Handlers return an
// empty payload on error so nothing derived from key material leaks.
func (s *Server) dispatch(cmd string, fields []string) (string, Status) {
	switch cmd {
	case "WK":
		return s.wrapKey(fields)
	case "UK":
		return s.unwrapKey(fields)
	case "PE":
		return s.encodePinBlock(fields)
	case "PD":
		return s.decodePinBlock(fields)
	case "KC":
		return s.checkValue(fields)
	default:
		return "", StatusUnknownCommand
	}
}

func (s *Server) handle(conn *anetserver.ServerConn, data []byte) ([]byte, error) {
	client := conn.Conn.RemoteAddr().String()
	atomic.AddInt32(&s.activeConns, 1)
	defer atomic.AddInt32(&s.activeConns, -1)

	start := time.Now()
	requestID := uuid.NewString()

	if len(data) < 2 {
		log.Error().
			Str("request_id", requestID).
			Str("client_ip", client).
			Msg("malformed request")

		return nil, errors.New("malformed request")
	}

	cmd := string(data[:2])
	fields := strings.Fields(string(data[2:]))
	active := int(atomic.LoadInt32(&s.activeConns))
	logging.LogRequest(requestID, client, cmd, commandDescriptions[cmd], len(fields), active)

	payload, st := s.dispatch(cmd, fields)
	resp := respond(cmd, st, payload)

	logging.LogResponse(requestID, client, cmd, string(resp[:2]), st.Code, len(resp), active)
	log.Debug().
		Str("request_id", requestID).
		Str("command", cmd).
		Str("duration", time.Since(start).String()).
		Msg("completed request handling")

	return resp, nil
}
