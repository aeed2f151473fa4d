package logging

import (
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// InitLogger initializes the global zerolog logger with the requested level
// and output format.
func InitLogger(debug, human bool) {
	zerolog.TimeFieldFormat = time.RFC3339Nano
	base := zerolog.New(os.Stdout).With().Timestamp().Logger()
	if human {
		log.Logger = base.Output(zerolog.ConsoleWriter{
			Out:        os.Stdout,
			TimeFormat: time.RFC3339Nano,
		})
	} else {
		log.Logger = base // JSON output.
	}
	if debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
}

// LogRequest logs a received facade command with structured fields.
func LogRequest(
	requestID string,
	clientIP string,
	command string,
	description string,
	fieldCount int,
	activeConns int,
) {
	log.Info().
		Str("event", "request_received").
		Str("request_id", requestID).
		Str("client_ip", clientIP).
		Str("command", command).
		Str("description", description).
		Int("fields", fieldCount).
		Int("active_connections", activeConns).
		Msg("received command")
}

// LogResponse logs a sent facade response with structured fields. Response
// payloads carry key material, so only their size is recorded.
func LogResponse(
	requestID string,
	clientIP string,
	command string,
	responseCommand string,
	status string,
	responseLen int,
	activeConns int,
) {
	log.Info().
		Str("event", "response_sent").
		Str("request_id", requestID).
		Str("client_ip", clientIP).
		Str("command", command).
		Str("response_command", responseCommand).
		Str("status", status).
		Int("response_bytes", responseLen).
		Int("active_connections", activeConns).
		Msg("sent response")
}
