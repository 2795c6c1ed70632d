package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

// Códigos de salida de posctl.
const (
	ExitSuccess      = 0
	ExitFailure      = 1 // descuadre detectado, lotes fallidos
	ExitCommandError = 2 // configuración, conexión, flags
)

// ExitError error con código de salida.
type ExitError struct {
	Code    int
	Message string
	Err     error
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ExitError) Unwrap() error { return e.Err }

// WrapExitError envuelve err con un código de salida.
func WrapExitError(code int, message string, err error) *ExitError {
	return &ExitError{Code: code, Message: message, Err: err}
}

// GetExitCode código de salida de err; ExitFailure si no es un ExitError.
func GetExitCode(err error) int {
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitFailure
}

// Response formato JSON de salida.
type Response struct {
	Status string `json:"status"` // ok | error
	Data   any    `json:"data,omitempty"`
	Error  string `json:"error,omitempty"`
}

// printer escribe resultados en texto o JSON según --format.
type printer struct {
	format string
	w      io.Writer
}

// Success imprime data; en texto usa render si no es nil.
func (p printer) Success(data any, render func(io.Writer)) error {
	if p.format == "json" {
		return json.NewEncoder(p.w).Encode(Response{Status: "ok", Data: data})
	}
	if render != nil {
		render(p.w)
		return nil
	}
	_, err := fmt.Fprintln(p.w, data)
	return err
}
