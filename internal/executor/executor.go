package executor

import (
	"context"
	"errors"

	"codequest/internal/languages"
)

// Terminal and transient executor status ids. Everything other than
// StatusAccepted that is terminal counts as not-accepted for grading.
const (
	StatusInQueue    = 1
	StatusProcessing = 2
	StatusAccepted   = 3
)

var (
	// ErrTimeout means the asynchronous executor never reached a terminal
	// status within the polling budget.
	ErrTimeout = errors.New("execution timed out waiting for a terminal status")
	// ErrAuth means the executor rejected our credentials. The client
	// recovers from it by simulating, callers never see it.
	ErrAuth = errors.New("executor rejected credentials")
	// ErrBackend covers every other executor-level failure.
	ErrBackend = errors.New("executor backend failure")
)

type Request struct {
	SourceCode string
	Language   languages.Tag
	Stdin      string
}

type Status struct {
	ID          int    `json:"id"`
	Description string `json:"description"`
}

type Result struct {
	Stdout        string  `json:"stdout"`
	Stderr        *string `json:"stderr"`
	CompileOutput *string `json:"compile_output"`
	Message       *string `json:"message"`
	Time          float64 `json:"time"`
	Memory        int     `json:"memory"`
	Status        Status  `json:"status"`
}

// Accepted reports whether the program ran to completion successfully.
func (r *Result) Accepted() bool {
	return r.Status.ID == StatusAccepted
}

// Executor runs one (source, language, stdin) unit and returns a normalized
// result.
type Executor interface {
	Execute(ctx context.Context, req Request) (*Result, error)
}
