package judge

import (
	"context"
	"errors"
	"strings"

	"codequest/internal/executor"
	"codequest/internal/languages"
	"codequest/internal/logger"
	"codequest/internal/models"

	"go.uber.org/zap"
)

// Evaluator grades a submission against every test case of a challenge.
type Evaluator struct {
	exec executor.Executor
}

func NewEvaluator(exec executor.Executor) *Evaluator {
	return &Evaluator{exec: exec}
}

// Evaluate runs the submitted source against each test case in stored order
// and returns the aggregate verdict with one TestResult per test case.
// Failures local to a single test case are recorded on that result and never
// abort the remaining cases, so a student sees every failure in one pass.
// An unsupported language aborts before any test case runs.
func (e *Evaluator) Evaluate(ctx context.Context, sourceCode string, language languages.Tag, challenge *models.Challenge) (string, []models.TestResult, error) {
	if _, _, err := languages.Lookup(language); err != nil {
		return "", nil, err
	}

	results := make([]models.TestResult, 0, len(challenge.TestCases))
	allPassed := true

	for i, tc := range challenge.TestCases {
		result := models.TestResult{
			Position:       i,
			Input:          tc.Input,
			ExpectedOutput: tc.ExpectedOutput,
		}

		res, err := e.exec.Execute(ctx, executor.Request{
			SourceCode: sourceCode,
			Language:   language,
			Stdin:      tc.Input,
		})

		switch {
		case errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded):
			return "", nil, err
		case err != nil:
			logger.Log.Warn("Executor failed for test case",
				zap.Int("challenge_id", challenge.ID),
				zap.Int("position", i),
				zap.Error(err))
			msg := err.Error()
			result.Status = "Error"
			result.Error = &msg
			allPassed = false
		case !res.Accepted():
			result.Status = res.Status.Description
			result.Error = firstNonEmpty(res.Stderr, res.CompileOutput, res.Message)
			allPassed = false
		default:
			actual := strings.TrimSpace(res.Stdout)
			expected := strings.TrimSpace(tc.ExpectedOutput)
			result.Status = res.Status.Description
			result.ActualOutput = &actual
			result.Passed = actual == expected
			if !result.Passed {
				allPassed = false
			}
		}

		results = append(results, result)
	}

	verdict := models.StatusSolved
	if !allPassed {
		verdict = models.StatusFailed
	}
	return verdict, results, nil
}

func firstNonEmpty(candidates ...*string) *string {
	for _, c := range candidates {
		if c != nil && *c != "" {
			return c
		}
	}
	return nil
}
