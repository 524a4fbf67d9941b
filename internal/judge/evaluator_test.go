package judge_test

import (
	"context"
	"errors"
	"os"
	"testing"

	"codequest/internal/executor"
	"codequest/internal/judge"
	"codequest/internal/languages"
	"codequest/internal/logger"
	"codequest/internal/models"
)

func TestMain(m *testing.M) {
	logger.InitLogger()
	os.Exit(m.Run())
}

// fakeExecutor answers each call from a scripted queue of outcomes.
type fakeExecutor struct {
	outcomes []outcome
	calls    int
}

type outcome struct {
	res *executor.Result
	err error
}

func (f *fakeExecutor) Execute(_ context.Context, _ executor.Request) (*executor.Result, error) {
	o := f.outcomes[f.calls%len(f.outcomes)]
	f.calls++
	return o.res, o.err
}

func accepted(stdout string) outcome {
	return outcome{res: &executor.Result{
		Stdout: stdout,
		Status: executor.Status{ID: executor.StatusAccepted, Description: "Accepted"},
	}}
}

func runtimeError(stderr string) outcome {
	s := stderr
	return outcome{res: &executor.Result{
		Stderr: &s,
		Status: executor.Status{ID: 11, Description: "Runtime Error"},
	}}
}

func challengeWithCases(cases ...models.TestCase) *models.Challenge {
	return &models.Challenge{ID: 1, Title: "Two Sum", Difficulty: models.DifficultyEasy, TestCases: cases}
}

func TestEvaluateTwoSumScenario(t *testing.T) {
	t.Parallel()
	ch := challengeWithCases(models.TestCase{Input: "[2,7,11,15]\n9", ExpectedOutput: "[0,1]"})
	ev := judge.NewEvaluator(&fakeExecutor{outcomes: []outcome{accepted("[0,1]\n")}})

	verdict, results, err := ev.Evaluate(context.Background(), "code", languages.Python, ch)
	if err != nil {
		t.Fatalf("evaluate failed: %v", err)
	}
	if verdict != models.StatusSolved {
		t.Fatalf("expected SOLVED, got %s", verdict)
	}
	if len(results) != 1 || !results[0].Passed {
		t.Fatalf("expected a single passing result, got %+v", results)
	}
	if results[0].ActualOutput == nil || *results[0].ActualOutput != "[0,1]" {
		t.Fatalf("expected trimmed actual output, got %+v", results[0].ActualOutput)
	}
}

func TestEvaluateInternalWhitespaceFails(t *testing.T) {
	t.Parallel()
	ch := challengeWithCases(models.TestCase{Input: "x", ExpectedOutput: "a b"})
	ev := judge.NewEvaluator(&fakeExecutor{outcomes: []outcome{accepted("a  b")}})

	verdict, results, err := ev.Evaluate(context.Background(), "code", languages.Python, ch)
	if err != nil {
		t.Fatalf("evaluate failed: %v", err)
	}
	if verdict != models.StatusFailed || results[0].Passed {
		t.Fatalf("internal whitespace difference must fail, got %s", verdict)
	}
}

func TestEvaluateDoesNotShortCircuit(t *testing.T) {
	t.Parallel()
	ch := challengeWithCases(
		models.TestCase{Input: "1", ExpectedOutput: "one"},
		models.TestCase{Input: "2", ExpectedOutput: "two"},
		models.TestCase{Input: "3", ExpectedOutput: "three"},
	)
	ev := judge.NewEvaluator(&fakeExecutor{outcomes: []outcome{
		accepted("wrong"),
		accepted("two"),
		accepted("three"),
	}})

	verdict, results, err := ev.Evaluate(context.Background(), "code", languages.Python, ch)
	if err != nil {
		t.Fatalf("evaluate failed: %v", err)
	}
	if verdict != models.StatusFailed {
		t.Fatalf("expected FAILED, got %s", verdict)
	}
	if len(results) != 3 {
		t.Fatalf("all test cases must be attempted, got %d results", len(results))
	}
	if results[0].Passed || !results[1].Passed || !results[2].Passed {
		t.Fatalf("unexpected pass pattern: %+v", results)
	}
}

func TestEvaluateExecutorErrorRecordedOnResult(t *testing.T) {
	t.Parallel()
	ch := challengeWithCases(
		models.TestCase{Input: "1", ExpectedOutput: "one"},
		models.TestCase{Input: "2", ExpectedOutput: "two"},
	)
	ev := judge.NewEvaluator(&fakeExecutor{outcomes: []outcome{
		{err: executor.ErrTimeout},
		accepted("two"),
	}})

	verdict, results, err := ev.Evaluate(context.Background(), "code", languages.Python, ch)
	if err != nil {
		t.Fatalf("a per-case executor error must not abort evaluation: %v", err)
	}
	if verdict != models.StatusFailed {
		t.Fatalf("expected FAILED, got %s", verdict)
	}
	if results[0].ActualOutput != nil {
		t.Fatalf("actual output must be nil when the executor errored")
	}
	if results[0].Error == nil || *results[0].Error == "" {
		t.Fatalf("expected error text on the failed result")
	}
	if !results[1].Passed {
		t.Fatalf("remaining test cases must still be graded")
	}
}

func TestEvaluateErrorTextPriority(t *testing.T) {
	t.Parallel()
	compile := "compile boom"
	msg := "internal"
	ch := challengeWithCases(models.TestCase{Input: "1", ExpectedOutput: "one"})
	ev := judge.NewEvaluator(&fakeExecutor{outcomes: []outcome{{
		res: &executor.Result{
			CompileOutput: &compile,
			Message:       &msg,
			Status:        executor.Status{ID: 6, Description: "Compilation Error"},
		},
	}}})

	_, results, err := ev.Evaluate(context.Background(), "code", languages.Python, ch)
	if err != nil {
		t.Fatalf("evaluate failed: %v", err)
	}
	if results[0].Error == nil || *results[0].Error != compile {
		t.Fatalf("compile output must win over message, got %+v", results[0].Error)
	}
	if results[0].ActualOutput != nil {
		t.Fatalf("non-accepted status must leave actual output nil")
	}
}

func TestEvaluateStderrWinsOverCompileOutput(t *testing.T) {
	t.Parallel()
	stderr := "trace"
	compile := "compile"
	ch := challengeWithCases(models.TestCase{Input: "1", ExpectedOutput: "one"})
	ev := judge.NewEvaluator(&fakeExecutor{outcomes: []outcome{{
		res: &executor.Result{
			Stderr:        &stderr,
			CompileOutput: &compile,
			Status:        executor.Status{ID: 11, Description: "Runtime Error"},
		},
	}}})

	_, results, _ := ev.Evaluate(context.Background(), "code", languages.Python, ch)
	if results[0].Error == nil || *results[0].Error != stderr {
		t.Fatalf("stderr must win, got %+v", results[0].Error)
	}
}

func TestEvaluateUnsupportedLanguageAbortsBeforeExecution(t *testing.T) {
	t.Parallel()
	fake := &fakeExecutor{outcomes: []outcome{accepted("x")}}
	ev := judge.NewEvaluator(fake)
	ch := challengeWithCases(models.TestCase{Input: "1", ExpectedOutput: "one"})

	_, results, err := ev.Evaluate(context.Background(), "code", "fortran", ch)
	if !errors.Is(err, languages.ErrUnsupportedLanguage) {
		t.Fatalf("expected ErrUnsupportedLanguage, got %v", err)
	}
	if results != nil || fake.calls != 0 {
		t.Fatalf("no test case may run for an unsupported language")
	}
}

func TestEvaluateRuntimeErrorKeepsGoing(t *testing.T) {
	t.Parallel()
	ch := challengeWithCases(
		models.TestCase{Input: "1", ExpectedOutput: "one"},
		models.TestCase{Input: "2", ExpectedOutput: "two"},
	)
	ev := judge.NewEvaluator(&fakeExecutor{outcomes: []outcome{
		runtimeError("panic"),
		accepted("two"),
	}})

	verdict, results, err := ev.Evaluate(context.Background(), "code", languages.Python, ch)
	if err != nil {
		t.Fatalf("evaluate failed: %v", err)
	}
	if verdict != models.StatusFailed || len(results) != 2 {
		t.Fatalf("expected FAILED with 2 results, got %s %d", verdict, len(results))
	}
	if results[0].Status != "Runtime Error" {
		t.Fatalf("executor status descriptor must be recorded, got %q", results[0].Status)
	}
}
