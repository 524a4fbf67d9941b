package executor

import (
	"context"
	"strings"
	"testing"

	"codequest/internal/languages"
)

func TestSimulatorExtractsPythonPrints(t *testing.T) {
	t.Parallel()
	sim := NewSimulator()
	res, err := sim.Execute(context.Background(), Request{
		SourceCode: "print(\"hello\")\nprint('world')\n",
		Language:   languages.Python,
	})
	if err != nil {
		t.Fatalf("simulate failed: %v", err)
	}
	if res.Stdout != "hello\nworld" {
		t.Fatalf("unexpected stdout: %q", res.Stdout)
	}
	if !res.Accepted() {
		t.Fatalf("simulator must always report accepted, got %+v", res.Status)
	}
}

func TestSimulatorExtractsConsoleLog(t *testing.T) {
	t.Parallel()
	sim := NewSimulator()
	res, err := sim.Execute(context.Background(), Request{
		SourceCode: "console.log(\"[0,1]\");",
		Language:   languages.JavaScript,
	})
	if err != nil {
		t.Fatalf("simulate failed: %v", err)
	}
	if res.Stdout != "[0,1]" {
		t.Fatalf("unexpected stdout: %q", res.Stdout)
	}
}

func TestSimulatorExpressionArgumentPassesThrough(t *testing.T) {
	t.Parallel()
	sim := NewSimulator()
	res, _ := sim.Execute(context.Background(), Request{
		SourceCode: "print(a + b)",
		Language:   languages.Python,
	})
	if res.Stdout != "a + b" {
		t.Fatalf("unexpected stdout: %q", res.Stdout)
	}
}

func TestSimulatorPlaceholderWhenNoHeuristic(t *testing.T) {
	t.Parallel()
	sim := NewSimulator()

	// Java has no output-call heuristic defined.
	res, err := sim.Execute(context.Background(), Request{
		SourceCode: "System.out.println(\"hi\");",
		Language:   languages.Java,
		Stdin:      "1 2",
	})
	if err != nil {
		t.Fatalf("simulate failed: %v", err)
	}
	if !strings.Contains(res.Stdout, "1 2") {
		t.Fatalf("placeholder should embed stdin, got %q", res.Stdout)
	}
	if !res.Accepted() {
		t.Fatalf("simulator must always report accepted")
	}
}

func TestSimulatorPlaceholderWhenNoOutputCall(t *testing.T) {
	t.Parallel()
	sim := NewSimulator()
	res, _ := sim.Execute(context.Background(), Request{
		SourceCode: "x = 1",
		Language:   languages.Python,
		Stdin:      "in",
	})
	if !strings.Contains(res.Stdout, "in") {
		t.Fatalf("placeholder should embed stdin, got %q", res.Stdout)
	}
}
