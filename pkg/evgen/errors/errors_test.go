package errors

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

func TestCategoryString(t *testing.T) {
	tests := []struct {
		category Category
		expected string
	}{
		{CategoryRecoverable, "recoverable"},
		{CategoryTerminal, "terminal"},
		{Category(99), "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			if got := tt.category.String(); got != tt.expected {
				t.Errorf("Category(%d).String() = %s, want %s", tt.category, got, tt.expected)
			}
		})
	}
}

func TestCategorize(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected Category
	}{
		{"nil error", nil, CategoryTerminal},
		{"plain stage failure", errors.New("no emission"), CategoryRecoverable},
		{"threshold", &ThresholdError{Mass: 0.2, Threshold: 0.28}, CategoryRecoverable},
		{"colour", &ColourError{Open: []int{101}}, CategoryRecoverable},
		{"marked terminal", Terminal(errors.New("bad setup"), "init"), CategoryTerminal},
		{"wrapped terminal", fmt.Errorf("stage: %w", Terminal(errors.New("x"), "")), CategoryTerminal},
		{"marked recoverable", Recoverable(context.Canceled, ""), CategoryRecoverable},
		{"cancelled", context.Canceled, CategoryTerminal},
		{"deadline", fmt.Errorf("wrap: %w", context.DeadlineExceeded), CategoryTerminal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Categorize(tt.err); got != tt.expected {
				t.Errorf("Categorize(%v) = %s, want %s", tt.err, got, tt.expected)
			}
		})
	}
}

func TestCategorizedError(t *testing.T) {
	base := errors.New("cluster too light")
	err := Recoverable(base, "hadron level")

	if !errors.Is(err, base) {
		t.Error("CategorizedError should unwrap to the base error")
	}
	want := "hadron level: cluster too light (category: recoverable, attempts: 0)"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}

	noCtx := &CategorizedError{Err: base, Category: CategoryTerminal, Attempts: 3}
	want = "cluster too light (category: terminal, attempts: 3)"
	if noCtx.Error() != want {
		t.Errorf("Error() = %q, want %q", noCtx.Error(), want)
	}
}

func TestWithRetry_SucceedsAfterFailures(t *testing.T) {
	calls := 0
	var retried []int
	cfg := NewRetryConfig(WithMaxAttempts(5), WithOnRetry(func(attempt int, _ error) {
		retried = append(retried, attempt)
	}))

	result := WithRetryContext(context.Background(), cfg, func(_ context.Context, _ int) (int, error) {
		calls++
		if calls < 3 {
			return 0, errors.New("draw failed")
		}
		return 42, nil
	})

	if result.Err != nil {
		t.Fatalf("unexpected error: %v", result.Err)
	}
	if result.Value != 42 || result.Attempts != 3 {
		t.Errorf("got value %d after %d attempts, want 42 after 3", result.Value, result.Attempts)
	}
	if len(retried) != 2 || retried[0] != 1 || retried[1] != 2 {
		t.Errorf("OnRetry called with %v, want [1 2]", retried)
	}
	if result.Exhausted() {
		t.Error("successful result reported as exhausted")
	}
}

func TestWithRetry_ExhaustsExactly(t *testing.T) {
	calls := 0
	retries := 0
	base := errors.New("always fails")
	cfg := NewRetryConfig(WithMaxAttempts(4), WithOnRetry(func(int, error) { retries++ }))

	result := WithRetryContext(context.Background(), cfg, func(_ context.Context, _ int) (struct{}, error) {
		calls++
		return struct{}{}, base
	})

	if calls != 4 {
		t.Errorf("fn called %d times, want 4", calls)
	}
	if retries != 3 {
		t.Errorf("OnRetry called %d times, want 3", retries)
	}
	if !result.Exhausted() {
		t.Errorf("expected exhausted result, got %v", result.Err)
	}
	if !errors.Is(result.Err, base) {
		t.Error("exhausted error should wrap the last failure")
	}
	if Categorize(result.Err) != CategoryTerminal {
		t.Error("exhaustion should be terminal")
	}
}

func TestWithRetry_StopsOnTerminal(t *testing.T) {
	calls := 0
	result := WithRetryContext(context.Background(), DefaultRetry, func(_ context.Context, _ int) (int, error) {
		calls++
		return 0, Terminal(errors.New("panic in stage"), "parton level")
	})

	if calls != 1 {
		t.Errorf("fn called %d times, want 1", calls)
	}
	if result.Attempts != 1 || result.Exhausted() {
		t.Errorf("attempts = %d, exhausted = %v", result.Attempts, result.Exhausted())
	}
}

func TestWithRetryContext_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	calls := 0

	result := WithRetryContext(ctx, DefaultRetry, func(_ context.Context, attempt int) (int, error) {
		calls++
		if attempt == 2 {
			cancel()
		}
		return 0, errors.New("fail")
	})

	if calls != 2 {
		t.Errorf("fn called %d times, want 2", calls)
	}
	if !errors.Is(result.Err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", result.Err)
	}
	if result.Attempts != 2 {
		t.Errorf("attempts = %d, want 2", result.Attempts)
	}
}

func TestNewRetryConfig(t *testing.T) {
	cfg := NewRetryConfig()
	if cfg.MaxAttempts != DefaultRetry.MaxAttempts || cfg.OnRetry != nil {
		t.Errorf("NewRetryConfig() = %+v, want DefaultRetry", cfg)
	}

	cfg = NewRetryConfig(WithMaxAttempts(3))
	if cfg.MaxAttempts != 3 {
		t.Errorf("MaxAttempts = %d, want 3", cfg.MaxAttempts)
	}
	if DefaultRetry.MaxAttempts != 10 {
		t.Error("options must not modify DefaultRetry")
	}
}
