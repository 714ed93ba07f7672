package changeset

import (
	"context"
	"errors"
	"testing"
	"time"

	"pgregory.net/rapid"
)

func TestRunOrdered_Empty(t *testing.T) {
	err := runOrdered(context.Background(), 0, 4, func(context.Context, int) (int, error) {
		t.Fatal("work called for empty input")
		return 0, nil
	}, func(int) error {
		t.Fatal("emit called for empty input")
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestRunOrdered_WorkErrorStops(t *testing.T) {
	boom := errors.New("boom")
	var emitted []int
	err := runOrdered(context.Background(), 10, 3, func(_ context.Context, i int) (int, error) {
		if i == 4 {
			return 0, boom
		}
		return i, nil
	}, func(v int) error {
		emitted = append(emitted, v)
		return nil
	})
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v, want %v", err, boom)
	}
	for i, v := range emitted {
		if v != i || v >= 4 {
			t.Fatalf("emitted %v, expected a prefix of 0..3", emitted)
		}
	}
}

func TestRunOrdered_NoStartAfterCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := runOrdered(ctx, 5, 2, func(context.Context, int) (int, error) {
		t.Error("work started after cancellation")
		return 0, nil
	}, func(int) error { return nil })
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
}

// --- Property Tests ---

func TestRapidRunOrdered_EmitsInIndexOrder(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		n := rapid.IntRange(1, 30).Draw(t, "n")
		workers := rapid.IntRange(1, 8).Draw(t, "workers")
		delays := rapid.SliceOfN(rapid.IntRange(0, 300), n, n).Draw(t, "delays")

		var got []int
		err := runOrdered(context.Background(), n, workers, func(_ context.Context, i int) (int, error) {
			time.Sleep(time.Duration(delays[i]) * time.Microsecond)
			return i * i, nil
		}, func(v int) error {
			got = append(got, v)
			return nil
		})
		if err != nil {
			t.Fatalf("runOrdered: %v", err)
		}
		if len(got) != n {
			t.Fatalf("emitted %d results, expected %d", len(got), n)
		}
		for i, v := range got {
			if v != i*i {
				t.Fatalf("result %d = %d, expected %d", i, v, i*i)
			}
		}
	})
}
