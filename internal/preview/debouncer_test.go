package preview

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestNewDebouncer_Validation(t *testing.T) {
	_, err := NewDebouncer(0, time.Second)
	require.Error(t, err)

	_, err = NewDebouncer(time.Second, 500*time.Millisecond)
	require.Error(t, err)

	_, err = NewDebouncer(100*time.Millisecond, time.Second)
	require.NoError(t, err)
}

func TestDebouncer_CoalescesBurstIntoOneTrigger(t *testing.T) {
	d, err := NewDebouncer(50*time.Millisecond, time.Second)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go d.Run(ctx)

	for i := 0; i < 5; i++ {
		d.Request()
		time.Sleep(5 * time.Millisecond)
	}

	select {
	case <-d.Triggers():
	case <-time.After(time.Second):
		t.Fatal("expected a trigger after the quiet window")
	}

	select {
	case <-d.Triggers():
		t.Fatal("burst must coalesce into a single trigger")
	case <-time.After(150 * time.Millisecond):
	}
}

func TestDebouncer_MaxDelayBoundsPostponement(t *testing.T) {
	d, err := NewDebouncer(80*time.Millisecond, 300*time.Millisecond)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go d.Run(ctx)

	// Keep requesting faster than the quiet window; only the max delay can fire.
	done := make(chan struct{})
	go func() {
		defer close(done)
		deadline := time.Now().Add(600 * time.Millisecond)
		for time.Now().Before(deadline) {
			d.Request()
			time.Sleep(20 * time.Millisecond)
		}
	}()

	select {
	case <-d.Triggers():
	case <-time.After(500 * time.Millisecond):
		t.Fatal("max delay must force a trigger despite continuous edits")
	}
	<-done
}

func TestDebouncer_NoRequestsNoTriggers(t *testing.T) {
	d, err := NewDebouncer(20*time.Millisecond, 100*time.Millisecond)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go d.Run(ctx)

	select {
	case <-d.Triggers():
		t.Fatal("trigger without any request")
	case <-time.After(150 * time.Millisecond):
	}
}
