package limiter

import (
	"context"
	"testing"
	"time"
)

func TestMemoryBlocksAfterMaxFails(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	m := NewMemory(time.Minute, 3, time.Minute)
	ip := HashIP("10.0.0.1")

	for i := 0; i < 2; i++ {
		blocked, _, err := m.Failure(ctx, ip)
		if err != nil || blocked {
			t.Fatalf("failure %d: blocked=%v err=%v", i, blocked, err)
		}
	}
	blocked, retry, err := m.Failure(ctx, ip)
	if err != nil || !blocked || retry <= 0 {
		t.Fatalf("third failure: blocked=%v retry=%v err=%v", blocked, retry, err)
	}

	allowed, retry, err := m.Allow(ctx, ip)
	if err != nil || allowed || retry <= 0 {
		t.Fatalf("Allow after block: allowed=%v retry=%v err=%v", allowed, retry, err)
	}

	// a different address is unaffected
	allowed, _, err = m.Allow(ctx, HashIP("10.0.0.2"))
	if err != nil || !allowed {
		t.Fatalf("other address blocked: allowed=%v err=%v", allowed, err)
	}
}

func TestMemorySuccessResets(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	m := NewMemory(time.Minute, 2, time.Minute)
	ip := HashIP("10.0.0.1")

	if _, _, err := m.Failure(ctx, ip); err != nil {
		t.Fatal(err)
	}
	if err := m.Success(ctx, ip); err != nil {
		t.Fatal(err)
	}
	// counter starts over
	blocked, _, err := m.Failure(ctx, ip)
	if err != nil || blocked {
		t.Fatalf("blocked after reset: blocked=%v err=%v", blocked, err)
	}
}

func TestMemoryWindowExpiry(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	m := NewMemory(time.Minute, 2, time.Minute)
	ip := HashIP("10.0.0.1")

	now := time.Unix(1700000000, 0)
	m.now = func() time.Time { return now }

	if _, _, err := m.Failure(ctx, ip); err != nil {
		t.Fatal(err)
	}
	// old failures age out of the window
	now = now.Add(2 * time.Minute)
	blocked, _, err := m.Failure(ctx, ip)
	if err != nil || blocked {
		t.Fatalf("blocked across windows: blocked=%v err=%v", blocked, err)
	}
}

func TestHashIPStable(t *testing.T) {
	t.Parallel()
	a := HashIP("192.168.1.1")
	b := HashIP("192.168.1.1")
	c := HashIP("192.168.1.2")
	if string(a) != string(b) {
		t.Fatal("hash not stable")
	}
	if string(a) == string(c) {
		t.Fatal("distinct addresses collide")
	}
}
