package parallel

import "github.com/pkg/errors"
import "sync/atomic"
import "testing"

func TestForEach(t *testing.T) {
	for _, limit := range []int{-1, 0, 1, 3, 64} {
		var seen = make([]int32, 100)
		var running, peak int32
		err := ForEach(len(seen), limit, func(i int) error {
			n := atomic.AddInt32(&running, 1)
			for {
				p := atomic.LoadInt32(&peak)
				if n <= p || atomic.CompareAndSwapInt32(&peak, p, n) {
					break
				}
			}
			atomic.AddInt32(&seen[i], 1)
			atomic.AddInt32(&running, -1)
			return nil
		})
		if err != nil {
			t.Fatal(err)
		}
		for i, n := range seen {
			if n != 1 {
				t.Fatalf("limit %d: index %d ran %d times", limit, i, n)
			}
		}
		if limit > 0 && int(peak) > limit {
			t.Errorf("limit %d: %d concurrent calls", limit, peak)
		}
	}
}

func TestForEachError(t *testing.T) {
	var errOdd = errors.New("odd")
	for _, limit := range []int{1, 4} {
		err := ForEach(10, limit, func(i int) error {
			if i == 3 {
				return errOdd
			}
			return nil
		})
		if err != errOdd {
			t.Errorf("limit %d: %v", limit, err)
		}
	}
	if err := ForEach(0, 4, func(int) error { return errOdd }); err != nil {
		t.Errorf("empty loop: %v", err)
	}
}
