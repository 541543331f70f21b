// Package parallel runs loop bodies on a bounded number of goroutines.
package parallel

import "sync"

// ForEach calls body for every i in [0, length) with at most limit calls
// running at once. It returns the error of the lowest i that failed. Once
// an iteration fails, iterations not yet started are skipped.
func ForEach(length, limit int, body func(i int) error) error {
	if limit <= 0 {
		limit = 1
	}
	if length <= 0 {
		return nil
	}
	if limit == 1 {
		for i := 0; i < length; i++ {
			if err := body(i); err != nil {
				return err
			}
		}
		return nil
	}

	var (
		sem    = make(chan struct{}, limit)
		wg     sync.WaitGroup
		mut    sync.Mutex
		first  = length
		failed error
	)
	for i := 0; i < length; i++ {
		sem <- struct{}{}
		mut.Lock()
		stop := failed != nil
		mut.Unlock()
		if stop {
			<-sem
			break
		}
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			defer func() { <-sem }()

			if err := body(i); err != nil {
				mut.Lock()
				if i < first {
					first, failed = i, err
				}
				mut.Unlock()
			}
		}(i)
	}
	wg.Wait()
	return failed
}
