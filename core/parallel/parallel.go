// Package parallel は行単位の処理をCPUコア数に応じて分割実行する。
package parallel

import (
	"runtime"
	"sync"
)

// Parallelize は items 個の行を CPU コア数のチャンクに分け、各範囲 [start, end) で fn を並列実行する。
// fn は互いに重ならない範囲でのみ呼ばれるため、行ごとの書き込みにロックは不要。
func Parallelize(items int, fn func(start, end int)) {
	if items <= 0 {
		return
	}

	numWorkers := runtime.NumCPU()
	if numWorkers > items {
		numWorkers = items
	}
	chunkSize := (items + numWorkers - 1) / numWorkers

	var wg sync.WaitGroup
	for start := 0; start < items; start += chunkSize {
		end := start + chunkSize
		if end > items {
			end = items
		}
		wg.Add(1)
		go func(s, e int) {
			defer wg.Done()
			fn(s, e)
		}(start, end)
	}
	wg.Wait()
}

// ParallelizeWithThreshold は items が threshold を超える場合のみ並列化し、それ以外は逐次実行する
func ParallelizeWithThreshold(items int, threshold int, fn func(start, end int)) {
	if items <= threshold {
		if items > 0 {
			fn(0, items)
		}
		return
	}
	Parallelize(items, fn)
}
