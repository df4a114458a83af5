package imagefetch

import (
	"context"
	"sync"

	"golang.org/x/sync/semaphore"

	"pidformatter/campaign"
	"pidformatter/imageindex"
)

const defaultConcurrency = 8

// Item is one image to download.
type Item struct {
	PID      int64
	URL      string
	Filename string
}

// Image is a downloaded image.
type Image struct {
	PID      int64
	Filename string
	Data     []byte
}

// Failure records an item that could not be downloaded.
type Failure struct {
	Item Item
	Err  error
}

type Fetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

type Checker interface {
	Check(ctx context.Context, url string) bool
}

// ItemsFromProducts selects all-products rows whose id has both an image URL
// and a filename in the index.
func ItemsFromProducts(rows []campaign.ProductImage, index *imageindex.Index) []Item {
	items := make([]Item, 0, len(rows))
	for _, row := range rows {
		entry, ok := index.Lookup(row.PID)
		if !ok || entry.URL == "" || entry.Filename == "" {
			continue
		}
		items = append(items, Item{PID: row.PID, URL: entry.URL, Filename: entry.Filename})
	}
	return items
}

// Collect downloads items with at most concurrency requests in flight.
// Images come back in item order; failed items are reported, not fatal.
func Collect(ctx context.Context, fetcher Fetcher, items []Item, concurrency int) ([]Image, []Failure) {
	results := make([][]byte, len(items))
	errs := make([]error, len(items))

	forEach(ctx, len(items), concurrency, func(ctx context.Context, i int) {
		results[i], errs[i] = fetcher.Fetch(ctx, items[i].URL)
	}, func(i int, err error) {
		errs[i] = err
	})

	images := make([]Image, 0, len(items))
	failures := make([]Failure, 0)
	for i, item := range items {
		if errs[i] != nil {
			failures = append(failures, Failure{Item: item, Err: errs[i]})
			continue
		}
		images = append(images, Image{PID: item.PID, Filename: item.Filename, Data: results[i]})
	}
	return images, failures
}

// CheckAll checks each distinct non-empty URL once.
func CheckAll(ctx context.Context, checker Checker, urls []string, concurrency int) map[string]bool {
	unique := make([]string, 0, len(urls))
	seen := make(map[string]struct{}, len(urls))
	for _, url := range urls {
		if url == "" {
			continue
		}
		if _, ok := seen[url]; ok {
			continue
		}
		seen[url] = struct{}{}
		unique = append(unique, url)
	}

	reachable := make([]bool, len(unique))
	forEach(ctx, len(unique), concurrency, func(ctx context.Context, i int) {
		reachable[i] = checker.Check(ctx, unique[i])
	}, func(int, error) {})

	out := make(map[string]bool, len(unique))
	for i, url := range unique {
		out[url] = reachable[i]
	}
	return out
}

// forEach runs fn for indexes 0..n-1 bounded by a weighted semaphore. Indexes
// not started because ctx ended are passed to skipped.
func forEach(ctx context.Context, n, concurrency int, fn func(context.Context, int), skipped func(int, error)) {
	if concurrency <= 0 {
		concurrency = defaultConcurrency
	}
	sem := semaphore.NewWeighted(int64(concurrency))

	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		if err := sem.Acquire(ctx, 1); err != nil {
			for j := i; j < n; j++ {
				skipped(j, err)
			}
			break
		}
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			defer sem.Release(1)
			fn(ctx, i)
		}(i)
	}
	wg.Wait()
}
