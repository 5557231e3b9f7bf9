package shortener

import (
	"context"
	"sync"

	"github.com/bits-and-blooms/bloom/v3"

	"github.com/sundayezeilo/nanolink/internal/errx"
)

// CodeIndex is a thread-safe bloom filter over every short code in the store.
// A negative answer is definite, so generated codes that miss the filter can
// skip the ExistsByCode round trip. It never answers a resolve.
type CodeIndex struct {
	mu     sync.RWMutex
	filter *bloom.BloomFilter
}

// NewCodeIndex sizes the filter for capacity codes at the given false positive rate.
func NewCodeIndex(capacity uint, fpRate float64) *CodeIndex {
	return &CodeIndex{
		filter: bloom.NewWithEstimates(capacity, fpRate),
	}
}

// Add records a code as taken.
func (i *CodeIndex) Add(code string) {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.filter.AddString(code)
}

// MayContain reports false only when code is certainly not in the store.
func (i *CodeIndex) MayContain(code string) bool {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return i.filter.TestString(code)
}

type codeLister interface {
	ListCodes(ctx context.Context) ([]string, error)
}

// Load adds every stored code to the index and returns how many were read.
func (i *CodeIndex) Load(ctx context.Context, repo codeLister) (int, error) {
	const op = "shortener.codeindex.Load"

	codes, err := repo.ListCodes(ctx)
	if err != nil {
		return 0, errx.E(op, errx.KindOf(err), err)
	}

	i.mu.Lock()
	defer i.mu.Unlock()
	for _, code := range codes {
		i.filter.AddString(code)
	}
	return len(codes), nil
}
