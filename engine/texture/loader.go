package texture

import (
	"errors"
	"fmt"
	"path/filepath"
	"runtime"
	"sync"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
	"github.com/Carmen-Shannon/oxy-stages/common"
	"github.com/Carmen-Shannon/oxy-stages/engine/logging"
)

// loader is the implementation of the Loader interface.
type loader struct {
	mu sync.RWMutex

	cache map[string]*common.TextureStagingData

	baseDir string
	workers int
	logger  logging.Logger
}

// Loader resolves texture sources into pixel data and caches the results by Source.Key.
type Loader interface {
	// Load resolves a single source, returning the cached result when present.
	//
	// Parameters:
	//   - src: the texture source
	//
	// Returns:
	//   - *common.TextureStagingData: RGBA pixels ready for upload
	//   - error: error if the source is invalid or cannot be decoded
	Load(src Source) (*common.TextureStagingData, error)

	// LoadAll resolves every source in parallel on a worker pool and blocks until all are done.
	// Results are returned in the same order as sources. Any failure is returned joined with
	// the others; successful results are still cached.
	//
	// Parameters:
	//   - sources: the texture sources to resolve
	//
	// Returns:
	//   - []*common.TextureStagingData: one result per source
	//   - error: joined errors of every failed source, or nil
	LoadAll(sources []Source) ([]*common.TextureStagingData, error)

	// Get retrieves a cached texture by key. Returns nil if not found.
	//
	// Parameters:
	//   - key: the Source.Key to look up
	//
	// Returns:
	//   - *common.TextureStagingData: the cached texture or nil
	Get(key string) *common.TextureStagingData
}

var _ Loader = &loader{}

// NewLoader creates a new Loader with the given options applied.
//
// Parameters:
//   - options: a variadic list of LoaderBuilderOption functions to configure the Loader
//
// Returns:
//   - Loader: a new Loader instance
func NewLoader(options ...LoaderBuilderOption) Loader {
	l := &loader{
		cache:   make(map[string]*common.TextureStagingData),
		workers: max(runtime.NumCPU()-1, 1),
	}
	for _, option := range options {
		option(l)
	}
	l.logger = logging.OrNop(l.logger)
	return l
}

func (l *loader) Load(src Source) (*common.TextureStagingData, error) {
	if err := src.Validate(); err != nil {
		return nil, err
	}

	key := src.Key()
	if cached := l.Get(key); cached != nil {
		return cached, nil
	}

	start := time.Now()
	data, err := l.resolve(src)
	if err != nil {
		return nil, err
	}
	data.Linear = src.Linear()
	l.logger.Debugf("texture %s resolved %dx%d in %s", key, data.Width, data.Height, time.Since(start))

	l.mu.Lock()
	defer l.mu.Unlock()
	if cached, ok := l.cache[key]; ok {
		return cached, nil
	}
	l.cache[key] = data
	return data, nil
}

func (l *loader) LoadAll(sources []Source) ([]*common.TextureStagingData, error) {
	results := make([]*common.TextureStagingData, len(sources))
	if len(sources) == 0 {
		return results, nil
	}

	errs := make([]error, len(sources))

	// A fresh pool per batch, stopped once the barrier releases.
	pool := worker.NewDynamicWorkerPool(min(l.workers, len(sources)), len(sources), time.Second)
	defer pool.Stop()

	var wg sync.WaitGroup
	for i, src := range sources {
		wg.Add(1)
		idx, s := i, src
		pool.SubmitTask(worker.Task{
			ID:      idx,
			Payload: s,
			Do: func() (any, error) {
				defer wg.Done()
				data, err := l.Load(s)
				if err != nil {
					errs[idx] = fmt.Errorf("texture %d: %w", idx, err)
					return nil, errs[idx]
				}
				results[idx] = data
				return data, nil
			},
		})
	}
	wg.Wait()

	if err := errors.Join(errs...); err != nil {
		l.logger.Errorf("texture batch failed: %v", err)
		return results, err
	}
	return results, nil
}

func (l *loader) Get(key string) *common.TextureStagingData {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.cache[key]
}

func (l *loader) resolve(src Source) (*common.TextureStagingData, error) {
	if src.Procedural != nil {
		return toStaging(src.Procedural.Generate()), nil
	}

	path := src.Path
	if l.baseDir != "" && !filepath.IsAbs(path) {
		path = filepath.Join(l.baseDir, path)
	}
	return DecodeFile(path)
}
