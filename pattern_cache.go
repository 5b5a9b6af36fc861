package formcheck

import (
	"fmt"
	"regexp"
	"sync"
)

// PatternCache provides thread-safe caching of compiled expressions keyed by
// their source text. An expression is compiled at most once per cache, even
// under concurrent access.
type PatternCache struct {
	cache sync.Map // map[string]*patternEntry
}

// patternEntry holds the outcome of compiling one expression.
type patternEntry struct {
	once sync.Once
	re   *regexp.Regexp
	err  error
}

// NewPatternCache creates a new, empty PatternCache.
func NewPatternCache() *PatternCache {
	return &PatternCache{}
}

// defaultPatternCache backs MustCompilePattern and rule set loading.
var defaultPatternCache = NewPatternCache()

// GetOrCompile returns the compiled expression for src, compiling it on
// first use. A src that does not compile is a *ConfigurationError, cached
// like a success.
func (pc *PatternCache) GetOrCompile(src string) (*regexp.Regexp, error) {
	if v, ok := pc.cache.Load(src); ok {
		entry := v.(*patternEntry)
		entry.once.Do(func() { entry.compile(src) })
		return entry.re, entry.err
	}

	actual, _ := pc.cache.LoadOrStore(src, &patternEntry{})
	entry := actual.(*patternEntry)
	entry.once.Do(func() { entry.compile(src) })

	return entry.re, entry.err
}

func (pe *patternEntry) compile(src string) {
	re, err := regexp.Compile(src)
	if err != nil {
		pe.err = configError(PatternRuleName, "", fmt.Errorf("%w: %v", ErrInvalidExpression, err))
		return
	}
	pe.re = re
}

// Get returns the compiled expression for src if it was compiled before.
func (pc *PatternCache) Get(src string) (*regexp.Regexp, bool) {
	v, ok := pc.cache.Load(src)
	if !ok {
		return nil, false
	}
	entry := v.(*patternEntry)
	entry.once.Do(func() { entry.compile(src) })
	return entry.re, entry.re != nil
}

// Delete removes the entry for src.
func (pc *PatternCache) Delete(src string) {
	pc.cache.Delete(src)
}

// Len returns the number of cached expressions, including failed ones.
func (pc *PatternCache) Len() int {
	n := 0
	pc.cache.Range(func(_, _ any) bool {
		n++
		return true
	})
	return n
}

// Clear removes all cache entries.
func (pc *PatternCache) Clear() {
	pc.cache.Range(func(key, _ any) bool {
		pc.cache.Delete(key)
		return true
	})
}

// CompilePattern compiles src through the package cache.
func CompilePattern(src string) (*regexp.Regexp, error) {
	return defaultPatternCache.GetOrCompile(src)
}

// MustCompilePattern is like CompilePattern but panics if src does not
// compile.
func MustCompilePattern(src string) *regexp.Regexp {
	re, err := CompilePattern(src)
	if err != nil {
		panic(err)
	}
	return re
}
