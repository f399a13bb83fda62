package parser

import (
	"fmt"
	"log/slog"
	"sync"
	"unsafe"

	ts "github.com/tree-sitter/go-tree-sitter"
	ts_javascript "github.com/tree-sitter/tree-sitter-javascript/bindings/go"
	ts_typescript "github.com/tree-sitter/tree-sitter-typescript/bindings/go"

	"github.com/gnana997/jsxextract/pkg/util"
)

// ParserManager owns tree-sitter parsers for the JavaScript, TypeScript and
// TSX grammars.
//
// Memory Management:
//   - Parser pools are created lazily on first use per grammar
//   - ParserManager must be closed via Close()
//   - Callers own Tree instances and must call tree.Close() after use
//
// Thread Safety:
//   - Parse may be called from multiple goroutines; each call borrows its
//     own parser from the grammar's pool
//   - Pools hold parsers only, never trees or parse results
//
// Example:
//
//	manager := NewParserManager(logger)
//	defer manager.Close()
//
//	tree, err := manager.Parse([]byte("const x = <div/>;"), GrammarFor(LanguageJavaScript, false))
//	if err != nil {
//	    return err
//	}
//	defer tree.Close()
type ParserManager struct {
	pools    map[Grammar]*grammarPool
	poolSize int
	mutex    sync.RWMutex
	logger   *slog.Logger

	stats struct {
		parsesCalled int
	}
}

// NewParserManager creates a ParserManager with CPU-sized pools.
// A nil logger falls back to slog.Default().
func NewParserManager(logger *slog.Logger) *ParserManager {
	return NewParserManagerWithPoolSize(logger, 0)
}

// NewParserManagerWithPoolSize creates a ParserManager whose pools hold at
// most poolSize parsers. Zero selects util.GetOptimalPoolSize().
func NewParserManagerWithPoolSize(logger *slog.Logger, poolSize int) *ParserManager {
	if logger == nil {
		logger = slog.Default()
	}
	return &ParserManager{
		pools:    make(map[Grammar]*grammarPool),
		poolSize: util.GetOptimalPoolSizeWithOverride(poolSize),
		logger:   logger,
	}
}

// Parse parses source with the given grammar.
//
// tree-sitter never fails on malformed input: the returned tree may contain
// ERROR or MISSING nodes, which callers detect with RootNode().HasError().
// The returned Tree MUST be closed by the caller.
func (pm *ParserManager) Parse(source []byte, grammar Grammar) (*ts.Tree, error) {
	if grammar.Language == LanguageUnknown {
		return nil, fmt.Errorf("cannot parse unknown language")
	}

	pm.mutex.Lock()
	pm.stats.parsesCalled++
	pm.mutex.Unlock()

	pool, err := pm.getOrCreatePool(grammar)
	if err != nil {
		return nil, fmt.Errorf("failed to get pool for %s: %w", grammar, err)
	}

	parser, err := pool.acquire()
	if err != nil {
		return nil, fmt.Errorf("failed to acquire parser: %w", err)
	}
	tree := parser.Parse(source, nil)
	pool.release(parser)

	if tree == nil {
		return nil, fmt.Errorf("parser.Parse returned nil tree")
	}
	if tree.RootNode().HasError() {
		pm.logger.Debug("parse tree contains errors", "grammar", grammar.String())
	}
	return tree, nil
}

// ParseFile parses source with the grammar implied by filePath's extension.
func (pm *ParserManager) ParseFile(source []byte, filePath string) (*ts.Tree, error) {
	grammar := GrammarForFile(filePath)
	if grammar.Language == LanguageUnknown {
		return nil, fmt.Errorf("unsupported file extension: %s", filePath)
	}
	return pm.Parse(source, grammar)
}

// Close releases all parser pools. The manager cannot be used afterwards.
func (pm *ParserManager) Close() error {
	pm.mutex.Lock()
	defer pm.mutex.Unlock()

	for grammar, pool := range pm.pools {
		closed := pool.close()
		pm.logger.Debug("closed parser pool",
			"grammar", grammar.String(),
			"parsers_closed", closed)
	}
	pm.pools = make(map[Grammar]*grammarPool)
	return nil
}

// getOrCreatePool returns the pool for grammar, creating it under the write
// lock when missing (double-checked).
func (pm *ParserManager) getOrCreatePool(grammar Grammar) (*grammarPool, error) {
	pm.mutex.RLock()
	pool, exists := pm.pools[grammar]
	pm.mutex.RUnlock()
	if exists {
		return pool, nil
	}

	pm.mutex.Lock()
	defer pm.mutex.Unlock()
	if pool, exists = pm.pools[grammar]; exists {
		return pool, nil
	}

	langPtr, err := languagePointer(grammar)
	if err != nil {
		return nil, err
	}
	pool = newGrammarPool(grammar, langPtr, pm.poolSize, pm.logger)
	pm.pools[grammar] = pool

	pm.logger.Debug("created new parser pool",
		"grammar", grammar.String(),
		"maxSize", pm.poolSize)
	return pool, nil
}

func languagePointer(grammar Grammar) (unsafe.Pointer, error) {
	switch grammar.Language {
	case LanguageTypeScript:
		if grammar.TSX {
			return ts_typescript.LanguageTSX(), nil
		}
		return ts_typescript.LanguageTypescript(), nil
	case LanguageJavaScript:
		return ts_javascript.Language(), nil
	default:
		return nil, fmt.Errorf("unsupported language: %s", grammar.Language)
	}
}

// GetStats returns parser usage statistics.
func (pm *ParserManager) GetStats() ParserStats {
	pm.mutex.RLock()
	defer pm.mutex.RUnlock()

	total := 0
	for _, pool := range pm.pools {
		total += pool.createdCount()
	}
	return ParserStats{
		ParsersCreated: total,
		ParsesCalled:   pm.stats.parsesCalled,
	}
}

// ParserStats contains parser usage statistics.
type ParserStats struct {
	// ParsersCreated is the total number of parser instances created
	ParsersCreated int

	// ParsesCalled is the total number of Parse() calls
	ParsesCalled int
}
