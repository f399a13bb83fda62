package parser

import (
	"fmt"
	"log/slog"
	"sync"
	"unsafe"

	ts "github.com/tree-sitter/go-tree-sitter"
)

// grammarPool hands out tree-sitter parsers bound to one grammar.
//
// Parsers are created lazily up to maxSize and recycled through a buffered
// channel. Once maxSize parsers exist, acquire blocks until one is released.
type grammarPool struct {
	parsers chan *ts.Parser
	langPtr unsafe.Pointer
	grammar Grammar
	maxSize int

	mutex   sync.Mutex
	created int

	logger *slog.Logger
}

func newGrammarPool(grammar Grammar, langPtr unsafe.Pointer, maxSize int, logger *slog.Logger) *grammarPool {
	return &grammarPool{
		parsers: make(chan *ts.Parser, maxSize),
		langPtr: langPtr,
		grammar: grammar,
		maxSize: maxSize,
		logger:  logger,
	}
}

// acquire returns an idle parser, creating one if the pool has room.
func (p *grammarPool) acquire() (*ts.Parser, error) {
	select {
	case parser := <-p.parsers:
		return parser, nil
	default:
	}

	p.mutex.Lock()
	if p.created >= p.maxSize {
		p.mutex.Unlock()
		return <-p.parsers, nil
	}

	parser := ts.NewParser()
	if parser == nil {
		p.mutex.Unlock()
		return nil, fmt.Errorf("failed to create parser")
	}
	if err := parser.SetLanguage(ts.NewLanguage(p.langPtr)); err != nil {
		parser.Close()
		p.mutex.Unlock()
		return nil, fmt.Errorf("failed to set %s grammar: %w", p.grammar, err)
	}
	p.created++
	created := p.created
	p.mutex.Unlock()

	p.logger.Debug("created parser in pool",
		"grammar", p.grammar.String(),
		"pool_size", created)
	return parser, nil
}

// release returns a parser to the pool. A parser that does not fit is closed.
func (p *grammarPool) release(parser *ts.Parser) {
	if parser == nil {
		return
	}
	select {
	case p.parsers <- parser:
	default:
		parser.Close()
		p.logger.Warn("parser pool full, closing excess parser",
			"grammar", p.grammar.String())
	}
}

// close drains and closes every idle parser. The pool is unusable afterwards.
func (p *grammarPool) close() int {
	close(p.parsers)
	count := 0
	for parser := range p.parsers {
		parser.Close()
		count++
	}
	return count
}

func (p *grammarPool) createdCount() int {
	p.mutex.Lock()
	defer p.mutex.Unlock()
	return p.created
}
