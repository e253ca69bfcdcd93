package bookparse

import (
	"log/slog"
	"sync"
)

// windowSize is the maximum number of chapters a ChapterCache keeps loaded.
const windowSize = 3

// CacheStats counts ChapterCache activity since construction.
type CacheStats struct {
	Hits        int // chapters served from the window
	Misses      int // chapters loaded from the archive
	IndexBuilds int // chapter index (re)builds
}

// ChapterCache serves chapters of one open book from a small sliding
// window. Switching to a different file, or to the same file after it
// changed on disk, drops the window and rebuilds the chapter index.
//
// The window holds at most three chapters. When it overflows, the chapter
// farthest from the reading position is evicted, so the chapters on
// either side of the current one stay loaded during sequential reading.
//
// All methods are serialised by a mutex and block while the archive is read.
type ChapterCache struct {
	mu      sync.Mutex
	parsers ParserSource
	logger  *slog.Logger

	loaded  bool
	file    fileIdentity
	content DocumentContent
	window  []Chapter // least recently used first
	stats   CacheStats
}

// CacheOption configures a ChapterCache.
type CacheOption func(*ChapterCache)

// WithCacheLogger sets the cache logger.
func WithCacheLogger(logger *slog.Logger) CacheOption {
	return func(c *ChapterCache) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// NewChapterCache returns an empty cache that indexes and loads chapters
// through parsers, usually a *Registry.
func NewChapterCache(parsers ParserSource, opts ...CacheOption) *ChapterCache {
	c := &ChapterCache{
		parsers: parsers,
		logger:  slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = c.logger.With("component", "chapter_cache")
	return c
}

// GetChapter returns chapter index of f. It reports false when index is
// outside the chapter list, leaving the window untouched.
func (c *ChapterCache) GetChapter(f File, index int) (Chapter, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.ensureIndexed(f)
	return c.chapter(f, index, index)
}

// AdjacentChapters loads the chapters before and after current. Either
// result is nil at the boundaries of the book.
func (c *ChapterCache) AdjacentChapters(f File, current int) (prev, next *Chapter) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.ensureIndexed(f)
	if ch, ok := c.chapter(f, current-1, current); ok {
		prev = &ch
	}
	if ch, ok := c.chapter(f, current+1, current); ok {
		next = &ch
	}
	return prev, next
}

// Content returns the chapter index of f, building it if needed.
func (c *ChapterCache) Content(f File) DocumentContent {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.ensureIndexed(f)
	return c.content
}

// InvalidateCache forgets the current file, its index and every loaded chapter.
func (c *ChapterCache) InvalidateCache() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.reset()
}

// Stats returns the activity counters.
func (c *ChapterCache) Stats() CacheStats {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.stats
}

func (c *ChapterCache) reset() {
	c.loaded = false
	c.file = fileIdentity{}
	c.content = DocumentContent{}
	c.window = nil
}

// ensureIndexed rebuilds the chapter index unless f is the file already
// indexed. Callers hold c.mu.
func (c *ChapterCache) ensureIndexed(f File) {
	id := f.identity()
	if c.loaded && c.file.same(id) {
		return
	}

	c.reset()
	c.loaded = true
	c.file = id
	c.stats.IndexBuilds++

	parser, ok := c.parsers.ContentParser(f.Type)
	if !ok {
		c.logger.Debug("no content parser", "file", f.Name, "type", f.Type)
		return
	}
	content, err := parser.IndexContent(f)
	if err != nil {
		c.logger.Debug("index failed", "file", f.Name, "type", f.Type, "err", err)
		return
	}
	c.content = content
	c.logger.Debug("indexed", "file", f.Name, "chapters", content.TotalChapters())
}

// chapter serves index from the window or loads it. pivot is the reading
// position used to choose an eviction victim. Callers hold c.mu.
func (c *ChapterCache) chapter(f File, index, pivot int) (Chapter, bool) {
	if index < 0 || index >= len(c.content.Chapters) {
		return Chapter{}, false
	}

	if i := c.windowPos(index); i >= 0 {
		ch := c.window[i]
		c.window = append(c.window[:i], c.window[i+1:]...)
		c.window = append(c.window, ch)
		c.stats.Hits++
		return ch, true
	}

	ch := Chapter{Metadata: c.content.Chapters[index]}
	if parser, ok := c.parsers.ContentParser(f.Type); ok {
		content, err := parser.LoadChapterContent(f, index)
		if err != nil {
			c.logger.Debug("chapter load failed", "file", f.Name, "index", index, "err", err)
		}
		ch.Content = content
	}
	c.stats.Misses++

	// Empty loads are not kept so a later request retries the archive.
	if ch.Content != "" {
		c.window = append(c.window, ch)
		for len(c.window) > windowSize && c.evict(index, pivot) {
		}
	}
	return ch, true
}

// windowPos returns the position of index in the window, or -1.
func (c *ChapterCache) windowPos(index int) int {
	for i, ch := range c.window {
		if ch.Metadata.Index == index {
			return i
		}
	}
	return -1
}

// evict removes one chapter other than keep. Chapters more than one
// position away from pivot go first, farthest first; among equals the
// least recently used goes. It reports false if nothing could be evicted.
func (c *ChapterCache) evict(keep, pivot int) bool {
	victim := -1
	bestFar, bestDist := false, -1
	for i, ch := range c.window {
		if ch.Metadata.Index == keep {
			continue
		}
		d := abs(ch.Metadata.Index - pivot)
		far := d > 1
		if victim < 0 || (far && !bestFar) || (far == bestFar && d > bestDist) {
			victim, bestFar, bestDist = i, far, d
		}
	}
	if victim < 0 {
		return false
	}
	c.window = append(c.window[:victim], c.window[victim+1:]...)
	return true
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
