package bookparse

import (
	"log/slog"
)

// EPUB extracts metadata and content from ePub 2 and ePub 3 files. It
// implements both MetadataExtractor and ContentParser.
//
// Every call opens the archive, reads what it needs and closes it again;
// an EPUB holds no per-file state and is safe for concurrent use.
type EPUB struct {
	cfg    Config
	logger *slog.Logger
}

// NewEPUB returns an EPUB extractor. A nil logger discards output; a cfg
// that fails Validate is replaced by DefaultConfig.
func NewEPUB(cfg Config, logger *slog.Logger) *EPUB {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	logger = logger.With("component", "epub")
	if err := cfg.Validate(); err != nil {
		logger.Debug("using default config", "err", err)
		cfg = DefaultConfig()
	}
	return &EPUB{
		cfg:    cfg,
		logger: logger,
	}
}

// withPackage opens f, loads its package document and runs fn. The archive
// is closed before withPackage returns, whatever fn does.
func (e *EPUB) withPackage(f File, fn func(a *Archive, pkg *opfPackage)) error {
	a, closer, err := openArchive(f, e.cfg)
	if err != nil {
		return err
	}
	defer closer.Close()

	pkg, err := loadPackage(a)
	if err != nil {
		return err
	}
	fn(a, pkg)
	return nil
}

// degraded logs an error that was absorbed into an empty result.
func (e *EPUB) degraded(op string, f File, err error) {
	e.logger.Debug("extraction degraded to empty result", "op", op, "file", f.Name, "err", err)
}
