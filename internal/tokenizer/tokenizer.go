// Package tokenizer wraps a BPE vocabulary used to estimate token counts on
// translated request bodies.
package tokenizer

import (
	"log/slog"
	"sync"

	"github.com/pkoukk/tiktoken-go"
)

const fallbackEncoding = "cl100k_base"

// Encoder counts tokens against a named BPE vocabulary. It is safe for
// concurrent use; the underlying vocabulary is loaded once and shared
// read-only across requests.
type Encoder struct {
	encoding string

	once sync.Once
	bpe  *tiktoken.Tiktoken
	err  error
}

// New returns an Encoder that lazily loads the named vocabulary on first
// use, falling back to cl100k_base if the named one cannot be loaded.
func New(encoding string) *Encoder {
	if encoding == "" {
		encoding = fallbackEncoding
	}
	return &Encoder{encoding: encoding}
}

func (e *Encoder) load() {
	e.once.Do(func() {
		bpe, err := tiktoken.GetEncoding(e.encoding)
		if err != nil {
			slog.Warn("tokenizer vocabulary load failed, falling back", "encoding", e.encoding, "fallback", fallbackEncoding, "error", err)
			bpe, err = tiktoken.GetEncoding(fallbackEncoding)
		}
		e.bpe, e.err = bpe, err
	})
}

// Count returns the number of tokens text encodes to. On vocabulary load
// failure (fallback also failed) it returns an approximate count of
// len(text)/4 rather than erroring, since token counting is advisory.
func (e *Encoder) Count(text string) int {
	if text == "" {
		return 0
	}
	e.load()
	if e.err != nil || e.bpe == nil {
		return len(text) / 4
	}
	return len(e.bpe.Encode(text, nil, nil))
}
