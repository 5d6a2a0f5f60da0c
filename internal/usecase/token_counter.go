package usecase

import (
	"log/slog"
	"unicode/utf8"

	"github.com/pkoukk/tiktoken-go"

	"promptdeck/internal/domain"
)

// EncodingHeuristic selects the offline rune heuristic counter.
const EncodingHeuristic = "heuristic"

// NewTokenCounter returns a TokenCounter for the named tiktoken encoding.
// If the encoding is empty, "heuristic", or cannot be loaded (e.g. no
// network access for the BPE download), the rune heuristic is used instead.
func NewTokenCounter(encoding string, logger *slog.Logger) domain.TokenCounter {
	if encoding == "" || encoding == EncodingHeuristic {
		return heuristicCounter{}
	}
	enc, err := tiktoken.GetEncoding(encoding)
	if err != nil {
		if logger != nil {
			logger.Warn("tokenizer: encoding unavailable, falling back to heuristic",
				"encoding", encoding,
				"error", err,
			)
		}
		return heuristicCounter{}
	}
	return &tiktokenCounter{enc: enc}
}

// tiktokenCounter counts tokens with a real BPE encoding.
type tiktokenCounter struct {
	enc *tiktoken.Tiktoken
}

func (c *tiktokenCounter) CountText(text string) int {
	return len(c.enc.Encode(text, nil, nil))
}

// heuristicCounter approximates GPT-style tokenization at ~4 runes per
// token. Good enough for budget decisions when the BPE data is unavailable.
type heuristicCounter struct{}

func (heuristicCounter) CountText(text string) int {
	if text == "" {
		return 0
	}
	n := utf8.RuneCountInString(text)
	tokens := n / 4
	if tokens == 0 {
		tokens = 1
	}
	return tokens
}
