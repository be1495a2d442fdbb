package checker

import (
	_ "embed"
	"fmt"
	"strings"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
)

//go:embed words.txt
var wordListData string

var (
	wordRanksOnce sync.Once
	wordRanks     map[string]int
)

// loadWordRanks parses the embedded dictionary into a word -> frequency rank
// map (1 = most common). Loaded once, shared by every English checker.
func loadWordRanks() map[string]int {
	wordRanksOnce.Do(func() {
		wordRanks = make(map[string]int)
		for i, line := range strings.Split(wordListData, "\n") {
			word := strings.TrimSpace(strings.ToLower(line))
			if word == "" || strings.HasPrefix(word, "#") {
				continue
			}
			if _, exists := wordRanks[word]; !exists {
				wordRanks[word] = i + 1
			}
		}
	})
	return wordRanks
}

const (
	// Fraction of letter-weight that must fall in recognized words for text
	// with three or more words. Tuned so short English sentences pass while
	// base-alphabet residue does not.
	englishRatioThreshold = 0.65

	// Texts with fewer than three words must consist entirely of recognized
	// words and carry at least this many letters.
	englishShortMinLetters = 6

	englishCacheSize = 4096
)

// English is the natural-language plausibility checker: the most expensive
// and least confident signal, evaluated last. Verdicts are memoized in a
// bounded LRU because the same candidate text resurfaces across searches.
type English struct {
	words map[string]int
	cache *lru.Cache[string, Verdict]
}

func NewEnglish() *English {
	cache, err := lru.New[string, Verdict](englishCacheSize)
	if err != nil {
		panic(fmt.Sprintf("english checker cache: %v", err))
	}
	return &English{words: loadWordRanks(), cache: cache}
}

func (e *English) Name() string { return "english" }

func (e *English) Check(text string) Verdict {
	if v, ok := e.cache.Get(text); ok {
		return v
	}
	v := e.score(text)
	e.cache.Add(text, v)
	return v
}

func (e *English) score(text string) Verdict {
	tokens := tokenize(text)
	if len(tokens) == 0 {
		return Verdict{}
	}

	totalWeight := 0
	recognizedWeight := 0
	recognized := 0
	letters := 0
	for _, tok := range tokens {
		weight := len(tok)
		letters += weight
		totalWeight += weight
		if _, ok := e.words[tok]; ok {
			recognizedWeight += weight
			recognized++
		}
	}

	if len(tokens) < 3 {
		if recognized == len(tokens) && letters >= englishShortMinLetters {
			return Verdict{Match: true, Reason: fmt.Sprintf("%d of %d words look like English", recognized, len(tokens))}
		}
		return Verdict{}
	}

	ratio := float64(recognizedWeight) / float64(totalWeight)
	if ratio >= englishRatioThreshold && recognized >= 2 {
		return Verdict{Match: true, Reason: fmt.Sprintf("%d of %d words look like English", recognized, len(tokens))}
	}
	return Verdict{}
}

// tokenize lowercases the text and splits it into letter runs. Apostrophes
// survive inside a word (don't, it's); everything else is a separator.
func tokenize(text string) []string {
	lowered := strings.ToLower(text)
	return strings.FieldsFunc(lowered, func(r rune) bool {
		return !(r >= 'a' && r <= 'z' || r == '\'')
	})
}
