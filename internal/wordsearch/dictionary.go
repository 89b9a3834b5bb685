package wordsearch

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/ironsheep/wordsearch-mcp/internal/failure"
)

// Dictionary answers membership for uppercase words.
type Dictionary interface {
	Contains(word string) bool
}

// WordSet is an in-memory Dictionary.
type WordSet map[string]struct{}

// NewWordSet returns a set holding words exactly as given.
func NewWordSet(words ...string) WordSet {
	s := make(WordSet, len(words))
	for _, w := range words {
		s[w] = struct{}{}
	}
	return s
}

func (s WordSet) Contains(word string) bool {
	_, ok := s[word]
	return ok
}

// Len returns the number of words.
func (s WordSet) Len() int { return len(s) }

// ReadDictionary reads one word per line. Lines are trimmed and upper-cased;
// entries shorter than two letters or containing anything other than A-Z
// (apostrophes, accents, digits) are skipped.
func ReadDictionary(r io.Reader) (WordSet, error) {
	s := make(WordSet)
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		w := strings.ToUpper(strings.TrimSpace(scanner.Text()))
		if len(w) < MinWordLength || !isUpperLatin(w) {
			continue
		}
		s[w] = struct{}{}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read word list: %w", err)
	}
	return s, nil
}

// LoadDictionary reads a word list file. Failures are *failure.Error with
// CodeDictionaryUnavailable.
func LoadDictionary(path string) (WordSet, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, failure.NewDictionaryUnavailableError(path, err)
	}
	defer f.Close()

	s, err := ReadDictionary(f)
	if err != nil {
		return nil, failure.NewDictionaryUnavailableError(path, err)
	}
	return s, nil
}

func isUpperLatin(w string) bool {
	for i := 0; i < len(w); i++ {
		if w[i] < 'A' || w[i] > 'Z' {
			return false
		}
	}
	return true
}
