package tokenizer

import (
	"bufio"
	"fmt"
	"os"
)

// WordList is an in-memory pre-tokenized corpus
type WordList []string

func (w WordList) Words() ([]string, error) {
	return w, nil
}

// WordFile reads a pre-tokenized corpus: tokens separated by whitespace or newlines
type WordFile struct {
	Path string
}

func (w WordFile) Words() ([]string, error) {
	file, err := os.Open(w.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open word file: %w", err)
	}
	defer file.Close()

	var words []string
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	scanner.Split(bufio.ScanWords)
	for scanner.Scan() {
		words = append(words, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read word file %s: %w", w.Path, err)
	}

	return words, nil
}
