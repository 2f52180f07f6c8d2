package main

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/agenthands/figmatch/internal/core/model"
)

// ReadCorpus reads numbered blocks: a line holding only a decimal id,
// followed by the statement on the next non-blank line. Lines outside a
// block are ignored.
func ReadCorpus(r io.Reader) ([]model.Entry, error) {
	var lines []string
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		if line := strings.TrimSpace(sc.Text()); line != "" {
			lines = append(lines, line)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}

	var entries []model.Entry
	seen := make(map[string]bool)
	for i := 0; i < len(lines); i++ {
		if !isID(lines[i]) {
			continue
		}
		id := lines[i]
		i++
		if i >= len(lines) {
			break
		}
		if seen[id] {
			return nil, fmt.Errorf("duplicate id %s", id)
		}
		seen[id] = true
		entries = append(entries, model.Entry{ID: id, Statement: lines[i]})
	}
	return entries, nil
}

func isID(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	_, err := strconv.ParseUint(s, 10, 64)
	return err == nil
}
