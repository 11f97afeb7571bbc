package ui

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"chatmd/chat"
)

// ErrBadSelection is returned for input ParseSelection cannot understand.
var ErrBadSelection = errors.New("invalid selection")

// ParseSelection turns user input into pair ids. It accepts "all", 1-based
// numbers and ranges ("1,3-5"), and pair ids ("qa-2"). The result follows
// the order of pairs and holds no duplicates.
func ParseSelection(input string, pairs []chat.QAPair) ([]string, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return nil, fmt.Errorf("%w: nothing selected", ErrBadSelection)
	}

	chosen := make(map[int]bool)
	if strings.EqualFold(input, "all") {
		for i := range pairs {
			chosen[i] = true
		}
	}

	byID := make(map[string]int, len(pairs))
	for i, p := range pairs {
		byID[p.ID] = i
	}

	for _, part := range strings.Split(input, ",") {
		part = strings.TrimSpace(part)
		if part == "" || strings.EqualFold(part, "all") {
			continue
		}
		if i, ok := byID[part]; ok {
			chosen[i] = true
			continue
		}

		lo, hi, err := parseRange(part)
		if err != nil {
			return nil, err
		}
		if lo < 1 || hi > len(pairs) || lo > hi {
			return nil, fmt.Errorf("%w: %q is outside 1-%d", ErrBadSelection, part, len(pairs))
		}
		for n := lo; n <= hi; n++ {
			chosen[n-1] = true
		}
	}

	var ids []string
	for i, p := range pairs {
		if chosen[i] {
			ids = append(ids, p.ID)
		}
	}
	return ids, nil
}

func parseRange(part string) (int, int, error) {
	from, to, isRange := strings.Cut(part, "-")
	lo, err := strconv.Atoi(strings.TrimSpace(from))
	if err != nil {
		return 0, 0, fmt.Errorf("%w: %q", ErrBadSelection, part)
	}
	if !isRange {
		return lo, lo, nil
	}
	hi, err := strconv.Atoi(strings.TrimSpace(to))
	if err != nil {
		return 0, 0, fmt.Errorf("%w: %q", ErrBadSelection, part)
	}
	return lo, hi, nil
}
