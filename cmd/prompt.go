package cmd

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// prompter reads interactive answers from a terminal. Items are shown as
// numbered lists; selections are entered as numbers, which keeps the CLI
// usable over plain pipes and ssh sessions.
type prompter struct {
	in  *bufio.Reader
	out io.Writer
}

func newPrompter(in io.Reader, out io.Writer) *prompter {
	return &prompter{in: bufio.NewReader(in), out: out}
}

func (p *prompter) readLine() (string, error) {
	line, err := p.in.ReadString('\n')
	if err != nil && line == "" {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// Input asks a free-form question.
func (p *prompter) Input(label string) (string, error) {
	fmt.Fprintf(p.out, "%s: ", label)
	return p.readLine()
}

// Confirm asks a yes/no question. Anything other than y/yes is no.
func (p *prompter) Confirm(label string) (bool, error) {
	fmt.Fprintf(p.out, "%s [y/N]: ", label)
	answer, err := p.readLine()
	if err != nil {
		return false, err
	}
	answer = strings.ToLower(answer)
	return answer == "y" || answer == "yes", nil
}

// Select asks the user to pick exactly one item and returns its index.
func (p *prompter) Select(label string, items []string, defaultIdx int) (int, error) {
	fmt.Fprintln(p.out, label)
	for i, item := range items {
		fmt.Fprintf(p.out, "  %d) %s\n", i+1, item)
	}
	fmt.Fprintf(p.out, "Choose [%d]: ", defaultIdx+1)

	answer, err := p.readLine()
	if err != nil {
		return 0, err
	}
	if answer == "" {
		return defaultIdx, nil
	}
	n, err := strconv.Atoi(answer)
	if err != nil || n < 1 || n > len(items) {
		return 0, fmt.Errorf("invalid selection %q", answer)
	}
	return n - 1, nil
}

// MultiSelect asks the user to pick any number of items, entered as
// comma-separated numbers. An empty answer keeps the defaults.
func (p *prompter) MultiSelect(label string, items []string, defaults []bool) ([]int, error) {
	fmt.Fprintln(p.out, label)
	for i, item := range items {
		mark := " "
		if i < len(defaults) && defaults[i] {
			mark = "x"
		}
		fmt.Fprintf(p.out, "  [%s] %d) %s\n", mark, i+1, item)
	}
	fmt.Fprint(p.out, "Choose (comma-separated, empty keeps current): ")

	answer, err := p.readLine()
	if err != nil {
		return nil, err
	}
	if answer == "" {
		var keep []int
		for i := range items {
			if i < len(defaults) && defaults[i] {
				keep = append(keep, i)
			}
		}
		return keep, nil
	}

	seen := make(map[int]bool)
	var picked []int
	for _, field := range strings.Split(answer, ",") {
		field = strings.TrimSpace(field)
		if field == "" {
			continue
		}
		n, err := strconv.Atoi(field)
		if err != nil || n < 1 || n > len(items) {
			return nil, fmt.Errorf("invalid selection %q", field)
		}
		if !seen[n-1] {
			seen[n-1] = true
			picked = append(picked, n-1)
		}
	}
	return picked, nil
}
