// Package selector runs the two-stage year/community prompt.
package selector

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"assessments/internal/dataset"
	"assessments/internal/types"
)

// ErrNoInput is returned when input ends before a selection is complete.
var ErrNoInput = errors.New("input closed before a selection was made")

// Lookup is the part of the indexed table the selector needs.
type Lookup interface {
	Years() []int
	HasYear(year int) bool
	Communities() []dataset.Community
	LookupCode(year int, code string) (dataset.Key, bool)
	LookupName(year int, name string) (dataset.Key, bool)
	Slice(k dataset.Key) []types.Record
}

// State is a stage of the prompt.
type State int

const (
	AwaitingYear State = iota
	AwaitingCommunity
	Complete
)

func (s State) String() string {
	switch s {
	case AwaitingYear:
		return "awaiting-year"
	case AwaitingCommunity:
		return "awaiting-community"
	case Complete:
		return "complete"
	}
	return "unknown"
}

// Selection is the outcome of a completed prompt.
type Selection struct {
	Year int
	Key  dataset.Key
	Name string
	Rows []types.Record
}

// Selector prompts until a valid year and community have been entered. There
// is no retry limit.
type Selector struct {
	table  Lookup
	in     *bufio.Reader
	out    io.Writer
	state  State
	year   int
	result Selection
	order  []string
}

// New returns a Selector reading answers from in and writing prompts to out.
func New(table Lookup, in io.Reader, out io.Writer) *Selector {
	return &Selector{table: table, in: bufio.NewReader(in), out: out}
}

// OrderLegend lists the given community codes first in the legend. Codes
// not named keep their code order after them.
func (s *Selector) OrderLegend(codes ...string) *Selector {
	s.order = codes
	return s
}

// State returns the current stage.
func (s *Selector) State() State { return s.state }

// Run drives the prompt to completion.
func (s *Selector) Run() (Selection, error) {
	for s.state != Complete {
		if err := s.Step(); err != nil {
			return Selection{}, err
		}
	}
	return s.result, nil
}

// Step prompts once, reads one answer and advances the state when it is valid.
func (s *Selector) Step() error {
	switch s.state {
	case AwaitingYear:
		fmt.Fprintf(s.out, "Please enter a year from %s: ", s.yearRange())
		line, err := s.readLine()
		if err != nil {
			return err
		}
		year, ok := s.acceptYear(line)
		if !ok {
			fmt.Fprint(s.out, "Please enter a valid year.\n\n")
			return nil
		}
		s.year = year
		s.state = AwaitingCommunity

	case AwaitingCommunity:
		fmt.Fprintf(s.out, "\nThe %s communities with their corresponding codes are: %s\n", countWord(len(s.table.Communities())), s.legend())
		fmt.Fprint(s.out, "Please enter a community name or code: ")
		line, err := s.readLine()
		if err != nil {
			return err
		}
		sel, ok := s.acceptCommunity(line)
		if !ok {
			fmt.Fprint(s.out, "Please enter a valid community code or name.\n\n")
			return nil
		}
		s.result = sel
		s.state = Complete
	}
	return nil
}

func (s *Selector) acceptYear(line string) (int, bool) {
	year, err := strconv.Atoi(strings.TrimSpace(line))
	if err != nil {
		return 0, false
	}
	return year, s.table.HasYear(year)
}

func (s *Selector) acceptCommunity(line string) (Selection, bool) {
	input := strings.ToUpper(strings.TrimSpace(line))
	if input == "" {
		return Selection{}, false
	}

	key, ok := s.table.LookupCode(s.year, input)
	if !ok {
		key, ok = s.table.LookupName(s.year, input)
	}
	if !ok {
		return Selection{}, false
	}

	rows := s.table.Slice(key)
	if len(rows) == 0 {
		return Selection{}, false
	}
	return Selection{Year: s.year, Key: key, Name: key.Name, Rows: rows}, true
}

// readLine returns the next answer. A final line without a newline still counts.
func (s *Selector) readLine() (string, error) {
	line, err := s.in.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && line != "" {
			return line, nil
		}
		if errors.Is(err, io.EOF) {
			return "", ErrNoInput
		}
		return "", fmt.Errorf("read answer: %w", err)
	}
	return line, nil
}

func (s *Selector) yearRange() string {
	years := s.table.Years()
	if len(years) == 0 {
		return "the data"
	}
	return fmt.Sprintf("%d up to and including %d", years[0], years[len(years)-1])
}

func (s *Selector) legend() string {
	rank := make(map[string]int, len(s.order))
	for i, code := range s.order {
		if _, dup := rank[code]; !dup {
			rank[code] = i
		}
	}
	communities := s.table.Communities()
	sort.SliceStable(communities, func(i, j int) bool {
		ri, iok := rank[communities[i].Code]
		rj, jok := rank[communities[j].Code]
		switch {
		case iok && jok:
			return ri < rj
		case iok != jok:
			return iok
		}
		return false
	})

	parts := make([]string, 0, len(communities))
	for _, c := range communities {
		parts = append(parts, fmt.Sprintf("%s = %s", titleCase(c.Name), c.Code))
	}
	return strings.Join(parts, ", ")
}

var titleCaser = cases.Title(language.English)

func titleCase(name string) string {
	return titleCaser.String(strings.ToLower(name))
}

var countWords = []string{"no", "one", "two", "three", "four", "five", "six", "seven", "eight", "nine", "ten"}

func countWord(n int) string {
	if n >= 0 && n < len(countWords) {
		return countWords[n]
	}
	return strconv.Itoa(n)
}
