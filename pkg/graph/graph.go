package graph

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

var (
	ErrFormat        = errors.New("malformed graph input")
	ErrDampener      = errors.New("dampener must be in range (0, 1]")
	ErrDuplicatePage = errors.New("duplicate page")
	ErrUnknownPage   = errors.New("unknown page")
)

// Page of the input graph; Index is dense in [0, npages)
type Page struct {
	Index    int     // Position of the page in the score vector
	Name     string  // Display name
	OutLinks int     // Number of pages this page links to
	InLinks  []*Page // Pages linking to this page (input order)
}

// Input is what the graph construction step hands to the compactor
type Input struct {
	Cores    int     // Available hardware concurrency (informational)
	Dampener float64 // Damping factor, in (0, 1]
	Pages    []*Page // Pages in traversal order
	Edges    int     // Declared number of inbound link relations
}

func (in *Input) NumPages() int {
	return len(in.Pages)
}

// Number of inbound link relations actually present in the page list
func (in *Input) InLinkCount() int {
	count := 0
	for _, p := range in.Pages {
		count += len(p.InLinks)
	}
	return count
}

func (in *Input) Compact() (*CompactGraph, error) {
	return Compact(in.Pages, in.Edges, in.Dampener)
}

// Parse reads the pages format:
// ncores, dampener, npages, the page names, nedges and nedges "from to" pairs
// (all whitespace separated)
func Parse(r io.Reader) (*Input, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	scanner.Split(bufio.ScanWords)
	next := func(what string) (string, error) {
		if !scanner.Scan() {
			if err := scanner.Err(); err != nil {
				return "", err
			}
			return "", fmt.Errorf("%w: missing %s", ErrFormat, what)
		}
		return scanner.Text(), nil
	}
	nextInt := func(what string) (int, error) {
		token, err := next(what)
		if err != nil {
			return 0, err
		}
		value, err := strconv.Atoi(token)
		if err != nil || value < 0 {
			return 0, fmt.Errorf("%w: could not convert %s %q", ErrFormat, what, token)
		}
		return value, nil
	}

	in := &Input{}
	var err error
	if in.Cores, err = nextInt("ncores"); err != nil {
		return nil, err
	}
	token, err := next("dampener")
	if err != nil {
		return nil, err
	}
	if in.Dampener, err = strconv.ParseFloat(token, 64); err != nil {
		return nil, fmt.Errorf("%w: could not convert dampener %q", ErrFormat, token)
	}
	if !validDampener(in.Dampener) {
		return nil, fmt.Errorf("%w: got %v", ErrDampener, in.Dampener)
	}
	npages, err := nextInt("npages")
	if err != nil {
		return nil, err
	}
	// Page names, indexed in declaration order.
	// npages is not trusted for allocation: the names have to be there
	byName := make(map[string]*Page)
	for i := 0; i < npages; i++ {
		name, err := next(fmt.Sprintf("page name %d", i))
		if err != nil {
			return nil, err
		}
		if byName[name] != nil {
			return nil, fmt.Errorf("%w: %s", ErrDuplicatePage, name)
		}
		page := &Page{Index: i, Name: name}
		byName[name] = page
		in.Pages = append(in.Pages, page)
	}
	if in.Edges, err = nextInt("nedges"); err != nil {
		return nil, err
	}
	for i := 0; i < in.Edges; i++ {
		fromName, err := next(fmt.Sprintf("source of edge %d", i))
		if err != nil {
			return nil, err
		}
		toName, err := next(fmt.Sprintf("target of edge %d", i))
		if err != nil {
			return nil, err
		}
		from, to := byName[fromName], byName[toName]
		if from == nil {
			return nil, fmt.Errorf("%w: %s", ErrUnknownPage, fromName)
		}
		if to == nil {
			return nil, fmt.Errorf("%w: %s", ErrUnknownPage, toName)
		}
		link(from, to)
	}
	return in, nil
}

// ParseEdgeList reads one "from to" pair of integer ids per line.
// Pages are named after their id and indexed in first-seen order
func ParseEdgeList(contents []byte, dampener float64) (*Input, error) {
	if !validDampener(dampener) {
		return nil, fmt.Errorf("%w: got %v", ErrDampener, dampener)
	}
	in := &Input{Cores: 1, Dampener: dampener}
	byId := make(map[int]*Page)
	page := func(id int) *Page {
		// First time encountering this node, so it has to be created
		if byId[id] == nil {
			byId[id] = &Page{Index: len(in.Pages), Name: strconv.Itoa(id)}
			in.Pages = append(in.Pages, byId[id])
		}
		return byId[id]
	}
	// Split file contents in lines (based on newline delimiter)
	lines := strings.Split(strings.ReplaceAll(string(contents), "\r\n", "\n"), "\n")
	for i, line := range lines {
		from, to, skip, err := convertLine(line)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", i+1, err)
		}
		// Comment line -> no new edge to add
		if skip {
			continue
		}
		link(page(from), page(to))
		in.Edges += 1
	}
	return in, nil
}

func link(from, to *Page) {
	from.OutLinks += 1
	to.InLinks = append(to.InLinks, from)
}

func validDampener(d float64) bool {
	return d > 0 && d <= 1
}

func convertLine(line string) (int, int, bool, error) {
	line = strings.TrimSpace(line)
	// Skip comment lines
	if strings.HasPrefix(line, "#") || strings.HasPrefix(line, "//") || line == "" {
		return 0, 0, true, nil
	}
	// Split line in FromNode and ToNode (space, tab or comma separated)
	tokens := strings.FieldsFunc(line, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t'
	})
	if len(tokens) != 2 {
		return 0, 0, false, fmt.Errorf("%w: expected 2 fields, got %d", ErrFormat, len(tokens))
	}
	from, err := strconv.Atoi(tokens[0])
	if err != nil {
		return 0, 0, false, fmt.Errorf("%w: could not convert FromNode %s", ErrFormat, tokens[0])
	}
	to, err := strconv.Atoi(tokens[1])
	if err != nil {
		return 0, 0, false, fmt.Errorf("%w: could not convert ToNode %s", ErrFormat, tokens[1])
	}
	return from, to, false, nil
}
