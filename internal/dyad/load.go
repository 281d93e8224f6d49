package dyad

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"

	"crqa/internal/coding"
)

// ErrNoDyads is returned when an input file holds a header but no rows.
var ErrNoDyads = errors.New("input contains no dyads")

type layout int

const (
	layoutCodes layout = iota
	layoutEvents
)

type columns struct {
	layout     layout
	dyad       int
	parent     int
	child      int
	speaker    int
	numberTalk int
	turn       int
}

var columnAliases = map[string][]string{
	"dyad":        {"dyad_id", "dyad", "id", "family_id"},
	"parent":      {"parent_code", "parent"},
	"child":       {"child_code", "child"},
	"speaker":     {"speaker", "role"},
	"number_talk": {"number_talk", "numbertalk", "nt"},
	"turn":        {"turn", "timepoint", "utterance", "index"},
}

// Load reads dyads from a CSV file.
func Load(path string) ([]Dyad, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open input: %w", err)
	}
	defer file.Close()

	dyads, err := Read(file)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return dyads, nil
}

type row struct {
	turn   int
	line   int
	parent int
	child  int
}

// ErrSplitDyad is returned when a dyad's rows are interrupted by another
// dyad and no turn column fixes their order.
var ErrSplitDyad = errors.New("dyad rows are not contiguous")

// Read parses dyads from CSV. Dyads are returned in order of first appearance.
// Without a turn column each dyad's rows must be contiguous, since file order
// is the timeline.
func Read(r io.Reader) ([]Dyad, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	reader.Comment = '#'

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrNoDyads
		}
		return nil, fmt.Errorf("read header: %w", err)
	}
	cols, err := resolveColumns(header)
	if err != nil {
		return nil, err
	}

	var (
		order []string
		last  string
	)
	rows := make(map[string][]row)
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		line, _ := reader.FieldPos(0)
		parsed, id, err := parseRow(record, cols, line)
		if err != nil {
			return nil, err
		}
		prev, seen := rows[id]
		switch {
		case !seen:
			order = append(order, id)
		case id != last && cols.turn < 0:
			return nil, fmt.Errorf("%w: dyad %s resumes at line %d after dyad %s (its earlier rows end at line %d); group its rows or add a turn column",
				ErrSplitDyad, id, line, last, prev[len(prev)-1].line)
		}
		rows[id] = append(prev, parsed)
		last = id
	}
	if len(order) == 0 {
		return nil, ErrNoDyads
	}

	dyads := make([]Dyad, 0, len(order))
	for _, id := range order {
		d, err := assemble(id, rows[id], cols.turn >= 0)
		if err != nil {
			return nil, err
		}
		dyads = append(dyads, d)
	}
	return dyads, nil
}

func resolveColumns(header []string) (columns, error) {
	index := make(map[string]int, len(header))
	for i, name := range header {
		index[strings.ToLower(strings.TrimSpace(name))] = i
	}
	find := func(key string) int {
		for _, alias := range columnAliases[key] {
			if i, ok := index[alias]; ok {
				return i
			}
		}
		return -1
	}

	cols := columns{
		dyad:       find("dyad"),
		parent:     find("parent"),
		child:      find("child"),
		speaker:    find("speaker"),
		numberTalk: find("number_talk"),
		turn:       find("turn"),
	}
	if cols.dyad < 0 {
		return cols, errors.New("header is missing a dyad_id column")
	}
	switch {
	case cols.parent >= 0 && cols.child >= 0:
		cols.layout = layoutCodes
	case cols.speaker >= 0 && cols.numberTalk >= 0:
		cols.layout = layoutEvents
	default:
		return cols, errors.New("header needs parent_code and child_code columns, or speaker and number_talk columns")
	}
	return cols, nil
}

func parseRow(record []string, cols columns, line int) (row, string, error) {
	field := func(i int) string {
		if i < 0 || i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}

	id := field(cols.dyad)
	if id == "" {
		return row{}, "", fmt.Errorf("line %d: empty dyad_id", line)
	}

	out := row{line: line}
	if cols.turn >= 0 {
		turn, err := strconv.Atoi(field(cols.turn))
		if err != nil {
			return row{}, "", fmt.Errorf("line %d: turn %q is not an integer", line, field(cols.turn))
		}
		out.turn = turn
	}

	switch cols.layout {
	case layoutEvents:
		speaker, err := coding.ParseSpeaker(field(cols.speaker))
		if err != nil {
			return row{}, "", fmt.Errorf("line %d: %w", line, err)
		}
		nt, err := parseBool(field(cols.numberTalk))
		if err != nil {
			return row{}, "", fmt.Errorf("line %d: number_talk: %w", line, err)
		}
		out.parent, out.child = coding.Event{Speaker: speaker, NumberTalk: nt}.Codes()
	default:
		parent, err := strconv.Atoi(field(cols.parent))
		if err != nil {
			return row{}, "", fmt.Errorf("line %d: parent_code %q is not an integer", line, field(cols.parent))
		}
		child, err := strconv.Atoi(field(cols.child))
		if err != nil {
			return row{}, "", fmt.Errorf("line %d: child_code %q is not an integer", line, field(cols.child))
		}
		out.parent, out.child = parent, child
	}
	return out, id, nil
}

func assemble(id string, rows []row, ordered bool) (Dyad, error) {
	if ordered {
		sort.SliceStable(rows, func(i, j int) bool { return rows[i].turn < rows[j].turn })
		for i := 1; i < len(rows); i++ {
			if rows[i].turn == rows[i-1].turn {
				return Dyad{}, fmt.Errorf("dyad %s: duplicate turn %d (lines %d and %d)", id, rows[i].turn, rows[i-1].line, rows[i].line)
			}
		}
	}
	d := Dyad{ID: id, Parent: make([]int, len(rows)), Child: make([]int, len(rows))}
	for i, r := range rows {
		d.Parent[i] = r.parent
		d.Child[i] = r.child
	}
	return d, nil
}

func parseBool(value string) (bool, error) {
	switch strings.ToLower(value) {
	case "yes", "y":
		return true, nil
	case "no", "n":
		return false, nil
	}
	return strconv.ParseBool(value)
}
