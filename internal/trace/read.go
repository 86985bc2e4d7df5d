package trace

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// ReadFile reads a trace from path. Syntax errors carry the file name.
func ReadFile(path string) (*Trace, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	t, err := Read(f)
	var se *SyntaxError
	if errors.As(err, &se) {
		se.File = path
	}
	return t, err
}

// Read parses a trace.
func Read(r io.Reader) (*Trace, error) {
	p := &parser{trace: &Trace{}, points: make(map[string]*Decl)}
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 16*1024*1024)
	for sc.Scan() {
		p.line++
		if err := p.parseLine(sc.Text()); err != nil {
			return nil, err
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("reading trace: %w", err)
	}
	return p.trace, nil
}

type parser struct {
	trace  *Trace
	points map[string]*Decl
	line   int

	decl   *Decl
	sample *Sample
}

func (p *parser) errorf(format string, args ...any) *SyntaxError {
	return &SyntaxError{Line: p.line, Message: fmt.Sprintf(format, args...)}
}

func (p *parser) parseLine(raw string) error {
	text := strings.TrimSpace(raw)
	if text == "" {
		p.decl, p.sample = nil, nil
		return nil
	}
	if strings.HasPrefix(text, "#") {
		return nil
	}
	keyword, rest := splitWord(text)

	switch keyword {
	case "ppt":
		return p.parsePpt(rest)
	case "sample":
		return p.parseSample(rest)
	}

	switch {
	case p.sample != nil:
		return p.parseAssignment(keyword, rest)
	case p.decl != nil && keyword == "var":
		return p.parseVar(rest)
	case p.decl != nil && keyword == "derive":
		return p.parseDerive(rest)
	case p.decl != nil:
		return p.errorf("unknown declaration %q", keyword)
	}
	return p.errorf("%q outside a ppt or sample block", keyword)
}

func (p *parser) parsePpt(rest string) error {
	name := strings.TrimSpace(rest)
	if name == "" {
		return p.errorf("ppt requires a name")
	}
	if _, dup := p.points[name]; dup {
		return p.errorf("ppt %q declared twice", name)
	}
	d := &Decl{Name: name, Line: p.line}
	p.points[name] = d
	p.trace.Points = append(p.trace.Points, d)
	p.decl, p.sample = d, nil
	return nil
}

func (p *parser) parseVar(rest string) error {
	fields := strings.Fields(rest)
	if len(fields) != 2 {
		return p.errorf("var requires a name and a type")
	}
	for _, v := range p.decl.Vars {
		if v.Name == fields[0] {
			return p.errorf("var %q declared twice", fields[0])
		}
	}
	p.decl.Vars = append(p.decl.Vars, VarDecl{Name: fields[0], Type: fields[1], Line: p.line})
	return nil
}

func (p *parser) parseDerive(rest string) error {
	fields := strings.Fields(rest)
	if len(fields) == 0 {
		return p.errorf("derive requires a kind")
	}
	d := DeriveDecl{Kind: fields[0], Line: p.line}
	switch d.Kind {
	case DeriveSum:
		if len(fields) != 2 {
			return p.errorf("derive sum requires a sequence")
		}
		d.Args = fields[1:]
	case DerivePrefix, DeriveSuffix, DeriveSubscript:
		if len(fields) != 3 && len(fields) != 4 {
			return p.errorf("derive %s requires a sequence, an index and an optional shift", d.Kind)
		}
		d.Args = fields[1:3]
		if len(fields) == 4 {
			shift, err := strconv.Atoi(fields[3])
			if err != nil {
				return p.errorf("bad shift %q", fields[3])
			}
			d.Shift = shift
		}
	default:
		return p.errorf("unknown derivation %q", d.Kind)
	}
	p.decl.Derives = append(p.decl.Derives, d)
	return nil
}

func (p *parser) parseSample(rest string) error {
	fields := strings.Fields(rest)
	if len(fields) == 0 || len(fields) > 2 {
		return p.errorf("sample requires a ppt name and an optional count")
	}
	decl, ok := p.points[fields[0]]
	if !ok {
		return p.errorf("sample for undeclared ppt %q", fields[0])
	}
	s := &Sample{Point: decl.Name, Count: 1, Line: p.line}
	if len(fields) == 2 {
		n, err := strconv.Atoi(fields[1])
		if err != nil || n < 1 {
			return p.errorf("bad sample count %q", fields[1])
		}
		s.Count = n
	}
	p.trace.Samples = append(p.trace.Samples, s)
	p.decl, p.sample = nil, s
	return nil
}

func (p *parser) parseAssignment(name, rest string) error {
	if rest == "" {
		return p.errorf("variable %q has no value", name)
	}
	if _, dup := p.sample.Lookup(name); dup {
		return p.errorf("variable %q assigned twice", name)
	}
	p.sample.Values = append(p.sample.Values, Assignment{Var: name, Text: rest, Line: p.line})
	return nil
}

// splitWord splits off the first whitespace-delimited word. rest has
// surrounding whitespace removed but is otherwise verbatim.
func splitWord(s string) (word, rest string) {
	i := strings.IndexAny(s, " \t")
	if i < 0 {
		return s, ""
	}
	return s[:i], strings.TrimSpace(s[i:])
}
