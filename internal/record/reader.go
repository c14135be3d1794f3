package record

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/n6ul/ulsdb/internal/codes"
)

// ParseErrorKind classifies a per-line parse failure. Parse errors never
// abort the stream: the reader counts them and keeps going.
type ParseErrorKind int

const (
	// InvalidFormat is a non-empty line with an empty first field and
	// no pending record to fold it into as a continuation.
	InvalidFormat ParseErrorKind = iota
)

// ParseError describes one malformed line.
type ParseError struct {
	Line   int
	Kind   ParseErrorKind
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("line %d: %s", e.Line, e.Reason)
}

type pendingRecord struct {
	rt     codes.RecordType
	fields []string
	line   int
}

// Reader is a forward-only, non-restartable DAT-record iterator. It
// reassembles continuation lines (free-text fields that embed a literal
// newline) into the record they belong to before yielding it.
type Reader struct {
	scanner *bufio.Scanner
	lineNo  int
	pending *pendingRecord
	errs    []ParseError
	done    bool
}

// NewReader wraps r in a DAT record reader. Input bytes are read once,
// forward-only; LF and CRLF line endings are both accepted (bufio's
// default line split already normalizes the trailing \r).
func NewReader(r io.Reader) *Reader {
	s := bufio.NewScanner(r)
	// ULS comment/condition free-text fields can run long; default
	// bufio token limits (64KiB) are occasionally too small.
	s.Buffer(make([]byte, 0, 64*1024), 8*1024*1024)
	return &Reader{scanner: s}
}

// Next returns the next logical record, folding any continuation lines
// that follow it into its last non-empty field before returning. It
// returns io.EOF once the stream (and any pending record) is exhausted.
func (r *Reader) Next() (Record, error) {
	if r.done {
		return Record{}, io.EOF
	}
	for r.scanner.Scan() {
		r.lineNo++
		line := r.scanner.Text()
		if line == "" {
			continue // empty lines between records are skipped
		}
		first := firstField(line)
		if _, known := codes.ParseRecordType(first); known || isRecordTagShape(first) {
			var flushed *Record
			if r.pending != nil {
				rec := parseRecord(r.pending.rt, r.pending.fields, r.pending.line)
				flushed = &rec
			}
			r.pending = &pendingRecord{
				rt:     codes.RecordType(first),
				fields: strings.Split(line, "|"),
				line:   r.lineNo,
			}
			if flushed != nil {
				return *flushed, nil
			}
			continue
		}
		// Not a record boundary: either a continuation of the
		// pending record, an orphan continuation, or a malformed
		// line with an empty first field and nothing pending.
		if r.pending == nil {
			if first == "" {
				r.errs = append(r.errs, ParseError{
					Line:   r.lineNo,
					Kind:   InvalidFormat,
					Reason: "empty first field with no pending record",
				})
			}
			// The line is discarded whether or not the first
			// field was empty - there is nothing to fold it
			// into. Only the empty-first-field case is also
			// recorded as a parse error; other orphan
			// continuations are discarded silently.
			continue
		}
		foldContinuation(r.pending, line)
	}
	r.done = true
	if err := r.scanner.Err(); err != nil {
		return Record{}, fmt.Errorf("record: line %d: %w", r.lineNo, err)
	}
	if r.pending != nil {
		rec := parseRecord(r.pending.rt, r.pending.fields, r.pending.line)
		r.pending = nil
		return rec, nil
	}
	return Record{}, io.EOF
}

// Each drives Next in a loop, invoking fn for every record until fn
// returns false (early abort) or the stream is exhausted. This is the
// callback surface the ZIP extractor's ProcessDATStreaming uses.
func (r *Reader) Each(fn func(Record) bool) error {
	for {
		rec, err := r.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		if !fn(rec) {
			return nil
		}
	}
}

// ParseErrors returns every malformed line seen so far.
func (r *Reader) ParseErrors() []ParseError { return r.errs }

// LineNumber returns the 1-indexed line most recently consumed, for
// diagnostics.
func (r *Reader) LineNumber() int { return r.lineNo }

// isRecordTagShape reports whether s has the shape of a record-type tag:
// exactly two uppercase ASCII letters. Next treats a line as a record
// boundary when its first field is a closed-set code (some of which,
// like F2 or T1, carry a digit) or has this shape, so that a code the
// closed set doesn't yet know about still starts a new (Raw) record
// instead of being folded into the previous one - parseRecord
// (record.go) decides which typed variant a boundary becomes.
func isRecordTagShape(s string) bool {
	if len(s) != 2 {
		return false
	}
	return s[0] >= 'A' && s[0] <= 'Z' && s[1] >= 'A' && s[1] <= 'Z'
}

func firstField(line string) string {
	if i := strings.IndexByte(line, '|'); i >= 0 {
		return line[:i]
	}
	return line
}

// foldContinuation appends line to the last non-empty field of p,
// separated by a space.
func foldContinuation(p *pendingRecord, line string) {
	for i := len(p.fields) - 1; i >= 0; i-- {
		if p.fields[i] != "" {
			p.fields[i] = p.fields[i] + " " + line
			return
		}
	}
	if len(p.fields) > 0 {
		p.fields[len(p.fields)-1] = line
	}
}
