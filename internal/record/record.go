package record

import "github.com/n6ul/ulsdb/internal/codes"

// Record is the tagged union the reader yields: exactly one of the
// pointer fields is non-nil, selected by Type. Line is the 1-indexed
// source line the record started on, kept for diagnostics.
type Record struct {
	Type codes.RecordType
	Line int

	Header           *Header
	Entity           *Entity
	Amateur          *Amateur
	History          *History
	Comment          *Comment
	SpecialCondition *SpecialCondition
	Raw              *Raw
}

// parseRecord dispatches rt to the matching FromFields constructor. A
// tag-shaped code outside the closed set falls through to the Raw
// variant rather than failing the line.
func parseRecord(rt codes.RecordType, parts []string, line int) Record {
	rec := Record{Type: rt, Line: line}
	switch rt {
	case codes.RecordTypeHeader:
		h := HeaderFromFields(parts)
		rec.Header = &h
	case codes.RecordTypeEntity:
		e := EntityFromFields(parts)
		rec.Entity = &e
	case codes.RecordTypeAmateur:
		a := AmateurFromFields(parts)
		rec.Amateur = &a
	case codes.RecordTypeHistory:
		hs := HistoryFromFields(parts)
		rec.History = &hs
	case codes.RecordTypeComment:
		c := CommentFromFields(parts)
		rec.Comment = &c
	case codes.RecordTypeSpecialCondition:
		sc := SpecialConditionFromFields(parts)
		rec.SpecialCondition = &sc
	default:
		raw := RawFromFields(rt, parts)
		rec.Raw = &raw
	}
	return rec
}
