package record

import "github.com/n6ul/ulsdb/internal/codes"

// Header is the HD record: one row per license. Field
// positions follow the FCC's published HD.dat layout; only the columns
// this system indexes are kept, the rest are dropped at parse time (they
// have no first-class column and HD is never retained as a Raw row).
type Header struct {
	USI              OptInt64
	ULSFileNumber    OptText
	CallSign         OptText
	LicenseStatus    OptChar
	RadioServiceCode OptChar
	GrantDate        OptDate
	ExpiredDate      OptDate
	CancellationDate OptDate
	EffectiveDate    OptDate
	LastActionDate   OptDate
}

// HeaderFromFields builds a Header from a DAT record's pipe-split
// fields. Missing trailing fields decode as absent, never as an error.
func HeaderFromFields(parts []string) Header {
	return Header{
		USI:              decodeInt64(field(parts, 1)),
		ULSFileNumber:    decodeText(field(parts, 2)),
		CallSign:         decodeText(field(parts, 4)),
		LicenseStatus:    decodeChar(field(parts, 5)),
		RadioServiceCode: decodeCode(field(parts, 6)),
		GrantDate:        decodeDate(field(parts, 7)),
		ExpiredDate:      decodeDate(field(parts, 8)),
		CancellationDate: decodeDate(field(parts, 9)),
		EffectiveDate:    decodeDate(field(parts, 42)),
		LastActionDate:   decodeDate(field(parts, 43)),
	}
}

// Status decodes the header's license-status character against the
// closed set, reporting whether it was recognized.
func (h Header) Status() (codes.LicenseStatus, bool) {
	if !h.LicenseStatus.Valid {
		return codes.StatusUnknown, false
	}
	return codes.ParseLicenseStatus(h.LicenseStatus.Value)
}

// Service decodes the header's radio-service tag against the closed set.
func (h Header) Service() (codes.RadioService, bool) {
	if !h.RadioServiceCode.Valid {
		return codes.ServiceUnknown, false
	}
	return codes.ParseRadioService(h.RadioServiceCode.Value)
}

// Entity is the EN record: a license may carry several, one per
// EntityType (UNIQUE(usi, entity_type) in the store).
type Entity struct {
	USI              OptInt64
	EntityType       OptChar
	EntityName       OptText
	FirstName        OptText
	MiddleInitial    OptText
	LastName         OptText
	Suffix           OptText
	Phone            OptText
	Fax              OptText
	Email            OptText
	StreetAddress    OptText
	City             OptText
	State            OptText
	ZipCode          OptText
	POBox            OptText
	FRN              OptText
	ApplicantType    OptChar
	StatusCode       OptChar
}

func EntityFromFields(parts []string) Entity {
	return Entity{
		USI:           decodeInt64(field(parts, 1)),
		EntityType:    decodeChar(field(parts, 5)),
		EntityName:    decodeText(field(parts, 7)),
		FirstName:     decodeText(field(parts, 8)),
		MiddleInitial: decodeText(field(parts, 9)),
		LastName:      decodeText(field(parts, 10)),
		Suffix:        decodeText(field(parts, 11)),
		Phone:         decodeText(field(parts, 12)),
		Fax:           decodeText(field(parts, 13)),
		Email:         decodeText(field(parts, 14)),
		StreetAddress: decodeText(field(parts, 15)),
		City:          decodeText(field(parts, 16)),
		State:         decodeText(field(parts, 17)),
		ZipCode:       decodeText(field(parts, 18)),
		POBox:         decodeText(field(parts, 19)),
		FRN:           decodeText(field(parts, 22)),
		ApplicantType: decodeChar(field(parts, 23)),
		StatusCode:    decodeChar(field(parts, 25)),
	}
}

func (e Entity) Type() (codes.EntityType, bool) {
	if !e.EntityType.Valid {
		return codes.EntityUnknown, false
	}
	return codes.ParseEntityType(e.EntityType.Value)
}

// Amateur is the AM record: at most one per license.
type Amateur struct {
	USI                   OptInt64
	OperatorClass         OptChar
	GroupCode             OptChar
	RegionCode            OptText
	TrusteeCallSign       OptText
	TrusteeIndicator      OptChar
	SystematicChange      OptChar
	VanityCallSignChange  OptChar
	VanityRelationship    OptText
	PreviousCallSign      OptText
	PreviousOperatorClass OptChar
	TrusteeName           OptText
}

func AmateurFromFields(parts []string) Amateur {
	return Amateur{
		USI:                   decodeInt64(field(parts, 1)),
		OperatorClass:         decodeChar(field(parts, 5)),
		GroupCode:             decodeChar(field(parts, 6)),
		RegionCode:            decodeText(field(parts, 7)),
		TrusteeCallSign:       decodeText(field(parts, 8)),
		TrusteeIndicator:      decodeChar(field(parts, 9)),
		SystematicChange:      decodeChar(field(parts, 12)),
		VanityCallSignChange:  decodeChar(field(parts, 13)),
		VanityRelationship:    decodeText(field(parts, 14)),
		PreviousCallSign:      decodeText(field(parts, 15)),
		PreviousOperatorClass: decodeChar(field(parts, 16)),
		TrusteeName:           decodeText(field(parts, 17)),
	}
}

func (a Amateur) Class() (codes.OperatorClass, bool) {
	if !a.OperatorClass.Valid {
		return codes.ClassUnknown, false
	}
	return codes.ParseOperatorClass(a.OperatorClass.Value)
}

// History is the HS record: an immutable event log row, identity
// USI + log date + code.
type History struct {
	USI     OptInt64
	LogDate OptDate
	Code    OptText
}

func HistoryFromFields(parts []string) History {
	return History{
		USI:     decodeInt64(field(parts, 1)),
		LogDate: decodeDate(field(parts, 3)),
		Code:    decodeText(field(parts, 4)),
	}
}

// Comment is the CO record: identity USI + comment date.
type Comment struct {
	USI         OptInt64
	CommentDate OptDate
	Description OptText
	StatusCode  OptChar
}

func CommentFromFields(parts []string) Comment {
	return Comment{
		USI:         decodeInt64(field(parts, 1)),
		CommentDate: decodeDate(field(parts, 3)),
		Description: decodeText(field(parts, 4)),
		StatusCode:  decodeChar(field(parts, 5)),
	}
}

// SpecialCondition is the SC record: identity USI + code.
type SpecialCondition struct {
	USI        OptInt64
	TypeCode   OptText
	Code       OptText
	StatusCode OptChar
}

func SpecialConditionFromFields(parts []string) SpecialCondition {
	return SpecialCondition{
		USI:        decodeInt64(field(parts, 1)),
		TypeCode:   decodeText(field(parts, 3)),
		Code:       decodeText(field(parts, 4)),
		StatusCode: decodeChar(field(parts, 5)),
	}
}

// Raw is the fallback variant for any of the ~83 non-principal record
// types: the fields are preserved verbatim so parse and line counters
// stay correct, but no Raw row is ever written to the store.
type Raw struct {
	Type   codes.RecordType
	Fields []string
}

func RawFromFields(rt codes.RecordType, parts []string) Raw {
	cp := make([]string, len(parts))
	copy(cp, parts)
	return Raw{Type: rt, Fields: cp}
}
