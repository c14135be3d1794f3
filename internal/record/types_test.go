package record

import "testing"

func TestHeaderFromFieldsDecodesStatusAndService(t *testing.T) {
	parts := []string{"HD", "1001", "FILE01", "", "CALL01", "A", "HV", "01/02/2020"}
	h := HeaderFromFields(parts)

	if !h.USI.Valid || h.USI.Value != 1001 {
		t.Fatalf("USI = %+v", h.USI)
	}
	if h.CallSign.Value != "CALL01" {
		t.Fatalf("CallSign = %+v", h.CallSign)
	}
	status, ok := h.Status()
	if !ok || status.String() != "A" {
		t.Fatalf("Status() = %v, %v", status, ok)
	}
	service, ok := h.Service()
	if !ok || service.String() != "HV" {
		t.Fatalf("Service() = %v, %v", service, ok)
	}
	if !h.GrantDate.Valid {
		t.Fatalf("expected GrantDate to parse")
	}
}

func TestHeaderFromFieldsToleratesShortRows(t *testing.T) {
	h := HeaderFromFields([]string{"HD", "1001"})
	if h.CallSign.Valid {
		t.Fatalf("expected CallSign absent for a short row, got %+v", h.CallSign)
	}
	if _, ok := h.Status(); ok {
		t.Fatalf("expected Status to report unrecognized for an absent field")
	}
}

func TestEntityFromFieldsDecodesType(t *testing.T) {
	parts := make([]string, 24)
	parts[0] = "EN"
	parts[1] = "1001"
	parts[5] = "L"
	parts[7] = "ACME CORP"
	parts[22] = "0001234567"

	e := EntityFromFields(parts)
	if e.EntityName.Value != "ACME CORP" {
		t.Fatalf("EntityName = %+v", e.EntityName)
	}
	if e.FRN.Value != "0001234567" {
		t.Fatalf("FRN = %+v", e.FRN)
	}
	typ, ok := e.Type()
	if !ok || typ.String() != "L" {
		t.Fatalf("Type() = %v, %v", typ, ok)
	}
}

func TestAmateurFromFieldsDecodesClass(t *testing.T) {
	parts := []string{"AM", "1001", "", "", "", "E"}
	a := AmateurFromFields(parts)
	class, ok := a.Class()
	if !ok || class.String() != "E" {
		t.Fatalf("Class() = %v, %v", class, ok)
	}
}

func TestRawFromFieldsCopiesFields(t *testing.T) {
	parts := []string{"LA", "1001", "some", "fields"}
	raw := RawFromFields("LA", parts)
	parts[2] = "mutated"
	if raw.Fields[2] != "some" {
		t.Fatalf("RawFromFields must copy, got %q after mutating the source slice", raw.Fields[2])
	}
	if raw.Type.String() != "LA" {
		t.Fatalf("Type = %v", raw.Type)
	}
}

func TestDecodeDateAcceptsBothLayouts(t *testing.T) {
	if d := decodeDate("01/02/2020"); !d.Valid {
		t.Fatalf("expected 01/02/2020 to parse")
	}
	if d := decodeDate("2020-01-02"); !d.Valid {
		t.Fatalf("expected 2020-01-02 to parse")
	}
	if d := decodeDate("not a date"); d.Valid {
		t.Fatalf("expected a malformed date to decode as absent, not an error")
	}
}

func TestDecodeIntFieldsRejectGarbageSilently(t *testing.T) {
	if v := decodeInt64("not a number"); v.Valid {
		t.Fatalf("expected garbage to decode as absent")
	}
	if v := decodeInt32("12x"); v.Valid {
		t.Fatalf("expected garbage to decode as absent")
	}
}
