package protowire

import (
	"errors"
	"math"
	"testing"
)

func TestEncoderDecoderFields(t *testing.T) {
	e := NewEncoder()
	e.EncodeVarint(1, 300)
	e.EncodeString(2, "timelines/a.txt")
	e.EncodeDouble(3, math.NaN())
	e.EncodeDouble(4, 0)
	e.EncodeBool(5, true)
	e.EncodeFixed32(6, 1.5)
	e.EncodeVarint(7, 0) // omitido

	d := NewDecoder(e.Bytes())
	seen := map[int]bool{}
	for !d.Done() {
		num, typ, err := d.ReadTag()
		if err != nil {
			t.Fatal(err)
		}
		seen[num] = true
		switch num {
		case 1:
			v, _ := d.ReadVarint()
			if v != 300 {
				t.Errorf("campo 1 = %d", v)
			}
		case 2:
			s, _ := d.ReadString()
			if s != "timelines/a.txt" {
				t.Errorf("campo 2 = %q", s)
			}
		case 3:
			v, _ := d.ReadDouble()
			if !math.IsNaN(v) {
				t.Errorf("campo 3 deveria ser NaN, obtido %v", v)
			}
		case 4:
			v, _ := d.ReadDouble()
			if v != 0 {
				t.Errorf("campo 4 = %v", v)
			}
		case 5:
			v, _ := d.ReadBool()
			if !v {
				t.Error("campo 5 deveria ser true")
			}
		case 6:
			v, _ := d.ReadFixed32()
			if v != 1.5 {
				t.Errorf("campo 6 = %v", v)
			}
		default:
			if err := d.SkipField(typ); err != nil {
				t.Fatal(err)
			}
		}
	}
	if seen[7] {
		t.Error("varint zero não deveria ser serializado")
	}
	if len(seen) != 6 {
		t.Errorf("campos lidos: %v", seen)
	}
}

func TestSkipUnknownFields(t *testing.T) {
	e := NewEncoder()
	e.EncodeString(9, "ignorar")
	e.EncodeDouble(10, 2)
	e.EncodeVarint(1, 42)

	d := NewDecoder(e.Bytes())
	for !d.Done() {
		num, typ, err := d.ReadTag()
		if err != nil {
			t.Fatal(err)
		}
		if num == 1 {
			v, _ := d.ReadVarint()
			if v != 42 {
				t.Errorf("campo 1 = %d", v)
			}
			continue
		}
		if err := d.SkipField(typ); err != nil {
			t.Fatalf("SkipField(%d): %v", typ, err)
		}
	}
}

func TestTruncatedInput(t *testing.T) {
	e := NewEncoder()
	e.EncodeString(1, "abcdef")
	data := e.Bytes()[:4]

	d := NewDecoder(data)
	if _, _, err := d.ReadTag(); err != nil {
		t.Fatal(err)
	}
	if _, err := d.ReadBytes(); err == nil {
		t.Error("entrada truncada deveria falhar")
	}

	if err := NewDecoder([]byte{0x08}).SkipField(7); err == nil {
		t.Error("wire type desconhecido deveria falhar")
	}
}

func TestExpect(t *testing.T) {
	if err := Expect(1, WireVarint, WireVarint); err != nil {
		t.Error(err)
	}
	if err := Expect(1, Wire32Bit, WireVarint); !errors.Is(err, ErrWireType) {
		t.Errorf("esperado ErrWireType, obtido %v", err)
	}
}
