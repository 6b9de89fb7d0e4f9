// Package protowire oferece um Encoder/Decoder de campos protobuf sobre
// google.golang.org/protobuf/encoding/protowire, usado pelas mensagens
// escritas à mão do protocolo hsnet.
package protowire

import (
	"errors"
	"fmt"
	"math"

	pw "google.golang.org/protobuf/encoding/protowire"
)

// WireType constantes do protobuf
const (
	WireVarint          = int(pw.VarintType)
	Wire64Bit           = int(pw.Fixed64Type)
	WireLengthDelimited = int(pw.BytesType)
	Wire32Bit           = int(pw.Fixed32Type)
)

// ---------- ENCODER ----------

// Encoder acumula bytes no formato protobuf.
type Encoder struct {
	buf []byte
}

// NewEncoder cria um encoder vazio.
func NewEncoder() *Encoder {
	return &Encoder{buf: make([]byte, 0, 256)}
}

// Bytes retorna o buffer serializado.
func (e *Encoder) Bytes() []byte {
	return e.buf
}

// Reset limpa o buffer.
func (e *Encoder) Reset() {
	e.buf = e.buf[:0]
}

func (e *Encoder) appendTag(fieldNum int, wireType pw.Type) {
	e.buf = pw.AppendTag(e.buf, pw.Number(fieldNum), wireType)
}

// EncodeVarint codifica um campo varint (int32, int64, enum).
// Zero é o valor default e não é serializado.
func (e *Encoder) EncodeVarint(fieldNum int, v int64) {
	if v == 0 {
		return
	}
	e.EncodeVarintForce(fieldNum, v)
}

// EncodeVarintForce codifica varint mesmo que seja zero.
func (e *Encoder) EncodeVarintForce(fieldNum int, v int64) {
	e.appendTag(fieldNum, pw.VarintType)
	e.buf = pw.AppendVarint(e.buf, uint64(v))
}

// EncodeUvarint codifica uint64.
func (e *Encoder) EncodeUvarint(fieldNum int, v uint64) {
	if v == 0 {
		return
	}
	e.appendTag(fieldNum, pw.VarintType)
	e.buf = pw.AppendVarint(e.buf, v)
}

// EncodeBool codifica um boolean.
func (e *Encoder) EncodeBool(fieldNum int, v bool) {
	if !v {
		return
	}
	e.appendTag(fieldNum, pw.VarintType)
	e.buf = pw.AppendVarint(e.buf, pw.EncodeBool(v))
}

// EncodeBytes codifica bytes raw (length-delimited).
func (e *Encoder) EncodeBytes(fieldNum int, v []byte) {
	if len(v) == 0 {
		return
	}
	e.appendTag(fieldNum, pw.BytesType)
	e.buf = pw.AppendBytes(e.buf, v)
}

// EncodeString codifica uma string.
func (e *Encoder) EncodeString(fieldNum int, v string) {
	if v == "" {
		return
	}
	e.EncodeStringForce(fieldNum, v)
}

// EncodeStringForce codifica uma string mesmo que vazia.
func (e *Encoder) EncodeStringForce(fieldNum int, v string) {
	e.appendTag(fieldNum, pw.BytesType)
	e.buf = pw.AppendString(e.buf, v)
}

// EncodeSubmessage codifica uma submensagem (length-delimited).
// Submensagens vazias também são escritas: a presença é significativa.
func (e *Encoder) EncodeSubmessage(fieldNum int, sub []byte) {
	e.appendTag(fieldNum, pw.BytesType)
	e.buf = pw.AppendBytes(e.buf, sub)
}

// EncodeFixed32 codifica um float32 como fixed32.
func (e *Encoder) EncodeFixed32(fieldNum int, v float32) {
	e.appendTag(fieldNum, pw.Fixed32Type)
	e.buf = pw.AppendFixed32(e.buf, math.Float32bits(v))
}

// EncodeDouble codifica um float64 como fixed64, inclusive NaN e zero.
func (e *Encoder) EncodeDouble(fieldNum int, v float64) {
	e.appendTag(fieldNum, pw.Fixed64Type)
	e.buf = pw.AppendFixed64(e.buf, math.Float64bits(v))
}

// ---------- DECODER ----------

// Decoder lê campos protobuf de um buffer.
type Decoder struct {
	buf []byte
}

// NewDecoder cria um decoder sobre um buffer.
func NewDecoder(buf []byte) *Decoder {
	return &Decoder{buf: buf}
}

// Done retorna true se não há mais bytes.
func (d *Decoder) Done() bool {
	return len(d.buf) == 0
}

// Remaining retorna os bytes restantes.
func (d *Decoder) Remaining() int {
	return len(d.buf)
}

func (d *Decoder) advance(n int, what string) error {
	if n < 0 {
		return fmt.Errorf("protowire: %s inválido: %w", what, pw.ParseError(n))
	}
	d.buf = d.buf[n:]
	return nil
}

// ReadTag lê o número do campo e o tipo de wire do próximo campo.
func (d *Decoder) ReadTag() (fieldNum int, wireType int, err error) {
	num, typ, n := pw.ConsumeTag(d.buf)
	if err := d.advance(n, "tag"); err != nil {
		return 0, 0, err
	}
	return int(num), int(typ), nil
}

// ReadVarint lê um valor varint (após o tag já ter sido lido).
func (d *Decoder) ReadVarint() (int64, error) {
	v, n := pw.ConsumeVarint(d.buf)
	if err := d.advance(n, "varint"); err != nil {
		return 0, err
	}
	return int64(v), nil
}

// ReadBool lê um boolean.
func (d *Decoder) ReadBool() (bool, error) {
	v, err := d.ReadVarint()
	return pw.DecodeBool(uint64(v)), err
}

// ReadBytes lê um campo length-delimited.
func (d *Decoder) ReadBytes() ([]byte, error) {
	v, n := pw.ConsumeBytes(d.buf)
	if err := d.advance(n, "campo length-delimited"); err != nil {
		return nil, err
	}
	return v, nil
}

// ReadString lê uma string.
func (d *Decoder) ReadString() (string, error) {
	b, err := d.ReadBytes()
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// ReadFixed32 lê um float32 / fixed32.
func (d *Decoder) ReadFixed32() (float32, error) {
	v, n := pw.ConsumeFixed32(d.buf)
	if err := d.advance(n, "fixed32"); err != nil {
		return 0, err
	}
	return math.Float32frombits(v), nil
}

// ReadFixed64 lê um fixed64.
func (d *Decoder) ReadFixed64() (uint64, error) {
	v, n := pw.ConsumeFixed64(d.buf)
	if err := d.advance(n, "fixed64"); err != nil {
		return 0, err
	}
	return v, nil
}

// ReadDouble lê um float64 codificado como fixed64.
func (d *Decoder) ReadDouble() (float64, error) {
	v, err := d.ReadFixed64()
	return math.Float64frombits(v), err
}

// SkipField pula um campo baseado no wire type.
func (d *Decoder) SkipField(wireType int) error {
	switch wireType {
	case WireVarint, Wire64Bit, WireLengthDelimited, Wire32Bit:
	default:
		return fmt.Errorf("protowire: wire type desconhecido: %d", wireType)
	}
	n := pw.ConsumeFieldValue(0, pw.Type(wireType), d.buf)
	return d.advance(n, "campo")
}

// ErrWireType indica um campo conhecido com wire type inesperado.
var ErrWireType = errors.New("protowire: wire type inesperado")

// Expect valida o wire type de um campo conhecido.
func Expect(fieldNum, got, want int) error {
	if got != want {
		return fmt.Errorf("campo %d (tipo %d, esperado %d): %w", fieldNum, got, want, ErrWireType)
	}
	return nil
}
