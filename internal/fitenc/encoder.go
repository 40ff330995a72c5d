package fitenc

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"
	"time"

	"github.com/tormoder/fit"
)

const (
	headerSize = 14
	// ProtocolVersion is FIT protocol version 1 as the header encodes it:
	// major version in the high nibble, minor in the low one (1.0 = 0x10).
	ProtocolVersion = byte(fit.V10)
	// ProfileVersion is written to the file header.
	ProfileVersion = 1

	definitionHeader = 0x40
	dataHeader       = 0x00
	littleEndian     = 0
	maxStringSize    = 255
)

// fitEpoch is 1989-12-31T00:00:00Z, the zero of FIT timestamps.
var fitEpoch = time.Date(1989, time.December, 31, 0, 0, 0, 0, time.UTC)

// Timestamp converts t to seconds since the FIT epoch.
func Timestamp(t time.Time) float64 {
	return float64(t.Unix() - fitEpoch.Unix())
}

// Fields are the values of one message keyed by field name. Numbers are
// given in their natural unit and scaled on encoding; strings are written
// null-terminated. Fields left out, or set to nil, are not encoded.
type Fields map[string]any

// Encoder appends messages to an in-memory FIT file.
type Encoder struct {
	schema  *Schema
	records bytes.Buffer
}

// NewEncoder creates an Encoder writing messages defined in schema.
func NewEncoder(schema *Schema) *Encoder {
	return &Encoder{schema: schema}
}

// Write appends a definition record and a data record for one message.
func (e *Encoder) Write(message string, fields Fields) error {
	def, ok := e.schema.Message(message)
	if !ok {
		return fmt.Errorf("unknown message %q", message)
	}
	for name := range fields {
		if _, ok := def.Field(name); !ok {
			return fmt.Errorf("unknown field %q in message %s", name, message)
		}
	}

	var (
		descriptors bytes.Buffer
		data        bytes.Buffer
		count       int
	)
	data.WriteByte(dataHeader)

	for _, f := range def.Fields {
		v, ok := fields[f.Name]
		if p, isPtr := v.(*float64); isPtr {
			if p == nil {
				continue
			}
			v = *p
		}
		if !ok || v == nil {
			continue
		}
		raw, err := encodeValue(f, v)
		if err != nil {
			return fmt.Errorf("field %s.%s: %w", message, f.Name, err)
		}
		descriptors.Write([]byte{f.Num, byte(len(raw)), byte(f.Type)})
		data.Write(raw)
		count++
	}

	e.records.WriteByte(definitionHeader)
	e.records.WriteByte(0) // reserved
	e.records.WriteByte(littleEndian)
	e.records.Write(binary.LittleEndian.AppendUint16(nil, def.Global))
	e.records.WriteByte(byte(count))
	e.records.Write(descriptors.Bytes())
	e.records.Write(data.Bytes())
	return nil
}

// Bytes returns the complete file: header with its CRC, the records, and
// the CRC of the records.
func (e *Encoder) Bytes() []byte {
	records := e.records.Bytes()

	out := make([]byte, headerSize, headerSize+len(records)+2)
	out[0] = headerSize
	out[1] = ProtocolVersion
	binary.LittleEndian.PutUint16(out[2:4], ProfileVersion)
	binary.LittleEndian.PutUint32(out[4:8], uint32(len(records)))
	copy(out[8:12], ".FIT")
	binary.LittleEndian.PutUint16(out[12:14], CRC16(out[:12]))

	out = append(out, records...)
	return binary.LittleEndian.AppendUint16(out, CRC16(records))
}

func encodeValue(f FieldDef, v any) ([]byte, error) {
	if f.Type == String {
		s, ok := v.(string)
		if !ok {
			return nil, fmt.Errorf("want string, got %T", v)
		}
		if len(s) > maxStringSize-1 {
			s = s[:maxStringSize-1]
		}
		return append([]byte(s), 0), nil
	}

	n, err := toFloat(v)
	if err != nil {
		return nil, err
	}
	n += f.Offset
	if f.Scale != 0 {
		n *= f.Scale
	}

	switch f.Type {
	case Float32:
		return binary.LittleEndian.AppendUint32(nil, math.Float32bits(float32(n))), nil
	case Float64:
		return binary.LittleEndian.AppendUint64(nil, math.Float64bits(n)), nil
	}

	i := int64(math.Round(n))
	switch f.Type.Size() {
	case 1:
		return []byte{byte(i)}, nil
	case 2:
		return binary.LittleEndian.AppendUint16(nil, uint16(i)), nil
	case 4:
		return binary.LittleEndian.AppendUint32(nil, uint32(i)), nil
	}
	return nil, fmt.Errorf("unsupported base type 0x%02X", byte(f.Type))
}

func toFloat(v any) (float64, error) {
	switch n := v.(type) {
	case float64:
		return n, nil
	case float32:
		return float64(n), nil
	case int:
		return float64(n), nil
	case int64:
		return float64(n), nil
	case int32:
		return float64(n), nil
	case uint8:
		return float64(n), nil
	case uint16:
		return float64(n), nil
	case uint32:
		return float64(n), nil
	case bool:
		if n {
			return 1, nil
		}
		return 0, nil
	}
	return 0, fmt.Errorf("want number, got %T", v)
}
