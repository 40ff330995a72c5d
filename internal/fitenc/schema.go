// Package fitenc writes FIT segment files.
package fitenc

import (
	"math"
	"slices"
)

// BaseType is the FIT wire type code of a field.
type BaseType byte

// FIT base types
const (
	Enum    BaseType = 0x00
	Sint8   BaseType = 0x01
	Uint8   BaseType = 0x02
	String  BaseType = 0x07
	Uint8z  BaseType = 0x0A
	Byte    BaseType = 0x0D
	Sint16  BaseType = 0x83
	Uint16  BaseType = 0x84
	Sint32  BaseType = 0x85
	Uint32  BaseType = 0x86
	Float32 BaseType = 0x88
	Float64 BaseType = 0x89
	Uint16z BaseType = 0x8B
	Uint32z BaseType = 0x8C
)

// Size is the encoded size in bytes, 0 for variable-length strings.
func (t BaseType) Size() int {
	switch t {
	case Enum, Sint8, Uint8, Uint8z, Byte:
		return 1
	case Sint16, Uint16, Uint16z:
		return 2
	case Sint32, Uint32, Uint32z, Float32:
		return 4
	case Float64:
		return 8
	}
	return 0
}

// Global message numbers
const (
	MesgFileID                  uint16 = 0
	MesgFileCreator             uint16 = 49
	MesgSegmentLap              uint16 = 142
	MesgSegmentID               uint16 = 148
	MesgSegmentLeaderboardEntry uint16 = 149
	MesgSegmentPoint            uint16 = 150
)

// Message names
const (
	FileID                  = "file_id"
	FileCreator             = "file_creator"
	SegmentLap              = "segment_lap"
	SegmentID               = "segment_id"
	SegmentLeaderboardEntry = "segment_leaderboard_entry"
	SegmentPoint            = "segment_point"
)

// FieldDef describes one field. A zero Scale means no scaling. Values are
// stored as (value + Offset) * Scale.
type FieldDef struct {
	Num    byte
	Name   string
	Type   BaseType
	Scale  float64
	Offset float64
}

// MessageDef is the ordered field list of one message.
type MessageDef struct {
	Name   string
	Global uint16
	Fields []FieldDef
}

// Field returns the definition of the named field.
func (m MessageDef) Field(name string) (FieldDef, bool) {
	for _, f := range m.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return FieldDef{}, false
}

// Schema is a read-only registry of message definitions.
type Schema struct {
	messages map[string]MessageDef
}

// Message returns the named message definition.
func (s *Schema) Message(name string) (MessageDef, bool) {
	m, ok := s.messages[name]
	m.Fields = slices.Clone(m.Fields)
	return m, ok
}

// semicircles converts degrees to FIT semicircles.
var semicircles = math.Exp2(31) / 180

// NewSegmentSchema builds the registry of the messages used in segment
// files.
func NewSegmentSchema() *Schema {
	defs := []MessageDef{
		{Name: FileID, Global: MesgFileID, Fields: []FieldDef{
			{Num: 0, Name: "type", Type: Enum},
			{Num: 1, Name: "manufacturer", Type: Uint16},
			{Num: 2, Name: "product", Type: Uint16},
			{Num: 3, Name: "serial_number", Type: Uint32z},
			{Num: 4, Name: "time_created", Type: Uint32},
			{Num: 5, Name: "number", Type: Uint16},
		}},
		{Name: FileCreator, Global: MesgFileCreator, Fields: []FieldDef{
			{Num: 0, Name: "software_version", Type: Uint16},
			{Num: 1, Name: "hardware_version", Type: Uint8},
		}},
		{Name: SegmentID, Global: MesgSegmentID, Fields: []FieldDef{
			{Num: 0, Name: "name", Type: String},
			{Num: 1, Name: "uuid", Type: String},
			{Num: 2, Name: "sport", Type: Enum},
			{Num: 3, Name: "enabled", Type: Enum},
			{Num: 4, Name: "user_profile_primary_key", Type: Uint32},
			{Num: 5, Name: "device_id", Type: Uint32},
			{Num: 6, Name: "default_race_leader", Type: Uint8},
			{Num: 7, Name: "delete_status", Type: Enum},
			{Num: 8, Name: "selection_type", Type: Enum},
		}},
		{Name: SegmentLeaderboardEntry, Global: MesgSegmentLeaderboardEntry, Fields: []FieldDef{
			{Num: 254, Name: "message_index", Type: Uint16},
			{Num: 0, Name: "name", Type: String},
			{Num: 1, Name: "type", Type: Enum},
			{Num: 2, Name: "group_primary_key", Type: Uint32},
			{Num: 3, Name: "activity_id", Type: Uint32},
			{Num: 4, Name: "segment_time", Type: Uint32, Scale: 1000},
			{Num: 5, Name: "activity_id_string", Type: String},
		}},
		{Name: SegmentPoint, Global: MesgSegmentPoint, Fields: []FieldDef{
			{Num: 254, Name: "message_index", Type: Uint16},
			{Num: 1, Name: "position_lat", Type: Sint32, Scale: semicircles},
			{Num: 2, Name: "position_long", Type: Sint32, Scale: semicircles},
			{Num: 3, Name: "distance", Type: Uint32, Scale: 100},
			{Num: 4, Name: "altitude", Type: Uint16, Scale: 5, Offset: 500},
			{Num: 5, Name: "leader_time", Type: Uint32, Scale: 1000},
		}},
		{Name: SegmentLap, Global: MesgSegmentLap, Fields: []FieldDef{
			{Num: 254, Name: "message_index", Type: Uint16},
			{Num: 253, Name: "timestamp", Type: Uint32},
			{Num: 0, Name: "event", Type: Enum},
			{Num: 1, Name: "event_type", Type: Enum},
			{Num: 2, Name: "start_time", Type: Uint32},
			{Num: 3, Name: "start_position_lat", Type: Sint32, Scale: semicircles},
			{Num: 4, Name: "start_position_long", Type: Sint32, Scale: semicircles},
			{Num: 5, Name: "end_position_lat", Type: Sint32, Scale: semicircles},
			{Num: 6, Name: "end_position_long", Type: Sint32, Scale: semicircles},
			{Num: 7, Name: "total_elapsed_time", Type: Uint32, Scale: 1000},
			{Num: 8, Name: "total_timer_time", Type: Uint32, Scale: 1000},
			{Num: 9, Name: "total_distance", Type: Uint32, Scale: 100},
			{Num: 13, Name: "avg_speed", Type: Uint16, Scale: 1000},
			{Num: 14, Name: "max_speed", Type: Uint16, Scale: 1000},
			{Num: 15, Name: "avg_heart_rate", Type: Uint8},
			{Num: 16, Name: "max_heart_rate", Type: Uint8},
			{Num: 17, Name: "avg_cadence", Type: Uint8},
			{Num: 18, Name: "max_cadence", Type: Uint8},
			{Num: 21, Name: "total_ascent", Type: Uint16},
			{Num: 22, Name: "total_descent", Type: Uint16},
			{Num: 23, Name: "sport", Type: Enum},
			{Num: 25, Name: "nec_lat", Type: Sint32, Scale: semicircles},
			{Num: 26, Name: "nec_long", Type: Sint32, Scale: semicircles},
			{Num: 27, Name: "swc_lat", Type: Sint32, Scale: semicircles},
			{Num: 28, Name: "swc_long", Type: Sint32, Scale: semicircles},
			{Num: 29, Name: "name", Type: String},
		}},
	}

	s := &Schema{messages: make(map[string]MessageDef, len(defs))}
	for _, d := range defs {
		s.messages[d.Name] = d
	}
	return s
}
