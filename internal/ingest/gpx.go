package ingest

import (
	"encoding/xml"
	"errors"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/jengzang/trackcore-go/internal/models"
	"github.com/jengzang/trackcore-go/internal/spatial"
)

// openTracksNamespace is declared on the root element of OpenTracks exports.
const openTracksNamespace = "opentracksapp.com"

// GPXAdapter decodes GPX 1.1 documents token by token.
type GPXAdapter struct{}

// Format implements Adapter.
func (GPXAdapter) Format() string { return FormatGPX }

// Parse implements Adapter.
func (a GPXAdapter) Parse(r io.Reader) (*Result, error) {
	p := gpxParser{seg: NewSegmenter()}
	if err := p.run(xml.NewDecoder(r)); err != nil {
		return nil, &ParseError{Format: FormatGPX, Err: err}
	}
	if !p.sawRoot {
		return nil, &ParseError{Format: FormatGPX, Err: errors.New("missing gpx root element")}
	}
	return finish(FormatGPX, p.meta, p.seg)
}

type gpxParser struct {
	seg  *Segmenter
	meta Metadata

	sawRoot bool
	stack   []string
	text    strings.Builder

	point    *Sample
	previous *Sample

	trackName string
	trackDesc string
}

func (p *gpxParser) run(dec *xml.Decoder) error {
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}

		switch t := tok.(type) {
		case xml.StartElement:
			p.start(t)
		case xml.CharData:
			p.text.Write(t)
		case xml.EndElement:
			p.end(t)
		}
	}
}

func (p *gpxParser) start(t xml.StartElement) {
	p.stack = append(p.stack, t.Name.Local)
	p.text.Reset()

	switch t.Name.Local {
	case "gpx":
		p.sawRoot = true
		p.readRoot(t)
	case "trkseg":
		p.seg.NewSegment()
	case "trkpt":
		p.point = &Sample{}
		for _, attr := range t.Attr {
			switch attr.Name.Local {
			case "lat":
				p.point.Latitude = parseFloat(attr.Value)
			case "lon":
				p.point.Longitude = parseFloat(attr.Value)
			}
		}
	}
}

func (p *gpxParser) readRoot(t xml.StartElement) {
	for _, attr := range t.Attr {
		switch {
		case attr.Name.Space == "xmlns" && strings.Contains(attr.Value, openTracksNamespace):
			p.meta.RecordedWith = models.RecordedWithOpenTracks
		case attr.Name.Space == "" && attr.Name.Local == "creator":
			p.meta.Source = attr.Value
		}
	}
	if p.meta.RecordedWith == models.RecordedWithUnknown && strings.Contains(strings.ToLower(p.meta.Source), "garmin") {
		p.meta.RecordedWith = models.RecordedWithGarmin
	}
}

func (p *gpxParser) end(t xml.EndElement) {
	name := t.Name.Local
	value := strings.TrimSpace(p.text.String())
	p.text.Reset()

	parent := ""
	if len(p.stack) > 1 {
		parent = p.stack[len(p.stack)-2]
	}
	if len(p.stack) > 0 {
		p.stack = p.stack[:len(p.stack)-1]
	}

	if p.point != nil {
		p.endInPoint(name, value)
		return
	}

	switch {
	case name == "name" && parent == "metadata":
		p.meta.Name = value
	case name == "desc" && parent == "metadata":
		p.meta.Description = value
	case name == "name" && parent == "trk" && p.trackName == "":
		p.trackName = value
	case name == "desc" && parent == "trk" && p.trackDesc == "":
		p.trackDesc = value
	case name == "type" && parent == "trk":
		p.meta.Category = models.ParseCategory(value)
	case name == "gpx":
		if p.meta.Name == "" {
			p.meta.Name = p.trackName
		}
		if p.meta.Description == "" {
			p.meta.Description = p.trackDesc
		}
	}
}

// endInPoint handles the closing tags inside a trkpt, including the vendor
// extension elements, which are matched by local name regardless of prefix.
func (p *gpxParser) endInPoint(name, value string) {
	switch name {
	case "trkpt":
		p.commitPoint()
	case "ele":
		p.point.Altitude = parseFloat(value)
	case "time":
		if ts, err := time.Parse(time.RFC3339Nano, value); err == nil {
			p.point.Time = &ts
		}
	case "speed":
		p.point.Speed = parseFloat(value)
	case "hr", "heartrate":
		p.point.HeartRate = parseFloat(value)
	case "cad", "cadence":
		p.point.Cadence = parseFloat(value)
	case "power", "PowerInWatts":
		p.point.Power = parseFloat(value)
	case "atemp", "temp":
		p.point.Temperature = parseFloat(value)
	case "gain":
		p.point.ElevationGain = parseFloat(value)
	case "loss":
		p.point.ElevationLoss = parseFloat(value)
	}
}

func (p *gpxParser) commitPoint() {
	cur := p.point
	p.point = nil

	if cur.Speed == nil && p.previous != nil {
		cur.Speed = derivedSpeed(p.previous, cur)
	}
	if cur.Latitude != nil && cur.Longitude != nil && cur.Time != nil {
		p.previous = cur
	}
	p.seg.AddPoint(*cur)
}

// derivedSpeed is the haversine distance from prev over the elapsed time, or
// nil when either sample lacks a position or time, or no time elapsed.
func derivedSpeed(prev, cur *Sample) *float64 {
	if cur.Latitude == nil || cur.Longitude == nil || cur.Time == nil {
		return nil
	}
	dt := cur.Time.Sub(*prev.Time).Seconds()
	if dt <= 0 {
		return nil
	}
	d := spatial.HaversineDistance(*prev.Latitude, *prev.Longitude, *cur.Latitude, *cur.Longitude)
	return models.Float(d / dt)
}

func parseFloat(s string) *float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return nil
	}
	return &v
}
