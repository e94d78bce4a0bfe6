package model

import (
	"bytes"
	"strconv"

	"github.com/goccy/go-json"
	"github.com/pkg/errors"
)

type GapKind int

const (
	GapNone GapKind = iota
	GapSeconds
	GapText
)

// Gap is the upstream gap_to_leader, which is either a number of seconds or a
// text such as "+1 LAP". Qualifying sessions send one gap per part; the last
// non-null part is kept.
type Gap struct {
	kind    GapKind
	seconds float64
	text    string
}

func SecondsGap(s float64) Gap {
	return Gap{kind: GapSeconds, seconds: s}
}

func TextGap(s string) Gap {
	return Gap{kind: GapText, text: s}
}

func (g Gap) Kind() GapKind {
	return g.kind
}

func (g Gap) Seconds() (float64, bool) {
	return g.seconds, g.kind == GapSeconds
}

func (g Gap) Text() (string, bool) {
	return g.text, g.kind == GapText
}

func (g Gap) String() string {
	switch g.kind {
	case GapSeconds:
		if g.seconds == 0 {
			return "-"
		}
		return "+" + strconv.FormatFloat(g.seconds, 'f', 3, 64) + "s"
	case GapText:
		return g.text
	}
	return ""
}

func (g Gap) MarshalJSON() ([]byte, error) {
	switch g.kind {
	case GapSeconds:
		return json.Marshal(g.seconds)
	case GapText:
		return json.Marshal(g.text)
	}
	return []byte("null"), nil
}

func (g *Gap) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*g = Gap{}
		return nil
	}
	var raw interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return errors.Wrap(err, "decoding gap")
	}
	parsed, err := gapFrom(raw)
	if err != nil {
		return err
	}
	*g = parsed
	return nil
}

func gapFrom(raw interface{}) (Gap, error) {
	switch v := raw.(type) {
	case nil:
		return Gap{}, nil
	case float64:
		return SecondsGap(v), nil
	case string:
		return TextGap(v), nil
	case []interface{}:
		gap := Gap{}
		for _, part := range v {
			p, err := gapFrom(part)
			if err != nil {
				return Gap{}, err
			}
			if p.kind != GapNone {
				gap = p
			}
		}
		return gap, nil
	}
	return Gap{}, errors.Errorf("unsupported gap value %v", raw)
}
