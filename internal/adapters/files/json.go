package files

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// text accepts a JSON string or number; ids show up as both in the data files.
type text struct {
	v   string
	set bool
}

func (t *text) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		return nil
	}
	t.set = true
	if len(b) > 0 && b[0] == '"' {
		return json.Unmarshal(b, &t.v)
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	t.v = n.String()
	return nil
}

// flag accepts true/false or the "YES"/"NO" strings used by review exports.
type flag bool

func (f *flag) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		switch strings.ToLower(strings.TrimSpace(s)) {
		case "yes", "y", "true", "1":
			*f = true
		default:
			*f = false
		}
		return nil
	}
	if bytes.Equal(b, []byte("null")) {
		return nil
	}
	v, err := strconv.ParseBool(string(b))
	if err != nil {
		return err
	}
	*f = flag(v)
	return nil
}
