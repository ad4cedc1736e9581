package rcm

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Number is an integer field of the upstream json that is sometimes sent as
// a number, sometimes as a quoted string and sometimes not at all.
// null, "" and unparsable strings all decode to 0.
type Number int64

func (n *Number) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*n = 0
		return nil
	}

	if data[0] == '"' {
		var text string
		err := json.Unmarshal(data, &text)
		if err != nil {
			return err
		}
		text = strings.TrimSpace(text)
		if text == "" {
			*n = 0
			return nil
		}
		f, err := strconv.ParseFloat(text, 64)
		if err != nil {
			*n = 0
			return nil
		}
		*n = Number(f)
		return nil
	}

	var f float64
	err := json.Unmarshal(data, &f)
	if err != nil {
		return fmt.Errorf("decode number %q: %w", string(data), err)
	}
	*n = Number(f)
	return nil
}

func (n Number) Int() int {
	return int(n)
}

// Flag is a boolean field that the upstream encodes as true/false, 0/1 or "Y"/"N".
type Flag bool

func (f *Flag) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch strings.ToLower(strings.Trim(string(data), `"`)) {
	case "true", "1", "y", "yes":
		*f = true
	default:
		*f = false
	}
	return nil
}
