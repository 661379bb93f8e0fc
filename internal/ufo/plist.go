package ufo

import (
	"errors"
	"fmt"
	"io/fs"
	"math"
	"strconv"

	"howett.net/plist"
)

// readPlist decodes an optional property list. A missing file leaves v
// untouched and reports false.
func readPlist(fsys fs.FS, name string, v interface{}) (bool, error) {
	data, err := fs.ReadFile(fsys, name)
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if _, err := plist.Unmarshal(data, v); err != nil {
		return false, fmt.Errorf("failed to parse %s: %w", name, err)
	}
	return true, nil
}

// number accepts <integer>, <real> and numeric <string> values, rounded to
// the nearest design unit.
type number int

// UnmarshalPlist implements plist.Unmarshaler.
func (n *number) UnmarshalPlist(unmarshal func(interface{}) error) error {
	var v interface{}
	if err := unmarshal(&v); err != nil {
		return err
	}
	switch x := v.(type) {
	case int64:
		*n = number(x)
	case uint64:
		*n = number(x)
	case float64:
		*n = number(math.Round(x))
	case float32:
		*n = number(math.Round(float64(x)))
	case string:
		f, err := strconv.ParseFloat(x, 64)
		if err != nil {
			return fmt.Errorf("not a number: %q", x)
		}
		*n = number(math.Round(f))
	default:
		return fmt.Errorf("not a number: %v", v)
	}
	return nil
}
