package config

import (
	"encoding/json"
	"errors"
	"math"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// ParseDuration accepts either a plain number of seconds or a Go duration string.
func ParseDuration(val string) (time.Duration, error) {

	if val = strings.TrimSpace(val); val == "" || val == "0" {
		return 0, nil
	}

	var useStdlibParser = func(val string) (time.Duration, error) {

		duration, err := time.ParseDuration(val)
		if err != nil {
			return 0, err
		} else if duration < 0 {
			return 0, errors.New("invalid duration value")
		}

		return duration, nil
	}

	for _, next := range val {
		if next < '0' || next > '9' {
			return useStdlibParser(val)
		}
	}

	seconds, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return 0, err
	} else if seconds < 0 {
		return 0, errors.New("invalid duration value")
	} else if seconds > math.MaxInt64/int64(time.Second) {
		return 0, errors.New("duration value out of range")
	}

	return time.Duration(seconds) * time.Second, nil
}

// Duration is a config value written as seconds (180) or as a duration string ("3m").
type Duration time.Duration

func (this Duration) Duration() time.Duration {
	return time.Duration(this)
}

func (this *Duration) UnmarshalYAML(node *yaml.Node) error {

	if node.Kind != yaml.ScalarNode {
		return errors.New("duration must be a scalar value")
	}

	return this.set(node.Value)
}

func (this *Duration) UnmarshalJSON(data []byte) error {

	var token any
	if err := json.Unmarshal(data, &token); err != nil {
		return err
	}

	switch val := token.(type) {
	case string:
		return this.set(val)
	case float64:
		if val < 0 {
			return errors.New("invalid duration value")
		} else if val > float64(math.MaxInt64/int64(time.Second)) {
			return errors.New("duration value out of range")
		}
		*this = Duration(time.Duration(val * float64(time.Second)))
		return nil
	case nil:
		*this = 0
		return nil
	default:
		return errors.New("duration must be a number or a string")
	}
}

func (this *Duration) set(val string) error {

	duration, err := ParseDuration(val)
	if err != nil {
		return err
	}

	*this = Duration(duration)
	return nil
}
