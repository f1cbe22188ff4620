package main

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/lestrrat-go/strftime"
)

// shotPath derives an acquisition file path from a shot number and a
// strftime-style template, the same expansion samoyed uses for its
// timestamped log-rotation paths. Beyond the standard strftime verbs it
// recognizes %shot (the bare shot number) and %shot5 (zero-padded to 5
// digits), matching the original tool's "HA_<shot>.dat"-style naming.
func shotPath(template string, shot int) (string, error) {
	expanded := strings.NewReplacer(
		"%shot5", fmt.Sprintf("%05d", shot),
		"%shot", strconv.Itoa(shot),
	).Replace(template)

	path, err := strftime.Format(expanded, time.Now())
	if err != nil {
		return "", fmt.Errorf("expanding path template %q: %w", template, err)
	}
	return path, nil
}
