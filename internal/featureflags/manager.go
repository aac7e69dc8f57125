package featureflags

import (
	"fmt"
	"hash/fnv"
	"strconv"
	"strings"
)

// Manager evaluates flags parsed from the FEATURE_FLAGS config string, a
// comma-separated key=value list such as "realtime=on,webp_uploads=25%".
// A flag is either fully on, fully off, or rolled out to a deterministic
// percentage of users.
type Manager struct {
	flags map[string]flagValue
}

type flagState uint8

const (
	stateOff flagState = iota
	stateOn
	statePercent
)

type flagValue struct {
	state   flagState
	raw     string
	percent int
}

// NewManager parses the config string. Malformed pairs are skipped rather
// than failing startup; a missing flag just evaluates to off.
func NewManager(raw string) *Manager {
	flags := make(map[string]flagValue)

	for _, pair := range strings.Split(raw, ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		name, value, found := strings.Cut(pair, "=")
		if !found {
			continue
		}
		name = canon(name)
		value = canon(value)
		if name == "" || value == "" {
			continue
		}
		if fv, ok := parseValue(value); ok {
			flags[name] = fv
		}
	}

	return &Manager{flags: flags}
}

func parseValue(value string) (flagValue, bool) {
	switch value {
	case "on", "true", "1":
		return flagValue{state: stateOn, raw: value}, true
	case "off", "false", "0":
		return flagValue{state: stateOff, raw: value}, true
	}

	if pctRaw, found := strings.CutSuffix(value, "%"); found {
		pct, err := strconv.Atoi(pctRaw)
		if err != nil {
			return flagValue{}, false
		}
		return flagValue{state: statePercent, raw: value, percent: pct}, true
	}

	return flagValue{}, false
}

// Enabled reports whether the named flag is on for the given user. Percent
// rollouts hash (flag, user) so a user keeps their cohort across requests;
// anonymous traffic (userID 0) never lands in a partial rollout.
func (m *Manager) Enabled(name string, userID uint) bool {
	if m == nil {
		return false
	}

	fv, ok := m.flags[canon(name)]
	if !ok {
		return false
	}

	switch fv.state {
	case stateOn:
		return true
	case stateOff:
		return false
	}

	if fv.percent <= 0 {
		return false
	}
	if fv.percent >= 100 {
		return true
	}
	if userID == 0 {
		return false
	}
	return cohort(name, userID) < fv.percent
}

// Raw returns the configured flag values as parsed, for diagnostics.
func (m *Manager) Raw() map[string]string {
	out := make(map[string]string, len(m.flags))
	for name, fv := range m.flags {
		out[name] = fv.raw
	}
	return out
}

// Snapshot evaluates every flag for one user, the payload of the
// feature-flags endpoint.
func (m *Manager) Snapshot(userID uint) map[string]bool {
	out := make(map[string]bool, len(m.flags))
	for name := range m.flags {
		out[name] = m.Enabled(name, userID)
	}
	return out
}

func canon(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func cohort(name string, userID uint) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(fmt.Sprintf("%s:%d", canon(name), userID)))
	return int(h.Sum32() % 100)
}
