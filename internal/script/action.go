package script

import (
	"strconv"
	"strings"

	"github.com/framewave/directive/internal/logging"
)

// Sound value ranges. Out-of-range values are clamped, not rejected.
const (
	minVolume = 0.0
	maxVolume = 10.0
	minPitch  = 0.5
	maxPitch  = 2.0
)

// Default title timings, in ticks.
const (
	defaultTitleFadeIn  = 10
	defaultTitleStay    = 70
	defaultTitleFadeOut = 20
)

// ParseAction parses one action line into an Action node. The line is
// normalized first. Conditional lines ("if {...} then {...}") are routed to
// the conditional parser.
func ParseAction(line string) (Action, error) {
	return parseAction(Normalize(line), 0)
}

func parseAction(s string, depth int) (Action, error) {
	if depth > maxNestingDepth {
		return nil, parseErrorf(ErrCodeDepthExceeded, s, "action nesting exceeds %d levels", maxNestingDepth)
	}
	if s == "" {
		return nil, parseErrorf(ErrCodeEmptyInput, "", "empty action line")
	}

	if hasKeywordPrefix(s, "if") {
		return parseConditionalAction(s, depth)
	}

	typ := s
	value := ""
	if i := strings.IndexByte(s, ' '); i >= 0 {
		typ = s[:i]
		value = strings.TrimSpace(s[i+1:])
	}

	switch strings.ToLower(typ) {
	case "tell":
		if value == "" {
			return nil, parseErrorf(ErrCodeMissingValue, s, "tell requires a message")
		}
		return &TellAction{Text: value}, nil

	case "actionbar":
		if value == "" {
			return nil, parseErrorf(ErrCodeMissingValue, s, "actionbar requires a message")
		}
		return &ActionBarAction{Text: value}, nil

	case "sound":
		return parseSoundValue(value)

	case "title":
		return parseTitleValue(value)

	case "command":
		if value == "" {
			return nil, parseErrorf(ErrCodeMissingValue, s, "command requires a command line")
		}
		return &ActorCommandAction{Command: value}, nil

	case "console":
		if value == "" {
			return nil, parseErrorf(ErrCodeMissingValue, s, "console requires a command line")
		}
		return &HostCommandAction{Command: value}, nil

	case "delay":
		return parseDelayValue(value)

	case "conditional":
		return parseConditionalAction(value, depth)

	default:
		return nil, parseErrorf(ErrCodeUnknownAction, s, "unknown action type %q", typ)
	}
}

// parseSoundValue parses "name[-volume[-pitch]]". Missing parts default to
// 1.0; out-of-range parts are clamped and the clamp is logged.
func parseSoundValue(value string) (Action, error) {
	if value == "" {
		return nil, parseErrorf(ErrCodeMissingValue, "", "sound requires a sound name")
	}

	parts := strings.Split(value, "-")
	sound := &SoundAction{Name: parts[0], Volume: 1.0, Pitch: 1.0}
	if sound.Name == "" {
		return nil, parseErrorf(ErrCodeMissingValue, value, "sound requires a sound name")
	}

	if len(parts) > 1 {
		volume, err := strconv.ParseFloat(parts[1], 64)
		if err != nil {
			return nil, parseErrorf(ErrCodeBadValue, value, "invalid sound volume %q", parts[1])
		}
		sound.Volume = clamp(volume, minVolume, maxVolume, "volume", value)
	}
	if len(parts) > 2 {
		pitch, err := strconv.ParseFloat(parts[2], 64)
		if err != nil {
			return nil, parseErrorf(ErrCodeBadValue, value, "invalid sound pitch %q", parts[2])
		}
		sound.Pitch = clamp(pitch, minPitch, maxPitch, "pitch", value)
	}

	return sound, nil
}

func clamp(v, min, max float64, field, input string) float64 {
	clamped := v
	if clamped < min {
		clamped = min
	}
	if clamped > max {
		clamped = max
	}
	if clamped != v {
		logger := logging.Component("script")
		logger.Warn().
			Str("field", field).
			Float64("value", v).
			Float64("clamped", clamped).
			Str("sound", input).
			Msg("sound value out of range, clamped")
	}
	return clamped
}

// parseTitleValue parses "`title` `subtitle` [fadeIn stay fadeOut]".
// Backtick-delimited segments accumulate verbatim, including spaces;
// everything outside backticks splits on spaces into timing fields.
func parseTitleValue(value string) (Action, error) {
	if value == "" {
		return nil, parseErrorf(ErrCodeMissingValue, "", "title requires backtick-delimited text")
	}

	var segments []string
	var timings []string
	var current strings.Builder
	inBacktick := false

	flushWord := func() {
		if current.Len() > 0 {
			timings = append(timings, current.String())
			current.Reset()
		}
	}

	for _, r := range value {
		switch {
		case r == '`' && !inBacktick:
			flushWord()
			inBacktick = true
		case r == '`' && inBacktick:
			segments = append(segments, current.String())
			current.Reset()
			inBacktick = false
		case r == ' ' && !inBacktick:
			flushWord()
		default:
			current.WriteRune(r)
		}
	}
	if inBacktick {
		return nil, parseErrorf(ErrCodeBadValue, value, "unterminated backtick in title")
	}
	flushWord()

	if len(segments) < 2 {
		return nil, parseErrorf(ErrCodeBadValue, value, "title requires `title` and `subtitle` segments")
	}

	title := &TitleAction{
		Title:    segments[0],
		Subtitle: segments[1],
		FadeIn:   defaultTitleFadeIn,
		Stay:     defaultTitleStay,
		FadeOut:  defaultTitleFadeOut,
	}

	fields := []*int{&title.FadeIn, &title.Stay, &title.FadeOut}
	for i, word := range timings {
		if i >= len(fields) {
			break
		}
		ticks, err := strconv.Atoi(word)
		if err != nil {
			return nil, parseErrorf(ErrCodeBadValue, value, "invalid title timing %q", word)
		}
		*fields[i] = ticks
	}

	return title, nil
}

// parseDelayValue parses a tick count. An absent value defaults to one
// tick; a non-numeric or negative value is a parse failure.
func parseDelayValue(value string) (Action, error) {
	if value == "" {
		return &DelayAction{Ticks: 1}, nil
	}
	ticks, err := strconv.Atoi(value)
	if err != nil {
		return nil, parseErrorf(ErrCodeBadValue, value, "invalid delay tick count %q", value)
	}
	if ticks < 0 {
		return nil, parseErrorf(ErrCodeBadValue, value, "delay tick count must be non-negative")
	}
	return &DelayAction{Ticks: ticks}, nil
}

// ParseActionList parses a list of action lines, skipping lines that fail
// to parse. Each skipped line is logged with its error. This is the lenient
// entry point for configuration-driven action lists where one bad line must
// not discard its siblings.
func ParseActionList(lines []string) ActionList {
	list := make(ActionList, 0, len(lines))
	for _, line := range lines {
		action, err := ParseAction(line)
		if err != nil {
			logger := logging.Component("script")
			logger.Warn().
				Err(err).
				Str("line", line).
				Msg("skipping unparsable action line")
			continue
		}
		list = append(list, action)
	}
	return list
}

// ParseActionSource parses a single source string containing one or more
// action lines separated by top-level semicolons. Unlike ParseActionList
// this is strict: any unparsable piece fails the whole list.
func ParseActionSource(src string) (ActionList, error) {
	return parseActionSegment(Normalize(src), 0)
}

func parseActionSegment(s string, depth int) (ActionList, error) {
	pieces := splitTopLevel(s, ';', '{', '}')
	list := make(ActionList, 0, len(pieces))
	for _, piece := range pieces {
		action, err := parseAction(piece, depth)
		if err != nil {
			return nil, err
		}
		list = append(list, action)
	}
	return list, nil
}

// CheckActionLine validates one action line without keeping the parsed node.
func CheckActionLine(line string) error {
	_, err := ParseAction(line)
	return err
}

// hasKeywordPrefix reports whether s starts with the keyword followed by
// whitespace or an opening brace.
func hasKeywordPrefix(s, keyword string) bool {
	if len(s) < len(keyword) {
		return false
	}
	if !strings.EqualFold(s[:len(keyword)], keyword) {
		return false
	}
	if len(s) == len(keyword) {
		return false
	}
	next := s[len(keyword)]
	return next == ' ' || next == '{'
}
