package languages

import (
	"errors"
	"fmt"
)

// Tag is a platform language identifier.
type Tag string

const (
	Python     Tag = "python"
	JavaScript Tag = "javascript"
	Java       Tag = "java"
	CPP        Tag = "cpp"
	C          Tag = "c"
)

var ErrUnsupportedLanguage = errors.New("unsupported language")

// Runtime is the executor-specific runtime descriptor for a language.
type Runtime struct {
	Name    string
	Version string
}

type mapping struct {
	runtime Runtime
	// Numeric id understood by legacy executor backends.
	legacyID int
}

// The single place new languages are added.
var table = map[Tag]mapping{
	Python:     {Runtime{"python", "3.8.1"}, 71},
	JavaScript: {Runtime{"nodejs", "12.14.0"}, 63},
	Java:       {Runtime{"openjdk", "13.0.1"}, 62},
	CPP:        {Runtime{"g++", "9.2.0"}, 54},
	C:          {Runtime{"gcc", "9.2.0"}, 50},
}

// Lookup maps a platform language tag to its runtime descriptor and legacy
// executor id. Unknown tags fail with ErrUnsupportedLanguage.
func Lookup(tag Tag) (Runtime, int, error) {
	m, ok := table[tag]
	if !ok {
		return Runtime{}, 0, fmt.Errorf("%w: %q", ErrUnsupportedLanguage, tag)
	}
	return m.runtime, m.legacyID, nil
}

// Supported lists every language tag the platform accepts.
func Supported() []Tag {
	return []Tag{Python, JavaScript, Java, CPP, C}
}
