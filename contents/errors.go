package contents

import "errors"

// ErrReleased is returned when a closed buffer is searched or extracted.
var ErrReleased = errors.New("contents released")
