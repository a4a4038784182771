package skysim

import "errors"

// ErrSourceNotVisible reports that a source contributes no pixel above
// the signal-to-noise threshold inside the truncation disk and the
// survey field of view. Callers should test for it with errors.Is and
// skip the source; it is not a fatal condition for a batch.
var ErrSourceNotVisible = errors.New("skysim: source not visible")
