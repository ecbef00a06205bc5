package curbreg

import "log"

// Logger receives every non-fatal warning the engine emits (chain order
// violations, period/rule update conflicts, dropped duplicate regulations,
// nearest-road fallbacks...). Defaults to the standard logger; callers
// building their own command surface can replace it. cmd/curblrgen leaves
// it at the default.
var Logger = log.Default()
