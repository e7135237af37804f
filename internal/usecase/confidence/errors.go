package confidence

import "errors"

// ErrUnknownAsset marks a request for an asset id absent from configuration.
var ErrUnknownAsset = errors.New("unknown asset id")
