package errors

import (
	"errors"
)

var (
	ErrModelNotLoaded = errors.New("model is not loaded yet; batch properties are only available after load")
)
