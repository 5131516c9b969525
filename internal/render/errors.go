package render

import "errors"

var (
	ErrUnknownMode = errors.New("unknown visual mode")
	ErrFrameFault  = errors.New("frame aborted")
)
