package audio

import "errors"

var (
	// ErrUnsupportedFormat is returned for a file extension no decoder handles.
	ErrUnsupportedFormat = errors.New("audio: unsupported format")
	// ErrNoTrack is returned by playback controls when nothing is loaded.
	ErrNoTrack = errors.New("audio: no track loaded")
	// ErrMicUnavailable wraps failures to open the default input device.
	ErrMicUnavailable = errors.New("audio: microphone unavailable")
)
