package log

import "io"

// CloseAndLogError closes the given closer and logs (as a warning) a failure to do so.
func CloseAndLogError(closer io.Closer, location string) {
	if closer == nil {
		Debugf("no closer provided when attempting to close: %v", location)
		return
	}
	if err := closer.Close(); err != nil {
		Warnf("failed to close %v due to: %v", location, err)
	}
}
