package monitoring

import "os"

var (
	zapOsStdout = os.Stdout
	zapOsStderr = os.Stderr
)

func zapOpenFile(path string) (*os.File, error) {
	return os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
}
