// Package process groups renderer subprocesses and tears them down on timeout.
package process
