package parser

import (
	"github.com/sirupsen/logrus"
)

// parseError classifies the outcome of handling one token. Malformed markup
// never aborts a parse; every error has a recovery action already applied by
// the time the error is reported.
type parseError uint

const (
	noError parseError = iota
	generalParseError
)

// ParseErrorHandler receives every recovered parse error together with the
// token that triggered it. Handlers must not retain the token.
type ParseErrorHandler func(err parseError, t *Token)

// logParseError is the default handler: a debug-level log line and nothing
// else. Recovery has already happened, so there is no control flow here.
func logParseError(err parseError, t *Token) {
	if err == noError {
		return
	}
	logrus.WithFields(logrus.Fields{
		"token": t.TokenType,
		"tag":   t.TagName,
	}).Debug("recovered parse error")
}

// htmlParserConfig carries the per-parse knobs.
type htmlParserConfig struct {
	scriptingEnabled bool
	errorHandler     ParseErrorHandler
	finishedHandler  func()
}

func defaultConfig() htmlParserConfig {
	return htmlParserConfig{
		scriptingEnabled: true,
		errorHandler:     logParseError,
	}
}

// Option adjusts the parser configuration.
type Option func(*htmlParserConfig)

// WithScripting toggles the scripting flag, which changes how <noscript> is
// parsed inside <head>.
func WithScripting(enabled bool) Option {
	return func(c *htmlParserConfig) { c.scriptingEnabled = enabled }
}

// WithParseErrorHandler installs a handler for recovered parse errors.
func WithParseErrorHandler(h ParseErrorHandler) Option {
	return func(c *htmlParserConfig) {
		if h != nil {
			c.errorHandler = h
		}
	}
}

// WithFinishedHandler installs a hook invoked once the document has finished
// parsing and the open element stack has been drained.
func WithFinishedHandler(h func()) Option {
	return func(c *htmlParserConfig) { c.finishedHandler = h }
}
