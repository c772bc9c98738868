package ruleengine

import "github.com/sirupsen/logrus"

// Logger is the package-level structured logger used for hot-reload
// swaps and compile failures. It is never consulted on the VM's
// execution path, which does no logging.
var Logger = logrus.New()

func init() {
	Logger.SetFormatter(&logrus.TextFormatter{})
}

// ReloadWithLogging wraps Engine.Reload, logging the outcome at Info
// (success) or Warn (compile failure, old program kept serving).
func (e *Engine) ReloadWithLogging(src string) error {
	err := e.Reload(src)
	if err != nil {
		Logger.WithError(err).Warn("rule engine hot reload failed, keeping previous program")
		return err
	}
	Logger.WithField("rules", len(e.RulesMetadata())).Info("rule engine hot reload succeeded")
	return nil
}
