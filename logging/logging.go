package logging

import "go.uber.org/zap"

// GetSugaredLogger builds the service logger. Debug selects the development
// encoder, otherwise JSON production output.
func GetSugaredLogger(debug bool) *zap.SugaredLogger {
	var (
		logger *zap.Logger
		err    error
	)
	if debug {
		logger, err = zap.NewDevelopment()
	} else {
		logger, err = zap.NewProduction()
	}
	if err != nil {
		panic("cannot initialize zap")
	}
	return logger.Sugar()
}
