package logger

import (
	"fmt"

	"go.uber.org/zap"
)

// New builds the application logger. Production mode emits JSON at info level,
// anything else gets the human-readable development config at debug level.
func New(isProduction bool) (*zap.Logger, error) {
	var (
		l   *zap.Logger
		err error
	)
	if isProduction {
		l, err = zap.NewProduction()
	} else {
		l, err = zap.NewDevelopment()
	}
	if err != nil {
		return nil, fmt.Errorf("build logger failed: %w", err)
	}
	return l, nil
}
