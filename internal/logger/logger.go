package logger

import "go.uber.org/zap"

// Log defaults to a nop logger so packages can log before Init runs
// (and so tests don't have to).
var Log = zap.NewNop()

func Init() {
	Log = zap.Must(zap.NewProduction())
}

func Sugar() *zap.SugaredLogger {
	return Log.Sugar()
}
