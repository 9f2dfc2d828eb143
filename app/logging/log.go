package logging

import (
	"esxi-stats/app/utils/intutils"
	"esxi-stats/app/utils/stringutils"
	"esxi-stats/config"
	"fmt"
	"github.com/natefinch/lumberjack"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"os"
	"strings"
)

// nop until Setup runs
var log = zap.NewNop()

var settingLevel = zapcore.InfoLevel

func Setup() {
	var coreArr []zapcore.Core
	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	encoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	if config.G.Server.Log.EnableFullPath {
		encoderConfig.EncodeCaller = zapcore.FullCallerEncoder
	}
	encoder := zapcore.NewConsoleEncoder(encoderConfig)

	level, err := zapcore.ParseLevel(config.G.Server.Log.Level)
	if err != nil {
		fmt.Printf("invalid log level, falling back to %s\n", zapcore.InfoLevel.String())
		level = zapcore.InfoLevel
	}
	settingLevel = level
	priority := zap.LevelEnablerFunc(func(lev zapcore.Level) bool {
		return lev >= level
	})

	fileWriteSyncer := zapcore.AddSync(&lumberjack.Logger{
		Filename:   stringutils.EPTThen(strings.TrimSuffix(config.G.Server.Log.Path, "/"), ".") + "/esxi-stats.log",
		MaxSize:    intutils.ZeroThen(config.G.Server.Log.MaxSize, 1), // MB
		MaxBackups: intutils.ZeroThen(config.G.Server.Log.MaxBackups, 10),
		MaxAge:     intutils.ZeroThen(config.G.Server.Log.MaxAge, 7), // days
		Compress:   false,
	})
	fileCore := zapcore.NewCore(encoder, zapcore.NewMultiWriteSyncer(fileWriteSyncer, zapcore.AddSync(os.Stdout)), priority)
	coreArr = append(coreArr, fileCore)
	log = zap.New(zapcore.NewTee(coreArr...), zap.AddCaller())
}

// Use replaces the process logger, mostly for tests.
func Use(l *zap.Logger, level zapcore.Level) {
	log = l
	settingLevel = level
}

func L() *zap.SugaredLogger {
	return log.Sugar()
}

func IsDebug() bool {
	return settingLevel == zapcore.DebugLevel
}

func Sync() {
	err := log.Sync()
	if err != nil {
		fmt.Println(err)
		return
	}
}
