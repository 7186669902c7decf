package logger

import (
	"github.com/sirupsen/logrus"
)

var L = logrus.New()

func Init(level string) {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	L.SetLevel(lvl)
	L.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})
}
