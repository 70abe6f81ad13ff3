package testutil

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

// Tests log everything, but only to stdout when run verbosely
func init() {
	logrus.SetLevel(logrus.TraceLevel)
	logrus.SetFormatter(&logrus.TextFormatter{
		DisableTimestamp: true,
	})

	if !isVerbose(os.Args) {
		logrus.SetOutput(io.Discard)
	}
}

func isVerbose(args []string) bool {
	for _, arg := range args {
		switch arg {
		case "-test.v", "-test.v=true", "-test.v=test2json":
			return true
		}
	}
	return false
}
